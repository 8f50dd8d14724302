package similarity

// Filter retains every matrix entry with score >= threshold. Pure
// selection: entries are never modified, and the input matrix is left
// untouched. The result is built fresh per threshold value and never
// cached; callers log the retained count (len of the result).
func Filter(matrix Matrix, threshold float64) Matrix {
	filtered := make(Matrix)
	for pair, score := range matrix {
		if score >= threshold {
			filtered[pair] = score
		}
	}
	return filtered
}
