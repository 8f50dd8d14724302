// Package similarity computes all-pairs cosine similarity over asset
// embeddings and filters the resulting matrix against a threshold.
package similarity

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/domain"
	"github.com/clipdex/clipdex/internal/metrics"
)

// Matrix maps a canonical pair identifier to a similarity score. A matrix
// is owned by the run that produced it and must not be mutated once built.
type Matrix map[string]float64

// Engine computes pairwise cosine similarity across a working set.
// Comparisons run sequentially over the O(N^2) pair space; acceptable for
// tens to low hundreds of assets.
type Engine struct {
	sep    string
	logger *zap.Logger
}

// NewEngine creates a similarity engine. Pair keys default to "a-b".
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{sep: "-", logger: logger}
}

// WithPairSeparator overrides the separator in serialized pair keys
// (the visual report path uses " vs ").
func (e *Engine) WithPairSeparator(sep string) *Engine {
	e.sep = sep
	return e
}

// PairKey builds the canonical identifier for an unordered pair. The two
// keys appear in first-encountered order, kept consistent within one run.
func (e *Engine) PairKey(a, b string) string {
	return a + e.sep + b
}

// CompareAll computes cosine similarity for every unordered pair of
// distinct keys, with a preceding b in the given iteration order. A pair
// whose vectors come from different extractor configurations is rejected
// and logged; the rest of the batch continues. An empty vector on either
// side yields the defined fallback score of 0, not an error.
func (e *Engine) CompareAll(keys []string, vectors map[string][]float32) Matrix {
	matrix := make(Matrix, len(keys)*(len(keys)-1)/2)

	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			a, b := keys[i], keys[j]

			score, err := Cosine(vectors[a], vectors[b])
			if err != nil {
				metrics.PairsRejectedTotal.WithLabelValues("dimension_mismatch").Inc()
				e.logger.Error("Rejected pair comparison",
					zap.String("pair", e.PairKey(a, b)),
					zap.Int("left_dimensions", len(vectors[a])),
					zap.Int("right_dimensions", len(vectors[b])),
					zap.Error(err),
				)
				continue
			}
			if len(vectors[a]) == 0 || len(vectors[b]) == 0 {
				e.logger.Warn("Empty feature vector, defaulting similarity to 0",
					zap.String("pair", e.PairKey(a, b)),
				)
			}

			metrics.PairsComparedTotal.Inc()
			matrix[e.PairKey(a, b)] = score
		}
	}

	return matrix
}

// Cosine returns the cosine similarity of two vectors:
// (x . y) / (|x| * |y|). If either vector is empty the defined similarity
// is 0 ("no evidence of similarity"), never an error. Vectors of different
// non-zero lengths were produced by different extractor configurations and
// are rejected with domain.ErrDimensionMismatch rather than silently
// truncated.
func Cosine(x, y []float32) (float64, error) {
	if len(x) == 0 || len(y) == 0 {
		return 0, nil
	}
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(x), len(y))
	}

	var dot, normX, normY float64
	for i := range x {
		dot += float64(x[i]) * float64(y[i])
		normX += float64(x[i]) * float64(x[i])
		normY += float64(y[i]) * float64(y[i])
	}
	if normX == 0 || normY == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normX) * math.Sqrt(normY)), nil
}

// Flatten concatenates a per-frame feature sequence into one 1-D vector
// (frame count x per-frame dimensionality) for whole-asset comparison.
func Flatten(seq [][]float32) []float32 {
	total := 0
	for _, f := range seq {
		total += len(f)
	}
	flat := make([]float32, 0, total)
	for _, f := range seq {
		flat = append(flat, f...)
	}
	return flat
}
