// Package textproc holds transcript normalization and chunking helpers.
package textproc

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Normalize lowercases text and collapses every maximal run of non-word
// characters to a single space. Assets compared together must all pass
// through the same normalization before embedding.
func Normalize(text string) string {
	return nonWord.ReplaceAllString(strings.ToLower(text), " ")
}

// Chunk splits text into pieces of at most maxChars characters for
// translation providers with length limits. Boundaries always fall on
// whitespace, never mid-word: each split point is the last space within
// the limit, falling back to a hard cut only when a single word exceeds
// maxChars. The boundary space itself is dropped, so rejoining the chunks
// with a single space reproduces the original word sequence.
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	runes := []rune(text)
	var chunks []string

	for len(runes) > maxChars {
		split := lastSpaceBefore(runes, maxChars)
		if split == -1 {
			split = maxChars
		}
		chunks = append(chunks, string(runes[:split]))
		runes = trimLeadingSpace(runes[split:])
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func lastSpaceBefore(runes []rune, limit int) int {
	for i := limit - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

func trimLeadingSpace(runes []rune) []rune {
	i := 0
	for i < len(runes) && (runes[i] == ' ' || runes[i] == '\t' || runes[i] == '\n' || runes[i] == '\r') {
		i++
	}
	return runes[i:]
}
