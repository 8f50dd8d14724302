package domain

import "errors"

var (
	// ErrNoAssets signals an empty working set. The only unrecoverable
	// configuration error: everything else is contained per asset or per pair.
	ErrNoAssets = errors.New("no assets found")
	// ErrMissingInput signals a transcription record without the required field.
	ErrMissingInput = errors.New("missing required input")
	// ErrDimensionMismatch signals vectors from different extractor configurations.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrExternalService signals a transcription, translation, or summarization failure.
	ErrExternalService = errors.New("external service error")
)
