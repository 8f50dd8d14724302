package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage through the
// decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Transcriber converts an audio file into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Translator translates one chunk of text. Chunking to provider length
// limits is the caller's responsibility.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Summarizer sends the assembled similarity report to a hosted chat model
// and returns its free-text analysis.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}
