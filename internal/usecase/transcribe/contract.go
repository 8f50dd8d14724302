package transcribe

import "context"

// Transcriber converts an audio file into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Translator translates one chunk of text.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}
