package report

import "context"

// Summarizer sends the assembled similarity report to a hosted chat model.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}
