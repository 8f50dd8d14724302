package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/domain"
	"github.com/clipdex/clipdex/internal/similarity"
)

type mockSummarizer struct {
	prompt string
	reply  string
	err    error
}

func (m *mockSummarizer) Summarize(_ context.Context, content string) (string, error) {
	m.prompt = content
	return m.reply, m.err
}

func TestRun_FiltersAtReportThresholds(t *testing.T) {
	sum := &mockSummarizer{reply: "merge them"}
	svc := New(sum, zap.NewNop())

	_, err := svc.Run(context.Background(), Input{
		VideoSimilarities: similarity.Matrix{
			"a.mp4 vs b.mp4": 0.995, // >= 0.99, kept
			"a.mp4 vs c.mp4": 0.97,  // below the video threshold, dropped
		},
		SceneSimilarities: similarity.Matrix{
			"a.mp4 vs c.mp4": 0.96, // >= 0.95, kept
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(sum.prompt, "a.mp4 vs b.mp4") {
		t.Fatal("pair above the video threshold must reach the prompt")
	}
	if strings.Contains(sum.prompt, `Video Similarities: {"a.mp4 vs c.mp4"`) {
		t.Fatal("pair below the video threshold must be filtered out")
	}
	if !strings.Contains(sum.prompt, `Scene Similarities: {"a.mp4 vs c.mp4"`) {
		t.Fatal("pair above the scene threshold must reach the prompt")
	}
}

func TestRun_ReturnsSuggestions(t *testing.T) {
	sum := &mockSummarizer{reply: "deduplicate a and b"}
	svc := New(sum, zap.NewNop())

	got, err := svc.Run(context.Background(), Input{
		Metadata: map[string]domain.MetadataRecord{
			"a.mp3": {OriginalTextLength: 10, EmbeddingDimensions: 3, Duration: 5},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "deduplicate a and b" {
		t.Fatalf("unexpected suggestions: %q", got)
	}
	if !strings.Contains(sum.prompt, "reduce storage size") {
		t.Fatal("prompt must carry the analysis instruction")
	}
}

func TestRun_SummarizerFailure(t *testing.T) {
	sum := &mockSummarizer{err: errors.New("rate limited")}
	svc := New(sum, zap.NewNop())

	if _, err := svc.Run(context.Background(), Input{}); err == nil {
		t.Fatal("expected summarizer error to propagate")
	}
}

func TestBuildPrompt_ProportionalTruncation(t *testing.T) {
	svc := New(&mockSummarizer{}, zap.NewNop()).WithPromptBudget(300)

	metadata := map[string]domain.MetadataRecord{}
	for _, key := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		metadata[key+".mp3"] = domain.MetadataRecord{
			OriginalTextLength:  5000,
			EmbeddingDimensions: 1536,
			Fingerprint:         strings.Repeat(key, 64),
			Duration:            120,
		}
	}
	video := similarity.Matrix{}
	for _, pair := range []string{"a vs b", "c vs d", "e vs f"} {
		video[pair] = 0.999
	}

	prompt, err := svc.buildPrompt(metadata, video, similarity.Matrix{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dataLen := len(prompt) - len(analysisInstruction)
	// Three ellipsis markers at most beyond the budget.
	if dataLen > 300+3*len("...")+len("Metadata: , Video Similarities: , Scene Similarities: . ") {
		t.Fatalf("sections not truncated into the budget: %d data chars", dataLen)
	}
	if !strings.Contains(prompt, "...") {
		t.Fatal("expected an ellipsis marking the truncation")
	}
}

func TestBuildPrompt_NoTruncationUnderBudget(t *testing.T) {
	svc := New(&mockSummarizer{}, zap.NewNop())

	prompt, err := svc.buildPrompt(
		map[string]domain.MetadataRecord{"a.mp3": {Duration: 1}},
		similarity.Matrix{"a-b": 0.99},
		similarity.Matrix{},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(prompt, "...") {
		t.Fatal("small sections must not be truncated")
	}
}

func TestFormatPairs(t *testing.T) {
	got := FormatPairs(similarity.Matrix{
		"b vs c": 0.97,
		"a vs b": 0.99,
	}, "video")

	want := "Essentially identical video pairs:\na vs b: 0.99\nb vs c: 0.97"
	if got != want {
		t.Fatalf("unexpected listing:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestFormatPairs_Empty(t *testing.T) {
	got := FormatPairs(similarity.Matrix{}, "scene")
	if got != "No essentially identical scene pairs found." {
		t.Fatalf("unexpected empty listing: %q", got)
	}
}
