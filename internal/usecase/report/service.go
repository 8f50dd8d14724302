// Package report assembles the near-duplicate analysis request: it filters
// the similarity matrices at the report thresholds, formats a
// human-readable pair listing, fits the sections into the prompt budget by
// proportional truncation, and sends one summarization call.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/domain"
	"github.com/clipdex/clipdex/internal/similarity"
)

const analysisInstruction = "Analyze this data to identify all pairs of assets (both video and scene) " +
	"with a similarity score of 0.95 or higher. " +
	"List each pair explicitly and provide suggestions on how to reduce storage size for these similar assets. " +
	"Also, recommend additional metadata that might help in identifying similar assets, " +
	"focusing on attributes that can enhance retrieval efficiency."

// Input carries everything the analysis request is built from. Matrices
// arrive unfiltered; the service applies its own report thresholds.
type Input struct {
	Metadata          map[string]domain.MetadataRecord
	VideoSimilarities similarity.Matrix
	SceneSimilarities similarity.Matrix
}

// Service builds and sends the storage-optimization analysis request.
type Service struct {
	summarizer     Summarizer
	logger         *zap.Logger
	maxPromptChars int
	videoThreshold float64
	sceneThreshold float64
}

// New creates a report service with the default prompt budget (7000 chars)
// and report thresholds (0.99 video, 0.95 scene).
func New(summarizer Summarizer, logger *zap.Logger) *Service {
	return &Service{
		summarizer:     summarizer,
		logger:         logger,
		maxPromptChars: 7000,
		videoThreshold: 0.99,
		sceneThreshold: 0.95,
	}
}

// WithPromptBudget overrides the character budget for the data sections.
func (s *Service) WithPromptBudget(n int) *Service {
	if n > 0 {
		s.maxPromptChars = n
	}
	return s
}

// WithThresholds overrides the video and scene report thresholds.
func (s *Service) WithThresholds(video, scene float64) *Service {
	s.videoThreshold = video
	s.sceneThreshold = scene
	return s
}

// Run filters, formats, and sends the analysis request, returning the
// model's free-text suggestions.
func (s *Service) Run(ctx context.Context, in Input) (string, error) {
	filteredVideo := similarity.Filter(in.VideoSimilarities, s.videoThreshold)
	filteredScene := similarity.Filter(in.SceneSimilarities, s.sceneThreshold)

	s.logger.Info("Filtered similarity pairs for report",
		zap.Int("video_pairs", len(filteredVideo)),
		zap.Float64("video_threshold", s.videoThreshold),
		zap.Int("scene_pairs", len(filteredScene)),
		zap.Float64("scene_threshold", s.sceneThreshold),
	)
	s.logger.Info(FormatPairs(filteredVideo, "video"))
	s.logger.Info(FormatPairs(filteredScene, "scene"))

	prompt, err := s.buildPrompt(in.Metadata, filteredVideo, filteredScene)
	if err != nil {
		return "", err
	}

	suggestions, err := s.summarizer.Summarize(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize report: %w", err)
	}
	return suggestions, nil
}

// buildPrompt serializes the three data sections, truncates them
// proportionally into the prompt budget, and appends the analysis
// instruction.
func (s *Service) buildPrompt(
	metadata map[string]domain.MetadataRecord, video, scene similarity.Matrix,
) (string, error) {
	metadataStr, err := marshalSection(metadata)
	if err != nil {
		return "", err
	}
	videoStr, err := marshalSection(video)
	if err != nil {
		return "", err
	}
	sceneStr, err := marshalSection(scene)
	if err != nil {
		return "", err
	}

	total := len(metadataStr) + len(videoStr) + len(sceneStr)
	if total > s.maxPromptChars {
		metadataStr = truncateShare(metadataStr, s.maxPromptChars, total)
		videoStr = truncateShare(videoStr, s.maxPromptChars, total)
		sceneStr = truncateShare(sceneStr, s.maxPromptChars, total)
	}

	return fmt.Sprintf(
		"Metadata: %s, Video Similarities: %s, Scene Similarities: %s. %s",
		metadataStr, videoStr, sceneStr, analysisInstruction,
	), nil
}

// FormatPairs renders a filtered matrix as a human-readable listing, pairs
// in sorted order.
func FormatPairs(matrix similarity.Matrix, similarityType string) string {
	if len(matrix) == 0 {
		return fmt.Sprintf("No essentially identical %s pairs found.", similarityType)
	}

	pairs := make([]string, 0, len(matrix))
	for pair := range matrix {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	var b strings.Builder
	fmt.Fprintf(&b, "Essentially identical %s pairs:", similarityType)
	for _, pair := range pairs {
		fmt.Fprintf(&b, "\n%s: %g", pair, matrix[pair])
	}
	return b.String()
}

func marshalSection(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal report section: %w", err)
	}
	return string(data), nil
}

// truncateShare cuts a section to its proportional share of the budget,
// marking the cut with an ellipsis.
func truncateShare(section string, budget, total int) string {
	limit := budget * len(section) / total
	if limit >= len(section) {
		return section
	}
	return section[:limit] + "..."
}
