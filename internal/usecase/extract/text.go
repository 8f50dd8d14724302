// Package extract builds the per-asset feature representations the
// similarity engine compares: text embeddings over translated transcripts
// and per-frame feature sequences over sampled video frames. Every
// per-asset failure is contained in an explicit outcome; only an empty
// working set aborts a run.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/domain"
	"github.com/clipdex/clipdex/internal/fingerprint"
	"github.com/clipdex/clipdex/internal/metrics"
	"github.com/clipdex/clipdex/internal/textproc"
)

// TextService turns transcription records into embedded, fingerprinted
// assets.
type TextService struct {
	embedder Embedder
	prober   Prober
	logger   *zap.Logger
	audioDir string
	workers  int
}

// NewTextService creates a text extraction service. prober may be nil when
// no audio files are available for duration lookup.
func NewTextService(embedder Embedder, prober Prober, logger *zap.Logger) *TextService {
	return &TextService{
		embedder: embedder,
		prober:   prober,
		logger:   logger,
		workers:  1,
	}
}

// WithAudioDir sets the directory holding the audio files the records were
// transcribed from, enabling duration metadata.
func (s *TextService) WithAudioDir(dir string) *TextService {
	s.audioDir = dir
	return s
}

// WithWorkers bounds concurrent per-asset extraction. 1 keeps the original
// sequential behavior.
func (s *TextService) WithWorkers(n int) *TextService {
	if n > 0 {
		s.workers = n
	}
	return s
}

// ExtractAll processes every transcription record and returns one outcome
// per asset, in sorted key order. A failed asset never aborts the batch:
// its outcome carries the error and the loop continues.
func (s *TextService) ExtractAll(
	ctx context.Context, records map[string]domain.TranscriptionRecord,
) []domain.ExtractOutcome {
	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	outcomes := make([]domain.ExtractOutcome, len(keys))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	for i, key := range keys {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, key string) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = s.extractOne(ctx, key, records[key])
		}(i, key)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.OK() {
			metrics.AssetsProcessedTotal.WithLabelValues("text").Inc()
			continue
		}
		metrics.AssetsFailedTotal.WithLabelValues("text", failReason(o.Err)).Inc()
		s.logger.Warn("Asset extraction failed",
			zap.String("asset", o.Key),
			zap.Error(o.Err),
		)
	}

	return outcomes
}

// extractOne builds one asset: pick the comparison text, normalize, embed,
// fingerprint, and probe duration. Duration lookup failure is metadata
// loss, not an extraction failure.
func (s *TextService) extractOne(
	ctx context.Context, key string, rec domain.TranscriptionRecord,
) domain.ExtractOutcome {
	text := rec.Original
	if text == "" {
		text = rec.Translated
	}
	if text == "" {
		return domain.ExtractOutcome{
			Key: key,
			Err: fmt.Errorf("transcription record for %s has no text: %w", key, domain.ErrMissingInput),
		}
	}

	asset := domain.NewAsset(key)
	asset.Transcript = text
	asset.Normalized = textproc.Normalize(text)

	result, err := s.embedder.Embed(ctx, asset.Normalized)
	if err != nil {
		return domain.ExtractOutcome{Key: key, Err: fmt.Errorf("embed asset %s: %w", key, err)}
	}
	asset.AttachEmbedding(result.Embedding)
	asset.AttachFingerprint(fingerprint.Sum(result.Embedding))

	if s.prober != nil && s.audioDir != "" {
		dur, err := s.prober.ProbeDuration(ctx, filepath.Join(s.audioDir, key))
		if err != nil {
			s.logger.Warn("Duration probe failed",
				zap.String("asset", key),
				zap.Error(err),
			)
		} else {
			asset.Duration = dur
		}
	}

	return domain.ExtractOutcome{Key: key, Asset: asset}
}

// failReason maps an outcome error to a stable metric label.
func failReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrMissingInput):
		return "missing_input"
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		return "provider_error"
	default:
		return "other"
	}
}
