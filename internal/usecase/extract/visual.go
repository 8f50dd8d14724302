package extract

import (
	"context"
	"image"
	"path/filepath"
	"sync"

	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/media"
	"github.com/clipdex/clipdex/internal/metrics"
)

// VideoService samples frames from video assets and encodes them into
// per-frame feature sequences. Sequences keep frame order and are not
// aggregated; flattening for whole-asset comparison happens in the
// similarity engine.
type VideoService struct {
	frames       FrameSource
	featurizer   Featurizer
	logger       *zap.Logger
	targetFrames int
	workers      int
}

// NewVideoService creates a visual extraction service.
func NewVideoService(frames FrameSource, featurizer Featurizer, logger *zap.Logger) *VideoService {
	return &VideoService{
		frames:       frames,
		featurizer:   featurizer,
		logger:       logger,
		targetFrames: media.DefaultTargetFrames,
		workers:      1,
	}
}

// WithTargetFrames overrides the per-asset frame sample count.
func (s *VideoService) WithTargetFrames(n int) *VideoService {
	if n > 0 {
		s.targetFrames = n
	}
	return s
}

// WithWorkers bounds concurrent per-video frame sampling.
func (s *VideoService) WithWorkers(n int) *VideoService {
	if n > 0 {
		s.workers = n
	}
	return s
}

// ExtractAll samples and encodes every named video under dir. The returned
// map holds one feature sequence per successfully sampled asset, keyed by
// file name; a video that fails to probe is logged and skipped, and a
// video yielding zero frames keeps an empty sequence so the comparison
// stage can apply its defined zero-similarity fallback.
func (s *VideoService) ExtractAll(
	ctx context.Context, dir string, names []string,
) map[string][][]float32 {
	sampled := s.sampleAll(ctx, dir, names)

	// The autoencoder backbone trains on the union of the run's frames
	// before any signature is produced.
	if trainer, ok := s.featurizer.(FrameTrainer); ok {
		var all []image.Image
		for _, name := range names {
			all = append(all, sampled[name]...)
		}
		s.logger.Info("Training signature model on sampled frames", zap.Int("frames", len(all)))
		trainer.TrainFrames(all)
	}

	sequences := make(map[string][][]float32, len(sampled))
	for name, frames := range sampled {
		seq := make([][]float32, 0, len(frames))
		for _, frame := range frames {
			seq = append(seq, s.featurizer.Features(frame))
		}
		sequences[name] = seq
		metrics.AssetsProcessedTotal.WithLabelValues("visual").Inc()
	}
	return sequences
}

// sampleAll probes and samples each video, resized to the backbone input
// size. Probe failure drops the video from the result.
func (s *VideoService) sampleAll(
	ctx context.Context, dir string, names []string,
) map[string][]image.Image {
	type item struct {
		name   string
		frames []image.Image
		ok     bool
	}

	items := make([]item, len(names))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	for i, name := range names {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()

			info, err := s.frames.Probe(ctx, filepath.Join(dir, name))
			if err != nil {
				metrics.AssetsFailedTotal.WithLabelValues("visual", "probe_error").Inc()
				s.logger.Warn("Video probe failed",
					zap.String("asset", name),
					zap.Error(err),
				)
				return
			}

			side := uint(s.featurizer.InputSize())
			frames := s.frames.SampleFrames(ctx, info, s.targetFrames)
			resized := make([]image.Image, len(frames))
			for j, frame := range frames {
				resized[j] = resize.Resize(side, side, frame, resize.Bilinear)
			}
			items[i] = item{name: name, frames: resized, ok: true}
		}(i, name)
	}
	wg.Wait()

	sampled := make(map[string][]image.Image, len(items))
	for _, it := range items {
		if it.ok {
			sampled[it.name] = it.frames
		}
	}
	return sampled
}
