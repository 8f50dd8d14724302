package extract

import (
	"context"
	"image"

	"github.com/clipdex/clipdex/internal/domain"
	"github.com/clipdex/clipdex/internal/media"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Prober reads the duration of a media file.
type Prober interface {
	ProbeDuration(ctx context.Context, filePath string) (float64, error)
}

// FrameSource probes a video container and samples frames from it.
type FrameSource interface {
	Probe(ctx context.Context, filePath string) (*media.VideoInfo, error)
	SampleFrames(ctx context.Context, info *media.VideoInfo, targetFrames int) []image.Image
}

// Featurizer converts one resized frame into a fixed-length feature vector.
type Featurizer interface {
	Features(img image.Image) []float32
	InputSize() int
	Dim() int
}

// FrameTrainer is implemented by featurizers that learn from the run's own
// frames before encoding (the autoencoder backbone). The grid descriptor
// does not implement it.
type FrameTrainer interface {
	TrainFrames(frames []image.Image)
}
