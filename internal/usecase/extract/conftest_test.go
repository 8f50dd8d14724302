package extract

import (
	"context"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/clipdex/clipdex/internal/domain"
	"github.com/clipdex/clipdex/internal/media"
)

// mockEmbedder returns a vector derived from the input length so tests can
// tell inputs apart, or a fixed error for inputs matching failOn.
type mockEmbedder struct {
	mu     sync.Mutex
	failOn string
	err    error
	calls  int
	inputs []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	m.calls++
	m.inputs = append(m.inputs, text)
	m.mu.Unlock()
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{
		Embedding:   []float32{float32(len(text)), 1, 2},
		TotalTokens: len(text),
	}, nil
}

type mockProber struct {
	duration float64
	err      error
	paths    []string
}

func (m *mockProber) ProbeDuration(_ context.Context, filePath string) (float64, error) {
	m.paths = append(m.paths, filePath)
	return m.duration, m.err
}

// mockFrameSource serves a fixed number of solid frames per video and
// fails probing for paths matching failOn.
type mockFrameSource struct {
	frameCount map[string]int // by file name suffix
	frameSide  int
	failOn     string
}

func (m *mockFrameSource) Probe(_ context.Context, filePath string) (*media.VideoInfo, error) {
	if m.failOn != "" && strings.Contains(filePath, m.failOn) {
		return nil, context.DeadlineExceeded
	}
	return &media.VideoInfo{Path: filePath, Duration: 10, FPS: 30, TotalFrames: 300}, nil
}

func (m *mockFrameSource) SampleFrames(_ context.Context, info *media.VideoInfo, _ int) []image.Image {
	n := 0
	for suffix, count := range m.frameCount {
		if strings.HasSuffix(info.Path, suffix) {
			n = count
		}
	}
	frames := make([]image.Image, n)
	for i := range frames {
		frames[i] = solidFrame(m.frameSide, color.RGBA{R: uint8(40 * i), G: 90, B: 160, A: 255})
	}
	return frames
}

func solidFrame(side int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// stubFeaturizer records training and encodes every frame to a constant
// vector.
type stubFeaturizer struct {
	dim        int
	inputSize  int
	trainedOn  int
	trainCalls int
}

func (s *stubFeaturizer) Features(_ image.Image) []float32 { return make([]float32, s.dim) }
func (s *stubFeaturizer) InputSize() int                   { return s.inputSize }
func (s *stubFeaturizer) Dim() int                         { return s.dim }

func (s *stubFeaturizer) TrainFrames(frames []image.Image) {
	s.trainCalls++
	s.trainedOn = len(frames)
}
