// Package media wraps the external media decoder (ffmpeg/ffprobe) used
// for probing containers, sampling frames, and extracting audio tracks.
// All calls are thin and per-item: a failure on one file or one frame
// position never aborts a batch.
package media

import (
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Executor runs ffmpeg and ffprobe commands.
type Executor struct {
	logger      *zap.Logger
	ffmpegPath  string
	ffprobePath string
}

// NewExecutor resolves the ffmpeg and ffprobe binaries from PATH.
func NewExecutor(logger *zap.Logger) (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger,
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}, nil
}
