package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os/exec"
	"strconv"

	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/metrics"
)

// DefaultTargetFrames is the number of frames sampled per asset.
const DefaultTargetFrames = 300

// SampleIndices returns the frame positions for evenly spaced sampling:
// floor(i * totalFrames / targetFrames) for i in [0, targetFrames).
// Positions may repeat when the video has fewer frames than the target.
func SampleIndices(totalFrames, targetFrames int) []int {
	if totalFrames <= 0 || targetFrames <= 0 {
		return nil
	}
	indices := make([]int, targetFrames)
	for i := 0; i < targetFrames; i++ {
		indices[i] = i * totalFrames / targetFrames
	}
	return indices
}

// SampleFrames reads targetFrames evenly spaced frames from a video. A
// read failure at a sampled position is logged and the position skipped,
// so the returned count may be below the target; zero frames is reported
// with a warning and an empty slice, not an error.
func (e *Executor) SampleFrames(ctx context.Context, info *VideoInfo, targetFrames int) []image.Image {
	indices := SampleIndices(info.TotalFrames, targetFrames)

	frames := make([]image.Image, 0, len(indices))
	for _, idx := range indices {
		frame, err := e.readFrame(ctx, info, idx)
		if err != nil {
			metrics.FrameReadFailuresTotal.Inc()
			e.logger.Warn("Failed to read frame",
				zap.String("path", info.Path),
				zap.Int("position", idx),
				zap.Error(err),
			)
			continue
		}
		metrics.FramesSampledTotal.Inc()
		frames = append(frames, frame)
	}

	if len(frames) == 0 {
		e.logger.Warn("No frames extracted from video", zap.String("path", info.Path))
	}
	return frames
}

// readFrame seeks to the frame position by timestamp and decodes a single
// JPEG from the ffmpeg pipe.
func (e *Executor) readFrame(ctx context.Context, info *VideoInfo, index int) (image.Image, error) {
	fps := info.FPS
	if fps <= 0 {
		return nil, fmt.Errorf("unknown frame rate for %s", info.Path)
	}
	ts := float64(index) / fps

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", strconv.FormatFloat(ts, 'f', 4, 64),
		"-i", info.Path,
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame read: %w", err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("no frame data at position %d", index)
	}

	img, err := jpeg.Decode(bytes.NewReader(output))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}
