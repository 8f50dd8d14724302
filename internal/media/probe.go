package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// VideoInfo holds the container metadata the pipeline needs: duration for
// asset metadata, frame count and rate for sampling.
type VideoInfo struct {
	Path        string
	Duration    float64 // seconds
	FPS         float64
	TotalFrames int
	Width       int
	Height      int
}

// Probe extracts metadata from a media file via ffprobe.
func (e *Executor) Probe(ctx context.Context, filePath string) (*VideoInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required")
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	}

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &VideoInfo{Path: filePath}

	if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = dur
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		info.Width = stream.Width
		info.Height = stream.Height
		if stream.RFrameRate != "" {
			info.FPS = parseFrameRate(stream.RFrameRate)
		}
		if n, err := strconv.Atoi(stream.NbFrames); err == nil {
			info.TotalFrames = n
		}
		break
	}

	// Containers without nb_frames: estimate from duration and rate.
	if info.TotalFrames == 0 && info.FPS > 0 {
		info.TotalFrames = int(info.Duration * info.FPS)
	}

	return info, nil
}

// ProbeDuration returns only the duration in seconds, for audio files.
func (e *Executor) ProbeDuration(ctx context.Context, filePath string) (float64, error) {
	info, err := e.Probe(ctx, filePath)
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}

// probeResult matches ffprobe JSON output structure.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		NbFrames   string `json:"nb_frames"`
	} `json:"streams"`
}

// parseFrameRate converts ffprobe's "30000/1001" rational form to a float.
func parseFrameRate(s string) float64 {
	var num, den float64
	if n, err := fmt.Sscanf(s, "%f/%f", &num, &den); err == nil && n == 2 && den != 0 {
		return num / den
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return 0
}
