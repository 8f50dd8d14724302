package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ExtractAudio writes the audio track of a video container to an mp3 file.
func (e *Executor) ExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-acodec", "libmp3lame",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg audio extraction: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ExtractAudioDir extracts audio from every .mp4 in inputDir into
// outputDir, replacing the extension with .mp3. Per-file failures are
// logged and skipped; the batch continues.
func (e *Executor) ExtractAudioDir(ctx context.Context, inputDir, outputDir string) (int, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return 0, fmt.Errorf("read input dir: %w", err)
	}

	extracted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".mp4") {
			continue
		}

		inputPath := filepath.Join(inputDir, name)
		outputPath := filepath.Join(outputDir, strings.TrimSuffix(name, ".mp4")+".mp3")

		if err := e.ExtractAudio(ctx, inputPath, outputPath); err != nil {
			e.logger.Warn("Audio extraction failed",
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}
		extracted++
	}
	return extracted, nil
}

// ListVideos returns the .mp4 file names in a directory, sorted by
// os.ReadDir's lexical order so pair keys stay deterministic across runs.
func ListVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".mp4") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
