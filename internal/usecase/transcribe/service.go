// Package transcribe turns extracted audio tracks into transcription
// records: speech-to-text per file, then chunked translation into the
// comparison language. A file that fails transcription is logged and left
// out of the result; a chunk that fails translation contributes an empty
// string rather than failing the file.
package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/domain"
	"github.com/clipdex/clipdex/internal/textproc"
)

// Service transcribes and translates every audio file in a directory.
type Service struct {
	transcriber   Transcriber
	translator    Translator
	logger        *zap.Logger
	maxChunkChars int
}

// New creates a transcription service. translator may be nil to skip the
// translation step (records keep an empty Translated field).
func New(transcriber Transcriber, translator Translator, logger *zap.Logger) *Service {
	return &Service{
		transcriber:   transcriber,
		translator:    translator,
		logger:        logger,
		maxChunkChars: 4000,
	}
}

// WithMaxChunkChars overrides the per-chunk character limit used when
// splitting long transcripts for translation.
func (s *Service) WithMaxChunkChars(n int) *Service {
	if n > 0 {
		s.maxChunkChars = n
	}
	return s
}

// Run processes every .mp3 in audioDir and returns records keyed by file
// name. Per-file failures are logged and skipped; only an unreadable
// directory is an error.
func (s *Service) Run(ctx context.Context, audioDir string) (map[string]domain.TranscriptionRecord, error) {
	entries, err := os.ReadDir(audioDir)
	if err != nil {
		return nil, fmt.Errorf("read audio dir: %w", err)
	}

	records := make(map[string]domain.TranscriptionRecord)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".mp3") {
			continue
		}

		original, err := s.transcriber.Transcribe(ctx, filepath.Join(audioDir, name))
		if err != nil {
			s.logger.Warn("Transcription failed",
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}

		rec := domain.TranscriptionRecord{Original: original}
		if s.translator != nil {
			rec.Translated = s.translate(ctx, name, original)
		}
		records[name] = rec

		s.logger.Info("Transcribed audio file",
			zap.String("file", name),
			zap.Int("chars", len(original)),
		)
	}
	return records, nil
}

// translate splits the transcript into provider-sized chunks and joins the
// translated pieces with single spaces. A failed chunk yields an empty
// string so the remaining chunks still line up.
func (s *Service) translate(ctx context.Context, name, text string) string {
	chunks := textproc.Chunk(text, s.maxChunkChars)
	translated := make([]string, len(chunks))
	for i, chunk := range chunks {
		out, err := s.translator.Translate(ctx, chunk)
		if err != nil {
			s.logger.Warn("Chunk translation failed",
				zap.String("file", name),
				zap.Int("chunk", i),
				zap.Error(err),
			)
			continue
		}
		translated[i] = out
	}
	return strings.Join(translated, " ")
}
