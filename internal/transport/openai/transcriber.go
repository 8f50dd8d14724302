package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/domain"
)

// Transcriber converts audio files to text via the Whisper API.
type Transcriber struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewTranscriber creates a Whisper transcription client. An empty model
// defaults to whisper-1.
func NewTranscriber(cfg *Config) *Transcriber {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}

	return &Transcriber{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: cfg.Logger,
	}
}

// Transcribe implements domain.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	start := time.Now()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w: %w", err, domain.ErrExternalService)
	}

	t.logger.Debug("Transcription completed",
		zap.String("file", audioPath),
		zap.Duration("duration", time.Since(start)),
		zap.Int("text_length", len(resp.Text)),
	)
	return resp.Text, nil
}
