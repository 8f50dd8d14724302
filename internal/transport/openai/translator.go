package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/domain"
)

// Translator translates text chunks via a chat-completion model.
type Translator struct {
	client *openai.Client
	model  string
	target string
	logger *zap.Logger
}

// TranslatorConfig holds translation settings.
type TranslatorConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TargetLanguage string // default "English"
	Logger         *zap.Logger
}

// NewTranslator creates a chat-based translation client.
func NewTranslator(cfg *TranslatorConfig) *Translator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	target := cfg.TargetLanguage
	if target == "" {
		target = "English"
	}

	return &Translator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		target: target,
		logger: cfg.Logger,
	}
}

// Translate implements domain.Translator for one chunk. Chunking to the
// provider's length limit happens upstream.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(
					"Translate the user's text to %s. Detect the source language automatically. "+
						"Output only the translation.", t.target),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation request: %w: %w", err, domain.ErrExternalService)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty translation response: %w", domain.ErrExternalService)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
