package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/domain"
)

const summarizerSystemPrompt = "You are an assistant that helps optimize multimedia storage " +
	"and identifies similar assets based on cosine similarity."

// Summarizer sends filtered similarity data to a hosted chat model for
// storage-optimization analysis.
type Summarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// SummarizerConfig holds summarization settings.
type SummarizerConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Logger    *zap.Logger
}

// NewSummarizer creates a chat-completion summarization client.
func NewSummarizer(cfg *SummarizerConfig) *Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger,
	}
}

// Summarize implements domain.Summarizer with a single completion request.
// The caller guarantees content is already bounded to the model's input
// limits; no retry or backoff on failure.
func (s *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarizerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarization request: %w: %w", err, domain.ErrExternalService)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no suggestions received: %w", domain.ErrExternalService)
	}

	s.logger.Debug("Summarization completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_chars", len(content)),
	)
	return resp.Choices[0].Message.Content, nil
}
