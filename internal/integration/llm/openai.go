package llm

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medlane/prediag-backend/internal/config"
	"github.com/medlane/prediag-backend/internal/entity"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIGenerator turns a prompt into model text via the OpenAI chat
// completion API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewGenerator builds the generation backend for the configured credential.
// A missing API key is detected once, here: the returned generator fails
// every call with entity.ErrGeneratorUnavailable and never touches the
// network, so the rest of the flow degrades instead of crashing.
func NewGenerator(cfg config.LLMConfig, logger *zap.Logger) Generator {
	if cfg.APIKey == "" {
		logger.Warn("LLM API key not configured, generation disabled")
		return &DisabledGenerator{}
	}

	return &OpenAIGenerator{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
		logger: logger,
	}
}

// Generator mirrors diagnosis.Generator so the builder can pick an
// implementation without importing the domain package.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choice list")
	}

	ctxzap.Debug(ctx, "generation completed",
		zap.Int("prompt_length", len(prompt)),
		zap.Int("response_length", len(resp.Choices[0].Message.Content)),
	)

	return resp.Choices[0].Message.Content, nil
}

// DisabledGenerator short-circuits every call when no credential is
// configured at startup.
type DisabledGenerator struct{}

func (g *DisabledGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", entity.ErrGeneratorUnavailable
}
