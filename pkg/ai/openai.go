package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
)

// OpenAIClient calls the chat completion API through langchaingo. A
// semaphore bounds in-flight requests so concurrent stages cannot exhaust
// the provider's rate limit on their own.
type OpenAIClient struct {
	llm       *openai.LLM
	semaphore chan struct{}
	logger    *zap.Logger
}

func NewOpenAIClient(apiKey, model string, maxConcurrent int, logger *zap.Logger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return &OpenAIClient{
		llm:       llm,
		semaphore: make(chan struct{}, maxConcurrent),
		logger:    logger,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error) {
	select {
	case c.semaphore <- struct{}{}:
		defer func() { <-c.semaphore }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	opts := []llms.CallOption{llms.WithTemperature(0.1)}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		kind := apperrors.ClassifyServiceFailure(err)
		if c.logger != nil {
			c.logger.Warn("completion request failed",
				zap.String("kind", kind.String()),
				zap.Error(err))
		}
		return "", apperrors.NewServiceError("openai", kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewServiceError("openai", apperrors.ServiceKindServerError,
			fmt.Errorf("completion returned no choices"))
	}
	return resp.Choices[0].Content, nil
}
