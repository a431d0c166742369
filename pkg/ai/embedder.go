package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
)

// OpenAIEmbedder produces embedding vectors through langchaingo.
type OpenAIEmbedder struct {
	embedder *embeddings.EmbedderImpl
}

func NewOpenAIEmbedder(apiKey, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return &OpenAIEmbedder{embedder: embedder}, nil
}

func (e *OpenAIEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.NewServiceError("openai", apperrors.ClassifyServiceFailure(err), err)
	}
	return vector, nil
}

func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.NewServiceError("openai", apperrors.ClassifyServiceFailure(err), err)
	}
	if len(vectors) != len(texts) {
		return nil, apperrors.NewServiceError("openai", apperrors.ServiceKindServerError,
			fmt.Errorf("embedding count mismatch: got %d for %d inputs", len(vectors), len(texts)))
	}
	return vectors, nil
}
