package ai

import "context"

// CompletionClient produces a model completion for a prompt pair. When
// jsonMode is true the provider is asked to emit a single JSON object.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error)
}

// Embedder converts text into embedding vectors. EmbedTexts returns one
// vector per input in the same order.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Transcriber converts recorded audio into a raw transcript with speaker
// labels, suitable for the normalizer.
type Transcriber interface {
	TranscribeURL(ctx context.Context, audioURL string) (string, error)
}
