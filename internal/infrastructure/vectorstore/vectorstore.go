package vectorstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// VectorStore holds embedded transcript chunks grouped by meeting.
//
// Replace swaps a meeting's chunk set atomically: readers never observe a
// mix of old and new chunks, and a failed replace leaves the previous set
// intact. Search returns the chunks most similar to the query embedding in
// descending score order; ties break toward the lower chunk index.
type VectorStore interface {
	Replace(ctx context.Context, meetingID uuid.UUID, chunks []*entities.Chunk) error
	Search(ctx context.Context, meetingID uuid.UUID, query []float32, topK int, threshold float64) ([]entities.ScoredChunk, error)
	Delete(ctx context.Context, meetingID uuid.UUID) error
	Chunks(ctx context.Context, meetingID uuid.UUID) ([]*entities.Chunk, error)
	Close() error
}
