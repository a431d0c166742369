package vectorstore

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

func chunkWith(meetingID uuid.UUID, index int, embedding []float32) *entities.Chunk {
	c := entities.NewChunk(meetingID, index, fmt.Sprintf("text %d", index), index*10, index*10+6)
	c.Embedding = embedding
	return c
}

func TestMemoryStoreReplaceSwapsWholeSet(t *testing.T) {
	store := NewMemoryStore()
	meetingID := uuid.New()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, meetingID, []*entities.Chunk{
		chunkWith(meetingID, 0, []float32{1, 0}),
		chunkWith(meetingID, 1, []float32{0, 1}),
	}))
	require.NoError(t, store.Replace(ctx, meetingID, []*entities.Chunk{
		chunkWith(meetingID, 0, []float32{1, 1}),
	}))

	chunks, err := store.Chunks(ctx, meetingID)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestMemoryStoreReplaceRejectsUnembeddedChunks(t *testing.T) {
	store := NewMemoryStore()
	meetingID := uuid.New()

	err := store.Replace(context.Background(), meetingID, []*entities.Chunk{
		chunkWith(meetingID, 0, nil),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidChunking)

	_, err = store.Chunks(context.Background(), meetingID)
	assert.ErrorIs(t, err, apperrors.ErrMeetingNotFound)
}

func TestMemoryStoreSearchUnknownMeeting(t *testing.T) {
	_, err := NewMemoryStore().Search(context.Background(), uuid.New(), []float32{1}, 5, 0)
	assert.ErrorIs(t, err, apperrors.ErrMeetingNotFound)
}

func TestMemoryStoreSearchIsolatesMeetings(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	require.NoError(t, store.Replace(ctx, first, []*entities.Chunk{chunkWith(first, 0, []float32{1, 0})}))
	require.NoError(t, store.Replace(ctx, second, []*entities.Chunk{chunkWith(second, 0, []float32{1, 0})}))

	scored, err := store.Search(ctx, first, []float32{1, 0}, 10, 0)
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, first, scored[0].Chunk.MeetingID)
}

func TestMemoryStoreDeleteThenSearch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	meetingID := uuid.New()

	require.NoError(t, store.Replace(ctx, meetingID, []*entities.Chunk{chunkWith(meetingID, 0, []float32{1})}))
	require.NoError(t, store.Delete(ctx, meetingID))

	_, err := store.Search(ctx, meetingID, []float32{1}, 5, 0)
	assert.ErrorIs(t, err, apperrors.ErrMeetingNotFound)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}

func TestNormalizeYieldsUnitVector(t *testing.T) {
	v := Normalize([]float32{3, 4})
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
