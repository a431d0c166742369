package vectorstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// MemoryStore is the in-process VectorStore. A meeting's chunk slice is
// installed under the write lock in one assignment, which gives Replace
// its atomicity.
type MemoryStore struct {
	mu       sync.RWMutex
	meetings map[uuid.UUID][]*entities.Chunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		meetings: make(map[uuid.UUID][]*entities.Chunk),
	}
}

func (s *MemoryStore) Replace(_ context.Context, meetingID uuid.UUID, chunks []*entities.Chunk) error {
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return apperrors.ErrInvalidChunking
		}
	}
	copied := make([]*entities.Chunk, len(chunks))
	copy(copied, chunks)
	sort.Slice(copied, func(i, j int) bool { return copied[i].Index < copied[j].Index })

	s.mu.Lock()
	s.meetings[meetingID] = copied
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Search(_ context.Context, meetingID uuid.UUID, query []float32, topK int, threshold float64) ([]entities.ScoredChunk, error) {
	s.mu.RLock()
	chunks, ok := s.meetings[meetingID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrMeetingNotFound
	}
	return rankChunks(chunks, query, topK, threshold), nil
}

func (s *MemoryStore) Delete(_ context.Context, meetingID uuid.UUID) error {
	s.mu.Lock()
	delete(s.meetings, meetingID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Chunks(_ context.Context, meetingID uuid.UUID) ([]*entities.Chunk, error) {
	s.mu.RLock()
	chunks, ok := s.meetings[meetingID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrMeetingNotFound
	}
	out := make([]*entities.Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// rankChunks scores every chunk against the query and keeps the topK at or
// above the threshold. Sorting is stable over the index-ordered input, so
// equal scores resolve to the earlier chunk.
func rankChunks(chunks []*entities.Chunk, query []float32, topK int, threshold float64) []entities.ScoredChunk {
	scored := make([]entities.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		score := CosineSimilarity(query, c.Embedding)
		if score >= threshold {
			scored = append(scored, entities.ScoredChunk{Chunk: c, Score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
