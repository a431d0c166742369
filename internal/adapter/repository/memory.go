package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

// In-memory repositories back tests and database-less deployments.

type meetingMemoryRepository struct {
	mu       sync.RWMutex
	meetings map[uuid.UUID]*entities.MeetingRecord
}

func NewMeetingMemoryRepository() repositories.MeetingRepository {
	return &meetingMemoryRepository{
		meetings: make(map[uuid.UUID]*entities.MeetingRecord),
	}
}

func (r *meetingMemoryRepository) Upsert(_ context.Context, record *entities.MeetingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	r.meetings[record.ID] = &copied
	return nil
}

func (r *meetingMemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.MeetingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.meetings[id]
	if !ok {
		return nil, apperrors.ErrMeetingNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *meetingMemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.meetings, id)
	return nil
}

type analysisMemoryRepository struct {
	mu       sync.RWMutex
	analyses map[uuid.UUID][]*entities.AnalysisRecord
}

func NewAnalysisMemoryRepository() repositories.AnalysisRepository {
	return &analysisMemoryRepository{
		analyses: make(map[uuid.UUID][]*entities.AnalysisRecord),
	}
}

func (r *analysisMemoryRepository) Create(_ context.Context, record *entities.AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	r.analyses[record.MeetingID] = append(r.analyses[record.MeetingID], &copied)
	return nil
}

func (r *analysisMemoryRepository) GetLatestByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.analyses[meetingID]
	if len(records) == 0 {
		return nil, apperrors.ErrAnalysisNotFound
	}
	latest := records[0]
	for _, rec := range records[1:] {
		if rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	copied := *latest
	return &copied, nil
}

func (r *analysisMemoryRepository) DeleteByMeetingID(_ context.Context, meetingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.analyses, meetingID)
	return nil
}
