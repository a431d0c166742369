package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// AnalysisRepository persists analysis run snapshots.
type AnalysisRepository interface {
	Create(ctx context.Context, record *entities.AnalysisRecord) error
	GetLatestByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.AnalysisRecord, error)
	DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error
}
