package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// MeetingRepository persists ingested meetings. Upsert replaces any
// existing record with the same id so re-ingesting identical content is
// idempotent.
type MeetingRepository interface {
	Upsert(ctx context.Context, record *entities.MeetingRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.MeetingRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
