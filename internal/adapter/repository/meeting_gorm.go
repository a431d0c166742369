package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

type meetingGormRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingGormRepository{db: db}
}

func (r *meetingGormRepository) Upsert(ctx context.Context, record *entities.MeetingRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "participants", "transcript", "char_count", "token_count", "chunk_count", "updated_at",
		}),
	}).Create(record).Error
}

func (r *meetingGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.MeetingRecord, error) {
	var record entities.MeetingRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *meetingGormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.MeetingRecord{}, "id = ?", id).Error
}
