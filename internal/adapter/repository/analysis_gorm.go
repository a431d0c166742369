package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

type analysisGormRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) repositories.AnalysisRepository {
	return &analysisGormRepository{db: db}
}

func (r *analysisGormRepository) Create(ctx context.Context, record *entities.AnalysisRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *analysisGormRepository) GetLatestByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.AnalysisRecord, error) {
	var record entities.AnalysisRecord
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAnalysisNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *analysisGormRepository) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.AnalysisRecord{}, "meeting_id = ?", meetingID).Error
}
