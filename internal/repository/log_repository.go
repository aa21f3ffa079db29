package repository

import (
	"context"

	"taskboard/internal/model"

	"gorm.io/gorm"
)

type LogRepository struct {
	db *gorm.DB
}

type LogRepositoryInterface interface {
	Recent(ctx context.Context, limit int) ([]model.LogEntry, error)
}

var _ LogRepositoryInterface = (*LogRepository)(nil)

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Recent retrieves the newest audit entries with their actors resolved
func (r *LogRepository) Recent(ctx context.Context, limit int) ([]model.LogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []model.LogEntry
	result := r.db.WithContext(ctx).
		Preload("Actor").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}
