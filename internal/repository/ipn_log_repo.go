package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bitgate/internal/models"
)

// IPNLogRepository handles the inbound notification log.
type IPNLogRepository struct {
	db *gorm.DB
}

func NewIPNLogRepository(db *gorm.DB) *IPNLogRepository {
	return &IPNLogRepository{db: db}
}

// Create records one inbound notification attempt.
func (r *IPNLogRepository) Create(ctx context.Context, entry *models.IPNLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// DeleteOlderThan prunes log rows created before the cutoff and returns
// how many were removed.
func (r *IPNLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.IPNLog{})
	return res.RowsAffected, res.Error
}

// FindRecent returns the newest log rows, for the ops endpoint.
func (r *IPNLogRepository) FindRecent(ctx context.Context, limit int) ([]models.IPNLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.IPNLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
