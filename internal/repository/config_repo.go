package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bitgate/internal/models"
)

// ConfigRepository reads and writes store-scoped configuration. It
// satisfies ipn.ConfigSource for the store it was built for.
type ConfigRepository struct {
	db      *gorm.DB
	storeID uint
}

func NewConfigRepository(db *gorm.DB, storeID uint) *ConfigRepository {
	return &ConfigRepository{db: db, storeID: storeID}
}

// GetValue returns the configured value for a path, or an empty string
// when the path is unset for this store.
func (r *ConfigRepository) GetValue(ctx context.Context, path string) (string, error) {
	var cfg models.StoreConfig
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND path = ?", r.storeID, path).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return cfg.Value, nil
}

// SetValue inserts or updates a configuration value for this store.
func (r *ConfigRepository) SetValue(ctx context.Context, path, value string) error {
	var cfg models.StoreConfig
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND path = ?", r.storeID, path).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(&models.StoreConfig{
			StoreID: r.storeID,
			Path:    path,
			Value:   value,
		}).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&cfg).Update("value", value).Error
}
