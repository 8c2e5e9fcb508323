package bootstrap

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bitgate/internal/config"
	"bitgate/internal/models"
	"bitgate/internal/repository"
)

// DefaultStoreID is the store scope used until multi-store support is
// needed.
const DefaultStoreID uint = 1

// MigrateAndSeed ensures required tables exist and pushes the gateway
// credentials from the environment into store configuration.
func MigrateAndSeed(db *gorm.DB, cfg *config.Config) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	if err := seedStoreConfig(db, cfg); err != nil {
		return fmt.Errorf("seed store config failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.Order{},
		&models.OrderPayment{},
		&models.OrderItem{},
		&models.OrderInvoice{},
		&models.OrderStatusHistory{},
		&models.StoreConfig{},
		&models.IPNLog{},
	}
}

// seedStoreConfig mirrors non-empty env credentials into the per-store
// config table; empty env values leave existing rows untouched.
func seedStoreConfig(db *gorm.DB, cfg *config.Config) error {
	configRepo := repository.NewConfigRepository(db, DefaultStoreID)
	ctx := context.Background()

	values := map[string]string{
		models.ConfigPathMerchantID: cfg.Gateway.MerchantID,
		models.ConfigPathIPNSecret:  cfg.Gateway.IPNSecret,
	}
	if cfg.Gateway.Debug {
		values[models.ConfigPathDebug] = "1"
	}

	for path, value := range values {
		if value == "" {
			continue
		}
		if err := configRepo.SetValue(ctx, path, value); err != nil {
			return err
		}
	}
	return nil
}
