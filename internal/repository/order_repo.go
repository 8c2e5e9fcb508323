package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bitgate/internal/ipn"
	"bitgate/internal/models"
)

// OrderRepository handles order database operations. It satisfies
// ipn.OrderStore.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByIncrementID returns an order with its payment, items, invoices and
// history loaded. Missing orders map to ipn.ErrOrderNotFound.
func (r *OrderRepository) FindByIncrementID(ctx context.Context, incrementID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Payment").
		Preload("Items").
		Preload("Invoices").
		Preload("History").
		Where("increment_id = ?", incrementID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ipn.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Save persists the order together with its payment and any new history
// rows.
func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	return r.saveTx(r.db.WithContext(ctx), order)
}

// SaveWithInvoice commits the order and its new invoice atomically.
// Partial application (invoice without order update, or vice versa) must
// never hit the database.
func (r *OrderRepository) SaveWithInvoice(ctx context.Context, order *models.Order, invoice *models.OrderInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveTx(tx, order); err != nil {
			return err
		}
		invoice.OrderID = order.ID
		return tx.Create(invoice).Error
	})
}

// Create inserts a new order with its associations (checkout flow).
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) saveTx(tx *gorm.DB, order *models.Order) error {
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}
