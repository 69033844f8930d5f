package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// ErrDuplicate indicates a unique constraint violation, e.g. a second order
// for the same design or a reused idempotency key.
var ErrDuplicate = errors.New("duplicate")

// CreateOrder inserts an order and its items in one transaction. The caller
// may pre-assign o.ID; item ids are generated when empty.
func CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.NewString()
		}
		o.Items[i].OrderID = o.ID
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetOrder fetches an order with its items or returns ErrNotFound.
func GetOrder(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	var o domain.Order
	if err := db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderByDesign returns the order created from designID, if any.
func GetOrderByDesign(ctx context.Context, db *gorm.DB, designID string) (*domain.Order, error) {
	var o domain.Order
	if err := db.WithContext(ctx).Preload("Items").Where("design_id = ?", designID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrderStatus moves order id from status from to status to in one
// conditional UPDATE. ErrConflict means the stored status is no longer from.
func UpdateOrderStatus(ctx context.Context, db *gorm.DB, id string, from, to domain.OrderStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

// isUniqueViolation matches both gorm's translated error and the plain-text
// errors glebarez/sqlite returns for UNIQUE failures.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
