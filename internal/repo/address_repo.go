package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// CreateAddress inserts an address. When a.IsDefault is set, any previous
// default of the same customer is cleared in the same transaction.
func CreateAddress(ctx context.Context, db *gorm.DB, a *domain.Address) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := tx.Model(&domain.Address{}).
				Where("customer_id = ? AND is_default = ?", a.CustomerID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
}

// ListAddresses returns a customer's addresses, default first.
func ListAddresses(ctx context.Context, db *gorm.DB, customerID string) ([]domain.Address, error) {
	var out []domain.Address
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default desc").
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// FindShippingAddress returns the customer's default address, falling back
// to the oldest address on file. It returns ErrNotFound when there is none.
func FindShippingAddress(ctx context.Context, db *gorm.DB, customerID string) (*domain.Address, error) {
	var a domain.Address
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default desc").
		Order("created_at asc").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreatePlaceholderAddress stores a stand-in address so a seller can place
// an order for a customer who has none. The seller is expected to fill in
// real details out of band.
func CreatePlaceholderAddress(ctx context.Context, db *gorm.DB, customerID string) (*domain.Address, error) {
	a := &domain.Address{
		CustomerID:    customerID,
		Name:          "To be confirmed",
		Line1:         "Address pending confirmation",
		City:          "Pending",
		Country:       "Pending",
		IsDefault:     true,
		IsPlaceholder: true,
	}
	if err := CreateAddress(ctx, db, a); err != nil {
		return nil, err
	}
	return a, nil
}
