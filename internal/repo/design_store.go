package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// SQLDesignStore adapts the design repository functions to the store
// contract used by the services, binding them to one *gorm.DB.
type SQLDesignStore struct {
	DB *gorm.DB
}

// NewSQLDesignStore returns a store backed by db.
func NewSQLDesignStore(db *gorm.DB) *SQLDesignStore { return &SQLDesignStore{DB: db} }

// Create proxies CreateDesign.
func (s *SQLDesignStore) Create(ctx context.Context, d *domain.DesignRequest) error {
	return CreateDesign(ctx, s.DB, d)
}

// Get proxies GetDesign.
func (s *SQLDesignStore) Get(ctx context.Context, id string) (*domain.DesignRequest, error) {
	return GetDesign(ctx, s.DB, id)
}

// List returns one page and the total match count.
func (s *SQLDesignStore) List(ctx context.Context, f DesignFilter, offset, limit int) ([]domain.DesignRequest, int64, error) {
	total, err := CountDesigns(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.DesignRequest{}, 0, nil
	}
	items, err := ListDesignsPage(ctx, s.DB, f, offset, limit)
	return items, total, err
}

// Swap proxies SwapDesign.
func (s *SQLDesignStore) Swap(ctx context.Context, next *domain.DesignRequest, expectStatus domain.Status, expectVersion int64) error {
	return SwapDesign(ctx, s.DB, next, expectStatus, expectVersion)
}

// Stats proxies DesignsStats.
func (s *SQLDesignStore) Stats(ctx context.Context, f DesignFilter) (int64, *time.Time, error) {
	return DesignsStats(ctx, s.DB, f)
}
