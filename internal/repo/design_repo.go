package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can use either.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrConflict is returned by compare-and-swap updates when the stored
// status or version no longer matches what the caller read.
var ErrConflict = errors.New("conflict: record changed concurrently")

// DesignFilter narrows design listings. Zero values match everything.
type DesignFilter struct {
	CustomerID string
	Status     domain.Status
}

func (f DesignFilter) apply(q *gorm.DB) *gorm.DB {
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	return q
}

// CreateDesign inserts a new design request. ID, Version and timestamps are
// assigned here when unset.
func CreateDesign(ctx context.Context, db *gorm.DB, d *domain.DesignRequest) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Version == 0 {
		d.Version = 1
	}
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	return db.WithContext(ctx).Create(d).Error
}

// GetDesign fetches a design by id or returns ErrNotFound.
func GetDesign(ctx context.Context, db *gorm.DB, id string) (*domain.DesignRequest, error) {
	var d domain.DesignRequest
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// CountDesigns returns the number of designs matching f.
func CountDesigns(ctx context.Context, db *gorm.DB, f DesignFilter) (int64, error) {
	var total int64
	err := f.apply(db.WithContext(ctx).Model(&domain.DesignRequest{})).Count(&total).Error
	return total, err
}

// ListDesignsPage returns a page of designs matching f. Priority (paid)
// requests come first, then the most recently updated.
func ListDesignsPage(ctx context.Context, db *gorm.DB, f DesignFilter, offset, limit int) ([]domain.DesignRequest, error) {
	var out []domain.DesignRequest
	err := f.apply(db.WithContext(ctx)).
		Order("is_priority desc").
		Order("updated_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SwapDesign persists next only if the stored row still has expectStatus and
// expectVersion, in a single UPDATE. On success next.Version is bumped. A
// lost race returns ErrConflict; a missing row returns ErrNotFound.
func SwapDesign(ctx context.Context, db *gorm.DB, next *domain.DesignRequest, expectStatus domain.Status, expectVersion int64) error {
	row := *next
	row.Version = expectVersion + 1
	row.UpdatedAt = time.Now().UTC()

	res := db.WithContext(ctx).
		Model(&domain.DesignRequest{}).
		Where("id = ? AND status = ? AND version = ?", next.ID, string(expectStatus), expectVersion).
		Select("*").
		Omit("id", "customer_id", "created_at").
		Updates(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.WithContext(ctx).Model(&domain.DesignRequest{}).Where("id = ?", next.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	next.Version = row.Version
	next.UpdatedAt = row.UpdatedAt
	return nil
}
