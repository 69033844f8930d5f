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

// idempotencyScope narrows a query to one (user, design, key) triple.
func idempotencyScope(userID, designID, key string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(&domain.Idempotency{UserID: userID, DesignID: designID, Key: key})
	}
}

// GetIdempotency looks up the live record for (userID, designID, key).
// Records whose ExpiresAt is not after now count as absent.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, designID, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(designID) == "" || key == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Scopes(idempotencyScope(userID, designID, key)).
		Where("expires_at > ?", now).
		Take(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency remembers that key produced resourceID with the given
// HTTP status, for ttl. A second record for the same triple is ErrDuplicate.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, designID, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	created := time.Now().UTC()
	rec := domain.Idempotency{
		ID:         uuid.NewString(),
		UserID:     userID,
		DesignID:   designID,
		Key:        key,
		ResourceID: resourceID,
		Status:     status,
		CreatedAt:  created,
		ExpiresAt:  created.Add(ttl),
	}
	err := db.WithContext(ctx).Create(&rec).Error
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// PurgeExpiredIdempotency deletes records that expired at or before now and
// reports how many were removed.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}
