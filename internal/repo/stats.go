package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// DesignsStats feeds the list ETag: how many designs match f and the newest
// UpdatedAt among them (nil when none match).
func DesignsStats(ctx context.Context, db *gorm.DB, f DesignFilter) (int64, *time.Time, error) {
	matching := func() *gorm.DB {
		return f.apply(db.WithContext(ctx).Model(&domain.DesignRequest{}))
	}

	var n int64
	if err := matching().Count(&n).Error; err != nil {
		return 0, nil, err
	}
	if n == 0 {
		return 0, nil, nil
	}

	// MAX() over DATETIME comes back as TEXT from sqlite, so sort instead.
	var latest []time.Time
	if err := matching().Order("updated_at DESC").Limit(1).Pluck("updated_at", &latest).Error; err != nil {
		return 0, nil, err
	}
	if len(latest) == 0 {
		return n, nil, nil
	}
	return n, &latest[0], nil
}
