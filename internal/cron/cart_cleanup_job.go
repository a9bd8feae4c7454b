package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/cartkeeper/pkg/logger"
)

const (
	// CartCleanupJobName identifies the cart retention sweep.
	CartCleanupJobName = "cart-cleanup"

	defaultCartRetentionDays = 7
	millisPerDay             = int64(24 * time.Hour / time.Millisecond)
)

type CartCleanupJobParams struct {
	Logger        *logger.Logger
	Store         cartSweeper
	RetentionDays int
}

type cartSweeper interface {
	DeleteOlderThan(ctx context.Context, cutoffMillis int64) (int64, error)
}

// PurgeResult describes one retention sweep.
type PurgeResult struct {
	Days         int   `json:"days"`
	CutoffMillis int64 `json:"cutoff"`
	Deleted      int64 `json:"deletedCarts"`
}

// CartCleanupJob deletes carts inactive for longer than the retention window.
type CartCleanupJob struct {
	logg      *logger.Logger
	store     cartSweeper
	retention int
	now       func() time.Time
}

func NewCartCleanupJob(params CartCleanupJobParams) (*CartCleanupJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultCartRetentionDays
	}
	return &CartCleanupJob{
		logg:      params.Logger,
		store:     params.Store,
		retention: retention,
		now:       time.Now,
	}, nil
}

func (j *CartCleanupJob) Name() string { return CartCleanupJobName }

// RetentionDays reports the window used by scheduled runs.
func (j *CartCleanupJob) RetentionDays() int { return j.retention }

func (j *CartCleanupJob) Run(ctx context.Context) error {
	_, err := j.Purge(ctx, j.retention)
	return err
}

// Purge deletes carts whose last update is older than days. A non-positive
// day count uses the configured retention.
func (j *CartCleanupJob) Purge(ctx context.Context, days int) (PurgeResult, error) {
	if days <= 0 {
		days = j.retention
	}
	cutoff := j.now().UnixMilli() - int64(days)*millisPerDay

	deleted, err := j.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("cart cleanup: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff_ms":      cutoff,
		"retention_days": days,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "cart cleanup complete")
	return PurgeResult{Days: days, CutoffMillis: cutoff, Deleted: deleted}, nil
}
