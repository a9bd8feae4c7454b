package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DefaultOpTimeout bounds a single repository call when none is configured.
const DefaultOpTimeout = 5 * time.Second

// Base provides a shared foundation for domain repositories: the GORM
// connection plus the per-operation deadline.
type Base struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewBase constructs a Base repository backed by the provided GORM connection.
// A non-positive timeout uses DefaultOpTimeout.
func NewBase(db *gorm.DB, timeout time.Duration) Base {
	if timeout <= 0 {
		timeout = DefaultOpTimeout
	}
	return Base{db: db, timeout: timeout}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Timeout reports the per-operation deadline.
func (b Base) Timeout() time.Duration {
	return b.timeout
}

// WithTimeout derives the context a single operation runs under.
func (b Base) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, b.timeout)
}
