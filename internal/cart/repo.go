package cart

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/cartkeeper/internal/repo"
	"github.com/angelmondragon/cartkeeper/pkg/db"
	"github.com/angelmondragon/cartkeeper/pkg/db/models"
	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
	"github.com/angelmondragon/cartkeeper/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxMutateAttempts = 3
	postgresDialect   = "postgres"
	lastUpdatedColumn = "last_updated"
	cartIDColumn      = "cart_id"
	versionColumn     = "version"
)

var errVersionConflict = errors.New("cart version changed")

// Repository persists carts in the carts table.
type Repository struct {
	repo.Base
	locks *keyedLock
	now   func() time.Time
}

// NewRepository constructs a cart repository bound to the provided DB. Every
// call is bounded by timeout; a non-positive value uses the default.
func NewRepository(conn *gorm.DB, timeout time.Duration) *Repository {
	return &Repository{
		Base:  repo.NewBase(conn, timeout),
		locks: newKeyedLock(),
		now:   time.Now,
	}
}

// Get loads a cart. A missing row is Absent, never an error.
func (r *Repository) Get(ctx context.Context, cartID string) (Lookup, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	lookup, err := r.load(r.DB(ctx), cartID, false)
	if err != nil {
		return Lookup{}, storageError("get", err)
	}
	return lookup, nil
}

// Save replaces the cart's items, creating the row when needed.
func (r *Repository) Save(ctx context.Context, cartID string, items types.LineItems) (Lookup, error) {
	return r.Mutate(ctx, cartID, func(Lookup) (types.LineItems, bool, error) {
		return items, false, nil
	})
}

// Mutate runs a read-modify-write on one cart. Calls for the same id are
// serialized in process; the version column guards against writers in other
// processes, with a bounded retry on conflict. Waiting for the lock counts
// against the storage timeout. Errors returned by fn are passed through
// untouched.
func (r *Repository) Mutate(ctx context.Context, cartID string, fn MutateFunc) (Lookup, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	unlock, err := r.locks.Lock(ctx, cartID)
	if err != nil {
		return Lookup{}, storageError("mutate", err)
	}
	defer unlock()

	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		var (
			result Lookup
			fnErr  error
		)
		err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
			current, err := r.load(tx, cartID, true)
			if err != nil {
				return err
			}
			next, skip, err := fn(current)
			if err != nil {
				fnErr = err
				return err
			}
			if skip {
				result = current
				return nil
			}
			saved, err := r.write(tx, cartID, current, next)
			if err != nil {
				return err
			}
			result = Found(saved)
			return nil
		})
		switch {
		case fnErr != nil:
			return Lookup{}, fnErr
		case errors.Is(err, errVersionConflict):
			continue
		case err != nil:
			return Lookup{}, storageError("mutate", err)
		}
		return result, nil
	}
	return Lookup{}, storageError("mutate", errVersionConflict)
}

func (r *Repository) load(tx *gorm.DB, cartID string, forUpdate bool) (Lookup, error) {
	query := tx
	if forUpdate && tx.Dialector.Name() == postgresDialect {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row models.Cart
	err := query.Where(cartIDColumn+" = ?", cartID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Absent(), nil
	}
	if err != nil {
		return Lookup{}, err
	}
	if row.Items == nil {
		row.Items = types.LineItems{}
	}
	return Found(row), nil
}

func (r *Repository) write(tx *gorm.DB, cartID string, current Lookup, items types.LineItems) (models.Cart, error) {
	if items == nil {
		items = types.LineItems{}
	}
	now := r.now().UnixMilli()

	existing, ok := current.Get()
	if !ok {
		row := models.Cart{
			CartID:      cartID,
			Items:       items,
			LastUpdated: now,
			CreatedAt:   now,
			ItemCount:   len(items),
			Version:     1,
		}
		if err := tx.Create(&row).Error; err != nil {
			if db.IsUniqueViolation(err, "") {
				return models.Cart{}, errVersionConflict
			}
			return models.Cart{}, err
		}
		return row, nil
	}

	res := tx.Model(&models.Cart{}).
		Where(cartIDColumn+" = ? AND "+versionColumn+" = ?", cartID, existing.Version).
		Updates(map[string]any{
			"items":           items,
			"item_count":      len(items),
			lastUpdatedColumn: now,
			versionColumn:     gorm.Expr(versionColumn + " + 1"),
		})
	if res.Error != nil {
		return models.Cart{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Cart{}, errVersionConflict
	}

	existing.Items = items
	existing.ItemCount = len(items)
	existing.LastUpdated = now
	existing.Version++
	return existing, nil
}

// Delete removes a cart and reports whether a row existed.
func (r *Repository) Delete(ctx context.Context, cartID string) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	unlock, err := r.locks.Lock(ctx, cartID)
	if err != nil {
		return false, storageError("delete", err)
	}
	defer unlock()

	res := r.DB(ctx).Where(cartIDColumn+" = ?", cartID).Delete(&models.Cart{})
	if res.Error != nil {
		return false, storageError("delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteOlderThan removes every cart last updated before cutoffMillis.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoffMillis int64) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res := r.DB(ctx).Where(lastUpdatedColumn+" < ?", cutoffMillis).Delete(&models.Cart{})
	if res.Error != nil {
		return 0, storageError("delete older than", res.Error)
	}
	return res.RowsAffected, nil
}

// Stats aggregates cart totals.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var row statsRow
	err := r.DB(ctx).
		Model(&models.Cart{}).
		Select("COUNT(*) AS total_carts, COALESCE(SUM(item_count), 0) AS total_items, MIN(last_updated) AS oldest_timestamp").
		Scan(&row).Error
	if err != nil {
		return Stats{}, storageError("stats", err)
	}
	return Stats{
		TotalCarts:      row.TotalCarts,
		TotalItems:      row.TotalItems,
		OldestTimestamp: row.OldestTimestamp,
	}, nil
}

type statsRow struct {
	TotalCarts      int64
	TotalItems      int64
	OldestTimestamp *int64
}

func storageError(op string, err error) error {
	if db.IsTimeout(err) {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "cart store "+op+" timed out")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "cart store "+op+" failed")
}
