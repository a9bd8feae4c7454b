package cart

import (
	"context"

	"github.com/angelmondragon/cartkeeper/internal/validation"
	"github.com/angelmondragon/cartkeeper/pkg/types"
)

// MutateFunc computes the next item list from the current state. Returning
// skip leaves the stored row untouched.
type MutateFunc func(current Lookup) (next types.LineItems, skip bool, err error)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	Get(ctx context.Context, cartID string) (Lookup, error)
	Save(ctx context.Context, cartID string, items types.LineItems) (Lookup, error)
	Mutate(ctx context.Context, cartID string, fn MutateFunc) (Lookup, error)
	Delete(ctx context.Context, cartID string) (bool, error)
	DeleteOlderThan(ctx context.Context, cutoffMillis int64) (int64, error)
	Stats(ctx context.Context) (Stats, error)
}

// ProductCatalog is the product lookup the service validates against.
type ProductCatalog interface {
	IDs() validation.IDSet
}
