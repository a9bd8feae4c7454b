package cart

import (
	"context"
	"fmt"

	"github.com/angelmondragon/cartkeeper/internal/validation"
	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
	"github.com/angelmondragon/cartkeeper/pkg/metrics"
	"github.com/angelmondragon/cartkeeper/pkg/types"
)

const (
	opGet    = "get"
	opAdd    = "add"
	opUpdate = "update"
	opRemove = "remove"
	opClear  = "clear"
	opSync   = "sync"
)

// Service exposes the cart operations behind /api/cart.
type Service interface {
	Get(ctx context.Context, cartID string) (View, error)
	Add(ctx context.Context, cartID string, input AddInput) (types.LineItems, error)
	Update(ctx context.Context, cartID string, input UpdateInput) (types.LineItems, error)
	Remove(ctx context.Context, cartID string, productID string) (types.LineItems, error)
	Clear(ctx context.Context, cartID string) (types.LineItems, error)
	Sync(ctx context.Context, cartID string, items any) (types.LineItems, error)
}

type service struct {
	repo    CartRepository
	catalog ProductCatalog
	metrics *metrics.CartMetrics
}

// NewService builds a cart service backed by the provided store and catalog.
// metrics may be nil.
func NewService(repo CartRepository, catalog ProductCatalog, m *metrics.CartMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	return &service{repo: repo, catalog: catalog, metrics: m}, nil
}

func (s *service) Get(ctx context.Context, cartID string) (View, error) {
	lookup, err := s.repo.Get(ctx, cartID)
	s.record(opGet, err)
	if err != nil {
		return View{}, err
	}
	return viewOf(lookup), nil
}

// Add appends a line or raises the quantity of an existing one. The existing
// line keeps its name, price and image.
func (s *service) Add(ctx context.Context, cartID string, input AddInput) (types.LineItems, error) {
	quantity := input.Quantity
	if quantity == nil {
		quantity = float64(1)
	}
	item, err := validation.ValidateCartItem(map[string]any{
		"productId": input.ProductID,
		"name":      input.Name,
		"price":     input.Price,
		"quantity":  quantity,
		"image":     input.Image,
	}, s.catalog.IDs())
	if err != nil {
		s.record(opAdd, err)
		return nil, err
	}

	lookup, err := s.repo.Mutate(ctx, cartID, func(current Lookup) (types.LineItems, bool, error) {
		items := current.Items()
		if i := items.Index(item.ProductID); i >= 0 {
			total, err := validation.ValidateQuantity(items[i].Quantity+item.Quantity, validation.DefaultMaxQuantity)
			if err != nil {
				return nil, false, err
			}
			items[i].Quantity = total
			return items, false, nil
		}
		return append(items, item), false, nil
	})
	return s.finish(opAdd, lookup, err)
}

// Update sets a line's quantity; 0 removes the line. The cart must exist.
func (s *service) Update(ctx context.Context, cartID string, input UpdateInput) (types.LineItems, error) {
	productID, err := validation.ValidateProductID(input.ProductID, nil)
	if err != nil {
		s.record(opUpdate, err)
		return nil, err
	}
	quantity, err := validation.ValidateQuantityOrZero(input.Quantity, validation.DefaultMaxQuantity)
	if err != nil {
		s.record(opUpdate, err)
		return nil, err
	}

	lookup, err := s.repo.Mutate(ctx, cartID, func(current Lookup) (types.LineItems, bool, error) {
		if _, ok := current.Get(); !ok {
			return nil, false, pkgerrors.New(pkgerrors.CodeNotFound, "Cart not found")
		}
		items := current.Items()
		i := items.Index(productID)
		if i < 0 {
			return nil, false, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found in cart")
		}
		if quantity == 0 {
			return append(items[:i], items[i+1:]...), false, nil
		}
		items[i].Quantity = quantity
		return items, false, nil
	})
	return s.finish(opUpdate, lookup, err)
}

// Remove drops a line. A missing line is not an error, and an absent cart
// is left absent.
func (s *service) Remove(ctx context.Context, cartID string, productID string) (types.LineItems, error) {
	id, err := validation.ValidateProductID(productID, nil)
	if err != nil {
		s.record(opRemove, err)
		return nil, err
	}

	lookup, err := s.repo.Mutate(ctx, cartID, func(current Lookup) (types.LineItems, bool, error) {
		if _, ok := current.Get(); !ok {
			return nil, true, nil
		}
		items := current.Items()
		if i := items.Index(id); i >= 0 {
			items = append(items[:i], items[i+1:]...)
		}
		return items, false, nil
	})
	return s.finish(opRemove, lookup, err)
}

// Clear empties the cart without deleting its row.
func (s *service) Clear(ctx context.Context, cartID string) (types.LineItems, error) {
	lookup, err := s.repo.Mutate(ctx, cartID, func(current Lookup) (types.LineItems, bool, error) {
		if _, ok := current.Get(); !ok {
			return nil, true, nil
		}
		return types.LineItems{}, false, nil
	})
	return s.finish(opClear, lookup, err)
}

// Sync merges a client-held item list into the stored cart. Any invalid item
// rejects the whole sync.
func (s *service) Sync(ctx context.Context, cartID string, items any) (types.LineItems, error) {
	client, err := validation.ValidateCartItems(items, s.catalog.IDs())
	if err != nil {
		s.record(opSync, err)
		return nil, err
	}

	lookup, err := s.repo.Mutate(ctx, cartID, func(current Lookup) (types.LineItems, bool, error) {
		return MergeItems(current.Items(), client), false, nil
	})
	result, err := s.finish(opSync, lookup, err)
	if err == nil {
		s.metrics.ObserveSyncSize(len(result))
	}
	return result, err
}

func (s *service) finish(op string, lookup Lookup, err error) (types.LineItems, error) {
	s.record(op, err)
	if err != nil {
		return nil, err
	}
	return lookup.Items(), nil
}

func (s *service) record(op string, err error) {
	s.metrics.IncOperation(op, resultOf(err))
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		return metrics.ResultInvalid
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}
