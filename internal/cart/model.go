package cart

import (
	"github.com/angelmondragon/cartkeeper/pkg/db/models"
	"github.com/angelmondragon/cartkeeper/pkg/types"
)

// Lookup is the result of reading a cart: either Found with the row or Absent.
type Lookup struct {
	cart  models.Cart
	found bool
}

func Found(c models.Cart) Lookup {
	return Lookup{cart: c, found: true}
}

func Absent() Lookup {
	return Lookup{}
}

// Get returns the cart and whether it exists.
func (l Lookup) Get() (models.Cart, bool) {
	return l.cart, l.found
}

// Items returns a copy of the stored items, empty when the cart is absent.
func (l Lookup) Items() types.LineItems {
	if !l.found {
		return types.LineItems{}
	}
	return l.cart.Items.Clone()
}

// Stats summarizes the stored carts. OldestTimestamp is nil when there are none.
type Stats struct {
	TotalCarts      int64  `json:"totalCarts"`
	TotalItems      int64  `json:"totalItems"`
	OldestTimestamp *int64 `json:"oldestCartTimestamp"`
}

// View is the read model returned by GET /api/cart.
type View struct {
	Items       types.LineItems `json:"items"`
	LastUpdated *int64          `json:"lastUpdated"`
	ItemCount   int             `json:"itemCount"`
}

func viewOf(l Lookup) View {
	c, ok := l.Get()
	if !ok {
		return View{Items: types.LineItems{}}
	}
	updated := c.LastUpdated
	return View{Items: c.Items.Clone(), LastUpdated: &updated, ItemCount: c.ItemCount}
}

// AddInput is the raw add payload. Fields stay untyped until validated.
type AddInput struct {
	ProductID any `json:"productId"`
	Name      any `json:"name"`
	Price     any `json:"price"`
	Quantity  any `json:"quantity"`
	Image     any `json:"image"`
}

// UpdateInput is the raw update payload.
type UpdateInput struct {
	ProductID any `json:"productId"`
	Quantity  any `json:"quantity"`
}
