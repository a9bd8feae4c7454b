package catalog

import (
	"sort"
	"strconv"
	"sync"

	"github.com/angelmondragon/cartkeeper/internal/validation"
	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
)

// Product is a reference catalog entry.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image *string `json:"image"`
}

// ProductInput is the raw administrative payload for Upsert.
type ProductInput struct {
	Name  any `json:"name"`
	Price any `json:"price"`
	Image any `json:"image"`
}

// Catalog is the in-memory product table. Reads and the administrative
// writer may run concurrently.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]Product
}

// New builds a catalog from seed products. Later duplicates replace earlier ones.
func New(seed []Product) *Catalog {
	products := make(map[string]Product, len(seed))
	for _, p := range seed {
		products[p.ID] = p
	}
	return &Catalog{products: products}
}

// NewDefault builds the catalog with the stock demo products.
func NewDefault() *Catalog {
	return New(DefaultProducts())
}

// DefaultProducts returns the stock demo products.
func DefaultProducts() []Product {
	return []Product{
		{ID: "1", Name: "Laptop", Price: 999.99},
		{ID: "2", Name: "Smartphone", Price: 699.99},
		{ID: "3", Name: "Headphones", Price: 199.99},
		{ID: "4", Name: "Tablet", Price: 449.99},
		{ID: "5", Name: "Smartwatch", Price: 299.99},
		{ID: "6", Name: "Camera", Price: 549.99},
	}
}

func (c *Catalog) IsValidProductID(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.products[id]
	return ok
}

func (c *Catalog) Get(id string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	return p, ok
}

// All returns every product ordered by id, numeric ids first in numeric order.
func (c *Catalog) All() []Product {
	c.mu.RLock()
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return lessID(out[i].ID, out[j].ID)
	})
	return out
}

// IDs returns a snapshot of the valid product ids.
func (c *Catalog) IDs() validation.IDSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set := make(validation.IDSet, len(c.products))
	for id := range c.products {
		set[id] = struct{}{}
	}
	return set
}

// Upsert validates the input and inserts or replaces the product.
func (c *Catalog) Upsert(id string, in ProductInput) (Product, error) {
	productID, err := validation.ValidateProductID(id, nil)
	if err != nil {
		return Product{}, err
	}
	name, err := validation.ValidateProductName(in.Name)
	if err != nil {
		return Product{}, err
	}
	price, err := validation.ValidatePrice(in.Price)
	if err != nil {
		return Product{}, err
	}
	image, err := validation.ValidateImage(in.Image)
	if err != nil {
		return Product{}, err
	}

	p := Product{ID: productID, Name: name, Price: price, Image: image}
	c.mu.Lock()
	c.products[productID] = p
	c.mu.Unlock()
	return p, nil
}

// MustGet returns the product or a not-found error.
func (c *Catalog) MustGet(id string) (Product, error) {
	p, ok := c.Get(id)
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return p, nil
}

func lessID(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
