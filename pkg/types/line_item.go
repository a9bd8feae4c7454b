package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LineItem is one product entry inside a cart.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     *string `json:"image"`
}

// LineItems is the ordered item list persisted as a JSON array column.
type LineItems []LineItem

// Value implements driver.Valuer. A nil list is stored as an empty array.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]LineItem(l))
	if err != nil {
		return nil, fmt.Errorf("encoding line items: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the serialized item column.
func (l *LineItems) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("line items: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*l = LineItems{}
		return nil
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decoding line items: %w", err)
	}
	if items == nil {
		items = []LineItem{}
	}
	*l = items
	return nil
}

// MarshalJSON keeps an empty list rendered as [] rather than null.
func (l LineItems) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]LineItem(l))
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (l LineItems) Clone() LineItems {
	out := make(LineItems, len(l))
	for i, item := range l {
		if item.Image != nil {
			img := *item.Image
			item.Image = &img
		}
		out[i] = item
	}
	return out
}

// Index returns the position of productID or -1.
func (l LineItems) Index(productID string) int {
	for i := range l {
		if l[i].ProductID == productID {
			return i
		}
	}
	return -1
}
