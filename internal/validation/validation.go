// Package validation checks and normalizes raw cart input before it reaches
// the store. Inputs are decoded JSON values, so every check accepts `any`.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
	"github.com/angelmondragon/cartkeeper/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	DefaultMaxQuantity = 999
	MaxItems           = 100
	MaxProductIDLength = 100
	MaxNameLength      = 200
	MaxImageLength     = 500
	MaxPrice           = 1_000_000
)

var unsafeIDPattern = regexp.MustCompile(`(?i)(;|'|"|\\|--|/\*|\*/|\bxp_|\bsp_)`)

// IDSet is the set of product ids an input must belong to. A nil set skips
// the membership check.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func fail(field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(map[string]any{"field": field})
}

// ValidateProductID returns the trimmed id.
func ValidateProductID(id any, validIDs IDSet) (string, error) {
	raw, ok := id.(string)
	if !ok {
		return "", fail("productId", "Product ID is required")
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fail("productId", "Product ID is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxProductIDLength {
		return "", fail("productId", "Product ID is too long")
	}
	if unsafeIDPattern.MatchString(trimmed) {
		return "", fail("productId", "Product ID contains invalid characters")
	}
	if validIDs != nil && !validIDs.Contains(trimmed) {
		return "", fail("productId", "Invalid product ID")
	}
	return trimmed, nil
}

// ValidateQuantity returns q as an int. max falls back to DefaultMaxQuantity
// when it is not positive.
func ValidateQuantity(q any, max int) (int, error) {
	if max <= 0 {
		max = DefaultMaxQuantity
	}
	if q == nil {
		return 0, fail("quantity", "Quantity is required")
	}
	n, ok := toFloat(q)
	if !ok {
		return 0, fail("quantity", "Quantity must be a number")
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fail("quantity", "Quantity must be a finite number")
	}
	if n < 1 {
		return 0, fail("quantity", "Quantity must be at least 1")
	}
	if n != math.Trunc(n) {
		return 0, fail("quantity", "Quantity must be a whole number")
	}
	if n > float64(max) {
		return 0, fail("quantity", fmt.Sprintf("Quantity cannot exceed %d", max))
	}
	return int(n), nil
}

// ValidateQuantityOrZero is ValidateQuantity for updates, where 0 means
// remove the line.
func ValidateQuantityOrZero(q any, max int) (int, error) {
	if n, ok := toFloat(q); ok {
		if n == 0 {
			return 0, nil
		}
		if n < 0 {
			return 0, fail("quantity", "Quantity cannot be negative")
		}
	}
	return ValidateQuantity(q, max)
}

// ValidatePrice returns p rounded half away from zero to 2 decimal places.
func ValidatePrice(p any) (float64, error) {
	if p == nil {
		return 0, fail("price", "Price is required")
	}
	n, ok := toFloat(p)
	if !ok {
		return 0, fail("price", "Price must be a number")
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fail("price", "Price must be a finite number")
	}
	if n < 0 {
		return 0, fail("price", "Price cannot be negative")
	}
	if n > MaxPrice {
		return 0, fail("price", fmt.Sprintf("Price cannot exceed %d", MaxPrice))
	}
	return decimal.NewFromFloat(n).Round(2).InexactFloat64(), nil
}

// ValidateProductName returns the trimmed name.
func ValidateProductName(n any) (string, error) {
	raw, ok := n.(string)
	if !ok {
		return "", fail("name", "Product name is required")
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fail("name", "Product name is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return "", fail("name", "Product name is too long")
	}
	return trimmed, nil
}

// ValidateImage accepts an optional image reference. Absent or blank images
// normalize to nil.
func ValidateImage(img any) (*string, error) {
	if img == nil {
		return nil, nil
	}
	raw, ok := img.(string)
	if !ok {
		return nil, fail("image", "Image must be a string")
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > MaxImageLength {
		return nil, fail("image", "Image URL is too long")
	}
	return &trimmed, nil
}

// ValidateCartItem runs the field checks in order and stops at the first failure.
func ValidateCartItem(item any, validIDs IDSet) (types.LineItem, error) {
	fields, ok := item.(map[string]any)
	if !ok || fields == nil {
		return types.LineItem{}, fail("item", "Item must be an object")
	}

	productID, err := ValidateProductID(fields["productId"], validIDs)
	if err != nil {
		return types.LineItem{}, err
	}
	name, err := ValidateProductName(fields["name"])
	if err != nil {
		return types.LineItem{}, err
	}
	price, err := ValidatePrice(fields["price"])
	if err != nil {
		return types.LineItem{}, err
	}
	quantity, err := ValidateQuantity(fields["quantity"], DefaultMaxQuantity)
	if err != nil {
		return types.LineItem{}, err
	}
	image, err := ValidateImage(fields["image"])
	if err != nil {
		return types.LineItem{}, err
	}

	return types.LineItem{
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		Image:     image,
	}, nil
}

// ValidateCartItems validates a whole item list, preserving input order.
func ValidateCartItems(items any, validIDs IDSet) (types.LineItems, error) {
	list, ok := items.([]any)
	if !ok {
		return nil, fail("items", "Items must be an array")
	}
	if len(list) > MaxItems {
		return nil, fail("items", fmt.Sprintf("Too many items (max %d)", MaxItems))
	}

	out := make(types.LineItems, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for i, raw := range list {
		item, err := ValidateCartItem(raw, validIDs)
		if err != nil {
			return nil, atIndex(i, err)
		}
		if _, dup := seen[item.ProductID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Duplicate product ID: "+item.ProductID).
				WithDetails(map[string]any{"field": "productId", "index": i})
		}
		seen[item.ProductID] = struct{}{}
		out = append(out, item)
	}
	return out, nil
}

func atIndex(i int, err error) error {
	details := map[string]any{"index": i}
	msg := err.Error()
	if typed := pkgerrors.As(err); typed != nil {
		msg = typed.Message()
		if d, ok := typed.Details().(map[string]any); ok {
			details["field"] = d["field"]
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("Item at index %d: %s", i, msg)).
		WithDetails(details)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
