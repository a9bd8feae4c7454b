package validation

import (
	"math"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, msg, typed.Message())
}

func TestValidateQuantityAcceptsWholeRange(t *testing.T) {
	for q := 1; q <= DefaultMaxQuantity; q++ {
		got, err := ValidateQuantity(float64(q), 0)
		require.NoError(t, err, "quantity %d", q)
		require.Equal(t, q, got)
	}
}

func TestValidateQuantityRejects(t *testing.T) {
	cases := []struct {
		name string
		in   any
		msg  string
	}{
		{"missing", nil, "Quantity is required"},
		{"string", "3", "Quantity must be a number"},
		{"bool", true, "Quantity must be a number"},
		{"nan", math.NaN(), "Quantity must be a finite number"},
		{"inf", math.Inf(1), "Quantity must be a finite number"},
		{"zero", float64(0), "Quantity must be at least 1"},
		{"negative", float64(-2), "Quantity must be at least 1"},
		{"fraction", 1.5, "Quantity must be a whole number"},
		{"too large", float64(1000), "Quantity cannot exceed 999"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateQuantity(tc.in, DefaultMaxQuantity)
			requireValidation(t, err, tc.msg)
		})
	}
}

func TestValidateQuantityCustomMax(t *testing.T) {
	_, err := ValidateQuantity(float64(11), 10)
	requireValidation(t, err, "Quantity cannot exceed 10")

	got, err := ValidateQuantity(10, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, got)
}

func TestValidateQuantityOrZero(t *testing.T) {
	got, err := ValidateQuantityOrZero(float64(0), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = ValidateQuantityOrZero(float64(7), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = ValidateQuantityOrZero(float64(-1), 0)
	requireValidation(t, err, "Quantity cannot be negative")
	_, err = ValidateQuantityOrZero(nil, 0)
	requireValidation(t, err, "Quantity is required")
	_, err = ValidateQuantityOrZero(2.5, 0)
	requireValidation(t, err, "Quantity must be a whole number")
}

func TestValidateProductID(t *testing.T) {
	got, err := ValidateProductID("  1 ", nil)
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	catalog := NewIDSet("1", "2")
	_, err = ValidateProductID("99", catalog)
	requireValidation(t, err, "Invalid product ID")

	cases := map[string]struct {
		in  any
		msg string
	}{
		"missing":   {nil, "Product ID is required"},
		"number":    {float64(1), "Product ID is required"},
		"blank":     {"   ", "Product ID is required"},
		"too long":  {strings.Repeat("a", 101), "Product ID is too long"},
		"semicolon": {"1;DROP", "Product ID contains invalid characters"},
		"quote":     {"1'", "Product ID contains invalid characters"},
		"dquote":    {`1"`, "Product ID contains invalid characters"},
		"backslash": {`a\b`, "Product ID contains invalid characters"},
		"comment":   {"1--", "Product ID contains invalid characters"},
		"block":     {"/*x*/", "Product ID contains invalid characters"},
		"xp":        {"XP_cmdshell", "Product ID contains invalid characters"},
		"sp":        {"sp_who", "Product ID contains invalid characters"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateProductID(tc.in, nil)
			requireValidation(t, err, tc.msg)
		})
	}

	_, err = ValidateProductID(strings.Repeat("a", 100), nil)
	assert.NoError(t, err)
}

func TestValidatePrice(t *testing.T) {
	got, err := ValidatePrice(19.999)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got)

	got, err = ValidatePrice(0.125)
	require.NoError(t, err)
	assert.Equal(t, 0.13, got)

	got, err = ValidatePrice(float64(0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	got, err = ValidatePrice(float64(MaxPrice))
	require.NoError(t, err)
	assert.Equal(t, float64(MaxPrice), got)

	_, err = ValidatePrice(nil)
	requireValidation(t, err, "Price is required")
	_, err = ValidatePrice("9.99")
	requireValidation(t, err, "Price must be a number")
	_, err = ValidatePrice(math.Inf(-1))
	requireValidation(t, err, "Price must be a finite number")
	_, err = ValidatePrice(-0.01)
	requireValidation(t, err, "Price cannot be negative")
	_, err = ValidatePrice(1_000_000.01)
	requireValidation(t, err, "Price cannot exceed 1000000")
}

func TestValidateProductName(t *testing.T) {
	got, err := ValidateProductName("  Laptop ")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got)

	_, err = ValidateProductName("")
	requireValidation(t, err, "Product name is required")
	_, err = ValidateProductName(42.0)
	requireValidation(t, err, "Product name is required")
	_, err = ValidateProductName(strings.Repeat("n", 201))
	requireValidation(t, err, "Product name is too long")
}

func TestValidateImage(t *testing.T) {
	img, err := ValidateImage(nil)
	require.NoError(t, err)
	assert.Nil(t, img)

	img, err = ValidateImage("   ")
	require.NoError(t, err)
	assert.Nil(t, img)

	img, err = ValidateImage(" /img/laptop.png ")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "/img/laptop.png", *img)

	_, err = ValidateImage(12.0)
	requireValidation(t, err, "Image must be a string")
	_, err = ValidateImage(strings.Repeat("i", 501))
	requireValidation(t, err, "Image URL is too long")
}

func TestValidateCartItemFirstFailureWins(t *testing.T) {
	_, err := ValidateCartItem(map[string]any{
		"productId": "1",
		"price":     -1.0,
		"quantity":  0.0,
	}, nil)
	requireValidation(t, err, "Product name is required")

	_, err = ValidateCartItem("nope", nil)
	requireValidation(t, err, "Item must be an object")

	item, err := ValidateCartItem(map[string]any{
		"productId": "1",
		"name":      " Laptop ",
		"price":     999.99,
		"quantity":  1.0,
	}, NewIDSet("1"))
	require.NoError(t, err)
	assert.Equal(t, "Laptop", item.Name)
	assert.Equal(t, 999.99, item.Price)
	assert.Equal(t, 1, item.Quantity)
	assert.Nil(t, item.Image)
}

func TestValidateCartItems(t *testing.T) {
	valid := NewIDSet("1", "2")
	items, err := ValidateCartItems([]any{
		map[string]any{"productId": "2", "name": "Phone", "price": 1.0, "quantity": 2.0},
		map[string]any{"productId": "1", "name": "Laptop", "price": 2.0, "quantity": 1.0},
	}, valid)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[0].ProductID)
	assert.Equal(t, "1", items[1].ProductID)

	_, err = ValidateCartItems(map[string]any{}, valid)
	requireValidation(t, err, "Items must be an array")

	_, err = ValidateCartItems([]any{
		map[string]any{"productId": "1", "name": "Laptop", "price": 2.0, "quantity": 1.0},
		map[string]any{"productId": "9", "name": "Ghost", "price": 2.0, "quantity": 1.0},
	}, valid)
	requireValidation(t, err, "Item at index 1: Invalid product ID")
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, details["index"])

	_, err = ValidateCartItems([]any{
		map[string]any{"productId": "1", "name": "Laptop", "price": 2.0, "quantity": 1.0},
		map[string]any{"productId": "1", "name": "Laptop", "price": 2.0, "quantity": 4.0},
	}, valid)
	requireValidation(t, err, "Duplicate product ID: 1")

	tooMany := make([]any, MaxItems+1)
	for i := range tooMany {
		tooMany[i] = map[string]any{}
	}
	_, err = ValidateCartItems(tooMany, nil)
	requireValidation(t, err, "Too many items (max 100)")

	empty, err := ValidateCartItems([]any{}, valid)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
