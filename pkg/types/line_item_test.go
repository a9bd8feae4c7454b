package types

import (
	"encoding/json"
	"testing"
)

func TestLineItemsValueAndScan(t *testing.T) {
	img := "https://cdn.example/laptop.png"
	items := LineItems{
		{ProductID: "1", Name: "Laptop", Price: 999.99, Quantity: 1},
		{ProductID: "2", Name: "Smartphone", Price: 699.99, Quantity: 2, Image: &img},
	}

	value, err := items.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var decoded LineItems
	if err := decoded.Scan([]byte(value.(string))); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 items, got %d", len(decoded))
	}
	if decoded[0].Image != nil {
		t.Fatalf("expected nil image, got %q", *decoded[0].Image)
	}
	if decoded[1].Image == nil || *decoded[1].Image != img {
		t.Fatalf("image not preserved: %+v", decoded[1])
	}
}

func TestLineItemsNilEncodesAsEmptyArray(t *testing.T) {
	var items LineItems
	value, err := items.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}
	if value != "[]" {
		t.Fatalf("expected [] got %v", value)
	}

	raw, err := json.Marshal(struct {
		Items LineItems `json:"items"`
	}{})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(raw) != `{"items":[]}` {
		t.Fatalf("unexpected json %s", raw)
	}

	var scanned LineItems
	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error: %v", err)
	}
	if scanned == nil || len(scanned) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", scanned)
	}
}

func TestLineItemImageSerializesAsNull(t *testing.T) {
	raw, err := json.Marshal(LineItem{ProductID: "1", Name: "Laptop", Price: 999.99, Quantity: 1})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	want := `{"productId":"1","name":"Laptop","price":999.99,"quantity":1,"image":null}`
	if string(raw) != want {
		t.Fatalf("got %s want %s", raw, want)
	}
}

func TestLineItemsCloneIsDeep(t *testing.T) {
	img := "a.png"
	items := LineItems{{ProductID: "1", Quantity: 1, Image: &img}}
	clone := items.Clone()
	clone[0].Quantity = 4
	*clone[0].Image = "b.png"

	if items[0].Quantity != 1 || *items[0].Image != "a.png" {
		t.Fatalf("clone mutated source: %+v", items[0])
	}
	if items.Index("1") != 0 || items.Index("2") != -1 {
		t.Fatal("Index returned unexpected positions")
	}
}
