package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
)

type cleanupBody struct {
	Days *int `json:"days" validate:"omitempty,min=1,max=3650"`
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"days":3,"extra":true}`))
	var body cleanupBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRunsStructValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"days":0}`))
	var body cleanupBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["days"] != "must be at least 1" {
		t.Fatalf("unexpected details %v", typed.Details())
	}
}

func TestDecodeOptionalJSONBodyAcceptsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	var body cleanupBody
	if err := DecodeOptionalJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Days != nil {
		t.Fatalf("expected nil days")
	}

	req = httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected required body error, got %v", err)
	}
}

func TestDecodeRawBodyIgnoresUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":"1","quantity":2,"color":"red"}`))
	var body struct {
		ProductID any `json:"productId"`
		Quantity  any `json:"quantity"`
	}
	if err := DecodeRawBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.ProductID != "1" || body.Quantity != float64(2) {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeRawBodyRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":`))
	var body map[string]any
	err := DecodeRawBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "Invalid JSON body" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer   abc", "abc", true},
		{"abc", "abc", true},
		{"", "", false},
		{"Bearer ", "", false},
		{"Bearer a b", "", false},
	}
	for _, tt := range tests {
		got, err := BearerToken(tt.raw)
		if (err == nil) != tt.ok {
			t.Fatalf("%q: expected ok=%v got err=%v", tt.raw, tt.ok, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %q got %q", tt.raw, tt.want, got)
		}
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/?days=14", nil)
	got, err := ParseQueryInt(req, "days", 7, 1, 3650)
	if err != nil || got != 14 {
		t.Fatalf("expected 14, got %d (%v)", got, err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	got, err = ParseQueryInt(req, "days", 7, 1, 3650)
	if err != nil || got != 7 {
		t.Fatalf("expected default 7, got %d (%v)", got, err)
	}

	req = httptest.NewRequest(http.MethodPost, "/?days=abc", nil)
	if _, err := ParseQueryInt(req, "days", 7, 1, 3650); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
