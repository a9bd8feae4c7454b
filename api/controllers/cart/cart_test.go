package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/cartkeeper/api/middleware"
	cartsvc "github.com/angelmondragon/cartkeeper/internal/cart"
	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
	"github.com/angelmondragon/cartkeeper/pkg/types"
)

const testCartID = "0d5c1f4e-8a77-4b7a-9d0e-3f1b2c4d5e6f"

type stubCartService struct {
	view       cartsvc.View
	items      types.LineItems
	err        error
	lastCartID string
	lastAdd    cartsvc.AddInput
	lastUpdate cartsvc.UpdateInput
	lastRemove string
	lastSync   any
}

func (s *stubCartService) Get(_ context.Context, cartID string) (cartsvc.View, error) {
	s.lastCartID = cartID
	return s.view, s.err
}

func (s *stubCartService) Add(_ context.Context, cartID string, input cartsvc.AddInput) (types.LineItems, error) {
	s.lastCartID = cartID
	s.lastAdd = input
	return s.items, s.err
}

func (s *stubCartService) Update(_ context.Context, cartID string, input cartsvc.UpdateInput) (types.LineItems, error) {
	s.lastCartID = cartID
	s.lastUpdate = input
	return s.items, s.err
}

func (s *stubCartService) Remove(_ context.Context, cartID string, productID string) (types.LineItems, error) {
	s.lastCartID = cartID
	s.lastRemove = productID
	return s.items, s.err
}

func (s *stubCartService) Clear(_ context.Context, cartID string) (types.LineItems, error) {
	s.lastCartID = cartID
	return s.items, s.err
}

func (s *stubCartService) Sync(_ context.Context, cartID string, items any) (types.LineItems, error) {
	s.lastCartID = cartID
	s.lastSync = items
	return s.items, s.err
}

func cartRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithCartID(req.Context(), testCartID))
}

func decodeMutation(t *testing.T, resp *httptest.ResponseRecorder) mutationResponse {
	t.Helper()
	var payload mutationResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func TestCartFetchEmptyCart(t *testing.T) {
	svc := &stubCartService{view: cartsvc.View{Items: types.LineItems{}}}
	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, cartRequest(http.MethodGet, "/api/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastCartID != testCartID {
		t.Fatalf("expected cart id from session, got %q", svc.lastCartID)
	}
	if got := strings.TrimSpace(resp.Body.String()); got != `{"items":[],"lastUpdated":null,"itemCount":0}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestCartFetchStorageFailure(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.Wrap(pkgerrors.CodeStorage, errors.New("disk I/O error"), "cart store get failed")}
	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, cartRequest(http.MethodGet, "/api/cart", ""))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestCartFetchWithoutSession(t *testing.T) {
	resp := httptest.NewRecorder()
	CartFetch(&stubCartService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestCartAddPassesRawValues(t *testing.T) {
	items := types.LineItems{{ProductID: "1", Name: "Laptop", Price: 999.99, Quantity: 1}}
	svc := &stubCartService{items: items}
	resp := httptest.NewRecorder()
	body := `{"productId":"1","name":"Laptop","price":999.99,"quantity":"2","extra":true}`
	CartAdd(svc, nil).ServeHTTP(resp, cartRequest(http.MethodPost, "/api/cart/add", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastAdd.Quantity != "2" {
		t.Fatalf("expected raw string quantity to reach the service, got %#v", svc.lastAdd.Quantity)
	}
	if svc.lastAdd.Price != 999.99 {
		t.Fatalf("unexpected price %#v", svc.lastAdd.Price)
	}
	payload := decodeMutation(t, resp)
	if !payload.Success || len(payload.Items) != 1 || payload.Items[0].ProductID != "1" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestCartAddRejectsMalformedBody(t *testing.T) {
	svc := &stubCartService{}
	resp := httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(resp, cartRequest(http.MethodPost, "/api/cart/add", `{"productId":`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.lastCartID != "" {
		t.Fatalf("service should not be called")
	}
}

func TestCartAddValidationError(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "Invalid product ID")}
	resp := httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(resp, cartRequest(http.MethodPost, "/api/cart/add", `{"productId":"999"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Invalid product ID") {
		t.Fatalf("expected message in body, got %s", resp.Body.String())
	}
}

func TestCartUpdateNotFound(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "Cart not found")}
	resp := httptest.NewRecorder()
	CartUpdate(svc, nil).ServeHTTP(resp, cartRequest(http.MethodPut, "/api/cart/update", `{"productId":"1","quantity":2}`))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if svc.lastUpdate.Quantity != float64(2) {
		t.Fatalf("unexpected quantity %#v", svc.lastUpdate.Quantity)
	}
}

func TestCartRemoveUsesPathParam(t *testing.T) {
	svc := &stubCartService{items: types.LineItems{}}
	router := chi.NewRouter()
	router.Delete("/api/cart/remove/{productId}", CartRemove(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, cartRequest(http.MethodDelete, "/api/cart/remove/3", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastRemove != "3" {
		t.Fatalf("expected product 3 got %q", svc.lastRemove)
	}
}

func TestCartClearReturnsEmptyList(t *testing.T) {
	svc := &stubCartService{}
	resp := httptest.NewRecorder()
	CartClear(svc, nil).ServeHTTP(resp, cartRequest(http.MethodDelete, "/api/cart/clear", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := strings.TrimSpace(resp.Body.String()); got != `{"success":true,"items":[]}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestCartSyncForwardsItems(t *testing.T) {
	svc := &stubCartService{items: types.LineItems{}}
	resp := httptest.NewRecorder()
	CartSync(svc, nil).ServeHTTP(resp, cartRequest(http.MethodPost, "/api/cart/sync", `{"items":[{"productId":"1"}]}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	items, ok := svc.lastSync.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected raw item list, got %#v", svc.lastSync)
	}
}
