package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/cartkeeper/pkg/config"
)

func serveCartSession(t *testing.T, cfg config.CartConfig, cookie *http.Cookie) (string, *http.Cookie) {
	t.Helper()
	var seen string
	handler := CartSession(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	return seen, cookies[0]
}

func TestCartSessionMintsIDWhenMissing(t *testing.T) {
	seen, cookie := serveCartSession(t, config.CartConfig{}, nil)

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid cart id, got %q", seen)
	}
	if cookie.Name != "cartId" || cookie.Value != seen {
		t.Fatalf("unexpected cookie %+v", cookie)
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected HttpOnly Lax cookie, got %+v", cookie)
	}
	if cookie.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Fatalf("expected 7 day max age, got %d", cookie.MaxAge)
	}
}

func TestCartSessionKeepsValidID(t *testing.T) {
	id := uuid.NewString()
	seen, cookie := serveCartSession(t, config.CartConfig{CookieName: "cartId"}, &http.Cookie{Name: "cartId", Value: id})

	if seen != id {
		t.Fatalf("expected %s got %s", id, seen)
	}
	if cookie.Value != id {
		t.Fatalf("expected cookie to be re-issued with the same id")
	}
}

func TestCartSessionReplacesInvalidID(t *testing.T) {
	for _, value := range []string{"not-a-uuid", "1; DROP TABLE carts", "{" + uuid.NewString() + "}"} {
		seen, _ := serveCartSession(t, config.CartConfig{}, &http.Cookie{Name: "cartId", Value: value})
		if seen == value {
			t.Fatalf("expected invalid id %q to be replaced", value)
		}
		if _, err := uuid.Parse(seen); err != nil {
			t.Fatalf("expected uuid cart id, got %q", seen)
		}
	}
}

func TestCartSessionHonoursConfig(t *testing.T) {
	cfg := config.CartConfig{CookieName: "cart", CookieMaxAge: time.Hour, CookieSecure: true}
	_, cookie := serveCartSession(t, cfg, nil)

	if cookie.Name != "cart" || !cookie.Secure || cookie.MaxAge != 3600 {
		t.Fatalf("unexpected cookie %+v", cookie)
	}
}
