package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/cartkeeper/pkg/auth"
	"github.com/angelmondragon/cartkeeper/pkg/config"
)

func adminConfig() config.AdminConfig {
	return config.AdminConfig{JWTSecret: "test-secret", JWTIssuer: "cartkeeper", ExpirationMinutes: 5}
}

func TestAdminAuthOpenWithoutSecret(t *testing.T) {
	called := false
	handler := AdminAuth(config.AdminConfig{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
	if !called {
		t.Fatalf("expected handler to run when admin auth is disabled")
	}
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	handler := AdminAuth(adminConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAdminAuthRejectsForeignSignature(t *testing.T) {
	other := adminConfig()
	other.JWTSecret = "other-secret"
	token, err := pkgAuth.MintAdminToken(other, time.Now(), pkgAuth.AdminTokenPayload{Subject: "ops"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	handler := AdminAuth(adminConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAdminAuthAcceptsValidToken(t *testing.T) {
	cfg := adminConfig()
	token, err := pkgAuth.MintAdminToken(cfg, time.Now(), pkgAuth.AdminTokenPayload{Subject: "ops"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var subject string
	handler := AdminAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = AdminSubjectFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if subject != "ops" {
		t.Fatalf("expected subject ops got %q", subject)
	}
}
