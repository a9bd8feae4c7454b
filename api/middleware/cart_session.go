package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/cartkeeper/pkg/config"
	"github.com/angelmondragon/cartkeeper/pkg/logger"
)

const (
	defaultCartCookie       = "cartId"
	defaultCartCookieMaxAge = 7 * 24 * time.Hour
)

// CartSession resolves the acting cart from its cookie. A missing or
// non-UUID value is replaced with a fresh id, and the cookie is re-issued on
// every request so the expiry rolls forward.
func CartSession(cfg config.CartConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	name := strings.TrimSpace(cfg.CookieName)
	if name == "" {
		name = defaultCartCookie
	}
	maxAge := cfg.CookieMaxAge
	if maxAge <= 0 {
		maxAge = defaultCartCookieMaxAge
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID, issued := resolveCartID(r, name)

			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    cartID,
				Path:     "/",
				MaxAge:   int(maxAge / time.Second),
				Expires:  time.Now().Add(maxAge),
				HttpOnly: true,
				Secure:   cfg.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithCartID(r.Context(), cartID)
			if logg != nil {
				ctx = logg.WithCartID(ctx, cartID)
				if issued {
					logg.Debug(ctx, "cart session issued")
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveCartID(r *http.Request, name string) (string, bool) {
	if cookie, err := r.Cookie(name); err == nil {
		value := strings.TrimSpace(cookie.Value)
		if len(value) == 36 {
			if id, err := uuid.Parse(value); err == nil {
				return id.String(), false
			}
		}
	}
	return uuid.NewString(), true
}
