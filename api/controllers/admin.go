package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/cartkeeper/api/responses"
	"github.com/angelmondragon/cartkeeper/api/validators"
	"github.com/angelmondragon/cartkeeper/internal/cart"
	"github.com/angelmondragon/cartkeeper/internal/catalog"
	"github.com/angelmondragon/cartkeeper/internal/cron"
	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
	"github.com/angelmondragon/cartkeeper/pkg/logger"
)

const maxCleanupDays = 3650

// CartPurger deletes carts idle for more than the given number of days.
// Zero days means the configured retention.
type CartPurger interface {
	Purge(ctx context.Context, days int) (cron.PurgeResult, error)
}

// CartAdmin is the store surface used by the admin routes.
type CartAdmin interface {
	Stats(ctx context.Context) (cart.Stats, error)
	Delete(ctx context.Context, cartID string) (bool, error)
}

// ProductWriter is the administrative side of the product catalog.
type ProductWriter interface {
	Upsert(id string, in catalog.ProductInput) (catalog.Product, error)
}

type cleanupRequest struct {
	Days *int `json:"days" validate:"omitempty,min=1,max=3650"`
}

type cleanupResponse struct {
	Success bool `json:"success"`
	cron.PurgeResult
}

// AdminCleanup runs the stale cart purge on demand. days may come from the
// body or the query string; neither means the configured retention.
func AdminCleanup(purger CartPurger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if purger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cleanup job unavailable"))
			return
		}

		var payload cleanupRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		days := 0
		if payload.Days != nil {
			days = *payload.Days
		} else {
			fromQuery, err := validators.ParseQueryInt(r, "days", 0, 1, maxCleanupDays)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			days = fromQuery
		}

		result, err := purger.Purge(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, cleanupResponse{Success: true, PurgeResult: result})
	}
}

func AdminStats(store CartAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		stats, err := store.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, stats)
	}
}

// AdminDeleteCart removes one cart row outright.
func AdminDeleteCart(store CartAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		cartID := strings.TrimSpace(chi.URLParam(r, "cartId"))
		if _, err := uuid.Parse(cartID); err != nil || len(cartID) != 36 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Invalid cart ID").
				WithDetails(map[string]any{"field": "cartId"}))
			return
		}

		deleted, err := store.Delete(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !deleted {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Cart not found"))
			return
		}

		responses.WriteOK(w, map[string]any{"success": true, "cartId": cartID})
	}
}

// AdminUpsertProduct creates or replaces a catalog entry.
func AdminUpsertProduct(products ProductWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product catalog unavailable"))
			return
		}

		var payload catalog.ProductInput
		if err := validators.DecodeRawBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.Upsert(chi.URLParam(r, "productId"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "product_id", product.ID), "catalog product upserted")
		}
		responses.WriteOK(w, map[string]any{"success": true, "product": product})
	}
}
