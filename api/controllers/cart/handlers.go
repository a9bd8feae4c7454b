package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/cartkeeper/api/middleware"
	"github.com/angelmondragon/cartkeeper/api/responses"
	"github.com/angelmondragon/cartkeeper/api/validators"
	cartsvc "github.com/angelmondragon/cartkeeper/internal/cart"
	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
	"github.com/angelmondragon/cartkeeper/pkg/logger"
)

// CartFetch returns the session cart, or an empty view when none is stored.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, ok := sessionCart(w, r, svc, logg)
		if !ok {
			return
		}

		view, err := svc.Get(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, view)
	}
}

// CartAdd appends a product or raises its quantity.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, ok := sessionCart(w, r, svc, logg)
		if !ok {
			return
		}

		var payload addRequest
		if err := validators.DecodeRawBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Add(r.Context(), cartID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, newMutationResponse(items))
	}
}

// CartUpdate sets the quantity of a line already in the cart.
func CartUpdate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, ok := sessionCart(w, r, svc, logg)
		if !ok {
			return
		}

		var payload updateRequest
		if err := validators.DecodeRawBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Update(r.Context(), cartID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, newMutationResponse(items))
	}
}

func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, ok := sessionCart(w, r, svc, logg)
		if !ok {
			return
		}

		items, err := svc.Remove(r.Context(), cartID, chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, newMutationResponse(items))
	}
}

func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, ok := sessionCart(w, r, svc, logg)
		if !ok {
			return
		}

		items, err := svc.Clear(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, newMutationResponse(items))
	}
}

// CartSync merges the client's stored cart into the server cart.
func CartSync(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, ok := sessionCart(w, r, svc, logg)
		if !ok {
			return
		}

		var payload syncRequest
		if err := validators.DecodeRawBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Sync(r.Context(), cartID, payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, newMutationResponse(items))
	}
}

func sessionCart(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return "", false
	}
	cartID := middleware.CartIDFromContext(r.Context())
	if cartID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
		return "", false
	}
	return cartID, true
}
