package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/cartkeeper/api/responses"
	"github.com/angelmondragon/cartkeeper/internal/catalog"
	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
	"github.com/angelmondragon/cartkeeper/pkg/logger"
)

// ProductReader is the read side of the product catalog.
type ProductReader interface {
	All() []catalog.Product
	MustGet(id string) (catalog.Product, error)
}

// ProductList returns the whole catalog.
func ProductList(products ProductReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product catalog unavailable"))
			return
		}
		responses.WriteOK(w, map[string]any{"products": products.All()})
	}
}

func ProductDetail(products ProductReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product catalog unavailable"))
			return
		}
		product, err := products.MustGet(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, map[string]any{"product": product})
	}
}
