package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tienda3x1/storefront/api/responses"
	"github.com/tienda3x1/storefront/api/validators"
	"github.com/tienda3x1/storefront/internal/storefront"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/logger"
)

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func cartPayload(app *storefront.App) map[string]any {
	snapshot := app.Snapshot()
	return map[string]any{
		"lines":  snapshot.CartLines,
		"totals": snapshot.Totals,
	}
}

// CartFetch returns the cart lines and totals.
func CartFetch(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}
		responses.WriteSuccess(w, cartPayload(app))
	}
}

// CartAddItem adds one unit of a catalog product, merging into an existing
// line when present.
func CartAddItem(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}

		var req addItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := app.AddToCart(r.Context(), req.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cartPayload(app))
	}
}

// CartSetQuantity replaces a line's quantity; zero or below removes the line.
func CartSetQuantity(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}

		productID, err := validators.ParsePathInt64(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req setQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app.SetQuantity(r.Context(), productID, *req.Quantity)
		responses.WriteSuccess(w, cartPayload(app))
	}
}

// CartRemoveItem deletes a line regardless of quantity.
func CartRemoveItem(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}

		productID, err := validators.ParsePathInt64(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app.RemoveFromCart(r.Context(), productID)
		responses.WriteSuccess(w, cartPayload(app))
	}
}

// CartClear empties the cart.
func CartClear(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}
		app.ClearCart(r.Context())
		responses.WriteSuccess(w, cartPayload(app))
	}
}
