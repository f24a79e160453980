package controllers

import (
	"net/http"

	"github.com/tienda3x1/storefront/api/responses"
	"github.com/tienda3x1/storefront/internal/storefront"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/logger"
)

// Checkout runs the purchase simulation and returns the receipt.
func Checkout(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}

		receipt, err := app.Checkout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}
