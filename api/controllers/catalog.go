package controllers

import (
	"net/http"

	"github.com/tienda3x1/storefront/api/responses"
	"github.com/tienda3x1/storefront/internal/storefront"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/logger"
)

// CatalogList returns the full catalog, unfiltered.
func CatalogList(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}
		snapshot := app.Snapshot()
		responses.WriteSuccess(w, map[string]any{
			"products":   snapshot.Products,
			"categories": snapshot.Categories,
		})
	}
}

// CatalogCategories lists the catalog's distinct categories.
func CatalogCategories(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": app.Categories()})
	}
}

// CatalogRefresh re-fetches the product feed and replaces the catalog.
func CatalogRefresh(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}

		accepted, err := app.RefreshCatalog(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"loaded": accepted})
	}
}
