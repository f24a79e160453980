package controllers

import (
	"net/http"

	"github.com/tienda3x1/storefront/api/responses"
	"github.com/tienda3x1/storefront/api/validators"
	"github.com/tienda3x1/storefront/internal/storefront"
	"github.com/tienda3x1/storefront/pkg/enums"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/logger"
)

type criteriaRequest struct {
	Search   *string `json:"search"`
	Category *string `json:"category"`
	Sort     *string `json:"sort"`

	// Debounce applies the search through the typing window instead of
	// immediately; the returned snapshot reflects the pre-debounce state.
	Debounce bool `json:"debounce"`
}

// ViewSnapshot returns the filtered, sorted product view plus cart state.
func ViewSnapshot(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}
		responses.WriteSuccess(w, app.Snapshot())
	}
}

// ViewUpdateCriteria applies the provided criteria fields; omitted fields are
// left unchanged.
func ViewUpdateCriteria(app *storefront.App, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable"))
			return
		}

		var req criteriaRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if req.Sort != nil {
			key, err := enums.ParseSortKey(*req.Sort)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort key"))
				return
			}
			app.SelectSort(key)
		}
		if req.Category != nil {
			app.SelectCategory(*req.Category)
		}
		if req.Search != nil {
			if req.Debounce {
				app.QueueSearch(*req.Search)
			} else {
				app.Search(*req.Search)
			}
		}

		responses.WriteSuccess(w, app.Snapshot())
	}
}
