package controllers

import (
	"net/http"

	"github.com/tienda3x1/storefront/api/responses"
	"github.com/tienda3x1/storefront/api/validators"
	"github.com/tienda3x1/storefront/internal/notifications"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/logger"
)

// ListNotifications returns recent notifications, newest first.
func ListNotifications(notifier *notifications.Notifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notifier == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifier unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"notifications": notifier.Recent(limit),
		})
	}
}
