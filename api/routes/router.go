package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tienda3x1/storefront/api/controllers"
	"github.com/tienda3x1/storefront/api/middleware"
	"github.com/tienda3x1/storefront/internal/notifications"
	"github.com/tienda3x1/storefront/internal/storefront"
	"github.com/tienda3x1/storefront/pkg/config"
	"github.com/tienda3x1/storefront/pkg/kv"
	"github.com/tienda3x1/storefront/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	app *storefront.App,
	notifier *notifications.Notifier,
	kvStore kv.Store,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, kvStore))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(app, logg))
			r.Get("/categories", controllers.CatalogCategories(app, logg))
			r.Post("/refresh", controllers.CatalogRefresh(app, logg))
		})

		r.Route("/view", func(r chi.Router) {
			r.Get("/", controllers.ViewSnapshot(app, logg))
			r.Put("/criteria", controllers.ViewUpdateCriteria(app, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(app, logg))
			r.Delete("/", controllers.CartClear(app, logg))
			r.Post("/items", controllers.CartAddItem(app, logg))
			r.Put("/items/{productId}", controllers.CartSetQuantity(app, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(app, logg))
		})

		r.Post("/checkout", controllers.Checkout(app, logg))
		r.Get("/notifications", controllers.ListNotifications(notifier, logg))
	})

	return r
}
