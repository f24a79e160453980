package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tienda3x1/storefront/api/routes"
	"github.com/tienda3x1/storefront/internal/cart"
	"github.com/tienda3x1/storefront/internal/catalog"
	"github.com/tienda3x1/storefront/internal/checkout"
	"github.com/tienda3x1/storefront/internal/notifications"
	"github.com/tienda3x1/storefront/internal/storefront"
	"github.com/tienda3x1/storefront/pkg/config"
	"github.com/tienda3x1/storefront/pkg/kv"
	"github.com/tienda3x1/storefront/pkg/logger"
	"github.com/tienda3x1/storefront/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var kvStore kv.Store
	if cfg.FeatureFlags.UseMemoryStore {
		kvStore = kv.NewMemory()
		logg.Info(context.Background(), "using in-memory cart storage")
	} else {
		redisStore, err := kv.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		kvStore = redisStore
	}
	defer func() {
		if err := kvStore.Close(); err != nil {
			logg.Error(context.Background(), "error closing cart storage", err)
		}
	}()

	metricsCollector := metrics.NewStorefrontMetrics(prometheus.DefaultRegisterer)

	catalogStore := catalog.NewStore(cfg.Catalog.PlaceholderImage)
	catalogClient := catalog.NewClient(cfg.Catalog)

	cartStore, err := cart.NewStore(kvStore, cfg.Cart, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	notifier := notifications.NewNotifier(logg, 0)

	ledger, err := cart.NewLedger(cart.LedgerParams{
		Catalog:  catalogStore,
		Store:    cartStore,
		Notifier: notifier,
		Logger:   logg,
		Metrics:  metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart ledger", err)
		os.Exit(1)
	}

	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Cart:     ledger,
		Notifier: notifier,
		Config:   cfg.Checkout,
		Logger:   logg,
		Metrics:  metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	app, err := storefront.New(storefront.Params{
		Catalog:  catalogStore,
		Fetcher:  catalogClient,
		Cart:     ledger,
		Checkout: checkoutSvc,
		View:     cfg.View,
		Logger:   logg,
		Metrics:  metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create storefront app", err)
		os.Exit(1)
	}

	// serve even when the initial fetch fails; the refresh endpoint retries
	if err := app.Init(context.Background()); err != nil {
		logg.Error(context.Background(), "initial catalog load failed", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, app, notifier, kvStore, prometheus.DefaultGatherer),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
