package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records catalog, cart and checkout activity.
type StorefrontMetrics struct {
	catalogProducts  prometheus.Gauge
	catalogFailures  prometheus.Counter
	cartMutations    *prometheus.CounterVec
	checkoutDuration prometheus.Histogram
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	catalogProducts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products",
		Help: "Number of products accepted into the catalog on the last load.",
	})
	catalogFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_fetch_failures_total",
		Help: "Failed catalog fetch attempts.",
	})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of simulated checkouts in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(catalogProducts, catalogFailures, cartMutations, checkoutDuration)
	return &StorefrontMetrics{
		catalogProducts:  catalogProducts,
		catalogFailures:  catalogFailures,
		cartMutations:    cartMutations,
		checkoutDuration: checkoutDuration,
	}
}

// SetCatalogProducts records the accepted product count of the last load.
func (m *StorefrontMetrics) SetCatalogProducts(count int) {
	if m == nil || m.catalogProducts == nil {
		return
	}
	m.catalogProducts.Set(float64(count))
}

// IncCatalogFailure increments the fetch failure counter.
func (m *StorefrontMetrics) IncCatalogFailure() {
	if m == nil || m.catalogFailures == nil {
		return
	}
	m.catalogFailures.Inc()
}

// IncCartMutation increments the mutation counter for the named operation.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveCheckout records the duration of a completed checkout.
func (m *StorefrontMetrics) ObserveCheckout(duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	m.checkoutDuration.Observe(duration.Seconds())
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
