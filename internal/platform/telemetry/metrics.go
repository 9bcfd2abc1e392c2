package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bodhitab"

// Prometheus instruments shared across adapters. They register with the
// default registry once at package init.
var (
	// QuoteResolutions counts resolved quotes by source (remote, local).
	QuoteResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quote_resolutions_total",
		Help:      "Quotes served, by resolution source.",
	}, []string{"source"})

	// StorageErrors counts swallowed key-value store failures.
	StorageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_errors_total",
		Help:      "Key-value store failures degraded to absent or false.",
	}, []string{"backend", "op"})

	// FavoritesTrimmed counts entries dropped by the quota cleanup.
	FavoritesTrimmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorites_trimmed_total",
		Help:      "Favorites removed by the storage quota cleanup.",
	})

	// HTTPRequests counts served requests by route template and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route, and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route template.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// NetworkOnline is 1 while the quote API is believed reachable.
	NetworkOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "network_online",
		Help:      "Connectivity flag consulted before remote quote requests.",
	})
)

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
