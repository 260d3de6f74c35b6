package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routeengine_quote_requests_total",
			Help: "Total number of aggregated quote requests",
		},
		[]string{"mode", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routeengine_quote_duration_seconds",
			Help:    "Aggregated quote request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	PathsEnumerated = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routeengine_paths_enumerated",
		Help:    "Number of candidate paths enumerated per quote request",
		Buckets: []float64{1, 2, 5, 10, 15, 20, 30},
	})

	RouterQuoteDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routeengine_router_quote_drops_total",
			Help: "Quote candidates dropped, by reason",
		},
		[]string{"reason"},
	)

	// Cache metrics
	QuoteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routeengine_quote_cache_hits_total",
		Help: "Total number of quote cache hits",
	})

	QuoteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routeengine_quote_cache_misses_total",
		Help: "Total number of quote cache misses",
	})

	QuoteCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "routeengine_quote_cache_size",
		Help: "Current number of entries in the quote cache",
	})

	// Best-route scorer metrics
	BestRouteCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routeengine_best_route_candidates",
		Help:    "Surviving candidates per best-route request",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
	})

	BestRouteConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routeengine_best_route_confidence_bps",
		Help:    "Score gap between top two best-route candidates in bps",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
	})

	// Liquidity scan metrics
	ScanDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "routeengine_scan_duration_seconds",
		Help: "Duration of the last liquidity scan",
	})

	ScanPairsFound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "routeengine_scan_pairs_found",
		Help: "Token pairs with liquidity found by the last scan",
	})

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routeengine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routeengine_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
