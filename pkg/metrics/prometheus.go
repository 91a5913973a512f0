// Package metrics provides Prometheus metrics for the ladder leaderboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the ladder service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Engine metrics - the ranking core
	mutationsApplied prometheus.Counter
	mutationsNoop    prometheus.Counter
	mutationBatches  prometheus.Counter
	pendingMutations prometheus.Gauge
	rebuildsTotal    prometheus.Counter
	rebuildDuration  prometheus.Histogram
	usersTotal       prometheus.Gauge
	bucketCount      prometheus.Gauge

	// Page cache metrics
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	cacheEntries prometheus.Gauge

	// Query latency metrics
	listLatency   prometheus.Histogram
	searchLatency prometheus.Histogram
	lookupLatency prometheus.Histogram

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ladder",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.mutationsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "mutations_applied_total",
		Help:      "Total number of score mutations that changed a user's score",
	})

	m.mutationsNoop = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "mutations_noop_total",
		Help:      "Total number of score mutations that clamped to the existing score",
	})

	m.mutationBatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "mutation_batches_total",
		Help:      "Total number of mutation batches issued",
	})

	m.pendingMutations = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pending_mutations",
		Help:      "Committed score mutations not yet reflected by the rank index",
	})

	m.rebuildsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_rebuilds_total",
		Help:      "Total number of rank index rebuilds",
	})

	m.rebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_rebuild_duration_milliseconds",
		Help:      "Histogram of rank index rebuild duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.usersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "users_total",
		Help:      "Total number of users in the leaderboard",
	})

	m.bucketCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "name_index_buckets",
		Help:      "Number of first-character buckets in the name index",
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "page_cache_hits_total",
		Help:      "Total number of listing requests served from the page cache",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "page_cache_misses_total",
		Help:      "Total number of listing requests that missed the page cache",
	})

	m.cacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "page_cache_entries",
		Help:      "Current number of entries in the page cache",
	})

	m.listLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "list_latency_milliseconds",
		Help:      "Histogram of ranked listing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.searchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "search_latency_milliseconds",
		Help:      "Histogram of prefix search latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.lookupLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_lookup_latency_milliseconds",
		Help:      "Histogram of rank lookup latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and error type",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Histogram of GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Engine metrics helpers.

func RecordMutationApplied() {
	if globalManager != nil && globalManager.enabled {
		globalManager.mutationsApplied.Inc()
	}
}

func RecordMutationNoop() {
	if globalManager != nil && globalManager.enabled {
		globalManager.mutationsNoop.Inc()
	}
}

func RecordMutationBatch() {
	if globalManager != nil && globalManager.enabled {
		globalManager.mutationBatches.Inc()
	}
}

func UpdatePendingMutations(pending int64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.pendingMutations.Set(float64(pending))
	}
}

func RecordRebuild(durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.rebuildsTotal.Inc()
		globalManager.rebuildDuration.Observe(durationMs)
	}
}

func UpdateUsersTotal(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.usersTotal.Set(float64(count))
	}
}

func UpdateBucketCount(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.bucketCount.Set(float64(count))
	}
}

// Page cache helpers.

func RecordCacheHit() {
	if globalManager != nil && globalManager.enabled {
		globalManager.cacheHits.Inc()
	}
}

func RecordCacheMiss() {
	if globalManager != nil && globalManager.enabled {
		globalManager.cacheMisses.Inc()
	}
}

func UpdateCacheEntries(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.cacheEntries.Set(float64(count))
	}
}

// Query latency helpers.

func RecordListLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.listLatency.Observe(latencyMs)
	}
}

func RecordSearchLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.searchLatency.Observe(latencyMs)
	}
}

func RecordLookupLatency(latencyMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.lookupLatency.Observe(latencyMs)
	}
}

// HTTP helpers.

func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// Error helpers.

func RecordErrorByComponent(component, errorType string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// System helpers.

func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

func UpdateSystemGoroutineCount(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the custom Prometheus registry used by the
// global manager, for serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
