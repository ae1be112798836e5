package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the HomeSpark service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Recommendation Metrics
	recommendations      *prometheus.CounterVec
	fallbacks            *prometheus.CounterVec
	unresolvedDimensions *prometheus.CounterVec
	filterWidenings      prometheus.Counter
	candidateCount       prometheus.Histogram
	engineLatency        prometheus.Histogram
	tiersReturned        *prometheus.CounterVec

	// Catalog Metrics
	catalogItems        prometheus.Gauge
	catalogLoads        *prometheus.CounterVec
	catalogLoadDuration prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
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
		namespace:        "homespark",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Recommendation Metrics
	m.recommendations = auto.NewCounterVec(
		m.counterOpts("recommendations_total", "Recommendation requests answered, by path (scored or fallback)"),
		[]string{"path"},
	)
	m.fallbacks = auto.NewCounterVec(
		m.counterOpts("fallbacks_total", "Fallback sampling invocations by reason"),
		[]string{"reason"},
	)
	m.unresolvedDimensions = auto.NewCounterVec(
		m.counterOpts("unresolved_dimensions_total", "Preference values that matched no vocabulary entry"),
		[]string{"dimension"},
	)
	m.filterWidenings = auto.NewCounter(
		m.counterOpts("filter_widenings_total", "Budget filter passes that widened the cost range"),
	)
	m.candidateCount = auto.NewHistogram(
		m.histogramOpts("filter_candidates", "Items surviving the budget filter per request",
			[]float64{0, 1, 2, 3, 5, 10, 20, 50, 100, 250, 500}),
	)
	m.engineLatency = auto.NewHistogram(
		m.histogramOpts("engine_latency_milliseconds", "End-to-end engine latency in milliseconds", m.histogramBuckets),
	)
	m.tiersReturned = auto.NewCounterVec(
		m.counterOpts("tiers_returned_total", "Returned recommendations by quality tier"),
		[]string{"tier"},
	)

	// Catalog Metrics
	m.catalogItems = auto.NewGauge(
		m.gaugeOpts("catalog_items", "Items in the loaded catalog"),
	)
	m.catalogLoads = auto.NewCounterVec(
		m.counterOpts("catalog_loads_total", "Catalog load attempts by source and result"),
		[]string{"source", "result"},
	)
	m.catalogLoadDuration = auto.NewGauge(
		m.gaugeOpts("catalog_load_duration_milliseconds", "Duration of the last catalog load in milliseconds"),
	)

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Recommendation Metrics Functions.

// RecordRecommendation counts an answered request on path (scored or fallback).
func RecordRecommendation(path string) {
	globalManager.recommendations.WithLabelValues(path).Inc()
}

// RecordFallback counts a fallback invocation.
func RecordFallback(reason string) {
	globalManager.fallbacks.WithLabelValues(reason).Inc()
}

// RecordUnresolvedDimension counts a preference value with no vocabulary match.
func RecordUnresolvedDimension(dimension string) {
	globalManager.unresolvedDimensions.WithLabelValues(dimension).Inc()
}

// RecordFilterWidening counts a widened filter pass.
func RecordFilterWidening() {
	globalManager.filterWidenings.Inc()
}

// RecordCandidateCount observes how many items survived filtering.
func RecordCandidateCount(n int) {
	globalManager.candidateCount.Observe(float64(n))
}

// RecordEngineLatency records engine latency in milliseconds.
func RecordEngineLatency(latencyMs float64) {
	globalManager.engineLatency.Observe(latencyMs)
}

// RecordTierReturned counts a returned recommendation of the given tier.
func RecordTierReturned(tier string) {
	globalManager.tiersReturned.WithLabelValues(tier).Inc()
}

// Catalog Metrics Functions.

// UpdateCatalogItems sets the loaded catalog size.
func UpdateCatalogItems(count int) {
	globalManager.catalogItems.Set(float64(count))
}

// RecordCatalogLoad counts a load attempt and stores its duration.
func RecordCatalogLoad(source, result string, durationMs float64) {
	globalManager.catalogLoads.WithLabelValues(source, result).Inc()
	globalManager.catalogLoadDuration.Set(durationMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
