// Package metrics provides Prometheus metrics for the Eywa landing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the Eywa service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Domain metrics
	eventsAppended   *prometheus.CounterVec
	branchLeads      *prometheus.GaugeVec
	branchPayments   *prometheus.GaugeVec
	branchPoints     *prometheus.GaugeVec
	recomputeLatency prometheus.Histogram
	joinRequests     *prometheus.CounterVec

	// Live feed
	feedSubscribers prometheus.Gauge
	feedPublished   prometheus.Counter
	feedDropped     prometheus.Counter

	// Injector
	injectorTicks *prometheus.CounterVec

	// Repository
	repositoryRecordsTotal  prometheus.Gauge
	repositoryAppendLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// Dedupe
	dedupeSize prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "eywa",
		subsystem:        "landing",
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

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.eventsAppended = auto.NewCounterVec(
		m.counterOpts("events_appended_total", "Events appended to the list by branch and kind"),
		[]string{"branch", "kind"},
	)
	m.branchLeads = auto.NewGaugeVec(
		m.gaugeOpts("branch_leads", "Current lead count per branch (total included)"),
		[]string{"branch"},
	)
	m.branchPayments = auto.NewGaugeVec(
		m.gaugeOpts("branch_payments", "Current payment count per branch (total included)"),
		[]string{"branch"},
	)
	m.branchPoints = auto.NewGaugeVec(
		m.gaugeOpts("branch_points", "Current points per branch (total included)"),
		[]string{"branch"},
	)
	m.recomputeLatency = auto.NewHistogram(
		m.histogramOpts("recompute_latency_milliseconds", "Stats recomputation latency in milliseconds"),
	)
	m.joinRequests = auto.NewCounterVec(
		m.counterOpts("join_requests_total", "Join-mission form submissions by outcome"),
		[]string{"status"},
	)

	m.feedSubscribers = auto.NewGauge(m.gaugeOpts("feed_subscribers", "Live update subscribers"))
	m.feedPublished = auto.NewCounter(m.counterOpts("feed_published_total", "Updates published to the live feed"))
	m.feedDropped = auto.NewCounter(m.counterOpts("feed_dropped_total", "Updates dropped for slow subscribers"))

	m.injectorTicks = auto.NewCounterVec(
		m.counterOpts("injector_ticks_total", "Injector ticks by outcome"),
		[]string{"outcome"},
	)

	m.repositoryRecordsTotal = auto.NewGauge(m.gaugeOpts("repository_records_total", "Events held by the store"))
	m.repositoryAppendLatency = auto.NewHistogram(
		m.histogramOpts("repository_append_latency_milliseconds", "Store append latency in milliseconds"),
	)
	m.repositoryQueryLatency = auto.NewHistogram(
		m.histogramOpts("repository_query_latency_milliseconds", "Store query latency in milliseconds"),
	)

	m.dedupeSize = auto.NewGauge(m.gaugeOpts("dedupe_size", "Keys currently tracked by the deduper"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// RecordEventAppended counts one appended event.
func RecordEventAppended(branch, kind string) {
	globalManager.eventsAppended.WithLabelValues(branch, kind).Inc()
}

// UpdateBranchStats sets the three counters of one branch (or "total").
func UpdateBranchStats(branch string, leads, payments, points int) {
	globalManager.branchLeads.WithLabelValues(branch).Set(float64(leads))
	globalManager.branchPayments.WithLabelValues(branch).Set(float64(payments))
	globalManager.branchPoints.WithLabelValues(branch).Set(float64(points))
}

// RecordRecomputeLatency records stats recomputation latency in milliseconds.
func RecordRecomputeLatency(latencyMs float64) {
	globalManager.recomputeLatency.Observe(latencyMs)
}

// RecordJoinRequest counts a join submission; status is accepted, duplicate or invalid.
func RecordJoinRequest(status string) {
	globalManager.joinRequests.WithLabelValues(status).Inc()
}

// UpdateFeedSubscribers sets the live subscriber count.
func UpdateFeedSubscribers(count int) {
	globalManager.feedSubscribers.Set(float64(count))
}

// RecordFeedPublished counts one update fanned out to subscribers.
func RecordFeedPublished() {
	globalManager.feedPublished.Inc()
}

// RecordFeedDropped counts an update a subscriber missed.
func RecordFeedDropped() {
	globalManager.feedDropped.Inc()
}

// RecordInjectorTick counts an injector tick; outcome is injected, skipped or error.
func RecordInjectorTick(outcome string) {
	globalManager.injectorTicks.WithLabelValues(outcome).Inc()
}

// UpdateRepositoryRecordsTotal sets the number of stored events.
func UpdateRepositoryRecordsTotal(count int) {
	globalManager.repositoryRecordsTotal.Set(float64(count))
}

// RecordRepositoryAppendLatency records store append latency.
func RecordRepositoryAppendLatency(latencyMs float64) {
	globalManager.repositoryAppendLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records store query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// UpdateDedupeSize sets the number of keys the deduper tracks.
func UpdateDedupeSize(size int) {
	globalManager.dedupeSize.Set(float64(size))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
