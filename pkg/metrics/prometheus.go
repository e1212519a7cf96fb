// Package metrics provides Prometheus metrics for the huddle recommender.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the huddle service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Learning
	interactionsRecorded  *prometheus.CounterVec
	interactionsDuplicate prometheus.Counter
	interactionsRejected  *prometheus.CounterVec
	modelResets           prometheus.Counter
	trackedUsers          prometheus.Gauge
	storedInteractions    prometheus.Gauge

	// Matching
	recommendationsServed prometheus.Counter
	coldStarts            prometheus.Counter
	rankingLatency        prometheus.Histogram

	// Categorization
	categorizations *prometheus.CounterVec

	// Catalog
	catalogEvents     prometheus.Gauge
	catalogOperations *prometheus.CounterVec

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queuePartitions        prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

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
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "huddle",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	m.interactionsRecorded = m.counterVec("interactions_recorded_total",
		"Total number of interactions applied to user models", "action")
	m.interactionsDuplicate = m.counter("interactions_duplicate_total",
		"Total number of duplicate interaction submissions dropped")
	m.interactionsRejected = m.counterVec("interactions_rejected_total",
		"Total number of interactions rejected before learning", "reason")
	m.modelResets = m.counter("model_resets_total", "Total number of user model resets")
	m.trackedUsers = m.gauge("tracked_users", "Number of users with a preference profile")
	m.storedInteractions = m.gauge("stored_interactions", "Number of interactions in the log")

	m.recommendationsServed = m.counter("recommendations_served_total",
		"Total number of recommendation lists served")
	m.coldStarts = m.counter("cold_starts_total",
		"Total number of recommendation lists served to users without preferences")
	m.rankingLatency = m.histogram("ranking_latency_milliseconds",
		"Histogram of candidate ranking latency in milliseconds")

	m.categorizations = m.counterVec("categorizations_total",
		"Total number of category inferences by how the category was found", "source")

	m.catalogEvents = m.gauge("catalog_events", "Number of events in the catalog")
	m.catalogOperations = m.counterVec("catalog_operations_total",
		"Total number of attendance operations by outcome", "operation", "outcome")

	m.queueSize = m.gauge("queue_size", "Current number of queued interactions")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity across partitions")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)")
	m.queuePartitions = m.gauge("queue_partitions", "Number of queue partitions")
	m.queueEnqueueRate = m.counter("queue_enqueue_total", "Total number of interactions enqueued")
	m.queueDequeueRate = m.counter("queue_dequeue_total", "Total number of interactions dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of enqueue errors")
	m.queueProcessingLatency = m.histogram("queue_processing_latency_milliseconds",
		"Time from enqueue to learning in milliseconds")

	m.workerActiveCount = m.gauge("worker_active_count", "Number of running learning workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds",
		"Time spent applying one interaction in milliseconds")
	m.workerErrorRate = m.counter("worker_errors_total", "Total number of worker errors")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = m.counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// Learning metrics.

// RecordInteraction increments the applied interactions counter.
func RecordInteraction(action string) {
	globalManager.interactionsRecorded.WithLabelValues(action).Inc()
}

// RecordInteractionDuplicate increments the duplicate interactions counter.
func RecordInteractionDuplicate() {
	globalManager.interactionsDuplicate.Inc()
}

// RecordInteractionRejected increments the rejected interactions counter.
func RecordInteractionRejected(reason string) {
	globalManager.interactionsRejected.WithLabelValues(reason).Inc()
}

// RecordModelReset increments the model reset counter.
func RecordModelReset() {
	globalManager.modelResets.Inc()
}

// UpdateTrackedUsers sets the number of users with a profile.
func UpdateTrackedUsers(count int) {
	globalManager.trackedUsers.Set(float64(count))
}

// UpdateStoredInteractions sets the size of the interaction log.
func UpdateStoredInteractions(count int) {
	globalManager.storedInteractions.Set(float64(count))
}

// Matching metrics.

// RecordRecommendationServed increments the served recommendations counter.
func RecordRecommendationServed() {
	globalManager.recommendationsServed.Inc()
}

// RecordColdStart increments the cold start counter.
func RecordColdStart() {
	globalManager.coldStarts.Inc()
}

// RecordRankingLatency records ranking latency in milliseconds.
func RecordRankingLatency(latencyMs float64) {
	globalManager.rankingLatency.Observe(latencyMs)
}

// RecordCategorization increments the categorization counter for source.
func RecordCategorization(source string) {
	globalManager.categorizations.WithLabelValues(source).Inc()
}

// Catalog metrics.

// UpdateCatalogEvents sets the number of catalog events.
func UpdateCatalogEvents(count int) {
	globalManager.catalogEvents.Set(float64(count))
}

// RecordCatalogOperation counts a join or leave attempt and its outcome.
func RecordCatalogOperation(operation, outcome string) {
	globalManager.catalogOperations.WithLabelValues(operation, outcome).Inc()
}

// Queue metrics.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// UpdateQueuePartitions sets the number of queue partitions.
func UpdateQueuePartitions(count int) {
	globalManager.queuePartitions.Set(float64(count))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue processing latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker metrics.

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

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
