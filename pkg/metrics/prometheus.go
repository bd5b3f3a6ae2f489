// Package metrics provides Prometheus metrics for the rankvote tally service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the tally service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Tally metrics
	tallies        *prometheus.CounterVec
	tallyDuration  *prometheus.HistogramVec
	ballotsCounted *prometheus.CounterVec
	runoffRounds   *prometheus.HistogramVec

	// Input quality
	validationErrors *prometheus.CounterVec
	unknownMethods   prometheus.Counter

	// Election size of the most recent request
	electionCandidates prometheus.Gauge
	electionBallots    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rankvote",
		subsystem:        "tally",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      make(map[string]string),
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
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.tallies = auto.NewCounterVec(
		m.counterOpts("tallies_total", "Total number of tallies by method and outcome"),
		[]string{"method", "outcome"},
	)
	m.tallyDuration = auto.NewHistogramVec(
		m.histogramOpts("tally_duration_milliseconds", "Tally duration in milliseconds", m.histogramBuckets),
		[]string{"method"},
	)
	m.ballotsCounted = auto.NewCounterVec(
		m.counterOpts("ballots_counted_total", "Total number of ballots counted by method"),
		[]string{"method"},
	)
	m.runoffRounds = auto.NewHistogramVec(
		m.histogramOpts("runoff_rounds", "Number of counting rounds per runoff-style tally",
			[]float64{1, 2, 3, 4, 5, 8, 12, 16, 32, 64}),
		[]string{"method"},
	)

	m.validationErrors = auto.NewCounterVec(
		m.counterOpts("validation_errors_total", "Total number of rejected elections by failure kind"),
		[]string{"kind"},
	)
	m.unknownMethods = auto.NewCounter(
		m.counterOpts("unknown_method_total", "Total number of requests naming an unknown method"),
	)

	m.electionCandidates = auto.NewGauge(
		m.gaugeOpts("election_candidates", "Number of candidates in the most recent election"),
	)
	m.electionBallots = auto.NewGauge(
		m.gaugeOpts("election_ballots", "Number of ballots in the most recent election"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Current heap allocation in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Current number of goroutines"),
	)
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m != nil && m.enabled }

// RecordTally counts one tally of method with outcome "ok" or an error kind.
func RecordTally(method, outcome string) {
	if globalManager.Enabled() {
		globalManager.tallies.WithLabelValues(method, outcome).Inc()
	}
}

// RecordTallyDuration records how long one method took, in milliseconds.
func RecordTallyDuration(method string, ms float64) {
	if globalManager.Enabled() {
		globalManager.tallyDuration.WithLabelValues(method).Observe(ms)
	}
}

// RecordBallotsCounted adds n ballots to the method's counter.
func RecordBallotsCounted(method string, n int) {
	if globalManager.Enabled() {
		globalManager.ballotsCounted.WithLabelValues(method).Add(float64(n))
	}
}

// RecordRunoffRounds records the number of rounds a runoff-style tally needed.
func RecordRunoffRounds(method string, n int) {
	if globalManager.Enabled() {
		globalManager.runoffRounds.WithLabelValues(method).Observe(float64(n))
	}
}

// RecordValidationError counts a rejected election by failure kind.
func RecordValidationError(kind string) {
	if globalManager.Enabled() {
		globalManager.validationErrors.WithLabelValues(kind).Inc()
	}
}

// RecordUnknownMethod counts a request naming an unknown method.
func RecordUnknownMethod() {
	if globalManager.Enabled() {
		globalManager.unknownMethods.Inc()
	}
}

// UpdateElectionSize sets the size gauges of the most recent election.
func UpdateElectionSize(candidates, ballots int) {
	if globalManager.Enabled() {
		globalManager.electionCandidates.Set(float64(candidates))
		globalManager.electionBallots.Set(float64(ballots))
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.Enabled() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.Enabled() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.Enabled() {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.Enabled() {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
