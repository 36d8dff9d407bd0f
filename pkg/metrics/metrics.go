package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrorsTotal     *prometheus.CounterVec

	// Engine Metrics
	SizeParsesTotal         *prometheus.CounterVec
	SetupResolutionsTotal   prometheus.Counter
	DiameterMismatchesTotal prometheus.Counter
	ComparisonsTotal        *prometheus.CounterVec
	ComparisonDuration      prometheus.Histogram
	ClearanceVerdictsTotal  *prometheus.CounterVec
	ScrubEstimatesTotal     prometheus.Counter

	// Database Metrics
	DBQueryDuration  *prometheus.HistogramVec
	DBConnectionPool *prometheus.GaugeVec
	DBErrorsTotal    *prometheus.CounterVec

	// Session Metrics
	SessionOpsTotal   *prometheus.CounterVec
	SessionSetupCount prometheus.Histogram
}

// NewCollector creates a new metrics collector
func NewCollector(namespace string) *Collector {
	return &Collector{
		APIRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		APIErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors by type",
			},
			[]string{"error_type", "endpoint"},
		),

		SizeParsesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "size_parses_total",
				Help:      "Total number of tire-size parse attempts by resulting notation",
			},
			[]string{"notation"}, // "metric", "flotation", "unparsable"
		),

		SetupResolutionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "setup_resolutions_total",
				Help:      "Total number of setups resolved from raw fields",
			},
		),

		DiameterMismatchesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diameter_mismatches_total",
				Help:      "Total number of resolved setups whose tire and wheel rim diameters disagree",
			},
		),

		ComparisonsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "comparisons_total",
				Help:      "Total number of baseline/candidate comparisons by outcome",
			},
			[]string{"outcome"}, // "ok", "unavailable", "mismatch"
		),

		ComparisonDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "comparison_duration_seconds",
				Help:      "Duration of a full comparison (resolve, deltas, verdicts, scrub) in seconds",
				Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
			},
		),

		ClearanceVerdictsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "clearance_verdicts_total",
				Help:      "Total number of clearance verdicts by side and outcome",
			},
			[]string{"side", "outcome"}, // side: "inner"/"outer"; outcome: "pass"/"fail"
		),

		ScrubEstimatesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scrub_estimates_total",
				Help:      "Total number of scrub-radius estimates produced",
			},
		),

		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds by query type",
				Buckets:   []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
			},
			[]string{"query_type"},
		),

		DBConnectionPool: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"state"}, // "in_use", "idle", "total"
		),

		DBErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_errors_total",
				Help:      "Total number of database errors by type",
			},
			[]string{"error_type"},
		),

		SessionOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_ops_total",
				Help:      "Total number of session store operations by type",
			},
			[]string{"operation"}, // "save", "load", "list", "delete"
		),

		SessionSetupCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "session_setup_count",
				Help:      "Number of setups per saved session",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),
	}
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordAPIRequest increments API request counter
func (c *Collector) RecordAPIRequest(endpoint, method, status string) {
	c.APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// RecordAPIError increments API error counter
func (c *Collector) RecordAPIError(errorType, endpoint string) {
	c.APIErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordSizeParse increments the parse counter for the given notation;
// pass "unparsable" for input matching neither grammar
func (c *Collector) RecordSizeParse(notation string) {
	c.SizeParsesTotal.WithLabelValues(notation).Inc()
}

// RecordComparison increments the comparison counter for the given outcome
func (c *Collector) RecordComparison(outcome string) {
	c.ComparisonsTotal.WithLabelValues(outcome).Inc()
}

// RecordClearanceVerdict increments the verdict counter for one side
func (c *Collector) RecordClearanceVerdict(side string, passed bool) {
	outcome := "fail"
	if passed {
		outcome = "pass"
	}
	c.ClearanceVerdictsTotal.WithLabelValues(side, outcome).Inc()
}

// RecordSessionOp increments the session operation counter
func (c *Collector) RecordSessionOp(operation string) {
	c.SessionOpsTotal.WithLabelValues(operation).Inc()
}

// RecordDBError increments database error counter
func (c *Collector) RecordDBError(errorType string) {
	c.DBErrorsTotal.WithLabelValues(errorType).Inc()
}

// UpdateDBConnectionPool updates database connection pool metrics
func (c *Collector) UpdateDBConnectionPool(inUse, idle, total int) {
	c.DBConnectionPool.WithLabelValues("in_use").Set(float64(inUse))
	c.DBConnectionPool.WithLabelValues("idle").Set(float64(idle))
	c.DBConnectionPool.WithLabelValues("total").Set(float64(total))
}
