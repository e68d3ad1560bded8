package prometheus

import "time"

// Outcome label values for inference requests.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeFormat    = "format_error"
	OutcomeCanceled  = "canceled"
	OutcomeError     = "error"
)

// AppMetrics is the full set of sabdamanthan metrics.
type AppMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	InferenceRequestsTotal   CounterVec
	InferenceRequestDuration HistogramVec

	ValidationRejectionsTotal   CounterVec
	ReconcileDroppedAnnotations CounterVec
	PanelBusyRejectionsTotal    CounterVec

	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	ActiveSessions GaugeVec
}

var (
	DefaultHTTPDurationBuckets      = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultInferenceDurationBuckets = []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30, 60}
)

// NewAppMetrics registers every metric with c.
func NewAppMetrics(c MetricsCollector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal: c.RegisterCounter("http_requests_total",
			"HTTP requests served by the web shell.", "method", "route", "status"),
		HTTPRequestDuration: c.RegisterHistogram("http_request_duration_seconds",
			"HTTP request latency.", DefaultHTTPDurationBuckets, "method", "route"),
		HTTPActiveRequests: c.RegisterGauge("http_active_requests",
			"HTTP requests in flight."),

		InferenceRequestsTotal: c.RegisterCounter("inference_requests_total",
			"Calls to the inference service by task and outcome.", "task", "outcome"),
		InferenceRequestDuration: c.RegisterHistogram("inference_request_duration_seconds",
			"Latency of calls to the inference service.", DefaultInferenceDurationBuckets, "task"),

		ValidationRejectionsTotal: c.RegisterCounter("validation_rejections_total",
			"Submissions rejected before reaching the network.", "task", "reason"),
		ReconcileDroppedAnnotations: c.RegisterCounter("reconcile_dropped_annotations_total",
			"Annotations that could not be located in the input.", "task"),
		PanelBusyRejectionsTotal: c.RegisterCounter("panel_busy_rejections_total",
			"Submissions rejected because the panel had a request in flight.", "task"),

		CacheHitsTotal: c.RegisterCounter("cache_hits_total",
			"Prediction cache hits.", "task"),
		CacheMissesTotal: c.RegisterCounter("cache_misses_total",
			"Prediction cache misses.", "task"),

		ActiveSessions: c.RegisterGauge("active_sessions",
			"Browser sessions held by the web shell."),
	}
}

// NewNoopAppMetrics returns metrics that record nothing.
func NewNoopAppMetrics() *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:           &noopCounterVec{},
		HTTPRequestDuration:         &noopHistogramVec{},
		HTTPActiveRequests:          &noopGaugeVec{},
		InferenceRequestsTotal:      &noopCounterVec{},
		InferenceRequestDuration:    &noopHistogramVec{},
		ValidationRejectionsTotal:   &noopCounterVec{},
		ReconcileDroppedAnnotations: &noopCounterVec{},
		PanelBusyRejectionsTotal:    &noopCounterVec{},
		CacheHitsTotal:              &noopCounterVec{},
		CacheMissesTotal:            &noopCounterVec{},
		ActiveSessions:              &noopGaugeVec{},
	}
}

// RecordHTTPRequest records one served request.
func (m *AppMetrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordInference records one call to the inference service.
func (m *AppMetrics) RecordInference(task, outcome string, d time.Duration) {
	m.InferenceRequestsTotal.WithLabelValues(task, outcome).Inc()
	m.InferenceRequestDuration.WithLabelValues(task).Observe(d.Seconds())
}

// RecordValidationRejection records input rejected before the network.
func (m *AppMetrics) RecordValidationRejection(task, reason string) {
	m.ValidationRejectionsTotal.WithLabelValues(task, reason).Inc()
}

// RecordDropped records annotations dropped by the reconciler.
func (m *AppMetrics) RecordDropped(task string, n int) {
	if n <= 0 {
		return
	}
	m.ReconcileDroppedAnnotations.WithLabelValues(task).Add(float64(n))
}

// RecordBusy records a submission rejected by a busy panel.
func (m *AppMetrics) RecordBusy(task string) {
	m.PanelBusyRejectionsTotal.WithLabelValues(task).Inc()
}

// RecordCache records a cache lookup.
func (m *AppMetrics) RecordCache(task string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(task).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(task).Inc()
}

// SetActiveSessions publishes the session count.
func (m *AppMetrics) SetActiveSessions(n int) {
	m.ActiveSessions.WithLabelValues().Set(float64(n))
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	}
	return "1xx"
}
