package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the counters and histograms exposed on /metrics.
type Metrics struct {
	ResolutionsTotal  *prometheus.CounterVec
	MethodCallsTotal  *prometheus.CounterVec
	MethodDuration    *prometheus.HistogramVec
	QuotaSkippedTotal *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics registers the application metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tldsweep",
			Name:      "resolutions_total",
			Help:      "Resolved candidates by final status.",
		}, []string{"status"}),
		MethodCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tldsweep",
			Name:      "method_calls_total",
			Help:      "Verification method calls by method and result.",
		}, []string{"method", "result"}),
		MethodDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tldsweep",
			Name:      "method_duration_seconds",
			Help:      "Verification method call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		QuotaSkippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tldsweep",
			Name:      "quota_skipped_total",
			Help:      "Method calls skipped because the quota window was exhausted.",
		}, []string{"method"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tldsweep",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tldsweep",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.ResolutionsTotal,
		m.MethodCallsTotal,
		m.MethodDuration,
		m.QuotaSkippedTotal,
		m.HTTPRequestsTotal,
		m.HTTPDuration,
	)
	return m
}

// ObserveResult records a completed resolution.
func (m *Metrics) ObserveResult(status string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(status).Inc()
}

// ObserveMethodCall records one verification call with its outcome class
// (conclusive, inconclusive, failed) and latency.
func (m *Metrics) ObserveMethodCall(method, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.MethodCallsTotal.WithLabelValues(method, result).Inc()
	m.MethodDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveQuotaSkip records a method skipped on an exhausted quota window.
func (m *Metrics) ObserveQuotaSkip(method string) {
	if m == nil {
		return
	}
	m.QuotaSkippedTotal.WithLabelValues(method).Inc()
}
