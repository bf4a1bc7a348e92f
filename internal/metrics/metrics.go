package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered once on the default registry and served by
// promhttp on /metrics.
var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdesk_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "salesdesk_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdesk_auth_failures_total",
		Help: "Requests rejected by the identity extractor, by reason",
	}, []string{"reason"})

	RoleDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdesk_role_denials_total",
		Help: "Requests rejected by the role gate, by operation",
	}, []string{"operation"})

	AuditEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdesk_audit_entries_total",
		Help: "Audit entries appended, by action",
	}, []string{"action"})

	JobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdesk_jobs_finished_total",
		Help: "Background jobs finished, by result",
	}, []string{"result"})
)

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route string, status int, start time.Time) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

func IncAuthFailure(reason string) {
	AuthFailures.WithLabelValues(reason).Inc()
}

func IncRoleDenial(operation string) {
	RoleDenials.WithLabelValues(operation).Inc()
}

func IncAuditEntry(action string) {
	AuditEntries.WithLabelValues(action).Inc()
}

// IncJob records a finished background job.
func IncJob(failed bool) {
	if failed {
		JobsFinished.WithLabelValues("failure").Inc()
		return
	}
	JobsFinished.WithLabelValues("success").Inc()
}
