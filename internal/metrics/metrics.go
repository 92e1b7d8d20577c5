// Package metrics defines the Prometheus collectors for the
// authorization engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Authorization metrics
var (
	// AuthzDecisionsTotal counts authorization decisions by operation
	// and outcome (allow/deny).
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total authorization decisions by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// AuthzDenialsTotal counts denials by permission tag, so isolation
	// denials (tenant/area) are distinguishable from feature denials.
	AuthzDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denials_total",
			Help: "Total authorization denials by permission tag",
		},
		[]string{"permission"},
	)
)

// Validation suite metrics
var (
	// SuiteRunsTotal counts validation suite executions by overall
	// outcome.
	SuiteRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_suite_runs_total",
			Help: "Total validation suite runs by outcome",
		},
		[]string{"outcome"},
	)

	// SuiteFailuresTotal counts failed checks by level and severity.
	SuiteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_suite_failures_total",
			Help: "Total failed validation checks by level and severity",
		},
		[]string{"level", "severity"},
	)
)

// Isolation audit metrics
var (
	// AuditRunsTotal counts isolation audit runs by outcome.
	AuditRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isolation_audit_runs_total",
			Help: "Total isolation audit runs by outcome",
		},
		[]string{"outcome"},
	)

	// AuditCriticalFailures reports the critical failure count of the
	// most recent isolation audit per tenant.
	AuditCriticalFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "isolation_audit_critical_failures",
			Help: "Critical failures in the most recent isolation audit",
		},
		[]string{"tenant_id"},
	)

	// AuditDuration tracks isolation audit duration.
	AuditDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "isolation_audit_duration_seconds",
			Help:    "Isolation audit duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)
)

// Reference validation metrics
var (
	// ReferenceChecksTotal counts reference existence checks by table
	// and result.
	ReferenceChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reference_checks_total",
			Help: "Total foreign-key reference checks by table and result",
		},
		[]string{"table", "result"},
	)
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, path pattern
	// and status class.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "route"},
	)
)
