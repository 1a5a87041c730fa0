// Package metrics: счётчики Prometheus. Регистрируются в default registry
// при импорте и отдаются на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// path: шаблон маршрута mux, не сырой URL.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, by method, route template and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

var (
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_sync_runs_total",
			Help: "GitHub project sync runs, by result (ok|not_configured|upstream_error|error).",
		},
		[]string{"result"},
	)

	SyncProjectsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "project_sync_projects_added_total",
		Help: "Projects created by GitHub sync.",
	})

	SyncFacetErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_sync_facet_errors_total",
			Help: "Per-repository fetch failures tolerated during sync, by facet (languages|readme|repo).",
		},
		[]string{"facet"},
	)

	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "project_sync_duration_seconds",
		Help:    "Duration of a full GitHub sync run.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)

var (
	ResetRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "password_reset_requests_total",
			Help: "Forgot-password requests, by outcome (issued|throttled|ignored|rate_limited).",
		},
		[]string{"outcome"},
	)

	ResetConfirmTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "password_reset_confirm_total",
			Help: "Password reset confirmations, by outcome (ok|invalid).",
		},
		[]string{"outcome"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Outgoing emails, by kind and result.",
		},
		[]string{"kind", "result"},
	)
)
