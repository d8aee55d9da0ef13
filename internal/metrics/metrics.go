package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LeadsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_leads_created_total",
			Help: "Leads created (forms and CSV import)",
		},
	)

	HistoryWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_history_writes_total",
			Help: "Buyer history rows written by event type",
		},
		[]string{"event_type"},
	)

	// UnauditedUpdatesTotal counts edits whose transaction failed at commit
	// after the row update and its audit row were both issued. The commit
	// outcome is ambiguous at that point, so any increment here warrants
	// investigation.
	UnauditedUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_unaudited_updates_total",
			Help: "Record updates whose history write failed",
		},
	)
)
