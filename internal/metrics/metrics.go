package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts job submissions by outcome status.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobrelay",
		Name:      "submissions_total",
		Help:      "Job submissions by outcome status.",
	}, []string{"status"})

	// CompletionsTotal counts handled completion events by terminal outcome.
	CompletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobrelay",
		Name:      "completions_total",
		Help:      "Completion events by handling outcome.",
	}, []string{"outcome"})

	// NotificationsTotal counts workflow resumption deliveries.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobrelay",
		Name:      "notifications_total",
		Help:      "Workflow resumption calls by kind and status.",
	}, []string{"kind", "status"})
)
