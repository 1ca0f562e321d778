package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ruleboard_submissions_accepted_total",
			Help: "Total number of rule submissions written successfully",
		},
	)

	SubmissionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruleboard_submissions_rejected_total",
			Help: "Total number of rule submissions rejected by validation",
		},
		[]string{"field"},
	)

	CompensatingDeletes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ruleboard_compensating_deletes_total",
			Help: "Total number of rules deleted to compensate for failed category linking",
		},
	)

	RuleListFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruleboard_rule_list_fetches_total",
			Help: "Total number of rule list fetches served",
		},
		[]string{"status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ruleboard_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)
