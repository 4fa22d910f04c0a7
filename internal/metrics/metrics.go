package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_payments_registered_total",
			Help: "Payments registered against periods or deposits",
		},
	)

	PaymentsAnnulled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_payments_annulled_total",
			Help: "Payments reversed with an audit record",
		},
	)

	RentalsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_rentals_cancelled_total",
			Help: "Rentals terminated early against their deposit",
		},
	)

	TxConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_tx_conflicts_total",
			Help: "Store transactions that failed with a serialization conflict",
		},
	)
)
