// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoaderFlushes counts batch flushes per loader.
	LoaderFlushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "loader",
		Name:      "flushes_total",
		Help:      "Number of batch flushes issued per loader.",
	}, []string{"loader"})

	// LoaderBatchSize observes the number of deduplicated keys per flush.
	LoaderBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "attendance",
		Subsystem: "loader",
		Name:      "batch_size",
		Help:      "Deduplicated keys carried by each batch flush.",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
	}, []string{"loader"})

	// LoaderErrors counts failed batch flushes per loader.
	LoaderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "loader",
		Name:      "errors_total",
		Help:      "Number of batch flushes that returned an error.",
	}, []string{"loader"})

	// NotificationsSent counts outbound OTP notifications by outcome.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "notifier",
		Name:      "deliveries_total",
		Help:      "OTP delivery attempts by outcome.",
	}, []string{"outcome"})
)
