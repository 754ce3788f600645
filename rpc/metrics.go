package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusRPCRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lightwallet",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Number of JSON-RPC requests by method",
		},
		[]string{"method"},
	)

	prometheusRPCErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lightwallet",
			Subsystem: "rpc",
			Name:      "errors_total",
			Help:      "Number of failed JSON-RPC requests by method",
		},
		[]string{"method"},
	)

	prometheusRPCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lightwallet",
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "JSON-RPC round trip duration by method",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)
