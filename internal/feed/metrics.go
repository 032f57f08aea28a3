package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newspanel_backend_requests_total",
		Help: "Requests sent to the news backend by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	backendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newspanel_backend_request_duration_seconds",
		Help:    "Latency of news backend requests",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
	}, []string{"endpoint"})
)

const (
	outcomeOK       = "ok"
	outcomeNetwork  = "network_error"
	outcomeBadShape = "bad_shape"
	outcomeRejected = "rejected"
)
