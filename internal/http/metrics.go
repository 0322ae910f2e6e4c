package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stateset_client_requests_total",
		Help: "Number of HTTP requests sent, by method and status code",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stateset_client_request_duration_seconds",
		Help:    "HTTP request latency, retries included",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stateset_client_retries_total",
		Help: "Number of retry waits performed",
	})

	retriesExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stateset_client_retries_exhausted_total",
		Help: "Number of requests that failed after exhausting retries",
	})
)
