package stateset

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stateset_client_cache_hits_total",
		Help: "Number of cache lookups served from the cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stateset_client_cache_misses_total",
		Help: "Number of cache lookups that missed or were expired",
	})
)
