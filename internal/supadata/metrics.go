package supadata

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avocado_supadata_requests_total",
			Help: "Upstream Supadata API calls, by resource and HTTP status.",
		},
		[]string{"resource", "status"},
	)

	fingerprintCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avocado_fingerprint_cache_hits_total",
			Help: "Fingerprint cache hits, by resource kind.",
		},
		[]string{"resource"},
	)

	fingerprintCacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avocado_fingerprint_cache_misses_total",
			Help: "Fingerprint cache misses, by resource kind.",
		},
		[]string{"resource"},
	)
)

func init() {
	prometheus.MustRegister(upstreamRequests, fingerprintCacheHits, fingerprintCacheMisses)
}
