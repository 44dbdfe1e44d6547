package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	scrapeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "avocado_scrape_duration_seconds",
			Help:    "Duration of the combined metadata+transcript fetch.",
			Buckets: prometheus.DefBuckets,
		},
	)

	analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "avocado_analysis_duration_seconds",
			Help:    "Duration of the LLM credibility analysis.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)
)

func init() {
	prometheus.MustRegister(scrapeDuration, analysisDuration)
}
