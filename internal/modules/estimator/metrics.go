package estimator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farecast_estimator_fits_total",
		Help: "Total number of fare models fitted.",
	})
	fitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "farecast_estimator_fit_duration_seconds",
		Help:    "Duration of a single model fit.",
		Buckets: []float64{0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
	})
	estimatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farecast_estimator_estimates_total",
		Help: "Total number of estimate requests by outcome.",
	}, []string{"outcome"})
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farecast_estimator_cache_hits_total",
		Help: "Cache hits by cache (model, prediction).",
	}, []string{"cache"})
)
