package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "salon_analytics",
		Name:      "dashboard_compute_seconds",
		Help:      "Time spent computing a dashboard, by outcome.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"outcome"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salon_analytics",
		Name:      "dashboard_cache_lookups_total",
		Help:      "Dashboard result cache lookups, by result.",
	}, []string{"result"})

	supersededTriggers = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "salon_analytics",
		Name:      "dashboard_superseded_total",
		Help:      "Computations cancelled because a newer filter arrived on the same slot.",
	})

	sourceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "salon_analytics",
		Name:      "source_failures_total",
		Help:      "Data source loads that failed and fell back to an empty dataset.",
	})
)
