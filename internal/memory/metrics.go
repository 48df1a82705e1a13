// Package memory Prometheus metrics for pattern store monitoring.
package memory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PatternsTotal tracks the number of stored mapping patterns.
	PatternsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reflectd",
			Subsystem: "memory",
			Name:      "patterns_total",
			Help:      "Total number of stored mapping patterns",
		},
	)

	// SimilarityCacheLookups counts similarity cache lookups.
	// Labels: result (hit, miss)
	SimilarityCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflectd",
			Subsystem: "memory",
			Name:      "similarity_cache_lookups_total",
			Help:      "Total number of similarity cache lookups",
		},
		[]string{"result"},
	)

	// FlushesTotal counts write-behind persistence flushes.
	// Labels: result (success, error)
	FlushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflectd",
			Subsystem: "memory",
			Name:      "flushes_total",
			Help:      "Total number of pattern store persistence flushes",
		},
		[]string{"result"},
	)

	// RecordsTotal counts recorded mapping outcomes.
	// Labels: result (success, failure)
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflectd",
			Subsystem: "memory",
			Name:      "records_total",
			Help:      "Total number of recorded mapping outcomes",
		},
		[]string{"result"},
	)
)
