package quality

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AssessmentsTotal counts quality assessments by resulting level.
// Labels: level (excellent, good, fair, poor, unacceptable)
var AssessmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "reflectd",
		Subsystem: "quality",
		Name:      "assessments_total",
		Help:      "Total number of mapping quality assessments by level",
	},
	[]string{"level"},
)
