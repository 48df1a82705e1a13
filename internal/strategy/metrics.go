package strategy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SelectionsTotal counts strategy selections.
// Labels: strategy (catalog ID), basis (evidence, preferred, default)
var SelectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "reflectd",
		Subsystem: "strategy",
		Name:      "selections_total",
		Help:      "Total number of strategy selections by strategy and basis",
	},
	[]string{"strategy", "basis"},
)
