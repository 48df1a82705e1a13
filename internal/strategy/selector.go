package strategy

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reflectd/internal/memory"
)

// Fallback selection scores.
const (
	defaultScore   = 0.6
	preferredScore = 0.7
)

// PatternSource supplies similar historical patterns for evidence-based
// selection.
type PatternSource interface {
	RetrieveSimilar(ctx context.Context, pointName, deviceType string, threshold float64, limit int) []memory.SimilarPattern
}

// Point is the input to strategy selection.
type Point struct {
	PointName  string `json:"point_name"`
	DeviceType string `json:"device_type"`
}

// Selection is the outcome of strategy selection.
type Selection struct {
	Strategy Descriptor `json:"strategy"`
	Score    float64    `json:"score"`
	Reason   string     `json:"reason"`
}

// counter tracks uses and successes for one breakdown key.
type counter struct {
	Uses      int `json:"uses"`
	Successes int `json:"successes"`
}

// performanceRecord accumulates one strategy's history.
type performanceRecord struct {
	TotalUses int
	Successes int
	Failures  int
	Devices   map[string]*counter
	Patterns  map[string]*counter
}

// DeviceStats is the per-device slice of a strategy's statistics.
type DeviceStats struct {
	Uses        int     `json:"uses"`
	SuccessRate float64 `json:"success_rate"`
}

// Stats summarizes one strategy's tracked performance.
type Stats struct {
	TotalUses   int                    `json:"total_uses"`
	Successes   int                    `json:"successes"`
	Failures    int                    `json:"failures"`
	SuccessRate float64                `json:"success_rate"`
	Devices     map[string]DeviceStats `json:"devices,omitempty"`
}

// Selector chooses strategies and tracks their performance.
//
// Counter updates run under a single RWMutex; the selector is safe for
// concurrent use.
type Selector struct {
	mu          sync.RWMutex
	performance map[string]*performanceRecord

	patterns PatternSource
	logger   *zap.Logger
}

// NewSelector creates a strategy selector backed by historical patterns.
func NewSelector(patterns PatternSource, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		performance: make(map[string]*performanceRecord),
		patterns:    patterns,
		logger:      logger,
	}
}

// Select picks the best strategy for a point.
//
// Without a point name or device type the global default is returned.
// Otherwise similar historical patterns are scanned: each strategy's
// success rate over examples tagged with it qualifies the strategy only
// when the rate clears the strategy's own confidence threshold, and the
// best qualifying rate wins. With no qualifying evidence, the device
// type's preferred strategy or the global default is used.
func (s *Selector) Select(ctx context.Context, point Point) Selection {
	if point.PointName == "" || point.DeviceType == "" {
		return s.defaultSelection()
	}

	var similar []memory.SimilarPattern
	if s.patterns != nil {
		similar = s.patterns.RetrieveSimilar(ctx, point.PointName, point.DeviceType, 0, 0)
	}

	if len(similar) > 0 {
		if sel, ok := s.selectByEvidence(similar); ok {
			SelectionsTotal.WithLabelValues(sel.Strategy.ID, "evidence").Inc()
			return sel
		}
	}

	if prefs := devicePreferences[point.DeviceType]; len(prefs) > 0 {
		if desc, ok := Lookup(prefs[0]); ok {
			SelectionsTotal.WithLabelValues(desc.ID, "preferred").Inc()
			return Selection{
				Strategy: desc,
				Score:    preferredScore,
				Reason:   fmt.Sprintf("Preferred strategy for device type %s", point.DeviceType),
			}
		}
	}

	return s.defaultSelection()
}

// selectByEvidence scores each strategy over the examples embedded in
// similar patterns.
func (s *Selector) selectByEvidence(similar []memory.SimilarPattern) (Selection, bool) {
	uses := make(map[string]int)
	successes := make(map[string]int)
	for _, sp := range similar {
		for _, ex := range sp.Pattern.Examples {
			if ex.Context == nil || ex.Context.Strategy == "" {
				continue
			}
			uses[ex.Context.Strategy]++
			if ex.Result == memory.ResultSuccess {
				successes[ex.Context.Strategy]++
			}
		}
	}

	var best Descriptor
	bestRate := -1.0
	bestUses := 0
	for _, desc := range catalog {
		n := uses[desc.ID]
		if n == 0 {
			continue
		}
		rate := float64(successes[desc.ID]) / float64(n)
		if rate < desc.ConfidenceThreshold {
			continue
		}
		if rate > bestRate {
			best = desc
			bestRate = rate
			bestUses = n
		}
	}

	if bestRate < 0 {
		return Selection{}, false
	}
	return Selection{
		Strategy: best,
		Score:    bestRate,
		Reason:   fmt.Sprintf("Historical success rate %.2f over %d similar uses", bestRate, bestUses),
	}, true
}

// defaultSelection returns the global default strategy.
func (s *Selector) defaultSelection() Selection {
	desc, _ := Lookup(DefaultStrategy)
	SelectionsTotal.WithLabelValues(desc.ID, "default").Inc()
	return Selection{Strategy: desc, Score: defaultScore, Reason: ReasonDefault}
}

// UpdatePerformance records one tracked use of a strategy, with optional
// per-device and per-pattern breakdowns. Unknown or empty strategy IDs are
// ignored.
func (s *Selector) UpdatePerformance(strategyID string, success bool, deviceType, pointPattern string) {
	if _, ok := Lookup(strategyID); !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.performance[strategyID]
	if !ok {
		rec = &performanceRecord{
			Devices:  make(map[string]*counter),
			Patterns: make(map[string]*counter),
		}
		s.performance[strategyID] = rec
	}

	rec.TotalUses++
	if success {
		rec.Successes++
	} else {
		rec.Failures++
	}

	if deviceType != "" {
		bump(rec.Devices, deviceType, success)
	}
	if pointPattern != "" {
		bump(rec.Patterns, pointPattern, success)
	}
}

// bump increments a breakdown counter, creating it lazily.
func bump(m map[string]*counter, key string, success bool) {
	c, ok := m[key]
	if !ok {
		c = &counter{}
		m[key] = c
	}
	c.Uses++
	if success {
		c.Successes++
	}
}

// Stats returns tracked performance per strategy ID.
func (s *Selector) Stats() map[string]Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Stats, len(s.performance))
	for id, rec := range s.performance {
		stats := Stats{
			TotalUses: rec.TotalUses,
			Successes: rec.Successes,
			Failures:  rec.Failures,
		}
		if rec.TotalUses > 0 {
			stats.SuccessRate = float64(rec.Successes) / float64(rec.TotalUses)
		}
		if len(rec.Devices) > 0 {
			stats.Devices = make(map[string]DeviceStats, len(rec.Devices))
			for dt, c := range rec.Devices {
				ds := DeviceStats{Uses: c.Uses}
				if c.Uses > 0 {
					ds.SuccessRate = float64(c.Successes) / float64(c.Uses)
				}
				stats.Devices[dt] = ds
			}
		}
		out[id] = stats
	}
	return out
}
