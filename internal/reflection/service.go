package reflection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reflectd/internal/analysis"
	"github.com/fyrsmithlabs/reflectd/internal/memory"
	"github.com/fyrsmithlabs/reflectd/internal/quality"
	"github.com/fyrsmithlabs/reflectd/internal/strategy"
)

// maxInsights bounds the insight list on analysis envelopes.
const maxInsights = 5

// Service orchestrates the reflection feedback loop.
type Service struct {
	store    *memory.Store
	assessor *quality.Assessor
	selector *strategy.Selector
	engine   *analysis.Engine

	mu          sync.Mutex
	levelCounts map[string]int
	reflections int

	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the reflection service from its components.
func NewService(store *memory.Store, assessor *quality.Assessor, selector *strategy.Selector, engine *analysis.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:       store,
		assessor:    assessor,
		selector:    selector,
		engine:      engine,
		levelCounts: make(map[string]int),
		logger:      logger,
		now:         time.Now,
	}
}

// ReflectOnMapping scores a mapping attempt, records the outcome in pattern
// memory and strategy statistics, and returns the attempt augmented with a
// reflection block. The input is never mutated.
//
// A mapping counts as successful when its status is "mapped" and a target
// point is present. Recording is skipped for attempts without a point name
// or device type; the quality assessment still runs.
func (s *Service) ReflectOnMapping(ctx context.Context, attempt MappingAttempt, opts ReflectOptions) (ReflectedMapping, error) {
	success := attempt.Mapping.Status == StatusMapped && attempt.Mapping.EnosPoint != ""

	report := s.assessor.Assess(quality.Input{
		SourcePoint: attempt.Original.PointName,
		TargetPoint: attempt.Mapping.EnosPoint,
		DeviceType:  attempt.Original.DeviceType,
		References:  opts.References,
		Schema:      opts.Schema,
	})

	s.mu.Lock()
	s.levelCounts[report.Level]++
	s.reflections++
	s.mu.Unlock()

	mappingID := opts.MappingID
	if mappingID == "" {
		mappingID = uuid.NewString()
	}

	if attempt.Original.PointName != "" && attempt.Original.DeviceType != "" {
		overall := report.OverallScore
		_, err := s.store.Record(ctx, memory.MappingResult{
			SourcePoint:  attempt.Original.PointName,
			TargetPoint:  attempt.Mapping.EnosPoint,
			DeviceType:   attempt.Original.DeviceType,
			Confidence:   overall,
			Success:      success,
			QualityScore: &overall,
			Context: &memory.ExampleContext{
				MappingID:    mappingID,
				QualityLevel: report.Level,
				Strategy:     opts.Strategy,
				Timestamp:    s.now(),
			},
		})
		if err != nil {
			return ReflectedMapping{}, fmt.Errorf("recording mapping outcome: %w", err)
		}

		if opts.Strategy != "" {
			s.selector.UpdatePerformance(opts.Strategy, success,
				attempt.Original.DeviceType,
				memory.ExtractPattern(attempt.Original.PointName))
		}
	}

	reflected := ReflectedMapping{
		Original: attempt.Original,
		Mapping:  attempt.Mapping,
		Reflection: Reflection{
			MappingID:      mappingID,
			Success:        success,
			Quality:        report,
			PatternMatches: s.store.RetrieveSimilar(ctx, attempt.Original.PointName, attempt.Original.DeviceType, 0, 0),
			Historical:     s.store.Statistics(attempt.Original.DeviceType),
		},
	}

	s.logger.Debug("reflected on mapping",
		zap.String("mapping_id", mappingID),
		zap.String("point_name", attempt.Original.PointName),
		zap.Bool("success", success),
		zap.String("quality_level", report.Level))

	return reflected, nil
}

// SuggestMapping recommends a strategy and, when memory is confident, a
// concrete historical target for a new point.
func (s *Service) SuggestMapping(ctx context.Context, point SuggestPoint) Suggestion {
	selection := s.selector.Select(ctx, strategy.Point{
		PointName:  point.PointName,
		DeviceType: point.DeviceType,
	})

	suggestion := Suggestion{
		PointName:  point.PointName,
		DeviceType: point.DeviceType,
		Strategy:   selection,
	}

	best := s.store.BestMapping(ctx, point.PointName, point.DeviceType, 0)
	suggestion.Found = best.Found
	suggestion.Score = best.Score
	if best.Found {
		suggestion.EnosPoint = best.EnosPoint
		suggestion.Reason = best.Reason
	} else {
		suggestion.Reason = fmt.Sprintf("No confident historical mapping; use strategy %q", selection.Strategy.ID)
	}

	return suggestion
}

// AnalyzeMappings runs the full batch diagnosis over a set of mapping
// attempts. It always responds: internal failures are reported in the
// envelope, never returned as an error.
func (s *Service) AnalyzeMappings(ctx context.Context, attempts []MappingAttempt) (result MappingAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("mapping analysis failed", zap.Any("panic", r))
			result = MappingAnalysis{
				Error:    fmt.Sprintf("analysis failed: %v", r),
				Insights: []string{},
			}
		}
	}()

	points := make([]analysis.Point, 0, len(attempts))
	mappings := make([]analysis.Mapping, 0, len(attempts))
	deviceQuality := make(map[string]DeviceQuality)

	successes := 0
	for _, a := range attempts {
		success := a.Mapping.Status == StatusMapped && a.Mapping.EnosPoint != ""
		if success {
			successes++
		}

		points = append(points, analysis.Point{
			Name:       a.Original.PointName,
			DeviceType: a.Original.DeviceType,
		})
		mappings = append(mappings, analysis.Mapping{
			SourcePoint: a.Original.PointName,
			TargetPoint: a.Mapping.EnosPoint,
			DeviceType:  a.Original.DeviceType,
			Success:     success,
		})

		if a.Original.DeviceType == "" {
			continue
		}
		report := s.assessor.Assess(quality.Input{
			SourcePoint: a.Original.PointName,
			TargetPoint: a.Mapping.EnosPoint,
			DeviceType:  a.Original.DeviceType,
		})
		dq := deviceQuality[a.Original.DeviceType]
		if dq.Levels == nil {
			dq.Levels = make(map[string]int)
		}
		dq.Levels[report.Level]++
		dq.Mappings++
		deviceQuality[a.Original.DeviceType] = dq
	}

	for deviceType, dq := range deviceQuality {
		sum := 0.0
		for level, count := range dq.Levels {
			sum += quality.LevelWeight(level) * float64(count)
		}
		dq.WeightedScore = sum / float64(dq.Mappings)
		deviceQuality[deviceType] = dq
	}

	result = MappingAnalysis{
		Success:       true,
		Patterns:      s.engine.ExtractPatterns(points),
		Families:      s.engine.IdentifyPatternFamilies(mappings),
		DeviceQuality: deviceQuality,
		StrategyStats: s.selector.Stats(),
		MemoryStats:   s.store.Statistics(""),
	}
	result.Insights = s.mappingInsights(len(attempts), successes, result)
	return result
}

// AnalyzePatterns mines naming structure out of a raw point batch. Always
// responds, like AnalyzeMappings.
func (s *Service) AnalyzePatterns(ctx context.Context, points []analysis.Point) (result PatternAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("pattern analysis failed", zap.Any("panic", r))
			result = PatternAnalysis{
				Error:    fmt.Sprintf("analysis failed: %v", r),
				Insights: []string{},
			}
		}
	}()

	report := s.engine.ExtractPatterns(points)

	insights := make([]string, 0, maxInsights)
	if len(report.Prefixes) > 0 {
		top := report.Prefixes[0]
		insights = append(insights, fmt.Sprintf("Most common prefix is %q (%d of %d points)", top.Token, top.Count, report.PointCount))
	}
	if len(report.Suffixes) > 0 {
		top := report.Suffixes[0]
		insights = append(insights, fmt.Sprintf("Most common suffix is %q (%d occurrences)", top.Token, top.Count))
	}
	for deviceType, ngrams := range report.DeviceNgrams {
		if len(insights) >= maxInsights {
			break
		}
		if len(ngrams.Ngrams) > 0 {
			insights = append(insights, fmt.Sprintf("Device type %s shares %d frequent n-grams", deviceType, len(ngrams.Ngrams)))
		}
	}

	return PatternAnalysis{Success: true, Insights: insights, Patterns: report}
}

// mappingInsights derives up to five natural-language observations.
func (s *Service) mappingInsights(total, successes int, a MappingAnalysis) []string {
	insights := make([]string, 0, maxInsights)
	if total == 0 {
		return append(insights, "No mappings to analyze")
	}

	rate := float64(successes) / float64(total)
	if rate < 0.5 {
		insights = append(insights, fmt.Sprintf("Only %.0f%% of mappings succeeded; review the mapping strategy", rate*100))
	} else {
		insights = append(insights, fmt.Sprintf("%.0f%% of mappings succeeded", rate*100))
	}

	for deviceType, dq := range a.DeviceQuality {
		if len(insights) >= maxInsights {
			break
		}
		if dq.WeightedScore < 0.6 {
			insights = append(insights, fmt.Sprintf("Device type %s shows low mapping quality (%.2f)", deviceType, dq.WeightedScore))
		}
	}

	if len(a.Families) > 0 && len(insights) < maxInsights {
		families := 0
		for _, f := range a.Families {
			families += len(f)
		}
		insights = append(insights, fmt.Sprintf("Found %d pattern families across %d device types", families, len(a.Families)))
	}

	if a.MemoryStats.TotalPatterns > 0 && len(insights) < maxInsights {
		insights = append(insights, fmt.Sprintf("Pattern memory holds %d patterns", a.MemoryStats.TotalPatterns))
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// StrategyStats exposes the selector's tracked performance per strategy.
func (s *Service) StrategyStats() map[string]strategy.Stats {
	return s.selector.Stats()
}

// Stats reports the process-wide quality-level histogram.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	levels := make(map[string]int, len(s.levelCounts))
	weighted := 0.0
	for level, count := range s.levelCounts {
		levels[level] = count
		weighted += quality.LevelWeight(level) * float64(count)
	}

	stats := Stats{
		TotalReflections: s.reflections,
		QualityLevels:    levels,
	}
	if s.reflections > 0 {
		stats.AverageLevelWeight = weighted / float64(s.reflections)
	}
	return stats
}
