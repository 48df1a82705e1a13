package reflection

import (
	"github.com/fyrsmithlabs/reflectd/internal/analysis"
	"github.com/fyrsmithlabs/reflectd/internal/memory"
	"github.com/fyrsmithlabs/reflectd/internal/quality"
	"github.com/fyrsmithlabs/reflectd/internal/strategy"
)

// StatusMapped is the mapping status treated as a success signal.
const StatusMapped = "mapped"

// OriginalPoint is the source side of a mapping attempt.
type OriginalPoint struct {
	PointName  string `json:"pointName"`
	DeviceType string `json:"deviceType"`
	DeviceID   string `json:"deviceId,omitempty"`
	PointType  string `json:"pointType,omitempty"`
	Unit       string `json:"unit,omitempty"`
	Value      any    `json:"value,omitempty"`
}

// MappingOutcome is the result side of a mapping attempt.
type MappingOutcome struct {
	EnosPoint   string  `json:"enosPoint"`
	Status      string  `json:"status"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation,omitempty"`
}

// MappingAttempt is one externally produced mapping to reflect on.
type MappingAttempt struct {
	Original OriginalPoint  `json:"original"`
	Mapping  MappingOutcome `json:"mapping"`
}

// ReflectOptions carries the optional context of a reflection call.
type ReflectOptions struct {
	// MappingID identifies the attempt. Generated when absent.
	MappingID string

	// Strategy is the id of the strategy that produced the mapping.
	// When present, strategy performance is updated.
	Strategy string

	// References are prior mappings for consistency scoring.
	References []quality.Reference

	// Schema is the known target schema, if any.
	Schema quality.Schema
}

// Reflection is the feedback block attached to a reflected mapping.
type Reflection struct {
	MappingID string `json:"mapping_id"`
	Success   bool   `json:"success"`

	Quality quality.Report `json:"quality"`

	// PatternMatches are the similar historical patterns for the point.
	PatternMatches []memory.SimilarPattern `json:"pattern_matches,omitempty"`

	// Historical summarizes pattern memory for the point's device type.
	Historical memory.Statistics `json:"historical_data"`
}

// ReflectedMapping is a copy of the input attempt plus its reflection.
type ReflectedMapping struct {
	Original   OriginalPoint  `json:"original"`
	Mapping    MappingOutcome `json:"mapping"`
	Reflection Reflection     `json:"reflection"`
}

// SuggestPoint is a bare point to suggest a mapping for.
type SuggestPoint struct {
	PointName   string `json:"pointName"`
	DeviceType  string `json:"deviceType"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}

// Suggestion is the answer to a mapping suggestion request.
type Suggestion struct {
	PointName  string `json:"point_name"`
	DeviceType string `json:"device_type"`

	// Strategy is the recommended mapping strategy.
	Strategy strategy.Selection `json:"strategy"`

	// Found indicates a confident historical target exists.
	Found     bool    `json:"found"`
	EnosPoint string  `json:"enos_point,omitempty"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
}

// DeviceQuality is the aggregated quality of one device type's mappings.
type DeviceQuality struct {
	Mappings      int            `json:"mappings"`
	WeightedScore float64        `json:"weighted_score"`
	Levels        map[string]int `json:"levels"`
}

// MappingAnalysis is the always-respond envelope of AnalyzeMappings.
type MappingAnalysis struct {
	Success  bool     `json:"success"`
	Error    string   `json:"error,omitempty"`
	Insights []string `json:"insights"`

	Patterns      analysis.PatternReport              `json:"patterns"`
	Families      map[string][]analysis.PatternFamily `json:"families,omitempty"`
	DeviceQuality map[string]DeviceQuality            `json:"device_quality,omitempty"`
	StrategyStats map[string]strategy.Stats           `json:"strategy_stats,omitempty"`
	MemoryStats   memory.Statistics                   `json:"memory_stats"`
}

// PatternAnalysis is the always-respond envelope of AnalyzePatterns.
type PatternAnalysis struct {
	Success  bool                   `json:"success"`
	Error    string                 `json:"error,omitempty"`
	Insights []string               `json:"insights"`
	Patterns analysis.PatternReport `json:"patterns"`
}

// Stats summarizes the reflection service for dashboards.
type Stats struct {
	TotalReflections int            `json:"total_reflections"`
	QualityLevels    map[string]int `json:"quality_levels"`

	// AverageLevelWeight is the weighted mean of observed quality levels.
	AverageLevelWeight float64 `json:"average_level_weight"`
}
