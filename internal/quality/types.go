package quality

// Dimension names used as keys in Report.DimensionScores.
const (
	DimensionSemantic    = "semantic_correctness"
	DimensionConvention  = "convention_adherence"
	DimensionConsistency = "consistency"
	DimensionDevice      = "device_context"
	DimensionSchema      = "schema_completeness"
)

// Dimension weights. They sum to 1.0.
const (
	weightSemantic    = 0.35
	weightConvention  = 0.20
	weightConsistency = 0.15
	weightDevice      = 0.20
	weightSchema      = 0.10
)

// Quality levels, ordered best to worst.
const (
	LevelExcellent    = "excellent"
	LevelGood         = "good"
	LevelFair         = "fair"
	LevelPoor         = "poor"
	LevelUnacceptable = "unacceptable"
)

// Level boundaries on the overall score.
const (
	thresholdExcellent = 0.85
	thresholdGood      = 0.70
	thresholdFair      = 0.50
	thresholdPoor      = 0.30
)

// maxSuggestions bounds the advice attached to a report.
const maxSuggestions = 3

// Reference is a prior mapping used for consistency scoring.
type Reference struct {
	SourcePoint string `json:"source_point"`
	TargetPoint string `json:"target_point"`
	DeviceType  string `json:"device_type"`
}

// Schema describes the known target points per device type.
type Schema map[string]DeviceSchema

// DeviceSchema lists a device type's target points by name.
type DeviceSchema struct {
	Points map[string]any `json:"points"`
}

// Input is one mapping decision to assess.
type Input struct {
	SourcePoint string
	TargetPoint string
	DeviceType  string

	// References are prior mappings for consistency scoring. Optional.
	References []Reference

	// Schema is the target schema, if known. Optional.
	Schema Schema
}

// Report is the assessment of one mapping decision.
type Report struct {
	// DimensionScores holds each dimension's score in [0,1].
	DimensionScores map[string]float64 `json:"dimension_scores"`

	// OverallScore is the weighted sum of the dimension scores.
	OverallScore float64 `json:"overall_score"`

	// Level is the categorical quality level for OverallScore.
	Level string `json:"quality_level"`

	// Suggestions carries up to three improvement hints.
	Suggestions []string `json:"suggestions,omitempty"`
}

// LevelFor maps an overall score to its categorical quality level.
func LevelFor(score float64) string {
	switch {
	case score >= thresholdExcellent:
		return LevelExcellent
	case score >= thresholdGood:
		return LevelGood
	case score >= thresholdFair:
		return LevelFair
	case score >= thresholdPoor:
		return LevelPoor
	default:
		return LevelUnacceptable
	}
}

// LevelWeight returns the numeric weight used when aggregating quality
// levels across a batch of mappings.
func LevelWeight(level string) float64 {
	switch level {
	case LevelExcellent:
		return 1.0
	case LevelGood:
		return 0.8
	case LevelFair:
		return 0.6
	case LevelPoor:
		return 0.4
	default:
		return 0.2
	}
}
