package quality

import (
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reflectd/internal/memory"
)

// Suggestion messages attached when a dimension scores below 0.5.
const (
	suggestSemantic   = "Target point may not semantically match the source point"
	suggestConvention = "Target point does not follow the prefix_raw_measurement naming convention"
	suggestDevice     = "Mapping may not fit the expected point set for this device type"
)

// Assessor scores mapping decisions. Stateless and safe for concurrent use.
type Assessor struct {
	logger *zap.Logger
}

// NewAssessor creates a quality assessor.
func NewAssessor(logger *zap.Logger) *Assessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assessor{logger: logger}
}

// Assess scores one mapping decision across all five dimensions.
//
// It never fails: missing references or schema default the affected
// dimensions to neutral scores.
func (a *Assessor) Assess(in Input) Report {
	scores := map[string]float64{
		DimensionSemantic:    a.semanticCorrectness(in),
		DimensionConvention:  a.conventionAdherence(in),
		DimensionConsistency: a.consistency(in),
		DimensionDevice:      a.deviceContext(in),
		DimensionSchema:      a.schemaCompleteness(in),
	}

	overall := weightSemantic*scores[DimensionSemantic] +
		weightConvention*scores[DimensionConvention] +
		weightConsistency*scores[DimensionConsistency] +
		weightDevice*scores[DimensionDevice] +
		weightSchema*scores[DimensionSchema]

	level := LevelFor(overall)
	AssessmentsTotal.WithLabelValues(level).Inc()

	report := Report{
		DimensionScores: scores,
		OverallScore:    overall,
		Level:           level,
		Suggestions:     suggestions(scores),
	}

	a.logger.Debug("assessed mapping quality",
		zap.String("source_point", in.SourcePoint),
		zap.String("target_point", in.TargetPoint),
		zap.Float64("overall", overall),
		zap.String("level", level))

	return report
}

// semanticCorrectness compares the semantic categories of the source name
// against those of the target's measurement suffix.
func (a *Assessor) semanticCorrectness(in Input) float64 {
	if in.SourcePoint == "" || in.TargetPoint == "" {
		return 0.5
	}

	sourceTokens := memory.Tokens(memory.ExtractPattern(in.SourcePoint))
	measurementTokens := measurementSuffix(in.TargetPoint)

	sourceCats := categorize(sourceTokens)
	targetCats := categorize(measurementTokens)

	if len(sourceCats) == 0 || len(targetCats) == 0 {
		// No categorized words on one side: fall back to raw token
		// overlap, floored so a plausible mapping is never crushed.
		score := 0.8 * tokenJaccard(sourceTokens, measurementTokens)
		if score < 0.3 {
			score = 0.3
		}
		return score
	}

	intersection := 0
	for cat := range sourceCats {
		if targetCats[cat] {
			intersection++
		}
	}
	union := len(sourceCats) + len(targetCats) - intersection

	score := float64(intersection) / float64(union)
	if intersection > 0 {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// conventionAdherence checks the prefix_raw_measurement target shape.
func (a *Assessor) conventionAdherence(in Input) float64 {
	segments := strings.Split(in.TargetPoint, "_")
	if in.TargetPoint == "" || len(segments) < 3 {
		return 0.0
	}

	score := 0.4
	if prefixAccepted(in.DeviceType, strings.ToLower(segments[0])) {
		score += 0.4
	}
	if segments[1] == "raw" || segments[1] == "calc" {
		score += 0.2
	}
	return score
}

// prefixAccepted reports whether a target prefix fits the device type.
func prefixAccepted(deviceType, prefix string) bool {
	if prefix == strings.ToLower(deviceType) {
		return true
	}
	for _, accepted := range acceptedPrefixes[deviceType] {
		if prefix == accepted {
			return true
		}
	}
	return false
}

// consistency compares the mapping against reference mappings of the same
// device type whose source names resemble this one.
func (a *Assessor) consistency(in Input) float64 {
	if len(in.References) == 0 {
		return 0.5
	}

	sourcePattern := memory.ExtractPattern(in.SourcePoint)
	targetPattern := memory.ExtractPattern(in.TargetPoint)

	sum := 0.0
	count := 0
	for _, ref := range in.References {
		if ref.DeviceType != in.DeviceType {
			continue
		}
		sourceSim := memory.Similarity(sourcePattern, memory.ExtractPattern(ref.SourcePoint))
		if sourceSim <= 0.5 {
			continue
		}
		targetSim := memory.Similarity(targetPattern, memory.ExtractPattern(ref.TargetPoint))
		sum += targetSim * sourceSim
		count++
	}

	if count == 0 {
		return 0.5
	}
	return sum / float64(count)
}

// deviceContext checks how many device-typical keywords the target carries.
func (a *Assessor) deviceContext(in Input) float64 {
	keywords, ok := deviceKeywords[in.DeviceType]
	if !ok {
		return 0.5
	}

	tokens := make(map[string]bool)
	for _, t := range memory.Tokens(memory.ExtractPattern(in.TargetPoint)) {
		tokens[t] = true
	}

	matches := 0
	for _, kw := range keywords {
		if tokens[kw] {
			matches++
		}
	}

	score := 0.4 + 0.2*float64(matches)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// schemaCompleteness checks whether the target exists in the device schema.
func (a *Assessor) schemaCompleteness(in Input) float64 {
	if in.Schema == nil {
		return 0.5
	}
	device, ok := in.Schema[in.DeviceType]
	if !ok {
		return 0.5
	}
	if _, ok := device.Points[in.TargetPoint]; ok {
		return 1.0
	}
	return 0.3
}

// suggestions derives up to three fixed hints from weak dimensions.
func suggestions(scores map[string]float64) []string {
	var out []string
	if scores[DimensionSemantic] < 0.5 {
		out = append(out, suggestSemantic)
	}
	if scores[DimensionConvention] < 0.5 {
		out = append(out, suggestConvention)
	}
	if scores[DimensionDevice] < 0.5 {
		out = append(out, suggestDevice)
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// measurementSuffix returns the lowercased tokens after the first two
// underscore segments of a target name. Shorter names yield all segments.
func measurementSuffix(target string) []string {
	segments := strings.Split(strings.ToLower(target), "_")
	if len(segments) > 2 {
		segments = segments[2:]
	}
	out := segments[:0]
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// tokenJaccard is set overlap over two token slices.
func tokenJaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}
