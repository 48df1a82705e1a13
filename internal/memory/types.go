package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// Common errors for mapping memory operations.
var (
	ErrInvalidConfidence = errors.New("confidence must be between 0.0 and 1.0")
	ErrInvalidQuality    = errors.New("quality score must be between 0.0 and 1.0")
)

const (
	// MaxExamples bounds the per-pattern example ring buffer.
	MaxExamples = 10

	// DefaultSimilarityThreshold is the minimum Jaccard overlap for
	// similarity retrieval.
	DefaultSimilarityThreshold = 0.6

	// DefaultSimilarityLimit is the default maximum number of similar
	// patterns returned.
	DefaultSimilarityLimit = 5

	// DefaultConfidenceThreshold is the minimum combined score for a
	// confident best-mapping answer.
	DefaultConfidenceThreshold = 0.7

	// DefaultCacheTTL is how long similarity query results stay cached.
	DefaultCacheTTL = 7 * 24 * time.Hour

	// DefaultFlushEvery is the write-behind cadence: the store is
	// persisted after every Nth newly created pattern.
	DefaultFlushEvery = 10
)

// Reasons returned by BestMapping.
const (
	ReasonNoSimilarPatterns  = "No similar patterns found"
	ReasonNoConfidentMapping = "No confident mapping found"
)

// ExampleContext carries structured provenance for a stored example.
type ExampleContext struct {
	// MappingID identifies the mapping attempt that produced the example.
	MappingID string `json:"mapping_id,omitempty"`

	// QualityLevel is the categorical quality of the mapping decision.
	QualityLevel string `json:"quality_level,omitempty"`

	// Strategy is the id of the mapping strategy that was used.
	Strategy string `json:"strategy,omitempty"`

	// Timestamp is when the mapping outcome was recorded.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Example is one concrete mapping instance retained on a pattern.
type Example struct {
	// BMSPoint is the raw source point name.
	BMSPoint string `json:"bms_point"`

	// EnosPoint is the target point the mapping produced.
	EnosPoint string `json:"enos_point"`

	// Result is "success" or "failure".
	Result string `json:"result"`

	// Context carries optional provenance for the example.
	Context *ExampleContext `json:"context,omitempty"`
}

// Example result values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// MappingPattern is the unit of historical memory: all mapping outcomes
// whose source names share a normalized shape and device type.
type MappingPattern struct {
	// PatternID is the hash of the normalized source pattern and
	// device type.
	PatternID string `json:"pattern_id"`

	// SourcePattern is the normalized source point shape.
	SourcePattern string `json:"source_pattern"`

	// TargetPattern is the normalized target point shape.
	TargetPattern string `json:"target_pattern"`

	// DeviceType partitions pattern memory (AHU, FCU, CHILLER, ...).
	DeviceType string `json:"device_type"`

	// Confidence is the running average of reported mapping confidence.
	Confidence float64 `json:"confidence"`

	// SuccessCount and FailureCount partition TotalOccurrences.
	SuccessCount     int `json:"success_count"`
	FailureCount     int `json:"failure_count"`
	TotalOccurrences int `json:"total_occurrences"`

	// QualityScore is the running average of supplied quality scores,
	// counted separately from confidence.
	QualityScore float64 `json:"quality_score"`
	QualityCount int     `json:"quality_count"`

	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	// Examples holds the MaxExamples most recent instances, oldest first.
	Examples []Example `json:"examples"`
}

// SuccessRate returns the fraction of successful occurrences.
func (p *MappingPattern) SuccessRate() float64 {
	if p.TotalOccurrences == 0 {
		return 0
	}
	return float64(p.SuccessCount) / float64(p.TotalOccurrences)
}

// clone returns a deep copy so callers can never mutate stored state.
func (p *MappingPattern) clone() MappingPattern {
	cp := *p
	cp.Examples = make([]Example, len(p.Examples))
	copy(cp.Examples, p.Examples)
	return cp
}

// PatternID derives the deterministic pattern identifier from a normalized
// source pattern and device type.
func PatternID(sourcePattern, deviceType string) string {
	sum := sha256.Sum256([]byte(sourcePattern + ":" + deviceType))
	return hex.EncodeToString(sum[:])[:16]
}

// MappingResult is one mapping outcome to record.
type MappingResult struct {
	// SourcePoint is the raw source point name. Required.
	SourcePoint string

	// TargetPoint is the target point the mapping produced.
	TargetPoint string

	// DeviceType is the equipment category of the point. Required.
	DeviceType string

	// Confidence is the mapping engine's confidence in [0,1].
	Confidence float64

	// Success indicates whether the mapping was accepted.
	Success bool

	// QualityScore optionally carries the assessed quality in [0,1].
	QualityScore *float64

	// Context carries optional provenance stored with the example.
	Context *ExampleContext
}

// SimilarPattern is a retrieval hit with its similarity to the query.
type SimilarPattern struct {
	Pattern    MappingPattern `json:"pattern"`
	Similarity float64        `json:"similarity"`
}

// BestMapping is the answer to a best-mapping lookup.
type BestMapping struct {
	// Found indicates a confident historical mapping exists.
	Found bool `json:"found"`

	// EnosPoint is the suggested target point when Found.
	EnosPoint string `json:"enos_point,omitempty"`

	// Score is the combined success-rate/confidence score of the best
	// candidate pattern, even when not confident.
	Score float64 `json:"score"`

	// Reason explains the outcome.
	Reason string `json:"reason"`
}

// DeviceStatistics summarizes pattern memory for one device type.
type DeviceStatistics struct {
	Patterns    int     `json:"patterns"`
	Occurrences int     `json:"occurrences"`
	SuccessRate float64 `json:"success_rate"`
}

// Statistics summarizes the pattern store for dashboards.
type Statistics struct {
	TotalPatterns  int                          `json:"total_patterns"`
	DeviceTypes    map[string]DeviceStatistics  `json:"device_types"`
	AverageQuality float64                      `json:"average_quality"`
	CacheHits      int64                        `json:"cache_hits"`
	CacheMisses    int64                        `json:"cache_misses"`
	CacheHitRate   float64                      `json:"cache_hit_rate"`
}

// storeDocument is the persisted layout: one serialized document holding
// every pattern plus aggregate stats.
type storeDocument struct {
	LastUpdated time.Time                  `json:"last_updated"`
	Patterns    map[string]*MappingPattern `json:"patterns"`
	Stats       storeStats                 `json:"stats"`
}

// storeStats are the persisted aggregate counters.
type storeStats struct {
	CreatedTotal int   `json:"created_total"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
}
