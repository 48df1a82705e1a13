package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reflectd/internal/kvstore"
)

// patternsKey is the kvstore key holding the serialized pattern document.
const patternsKey = "memory:patterns"

// Config holds pattern store configuration.
type Config struct {
	// Persistence is the durable backing store. Nil disables persistence.
	Persistence kvstore.Store

	// CacheTTL is how long similarity results stay cached.
	// Defaults to DefaultCacheTTL.
	CacheTTL time.Duration

	// FlushEvery persists the store after every Nth newly created
	// pattern. Defaults to DefaultFlushEvery.
	FlushEvery int
}

// cachedQuery is one cached similarity result set.
type cachedQuery struct {
	results   []SimilarPattern
	expiresAt time.Time
}

// Store holds historical mapping patterns and serves similarity queries.
//
// All read-modify-write on pattern records runs under a single RWMutex;
// the store is safe for concurrent use from multiple goroutines.
type Store struct {
	mu       sync.RWMutex
	patterns map[string]*MappingPattern

	// createdTotal counts patterns created over the store lifetime and
	// drives the write-behind flush cadence.
	createdTotal int

	simCache    map[string]cachedQuery
	cacheTTL    time.Duration
	cacheHits   int64
	cacheMisses int64

	persist    kvstore.Store
	flushEvery int

	logger *zap.Logger
	now    func() time.Time
}

// NewStore creates a pattern store, loading any persisted document.
//
// A corrupt persisted document is logged and replaced by an empty store;
// it never propagates to the caller.
func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	flushEvery := cfg.FlushEvery
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}

	s := &Store{
		patterns:   make(map[string]*MappingPattern),
		simCache:   make(map[string]cachedQuery),
		cacheTTL:   cacheTTL,
		persist:    cfg.Persistence,
		flushEvery: flushEvery,
		logger:     logger,
		now:        time.Now,
	}

	if err := s.load(context.Background()); err != nil {
		return nil, err
	}

	PatternsTotal.Set(float64(len(s.patterns)))
	return s, nil
}

// load restores the persisted pattern document, if any.
func (s *Store) load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}

	raw, err := s.persist.Get(ctx, patternsKey)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading pattern store: %w", err)
	}

	var doc storeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Corrupt store: start empty rather than failing startup.
		s.logger.Warn("corrupt pattern store, starting empty",
			zap.Error(err),
			zap.Int("bytes", len(raw)))
		return nil
	}

	if doc.Patterns != nil {
		s.patterns = doc.Patterns
	}
	s.createdTotal = doc.Stats.CreatedTotal
	s.cacheHits = doc.Stats.CacheHits
	s.cacheMisses = doc.Stats.CacheMisses

	s.logger.Info("pattern store loaded",
		zap.Int("patterns", len(s.patterns)),
		zap.Time("last_updated", doc.LastUpdated))
	return nil
}

// Record stores one mapping outcome and returns the pattern ID.
//
// A missing source point or device type is insufficient signal: the call
// is a no-op returning an empty ID, never an error. Confidence and quality
// feed running averages new = (old*n + value)/(n+1); quality is counted
// separately and only when supplied. Examples are retained in a bounded
// FIFO ring of MaxExamples entries.
func (s *Store) Record(ctx context.Context, result MappingResult) (string, error) {
	if result.SourcePoint == "" || result.DeviceType == "" {
		s.logger.Debug("skipping record with insufficient signal",
			zap.String("source_point", result.SourcePoint),
			zap.String("device_type", result.DeviceType))
		return "", nil
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return "", ErrInvalidConfidence
	}
	if result.QualityScore != nil && (*result.QualityScore < 0 || *result.QualityScore > 1) {
		return "", ErrInvalidQuality
	}

	sourcePattern := ExtractPattern(result.SourcePoint)
	targetPattern := ExtractPattern(result.TargetPoint)
	id := PatternID(sourcePattern, result.DeviceType)

	s.mu.Lock()

	pattern, ok := s.patterns[id]
	created := false
	if !ok {
		now := s.now()
		pattern = &MappingPattern{
			PatternID:     id,
			SourcePattern: sourcePattern,
			TargetPattern: targetPattern,
			DeviceType:    result.DeviceType,
			Confidence:    result.Confidence,
			CreatedAt:     now,
		}
		s.patterns[id] = pattern
		s.createdTotal++
		created = true
	} else {
		n := float64(pattern.TotalOccurrences)
		pattern.Confidence = (pattern.Confidence*n + result.Confidence) / (n + 1)
	}

	if result.QualityScore != nil {
		q := float64(pattern.QualityCount)
		pattern.QualityScore = (pattern.QualityScore*q + *result.QualityScore) / (q + 1)
		pattern.QualityCount++
	}

	outcome := ResultFailure
	if result.Success {
		pattern.SuccessCount++
		outcome = ResultSuccess
	} else {
		pattern.FailureCount++
	}
	pattern.TotalOccurrences = pattern.SuccessCount + pattern.FailureCount
	pattern.LastUpdated = s.now()

	pattern.Examples = append(pattern.Examples, Example{
		BMSPoint:  result.SourcePoint,
		EnosPoint: result.TargetPoint,
		Result:    outcome,
		Context:   result.Context,
	})
	if len(pattern.Examples) > MaxExamples {
		pattern.Examples = pattern.Examples[len(pattern.Examples)-MaxExamples:]
	}

	// Cached similarity results for this device type are now stale.
	for key := range s.simCache {
		if strings.HasSuffix(key, "|"+result.DeviceType) {
			delete(s.simCache, key)
		}
	}

	needFlush := created && s.createdTotal%s.flushEvery == 0
	patternCount := len(s.patterns)
	s.mu.Unlock()

	RecordsTotal.WithLabelValues(outcome).Inc()
	PatternsTotal.Set(float64(patternCount))

	if needFlush {
		if err := s.Flush(ctx); err != nil {
			// Write-behind: a failed flush loses recency, not data in memory.
			s.logger.Warn("pattern store flush failed", zap.Error(err))
		}
	}

	return id, nil
}

// RetrieveSimilar returns stored patterns of the same device type whose
// normalized shape overlaps the query point name.
//
// threshold <= 0 uses DefaultSimilarityThreshold; limit <= 0 uses
// DefaultSimilarityLimit. Results are sorted by descending similarity and
// cached per (pattern, device type) with the configured TTL; recording an
// outcome invalidates the device type's cached queries.
func (s *Store) RetrieveSimilar(ctx context.Context, pointName, deviceType string, threshold float64, limit int) []SimilarPattern {
	if pointName == "" || deviceType == "" {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if limit <= 0 {
		limit = DefaultSimilarityLimit
	}

	queryPattern := ExtractPattern(pointName)
	cacheKey := queryPattern + "|" + deviceType

	s.mu.Lock()
	if cached, ok := s.simCache[cacheKey]; ok && s.now().Before(cached.expiresAt) {
		s.cacheHits++
		s.mu.Unlock()
		SimilarityCacheLookups.WithLabelValues("hit").Inc()
		return copyResults(cached.results)
	}
	s.cacheMisses++

	matches := make([]SimilarPattern, 0)
	for _, p := range s.patterns {
		if p.DeviceType != deviceType {
			continue
		}
		sim := Similarity(queryPattern, p.SourcePattern)
		if sim >= threshold {
			matches = append(matches, SimilarPattern{Pattern: p.clone(), Similarity: sim})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Pattern.PatternID < matches[j].Pattern.PatternID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	s.simCache[cacheKey] = cachedQuery{
		results:   copyResults(matches),
		expiresAt: s.now().Add(s.cacheTTL),
	}
	s.mu.Unlock()

	SimilarityCacheLookups.WithLabelValues("miss").Inc()
	return matches
}

// BestMapping finds the most trustworthy historical target for a point.
//
// Every similar pattern with recorded occurrences is scored as
// 0.7*successRate + 0.3*confidence. When the best score clears the
// threshold, the first successful example of the winning pattern supplies
// the target point.
func (s *Store) BestMapping(ctx context.Context, pointName, deviceType string, confidenceThreshold float64) BestMapping {
	if confidenceThreshold <= 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}

	similar := s.RetrieveSimilar(ctx, pointName, deviceType, 0, 0)
	if len(similar) == 0 {
		return BestMapping{Reason: ReasonNoSimilarPatterns}
	}

	var best *SimilarPattern
	bestScore := 0.0
	for i := range similar {
		p := &similar[i].Pattern
		if p.TotalOccurrences == 0 {
			continue
		}
		score := 0.7*p.SuccessRate() + 0.3*p.Confidence
		if score > bestScore {
			bestScore = score
			best = &similar[i]
		}
	}

	if best == nil || bestScore < confidenceThreshold {
		return BestMapping{Score: bestScore, Reason: ReasonNoConfidentMapping}
	}

	for _, ex := range best.Pattern.Examples {
		if ex.Result == ResultSuccess {
			return BestMapping{
				Found:     true,
				EnosPoint: ex.EnosPoint,
				Score:     bestScore,
				Reason: fmt.Sprintf("Matched pattern %s with %d occurrences (success rate %.2f)",
					best.Pattern.SourcePattern, best.Pattern.TotalOccurrences, best.Pattern.SuccessRate()),
			}
		}
	}

	return BestMapping{Score: bestScore, Reason: ReasonNoConfidentMapping}
}

// Statistics summarizes the store, optionally restricted to one device type.
func (s *Store) Statistics(deviceType string) Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{
		DeviceTypes: make(map[string]DeviceStatistics),
		CacheHits:   s.cacheHits,
		CacheMisses: s.cacheMisses,
	}

	qualitySum := 0.0
	qualityCount := 0
	for _, p := range s.patterns {
		if deviceType != "" && p.DeviceType != deviceType {
			continue
		}
		stats.TotalPatterns++

		ds := stats.DeviceTypes[p.DeviceType]
		ds.Patterns++
		ds.Occurrences += p.TotalOccurrences
		stats.DeviceTypes[p.DeviceType] = ds

		if p.QualityCount > 0 {
			qualitySum += p.QualityScore
			qualityCount++
		}
	}

	// Per-device success rates need a second pass over occurrence sums.
	successByDevice := make(map[string]int)
	totalByDevice := make(map[string]int)
	for _, p := range s.patterns {
		if deviceType != "" && p.DeviceType != deviceType {
			continue
		}
		successByDevice[p.DeviceType] += p.SuccessCount
		totalByDevice[p.DeviceType] += p.TotalOccurrences
	}
	for dt, ds := range stats.DeviceTypes {
		if totalByDevice[dt] > 0 {
			ds.SuccessRate = float64(successByDevice[dt]) / float64(totalByDevice[dt])
			stats.DeviceTypes[dt] = ds
		}
	}

	if qualityCount > 0 {
		stats.AverageQuality = qualitySum / float64(qualityCount)
	}
	if lookups := s.cacheHits + s.cacheMisses; lookups > 0 {
		stats.CacheHitRate = float64(s.cacheHits) / float64(lookups)
	}

	return stats
}

// Pattern returns a copy of a stored pattern by ID.
func (s *Store) Pattern(id string) (MappingPattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patterns[id]
	if !ok {
		return MappingPattern{}, false
	}
	return p.clone(), true
}

// Flush persists the full pattern document to the backing store.
func (s *Store) Flush(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}

	s.mu.RLock()
	doc := storeDocument{
		LastUpdated: s.now(),
		Patterns:    s.patterns,
		Stats: storeStats{
			CreatedTotal: s.createdTotal,
			CacheHits:    s.cacheHits,
			CacheMisses:  s.cacheMisses,
		},
	}
	raw, err := json.Marshal(doc)
	s.mu.RUnlock()
	if err != nil {
		FlushesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("marshaling pattern store: %w", err)
	}

	if err := s.persist.Put(ctx, patternsKey, raw, 0); err != nil {
		FlushesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("persisting pattern store: %w", err)
	}

	FlushesTotal.WithLabelValues("success").Inc()
	s.logger.Debug("pattern store flushed", zap.Int("bytes", len(raw)))
	return nil
}

// Close flushes the store a final time.
func (s *Store) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

// copyResults deep-copies a similarity result set.
func copyResults(in []SimilarPattern) []SimilarPattern {
	out := make([]SimilarPattern, len(in))
	for i := range in {
		out[i] = SimilarPattern{Pattern: in[i].Pattern.clone(), Similarity: in[i].Similarity}
	}
	return out
}
