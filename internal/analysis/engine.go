package analysis

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reflectd/internal/memory"
)

const (
	// topPrefixSuffix caps the reported prefix and suffix lists.
	topPrefixSuffix = 10

	// topTokens caps the overall token frequency list.
	topTokens = 20

	// topNgrams caps the per-device n-gram list.
	topNgrams = 30

	// minFamilyMappings is the per-device floor (total and successful)
	// below which family grouping is skipped.
	minFamilyMappings = 3

	// minFamilySize is the smallest target group worth reporting.
	minFamilySize = 2
)

// Engine mines naming structure out of point batches.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a pattern analysis engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// ExtractPatterns tokenizes every point name and reports the dominant
// prefixes, suffixes, and tokens, plus per-device n-gram mining.
//
// N-grams of sizes 2 through 4 are mined only for device types with at
// least two points, and an n-gram is retained only when it occurs at least
// max(2, 10% of that device's point count) times.
func (e *Engine) ExtractPatterns(points []Point) PatternReport {
	report := PatternReport{
		PointCount:   len(points),
		DeviceNgrams: make(map[string]NgramReport),
	}

	prefixes := make(map[string]int)
	suffixes := make(map[string]int)
	tokens := make(map[string]int)
	byDevice := make(map[string][][]string)

	for _, p := range points {
		toks := memory.Tokens(memory.ExtractPattern(p.Name))
		if len(toks) == 0 {
			continue
		}

		prefixes[toks[0]]++
		suffixes[toks[len(toks)-1]]++
		for _, t := range toks {
			tokens[t]++
		}
		if p.DeviceType != "" {
			byDevice[p.DeviceType] = append(byDevice[p.DeviceType], toks)
		}
	}

	report.Prefixes = topCounts(prefixes, topPrefixSuffix)
	report.Suffixes = topCounts(suffixes, topPrefixSuffix)
	report.Tokens = topCounts(tokens, topTokens)

	for deviceType, tokenLists := range byDevice {
		if len(tokenLists) < 2 {
			continue
		}
		report.DeviceNgrams[deviceType] = e.mineNgrams(deviceType, tokenLists)
	}

	e.logger.Debug("extracted patterns",
		zap.Int("points", len(points)),
		zap.Int("unique_tokens", len(tokens)),
		zap.Int("device_types", len(report.DeviceNgrams)))

	return report
}

// mineNgrams counts token n-grams of sizes 2 through 4 across one device
// type's points and keeps the frequent ones.
func (e *Engine) mineNgrams(deviceType string, tokenLists [][]string) NgramReport {
	counts := make(map[string]int)
	for _, toks := range tokenLists {
		for size := 2; size <= 4; size++ {
			for i := 0; i+size <= len(toks); i++ {
				counts[strings.Join(toks[i:i+size], "_")]++
			}
		}
	}

	threshold := len(tokenLists) / 10
	if threshold < 2 {
		threshold = 2
	}

	frequent := make(map[string]int)
	for gram, count := range counts {
		if count >= threshold {
			frequent[gram] = count
		}
	}

	return NgramReport{
		Ngrams:      topCounts(frequent, topNgrams),
		Threshold:   threshold,
		UniqueCount: len(counts),
		PointCount:  len(tokenLists),
	}
}

// IdentifyPatternFamilies groups successful mappings by normalized target
// pattern within each device type.
//
// A device type is analyzed only with at least three mappings total and
// three successful ones; a family is reported only with at least two
// members.
func (e *Engine) IdentifyPatternFamilies(mappings []Mapping) map[string][]PatternFamily {
	totals := make(map[string]int)
	successes := make(map[string][]Mapping)
	for _, m := range mappings {
		if m.DeviceType == "" {
			continue
		}
		totals[m.DeviceType]++
		if m.Success && m.TargetPoint != "" {
			successes[m.DeviceType] = append(successes[m.DeviceType], m)
		}
	}

	families := make(map[string][]PatternFamily)
	for deviceType, succ := range successes {
		if totals[deviceType] < minFamilyMappings || len(succ) < minFamilyMappings {
			continue
		}

		groups := make(map[string][]FamilyMember)
		for _, m := range succ {
			target := memory.ExtractPattern(m.TargetPoint)
			if target == "" {
				continue
			}
			groups[target] = append(groups[target], FamilyMember{
				SourcePoint:   m.SourcePoint,
				SourcePattern: memory.ExtractPattern(m.SourcePoint),
				TargetPoint:   m.TargetPoint,
			})
		}

		var kept []PatternFamily
		for target, members := range groups {
			if len(members) >= minFamilySize {
				kept = append(kept, PatternFamily{TargetPattern: target, Members: members})
			}
		}
		if len(kept) == 0 {
			continue
		}
		sort.Slice(kept, func(i, j int) bool {
			if len(kept[i].Members) != len(kept[j].Members) {
				return len(kept[i].Members) > len(kept[j].Members)
			}
			return kept[i].TargetPattern < kept[j].TargetPattern
		})
		families[deviceType] = kept
	}

	return families
}

// topCounts ranks a frequency map by descending count, ties broken
// lexicographically, truncated to limit.
func topCounts(counts map[string]int, limit int) []TokenCount {
	if len(counts) == 0 {
		return nil
	}

	out := make([]TokenCount, 0, len(counts))
	for token, count := range counts {
		out = append(out, TokenCount{Token: token, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Token < out[j].Token
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// String renders a token count for logs and insights.
func (tc TokenCount) String() string {
	return fmt.Sprintf("%s(%d)", tc.Token, tc.Count)
}
