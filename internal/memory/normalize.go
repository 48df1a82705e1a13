package memory

import (
	"regexp"
	"strings"
)

// separatorReplacer rewrites the separators seen in vendor point names to
// a single canonical delimiter.
var separatorReplacer = strings.NewReplacer("-", "_", ".", "_", " ", "_")

// underscoreRuns collapses repeated delimiters left behind by stripping.
var underscoreRuns = regexp.MustCompile(`_+`)

// synonyms are fixed vendor-shorthand substitutions applied after unit
// rewriting.
var synonyms = [...]struct{ from, to string }{
	{"totalcwp", "cooling_water_pump"},
	{"totalchwp", "chilled_water_pump"},
}

// ExtractPattern normalizes a raw point name into its pattern form.
//
// The transformation is pure and deterministic:
//  1. lowercase
//  2. "-", "." and space become "_"
//  3. standalone digit runs (instance IDs) are stripped
//  4. a trailing kWh unit becomes "_energy", then a trailing kW unit
//     becomes "_power" (kWh is checked first so "kw" never false-matches)
//  5. fixed synonym substitutions
//  6. repeated underscores collapse, leading/trailing underscores trim
//
// Examples:
//
//	ExtractPattern("Energy.TotalCwp-kW") == "energy_cooling_water_pump_power"
//	ExtractPattern("AHU-1.SA-TEMP")      == "ahu_sa_temp"
func ExtractPattern(name string) string {
	if name == "" {
		return ""
	}

	p := strings.ToLower(name)
	p = separatorReplacer.Replace(p)

	// Drop delimiter-bounded digit runs: these are instance IDs
	// (AHU_1, FCU_02) and must not distinguish patterns.
	tokens := strings.Split(p, "_")
	kept := tokens[:0]
	for _, tok := range tokens {
		if tok != "" && isDigits(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	p = strings.Join(kept, "_")

	// Unit suffix rewrites. kWh before kW.
	switch {
	case strings.HasSuffix(p, "_kwh"):
		p = strings.TrimSuffix(p, "_kwh") + "_energy"
	case strings.HasSuffix(p, "kwh"):
		p = strings.TrimSuffix(p, "kwh") + "_energy"
	case strings.HasSuffix(p, "_kw"):
		p = strings.TrimSuffix(p, "_kw") + "_power"
	case strings.HasSuffix(p, "kw"):
		p = strings.TrimSuffix(p, "kw") + "_power"
	}

	for _, s := range synonyms {
		p = strings.ReplaceAll(p, s.from, s.to)
	}

	p = underscoreRuns.ReplaceAllString(p, "_")
	return strings.Trim(p, "_")
}

// Tokens splits a normalized pattern into its non-empty tokens.
func Tokens(pattern string) []string {
	if pattern == "" {
		return nil
	}
	parts := strings.Split(pattern, "_")
	tokens := parts[:0]
	for _, t := range parts {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Similarity computes the Jaccard overlap between the token sets of two
// normalized patterns. Returns 0 when either side has no tokens.
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// tokenSet builds the token set of a normalized pattern.
func tokenSet(pattern string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokens(pattern) {
		set[t] = struct{}{}
	}
	return set
}

// isDigits reports whether s consists only of ASCII digits.
func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
