package analysis

// Point is one raw point to mine.
type Point struct {
	Name       string `json:"point_name"`
	DeviceType string `json:"device_type"`
}

// Mapping is one mapping outcome for family grouping.
type Mapping struct {
	SourcePoint string `json:"source_point"`
	TargetPoint string `json:"target_point"`
	DeviceType  string `json:"device_type"`
	Success     bool   `json:"success"`
}

// TokenCount is a token (or joined n-gram) with its frequency.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// NgramReport holds the mined n-grams for one device type.
type NgramReport struct {
	// Ngrams are the retained n-grams, highest frequency first.
	Ngrams []TokenCount `json:"ngrams"`

	// Threshold is the minimum frequency an n-gram needed to be retained.
	Threshold int `json:"threshold"`

	// UniqueCount is the number of distinct n-grams seen before filtering.
	UniqueCount int `json:"unique_count"`

	// PointCount is how many points of this device type were mined.
	PointCount int `json:"point_count"`
}

// PatternReport is the result of mining a batch of points.
type PatternReport struct {
	PointCount int `json:"point_count"`

	// Prefixes and Suffixes are the most common first and last tokens.
	Prefixes []TokenCount `json:"prefixes"`
	Suffixes []TokenCount `json:"suffixes"`

	// Tokens are the most common tokens overall.
	Tokens []TokenCount `json:"tokens"`

	// DeviceNgrams holds per-device n-gram mining, keyed by device type.
	DeviceNgrams map[string]NgramReport `json:"device_ngrams"`
}

// FamilyMember is one successful mapping inside a pattern family.
type FamilyMember struct {
	SourcePoint   string `json:"source_point"`
	SourcePattern string `json:"source_pattern"`
	TargetPoint   string `json:"target_point"`
}

// PatternFamily groups successful mappings of one device type that share a
// normalized target pattern.
type PatternFamily struct {
	TargetPattern string         `json:"target_pattern"`
	Members       []FamilyMember `json:"members"`
}
