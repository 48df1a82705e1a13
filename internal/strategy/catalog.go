package strategy

// Strategy identifiers.
const (
	DirectPattern     = "direct_pattern"
	SemanticInference = "semantic_inference"
	DeviceContext     = "device_context"
	SchemaGuided      = "schema_guided"
	Hybrid            = "hybrid"
)

// DefaultStrategy is the global fallback.
const DefaultStrategy = Hybrid

// ReasonDefault is returned when no signal drives the selection.
const ReasonDefault = "Selected as default strategy."

// Descriptor is one immutable strategy definition.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// ConfidenceThreshold is the minimum historical success rate for the
	// strategy to be selected on evidence.
	ConfidenceThreshold float64 `json:"confidence_threshold"`

	// SuitableFor tags the situations the strategy handles well.
	SuitableFor []string `json:"suitable_for"`
}

// catalog is the static strategy set, in preference order for ties.
var catalog = []Descriptor{
	{
		ID:                  DirectPattern,
		Name:                "Direct Pattern Match",
		Description:         "Reuse the target of an identical or near-identical historical pattern",
		ConfidenceThreshold: 0.9,
		SuitableFor:         []string{"repeated_points", "exact_shapes"},
	},
	{
		ID:                  SemanticInference,
		Name:                "Semantic Inference",
		Description:         "Infer the measurement category from descriptive tokens and abbreviations",
		ConfidenceThreshold: 0.7,
		SuitableFor:         []string{"descriptive_names", "abbreviations"},
	},
	{
		ID:                  DeviceContext,
		Name:                "Device Context",
		Description:         "Disambiguate using the expected point set of the device type",
		ConfidenceThreshold: 0.6,
		SuitableFor:         []string{"ambiguous_names", "device_specific"},
	},
	{
		ID:                  SchemaGuided,
		Name:                "Schema Guided",
		Description:         "Constrain candidates to the device's declared schema points",
		ConfidenceThreshold: 0.75,
		SuitableFor:         []string{"schema_available", "strict_targets"},
	},
	{
		ID:                  Hybrid,
		Name:                "Hybrid",
		Description:         "Combine pattern memory, semantics, and device context",
		ConfidenceThreshold: 0.5,
		SuitableFor:         []string{"general", "fallback"},
	},
}

// devicePreferences orders strategies per device type for fallback
// selection when historical evidence is inconclusive.
var devicePreferences = map[string][]string{
	"AHU":     {DirectPattern, DeviceContext, Hybrid},
	"FCU":     {DirectPattern, SemanticInference, Hybrid},
	"CHILLER": {SchemaGuided, DirectPattern, Hybrid},
	"PUMP":    {DeviceContext, DirectPattern, Hybrid},
	"VAV":     {DeviceContext, SchemaGuided, Hybrid},
	"METER":   {SemanticInference, DirectPattern, Hybrid},
}

// Catalog returns a copy of the static strategy set.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the descriptor for a strategy ID.
func Lookup(id string) (Descriptor, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}
