// Package quality scores individual mapping decisions across five weighted
// dimensions: semantic correctness, convention adherence, consistency with
// reference mappings, device context fit, and schema completeness.
//
// The assessor is stateless and never returns an error: missing inputs
// default the affected dimension to a neutral score so a batch of
// assessments always completes.
package quality
