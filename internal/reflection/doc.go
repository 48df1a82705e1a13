// Package reflection composes pattern memory, quality assessment, strategy
// selection, and pattern analysis into the feedback loop of the mapping
// pipeline.
//
// Reflecting on a mapping scores its quality, feeds the outcome back into
// pattern memory and strategy statistics, and returns the mapping augmented
// with a reflection block. Suggestion asks for the best strategy and a
// confident historical target for a new point. The batch analysis entry
// points always respond: internal failures are reported inside the result
// envelope, never as an error.
package reflection
