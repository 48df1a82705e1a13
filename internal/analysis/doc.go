// Package analysis provides batch statistical mining over point names and
// mapping outcomes: prefix/suffix/token frequencies, per-device n-gram
// mining, and pattern-family grouping of successful mappings.
//
// The engine is stateless; each call computes its report from the supplied
// batch alone. Normalization is shared with the memory package so mined
// shapes line up with stored patterns.
package analysis
