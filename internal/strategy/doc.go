// Package strategy selects named mapping strategies and tracks their
// historical performance.
//
// The catalog of strategies is immutable process-wide configuration.
// Selection prefers strategies whose recorded success rate on similar
// historical patterns clears their own confidence threshold, falling back
// to a per-device preference list and finally the global default.
package strategy
