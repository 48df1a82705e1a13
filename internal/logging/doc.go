// Package logging builds the process-wide zap logger from configuration.
//
// Two output formats are supported: json for production and console for
// local development. All components receive the logger (or a Named child)
// via constructor injection; none construct their own.
package logging
