// Package logging configures slog output for bookscout.
//
// Two handlers are supported: a console handler that renders compact
// "ts LEVEL component: msg key=value" lines for interactive use, and a JSON
// handler for machine consumption. Components tag their loggers through
// WithComponent so console lines stay attributable.
package logging
