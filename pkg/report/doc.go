// Package report turns a completed (or partially completed) calibration
// context into output artifacts. Callers request a set of result selectors
// and a set of output formats; Build validates the selection against the
// populated stage slots and Emit renders one artifact per format through a
// registry of named renderers. Building and emitting are pure reads of the
// context.
package report
