// Package engine declares the seam between the calibration orchestrator and
// the numerical collaborators it drives: one interface per pipeline stage plus
// the dataset loader, the closed configuration record each stage accepts, and
// the typed results the orchestrator stores but treats as opaque. The default
// implementations live in engine/reference; production deployments inject
// their own.
package engine
