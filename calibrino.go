// Package calibrino drives the calibro model-calibration workflow: dataset
// registration and broadcasting, the fixed six-stage pipeline (reduction,
// sensitivity analysis, factor retention, surrogate specification, training,
// Bayesian calibration), and multi-format report emission. This root package
// re-exports the pipeline entry points for callers that want a single
// import; the building blocks live under pkg/.
package calibrino

import (
	"context"

	"github.com/calibro/calibrino/pkg/engine"
	"github.com/calibro/calibrino/pkg/pipeline"
	"github.com/calibro/calibrino/pkg/report"
)

// Request describes one calibration run.
type Request = pipeline.Request

// Result is the outcome of a successful run.
type Result = pipeline.Result

// Option customises the orchestrator.
type Option = pipeline.Option

// Selector names one result set a report can include.
type Selector = report.Selector

// Result selectors accepted by reports.
const (
	SelectorCalibration = report.SelectorCalibration
	SelectorSensitivity = report.SelectorSensitivity
	SelectorRetention   = report.SelectorRetention
	SelectorTraining    = report.SelectorTraining
	SelectorDatasets    = report.SelectorDatasets
)

// NewOrchestrator exposes the pipeline orchestrator constructor.
func NewOrchestrator(options ...Option) *pipeline.Orchestrator {
	return pipeline.New(options...)
}

// Run registers the datasets, drives the six stages in order, and emits one
// artifact per requested format. It is the simplest entry point for callers
// that just want report files.
func Run(ctx context.Context, req Request, options ...Option) (*Result, error) {
	return pipeline.New(options...).Run(ctx, req)
}

// WithEngine injects one implementation for every numerical collaborator.
func WithEngine(eng engine.Engine) Option {
	return pipeline.WithEngine(eng)
}

// WithRegistry injects a report renderer registry.
func WithRegistry(registry *report.Registry) Option {
	return pipeline.WithRegistry(registry)
}
