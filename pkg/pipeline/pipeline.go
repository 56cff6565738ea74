package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/calibro/calibrino/pkg/calibration"
	"github.com/calibro/calibrino/pkg/dataset"
	"github.com/calibro/calibrino/pkg/engine"
	"github.com/calibro/calibrino/pkg/engine/reference"
	"github.com/calibro/calibrino/pkg/report"
	"github.com/calibro/calibrino/pkg/reporters/htmlreport"
	"github.com/calibro/calibrino/pkg/reporters/jsonreport"
	"github.com/calibro/calibrino/pkg/reporters/pdfreport"
	"github.com/calibro/calibrino/pkg/reporters/yamlreport"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithEngine injects one implementation for every collaborator at once.
func WithEngine(eng engine.Engine) Option {
	return func(o *Orchestrator) {
		o.loader = eng
		o.reducer = eng
		o.analyzer = eng
		o.screener = eng
		o.builder = eng
		o.trainer = eng
		o.sampler = eng
	}
}

// WithLoader injects a custom dataset loader.
func WithLoader(loader engine.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithReducer injects a custom dimensionality reducer.
func WithReducer(reducer engine.Reducer) Option {
	return func(o *Orchestrator) {
		o.reducer = reducer
	}
}

// WithAnalyzer injects a custom sensitivity analyzer.
func WithAnalyzer(analyzer engine.Analyzer) Option {
	return func(o *Orchestrator) {
		o.analyzer = analyzer
	}
}

// WithScreener injects a custom factor-retention screener.
func WithScreener(screener engine.Screener) Option {
	return func(o *Orchestrator) {
		o.screener = screener
	}
}

// WithSurrogateBuilder injects a custom surrogate builder.
func WithSurrogateBuilder(builder engine.SurrogateBuilder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithTrainer injects a custom surrogate trainer.
func WithTrainer(trainer engine.Trainer) Option {
	return func(o *Orchestrator) {
		o.trainer = trainer
	}
}

// WithSampler injects a custom calibration sampler.
func WithSampler(sampler engine.Sampler) Option {
	return func(o *Orchestrator) {
		o.sampler = sampler
	}
}

// WithRegistry injects a report renderer registry.
func WithRegistry(registry *report.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithProgressWriter directs progress narration to w. Narration defaults to
// discard; the CLI passes stdout.
func WithProgressWriter(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.progressW = w
	}
}

// WithParallelism overrides the availableParallelism probe used by the
// worker-count policy. Intended for tests.
func WithParallelism(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// Orchestrator coordinates the full pipeline from raw path arguments to
// emitted report artifacts. Missing collaborators are initialised with the
// reference engine and the built-in renderers so callers can start with a
// single constructor call.
type Orchestrator struct {
	loader   engine.Loader
	reducer  engine.Reducer
	analyzer engine.Analyzer
	screener engine.Screener
	builder  engine.SurrogateBuilder
	trainer  engine.Trainer
	sampler  engine.Sampler

	registry    *report.Registry
	progressW   io.Writer
	parallelism int

	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one pipeline run.
type Request struct {
	// Name is the run identifier; empty falls back to the default run name.
	Name string

	// Observations, Simulations, Inputs and Boundaries are the raw
	// comma-packed path arguments. Observations and Simulations must hold
	// the same number of tokens; Inputs and Boundaries broadcast.
	Observations string
	Simulations  string
	Inputs       string
	Boundaries   string

	// Selectors are the result sets to include in each artifact; empty
	// defaults to the calibration posterior only.
	Selectors []report.Selector
	// Formats are the artifact formats to emit; empty defaults to json.
	Formats []string
	// OutputDir receives the artifacts; empty means the working directory.
	OutputDir string

	// Verbosity gates progress narration (0-3).
	Verbosity int
	// Cores is the requested sampler chain count before clamping.
	Cores int

	Reduction   engine.ReductionConfig
	Sensitivity engine.SensitivityConfig
	Retention   engine.RetentionConfig
	Surrogate   engine.SurrogateConfig
	Training    engine.TrainingConfig
	Algorithm   engine.SamplerVariant
	Iterations  int
	Seed        int64
}

// Result is what a successful run hands back to the caller.
type Result struct {
	Context   *calibration.Context
	Artifacts []string
}

const defaultRunName = "myCalibration"

// Run validates and broadcasts the dataset arguments, threads a fresh
// calibration context through the six stages in fixed order, and emits one
// artifact per requested format. The first stage failure aborts the rest.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("pipeline: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = defaultRunName
	}

	bindings, err := dataset.Register(req.Observations, req.Simulations, req.Inputs, req.Boundaries)
	if err != nil {
		return nil, err
	}

	narrator := NewNarrator(o.progressW, req.Verbosity)
	narrator.Printf(VerbosityStages, "registered %d dataset(s) for run %q", len(bindings), name)

	run := calibration.New(name, bindings, o.loader)

	chains := o.Workers(req.Cores)
	calCfg := engine.CalibrationConfig{
		Variant:    req.Algorithm,
		Chains:     chains,
		Iterations: req.Iterations,
		Seed:       req.Seed,
	}

	stages := []struct {
		stage calibration.Stage
		run   func() error
	}{
		{calibration.StageReduction, func() error { return run.Reduce(ctx, o.reducer, req.Reduction) }},
		{calibration.StageSensitivity, func() error { return run.AnalyzeSensitivity(ctx, o.analyzer, req.Sensitivity) }},
		{calibration.StageRetention, func() error { return run.Screen(ctx, o.screener, req.Retention) }},
		{calibration.StageSurrogate, func() error { return run.SpecifySurrogate(ctx, o.builder, req.Surrogate) }},
		{calibration.StageTraining, func() error { return run.Train(ctx, o.trainer, req.Training) }},
		{calibration.StageCalibration, func() error { return run.Calibrate(ctx, o.sampler, calCfg) }},
	}

	for _, step := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if step.stage == calibration.StageCalibration {
			narrator.Printf(VerbosityStages, "running %s (%s, %d chain(s))", step.stage, calCfg.Variant, chains)
		} else {
			narrator.Printf(VerbosityStages, "running %s", step.stage)
		}
		if err := step.run(); err != nil {
			return nil, fmt.Errorf("pipeline: %s stage: %w", step.stage, err)
		}
		if result, ok := run.Result(step.stage); ok {
			narrator.Lines(VerbositySummary, result.Summary(narrationRank))
		}
	}
	if cal, ok := run.Calibration(); ok {
		for _, chain := range cal.Chains {
			narrator.Printf(VerbosityDetail, "  chain %d: %d samples, acceptance %.2f", chain.Chain, chain.Samples, chain.Acceptance)
		}
	}

	selectors := req.Selectors
	if len(selectors) == 0 {
		selectors = []report.Selector{report.SelectorCalibration}
	}
	formats := req.Formats
	if len(formats) == 0 {
		formats = []string{"json"}
	}

	rep, err := report.Build(run, selectors)
	if err != nil {
		return nil, err
	}
	artifacts, err := report.NewEmitter(o.registry, req.OutputDir).Emit(ctx, rep, formats)
	if err != nil {
		return nil, err
	}
	narrator.Printf(VerbosityStages, "wrote %d artifact(s)", len(artifacts))

	return &Result{Context: run, Artifacts: artifacts}, nil
}

// Workers clamps the requested sampler chain count to the machine: never
// more than availableParallelism-1, never less than 1.
func (o *Orchestrator) Workers(requested int) int {
	limit := o.parallelism - 1
	if requested < limit {
		limit = requested
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	var fallback *reference.Engine
	ensure := func() *reference.Engine {
		if fallback == nil {
			fallback = reference.New(0)
		}
		return fallback
	}

	if o.loader == nil {
		o.loader = ensure()
	}
	if o.reducer == nil {
		o.reducer = ensure()
	}
	if o.analyzer == nil {
		o.analyzer = ensure()
	}
	if o.screener == nil {
		o.screener = ensure()
	}
	if o.builder == nil {
		o.builder = ensure()
	}
	if o.trainer == nil {
		o.trainer = ensure()
	}
	if o.sampler == nil {
		o.sampler = ensure()
	}
	if o.registry == nil {
		o.registry = report.NewRegistry()
		o.registry.MustRegister(jsonreport.New())
		o.registry.MustRegister(yamlreport.New())
		o.registry.MustRegister(pdfreport.New())
		if html, err := htmlreport.New(); err != nil {
			o.initialiseErr = fmt.Errorf("pipeline: default html renderer: %w", err)
		} else {
			o.registry.MustRegister(html)
		}
	}
	if o.parallelism == 0 {
		o.parallelism = runtime.NumCPU()
	}

	o.defaultsApplied = true
}
