package calibration

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/calibro/calibrino/pkg/dataset"
	"github.com/calibro/calibrino/pkg/engine"
)

// Context is the single stateful object threaded through a pipeline run. It
// owns the dataset bindings and accumulates one result per completed stage.
// A Context belongs to exactly one run and must not be shared across runs;
// no locking happens here.
type Context struct {
	name     string
	id       string
	bindings []dataset.Binding

	loader engine.Loader
	loaded []engine.Dataset

	reduction   *engine.ReductionResult
	sensitivity *engine.SensitivityResult
	retention   *engine.RetentionResult
	surrogate   *engine.SurrogateSpec
	training    *engine.TrainingResult
	calibration *engine.CalibrationResult
}

// New builds a fresh context over registered bindings. The loader is invoked
// lazily the first time a stage needs materialised data.
func New(name string, bindings []dataset.Binding, loader engine.Loader) *Context {
	return &Context{
		name:     name,
		id:       uuid.NewString(),
		bindings: append([]dataset.Binding(nil), bindings...),
		loader:   loader,
	}
}

// Name returns the run identifier supplied by the caller.
func (c *Context) Name() string { return c.name }

// ID returns the generated unique run ID.
func (c *Context) ID() string { return c.id }

// Bindings returns the registered dataset bindings in order.
func (c *Context) Bindings() []dataset.Binding {
	return append([]dataset.Binding(nil), c.bindings...)
}

// Reduce runs the dimensionality-reduction stage.
func (c *Context) Reduce(ctx context.Context, reducer engine.Reducer, cfg engine.ReductionConfig) error {
	if err := c.precondition(StageReduction); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := c.datasets(ctx)
	if err != nil {
		return err
	}
	result, err := reducer.Reduce(ctx, data, cfg)
	if err != nil {
		return err
	}
	c.reduction = result
	return nil
}

// AnalyzeSensitivity runs the sensitivity-analysis stage.
func (c *Context) AnalyzeSensitivity(ctx context.Context, analyzer engine.Analyzer, cfg engine.SensitivityConfig) error {
	if err := c.precondition(StageSensitivity); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := c.datasets(ctx)
	if err != nil {
		return err
	}
	result, err := analyzer.Analyze(ctx, data, c.reduction, cfg)
	if err != nil {
		return err
	}
	c.sensitivity = result
	return nil
}

// Screen runs the factor-retention stage.
func (c *Context) Screen(ctx context.Context, screener engine.Screener, cfg engine.RetentionConfig) error {
	if err := c.precondition(StageRetention); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	result, err := screener.Screen(ctx, c.sensitivity, cfg)
	if err != nil {
		return err
	}
	c.retention = result
	return nil
}

// SpecifySurrogate runs the surrogate-specification stage.
func (c *Context) SpecifySurrogate(ctx context.Context, builder engine.SurrogateBuilder, cfg engine.SurrogateConfig) error {
	if err := c.precondition(StageSurrogate); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := c.datasets(ctx)
	if err != nil {
		return err
	}
	spec, err := builder.Specify(ctx, data, c.retention, cfg)
	if err != nil {
		return err
	}
	c.surrogate = spec
	return nil
}

// Train runs the surrogate-training stage.
func (c *Context) Train(ctx context.Context, trainer engine.Trainer, cfg engine.TrainingConfig) error {
	if err := c.precondition(StageTraining); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := c.datasets(ctx)
	if err != nil {
		return err
	}
	result, err := trainer.Train(ctx, data, c.surrogate, cfg)
	if err != nil {
		return err
	}
	c.training = result
	return nil
}

// Calibrate runs the Bayesian calibration stage. Chain parallelism is the
// sampler's concern; this call blocks until every chain is merged.
func (c *Context) Calibrate(ctx context.Context, sampler engine.Sampler, cfg engine.CalibrationConfig) error {
	if err := c.precondition(StageCalibration); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := c.datasets(ctx)
	if err != nil {
		return err
	}
	result, err := sampler.Sample(ctx, data, c.surrogate, c.training, cfg)
	if err != nil {
		return err
	}
	c.calibration = result
	return nil
}

// Completed reports whether the given stage's slot is populated.
func (c *Context) Completed(stage Stage) bool {
	result, ok := c.Result(stage)
	return ok && result.Ready()
}

// Result returns the populated slot for a stage, if any.
func (c *Context) Result(stage Stage) (engine.Result, bool) {
	switch stage {
	case StageReduction:
		if c.reduction != nil {
			return c.reduction, true
		}
	case StageSensitivity:
		if c.sensitivity != nil {
			return c.sensitivity, true
		}
	case StageRetention:
		if c.retention != nil {
			return c.retention, true
		}
	case StageSurrogate:
		if c.surrogate != nil {
			return c.surrogate, true
		}
	case StageTraining:
		if c.training != nil {
			return c.training, true
		}
	case StageCalibration:
		if c.calibration != nil {
			return c.calibration, true
		}
	}
	return nil, false
}

// Sensitivity returns the sensitivity slot for callers needing the typed
// ranked projection.
func (c *Context) Sensitivity() (*engine.SensitivityResult, bool) {
	return c.sensitivity, c.sensitivity != nil
}

// Calibration returns the typed calibration result.
func (c *Context) Calibration() (*engine.CalibrationResult, bool) {
	return c.calibration, c.calibration != nil
}

// precondition enforces the forward dependency chain: every earlier slot must
// be populated and the stage's own slot must still be empty.
func (c *Context) precondition(stage Stage) error {
	for _, prior := range Stages() {
		if prior == stage {
			break
		}
		if _, ok := c.Result(prior); !ok {
			return &SequenceError{Stage: stage, Missing: prior}
		}
	}
	if _, ok := c.Result(stage); ok {
		return &SequenceError{Stage: stage}
	}
	return nil
}

// datasets loads the bound data on first use and caches it for the rest of
// the run. Bindings are read-only, so the cached slice is safe to hand to an
// internally parallel sampler.
func (c *Context) datasets(ctx context.Context) ([]engine.Dataset, error) {
	if c.loaded != nil {
		return c.loaded, nil
	}
	if c.loader == nil {
		return nil, fmt.Errorf("calibration: no dataset loader configured")
	}
	loaded := make([]engine.Dataset, 0, len(c.bindings))
	for _, binding := range c.bindings {
		data, err := c.loader.Load(ctx, binding)
		if err != nil {
			return nil, fmt.Errorf("calibration: load dataset %s: %w", binding.Name, err)
		}
		loaded = append(loaded, data)
	}
	c.loaded = loaded
	return c.loaded, nil
}
