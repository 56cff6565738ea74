package engine

import (
	"context"

	"github.com/calibro/calibrino/pkg/dataset"
)

// Dataset is one binding's loaded data. Rows are time steps, columns are
// model factors (for inputs) or outputs (for observations/simulations).
type Dataset struct {
	Binding     dataset.Binding
	Factors     []string
	Observation [][]float64
	Simulation  [][]float64
	Input       [][]float64
	Boundary    [][]float64
}

// Loader materialises the data behind one binding. Implementations own file
// parsing; the orchestrator only ever hands them a Binding.
type Loader interface {
	Load(ctx context.Context, binding dataset.Binding) (Dataset, error)
}

// Reducer performs the dimensionality-reduction stage.
type Reducer interface {
	Reduce(ctx context.Context, data []Dataset, cfg ReductionConfig) (*ReductionResult, error)
}

// Analyzer estimates sensitivity indices over the reduced basis.
type Analyzer interface {
	Analyze(ctx context.Context, data []Dataset, reduction *ReductionResult, cfg SensitivityConfig) (*SensitivityResult, error)
}

// Screener retains the influential factors identified by the analysis.
type Screener interface {
	Screen(ctx context.Context, sensitivity *SensitivityResult, cfg RetentionConfig) (*RetentionResult, error)
}

// SurrogateBuilder specifies the surrogate model over the retained factors.
type SurrogateBuilder interface {
	Specify(ctx context.Context, data []Dataset, retention *RetentionResult, cfg SurrogateConfig) (*SurrogateSpec, error)
}

// Trainer fits the specified surrogate against the simulation data.
type Trainer interface {
	Train(ctx context.Context, data []Dataset, spec *SurrogateSpec, cfg TrainingConfig) (*TrainingResult, error)
}

// Sampler runs the Bayesian calibration against the trained surrogate. The
// cfg.Chains workers, if any parallelism exists, are the sampler's own
// concern; the call blocks until every chain is merged into one result.
type Sampler interface {
	Sample(ctx context.Context, data []Dataset, spec *SurrogateSpec, training *TrainingResult, cfg CalibrationConfig) (*CalibrationResult, error)
}

// Engine bundles every collaborator the pipeline needs. The reference
// implementation satisfies it wholesale; callers can also inject the pieces
// individually via pipeline options.
type Engine interface {
	Loader
	Reducer
	Analyzer
	Screener
	SurrogateBuilder
	Trainer
	Sampler
}
