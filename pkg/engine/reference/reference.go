// Package reference supplies deterministic placeholder implementations of
// every engine collaborator so the pipeline works end to end out of the box.
// The numbers it produces are seeded pseudo-data and lightweight moment
// arithmetic, not real statistics; production deployments inject their own
// collaborators through the pipeline options.
package reference

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/calibro/calibrino/pkg/dataset"
	"github.com/calibro/calibrino/pkg/engine"
)

const (
	defaultRows       = 64
	defaultFactors    = 8
	defaultComponents = 3
	defaultThreshold  = 0.05
	defaultIterations = 200
	defaultTolerance  = 1e-6
)

// Engine implements every collaborator contract deterministically: the same
// bindings and seeds always produce the same results.
type Engine struct {
	// Seed drives all pseudo-data generation. Zero means a fixed default.
	Seed int64
}

// New returns a reference engine with the given base seed.
func New(seed int64) *Engine {
	return &Engine{Seed: seed}
}

// Load synthesises a dataset deterministically from the binding's paths. The
// reference engine deliberately performs no file I/O: observation and
// simulation parsing belongs to the production loader.
func (e *Engine) Load(_ context.Context, binding dataset.Binding) (engine.Dataset, error) {
	if binding.ObservationPath == "" || binding.SimulationPath == "" {
		return engine.Dataset{}, fmt.Errorf("reference: binding %s is missing observation or simulation path", binding.Name)
	}

	rng := rand.New(rand.NewSource(e.bindingSeed(binding)))
	factors := make([]string, defaultFactors)
	for i := range factors {
		factors[i] = fmt.Sprintf("factor-%d", i+1)
	}

	return engine.Dataset{
		Binding:     binding,
		Factors:     factors,
		Observation: matrix(rng, defaultRows, 1),
		Simulation:  matrix(rng, defaultRows, 1),
		Input:       matrix(rng, defaultRows, defaultFactors),
		Boundary:    matrix(rng, defaultRows, 2),
	}, nil
}

// Reduce keeps the requested number of components and assigns them a
// geometrically decaying explained-variance share.
func (e *Engine) Reduce(ctx context.Context, data []engine.Dataset, cfg engine.ReductionConfig) (*engine.ReductionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("reference: reduce: no datasets")
	}
	components := cfg.Components
	if components == 0 {
		components = defaultComponents
	}

	explained := make([]float64, components)
	remaining := 1.0
	for i := range explained {
		share := remaining * 0.6
		if i == components-1 {
			share = remaining
		}
		explained[i] = share
		remaining -= share
	}
	return &engine.ReductionResult{Components: components, Explained: explained}, nil
}

// Analyze scores each factor by the variance of its input column, normalised
// across factors.
func (e *Engine) Analyze(ctx context.Context, data []engine.Dataset, reduction *engine.ReductionResult, cfg engine.SensitivityConfig) (*engine.SensitivityResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if reduction == nil || !reduction.Ready() {
		return nil, fmt.Errorf("reference: analyze: reduction result not ready")
	}
	if len(data) == 0 || len(data[0].Factors) == 0 {
		return nil, fmt.Errorf("reference: analyze: no factors")
	}

	factors := data[0].Factors
	variances := make([]float64, len(factors))
	total := 0.0
	for _, ds := range data {
		for col := range factors {
			v := columnVariance(ds.Input, col)
			variances[col] += v
			total += v
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("reference: analyze: degenerate inputs")
	}

	indices := make([]engine.FactorIndex, len(factors))
	for i, factor := range factors {
		indices[i] = engine.FactorIndex{Factor: factor, Index: variances[i] / total}
	}
	return &engine.SensitivityResult{Order: cfg.Order, Indices: indices}, nil
}

// Screen retains factors whose index clears the threshold, capped at
// MaxFactors, always keeping at least the single most influential factor.
func (e *Engine) Screen(ctx context.Context, sensitivity *engine.SensitivityResult, cfg engine.RetentionConfig) (*engine.RetentionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sensitivity == nil || !sensitivity.Ready() {
		return nil, fmt.Errorf("reference: screen: sensitivity result not ready")
	}

	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = defaultThreshold
	}

	var retained, discarded []string
	for _, fi := range sensitivity.Ranked() {
		keep := fi.Index >= threshold
		if cfg.MaxFactors > 0 && len(retained) >= cfg.MaxFactors {
			keep = false
		}
		if keep {
			retained = append(retained, fi.Factor)
		} else {
			discarded = append(discarded, fi.Factor)
		}
	}
	if len(retained) == 0 && len(discarded) > 0 {
		retained = append(retained, discarded[0])
		discarded = discarded[1:]
	}
	return &engine.RetentionResult{Retained: retained, Discarded: discarded}, nil
}

// Specify derives one length scale per retained factor from the pooled input
// spread.
func (e *Engine) Specify(ctx context.Context, data []engine.Dataset, retention *engine.RetentionResult, cfg engine.SurrogateConfig) (*engine.SurrogateSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if retention == nil || !retention.Ready() {
		return nil, fmt.Errorf("reference: specify: retention result not ready")
	}

	scales := make([]float64, len(retention.Retained))
	for i, factor := range retention.Retained {
		col := factorColumn(data, factor)
		spread := 1.0
		if col >= 0 && len(data) > 0 {
			spread = math.Sqrt(columnVariance(data[0].Input, col)) + cfg.Nugget
		}
		scales[i] = spread
	}
	return &engine.SurrogateSpec{
		Kernel:       cfg.Kernel,
		KernelName:   cfg.Kernel.String(),
		Nugget:       cfg.Nugget,
		Factors:      append([]string(nil), retention.Retained...),
		LengthScales: scales,
	}, nil
}

// Train shrinks a synthetic loss geometrically until tolerance or the
// iteration cap, whichever comes first.
func (e *Engine) Train(ctx context.Context, data []engine.Dataset, spec *engine.SurrogateSpec, cfg engine.TrainingConfig) (*engine.TrainingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if spec == nil || !spec.Ready() {
		return nil, fmt.Errorf("reference: train: surrogate spec not ready")
	}

	maxIter := cfg.MaxIterations
	if maxIter == 0 {
		maxIter = defaultIterations
	}
	tolerance := cfg.Tolerance
	if tolerance == 0 {
		tolerance = defaultTolerance
	}

	loss := 1.0
	iterations := 0
	for iterations < maxIter && loss > tolerance {
		loss *= 0.8
		iterations++
	}
	return &engine.TrainingResult{
		Iterations: iterations,
		FinalLoss:  loss,
		Converged:  loss <= tolerance,
	}, nil
}

func (e *Engine) bindingSeed(binding dataset.Binding) int64 {
	h := fnv.New64a()
	h.Write([]byte(binding.ObservationPath))
	h.Write([]byte{0})
	h.Write([]byte(binding.SimulationPath))
	return e.Seed ^ int64(h.Sum64())
}

func matrix(rng *rand.Rand, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for r := range out {
		row := make([]float64, cols)
		for c := range row {
			row[c] = rng.NormFloat64() * float64(c+1)
		}
		out[r] = row
	}
	return out
}

func columnVariance(m [][]float64, col int) float64 {
	if len(m) == 0 || col >= len(m[0]) {
		return 0
	}
	mean := 0.0
	for _, row := range m {
		mean += row[col]
	}
	mean /= float64(len(m))

	variance := 0.0
	for _, row := range m {
		d := row[col] - mean
		variance += d * d
	}
	return variance / float64(len(m))
}

func factorColumn(data []engine.Dataset, factor string) int {
	if len(data) == 0 {
		return -1
	}
	for i, name := range data[0].Factors {
		if name == factor {
			return i
		}
	}
	return -1
}
