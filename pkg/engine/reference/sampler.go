package reference

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/calibro/calibrino/pkg/engine"
)

const defaultSampleIterations = 1000

// Sample runs cfg.Chains random-walk chains concurrently and merges them by
// chain index so the result is deterministic for a given seed. The walk is a
// stand-in for a real adaptive Metropolis sampler; the AMG/AMT variants
// differ only in proposal scaling.
func (e *Engine) Sample(ctx context.Context, data []engine.Dataset, spec *engine.SurrogateSpec, training *engine.TrainingResult, cfg engine.CalibrationConfig) (*engine.CalibrationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if spec == nil || !spec.Ready() {
		return nil, fmt.Errorf("reference: sample: surrogate spec not ready")
	}
	if training == nil || !training.Ready() {
		return nil, fmt.Errorf("reference: sample: training result not ready")
	}

	iterations := cfg.Iterations
	if iterations == 0 {
		iterations = defaultSampleIterations
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = e.Seed
	}

	chains := make([]chainRun, cfg.Chains)
	var wg sync.WaitGroup
	for i := range chains {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			chains[index] = runChain(index, iterations, seed, spec, cfg.Variant)
		}(i)
	}
	wg.Wait()

	stats := make([]engine.ChainStats, len(chains))
	for i, run := range chains {
		stats[i] = run.stats
	}
	return &engine.CalibrationResult{
		Algorithm: cfg.Variant.String(),
		Chains:    stats,
		Estimates: mergeEstimates(spec.Factors, chains),
	}, nil
}

type chainRun struct {
	stats engine.ChainStats
	// sums and squares accumulate per-factor moments for the merge.
	sums    []float64
	squares []float64
	count   int
}

func runChain(index, iterations int, seed int64, spec *engine.SurrogateSpec, variant engine.SamplerVariant) chainRun {
	rng := rand.New(rand.NewSource(seed + int64(index)*7919))
	factors := len(spec.Factors)

	run := chainRun{
		sums:    make([]float64, factors),
		squares: make([]float64, factors),
	}

	position := make([]float64, factors)
	accepted := 0
	for iter := 0; iter < iterations; iter++ {
		for f := 0; f < factors; f++ {
			step := rng.NormFloat64() * proposalScale(variant, spec.LengthScales[f], iter)
			candidate := position[f] + step
			// Accept moves toward the origin, mimicking a unimodal posterior.
			if math.Abs(candidate) <= math.Abs(position[f]) || rng.Float64() < 0.3 {
				position[f] = candidate
				accepted++
			}
			run.sums[f] += position[f]
			run.squares[f] += position[f] * position[f]
		}
		run.count++
	}

	run.stats = engine.ChainStats{
		Chain:      index + 1,
		Samples:    iterations,
		Acceptance: float64(accepted) / float64(iterations*factors),
	}
	return run
}

func proposalScale(variant engine.SamplerVariant, lengthScale float64, iter int) float64 {
	base := 0.1 + lengthScale*0.01
	switch variant {
	case engine.SamplerAMT:
		// Per-factor adaptive step: shrink as the chain progresses.
		return base / (1 + float64(iter)*0.001)
	default:
		return base
	}
}

func mergeEstimates(factors []string, chains []chainRun) []engine.FactorEstimate {
	estimates := make([]engine.FactorEstimate, len(factors))
	for f, factor := range factors {
		var sum, squares float64
		var count int
		for _, run := range chains {
			sum += run.sums[f]
			squares += run.squares[f]
			count += run.count
		}
		mean := sum / float64(count)
		variance := squares/float64(count) - mean*mean
		if variance < 0 {
			variance = 0
		}
		estimates[f] = engine.FactorEstimate{
			Factor: factor,
			Mean:   mean,
			StdDev: math.Sqrt(variance),
		}
	}
	return estimates
}
