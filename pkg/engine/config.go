package engine

import "fmt"

// SensitivityOrder selects which family of sensitivity indices the analyzer
// estimates.
type SensitivityOrder int

const (
	OrderFirst SensitivityOrder = iota
	OrderTotal
)

func (o SensitivityOrder) String() string {
	switch o {
	case OrderFirst:
		return "first"
	case OrderTotal:
		return "total"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseSensitivityOrder maps the configuration identifier onto an order.
func ParseSensitivityOrder(raw string) (SensitivityOrder, error) {
	switch raw {
	case "", "first":
		return OrderFirst, nil
	case "total":
		return OrderTotal, nil
	default:
		return OrderFirst, fmt.Errorf("engine: unknown sensitivity order %q (want first or total)", raw)
	}
}

// Kernel enumerates the surrogate covariance kernels the builder understands.
type Kernel int

const (
	KernelSquaredExponential Kernel = iota
	KernelMatern
)

func (k Kernel) String() string {
	switch k {
	case KernelSquaredExponential:
		return "squared-exponential"
	case KernelMatern:
		return "matern"
	default:
		return fmt.Sprintf("kernel(%d)", int(k))
	}
}

// ParseKernel maps the configuration identifier onto a kernel.
func ParseKernel(raw string) (Kernel, error) {
	switch raw {
	case "", "squared-exponential":
		return KernelSquaredExponential, nil
	case "matern":
		return KernelMatern, nil
	default:
		return KernelSquaredExponential, fmt.Errorf("engine: unknown surrogate kernel %q (want squared-exponential or matern)", raw)
	}
}

// SamplerVariant enumerates the adaptive Markov-chain samplers the
// calibration stage can run. The set is closed; algorithm selection is an
// exhaustive switch, not string dispatch.
type SamplerVariant int

const (
	// SamplerAMG is the default adaptive Metropolis sampler with global
	// proposal scaling.
	SamplerAMG SamplerVariant = iota
	// SamplerAMT is the alternative adaptive-step variant with per-factor
	// proposal tuning.
	SamplerAMT
)

func (v SamplerVariant) String() string {
	switch v {
	case SamplerAMG:
		return "amg"
	case SamplerAMT:
		return "amt"
	default:
		return fmt.Sprintf("sampler(%d)", int(v))
	}
}

// ParseSamplerVariant maps the CLI algorithm identifier onto a variant.
func ParseSamplerVariant(raw string) (SamplerVariant, error) {
	switch raw {
	case "", "amg":
		return SamplerAMG, nil
	case "amt":
		return SamplerAMT, nil
	default:
		return SamplerAMG, fmt.Errorf("engine: unknown sampling algorithm %q (want amg or amt)", raw)
	}
}

// ReductionConfig configures the dimensionality-reduction stage.
type ReductionConfig struct {
	// Components is the number of basis components to keep. Zero means let
	// the reducer decide.
	Components int
	Centered   bool
}

func (c ReductionConfig) Validate() error {
	if c.Components < 0 {
		return fmt.Errorf("engine: reduction components must be >= 0, got %d", c.Components)
	}
	return nil
}

// SensitivityConfig configures the sensitivity-analysis stage.
type SensitivityConfig struct {
	Order      SensitivityOrder
	SampleSize int
}

func (c SensitivityConfig) Validate() error {
	if c.Order != OrderFirst && c.Order != OrderTotal {
		return fmt.Errorf("engine: unknown sensitivity order %d", int(c.Order))
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("engine: sensitivity sample size must be >= 0, got %d", c.SampleSize)
	}
	return nil
}

// RetentionConfig configures the factor-retention screening stage.
type RetentionConfig struct {
	// Threshold is the minimum sensitivity index a factor needs to survive
	// screening. Zero means use the screener default.
	Threshold float64
	// MaxFactors caps the retained set. Zero means no cap.
	MaxFactors int
}

func (c RetentionConfig) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("engine: retention threshold must be in [0,1], got %g", c.Threshold)
	}
	if c.MaxFactors < 0 {
		return fmt.Errorf("engine: retention max factors must be >= 0, got %d", c.MaxFactors)
	}
	return nil
}

// SurrogateConfig configures the surrogate-model specification stage.
type SurrogateConfig struct {
	Kernel Kernel
	Nugget float64
}

func (c SurrogateConfig) Validate() error {
	if c.Kernel != KernelSquaredExponential && c.Kernel != KernelMatern {
		return fmt.Errorf("engine: unknown surrogate kernel %d", int(c.Kernel))
	}
	if c.Nugget < 0 {
		return fmt.Errorf("engine: surrogate nugget must be >= 0, got %g", c.Nugget)
	}
	return nil
}

// TrainingConfig configures the surrogate-training stage.
type TrainingConfig struct {
	MaxIterations int
	Tolerance     float64
}

func (c TrainingConfig) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("engine: training max iterations must be >= 0, got %d", c.MaxIterations)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("engine: training tolerance must be >= 0, got %g", c.Tolerance)
	}
	return nil
}

// CalibrationConfig configures the Bayesian calibration stage. Chains is the
// worker count already clamped by the orchestrator's parallelism policy.
type CalibrationConfig struct {
	Variant    SamplerVariant
	Chains     int
	Iterations int
	Seed       int64
}

func (c CalibrationConfig) Validate() error {
	if c.Variant != SamplerAMG && c.Variant != SamplerAMT {
		return fmt.Errorf("engine: unknown sampler variant %d", int(c.Variant))
	}
	if c.Chains < 1 {
		return fmt.Errorf("engine: calibration chain count must be >= 1, got %d", c.Chains)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("engine: calibration iterations must be >= 0, got %d", c.Iterations)
	}
	return nil
}
