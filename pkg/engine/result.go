package engine

import (
	"fmt"
	"sort"
)

// Result is the orchestrator-facing view of a stage output: a readiness
// predicate plus a small ranked projection used only for verbose progress
// narration. The orchestrator never looks inside a result beyond this.
type Result interface {
	Ready() bool
	// Summary returns up to n human-readable lines describing the result,
	// most significant first.
	Summary(n int) []string
}

// FactorIndex is one named factor's estimated sensitivity index.
type FactorIndex struct {
	Factor string  `json:"factor" yaml:"factor"`
	Index  float64 `json:"index" yaml:"index"`
}

// ReductionResult is the output of the dimensionality-reduction stage.
type ReductionResult struct {
	Components int       `json:"components" yaml:"components"`
	Explained  []float64 `json:"explained" yaml:"explained"`
}

func (r *ReductionResult) Ready() bool {
	return r != nil && r.Components > 0
}

func (r *ReductionResult) Summary(n int) []string {
	if r == nil {
		return nil
	}
	lines := make([]string, 0, n)
	for i, frac := range r.Explained {
		if len(lines) == n {
			break
		}
		lines = append(lines, fmt.Sprintf("component %d explains %.1f%%", i+1, frac*100))
	}
	return lines
}

// SensitivityResult holds the estimated sensitivity indices, unordered.
type SensitivityResult struct {
	Order   SensitivityOrder `json:"-" yaml:"-"`
	Indices []FactorIndex    `json:"indices" yaml:"indices"`
}

func (r *SensitivityResult) Ready() bool {
	return r != nil && len(r.Indices) > 0
}

func (r *SensitivityResult) Summary(n int) []string {
	if r == nil {
		return nil
	}
	ranked := r.Ranked()
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	lines := make([]string, 0, len(ranked))
	for _, fi := range ranked {
		lines = append(lines, fmt.Sprintf("%s: %.4f", fi.Factor, fi.Index))
	}
	return lines
}

// Ranked returns the indices sorted by decreasing magnitude, ties broken by
// factor name so the projection is deterministic.
func (r *SensitivityResult) Ranked() []FactorIndex {
	ranked := append([]FactorIndex(nil), r.Indices...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Index != ranked[j].Index {
			return ranked[i].Index > ranked[j].Index
		}
		return ranked[i].Factor < ranked[j].Factor
	})
	return ranked
}

// RetentionResult is the screened factor set carried into the surrogate.
type RetentionResult struct {
	Retained  []string `json:"retained" yaml:"retained"`
	Discarded []string `json:"discarded" yaml:"discarded"`
}

func (r *RetentionResult) Ready() bool {
	return r != nil && len(r.Retained) > 0
}

func (r *RetentionResult) Summary(n int) []string {
	if r == nil {
		return nil
	}
	lines := []string{fmt.Sprintf("retained %d of %d factors", len(r.Retained), len(r.Retained)+len(r.Discarded))}
	for _, factor := range r.Retained {
		if len(lines) == n {
			break
		}
		lines = append(lines, factor)
	}
	return lines
}

// SurrogateSpec describes the fitted-form surrogate before training.
type SurrogateSpec struct {
	Kernel       Kernel    `json:"-" yaml:"-"`
	KernelName   string    `json:"kernel" yaml:"kernel"`
	Nugget       float64   `json:"nugget" yaml:"nugget"`
	Factors      []string  `json:"factors" yaml:"factors"`
	LengthScales []float64 `json:"lengthScales" yaml:"lengthScales"`
}

func (s *SurrogateSpec) Ready() bool {
	return s != nil && len(s.Factors) > 0
}

func (s *SurrogateSpec) Summary(n int) []string {
	if s == nil {
		return nil
	}
	lines := []string{fmt.Sprintf("%s kernel over %d factors", s.KernelName, len(s.Factors))}
	if n < len(lines) {
		lines = lines[:n]
	}
	return lines
}

// TrainingResult carries the optimisation diagnostics of surrogate training.
type TrainingResult struct {
	Iterations int     `json:"iterations" yaml:"iterations"`
	FinalLoss  float64 `json:"finalLoss" yaml:"finalLoss"`
	Converged  bool    `json:"converged" yaml:"converged"`
}

func (r *TrainingResult) Ready() bool {
	return r != nil && r.Iterations > 0
}

func (r *TrainingResult) Summary(n int) []string {
	if r == nil || n < 1 {
		return nil
	}
	return []string{fmt.Sprintf("loss %.6f after %d iterations (converged=%t)", r.FinalLoss, r.Iterations, r.Converged)}
}

// ChainStats summarises one Markov chain of the posterior sample set.
type ChainStats struct {
	Chain      int     `json:"chain" yaml:"chain"`
	Samples    int     `json:"samples" yaml:"samples"`
	Acceptance float64 `json:"acceptance" yaml:"acceptance"`
}

// FactorEstimate is the marginal posterior summary for one retained factor.
type FactorEstimate struct {
	Factor string  `json:"factor" yaml:"factor"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stdDev" yaml:"stdDev"`
}

// CalibrationResult is the merged posterior sample set across all chains.
type CalibrationResult struct {
	Algorithm string           `json:"algorithm" yaml:"algorithm"`
	Chains    []ChainStats     `json:"chains" yaml:"chains"`
	Estimates []FactorEstimate `json:"estimates" yaml:"estimates"`
}

func (r *CalibrationResult) Ready() bool {
	return r != nil && len(r.Chains) > 0 && len(r.Estimates) > 0
}

func (r *CalibrationResult) Summary(n int) []string {
	if r == nil {
		return nil
	}
	lines := make([]string, 0, n)
	for _, est := range r.Estimates {
		if len(lines) == n {
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %.4f +/- %.4f", est.Factor, est.Mean, est.StdDev))
	}
	return lines
}
