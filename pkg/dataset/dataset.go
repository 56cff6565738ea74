package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

const obsSuffix = "_obs.csv"

// Binding pairs one observation file with its simulation counterpart plus the
// optional covariate files resolved for it. Bindings are immutable once
// registered and are owned by the calibration context for the run.
type Binding struct {
	Name            string `json:"name" yaml:"name"`
	ObservationPath string `json:"observation" yaml:"observation"`
	SimulationPath  string `json:"simulation" yaml:"simulation"`
	InputPath       string `json:"input,omitempty" yaml:"input,omitempty"`
	BoundaryPath    string `json:"boundaryCondition,omitempty" yaml:"boundaryCondition,omitempty"`
}

// ArityError reports an input list whose length cannot be reconciled with the
// observation count. It is always raised before any computation starts.
type ArityError struct {
	// List names the offending argument ("simulation", "input", "boundary").
	List string
	Got  int
	Want int
}

func (e *ArityError) Error() string {
	if e.List == "simulation" {
		return fmt.Sprintf("dataset: %d simulation path(s) for %d observation path(s)", e.Got, e.Want)
	}
	return fmt.Sprintf("dataset: %s list has %d entries, want 1 or %d", e.List, e.Got, e.Want)
}

// Register splits each comma-packed argument into trimmed path tokens,
// validates the arity rules, and produces one Binding per observation token.
// Input and boundary lists of length one are replicated across all bindings.
func Register(obs, sim, input, boundary string) ([]Binding, error) {
	obsPaths := splitPaths(obs)
	simPaths := splitPaths(sim)
	if len(simPaths) != len(obsPaths) {
		return nil, &ArityError{List: "simulation", Got: len(simPaths), Want: len(obsPaths)}
	}

	inputPaths, err := broadcast("input", splitPaths(input), len(obsPaths))
	if err != nil {
		return nil, err
	}
	boundaryPaths, err := broadcast("boundary", splitPaths(boundary), len(obsPaths))
	if err != nil {
		return nil, err
	}

	bindings := make([]Binding, 0, len(obsPaths))
	for i, path := range obsPaths {
		bindings = append(bindings, Binding{
			Name:            bindingName(obsPaths, i),
			ObservationPath: path,
			SimulationPath:  simPaths[i],
			InputPath:       pick(inputPaths, i),
			BoundaryPath:    pick(boundaryPaths, i),
		})
	}
	return bindings, nil
}

func splitPaths(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// broadcast expands a singleton list to count entries. Lists whose length is
// neither 1 nor count fail; empty lists stay empty (the covariate is absent).
func broadcast(list string, paths []string, count int) ([]string, error) {
	switch len(paths) {
	case 0, count:
		return paths, nil
	case 1:
		expanded := make([]string, count)
		for i := range expanded {
			expanded[i] = paths[0]
		}
		return expanded, nil
	default:
		return nil, &ArityError{List: list, Got: len(paths), Want: count}
	}
}

// bindingName derives a stable name for the i-th binding. When every
// observation file follows the platform's "<stem>_obs.csv" convention the stem
// becomes the name; otherwise names are ordinal.
func bindingName(obsPaths []string, i int) string {
	if stemmed(obsPaths) {
		base := filepath.Base(obsPaths[i])
		return strings.TrimSuffix(base, obsSuffix)
	}
	return fmt.Sprintf("dataset-%d", i+1)
}

func stemmed(obsPaths []string) bool {
	for _, path := range obsPaths {
		base := filepath.Base(path)
		if !strings.HasSuffix(base, obsSuffix) || base == obsSuffix {
			return false
		}
	}
	return len(obsPaths) > 0
}

func pick(paths []string, i int) string {
	if i < len(paths) {
		return paths[i]
	}
	return ""
}
