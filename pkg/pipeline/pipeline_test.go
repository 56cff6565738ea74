package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calibro/calibrino/pkg/dataset"
	"github.com/calibro/calibrino/pkg/engine"
	"github.com/calibro/calibrino/pkg/pipeline"
	"github.com/calibro/calibrino/pkg/report"
)

func TestRun_EndToEndEmitsRequestedArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	orch := pipeline.New()

	result, err := orch.Run(context.Background(), pipeline.Request{
		Name:         "office-block",
		Observations: "a.csv,b.csv",
		Simulations:  "c.csv,d.csv",
		Inputs:       "x.csv",
		Boundaries:   "y.csv",
		Selectors:    []report.Selector{report.SelectorCalibration, report.SelectorSensitivity},
		Formats:      []string{"json", "pdf"},
		OutputDir:    dir,
		Cores:        2,
		Iterations:   100,
		Seed:         17,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{
		filepath.Join(dir, "calibro_report.json"),
		filepath.Join(dir, "calibro_report.pdf"),
	}
	if len(result.Artifacts) != 2 || result.Artifacts[0] != want[0] || result.Artifacts[1] != want[1] {
		t.Fatalf("unexpected artifacts: %v", result.Artifacts)
	}
	if got := len(result.Context.Bindings()); got != 2 {
		t.Fatalf("want 2 bindings, got %d", got)
	}
}

func TestRun_ArityFailureAbortsBeforeStages(t *testing.T) {
	t.Parallel()

	called := false
	orch := pipeline.New(pipeline.WithReducer(spyReducer{called: &called}))

	_, err := orch.Run(context.Background(), pipeline.Request{
		Observations: "a.csv,b.csv",
		Simulations:  "c.csv",
		Inputs:       "x.csv",
		Boundaries:   "y.csv",
	})

	var arityErr *dataset.ArityError
	if !errors.As(err, &arityErr) {
		t.Fatalf("want ArityError, got %v", err)
	}
	if called {
		t.Fatal("no stage may run after an arity failure")
	}
}

func TestRun_StageFailureAbortsAndNamesStage(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("ill-conditioned basis")
	trained := false
	orch := pipeline.New(
		pipeline.WithReducer(failingReducer{err: sentinel}),
		pipeline.WithTrainer(spyTrainer{called: &trained}),
	)

	_, err := orch.Run(context.Background(), pipeline.Request{
		Observations: "a.csv",
		Simulations:  "b.csv",
		Inputs:       "x.csv",
		Boundaries:   "y.csv",
		OutputDir:    t.TempDir(),
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("collaborator error lost: %v", err)
	}
	if !strings.Contains(err.Error(), "reduction") {
		t.Fatalf("failing stage not identified: %v", err)
	}
	if trained {
		t.Fatal("downstream stage ran after a failure")
	}
}

func TestWorkers_Policy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		parallelism int
		requested   int
		want        int
	}{
		{name: "RequestBelowLimit", parallelism: 8, requested: 3, want: 3},
		{name: "RequestClampedToLimit", parallelism: 4, requested: 16, want: 3},
		{name: "NeverBelowOne", parallelism: 1, requested: 8, want: 1},
		{name: "ZeroRequestStillOne", parallelism: 8, requested: 0, want: 1},
		{name: "DualCoreLeavesOneFree", parallelism: 2, requested: 2, want: 1},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			orch := pipeline.New(pipeline.WithParallelism(tc.parallelism))
			if got := orch.Workers(tc.requested); got != tc.want {
				t.Fatalf("Workers(%d) with parallelism %d = %d, want %d", tc.requested, tc.parallelism, got, tc.want)
			}
		})
	}
}

func TestRun_DefaultsSelectorsAndFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	orch := pipeline.New()

	result, err := orch.Run(context.Background(), pipeline.Request{
		Observations: "a.csv",
		Simulations:  "b.csv",
		Inputs:       "x.csv",
		Boundaries:   "y.csv",
		OutputDir:    dir,
		Iterations:   50,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Artifacts) != 1 || filepath.Base(result.Artifacts[0]) != "calibro_report.json" {
		t.Fatalf("default emission should be one json artifact: %v", result.Artifacts)
	}
	if result.Context.Name() != "myCalibration" {
		t.Fatalf("default run name: %q", result.Context.Name())
	}
}

func TestRun_VerbosityGatesNarrationOnly(t *testing.T) {
	t.Parallel()

	run := func(verbosity int) (string, error) {
		var buf bytes.Buffer
		orch := pipeline.New(pipeline.WithProgressWriter(&buf))
		_, err := orch.Run(context.Background(), pipeline.Request{
			Observations: "a.csv",
			Simulations:  "b.csv",
			Inputs:       "x.csv",
			Boundaries:   "y.csv",
			OutputDir:    t.TempDir(),
			Verbosity:    verbosity,
			Iterations:   50,
		})
		return buf.String(), err
	}

	silent, err := run(pipeline.VerbositySilent)
	if err != nil {
		t.Fatalf("silent run: %v", err)
	}
	if silent != "" {
		t.Fatalf("verbosity 0 must not narrate, got %q", silent)
	}

	narrated, err := run(pipeline.VerbositySummary)
	if err != nil {
		t.Fatalf("narrated run: %v", err)
	}
	for _, stage := range []string{"reduction", "sensitivity analysis", "factor retention", "surrogate specification", "training", "calibration"} {
		if !strings.Contains(narrated, stage) {
			t.Fatalf("narration missing stage %q:\n%s", stage, narrated)
		}
	}
}

func TestRun_NilContextRejected(t *testing.T) {
	t.Parallel()

	orch := pipeline.New()
	//nolint:staticcheck // deliberately exercising the nil-ctx guard
	if _, err := orch.Run(nil, pipeline.Request{}); err == nil {
		t.Fatal("expected error for nil context")
	}
}

type failingReducer struct {
	err error
}

func (f failingReducer) Reduce(context.Context, []engine.Dataset, engine.ReductionConfig) (*engine.ReductionResult, error) {
	return nil, f.err
}

type spyReducer struct {
	called *bool
}

func (s spyReducer) Reduce(context.Context, []engine.Dataset, engine.ReductionConfig) (*engine.ReductionResult, error) {
	*s.called = true
	return &engine.ReductionResult{Components: 1, Explained: []float64{1}}, nil
}

type spyTrainer struct {
	called *bool
}

func (s spyTrainer) Train(context.Context, []engine.Dataset, *engine.SurrogateSpec, engine.TrainingConfig) (*engine.TrainingResult, error) {
	*s.called = true
	return &engine.TrainingResult{Iterations: 1, Converged: true}, nil
}
