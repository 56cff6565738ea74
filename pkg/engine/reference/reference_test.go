package reference_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calibro/calibrino/pkg/dataset"
	"github.com/calibro/calibrino/pkg/engine"
	"github.com/calibro/calibrino/pkg/engine/reference"
)

func TestEngine_LoadIsDeterministic(t *testing.T) {
	t.Parallel()

	eng := reference.New(42)
	binding := dataset.Binding{Name: "dataset-1", ObservationPath: "a.csv", SimulationPath: "b.csv"}

	first, err := eng.Load(context.Background(), binding)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := eng.Load(context.Background(), binding)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("loads differ (-first +second):\n%s", diff)
	}
	if len(first.Factors) == 0 || len(first.Input) == 0 {
		t.Fatalf("empty dataset: %+v", first.Binding)
	}
}

func TestEngine_LoadRejectsIncompleteBinding(t *testing.T) {
	t.Parallel()

	eng := reference.New(0)
	if _, err := eng.Load(context.Background(), dataset.Binding{Name: "dataset-1", ObservationPath: "a.csv"}); err == nil {
		t.Fatal("expected error for binding without simulation path")
	}
}

func TestEngine_FullStageChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng := reference.New(7)

	data := mustLoad(t, eng, "a.csv", "b.csv")

	reduction, err := eng.Reduce(ctx, data, engine.ReductionConfig{Components: 3})
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if !reduction.Ready() || len(reduction.Explained) != 3 {
		t.Fatalf("reduction not ready: %+v", reduction)
	}

	sensitivity, err := eng.Analyze(ctx, data, reduction, engine.SensitivityConfig{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	total := 0.0
	for _, fi := range sensitivity.Indices {
		total += fi.Index
	}
	if total < 0.999 || total > 1.001 {
		t.Fatalf("indices should normalise to 1, got %g", total)
	}

	retention, err := eng.Screen(ctx, sensitivity, engine.RetentionConfig{MaxFactors: 4})
	if err != nil {
		t.Fatalf("screen: %v", err)
	}
	if len(retention.Retained) == 0 || len(retention.Retained) > 4 {
		t.Fatalf("retention out of bounds: %+v", retention)
	}

	spec, err := eng.Specify(ctx, data, retention, engine.SurrogateConfig{Kernel: engine.KernelMatern})
	if err != nil {
		t.Fatalf("specify: %v", err)
	}
	if spec.KernelName != "matern" || len(spec.LengthScales) != len(spec.Factors) {
		t.Fatalf("bad spec: %+v", spec)
	}

	training, err := eng.Train(ctx, data, spec, engine.TrainingConfig{MaxIterations: 100, Tolerance: 1e-4})
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if !training.Converged {
		t.Fatalf("training should converge within 100 iterations: %+v", training)
	}

	calibration, err := eng.Sample(ctx, data, spec, training, engine.CalibrationConfig{Chains: 3, Iterations: 200, Seed: 11})
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(calibration.Chains) != 3 {
		t.Fatalf("want 3 chains, got %d", len(calibration.Chains))
	}
	if len(calibration.Estimates) != len(spec.Factors) {
		t.Fatalf("want one estimate per retained factor: %+v", calibration.Estimates)
	}
	if calibration.Algorithm != "amg" {
		t.Fatalf("default algorithm should be amg, got %q", calibration.Algorithm)
	}
}

func TestEngine_SampleIsDeterministicAcrossChainCounts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng := reference.New(5)
	data := mustLoad(t, eng, "x.csv", "y.csv")

	spec := &engine.SurrogateSpec{
		Kernel:       engine.KernelSquaredExponential,
		KernelName:   "squared-exponential",
		Factors:      []string{"factor-1", "factor-2"},
		LengthScales: []float64{1, 2},
	}
	training := &engine.TrainingResult{Iterations: 10, FinalLoss: 1e-7, Converged: true}
	cfg := engine.CalibrationConfig{Variant: engine.SamplerAMT, Chains: 4, Iterations: 100, Seed: 3}

	first, err := eng.Sample(ctx, data, spec, training, cfg)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	second, err := eng.Sample(ctx, data, spec, training, cfg)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("samples differ (-first +second):\n%s", diff)
	}
	if first.Algorithm != "amt" {
		t.Fatalf("want amt, got %q", first.Algorithm)
	}
}

func mustLoad(t *testing.T, eng *reference.Engine, obs, sim string) []engine.Dataset {
	t.Helper()

	bindings, err := dataset.Register(obs, sim, "input.csv", "bc.csv")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	data := make([]engine.Dataset, 0, len(bindings))
	for _, binding := range bindings {
		ds, err := eng.Load(context.Background(), binding)
		if err != nil {
			t.Fatalf("load %s: %v", binding.Name, err)
		}
		data = append(data, ds)
	}
	return data
}
