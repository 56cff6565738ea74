package yamlreport_test

import (
	"context"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calibro/calibrino/pkg/engine"
	"github.com/calibro/calibrino/pkg/report"
	"github.com/calibro/calibrino/pkg/reporters/yamlreport"
)

func TestRender_RoundTripsRequestedSections(t *testing.T) {
	t.Parallel()

	rep := &report.Report{
		RunName:     "office-block",
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Sections: []report.Section{
			{
				Selector: report.SelectorTraining,
				Result:   &engine.TrainingResult{Iterations: 42, FinalLoss: 1e-5, Converged: true},
			},
		},
	}

	out, err := yamlreport.New().Render(context.Background(), rep)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var payload map[string]any
	if err := yaml.Unmarshal(out, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := payload["training"]; !ok {
		t.Fatalf("training section missing: %v", payload)
	}
	if _, ok := payload["calibration"]; ok {
		t.Fatal("unrequested section present")
	}
}

func TestSupports_RejectsDatasetDump(t *testing.T) {
	t.Parallel()

	renderer := yamlreport.New()
	if renderer.Supports(report.SelectorDatasets) {
		t.Fatal("yaml must not accept the dataset dump")
	}
}
