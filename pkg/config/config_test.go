package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/calibro/calibrino/pkg/config"
)

const sampleConfig = `
name: office-block
algorithm: amt
verbosity: 2
cores: 4
seed: 99
results: [cal, sa, ret]
formats: [json, pdf]
outputDir: out
reduction:
  components: 3
  centered: true
sensitivity:
  order: total
  sampleSize: 512
retention:
  threshold: 0.1
  maxFactors: 5
surrogate:
  kernel: matern
  nugget: 0.01
training:
  maxIterations: 300
  tolerance: 1e-5
calibration:
  iterations: 2000
`

func TestParse_FullConfig(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(sampleConfig), "run.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Name != "office-block" || cfg.Algorithm != "amt" {
		t.Fatalf("identity fields: %+v", cfg)
	}
	if cfg.Verbosity == nil || *cfg.Verbosity != 2 {
		t.Fatalf("verbosity: %v", cfg.Verbosity)
	}
	if cfg.Cores == nil || *cfg.Cores != 4 {
		t.Fatalf("cores: %v", cfg.Cores)
	}
	if cfg.Seed == nil || *cfg.Seed != 99 {
		t.Fatalf("seed: %v", cfg.Seed)
	}
	if len(cfg.Results) != 3 || cfg.Results[2] != "ret" {
		t.Fatalf("results: %v", cfg.Results)
	}
	if cfg.Reduction.Components != 3 || !cfg.Reduction.Centered {
		t.Fatalf("reduction section: %+v", cfg.Reduction)
	}
	if cfg.Surrogate.Kernel != "matern" || cfg.Surrogate.Nugget != 0.01 {
		t.Fatalf("surrogate section: %+v", cfg.Surrogate)
	}
	if cfg.Calibration.Iterations != 2000 {
		t.Fatalf("calibration section: %+v", cfg.Calibration)
	}
}

func TestParse_UnknownKeysRejected(t *testing.T) {
	t.Parallel()

	if _, err := config.Parse([]byte("chains: 4\n"), "run.yaml"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestParse_EmptyFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(nil, "empty.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Name != "" || cfg.Verbosity != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoad_FromDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("name: from-disk\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "from-disk" {
		t.Fatalf("name: %q", cfg.Name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
