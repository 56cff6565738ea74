// Package config loads the optional yaml run-configuration file. File values
// fill in whatever the CLI flags left unset; flags always win. Unknown keys
// are rejected so typos fail loudly instead of silently running defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig mirrors the CLI surface plus the per-stage option records.
type RunConfig struct {
	Name      string   `yaml:"name"`
	Algorithm string   `yaml:"algorithm"`
	Verbosity *int     `yaml:"verbosity"`
	Cores     *int     `yaml:"cores"`
	Seed      *int64   `yaml:"seed"`
	Results   []string `yaml:"results"`
	Formats   []string `yaml:"formats"`
	OutputDir string   `yaml:"outputDir"`

	Reduction   ReductionSection   `yaml:"reduction"`
	Sensitivity SensitivitySection `yaml:"sensitivity"`
	Retention   RetentionSection   `yaml:"retention"`
	Surrogate   SurrogateSection   `yaml:"surrogate"`
	Training    TrainingSection    `yaml:"training"`
	Calibration CalibrationSection `yaml:"calibration"`
}

type ReductionSection struct {
	Components int  `yaml:"components"`
	Centered   bool `yaml:"centered"`
}

type SensitivitySection struct {
	Order      string `yaml:"order"`
	SampleSize int    `yaml:"sampleSize"`
}

type RetentionSection struct {
	Threshold  float64 `yaml:"threshold"`
	MaxFactors int     `yaml:"maxFactors"`
}

type SurrogateSection struct {
	Kernel string  `yaml:"kernel"`
	Nugget float64 `yaml:"nugget"`
}

type TrainingSection struct {
	MaxIterations int     `yaml:"maxIterations"`
	Tolerance     float64 `yaml:"tolerance"`
}

type CalibrationSection struct {
	Iterations int `yaml:"iterations"`
}

// Load reads and parses the file at path.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a yaml payload; name labels error messages.
func Parse(data []byte, name string) (*RunConfig, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg RunConfig
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &RunConfig{}, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}
	return &cfg, nil
}
