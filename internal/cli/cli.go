// Package cli canonicalises the calibrino command line into a pipeline
// request. Parsing, config-file merging, and the citation/version early
// exits all happen here so main stays a thin boundary.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/calibro/calibrino/pkg/config"
	"github.com/calibro/calibrino/pkg/dataset"
	"github.com/calibro/calibrino/pkg/engine"
	"github.com/calibro/calibrino/pkg/pipeline"
	"github.com/calibro/calibrino/pkg/report"
)

// Version is the release identifier printed by --version.
const Version = "1.0.2"

// Citation is printed by --citation for users referencing the tool.
const Citation = `If calibrino contributes to published work, please cite:

  Energy Systems Research Unit (2017). Calibro: automated Bayesian
  calibration of building performance simulation models.
  University of Strathclyde, Glasgow.`

// Exit codes at the process boundary.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// UsageError is a pre-pipeline argument problem; it carries the exit code
// main should use.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// Invocation is the canonical form of one command line.
type Invocation struct {
	Name         string
	Observations string
	Simulations  string
	Inputs       string
	Boundaries   string
	Algorithm    string
	Results      string
	Formats      string
	Verbosity    int
	Cores        int
	Seed         int64
	OutputDir    string
	ConfigPath   string
	Citation     bool
	Version      bool
	Interactive  bool

	set map[string]bool
}

// Parse reads the argument list. It returns a UsageError for malformed
// flags; required-value validation happens later in BuildRequest so the
// citation/version modes stay infallible.
func Parse(args []string, errW io.Writer) (*Invocation, error) {
	inv := &Invocation{set: make(map[string]bool)}

	fs := flag.NewFlagSet("calibrino", flag.ContinueOnError)
	fs.SetOutput(errW)

	stringVar := func(p *string, short, long, value, usage string) {
		fs.StringVar(p, short, value, usage)
		fs.StringVar(p, long, value, usage)
	}
	intVar := func(p *int, short, long string, value int, usage string) {
		fs.IntVar(p, short, value, usage)
		fs.IntVar(p, long, value, usage)
	}

	stringVar(&inv.Name, "c", "cal", "myCalibration", "calibration run name")
	stringVar(&inv.Observations, "o", "obs", "", "comma-separated observation file paths")
	stringVar(&inv.Simulations, "s", "sim", "", "comma-separated simulation file paths")
	stringVar(&inv.Inputs, "i", "input", "", "comma-separated input file paths")
	stringVar(&inv.Boundaries, "b", "bc", "", "comma-separated boundary-condition file paths")
	stringVar(&inv.Algorithm, "a", "alg", "amg", "calibration sampling algorithm (amg or amt)")
	stringVar(&inv.Results, "r", "res", "cal", "comma-separated result selectors (cal,sa,ret,train,ds)")
	stringVar(&inv.Formats, "f", "fmt", "json", "comma-separated output formats (json,yaml,html,pdf)")
	intVar(&inv.Verbosity, "v", "vrb", 1, "verbosity level 0-3")
	intVar(&inv.Cores, "n", "ncores", 1, "requested sampler chain count")
	fs.Int64Var(&inv.Seed, "seed", 0, "sampler random seed")
	fs.StringVar(&inv.OutputDir, "out", "", "artifact output directory")
	fs.StringVar(&inv.ConfigPath, "config", "", "yaml run-configuration file")
	fs.BoolVar(&inv.Citation, "citation", false, "print citation text and exit")
	fs.BoolVar(&inv.Version, "version", false, "print version and exit")
	fs.BoolVar(&inv.Interactive, "interactive", false, "prompt for missing required paths")

	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{Message: err.Error()}
	}
	fs.Visit(func(f *flag.Flag) {
		inv.set[canonicalFlag(f.Name)] = true
	})
	return inv, nil
}

// canonicalFlag folds the short alias onto its long name so config merging
// only checks one key per option.
func canonicalFlag(name string) string {
	switch name {
	case "c":
		return "cal"
	case "o":
		return "obs"
	case "s":
		return "sim"
	case "i":
		return "input"
	case "b":
		return "bc"
	case "a":
		return "alg"
	case "r":
		return "res"
	case "f":
		return "fmt"
	case "v":
		return "vrb"
	case "n":
		return "ncores"
	default:
		return name
	}
}

// Flagged reports whether the option was set explicitly on the command line.
func (inv *Invocation) Flagged(name string) bool {
	return inv.set[name]
}

// ApplyConfig fills in options the command line left unset from the run
// configuration file. Flags always win.
func (inv *Invocation) ApplyConfig(cfg *config.RunConfig) {
	if cfg == nil {
		return
	}
	if !inv.Flagged("cal") && cfg.Name != "" {
		inv.Name = cfg.Name
	}
	if !inv.Flagged("alg") && cfg.Algorithm != "" {
		inv.Algorithm = cfg.Algorithm
	}
	if !inv.Flagged("vrb") && cfg.Verbosity != nil {
		inv.Verbosity = *cfg.Verbosity
	}
	if !inv.Flagged("ncores") && cfg.Cores != nil {
		inv.Cores = *cfg.Cores
	}
	if !inv.Flagged("seed") && cfg.Seed != nil {
		inv.Seed = *cfg.Seed
	}
	if !inv.Flagged("res") && len(cfg.Results) > 0 {
		inv.Results = strings.Join(cfg.Results, ",")
	}
	if !inv.Flagged("fmt") && len(cfg.Formats) > 0 {
		inv.Formats = strings.Join(cfg.Formats, ",")
	}
	if !inv.Flagged("out") && cfg.OutputDir != "" {
		inv.OutputDir = cfg.OutputDir
	}
}

// BuildRequest validates the invocation and assembles the pipeline request.
// The cfg argument supplies per-stage option records; nil means defaults.
func (inv *Invocation) BuildRequest(cfg *config.RunConfig) (pipeline.Request, error) {
	var missing []string
	for _, required := range []struct {
		name  string
		value string
	}{
		{"observation (-o/--obs)", inv.Observations},
		{"simulation (-s/--sim)", inv.Simulations},
		{"input (-i/--input)", inv.Inputs},
		{"boundary condition (-b/--bc)", inv.Boundaries},
	} {
		if strings.TrimSpace(required.value) == "" {
			missing = append(missing, required.name)
		}
	}
	if len(missing) > 0 {
		return pipeline.Request{}, &UsageError{
			Message: fmt.Sprintf("missing required file paths: %s", strings.Join(missing, ", ")),
		}
	}

	if inv.Verbosity < pipeline.VerbositySilent || inv.Verbosity > pipeline.VerbosityDetail {
		return pipeline.Request{}, &UsageError{
			Message: fmt.Sprintf("verbosity must be 0-3, got %d", inv.Verbosity),
		}
	}

	variant, err := engine.ParseSamplerVariant(inv.Algorithm)
	if err != nil {
		return pipeline.Request{}, &UsageError{Message: err.Error()}
	}

	selectors, err := parseSelectors(inv.Results)
	if err != nil {
		return pipeline.Request{}, &UsageError{Message: err.Error()}
	}

	req := pipeline.Request{
		Name:         inv.Name,
		Observations: inv.Observations,
		Simulations:  inv.Simulations,
		Inputs:       inv.Inputs,
		Boundaries:   inv.Boundaries,
		Selectors:    selectors,
		Formats:      splitList(inv.Formats),
		OutputDir:    inv.OutputDir,
		Verbosity:    inv.Verbosity,
		Cores:        inv.Cores,
		Algorithm:    variant,
		Seed:         inv.Seed,
	}
	if err := applyStageSections(&req, cfg); err != nil {
		return pipeline.Request{}, &UsageError{Message: err.Error()}
	}
	return req, nil
}

func applyStageSections(req *pipeline.Request, cfg *config.RunConfig) error {
	if cfg == nil {
		return nil
	}
	req.Reduction = engine.ReductionConfig{
		Components: cfg.Reduction.Components,
		Centered:   cfg.Reduction.Centered,
	}
	order, err := engine.ParseSensitivityOrder(cfg.Sensitivity.Order)
	if err != nil {
		return err
	}
	req.Sensitivity = engine.SensitivityConfig{
		Order:      order,
		SampleSize: cfg.Sensitivity.SampleSize,
	}
	req.Retention = engine.RetentionConfig{
		Threshold:  cfg.Retention.Threshold,
		MaxFactors: cfg.Retention.MaxFactors,
	}
	kernel, err := engine.ParseKernel(cfg.Surrogate.Kernel)
	if err != nil {
		return err
	}
	req.Surrogate = engine.SurrogateConfig{
		Kernel: kernel,
		Nugget: cfg.Surrogate.Nugget,
	}
	req.Training = engine.TrainingConfig{
		MaxIterations: cfg.Training.MaxIterations,
		Tolerance:     cfg.Training.Tolerance,
	}
	req.Iterations = cfg.Calibration.Iterations
	return nil
}

func parseSelectors(raw string) ([]report.Selector, error) {
	tokens := splitList(raw)
	selectors := make([]report.Selector, 0, len(tokens))
	for _, token := range tokens {
		sel, err := report.ParseSelector(token)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}

func splitList(raw string) []string {
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

// Execute runs the full command: early-exit modes first, then config merge,
// interactive fill-in, and the pipeline itself. It returns the process exit
// code.
func Execute(ctx context.Context, inv *Invocation, stdout, stderr io.Writer, prompter Prompter) int {
	if inv.Citation {
		fmt.Fprintln(stdout, Citation)
		return ExitOK
	}
	if inv.Version {
		fmt.Fprintln(stdout, "calibrino "+Version)
		return ExitOK
	}

	var cfg *config.RunConfig
	if inv.ConfigPath != "" {
		loaded, err := config.Load(inv.ConfigPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		cfg = loaded
		inv.ApplyConfig(cfg)
	}

	if inv.Interactive && prompter != nil {
		if err := promptMissing(ctx, inv, prompter); err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
	}

	req, err := inv.BuildRequest(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	orch := pipeline.New(pipeline.WithProgressWriter(stdout))
	result, err := orch.Run(ctx, req)
	if err != nil {
		fmt.Fprintln(stderr, err)
		var arityErr *dataset.ArityError
		if errors.As(err, &arityErr) {
			return ExitUsage
		}
		return ExitError
	}

	for _, artifact := range result.Artifacts {
		fmt.Fprintln(stdout, artifact)
	}
	return ExitOK
}
