package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/calibro/calibrino/pkg/calibration"
	"github.com/calibro/calibrino/pkg/dataset"
	"github.com/calibro/calibrino/pkg/engine"
)

// Selector names one result set a report can include.
type Selector string

const (
	SelectorCalibration Selector = "cal"
	SelectorSensitivity Selector = "sa"
	SelectorRetention   Selector = "ret"
	SelectorTraining    Selector = "train"
	SelectorDatasets    Selector = "ds"
)

// ParseSelector validates a raw CLI selector token.
func ParseSelector(raw string) (Selector, error) {
	switch Selector(raw) {
	case SelectorCalibration, SelectorSensitivity, SelectorRetention, SelectorTraining, SelectorDatasets:
		return Selector(raw), nil
	default:
		return "", fmt.Errorf("report: unknown result selector %q", raw)
	}
}

// Title returns the canonical section name used as the artifact key.
func (s Selector) Title() string {
	switch s {
	case SelectorCalibration:
		return "calibration"
	case SelectorSensitivity:
		return "sensitivity"
	case SelectorRetention:
		return "retention"
	case SelectorTraining:
		return "training"
	case SelectorDatasets:
		return "datasets"
	default:
		return string(s)
	}
}

// stage maps a result selector onto the pipeline stage that populates it.
// SelectorDatasets has no stage; bindings exist from context construction.
func (s Selector) stage() (calibration.Stage, bool) {
	switch s {
	case SelectorCalibration:
		return calibration.StageCalibration, true
	case SelectorSensitivity:
		return calibration.StageSensitivity, true
	case SelectorRetention:
		return calibration.StageRetention, true
	case SelectorTraining:
		return calibration.StageTraining, true
	default:
		return 0, false
	}
}

// SelectionError reports a selector that cannot be satisfied: either its
// stage has not completed or no requested format can carry it.
type SelectionError struct {
	Selector Selector
	// Stage is set when the selector's stage slot is unpopulated.
	Stage calibration.Stage
	// Format holds the requested format list when none of it can carry the
	// selector.
	Format string
}

func (e *SelectionError) Error() string {
	switch {
	case strings.Contains(e.Format, ","):
		return fmt.Sprintf("report: selector %q is not supported by any requested format (%s)", e.Selector, e.Format)
	case e.Format != "":
		return fmt.Sprintf("report: selector %q is not supported by the %s format", e.Selector, e.Format)
	default:
		return fmt.Sprintf("report: selector %q requires a completed %s stage", e.Selector, e.Stage)
	}
}

// Section is one selected result set inside a report.
type Section struct {
	Selector Selector
	Result   engine.Result
}

// Report is the read-only artifact source handed to renderers. It holds
// exactly the requested, populated selections and never more.
type Report struct {
	RunName     string
	RunID       string
	GeneratedAt time.Time
	Sections    []Section
	// Datasets is populated only when SelectorDatasets was requested.
	Datasets []dataset.Binding
}

// Selected reports whether the given selector is part of this report.
func (r *Report) Selected(sel Selector) bool {
	if sel == SelectorDatasets {
		return r.Datasets != nil
	}
	for _, section := range r.Sections {
		if section.Selector == sel {
			return true
		}
	}
	return false
}

// selectors returns the requested selectors in section order, with the
// dataset dump last when present.
func (r *Report) selectors() []Selector {
	out := make([]Selector, 0, len(r.Sections)+1)
	for _, section := range r.Sections {
		out = append(out, section.Selector)
	}
	if r.Datasets != nil {
		out = append(out, SelectorDatasets)
	}
	return out
}

// forFormat returns the view of the report the renderer can carry. Selections
// the format does not support are dropped from the view; the emitter has
// already checked that some requested format carries each of them.
func (r *Report) forFormat(renderer Renderer) *Report {
	full := true
	for _, sel := range r.selectors() {
		if !renderer.Supports(sel) {
			full = false
			break
		}
	}
	if full {
		return r
	}

	view := &Report{RunName: r.RunName, RunID: r.RunID, GeneratedAt: r.GeneratedAt}
	for _, section := range r.Sections {
		if renderer.Supports(section.Selector) {
			view.Sections = append(view.Sections, section)
		}
	}
	if r.Datasets != nil && renderer.Supports(SelectorDatasets) {
		view.Datasets = r.Datasets
	}
	return view
}

// Build assembles a report from the context for the requested selectors,
// preserving request order. Unpopulated selections fail with SelectionError.
func Build(runCtx *calibration.Context, selectors []Selector) (*Report, error) {
	rep := &Report{
		RunName:     runCtx.Name(),
		RunID:       runCtx.ID(),
		GeneratedAt: time.Now().UTC(),
	}

	for _, sel := range selectors {
		if sel == SelectorDatasets {
			rep.Datasets = runCtx.Bindings()
			continue
		}
		stage, ok := sel.stage()
		if !ok {
			return nil, fmt.Errorf("report: unknown result selector %q", sel)
		}
		result, populated := runCtx.Result(stage)
		if !populated {
			return nil, &SelectionError{Selector: sel, Stage: stage}
		}
		rep.Sections = append(rep.Sections, Section{Selector: sel, Result: result})
	}
	return rep, nil
}
