package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BaseName is the fixed artifact stem the platform front end expects;
// artifacts become <dir>/calibro_report.<ext>.
const BaseName = "calibro_report"

// Emitter writes one artifact per requested format into a directory.
type Emitter struct {
	registry *Registry
	dir      string
}

// NewEmitter builds an emitter over the given registry. An empty dir means
// the current working directory.
func NewEmitter(registry *Registry, dir string) *Emitter {
	if dir == "" {
		dir = "."
	}
	return &Emitter{registry: registry, dir: dir}
}

// Emit renders the report in each requested format and writes the artifacts,
// returning their paths in request order. A format that cannot carry a
// selection renders its artifact without it; the request fails, before
// anything is written, only when a selection would land in no artifact at
// all.
func (e *Emitter) Emit(ctx context.Context, rep *Report, formats []string) ([]string, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("report: no output formats requested")
	}

	renderers := make([]Renderer, 0, len(formats))
	for _, format := range formats {
		renderer, err := e.registry.Get(format)
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, renderer)
	}

	for _, sel := range rep.selectors() {
		carried := false
		for _, renderer := range renderers {
			if renderer.Supports(sel) {
				carried = true
				break
			}
		}
		if !carried {
			return nil, &SelectionError{Selector: sel, Format: strings.Join(formats, ",")}
		}
	}

	paths := make([]string, 0, len(renderers))
	for _, renderer := range renderers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		artifact, err := renderer.Render(ctx, rep.forFormat(renderer))
		if err != nil {
			return nil, fmt.Errorf("report: render %s artifact: %w", renderer.Name(), err)
		}
		path := filepath.Join(e.dir, BaseName+"."+renderer.Extension())
		if err := os.WriteFile(path, artifact, 0o644); err != nil {
			return nil, fmt.Errorf("report: write %s artifact: %w", renderer.Name(), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
