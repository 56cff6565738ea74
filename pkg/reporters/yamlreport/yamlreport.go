// Package yamlreport renders the report as a yaml document for callers that
// post-process results in configuration tooling.
package yamlreport

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/calibro/calibrino/pkg/report"
)

type Renderer struct{}

// New constructs the yaml renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return "yaml"
}

func (r *Renderer) ContentType() string {
	return "application/yaml"
}

func (r *Renderer) Extension() string {
	return "yaml"
}

func (r *Renderer) Supports(sel report.Selector) bool {
	return sel != report.SelectorDatasets
}

func (r *Renderer) Render(_ context.Context, rep *report.Report) ([]byte, error) {
	data, err := yaml.Marshal(rep.Payload())
	if err != nil {
		return nil, fmt.Errorf("yamlreport: marshal report: %w", err)
	}
	return data, nil
}
