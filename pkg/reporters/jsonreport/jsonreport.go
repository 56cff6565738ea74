// Package jsonreport renders the machine-readable report consumed by the
// calibro platform front end. It is the only format that accepts the dataset
// dump selector.
package jsonreport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calibro/calibrino/pkg/report"
)

type Renderer struct{}

// New constructs the json renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Extension() string {
	return "json"
}

func (r *Renderer) Supports(report.Selector) bool {
	return true
}

func (r *Renderer) Render(_ context.Context, rep *report.Report) ([]byte, error) {
	data, err := json.MarshalIndent(rep.Payload(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("jsonreport: marshal report: %w", err)
	}
	return append(data, '\n'), nil
}
