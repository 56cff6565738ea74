package report

import "time"

// RunInfo is the report header shared by every format.
type RunInfo struct {
	Name        string    `json:"name" yaml:"name"`
	ID          string    `json:"id" yaml:"id"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`
}

// Payload flattens the report into a serialisable mapping holding exactly the
// requested sections plus the run header. Structured renderers (json, yaml)
// marshal this directly.
func (r *Report) Payload() map[string]any {
	out := map[string]any{
		"run": RunInfo{Name: r.RunName, ID: r.RunID, GeneratedAt: r.GeneratedAt},
	}
	for _, section := range r.Sections {
		out[section.Selector.Title()] = section.Result
	}
	if r.Datasets != nil {
		out[SelectorDatasets.Title()] = r.Datasets
	}
	return out
}
