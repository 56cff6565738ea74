package report

import "context"

// Renderer serialises a report into one output format.
type Renderer interface {
	Name() string
	ContentType() string
	// Extension is the artifact filename suffix, without the dot.
	Extension() string
	// Supports reports whether this format can carry the given selector.
	// The dataset dump is machine-oriented and only the json renderer
	// accepts it.
	Supports(sel Selector) bool
	Render(ctx context.Context, rep *Report) ([]byte, error)
}
