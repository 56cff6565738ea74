package report_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calibro/calibrino/pkg/report"
)

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string                  { return s.name }
func (s stubRenderer) ContentType() string           { return "text/plain" }
func (s stubRenderer) Extension() string             { return s.name }
func (s stubRenderer) Supports(report.Selector) bool { return true }
func (s stubRenderer) Render(context.Context, *report.Report) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry_DuplicateRegistrationFails(t *testing.T) {
	t.Parallel()

	registry := report.NewRegistry()
	if err := registry.Register(stubRenderer{name: "json"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "json"}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestRegistry_RejectsNilAndUnnamed(t *testing.T) {
	t.Parallel()

	registry := report.NewRegistry()
	if err := registry.Register(nil); err == nil {
		t.Fatal("expected error for nil renderer")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatal("expected error for unnamed renderer")
	}
}

func TestRegistry_ListIsSorted(t *testing.T) {
	t.Parallel()

	registry := report.NewRegistry()
	for _, name := range []string{"pdf", "html", "json", "yaml"} {
		registry.MustRegister(stubRenderer{name: name})
	}

	want := []string{"html", "json", "pdf", "yaml"}
	if diff := cmp.Diff(want, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("pdf") || registry.Has("xml") {
		t.Fatal("Has answered wrong")
	}
	if _, err := registry.Get("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
