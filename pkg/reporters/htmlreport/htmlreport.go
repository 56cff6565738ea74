// Package htmlreport renders a human-readable summary page. The run name is
// user-supplied and flows through a bluemonday policy before interpolation;
// visual tokens can come from a go-theme renderer configuration.
package htmlreport

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/calibro/calibrino/pkg/report"
)

const (
	templateName = "templates/report.html.tpl"
	summaryLines = 16
)

// Option configures the html renderer before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	theme     *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTheme applies a resolved go-theme renderer configuration; its tokens
// become CSS custom properties on the report page.
func WithTheme(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = themeCfg
	}
}

// WithEngineOptions accepts go-template engine options for callers sharing
// engine configuration with other renderers. The embedded pongo2 set ignores
// them today.
func WithEngineOptions(_ ...gotemplatepkg.Option) Option {
	return func(*config) {}
}

type Renderer struct {
	template *pongo2.Template
	theme    *theme.RendererConfig
	policy   *bluemonday.Policy
}

// New constructs the html renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templates: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	set := pongo2.NewSet("calibrino", pongo2.NewFSLoader(cfg.templates))
	tpl, err := set.FromFile(templateName)
	if err != nil {
		return nil, fmt.Errorf("htmlreport: load template: %w", err)
	}

	return &Renderer{
		template: tpl,
		theme:    cfg.theme,
		policy:   bluemonday.StrictPolicy(),
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Extension() string {
	return "html"
}

func (r *Renderer) Supports(sel report.Selector) bool {
	return sel != report.SelectorDatasets
}

type sectionView struct {
	Title string
	Lines []string
}

func (r *Renderer) Render(ctx context.Context, rep *report.Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sections := make([]sectionView, 0, len(rep.Sections))
	for _, section := range rep.Sections {
		sections = append(sections, sectionView{
			Title: section.Selector.Title(),
			Lines: section.Result.Summary(summaryLines),
		})
	}

	out, err := r.template.Execute(pongo2.Context{
		"runName":     r.policy.Sanitize(rep.RunName),
		"runID":       rep.RunID,
		"generatedAt": rep.GeneratedAt.Format("2006-01-02 15:04 MST"),
		"sections":    sections,
		"themeStyle":  cssVarsStyle(r.theme),
	})
	if err != nil {
		return nil, fmt.Errorf("htmlreport: execute template: %w", err)
	}
	return []byte(out), nil
}

func cssVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(cfg.CSSVars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
