package htmlreport

import (
	"embed"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle for consumers that want to
// extend the default report page.
func TemplatesFS() embed.FS {
	return embeddedTemplates
}
