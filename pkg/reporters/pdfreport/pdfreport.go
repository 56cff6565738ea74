// Package pdfreport renders the printable summary document the calibro
// platform attaches to finished jobs.
package pdfreport

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/calibro/calibrino/pkg/report"
)

const summaryLines = 16

type Renderer struct{}

// New constructs the pdf renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return "pdf"
}

func (r *Renderer) ContentType() string {
	return "application/pdf"
}

func (r *Renderer) Extension() string {
	return "pdf"
}

func (r *Renderer) Supports(sel report.Selector) bool {
	return sel != report.SelectorDatasets
}

func (r *Renderer) Render(ctx context.Context, rep *report.Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(rep.RunName+" calibration report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, rep.RunName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, fmt.Sprintf("run %s, generated %s", rep.RunID, rep.GeneratedAt.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, section := range rep.Sections {
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 9, section.Selector.Title(), "B", 1, "L", false, 0, "")
		pdf.SetFont("Courier", "", 9)
		for _, line := range section.Result.Summary(summaryLines) {
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdfreport: write document: %w", err)
	}
	return buf.Bytes(), nil
}
