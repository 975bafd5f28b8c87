package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/worksite/dowgen/internal/models"
)

// renderPDF emits paragraphs onto A4 pages with fixed margins. Automatic page
// breaking is disabled; a new page is started whenever the next line would
// pass the content height, so pagination is fully determined by the layout.
func (e *Engine) renderPDF(ctx context.Context, paragraphs []Paragraph) (models.Artifact, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	margin := e.cfg.MarginMM
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageH := pdf.GetPageSize()
	contentBottom := pageH - margin
	lineHeight := e.cfg.FontSize * 0.42 // pt to mm with leading

	for pi, para := range paragraphs {
		if err := ctx.Err(); err != nil {
			return models.Artifact{}, err
		}
		if pi > 0 {
			pdf.Ln(lineHeight)
		}
		for _, line := range para.Lines {
			if pdf.GetY()+lineHeight > contentBottom {
				pdf.AddPage()
			}
			pdf.SetX(margin)
			for _, run := range line.Runs {
				style := ""
				if run.Bold {
					style = "B"
				}
				pdf.SetFont(e.cfg.FontFamily, style, e.cfg.FontSize)
				pdf.Write(lineHeight, tr(run.Text))
			}
			pdf.Ln(lineHeight)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return models.Artifact{}, fmt.Errorf("render PDF: %w", err)
	}
	return models.Artifact{
		Data:      buf.Bytes(),
		MediaType: "application/pdf",
		Ext:       ".pdf",
	}, nil
}
