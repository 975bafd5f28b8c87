package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fumiama/go-docx"

	"github.com/worksite/dowgen/internal/models"
)

// renderDocx emits a single-section Word document. Each source line becomes a
// paragraph of styled runs; blank-line block boundaries are kept as empty
// paragraphs so the block structure survives round-tripping.
func (e *Engine) renderDocx(ctx context.Context, paragraphs []Paragraph) (models.Artifact, error) {
	doc := docx.New().WithDefaultTheme()

	for pi, para := range paragraphs {
		if err := ctx.Err(); err != nil {
			return models.Artifact{}, err
		}
		if pi > 0 {
			doc.AddParagraph()
		}
		for _, line := range para.Lines {
			p := doc.AddParagraph()
			for _, run := range line.Runs {
				r := p.AddText(run.Text)
				if run.Bold {
					r.Bold()
				}
			}
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return models.Artifact{}, fmt.Errorf("render DOCX: %w", err)
	}
	return models.Artifact{
		Data:      buf.Bytes(),
		MediaType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Ext:       ".docx",
	}, nil
}
