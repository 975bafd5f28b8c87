package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/worksite/dowgen/internal/config"
	"github.com/worksite/dowgen/internal/models"
)

// Format is an export target format.
type Format string

const (
	// FormatMarkdown is a byte-for-byte markdown passthrough.
	FormatMarkdown Format = "md"
	// FormatText is a byte-for-byte plain text passthrough.
	FormatText Format = "txt"
	// FormatPDF is paginated A4 output.
	FormatPDF Format = "pdf"
	// FormatDocx is a single-section Word document.
	FormatDocx Format = "docx"
	// FormatXlsx is the variable table as a spreadsheet (not a document render).
	FormatXlsx Format = "xlsx"
)

// ParseFormat validates a format string from the CLI.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatText, FormatPDF, FormatDocx, FormatXlsx:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q (md, txt, pdf, docx, xlsx)", s)
}

// Engine renders generated documents into downloadable artifacts. It never
// mutates its inputs; each call operates on local copies and produces one
// artifact or one error.
type Engine struct {
	cfg    config.ExportConfig
	logger *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an export engine with the given page settings.
func NewEngine(cfg config.ExportConfig, opts ...EngineOption) *Engine {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders document into the requested format. When boldVariables is
// true (pdf/docx only), resolved variable occurrences are emitted as bold
// runs. Any failure inside a backend, panics included, is caught here and
// returned as a single error with no partial artifact; the call is retryable.
func (e *Engine) Export(ctx context.Context, format Format, document string, vars []models.Variable, boldVariables bool) (art models.Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			art = models.Artifact{}
			err = fmt.Errorf("export as %s failed: %v", format, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return models.Artifact{}, err
	}

	if e.logger != nil {
		e.logger.Debug("exporting document",
			zap.String("format", string(format)),
			zap.Int("length", len(document)),
			zap.Bool("bold_variables", boldVariables),
		)
	}

	switch format {
	case FormatMarkdown:
		return models.Artifact{Data: []byte(document), MediaType: "text/markdown; charset=utf-8", Ext: ".md"}, nil
	case FormatText:
		return models.Artifact{Data: []byte(document), MediaType: "text/plain; charset=utf-8", Ext: ".txt"}, nil
	case FormatPDF, FormatDocx:
		var markers []models.ExportMarker
		if boldVariables {
			markers = Markers(document, vars)
		}
		paragraphs := Layout(document, markers)
		if err := ctx.Err(); err != nil {
			return models.Artifact{}, err
		}
		if format == FormatPDF {
			return e.renderPDF(ctx, paragraphs)
		}
		return e.renderDocx(ctx, paragraphs)
	case FormatXlsx:
		return e.renderVariablesXlsx(vars)
	default:
		return models.Artifact{}, fmt.Errorf("unknown export format %q", format)
	}
}
