package session

import (
	"context"
	"testing"

	"github.com/worksite/dowgen/internal/config"
	"github.com/worksite/dowgen/internal/export"
)

func newTestExporter() *Exporter {
	var cfg config.Config
	config.ApplyDefaults(&cfg)
	return NewExporter(export.NewEngine(cfg.Export))
}

func TestExporter_Export(t *testing.T) {
	e := newTestExporter()
	art, err := e.Export(context.Background(), export.FormatMarkdown, "content", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(art.Data) != "content" {
		t.Errorf("got %q", art.Data)
	}
}

func TestExporter_SequentialExportsBothSucceed(t *testing.T) {
	e := newTestExporter()
	for i := 0; i < 3; i++ {
		if _, err := e.Export(context.Background(), export.FormatText, "doc", nil, false); err != nil {
			t.Fatalf("export %d: %v", i, err)
		}
	}
}

func TestExporter_AbortThenExport(t *testing.T) {
	e := newTestExporter()
	e.Abort() // no-op when nothing in flight
	if _, err := e.Export(context.Background(), export.FormatText, "doc", nil, false); err != nil {
		t.Fatal(err)
	}
}
