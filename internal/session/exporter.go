package session

import (
	"context"
	"sync"

	"github.com/worksite/dowgen/internal/export"
	"github.com/worksite/dowgen/internal/models"
)

// Exporter serializes export requests for one editor. Initiating a new export
// while one is in flight abandons the stale one (its context is cancelled);
// exports are never queued.
type Exporter struct {
	engine *export.Engine

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewExporter wraps an export engine with single-flight cancellation.
func NewExporter(engine *export.Engine) *Exporter {
	return &Exporter{engine: engine}
}

// Export renders document in the requested format, cancelling any export
// already in flight for this editor.
func (e *Exporter) Export(ctx context.Context, format export.Format, document string, vars []models.Variable, boldVariables bool) (models.Artifact, error) {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	e.gen++
	myGen := e.gen
	e.cancel = cancel
	e.mu.Unlock()

	defer func() {
		cancel()
		e.mu.Lock()
		// Only clear the slot if a newer export has not replaced it.
		if e.gen == myGen {
			e.cancel = nil
		}
		e.mu.Unlock()
	}()

	return e.engine.Export(ctx, format, document, models.CloneVariables(vars), boldVariables)
}

// Abort cancels any in-flight export (e.g. on navigation away).
func (e *Exporter) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
