// Package store defines the persistence collaborators for templates and project variables.
package store

import (
	"context"

	"github.com/worksite/dowgen/internal/models"
)

// TemplateStore owns the DOW template blob. The engine treats fetched content
// as a read-only input for one generation pass.
type TemplateStore interface {
	// Fetch returns the current template markdown.
	Fetch(ctx context.Context) (string, error)
	// Upload replaces the template. Only .md uploads are accepted; content
	// must be UTF-8 markdown text.
	Upload(ctx context.Context, name string, data []byte) error
}

// VariableStore owns the persisted variable sets, keyed by project.
// SaveVariables replaces the whole set (not a patch); the engine pushes its
// full working copy back on save.
type VariableStore interface {
	FetchVariables(ctx context.Context, projectID string) ([]models.Variable, error)
	SaveVariables(ctx context.Context, projectID string, vars []models.Variable) error
	Close() error
}
