package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// FSTemplateStore keeps the template as a markdown file on disk.
type FSTemplateStore struct {
	path string
}

// NewFSTemplateStore creates a template store backed by the file at path.
// The file may not exist yet; Fetch then reports no content.
func NewFSTemplateStore(path string) *FSTemplateStore {
	return &FSTemplateStore{path: path}
}

// Path returns the template file location (watched for changes by the session).
func (s *FSTemplateStore) Path() string {
	return s.path
}

// Fetch returns the current template markdown. A missing file yields an empty
// template and no error; the generator turns that into its fixed no-content
// document.
func (s *FSTemplateStore) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch template: %w", err)
	}
	return string(data), nil
}

// Upload replaces the stored template. name is the uploaded filename; only
// .md files with valid UTF-8 content are accepted.
func (s *FSTemplateStore) Upload(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ToLower(filepath.Ext(name)) != ".md" {
		return fmt.Errorf("upload template: only .md files are accepted, got %q", name)
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("upload template: content is not valid UTF-8")
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("upload template: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("upload template: %w", err)
	}
	return nil
}
