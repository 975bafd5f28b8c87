// Package session owns the editing working copy and its save/generate lifecycle.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/worksite/dowgen/internal/generator"
	"github.com/worksite/dowgen/internal/models"
	"github.com/worksite/dowgen/internal/occurrence"
	"github.com/worksite/dowgen/internal/store"
	"github.com/worksite/dowgen/internal/template"
	"github.com/worksite/dowgen/internal/variables"
)

const (
	defaultAutosaveDelay = 800 * time.Millisecond
	defaultToastSuppress = time.Second
)

// ValidationError carries whole-set validation violations that blocked a save.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("variable set is invalid: %s", strings.Join(e.Violations, "; "))
}

// EditorSession holds the working copy of one project's variable set while it
// is being edited. All generation passes run over a snapshot taken under the
// lock, so concurrent edits never interleave into an in-flight pass. Edits
// schedule a single debounced autosave; a new edit resets the timer rather
// than scheduling a second one, and a manual save supersedes whatever is
// pending.
type EditorSession struct {
	projectID string
	templates store.TemplateStore
	varStore  store.VariableStore

	mu        sync.Mutex
	tmpl      string
	working   []models.Variable
	timer     *time.Timer
	lastToast time.Time
	closed    bool

	autosaveDelay time.Duration
	toastSuppress time.Duration
	now           func() time.Time
	notify        func(message string)
	logger        *zap.Logger
}

// Option configures an EditorSession.
type Option func(*EditorSession)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *EditorSession) { s.logger = l }
}

// WithAutosaveDelay overrides the autosave debounce delay.
func WithAutosaveDelay(d time.Duration) Option {
	return func(s *EditorSession) { s.autosaveDelay = d }
}

// WithToastSuppress overrides the save-toast suppression window.
func WithToastSuppress(d time.Duration) Option {
	return func(s *EditorSession) { s.toastSuppress = d }
}

// WithNotify sets the user notification callback (toasts).
func WithNotify(fn func(message string)) Option {
	return func(s *EditorSession) { s.notify = fn }
}

// WithClock overrides the clock (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(s *EditorSession) { s.now = now }
}

// NewEditorSession creates a session for projectID over the given stores.
// Call Load before editing.
func NewEditorSession(templates store.TemplateStore, varStore store.VariableStore, projectID string, opts ...Option) *EditorSession {
	s := &EditorSession{
		projectID:     projectID,
		templates:     templates,
		varStore:      varStore,
		autosaveDelay: defaultAutosaveDelay,
		toastSuppress: defaultToastSuppress,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the template and persisted variables and merges newly extracted
// placeholder names into the working copy. On a fetch failure any existing
// working copy is preserved so unsaved edits are not lost.
func (s *EditorSession) Load(ctx context.Context) error {
	tmpl, err := s.templates.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	persisted, err := s.varStore.FetchVariables(ctx, s.projectID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	merged := variables.Merge(persisted, template.Extract(tmpl))

	s.mu.Lock()
	s.tmpl = tmpl
	s.working = merged
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("session loaded",
			zap.String("project", s.projectID),
			zap.Int("variables", len(merged)),
		)
	}
	return nil
}

// ReloadTemplate re-fetches the template (e.g. after a watcher change event)
// and merges any new placeholder names into the working copy. Existing values
// are untouched.
func (s *EditorSession) ReloadTemplate(ctx context.Context) error {
	tmpl, err := s.templates.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("reload template: %w", err)
	}
	s.mu.Lock()
	s.tmpl = tmpl
	s.working = variables.Merge(s.working, template.Extract(tmpl))
	s.mu.Unlock()
	return nil
}

// Template returns the current template snapshot.
func (s *EditorSession) Template() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tmpl
}

// Variables returns a copy of the working set in template display order.
func (s *EditorSession) Variables() []models.Variable {
	s.mu.Lock()
	tmpl := s.tmpl
	working := models.CloneVariables(s.working)
	s.mu.Unlock()
	return variables.OrderByTemplate(working, template.Extract(tmpl))
}

// SetValue updates one variable's value. The per-kind value rule is applied
// first; a failing value blocks this field and nothing changes. A successful
// edit resets the autosave timer.
func (s *EditorSession) SetValue(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.working {
		if s.working[i].Name != name {
			continue
		}
		probe := s.working[i]
		probe.Value = value
		if err := variables.ValidateValue(probe); err != nil {
			return err
		}
		s.working[i].Value = value
		s.working[i].UpdatedAt = s.now()
		s.scheduleAutosaveLocked()
		return nil
	}
	return fmt.Errorf("no variable named %q", name)
}

// SetKind changes a variable's kind. The current value must satisfy the new
// kind's rule, otherwise the change is rejected.
func (s *EditorSession) SetKind(name string, kind models.Kind) error {
	if !models.ValidKind(kind) {
		return fmt.Errorf("unknown variable type %q", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.working {
		if s.working[i].Name != name {
			continue
		}
		probe := s.working[i]
		probe.Kind = kind
		if err := variables.ValidateValue(probe); err != nil {
			return fmt.Errorf("cannot change type: %w", err)
		}
		s.working[i].Kind = kind
		s.working[i].UpdatedAt = s.now()
		s.scheduleAutosaveLocked()
		return nil
	}
	return fmt.Errorf("no variable named %q", name)
}

// AddVariable appends a manually created variable with a fresh id.
func (s *EditorSession) AddVariable(name string, kind models.Kind) error {
	if !template.ValidName(name) {
		return fmt.Errorf("variable name %q must contain only A-Z, 0-9 and _", name)
	}
	if !models.ValidKind(kind) {
		kind = models.KindString
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.working {
		if v.Name == name {
			return fmt.Errorf("variable %q already exists", name)
		}
	}
	s.working = append(s.working, models.Variable{
		ID:   uuid.NewString(),
		Name: name,
		Kind: kind,
	})
	s.scheduleAutosaveLocked()
	return nil
}

// RemoveVariable deletes a variable from the working set.
func (s *EditorSession) RemoveVariable(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.working {
		if v.Name == name {
			s.working = append(s.working[:i], s.working[i+1:]...)
			s.scheduleAutosaveLocked()
			return nil
		}
	}
	return fmt.Errorf("no variable named %q", name)
}

// Save validates the whole working set and pushes it to the store
// (replace-all). Any pending autosave is superseded. Returns *ValidationError
// when violations block the save; the store is not called in that case.
func (s *EditorSession) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	working := models.CloneVariables(s.working)
	s.mu.Unlock()

	return s.save(ctx, working, false)
}

func (s *EditorSession) save(ctx context.Context, working []models.Variable, auto bool) error {
	if violations := variables.Validate(working); len(violations) > 0 {
		if auto {
			// Autosave quietly waits for the user to fix the set; the inline
			// per-field errors are already visible.
			if s.logger != nil {
				s.logger.Debug("autosave skipped, set invalid", zap.Strings("violations", violations))
			}
			return nil
		}
		return &ValidationError{Violations: violations}
	}

	if err := s.varStore.SaveVariables(ctx, s.projectID, working); err != nil {
		// Working copy is untouched; retry is the recovery path.
		return fmt.Errorf("save variables: %w", err)
	}

	s.mu.Lock()
	now := s.now()
	muted := !s.lastToast.IsZero() && now.Sub(s.lastToast) < s.toastSuppress
	if !muted {
		s.lastToast = now
	}
	notify := s.notify
	s.mu.Unlock()

	if notify != nil && !muted {
		if auto {
			notify("Changes saved automatically")
		} else {
			notify("Variables saved")
		}
	}
	return nil
}

// scheduleAutosaveLocked resets the single autosave timer. Caller holds s.mu.
func (s *EditorSession) scheduleAutosaveLocked() {
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.autosaveDelay, s.autosave)
}

func (s *EditorSession) autosave() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	working := models.CloneVariables(s.working)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.save(ctx, working, true); err != nil && s.logger != nil {
		s.logger.Warn("autosave failed", zap.Error(err))
	}
}

// Generate runs a substitution pass over a snapshot of the template and
// working set, and indexes variable occurrences for the interactive preview.
func (s *EditorSession) Generate(ctx context.Context) (models.GenerationResult, []models.VariableOccurrence, error) {
	if err := ctx.Err(); err != nil {
		return models.GenerationResult{}, nil, err
	}

	s.mu.Lock()
	tmpl := s.tmpl
	working := models.CloneVariables(s.working)
	s.mu.Unlock()

	res, err := generator.Generate(tmpl, working)
	if err != nil {
		// ErrNoTemplate still carries a renderable fixed document.
		return res, nil, err
	}
	occs := occurrence.Index(res.Document, tmpl, working)
	return res, occs, nil
}

// Close stops the autosave timer. Pending edits are abandoned, not flushed;
// navigating away does not trigger a save.
func (s *EditorSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
