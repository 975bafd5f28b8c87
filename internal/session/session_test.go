package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/worksite/dowgen/internal/generator"
	"github.com/worksite/dowgen/internal/models"
)

// memTemplateStore is an in-memory TemplateStore for tests.
type memTemplateStore struct {
	mu      sync.Mutex
	content string
	err     error
}

func (m *memTemplateStore) Fetch(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content, m.err
}

func (m *memTemplateStore) Upload(_ context.Context, _ string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = string(data)
	return nil
}

// memVarStore is an in-memory VariableStore recording save calls.
type memVarStore struct {
	mu    sync.Mutex
	sets  map[string][]models.Variable
	saves int
	err   error
}

func newMemVarStore() *memVarStore {
	return &memVarStore{sets: make(map[string][]models.Variable)}
}

func (m *memVarStore) FetchVariables(_ context.Context, projectID string) ([]models.Variable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneVariables(m.sets[projectID]), m.err
}

func (m *memVarStore) SaveVariables(_ context.Context, projectID string, vars []models.Variable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sets[projectID] = models.CloneVariables(vars)
	m.saves++
	return nil
}

func (m *memVarStore) Close() error { return nil }

func (m *memVarStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func TestSession_LoadMergesTemplateNames(t *testing.T) {
	ts := &memTemplateStore{content: "Client: {{CLIENT}} at {{ADDR}}"}
	vs := newMemVarStore()
	vs.sets["p1"] = []models.Variable{{ID: "1", Name: "CLIENT", Value: "Acme"}}

	s := NewEditorSession(ts, vs, "p1")
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	vars := s.Variables()
	if len(vars) != 2 {
		t.Fatalf("got %+v", vars)
	}
	if vars[0].Name != "CLIENT" || vars[0].Value != "Acme" {
		t.Errorf("existing value lost: %+v", vars[0])
	}
	if vars[1].Name != "ADDR" || vars[1].Value != "" {
		t.Errorf("merged variable: %+v", vars[1])
	}
}

func TestSession_GenerateSnapshot(t *testing.T) {
	ts := &memTemplateStore{content: "Client: {{CLIENT}}\nAddress: {{ADDR}}"}
	vs := newMemVarStore()
	s := NewEditorSession(ts, vs, "p1", WithAutosaveDelay(time.Hour))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.SetValue("CLIENT", "Acme"); err != nil {
		t.Fatal(err)
	}

	res, occs, err := s.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Document != "Client: Acme\nAddress: [ADDR]" {
		t.Errorf("document: %q", res.Document)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "ADDR" {
		t.Errorf("missing: %v", res.Missing)
	}
	if len(occs) != 2 {
		t.Errorf("occurrences: %+v", occs)
	}
}

func TestSession_GenerateNoTemplate(t *testing.T) {
	s := NewEditorSession(&memTemplateStore{}, newMemVarStore(), "p1")
	defer s.Close()
	_ = s.Load(context.Background())

	res, _, err := s.Generate(context.Background())
	if !errors.Is(err, generator.ErrNoTemplate) {
		t.Errorf("err = %v", err)
	}
	if res.Document != generator.NoContentDocument {
		t.Errorf("document: %q", res.Document)
	}
}

func TestSession_AutosaveDebounce(t *testing.T) {
	ts := &memTemplateStore{content: "{{A}}"}
	vs := newMemVarStore()
	s := NewEditorSession(ts, vs, "p1", WithAutosaveDelay(60*time.Millisecond))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Rapid edits must collapse into a single autosave.
	for i := 0; i < 5; i++ {
		if err := s.SetValue("A", "v"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for vs.saveCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)
	if got := vs.saveCount(); got != 1 {
		t.Errorf("expected exactly one autosave, got %d", got)
	}
}

func TestSession_ManualSaveSupersedesAutosave(t *testing.T) {
	ts := &memTemplateStore{content: "{{A}}"}
	vs := newMemVarStore()
	s := NewEditorSession(ts, vs, "p1", WithAutosaveDelay(80*time.Millisecond))
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.SetValue("A", "v"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := vs.saveCount(); got != 1 {
		t.Fatalf("manual save should have run once, got %d", got)
	}

	// The pending autosave was superseded; no second save fires.
	time.Sleep(250 * time.Millisecond)
	if got := vs.saveCount(); got != 1 {
		t.Errorf("superseded autosave still fired: %d saves", got)
	}
}

func TestSession_SaveBlockedByValidation(t *testing.T) {
	ts := &memTemplateStore{content: ""}
	vs := newMemVarStore()
	s := NewEditorSession(ts, vs, "p1", WithAutosaveDelay(time.Hour))
	defer s.Close()
	_ = s.Load(context.Background())
	if err := s.AddVariable("GOOD", models.KindString); err != nil {
		t.Fatal(err)
	}
	if err := s.AddVariable("GOOD2", models.KindString); err != nil {
		t.Fatal(err)
	}

	// Force a duplicate through two sessions' merge path: simulate by naming
	// collision rejection instead.
	if err := s.AddVariable("GOOD", models.KindString); err == nil {
		t.Error("duplicate AddVariable should be rejected")
	}

	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("valid set should save: %v", err)
	}
}

func TestSession_PerFieldRuleBlocksEdit(t *testing.T) {
	ts := &memTemplateStore{content: "{{QTY}}"}
	vs := newMemVarStore()
	s := NewEditorSession(ts, vs, "p1", WithAutosaveDelay(time.Hour))
	defer s.Close()
	_ = s.Load(context.Background())
	if err := s.SetKind("QTY", models.KindNumber); err != nil {
		t.Fatal(err)
	}

	if err := s.SetValue("QTY", "not a number"); err == nil {
		t.Fatal("number rule should reject the value")
	}
	if err := s.SetValue("QTY", "-3"); err == nil {
		t.Fatal("negative number should be rejected")
	}
	if err := s.SetValue("QTY", "14"); err != nil {
		t.Fatal(err)
	}

	vars := s.Variables()
	if vars[0].Value != "14" {
		t.Errorf("value: %+v", vars[0])
	}
}

func TestSession_PersistenceErrorPreservesWorkingCopy(t *testing.T) {
	ts := &memTemplateStore{content: "{{A}}"}
	vs := newMemVarStore()
	s := NewEditorSession(ts, vs, "p1", WithAutosaveDelay(time.Hour))
	defer s.Close()
	_ = s.Load(context.Background())
	_ = s.SetValue("A", "kept")

	vs.mu.Lock()
	vs.err = errors.New("store down")
	vs.mu.Unlock()

	if err := s.Save(context.Background()); err == nil {
		t.Fatal("expected persistence error")
	}
	if got := s.Variables()[0].Value; got != "kept" {
		t.Errorf("working copy lost after failed save: %q", got)
	}

	vs.mu.Lock()
	vs.err = nil
	vs.mu.Unlock()
	if err := s.Save(context.Background()); err != nil {
		t.Errorf("retry should succeed: %v", err)
	}
}

func TestSession_ToastSuppressionWindow(t *testing.T) {
	ts := &memTemplateStore{content: "{{A}}"}
	vs := newMemVarStore()

	var toasts []string
	var mu sync.Mutex
	clock := time.Unix(5000, 0)
	s := NewEditorSession(ts, vs, "p1",
		WithAutosaveDelay(time.Hour),
		WithToastSuppress(time.Second),
		WithClock(func() time.Time { return clock }),
		WithNotify(func(msg string) {
			mu.Lock()
			toasts = append(toasts, msg)
			mu.Unlock()
		}),
	)
	defer s.Close()
	_ = s.Load(context.Background())
	_ = s.SetValue("A", "v")

	if err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Second save inside the 1s window: no second toast.
	clock = clock.Add(400 * time.Millisecond)
	if err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Past the window: toast again.
	clock = clock.Add(2 * time.Second)
	if err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(toasts) != 2 {
		t.Errorf("toasts: %v", toasts)
	}
}

func TestSession_ReloadTemplateKeepsValues(t *testing.T) {
	ts := &memTemplateStore{content: "{{A}}"}
	vs := newMemVarStore()
	s := NewEditorSession(ts, vs, "p1", WithAutosaveDelay(time.Hour))
	defer s.Close()
	_ = s.Load(context.Background())
	_ = s.SetValue("A", "kept")

	ts.mu.Lock()
	ts.content = "{{A}} {{B}}"
	ts.mu.Unlock()

	if err := s.ReloadTemplate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Template() != "{{A}} {{B}}" {
		t.Errorf("template snapshot not refreshed: %q", s.Template())
	}
	vars := s.Variables()
	if len(vars) != 2 {
		t.Fatalf("got %+v", vars)
	}
	if vars[0].Value != "kept" {
		t.Errorf("value lost on reload: %+v", vars[0])
	}
}
