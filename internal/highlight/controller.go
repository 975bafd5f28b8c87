// Package highlight holds the single-selection state behind the interactive preview.
package highlight

import (
	"sync"
	"time"
)

const defaultClickDebounce = 300 * time.Millisecond

// Controller tracks which variable is highlighted in the preview. At most one
// variable is highlighted at a time; clicking a variable selects it and clears
// any other selection, and re-clicking the same variable keeps it selected.
// Clicks arriving within the debounce window of the last accepted click are
// ignored to absorb duplicate event delivery from overlapping preview regions.
type Controller struct {
	mu        sync.Mutex
	selected  string
	lastClick time.Time
	debounce  time.Duration
	now       func() time.Time
	onChange  func(name string)
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce overrides the click debounce window.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithClock overrides the clock (useful for tests). The clock only needs to be
// monotonic; wall accuracy does not matter.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithOnChange sets a callback invoked whenever the selection actually
// changes. The callback receives the newly selected variable name.
func WithOnChange(fn func(name string)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// NewController creates a controller with nothing selected.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		debounce: defaultClickDebounce,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Toggle handles a click on name. Returns true when the click was accepted
// (not debounced). The caller pairs an accepted selection with opening the
// value editor for that variable; the controller holds no editing state.
func (c *Controller) Toggle(name string) bool {
	c.mu.Lock()
	now := c.now()
	if !c.lastClick.IsZero() && now.Sub(c.lastClick) < c.debounce {
		c.mu.Unlock()
		return false
	}
	c.lastClick = now
	changed := c.selected != name
	c.selected = name
	onChange := c.onChange
	c.mu.Unlock()

	if changed && onChange != nil {
		onChange(name)
	}
	return true
}

// Clear drops any selection. Not debounced; used when the editor closes.
func (c *Controller) Clear() {
	c.mu.Lock()
	changed := c.selected != ""
	c.selected = ""
	onChange := c.onChange
	c.mu.Unlock()

	if changed && onChange != nil {
		onChange("")
	}
}

// Selected returns the currently highlighted variable name, or "" when none.
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// IsSelected reports whether name is the highlighted variable.
func (c *Controller) IsSelected(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected == name
}

// Highlighted returns the highlight flag for every name in names. Exactly one
// entry is true when a selection exists and appears in names.
func (c *Controller) Highlighted(names []string) map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = n == c.selected
	}
	return out
}
