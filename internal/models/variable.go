// Package models defines core data structures for variables, generated documents, and export artifacts.
package models

import "time"

// Kind is the value kind of a variable. It selects the input widget and the
// per-field value rule applied at edit time.
type Kind string

const (
	// KindString accepts any value.
	KindString Kind = "string"
	// KindNumber accepts a non-negative number or blank.
	KindNumber Kind = "number"
	// KindDate accepts YYYY-MM-DD or blank.
	KindDate Kind = "date"
)

// ValidKind reports whether k is one of the known kinds.
func ValidKind(k Kind) bool {
	switch k {
	case KindString, KindNumber, KindDate:
		return true
	}
	return false
}

// Variable is a named, typed value bound to a template placeholder for one project.
// Name matches ^[A-Z0-9_]+$ when non-empty and is unique within a project's set.
// ID is assigned at creation and stable across edits.
type Variable struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Value     string    `json:"value" db:"value"`
	Kind      Kind      `json:"type" db:"kind"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// CloneVariables returns a deep copy of vars. Generation passes operate on a
// snapshot so concurrent edits cannot interleave into an in-flight pass.
func CloneVariables(vars []Variable) []Variable {
	if vars == nil {
		return nil
	}
	out := make([]Variable, len(vars))
	copy(out, vars)
	return out
}
