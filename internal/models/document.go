package models

// GenerationResult is the outcome of one substitution pass over a template.
// Document is the fully substituted text with cosmetic markdown stripped.
// Missing lists placeholder names whose resolved value was empty, in first
// appearance order with no duplicates. The result is recomputed on every
// template or variable change and never persisted.
type GenerationResult struct {
	Document string   `json:"document"`
	Missing  []string `json:"missing,omitempty"`
}

// VariableOccurrence is one resolved appearance of a variable's display value
// inside a generated document. Offsets are byte offsets, half-open [Start, End).
// Occurrences computed for one document never have intersecting ranges.
type VariableOccurrence struct {
	VarName string `json:"var_name"`
	Value   string `json:"value"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Missing bool   `json:"missing"`
}

// ExportMarker locates a variable span inside a paragraph during export so it
// can be re-rendered bold. Internal to the export pipeline; the legacy wire
// form of a marked span is __VAR_BOLD_<NAME>__.
type ExportMarker struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Value string `json:"value"`
	Name  string `json:"name"`
}

// Artifact is a single downloadable export result.
type Artifact struct {
	Data      []byte `json:"-"`
	MediaType string `json:"media_type"`
	Ext       string `json:"ext"`
}
