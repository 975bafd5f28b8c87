// Package generator performs placeholder substitution to produce the rendered DOW document.
package generator

import (
	"errors"
	"strings"

	"github.com/worksite/dowgen/internal/models"
	"github.com/worksite/dowgen/internal/template"
)

// ErrNoTemplate is returned when the template is empty or unavailable. The
// result still carries NoContentDocument so callers always have something to
// render.
var ErrNoTemplate = errors.New("no template content")

// NoContentDocument is the fixed document produced when no template exists.
const NoContentDocument = "No description of work has been uploaded for this project."

// BracketForm returns the substitute text for an unresolved placeholder.
func BracketForm(name string) string {
	return "[" + name + "]"
}

// Generate substitutes every placeholder in tmpl with its variable's value.
// A variable counts as missing when it is absent from vars or its value is
// empty; missing placeholders are substituted with their bracket form and
// recorded in Missing (first-appearance order, no duplicates). Missing
// variables are the expected common case and never an error; only an empty
// template returns ErrNoTemplate.
func Generate(tmpl string, vars []models.Variable) (models.GenerationResult, error) {
	if strings.TrimSpace(tmpl) == "" {
		return models.GenerationResult{Document: NoContentDocument}, ErrNoTemplate
	}

	values := make(map[string]string, len(vars))
	for _, v := range vars {
		values[v.Name] = v.Value
	}

	doc := tmpl
	var missing []string
	for _, name := range template.Extract(tmpl) {
		value, ok := values[name]
		if !ok || value == "" {
			value = BracketForm(name)
			missing = append(missing, name)
		}
		doc = strings.ReplaceAll(doc, template.Placeholder(name), value)
	}

	return models.GenerationResult{
		Document: stripMarkdown(doc),
		Missing:  missing,
	}, nil
}

// stripMarkdown removes the two cosmetic markdown tokens from the rendered
// preview: leading heading markers and ** bold markers. The preview is plain
// prose, not markdown.
func stripMarkdown(doc string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, "#")
		if trimmed != line {
			lines[i] = strings.TrimLeft(trimmed, " ")
		}
	}
	return strings.ReplaceAll(strings.Join(lines, "\n"), "**", "")
}
