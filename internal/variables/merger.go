// Package variables provides merging, ordering, and validation of project variable sets.
package variables

import (
	"sort"

	"github.com/google/uuid"

	"github.com/worksite/dowgen/internal/models"
)

// Merge reconciles extracted placeholder names against an existing variable set.
// Every name not already present (by name) is appended as a fresh variable with
// an empty value and the string kind. Existing variables are never removed,
// reordered, or overwritten; calling Merge twice with the same inputs yields
// the same set by name and value.
func Merge(existing []models.Variable, extracted []string) []models.Variable {
	out := models.CloneVariables(existing)
	known := make(map[string]bool, len(existing))
	for _, v := range existing {
		known[v.Name] = true
	}
	for _, name := range extracted {
		if known[name] {
			continue
		}
		known[name] = true
		out = append(out, models.Variable{
			ID:   uuid.NewString(),
			Name: name,
			Kind: models.KindString,
		})
	}
	return out
}

// OrderByTemplate returns vars arranged for display: variables whose names
// appear in order come first, in that order; variables never referenced by the
// current template follow, sorted lexicographically by name. The input slice
// is not mutated.
func OrderByTemplate(vars []models.Variable, order []string) []models.Variable {
	rank := make(map[string]int, len(order))
	for i, name := range order {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}

	referenced := make([]models.Variable, 0, len(vars))
	var rest []models.Variable
	for _, v := range vars {
		if _, ok := rank[v.Name]; ok {
			referenced = append(referenced, v)
		} else {
			rest = append(rest, v)
		}
	}
	sort.SliceStable(referenced, func(i, j int) bool {
		return rank[referenced[i].Name] < rank[referenced[j].Name]
	})
	sort.Slice(rest, func(i, j int) bool { return rest[i].Name < rest[j].Name })

	return append(referenced, rest...)
}
