// Package occurrence locates variable values inside a generated document for click-to-edit highlighting.
package occurrence

import (
	"sort"
	"strings"

	"github.com/worksite/dowgen/internal/generator"
	"github.com/worksite/dowgen/internal/models"
	"github.com/worksite/dowgen/internal/template"
)

// candidate is an occurrence before overlap resolution. priority is the
// position of the owning placeholder in template first-appearance order; when
// two variables resolve to the same substring at the same offset, the earlier
// placeholder claims it.
type candidate struct {
	occ      models.VariableOccurrence
	priority int
}

// Index finds every position in document where a placeholder's resolved
// display value occurs. The display value is the variable's value, or the
// bracket form [NAME] when the variable is missing (those occurrences are
// classified Missing). Entries whose character ranges intersect an
// already-claimed range are dropped, earliest start first, so the returned
// ranges are pairwise disjoint and stable between renders.
func Index(document, tmpl string, vars []models.Variable) []models.VariableOccurrence {
	values := make(map[string]string, len(vars))
	for _, v := range vars {
		values[v.Name] = v.Value
	}

	var candidates []candidate
	for prio, name := range template.Extract(tmpl) {
		value, ok := values[name]
		missing := !ok || value == ""
		if missing {
			value = generator.BracketForm(name)
		} else if value == generator.BracketForm(name) {
			// A resolved value that spells its own placeholder marker is
			// indistinguishable from a missing marker; nothing to click.
			continue
		}
		for _, start := range scan(document, value) {
			candidates = append(candidates, candidate{
				occ: models.VariableOccurrence{
					VarName: name,
					Value:   value,
					Start:   start,
					End:     start + len(value),
					Missing: missing,
				},
				priority: prio,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].occ.Start != candidates[j].occ.Start {
			return candidates[i].occ.Start < candidates[j].occ.Start
		}
		return candidates[i].priority < candidates[j].priority
	})

	var out []models.VariableOccurrence
	claimed := -1 // end of the last claimed range
	for _, c := range candidates {
		if c.occ.Start < claimed {
			continue
		}
		out = append(out, c.occ)
		claimed = c.occ.End
	}
	return out
}

// scan returns the start offsets of every non-overlapping, left-to-right
// occurrence of value in document. Empty values yield nothing.
func scan(document, value string) []int {
	if value == "" {
		return nil
	}
	var starts []int
	from := 0
	for {
		i := strings.Index(document[from:], value)
		if i < 0 {
			return starts
		}
		start := from + i
		starts = append(starts, start)
		from = start + len(value)
	}
}
