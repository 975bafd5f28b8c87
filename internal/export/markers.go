// Package export renders a generated document into downloadable file formats.
package export

import (
	"sort"
	"strings"

	"github.com/worksite/dowgen/internal/generator"
	"github.com/worksite/dowgen/internal/models"
)

// Markers locates every resolved (non-missing) variable occurrence in
// document, for bold-run rendering. Variables are processed longest value
// first so a shorter value never claims ground inside a longer one, and the
// claimed ranges never overlap. Values that are empty or spell their own
// bracket placeholder are skipped.
func Markers(document string, vars []models.Variable) []models.ExportMarker {
	ordered := models.CloneVariables(vars)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Value) > len(ordered[j].Value)
	})

	var markers []models.ExportMarker
	for _, v := range ordered {
		if v.Value == "" || v.Value == generator.BracketForm(v.Name) {
			continue
		}
		from := 0
		for {
			i := strings.Index(document[from:], v.Value)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(v.Value)
			from = end
			if intersectsAny(markers, start, end) {
				continue
			}
			markers = append(markers, models.ExportMarker{
				Start: start,
				End:   end,
				Value: v.Value,
				Name:  v.Name,
			})
		}
	}

	sort.Slice(markers, func(i, j int) bool { return markers[i].Start < markers[j].Start })
	return markers
}

func intersectsAny(markers []models.ExportMarker, start, end int) bool {
	for _, m := range markers {
		if start < m.End && m.Start < end {
			return true
		}
	}
	return false
}
