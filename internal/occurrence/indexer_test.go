package occurrence

import (
	"testing"

	"github.com/worksite/dowgen/internal/generator"
	"github.com/worksite/dowgen/internal/models"
)

func TestIndex_ResolvedAndMissing(t *testing.T) {
	tmpl := "Client: {{CLIENT}}\nAddress: {{ADDR}}"
	vars := []models.Variable{{Name: "CLIENT", Value: "Acme"}}
	doc, _ := generator.Generate(tmpl, vars)

	occs := Index(doc.Document, tmpl, vars)
	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %+v", occs)
	}

	if occs[0].VarName != "CLIENT" || occs[0].Missing {
		t.Errorf("first occurrence: %+v", occs[0])
	}
	if doc.Document[occs[0].Start:occs[0].End] != "Acme" {
		t.Errorf("range does not cover value: %+v", occs[0])
	}

	if occs[1].VarName != "ADDR" || !occs[1].Missing || occs[1].Value != "[ADDR]" {
		t.Errorf("second occurrence: %+v", occs[1])
	}
	if doc.Document[occs[1].Start:occs[1].End] != "[ADDR]" {
		t.Errorf("range does not cover marker: %+v", occs[1])
	}
}

func TestIndex_MultipleOccurrencesPerVariable(t *testing.T) {
	doc := "5 and 5"
	occs := Index(doc, "{{X}} and {{X}}", []models.Variable{{Name: "X", Value: "5"}})
	if len(occs) != 2 {
		t.Fatalf("got %+v", occs)
	}
	if occs[0].Start != 0 || occs[1].Start != 6 {
		t.Errorf("offsets: %+v", occs)
	}
}

func TestIndex_NonOverlapInvariant(t *testing.T) {
	// Both variables resolve to values containing "aa"; overlapping candidates
	// must be pruned so no two ranges intersect.
	tmpl := "{{A}} {{B}}"
	vars := []models.Variable{
		{Name: "A", Value: "aaa"},
		{Name: "B", Value: "aa"},
	}
	doc := "aaaaa"
	occs := Index(doc, tmpl, vars)
	for i := 0; i < len(occs); i++ {
		for j := i + 1; j < len(occs); j++ {
			a, b := occs[i], occs[j]
			if a.Start < b.End && b.Start < a.End {
				t.Errorf("ranges intersect: %+v and %+v", a, b)
			}
		}
	}
}

func TestIndex_EqualValuesEarliestPlaceholderWins(t *testing.T) {
	// Two variables with the same value: the deterministic rule is that the
	// placeholder appearing first in the template claims the earliest range.
	tmpl := "{{A}} vs {{B}}"
	vars := []models.Variable{
		{Name: "A", Value: "same"},
		{Name: "B", Value: "same"},
	}
	doc := "same vs same"
	occs := Index(doc, tmpl, vars)
	if len(occs) != 2 {
		t.Fatalf("got %+v", occs)
	}
	if occs[0].VarName != "A" || occs[0].Start != 0 {
		t.Errorf("first range: %+v", occs[0])
	}
	if occs[1].VarName != "A" || occs[1].Start != 8 {
		// "same" occurs twice; A is scanned first and claims both ranges.
		t.Errorf("second range: %+v", occs[1])
	}
}

func TestIndex_ExcludesUnscannableValues(t *testing.T) {
	tmpl := "{{A}} {{B}}"
	vars := []models.Variable{
		{Name: "A", Value: "[A]"}, // value equals its own bracket marker
		{Name: "B", Value: "ok"},
	}
	occs := Index("[A] ok", tmpl, vars)
	if len(occs) != 1 || occs[0].VarName != "B" {
		t.Errorf("got %+v", occs)
	}
}

func TestIndex_StableBetweenRenders(t *testing.T) {
	tmpl := "{{A}} {{B}} {{A}}"
	vars := []models.Variable{
		{Name: "A", Value: "north wing"},
		{Name: "B", Value: "wing"},
	}
	doc := "north wing wing north wing"
	first := Index(doc, tmpl, vars)
	second := Index(doc, tmpl, vars)
	if len(first) != len(second) {
		t.Fatalf("unstable count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
