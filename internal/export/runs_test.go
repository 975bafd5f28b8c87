package export

import (
	"testing"

	"github.com/worksite/dowgen/internal/models"
)

func TestMarkers_LongestValueFirst(t *testing.T) {
	// "North Tower" contains "Tower"; the longer value must claim the range
	// so the shorter one cannot match inside it.
	vars := []models.Variable{
		{Name: "WING", Value: "Tower"},
		{Name: "SITE", Value: "North Tower"},
	}
	doc := "Works at North Tower near the Tower gate"
	markers := Markers(doc, vars)

	if len(markers) != 2 {
		t.Fatalf("markers: %+v", markers)
	}
	if markers[0].Name != "SITE" || doc[markers[0].Start:markers[0].End] != "North Tower" {
		t.Errorf("first marker: %+v", markers[0])
	}
	if markers[1].Name != "WING" || doc[markers[1].Start:markers[1].End] != "Tower" {
		t.Errorf("second marker: %+v", markers[1])
	}
}

func TestMarkers_SkipsMissingShapedValues(t *testing.T) {
	vars := []models.Variable{
		{Name: "A", Value: ""},
		{Name: "B", Value: "[B]"},
		{Name: "C", Value: "real"},
	}
	markers := Markers("[A] [B] real", vars)
	if len(markers) != 1 || markers[0].Name != "C" {
		t.Errorf("markers: %+v", markers)
	}
}

func TestLayout_ParagraphsAndLines(t *testing.T) {
	doc := "first line\nsecond line\n\nnext block"
	paras := Layout(doc, nil)
	if len(paras) != 2 {
		t.Fatalf("paragraphs: %+v", paras)
	}
	if len(paras[0].Lines) != 2 || len(paras[1].Lines) != 1 {
		t.Errorf("lines: %+v", paras)
	}
	if paras[0].Lines[0].Runs[0].Text != "first line" {
		t.Errorf("run: %+v", paras[0].Lines[0])
	}
}

func TestLayout_SplitsRunsAtMarkerBoundaries(t *testing.T) {
	doc := "Client: Acme here"
	markers := Markers(doc, []models.Variable{{Name: "CLIENT", Value: "Acme"}})
	paras := Layout(doc, markers)

	runs := paras[0].Lines[0].Runs
	if len(runs) != 3 {
		t.Fatalf("runs: %+v", runs)
	}
	if runs[0].Text != "Client: " || runs[0].Bold {
		t.Errorf("run 0: %+v", runs[0])
	}
	if runs[1].Text != "Acme" || !runs[1].Bold {
		t.Errorf("run 1: %+v", runs[1])
	}
	if runs[2].Text != " here" || runs[2].Bold {
		t.Errorf("run 2: %+v", runs[2])
	}
}

func TestLayout_IndentBecomesNonBreaking(t *testing.T) {
	paras := Layout("a  b c", nil)
	got := paras[0].Lines[0].Runs[0].Text
	if got != "a\u00A0\u00A0b c" {
		t.Errorf("got %q", got)
	}
}

func TestPreserveIndent_SingleSpacesUntouched(t *testing.T) {
	if preserveIndent("a b c") != "a b c" {
		t.Error("single spaces must stay ordinary")
	}
	if preserveIndent("    x") != "\u00A0\u00A0\u00A0\u00A0x" {
		t.Errorf("got %q", preserveIndent("    x"))
	}
}
