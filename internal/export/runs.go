package export

import (
	"strings"

	"github.com/worksite/dowgen/internal/models"
)

// Run is one styled stretch of text within a line.
type Run struct {
	Text string
	Bold bool
}

// Line is a sequence of alternating plain/bold runs. Lines within a paragraph
// are rendered with soft breaks.
type Line struct {
	Runs []Run
}

// Paragraph is a block of lines separated from its neighbours by a blank line
// in the source document.
type Paragraph struct {
	Lines []Line
}

// Layout partitions document into paragraphs, lines, and styled runs. When
// markers is non-empty, text covered by a marker becomes a bold run; runs of
// two or more spaces are converted to non-breaking spaces so indentation
// survives proportional fonts. Markers must be non-overlapping and sorted by
// start offset (as produced by Markers).
func Layout(document string, markers []models.ExportMarker) []Paragraph {
	var paragraphs []Paragraph
	var current []Line

	offset := 0
	for _, raw := range strings.Split(document, "\n") {
		lineStart := offset
		offset += len(raw) + 1 // the split newline

		if strings.TrimSpace(raw) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, Paragraph{Lines: current})
				current = nil
			}
			continue
		}
		current = append(current, splitLine(raw, lineStart, markers))
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, Paragraph{Lines: current})
	}
	return paragraphs
}

// splitLine partitions one line into runs at marker boundaries. lineStart is
// the line's byte offset within the whole document.
func splitLine(line string, lineStart int, markers []models.ExportMarker) Line {
	lineEnd := lineStart + len(line)
	var runs []Run
	pos := lineStart

	for _, m := range markers {
		if m.End <= pos || m.Start >= lineEnd {
			continue
		}
		start, end := m.Start, m.End
		if start < pos {
			start = pos
		}
		if end > lineEnd {
			end = lineEnd
		}
		if start > pos {
			runs = appendRun(runs, line[pos-lineStart:start-lineStart], false)
		}
		runs = appendRun(runs, line[start-lineStart:end-lineStart], true)
		pos = end
	}
	if pos < lineEnd {
		runs = appendRun(runs, line[pos-lineStart:], false)
	}
	return Line{Runs: runs}
}

func appendRun(runs []Run, text string, bold bool) []Run {
	if text == "" {
		return runs
	}
	return append(runs, Run{Text: preserveIndent(text), Bold: bold})
}

// preserveIndent rewrites every run of 2+ spaces as non-breaking spaces.
// Single spaces stay ordinary so normal word wrapping is unaffected.
func preserveIndent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] != ' ' {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == ' ' {
			j++
		}
		if j-i >= 2 {
			for k := i; k < j; k++ {
				b.WriteRune('\u00A0')
			}
		} else {
			b.WriteByte(' ')
		}
		i = j
	}
	return b.String()
}
