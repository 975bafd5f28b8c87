// Package readback pulls text and style information back out of exported
// artifacts. It exists so export output can be verified without opening Word
// or a PDF viewer; the CLI also uses it for `export -verify`.
package readback

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// docxDocumentXMLPath is the path to the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// wtTag matches <w:t>text</w:t> or <w:t xml:space="preserve">text</w:t> (and any other attributes).
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// runTag matches one <w:r>...</w:r> run including its properties.
var runTag = regexp.MustCompile(`(?s)<w:r[ >].*?</w:r>|<w:r>.*?</w:r>`)

// boldProp matches a bold run property inside run properties.
var boldProp = regexp.MustCompile(`<w:b\s*/>|<w:b\s+[^>]*/>|<w:b>`)

// DocxRun is one text run read back from a .docx artifact.
type DocxRun struct {
	Text string
	Bold bool
}

// DocxText extracts all text node content from .docx bytes, joined with
// spaces. DOCX is a ZIP containing word/document.xml; all <w:t> nodes are
// pulled regardless of paragraph or run attributes.
func DocxText(content []byte) (string, error) {
	docXML, err := docxDocumentXML(content)
	if err != nil {
		return "", err
	}
	parts := wtTag.FindAllStringSubmatch(string(docXML), -1)
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimSpace(p[1]))
	}
	return strings.TrimSpace(b.String()), nil
}

// DocxRuns returns every text run in document order with its bold flag.
func DocxRuns(content []byte) ([]DocxRun, error) {
	docXML, err := docxDocumentXML(content)
	if err != nil {
		return nil, err
	}
	var runs []DocxRun
	for _, raw := range runTag.FindAllString(string(docXML), -1) {
		texts := wtTag.FindAllStringSubmatch(raw, -1)
		if len(texts) == 0 {
			continue
		}
		var b strings.Builder
		for _, t := range texts {
			b.WriteString(t[1])
		}
		runs = append(runs, DocxRun{Text: b.String(), Bold: boldProp.MatchString(raw)})
	}
	return runs, nil
}

func docxDocumentXML(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("readback DOCX: not a zip: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != docxDocumentXMLPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("readback DOCX: open %s: %w", f.Name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("readback DOCX: read %s: %w", f.Name, err)
		}
		_ = rc.Close()
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("readback DOCX: %s not found", docxDocumentXMLPath)
}
