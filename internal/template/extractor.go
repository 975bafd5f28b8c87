// Package template provides placeholder extraction from DOW markdown templates.
package template

import "regexp"

// placeholderRe matches {{NAME}} tokens. Names are uppercase A-Z, digits, and
// underscores only; anything else (lowercase letters, spaces, unmatched braces)
// is not a placeholder and stays literal text.
var placeholderRe = regexp.MustCompile(`\{\{([A-Z0-9_]+)\}\}`)

// Extract returns the distinct placeholder names in tmpl, ordered by first
// appearance. Pure function of the input; an empty or placeholder-free
// template yields an empty slice.
func Extract(tmpl string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// ExtractAll returns every placeholder occurrence in tmpl, repeats included,
// in document order. Used when the caller needs occurrence counts rather than
// identities.
func ExtractAll(tmpl string) []string {
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		names = append(names, m[1])
	}
	return names
}

// Placeholder returns the literal {{NAME}} token for a name.
func Placeholder(name string) string {
	return "{{" + name + "}}"
}

// ValidName reports whether name is a well-formed placeholder identifier.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

var nameRe = regexp.MustCompile(`^[A-Z0-9_]+$`)
