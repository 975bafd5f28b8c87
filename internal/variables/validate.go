package variables

import (
	"fmt"
	"sort"
	"strings"

	"github.com/worksite/dowgen/internal/models"
	"github.com/worksite/dowgen/internal/template"
)

// Validate checks the whole variable set before save and returns a list of
// human-readable violations; empty means valid. Rules: every variable has a
// non-blank name, names are unique after trimming, and non-blank names match
// ^[A-Z0-9_]+$. A save must not be attempted while violations remain.
func Validate(vars []models.Variable) []string {
	var violations []string

	blank := 0
	counts := make(map[string]int)
	var order []string
	for _, v := range vars {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			blank++
			continue
		}
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	if blank > 0 {
		violations = append(violations, fmt.Sprintf("%d variable(s) have a blank name", blank))
	}

	var dups []string
	for _, name := range order {
		if counts[name] > 1 {
			dups = append(dups, name)
		}
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		violations = append(violations, fmt.Sprintf("duplicate variable name(s): %s", strings.Join(dups, ", ")))
	}

	for _, name := range order {
		if !template.ValidName(name) {
			violations = append(violations, fmt.Sprintf("variable name %q must contain only A-Z, 0-9 and _", name))
		}
	}

	return violations
}

// ValidateAll runs whole-set validation plus the per-kind value rule for each
// variable. Used by the CLI validate command to report everything at once.
func ValidateAll(vars []models.Variable) []string {
	violations := Validate(vars)
	for _, v := range vars {
		if err := ValidateValue(v); err != nil {
			violations = append(violations, fmt.Sprintf("variable %s: %v", v.Name, err))
		}
	}
	return violations
}
