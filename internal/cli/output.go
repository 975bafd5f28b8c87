// Package cli provides output writers for dowgen commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/worksite/dowgen/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one entry per line, for piping.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates an output format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputCompact, OutputJSON:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
}

// generationOutput is the JSON shape of a generation pass.
type generationOutput struct {
	Document    string                      `json:"document"`
	Missing     []string                    `json:"missing,omitempty"`
	Occurrences []models.VariableOccurrence `json:"occurrences,omitempty"`
}

// WriteGeneration writes a generation result to w in the given format.
func WriteGeneration(w io.Writer, res models.GenerationResult, occs []models.VariableOccurrence, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(generationOutput{Document: res.Document, Missing: res.Missing, Occurrences: occs})
	case OutputCompact:
		fmt.Fprintln(w, res.Document)
		return nil
	default:
		fmt.Fprintln(w, res.Document)
		if len(res.Missing) > 0 {
			fmt.Fprintf(w, "\n%d variable(s) still need a value:\n", len(res.Missing))
			for _, name := range res.Missing {
				fmt.Fprintf(w, "  - %s\n", name)
			}
		}
		return nil
	}
}

// WriteVariables writes a variable table to w in the given format.
func WriteVariables(w io.Writer, vars []models.Variable, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(vars)
	case OutputCompact:
		for _, v := range vars {
			fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.Kind, v.Value)
		}
		return nil
	default:
		if len(vars) == 0 {
			fmt.Fprintln(w, "No variables.")
			return nil
		}
		for _, v := range vars {
			value := v.Value
			if value == "" {
				value = "(empty)"
			}
			fmt.Fprintf(w, "%-24s %-8s %s\n", v.Name, v.Kind, Truncate(value, 60))
		}
		return nil
	}
}

// WriteViolations writes validation violations to w; a valid set prints a
// confirmation instead.
func WriteViolations(w io.Writer, violations []string, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Valid      bool     `json:"valid"`
			Violations []string `json:"violations,omitempty"`
		}{Valid: len(violations) == 0, Violations: violations})
	}
	if len(violations) == 0 {
		fmt.Fprintln(w, "Variable set is valid.")
		return nil
	}
	for _, v := range violations {
		fmt.Fprintf(w, "  - %s\n", v)
	}
	return nil
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
