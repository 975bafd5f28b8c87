package variables

import (
	"fmt"
	"strconv"
	"time"

	"github.com/worksite/dowgen/internal/models"
)

// ValueRule validates a single variable value for one kind. Rules are applied
// per field at edit time; a failing field blocks its own save but does not
// invalidate the rest of the set.
type ValueRule interface {
	Kind() models.Kind
	// Validate returns nil when value is acceptable for this kind.
	// Blank values are acceptable for every kind (a blank value just means
	// the variable is still unresolved).
	Validate(value string) error
}

type stringRule struct{}

func (stringRule) Kind() models.Kind { return models.KindString }

func (stringRule) Validate(string) error { return nil }

type numberRule struct{}

func (numberRule) Kind() models.Kind { return models.KindNumber }

func (numberRule) Validate(value string) error {
	if value == "" {
		return nil
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("value %q is not a number", value)
	}
	if n < 0 {
		return fmt.Errorf("value %q must not be negative", value)
	}
	return nil
}

type dateRule struct{}

func (dateRule) Kind() models.Kind { return models.KindDate }

func (dateRule) Validate(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("value %q is not a date in YYYY-MM-DD form", value)
	}
	return nil
}

var rules = map[models.Kind]ValueRule{
	models.KindString: stringRule{},
	models.KindNumber: numberRule{},
	models.KindDate:   dateRule{},
}

// RuleFor returns the value rule for kind. Unknown kinds fall back to the
// string rule so stale persisted rows stay editable.
func RuleFor(kind models.Kind) ValueRule {
	if r, ok := rules[kind]; ok {
		return r
	}
	return stringRule{}
}

// ValidateValue applies the per-kind rule for v's kind to v's value.
func ValidateValue(v models.Variable) error {
	return RuleFor(v.Kind).Validate(v.Value)
}
