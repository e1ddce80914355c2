package policy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Constraint is one argument validation rule: a dotted field path, a
// human-readable description of the rule, and the predicate itself. The
// predicate receives the value found at the path and whether the path was
// present at all.
type Constraint struct {
	Field       string
	Description string
	Check       func(value any, present bool) bool
}

// Required builds a constraint that the field is present and non-null.
func Required(field string) Constraint {
	return Constraint{
		Field:       field,
		Description: "required",
		Check: func(v any, present bool) bool {
			return present && v != nil
		},
	}
}

// NonEmpty builds a constraint that the field is a non-empty string, array
// or object.
func NonEmpty(field string) Constraint {
	return Constraint{
		Field:       field,
		Description: "must not be empty",
		Check: func(v any, present bool) bool {
			if !present {
				return false
			}
			switch t := v.(type) {
			case string:
				return t != ""
			case []any:
				return len(t) > 0
			case map[string]any:
				return len(t) > 0
			default:
				return v != nil
			}
		},
	}
}

// Min builds a numeric lower-bound constraint (inclusive).
func Min(field string, bound float64) Constraint {
	return Constraint{
		Field:       field,
		Description: fmt.Sprintf("must be >= %v", bound),
		Check: func(v any, present bool) bool {
			n, ok := v.(float64)
			return present && ok && n >= bound
		},
	}
}

// Max builds a numeric upper-bound constraint (inclusive).
func Max(field string, bound float64) Constraint {
	return Constraint{
		Field:       field,
		Description: fmt.Sprintf("must be <= %v", bound),
		Check: func(v any, present bool) bool {
			n, ok := v.(float64)
			return present && ok && n <= bound
		},
	}
}

// validateArgs runs constraints in order against the decoded arguments and
// returns a ValidationError for the first failure. It never invokes the
// underlying call.
func validateArgs(args json.RawMessage, constraints []Constraint) error {
	if len(constraints) == 0 {
		return nil
	}
	fields := map[string]any{}
	if len(args) > 0 {
		// Non-object arguments leave the map empty; every path lookup
		// then reports absent.
		_ = json.Unmarshal(args, &fields)
	}
	for _, c := range constraints {
		v, present := lookupPath(fields, c.Field)
		if c.Check == nil || !c.Check(v, present) {
			return &ValidationError{Field: c.Field, Constraint: c.Description}
		}
	}
	return nil
}

// lookupPath resolves a dotted path like "user.name" inside nested objects.
func lookupPath(fields map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = fields
	for _, p := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
