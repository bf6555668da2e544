package metadata

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BoundaryMode selects whether a numeric bound admits the bound itself.
type BoundaryMode string

const (
	Inclusive BoundaryMode = "inclusive"
	Exclusive BoundaryMode = "exclusive"
)

// ConstraintKind identifies a constraint variant. The identifiers follow the
// JSON Schema keyword names.
type ConstraintKind string

const (
	ConstraintPattern   ConstraintKind = "pattern"
	ConstraintMinLength ConstraintKind = "minLength"
	ConstraintMaxLength ConstraintKind = "maxLength"
	ConstraintMinimum   ConstraintKind = "minimum"
	ConstraintMaximum   ConstraintKind = "maximum"
	ConstraintRequired  ConstraintKind = "required"
	ConstraintEnum      ConstraintKind = "enum"
)

// Constraint is the closed set of validation rules attached to a DataType.
// Only the variants declared in this package implement it.
type Constraint interface {
	Kind() ConstraintKind
	String() string
	sealed()
}

// Pattern requires string values to match a RE2 regular expression.
type Pattern struct {
	Expr string
}

// NewPattern validates expr with Go's regexp engine.
func NewPattern(expr string) (Pattern, error) {
	if _, err := regexp.Compile(expr); err != nil {
		return Pattern{}, fmt.Errorf("metadata: invalid pattern %q: %w", expr, err)
	}
	return Pattern{Expr: expr}, nil
}

func (Pattern) Kind() ConstraintKind { return ConstraintPattern }
func (c Pattern) String() string     { return "pattern(" + strconv.Quote(c.Expr) + ")" }
func (Pattern) sealed()              {}

// MinimumLength bounds the length of strings (in runes) or byte values.
type MinimumLength struct {
	N int
}

// ErrNegativeLength is returned for length constraints below zero.
var ErrNegativeLength = errors.New("metadata: length constraint must be >= 0")

// NewMinimumLength rejects n < 0.
func NewMinimumLength(n int) (MinimumLength, error) {
	if n < 0 {
		return MinimumLength{}, fmt.Errorf("%w: minLength %d", ErrNegativeLength, n)
	}
	return MinimumLength{N: n}, nil
}

func (MinimumLength) Kind() ConstraintKind { return ConstraintMinLength }
func (c MinimumLength) String() string     { return "minLength(" + strconv.Itoa(c.N) + ")" }
func (MinimumLength) sealed()              {}

// MaximumLength bounds the length of strings (in runes) or byte values.
type MaximumLength struct {
	N int
}

// NewMaximumLength rejects n < 0.
func NewMaximumLength(n int) (MaximumLength, error) {
	if n < 0 {
		return MaximumLength{}, fmt.Errorf("%w: maxLength %d", ErrNegativeLength, n)
	}
	return MaximumLength{N: n}, nil
}

func (MaximumLength) Kind() ConstraintKind { return ConstraintMaxLength }
func (c MaximumLength) String() string     { return "maxLength(" + strconv.Itoa(c.N) + ")" }
func (MaximumLength) sealed()              {}

// Minimum is a lower numeric bound.
type Minimum struct {
	Value float64
	Mode  BoundaryMode
}

func (Minimum) Kind() ConstraintKind { return ConstraintMinimum }
func (c Minimum) String() string {
	return "minimum(" + FormatNumber(c.Value) + ", " + string(c.modeOrDefault()) + ")"
}
func (Minimum) sealed() {}

// Exclusive reports whether the bound itself is rejected.
func (c Minimum) Exclusive() bool { return c.Mode == Exclusive }

func (c Minimum) modeOrDefault() BoundaryMode {
	if c.Mode == "" {
		return Inclusive
	}
	return c.Mode
}

// Maximum is an upper numeric bound.
type Maximum struct {
	Value float64
	Mode  BoundaryMode
}

func (Maximum) Kind() ConstraintKind { return ConstraintMaximum }
func (c Maximum) String() string {
	return "maximum(" + FormatNumber(c.Value) + ", " + string(c.modeOrDefault()) + ")"
}
func (Maximum) sealed() {}

// Exclusive reports whether the bound itself is rejected.
func (c Maximum) Exclusive() bool { return c.Mode == Exclusive }

func (c Maximum) modeOrDefault() BoundaryMode {
	if c.Mode == "" {
		return Inclusive
	}
	return c.Mode
}

// Required rejects the zero value of the kind.
type Required struct{}

func (Required) Kind() ConstraintKind { return ConstraintRequired }
func (Required) String() string       { return "required" }
func (Required) sealed()              {}

// Enum restricts values to a fixed set.
type Enum struct {
	Values []any
}

func (Enum) Kind() ConstraintKind { return ConstraintEnum }
func (c Enum) String() string {
	parts := make([]string, 0, len(c.Values))
	for _, value := range c.Values {
		parts = append(parts, fmt.Sprint(value))
	}
	return "enum(" + strings.Join(parts, ", ") + ")"
}
func (Enum) sealed() {}

// FormatNumber renders a float without a trailing ".0" for integral values.
func FormatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Unsatisfiable reports a human-readable reason when the constraint set can
// never be satisfied (e.g. minLength greater than maxLength). It returns ""
// when no conflict is detected.
func Unsatisfiable(constraints []Constraint) string {
	var (
		minLen, maxLen = -1, -1
		lower, upper   *float64
		lowerX, upperX bool
	)
	for _, c := range constraints {
		switch v := c.(type) {
		case MinimumLength:
			if v.N > minLen {
				minLen = v.N
			}
		case MaximumLength:
			if maxLen < 0 || v.N < maxLen {
				maxLen = v.N
			}
		case Minimum:
			value := v.Value
			lower, lowerX = &value, v.Exclusive()
		case Maximum:
			value := v.Value
			upper, upperX = &value, v.Exclusive()
		case Enum:
			if len(v.Values) == 0 {
				return "enum has no allowed values"
			}
		}
	}
	if minLen >= 0 && maxLen >= 0 && minLen > maxLen {
		return fmt.Sprintf("minLength %d exceeds maxLength %d", minLen, maxLen)
	}
	if lower != nil && upper != nil {
		if *lower > *upper || (*lower == *upper && (lowerX || upperX)) {
			return fmt.Sprintf("minimum %s exceeds maximum %s", FormatNumber(*lower), FormatNumber(*upper))
		}
	}
	return ""
}
