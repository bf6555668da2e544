package golang

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-typegen/pkg/metadata"
)

// predicate is one translated constraint.
type predicate struct {
	expr string
	// pattern is set for Pattern constraints; the expression refers to the
	// package-level variable named patternVar.
	pattern    string
	patternVar string
	imports    []string
}

// translateConstraints turns the constraint set of dt into Go boolean
// expressions over a variable named value.
func translateConstraints(dt *metadata.DataType, ident string) ([]predicate, error) {
	var out []predicate
	patterns := 0
	for _, c := range dt.Constraints {
		if !dt.Kind.Supports(c.Kind()) {
			return nil, fmt.Errorf("%s constraint cannot be applied to %s values", c.Kind(), dt.Kind)
		}
		switch v := c.(type) {
		case metadata.Pattern:
			name := patternVarName(ident, patterns)
			patterns++
			out = append(out, predicate{
				expr:       name + ".MatchString(value)",
				pattern:    v.Expr,
				patternVar: name,
				imports:    []string{"regexp"},
			})
		case metadata.MinimumLength:
			out = append(out, lengthPredicate(dt.Kind, ">=", v.N))
		case metadata.MaximumLength:
			out = append(out, lengthPredicate(dt.Kind, "<=", v.N))
		case metadata.Minimum:
			op := ">="
			if v.Exclusive() {
				op = ">"
			}
			out = append(out, predicate{expr: compareNumber(dt.Kind, op, v.Value)})
		case metadata.Maximum:
			op := "<="
			if v.Exclusive() {
				op = "<"
			}
			out = append(out, predicate{expr: compareNumber(dt.Kind, op, v.Value)})
		case metadata.Enum:
			expr, err := enumExpr(dt.Kind, v.Values)
			if err != nil {
				return nil, err
			}
			out = append(out, predicate{expr: expr})
		case metadata.Required:
			out = append(out, predicate{expr: nonZeroExpr(dt.Kind)})
		default:
			return nil, fmt.Errorf("constraint %s is not supported", c)
		}
	}
	return out, nil
}

func nonZeroExpr(kind metadata.Kind) string {
	switch {
	case kind == metadata.KindString:
		return `value != ""`
	case kind == metadata.KindBoolean:
		return "value"
	case kind == metadata.KindDateTime:
		return "!value.IsZero()"
	case kind.IsNumeric():
		return "value != 0"
	}
	return "len(value) > 0"
}

func lengthPredicate(kind metadata.Kind, op string, n int) predicate {
	if kind == metadata.KindByte {
		return predicate{expr: fmt.Sprintf("len(value) %s %d", op, n)}
	}
	return predicate{
		expr:    fmt.Sprintf("utf8.RuneCountInString(value) %s %d", op, n),
		imports: []string{"unicode/utf8"},
	}
}

// compareNumber compares value against bound. Bounds that are not
// representable in the Go type are compared in float64.
func compareNumber(kind metadata.Kind, op string, bound float64) string {
	if literal, ok := integerLiteral(kind, bound); ok {
		return fmt.Sprintf("value %s %s", op, literal)
	}
	if kind == metadata.KindFloat64 || kind == metadata.KindDecimal {
		return fmt.Sprintf("value %s %s", op, floatLiteral(bound))
	}
	return fmt.Sprintf("float64(value) %s %s", op, floatLiteral(bound))
}

func integerLiteral(kind metadata.Kind, value float64) (string, bool) {
	var lo, hi float64
	switch kind {
	case metadata.KindInt32:
		lo, hi = math.MinInt32, math.MaxInt32
	case metadata.KindInt64:
		lo, hi = math.MinInt64, 1<<63-2048
	default:
		return "", false
	}
	if value != math.Trunc(value) || value < lo || value > hi {
		return "", false
	}
	return strconv.FormatInt(int64(value), 10), true
}

func floatLiteral(value float64) string {
	literal := metadata.FormatNumber(value)
	if !strings.ContainsAny(literal, ".eE") {
		literal += ".0"
	}
	return literal
}

func enumExpr(kind metadata.Kind, values []any) (string, error) {
	if len(values) == 0 {
		return "false", nil
	}
	terms := make([]string, 0, len(values))
	for _, raw := range values {
		switch {
		case kind == metadata.KindString:
			s, ok := raw.(string)
			if !ok {
				return "", fmt.Errorf("enum value %v is not a string", raw)
			}
			terms = append(terms, "value == "+strconv.Quote(s))
		case kind == metadata.KindBoolean:
			b, ok := raw.(bool)
			if !ok {
				return "", fmt.Errorf("enum value %v is not a boolean", raw)
			}
			terms = append(terms, "value == "+strconv.FormatBool(b))
		case kind.IsNumeric():
			n, ok := toFloat(raw)
			if !ok {
				return "", fmt.Errorf("enum value %v is not a number", raw)
			}
			terms = append(terms, compareNumber(kind, "==", n))
		default:
			return "", fmt.Errorf("enum cannot be applied to %s values", kind)
		}
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return "(" + strings.Join(terms, " || ") + ")", nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// patternLiteral quotes a regular expression, preferring a raw string.
func patternLiteral(expr string) string {
	if !strings.Contains(expr, "`") {
		return "`" + expr + "`"
	}
	return strconv.Quote(expr)
}

// describeConstraints renders the constraint set for error messages.
func describeConstraints(constraints []metadata.Constraint) string {
	parts := make([]string, 0, len(constraints))
	for _, c := range constraints {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}
