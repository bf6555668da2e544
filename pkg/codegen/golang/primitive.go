package golang

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-typegen/pkg/codegen"
	"github.com/goliatone/go-typegen/pkg/metadata"
)

// EmitPrimitive emits the validated wrapper of dt. The wrapped value is
// unexported; TryNewX and NewX are the only ways to obtain a non-zero value.
func (t *Target) EmitPrimitive(dt *metadata.DataType, _ *metadata.GenerationInput, options codegen.Options) (metadata.GeneratedArtifact, error) {
	if dt == nil {
		return metadata.GeneratedArtifact{}, t.fail("", "nil data type", nil)
	}
	ident := typeName(dt.Name)
	raw, err := rawType(dt.Kind)
	if err != nil {
		return metadata.GeneratedArtifact{}, t.fail(dt.Name, "unsupported kind", err)
	}
	predicates, err := translateConstraints(dt, ident)
	if err != nil {
		return metadata.GeneratedArtifact{}, t.fail(dt.Name, "translate constraints", err)
	}

	b := newFileBuilder(packageName(options.Namespace))
	b.use(raw.importPath)
	for _, p := range predicates {
		for _, imp := range p.imports {
			b.use(imp)
		}
	}

	if options.IncludeDocumentation && strings.TrimSpace(dt.Description) != "" {
		b.doc(dt.Description)
	} else {
		b.linef("// %s wraps a validated %s.", ident, raw.expr)
	}
	b.open("type %s struct {", ident)
	b.linef("value %s", raw.expr)
	b.close("}")
	b.blank()

	for _, p := range predicates {
		if p.patternVar != "" {
			b.linef("var %s = regexp.MustCompile(%s)", p.patternVar, patternLiteral(p.pattern))
		}
	}
	if hasPattern(predicates) {
		b.blank()
	}

	b.line("// Value returns the validated value.")
	b.open("func (v %s) Value() %s {", ident, raw.expr)
	if dt.Kind == metadata.KindByte {
		b.line("return append([]byte(nil), v.value...)")
	} else {
		b.line("return v.value")
	}
	b.close("}")
	b.blank()

	b.linef("// IsValid%s reports whether value satisfies every %s constraint.", ident, ident)
	b.open("func IsValid%s(value %s) bool {", ident, raw.expr)
	if len(predicates) == 0 {
		b.line("return true")
	} else {
		exprs := make([]string, 0, len(predicates))
		for _, p := range predicates {
			exprs = append(exprs, p.expr)
		}
		b.line("return " + strings.Join(exprs, " &&\n\t\t"))
	}
	b.close("}")
	b.blank()

	b.linef("// TryNew%s validates value and reports whether it was accepted.", ident)
	b.open("func TryNew%s(value %s) (%s, bool) {", ident, raw.expr, ident)
	b.open("if !IsValid%s(value) {", ident)
	b.linef("return %s{}, false", ident)
	b.close("}")
	if dt.Kind == metadata.KindByte {
		b.linef("return %s{value: append([]byte(nil), value...)}, true", ident)
	} else {
		b.linef("return %s{value: value}, true", ident)
	}
	b.close("}")
	b.blank()

	reason := "is invalid"
	if described := describeConstraints(dt.Constraints); described != "" {
		reason = "must satisfy " + described
	}
	b.linef("// New%s validates value and returns a *ValidationError when it is rejected.", ident)
	b.open("func New%s(value %s) (%s, error) {", ident, raw.expr, ident)
	b.linef("v, ok := TryNew%s(value)", ident)
	b.open("if !ok {")
	b.linef("return %s{}, &ValidationError{Type: %s, Reason: %s, Value: value}", ident, strconv.Quote(ident), strconv.Quote(reason))
	b.close("}")
	b.line("return v, nil")
	b.close("}")

	return t.finish(b, options, ident, t.fileName(ident), metadata.ArtifactPrimitive)
}

func hasPattern(predicates []predicate) bool {
	for _, p := range predicates {
		if p.patternVar != "" {
			return true
		}
	}
	return false
}
