package golang

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-typegen/pkg/codegen"
	"github.com/goliatone/go-typegen/pkg/metadata"
)

// EmitModel emits the validated composite type of model together with its
// constructors and the conversions from and to the DTO package.
func (t *Target) EmitModel(model *metadata.ModelMetadata, input *metadata.GenerationInput, options codegen.Options) (metadata.GeneratedArtifact, error) {
	if model == nil {
		return metadata.GeneratedArtifact{}, t.fail("", "nil model", nil)
	}
	plan, err := planModel(model, input)
	if err != nil {
		return metadata.GeneratedArtifact{}, t.fail(model.Name, "resolve fields", err)
	}
	ident := plan.ident

	b := newFileBuilder(packageName(options.Namespace))
	b.use("strings")
	b.useNamed(dtoPackage, dtoImportPath(options))
	if plan.needs("time") {
		b.use("time")
	}

	if options.IncludeDocumentation && strings.TrimSpace(model.Description) != "" {
		b.doc(model.Description)
	} else {
		b.linef("// %s is a validated %s model.", ident, model.Kind)
	}
	b.open("type %s struct {", ident)
	for _, f := range plan.fields {
		b.linef("%s %s", f.local, f.storedType())
	}
	b.close("}")
	b.blank()

	emitAccessors(b, plan, options)
	emitBuild(b, plan)

	params := paramList(plan)
	args := argList(plan)

	b.linef("// TryNew%s validates every field and succeeds only if all of them are valid.", ident)
	b.open("func TryNew%s(%s) (%s, bool) {", ident, params, ident)
	b.linef("m, invalid := build%s(%s)", ident, args)
	b.open("if len(invalid) > 0 {")
	b.linef("return %s{}, false", ident)
	b.close("}")
	b.line("return m, true")
	b.close("}")
	b.blank()

	b.linef("// New%s validates every field and returns a *ValidationError naming the", ident)
	b.line("// invalid fields when any is rejected.")
	b.open("func New%s(%s) (%s, error) {", ident, params, ident)
	b.linef("m, invalid := build%s(%s)", ident, args)
	b.open("if len(invalid) > 0 {")
	b.linef(`return %s{}, &ValidationError{Type: %s, Field: strings.Join(invalid, ", "), Reason: "invalid field value"}`, ident, strconv.Quote(ident))
	b.close("}")
	b.line("return m, nil")
	b.close("}")
	b.blank()

	emitFromDTO(b, plan)
	emitToDTO(b, plan)

	return t.finish(b, options, ident, t.fileName(ident), metadata.ArtifactModel)
}

func paramList(plan modelPlan) string {
	parts := make([]string, 0, len(plan.fields))
	for _, f := range plan.fields {
		parts = append(parts, f.local+" "+f.paramType())
	}
	return strings.Join(parts, ", ")
}

func argList(plan modelPlan) string {
	parts := make([]string, 0, len(plan.fields))
	for _, f := range plan.fields {
		parts = append(parts, f.local)
	}
	return strings.Join(parts, ", ")
}

func emitAccessors(b *fileBuilder, plan modelPlan, options codegen.Options) {
	for _, f := range plan.fields {
		if options.IncludeDocumentation && strings.TrimSpace(f.meta.Description) != "" {
			b.doc(f.exported + ": " + f.meta.Description)
		} else {
			b.linef("// %s returns the %s field.", f.exported, f.meta.WireName())
		}
		b.open("func (m %s) %s() %s {", plan.ident, f.exported, f.storedType())
		switch {
		case f.collection:
			b.linef("return append(%s(nil), m.%s...)", f.storedType(), f.local)
		case f.optional || f.model:
			b.open("if m.%s == nil {", f.local)
			b.line("return nil")
			b.close("}")
			b.linef("return ref(*m.%s)", f.local)
		default:
			b.linef("return m.%s", f.local)
		}
		b.close("}")
		b.blank()
	}
}

// emitBuild writes the shared validation routine. Every field is attempted;
// the names of rejected fields are returned.
func emitBuild(b *fileBuilder, plan modelPlan) {
	b.open("func build%s(%s) (%s, []string) {", plan.ident, paramList(plan), plan.ident)
	b.linef("var m %s", plan.ident)
	b.line("var invalid []string")
	for _, f := range plan.fields {
		wire := strconv.Quote(f.meta.WireName())
		switch {
		case f.model && f.collection:
			openCollection(b, f, wire)
			b.linef("m.%s = append([]%s(nil), %s...)", f.local, f.element, f.local)
			b.close("}")
		case f.model && f.optional:
			b.open("if %s != nil {", f.local)
			b.linef("m.%s = ref(*%s)", f.local, f.local)
			b.close("}")
		case f.model:
			b.linef("m.%s = ref(%s)", f.local, f.local)
		case f.collection:
			openCollection(b, f, wire)
			b.linef("m.%s = make([]%s, 0, len(%s))", f.local, f.element, f.local)
			b.open("for _, item := range %s {", f.local)
			b.linef("v, ok := TryNew%s(item)", f.element)
			b.open("if !ok {")
			b.linef("invalid = append(invalid, %s)", wire)
			b.line("break")
			b.close("}")
			b.linef("m.%s = append(m.%s, v)", f.local, f.local)
			b.close("}")
			b.close("}")
		case f.optional:
			b.open("if %s != nil {", f.local)
			b.open("if v, ok := TryNew%s(*%s); ok {", f.element, f.local)
			b.linef("m.%s = &v", f.local)
			b.close("} else {")
			b.indent++
			b.linef("invalid = append(invalid, %s)", wire)
			b.close("}")
			b.close("}")
		default:
			b.open("if v, ok := TryNew%s(%s); ok {", f.element, f.local)
			b.linef("m.%s = v", f.local)
			b.close("} else {")
			b.indent++
			b.linef("invalid = append(invalid, %s)", wire)
			b.close("}")
		}
	}
	b.line("return m, invalid")
	b.close("}")
	b.blank()
}

// openCollection opens the block copying a collection parameter. A nil
// required collection is reported as invalid.
func openCollection(b *fileBuilder, f fieldPlan, wire string) {
	if f.required() {
		b.open("if %s == nil {", f.local)
		b.linef("invalid = append(invalid, %s)", wire)
		b.close("} else {")
		b.indent++
		return
	}
	b.open("if %s != nil {", f.local)
}

func emitFromDTO(b *fileBuilder, plan modelPlan) {
	ident := plan.ident
	b.linef("// %sFromDTO validates a boundary value. Missing required values are", ident)
	b.line("// reported as *ValidationError.")
	b.open("func %sFromDTO(in %s.%s) (%s, error) {", ident, dtoPackage, ident, ident)

	args := make([]string, 0, len(plan.fields))
	for _, f := range plan.fields {
		if f.required() {
			b.open("if in.%s == nil {", f.exported)
			b.linef(`return %s{}, &ValidationError{Type: %s, Field: %s, Reason: "required value is missing"}`,
				ident, strconv.Quote(ident), strconv.Quote(f.meta.WireName()))
			b.close("}")
		}
		switch {
		case f.model && f.collection:
			b.linef("var %s []%s", f.local, f.element)
			b.open("if in.%s != nil {", f.exported)
			b.linef("%s = make([]%s, 0, len(in.%s))", f.local, f.element, f.exported)
			b.open("for _, item := range in.%s {", f.exported)
			b.linef("converted, err := %sFromDTO(item)", f.element)
			b.open("if err != nil {")
			b.linef("return %s{}, err", ident)
			b.close("}")
			b.linef("%s = append(%s, converted)", f.local, f.local)
			b.close("}")
			b.close("}")
			args = append(args, f.local)
		case f.model && f.optional:
			b.linef("var %s *%s", f.local, f.element)
			b.open("if in.%s != nil {", f.exported)
			b.linef("converted, err := %sFromDTO(*in.%s)", f.element, f.exported)
			b.open("if err != nil {")
			b.linef("return %s{}, err", ident)
			b.close("}")
			b.linef("%s = &converted", f.local)
			b.close("}")
			args = append(args, f.local)
		case f.model:
			b.linef("%s, err := %sFromDTO(*in.%s)", f.local, f.element, f.exported)
			b.open("if err != nil {")
			b.linef("return %s{}, err", ident)
			b.close("}")
			args = append(args, f.local)
		case f.collection || f.optional:
			args = append(args, "in."+f.exported)
		default:
			args = append(args, "*in."+f.exported)
		}
	}
	b.linef("return New%s(%s)", ident, strings.Join(args, ", "))
	b.close("}")
	b.blank()
}

func emitToDTO(b *fileBuilder, plan modelPlan) {
	b.line("// ToDTO projects the model back to its boundary representation.")
	b.open("func (m %s) ToDTO() %s.%s {", plan.ident, dtoPackage, plan.ident)
	b.linef("var out %s.%s", dtoPackage, plan.ident)
	for _, f := range plan.fields {
		switch {
		case f.collection:
			project := "item.Value()"
			elem := f.raw.expr
			if f.model {
				project = "item.ToDTO()"
				elem = dtoPackage + "." + f.element
			}
			b.open("if m.%s != nil {", f.local)
			b.linef("out.%s = make([]%s, 0, len(m.%s))", f.exported, elem, f.local)
			b.open("for _, item := range m.%s {", f.local)
			b.linef("out.%s = append(out.%s, %s)", f.exported, f.exported, project)
			b.close("}")
			b.close("}")
		case f.model:
			b.open("if m.%s != nil {", f.local)
			b.linef("out.%s = ref(m.%s.ToDTO())", f.exported, f.local)
			b.close("}")
		case f.optional:
			b.open("if m.%s != nil {", f.local)
			b.linef("out.%s = ref(m.%s.Value())", f.exported, f.local)
			b.close("}")
		default:
			b.linef("out.%s = ref(m.%s.Value())", f.exported, f.local)
		}
	}
	b.line("return out")
	b.close("}")
}
