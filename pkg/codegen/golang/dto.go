package golang

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/goliatone/go-typegen/pkg/codegen"
	"github.com/goliatone/go-typegen/pkg/metadata"
)

// EmitDTO emits the unvalidated boundary struct of model into the DTO
// package. Every field is a pointer or a slice so absence is observable.
func (t *Target) EmitDTO(model *metadata.ModelMetadata, input *metadata.GenerationInput, options codegen.Options) (metadata.GeneratedArtifact, error) {
	if model == nil {
		return metadata.GeneratedArtifact{}, t.fail("", "nil model", nil)
	}
	plan, err := planModel(model, input)
	if err != nil {
		return metadata.GeneratedArtifact{}, t.fail(model.Name, "resolve fields", err)
	}
	ident := plan.ident

	b := newFileBuilder(dtoPackage)
	if plan.needs("time") {
		b.use("time")
	}

	if options.IncludeDocumentation && strings.TrimSpace(model.Description) != "" {
		b.doc(model.Description)
	} else {
		b.linef("// %s is the unvalidated boundary representation of %s.", ident, ident)
	}
	b.open("type %s struct {", ident)
	for _, f := range plan.fields {
		if options.IncludeDocumentation && strings.TrimSpace(f.meta.Description) != "" {
			b.doc(f.meta.Description)
		}
		b.linef("%s %s %s", f.exported, f.dtoType(), structTag(f, input, options))
	}
	b.close("}")

	relativePath := path.Join(options.DTODirectory, t.fileName(ident))
	return t.finish(b, options, ident, relativePath, metadata.ArtifactDTO)
}

// structTag renders the json tag and, when enabled, a validate tag in the
// go-playground/validator syntax.
func structTag(f fieldPlan, input *metadata.GenerationInput, options codegen.Options) string {
	jsonTag := f.meta.WireName()
	if options.UseNullableMarkers && f.optional {
		jsonTag += ",omitempty"
	}
	tag := "json:" + strconv.Quote(jsonTag)

	if options.IncludeValidationMetadataAnnotations {
		if rules := validateRules(f, input); rules != "" {
			tag += " validate:" + strconv.Quote(rules)
		}
	}
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}

func validateRules(f fieldPlan, input *metadata.GenerationInput) string {
	var rules []string
	if f.required() {
		rules = append(rules, "required")
	} else {
		rules = append(rules, "omitempty")
	}

	var element []string
	if !f.model {
		if dt, ok := input.LookupDataType(f.meta.ElementType().Name); ok {
			element = elementRules(dt)
		}
	}
	if len(element) == 0 {
		return strings.Join(rules, ",")
	}
	if f.collection {
		rules = append(rules, "dive")
	}
	return strings.Join(append(rules, element...), ",")
}

// elementRules maps constraints to validator rules. Patterns have no
// built-in rule and are left to the generated constructors.
func elementRules(dt *metadata.DataType) []string {
	var out []string
	for _, c := range dt.Constraints {
		switch v := c.(type) {
		case metadata.MinimumLength:
			out = append(out, "min="+strconv.Itoa(v.N))
		case metadata.MaximumLength:
			out = append(out, "max="+strconv.Itoa(v.N))
		case metadata.Minimum:
			op := "gte="
			if v.Exclusive() {
				op = "gt="
			}
			out = append(out, op+metadata.FormatNumber(v.Value))
		case metadata.Maximum:
			op := "lte="
			if v.Exclusive() {
				op = "lt="
			}
			out = append(out, op+metadata.FormatNumber(v.Value))
		case metadata.Enum:
			if rule, ok := oneOfRule(v); ok {
				out = append(out, rule)
			}
		}
	}
	return out
}

func oneOfRule(enum metadata.Enum) (string, bool) {
	values := make([]string, 0, len(enum.Values))
	for _, value := range enum.Values {
		var text string
		switch v := value.(type) {
		case string:
			if strings.ContainsAny(v, ",|'\"`") {
				return "", false
			}
			text = v
			if strings.ContainsAny(v, " \t") || v == "" {
				text = "'" + v + "'"
			}
		case float64:
			text = metadata.FormatNumber(v)
		case int, int32, int64:
			text = fmt.Sprint(v)
		default:
			return "", false
		}
		values = append(values, text)
	}
	if len(values) == 0 {
		return "", false
	}
	return "oneof=" + strings.Join(values, " "), true
}
