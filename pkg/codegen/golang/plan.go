package golang

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-typegen/pkg/metadata"
)

// fieldPlan holds everything the model and DTO emitters need for one field.
type fieldPlan struct {
	meta metadata.FieldMetadata
	// exported names the accessor and the DTO field.
	exported string
	// local names the struct field and constructor parameter.
	local string
	// element is the Go type of one value: a wrapper or a model type.
	element string
	// raw is the unvalidated Go type of one value: a scalar type, or the
	// model type for model references.
	raw        goType
	model      bool
	collection bool
	optional   bool
}

// paramType is the constructor parameter type.
func (f fieldPlan) paramType() string {
	base := f.raw.expr
	if f.model {
		base = f.element
	}
	switch {
	case f.collection:
		return "[]" + base
	case f.optional:
		return "*" + base
	}
	return base
}

// storedType is the struct field type of the validated model.
func (f fieldPlan) storedType() string {
	switch {
	case f.collection:
		return "[]" + f.element
	case f.optional || f.model:
		return "*" + f.element
	}
	return f.element
}

// dtoType is the field type of the boundary struct.
func (f fieldPlan) dtoType() string {
	base := f.raw.expr
	if f.model {
		base = f.element
	}
	if f.collection {
		return "[]" + base
	}
	return "*" + base
}

// required fields must be present in the boundary representation.
func (f fieldPlan) required() bool {
	return !f.optional
}

type modelPlan struct {
	ident  string
	fields []fieldPlan
}

func (p modelPlan) needs(importPath string) bool {
	for _, f := range p.fields {
		if !f.model && f.raw.importPath == importPath {
			return true
		}
	}
	return false
}

// planModel resolves identifiers and types of every field of model.
func planModel(model *metadata.ModelMetadata, input *metadata.GenerationInput) (modelPlan, error) {
	plan := modelPlan{ident: typeName(model.Name)}
	exported := map[string]bool{}
	// Parameters must not shadow the build function the constructors call.
	locals := map[string]bool{"build" + plan.ident: true}

	for _, field := range model.Fields {
		elem := field.ElementType()
		if elem == nil {
			return modelPlan{}, fmt.Errorf("field %s has no type", field.Name)
		}
		fp := fieldPlan{
			meta:       field,
			exported:   unique(exportedName(field.Name), exported, reservedMethods),
			local:      unique(localName(field.Name), locals, nil),
			collection: field.IsCollection,
			optional:   field.IsNullable,
		}

		if elem.Reference {
			if _, ok := input.LookupModel(elem.Name); !ok {
				return modelPlan{}, fmt.Errorf("field %s references unknown model %s", field.Name, elem.Name)
			}
			fp.model = true
			fp.element = typeName(elem.Name)
		} else {
			if _, ok := input.LookupDataType(elem.Name); !ok {
				return modelPlan{}, fmt.Errorf("field %s references data type %s which is not part of the input", field.Name, elem.Name)
			}
			raw, err := rawType(elem.Kind)
			if err != nil {
				return modelPlan{}, fmt.Errorf("field %s: %w", field.Name, err)
			}
			fp.element = typeName(elem.Name)
			fp.raw = raw
		}
		plan.fields = append(plan.fields, fp)
	}
	return plan, nil
}

func unique(candidate string, taken, reserved map[string]bool) string {
	name := candidate
	if reserved[name] {
		name += "Field"
	}
	base := name
	for i := 2; taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	taken[name] = true
	return name
}
