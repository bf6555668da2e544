package extract

import (
	"fmt"

	"github.com/goliatone/go-typegen/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

// extractSimple builds a DataType for every simple component schema, in
// document order.
func (r *run) extractSimple() {
	for _, named := range r.spec.Schemas {
		class := r.classes[named.Name]
		if class != classSimple {
			if class != classComplex {
				r.warn(named.Name, "%s", skipReason(class, named.Schema))
			}
			continue
		}
		dt, err := r.buildDataType(r.names.finalName(named.Name), named.Name, named.Schema)
		if err != nil {
			r.failed[named.Name] = err.Error()
			r.warn(named.Name, "%v", err)
			continue
		}
		r.typeMemo[named.Name] = dt
		r.addType(dt)
		r.logger.Debug("extracted data type", "schema", named.Name, "kind", dt.Kind, "constraints", len(dt.Constraints))
	}
}

// buildDataType translates a scalar schema. Facets that cannot be expressed
// for the resulting kind are dropped with a warning tagged with label.
func (r *run) buildDataType(name, label string, schema pkgopenapi.Schema) (*metadata.DataType, error) {
	kind, err := kindFor(schema.Type, schema.Format)
	if err != nil {
		return nil, err
	}
	dt := &metadata.DataType{
		Name:        name,
		Kind:        kind,
		Description: schema.Description,
		Format:      schema.Format,
		Default:     schema.Default,
	}
	dt.Constraints = r.constraintsFor(kind, label, schema)
	if reason := metadata.Unsatisfiable(dt.Constraints); reason != "" {
		r.warn(label, "constraints can never be satisfied (%s); the generated type rejects every value", reason)
	}
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return dt, nil
}

// constraintsFor translates facets in fixed order: pattern, minLength,
// maxLength, minimum, maximum, enum.
func (r *run) constraintsFor(kind metadata.Kind, label string, schema pkgopenapi.Schema) []metadata.Constraint {
	var out []metadata.Constraint
	add := func(c metadata.Constraint, facet string) {
		if !kind.Supports(c.Kind()) {
			r.warn(label, "%s does not apply to %s values and was dropped", facet, kind)
			return
		}
		out = append(out, c)
	}

	if schema.Pattern != "" {
		pattern, err := metadata.NewPattern(schema.Pattern)
		if err != nil {
			r.warn(label, "invalid pattern %q was dropped: %v", schema.Pattern, unwrapMessage(err))
		} else {
			add(pattern, "pattern")
		}
	}
	if schema.MinLength != nil {
		if c, err := metadata.NewMinimumLength(*schema.MinLength); err != nil {
			r.warn(label, "%v", err)
		} else {
			add(c, "minLength")
		}
	}
	if schema.MaxLength != nil {
		if c, err := metadata.NewMaximumLength(*schema.MaxLength); err != nil {
			r.warn(label, "%v", err)
		} else {
			add(c, "maxLength")
		}
	}
	if schema.Minimum != nil {
		add(metadata.Minimum{Value: *schema.Minimum, Mode: boundary(schema.ExclusiveMinimum)}, "minimum")
	}
	if schema.Maximum != nil {
		add(metadata.Maximum{Value: *schema.Maximum, Mode: boundary(schema.ExclusiveMaximum)}, "maximum")
	}
	if len(schema.Enum) > 0 {
		values := make([]any, 0, len(schema.Enum))
		for _, value := range schema.Enum {
			if value == nil {
				continue
			}
			if !enumValueFits(kind, value) {
				r.warn(label, "enum value %v does not match %s and was dropped", value, kind)
				continue
			}
			values = append(values, value)
		}
		if len(values) > 0 {
			add(metadata.Enum{Values: values}, "enum")
		}
	}
	return out
}

func boundary(exclusive bool) metadata.BoundaryMode {
	if exclusive {
		return metadata.Exclusive
	}
	return metadata.Inclusive
}

func enumValueFits(kind metadata.Kind, value any) bool {
	switch value.(type) {
	case string:
		return kind == metadata.KindString
	case bool:
		return kind == metadata.KindBoolean
	case float64, float32, int, int32, int64:
		return kind.IsNumeric()
	}
	return false
}

// unwrapMessage strips the metadata prefix from constructor errors.
func unwrapMessage(err error) string {
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok && u.Unwrap() != nil {
		return u.Unwrap().Error()
	}
	return err.Error()
}

// scalarType returns the memoized DataType of a component scalar, creating an
// unvalidated one for facet-less scalars on first use.
func (r *run) scalarType(name string) (*metadata.DataType, error) {
	if dt, ok := r.typeMemo[name]; ok {
		return dt, nil
	}
	if reason, failed := r.failed[name]; failed {
		return nil, fmt.Errorf("referenced schema %s could not be extracted: %s", name, reason)
	}
	schema := r.schemas[name]
	dt, err := r.buildDataType(r.names.finalName(name), name, schema)
	if err != nil {
		r.failed[name] = err.Error()
		return nil, fmt.Errorf("referenced schema %s could not be extracted: %w", name, err)
	}
	r.typeMemo[name] = dt
	r.addType(dt)
	return dt, nil
}

// reference returns the shared opaque reference to a component model.
func (r *run) reference(name string) *metadata.DataType {
	final := r.names.finalName(name)
	if ref, ok := r.refs[final]; ok {
		return ref
	}
	ref := metadata.NewReference(final)
	r.refs[final] = ref
	return ref
}
