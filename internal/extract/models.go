package extract

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-typegen/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

// extractComplex builds a model for every complex component schema, in
// document order. Inline object properties become nested models placed
// right after their owner.
func (r *run) extractComplex() {
	for _, named := range r.spec.Schemas {
		if r.classes[named.Name] != classComplex {
			continue
		}
		name := r.names.finalName(named.Name)
		model, nested, err := r.buildModel(name, named.Name, named.Pointer(), named.Schema, false)
		if err != nil {
			r.warn(named.Name, "%v", err)
			continue
		}
		r.addModel(model)
		for _, child := range nested {
			r.addModel(child)
		}
		r.logger.Debug("extracted model", "schema", named.Name, "kind", model.Kind, "fields", len(model.Fields))
	}
}

// buildModel resolves every declared property. Failing properties are
// dropped with a warning; a model left without fields is an error.
func (r *run) buildModel(name, label, pointer string, schema pkgopenapi.Schema, inline bool) (*metadata.ModelMetadata, []*metadata.ModelMetadata, error) {
	model := &metadata.ModelMetadata{
		Name:          name,
		NamespaceHint: r.namespaceFor(schema),
		Description:   schema.Description,
		Kind:          metadata.InferModelKind(name),
		Inline:        inline,
	}

	var nested []*metadata.ModelMetadata
	for _, property := range schema.OrderedProperties() {
		propSchema := schema.Properties[property]
		fieldLabel := label + "." + property
		fieldPointer := pointer + "/properties/" + pkgopenapi.EscapePointerToken(property)

		field, children, err := r.resolveField(name, property, fieldLabel, fieldPointer, propSchema, schema.IsRequired(property))
		if err != nil {
			r.warn(fieldLabel, "property dropped: %v", err)
			continue
		}
		model.Fields = append(model.Fields, field)
		nested = append(nested, children...)
	}

	if len(model.Fields) == 0 {
		return nil, nil, errors.New("model has no extractable properties")
	}
	if err := model.Validate(); err != nil {
		return nil, nil, err
	}
	return model, nested, nil
}

func (r *run) namespaceFor(schema pkgopenapi.Schema) string {
	if ns := overrideNamespace(schema); ns != "" {
		return ns
	}
	return r.opts.Namespace
}

func (r *run) resolveField(owner, property, label, pointer string, schema pkgopenapi.Schema, required bool) (metadata.FieldMetadata, []*metadata.ModelMetadata, error) {
	field := metadata.FieldMetadata{
		Name:           property,
		SerializedName: property,
		IsRequired:     required,
		IsNullable:     schema.Nullable || !required,
		IsReadOnly:     schema.ReadOnly,
		Description:    schema.Description,
	}

	hint := joinHint(owner, property)
	if items, ok, err := r.collectionItems(schema); err != nil {
		return field, nil, err
	} else if ok {
		dt, nested, err := r.resolveElement(hint+"Item", label, pointer+"/items", items)
		if err != nil {
			return field, nil, err
		}
		field.IsCollection = true
		field.CollectionElementType = dt
		field.DataType = dt
		return field, nested, nil
	}

	dt, nested, err := r.resolveElement(hint, label, pointer, schema)
	if err != nil {
		return field, nil, err
	}
	field.DataType = dt
	return field, nested, nil
}

// collectionItems reports whether schema is an array, inline or through a
// reference to a named array, and returns its item schema.
func (r *run) collectionItems(schema pkgopenapi.Schema) (pkgopenapi.Schema, bool, error) {
	if schema.Ref == "" {
		if schema.Type != "array" {
			return pkgopenapi.Schema{}, false, nil
		}
		if schema.Items == nil {
			return pkgopenapi.Schema{}, false, errors.New("array declares no items")
		}
		return *schema.Items, true, nil
	}

	name, ok := schema.RefName()
	if !ok || r.classes[name] != classArray {
		return pkgopenapi.Schema{}, false, nil
	}
	target := r.schemas[name]
	if target.Items == nil {
		return pkgopenapi.Schema{}, false, fmt.Errorf("array schema %s declares no items", name)
	}
	items := *target.Items
	if itemName, ok := items.RefName(); ok && r.classes[itemName] == classArray {
		return pkgopenapi.Schema{}, false, errors.New("nested collections are not supported")
	}
	return items, true, nil
}

// resolveElement resolves a non-collection schema into a DataType, creating
// inline types and nested models as needed.
func (r *run) resolveElement(hint, label, pointer string, schema pkgopenapi.Schema) (*metadata.DataType, []*metadata.ModelMetadata, error) {
	if schema.Ref != "" {
		dt, err := r.resolveReference(schema)
		return dt, nil, err
	}

	switch {
	case schema.Type == "array":
		return nil, nil, errors.New("nested collections are not supported")
	case (schema.Type == "object" || schema.Type == "") && len(schema.Properties) > 0:
		name := r.names.synthesize(schema.Title, hint, pointer)
		model, nested, err := r.buildModel(name, label, pointer, schema, true)
		if err != nil {
			return nil, nil, fmt.Errorf("inline object: %w", err)
		}
		return metadata.NewReference(name), append([]*metadata.ModelMetadata{model}, nested...), nil
	case schema.Type == "":
		return nil, nil, errors.New("schema declares no type")
	}

	name := r.names.synthesize(schema.Title, hint, pointer)
	dt, err := r.buildDataType(name, label, schema)
	if err != nil {
		return nil, nil, err
	}
	dt.Inline = true
	r.addType(dt)
	return dt, nil, nil
}

func (r *run) resolveReference(schema pkgopenapi.Schema) (*metadata.DataType, error) {
	name, ok := schema.RefName()
	if !ok {
		return nil, fmt.Errorf("unsupported reference %q", schema.Ref)
	}
	class, found := r.classes[name]
	if !found {
		return nil, fmt.Errorf("reference to unknown schema %s", name)
	}

	switch class {
	case classSimple, classScalar:
		return r.scalarType(name)
	case classComplex:
		return r.reference(name), nil
	case classEmptyObject:
		return r.scalarType(name)
	case classArray:
		return nil, errors.New("nested collections are not supported")
	}
	return nil, fmt.Errorf("referenced schema %s is not extractable: %s", name, skipReason(class, r.schemas[name]))
}
