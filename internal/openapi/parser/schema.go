package parser

import (
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

// extensionNamespace holds typegen overrides (name, namespace) on schemas.
const extensionNamespace = "x-typegen"

// converter turns kin-openapi schema refs into pkgopenapi.Schema values.
// Property references are kept as Ref only; allOf members are merged into
// their owner.
type converter struct {
	index    *nodeIndex
	visiting map[*openapi3.Schema]bool
}

func newConverter(index *nodeIndex) *converter {
	return &converter{
		index:    index,
		visiting: make(map[*openapi3.Schema]bool),
	}
}

// convertNamed expands a component definition, following an alias $ref.
func (c *converter) convertNamed(ref *openapi3.SchemaRef, pointer string) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	if schema, ok := unresolvedRef(ref); ok {
		return schema
	}
	return c.expand(ref.Value, pointer)
}

// convert handles nested schemas: references stay references.
func (c *converter) convert(ref *openapi3.SchemaRef, pointer string) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Ref != "" || ref.Value == nil {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	if schema, ok := unresolvedRef(ref); ok {
		return schema
	}
	return c.expand(ref.Value, pointer)
}

func (c *converter) expand(src *openapi3.Schema, pointer string) pkgopenapi.Schema {
	if c.visiting[src] {
		return pkgopenapi.Schema{}
	}
	c.visiting[src] = true
	defer delete(c.visiting, src)

	typ, nullable := schemaType(src.Type)
	schema := pkgopenapi.Schema{
		Type:             typ,
		Format:           src.Format,
		Title:            src.Title,
		Description:      src.Description,
		Default:          src.Default,
		Pattern:          src.Pattern,
		ExclusiveMinimum: src.ExclusiveMin,
		ExclusiveMaximum: src.ExclusiveMax,
		Nullable:         src.Nullable || nullable,
		ReadOnly:         src.ReadOnly,
	}

	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		propsPointer := pointer + "/properties"
		schema.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = c.convert(property, propsPointer+"/"+pkgopenapi.EscapePointerToken(name))
		}
		schema.PropertyOrder = c.index.orderOf(propsPointer)
	}
	if src.Items != nil {
		items := c.convert(src.Items, pointer+"/items")
		schema.Items = &items
	}
	if src.Min != nil {
		value := *src.Min
		schema.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		schema.Maximum = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		schema.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		schema.MaxLength = &value
	}
	schema.Extensions = extractExtensions(src.Extensions)

	c.mergeAllOf(&schema, src.AllOf, pointer)
	return schema
}

// mergeAllOf folds allOf members into target. Referenced members are
// expanded so their properties become part of the owner.
func (c *converter) mergeAllOf(target *pkgopenapi.Schema, members openapi3.SchemaRefs, pointer string) {
	for i, member := range members {
		if member == nil || member.Value == nil {
			continue
		}
		memberPointer := pointer + "/allOf/" + strconv.Itoa(i)
		if name, ok := (pkgopenapi.Schema{Ref: member.Ref}).RefName(); ok {
			memberPointer = "/components/schemas/" + pkgopenapi.EscapePointerToken(name)
		}
		merged := c.expand(member.Value, memberPointer)
		mergeSchema(target, merged)
	}
}

func mergeSchema(target *pkgopenapi.Schema, src pkgopenapi.Schema) {
	if target.Type == "" {
		target.Type = src.Type
	}
	if target.Format == "" {
		target.Format = src.Format
	}
	if target.Description == "" {
		target.Description = src.Description
	}
	if target.Pattern == "" {
		target.Pattern = src.Pattern
	}
	if target.MinLength == nil {
		target.MinLength = src.MinLength
	}
	if target.MaxLength == nil {
		target.MaxLength = src.MaxLength
	}
	if target.Minimum == nil {
		target.Minimum = src.Minimum
		target.ExclusiveMinimum = src.ExclusiveMinimum
	}
	if target.Maximum == nil {
		target.Maximum = src.Maximum
		target.ExclusiveMaximum = src.ExclusiveMaximum
	}
	if len(target.Enum) == 0 && len(src.Enum) > 0 {
		target.Enum = src.Enum
	}
	if target.Items == nil {
		target.Items = src.Items
	}
	target.Nullable = target.Nullable || src.Nullable
	target.ReadOnly = target.ReadOnly || src.ReadOnly

	for _, name := range src.Required {
		if !target.IsRequired(name) {
			target.Required = append(target.Required, name)
		}
	}
	if len(src.Properties) > 0 {
		if target.Properties == nil {
			target.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		}
		for _, name := range src.OrderedProperties() {
			if _, exists := target.Properties[name]; exists {
				continue
			}
			target.Properties[name] = src.Properties[name]
			target.PropertyOrder = append(target.PropertyOrder, name)
		}
		if target.Type == "" {
			target.Type = "object"
		}
	}
	for key, value := range src.Extensions {
		if target.Extensions == nil {
			target.Extensions = make(map[string]any)
		}
		if _, exists := target.Extensions[key]; !exists {
			target.Extensions[key] = value
		}
	}
}

// schemaType collapses the type list, reporting a "null" member separately.
func schemaType(types *openapi3.Types) (string, bool) {
	if types == nil {
		return "", false
	}
	var (
		values   []string
		nullable bool
	)
	for _, value := range types.Slice() {
		if value == "null" {
			nullable = true
			continue
		}
		values = append(values, value)
	}
	return strings.Join(values, ","), nullable
}

func extractExtensions(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}

	result := make(map[string]any)
	for key, value := range raw {
		switch {
		case key == extensionNamespace:
			if mapped, ok := cloneMap(value); ok && len(mapped) > 0 {
				result[key] = mapped
			}
		case strings.HasPrefix(key, extensionNamespace+"-"):
			result[key] = value
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func cloneMap(value any) (map[string]any, bool) {
	mapped, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	cloned := make(map[string]any, len(mapped))
	for k, v := range mapped {
		cloned[k] = v
	}
	return cloned, true
}
