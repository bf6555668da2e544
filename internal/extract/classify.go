package extract

import (
	"fmt"

	"github.com/goliatone/go-typegen/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

type schemaClass int

const (
	classOther schemaClass = iota
	// classSimple is a scalar with at least one validation facet.
	classSimple
	// classComplex is an object with at least one property.
	classComplex
	// classScalar is a scalar without facets; usable by reference only.
	classScalar
	// classArray is a named array; references expand to collections.
	classArray
	// classEmptyObject is an object without properties.
	classEmptyObject
	// classAlias is a definition that is itself an unresolved reference.
	classAlias
)

func classify(schema pkgopenapi.Schema) schemaClass {
	switch {
	case schema.Ref != "" && schema.Type == "" && len(schema.Properties) == 0:
		return classAlias
	case isScalarType(schema.Type):
		if schema.HasFacets() {
			return classSimple
		}
		return classScalar
	case schema.Type == "array":
		return classArray
	case schema.Type == "object" || schema.Type == "":
		if len(schema.Properties) > 0 {
			return classComplex
		}
		if schema.Type == "object" {
			return classEmptyObject
		}
	}
	return classOther
}

func isScalarType(typ string) bool {
	switch typ {
	case "string", "integer", "number", "boolean":
		return true
	}
	return false
}

// skipReason explains why a named schema produced no metadata.
func skipReason(class schemaClass, schema pkgopenapi.Schema) string {
	switch class {
	case classScalar:
		return "scalar schema declares no validation facets; it is only emitted where referenced"
	case classArray:
		return "array schema is not emitted as a type; references to it become collections"
	case classEmptyObject:
		return "object schema declares no properties"
	case classAlias:
		return fmt.Sprintf("unresolved reference %q", schema.Ref)
	}
	if schema.Type != "" {
		return fmt.Sprintf("schema of type %q is neither simple nor complex", schema.Type)
	}
	return "schema is neither simple nor complex"
}

// kindFor maps a schema type/format pair onto a scalar kind.
func kindFor(typ, format string) (metadata.Kind, error) {
	switch typ {
	case "string":
		switch format {
		case "date-time", "date":
			return metadata.KindDateTime, nil
		case "byte", "binary":
			return metadata.KindByte, nil
		}
		return metadata.KindString, nil
	case "integer":
		if format == "int64" {
			return metadata.KindInt64, nil
		}
		return metadata.KindInt32, nil
	case "number":
		switch format {
		case "float":
			return metadata.KindFloat32, nil
		case "double":
			return metadata.KindFloat64, nil
		}
		return metadata.KindDecimal, nil
	case "boolean":
		return metadata.KindBoolean, nil
	case "object":
		return metadata.KindObject, nil
	}
	return "", fmt.Errorf("unsupported schema type %q", typ)
}
