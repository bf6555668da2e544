package golang

import (
	"fmt"

	"github.com/goliatone/go-typegen/pkg/metadata"
)

// goType is the Go representation of a scalar kind and the import it needs.
type goType struct {
	expr       string
	importPath string
	// copyable values can be compared and copied by assignment.
	copyable bool
}

var kindTypes = map[metadata.Kind]goType{
	metadata.KindString:   {expr: "string", copyable: true},
	metadata.KindInt32:    {expr: "int32", copyable: true},
	metadata.KindInt64:    {expr: "int64", copyable: true},
	metadata.KindFloat32:  {expr: "float32", copyable: true},
	metadata.KindFloat64:  {expr: "float64", copyable: true},
	metadata.KindDecimal:  {expr: "float64", copyable: true},
	metadata.KindBoolean:  {expr: "bool", copyable: true},
	metadata.KindDateTime: {expr: "time.Time", importPath: "time", copyable: true},
	metadata.KindByte:     {expr: "[]byte"},
	metadata.KindObject:   {expr: "map[string]any"},
}

func rawType(kind metadata.Kind) (goType, error) {
	t, ok := kindTypes[kind]
	if !ok {
		return goType{}, fmt.Errorf("kind %q has no Go representation", kind)
	}
	return t, nil
}
