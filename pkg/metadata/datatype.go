package metadata

import (
	"errors"
	"fmt"
)

// Kind is the semantic scalar kind of a DataType, independent of any target
// language.
type Kind string

const (
	KindString   Kind = "string"
	KindInt32    Kind = "int32"
	KindInt64    Kind = "int64"
	KindFloat32  Kind = "float32"
	KindFloat64  Kind = "float64"
	KindDecimal  Kind = "decimal"
	KindBoolean  Kind = "boolean"
	KindDateTime Kind = "datetime"
	KindByte     Kind = "byte"
	KindObject   Kind = "object"
)

var allKinds = []Kind{
	KindString, KindInt32, KindInt64, KindFloat32, KindFloat64,
	KindDecimal, KindBoolean, KindDateTime, KindByte, KindObject,
}

// Kinds returns every supported kind.
func Kinds() []Kind {
	return append([]Kind(nil), allKinds...)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsNumeric reports whether numeric bounds apply to the kind.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt32, KindInt64, KindFloat32, KindFloat64, KindDecimal:
		return true
	}
	return false
}

// IsTextual reports whether pattern constraints apply to the kind.
func (k Kind) IsTextual() bool {
	return k == KindString
}

// HasLength reports whether length constraints apply to the kind.
func (k Kind) HasLength() bool {
	return k == KindString || k == KindByte
}

// Supports reports whether a constraint variant is meaningful for the kind.
func (k Kind) Supports(c ConstraintKind) bool {
	switch c {
	case ConstraintPattern:
		return k.IsTextual()
	case ConstraintMinLength, ConstraintMaxLength:
		return k.HasLength()
	case ConstraintMinimum, ConstraintMaximum:
		return k.IsNumeric()
	case ConstraintEnum:
		return k == KindString || k.IsNumeric() || k == KindBoolean
	case ConstraintRequired:
		return true
	}
	return false
}

// DataType is a named, possibly constrained scalar type, or an opaque
// reference to a composite model when Reference is set.
type DataType struct {
	Name        string
	Kind        Kind
	Constraints []Constraint
	Description string
	Format      string
	Default     any
	// Inline marks types whose name was synthesized from an unnamed schema.
	Inline bool
	// Reference marks an opaque pointer to the ModelMetadata called Name.
	Reference bool
}

// ErrInvalidDataType is wrapped by DataType validation failures.
var ErrInvalidDataType = errors.New("metadata: invalid data type")

// NewDataType builds a DataType after checking the name, the kind and that
// every constraint applies to the kind.
func NewDataType(name string, kind Kind, constraints ...Constraint) (*DataType, error) {
	dt := &DataType{Name: name, Kind: kind, Constraints: append([]Constraint(nil), constraints...)}
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return dt, nil
}

// NewReference builds an opaque reference to the model called name.
func NewReference(name string) *DataType {
	return &DataType{Name: name, Kind: KindObject, Reference: true}
}

// IsValidated is true iff the type carries at least one constraint.
func (d *DataType) IsValidated() bool {
	return d != nil && len(d.Constraints) > 0
}

// Constraint returns the first constraint of the given kind.
func (d *DataType) Constraint(kind ConstraintKind) (Constraint, bool) {
	if d == nil {
		return nil, false
	}
	for _, c := range d.Constraints {
		if c.Kind() == kind {
			return c, true
		}
	}
	return nil, false
}

// Validate checks structural invariants.
func (d *DataType) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil", ErrInvalidDataType)
	}
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDataType)
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("%w: %s has unknown kind %q", ErrInvalidDataType, d.Name, d.Kind)
	}
	if d.Reference && len(d.Constraints) > 0 {
		return fmt.Errorf("%w: reference %s cannot carry constraints", ErrInvalidDataType, d.Name)
	}
	for _, c := range d.Constraints {
		if c == nil {
			return fmt.Errorf("%w: %s has a nil constraint", ErrInvalidDataType, d.Name)
		}
		if !d.Kind.Supports(c.Kind()) {
			return fmt.Errorf("%w: %s constraint does not apply to %s kind of %s", ErrInvalidDataType, c.Kind(), d.Kind, d.Name)
		}
	}
	return nil
}

// Clone returns a shallow copy with its own constraint slice.
func (d *DataType) Clone() *DataType {
	if d == nil {
		return nil
	}
	cloned := *d
	cloned.Constraints = append([]Constraint(nil), d.Constraints...)
	return &cloned
}
