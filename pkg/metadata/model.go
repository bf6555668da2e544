package metadata

import (
	"errors"
	"fmt"
	"strings"
)

// ModelKind classifies a composite model by role.
type ModelKind string

const (
	ModelEntity   ModelKind = "entity"
	ModelRequest  ModelKind = "request"
	ModelResponse ModelKind = "response"
	ModelDTO      ModelKind = "dto"
	ModelEvent    ModelKind = "event"
)

var kindSuffixes = []struct {
	suffix string
	kind   ModelKind
}{
	{"request", ModelRequest},
	{"command", ModelRequest},
	{"response", ModelResponse},
	{"result", ModelResponse},
	{"dto", ModelDTO},
	{"event", ModelEvent},
}

// InferModelKind maps a case-insensitive name suffix to a ModelKind. Names
// without a known suffix are entities. This is a naming convention only.
func InferModelKind(name string) ModelKind {
	lower := strings.ToLower(name)
	for _, candidate := range kindSuffixes {
		if strings.HasSuffix(lower, candidate.suffix) {
			return candidate.kind
		}
	}
	return ModelEntity
}

// FieldMetadata describes one model field.
type FieldMetadata struct {
	// Name is the identifier, subject to refinement.
	Name string
	// SerializedName is the wire name; refiners never change it.
	SerializedName string
	// DataType is the field type. For collections it is the element type.
	DataType              *DataType
	IsRequired            bool
	IsNullable            bool
	IsReadOnly            bool
	IsCollection          bool
	CollectionElementType *DataType
	Description           string
}

// ErrInvalidField is wrapped by field validation failures.
var ErrInvalidField = errors.New("metadata: invalid field")

// Validate enforces the field invariants.
func (f FieldMetadata) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidField)
	}
	if f.DataType == nil {
		return fmt.Errorf("%w: %s has no data type", ErrInvalidField, f.Name)
	}
	if f.IsCollection && f.CollectionElementType == nil {
		return fmt.Errorf("%w: collection %s has no element type", ErrInvalidField, f.Name)
	}
	if !f.IsCollection && f.CollectionElementType != nil {
		return fmt.Errorf("%w: %s has an element type but is not a collection", ErrInvalidField, f.Name)
	}
	return nil
}

// WireName returns SerializedName, falling back to Name.
func (f FieldMetadata) WireName() string {
	if f.SerializedName != "" {
		return f.SerializedName
	}
	return f.Name
}

// ElementType returns the type values of the field carry: the element type
// for collections, DataType otherwise.
func (f FieldMetadata) ElementType() *DataType {
	if f.IsCollection && f.CollectionElementType != nil {
		return f.CollectionElementType
	}
	return f.DataType
}

// ModelMetadata is a named composite of ordered fields.
type ModelMetadata struct {
	Name          string
	NamespaceHint string
	Description   string
	Kind          ModelKind
	Fields        []FieldMetadata
	// Inline marks models synthesized from unnamed object schemas.
	Inline bool
}

// ErrInvalidModel is wrapped by model validation failures.
var ErrInvalidModel = errors.New("metadata: invalid model")

// NewModelMetadata builds a model, inferring Kind from the name when kind is
// empty. A model with zero fields is rejected.
func NewModelMetadata(name string, kind ModelKind, fields []FieldMetadata) (*ModelMetadata, error) {
	if kind == "" {
		kind = InferModelKind(name)
	}
	model := &ModelMetadata{Name: name, Kind: kind, Fields: append([]FieldMetadata(nil), fields...)}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// Validate checks the model invariants.
func (m *ModelMetadata) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil", ErrInvalidModel)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidModel)
	}
	if len(m.Fields) == 0 {
		return fmt.Errorf("%w: %s has no fields", ErrInvalidModel, m.Name)
	}
	seen := make(map[string]struct{}, len(m.Fields))
	for _, field := range m.Fields {
		if err := field.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidModel, m.Name, err)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("%w: %s declares field %s twice", ErrInvalidModel, m.Name, field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	return nil
}

// Field looks a field up by name.
func (m *ModelMetadata) Field(name string) (FieldMetadata, bool) {
	if m == nil {
		return FieldMetadata{}, false
	}
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldMetadata{}, false
}

// Clone returns a copy with its own field slice. DataType pointers are shared.
func (m *ModelMetadata) Clone() *ModelMetadata {
	if m == nil {
		return nil
	}
	cloned := *m
	cloned.Fields = append([]FieldMetadata(nil), m.Fields...)
	return &cloned
}
