package metadata

import (
	"errors"
	"fmt"
)

// GenerationInput is the immutable bundle handed to refiners and code
// generators. Accessors return copies of the internal slices; the pointed-to
// DataType and ModelMetadata values must be treated as read-only.
type GenerationInput struct {
	dataTypes []*DataType
	models    []*ModelMetadata
	endpoints []EndpointMetadata

	typeIndex  map[string]*DataType
	modelIndex map[string]*ModelMetadata
}

// ErrDuplicateName is wrapped when two types or two models share a name.
var ErrDuplicateName = errors.New("metadata: duplicate name")

// NewGenerationInput builds an input, rejecting nil entries and duplicate
// type or model names.
func NewGenerationInput(dataTypes []*DataType, models []*ModelMetadata, endpoints []EndpointMetadata) (*GenerationInput, error) {
	in := &GenerationInput{
		dataTypes:  append([]*DataType(nil), dataTypes...),
		models:     append([]*ModelMetadata(nil), models...),
		endpoints:  make([]EndpointMetadata, 0, len(endpoints)),
		typeIndex:  make(map[string]*DataType, len(dataTypes)),
		modelIndex: make(map[string]*ModelMetadata, len(models)),
	}
	for _, dt := range in.dataTypes {
		if dt == nil {
			return nil, fmt.Errorf("%w: nil", ErrInvalidDataType)
		}
		if _, dup := in.typeIndex[dt.Name]; dup {
			return nil, fmt.Errorf("%w: data type %s", ErrDuplicateName, dt.Name)
		}
		in.typeIndex[dt.Name] = dt
	}
	for _, model := range in.models {
		if model == nil {
			return nil, fmt.Errorf("%w: nil", ErrInvalidModel)
		}
		if _, dup := in.modelIndex[model.Name]; dup {
			return nil, fmt.Errorf("%w: model %s", ErrDuplicateName, model.Name)
		}
		in.modelIndex[model.Name] = model
	}
	for _, endpoint := range endpoints {
		in.endpoints = append(in.endpoints, endpoint.Clone())
	}
	return in, nil
}

// MustNewGenerationInput panics when construction fails. Useful for tests.
func MustNewGenerationInput(dataTypes []*DataType, models []*ModelMetadata, endpoints []EndpointMetadata) *GenerationInput {
	in, err := NewGenerationInput(dataTypes, models, endpoints)
	if err != nil {
		panic(err)
	}
	return in
}

// DataTypes returns the primitive types in emission order.
func (in *GenerationInput) DataTypes() []*DataType {
	if in == nil {
		return nil
	}
	return append([]*DataType(nil), in.dataTypes...)
}

// Models returns the composite models in emission order.
func (in *GenerationInput) Models() []*ModelMetadata {
	if in == nil {
		return nil
	}
	return append([]*ModelMetadata(nil), in.models...)
}

// Endpoints returns the endpoint descriptors.
func (in *GenerationInput) Endpoints() []EndpointMetadata {
	if in == nil {
		return nil
	}
	out := make([]EndpointMetadata, 0, len(in.endpoints))
	for _, endpoint := range in.endpoints {
		out = append(out, endpoint.Clone())
	}
	return out
}

// LookupDataType finds a primitive type by name.
func (in *GenerationInput) LookupDataType(name string) (*DataType, bool) {
	if in == nil {
		return nil, false
	}
	dt, ok := in.typeIndex[name]
	return dt, ok
}

// LookupModel finds a model by name.
func (in *GenerationInput) LookupModel(name string) (*ModelMetadata, bool) {
	if in == nil {
		return nil, false
	}
	model, ok := in.modelIndex[name]
	return model, ok
}

// Validate checks every type and model, and that references resolve.
func (in *GenerationInput) Validate() error {
	if in == nil {
		return errors.New("metadata: generation input is nil")
	}
	var errs []error
	for _, dt := range in.dataTypes {
		if err := dt.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, model := range in.models {
		if err := model.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, field := range model.Fields {
			dt := field.ElementType()
			if dt.Reference {
				if _, ok := in.modelIndex[dt.Name]; !ok {
					errs = append(errs, fmt.Errorf("%w: %s.%s references unknown model %s", ErrInvalidField, model.Name, field.Name, dt.Name))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of types and models.
func (in *GenerationInput) Len() int {
	if in == nil {
		return 0
	}
	return len(in.dataTypes) + len(in.models)
}
