package codegen

import (
	"github.com/goliatone/go-typegen/pkg/metadata"
	"github.com/goliatone/go-typegen/pkg/refine"
)

// PrimitiveEmitter renders the validated wrapper of a DataType.
type PrimitiveEmitter interface {
	EmitPrimitive(dt *metadata.DataType, input *metadata.GenerationInput, options Options) (metadata.GeneratedArtifact, error)
}

// ModelEmitter renders the validated composite type of a model.
type ModelEmitter interface {
	EmitModel(model *metadata.ModelMetadata, input *metadata.GenerationInput, options Options) (metadata.GeneratedArtifact, error)
}

// DTOEmitter renders the unvalidated boundary type of a model.
type DTOEmitter interface {
	EmitDTO(model *metadata.ModelMetadata, input *metadata.GenerationInput, options Options) (metadata.GeneratedArtifact, error)
}

// SupportEmitter renders the files every generated package depends on.
type SupportEmitter interface {
	EmitSupport(input *metadata.GenerationInput, options Options) ([]metadata.GeneratedArtifact, error)
}

// Target bundles the emitters of one output language.
type Target interface {
	// Name is the identifier used by --language and the registry.
	Name() string
	// FileExtension includes the leading dot.
	FileExtension() string
	// Refiner adapts metadata names to the target conventions.
	Refiner() refine.Refiner
	// ReservedNames lists type names emitted by EmitSupport.
	ReservedNames() []string

	SupportEmitter
	PrimitiveEmitter
	ModelEmitter
	DTOEmitter
}
