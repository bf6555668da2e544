// Package refine rewrites a GenerationInput before code generation, typically
// to adapt names to the conventions of a target language.
package refine

import (
	"github.com/goliatone/go-typegen/pkg/logging"
	"github.com/goliatone/go-typegen/pkg/metadata"
)

// Context carries target-specific information into a refiner.
type Context struct {
	// Target names the generation target being refined for.
	Target string
	// Reserved lists type names the target already uses.
	Reserved []string
	// Logger receives refinement traces. Nil disables logging.
	Logger logging.Logger
	// Declarer expands a type or model name into the identifiers the target
	// derives from it. Nil means each name declares only itself.
	Declarer Declarer
}

// Declarer reports the package-level identifiers a target emits for a data
// type or model once it is named name. The result includes name.
type Declarer interface {
	DataTypeDeclarations(name string, dt *metadata.DataType) []string
	ModelDeclarations(name string, model *metadata.ModelMetadata) []string
}

// Refiner transforms a GenerationInput. Implementations must be pure and
// idempotent, never mutate in, and return in itself when nothing changes.
type Refiner interface {
	Refine(in *metadata.GenerationInput, ctx Context) *metadata.GenerationInput
}

// RefinerFunc adapts a function into a Refiner.
type RefinerFunc func(*metadata.GenerationInput, Context) *metadata.GenerationInput

// Refine calls the underlying function.
func (fn RefinerFunc) Refine(in *metadata.GenerationInput, ctx Context) *metadata.GenerationInput {
	return fn(in, ctx)
}

// Identity returns its input unchanged.
var Identity Refiner = RefinerFunc(func(in *metadata.GenerationInput, _ Context) *metadata.GenerationInput {
	return in
})

// Chain applies refiners in order. Nil entries are skipped.
func Chain(refiners ...Refiner) Refiner {
	return RefinerFunc(func(in *metadata.GenerationInput, ctx Context) *metadata.GenerationInput {
		out := in
		for _, refiner := range refiners {
			if refiner == nil {
				continue
			}
			out = refiner.Refine(out, ctx)
		}
		return out
	})
}
