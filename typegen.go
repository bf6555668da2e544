// Package typegen generates validated Go types from OpenAPI specifications.
//
// The pipeline is parse → extract → refine → generate → write. Each stage
// lives in its own package; this package re-exports the common entry points:
//
//	result, err := typegen.Generate(ctx, pkgopenapi.SourceFromFile("petstore.yaml"), typegen.Options{
//		OutputDirectory: "internal/petstore",
//		ImportPath:      "example.com/app/internal/petstore",
//	})
package typegen

import (
	"context"

	"github.com/goliatone/go-typegen/pkg/codegen"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
	"github.com/goliatone/go-typegen/pkg/orchestrator"
)

// Options aliases codegen.Options.
type Options = codegen.Options

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// DefaultOptions returns the documented generation defaults.
func DefaultOptions() Options {
	return codegen.DefaultOptions()
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads source, generates Go code with the given options and writes
// it below options.OutputDirectory. Boolean options are taken as given; start
// from DefaultOptions to keep their defaults.
func Generate(ctx context.Context, source pkgopenapi.Source, options Options, opts ...orchestrator.Option) (Result, error) {
	return orchestrator.New(opts...).Run(ctx, orchestrator.Request{
		Source:  source,
		Options: &options,
	})
}

// GenerateArtifacts runs the pipeline without writing anything and returns
// the generated artifacts.
func GenerateArtifacts(ctx context.Context, source pkgopenapi.Source, options Options, opts ...orchestrator.Option) (Result, error) {
	return orchestrator.New(opts...).Generate(ctx, orchestrator.Request{
		Source:  source,
		Options: &options,
	})
}

// GenerateFromDocument generates and writes code from a pre-loaded document,
// bypassing the loader stage.
func GenerateFromDocument(ctx context.Context, doc pkgopenapi.Document, options Options, opts ...orchestrator.Option) (Result, error) {
	return orchestrator.New(opts...).Run(ctx, orchestrator.Request{
		Document: &doc,
		Options:  &options,
	})
}
