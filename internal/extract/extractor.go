package extract

import (
	"github.com/goliatone/go-typegen/pkg/logging"
	"github.com/goliatone/go-typegen/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
	"github.com/goliatone/go-typegen/pkg/tgerrors"
)

// Result is the outcome of one extraction run. It is always returned, even
// when individual schemas fail; those failures are listed in Warnings.
type Result struct {
	DataTypes []*metadata.DataType
	Models    []*metadata.ModelMetadata
	Endpoints []metadata.EndpointMetadata
	Warnings  []tgerrors.Warning
}

// Input bundles the result into an immutable GenerationInput.
func (r Result) Input() (*metadata.GenerationInput, error) {
	return metadata.NewGenerationInput(r.DataTypes, r.Models, r.Endpoints)
}

// Extractor walks a Specification and produces the metadata model.
type Extractor struct {
	opts Options
}

// New creates an Extractor with the supplied options.
func New(options Options) *Extractor {
	opts := defaultOptions()
	opts.Endpoints = options.Endpoints
	opts.Namespace = options.Namespace
	if options.Logger != nil {
		opts.Logger = options.Logger
	}
	return &Extractor{opts: opts}
}

// Extract classifies every component schema and builds data types, models
// and endpoints. It never fails; per-schema problems become warnings.
func (e *Extractor) Extract(spec pkgopenapi.Specification) Result {
	r := newRun(spec, e.opts)
	r.extractSimple()
	r.extractComplex()
	if e.opts.Endpoints {
		r.extractEndpoints()
	}
	r.pruneDanglingReferences()

	r.logger.Debug("extraction finished",
		"types", len(r.types),
		"models", len(r.models),
		"endpoints", len(r.endpoints),
		"warnings", len(r.warnings),
	)
	return Result{
		DataTypes: r.types,
		Models:    r.models,
		Endpoints: r.endpoints,
		Warnings:  r.warnings,
	}
}

// run holds the state of a single extraction. Nothing is shared between runs.
type run struct {
	spec   pkgopenapi.Specification
	opts   Options
	logger logging.Logger

	schemas map[string]pkgopenapi.Schema
	classes map[string]schemaClass
	names   *nameTable

	types     []*metadata.DataType
	typeMemo  map[string]*metadata.DataType
	failed    map[string]string
	refs      map[string]*metadata.DataType
	models    []*metadata.ModelMetadata
	modelSet  map[string]*metadata.ModelMetadata
	endpoints []metadata.EndpointMetadata
	warnings  []tgerrors.Warning
}

func newRun(spec pkgopenapi.Specification, opts Options) *run {
	r := &run{
		spec:     spec,
		opts:     opts,
		logger:   logging.OrNop(opts.Logger),
		schemas:  make(map[string]pkgopenapi.Schema, len(spec.Schemas)),
		classes:  make(map[string]schemaClass, len(spec.Schemas)),
		typeMemo: make(map[string]*metadata.DataType),
		failed:   make(map[string]string),
		refs:     make(map[string]*metadata.DataType),
		modelSet: make(map[string]*metadata.ModelMetadata),
	}
	r.names = newNameTable(spec.Title)
	for _, named := range spec.Schemas {
		r.schemas[named.Name] = named.Schema
		r.classes[named.Name] = classify(named.Schema)
		r.names.reserve(named.Name, overrideName(named.Schema))
	}
	return r
}

func (r *run) warn(schema, format string, args ...any) {
	w := tgerrors.Warningf(schema, format, args...)
	r.warnings = append(r.warnings, w)
	r.logger.Debug("extraction warning", "schema", w.Schema, "message", w.Message)
}

func (r *run) addType(dt *metadata.DataType) {
	r.types = append(r.types, dt)
}

func (r *run) addModel(model *metadata.ModelMetadata) {
	r.models = append(r.models, model)
	r.modelSet[model.Name] = model
}
