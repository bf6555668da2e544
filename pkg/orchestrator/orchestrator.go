package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	internalLoader "github.com/goliatone/go-typegen/internal/openapi/loader"
	internalParser "github.com/goliatone/go-typegen/internal/openapi/parser"
	"github.com/goliatone/go-typegen/pkg/codegen"
	"github.com/goliatone/go-typegen/pkg/codegen/golang"
	"github.com/goliatone/go-typegen/pkg/extract"
	"github.com/goliatone/go-typegen/pkg/logging"
	"github.com/goliatone/go-typegen/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
	"github.com/goliatone/go-typegen/pkg/refine"
	"github.com/goliatone/go-typegen/pkg/registry"
	"github.com/goliatone/go-typegen/pkg/tgerrors"
	"github.com/goliatone/go-typegen/pkg/writer"
)

const defaultLanguage = golang.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithExtractor injects a custom metadata extractor. By default a new
// extractor is built per request so the namespace option is honoured.
func WithExtractor(extractor extract.Extractor) Option {
	return func(o *Orchestrator) {
		o.extractor = extractor
	}
}

// WithTargets injects a target registry. The Go target is registered when
// the registry does not already provide it.
func WithTargets(targets *codegen.Registry) Option {
	return func(o *Orchestrator) {
		o.targets = targets
	}
}

// WithTarget registers an additional target.
func WithTarget(target codegen.Target) Option {
	return func(o *Orchestrator) {
		if target != nil {
			o.extraTargets = append(o.extraTargets, target)
		}
	}
}

// WithDefaultLanguage overrides the target used when a request omits an
// explicit Language.
func WithDefaultLanguage(name string) Option {
	return func(o *Orchestrator) {
		o.defaultLanguage = name
	}
}

// WithRefiners registers refiners that run before the target refiner.
func WithRefiners(refiners ...refine.Refiner) Option {
	return func(o *Orchestrator) {
		o.refiners = append(o.refiners, refiners...)
	}
}

// WithWriter replaces the atomic file writer used by Run.
func WithWriter(w writer.Writer) Option {
	return func(o *Orchestrator) {
		o.writer = w
	}
}

// WithMetadataRegistry records every refined input in store.
func WithMetadataRegistry(store *registry.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithLogger routes pipeline traces to logger.
func WithLogger(logger logging.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithConcurrency bounds the number of requests GenerateAll runs at once.
// Zero or a negative value means no limit.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

// Orchestrator coordinates the full pipeline from OpenAPI document to written
// source files. It applies sensible defaults (Go target, atomic file writer)
// while remaining open to dependency injection for advanced callers.
type Orchestrator struct {
	loader          pkgopenapi.Loader
	parser          pkgopenapi.Parser
	extractor       extract.Extractor
	targets         *codegen.Registry
	extraTargets    []codegen.Target
	defaultLanguage string
	refiners        []refine.Refiner
	writer          writer.Writer
	store           *registry.Store
	logger          logging.Logger
	concurrency     int
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers can
// start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultLanguage: defaultLanguage,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one generation run.
type Request struct {
	// Source identifies where the OpenAPI document lives. Optional when Document
	// is supplied.
	Source pkgopenapi.Source

	// Document allows callers to bypass the loader when they already have a
	// raw payload.
	Document *pkgopenapi.Document

	// Language names the target. If empty, the orchestrator falls back to the
	// configured default language.
	Language string

	// Options controls emission. Nil means codegen.DefaultOptions().
	Options *codegen.Options

	// DryRun skips the write stage of Run.
	DryRun bool
}

// Result is the outcome of one run.
type Result struct {
	Language string
	// Source names the specification, as used in file headers.
	Source string
	// Input is the refined metadata the artifacts were generated from.
	Input     *metadata.GenerationInput
	Warnings  []tgerrors.Warning
	Endpoints []metadata.EndpointMetadata
	Artifacts []metadata.GeneratedArtifact
	// OutputDirectory is the effective output directory.
	OutputDirectory string
	// Written lists the files written by Run; empty for dry runs.
	Written []string
}

// Languages lists the registered target names.
func (o *Orchestrator) Languages() []string {
	if o.targets == nil {
		return nil
	}
	return o.targets.List()
}

// Extract executes the loader → parser → extractor sequence.
func (o *Orchestrator) Extract(ctx context.Context, req Request) (extract.Result, error) {
	if err := o.ready(ctx); err != nil {
		return extract.Result{}, err
	}
	options := requestOptions(req)
	spec, err := o.resolveSpecification(ctx, req)
	if err != nil {
		return extract.Result{}, err
	}
	return o.extract(spec, options), nil
}

// Generate executes every stage except the write and returns the artifacts.
// Fatal errors abort the run before anything is produced.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := o.ready(ctx); err != nil {
		return Result{}, err
	}

	target, err := o.targetFor(req.Language)
	if err != nil {
		return Result{}, err
	}

	spec, err := o.resolveSpecification(ctx, req)
	if err != nil {
		return Result{}, err
	}

	options := requestOptions(req)
	if options.SourceName == "" {
		options.SourceName = sourceName(spec.Location)
	}

	extracted := o.extract(spec, options)
	input, err := extracted.Input()
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: build generation input: %w", err)
	}

	refiners := append(append([]refine.Refiner(nil), o.refiners...), target.Refiner())
	refineCtx := refine.Context{
		Target:   target.Name(),
		Reserved: target.ReservedNames(),
		Logger:   o.logger,
	}
	if declarer, ok := target.(refine.Declarer); ok {
		refineCtx.Declarer = declarer
	}
	refined := refine.Chain(refiners...).Refine(input, refineCtx)

	if o.store != nil {
		if err := o.store.RegisterInput(refined, options.SourceName); err != nil {
			o.logger.Warn("metadata registry rejected entries", "source", options.SourceName, "error", err)
		}
	}

	artifacts, err := codegen.Generate(ctx, target, refined, options)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: generate %s: %w", target.Name(), err)
	}

	o.logger.Info("generation finished",
		"source", options.SourceName,
		"language", target.Name(),
		"types", len(refined.DataTypes()),
		"models", len(refined.Models()),
		"artifacts", len(artifacts),
		"warnings", len(extracted.Warnings),
	)
	return Result{
		Language:        target.Name(),
		Source:          options.SourceName,
		Input:           refined,
		Warnings:        extracted.Warnings,
		Endpoints:       refined.Endpoints(),
		Artifacts:       artifacts,
		OutputDirectory: options.WithDefaults().OutputDirectory,
	}, nil
}

// Run generates and then writes the artifacts below the configured output
// directory, unless the request is a dry run.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	result, err := o.Generate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if req.DryRun {
		return result, nil
	}
	written, err := o.writer.Write(ctx, result.OutputDirectory, result.Artifacts)
	result.Written = written
	if err != nil {
		return result, fmt.Errorf("orchestrator: write artifacts: %w", err)
	}
	return result, nil
}

// GenerateAll runs independent requests concurrently. Each request owns its
// own metadata; results keep the order of reqs. The first failure cancels
// the remaining runs.
func (o *Orchestrator) GenerateAll(ctx context.Context, reqs []Request) ([]Result, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}
	results := make([]Result, len(reqs))
	group, groupCtx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		group.SetLimit(o.concurrency)
	}
	for i, req := range reqs {
		group.Go(func() error {
			result, err := o.Run(groupCtx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) extract(spec pkgopenapi.Specification, options codegen.Options) extract.Result {
	extractor := o.extractor
	if extractor == nil {
		extractor = extract.NewExtractor(
			extract.WithNamespace(options.Namespace),
			extract.WithLogger(o.logger),
		)
	}
	result := extractor.Extract(spec)
	for _, warning := range result.Warnings {
		o.logger.Warn("extraction warning", "schema", warning.Schema, "message", warning.Message)
	}
	return result
}

func (o *Orchestrator) resolveSpecification(ctx context.Context, req Request) (pkgopenapi.Specification, error) {
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return pkgopenapi.Specification{}, err
	}
	spec, err := o.parser.Parse(ctx, doc)
	if err != nil {
		return pkgopenapi.Specification{}, fmt.Errorf("orchestrator: parse document: %w", err)
	}
	return spec, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgopenapi.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) targetFor(name string) (codegen.Target, error) {
	if name == "" {
		name = o.defaultLanguage
	}
	target, err := o.targets.Get(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return target, nil
}

func (o *Orchestrator) applyDefaults() {
	o.logger = logging.OrNop(o.logger)
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithDefaultSources()))
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.writer == nil {
		o.writer = writer.NewFileWriter(writer.WithLogger(o.logger))
	}
	if o.targets == nil {
		o.targets = codegen.NewRegistry()
	}
	if !o.targets.Has(golang.Name) {
		target, err := golang.New(golang.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default target: %w", err)
			return
		}
		o.targets.MustRegister(target)
	}
	for _, target := range o.extraTargets {
		if err := o.targets.Register(target); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: %w", err)
			return
		}
	}
	if o.defaultLanguage == "" {
		o.defaultLanguage = defaultLanguage
	}
}

func requestOptions(req Request) codegen.Options {
	if req.Options == nil {
		return codegen.DefaultOptions().WithDefaults()
	}
	return req.Options.WithDefaults()
}

// sourceName shortens file locations to their base name; URLs and other
// locations are kept as given.
func sourceName(location string) string {
	if location == "" || strings.Contains(location, "://") {
		return location
	}
	return filepath.Base(location)
}
