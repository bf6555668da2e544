// Package extract turns a parsed OpenAPI Specification into the
// protocol-agnostic metadata model consumed by refiners and code generators.
package extract

import (
	"github.com/goliatone/go-typegen/internal/extract"
	"github.com/goliatone/go-typegen/pkg/logging"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

// Result carries the extracted data types, models, endpoints and the
// non-fatal warnings collected along the way.
type Result = extract.Result

// Extractor classifies component schemas and builds metadata. Extraction
// never fails as a whole; per-schema problems are reported as warnings.
type Extractor interface {
	Extract(spec pkgopenapi.Specification) Result
}

// ExtractorFunc adapts a function into an Extractor.
type ExtractorFunc func(pkgopenapi.Specification) Result

// Extract calls the underlying function.
func (fn ExtractorFunc) Extract(spec pkgopenapi.Specification) Result {
	return fn(spec)
}

// Option configures the extractor behaviour.
type Option func(*extractorOptions)

type extractorOptions struct {
	endpoints bool
	namespace string
	logger    logging.Logger
}

// WithEndpoints toggles EndpointMetadata extraction. Enabled by default.
func WithEndpoints(enabled bool) Option {
	return func(opts *extractorOptions) {
		opts.endpoints = enabled
	}
}

// WithNamespace sets the default namespace hint of extracted models.
func WithNamespace(namespace string) Option {
	return func(opts *extractorOptions) {
		opts.namespace = namespace
	}
}

// WithLogger routes classification traces to logger.
func WithLogger(logger logging.Logger) Option {
	return func(opts *extractorOptions) {
		opts.logger = logger
	}
}

// NewExtractor returns an Extractor backed by the internal implementation.
func NewExtractor(options ...Option) Extractor {
	cfg := extractorOptions{endpoints: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return extract.New(extract.Options{
		Endpoints: cfg.endpoints,
		Namespace: cfg.namespace,
		Logger:    cfg.logger,
	})
}

var _ Extractor = (*extract.Extractor)(nil)
