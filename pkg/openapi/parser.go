package openapi

import "context"

// Parser turns a raw Document into a Specification. Structural failures are
// reported as *tgerrors.ParseError values carrying JSON pointers and, when
// available, line/column positions.
type Parser interface {
	Parse(ctx context.Context, doc Document) (Specification, error)
}

// ParserOptions exposes toggles for parsing behaviour.
type ParserOptions struct {
	// ResolveReferences allows external $ref targets (other files/URLs) to be
	// loaded. Local component references are always resolved.
	ResolveReferences bool

	// Validate runs the full OpenAPI structural validation before extraction.
	// Disabled by default: only what classification needs is checked.
	Validate bool

	// RequirePaths rejects documents without any path operations.
	RequirePaths bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles loading of external references.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithValidation toggles full document validation.
func WithValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.Validate = enabled
	}
}

// WithRequiredPaths rejects component-only documents.
func WithRequiredPaths(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.RequirePaths = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Construction helpers live in the top-level typegen package to avoid import cycles.
