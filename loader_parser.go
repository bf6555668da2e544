package typegen

import (
	internalLoader "github.com/goliatone/go-typegen/internal/openapi/loader"
	internalParser "github.com/goliatone/go-typegen/internal/openapi/parser"
	"github.com/goliatone/go-typegen/pkg/extract"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// NewExtractor constructs the default metadata extractor.
func NewExtractor(options ...extract.Option) extract.Extractor {
	return extract.NewExtractor(options...)
}
