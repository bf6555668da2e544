package extract

import "github.com/goliatone/go-typegen/pkg/logging"

// Options configures the behaviour of the Extractor. Options are constructed
// by the public adapter in pkg/extract and passed into New.
type Options struct {
	// Endpoints enables EndpointMetadata extraction from path operations.
	Endpoints bool
	// Namespace is the default NamespaceHint for models without an
	// x-typegen namespace override.
	Namespace string
	// Logger receives debug traces of classification decisions.
	Logger logging.Logger
}

func defaultOptions() Options {
	return Options{
		Logger: logging.NopLogger{},
	}
}
