package codegen

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-typegen/pkg/tgerrors"
)

// DefaultHeaderTemplate is rendered at the top of every generated file. It is
// a pongo2 template receiving source, target, package, type and kind, plus
// the generator name.
const DefaultHeaderTemplate = `Code generated by {{ generator }}{% if source %} from {{ source }}{% endif %}. DO NOT EDIT.`

const (
	// DefaultOutputDirectory is used when no output directory is configured.
	DefaultOutputDirectory = "generated"
	// DefaultDTODirectory holds the boundary types, relative to the output.
	DefaultDTODirectory = "DTO"
)

// Options control cosmetic and structural emission. They never change the
// semantics of the generated validation.
type Options struct {
	// Namespace is the package (or module) name of generated code. It defaults
	// to the base name of OutputDirectory.
	Namespace string `yaml:"namespace"`
	// ImportPath is the import path of the generated package, used to import
	// the DTO package. It defaults to Namespace.
	ImportPath string `yaml:"import_path"`
	// OutputDirectory is where the writer places artifacts.
	OutputDirectory string `yaml:"output_directory"`
	// IncludeDocumentation emits descriptions as doc comments.
	IncludeDocumentation bool `yaml:"include_documentation"`
	// IncludeValidationMetadataAnnotations adds validation tags to DTO fields.
	IncludeValidationMetadataAnnotations bool `yaml:"include_validation_metadata_annotations"`
	// UseNullableMarkers marks optional DTO fields as omittable on the wire.
	UseNullableMarkers bool `yaml:"use_nullable_markers"`
	// HeaderTemplate overrides DefaultHeaderTemplate.
	HeaderTemplate string `yaml:"header_template"`
	// HeaderTemplateFile names a template file used instead of
	// HeaderTemplate. LoadOptionsFile resolves it against the options file.
	HeaderTemplateFile string `yaml:"header_template_file"`
	// AdditionalImports are added to every generated file.
	AdditionalImports []string `yaml:"additional_imports"`
	// DTODirectory is the sub-path of boundary types.
	DTODirectory string `yaml:"dto_directory"`
	// SourceName identifies the specification; set by the pipeline driver.
	SourceName string `yaml:"-"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		OutputDirectory:      DefaultOutputDirectory,
		IncludeDocumentation: true,
		UseNullableMarkers:   true,
		HeaderTemplate:       DefaultHeaderTemplate,
		DTODirectory:         DefaultDTODirectory,
	}
}

// WithDefaults fills every empty string option. Boolean options are taken as
// given; start from DefaultOptions to get their defaults.
func (o Options) WithDefaults() Options {
	if strings.TrimSpace(o.OutputDirectory) == "" {
		o.OutputDirectory = DefaultOutputDirectory
	}
	if strings.TrimSpace(o.Namespace) == "" {
		o.Namespace = namespaceFromDirectory(o.OutputDirectory)
	}
	if strings.TrimSpace(o.ImportPath) == "" {
		o.ImportPath = o.Namespace
	}
	if strings.TrimSpace(o.HeaderTemplate) == "" {
		o.HeaderTemplate = DefaultHeaderTemplate
	}
	if strings.TrimSpace(o.DTODirectory) == "" {
		o.DTODirectory = DefaultDTODirectory
	}
	o.DTODirectory = path.Clean(filepath.ToSlash(o.DTODirectory))
	return o
}

func namespaceFromDirectory(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	switch base {
	case ".", string(filepath.Separator), "..", "":
		return DefaultOutputDirectory
	}
	return base
}

// Validate rejects option values that would produce unusable output.
func (o Options) Validate() error {
	dtoDir := filepath.ToSlash(o.DTODirectory)
	if path.IsAbs(dtoDir) || filepath.IsAbs(o.DTODirectory) {
		return &tgerrors.ConfigError{Option: "dto_directory", Message: "must be relative"}
	}
	if clean := path.Clean(dtoDir); clean == ".." || strings.HasPrefix(clean, "../") || clean == "." {
		return &tgerrors.ConfigError{Option: "dto_directory", Message: fmt.Sprintf("%q must stay inside the output directory", o.DTODirectory)}
	}
	for _, imp := range o.AdditionalImports {
		if strings.TrimSpace(imp) == "" {
			return &tgerrors.ConfigError{Option: "additional_imports", Message: "entries must not be blank"}
		}
	}
	return nil
}

// LoadOptions decodes YAML options on top of DefaultOptions. Unknown keys are
// rejected. An empty document yields the defaults.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, &tgerrors.ConfigError{Message: "decode options", Cause: err}
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptionsFile reads options from a YAML file.
func LoadOptionsFile(name string) (Options, error) {
	file, err := os.Open(name)
	if err != nil {
		return Options{}, &tgerrors.ConfigError{Message: "open options file", Cause: err}
	}
	defer file.Close()

	opts, err := LoadOptions(file)
	if err != nil {
		return Options{}, err
	}
	if opts.HeaderTemplateFile != "" && !filepath.IsAbs(opts.HeaderTemplateFile) {
		opts.HeaderTemplateFile = filepath.Join(filepath.Dir(name), opts.HeaderTemplateFile)
	}
	return opts, nil
}
