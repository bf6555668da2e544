package golang

import (
	"fmt"
	"path"

	"github.com/goliatone/go-typegen/pkg/codegen"
	"github.com/goliatone/go-typegen/pkg/codegen/template"
	"github.com/goliatone/go-typegen/pkg/codegen/template/gotemplate"
	"github.com/goliatone/go-typegen/pkg/logging"
	"github.com/goliatone/go-typegen/pkg/metadata"
	"github.com/goliatone/go-typegen/pkg/refine"
	"github.com/goliatone/go-typegen/pkg/tgerrors"
)

// Name is the identifier of the Go target.
const Name = "go"

const (
	supportTypeName = "ValidationError"
	dtoPackage      = "dto"
	generatorName   = "typegen"
)

// Option configures the Go target.
type Option func(*Target)

// WithLogger routes emission traces to logger.
func WithLogger(logger logging.Logger) Option {
	return func(t *Target) {
		t.logger = logging.OrNop(logger)
	}
}

// WithTemplateRenderer replaces the pongo2 engine used for file headers.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(t *Target) {
		if renderer != nil {
			t.templates = renderer
		}
	}
}

// WithRefiner replaces the default PascalCase refiner.
func WithRefiner(refiner refine.Refiner) Option {
	return func(t *Target) {
		if refiner != nil {
			t.refiner = refiner
		}
	}
}

// Target emits Go source code.
type Target struct {
	logger    logging.Logger
	templates template.TemplateRenderer
	refiner   refine.Refiner
}

var (
	_ codegen.Target  = (*Target)(nil)
	_ codegen.Aliased = (*Target)(nil)
	_ refine.Declarer = (*Target)(nil)
)

// New constructs the Go target.
func New(options ...Option) (*Target, error) {
	t := &Target{
		logger:  logging.NopLogger{},
		refiner: refine.PascalCase(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	if t.templates == nil {
		engine, err := gotemplate.New(gotemplate.WithGlobals(map[string]any{"generator": generatorName}))
		if err != nil {
			return nil, fmt.Errorf("golang: template engine: %w", err)
		}
		t.templates = engine
	}
	return t, nil
}

// MustNew panics when the target cannot be constructed.
func MustNew(options ...Option) *Target {
	t, err := New(options...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Target) Name() string            { return Name }
func (t *Target) Aliases() []string       { return []string{"golang"} }
func (t *Target) FileExtension() string   { return ".go" }
func (t *Target) Refiner() refine.Refiner { return t.refiner }

// ReservedNames returns the support type names declared in every package.
func (t *Target) ReservedNames() []string {
	return []string{supportTypeName}
}

// DataTypeDeclarations lists the identifiers the wrapper of dt declares when
// it is named name.
func (t *Target) DataTypeDeclarations(name string, dt *metadata.DataType) []string {
	return primitiveDeclarations(typeName(name), dt)
}

// ModelDeclarations lists the identifiers the model file of a model named
// name declares.
func (t *Target) ModelDeclarations(name string, _ *metadata.ModelMetadata) []string {
	return modelDeclarations(typeName(name))
}

// checkDeclarations fails when two types of input would declare the same
// package-level identifier. Refinement normally prevents this; a custom
// refiner may not.
func (t *Target) checkDeclarations(input *metadata.GenerationInput) error {
	owners := map[string]string{supportTypeName: supportTypeName, "ref": supportTypeName}
	declare := func(owner string, idents []string) error {
		for _, ident := range idents {
			if other, taken := owners[ident]; taken {
				return t.fail(owner, fmt.Sprintf("identifier %s is also declared by %s", ident, other), nil)
			}
			owners[ident] = owner
		}
		return nil
	}
	for _, dt := range input.DataTypes() {
		ident := typeName(dt.Name)
		if err := declare(ident, primitiveDeclarations(ident, dt)); err != nil {
			return err
		}
	}
	for _, model := range input.Models() {
		ident := typeName(model.Name)
		if err := declare(ident, modelDeclarations(ident)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Target) fail(typeName, reason string, cause error) error {
	return &tgerrors.GenerationError{TypeName: typeName, Target: Name, Reason: reason, Cause: cause}
}

// header renders the configured header template for one artifact. A header
// template file takes precedence over the inline template.
func (t *Target) header(options codegen.Options, pkg, name string, kind metadata.ArtifactKind) (string, error) {
	data := map[string]any{
		"source":  options.SourceName,
		"target":  Name,
		"package": pkg,
		"type":    name,
		"kind":    string(kind),
	}
	if options.HeaderTemplateFile != "" {
		return t.templates.RenderFile(options.HeaderTemplateFile, data)
	}
	return t.templates.RenderString(options.HeaderTemplate, data)
}

// finish renders b into an artifact.
func (t *Target) finish(b *fileBuilder, options codegen.Options, name, relativePath string, kind metadata.ArtifactKind) (metadata.GeneratedArtifact, error) {
	for _, spec := range options.AdditionalImports {
		b.useRaw(spec)
	}
	header, err := t.header(options, b.pkg, name, kind)
	if err != nil {
		return metadata.GeneratedArtifact{}, t.fail(name, "render header", err)
	}
	content, err := b.render(path.Base(relativePath), header)
	if err != nil {
		return metadata.GeneratedArtifact{}, t.fail(name, "format source", err)
	}
	t.logger.Debug("emitted artifact", "type", name, "path", relativePath, "kind", kind, "bytes", len(content))
	return metadata.GeneratedArtifact{
		Name:         name,
		RelativePath: relativePath,
		Content:      content,
		Target:       Name,
		Kind:         kind,
	}, nil
}

func dtoImportPath(options codegen.Options) string {
	return path.Join(options.ImportPath, options.DTODirectory)
}

func (t *Target) fileName(ident string) string {
	return ident + t.FileExtension()
}
