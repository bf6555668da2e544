package codegen_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-typegen/pkg/codegen"
	"github.com/goliatone/go-typegen/pkg/metadata"
	"github.com/goliatone/go-typegen/pkg/refine"
	"github.com/goliatone/go-typegen/pkg/testsupport"
	"github.com/goliatone/go-typegen/pkg/tgerrors"
)

// recordingTarget emits one artifact per call and remembers the call order.
type recordingTarget struct {
	name  string
	calls []string
	fail  string
	path  func(name string) string
}

func (r *recordingTarget) Name() string            { return r.name }
func (r *recordingTarget) FileExtension() string   { return ".txt" }
func (r *recordingTarget) Refiner() refine.Refiner { return refine.Identity }
func (r *recordingTarget) ReservedNames() []string { return nil }

func (r *recordingTarget) emit(kind metadata.ArtifactKind, name string) (metadata.GeneratedArtifact, error) {
	r.calls = append(r.calls, string(kind)+":"+name)
	if name == r.fail {
		return metadata.GeneratedArtifact{}, &tgerrors.GenerationError{TypeName: name, Target: r.name, Reason: "boom"}
	}
	rel := string(kind) + "/" + name + r.FileExtension()
	if r.path != nil {
		rel = r.path(name)
	}
	return metadata.GeneratedArtifact{Name: name, RelativePath: rel, Content: []byte(name), Target: r.name, Kind: kind}, nil
}

func (r *recordingTarget) EmitSupport(*metadata.GenerationInput, codegen.Options) ([]metadata.GeneratedArtifact, error) {
	artifact, err := r.emit(metadata.ArtifactSupport, "Support")
	if err != nil {
		return nil, err
	}
	return []metadata.GeneratedArtifact{artifact}, nil
}

func (r *recordingTarget) EmitPrimitive(dt *metadata.DataType, _ *metadata.GenerationInput, _ codegen.Options) (metadata.GeneratedArtifact, error) {
	return r.emit(metadata.ArtifactPrimitive, dt.Name)
}

func (r *recordingTarget) EmitModel(model *metadata.ModelMetadata, _ *metadata.GenerationInput, _ codegen.Options) (metadata.GeneratedArtifact, error) {
	return r.emit(metadata.ArtifactModel, model.Name)
}

func (r *recordingTarget) EmitDTO(model *metadata.ModelMetadata, _ *metadata.GenerationInput, _ codegen.Options) (metadata.GeneratedArtifact, error) {
	return r.emit(metadata.ArtifactDTO, model.Name)
}

var _ codegen.Target = (*recordingTarget)(nil)

func sampleInput() *metadata.GenerationInput {
	id := &metadata.DataType{Name: "Id", Kind: metadata.KindString}
	count := &metadata.DataType{Name: "Count", Kind: metadata.KindInt32}
	model := &metadata.ModelMetadata{Name: "Item", Fields: []metadata.FieldMetadata{
		{Name: "id", DataType: id, IsRequired: true},
		{Name: "count", DataType: count},
	}}
	return metadata.MustNewGenerationInput([]*metadata.DataType{id, count}, []*metadata.ModelMetadata{model}, nil)
}

func TestGenerateOrder(t *testing.T) {
	target := &recordingTarget{name: "fake"}
	artifacts, err := codegen.Generate(context.Background(), target, sampleInput(), codegen.DefaultOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"support:Support", "primitive:Id", "primitive:Count", "model:Item", "dto:Item"}
	if diff := cmp.Diff(want, target.calls); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
	if len(artifacts) != len(want) {
		t.Fatalf("expected %d artifacts, got %d", len(want), len(artifacts))
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Run("nil target", func(t *testing.T) {
		_, err := codegen.Generate(context.Background(), nil, sampleInput(), codegen.DefaultOptions())
		if !errors.Is(err, tgerrors.ErrGeneration) {
			t.Fatalf("expected generation error, got %v", err)
		}
	})

	t.Run("emitter failure", func(t *testing.T) {
		target := &recordingTarget{name: "fake", fail: "Count"}
		_, err := codegen.Generate(context.Background(), target, sampleInput(), codegen.DefaultOptions())
		var genErr *tgerrors.GenerationError
		if !errors.As(err, &genErr) || genErr.TypeName != "Count" {
			t.Fatalf("expected failure on Count, got %v", err)
		}
	})

	t.Run("duplicate path", func(t *testing.T) {
		target := &recordingTarget{name: "fake", path: func(string) string { return "same.txt" }}
		_, err := codegen.Generate(context.Background(), target, sampleInput(), codegen.DefaultOptions())
		if err == nil || !strings.Contains(err.Error(), "already produced") {
			t.Fatalf("expected duplicate path error, got %v", err)
		}
	})

	t.Run("paths differing only in case", func(t *testing.T) {
		target := &recordingTarget{name: "fake", path: func(name string) string {
			if name == "Count" {
				return "types/ID.txt"
			}
			return "types/" + name + ".txt"
		}}
		_, err := codegen.Generate(context.Background(), target, sampleInput(), codegen.DefaultOptions())
		var genErr *tgerrors.GenerationError
		if !errors.As(err, &genErr) || genErr.TypeName != "Count" {
			t.Fatalf("expected a clash on Count, got %v", err)
		}
		if !strings.Contains(genErr.Reason, "types/ID.txt is already produced by Id") {
			t.Fatalf("unexpected reason %q", genErr.Reason)
		}
	})

	t.Run("invalid options", func(t *testing.T) {
		options := codegen.DefaultOptions()
		options.DTODirectory = "../outside"
		_, err := codegen.Generate(context.Background(), &recordingTarget{name: "fake"}, sampleInput(), options)
		if !errors.Is(err, tgerrors.ErrConfig) {
			t.Fatalf("expected config error, got %v", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := codegen.Generate(ctx, &recordingTarget{name: "fake"}, sampleInput(), codegen.DefaultOptions())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

// aliasedTarget answers to extra language names.
type aliasedTarget struct {
	*recordingTarget
	aliases []string
}

func (a aliasedTarget) Aliases() []string { return a.aliases }

// dotlessTarget reports a file extension without the leading dot.
type dotlessTarget struct{ *recordingTarget }

func (dotlessTarget) FileExtension() string { return "ts" }

func TestRegistry(t *testing.T) {
	registry := codegen.NewRegistry()
	registry.MustRegister(&recordingTarget{name: "zz"})
	golang := aliasedTarget{recordingTarget: &recordingTarget{name: "go"}, aliases: []string{"Golang", " go "}}
	registry.MustRegister(golang)

	if err := registry.Register(&recordingTarget{name: "GO"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := registry.Register(aliasedTarget{recordingTarget: &recordingTarget{name: "tinygo"}, aliases: []string{"golang"}}); err == nil {
		t.Fatal("expected an alias clash to fail")
	}
	if registry.Has("tinygo") {
		t.Fatal("a rejected target must not be registered")
	}
	if err := registry.Register(&recordingTarget{}); err == nil {
		t.Fatal("expected empty name to fail")
	}
	if err := registry.Register(dotlessTarget{&recordingTarget{name: "ts"}}); err == nil {
		t.Fatal("expected an extension without a dot to fail")
	}
	if diff := cmp.Diff([]string{"go", "zz"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("go") || !registry.Has("GOLANG") || registry.Has("cobol") {
		t.Fatal("Has reported the wrong membership")
	}

	for _, name := range []string{"go", " Go ", "golang"} {
		target, err := registry.Get(name)
		if err != nil || target.Name() != "go" {
			t.Fatalf("Get(%q) = %v, %v", name, target, err)
		}
	}

	_, err := registry.Get("cobol")
	if !errors.Is(err, tgerrors.ErrUnsupportedLanguage) {
		t.Fatalf("expected unsupported language, got %v", err)
	}
	if !strings.Contains(err.Error(), "available: go, zz") {
		t.Fatalf("error should list targets: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	got := codegen.Options{OutputDirectory: "out/petstore"}.WithDefaults()
	if got.Namespace != "petstore" || got.ImportPath != "petstore" {
		t.Fatalf("namespace defaults = %q / %q", got.Namespace, got.ImportPath)
	}
	if got.DTODirectory != codegen.DefaultDTODirectory || got.HeaderTemplate != codegen.DefaultHeaderTemplate {
		t.Fatalf("unexpected defaults: %+v", got)
	}

	got = codegen.Options{OutputDirectory: "."}.WithDefaults()
	if got.Namespace != codegen.DefaultOutputDirectory {
		t.Fatalf("namespace for . = %q", got.Namespace)
	}
}

func TestOptionsValidate(t *testing.T) {
	cases := map[string]codegen.Options{
		"absolute dto": {DTODirectory: "/tmp/dto"},
		"escaping dto": {DTODirectory: "../dto"},
		"dot dto":      {DTODirectory: "."},
		"blank import": {DTODirectory: "DTO", AdditionalImports: []string{" "}},
	}
	for name, options := range cases {
		t.Run(name, func(t *testing.T) {
			if err := options.Validate(); !errors.Is(err, tgerrors.ErrConfig) {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	yamlDoc := `
namespace: petstore
import_path: example.com/petstore
include_documentation: false
additional_imports:
  - embed
`
	got, err := codegen.LoadOptions(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := codegen.DefaultOptions()
	want.Namespace = "petstore"
	want.ImportPath = "example.com/petstore"
	want.IncludeDocumentation = false
	want.AdditionalImports = []string{"embed"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	empty, err := codegen.LoadOptions(strings.NewReader(""))
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if diff := cmp.Diff(codegen.DefaultOptions(), empty); diff != "" {
		t.Fatalf("empty document should yield defaults (-want +got):\n%s", diff)
	}

	if _, err := codegen.LoadOptions(strings.NewReader("unknown_key: true\n")); !errors.Is(err, tgerrors.ErrConfig) {
		t.Fatalf("expected config error for unknown key, got %v", err)
	}
}

func TestLoadOptionsFileResolvesHeaderTemplate(t *testing.T) {
	dir := t.TempDir()
	config := testsupport.WriteFile(t, dir, "typegen.yaml", "header_template_file: templates/header.tpl\n")

	got, err := codegen.LoadOptionsFile(config)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := filepath.Join(dir, "templates", "header.tpl"); got.HeaderTemplateFile != want {
		t.Fatalf("header template file = %q, want %q", got.HeaderTemplateFile, want)
	}

	absolute := filepath.Join(t.TempDir(), "header.tpl")
	config = testsupport.WriteFile(t, dir, "absolute.yaml", "header_template_file: "+absolute+"\n")
	got, err = codegen.LoadOptionsFile(config)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.HeaderTemplateFile != absolute {
		t.Fatalf("absolute paths must be kept, got %q", got.HeaderTemplateFile)
	}
}
