package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-typegen/pkg/codegen"
	"github.com/goliatone/go-typegen/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
	"github.com/goliatone/go-typegen/pkg/orchestrator"
	"github.com/goliatone/go-typegen/pkg/refine"
	"github.com/goliatone/go-typegen/pkg/registry"
	"github.com/goliatone/go-typegen/pkg/testsupport"
	"github.com/goliatone/go-typegen/pkg/tgerrors"
	"github.com/goliatone/go-typegen/pkg/writer"
)

func petstoreOptions(dir string) *codegen.Options {
	options := codegen.DefaultOptions()
	options.OutputDirectory = dir
	options.Namespace = "petstore"
	options.ImportPath = "example.com/petstore"
	return &options
}

func TestOrchestratorGeneratePetstore(t *testing.T) {
	ctx := testsupport.Context()
	orch := orchestrator.New()

	result, err := orch.Generate(ctx, orchestrator.Request{
		Source:  testsupport.PetstoreSource(),
		Options: petstoreOptions("out"),
	})
	require.NoError(t, err)

	assert.Equal(t, "go", result.Language)
	assert.Equal(t, testsupport.PetstoreName, result.Source)
	assert.Equal(t, "out", result.OutputDirectory)
	assert.Empty(t, result.Written)

	paths := testsupport.ArtifactPaths(result.Artifacts)
	assert.Equal(t, "ValidationError.go", paths[0], "support file comes first")
	assert.Subset(t, paths, []string{
		"PetId.go", "PetName.go", "PetAge.go", "PetTagsItem.go", "PetBornAt.go",
		"NewPetTagsItem2.go",
		"Owner.go", "Pet.go", "NewPet2.go",
		"DTO/Owner.go", "DTO/Pet.go", "DTO/NewPet2.go",
	})
	assert.NotContains(t, paths, "NewPet.go", "Pet declares func NewPet")

	pet := testsupport.FindArtifact(t, result.Artifacts, "Pet.go")
	content := string(pet.Content)
	assert.Contains(t, content, "// Code generated by typegen from petstore.yaml. DO NOT EDIT.")
	assert.Contains(t, content, "package petstore")
	assert.Contains(t, content, "// A pet available for adoption.")
	assert.Contains(t, content, "func NewPet(")
	assert.Contains(t, content, "func PetFromDTO(in dto.Pet) (Pet, error) {")

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "PetList", result.Warnings[0].Schema)

	var endpoints []string
	for _, endpoint := range result.Endpoints {
		endpoints = append(endpoints, endpoint.OperationID)
	}
	assert.Equal(t, []string{"listPets", "createPet", "getPet"}, endpoints)
	assert.Equal(t, "NewPet2", result.Endpoints[1].RequestType)
}

func TestOrchestratorRenamesTypesShadowedByConstructors(t *testing.T) {
	spec := `openapi: 3.0.3
info: {title: shadow, version: "1"}
paths: {}
components:
  schemas:
    Name:
      type: string
      minLength: 1
    Pet:
      type: object
      properties:
        name: {$ref: '#/components/schemas/Name'}
    NewPet:
      type: object
      properties:
        name: {$ref: '#/components/schemas/Name'}
`
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromString("shadow.yaml", ""), []byte(spec))
	result, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		Options:  petstoreOptions("out"),
	})
	require.NoError(t, err)

	var models []string
	for _, model := range result.Input.Models() {
		models = append(models, model.Name)
	}
	assert.Equal(t, []string{"Pet", "NewPet2"}, models)

	pet := string(testsupport.FindArtifact(t, result.Artifacts, "Pet.go").Content)
	assert.Contains(t, pet, "func NewPet(name *string) (Pet, error) {")
	renamed := string(testsupport.FindArtifact(t, result.Artifacts, "NewPet2.go").Content)
	assert.Contains(t, renamed, "type NewPet2 struct {")
	assert.Contains(t, renamed, "func NewNewPet2(")
}

func TestOrchestratorRunWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "petstore")
	orch := orchestrator.New()

	result, err := orch.Run(testsupport.Context(), orchestrator.Request{
		Source:  testsupport.PetstoreSource(),
		Options: petstoreOptions(dir),
	})
	require.NoError(t, err)
	require.Len(t, result.Written, len(result.Artifacts))

	content, err := os.ReadFile(filepath.Join(dir, "DTO", "Pet.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "package dto")
}

const petstoreBehaviour = `package petstore

import "testing"

func TestPetstore(t *testing.T) {
	if _, err := NewPet("PET-000001", "Rex", nil, nil, nil, nil); err != nil {
		t.Fatal(err)
	}
	created, err := NewNewPet2("Rex", []string{"calm"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewPet2FromDTO(created.ToDTO()); err != nil {
		t.Fatal(err)
	}
	if _, err := NewNewPet2("", nil); err == nil {
		t.Fatal("empty name accepted")
	}
}
`

func TestOrchestratorPetstoreCompiles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping go toolchain run in short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not available")
	}

	dir := filepath.Join(t.TempDir(), "petstore")
	_, err = orchestrator.New().Run(testsupport.Context(), orchestrator.Request{
		Source:  testsupport.PetstoreSource(),
		Options: petstoreOptions(dir),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/petstore\n\ngo 1.21\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "petstore_test.go"), []byte(petstoreBehaviour), 0o644))

	cmd := exec.Command(goBin, "test", "./...")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "generated petstore package does not build:\n%s", out)
}

func TestOrchestratorDryRun(t *testing.T) {
	memory := writer.NewMemoryWriter()
	orch := orchestrator.New(orchestrator.WithWriter(memory))

	result, err := orch.Run(testsupport.Context(), orchestrator.Request{
		Source:  testsupport.PetstoreSource(),
		Options: petstoreOptions("out"),
		DryRun:  true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Artifacts)
	assert.Empty(t, result.Written)
	assert.Empty(t, memory.Paths())
}

func TestOrchestratorUsesInjectedWriter(t *testing.T) {
	memory := writer.NewMemoryWriter()
	orch := orchestrator.New(orchestrator.WithWriter(memory))

	result, err := orch.Run(testsupport.Context(), orchestrator.Request{
		Source:  testsupport.PetstoreSource(),
		Options: petstoreOptions("out"),
	})
	require.NoError(t, err)
	assert.Len(t, memory.Paths(), len(result.Artifacts))

	_, ok := memory.File("out/PetId.go")
	assert.True(t, ok)
}

func TestOrchestratorUnsupportedLanguage(t *testing.T) {
	orch := orchestrator.New()
	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source:   testsupport.PetstoreSource(),
		Language: "cobol",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tgerrors.ErrUnsupportedLanguage))
	assert.Contains(t, err.Error(), "available: go")
	assert.Equal(t, []string{"go"}, orch.Languages())
}

func TestOrchestratorResolvesLanguageAliases(t *testing.T) {
	result, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Source:   testsupport.PetstoreSource(),
		Language: "Golang",
		Options:  petstoreOptions("out"),
	})
	require.NoError(t, err)
	assert.Equal(t, "go", result.Language)
}

func TestOrchestratorRequiresSource(t *testing.T) {
	_, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source or document is required")
}

func TestOrchestratorHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orchestrator.New().Run(ctx, orchestrator.Request{Source: testsupport.PetstoreSource()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOrchestratorDocumentBypassesLoader(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromString("inline.yaml", ""), testsupport.PetstoreYAML())
	result, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		Options:  petstoreOptions("out"),
	})
	require.NoError(t, err)
	assert.Equal(t, "inline.yaml", result.Source)
}

func TestOrchestratorRunsExtraRefiners(t *testing.T) {
	var seen string
	spy := refine.RefinerFunc(func(in *metadata.GenerationInput, ctx refine.Context) *metadata.GenerationInput {
		seen = ctx.Target
		return in
	})
	_, err := orchestrator.New(orchestrator.WithRefiners(spy)).Generate(testsupport.Context(), orchestrator.Request{
		Source:  testsupport.PetstoreSource(),
		Options: petstoreOptions("out"),
	})
	require.NoError(t, err)
	assert.Equal(t, "go", seen)
}

func TestOrchestratorRecordsMetadata(t *testing.T) {
	store := registry.NewStore()
	orch := orchestrator.New(orchestrator.WithMetadataRegistry(store))

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source:  testsupport.PetstoreSource(),
		Options: petstoreOptions("out"),
	})
	require.NoError(t, err)

	entry, ok := store.Get("Pet")
	require.True(t, ok)
	assert.True(t, entry.IsModel())
	assert.Equal(t, testsupport.PetstoreName, entry.Source)

	entry, ok = store.Get("PetId")
	require.True(t, ok)
	assert.Equal(t, metadata.KindString, entry.DataType.Kind)
}

func TestOrchestratorExtract(t *testing.T) {
	result, err := orchestrator.New().Extract(testsupport.Context(), orchestrator.Request{
		Source: testsupport.PetstoreSource(),
	})
	require.NoError(t, err)

	var models []string
	for _, model := range result.Models {
		models = append(models, model.Name)
	}
	assert.Equal(t, []string{"Owner", "Pet", "NewPet"}, models)
}

func TestOrchestratorGenerateAll(t *testing.T) {
	root := t.TempDir()
	orch := orchestrator.New(orchestrator.WithConcurrency(2))

	reqs := make([]orchestrator.Request, 0, 3)
	for _, name := range []string{"alpha", "beta", "gamma"} {
		reqs = append(reqs, orchestrator.Request{
			Source:  testsupport.PetstoreSource(),
			Options: petstoreOptions(filepath.Join(root, name)),
		})
	}

	results, err := orch.GenerateAll(testsupport.Context(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, name := range []string{"alpha", "beta", "gamma"} {
		assert.Equal(t, filepath.Join(root, name), results[i].OutputDirectory)
		_, err := os.Stat(filepath.Join(root, name, "Pet.go"))
		assert.NoError(t, err)
	}
}

func TestOrchestratorGenerateAllStopsOnFailure(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithWriter(writer.NewMemoryWriter()))
	_, err := orch.GenerateAll(testsupport.Context(), []orchestrator.Request{
		{Source: testsupport.PetstoreSource(), Options: petstoreOptions("a")},
		{Source: testsupport.PetstoreSource(), Language: "cobol"},
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "request 1"))
}
