// Package testsupport holds fixtures and helpers shared by the typegen test
// suites.
package testsupport

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-typegen/internal/openapi/parser"
	"github.com/goliatone/go-typegen/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

//go:embed testdata/petstore.yaml
var petstoreYAML []byte

// PetstoreName is the location reported by PetstoreSource.
const PetstoreName = "petstore.yaml"

// PetstoreYAML returns a copy of the petstore fixture.
func PetstoreYAML() []byte {
	return append([]byte(nil), petstoreYAML...)
}

// PetstoreSource returns an in-memory source for the petstore fixture.
func PetstoreSource() pkgopenapi.Source {
	return pkgopenapi.SourceFromBytes(PetstoreName, PetstoreYAML())
}

// LoadDocument reads a fixture and builds an openapi.Document using a file
// source. Testing helpers fail the test on error to keep call sites concise.
func LoadDocument(t *testing.T, path string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	if path == "" {
		return pkgopenapi.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustParse parses raw OpenAPI content with the default parser options.
func MustParse(t *testing.T, name, content string) pkgopenapi.Specification {
	t.Helper()

	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromString(name, content), []byte(content))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	spec, err := parser.New(pkgopenapi.NewParserOptions()).Parse(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return spec
}

// ArtifactPaths lists the relative paths of artifacts in order.
func ArtifactPaths(artifacts []metadata.GeneratedArtifact) []string {
	out := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		out = append(out, artifact.RelativePath)
	}
	return out
}

// FindArtifact returns the artifact with the given relative path.
func FindArtifact(t *testing.T, artifacts []metadata.GeneratedArtifact, relativePath string) metadata.GeneratedArtifact {
	t.Helper()

	for _, artifact := range artifacts {
		if artifact.RelativePath == relativePath {
			return artifact
		}
	}
	t.Fatalf("artifact %s not found in %v", relativePath, ArtifactPaths(artifacts))
	return metadata.GeneratedArtifact{}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// WriteFile writes content to name below dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
