package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-typegen/pkg/testsupport"
	"github.com/goliatone/go-typegen/pkg/tgerrors"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), testsupport.PetstoreName)
	if err := os.WriteFile(path, testsupport.PetstoreYAML(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, stdin io.Reader, args []string, opts ...Option) (string, error) {
	t.Helper()
	root := NewRootCommand(opts...)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestLanguagesCommand(t *testing.T) {
	out, err := execute(t, nil, []string{"languages"})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if diff := cmp.Diff("go\n", out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "petstore")
	out, err := execute(t, nil, []string{
		"generate",
		"--from", writeFixture(t),
		"--to", dir,
		"--import-path", "example.com/petstore",
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.HasPrefix(out, "generated ") || !strings.Contains(out, dir) {
		t.Fatalf("unexpected summary %q", out)
	}

	pet := readFile(t, filepath.Join(dir, "Pet.go"))
	for _, want := range []string{
		"package petstore",
		`dto "example.com/petstore/DTO"`,
		"func NewPet(",
	} {
		if !strings.Contains(pet, want) {
			t.Errorf("Pet.go missing %q", want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "DTO", "Pet.go")); err != nil {
		t.Errorf("DTO not written: %v", err)
	}
}

func TestGenerateDryRunFromStdin(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "petstore")
	out, err := execute(t, bytes.NewReader(testsupport.PetstoreYAML()), []string{
		"generate", "--from", "-", "--to", dir, "--dry-run",
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "ValidationError.go" {
		t.Fatalf("first artifact = %q", lines[0])
	}
	for _, want := range []string{"Pet.go", "DTO/Pet.go", "PetId.go"} {
		found := false
		for _, line := range lines {
			if line == want {
				found = true
			}
		}
		if !found {
			t.Errorf("dry run output missing %s:\n%s", want, out)
		}
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("dry run created %s", dir)
	}
}

func TestGenerateUnsupportedLanguage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	_, err := execute(t, nil, []string{
		"generate", "--from", writeFixture(t), "--to", dir, "--language", "cobol",
	})
	if !errors.Is(err, tgerrors.ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if !strings.Contains(err.Error(), "cobol") {
		t.Errorf("error should name the language: %v", err)
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Fatalf("failed run created %s", dir)
	}
}

func TestGenerateRequiresFrom(t *testing.T) {
	_, err := execute(t, nil, []string{"generate", "--dry-run"})
	if err == nil || !strings.Contains(err.Error(), "--from is required") {
		t.Fatalf("expected missing --from error, got %v", err)
	}
}

func TestGenerateParseErrorWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	_, err := execute(t, strings.NewReader("openapi: [unterminated"), []string{
		"generate", "--from", "-", "--to", dir,
	})
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Fatalf("failed run created %s", dir)
	}
}

func TestGenerateWarnsAboutMissingSchemas(t *testing.T) {
	const document = `openapi: 3.0.3
info: {title: pets, version: "1"}
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        name: {type: string, minLength: 1}
        owner: {$ref: '#/components/schemas/Owner'}
`
	dir := filepath.Join(t.TempDir(), "pets")
	out, err := execute(t, strings.NewReader(document), []string{"generate", "--from", "-", "--to", dir})
	if err != nil {
		t.Fatalf("a missing schema must not fail generation: %v", err)
	}
	if !strings.Contains(out, "(1 warnings)") {
		t.Fatalf("unexpected summary %q", out)
	}
	if pet := readFile(t, filepath.Join(dir, "Pet.go")); strings.Contains(pet, "owner") {
		t.Errorf("the unresolved property should be dropped:\n%s", pet)
	}
}

func TestGenerateConfigFile(t *testing.T) {
	root := t.TempDir()
	config := filepath.Join(root, "typegen.yaml")
	content := "namespace: custom\ninclude_documentation: false\n"
	if err := os.WriteFile(config, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(root, "out")

	if _, err := execute(t, nil, []string{
		"generate", "--from", writeFixture(t), "--to", dir, "--config", config,
	}); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	pet := readFile(t, filepath.Join(dir, "Pet.go"))
	if !strings.Contains(pet, "package custom") {
		t.Errorf("config namespace not applied:\n%s", pet)
	}
	if strings.Contains(pet, "available for adoption") {
		t.Errorf("documentation should be omitted:\n%s", pet)
	}
}

func TestGenerateConfigFileFlagsOverride(t *testing.T) {
	root := t.TempDir()
	config := filepath.Join(root, "typegen.yaml")
	if err := os.WriteFile(config, []byte("namespace: custom\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(root, "out")

	if _, err := execute(t, nil, []string{
		"generate", "--from", writeFixture(t), "--to", dir, "--config", config, "--namespace", "flagged",
	}); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if pet := readFile(t, filepath.Join(dir, "Pet.go")); !strings.Contains(pet, "package flagged") {
		t.Errorf("--namespace should override the config file")
	}
}

func TestGenerateHeaderTemplate(t *testing.T) {
	root := t.TempDir()
	header := filepath.Join(root, "header.tpl")
	if err := os.WriteFile(header, []byte("Copyright Acme. Generated from {{ source }}."), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(root, "out")

	if _, err := execute(t, nil, []string{
		"generate", "--from", writeFixture(t), "--to", dir, "--header-template", header,
	}); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	pet := readFile(t, filepath.Join(dir, "Pet.go"))
	if !strings.HasPrefix(pet, "// Copyright Acme. Generated from petstore.yaml.\n") {
		t.Errorf("header template not applied:\n%s", pet)
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	config := filepath.Join(t.TempDir(), "typegen.yaml")
	if err := os.WriteFile(config, []byte("unknown_key: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, nil, []string{"generate", "--from", writeFixture(t), "--config", config, "--dry-run"})
	var cfgErr *tgerrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

type fakeDriver struct {
	inputs   map[string]string
	confirm  bool
	asked    []string
	defaults map[string]string
}

func (d *fakeDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if d.defaults == nil {
		d.defaults = make(map[string]string)
	}
	d.defaults[cfg.Message] = cfg.Default
	value, ok := d.inputs[cfg.Message]
	if !ok {
		value = cfg.Default
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func (d *fakeDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	return d.confirm, nil
}

func (d *fakeDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	return 0, nil
}

func TestGenerateInteractive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "animals")
	driver := &fakeDriver{
		inputs: map[string]string{
			"OpenAPI document": writeFixture(t),
			"Output directory": dir,
		},
		confirm: true,
	}

	if _, err := execute(t, nil, []string{"generate", "--interactive"}, WithPromptDriver(driver)); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	want := []string{
		"OpenAPI document",
		"Output directory",
		"Package name",
		"Write generated files to " + dir + "?",
	}
	if diff := cmp.Diff(want, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if got := driver.defaults["Package name"]; got != "animals" {
		t.Errorf("package name default = %q, want animals", got)
	}
	if pet := readFile(t, filepath.Join(dir, "Pet.go")); !strings.Contains(pet, "package animals") {
		t.Errorf("interactive namespace not applied")
	}
}

func TestGenerateInteractiveDeclined(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	driver := &fakeDriver{confirm: false}

	out, err := execute(t, nil, []string{
		"generate", "--interactive", "--from", writeFixture(t), "--to", dir, "--namespace", "pets",
	}, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if diff := cmp.Diff("generation cancelled\n", out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Write generated files to " + dir + "?"}, driver.asked); diff != "" {
		t.Fatalf("only the confirmation should be asked (-want +got):\n%s", diff)
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Fatalf("declined run created %s", dir)
	}
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		location string
		wantErr  bool
	}{
		{name: "file", raw: " specs/api.yaml ", location: "specs/api.yaml"},
		{name: "stdin", raw: "-", location: "stdin"},
		{name: "url", raw: "https://example.com/api.yaml", location: "https://example.com/api.yaml"},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := parseSource(tt.raw, strings.NewReader(""))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src.Location() != tt.location {
				t.Fatalf("location = %q, want %q", src.Location(), tt.location)
			}
		})
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	if got := translateSurveyErr(errors.New("boom")); got.Error() != "boom" {
		t.Fatalf("unexpected translation: %v", got)
	}
	if got := indexOf([]string{"go", "ts"}, "ts"); got != 1 {
		t.Fatalf("indexOf = %d", got)
	}
	if got := indexOf([]string{"go"}, "rust"); got != -1 {
		t.Fatalf("indexOf = %d", got)
	}
}
