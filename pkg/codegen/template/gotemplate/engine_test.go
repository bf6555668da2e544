package gotemplate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-typegen/pkg/codegen/template/gotemplate"
	"github.com/goliatone/go-typegen/pkg/testsupport"
)

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	engine, err := gotemplate.New(options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngineRenderString(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderString("Code generated from {{ source }}. DO NOT EDIT.", map[string]any{"source": "a&b <v2>.yaml"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Code generated from a&b <v2>.yaml. DO NOT EDIT."; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}

	again, err := engine.RenderString("Code generated from {{ source }}. DO NOT EDIT.", map[string]any{"source": "b.yaml"})
	if err != nil || again != "Code generated from b.yaml. DO NOT EDIT." {
		t.Fatalf("cached template rendered %q, %v", again, err)
	}
}

func TestEngineGlobals(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobals(map[string]any{"generator": "typegen", " ": "ignored"}))

	got, err := engine.RenderString("{{ generator }}/{{ kind }}", map[string]any{"kind": "model"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "typegen/model" {
		t.Fatalf("unexpected output %q", got)
	}

	got, err = engine.RenderString("{{ generator }}", map[string]any{"generator": "custom"})
	if err != nil || got != "custom" {
		t.Fatalf("render data must win over globals, got %q, %v", got, err)
	}
}

func TestEngineRenderFile(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, dir, "header.tpl", "Copyright {{ owner }}.\n{% if source %}Source: {{ source }}{% endif %}")

	engine := newEngine(t, gotemplate.WithBaseDir(dir))
	data := map[string]any{"owner": "Acme & Co", "source": "pets.yaml"}

	got, err := engine.RenderFile("header.tpl", data)
	if err != nil {
		t.Fatalf("render relative: %v", err)
	}
	if want := "Copyright Acme & Co.\nSource: pets.yaml"; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}

	absolute, err := newEngine(t).RenderFile(filepath.Join(dir, "header.tpl"), data)
	if err != nil || absolute != got {
		t.Fatalf("absolute path rendered %q, %v", absolute, err)
	}

	if _, err := engine.RenderFile("missing.tpl", nil); err == nil {
		t.Fatalf("expected an error for a missing template file")
	}
	if _, err := engine.RenderFile(" ", nil); err == nil {
		t.Fatalf("expected an error for a blank path")
	}
}

func TestEngineRejectsMissingBaseDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent", missing)
	}
	if _, err := gotemplate.New(gotemplate.WithBaseDir(missing)); err == nil {
		t.Fatalf("expected an error for a missing template directory")
	}
}

func TestEngineParseErrors(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderString("{% if %}", nil); err == nil {
		t.Fatalf("expected parse error")
	}

	dir := t.TempDir()
	path := testsupport.WriteFile(t, dir, "broken.tpl", "{% for %}")
	if _, err := engine.RenderFile(path, nil); err == nil {
		t.Fatalf("expected parse error for a broken file")
	}
}
