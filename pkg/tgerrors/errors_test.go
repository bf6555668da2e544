package tgerrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseError(t *testing.T) {
	t.Run("single issue with location", func(t *testing.T) {
		err := NewParseError("api.yaml", Issue{
			Message: "mapping values are not allowed in this context",
			Pointer: "/components/schemas",
			Line:    12,
			Column:  4,
		}, nil)

		want := "parse error in api.yaml: /components/schemas (line 12, column 4): mapping values are not allowed in this context"
		if got := err.Error(); got != want {
			t.Fatalf("unexpected message:\n got: %s\nwant: %s", got, want)
		}
	})

	t.Run("multiple issues are listed", func(t *testing.T) {
		err := &ParseError{Issues: []Issue{{Message: "first"}, {Message: "second", Line: 3}}}
		msg := err.Error()
		if !strings.Contains(msg, "2 issues") || !strings.Contains(msg, "  - (line 3): second") {
			t.Fatalf("unexpected message: %s", msg)
		}
	})

	t.Run("cause without issues", func(t *testing.T) {
		cause := errors.New("boom")
		err := &ParseError{Cause: cause}
		if err.Error() != "parse error: boom" {
			t.Fatalf("unexpected message: %s", err.Error())
		}
		//nolint:errorlint // testing pointer identity
		if err.Unwrap() != cause {
			t.Fatalf("expected Unwrap to return the cause")
		}
	})

	t.Run("matches sentinel through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("orchestrator: parse: %w", &ParseError{})
		if !errors.Is(wrapped, ErrParse) {
			t.Fatalf("expected errors.Is to match ErrParse")
		}
		if errors.Is(wrapped, ErrGeneration) {
			t.Fatalf("did not expect ErrGeneration to match")
		}
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("names type and target", func(t *testing.T) {
		err := &GenerationError{TypeName: "PetId", Target: "go", Reason: "pattern constraint requires a string kind"}
		want := `generation error for target "go" in type PetId: pattern constraint requires a string kind`
		if err.Error() != want {
			t.Fatalf("unexpected message: %s", err.Error())
		}
		if !errors.Is(err, ErrGeneration) {
			t.Fatalf("expected ErrGeneration match")
		}
		if errors.Is(err, ErrUnsupportedLanguage) {
			t.Fatalf("did not expect ErrUnsupportedLanguage match")
		}
	})

	t.Run("unsupported language", func(t *testing.T) {
		err := UnsupportedLanguage("cobol", []string{"go"})
		if !errors.Is(err, ErrUnsupportedLanguage) || !errors.Is(err, ErrGeneration) {
			t.Fatalf("expected both sentinels to match")
		}
		if !strings.Contains(err.Error(), `"cobol"`) || !strings.Contains(err.Error(), "available: go") {
			t.Fatalf("unexpected message: %s", err.Error())
		}
	})
}

func TestWarning(t *testing.T) {
	w := Warningf("Pet.age", "minimum %d ignored", 3)
	if w.String() != "Pet.age: minimum 3 ignored" {
		t.Fatalf("unexpected warning: %s", w)
	}
	if (Warning{Message: "bare"}).String() != "bare" {
		t.Fatalf("expected bare message when schema is empty")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "namespace", Message: "must be a valid identifier"}
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig match")
	}
	if err.Error() != "configuration error in namespace: must be a valid identifier" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
