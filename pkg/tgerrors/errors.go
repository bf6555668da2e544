// Package tgerrors provides the structured error types shared by the typegen
// pipeline stages.
//
// Three categories exist:
//
//   - [ParseError]: the specification cannot be parsed at all. Fatal for the
//     run; carries one [Issue] per problem with a JSON pointer and, when known,
//     the line/column of the offending input.
//   - [Warning]: a single schema could not be classified or had an invalid
//     facet. Never returned as an error; collected alongside the extracted
//     metadata.
//   - [GenerationError]: a generation request failed (unsupported target
//     language, untranslatable constraint). Identifies the type and target.
//
// Each error type matches a sentinel through [errors.Is]:
//
//	if errors.Is(err, tgerrors.ErrUnsupportedLanguage) {
//	    // show the list of registered targets
//	}
package tgerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse matches any ParseError.
	ErrParse = errors.New("parse error")

	// ErrGeneration matches any GenerationError.
	ErrGeneration = errors.New("generation error")

	// ErrUnsupportedLanguage matches GenerationError values raised because the
	// requested target language is not registered.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrConfig indicates invalid generation options.
	ErrConfig = errors.New("configuration error")
)

// Issue is a single structural problem found while parsing a specification.
type Issue struct {
	// Message describes the problem.
	Message string `json:"message"`
	// Pointer is the JSON pointer of the offending node ("" for the document root).
	Pointer string `json:"pointer,omitempty"`
	// Line is the 1-based line number (0 if unknown).
	Line int `json:"line,omitempty"`
	// Column is the 1-based column number (0 if unknown).
	Column int `json:"column,omitempty"`
}

// String renders the issue with its location when available.
func (i Issue) String() string {
	var b strings.Builder
	if i.Pointer != "" {
		b.WriteString(i.Pointer)
	}
	if i.Line > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "(line %d", i.Line)
		if i.Column > 0 {
			fmt.Fprintf(&b, ", column %d", i.Column)
		}
		b.WriteString(")")
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// ParseError reports a specification that could not be parsed.
type ParseError struct {
	// Location is the file path, URL or name of the source.
	Location string
	// Issues lists every problem found, in document order.
	Issues []Issue
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Location != "" {
		msg += " in " + e.Location
	}
	switch len(e.Issues) {
	case 0:
		if e.Cause != nil {
			msg += ": " + e.Cause.Error()
		}
	case 1:
		msg += ": " + e.Issues[0].String()
	default:
		parts := make([]string, 0, len(e.Issues))
		for _, issue := range e.Issues {
			parts = append(parts, "  - "+issue.String())
		}
		msg += fmt.Sprintf(": %d issues\n%s", len(e.Issues), strings.Join(parts, "\n"))
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError builds a ParseError with a single issue.
func NewParseError(location string, issue Issue, cause error) *ParseError {
	return &ParseError{Location: location, Issues: []Issue{issue}, Cause: cause}
}

// Warning is a non-fatal extraction problem tagged with the schema it concerns.
type Warning struct {
	// Schema names the schema (or Schema.property) the warning is about.
	Schema string `json:"schema"`
	// Message describes the problem.
	Message string `json:"message"`
}

// String renders the warning as "Schema: message".
func (w Warning) String() string {
	if w.Schema == "" {
		return w.Message
	}
	return w.Schema + ": " + w.Message
}

// Warningf formats a Warning for schema.
func Warningf(schema, format string, args ...any) Warning {
	return Warning{Schema: schema, Message: fmt.Sprintf(format, args...)}
}

// GenerationError reports a failed generation request.
type GenerationError struct {
	// TypeName is the offending type, empty when the failure is not type specific.
	TypeName string
	// Target is the requested target language identifier.
	Target string
	// Reason describes the failure.
	Reason string
	// Unsupported is true when Target is not a registered language.
	Unsupported bool
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *GenerationError) Error() string {
	msg := "generation error"
	if e.Target != "" {
		msg += fmt.Sprintf(" for target %q", e.Target)
	}
	if e.TypeName != "" {
		msg += fmt.Sprintf(" in type %s", e.TypeName)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is matches ErrGeneration, and ErrUnsupportedLanguage when Unsupported is set.
func (e *GenerationError) Is(target error) bool {
	if target == ErrGeneration {
		return true
	}
	return target == ErrUnsupportedLanguage && e.Unsupported
}

// UnsupportedLanguage builds the error returned for unknown target identifiers.
func UnsupportedLanguage(target string, available []string) *GenerationError {
	reason := "language is not supported"
	if len(available) > 0 {
		reason += " (available: " + strings.Join(available, ", ") + ")"
	}
	return &GenerationError{Target: target, Reason: reason, Unsupported: true}
}

// ConfigError reports invalid generation options.
type ConfigError struct {
	// Option names the offending option.
	Option string
	// Message describes the problem.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " in " + e.Option
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
