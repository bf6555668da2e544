package openapi

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Source identifies where an OpenAPI document originated so loaders can
// operate on files, fs.FS entries, URLs or in-memory payloads without leaking
// implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// ContentSource is implemented by sources that carry their own payload
// (bytes, strings, streams). Loaders read them without touching the network
// or filesystem.
type ContentSource interface {
	Source
	Open() (io.Reader, error)
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
	SourceKindBytes  SourceKind = "bytes"
	SourceKindReader SourceKind = "reader"
)

// Document wraps the raw OpenAPI payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the OpenAPI payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// SchemaRefPrefix is the JSON pointer prefix of named component schemas.
const SchemaRefPrefix = "#/components/schemas/"

// Specification is the parsed, format-neutral view of an OpenAPI document
// consumed by the metadata extractor.
type Specification struct {
	// Version is the declared OpenAPI version (e.g. "3.0.3").
	Version string
	// Title is info.title.
	Title string
	// Location identifies the source document.
	Location string
	// Schemas lists components.schemas in document order.
	Schemas []NamedSchema
	// Operations lists every path operation ordered by path, then method.
	Operations []Operation
}

// NamedSchema is a components.schemas entry.
type NamedSchema struct {
	Name   string
	Schema Schema
	// Line and Column locate the definition in the source (0 if unknown).
	Line   int
	Column int
}

// Pointer returns the JSON pointer of the definition.
func (n NamedSchema) Pointer() string {
	return "/components/schemas/" + EscapePointerToken(n.Name)
}

// Lookup returns the named component schema.
func (s Specification) Lookup(name string) (Schema, bool) {
	for _, named := range s.Schemas {
		if named.Name == name {
			return named.Schema, true
		}
	}
	return Schema{}, false
}

// SchemaNames returns the component names in document order.
func (s Specification) SchemaNames() []string {
	names := make([]string, 0, len(s.Schemas))
	for _, named := range s.Schemas {
		names = append(names, named.Name)
	}
	return names
}

// Operation models the subset of OpenAPI operation metadata needed to build
// endpoint descriptors.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody Schema
	Responses   []Response
	Extensions  map[string]any
}

// Response pairs a status code with its body schema.
type Response struct {
	Status string
	Schema Schema
}

// NewOperation validates core fields and orders responses by status code.
func NewOperation(id, method, path string, request Schema, responses []Response) (Operation, error) {
	if id == "" {
		return Operation{}, errors.New("openapi: operation id is required")
	}
	if method == "" {
		return Operation{}, errors.New("openapi: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("openapi: operation path is required")
	}
	ordered := append([]Response(nil), responses...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Status < ordered[j].Status
	})

	return Operation{
		ID:          id,
		Method:      strings.ToUpper(method),
		Path:        path,
		RequestBody: request,
		Responses:   ordered,
	}, nil
}

// MustNewOperation panics when construction fails, assisting fixtures/tests.
func MustNewOperation(id, method, path string, request Schema, responses []Response) Operation {
	op, err := NewOperation(id, method, path, request, responses)
	if err != nil {
		panic(err)
	}
	return op
}

// HasResponse reports whether a response code has a schema registered.
func (op Operation) HasResponse(code string) bool {
	for _, response := range op.Responses {
		if response.Status == code {
			return true
		}
	}
	return false
}

// Schema represents a component schema, property or request/response body.
// References to named components are kept as Ref only (the target is looked
// up by name through Specification.Lookup), which keeps recursive component
// graphs finite.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Title       string
	Description string
	Default     any
	Enum        []any

	Required   []string
	Properties map[string]Schema
	// PropertyOrder lists Properties keys in declaration order.
	PropertyOrder []string
	Items         *Schema

	Pattern          string
	MinLength        *int
	MaxLength        *int
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool

	Nullable bool
	ReadOnly bool

	Extensions map[string]any
}

// RefName returns the component name a local schema reference points to.
// It returns false for external or non-schema references.
func (s Schema) RefName() (string, bool) {
	if !strings.HasPrefix(s.Ref, SchemaRefPrefix) {
		return "", false
	}
	name := UnescapePointerToken(strings.TrimPrefix(s.Ref, SchemaRefPrefix))
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

// IsRequired reports whether property is listed in Required.
func (s Schema) IsRequired(property string) bool {
	for _, name := range s.Required {
		if name == property {
			return true
		}
	}
	return false
}

// OrderedProperties returns property names in declaration order. Properties
// missing from PropertyOrder are appended in lexical order.
func (s Schema) OrderedProperties() []string {
	if len(s.Properties) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.Properties))
	seen := make(map[string]struct{}, len(s.Properties))
	for _, name := range s.PropertyOrder {
		if _, ok := s.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	var rest []string
	for name := range s.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// HasFacets reports whether any scalar validation facet is present.
func (s Schema) HasFacets() bool {
	return s.Pattern != "" ||
		s.MinLength != nil || s.MaxLength != nil ||
		s.Minimum != nil || s.Maximum != nil ||
		s.Format != "" || len(s.Enum) > 0
}

// Clone creates a deep copy of the schema tree to avoid accidental mutation.
func (s Schema) Clone() Schema {
	cloned := s
	if len(s.Required) > 0 {
		cloned.Required = append([]string(nil), s.Required...)
	}
	if len(s.Enum) > 0 {
		cloned.Enum = append([]any(nil), s.Enum...)
	}
	if len(s.PropertyOrder) > 0 {
		cloned.PropertyOrder = append([]string(nil), s.PropertyOrder...)
	}
	if len(s.Properties) > 0 {
		cloned.Properties = make(map[string]Schema, len(s.Properties))
		for k, v := range s.Properties {
			cloned.Properties[k] = v.Clone()
		}
	}
	if s.Items != nil {
		items := s.Items.Clone()
		cloned.Items = &items
	}
	if s.MinLength != nil {
		v := *s.MinLength
		cloned.MinLength = &v
	}
	if s.MaxLength != nil {
		v := *s.MaxLength
		cloned.MaxLength = &v
	}
	if s.Minimum != nil {
		v := *s.Minimum
		cloned.Minimum = &v
	}
	if s.Maximum != nil {
		v := *s.Maximum
		cloned.Maximum = &v
	}
	if len(s.Extensions) > 0 {
		cloned.Extensions = make(map[string]any, len(s.Extensions))
		for k, v := range s.Extensions {
			cloned.Extensions[k] = v
		}
	}
	return cloned
}

// DebugString renders the schema for logging without exposing implementation
// details.
func (s Schema) DebugString() string {
	summary := fmt.Sprintf("type=%s", s.Type)
	if s.Ref != "" {
		summary += fmt.Sprintf(",ref=%s", s.Ref)
	}
	if s.Format != "" {
		summary += fmt.Sprintf(",format=%s", s.Format)
	}
	if len(s.Required) > 0 {
		summary += fmt.Sprintf(",required=%d", len(s.Required))
	}
	if len(s.Properties) > 0 {
		summary += fmt.Sprintf(",properties=%d", len(s.Properties))
	}
	if s.Items != nil {
		summary += ",items=true"
	}
	return summary
}

// EscapePointerToken escapes a JSON pointer reference token (RFC 6901).
func EscapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// UnescapePointerToken reverses EscapePointerToken.
func UnescapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}
