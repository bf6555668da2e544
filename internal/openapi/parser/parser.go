package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
	"github.com/goliatone/go-typegen/pkg/tgerrors"
)

// Parser implements pkgopenapi.Parser using kin-openapi, with a yaml.v3 node
// index for declaration order and source positions.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"}

// Parse converts a Document into a Specification.
func (p *Parser) Parse(ctx context.Context, doc pkgopenapi.Document) (pkgopenapi.Specification, error) {
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Specification{}, err
	}
	location := doc.Location()
	raw := doc.Raw()
	if len(raw) == 0 {
		return pkgopenapi.Specification{}, tgerrors.NewParseError(location, tgerrors.Issue{Message: "document payload is empty"}, nil)
	}

	index, err := buildIndex(raw)
	if err != nil {
		// Tab-indented JSON is valid JSON but not valid YAML; fall back to
		// lexical ordering in that case.
		if !json.Valid(raw) {
			line, column := lineFromMessage(err.Error())
			return pkgopenapi.Specification{}, tgerrors.NewParseError(location, tgerrors.Issue{
				Message: strings.TrimPrefix(err.Error(), "yaml: "),
				Line:    line,
				Column:  column,
			}, err)
		}
		index = nil
	}
	if issue, ok := checkVersion(index); !ok {
		return pkgopenapi.Specification{}, tgerrors.NewParseError(location, issue, nil)
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}
	if index != nil {
		detached, _, err := detachDanglingRefs(raw)
		if err != nil {
			return pkgopenapi.Specification{}, loadError(location, err)
		}
		raw = detached
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return pkgopenapi.Specification{}, loadError(location, err)
	}
	if !strings.HasPrefix(spec.OpenAPI, "3.") {
		issue := tgerrors.Issue{Pointer: "/openapi", Message: fmt.Sprintf("unsupported OpenAPI version %q", spec.OpenAPI)}
		issue.Line, issue.Column = positionFields(index, "/openapi")
		return pkgopenapi.Specification{}, tgerrors.NewParseError(location, issue, nil)
	}

	if p.options.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return pkgopenapi.Specification{}, &tgerrors.ParseError{
				Location: location,
				Issues:   []tgerrors.Issue{{Message: "validate: " + err.Error()}},
				Cause:    err,
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Specification{}, err
	}

	result := pkgopenapi.Specification{
		Version:  spec.OpenAPI,
		Location: location,
	}
	if spec.Info != nil {
		result.Title = spec.Info.Title
	}

	conv := newConverter(index)
	schemas := componentSchemas(spec)
	for _, name := range orderedNames(index, "/components/schemas", schemas) {
		named := pkgopenapi.NamedSchema{Name: name}
		pointer := named.Pointer()
		named.Schema = conv.convertNamed(schemas[name], pointer)
		named.Line, named.Column = positionFields(index, pointer)
		result.Schemas = append(result.Schemas, named)
	}

	result.Operations = p.collectOperations(ctx, conv, spec)
	if p.options.RequirePaths && len(result.Operations) == 0 {
		return pkgopenapi.Specification{}, tgerrors.NewParseError(location, tgerrors.Issue{
			Pointer: "/paths",
			Message: "document does not contain any operations",
		}, nil)
	}
	return result, nil
}

// checkVersion rejects documents without an openapi field or Swagger 2.0
// documents before kin-openapi sees them.
func checkVersion(index *nodeIndex) (tgerrors.Issue, bool) {
	if index == nil {
		return tgerrors.Issue{}, true
	}
	if version, ok := index.scalar("/openapi"); ok {
		if strings.HasPrefix(version, "3.") {
			return tgerrors.Issue{}, true
		}
		issue := tgerrors.Issue{Pointer: "/openapi", Message: fmt.Sprintf("unsupported OpenAPI version %q", version)}
		issue.Line, issue.Column = positionFields(index, "/openapi")
		return issue, false
	}
	if version, ok := index.scalar("/swagger"); ok {
		issue := tgerrors.Issue{Pointer: "/swagger", Message: fmt.Sprintf("Swagger %s documents are not supported; convert to OpenAPI 3.x", version)}
		issue.Line, issue.Column = positionFields(index, "/swagger")
		return issue, false
	}
	if !index.has("") || len(index.orderOf("")) == 0 {
		return tgerrors.Issue{Message: "document root must be a mapping"}, false
	}
	return tgerrors.Issue{Pointer: "/openapi", Message: "missing openapi version field"}, false
}

func loadError(location string, err error) error {
	msg := err.Error()
	line, column := lineFromMessage(msg)
	return tgerrors.NewParseError(location, tgerrors.Issue{
		Message: msg,
		Line:    line,
		Column:  column,
	}, err)
}

func positionFields(index *nodeIndex, pointer string) (int, int) {
	pos, ok := index.positionOf(pointer)
	if !ok {
		return 0, 0
	}
	return pos.line, pos.column
}

func componentSchemas(spec *openapi3.T) openapi3.Schemas {
	if spec.Components == nil {
		return nil
	}
	return spec.Components.Schemas
}

// orderedNames returns map keys in declaration order, followed by any keys the
// index does not know about in lexical order.
func orderedNames[V any](index *nodeIndex, pointer string, values map[string]V) []string {
	names := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, name := range index.orderOf(pointer) {
		if _, ok := values[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	var rest []string
	for name := range values {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func (p *Parser) collectOperations(ctx context.Context, conv *converter, spec *openapi3.T) []pkgopenapi.Operation {
	if spec.Paths == nil {
		return nil
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	var operations []pkgopenapi.Operation
	for _, path := range keys {
		item := paths[path]
		if item == nil || ctx.Err() != nil {
			continue
		}
		for _, method := range methodOrder {
			operation := item.GetOperation(method)
			if operation == nil {
				continue
			}
			if op, ok := p.collectOperation(conv, method, path, operation); ok {
				operations = append(operations, op)
			}
		}
	}
	return operations
}

func (p *Parser) collectOperation(conv *converter, method, path string, operation *openapi3.Operation) (pkgopenapi.Operation, bool) {
	opID := operation.OperationID
	if opID == "" {
		opID = strings.ToLower(method) + ":" + path
	}
	base := "/paths/" + pkgopenapi.EscapePointerToken(path) + "/" + strings.ToLower(method)
	requestSchema := extractRequestSchema(conv, operation.RequestBody, base+"/requestBody/content")
	responseSchemas := extractResponseSchemas(conv, operation.Responses, base+"/responses")

	op, err := pkgopenapi.NewOperation(opID, method, path, requestSchema, responseSchemas)
	if err != nil {
		// Invalid operations are skipped by leaving them out.
		return pkgopenapi.Operation{}, false
	}
	op.Summary = operation.Summary
	op.Description = operation.Description
	op.Extensions = extractExtensions(operation.Extensions)
	return op, true
}

var preferredMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

func pickMediaType(content openapi3.Content) (string, *openapi3.MediaType) {
	for _, mediaType := range preferredMediaTypes {
		if mt, ok := content[mediaType]; ok {
			return mediaType, mt
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		return key, content[key]
	}
	return "", nil
}

func extractRequestSchema(conv *converter, requestBody *openapi3.RequestBodyRef, pointer string) pkgopenapi.Schema {
	if requestBody == nil {
		return pkgopenapi.Schema{}
	}
	if requestBody.Value == nil {
		return pkgopenapi.Schema{Ref: requestBody.Ref}
	}
	mediaType, mt := pickMediaType(requestBody.Value.Content)
	if mt == nil {
		return pkgopenapi.Schema{}
	}
	return conv.convert(mt.Schema, pointer+"/"+pkgopenapi.EscapePointerToken(mediaType)+"/schema")
}

func extractResponseSchemas(conv *converter, responses *openapi3.Responses, pointer string) []pkgopenapi.Response {
	if responses == nil || responses.Len() == 0 {
		return nil
	}
	var result []pkgopenapi.Response
	for status, ref := range responses.Map() {
		if ref == nil || ref.Value == nil {
			continue
		}
		mediaType, mt := pickMediaType(ref.Value.Content)
		if mt == nil {
			continue
		}
		schemaPointer := pointer + "/" + pkgopenapi.EscapePointerToken(status) + "/content/" + pkgopenapi.EscapePointerToken(mediaType) + "/schema"
		schema := conv.convert(mt.Schema, schemaPointer)
		if schema.Ref == "" && schema.Type == "" && schema.Items == nil && len(schema.Properties) == 0 {
			continue
		}
		result = append(result, pkgopenapi.Response{Status: status, Schema: schema})
	}
	return result
}
