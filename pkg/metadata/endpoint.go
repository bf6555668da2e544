package metadata

import (
	"strings"
)

// EndpointMetadata describes one API operation in protocol-agnostic terms.
type EndpointMetadata struct {
	OperationID string
	Method      string
	Path        string
	// CanonicalPath is unique within one specification: "METHOD /path" with
	// path parameter names erased.
	CanonicalPath string
	Summary       string
	Description   string
	// RequestType names the model or data type of the request body.
	RequestType string
	Responses   []EndpointResponse
}

// EndpointResponse pairs a status code with the name of its body type.
type EndpointResponse struct {
	Status   string
	TypeName string
}

// CanonicalPath builds the canonical address of an operation, e.g.
// CanonicalPath("get", "/pets/{petId}") == "GET /pets/{}".
func CanonicalPath(method, path string) string {
	var b strings.Builder
	b.Grow(len(method) + len(path) + 1)
	b.WriteString(strings.ToUpper(method))
	b.WriteByte(' ')

	if path == "" || path[0] != '/' {
		b.WriteByte('/')
	}
	depth := 0
	for _, r := range path {
		switch {
		case r == '{':
			if depth == 0 {
				b.WriteRune(r)
			}
			depth++
		case r == '}' && depth > 0:
			depth--
			if depth == 0 {
				b.WriteRune(r)
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > len(method)+2 && strings.HasSuffix(out, "/") {
		out = strings.TrimSuffix(out, "/")
	}
	return out
}

// Clone returns a copy with its own response slice.
func (e EndpointMetadata) Clone() EndpointMetadata {
	e.Responses = append([]EndpointResponse(nil), e.Responses...)
	return e
}
