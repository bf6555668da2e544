package extract

import (
	"strings"

	"github.com/goliatone/go-typegen/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

// extractEndpoints describes every operation. Operations whose canonical path
// was already taken are skipped with a warning so canonical paths stay unique.
func (r *run) extractEndpoints() {
	seen := make(map[string]string, len(r.spec.Operations))
	for _, op := range r.spec.Operations {
		canonical := metadata.CanonicalPath(op.Method, op.Path)
		if previous, dup := seen[canonical]; dup {
			r.warn(op.ID, "operation skipped: canonical path %q is already used by %s", canonical, previous)
			continue
		}
		seen[canonical] = op.ID

		endpoint := metadata.EndpointMetadata{
			OperationID:   op.ID,
			Method:        op.Method,
			Path:          op.Path,
			CanonicalPath: canonical,
			Summary:       op.Summary,
			Description:   op.Description,
		}
		pointer := "/paths/" + pkgopenapi.EscapePointerToken(op.Path) + "/" + strings.ToLower(op.Method)
		endpoint.RequestType = r.bodyTypeName(op.ID, "request", pointer+"/requestBody", op.RequestBody)
		for _, response := range op.Responses {
			name := r.bodyTypeName(op.ID, response.Status+"_response", pointer+"/responses/"+response.Status, response.Schema)
			endpoint.Responses = append(endpoint.Responses, metadata.EndpointResponse{
				Status:   response.Status,
				TypeName: name,
			})
		}
		r.endpoints = append(r.endpoints, endpoint)
	}
}

// bodyTypeName names the type carried by a request or response body.
// Collections are prefixed with "[]". Inline objects become models named
// after the operation; inline scalars have no named type.
func (r *run) bodyTypeName(operationID, role, pointer string, schema pkgopenapi.Schema) string {
	label := operationID + "." + role
	if items, ok, err := r.collectionItems(schema); err != nil {
		r.warn(label, "body type ignored: %v", err)
		return ""
	} else if ok {
		if name := r.elementTypeName(joinHint(operationID, role)+"Item", label, pointer+"/items", items); name != "" {
			return "[]" + name
		}
		return ""
	}
	return r.elementTypeName(joinHint(operationID, role), label, pointer, schema)
}

func (r *run) elementTypeName(hint, label, pointer string, schema pkgopenapi.Schema) string {
	if schema.Ref != "" {
		dt, err := r.resolveReference(schema)
		if err != nil {
			r.warn(label, "body type ignored: %v", err)
			return ""
		}
		return dt.Name
	}
	if len(schema.Properties) == 0 || (schema.Type != "object" && schema.Type != "") {
		return ""
	}
	name := r.names.synthesize(schema.Title, hint, pointer)
	model, nested, err := r.buildModel(name, label, pointer, schema, true)
	if err != nil {
		r.warn(label, "inline body ignored: %v", err)
		return ""
	}
	r.addModel(model)
	for _, child := range nested {
		r.addModel(child)
	}
	return name
}
