package openapi

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Detect reports whether the raw payload appears to be an OpenAPI or Swagger
// document. It is a cheap sniff used before handing the payload to a parser.
func Detect(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			if _, ok := payload["openapi"]; ok {
				return true
			}
			if _, ok := payload["swagger"]; ok {
				return true
			}
			return false
		}
	}
	lower := strings.ToLower(string(trimmed))
	return strings.Contains(lower, "openapi:") || strings.Contains(lower, "swagger:")
}
