package mcpserver

import (
	"fmt"
	"path/filepath"

	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

// maxInlineSize bounds spec.content payloads.
const maxInlineSize = 10 << 20

// inlineName is the location reported for inline documents.
const inlineName = "inline.yaml"

type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL of an OpenAPI document"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document (YAML or JSON)"`
}

// source turns the input into a loader source. Exactly one field must be set.
func (s specInput) source() (pkgopenapi.Source, error) {
	count := 0
	for _, value := range []string{s.File, s.URL, s.Content} {
		if value != "" {
			count++
		}
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	switch {
	case s.File != "":
		return pkgopenapi.SourceFromFile(filepath.Clean(s.File)), nil
	case s.URL != "":
		return pkgopenapi.ParseURLSource(s.URL)
	default:
		if len(s.Content) > maxInlineSize {
			return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead", len(s.Content), maxInlineSize)
		}
		return pkgopenapi.SourceFromString(inlineName, s.Content), nil
	}
}
