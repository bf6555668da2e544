package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/goliatone/go-typegen/pkg/metadata"
	"github.com/goliatone/go-typegen/pkg/orchestrator"
)

type extractInput struct {
	Spec      specInput `json:"spec"                jsonschema:"The OpenAPI document to extract metadata from"`
	Endpoints bool      `json:"endpoints,omitempty" jsonschema:"Include endpoint summaries"`
}

type dataTypeSummary struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Format      string   `json:"format,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
}

type fieldSummary struct {
	Name     string `json:"name"`
	WireName string `json:"wire_name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type modelSummary struct {
	Name   string         `json:"name"`
	Kind   string         `json:"kind"`
	Fields []fieldSummary `json:"fields"`
}

type endpointSummary struct {
	OperationID   string   `json:"operation_id"`
	CanonicalPath string   `json:"canonical_path"`
	RequestType   string   `json:"request_type,omitempty"`
	ResponseTypes []string `json:"response_types,omitempty"`
}

type extractOutput struct {
	DataTypes []dataTypeSummary `json:"data_types"`
	Models    []modelSummary    `json:"models"`
	Endpoints []endpointSummary `json:"endpoints,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
}

func (h *handlers) handleExtract(ctx context.Context, _ *mcp.CallToolRequest, input extractInput) (*mcp.CallToolResult, extractOutput, error) {
	source, err := input.Spec.source()
	if err != nil {
		return errResult(err), extractOutput{}, nil
	}

	result, err := h.orchestrator().Extract(ctx, orchestrator.Request{Source: source})
	if err != nil {
		return errResult(err), extractOutput{}, nil
	}

	output := extractOutput{
		DataTypes: make([]dataTypeSummary, 0, len(result.DataTypes)),
		Models:    make([]modelSummary, 0, len(result.Models)),
	}
	for _, dt := range result.DataTypes {
		summary := dataTypeSummary{Name: dt.Name, Kind: string(dt.Kind), Format: dt.Format}
		for _, c := range dt.Constraints {
			summary.Constraints = append(summary.Constraints, c.String())
		}
		output.DataTypes = append(output.DataTypes, summary)
	}
	for _, model := range result.Models {
		summary := modelSummary{Name: model.Name, Kind: string(model.Kind)}
		for _, field := range model.Fields {
			summary.Fields = append(summary.Fields, fieldSummary{
				Name:     field.Name,
				WireName: field.WireName(),
				Type:     fieldType(field),
				Required: field.IsRequired,
			})
		}
		output.Models = append(output.Models, summary)
	}
	if input.Endpoints {
		for _, endpoint := range result.Endpoints {
			summary := endpointSummary{
				OperationID:   endpoint.OperationID,
				CanonicalPath: endpoint.CanonicalPath,
				RequestType:   endpoint.RequestType,
			}
			for _, response := range endpoint.Responses {
				if response.TypeName != "" {
					summary.ResponseTypes = append(summary.ResponseTypes, response.Status+" "+response.TypeName)
				}
			}
			output.Endpoints = append(output.Endpoints, summary)
		}
	}
	for _, warning := range result.Warnings {
		output.Warnings = append(output.Warnings, warning.String())
	}
	return nil, output, nil
}

// fieldType renders a field type as "Name", "[]Name" or "*Name".
func fieldType(field metadata.FieldMetadata) string {
	var b strings.Builder
	if field.IsCollection {
		b.WriteString("[]")
	} else if !field.IsRequired {
		b.WriteString("*")
	}
	if dt := field.ElementType(); dt != nil {
		b.WriteString(dt.Name)
	}
	return b.String()
}
