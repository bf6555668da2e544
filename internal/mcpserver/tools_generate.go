package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/goliatone/go-typegen/pkg/codegen"
	"github.com/goliatone/go-typegen/pkg/orchestrator"
)

type generateInput struct {
	Spec       specInput `json:"spec"                  jsonschema:"The OpenAPI document to generate code from"`
	OutputDir  string    `json:"output_dir,omitempty"  jsonschema:"Directory to write generated files to (required unless dry_run)"`
	Namespace  string    `json:"namespace,omitempty"   jsonschema:"Go package name of the generated code (default: base name of output_dir)"`
	ImportPath string    `json:"import_path,omitempty" jsonschema:"Import path of the generated package; model files import the DTO package below it"`
	Language   string    `json:"language,omitempty"    jsonschema:"Target language (default: go)"`
	NoDocs     bool      `json:"no_docs,omitempty"     jsonschema:"Omit doc comments taken from schema descriptions"`
	DryRun     bool      `json:"dry_run,omitempty"     jsonschema:"Generate without writing files"`
}

type generatedFileInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Size int    `json:"size"`
}

type generateOutput struct {
	Success      bool                `json:"success"`
	Language     string              `json:"language"`
	OutputDir    string              `json:"output_dir"`
	Namespace    string              `json:"namespace"`
	FileCount    int                 `json:"file_count"`
	Files        []generatedFileInfo `json:"files"`
	DataTypes    int                 `json:"data_types"`
	Models       int                 `json:"models"`
	Written      bool                `json:"written"`
	WarningCount int                 `json:"warning_count"`
	Warnings     []string            `json:"warnings,omitempty"`
}

func (h *handlers) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if input.OutputDir == "" && !input.DryRun {
		return errResult(fmt.Errorf("output_dir is required unless dry_run is set")), generateOutput{}, nil
	}

	source, err := input.Spec.source()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	options := codegen.DefaultOptions()
	if input.OutputDir != "" {
		options.OutputDirectory = input.OutputDir
	}
	options.Namespace = input.Namespace
	options.ImportPath = input.ImportPath
	options.IncludeDocumentation = !input.NoDocs
	options = options.WithDefaults()

	result, err := h.orchestrator().Run(ctx, orchestrator.Request{
		Source:   source,
		Language: input.Language,
		Options:  &options,
		DryRun:   input.DryRun,
	})
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Success:      true,
		Language:     result.Language,
		OutputDir:    result.OutputDirectory,
		Namespace:    options.Namespace,
		FileCount:    len(result.Artifacts),
		Files:        make([]generatedFileInfo, 0, len(result.Artifacts)),
		DataTypes:    len(result.Input.DataTypes()),
		Models:       len(result.Input.Models()),
		Written:      !input.DryRun,
		WarningCount: len(result.Warnings),
	}
	for _, artifact := range result.Artifacts {
		output.Files = append(output.Files, generatedFileInfo{
			Name: artifact.RelativePath,
			Kind: string(artifact.Kind),
			Size: len(artifact.Content),
		})
	}
	for _, warning := range result.Warnings {
		output.Warnings = append(output.Warnings, warning.String())
	}
	return nil, output, nil
}
