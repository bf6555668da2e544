// Package mcpserver exposes the typegen pipeline as MCP (Model Context
// Protocol) tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/goliatone/go-typegen"
	"github.com/goliatone/go-typegen/pkg/logging"
	"github.com/goliatone/go-typegen/pkg/orchestrator"
)

const serverInstructions = `typegen MCP server: generates validated Go types from OpenAPI 3.x documents.

Tools:
- extract: classify component schemas and list the data types, models and endpoints that would be generated, plus any warnings.
- generate: run the full pipeline. Use dry_run=true to preview the artifact manifest without touching the filesystem.

Provide the document with exactly one of spec.file, spec.url or spec.content.`

// Option configures the server.
type Option func(*handlers)

// WithLogger routes pipeline logs to logger. Never point it at stdout: the
// transport owns it.
func WithLogger(logger logging.Logger) Option {
	return func(h *handlers) {
		h.logger = logger
	}
}

// WithOrchestratorOptions appends options used for every pipeline run.
func WithOrchestratorOptions(opts ...orchestrator.Option) Option {
	return func(h *handlers) {
		h.orchestratorOpts = append(h.orchestratorOpts, opts...)
	}
}

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	server := newServer(typegen.Version(), opts...)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func newServer(version string, opts ...Option) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "typegen", Version: version},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	newHandlers(opts...).register(server)
	return server
}

type handlers struct {
	logger           logging.Logger
	orchestratorOpts []orchestrator.Option
}

func newHandlers(opts ...Option) *handlers {
	h := &handlers{}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.logger = logging.OrNop(h.logger)
	return h
}

func (h *handlers) register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate validated Go types from an OpenAPI document. Writes one file per data type and model plus boundary DTOs below output_dir. Returns a manifest of generated files and the warning count. Use dry_run=true to preview without writing.",
	}, h.handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract",
		Description: "Extract the metadata typegen derives from an OpenAPI document: constrained data types, models with their fields, endpoints and non-fatal warnings. Nothing is generated or written.",
	}, h.handleExtract)
}

func (h *handlers) orchestrator(extra ...orchestrator.Option) *orchestrator.Orchestrator {
	opts := append([]orchestrator.Option{orchestrator.WithLogger(h.logger)}, h.orchestratorOpts...)
	return orchestrator.New(append(opts, extra...)...)
}

// errResult reports a tool failure to the client instead of failing the
// protocol exchange.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
