package commands

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-typegen/internal/mcpserver"
)

func newMCPCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the generate and extract tools over MCP (stdio)",
		Long: `Start a Model Context Protocol server on stdin/stdout. Logs go to stderr so
they never corrupt the protocol stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context(),
				mcpserver.WithLogger(newLogger(cmd)),
				mcpserver.WithOrchestratorOptions(s.orchestratorOpts...),
			)
		},
	}
}
