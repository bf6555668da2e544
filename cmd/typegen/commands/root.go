// Package commands wires the typegen command line.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-typegen"
	"github.com/goliatone/go-typegen/pkg/logging"
	"github.com/goliatone/go-typegen/pkg/orchestrator"
)

// Option customises the command tree.
type Option func(*settings)

type settings struct {
	prompter         PromptDriver
	orchestratorOpts []orchestrator.Option
}

// WithPromptDriver replaces the terminal prompts used by --interactive.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *settings) {
		s.prompter = driver
	}
}

// WithOrchestratorOptions appends options to every pipeline run.
func WithOrchestratorOptions(opts ...orchestrator.Option) Option {
	return func(s *settings) {
		s.orchestratorOpts = append(s.orchestratorOpts, opts...)
	}
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context, opts ...Option) error {
	return NewRootCommand(opts...).ExecuteContext(ctx)
}

// NewRootCommand builds the typegen command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	s := &settings{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.prompter == nil {
		s.prompter = newSurveyDriver()
	}

	root := &cobra.Command{
		Use:   "typegen",
		Short: "Generate validated Go types from OpenAPI specifications",
		Long: `typegen reads an OpenAPI 3.x document and emits one Go type per constrained
schema and model. Generated constructors validate values against the schema
constraints; DTO types carry the wire representation.`,
		Version:       typegen.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log pipeline details to stderr")

	root.AddCommand(
		newGenerateCommand(s),
		newLanguagesCommand(s),
		newMCPCommand(s),
	)
	return root
}

func (s *settings) orchestrator(logger logging.Logger) *orchestrator.Orchestrator {
	opts := append([]orchestrator.Option{orchestrator.WithLogger(logger)}, s.orchestratorOpts...)
	return orchestrator.New(opts...)
}

// newLogger writes text logs to the command's stderr.
func newLogger(cmd *cobra.Command) logging.Logger {
	level := slog.LevelInfo
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	return logging.NewSlogAdapter(slog.New(handler))
}
