package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-typegen/pkg/codegen"
	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
	"github.com/goliatone/go-typegen/pkg/orchestrator"
)

type generateFlags struct {
	from        string
	to          string
	namespace   string
	language    string
	importPath  string
	header      string
	config      string
	dryRun      bool
	interactive bool
}

func newGenerateCommand(s *settings) *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate validated types from an OpenAPI document",
		Long: `Load an OpenAPI 3.x document, extract its constrained schemas and models and
write one source file per type below the output directory.

--from accepts a file path, an http(s) URL or "-" for stdin. Options from
--config are applied first; explicit flags override them.`,
		Example: `  typegen generate --from petstore.yaml --to internal/petstore --import-path example.com/app/internal/petstore
  cat petstore.yaml | typegen generate --from - --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, s, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.from, "from", "f", "", "OpenAPI document path, URL or - for stdin")
	cmd.Flags().StringVarP(&flags.to, "to", "o", "", "output directory (default \""+codegen.DefaultOutputDirectory+"\")")
	cmd.Flags().StringVarP(&flags.namespace, "namespace", "n", "", "package name of generated code (default: base name of --to)")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "target language (default \"go\")")
	cmd.Flags().StringVar(&flags.importPath, "import-path", "", "import path of the generated package")
	cmd.Flags().StringVar(&flags.header, "header-template", "", "pongo2 template file rendered as the header comment of every file")
	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "YAML file with generation options")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "list the files that would be written without writing them")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "prompt for missing settings")
	return cmd
}

func runGenerate(cmd *cobra.Command, s *settings, flags *generateFlags) error {
	ctx := cmd.Context()
	logger := newLogger(cmd)
	orch := s.orchestrator(logger)

	options := codegen.DefaultOptions()
	if flags.config != "" {
		loaded, err := codegen.LoadOptionsFile(flags.config)
		if err != nil {
			return err
		}
		options = loaded
	}
	if flags.to != "" {
		options.OutputDirectory = flags.to
	}
	if flags.namespace != "" {
		options.Namespace = flags.namespace
	}
	if flags.importPath != "" {
		options.ImportPath = flags.importPath
	}
	if flags.header != "" {
		options.HeaderTemplateFile = flags.header
	}

	if flags.interactive {
		proceed, err := promptGenerate(ctx, s.prompter, flags, &options, orch.Languages())
		if err != nil {
			return err
		}
		if !proceed {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "generation cancelled")
			return err
		}
	}

	source, err := parseSource(flags.from, cmd.InOrStdin())
	if err != nil {
		return err
	}

	options = options.WithDefaults()
	if err := options.Validate(); err != nil {
		return err
	}
	logger.Debug("generate", "source", source.Location(), "output", options.OutputDirectory, "namespace", options.Namespace)

	result, err := orch.Run(ctx, orchestrator.Request{
		Source:   source,
		Language: flags.language,
		Options:  &options,
		DryRun:   flags.dryRun,
	})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), result, flags.dryRun)
}

func printResult(out io.Writer, result orchestrator.Result, dryRun bool) error {
	if dryRun {
		for _, artifact := range result.Artifacts {
			if _, err := fmt.Fprintln(out, artifact.RelativePath); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintf(out, "generated %d files in %s (%d warnings)\n",
		len(result.Written), result.OutputDirectory, len(result.Warnings))
	return err
}

// parseSource maps --from to a loader source.
func parseSource(raw string, stdin io.Reader) (pkgopenapi.Source, error) {
	path := strings.TrimSpace(raw)
	switch {
	case path == "":
		return nil, errors.New("--from is required")
	case path == "-":
		return pkgopenapi.SourceFromReader("stdin", stdin), nil
	case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
		return pkgopenapi.ParseURLSource(path)
	}
	return pkgopenapi.SourceFromFile(path), nil
}
