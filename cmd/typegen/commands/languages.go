package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-typegen/pkg/logging"
)

func newLanguagesCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range s.orchestrator(logging.NopLogger{}).Languages() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
