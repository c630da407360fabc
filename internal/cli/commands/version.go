package commands

import (
	"fmt"

	"github.com/leapstack-labs/duckframe/pkg/dialect"
	"github.com/leapstack-labs/duckframe/pkg/engine"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display duckframe version and the registered SQL engines and dialects.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "duckframe v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Engines: %v\n", engine.ListEngines())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dialects: %v\n", dialect.List())
		},
	}
}
