package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "adlaan",
		Short: "Document task pipeline for legal teams",
		Long: `adlaan runs the document task pipeline: the HTTP API that accepts generation,
analysis and classification tasks, and the workers that process them.`,
		Version:      "0.3.0",
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newWorkerCmd(),
		newClassifyCmd(),
		newGenerateCmd(),
		newSeedCmd(),
		newImportCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}
