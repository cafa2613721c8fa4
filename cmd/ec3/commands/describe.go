package commands

import (
	"github.com/spf13/cobra"

	"github.com/ec3io/ec3/cmd/ec3/handlers"
)

// Describe returns the command for showing the cluster's current state.
func Describe() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show the cluster's nodes and addresses",
		Long: `Show the current state of every node in the cluster.

Queries EC2 for each configured node and prints a table of instance
ids, states and addresses. Nodes without a running or pending instance
show as absent; a fully absent cluster is reported as down rather than
an error.

Examples:
  # Describe the cluster from ec3.yaml
  ec3 describe

  # Describe a specific cluster
  ec3 describe -c gpu.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Describe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "ec3.yaml", "Path to configuration file")

	return cmd
}
