package commands

import (
	"github.com/spf13/cobra"

	"github.com/ec3io/ec3/cmd/ec3/handlers"
)

// Delete returns the command for terminating a cluster.
//
// This command terminates every member instance and removes the
// cluster's security group and placement group. By default it waits for
// the instances to reach the terminated state before removing the
// placement group; --fast returns right after the terminate calls and
// leaves the placement group behind.
//
// Optional flags:
//
//	--config, -c: Path to the cluster configuration (default "ec3.yaml")
//	--fast: Do not wait for termination; leave the placement group behind
func Delete() *cobra.Command {
	var (
		configPath string
		fast       bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Terminate the cluster",
		Long: `Terminate the cluster and remove its shared resources.

Sends a terminate to every member instance and deletes the cluster
security group, then waits until the instances are gone and deletes the
placement group. With --fast the command returns right after the
terminate calls; AWS keeps shutting the instances down in the
background, and the placement group stays behind until a later full
delete.

Examples:
  # Terminate using ec3.yaml in the current directory
  ec3 delete

  # Fire-and-forget terminate
  ec3 delete --fast`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Delete(cmd.Context(), configPath, fast)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "ec3.yaml", "Path to configuration file")
	cmd.Flags().BoolVar(&fast, "fast", false, "Do not wait for termination; leave the placement group behind")

	return cmd
}
