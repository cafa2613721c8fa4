package commands

import (
	"github.com/spf13/cobra"

	"github.com/ec3io/ec3/cmd/ec3/handlers"
)

// SSHSetup returns the command for wiring intra-cluster SSH.
//
// After this command the master can reach every worker without a
// password, which is what MPI launchers and most distributed training
// stacks expect.
func SSHSetup() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ssh-setup",
		Short: "Let the master SSH into every node",
		Long: `Set up passwordless SSH from the master to every node.

Generates a key pair on the master (reusing one that already exists),
appends the public key to every node's authorized_keys, and writes the
worker private IPs to a hostfile in the master's home directory. Safe
to run again; every step is idempotent.

Examples:
  # Wire up SSH after create
  ec3 ssh-setup

  # Then from the master, e.g.
  mpirun --hostfile ~/hostfile -np 4 ./train`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.SSHSetup(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "ec3.yaml", "Path to configuration file")

	return cmd
}
