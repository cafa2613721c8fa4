package commands

import (
	"github.com/spf13/cobra"

	"github.com/ec3io/ec3/cmd/ec3/handlers"
)

// Create returns the command for launching a cluster.
//
// This command launches every instance the configuration describes,
// retrying capacity shortfalls and rolling the fleet back when the
// launch definitively fails. Progress is shown in a terminal dashboard
// when stdout is a terminal, or as plain log lines otherwise.
//
// Optional flags:
//
//	--config, -c: Path to the cluster configuration (default "ec3.yaml")
//	--wait-ssh: Block until every node accepts SSH (default true)
//	--clean: Terminate a leftover cluster of the same name first
//	--forever: Retry capacity errors without a deadline
//	--plain: Plain log output even on a terminal
//
// Environment variables:
//
//	AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY: AWS credentials (or any
//	other source the default AWS credential chain supports)
func Create() *cobra.Command {
	var opts handlers.CreateOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Launch the cluster",
		Long: `Launch the cluster described by the configuration.

Creates the cluster security group and, when configured, its placement
group, then launches the instances one by one. Capacity errors are
retried until the launch timeout; any other failure terminates what was
already launched and removes the shared resources.

Examples:
  # Launch using ec3.yaml in the current directory
  ec3 create

  # Launch a specific configuration, keep retrying capacity errors
  ec3 create -c gpu.yaml --forever

  # Replace a half-terminated cluster of the same name
  ec3 create --clean`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "ec3.yaml", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.WaitSSH, "wait-ssh", true, "Wait until every node accepts SSH")
	cmd.Flags().BoolVar(&opts.Clean, "clean", false, "Terminate a leftover cluster of the same name first")
	cmd.Flags().BoolVar(&opts.Forever, "forever", false, "Retry capacity errors without a deadline")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Plain log output even on a terminal")

	return cmd
}
