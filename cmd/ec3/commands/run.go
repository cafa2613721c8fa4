package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ec3io/ec3/cmd/ec3/handlers"
)

// Run returns the command for executing a shell command on the cluster.
//
// By default the command runs on the master only; --all fans it out to
// every node, the master first and the workers in bounded parallel
// batches. The exit status is non-zero when the command failed on any
// host.
//
// Optional flags:
//
//	--config, -c: Path to the cluster configuration (default "ec3.yaml")
//	--all: Run on every node instead of just the master
func Run() *cobra.Command {
	var opts handlers.RunOptions

	cmd := &cobra.Command{
		Use:   "run [flags] -- command ...",
		Short: "Run a shell command on the cluster",
		Long: `Run a shell command on the master, or on every node with --all.

Everything after -- is passed to the remote shell as one command line.
Output is printed per host; the exit status is non-zero when the
command failed anywhere.

Examples:
  # Check the kernel on the master
  ec3 run -- uname -r

  # Restart a service everywhere
  ec3 run --all -- sudo systemctl restart training

  # Pipelines work, quote them for the remote shell
  ec3 run --all -- 'df -h | tail -n +2'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Run(cmd.Context(), opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "ec3.yaml", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Run on every node instead of just the master")

	return cmd
}
