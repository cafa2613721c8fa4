package commands

import (
	"github.com/spf13/cobra"

	"github.com/ec3io/ec3/cmd/ec3/handlers"
)

// Init returns the command for creating a cluster configuration.
//
// On a terminal the command runs an interactive wizard; otherwise the
// starter configuration is built from flags alone. The configuration is
// written to the --config destination, a local path or an s3:// URL,
// and refused when it already exists, unless --force is given.
//
// Optional flags:
//
//	--config, -c: Path to write the configuration to (default "ec3.yaml")
//	--force: Overwrite an existing file
//	--name, --region, --keypair, --nodes, --instance-type, --bastion:
//	  Seed the configuration without prompting
func Init() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter cluster configuration",
		Long: `Write a starter cluster configuration file.

On a terminal this walks you through the launch-critical choices:
cluster name, region, node count, instance type, key pair, and
topology. Fields the wizard does not cover (AMI, EBS volume, tags,
retry policy) get sensible defaults and can be edited in the file.

Examples:
  # Interactive wizard, writes ec3.yaml
  ec3 init

  # Non-interactive, seeded from flags
  ec3 init --name train --region us-west-2 --nodes 4 --keypair my-key < /dev/null

  # Store the configuration in a bucket the whole team uses
  ec3 init --config s3://ml-infra/clusters/train.yaml

  # Overwrite an existing file
  ec3 init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "ec3.yaml", "Path to write the configuration to")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&opts.ClusterName, "name", "", "Cluster name")
	cmd.Flags().StringVar(&opts.Region, "region", "", "AWS region")
	cmd.Flags().StringVar(&opts.KeyPair, "keypair", "", "Name of an existing EC2 key pair")
	cmd.Flags().IntVar(&opts.NodeCount, "nodes", 0, "Number of nodes, master included")
	cmd.Flags().StringVar(&opts.InstanceType, "instance-type", "", "EC2 instance type")
	cmd.Flags().BoolVar(&opts.Bastion, "bastion", false, "Reach workers through the master")

	return cmd
}
