package handlers

import (
	"context"
	"fmt"

	"github.com/ec3io/ec3/internal/config"
	"github.com/ec3io/ec3/internal/errdef"
)

// Factory function variables for init - can be replaced in tests.
var (
	// configExists checks whether a configuration is already present at
	// the destination, local file or s3:// URL.
	configExists = config.Exists

	// runWizard collects the launch-critical fields interactively.
	runWizard = config.RunWizard

	// writeConfig writes the configuration to its destination.
	writeConfig = func(ctx context.Context, cfg *config.Config, location string) error {
		return cfg.Store(ctx, location)
	}
)

// InitOptions carries the init command's flags.
type InitOptions struct {
	ConfigPath   string
	Force        bool
	ClusterName  string
	Region       string
	KeyPair      string
	NodeCount    int
	InstanceType string
	Bastion      bool
}

// Init writes a starter configuration file, locally or to an s3://
// destination. On a terminal the wizard asks for the launch-critical
// fields, seeded from any flags given; otherwise the flags alone
// override the example defaults.
func Init(ctx context.Context, opts InitOptions) error {
	if !opts.Force {
		exists, err := configExists(ctx, opts.ConfigPath)
		if err != nil {
			return err
		}
		if exists {
			return errdef.NewAlreadyExists("%s already exists, use --force to overwrite", opts.ConfigPath)
		}
	}

	cfg := config.Example()
	if opts.ClusterName != "" {
		cfg.ClusterName = opts.ClusterName
	}
	if opts.Region != "" {
		cfg.Region = opts.Region
	}
	if opts.KeyPair != "" {
		cfg.KeyPair = opts.KeyPair
	}
	if opts.NodeCount > 0 {
		cfg.NodeCount = opts.NodeCount
	}
	if opts.InstanceType != "" {
		cfg.InstanceType = opts.InstanceType
	}
	cfg.BastionMode = opts.Bastion

	if stdoutIsTerminal() {
		if err := runWizard(ctx, cfg); err != nil {
			return err
		}
	}

	if err := writeConfig(ctx, cfg, opts.ConfigPath); err != nil {
		return err
	}

	printInitSuccess(opts.ConfigPath, cfg)
	return nil
}

// printInitSuccess prints the summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Cluster Summary")
	fmt.Println("---------------")
	fmt.Printf("  Name:     %s\n", cfg.ClusterName)
	fmt.Printf("  Region:   %s\n", cfg.Region)
	fmt.Printf("  Nodes:    %d x %s\n", cfg.NodeCount, cfg.InstanceType)
	fmt.Printf("  Key pair: %s\n", cfg.KeyPair)
	if cfg.BastionMode {
		fmt.Println("  Topology: workers behind the master (bastion mode)")
	}
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Make AWS credentials available:")
	fmt.Println("     export AWS_ACCESS_KEY_ID=... AWS_SECRET_ACCESS_KEY=...")
	fmt.Println()
	fmt.Printf("  2. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Launch your cluster:")
	fmt.Println("     ec3 create")
	fmt.Println()
}
