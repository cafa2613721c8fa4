package config

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// regionOptions are the regions offered by the wizard selector. The
// config file accepts any region; the wizard just lists the common ones.
var regionOptions = []huh.Option[string]{
	huh.NewOption("US East (N. Virginia) us-east-1", "us-east-1"),
	huh.NewOption("US East (Ohio) us-east-2", "us-east-2"),
	huh.NewOption("US West (Oregon) us-west-2", "us-west-2"),
	huh.NewOption("Europe (Ireland) eu-west-1", "eu-west-1"),
	huh.NewOption("Europe (Frankfurt) eu-central-1", "eu-central-1"),
	huh.NewOption("Asia Pacific (Tokyo) ap-northeast-1", "ap-northeast-1"),
	huh.NewOption("Asia Pacific (Singapore) ap-southeast-1", "ap-southeast-1"),
}

// instanceTypeSuggestions seed the wizard's instance type input.
var instanceTypeSuggestions = []string{
	"t3.micro",
	"t3.medium",
	"m5.large",
	"m5.2xlarge",
	"c5.xlarge",
	"c5.4xlarge",
	"r5.2xlarge",
}

var clusterNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

func validateClusterName(name string) error {
	if name == "" {
		return fmt.Errorf("cluster name is required")
	}
	if !clusterNamePattern.MatchString(name) {
		return fmt.Errorf("use lowercase letters, digits and dashes, starting with a letter")
	}
	return nil
}

func validateNodeCount(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if n < 1 {
		return fmt.Errorf("a cluster needs at least one node")
	}
	return nil
}

func validateKeyPair(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("the name of an existing EC2 key pair is required")
	}
	return nil
}

// RunWizard interactively fills in the launch-critical fields of cfg.
// Values already present, from flags or Example, become the prompts'
// defaults. Everything else keeps its default and can be edited in the
// written file.
func RunWizard(ctx context.Context, cfg *Config) error {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.NodeCount < 1 {
		cfg.NodeCount = DefaultNodeCount
	}
	nodeCount := strconv.Itoa(cfg.NodeCount)

	form := huh.NewForm(
		// Cluster identity
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster name").
				Description("Instances are tagged {name}-node{i}; pick something unique per region").
				Placeholder("demo").
				Value(&cfg.ClusterName).
				Validate(validateClusterName),
		),

		// Region selection
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Region").
				Description("Where the instances run").
				Options(regionOptions...).
				Value(&cfg.Region),
		),

		// Fleet shape
		huh.NewGroup(
			huh.NewInput().
				Title("Node count").
				Description("Node 1 is the master, the rest are workers").
				Value(&nodeCount).
				Validate(validateNodeCount),

			huh.NewInput().
				Title("Instance type").
				Description("Any EC2 instance type available in the region").
				Placeholder(DefaultInstanceType).
				Suggestions(instanceTypeSuggestions).
				Value(&cfg.InstanceType),
		),

		// SSH access
		huh.NewGroup(
			huh.NewInput().
				Title("EC2 key pair").
				Description("Name of an existing key pair; the matching .pem file unlocks SSH").
				Placeholder("my-keypair").
				Value(&cfg.KeyPair).
				Validate(validateKeyPair),
		),

		// Topology
		huh.NewGroup(
			huh.NewConfirm().
				Title("Bastion mode?").
				Description("Reach workers through the master instead of their public IPs").
				Value(&cfg.BastionMode),

			huh.NewConfirm().
				Title("Cluster placement group?").
				Description("Packs nodes close together for low-latency networking").
				Value(&cfg.UsePlacementGroup),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg.NodeCount, _ = strconv.Atoi(strings.TrimSpace(nodeCount))
	return nil
}
