// Package handlers implements the business logic for CLI commands.
//
// Handlers are cobra-agnostic; the commands package binds them to flags
// and arguments. Collaborators are reached through package-level factory
// variables so tests can substitute them.
package handlers

import (
	"context"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/ec3io/ec3/internal/cluster"
	"github.com/ec3io/ec3/internal/config"
	"github.com/ec3io/ec3/internal/platform/ec2"
	"github.com/ec3io/ec3/internal/shell"
	"github.com/ec3io/ec3/internal/ui/tui"
	"github.com/ec3io/ec3/internal/util/netutil"
)

// Orchestrator is the slice of the cluster API the commands drive.
type Orchestrator interface {
	Name() string
	Launch(ctx context.Context) error
	Terminate(ctx context.Context, fast bool) error
	Status(ctx context.Context) ([]cluster.NodeStatus, error)
	Addresses(ctx context.Context) (*cluster.Addresses, error)
	AnyNodeRunningOrPending(ctx context.Context) (bool, error)
}

// Fanout is the slice of the cluster shell the commands use.
type Fanout interface {
	Hosts() []string
	RunOnMaster(ctx context.Context, command string) (shell.Result, error)
	RunOnAll(ctx context.Context, command string) []shell.Result
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newEC2Client creates the region-scoped EC2 API client.
	newEC2Client = func(ctx context.Context, region string) (ec2.Client, error) {
		return ec2.NewRealClient(ctx, region)
	}

	// newCluster builds the cluster orchestrator.
	newCluster = func(cfg *config.Config, api ec2.Client, opts ...cluster.Option) Orchestrator {
		return cluster.New(cfg, api, opts...)
	}

	// newShell connects a fan-out shell to the cluster's instances.
	newShell = func(ctx context.Context, cfg *config.Config, api ec2.Client) (Fanout, error) {
		return cluster.New(cfg, api).Shell(ctx)
	}

	// loadConfigFile reads the configuration from a path or s3:// URL.
	loadConfigFile = config.Load

	// runLaunchTUI drives the launch dashboard.
	runLaunchTUI = tui.RunLaunchTUI

	// waitForPort blocks until a TCP port accepts connections.
	waitForPort = netutil.WaitForPort

	// stdoutIsTerminal reports whether stdout talks to a person.
	stdoutIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// loadCluster loads, defaults and validates the configuration and pairs
// it with an EC2 client for its region. Nothing here mutates AWS state;
// the defaulting queries are read-only and run only for fields the file
// leaves empty.
func loadCluster(ctx context.Context, configPath string) (*config.Config, ec2.Client, error) {
	cfg, err := loadConfigFile(ctx, configPath)
	if err != nil {
		return nil, nil, err
	}

	api, err := newEC2Client(ctx, cfg.Region)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.ApplyDefaults(ctx, api); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, api, nil
}
