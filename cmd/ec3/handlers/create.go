package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ec3io/ec3/internal/cluster"
	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/util/naming"
)

// sshReadyTimeout bounds how long create waits for sshd after the
// instances report running. Instance boot plus cloud-init fits well
// inside this on every stock AMI.
const sshReadyTimeout = 10 * time.Minute

// CreateOptions carries the create command's flags.
type CreateOptions struct {
	ConfigPath string
	WaitSSH    bool
	Clean      bool
	Forever    bool
	Plain      bool
}

// Create launches the cluster described by the configuration.
//
// With Clean, a leftover cluster of the same name is terminated first.
// Progress goes to the terminal dashboard when stdout is a terminal, or
// to plain log lines with Plain or redirected output. With WaitSSH the
// handler blocks until every node accepts SSH connections.
func Create(ctx context.Context, opts CreateOptions) error {
	cfg, api, err := loadCluster(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Forever {
		cfg.LaunchForever = true
	}

	if opts.Clean {
		log.Printf("Terminating leftover cluster %s first", cfg.ClusterName)
		c := newCluster(cfg, api, cluster.WithObserver(cluster.LogObserver{}))
		if err := c.Terminate(ctx, false); err != nil {
			return fmt.Errorf("failed to clean up leftover cluster: %w", err)
		}
	}

	launch := func(obs cluster.Observer) error {
		c := newCluster(cfg, api, cluster.WithObserver(obs))
		return c.Launch(ctx)
	}

	if opts.Plain || !stdoutIsTerminal() {
		log.Printf("Creating cluster %s: %d x %s in %s", cfg.ClusterName, cfg.NodeCount, cfg.InstanceType, cfg.Region)
		if err := launch(cluster.LogObserver{}); err != nil {
			return err
		}
	} else {
		names := make([]string, 0, cfg.NodeCount)
		for i := 1; i <= cfg.NodeCount; i++ {
			names = append(names, naming.Node(cfg.ClusterName, i))
		}
		if err := runLaunchTUI(cfg.ClusterName, cfg.Region, names, cfg.UsePlacementGroup, launch); err != nil {
			return err
		}
	}

	if opts.WaitSSH {
		sh, err := newShell(ctx, cfg, api)
		if err != nil {
			return err
		}
		hosts := sh.Hosts()
		log.Printf("Waiting for SSH on %d hosts", len(hosts))
		// The first host fronts every connection in bastion mode, so
		// gate on its port before burning SSH attempts on the rest.
		if len(hosts) > 0 {
			if err := waitForPort(ctx, hosts[0], 22, sshReadyTimeout); err != nil {
				return errdef.NewTimeout("port 22 on %s never opened: %v", hosts[0], err)
			}
		}
		if err := sh.WaitForReady(ctx, sshReadyTimeout); err != nil {
			return err
		}
	}

	log.Printf("Cluster %s is up", cfg.ClusterName)
	return nil
}
