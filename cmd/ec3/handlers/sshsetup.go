package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/shell"
)

// Remote commands for wiring intra-cluster SSH. Every step is
// idempotent so ssh-setup can run repeatedly.
const (
	masterKeygenCommand = `test -f ~/.ssh/id_rsa || ssh-keygen -q -t rsa -b 2048 -N '' -f ~/.ssh/id_rsa`
	readPubKeyCommand   = `cat ~/.ssh/id_rsa.pub`
)

// authorizeCommand appends the master's public key to a node's
// authorized_keys unless it is already there.
func authorizeCommand(pubKey string) string {
	return fmt.Sprintf(
		`mkdir -p ~/.ssh && chmod 700 ~/.ssh && { grep -qxF %q ~/.ssh/authorized_keys 2>/dev/null || echo %q >> ~/.ssh/authorized_keys; } && chmod 600 ~/.ssh/authorized_keys`,
		pubKey, pubKey,
	)
}

// hostfileCommand writes the worker private IPs, one per line, to
// /home/{username}/hostfile on the master. MPI launchers and most
// distributed training stacks consume this file directly.
func hostfileCommand(username string, workerIPs []string) string {
	var lines strings.Builder
	for _, ip := range workerIPs {
		lines.WriteString(ip)
		lines.WriteString(`\n`)
	}
	return fmt.Sprintf(`printf '%s' > /home/%s/hostfile`, lines.String(), username)
}

// SSHSetup wires passwordless SSH from the master to every node.
//
// The key pair lives on the master and is reused when present. Workers
// are always listed in the hostfile by private IP; in bastion mode that
// is also how the master reaches them.
func SSHSetup(ctx context.Context, configPath string) error {
	cfg, api, err := loadCluster(ctx, configPath)
	if err != nil {
		return err
	}

	addrs, err := newCluster(cfg, api).Addresses(ctx)
	if err != nil {
		return err
	}

	sh, err := newShell(ctx, cfg, api)
	if err != nil {
		return err
	}

	log.Printf("Ensuring SSH key on master")
	if _, err := sh.RunOnMaster(ctx, masterKeygenCommand); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}

	keyRes, err := sh.RunOnMaster(ctx, readPubKeyCommand)
	if err != nil {
		return fmt.Errorf("failed to read master public key: %w", err)
	}
	pubKey := strings.TrimSpace(keyRes.Output)

	log.Printf("Authorizing master key on %d hosts", len(sh.Hosts()))
	results := sh.RunOnAll(ctx, authorizeCommand(pubKey))
	if failed := shell.Failed(results); len(failed) > 0 {
		return errdef.NewRemoteExecution("failed to authorize master key on %d of %d hosts", len(failed), len(results))
	}

	if _, err := sh.RunOnMaster(ctx, hostfileCommand(cfg.Username, addrs.WorkerPrivateIPs)); err != nil {
		return fmt.Errorf("failed to write hostfile: %w", err)
	}

	log.Printf("Master can reach every node; hostfile lists %d workers", len(addrs.WorkerPrivateIPs))
	return nil
}
