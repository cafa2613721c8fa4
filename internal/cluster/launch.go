package cluster

import (
	"context"
	"fmt"

	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/util/naming"
	"github.com/ec3io/ec3/internal/util/retry"
)

// Launch provisions the whole cluster: the intra-cluster security
// group, the optional placement group, then every node in index order.
//
// Nodes launch sequentially so that a partial launch is always a
// contiguous prefix of the node list. Each node gets a fresh retry
// budget from the configured policy; a node that exhausts it aborts the
// launch, the already-launched prefix is rolled back, and the
// triggering error is returned. On success the call blocks until every
// node is running.
func (c *Cluster) Launch(ctx context.Context) error {
	exists, err := c.AnyNodeRunningOrPending(ctx)
	if err != nil {
		return err
	}
	if exists {
		return errdef.NewAlreadyExists("cluster %s already has running or pending nodes", c.cfg.ClusterName)
	}

	sgID, err := c.ensureSecurityGroup(ctx)
	if err != nil {
		return err
	}

	if c.cfg.UsePlacementGroup {
		if err := c.ensurePlacementGroup(ctx); err != nil {
			return err
		}
	}

	launched, err := c.launchNodes(ctx, sgID)
	if err != nil {
		// Rollback failures were already reported step by step; the
		// caller gets the launch error, not the cleanup's.
		_ = c.rollback(ctx, launched, sgID)
		return fmt.Errorf("cluster %s failed to launch: %w", c.cfg.ClusterName, err)
	}

	emit(c.observer, Event{Type: EventPhaseStarted, Phase: PhaseWaitRunning, Message: "waiting for all nodes to be running"})
	for _, node := range c.nodes {
		if err := node.WaitUntil(ctx, StateRunning); err != nil {
			emit(c.observer, Event{Type: EventPhaseFailed, Phase: PhaseWaitRunning, Resource: node.Name(), Err: err})
			return err
		}
	}
	emit(c.observer, Event{Type: EventPhaseCompleted, Phase: PhaseWaitRunning})
	return nil
}

// ensureSecurityGroup makes sure the cluster security group exists and
// allows all traffic between its members. The self-ingress rule is only
// authorized on creation; an existing group is trusted as is.
func (c *Cluster) ensureSecurityGroup(ctx context.Context) (string, error) {
	name := naming.SecurityGroup(c.cfg.ClusterName)
	emit(c.observer, Event{Type: EventPhaseStarted, Phase: PhaseSecurityGroup, Resource: name})

	existing, err := c.api.GetSecurityGroupID(ctx, name, c.cfg.VPC)
	if err != nil {
		emit(c.observer, Event{Type: EventPhaseFailed, Phase: PhaseSecurityGroup, Resource: name, Err: err})
		return "", fmt.Errorf("failed to look up cluster security group: %w", err)
	}
	if existing != "" {
		c.sgID = existing
		emit(c.observer, Event{Type: EventResourceExists, Phase: PhaseSecurityGroup, Resource: name})
		emit(c.observer, Event{Type: EventPhaseCompleted, Phase: PhaseSecurityGroup})
		return existing, nil
	}

	id, err := c.api.EnsureSecurityGroup(ctx, name, c.cfg.VPC, "intra-cluster traffic for "+c.cfg.ClusterName)
	if err != nil {
		emit(c.observer, Event{Type: EventPhaseFailed, Phase: PhaseSecurityGroup, Resource: name, Err: err})
		return "", fmt.Errorf("failed to create cluster security group: %w", err)
	}
	if err := c.api.AuthorizeSelfIngress(ctx, id); err != nil {
		emit(c.observer, Event{Type: EventPhaseFailed, Phase: PhaseSecurityGroup, Resource: name, Err: err})
		return "", fmt.Errorf("failed to authorize intra-cluster ingress: %w", err)
	}

	c.sgID = id
	emit(c.observer, Event{Type: EventResourceCreated, Phase: PhaseSecurityGroup, Resource: name})
	emit(c.observer, Event{Type: EventPhaseCompleted, Phase: PhaseSecurityGroup})
	return id, nil
}

func (c *Cluster) ensurePlacementGroup(ctx context.Context) error {
	name := naming.PlacementGroup(c.cfg.ClusterName)
	emit(c.observer, Event{Type: EventPhaseStarted, Phase: PhasePlacementGroup, Resource: name})

	exists, err := c.api.PlacementGroupExists(ctx, name)
	if err != nil {
		emit(c.observer, Event{Type: EventPhaseFailed, Phase: PhasePlacementGroup, Resource: name, Err: err})
		return fmt.Errorf("failed to check placement group: %w", err)
	}
	if exists {
		emit(c.observer, Event{Type: EventResourceExists, Phase: PhasePlacementGroup, Resource: name})
	} else {
		if err := c.api.EnsurePlacementGroup(ctx, name); err != nil {
			emit(c.observer, Event{Type: EventPhaseFailed, Phase: PhasePlacementGroup, Resource: name, Err: err})
			return fmt.Errorf("failed to create placement group: %w", err)
		}
		emit(c.observer, Event{Type: EventResourceCreated, Phase: PhasePlacementGroup, Resource: name})
	}

	emit(c.observer, Event{Type: EventPhaseCompleted, Phase: PhasePlacementGroup})
	return nil
}

// launchNodes launches every node in index order and returns the
// successfully launched prefix. When err is non-nil the caller must
// roll that prefix back.
func (c *Cluster) launchNodes(ctx context.Context, sgID string) ([]*Node, error) {
	spec := c.launchSpec(sgID)
	policy := c.cfg.RetryPolicy()
	total := len(c.nodes)

	emit(c.observer, Event{Type: EventPhaseStarted, Phase: PhaseNodes, Message: fmt.Sprintf("launching %d nodes", total)})

	var launched []*Node
	for i, node := range c.nodes {
		emit(c.observer, Event{Type: EventNodeLaunching, Phase: PhaseNodes, Resource: node.Name(), Message: fmt.Sprintf("%d of %d", i+1, total)})

		err := retry.Do(ctx, policy, func() error {
			err := node.Launch(ctx, spec)
			// A name collision or a rejected spec will not heal with
			// time; only capacity-style failures are worth retrying.
			if errdef.IsAlreadyExists(err) || errdef.IsValidation(err) {
				return retry.Fatal(err)
			}
			return err
		}, retry.WithNotify(func(attempt int, err error) {
			emit(c.observer, Event{Type: EventNodeRetrying, Phase: PhaseNodes, Resource: node.Name(), Attempt: attempt, Err: err})
		}))
		if err != nil {
			emit(c.observer, Event{Type: EventPhaseFailed, Phase: PhaseNodes, Resource: node.Name(), Err: err})
			return launched, fmt.Errorf("failed to launch node %d of %d: %w", i+1, total, err)
		}

		launched = append(launched, node)
		emit(c.observer, Event{Type: EventNodeLaunched, Phase: PhaseNodes, Resource: node.Name(), Message: fmt.Sprintf("%d of %d", i+1, total)})
	}

	emit(c.observer, Event{Type: EventPhaseCompleted, Phase: PhaseNodes})
	return launched, nil
}

// rollback tears down the launched prefix after a failed launch. Every
// step is best effort: failures are reported through the observer and
// returned as a CleanupError for inspection, but they never mask the
// launch error. The security group is detached from each node before
// the delete so the delete does not have to wait out termination. The
// placement group is deliberately left behind, it costs nothing and a
// later Terminate removes it.
func (c *Cluster) rollback(ctx context.Context, launched []*Node, sgID string) error {
	emit(c.observer, Event{Type: EventPhaseStarted, Phase: PhaseRollback, Message: fmt.Sprintf("cleaning up %d launched nodes", len(launched))})
	cleanup := newBestEffort(c.observer, PhaseRollback)

	var terminated []*Node
	for _, node := range launched {
		cleanup.step(node.Name(), "detach security group", func() error {
			return node.DetachSecurityGroup(ctx, sgID)
		})
		if cleanup.step(node.Name(), "terminate", func() error {
			return node.Terminate(ctx)
		}) {
			terminated = append(terminated, node)
		}
	}

	if sgID != "" {
		if cleanup.step(sgID, "delete security group", func() error {
			return c.api.DeleteSecurityGroup(ctx, sgID)
		}) {
			c.sgID = ""
		}
	}

	for _, node := range terminated {
		cleanup.step(node.Name(), "wait for termination", func() error {
			return node.WaitUntil(ctx, StateTerminated)
		})
	}

	emit(c.observer, Event{Type: EventPhaseCompleted, Phase: PhaseRollback})
	return cleanup.err()
}
