package cluster

import (
	"context"
	"fmt"

	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/util/naming"
)

// Terminate tears down every running node plus the cluster's security
// group and, unless fast is set, its placement group. Calling it when
// nothing is running is a no-op for the nodes but still sweeps up
// leftover groups, which makes Terminate the recovery path for partial
// launches too.
//
// Unlike rollback, failures here propagate immediately: this is a
// deliberate user action, not error recovery. In fast mode the call
// returns as soon as every termination is triggered; the wait and the
// placement group deletion are skipped, and the group is deliberately
// left behind as a zero-cost resource.
func (c *Cluster) Terminate(ctx context.Context, fast bool) error {
	exists, err := c.AnyNodeRunningOrPending(ctx)
	if err != nil {
		return err
	}

	var terminated []*Node
	if !exists {
		emit(c.observer, Event{Type: EventPhaseStarted, Phase: PhaseTerminate, Message: "no nodes to terminate"})
	} else {
		total := len(c.nodes)
		emit(c.observer, Event{Type: EventPhaseStarted, Phase: PhaseTerminate, Message: fmt.Sprintf("terminating %d nodes", total)})

		sgID, err := c.securityGroupID(ctx)
		if err != nil {
			return err
		}

		for i, node := range c.nodes {
			err := node.DetachSecurityGroup(ctx, sgID)
			if errdef.IsNotFound(err) {
				// Never launched or already gone.
				continue
			}
			if err != nil {
				emit(c.observer, Event{Type: EventPhaseFailed, Phase: PhaseTerminate, Resource: node.Name(), Err: err})
				return err
			}
			if err := node.Terminate(ctx); err != nil {
				emit(c.observer, Event{Type: EventPhaseFailed, Phase: PhaseTerminate, Resource: node.Name(), Err: err})
				return err
			}
			terminated = append(terminated, node)
			emit(c.observer, Event{Type: EventNodeTerminated, Phase: PhaseTerminate, Resource: node.Name(), Message: fmt.Sprintf("%d of %d", i+1, total)})
		}
	}
	emit(c.observer, Event{Type: EventPhaseCompleted, Phase: PhaseTerminate})

	sgID, err := c.securityGroupID(ctx)
	if err != nil {
		return err
	}
	if sgID != "" {
		if err := c.api.DeleteSecurityGroup(ctx, sgID); err != nil {
			return fmt.Errorf("failed to delete cluster security group: %w", err)
		}
		c.sgID = ""
		emit(c.observer, Event{Type: EventResourceDeleted, Phase: PhaseCleanup, Resource: naming.SecurityGroup(c.cfg.ClusterName)})
	}

	if fast {
		return nil
	}

	emit(c.observer, Event{Type: EventPhaseStarted, Phase: PhaseWaitTerminated, Message: fmt.Sprintf("waiting for %d nodes to terminate", len(terminated))})
	for _, node := range terminated {
		if err := node.WaitUntil(ctx, StateTerminated); err != nil {
			emit(c.observer, Event{Type: EventPhaseFailed, Phase: PhaseWaitTerminated, Resource: node.Name(), Err: err})
			return err
		}
	}
	emit(c.observer, Event{Type: EventPhaseCompleted, Phase: PhaseWaitTerminated})

	pgName := naming.PlacementGroup(c.cfg.ClusterName)
	pgExists, err := c.api.PlacementGroupExists(ctx, pgName)
	if err != nil {
		return fmt.Errorf("failed to check placement group: %w", err)
	}
	if pgExists {
		if err := c.api.DeletePlacementGroup(ctx, pgName); err != nil {
			return fmt.Errorf("failed to delete placement group: %w", err)
		}
		emit(c.observer, Event{Type: EventResourceDeleted, Phase: PhaseCleanup, Resource: pgName})
	}
	return nil
}
