package cluster

import (
	"context"
	"fmt"

	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/platform/ec2"
)

// State names an instance lifecycle condition WaitUntil can block on.
type State string

const (
	// StateRunning is reached when the instance is running.
	StateRunning State = "running"
	// StateStatusOK is reached when both EC2 status checks pass, the
	// earliest point SSH is reliably reachable.
	StateStatusOK State = "status-ok"
	// StateTerminated is reached when the instance is fully terminated.
	StateTerminated State = "terminated"
)

// Node is a handle on one cluster member. The member is identified by
// its Name tag; the EC2 instance behind it comes and goes across
// launches and terminations.
//
// A Node caches the instance descriptor after the first successful
// lookup and is meant to be driven by one goroutine at a time. There is
// no internal locking.
type Node struct {
	name string
	api  ec2.InstanceManager

	desc *ec2.InstanceDescriptor
}

// NewNode returns a handle for the named member.
func NewNode(name string, api ec2.InstanceManager) *Node {
	return &Node{name: name, api: api}
}

// Name returns the member's unique name.
func (n *Node) Name() string {
	return n.name
}

// Describe returns the pending or running instance backing this node.
// The result is cached; the cache survives Terminate so that waiting on
// termination still knows the instance id after the Name tag is gone.
// Fails with NotFound when no instance exists.
func (n *Node) Describe(ctx context.Context) (*ec2.InstanceDescriptor, error) {
	if n.desc != nil {
		return n.desc, nil
	}
	desc, err := n.api.DescribeInstance(ctx, n.name)
	if err != nil {
		return nil, fmt.Errorf("failed to describe node %s: %w", n.name, err)
	}
	if desc == nil {
		return nil, errdef.NewNotFound("node %s has no running or pending instance", n.name)
	}
	n.desc = desc
	return desc, nil
}

// Invalidate drops the cached descriptor so the next Describe queries
// the API again.
func (n *Node) Invalidate() {
	n.desc = nil
}

// Reload bypasses the cache and returns a fresh descriptor.
func (n *Node) Reload(ctx context.Context) (*ec2.InstanceDescriptor, error) {
	n.Invalidate()
	return n.Describe(ctx)
}

// IsRunningOrPending reports whether an instance with this node's name
// is currently running or pending. Always queries the API; existence
// checks must not trust the cache.
func (n *Node) IsRunningOrPending(ctx context.Context) (bool, error) {
	desc, err := n.api.DescribeInstance(ctx, n.name)
	if err != nil {
		return false, fmt.Errorf("failed to check node %s: %w", n.name, err)
	}
	return desc != nil, nil
}

// Launch starts the backing instance. The spec's Name is overwritten
// with this node's name. Fails with AlreadyExists when a running or
// pending instance with that name exists, which keeps launches
// idempotent across duplicate calls.
func (n *Node) Launch(ctx context.Context, spec ec2.LaunchSpec) error {
	running, err := n.IsRunningOrPending(ctx)
	if err != nil {
		return err
	}
	if running {
		return errdef.NewAlreadyExists("instance named %s already exists", n.name)
	}

	spec.Name = n.name
	if _, err := n.api.RunInstance(ctx, spec); err != nil {
		return fmt.Errorf("failed to launch node %s: %w", n.name, err)
	}
	return nil
}

// Terminate destroys the backing instance, then strips its Name tag so
// a new node can reuse the name without waiting for full teardown. The
// cached descriptor is kept for a later WaitUntil(StateTerminated).
// Fails with NotFound when no instance exists.
func (n *Node) Terminate(ctx context.Context) error {
	desc, err := n.Describe(ctx)
	if err != nil {
		return err
	}
	if err := n.api.TerminateInstance(ctx, desc.InstanceID); err != nil {
		return fmt.Errorf("failed to terminate node %s: %w", n.name, err)
	}
	if err := n.api.DeleteNameTag(ctx, desc.InstanceID); err != nil {
		return fmt.Errorf("failed to clear Name tag of node %s: %w", n.name, err)
	}
	return nil
}

// WaitUntil blocks until the backing instance reaches the given state.
// StateStatusOK and StateTerminated resolve the instance id through
// Describe, so they work on cached descriptors after the instance left
// the running state.
func (n *Node) WaitUntil(ctx context.Context, state State) error {
	switch state {
	case StateRunning:
		if err := n.api.WaitRunning(ctx, n.name); err != nil {
			return fmt.Errorf("node %s: %w", n.name, err)
		}
	case StateStatusOK:
		desc, err := n.Describe(ctx)
		if err != nil {
			return err
		}
		if err := n.api.WaitStatusOK(ctx, desc.InstanceID); err != nil {
			return fmt.Errorf("node %s: %w", n.name, err)
		}
	case StateTerminated:
		desc, err := n.Describe(ctx)
		if err != nil {
			return err
		}
		if err := n.api.WaitTerminated(ctx, desc.InstanceID); err != nil {
			return fmt.Errorf("node %s: %w", n.name, err)
		}
	default:
		return errdef.NewValidation("unknown wait state %q", state)
	}
	return nil
}

// DetachSecurityGroup removes one security group from the instance's
// attached set. Detaching a group that is not attached is a no-op.
func (n *Node) DetachSecurityGroup(ctx context.Context, groupID string) error {
	desc, err := n.Describe(ctx)
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(desc.SecurityGroupIDs))
	attached := false
	for _, id := range desc.SecurityGroupIDs {
		if id == groupID {
			attached = true
			continue
		}
		kept = append(kept, id)
	}
	if !attached {
		return nil
	}

	if err := n.api.ModifySecurityGroups(ctx, desc.InstanceID, kept); err != nil {
		return fmt.Errorf("failed to detach security group %s from node %s: %w", groupID, n.name, err)
	}
	desc.SecurityGroupIDs = kept
	return nil
}
