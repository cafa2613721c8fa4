package ec2

import (
	"context"
)

// InstanceDescriptor holds the subset of instance attributes the cluster
// layer works with.
type InstanceDescriptor struct {
	InstanceID       string
	PrivateIP        string
	PublicIP         string
	SecurityGroupIDs []string
	State            string
}

// EBSSpec describes the root volume attached to a launched instance.
type EBSSpec struct {
	DeviceName string
	Type       string
	SizeGiB    int32
	Iops       int32
	Throughput int32
}

// LaunchSpec holds all parameters for launching one instance. Name becomes
// the instance's Name tag and must be unique among non-terminal instances.
type LaunchSpec struct {
	Name             string
	AMI              string
	InstanceType     string
	KeyPair          string
	SubnetID         string
	SecurityGroupIDs []string
	IAMRole          string
	PlacementGroup   string
	EBS              EBSSpec
	Tags             map[string]string
}

// InstanceManager defines the interface for managing single instances.
type InstanceManager interface {
	// DescribeInstance returns the unique pending or running instance
	// carrying the given Name tag, or nil if none exists. When the API
	// returns multiple matches the first one wins.
	DescribeInstance(ctx context.Context, name string) (*InstanceDescriptor, error)
	// RunInstance launches one instance and tags it with spec.Name plus
	// spec.Tags. The returned descriptor carries the assigned instance id;
	// IP fields may still be empty until the instance is running.
	RunInstance(ctx context.Context, spec LaunchSpec) (*InstanceDescriptor, error)
	TerminateInstance(ctx context.Context, instanceID string) error
	// DeleteNameTag removes the Name tag from a (typically terminating)
	// instance so the name is immediately reusable.
	DeleteNameTag(ctx context.Context, instanceID string) error
	// ModifySecurityGroups replaces the instance's full security group list.
	ModifySecurityGroups(ctx context.Context, instanceID string, groupIDs []string) error
	WaitRunning(ctx context.Context, name string) error
	WaitStatusOK(ctx context.Context, instanceID string) error
	WaitTerminated(ctx context.Context, instanceID string) error
}

// SecurityGroupManager defines the interface for managing security groups.
type SecurityGroupManager interface {
	// EnsureSecurityGroup creates the group or, when one with the same
	// name already exists in the VPC, resolves and returns the existing id.
	EnsureSecurityGroup(ctx context.Context, name, vpcID, description string) (string, error)
	// AuthorizeSelfIngress permits all traffic between members of the
	// group. Re-authorizing an existing rule is a no-op.
	AuthorizeSelfIngress(ctx context.Context, groupID string) error
	// GetSecurityGroupID returns the id of the named group in the VPC, or
	// an empty string if it does not exist.
	GetSecurityGroupID(ctx context.Context, name, vpcID string) (string, error)
	DeleteSecurityGroup(ctx context.Context, groupID string) error
}

// PlacementGroupManager defines the interface for managing placement groups.
type PlacementGroupManager interface {
	EnsurePlacementGroup(ctx context.Context, name string) error
	DeletePlacementGroup(ctx context.Context, name string) error
	PlacementGroupExists(ctx context.Context, name string) (bool, error)
}

// DefaultsResolver answers the live queries configuration defaulting needs.
type DefaultsResolver interface {
	// DefaultVPC returns the region's default VPC id.
	DefaultVPC(ctx context.Context) (string, error)
	// FirstSubnet returns the subnet with the lowest availability zone in
	// the VPC, giving a deterministic default placement.
	FirstSubnet(ctx context.Context, vpcID string) (string, error)
	// LatestAmazonLinuxAMI returns the newest Amazon Linux 2 AMI id.
	LatestAmazonLinuxAMI(ctx context.Context) (string, error)
	// ImageRootDevice returns the root device name of an AMI.
	ImageRootDevice(ctx context.Context, amiID string) (string, error)
}

// Client combines all provider interfaces the cluster layer consumes.
type Client interface {
	InstanceManager
	SecurityGroupManager
	PlacementGroupManager
	DefaultsResolver
}
