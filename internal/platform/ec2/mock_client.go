package ec2

import (
	"context"
)

// MockClient is a mock implementation of Client.
type MockClient struct {
	// Instances
	DescribeInstanceFunc     func(ctx context.Context, name string) (*InstanceDescriptor, error)
	RunInstanceFunc          func(ctx context.Context, spec LaunchSpec) (*InstanceDescriptor, error)
	TerminateInstanceFunc    func(ctx context.Context, instanceID string) error
	DeleteNameTagFunc        func(ctx context.Context, instanceID string) error
	ModifySecurityGroupsFunc func(ctx context.Context, instanceID string, groupIDs []string) error
	WaitRunningFunc          func(ctx context.Context, name string) error
	WaitStatusOKFunc         func(ctx context.Context, instanceID string) error
	WaitTerminatedFunc       func(ctx context.Context, instanceID string) error

	// SecurityGroups
	EnsureSecurityGroupFunc  func(ctx context.Context, name, vpcID, description string) (string, error)
	AuthorizeSelfIngressFunc func(ctx context.Context, groupID string) error
	GetSecurityGroupIDFunc   func(ctx context.Context, name, vpcID string) (string, error)
	DeleteSecurityGroupFunc  func(ctx context.Context, groupID string) error

	// PlacementGroups
	EnsurePlacementGroupFunc func(ctx context.Context, name string) error
	DeletePlacementGroupFunc func(ctx context.Context, name string) error
	PlacementGroupExistsFunc func(ctx context.Context, name string) (bool, error)

	// Defaults
	DefaultVPCFunc           func(ctx context.Context) (string, error)
	FirstSubnetFunc          func(ctx context.Context, vpcID string) (string, error)
	LatestAmazonLinuxAMIFunc func(ctx context.Context) (string, error)
	ImageRootDeviceFunc      func(ctx context.Context, amiID string) (string, error)
}

// Ensure interface compliance
var _ Client = (*MockClient)(nil)

// DescribeInstance mocks the lookup of an instance by Name tag.
func (m *MockClient) DescribeInstance(ctx context.Context, name string) (*InstanceDescriptor, error) {
	if m.DescribeInstanceFunc != nil {
		return m.DescribeInstanceFunc(ctx, name)
	}
	return nil, nil
}

// RunInstance mocks instance launch.
func (m *MockClient) RunInstance(ctx context.Context, spec LaunchSpec) (*InstanceDescriptor, error) {
	if m.RunInstanceFunc != nil {
		return m.RunInstanceFunc(ctx, spec)
	}
	return &InstanceDescriptor{InstanceID: "i-mock"}, nil
}

// TerminateInstance mocks instance termination.
func (m *MockClient) TerminateInstance(ctx context.Context, instanceID string) error {
	if m.TerminateInstanceFunc != nil {
		return m.TerminateInstanceFunc(ctx, instanceID)
	}
	return nil
}

// DeleteNameTag mocks Name tag removal.
func (m *MockClient) DeleteNameTag(ctx context.Context, instanceID string) error {
	if m.DeleteNameTagFunc != nil {
		return m.DeleteNameTagFunc(ctx, instanceID)
	}
	return nil
}

// ModifySecurityGroups mocks replacing an instance's security group list.
func (m *MockClient) ModifySecurityGroups(ctx context.Context, instanceID string, groupIDs []string) error {
	if m.ModifySecurityGroupsFunc != nil {
		return m.ModifySecurityGroupsFunc(ctx, instanceID, groupIDs)
	}
	return nil
}

// WaitRunning mocks waiting for the running state.
func (m *MockClient) WaitRunning(ctx context.Context, name string) error {
	if m.WaitRunningFunc != nil {
		return m.WaitRunningFunc(ctx, name)
	}
	return nil
}

// WaitStatusOK mocks waiting for status checks.
func (m *MockClient) WaitStatusOK(ctx context.Context, instanceID string) error {
	if m.WaitStatusOKFunc != nil {
		return m.WaitStatusOKFunc(ctx, instanceID)
	}
	return nil
}

// WaitTerminated mocks waiting for the terminated state.
func (m *MockClient) WaitTerminated(ctx context.Context, instanceID string) error {
	if m.WaitTerminatedFunc != nil {
		return m.WaitTerminatedFunc(ctx, instanceID)
	}
	return nil
}

// EnsureSecurityGroup mocks security group creation.
func (m *MockClient) EnsureSecurityGroup(ctx context.Context, name, vpcID, description string) (string, error) {
	if m.EnsureSecurityGroupFunc != nil {
		return m.EnsureSecurityGroupFunc(ctx, name, vpcID, description)
	}
	return "sg-mock", nil
}

// AuthorizeSelfIngress mocks adding the intracluster ingress rule.
func (m *MockClient) AuthorizeSelfIngress(ctx context.Context, groupID string) error {
	if m.AuthorizeSelfIngressFunc != nil {
		return m.AuthorizeSelfIngressFunc(ctx, groupID)
	}
	return nil
}

// GetSecurityGroupID mocks the security group lookup.
func (m *MockClient) GetSecurityGroupID(ctx context.Context, name, vpcID string) (string, error) {
	if m.GetSecurityGroupIDFunc != nil {
		return m.GetSecurityGroupIDFunc(ctx, name, vpcID)
	}
	return "", nil
}

// DeleteSecurityGroup mocks security group deletion.
func (m *MockClient) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	if m.DeleteSecurityGroupFunc != nil {
		return m.DeleteSecurityGroupFunc(ctx, groupID)
	}
	return nil
}

// EnsurePlacementGroup mocks placement group creation.
func (m *MockClient) EnsurePlacementGroup(ctx context.Context, name string) error {
	if m.EnsurePlacementGroupFunc != nil {
		return m.EnsurePlacementGroupFunc(ctx, name)
	}
	return nil
}

// DeletePlacementGroup mocks placement group deletion.
func (m *MockClient) DeletePlacementGroup(ctx context.Context, name string) error {
	if m.DeletePlacementGroupFunc != nil {
		return m.DeletePlacementGroupFunc(ctx, name)
	}
	return nil
}

// PlacementGroupExists mocks the placement group existence check.
func (m *MockClient) PlacementGroupExists(ctx context.Context, name string) (bool, error) {
	if m.PlacementGroupExistsFunc != nil {
		return m.PlacementGroupExistsFunc(ctx, name)
	}
	return false, nil
}

// DefaultVPC mocks the default VPC lookup.
func (m *MockClient) DefaultVPC(ctx context.Context) (string, error) {
	if m.DefaultVPCFunc != nil {
		return m.DefaultVPCFunc(ctx)
	}
	return "vpc-mock", nil
}

// FirstSubnet mocks the subnet lookup.
func (m *MockClient) FirstSubnet(ctx context.Context, vpcID string) (string, error) {
	if m.FirstSubnetFunc != nil {
		return m.FirstSubnetFunc(ctx, vpcID)
	}
	return "subnet-mock", nil
}

// LatestAmazonLinuxAMI mocks the AMI lookup.
func (m *MockClient) LatestAmazonLinuxAMI(ctx context.Context) (string, error) {
	if m.LatestAmazonLinuxAMIFunc != nil {
		return m.LatestAmazonLinuxAMIFunc(ctx)
	}
	return "ami-mock", nil
}

// ImageRootDevice mocks the root device lookup.
func (m *MockClient) ImageRootDevice(ctx context.Context, amiID string) (string, error) {
	if m.ImageRootDeviceFunc != nil {
		return m.ImageRootDeviceFunc(ctx, amiID)
	}
	return "/dev/xvda", nil
}
