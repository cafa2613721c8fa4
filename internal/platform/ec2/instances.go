package ec2

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/ec3io/ec3/internal/errdef"
)

// nameTagKey is the reserved tag carrying a node's unique name.
const nameTagKey = "Name"

// nonTerminalStates is the state set a named instance is visible in.
// Stopped, stopping and terminated instances are invisible to this system.
var nonTerminalStates = []string{
	string(ec2types.InstanceStateNamePending),
	string(ec2types.InstanceStateNameRunning),
}

func nameStateFilters(name string) []ec2types.Filter {
	return []ec2types.Filter{
		{
			Name:   aws.String("tag:" + nameTagKey),
			Values: []string{name},
		},
		{
			Name:   aws.String("instance-state-name"),
			Values: nonTerminalStates,
		},
	}
}

// DescribeInstance returns the pending or running instance tagged with the
// given name, or nil if no such instance exists.
func (c *RealClient) DescribeInstance(ctx context.Context, name string) (*InstanceDescriptor, error) {
	out, err := c.api.DescribeInstances(ctx, &awsec2.DescribeInstancesInput{
		Filters: nameStateFilters(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance %s: %w", name, err)
	}

	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			return descriptorFromInstance(inst), nil
		}
	}
	return nil, nil
}

// RunInstance launches one instance per the spec and tags it in the same
// call. User tags may not use the reserved Name key; such entries are
// dropped.
func (c *RealClient) RunInstance(ctx context.Context, spec LaunchSpec) (*InstanceDescriptor, error) {
	input := &awsec2.RunInstancesInput{
		ImageId:          aws.String(spec.AMI),
		InstanceType:     ec2types.InstanceType(spec.InstanceType),
		KeyName:          aws.String(spec.KeyPair),
		MinCount:         aws.Int32(1),
		MaxCount:         aws.Int32(1),
		SubnetId:         aws.String(spec.SubnetID),
		SecurityGroupIds: spec.SecurityGroupIDs,
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeInstance,
				Tags:         launchTags(spec.Name, spec.Tags),
			},
		},
	}

	if spec.IAMRole != "" {
		input.IamInstanceProfile = &ec2types.IamInstanceProfileSpecification{
			Name: aws.String(spec.IAMRole),
		}
	}

	if spec.PlacementGroup != "" {
		input.Placement = &ec2types.Placement{
			GroupName: aws.String(spec.PlacementGroup),
		}
	}

	if spec.EBS.DeviceName != "" {
		input.BlockDeviceMappings = []ec2types.BlockDeviceMapping{blockDeviceMapping(spec.EBS)}
	}

	out, err := c.api.RunInstances(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to launch instance %s: %w", spec.Name, err)
	}
	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("launch of %s returned no instance", spec.Name)
	}

	return descriptorFromInstance(out.Instances[0]), nil
}

// TerminateInstance triggers termination of the given instance.
func (c *RealClient) TerminateInstance(ctx context.Context, instanceID string) error {
	_, err := c.api.TerminateInstances(ctx, &awsec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", instanceID, err)
	}
	return nil
}

// DeleteNameTag strips the Name tag from an instance so a new node can
// reuse the name without waiting for full teardown.
func (c *RealClient) DeleteNameTag(ctx context.Context, instanceID string) error {
	_, err := c.api.DeleteTags(ctx, &awsec2.DeleteTagsInput{
		Resources: []string{instanceID},
		Tags: []ec2types.Tag{
			{Key: aws.String(nameTagKey)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete name tag from %s: %w", instanceID, err)
	}
	return nil
}

// ModifySecurityGroups replaces the instance's attached security group list.
func (c *RealClient) ModifySecurityGroups(ctx context.Context, instanceID string, groupIDs []string) error {
	_, err := c.api.ModifyInstanceAttribute(ctx, &awsec2.ModifyInstanceAttributeInput{
		InstanceId: aws.String(instanceID),
		Groups:     groupIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to modify security groups of %s: %w", instanceID, err)
	}
	return nil
}

// WaitRunning blocks until the instance tagged with the given name reaches
// the running state.
func (c *RealClient) WaitRunning(ctx context.Context, name string) error {
	waiter := awsec2.NewInstanceRunningWaiter(c.api)
	err := waiter.Wait(ctx, &awsec2.DescribeInstancesInput{
		Filters: nameStateFilters(name),
	}, waitRunningTimeout)
	if err != nil {
		if isWaiterTimeout(err) {
			return errdef.NewTimeout("instance %s did not reach running within %s: %v", name, waitRunningTimeout, err)
		}
		return fmt.Errorf("failed waiting for instance %s to be running: %w", name, err)
	}
	return nil
}

// WaitStatusOK blocks until the instance passes both EC2 status checks,
// which is the earliest point SSH is reliably reachable.
func (c *RealClient) WaitStatusOK(ctx context.Context, instanceID string) error {
	waiter := awsec2.NewInstanceStatusOkWaiter(c.api)
	err := waiter.Wait(ctx, &awsec2.DescribeInstanceStatusInput{
		InstanceIds: []string{instanceID},
	}, waitStatusOKTimeout)
	if err != nil {
		if isWaiterTimeout(err) {
			return errdef.NewTimeout("instance %s did not reach status-ok within %s: %v", instanceID, waitStatusOKTimeout, err)
		}
		return fmt.Errorf("failed waiting for instance %s status checks: %w", instanceID, err)
	}
	return nil
}

// WaitTerminated blocks until the instance reaches the terminated state.
func (c *RealClient) WaitTerminated(ctx context.Context, instanceID string) error {
	waiter := awsec2.NewInstanceTerminatedWaiter(c.api)
	err := waiter.Wait(ctx, &awsec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	}, waitTerminatedTimeout)
	if err != nil {
		if isWaiterTimeout(err) {
			return errdef.NewTimeout("instance %s did not reach terminated within %s: %v", instanceID, waitTerminatedTimeout, err)
		}
		return fmt.Errorf("failed waiting for instance %s to terminate: %w", instanceID, err)
	}
	return nil
}

func descriptorFromInstance(inst ec2types.Instance) *InstanceDescriptor {
	desc := &InstanceDescriptor{
		InstanceID: aws.ToString(inst.InstanceId),
		PrivateIP:  aws.ToString(inst.PrivateIpAddress),
		PublicIP:   aws.ToString(inst.PublicIpAddress),
	}
	if inst.State != nil {
		desc.State = string(inst.State.Name)
	}
	for _, group := range inst.SecurityGroups {
		desc.SecurityGroupIDs = append(desc.SecurityGroupIDs, aws.ToString(group.GroupId))
	}
	return desc
}

func launchTags(name string, userTags map[string]string) []ec2types.Tag {
	tags := []ec2types.Tag{
		{Key: aws.String(nameTagKey), Value: aws.String(name)},
	}
	for key, value := range userTags {
		if key == nameTagKey {
			continue
		}
		tags = append(tags, ec2types.Tag{Key: aws.String(key), Value: aws.String(value)})
	}
	return tags
}

func blockDeviceMapping(ebs EBSSpec) ec2types.BlockDeviceMapping {
	device := &ec2types.EbsBlockDevice{
		VolumeType:          ec2types.VolumeType(ebs.Type),
		VolumeSize:          aws.Int32(ebs.SizeGiB),
		DeleteOnTermination: aws.Bool(true),
	}
	// Iops is only valid for gp3 and provisioned-iops volumes, Throughput
	// only for gp3.
	switch ebs.Type {
	case "gp3":
		if ebs.Iops > 0 {
			device.Iops = aws.Int32(ebs.Iops)
		}
		if ebs.Throughput > 0 {
			device.Throughput = aws.Int32(ebs.Throughput)
		}
	case "io1", "io2":
		if ebs.Iops > 0 {
			device.Iops = aws.Int32(ebs.Iops)
		}
	}
	return ec2types.BlockDeviceMapping{
		DeviceName: aws.String(ebs.DeviceName),
		Ebs:        device,
	}
}

// isWaiterTimeout reports whether err is the SDK waiter's budget-exceeded
// error rather than a failed API call. The SDK does not export a typed
// error for this case.
func isWaiterTimeout(err error) bool {
	return err != nil && strings.Contains(err.Error(), "exceeded max wait time")
}
