package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// EnsureSecurityGroup creates the named security group in the VPC. If a
// group with that name already exists the existing id is returned, so the
// call is safe to repeat.
func (c *RealClient) EnsureSecurityGroup(ctx context.Context, name, vpcID, description string) (string, error) {
	out, err := c.api.CreateSecurityGroup(ctx, &awsec2.CreateSecurityGroupInput{
		GroupName:   aws.String(name),
		VpcId:       aws.String(vpcID),
		Description: aws.String(description),
	})
	if err == nil {
		return aws.ToString(out.GroupId), nil
	}
	if !IsDuplicate(err) {
		return "", fmt.Errorf("failed to create security group %s: %w", name, err)
	}

	// Create collided with an existing group; resolve its id.
	id, err := c.GetSecurityGroupID(ctx, name, vpcID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve existing security group %s: %w", name, err)
	}
	if id == "" {
		return "", fmt.Errorf("security group %s reported as duplicate but not found in vpc %s", name, vpcID)
	}
	return id, nil
}

// AuthorizeSelfIngress adds an all-protocol ingress rule whose source is
// the group itself, so every cluster member can reach every other one.
// An already-present rule is tolerated.
func (c *RealClient) AuthorizeSelfIngress(ctx context.Context, groupID string) error {
	_, err := c.api.AuthorizeSecurityGroupIngress(ctx, &awsec2.AuthorizeSecurityGroupIngressInput{
		GroupId: aws.String(groupID),
		IpPermissions: []ec2types.IpPermission{
			{
				IpProtocol: aws.String("-1"),
				UserIdGroupPairs: []ec2types.UserIdGroupPair{
					{GroupId: aws.String(groupID)},
				},
			},
		},
	})
	if err != nil && !IsDuplicate(err) {
		return fmt.Errorf("failed to authorize self ingress on %s: %w", groupID, err)
	}
	return nil
}

// GetSecurityGroupID returns the id of the named group within the VPC, or
// an empty string if no such group exists.
func (c *RealClient) GetSecurityGroupID(ctx context.Context, name, vpcID string) (string, error) {
	out, err := c.api.DescribeSecurityGroups(ctx, &awsec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("group-name"),
				Values: []string{name},
			},
			{
				Name:   aws.String("vpc-id"),
				Values: []string{vpcID},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe security group %s: %w", name, err)
	}
	if len(out.SecurityGroups) == 0 {
		return "", nil
	}
	return aws.ToString(out.SecurityGroups[0].GroupId), nil
}

// DeleteSecurityGroup deletes the group by id. Deleting a group that is
// already gone is a no-op.
func (c *RealClient) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	_, err := c.api.DeleteSecurityGroup(ctx, &awsec2.DeleteSecurityGroupInput{
		GroupId: aws.String(groupID),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete security group %s: %w", groupID, err)
	}
	return nil
}
