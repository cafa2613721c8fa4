package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// EnsurePlacementGroup creates a cluster-strategy placement group with the
// given name. An existing group with the same name is tolerated.
func (c *RealClient) EnsurePlacementGroup(ctx context.Context, name string) error {
	_, err := c.api.CreatePlacementGroup(ctx, &awsec2.CreatePlacementGroupInput{
		GroupName: aws.String(name),
		Strategy:  ec2types.PlacementStrategyCluster,
	})
	if err != nil && !IsDuplicate(err) {
		return fmt.Errorf("failed to create placement group %s: %w", name, err)
	}
	return nil
}

// DeletePlacementGroup deletes the named placement group. A group that is
// already gone is a no-op.
func (c *RealClient) DeletePlacementGroup(ctx context.Context, name string) error {
	_, err := c.api.DeletePlacementGroup(ctx, &awsec2.DeletePlacementGroupInput{
		GroupName: aws.String(name),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete placement group %s: %w", name, err)
	}
	return nil
}

// PlacementGroupExists reports whether the named placement group exists.
func (c *RealClient) PlacementGroupExists(ctx context.Context, name string) (bool, error) {
	out, err := c.api.DescribePlacementGroups(ctx, &awsec2.DescribePlacementGroupsInput{
		GroupNames: []string{name},
	})
	if err != nil {
		// Describing an unknown group name is an error, not an empty list.
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to describe placement group %s: %w", name, err)
	}
	return len(out.PlacementGroups) > 0, nil
}
