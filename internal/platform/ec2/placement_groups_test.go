package ec2

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsurePlacementGroupUsesClusterStrategy(t *testing.T) {
	t.Parallel()

	var captured *awsec2.CreatePlacementGroupInput
	api := &fakeAPI{
		createPlacementGroup: func(ctx context.Context, in *awsec2.CreatePlacementGroupInput) (*awsec2.CreatePlacementGroupOutput, error) {
			captured = in
			return &awsec2.CreatePlacementGroupOutput{}, nil
		},
	}
	client := newTestClient(t, api)

	require.NoError(t, client.EnsurePlacementGroup(context.Background(), "demo-placement-group"))
	require.NotNil(t, captured)
	assert.Equal(t, "demo-placement-group", aws.ToString(captured.GroupName))
	assert.Equal(t, ec2types.PlacementStrategyCluster, captured.Strategy)
}

func TestEnsurePlacementGroupToleratesExisting(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		createPlacementGroup: func(ctx context.Context, in *awsec2.CreatePlacementGroupInput) (*awsec2.CreatePlacementGroupOutput, error) {
			return nil, apiError("InvalidPlacementGroup.Duplicate")
		},
	}
	client := newTestClient(t, api)

	require.NoError(t, client.EnsurePlacementGroup(context.Background(), "demo-placement-group"))
}

func TestDeletePlacementGroupToleratesAbsent(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		deletePlacementGroup: func(ctx context.Context, in *awsec2.DeletePlacementGroupInput) (*awsec2.DeletePlacementGroupOutput, error) {
			return nil, apiError("InvalidPlacementGroup.Unknown")
		},
	}
	client := newTestClient(t, api)

	require.NoError(t, client.DeletePlacementGroup(context.Background(), "demo-placement-group"))
}

func TestPlacementGroupExists(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		describePlacements: func(ctx context.Context, in *awsec2.DescribePlacementGroupsInput) (*awsec2.DescribePlacementGroupsOutput, error) {
			return &awsec2.DescribePlacementGroupsOutput{
				PlacementGroups: []ec2types.PlacementGroup{
					{GroupName: aws.String("demo-placement-group")},
				},
			}, nil
		},
	}
	client := newTestClient(t, api)

	exists, err := client.PlacementGroupExists(context.Background(), "demo-placement-group")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPlacementGroupExistsUnknownNameIsFalse(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		describePlacements: func(ctx context.Context, in *awsec2.DescribePlacementGroupsInput) (*awsec2.DescribePlacementGroupsOutput, error) {
			return nil, apiError("InvalidPlacementGroup.Unknown")
		},
	}
	client := newTestClient(t, api)

	exists, err := client.PlacementGroupExists(context.Background(), "demo-placement-group")
	require.NoError(t, err)
	assert.False(t, exists)
}
