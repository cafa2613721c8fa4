package ec2

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code, Fault: smithy.FaultClient}
}

func TestEnsureSecurityGroupCreatesNew(t *testing.T) {
	t.Parallel()

	var captured *awsec2.CreateSecurityGroupInput
	api := &fakeAPI{
		createSecurityGroup: func(ctx context.Context, in *awsec2.CreateSecurityGroupInput) (*awsec2.CreateSecurityGroupOutput, error) {
			captured = in
			return &awsec2.CreateSecurityGroupOutput{GroupId: aws.String("sg-0new")}, nil
		},
	}
	client := newTestClient(t, api)

	id, err := client.EnsureSecurityGroup(context.Background(), "demo-intracluster-ssh", "vpc-1", "intracluster traffic")
	require.NoError(t, err)
	assert.Equal(t, "sg-0new", id)

	require.NotNil(t, captured)
	assert.Equal(t, "demo-intracluster-ssh", aws.ToString(captured.GroupName))
	assert.Equal(t, "vpc-1", aws.ToString(captured.VpcId))
	assert.Equal(t, "intracluster traffic", aws.ToString(captured.Description))
}

func TestEnsureSecurityGroupResolvesDuplicate(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		createSecurityGroup: func(ctx context.Context, in *awsec2.CreateSecurityGroupInput) (*awsec2.CreateSecurityGroupOutput, error) {
			return nil, apiError("InvalidGroup.Duplicate")
		},
		describeSecurityGroups: func(ctx context.Context, in *awsec2.DescribeSecurityGroupsInput) (*awsec2.DescribeSecurityGroupsOutput, error) {
			assert.Equal(t, []string{"demo-intracluster-ssh"}, filterValues(in.Filters, "group-name"))
			assert.Equal(t, []string{"vpc-1"}, filterValues(in.Filters, "vpc-id"))
			return &awsec2.DescribeSecurityGroupsOutput{
				SecurityGroups: []ec2types.SecurityGroup{
					{GroupId: aws.String("sg-0existing")},
				},
			}, nil
		},
	}
	client := newTestClient(t, api)

	id, err := client.EnsureSecurityGroup(context.Background(), "demo-intracluster-ssh", "vpc-1", "intracluster traffic")
	require.NoError(t, err)
	assert.Equal(t, "sg-0existing", id)
}

func TestEnsureSecurityGroupDuplicateButUnresolvable(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		createSecurityGroup: func(ctx context.Context, in *awsec2.CreateSecurityGroupInput) (*awsec2.CreateSecurityGroupOutput, error) {
			return nil, apiError("InvalidGroup.Duplicate")
		},
	}
	client := newTestClient(t, api)

	_, err := client.EnsureSecurityGroup(context.Background(), "demo-intracluster-ssh", "vpc-1", "intracluster traffic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAuthorizeSelfIngress(t *testing.T) {
	t.Parallel()

	var captured *awsec2.AuthorizeSecurityGroupIngressInput
	api := &fakeAPI{
		authorizeIngress: func(ctx context.Context, in *awsec2.AuthorizeSecurityGroupIngressInput) (*awsec2.AuthorizeSecurityGroupIngressOutput, error) {
			captured = in
			return &awsec2.AuthorizeSecurityGroupIngressOutput{}, nil
		},
	}
	client := newTestClient(t, api)

	require.NoError(t, client.AuthorizeSelfIngress(context.Background(), "sg-1"))

	require.NotNil(t, captured)
	assert.Equal(t, "sg-1", aws.ToString(captured.GroupId))
	require.Len(t, captured.IpPermissions, 1)
	perm := captured.IpPermissions[0]
	assert.Equal(t, "-1", aws.ToString(perm.IpProtocol))
	require.Len(t, perm.UserIdGroupPairs, 1)
	assert.Equal(t, "sg-1", aws.ToString(perm.UserIdGroupPairs[0].GroupId))
}

func TestAuthorizeSelfIngressToleratesExistingRule(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		authorizeIngress: func(ctx context.Context, in *awsec2.AuthorizeSecurityGroupIngressInput) (*awsec2.AuthorizeSecurityGroupIngressOutput, error) {
			return nil, apiError("InvalidPermission.Duplicate")
		},
	}
	client := newTestClient(t, api)

	require.NoError(t, client.AuthorizeSelfIngress(context.Background(), "sg-1"))
}

func TestGetSecurityGroupIDAbsentReturnsEmpty(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, &fakeAPI{})

	id, err := client.GetSecurityGroupID(context.Background(), "demo-intracluster-ssh", "vpc-1")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestDeleteSecurityGroupToleratesAbsent(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		deleteSecurityGroup: func(ctx context.Context, in *awsec2.DeleteSecurityGroupInput) (*awsec2.DeleteSecurityGroupOutput, error) {
			return nil, apiError("InvalidGroup.NotFound")
		},
	}
	client := newTestClient(t, api)

	require.NoError(t, client.DeleteSecurityGroup(context.Background(), "sg-gone"))
}

func TestDeleteSecurityGroupPropagatesOtherErrors(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		deleteSecurityGroup: func(ctx context.Context, in *awsec2.DeleteSecurityGroupInput) (*awsec2.DeleteSecurityGroupOutput, error) {
			return nil, apiError("DependencyViolation")
		},
	}
	client := newTestClient(t, api)

	require.Error(t, client.DeleteSecurityGroup(context.Background(), "sg-in-use"))
}
