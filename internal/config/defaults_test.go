package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/platform/ec2"
)

func defaultsResolver() *ec2.MockClient {
	return &ec2.MockClient{
		DefaultVPCFunc: func(ctx context.Context) (string, error) {
			return "vpc-default", nil
		},
		FirstSubnetFunc: func(ctx context.Context, vpcID string) (string, error) {
			return "subnet-first", nil
		},
		LatestAmazonLinuxAMIFunc: func(ctx context.Context) (string, error) {
			return "ami-latest", nil
		},
		ImageRootDeviceFunc: func(ctx context.Context, amiID string) (string, error) {
			return "/dev/xvda", nil
		},
	}
}

func TestApplyDefaultsFillsStaticFields(t *testing.T) {
	cfg := &Config{ClusterName: "demo", Region: "us-east-1", KeyPair: "demo-key"}

	require.NoError(t, cfg.ApplyDefaults(context.Background(), defaultsResolver()))

	assert.Equal(t, DefaultInstanceType, cfg.InstanceType)
	assert.Equal(t, DefaultNodeCount, cfg.NodeCount)
	assert.Equal(t, DefaultEBSType, cfg.EBS.Type)
	assert.Equal(t, DefaultEBSSizeGiB, cfg.EBS.SizeGiB)
	assert.Equal(t, DefaultEBSIops, cfg.EBS.Iops)
	assert.Equal(t, DefaultEBSThroughput, cfg.EBS.Throughput)
	assert.Equal(t, DefaultLaunchTimeoutSecs, cfg.LaunchTimeoutSecs)
	assert.Equal(t, DefaultRetryDelaySecs, cfg.RetryDelaySecs)
}

func TestApplyDefaultsQueriesProvider(t *testing.T) {
	cfg := &Config{ClusterName: "demo", Region: "us-east-1", KeyPair: "demo-key"}

	require.NoError(t, cfg.ApplyDefaults(context.Background(), defaultsResolver()))

	assert.Equal(t, "vpc-default", cfg.VPC)
	assert.Equal(t, "subnet-first", cfg.Subnet)
	assert.Equal(t, "ami-latest", cfg.AMI)
	assert.Equal(t, DefaultUsername, cfg.Username)
	assert.Equal(t, "/dev/xvda", cfg.EBS.DeviceName)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		ClusterName:  "demo",
		Region:       "us-east-1",
		VPC:          "vpc-mine",
		Subnet:       "subnet-mine",
		AMI:          "ami-mine",
		Username:     "ubuntu",
		InstanceType: "p3.16xlarge",
		NodeCount:    8,
		KeyPair:      "demo-key",
		EBS:          EBSConfig{Type: "io2", SizeGiB: 500, Iops: 10000, DeviceName: "/dev/sda1"},
	}

	require.NoError(t, cfg.ApplyDefaults(context.Background(), defaultsResolver()))

	assert.Equal(t, "vpc-mine", cfg.VPC)
	assert.Equal(t, "subnet-mine", cfg.Subnet)
	assert.Equal(t, "ami-mine", cfg.AMI)
	assert.Equal(t, "ubuntu", cfg.Username)
	assert.Equal(t, "p3.16xlarge", cfg.InstanceType)
	assert.Equal(t, 8, cfg.NodeCount)
	assert.Equal(t, "io2", cfg.EBS.Type)
	assert.Equal(t, 500, cfg.EBS.SizeGiB)
	assert.Equal(t, "/dev/sda1", cfg.EBS.DeviceName)
}

func TestApplyDefaultsGp3OnlyIopsDefaulting(t *testing.T) {
	cfg := &Config{
		ClusterName: "demo",
		Region:      "us-east-1",
		KeyPair:     "demo-key",
		EBS:         EBSConfig{Type: "gp2"},
	}

	require.NoError(t, cfg.ApplyDefaults(context.Background(), defaultsResolver()))

	assert.Zero(t, cfg.EBS.Iops, "gp2 volumes take no provisioned iops default")
	assert.Zero(t, cfg.EBS.Throughput)
}

func TestApplyDefaultsRequiresRegion(t *testing.T) {
	cfg := &Config{ClusterName: "demo", KeyPair: "demo-key"}

	err := cfg.ApplyDefaults(context.Background(), defaultsResolver())
	require.Error(t, err)
	assert.True(t, errdef.IsValidation(err))
	assert.Contains(t, err.Error(), "region")
}

func TestApplyDefaultsAMIUsernameCoupling(t *testing.T) {
	cfg := &Config{
		ClusterName: "demo",
		Region:      "us-east-1",
		KeyPair:     "demo-key",
		AMI:         "ami-mine",
	}

	err := cfg.ApplyDefaults(context.Background(), defaultsResolver())
	require.Error(t, err)
	assert.True(t, errdef.IsValidation(err))
	assert.Contains(t, err.Error(), "ami and username must be set together")
}

func TestApplyDefaultsResolvesDeviceNameForExplicitAMI(t *testing.T) {
	resolver := defaultsResolver()
	var askedFor string
	resolver.ImageRootDeviceFunc = func(ctx context.Context, amiID string) (string, error) {
		askedFor = amiID
		return "/dev/sda1", nil
	}

	cfg := &Config{
		ClusterName: "demo",
		Region:      "us-east-1",
		KeyPair:     "demo-key",
		AMI:         "ami-mine",
		Username:    "ubuntu",
	}

	require.NoError(t, cfg.ApplyDefaults(context.Background(), resolver))
	assert.Equal(t, "ami-mine", askedFor)
	assert.Equal(t, "/dev/sda1", cfg.EBS.DeviceName)
}
