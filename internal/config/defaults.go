package config

import (
	"context"
	"fmt"

	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/platform/ec2"
)

// Static defaults applied to fields the user left empty.
const (
	DefaultInstanceType      = "m5.large"
	DefaultNodeCount         = 1
	DefaultUsername          = "ec2-user"
	DefaultEBSType           = "gp3"
	DefaultEBSSizeGiB        = 100
	DefaultEBSIops           = 3000
	DefaultEBSThroughput     = 125
	DefaultLaunchTimeoutSecs = 900
	DefaultRetryDelaySecs    = 10
)

// ApplyDefaults fills empty fields with static defaults and, where a
// default requires asking the provider (VPC, subnet, AMI, root device),
// live queries. Explicitly set values are never overwritten.
func (c *Config) ApplyDefaults(ctx context.Context, resolver ec2.DefaultsResolver) error {
	if c.InstanceType == "" {
		c.InstanceType = DefaultInstanceType
	}
	if c.NodeCount == 0 {
		c.NodeCount = DefaultNodeCount
	}
	if c.EBS.Type == "" {
		c.EBS.Type = DefaultEBSType
	}
	if c.EBS.SizeGiB == 0 {
		c.EBS.SizeGiB = DefaultEBSSizeGiB
	}
	if c.EBS.Iops == 0 && c.EBS.Type == DefaultEBSType {
		c.EBS.Iops = DefaultEBSIops
	}
	if c.EBS.Throughput == 0 && c.EBS.Type == DefaultEBSType {
		c.EBS.Throughput = DefaultEBSThroughput
	}
	if c.LaunchTimeoutSecs == 0 {
		c.LaunchTimeoutSecs = DefaultLaunchTimeoutSecs
	}
	if c.RetryDelaySecs == 0 {
		c.RetryDelaySecs = DefaultRetryDelaySecs
	}

	if c.Region == "" {
		return errdef.NewValidation("region must be set before defaults can be resolved")
	}

	if c.VPC == "" {
		vpc, err := resolver.DefaultVPC(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve default VPC: %w", err)
		}
		c.VPC = vpc
	}

	if c.Subnet == "" {
		subnet, err := resolver.FirstSubnet(ctx, c.VPC)
		if err != nil {
			return fmt.Errorf("failed to resolve default subnet: %w", err)
		}
		c.Subnet = subnet
	}

	// AMI and username are coupled: the username is a property of the
	// image, so defaulting one without the other would guess wrong.
	if (c.AMI == "") != (c.Username == "") {
		return errdef.NewValidation("ami and username must be set together (ami=%q, username=%q)", c.AMI, c.Username)
	}
	if c.AMI == "" {
		ami, err := resolver.LatestAmazonLinuxAMI(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve default AMI: %w", err)
		}
		c.AMI = ami
		c.Username = DefaultUsername
	}

	if c.EBS.DeviceName == "" {
		device, err := resolver.ImageRootDevice(ctx, c.AMI)
		if err != nil {
			return fmt.Errorf("failed to resolve root device of %s: %w", c.AMI, err)
		}
		c.EBS.DeviceName = device
	}

	return nil
}
