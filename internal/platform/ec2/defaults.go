package ec2

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// amazonLinuxDescription matches the Amazon Linux 2 image variant the EC2
// launch console offers.
const amazonLinuxDescription = "Amazon Linux 2 AMI 2.0.* x86_64 HVM ebs"

// DefaultVPC returns the region's default VPC id.
func (c *RealClient) DefaultVPC(ctx context.Context) (string, error) {
	out, err := c.api.DescribeVpcs(ctx, &awsec2.DescribeVpcsInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("isDefault"),
				Values: []string{"true"},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe default VPC: %w", err)
	}
	if len(out.Vpcs) == 0 {
		return "", fmt.Errorf("region %s has no default VPC; set vpc explicitly", c.region)
	}
	return aws.ToString(out.Vpcs[0].VpcId), nil
}

// FirstSubnet returns the subnet with the lowest availability zone id in
// the VPC. Sorting makes the default deterministic across calls.
func (c *RealClient) FirstSubnet(ctx context.Context, vpcID string) (string, error) {
	out, err := c.api.DescribeSubnets(ctx, &awsec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("vpc-id"),
				Values: []string{vpcID},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe subnets of %s: %w", vpcID, err)
	}
	if len(out.Subnets) == 0 {
		return "", fmt.Errorf("vpc %s has no subnets; set subnet explicitly", vpcID)
	}

	subnets := out.Subnets
	sort.Slice(subnets, func(i, j int) bool {
		return aws.ToString(subnets[i].AvailabilityZoneId) < aws.ToString(subnets[j].AvailabilityZoneId)
	})
	return aws.ToString(subnets[0].SubnetId), nil
}

// LatestAmazonLinuxAMI returns the newest public Amazon Linux 2 AMI id.
func (c *RealClient) LatestAmazonLinuxAMI(ctx context.Context) (string, error) {
	out, err := c.api.DescribeImages(ctx, &awsec2.DescribeImagesInput{
		Owners:          []string{"amazon"},
		ExecutableUsers: []string{"all"},
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("description"),
				Values: []string{amazonLinuxDescription},
			},
			{
				Name:   aws.String("architecture"),
				Values: []string{string(ec2types.ArchitectureValuesX8664)},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe Amazon Linux images: %w", err)
	}
	if len(out.Images) == 0 {
		return "", fmt.Errorf("no Amazon Linux 2 image found in %s; set ami explicitly", c.region)
	}

	images := out.Images
	// CreationDate is ISO 8601, so lexical order is chronological order.
	sort.Slice(images, func(i, j int) bool {
		return aws.ToString(images[i].CreationDate) > aws.ToString(images[j].CreationDate)
	})
	return aws.ToString(images[0].ImageId), nil
}

// ImageRootDevice returns the root device name of an AMI, used as the
// default EBS device name.
func (c *RealClient) ImageRootDevice(ctx context.Context, amiID string) (string, error) {
	out, err := c.api.DescribeImages(ctx, &awsec2.DescribeImagesInput{
		ImageIds: []string{amiID},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe image %s: %w", amiID, err)
	}
	if len(out.Images) == 0 {
		return "", fmt.Errorf("image %s not found", amiID)
	}
	return aws.ToString(out.Images[0].RootDeviceName), nil
}
