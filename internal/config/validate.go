package config

import (
	"fmt"
	"strings"

	"github.com/ec3io/ec3/internal/errdef"
)

// Validate checks the configuration and reports every violation at once,
// so a bad config is fixed in one round trip instead of one field per run.
func (c *Config) Validate() error {
	var violations []string
	add := func(format string, a ...any) {
		violations = append(violations, fmt.Sprintf(format, a...))
	}

	if c.ClusterName == "" {
		add("cluster_name is required")
	}
	if c.Region == "" {
		add("region is required")
	}
	if c.KeyPair == "" {
		add("keypair is required")
	}
	if c.Username == "" {
		add("username is required")
	}
	if c.InstanceType == "" {
		add("instance_type is required")
	}

	if c.VPC == "" {
		add("vpc is required")
	} else if !strings.HasPrefix(c.VPC, "vpc-") {
		add("vpc %q must start with vpc-", c.VPC)
	}
	if c.Subnet == "" {
		add("subnet is required")
	} else if !strings.HasPrefix(c.Subnet, "subnet-") {
		add("subnet %q must start with subnet-", c.Subnet)
	}
	if c.AMI == "" {
		add("ami is required")
	} else if !strings.HasPrefix(c.AMI, "ami-") {
		add("ami %q must start with ami-", c.AMI)
	}
	for _, sg := range c.SecurityGroups {
		if !strings.HasPrefix(sg, "sg-") {
			add("security group %q must start with sg-", sg)
		}
	}

	if c.NodeCount < 1 {
		add("node_count must be at least 1, got %d", c.NodeCount)
	}

	for key := range c.Tags {
		if key == "Name" {
			add("tag key Name is reserved for node identity")
		}
	}

	if c.EBS.SizeGiB < 1 {
		add("ebs size must be positive, got %d", c.EBS.SizeGiB)
	}
	if (c.EBS.Type == "io1" || c.EBS.Type == "io2") && c.EBS.Iops < 1 {
		add("ebs type %s requires iops", c.EBS.Type)
	}

	if c.LaunchTimeoutSecs < 0 {
		add("launch_timeout_secs must not be negative, got %d", c.LaunchTimeoutSecs)
	}
	if c.RetryDelaySecs < 1 {
		add("retry_delay_secs must be positive, got %d", c.RetryDelaySecs)
	}

	if len(violations) == 0 {
		return nil
	}
	return errdef.NewValidation("invalid configuration: %s", strings.Join(violations, "; "))
}
