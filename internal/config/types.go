package config

import (
	"time"

	"github.com/ec3io/ec3/internal/util/retry"
)

// Config holds the cluster configuration.
type Config struct {
	// ClusterName prefixes every resource the cluster owns: node Name
	// tags, the intra-cluster security group and the placement group.
	ClusterName string `mapstructure:"cluster_name" yaml:"cluster_name"`

	// Region is the AWS region instances launch in. Always required.
	Region string `mapstructure:"region" yaml:"region"`

	// VPC is the VPC id. Empty resolves to the region's default VPC.
	VPC string `mapstructure:"vpc" yaml:"vpc"`

	// Subnet is the subnet id. Empty resolves to the VPC's first subnet
	// by availability zone.
	Subnet string `mapstructure:"subnet" yaml:"subnet"`

	// AMI is the machine image id. AMI and Username are coupled: set both
	// or neither. When both are empty the newest Amazon Linux 2 image is
	// used with username ec2-user.
	AMI string `mapstructure:"ami" yaml:"ami"`

	// Username is the login user baked into the AMI.
	Username string `mapstructure:"username" yaml:"username"`

	// InstanceType is the EC2 instance type API name.
	// Default: m5.large
	InstanceType string `mapstructure:"instance_type" yaml:"instance_type"`

	// NodeCount is the number of nodes, master included.
	// Default: 1
	NodeCount int `mapstructure:"node_count" yaml:"node_count"`

	// KeyPair names the EC2 key pair used for SSH access.
	KeyPair string `mapstructure:"keypair" yaml:"keypair"`

	// IAMRole optionally names (not ARN) an instance profile to attach.
	IAMRole string `mapstructure:"iam_role" yaml:"iam_role"`

	// SecurityGroups lists extra security group ids attached to every
	// node, in addition to the cluster's own group.
	SecurityGroups []string `mapstructure:"security_groups" yaml:"security_groups"`

	// Tags are applied to every instance. The Name key is reserved.
	Tags map[string]string `mapstructure:"tags" yaml:"tags"`

	// EBS describes the root volume.
	EBS EBSConfig `mapstructure:"ebs" yaml:"ebs"`

	// UsePlacementGroup launches all nodes into one cluster-strategy
	// placement group.
	// Default: false
	UsePlacementGroup bool `mapstructure:"placement_group" yaml:"placement_group"`

	// LaunchTimeoutSecs bounds the launch retry loop per node. Ignored
	// when LaunchForever is set.
	// Default: 900
	LaunchTimeoutSecs int `mapstructure:"launch_timeout_secs" yaml:"launch_timeout_secs"`

	// RetryDelaySecs is the fixed pause between launch attempts.
	// Default: 10
	RetryDelaySecs int `mapstructure:"retry_delay_secs" yaml:"retry_delay_secs"`

	// LaunchForever retries node launches until cancelled instead of
	// timing out.
	// Default: false
	LaunchForever bool `mapstructure:"launch_forever" yaml:"launch_forever"`

	// SSHKeyPath locates the private key matching KeyPair. Empty falls
	// back to ~/.ssh/{keypair}.pem.
	SSHKeyPath string `mapstructure:"ssh_key_path" yaml:"ssh_key_path"`

	// BastionMode reaches workers by private IP through the master
	// instead of requiring public worker addresses.
	// Default: false
	BastionMode bool `mapstructure:"bastion_mode" yaml:"bastion_mode"`
}

// EBSConfig describes the root volume attached to every node.
type EBSConfig struct {
	// Type is the EBS volume type (gp2, gp3, io1, io2, ...).
	// Default: gp3
	Type string `mapstructure:"type" yaml:"type"`

	// SizeGiB is the volume size in GiB.
	// Default: 100
	SizeGiB int `mapstructure:"size" yaml:"size"`

	// Iops is the provisioned IOPS. Required for io1/io2, optional for
	// gp3, meaningless otherwise.
	// Default: 3000
	Iops int `mapstructure:"iops" yaml:"iops"`

	// Throughput is the gp3 throughput in MiB/s.
	// Default: 125
	Throughput int `mapstructure:"throughput" yaml:"throughput"`

	// DeviceName is the root device name. Empty resolves to the AMI's
	// root device.
	DeviceName string `mapstructure:"device_name" yaml:"device_name"`
}

// LaunchTimeout returns the per-node launch budget as a duration.
func (c *Config) LaunchTimeout() time.Duration {
	return time.Duration(c.LaunchTimeoutSecs) * time.Second
}

// RetryDelay returns the pause between launch attempts as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySecs) * time.Second
}

// RetryPolicy assembles the launch retry policy from the timeout fields.
func (c *Config) RetryPolicy() retry.Policy {
	if c.LaunchForever {
		return retry.Unbounded(c.RetryDelay())
	}
	return retry.For(c.LaunchTimeout(), c.RetryDelay())
}
