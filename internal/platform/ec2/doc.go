// Package ec2 provides a wrapper around the AWS EC2 API scoped to the
// small verb set cluster provisioning needs.
//
// # Architecture
//
// The package is organized into domain-specific modules:
//
//   - client.go: descriptor/launch types and the segregated client interfaces
//   - real_client.go: client initialization against the AWS SDK
//   - instances.go: instance lifecycle (describe by name tag, run, terminate, waiters)
//   - security_groups.go: intra-cluster security group management
//   - placement_groups.go: placement group management
//   - defaults.go: live resolution of default VPC, subnet, AMI and root device
//   - errors.go: API error classification for retry logic
//   - mock_client.go: function-field mock for tests
//
// Instance identity is the Name tag: every lookup filters on tag:Name plus
// the pending|running state set, so instances in any other state are
// invisible to this package's describe verbs.
//
// # Example Usage
//
//	client, err := ec2.NewRealClient(ctx, "us-east-1")
//	if err != nil {
//	    return err
//	}
//	desc, err := client.RunInstance(ctx, ec2.LaunchSpec{
//	    Name:         "demo-node1",
//	    AMI:          "ami-0abcdef1234567890",
//	    InstanceType: "m5.large",
//	    KeyPair:      "demo-key",
//	    SubnetID:     "subnet-0123",
//	    ...
//	})
package ec2
