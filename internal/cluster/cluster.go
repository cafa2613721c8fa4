package cluster

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ec3io/ec3/internal/config"
	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/platform/ec2"
	"github.com/ec3io/ec3/internal/shell"
	"github.com/ec3io/ec3/internal/util/naming"
)

// Cluster orchestrates a named group of EC2 instances described by one
// configuration. Launch and Terminate assume a single caller at a time;
// the security group id lookup is memoized without locking.
type Cluster struct {
	cfg      *config.Config
	api      ec2.Client
	observer Observer
	nodes    []*Node

	sgID string
}

// Option customizes a Cluster.
type Option func(*Cluster)

// WithObserver routes lifecycle events to the given observer instead of
// discarding them.
func WithObserver(o Observer) Option {
	return func(c *Cluster) {
		c.observer = o
	}
}

// New builds the cluster handle and its member node handles. Node names
// are 1-based and the first node is the master. The configuration must
// already be defaulted and validated.
func New(cfg *config.Config, api ec2.Client, opts ...Option) *Cluster {
	c := &Cluster{
		cfg:      cfg,
		api:      api,
		observer: NopObserver{},
	}
	for i := 1; i <= cfg.NodeCount; i++ {
		c.nodes = append(c.nodes, NewNode(naming.Node(cfg.ClusterName, i), api))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the cluster name.
func (c *Cluster) Name() string {
	return c.cfg.ClusterName
}

// Nodes returns every member handle in index order, master first.
func (c *Cluster) Nodes() []*Node {
	return c.nodes
}

// Master returns the handle of the first node.
func (c *Cluster) Master() *Node {
	return c.nodes[0]
}

// Workers returns the handles of all nodes but the master.
func (c *Cluster) Workers() []*Node {
	return c.nodes[1:]
}

// AnyNodeRunningOrPending reports whether any member instance exists.
// Both Launch and Terminate use this single predicate to decide whether
// the cluster exists.
func (c *Cluster) AnyNodeRunningOrPending(ctx context.Context) (bool, error) {
	for _, node := range c.nodes {
		running, err := node.IsRunningOrPending(ctx)
		if err != nil {
			return false, err
		}
		if running {
			return true, nil
		}
	}
	return false, nil
}

// securityGroupID resolves the cluster security group id by name,
// memoizing a hit. An empty id means the group does not exist.
func (c *Cluster) securityGroupID(ctx context.Context) (string, error) {
	if c.sgID != "" {
		return c.sgID, nil
	}
	id, err := c.api.GetSecurityGroupID(ctx, naming.SecurityGroup(c.cfg.ClusterName), c.cfg.VPC)
	if err != nil {
		return "", fmt.Errorf("failed to resolve cluster security group: %w", err)
	}
	c.sgID = id
	return id, nil
}

// launchSpec assembles the one launch spec shared by every node. The
// cluster security group is appended to the user's groups; Node.Launch
// fills in the per-node name.
func (c *Cluster) launchSpec(sgID string) ec2.LaunchSpec {
	groups := make([]string, 0, len(c.cfg.SecurityGroups)+1)
	groups = append(groups, c.cfg.SecurityGroups...)
	groups = append(groups, sgID)

	spec := ec2.LaunchSpec{
		AMI:              c.cfg.AMI,
		InstanceType:     c.cfg.InstanceType,
		KeyPair:          c.cfg.KeyPair,
		SubnetID:         c.cfg.Subnet,
		SecurityGroupIDs: groups,
		IAMRole:          c.cfg.IAMRole,
		EBS: ec2.EBSSpec{
			DeviceName: c.cfg.EBS.DeviceName,
			Type:       c.cfg.EBS.Type,
			SizeGiB:    int32(c.cfg.EBS.SizeGiB),
			Iops:       int32(c.cfg.EBS.Iops),
			Throughput: int32(c.cfg.EBS.Throughput),
		},
		Tags: c.cfg.Tags,
	}
	if c.cfg.UsePlacementGroup {
		spec.PlacementGroup = naming.PlacementGroup(c.cfg.ClusterName)
	}
	return spec
}

// Addresses holds the cluster's IP addresses in node index order, the
// master separated from the workers.
type Addresses struct {
	MasterPublicIP   string
	MasterPrivateIP  string
	WorkerPublicIPs  []string
	WorkerPrivateIPs []string
}

// Addresses returns the public and private IPs of every node. Fails
// with NotFound when any node has no running or pending instance.
func (c *Cluster) Addresses(ctx context.Context) (*Addresses, error) {
	addrs := &Addresses{}
	for i, node := range c.nodes {
		desc, err := node.Describe(ctx)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			addrs.MasterPublicIP = desc.PublicIP
			addrs.MasterPrivateIP = desc.PrivateIP
			continue
		}
		addrs.WorkerPublicIPs = append(addrs.WorkerPublicIPs, desc.PublicIP)
		addrs.WorkerPrivateIPs = append(addrs.WorkerPrivateIPs, desc.PrivateIP)
	}
	return addrs, nil
}

// NodeStatus pairs a node name with what is known about its instance.
type NodeStatus struct {
	Name       string
	InstanceID string
	State      string
	PublicIP   string
	PrivateIP  string
}

// Status reports each node's current instance, bypassing descriptor
// caches. Nodes without a running or pending instance get state
// "absent".
func (c *Cluster) Status(ctx context.Context) ([]NodeStatus, error) {
	statuses := make([]NodeStatus, 0, len(c.nodes))
	for _, node := range c.nodes {
		desc, err := node.Reload(ctx)
		if errdef.IsNotFound(err) {
			statuses = append(statuses, NodeStatus{Name: node.Name(), State: "absent"})
			continue
		}
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, NodeStatus{
			Name:       node.Name(),
			InstanceID: desc.InstanceID,
			State:      desc.State,
			PublicIP:   desc.PublicIP,
			PrivateIP:  desc.PrivateIP,
		})
	}
	return statuses, nil
}

// Shell builds a ClusterShell connected to the cluster's current
// instances. The master is reached by public IP; workers are reached by
// public IP directly or by private IP through the master in bastion
// mode. The key path falls back to ~/.ssh/{keypair}.pem.
func (c *Cluster) Shell(ctx context.Context) (*shell.ClusterShell, error) {
	addrs, err := c.Addresses(ctx)
	if err != nil {
		return nil, err
	}

	keyPath := c.cfg.SSHKeyPath
	if keyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory for default key path: %w", err)
		}
		keyPath = filepath.Join(home, ".ssh", c.cfg.KeyPair+".pem")
	}

	workerIPs := addrs.WorkerPublicIPs
	if c.cfg.BastionMode {
		workerIPs = addrs.WorkerPrivateIPs
	}

	return shell.New(shell.Options{
		Username:   c.cfg.Username,
		MasterIP:   addrs.MasterPublicIP,
		WorkerIPs:  workerIPs,
		KeyPath:    keyPath,
		UseBastion: c.cfg.BastionMode,
	})
}
