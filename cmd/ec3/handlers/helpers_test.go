package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/ec3io/ec3/internal/cluster"
	"github.com/ec3io/ec3/internal/config"
	"github.com/ec3io/ec3/internal/platform/ec2"
	"github.com/ec3io/ec3/internal/shell"
)

// testConfig returns a fully explicit configuration. Nothing in it needs
// live defaulting, so loading it makes no provider calls.
func testConfig() *config.Config {
	return &config.Config{
		ClusterName:  "test",
		Region:       "us-east-1",
		VPC:          "vpc-123",
		Subnet:       "subnet-123",
		AMI:          "ami-123",
		Username:     "ec2-user",
		InstanceType: "m5.large",
		NodeCount:    3,
		KeyPair:      "test-key",
		EBS: config.EBSConfig{
			Type:       "gp3",
			SizeGiB:    100,
			Iops:       3000,
			Throughput: 125,
			DeviceName: "/dev/xvda",
		},
		LaunchTimeoutSecs: 900,
		RetryDelaySecs:    10,
	}
}

// saveFactories snapshots the shared factory variables and restores them
// when the test finishes. Tests overriding them must not run in
// parallel.
func saveFactories(t *testing.T) {
	t.Helper()
	origLoad := loadConfigFile
	origClient := newEC2Client
	origCluster := newCluster
	origShell := newShell
	origTUI := runLaunchTUI
	origPort := waitForPort
	origTTY := stdoutIsTerminal
	t.Cleanup(func() {
		loadConfigFile = origLoad
		newEC2Client = origClient
		newCluster = origCluster
		newShell = origShell
		runLaunchTUI = origTUI
		waitForPort = origPort
		stdoutIsTerminal = origTTY
	})
}

// installFakes points the factories at the given fakes. Pass nil for
// collaborators a test expects to stay untouched; reaching them panics.
func installFakes(t *testing.T, cfg *config.Config, orch *fakeOrchestrator, fan *fakeFanout) {
	t.Helper()
	saveFactories(t)
	loadConfigFile = func(context.Context, string, ...config.Option) (*config.Config, error) {
		return cfg, nil
	}
	newEC2Client = func(context.Context, string) (ec2.Client, error) {
		return &ec2.MockClient{}, nil
	}
	newCluster = func(*config.Config, ec2.Client, ...cluster.Option) Orchestrator {
		if orch == nil {
			panic("unexpected newCluster call")
		}
		return orch
	}
	newShell = func(context.Context, *config.Config, ec2.Client) (Fanout, error) {
		if fan == nil {
			panic("unexpected newShell call")
		}
		return fan, nil
	}
	waitForPort = func(context.Context, string, int, time.Duration) error { return nil }
	stdoutIsTerminal = func() bool { return false }
}

// fakeOrchestrator records lifecycle calls in order.
type fakeOrchestrator struct {
	name      string
	calls     []string
	fastSeen  []bool
	launchErr error
	termErr   error
	statuses  []cluster.NodeStatus
	statusErr error
	addrs     *cluster.Addresses
	addrsErr  error
	exists    bool
}

func (f *fakeOrchestrator) Name() string { return f.name }

func (f *fakeOrchestrator) Launch(context.Context) error {
	f.calls = append(f.calls, "launch")
	return f.launchErr
}

func (f *fakeOrchestrator) Terminate(_ context.Context, fast bool) error {
	f.calls = append(f.calls, "terminate")
	f.fastSeen = append(f.fastSeen, fast)
	return f.termErr
}

func (f *fakeOrchestrator) Status(context.Context) ([]cluster.NodeStatus, error) {
	return f.statuses, f.statusErr
}

func (f *fakeOrchestrator) Addresses(context.Context) (*cluster.Addresses, error) {
	return f.addrs, f.addrsErr
}

func (f *fakeOrchestrator) AnyNodeRunningOrPending(context.Context) (bool, error) {
	return f.exists, nil
}

// fakeFanout scripts shell results and records the commands it ran.
type fakeFanout struct {
	hosts      []string
	commands   []string
	masterFunc func(command string) (shell.Result, error)
	allResults []shell.Result
	waitCalls  int
	waitErr    error
}

func (f *fakeFanout) Hosts() []string { return f.hosts }

func (f *fakeFanout) RunOnMaster(_ context.Context, command string) (shell.Result, error) {
	f.commands = append(f.commands, command)
	if f.masterFunc != nil {
		return f.masterFunc(command)
	}
	return shell.Result{Host: "master"}, nil
}

func (f *fakeFanout) RunOnAll(_ context.Context, command string) []shell.Result {
	f.commands = append(f.commands, command)
	return f.allResults
}

func (f *fakeFanout) WaitForReady(context.Context, time.Duration) error {
	f.waitCalls++
	return f.waitErr
}
