package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec3io/ec3/internal/cluster"
	"github.com/ec3io/ec3/internal/config"
	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/platform/ec2"
)

func TestCreateLaunchesPlain(t *testing.T) {
	orch := &fakeOrchestrator{name: "test"}
	fan := &fakeFanout{hosts: []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"}}
	installFakes(t, testConfig(), orch, fan)

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml", WaitSSH: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"launch"}, orch.calls)
	assert.Equal(t, 1, fan.waitCalls, "create --wait-ssh should wait for sshd")
}

func TestCreateInvalidConfigFailsBeforeProviderCalls(t *testing.T) {
	saveFactories(t)

	cfg := testConfig()
	cfg.VPC = "bad"
	cfg.NodeCount = 0
	loadConfigFile = func(context.Context, string, ...config.Option) (*config.Config, error) {
		return cfg, nil
	}

	providerCalls := 0
	newEC2Client = func(context.Context, string) (ec2.Client, error) {
		return &ec2.MockClient{
			DefaultVPCFunc: func(context.Context) (string, error) {
				providerCalls++
				return "vpc-1", nil
			},
			LatestAmazonLinuxAMIFunc: func(context.Context) (string, error) {
				providerCalls++
				return "ami-1", nil
			},
		}, nil
	}
	newCluster = func(*config.Config, ec2.Client, ...cluster.Option) Orchestrator {
		t.Fatal("cluster built from an invalid config")
		return nil
	}

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml"})
	require.Error(t, err)
	assert.True(t, errdef.IsValidation(err))
	assert.Contains(t, err.Error(), "vpc")
	assert.Contains(t, err.Error(), "node_count")
	assert.Zero(t, providerCalls)
}

func TestCreateCleanTerminatesFirst(t *testing.T) {
	orch := &fakeOrchestrator{name: "test"}
	installFakes(t, testConfig(), orch, nil)

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml", Clean: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"terminate", "launch"}, orch.calls)
	assert.Equal(t, []bool{false}, orch.fastSeen, "clean must be a full terminate")
}

func TestCreateCleanFailureAborts(t *testing.T) {
	orch := &fakeOrchestrator{name: "test", termErr: errors.New("instances still shutting down")}
	installFakes(t, testConfig(), orch, nil)

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml", Clean: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clean up")
	assert.Equal(t, []string{"terminate"}, orch.calls, "launch must not run after a failed clean")
}

func TestCreateForeverOverridesRetryPolicy(t *testing.T) {
	cfg := testConfig()
	orch := &fakeOrchestrator{name: "test"}
	installFakes(t, cfg, orch, nil)

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml", Forever: true})
	require.NoError(t, err)
	assert.True(t, cfg.LaunchForever)
}

func TestCreateUsesTUIOnTerminal(t *testing.T) {
	orch := &fakeOrchestrator{name: "test"}
	installFakes(t, testConfig(), orch, nil)
	stdoutIsTerminal = func() bool { return true }

	tuiCalls := 0
	runLaunchTUI = func(clusterName, region string, nodeNames []string, placementGroup bool, launchFn func(cluster.Observer) error) error {
		tuiCalls++
		assert.Equal(t, "test", clusterName)
		assert.Equal(t, "us-east-1", region)
		assert.Equal(t, []string{"test-node1", "test-node2", "test-node3"}, nodeNames)
		assert.False(t, placementGroup)
		return launchFn(cluster.NopObserver{})
	}

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml"})
	require.NoError(t, err)
	assert.Equal(t, 1, tuiCalls)
	assert.Equal(t, []string{"launch"}, orch.calls)
}

func TestCreatePlainFlagSkipsTUI(t *testing.T) {
	orch := &fakeOrchestrator{name: "test"}
	installFakes(t, testConfig(), orch, nil)
	stdoutIsTerminal = func() bool { return true }
	runLaunchTUI = func(string, string, []string, bool, func(cluster.Observer) error) error {
		t.Fatal("TUI started despite --plain")
		return nil
	}

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml", Plain: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"launch"}, orch.calls)
}

func TestCreateLaunchFailureSkipsSSHWait(t *testing.T) {
	orch := &fakeOrchestrator{name: "test", launchErr: errors.New("placement group gone")}
	fan := &fakeFanout{}
	installFakes(t, testConfig(), orch, fan)

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml", WaitSSH: true})
	require.Error(t, err)
	assert.Zero(t, fan.waitCalls)
}

func TestCreateWithoutWaitSSHSkipsShell(t *testing.T) {
	orch := &fakeOrchestrator{name: "test"}
	installFakes(t, testConfig(), orch, nil)

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml", WaitSSH: false})
	require.NoError(t, err)
}

func TestCreateSSHWaitTimeoutSurfaces(t *testing.T) {
	orch := &fakeOrchestrator{name: "test"}
	fan := &fakeFanout{
		hosts:   []string{"1.1.1.1"},
		waitErr: errdef.NewTimeout("2 of 3 hosts not reachable"),
	}
	installFakes(t, testConfig(), orch, fan)

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml", WaitSSH: true})
	require.Error(t, err)
	assert.True(t, errdef.IsTimeout(err))
}

func TestCreatePortGateRunsBeforeSSHWait(t *testing.T) {
	orch := &fakeOrchestrator{name: "test"}
	fan := &fakeFanout{hosts: []string{"1.1.1.1", "2.2.2.2"}}
	installFakes(t, testConfig(), orch, fan)

	var gatedHost string
	waitForPort = func(_ context.Context, ip string, port int, _ time.Duration) error {
		gatedHost = ip
		assert.Equal(t, 22, port)
		assert.Zero(t, fan.waitCalls, "port gate must run before the SSH probes")
		return nil
	}

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml", WaitSSH: true})
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1", gatedHost, "the gate watches the first host, which fronts the rest")
	assert.Equal(t, 1, fan.waitCalls)
}

func TestCreatePortGateTimeoutSurfaces(t *testing.T) {
	orch := &fakeOrchestrator{name: "test"}
	fan := &fakeFanout{hosts: []string{"1.1.1.1"}}
	installFakes(t, testConfig(), orch, fan)

	waitForPort = func(context.Context, string, int, time.Duration) error {
		return errors.New("timeout waiting for 1.1.1.1:22")
	}

	err := Create(context.Background(), CreateOptions{ConfigPath: "ec3.yaml", WaitSSH: true})
	require.Error(t, err)
	assert.True(t, errdef.IsTimeout(err))
	assert.Contains(t, err.Error(), "1.1.1.1")
	assert.Zero(t, fan.waitCalls, "SSH probes must not start when the port never opened")
}
