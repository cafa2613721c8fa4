package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec3io/ec3/internal/errdef"
	"github.com/ec3io/ec3/internal/shell"
)

func TestRunOnMasterOnly(t *testing.T) {
	fan := &fakeFanout{
		hosts: []string{"1.1.1.1", "2.2.2.2"},
		masterFunc: func(string) (shell.Result, error) {
			return shell.Result{Host: "1.1.1.1", Output: "Linux\n"}, nil
		},
	}
	installFakes(t, testConfig(), nil, fan)

	err := Run(context.Background(), RunOptions{ConfigPath: "ec3.yaml"}, "uname")
	require.NoError(t, err)

	assert.Equal(t, []string{"uname"}, fan.commands)
}

func TestRunMasterFailureSurfaces(t *testing.T) {
	fan := &fakeFanout{
		masterFunc: func(string) (shell.Result, error) {
			res := shell.Result{Host: "1.1.1.1", Output: "no such unit\n", Err: errdef.NewRemoteExecution("exit status 5")}
			return res, res.Err
		},
	}
	installFakes(t, testConfig(), nil, fan)

	err := Run(context.Background(), RunOptions{ConfigPath: "ec3.yaml"}, "systemctl restart nothing")
	require.Error(t, err)
	assert.True(t, errdef.IsRemoteExecution(err))
}

func TestRunAllReportsPerHostFailures(t *testing.T) {
	fan := &fakeFanout{
		allResults: []shell.Result{
			{Host: "1.1.1.1", Output: "ok\n"},
			{Host: "2.2.2.2", Err: errdef.NewRemoteExecution("exit status 1")},
			{Host: "3.3.3.3", Output: "ok\n"},
		},
	}
	installFakes(t, testConfig(), nil, fan)

	err := Run(context.Background(), RunOptions{ConfigPath: "ec3.yaml", All: true}, "true")
	require.Error(t, err, "one failed host must fail the command")
	assert.True(t, errdef.IsRemoteExecution(err))
	assert.Contains(t, err.Error(), "1 of 3")
}

func TestRunAllSucceedsWhenEveryHostDoes(t *testing.T) {
	fan := &fakeFanout{
		allResults: []shell.Result{
			{Host: "1.1.1.1", Output: "ok\n"},
			{Host: "2.2.2.2", Output: "ok\n"},
		},
	}
	installFakes(t, testConfig(), nil, fan)

	err := Run(context.Background(), RunOptions{ConfigPath: "ec3.yaml", All: true}, "true")
	require.NoError(t, err)
}

func TestFormatResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		out := formatResult(shell.Result{Host: "1.1.1.1", Output: "Linux\n"})
		assert.Equal(t, "=== 1.1.1.1\nLinux\n", out)
	})

	t.Run("appends missing newline", func(t *testing.T) {
		out := formatResult(shell.Result{Host: "1.1.1.1", Output: "Linux"})
		assert.Equal(t, "=== 1.1.1.1\nLinux\n", out)
	})

	t.Run("failure keeps partial output", func(t *testing.T) {
		out := formatResult(shell.Result{
			Host:   "2.2.2.2",
			Output: "half done\n",
			Err:    errdef.NewRemoteExecution("exit status 1"),
		})
		assert.Contains(t, out, "=== 2.2.2.2")
		assert.Contains(t, out, "half done")
		assert.Contains(t, out, "error: exit status 1")
	})

	t.Run("no output", func(t *testing.T) {
		out := formatResult(shell.Result{Host: "3.3.3.3"})
		assert.Equal(t, "=== 3.3.3.3\n", out)
	})
}
