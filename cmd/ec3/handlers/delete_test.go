package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec3io/ec3/internal/errdef"
)

func TestDeleteTerminates(t *testing.T) {
	orch := &fakeOrchestrator{name: "test"}
	installFakes(t, testConfig(), orch, nil)

	err := Delete(context.Background(), "ec3.yaml", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"terminate"}, orch.calls)
	assert.Equal(t, []bool{false}, orch.fastSeen)
}

func TestDeleteFastPassesThrough(t *testing.T) {
	orch := &fakeOrchestrator{name: "test"}
	installFakes(t, testConfig(), orch, nil)

	err := Delete(context.Background(), "ec3.yaml", true)
	require.NoError(t, err)

	assert.Equal(t, []bool{true}, orch.fastSeen)
}

func TestDeleteSurfacesCleanupFailure(t *testing.T) {
	orch := &fakeOrchestrator{
		name:    "test",
		termErr: errdef.NewTransient("security group test-intracluster-ssh still has a dependency"),
	}
	installFakes(t, testConfig(), orch, nil)

	err := Delete(context.Background(), "ec3.yaml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still has a dependency")
}
