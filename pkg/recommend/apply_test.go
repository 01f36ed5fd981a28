package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuesgen/pkg/values"
)

func TestApply_EndToEnd(t *testing.T) {
	current, err := values.Parse("resources:\n  requests:\n    cpu: 100m\n")
	require.NoError(t, err)

	payload, err := ParseResponse(`{"analysis":"cpu too low","recommendations":{"resources.requests.cpu":"250m"}}`)
	require.NoError(t, err)

	updated, summary, err := Apply(current, payload)
	require.NoError(t, err)

	out, err := values.Marshal(updated)
	require.NoError(t, err)
	assert.Equal(t, "resources:\n  requests:\n    cpu: 250m\n", out)
	assert.Equal(t, "resources.requests.cpu: 100m -> 250m", summary)
}

func TestApply_DoesNotMutateCurrentDocument(t *testing.T) {
	current, err := values.Parse("resources:\n  requests:\n    cpu: 100m\n")
	require.NoError(t, err)

	payload, err := ParseResponse(`{"recommendations":{"resources.requests.cpu":"250m"}}`)
	require.NoError(t, err)

	_, _, err = Apply(current, payload)
	require.NoError(t, err)

	out, err := values.Marshal(current)
	require.NoError(t, err)
	assert.Equal(t, "resources:\n  requests:\n    cpu: 100m\n", out)
}

func TestApply_EmptyRecommendations(t *testing.T) {
	current, err := values.Parse("a: 1\n")
	require.NoError(t, err)

	payload, err := ParseResponse(`{"recommendations": {}}`)
	require.NoError(t, err)

	updated, summary, err := Apply(current, payload)
	require.NoError(t, err)
	assert.Equal(t, values.NoChanges, summary)

	out, err := values.Marshal(updated)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", out)
}

func TestApply_CreatesNewPaths(t *testing.T) {
	current, err := values.Parse("replicaCount: 1\n")
	require.NoError(t, err)

	payload, err := ParseResponse(`{"recommendations":{"autoscaling.minReplicas":2,"autoscaling.maxReplicas":5}}`)
	require.NoError(t, err)

	updated, summary, err := Apply(current, payload)
	require.NoError(t, err)

	out, err := values.Marshal(updated)
	require.NoError(t, err)
	assert.Equal(t, "replicaCount: 1\nautoscaling:\n  minReplicas: 2\n  maxReplicas: 5\n", out)
	assert.Equal(t, "autoscaling: null -> {minReplicas: 2, maxReplicas: 5}", summary)
}

func TestApply_InvalidPathFails(t *testing.T) {
	current, err := values.Parse("a: 1\n")
	require.NoError(t, err)

	payload, err := ParseResponse(`{"recommendations":{"a..b":1}}`)
	require.NoError(t, err)

	_, _, err = Apply(current, payload)
	assert.ErrorIs(t, err, values.ErrInvalidPath)
}
