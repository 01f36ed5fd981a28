package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_JSONFence(t *testing.T) {
	raw := "Here is my analysis.\n```json\n{\"recommendations\": {}}\n```\nLet me know."

	payload, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Empty(t, payload.Recommendations)
	assert.Empty(t, payload.Analysis)
}

func TestParseResponse_GenericFence(t *testing.T) {
	raw := "```\n{\"analysis\": \"ok\", \"recommendations\": {\"a.b\": 1}}\n```"

	payload, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "ok", payload.Analysis)
	require.Len(t, payload.Recommendations, 1)
	assert.Equal(t, "a.b", payload.Recommendations[0].Path)
	assert.Equal(t, "1", payload.Recommendations[0].Value.Value)
}

func TestParseResponse_BareJSON(t *testing.T) {
	raw := `{"analysis": "cpu too low", "recommendations": {"resources.requests.cpu": "250m"}}`

	payload, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "cpu too low", payload.Analysis)
	require.Len(t, payload.Recommendations, 1)
	assert.Equal(t, "resources.requests.cpu", payload.Recommendations[0].Path)
	assert.Equal(t, "250m", payload.Recommendations[0].Value.Value)
}

func TestParseResponse_UnclosedFence(t *testing.T) {
	raw := "```json\n{\"recommendations\": {}}"

	_, err := ParseResponse(raw)
	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "unclosed")
}

func TestParseResponse_MissingRecommendations(t *testing.T) {
	_, err := ParseResponse(`{"foo": 1}`)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseResponse_RecommendationsNotMapping(t *testing.T) {
	_, err := ParseResponse(`{"recommendations": [1, 2]}`)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseResponse_NotAnObject(t *testing.T) {
	for _, raw := range []string{`[1, 2]`, `"text"`, ``} {
		_, err := ParseResponse(raw)
		assert.ErrorIs(t, err, ErrMalformedResponse, "input %q", raw)
	}
}

func TestParseResponse_InvalidJSON(t *testing.T) {
	_, err := ParseResponse("```json\n{not valid\n```")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseResponse_PreservesRecommendationOrder(t *testing.T) {
	raw := `{"recommendations": {"z.last": 1, "a.first": 2, "m.middle": 3}}`

	payload, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Len(t, payload.Recommendations, 3)
	assert.Equal(t, "z.last", payload.Recommendations[0].Path)
	assert.Equal(t, "a.first", payload.Recommendations[1].Path)
	assert.Equal(t, "m.middle", payload.Recommendations[2].Path)
}

func TestParseResponse_Justifications(t *testing.T) {
	raw := `{
  "analysis": "memory pressure",
  "recommendations": {"resources.limits.memory": "512Mi"},
  "justifications": {"resources.limits.memory": "OOMKilled events in the last 24h"}
}`

	payload, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "OOMKilled events in the last 24h", payload.Justifications["resources.limits.memory"])
}

func TestParseResponse_ScalarTypesSurvive(t *testing.T) {
	raw := `{"recommendations": {"autoscaling.minReplicas": 2, "autoscaling.enabled": true, "cpu.target": 0.75, "image.tag": "v1.2.3"}}`

	payload, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Len(t, payload.Recommendations, 4)

	assert.Equal(t, "!!int", payload.Recommendations[0].Value.Tag)
	assert.Equal(t, "!!bool", payload.Recommendations[1].Value.Tag)
	assert.Equal(t, "!!float", payload.Recommendations[2].Value.Tag)
	assert.Equal(t, "!!str", payload.Recommendations[3].Value.Tag)
}
