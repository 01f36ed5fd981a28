package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeChanges_Identical(t *testing.T) {
	oldDoc := mustParse(t, "a: 1\n")
	newDoc := mustParse(t, "a: 1\n")

	assert.Equal(t, NoChanges, SummarizeChanges(oldDoc, newDoc))
}

func TestSummarizeChanges_SingleNestedChange(t *testing.T) {
	oldDoc := mustParse(t, "a:\n  b: 1\n")
	newDoc := mustParse(t, "a:\n  b: 2\n")

	assert.Equal(t, "a.b: 1 -> 2", SummarizeChanges(oldDoc, newDoc))
}

func TestSummarizeChanges_AddedKey(t *testing.T) {
	oldDoc := mustParse(t, "a: 1\n")
	newDoc := mustParse(t, "a: 1\nb: 2\n")

	assert.Equal(t, "b: null -> 2", SummarizeChanges(oldDoc, newDoc))
}

func TestSummarizeChanges_RemovedKeyNotReported(t *testing.T) {
	// Only the new document's keys are visited, so a removed key is
	// invisible to the summary. Recommendations never remove keys, and the
	// asymmetry is pinned here so a future symmetric differ is a deliberate
	// decision rather than an accident.
	oldDoc := mustParse(t, "a: 1\nb: 2\n")
	newDoc := mustParse(t, "a: 1\n")

	assert.Equal(t, NoChanges, SummarizeChanges(oldDoc, newDoc))
}

func TestSummarizeChanges_MultipleChangesInDocumentOrder(t *testing.T) {
	oldDoc := mustParse(t, `
resources:
  requests:
    cpu: 100m
    memory: 128Mi
autoscaling:
  minReplicas: 1
`)
	newDoc := mustParse(t, `
resources:
  requests:
    cpu: 250m
    memory: 256Mi
autoscaling:
  minReplicas: 2
`)

	expected := "resources.requests.cpu: 100m -> 250m\n" +
		"resources.requests.memory: 128Mi -> 256Mi\n" +
		"autoscaling.minReplicas: 1 -> 2"
	assert.Equal(t, expected, SummarizeChanges(oldDoc, newDoc))
}

func TestSummarizeChanges_ScalarReplacedByMapping(t *testing.T) {
	// A scalar clobbered into a mapping is reported as one change at the
	// clobbered path, not one per new leaf.
	oldDoc := mustParse(t, "a:\n  b: scalar\n")
	newDoc := mustParse(t, "a:\n  b:\n    c: 1\n")

	assert.Equal(t, "a.b: scalar -> {c: 1}", SummarizeChanges(oldDoc, newDoc))
}

func TestSummarizeChanges_TypeChangeSameRendering(t *testing.T) {
	// "1" the string and 1 the integer render identically but differ.
	oldDoc := mustParse(t, "a: \"1\"\n")
	newDoc := mustParse(t, "a: 1\n")

	assert.Equal(t, "a: 1 -> 1", SummarizeChanges(oldDoc, newDoc))
}

func TestSummarizeChanges_MappingOrderInsensitiveEquality(t *testing.T) {
	// Re-ordered but otherwise equal mappings are not a change.
	oldDoc := mustParse(t, "a:\n  x: 1\n  y: 2\n")
	newDoc := mustParse(t, "a:\n  y: 2\n  x: 1\n")

	assert.Equal(t, NoChanges, SummarizeChanges(oldDoc, newDoc))
}

func TestSummarizeChanges_SequenceChange(t *testing.T) {
	oldDoc := mustParse(t, "args: [a, b]\n")
	newDoc := mustParse(t, "args: [a, c]\n")

	summary := SummarizeChanges(oldDoc, newDoc)
	require.Contains(t, summary, "args:")
	assert.Equal(t, "args: [a, b] -> [a, c]", summary)
}
