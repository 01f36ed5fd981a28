package recommend

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"valuesgen/pkg/values"
)

// Apply merges every recommendation into a deep copy of the current
// document, in payload order, and summarizes the result against the
// original. The caller's document is never mutated.
func Apply(current *yaml.Node, payload *Payload) (*yaml.Node, string, error) {
	updated := values.DeepCopy(current)

	for _, rec := range payload.Recommendations {
		value := values.DeepCopy(rec.Value)
		values.ClearStyle(value)
		if err := values.SetNestedValue(updated, rec.Path, value); err != nil {
			return nil, "", fmt.Errorf("failed to apply recommendation %q: %w", rec.Path, err)
		}
	}

	return updated, values.SummarizeChanges(current, updated), nil
}
