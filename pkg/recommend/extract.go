// Package recommend parses AI completion text into a validated
// recommendation payload and applies it to a values document.
package recommend

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"valuesgen/pkg/values"
)

// ErrMalformedResponse indicates the AI response could not be parsed into a
// usable payload. Callers treat it as "no recommendations available".
var ErrMalformedResponse = errors.New("malformed AI response")

const fence = "```"

// Recommendation is one dotted-path change from the payload. Value is kept
// as the decoded node so string/number/bool typing survives the merge
// untouched.
type Recommendation struct {
	Path  string
	Value *yaml.Node
}

// Payload is the validated shape of an AI response.
type Payload struct {
	Analysis        string
	Recommendations []Recommendation  // in the order the model produced them
	Justifications  map[string]string // display-only
}

// ParseResponse extracts the structured payload from raw completion text.
// Models wrap the JSON body in a fenced block more often than not, so a
// ```json fence is preferred, then any fence, then the whole text. The
// payload must be a mapping carrying a "recommendations" mapping.
func ParseResponse(raw string) (*Payload, error) {
	candidate, err := extractFencedBlock(raw)
	if err != nil {
		return nil, err
	}

	// JSON is a YAML subset; decoding through yaml.v3 keeps the
	// recommendation mapping in its original order.
	doc, err := values.Parse(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	recsNode := values.Lookup(doc, "recommendations")
	if recsNode == nil {
		return nil, fmt.Errorf("%w: missing recommendations field", ErrMalformedResponse)
	}
	if recsNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: recommendations is not a mapping", ErrMalformedResponse)
	}

	payload := &Payload{}

	for i := 0; i+1 < len(recsNode.Content); i += 2 {
		payload.Recommendations = append(payload.Recommendations, Recommendation{
			Path:  recsNode.Content[i].Value,
			Value: recsNode.Content[i+1],
		})
	}

	if analysis := values.Lookup(doc, "analysis"); analysis != nil && analysis.Kind == yaml.ScalarNode {
		payload.Analysis = analysis.Value
	}

	if justNode := values.Lookup(doc, "justifications"); justNode != nil && justNode.Kind == yaml.MappingNode {
		payload.Justifications = make(map[string]string, len(justNode.Content)/2)
		for i := 0; i+1 < len(justNode.Content); i += 2 {
			if justNode.Content[i+1].Kind == yaml.ScalarNode {
				payload.Justifications[justNode.Content[i].Value] = justNode.Content[i+1].Value
			}
		}
	}

	return payload, nil
}

// extractFencedBlock returns the text between the first fence pair, or the
// whole text when no fence is present. An opening fence without a closing
// fence is an error: slicing to "not found" would hand garbage to the
// decoder.
func extractFencedBlock(raw string) (string, error) {
	start := strings.Index(raw, fence+"json")
	skip := len(fence) + len("json")
	if start == -1 {
		start = strings.Index(raw, fence)
		skip = len(fence)
	}
	if start == -1 {
		return raw, nil
	}

	start += skip
	end := strings.Index(raw[start:], fence)
	if end == -1 {
		return "", fmt.Errorf("%w: unclosed fenced block", ErrMalformedResponse)
	}

	return strings.TrimSpace(raw[start : start+end]), nil
}
