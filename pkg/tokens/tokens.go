// Package tokens provides tiktoken-based token counting for prompt
// budgeting.
package tokens

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// Counter provides token counting for prompt text. All supported chat
// models are approximated with the GPT-4 encoding, which is close enough
// for budgeting purposes.
type Counter struct {
	codec tokenizer.Codec
}

// NewCounter creates a token counter. The model parameter is accepted for
// future per-model encodings; all current models use GPT-4 encoding.
func NewCounter(model string) (*Counter, error) {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer codec for model %s: %w", model, err)
	}
	return &Counter{codec: codec}, nil
}

// CountTokens returns the number of tokens in the given text.
func (c *Counter) CountTokens(text string) int {
	if c.codec == nil {
		// Fallback to character-based estimation (4 chars ≈ 1 token)
		return len(text) / 4
	}

	count, err := c.codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}

// TruncateToLimit truncates text to fit within the specified token limit.
// Truncation is by characters, not exact token boundaries.
func (c *Counter) TruncateToLimit(text string, limit int) string {
	currentTokens := c.CountTokens(text)
	if currentTokens <= limit {
		return text
	}

	ratio := float64(limit) / float64(currentTokens)
	charLimit := int(float64(len(text)) * ratio * 0.9) // safety margin for uneven token density

	if charLimit >= len(text) {
		return text
	}
	return text[:charLimit] + "..."
}
