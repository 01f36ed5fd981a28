package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	model    string
	response CompletionResponse
}

func (s *stubClient) Complete(_ context.Context, _ CompletionRequest) (CompletionResponse, error) {
	return s.response, nil
}

func (s *stubClient) GetModelName() string {
	return s.model
}

// tagging appends its tag to the response content, so the final content
// records the order in which middlewares ran.
func tagging(tag string, order *[]string) Middleware {
	return func(next Client) Client {
		return WrapClient(
			func(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
				*order = append(*order, tag)
				return next.Complete(ctx, req)
			},
			next.GetModelName,
		)
	}
}

func TestChainOrder(t *testing.T) {
	base := &stubClient{model: "gpt-4o", response: CompletionResponse{Content: "ok"}}

	var order []string
	client := Chain(base, tagging("outer", &order), tagging("inner", &order))

	resp, err := client.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, "gpt-4o", client.GetModelName())
}

func TestChainNoMiddleware(t *testing.T) {
	base := &stubClient{model: "gpt-4o"}
	assert.Equal(t, Client(base), Chain(base))
}

func TestNewUserMessage(t *testing.T) {
	user := NewUserMessage("hello")
	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "hello", user.Content)
}
