package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuesgen/pkg/llm"
	"valuesgen/pkg/llm/llmerrors"
)

type fakeClient struct {
	resp llm.CompletionResponse
	err  error
}

func (f *fakeClient) Complete(_ context.Context, _ llm.CompletionRequest) (llm.CompletionResponse, error) {
	return f.resp, f.err
}

func (f *fakeClient) GetModelName() string {
	return "gpt-4o"
}

func TestMiddlewareRecordsAndFlushes(t *testing.T) {
	recorder := NewRecorder()
	client := llm.Chain(
		&fakeClient{resp: llm.CompletionResponse{Content: "{}", PromptTokens: 120, CompletionTokens: 40}},
		Middleware(recorder, "copilot"),
	)

	_, err := client.Complete(context.Background(), llm.CompletionRequest{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "valuesgen.prom")
	require.NoError(t, recorder.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `valuesgen_llm_requests_total{error_type="",model="gpt-4o",provider="copilot",status="success"} 1`)
	assert.Contains(t, text, `valuesgen_llm_tokens_total{model="gpt-4o",provider="copilot",type="prompt"} 120`)
	assert.Contains(t, text, `valuesgen_llm_tokens_total{model="gpt-4o",provider="copilot",type="completion"} 40`)
	assert.Contains(t, text, "valuesgen_llm_request_duration_seconds")
}

func TestMiddlewareRecordsErrors(t *testing.T) {
	recorder := NewRecorder()
	client := llm.Chain(
		&fakeClient{err: llmerrors.NewError(llmerrors.ErrorTypeRateLimit, "slow down")},
		Middleware(recorder, "openai"),
	)

	_, err := client.Complete(context.Background(), llm.CompletionRequest{})
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "valuesgen.prom")
	require.NoError(t, recorder.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `status="error"`)
	assert.Contains(t, text, `error_type="rate_limit"`)
	assert.NotContains(t, text, "valuesgen_llm_tokens_total")
}

func TestObserveRequestUnclassifiedError(t *testing.T) {
	recorder := NewRecorder()
	recorder.ObserveRequest("ollama", "llama3.2", 0, 0, errors.New("boom"), time.Second)

	path := filepath.Join(t.TempDir(), "valuesgen.prom")
	require.NoError(t, recorder.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `error_type="unknown"`)
}
