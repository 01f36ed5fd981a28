// Package logging provides request/response logging middleware for LLM
// clients. Prompts are sanitized before logging to keep log lines bounded.
package logging

import (
	"context"
	"time"

	"valuesgen/pkg/llm"
	"valuesgen/pkg/llm/llmerrors"
	"valuesgen/pkg/logx"
)

// maxLoggedPromptChars bounds how much prompt text goes into a debug line.
const maxLoggedPromptChars = 2000

// Middleware returns a middleware that logs each completion request, its
// duration, and its classified outcome.
func Middleware() llm.Middleware {
	logger := logx.NewLogger("llm")

	return func(next llm.Client) llm.Client {
		return llm.WrapClient(
			func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
				model := next.GetModelName()

				if logx.IsDebugEnabledForDomain("llm") {
					for i := range req.Messages {
						msg := &req.Messages[i]
						logger.Debug("request message %d (%s): %s",
							i, msg.Role, llmerrors.SanitizePrompt(msg.Content, maxLoggedPromptChars))
					}
				}
				logger.Info("sending completion request: model=%s messages=%d max_tokens=%d",
					model, len(req.Messages), req.MaxTokens)

				start := time.Now()
				resp, err := next.Complete(ctx, req)
				duration := time.Since(start)

				if err != nil {
					logger.Error("completion failed: model=%s duration=%s type=%s error=%v",
						model, duration.Round(time.Millisecond), llmerrors.TypeOf(err), err)
					return resp, err
				}

				logger.Info("completion succeeded: model=%s duration=%s prompt_tokens=%d completion_tokens=%d",
					model, duration.Round(time.Millisecond), resp.PromptTokens, resp.CompletionTokens)
				logger.Debug("response content: %s", llmerrors.SanitizePrompt(resp.Content, maxLoggedPromptChars))

				return resp, nil
			},
			next.GetModelName,
		)
	}
}
