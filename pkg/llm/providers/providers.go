// Package providers constructs concrete LLM clients for the supported
// provider identifiers. It lives outside pkg/llm so that the interface
// package stays free of SDK imports.
package providers

import (
	"fmt"
	"strings"

	"valuesgen/pkg/config"
	"valuesgen/pkg/llm"
	"valuesgen/pkg/llm/internal/llmimpl/anthropic"
	"valuesgen/pkg/llm/internal/llmimpl/google"
	"valuesgen/pkg/llm/internal/llmimpl/ollama"
	"valuesgen/pkg/llm/internal/llmimpl/openai"
)

// New creates a raw client for the given provider and model. Middleware is
// applied by the caller via llm.Chain. The copilot provider is the OpenAI
// client pointed at the GitHub Models inference endpoint.
func New(provider, token, model string) (llm.Client, error) {
	resolved, err := config.ResolveModel(provider, model)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (supported: %s)",
			llm.ErrUnsupportedProvider, provider, strings.Join(config.SupportedProviders(), ", "))
	}

	switch provider {
	case config.ProviderCopilot:
		return openai.NewClientWithBaseURL(token, resolved, config.GitHubModelsBaseURL), nil
	case config.ProviderOpenAI:
		return openai.NewClient(token, resolved), nil
	case config.ProviderAnthropic:
		return anthropic.NewClient(token, resolved), nil
	case config.ProviderGemini:
		return google.NewClient(token, resolved), nil
	case config.ProviderOllama:
		return ollama.NewClient(config.OllamaHost(), resolved), nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: %s)",
			llm.ErrUnsupportedProvider, provider, strings.Join(config.SupportedProviders(), ", "))
	}
}
