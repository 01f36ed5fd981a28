// Package config loads and validates the action's inputs and holds the
// provider registry with per-provider model defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Supported AI provider identifiers.
const (
	ProviderCopilot   = "copilot" // GitHub Models inference endpoint
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// Model name constants for provider defaults.
const (
	ModelGPT4o            = "gpt-4o"
	ModelGPT4             = "gpt-4"
	ModelClaudeSonnet4    = "claude-sonnet-4-5"
	ModelGeminiFlash      = "gemini-2.0-flash"
	ModelLlama32          = "llama3.2"
	DefaultProvider       = ProviderCopilot
	DefaultOllamaHost     = "http://localhost:11434"
	GitHubModelsBaseURL   = "https://models.github.ai/inference"
	DefaultRequestTimeout = 60 * time.Second
)

// Completion request defaults. Low temperature keeps the recommendations
// deterministic enough to diff run-over-run.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.1
)

// MaxPromptTokens bounds the prompt size before submission. Template
// snippets are truncated first when the budget is exceeded.
const MaxPromptTokens = 100000

// ErrMissingInput indicates a required action input was not provided.
var ErrMissingInput = errors.New("missing required input")

// providerDefaults maps each supported provider to its default model.
var providerDefaults = map[string]string{
	ProviderCopilot:   ModelGPT4o,
	ProviderOpenAI:    ModelGPT4,
	ProviderAnthropic: ModelClaudeSonnet4,
	ProviderGemini:    ModelGeminiFlash,
	ProviderOllama:    ModelLlama32,
}

// Inputs holds the decoded action inputs.
type Inputs struct {
	AppName            string
	Environment        string
	CurrentValues      string   // raw YAML, parsed by the values package
	OperationalContext string   // raw YAML, must decode to a mapping
	HelmTemplates      []string // opaque template snippets for the prompt
	Provider           string
	Token              string
	Model              string
}

// LoadInputs reads the action inputs from INPUT_* environment variables,
// following the GitHub Actions convention of uppercasing the input name.
// It validates presence of required inputs but defers YAML validation to
// the values package.
func LoadInputs() (*Inputs, error) {
	in := &Inputs{
		AppName:            os.Getenv("INPUT_APP_NAME"),
		Environment:        os.Getenv("INPUT_ENVIRONMENT"),
		CurrentValues:      os.Getenv("INPUT_CURRENT_VALUES"),
		OperationalContext: os.Getenv("INPUT_OPERATIONAL_CONTEXT"),
		Provider:           os.Getenv("INPUT_AI_PROVIDER"),
		Token:              os.Getenv("INPUT_AI_TOKEN"),
		Model:              os.Getenv("INPUT_AI_MODEL"),
	}

	for _, required := range []struct {
		name  string
		value string
	}{
		{"app_name", in.AppName},
		{"environment", in.Environment},
		{"current_values", in.CurrentValues},
		{"operational_context", in.OperationalContext},
	} {
		if strings.TrimSpace(required.value) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, required.name)
		}
	}

	if in.Provider == "" {
		in.Provider = DefaultProvider
	}

	templates, err := parseHelmTemplates(os.Getenv("INPUT_HELM_TEMPLATES"))
	if err != nil {
		return nil, err
	}
	in.HelmTemplates = templates

	return in, nil
}

// parseHelmTemplates decodes the helm_templates input, a JSON array of
// template snippets. An empty input means no templates.
func parseHelmTemplates(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var templates []string
	if err := json.Unmarshal([]byte(raw), &templates); err != nil {
		return nil, fmt.Errorf("invalid helm_templates input (expected JSON array of strings): %w", err)
	}
	return templates, nil
}

// IsSupportedProvider reports whether the provider identifier is known.
func IsSupportedProvider(provider string) bool {
	_, ok := providerDefaults[provider]
	return ok
}

// SupportedProviders returns the supported provider identifiers in a
// stable order, for error messages.
func SupportedProviders() []string {
	return []string{ProviderCopilot, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama}
}

// DefaultModel returns the default model identifier for a provider.
func DefaultModel(provider string) (string, error) {
	model, ok := providerDefaults[provider]
	if !ok {
		return "", fmt.Errorf("no default model for provider %s", provider)
	}
	return model, nil
}

// ResolveModel returns the explicit model when given, else the provider default.
func ResolveModel(provider, model string) (string, error) {
	if model != "" {
		return model, nil
	}
	return DefaultModel(provider)
}

// RequiresToken reports whether a provider needs an API token. Ollama runs
// against a local server and is the only tokenless provider.
func RequiresToken(provider string) bool {
	return provider != ProviderOllama
}

// tokenEnvVars maps providers to conventional API key environment
// variables, checked when the ai_token input is absent (local runs).
var tokenEnvVars = map[string]string{
	ProviderCopilot:   "GITHUB_TOKEN",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
}

// ResolveToken returns the API token for a provider using standard precedence:
// 1. The ai_token action input.
// 2. The decrypted local secrets file (if loaded).
// 3. The provider's conventional environment variable.
func ResolveToken(provider, inputToken string) (string, error) {
	if !RequiresToken(provider) {
		return "", nil
	}
	if inputToken != "" {
		return inputToken, nil
	}

	envVar := tokenEnvVars[provider]
	if token, err := GetSecret(envVar); err == nil {
		return token, nil
	}

	return "", fmt.Errorf("%w: ai_token (also checked secrets file and %s)", ErrMissingInput, envVar)
}

// OllamaHost returns the Ollama server URL, defaulting to the local daemon.
func OllamaHost() string {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		return host
	}
	return DefaultOllamaHost
}

// HistoryDBPath returns the optional sqlite run-history path, empty when
// history recording is disabled.
func HistoryDBPath() string {
	return os.Getenv("VALUESGEN_HISTORY_DB")
}

// MetricsFilePath returns the optional Prometheus textfile output path,
// empty when metrics flushing is disabled.
func MetricsFilePath() string {
	return os.Getenv("VALUESGEN_METRICS_FILE")
}
