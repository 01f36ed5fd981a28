// Package generator orchestrates a values generation run: parse inputs,
// prompt the AI provider, merge the recommendations, and summarize the
// changes.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"valuesgen/pkg/config"
	"valuesgen/pkg/llm"
	"valuesgen/pkg/llm/middleware/logging"
	"valuesgen/pkg/llm/middleware/metrics"
	"valuesgen/pkg/llm/providers"
	"valuesgen/pkg/logx"
	"valuesgen/pkg/prompt"
	"valuesgen/pkg/recommend"
	"valuesgen/pkg/tokens"
	"valuesgen/pkg/values"
)

// Result holds the three action outputs plus run accounting.
type Result struct {
	GeneratedValues  string
	Analysis         string
	ChangesSummary   string
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	ChangeCount      int
}

// Generator runs the analysis pipeline against an llm.Client.
type Generator struct {
	client   llm.Client
	builder  *prompt.Builder
	recorder *metrics.Recorder
	logger   *logx.Logger
	timeout  time.Duration
}

// New creates a generator around an existing client. Used directly in tests;
// production callers go through NewFromInputs.
func New(client llm.Client) *Generator {
	counter, err := tokens.NewCounter(client.GetModelName())
	if err != nil {
		// Builder tolerates a nil counter; prompts just go unbudgeted.
		counter = nil
	}
	return &Generator{
		client:  client,
		builder: prompt.NewBuilder(counter),
		logger:  logx.NewLogger("generator"),
		timeout: config.DefaultRequestTimeout,
	}
}

// NewFromInputs constructs the provider client for the action inputs and
// wraps it with the logging and metrics middleware.
func NewFromInputs(in *config.Inputs) (*Generator, error) {
	if !config.IsSupportedProvider(in.Provider) {
		return nil, fmt.Errorf("%w: %s (supported: %s)",
			llm.ErrUnsupportedProvider, in.Provider, strings.Join(config.SupportedProviders(), ", "))
	}

	token, err := config.ResolveToken(in.Provider, in.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token for provider %s: %w", in.Provider, err)
	}

	client, err := providers.New(in.Provider, token, in.Model)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	g := New(llm.Chain(client,
		logging.Middleware(),
		metrics.Middleware(recorder, in.Provider),
	))
	g.recorder = recorder
	return g, nil
}

// FlushMetrics writes accumulated request metrics to the given textfile
// path. A no-op when the generator has no recorder or path is empty.
func (g *Generator) FlushMetrics(path string) error {
	if g.recorder == nil || path == "" {
		return nil
	}
	return g.recorder.WriteTextfile(path)
}

// Run executes one generation pass. The returned Result carries the
// generated values YAML, the model's analysis, and the change summary.
func (g *Generator) Run(ctx context.Context, in *config.Inputs) (*Result, error) {
	current, err := values.Parse(in.CurrentValues)
	if err != nil {
		return nil, logx.Wrap(err, "invalid current_values input")
	}

	operational, err := values.Parse(in.OperationalContext)
	if err != nil {
		return nil, logx.Wrap(err, "invalid operational_context input")
	}

	currentYAML, err := values.Marshal(current)
	if err != nil {
		return nil, logx.Wrap(err, "failed to render current values")
	}
	operationalYAML, err := values.Marshal(operational)
	if err != nil {
		return nil, logx.Wrap(err, "failed to render operational context")
	}

	promptText := g.builder.Build(&prompt.Inputs{
		AppName:                in.AppName,
		Environment:            in.Environment,
		CurrentValuesYAML:      currentYAML,
		OperationalContextYAML: operationalYAML,
		HelmTemplates:          in.HelmTemplates,
	})

	g.logger.Info("requesting recommendations: app=%s environment=%s model=%s",
		in.AppName, in.Environment, g.client.GetModelName())

	// One attempt per run. A failed or malformed response fails the action;
	// the workflow decides whether to re-run.
	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Complete(reqCtx, llm.CompletionRequest{
		Messages:    []llm.CompletionMessage{llm.NewUserMessage(promptText)},
		MaxTokens:   config.DefaultMaxTokens,
		Temperature: config.DefaultTemperature,
	})
	if err != nil {
		return nil, logx.Wrap(err, "failed to generate AI recommendations")
	}

	payload, err := recommend.ParseResponse(resp.Content)
	if err != nil {
		return nil, logx.Wrap(err, "failed to parse AI response")
	}

	updated, summary, err := recommend.Apply(current, payload)
	if err != nil {
		return nil, logx.Wrap(err, "failed to apply recommendations")
	}

	generatedYAML, err := values.Marshal(updated)
	if err != nil {
		return nil, logx.Wrap(err, "failed to render generated values")
	}

	result := &Result{
		GeneratedValues:  generatedYAML,
		Analysis:         payload.Analysis,
		ChangesSummary:   summary,
		Provider:         in.Provider,
		Model:            g.client.GetModelName(),
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
		ChangeCount:      countChanges(summary),
	}

	g.logger.Info("generation complete: recommendations=%d changes=%d",
		len(payload.Recommendations), result.ChangeCount)

	return result, nil
}

// countChanges counts summary lines, zero for the no-change sentinel.
func countChanges(summary string) int {
	if summary == values.NoChanges {
		return 0
	}
	return len(strings.Split(summary, "\n"))
}
