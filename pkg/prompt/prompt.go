// Package prompt assembles the analysis context and completion prompt sent
// to the AI provider.
package prompt

import (
	"strings"

	"valuesgen/pkg/config"
	"valuesgen/pkg/logx"
	"valuesgen/pkg/tokens"
)

// Inputs holds the material the prompt is assembled from. The YAML fields
// are pre-rendered from the parsed documents so the model sees the same
// key order the repository does.
type Inputs struct {
	AppName                string
	Environment            string
	CurrentValuesYAML      string
	OperationalContextYAML string
	HelmTemplates          []string
}

// responseContract instructs the model on the expected JSON shape. The
// recommendations object maps dotted value paths to replacement values.
const responseContract = `Respond in JSON format:
{
  "analysis": "Detailed analysis of problems found",
  "recommendations": {
    "resources.requests.cpu": "new_value",
    "resources.requests.memory": "new_value",
    "resources.limits.cpu": "new_value",
    "resources.limits.memory": "new_value",
    "autoscaling.minReplicas": new_number,
    "autoscaling.maxReplicas": new_number,
    "livenessProbe.config.initialDelaySeconds": new_number,
    "readinessProbe.config.initialDelaySeconds": new_number
  },
  "justifications": {
    "resources.limits.memory": "Reason for this change"
  }
}`

// Builder assembles prompts under a token budget. Helm template snippets
// are the first thing truncated when the budget is exceeded.
type Builder struct {
	counter   *tokens.Counter
	maxTokens int
}

// NewBuilder creates a prompt builder with the default token budget.
// A nil counter disables budgeting.
func NewBuilder(counter *tokens.Counter) *Builder {
	return &Builder{
		counter:   counter,
		maxTokens: config.MaxPromptTokens,
	}
}

// BuildContext renders the analysis context sections.
func (b *Builder) BuildContext(in *Inputs) string {
	parts := []string{
		"APPLICATION: " + in.AppName,
		"ENVIRONMENT: " + in.Environment,
		"",
		"CURRENT VALUES:",
		in.CurrentValuesYAML,
		"",
		"OPERATIONAL CONTEXT:",
		in.OperationalContextYAML,
	}

	templates := b.fitTemplates(in)
	if len(templates) > 0 {
		parts = append(parts, "", "HELM TEMPLATES:")
		parts = append(parts, templates...)
	}

	return strings.Join(parts, "\n")
}

// Build renders the full prompt: instructions, context, and the JSON
// response contract.
func (b *Builder) Build(in *Inputs) string {
	var sb strings.Builder
	sb.WriteString("Analyze the operational problems and generate Helm values recommendations.\n\n")
	sb.WriteString(b.BuildContext(in))
	sb.WriteString("\n\nBased on the operational incidents, metrics, and current values, provide:\n")
	sb.WriteString("1. Analysis of current problems\n")
	sb.WriteString("2. Specific value recommendations to solve issues\n")
	sb.WriteString("3. Justification for each change\n\n")
	sb.WriteString(responseContract)
	return sb.String()
}

// fitTemplates returns the template snippets that fit in the remaining
// token budget after the fixed sections are accounted for. The last
// snippet that partially fits is truncated; snippets beyond it are dropped.
func (b *Builder) fitTemplates(in *Inputs) []string {
	if len(in.HelmTemplates) == 0 {
		return nil
	}
	if b.counter == nil {
		return in.HelmTemplates
	}

	fixed := b.counter.CountTokens(in.AppName) +
		b.counter.CountTokens(in.Environment) +
		b.counter.CountTokens(in.CurrentValuesYAML) +
		b.counter.CountTokens(in.OperationalContextYAML) +
		b.counter.CountTokens(responseContract)
	remaining := b.maxTokens - fixed

	var kept []string
	truncated := false
	for _, tmpl := range in.HelmTemplates {
		if remaining <= 0 {
			truncated = true
			break
		}
		cost := b.counter.CountTokens(tmpl)
		if cost > remaining {
			kept = append(kept, b.counter.TruncateToLimit(tmpl, remaining))
			truncated = true
			break
		}
		kept = append(kept, tmpl)
		remaining -= cost
	}

	if truncated {
		logx.Warnf("prompt token budget exceeded, kept %d of %d helm template snippets (last may be truncated)",
			len(kept), len(in.HelmTemplates))
	}
	return kept
}
