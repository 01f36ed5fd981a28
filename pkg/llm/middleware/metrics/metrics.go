// Package metrics provides Prometheus-based metrics recording for LLM
// requests. The action is a one-shot process, so instead of serving a
// scrape endpoint the recorder flushes its registry to a textfile that a
// node_exporter textfile collector can pick up.
package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"valuesgen/pkg/llm"
	"valuesgen/pkg/llm/llmerrors"
)

// Recorder holds the Prometheus collectors for LLM request metrics.
type Recorder struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRecorder creates a recorder backed by its own registry so that a
// textfile flush contains only these metrics.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuesgen_llm_requests_total",
				Help: "Total number of LLM requests by provider, model, and status",
			},
			[]string{"provider", "model", "status", "error_type"},
		),
		tokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuesgen_llm_tokens_total",
				Help: "Total number of tokens used in LLM requests",
			},
			[]string{"provider", "model", "type"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "valuesgen_llm_request_duration_seconds",
				Help:    "Duration of LLM requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "model"},
		),
	}
}

// ObserveRequest records a completed LLM request.
func (r *Recorder) ObserveRequest(provider, model string, promptTokens, completionTokens int, err error, duration time.Duration) {
	status := "success"
	errorType := ""
	if err != nil {
		status = "error"
		errorType = llmerrors.TypeOf(err).String()
	}

	r.requestsTotal.WithLabelValues(provider, model, status, errorType).Inc()
	if err == nil {
		r.tokensTotal.WithLabelValues(provider, model, "prompt").Add(float64(promptTokens))
		r.tokensTotal.WithLabelValues(provider, model, "completion").Add(float64(completionTokens))
	}
	r.requestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// WriteTextfile flushes the registry in Prometheus text exposition format.
// The write goes through a temp file and rename so a concurrent collector
// never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create metrics temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(tmp, family); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close metrics temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move metrics file into place: %w", err)
	}
	return nil
}

// Middleware returns a middleware that records request metrics into the
// recorder for the given provider label.
func Middleware(recorder *Recorder, provider string) llm.Middleware {
	return func(next llm.Client) llm.Client {
		return llm.WrapClient(
			func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
				start := time.Now()
				resp, err := next.Complete(ctx, req)
				recorder.ObserveRequest(provider, next.GetModelName(),
					resp.PromptTokens, resp.CompletionTokens, err, time.Since(start))
				return resp, err
			},
			next.GetModelName,
		)
	}
}
