// internal/agents/invoker.go
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/metrics"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/observability"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/validation"
)

const (
	outcomeSuccess = "success"
	outcomeMock    = "mock"
	outcomeError   = "error"
)

// InvokerOptions configures how agents reach the provider.
type InvokerOptions struct {
	MockMode    bool
	Retry       RetryPolicy
	Model       string
	Temperature float64
	MaxTokens   int
}

// InvokerOptionsFromConfig maps app, llm and retry settings.
func InvokerOptionsFromConfig(cfg *config.Config) InvokerOptions {
	return InvokerOptions{
		MockMode:    cfg.App.MockMode,
		Retry:       RetryPolicyFromConfig(cfg.Retry),
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}
}

// Invoker runs structured-output calls for every agent. Offline it answers from the mock
// tables without touching the provider; online it retries the provider and validates the
// reply against the agent's schema.
type Invoker struct {
	provider Provider
	opts     InvokerOptions
	logger   logger.Logger
	obs      *observability.Observability
}

func NewInvoker(provider Provider, opts InvokerOptions, log logger.Logger, obs *observability.Observability) *Invoker {
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry = DefaultRetryPolicy()
	}
	return &Invoker{
		provider: provider,
		opts:     opts,
		logger:   log.With(map[string]interface{}{"component": "agent-invoker"}),
		obs:      obs,
	}
}

// Offline reports whether calls are served from mocks.
func (inv *Invoker) Offline() bool {
	return inv.opts.MockMode || inv.provider == nil || !inv.provider.Available()
}

// Provider exposes the underlying provider for plain-text helpers such as sentiment.
func (inv *Invoker) Provider() Provider {
	return inv.provider
}

// agentSpec is the static description of one agent.
type agentSpec[T any] struct {
	name         string
	systemPrompt string
	schema       *validation.Schema
	mocks        MockTable[T]
}

func invoke[T any](ctx context.Context, inv *Invoker, spec agentSpec[T], mockKey, userPrompt string) (*T, error) {
	ctx, span := inv.obs.StartSpan(ctx, "agent."+spec.name,
		attribute.String("agent", spec.name),
		attribute.Bool("offline", inv.Offline()),
	)
	defer span.End()

	start := time.Now()
	var (
		out     *T
		err     error
		outcome string
	)

	if inv.Offline() {
		out, err = mockResponse(spec, mockKey)
		outcome = outcomeMock
	} else {
		out, err = callProvider(ctx, inv, spec, userPrompt)
		outcome = outcomeSuccess
	}
	if err != nil {
		outcome = outcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	elapsed := time.Since(start)
	metrics.AgentInvocations.WithLabelValues(spec.name, outcome, apperrors.CategoryOf(err)).Inc()
	metrics.AgentInvocationDuration.WithLabelValues(spec.name).Observe(elapsed.Seconds())
	inv.obs.RecordAgentDuration(ctx, spec.name, elapsed, outcome)

	fields := map[string]interface{}{
		"agent":       spec.name,
		"outcome":     outcome,
		"duration_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		fields["error"] = err
		fields["category"] = apperrors.CategoryOf(err)
		inv.logger.Error("Agent invocation failed", fields)
		return nil, err
	}
	inv.logger.Debug("Agent invocation completed", fields)
	return out, nil
}

// mockResponse returns a private copy of the canned entry so callers can mutate it freely.
func mockResponse[T any](spec agentSpec[T], key string) (*T, error) {
	canned, ok := spec.mocks.Lookup(key)
	if !ok {
		return nil, apperrors.NewNoMockAvailableError(spec.name)
	}
	raw, err := json.Marshal(canned)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("marshal mock for %s: %w", spec.name, err))
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("copy mock for %s: %w", spec.name, err))
	}
	return &out, nil
}

// callProvider retries the completion plus decode as one unit. Transport failures surface as
// ProviderError once attempts run out; a reply that never fits the schema surfaces as
// SchemaValidationError.
func callProvider[T any](ctx context.Context, inv *Invoker, spec agentSpec[T], userPrompt string) (*T, error) {
	req := CompletionRequest{
		Agent:        spec.name,
		SystemPrompt: spec.systemPrompt,
		UserPrompt:   userPrompt,
		Schema:       spec.schema,
		Model:        inv.opts.Model,
		Temperature:  inv.opts.Temperature,
		MaxTokens:    inv.opts.MaxTokens,
	}

	var out *T
	err := inv.opts.Retry.Do(ctx, func(ctx context.Context) error {
		raw, err := inv.provider.Complete(ctx, req)
		if err != nil {
			return err
		}
		decoded, err := decodeOutput[T](spec, raw)
		if err != nil {
			return err
		}
		out = decoded
		return nil
	}, func(attempt int, err error) {
		metrics.AgentAttempts.WithLabelValues(spec.name).Inc()
		if err != nil {
			inv.logger.Warn("Agent attempt failed", map[string]interface{}{
				"agent":        spec.name,
				"attempt":      attempt,
				"max_attempts": inv.opts.Retry.MaxAttempts,
				"error":        err,
			})
		}
	})
	if err == nil {
		return out, nil
	}
	if apperrors.Is(err, apperrors.ErrCodeSchemaValidation) {
		return nil, err
	}
	return nil, apperrors.NewProviderError(spec.name, err)
}

func decodeOutput[T any](spec agentSpec[T], raw string) (*T, error) {
	payload := []byte(raw)
	if result := spec.schema.Validate(payload); !result.Valid {
		return nil, apperrors.NewSchemaValidationError(spec.name, result.Summary(), nil)
	}
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, apperrors.NewSchemaValidationError(spec.name, err.Error(), err)
	}
	return &out, nil
}
