// internal/agents/provider.go
package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/validation"
)

// CompletionRequest is one structured-output call. A nil Schema asks for plain text.
type CompletionRequest struct {
	Agent        string
	SystemPrompt string
	UserPrompt   string
	Schema       *validation.Schema
	Model        string
	Temperature  float64
	MaxTokens    int
}

// Provider is the remote LLM collaborator.
type Provider interface {
	Name() string
	// Available is false when no credentials are configured; callers then stay offline.
	Available() bool
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewProvider builds the provider selected by cfg.Provider.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIProvider(cfg), nil
	case "anthropic":
		return NewAnthropicProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// extractJSON strips markdown fences and surrounding prose from a model reply.
func extractJSON(output string) string {
	output = strings.TrimSpace(output)

	if strings.HasPrefix(output, "```json") {
		output = strings.TrimPrefix(output, "```json")
		if idx := strings.LastIndex(output, "```"); idx != -1 {
			output = output[:idx]
		}
		output = strings.TrimSpace(output)
	} else if strings.HasPrefix(output, "```") {
		output = strings.TrimPrefix(output, "```")
		if idx := strings.LastIndex(output, "```"); idx != -1 {
			output = output[:idx]
		}
		output = strings.TrimSpace(output)
	}

	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end == -1 || end < start {
		return output
	}
	return output[start : end+1]
}
