// internal/agents/anthropic.go
package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
)

// AnthropicProvider embeds the output schema in the system prompt and extracts the JSON reply.
type AnthropicProvider struct {
	client    anthropic.Client
	model     string
	available bool
}

func NewAnthropicProvider(cfg config.LLMConfig) *AnthropicProvider {
	p := &AnthropicProvider{model: cfg.Model}
	if cfg.APIKey == "" {
		return p
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.GetDuration(cfg.Timeout)))
	}

	p.client = anthropic.NewClient(opts...)
	p.available = true
	return p
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Available() bool { return p.available }

func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !p.available {
		return "", fmt.Errorf("anthropic provider has no api key")
	}

	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4000
	}

	system := req.SystemPrompt
	if req.Schema != nil {
		schemaJSON, err := json.Marshal(req.Schema.Document)
		if err != nil {
			return "", fmt.Errorf("marshal schema: %w", err)
		}
		system += "\n\nRespond with a single JSON object that conforms to this JSON schema and nothing else:\n" + string(schemaJSON)
	}

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(req.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var output string
	for _, block := range resp.Content {
		if block.Type == "text" {
			output += block.Text
		}
	}

	if req.Schema != nil {
		output = extractJSON(output)
	}
	return output, nil
}
