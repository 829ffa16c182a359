// internal/agents/openai.go
package agents

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared/constant"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
)

// OpenAIProvider calls chat completions with a json_schema response format.
type OpenAIProvider struct {
	client    openai.Client
	model     string
	available bool
}

func NewOpenAIProvider(cfg config.LLMConfig) *OpenAIProvider {
	p := &OpenAIProvider{model: cfg.Model}
	if cfg.APIKey == "" {
		return p
	}

	// retries belong to RetryPolicy, not the SDK
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

	p.client = openai.NewClient(opts...)
	p.available = true
	return p
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Available() bool { return p.available }

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !p.available {
		return "", fmt.Errorf("openai provider has no api key")
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		Temperature: param.NewOpt(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = param.NewOpt(int64(req.MaxTokens))
	}
	if req.Schema != nil {
		// strict mode rejects open maps such as budgetAllocation
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.Schema.Name,
					Strict: param.NewOpt(false),
					Schema: req.Schema.Document,
				},
				Type: constant.ValueOf[constant.JSONSchema](),
			},
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai API returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if req.Schema != nil {
		content = extractJSON(content)
	}
	return content, nil
}
