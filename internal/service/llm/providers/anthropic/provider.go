// Package anthropic adapts the Anthropic messages API to the TextGenerator
// interface.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"counselpost/internal/domain/services"
)

const defaultMaxTokens = 4096

// Provider implements services.TextGenerator for Claude models.
type Provider struct {
	client *anthropic.Client
}

// NewProvider creates an Anthropic provider with the given API key.
func NewProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Provider{client: &client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// SupportsModel returns true if this provider supports the given model.
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(strings.ToLower(model), "claude-")
}

// Complete generates a completion.
//
// The messages API has no JSON response mode, so when ForceJSON is set the
// constraint is appended to the system instruction and the judge's defensive
// parsing does the rest.
func (p *Provider) Complete(ctx context.Context, req *services.CompletionRequest) (*services.CompletionResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model %q is not supported by anthropic provider", req.Model)
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		switch m.Role {
		case services.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(block))
		default:
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: defaultMaxTokens,
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	system := req.System
	if req.ForceJSON {
		system += "\n\nRespond with a single valid JSON object and nothing else."
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: system},
		}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic completion: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &services.CompletionResponse{
		Content:      text.String(),
		Model:        string(message.Model),
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}
