package services

import "context"

// TextGenerator defines the interface all text-generation providers implement.
// This abstraction allows supporting multiple providers (OpenAI, Anthropic,
// the simulate double) while keeping a consistent interface for the content
// pipeline.
type TextGenerator interface {
	// Complete generates a completion for the given request. The endpoint
	// holds no state between calls; every invocation must carry its full
	// constraint contract.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g. "openai", "anthropic", "simulate").
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// Message is a single turn in a generation conversation.
type Message struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`

	Content string `json:"content"`
}

// CompletionRequest contains the parameters for one generation call.
type CompletionRequest struct {
	Model string

	// System is the system instruction. Constraints are repeated here on
	// every call; the endpoint does not reliably honor soft constraints
	// across calls.
	System string

	// Messages is the conversation so far, oldest first.
	Messages []Message

	// Temperature, when set, overrides the provider default.
	Temperature *float64

	// ForceJSON asks the provider to constrain output to a single JSON
	// object. Used by the semantic judge.
	ForceJSON bool
}

// CompletionResponse is the provider's reply.
type CompletionResponse struct {
	Content string

	// Model is the model that served the request.
	Model string

	InputTokens  int
	OutputTokens int
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)
