// Package simulate is a test double for the external generation endpoint.
// It preserves the real path's interface and timing characteristics - a
// variable multi-second delay - without incurring external cost, so timeout
// and UI behavior can be exercised end to end.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"counselpost/internal/domain/services"
)

// Provider implements services.TextGenerator with a fixed-delay echo.
// Selected by model prefix like any real provider; simulate mode is a
// provider choice, not a flag scattered through business logic.
type Provider struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// NewProvider creates a simulate provider sleeping between minDelay and
// maxDelay per call. Zero values disable the delay (useful in tests).
func NewProvider(minDelay, maxDelay time.Duration) *Provider {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Provider{minDelay: minDelay, maxDelay: maxDelay}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "simulate"
}

// SupportsModel returns true for models prefixed "simulate-".
// Example models: "simulate-standard", "simulate-json".
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(strings.ToLower(model), "simulate-")
}

// Complete sleeps for the configured delay, honoring context cancellation,
// then echoes the last user message. ForceJSON requests get an empty JSON
// object, which downstream judges reject as non-conformant - matching the
// advisory "no opinion" path.
func (p *Provider) Complete(ctx context.Context, req *services.CompletionRequest) (*services.CompletionResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model %q is not supported by simulate provider", req.Model)
	}

	if delay := p.delay(); delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	content := "Simulated response after delay"
	if req.ForceJSON {
		content = "{}"
	} else if last := lastUserMessage(req.Messages); last != "" {
		content = last
	}

	return &services.CompletionResponse{
		Content:      content,
		Model:        req.Model,
		InputTokens:  estimateTokens(req),
		OutputTokens: len(strings.Fields(content)),
	}, nil
}

func (p *Provider) delay() time.Duration {
	if p.maxDelay <= 0 {
		return 0
	}
	if p.maxDelay == p.minDelay {
		return p.minDelay
	}
	return p.minDelay + time.Duration(rand.Int63n(int64(p.maxDelay-p.minDelay)))
}

func lastUserMessage(messages []services.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == services.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func estimateTokens(req *services.CompletionRequest) int {
	total := len(strings.Fields(req.System))
	for _, m := range req.Messages {
		total += len(strings.Fields(m.Content))
	}
	return total
}
