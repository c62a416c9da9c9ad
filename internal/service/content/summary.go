package content

import (
	"context"
	"log/slog"
	"strings"

	"counselpost/internal/domain/services"
)

// SummaryMarker is the literal every teaser must end with.
const SummaryMarker = "Read more..."

// fallbackSummary is returned when the provider call fails; summarization
// must never surface an error.
const fallbackSummary = "This article explores important considerations for protecting your family's future. Read more..."

// SummaryGenerator produces the 2-3 sentence teaser for an assembled post.
type SummaryGenerator struct {
	generator services.TextGenerator
	model     string
	logger    *slog.Logger
}

// NewSummaryGenerator creates a summary generator bound to one provider/model.
func NewSummaryGenerator(generator services.TextGenerator, model string, logger *slog.Logger) *SummaryGenerator {
	return &SummaryGenerator{
		generator: generator,
		model:     model,
		logger:    logger,
	}
}

// Summarize produces a teaser for the generated body, distinct from the hook
// and always ending with SummaryMarker. The marker post-condition is enforced
// mechanically regardless of what the model returns, and provider failures
// degrade to a fixed fallback sentence.
func (s *SummaryGenerator) Summarize(ctx context.Context, body, hook string) string {
	resp, err := s.generator.Complete(ctx, &services.CompletionRequest{
		Model:  s.model,
		System: summarySystemPrompt,
		Messages: []services.Message{
			{Role: services.RoleUser, Content: buildSummaryPrompt(body, hook)},
		},
	})
	if err != nil {
		s.logger.Warn("summary generation failed, using fallback", "error", err)
		return fallbackSummary
	}

	return EnsureSummaryMarker(resp.Content)
}

// EnsureSummaryMarker forces text to end with the exact SummaryMarker
// literal, trimming any trailing period first.
func EnsureSummaryMarker(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, SummaryMarker) {
		return text
	}
	text = strings.TrimSpace(strings.TrimRight(text, "."))
	if text == "" {
		return SummaryMarker
	}
	return text + ". " + SummaryMarker
}
