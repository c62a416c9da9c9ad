package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"counselpost/internal/domain"
	"counselpost/internal/domain/services"
)

// TranscriptStore persists per-session generator transcripts. Implementations
// must bound transcript growth; the editor never trims.
type TranscriptStore interface {
	// BeginEdit serializes edits for one session; the returned function
	// releases the edit lock.
	BeginEdit(sessionID string) func()

	Transcript(sessionID string) []services.Message
	SetTranscript(sessionID string, turns []services.Message)
}

// Editor applies natural-language edit instructions to a whole document
// through the external conversational endpoint. Each session keeps a running
// transcript; the model always returns a complete replacement document,
// never a diff.
type Editor struct {
	generator   services.TextGenerator
	model       string
	transcripts TranscriptStore
	logger      *slog.Logger
}

// NewEditor creates a conversational editor.
func NewEditor(generator services.TextGenerator, model string, transcripts TranscriptStore, logger *slog.Logger) *Editor {
	return &Editor{
		generator:   generator,
		model:       model,
		transcripts: transcripts,
		logger:      logger,
	}
}

// Edit applies instruction to currentContent within the session's transcript
// and returns the full replacement document. Edits within a session are
// serialized; the provider call happens inside the per-session critical
// section so concurrent tabs cannot interleave transcript turns.
//
// Structural repair is re-run on the reply against the zones of the current
// content, so a model that drifts cannot alter, duplicate or drop the hook,
// summary or disclaimer.
func (e *Editor) Edit(ctx context.Context, sessionID, instruction, currentContent string) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		return "", fmt.Errorf("%w: edit instruction is required", domain.ErrValidation)
	}

	release := e.transcripts.BeginEdit(sessionID)
	defer release()

	turns := e.transcripts.Transcript(sessionID)
	if len(turns) == 0 {
		turns = append(turns, services.Message{
			Role:    services.RoleSystem,
			Content: editorSystemPrompt,
		})
	}
	if currentContent != "" {
		turns = append(turns, services.Message{
			Role:    services.RoleAssistant,
			Content: currentContent,
		})
	}
	turns = append(turns, services.Message{
		Role:    services.RoleUser,
		Content: instruction,
	})

	temp := 0.5
	resp, err := e.generator.Complete(ctx, &services.CompletionRequest{
		Model:       e.model,
		System:      turns[0].Content,
		Messages:    turns[1:],
		Temperature: &temp,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	turns = append(turns, services.Message{
		Role:    services.RoleAssistant,
		Content: resp.Content,
	})
	e.transcripts.SetTranscript(sessionID, turns)

	edited := resp.Content
	if currentContent != "" {
		preserved := ExtractSections(currentContent)
		edited = RepairStructure(edited, preserved)
	}

	e.logger.Info("conversational edit applied",
		"session_id", sessionID,
		"transcript_turns", len(turns),
		"model", resp.Model,
	)
	return edited, nil
}
