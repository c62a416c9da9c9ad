package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"counselpost/internal/domain"
	"counselpost/internal/domain/models"
	"counselpost/internal/domain/services"
)

// Summarizer produces the teaser for a generated body. Never fails.
type Summarizer interface {
	Summarize(ctx context.Context, body, hook string) string
}

// DocumentAssembler merges the pipeline outputs into one document.
type DocumentAssembler interface {
	Assemble(p AssembleParams) (string, error)
}

// Judge performs advisory semantic validation. A nil report is "no opinion".
type Judge interface {
	Validate(ctx context.Context, original, assembled string, req *models.GenerationRequest) *models.ValidationReport
}

// RewriteResult is the outcome of one full rewrite cycle.
type RewriteResult struct {
	// Content is the assembled document, or the unmodified original when the
	// post-generation pipeline failed open.
	Content string `json:"content"`

	// Preserved are the zones extracted from the original for this cycle.
	Preserved models.PreservedSections `json:"preserved_sections"`

	// Report is the advisory judge verdict, if any.
	Report *models.ValidationReport `json:"validation_report,omitempty"`
}

// RewriteService orchestrates the content assembly pipeline: extract the
// preserved zones, rewrite the mutable middle through the external generator,
// generate a fresh teaser, assemble via the template and repair structure.
type RewriteService struct {
	generator services.TextGenerator
	model     string
	summaries Summarizer
	assembler DocumentAssembler
	judge     Judge
	logger    *slog.Logger
}

// NewRewriteService creates a rewrite service. judge may be nil to disable
// semantic validation.
func NewRewriteService(
	generator services.TextGenerator,
	model string,
	summaries Summarizer,
	assembler DocumentAssembler,
	judge Judge,
	logger *slog.Logger,
) *RewriteService {
	return &RewriteService{
		generator: generator,
		model:     model,
		summaries: summaries,
		assembler: assembler,
		judge:     judge,
		logger:    logger,
	}
}

// Rewrite runs one full regeneration cycle over original.
//
// A failed generation call propagates as domain.ErrGeneration; the caller
// surfaces it rather than silently substituting content. Once generation has
// succeeded the pipeline fails open: any downstream failure returns the
// original text unchanged - never a partial or corrupt document.
func (s *RewriteService) Rewrite(ctx context.Context, original string, req *models.GenerationRequest) (*RewriteResult, error) {
	if err := validateGenerationRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	preserved := ExtractSections(original)

	temp := 0.7
	resp, err := s.generator.Complete(ctx, &services.CompletionRequest{
		Model:  s.model,
		System: buildRewritePrompt(preserved, req),
		Messages: []services.Message{
			{Role: services.RoleUser, Content: original},
		},
		Temperature: &temp,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	assembled, err := s.assembleGenerated(ctx, resp.Content, preserved, req)
	if err != nil {
		// Fail open: a broken assembly stage must never produce a document
		// worse than its input.
		s.logger.Error("assembly pipeline failed, returning original content", "error", err)
		return &RewriteResult{Content: original, Preserved: preserved}, nil
	}

	var report *models.ValidationReport
	if s.judge != nil {
		report = s.judge.Validate(ctx, original, assembled, req)
	}

	s.logger.Info("rewrite complete",
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"validated", report != nil,
	)

	return &RewriteResult{
		Content:   assembled,
		Preserved: preserved,
		Report:    report,
	}, nil
}

// assembleGenerated runs the post-generation stages: teaser, template
// assembly and structural repair.
func (s *RewriteService) assembleGenerated(ctx context.Context, generated string, preserved models.PreservedSections, req *models.GenerationRequest) (string, error) {
	summary := s.summaries.Summarize(ctx, generated, preserved.Hook)

	assembled, err := s.assembler.Assemble(AssembleParams{
		Hook:       preserved.Hook,
		Summary:    summary,
		Body:       generated,
		Disclaimer: preserved.Disclaimer,
		FirmName:   req.FirmName,
		CTALink:    req.DiscoveryCallLink,
		Now:        time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("assemble article: %w", err)
	}

	repaired := RepairStructure(assembled, models.PreservedSections{
		Hook:       preserved.Hook,
		Summary:    summary,
		Disclaimer: preserved.Disclaimer,
	})
	return repaired, nil
}

func validateGenerationRequest(req *models.GenerationRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Tone, validation.Length(0, 64)),
		validation.Field(&req.ToneDescription, validation.Length(0, 512)),
		validation.Field(&req.Keywords, validation.Length(0, 512)),
		validation.Field(&req.FirmName, validation.Length(0, 128)),
		validation.Field(&req.Location, validation.Length(0, 128)),
		validation.Field(&req.LawyerName, validation.Length(0, 128)),
		validation.Field(&req.City, validation.Length(0, 128)),
		validation.Field(&req.State, validation.Length(0, 64)),
		validation.Field(&req.DiscoveryCallLink, validation.Length(0, 512)),
		validation.Field(&req.PlanningSessionName, validation.Length(0, 128)),
	)
}
