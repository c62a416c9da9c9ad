package content

import (
	"context"
	"encoding/json"
	"log/slog"

	"counselpost/internal/domain/models"
	"counselpost/internal/domain/services"
)

// SemanticValidator asks an external judge whether an assembled document
// carries its required SEO components and preserved-section fidelity. It is
// purely observational: it never mutates the document and a failure of any
// kind yields a nil report ("no opinion"), never an error that blocks the
// user-visible flow.
type SemanticValidator struct {
	generator services.TextGenerator
	model     string
	logger    *slog.Logger
}

// NewSemanticValidator creates a validator bound to one judge provider/model.
func NewSemanticValidator(generator services.TextGenerator, model string, logger *slog.Logger) *SemanticValidator {
	return &SemanticValidator{
		generator: generator,
		model:     model,
		logger:    logger,
	}
}

// Validate compares the original and assembled documents against the
// required-components manifest. Callers must treat a nil report as "no
// opinion", never as "validation failed the document".
func (v *SemanticValidator) Validate(ctx context.Context, original, assembled string, req *models.GenerationRequest) *models.ValidationReport {
	lowTemp := 0.1

	resp, err := v.generator.Complete(ctx, &services.CompletionRequest{
		Model:  v.model,
		System: validationSystemPrompt,
		Messages: []services.Message{
			{Role: services.RoleUser, Content: buildValidationPrompt(original, assembled, req)},
		},
		Temperature: &lowTemp,
		ForceJSON:   true,
	})
	if err != nil {
		v.logger.Warn("semantic validation call failed", "error", err)
		return nil
	}

	report, err := parseValidationReport(resp.Content)
	if err != nil {
		v.logger.Warn("semantic validation response rejected", "error", err)
		return nil
	}

	v.logger.Info("semantic validation complete",
		"change_percentage", report.ChangeAnalysis.Percentage,
		"significant_changes", report.ChangeAnalysis.SignificantChanges,
		"warnings", len(report.Warnings),
		"missing_components", report.MissingComponents,
	)
	return report
}

// requiredReportKeys are the top-level keys a conformant judge response
// must carry.
var requiredReportKeys = []string{
	"components",
	"preserved_sections",
	"change_analysis",
	"warnings",
	"missing_components",
}

func parseValidationReport(raw string) (*models.ValidationReport, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &shape); err != nil {
		return nil, err
	}
	for _, key := range requiredReportKeys {
		if _, ok := shape[key]; !ok {
			return nil, &missingKeyError{key: key}
		}
	}

	var report models.ValidationReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

type missingKeyError struct {
	key string
}

func (e *missingKeyError) Error() string {
	return "response missing required key: " + e.key
}
