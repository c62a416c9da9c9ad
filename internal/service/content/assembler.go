package content

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Placeholder tokens in the blog template. Substitution is literal string
// replacement, not a templating language.
const (
	tokenSummary = "{summary of the article}"
	tokenDate    = "{current_date}"
	tokenTitle   = "{newly generated Title with proper markdown formatting}"
	tokenBody    = "{newly generated content with proper markdown formatting}"
	tokenFirm    = "{firm_name}"
	tokenCTALink = "{discovery_call_link}"
)

// previewLabel is the first line of the template; it is removed when the
// source article supplied no hook.
const previewLabel = "Weekly blog preview/summary"

// fallbackTemplate is used when the external template file is unreadable.
const fallbackTemplate = `Weekly blog preview/summary you can use on your main blog page and Featured Article section of your email newsletter:

{summary of the article}

**Date: {current_date}**
{newly generated Title with proper markdown formatting}

{newly generated content with proper markdown formatting}

*###### This article is a service of {firm_name}. We don't just draft documents; we ensure you make informed and empowered decisions about life and death, for yourself and the people you love. You can begin by scheduling a [15-minute discovery call]({discovery_call_link}) with our office today.*`

// AssembleParams are the inputs for one template assembly.
type AssembleParams struct {
	Hook       string
	Summary    string
	Body       string
	Disclaimer string
	FirmName   string
	CTALink    string
	Now        time.Time
}

// Assembler merges the preserved zones, a fresh summary and the cleaned
// generated body into one document via the external template.
type Assembler struct {
	templatePath string
	logger       *slog.Logger
}

// NewAssembler creates an assembler reading its template from templatePath.
func NewAssembler(templatePath string, logger *slog.Logger) *Assembler {
	return &Assembler{
		templatePath: templatePath,
		logger:       logger,
	}
}

// Assemble cleans the generated body, substitutes the template placeholders
// and returns the assembled text. The title token is always substituted empty
// because the title lives inside the generated body. Missing template files
// degrade to the built-in fallback; substitution itself cannot fail, and no
// unresolved token survives into the output.
//
// Assembly never reorders hook/summary/disclaimer relative to each other and
// never edits their text; cleaning applies to the generated body only.
func (a *Assembler) Assemble(p AssembleParams) (string, error) {
	body := CleanBody(p.Body)

	template := a.loadTemplate()

	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}

	firm := p.FirmName
	if firm == "" {
		firm = "[Firm Name]"
	}
	link := p.CTALink
	if link == "" {
		link = "#"
	}

	doc := template
	doc = strings.ReplaceAll(doc, tokenSummary, strings.TrimSpace(p.Summary))
	doc = strings.ReplaceAll(doc, tokenDate, now.Format(dateFormat))
	doc = strings.ReplaceAll(doc, tokenTitle, "")
	doc = strings.ReplaceAll(doc, tokenBody, body)
	doc = strings.ReplaceAll(doc, tokenFirm, firm)
	doc = strings.ReplaceAll(doc, tokenCTALink, link)

	if strings.TrimSpace(p.Hook) == "" {
		doc = dropPreviewLabel(doc)
	}

	return doc, nil
}

func (a *Assembler) loadTemplate() string {
	if a.templatePath == "" {
		return fallbackTemplate
	}
	raw, err := os.ReadFile(a.templatePath)
	if err != nil {
		a.logger.Warn("template file unreadable, using built-in fallback",
			"path", a.templatePath,
			"error", err,
		)
		return fallbackTemplate
	}
	return string(raw)
}

// dropPreviewLabel removes the leading preview-label line and any blank lines
// immediately after it.
func dropPreviewLabel(doc string) string {
	lines := strings.Split(doc, "\n")
	if len(lines) == 0 || !strings.Contains(lines[0], previewLabel) {
		return doc
	}
	lines = lines[1:]
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}
