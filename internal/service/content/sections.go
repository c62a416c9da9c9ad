package content

import (
	"strings"

	"counselpost/internal/domain/models"
)

// paragraphDelimiter separates paragraphs in article content.
const paragraphDelimiter = "\n\n"

// ExtractSections splits article content into the three preserved zones:
// hook (first paragraph), summary (second paragraph) and disclaimer (last
// paragraph). Fields are taken verbatim, without trimming.
//
// Extraction never fails: degenerate content yields empty fields. A
// single-paragraph article deliberately yields Hook == Disclaimer; callers
// must tolerate the overlap.
func ExtractSections(text string) models.PreservedSections {
	paragraphs := make([]string, 0, 8)
	for _, para := range strings.Split(text, paragraphDelimiter) {
		// Blank paragraphs are separators, not content; skipping them keeps
		// the positional invariant stable for documents that carry explicit
		// blank-line breaks.
		if strings.TrimSpace(para) == "" {
			continue
		}
		paragraphs = append(paragraphs, para)
	}

	var sections models.PreservedSections
	if len(paragraphs) > 0 {
		sections.Hook = paragraphs[0]
		sections.Disclaimer = paragraphs[len(paragraphs)-1]
	}
	if len(paragraphs) > 1 {
		sections.Summary = paragraphs[1]
	}
	return sections
}

func splitParagraphs(text string) []string {
	return strings.Split(text, paragraphDelimiter)
}

func joinParagraphs(paragraphs []string) string {
	return strings.Join(paragraphs, paragraphDelimiter)
}
