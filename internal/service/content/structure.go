package content

import (
	"fmt"
	"strings"
	"time"

	"counselpost/internal/domain/models"
)

// dateFormat renders "Month DD, YYYY".
const dateFormat = "January 2, 2006"

// Paragraphs matching any of these phrases are generator noise inside the
// body and are dropped during repair. The preserved summary itself is
// re-emitted from the preserved sections, never from the scanned body.
var repairSkipPhrases = []string{
	"weekly blog preview",
	"read more",
	"featured article section",
	"preview/summary",
}

// CTA phrases; the paragraph containing one is the last content paragraph
// kept, everything between it and the disclaimer is dropped.
var ctaPhrases = []string{
	"Click here to schedule",
	"Book your Discovery Call",
	"Schedule your complimentary",
	"discovery call",
}

// RepairStructure deterministically reconstructs an assembled document so it
// follows the fixed ordering:
//
//	hook, blank, summary, blank, date stamp, blank, heading/body/CTA, disclaimer
//
// Duplicates of the preserved zones inside the body, boilerplate paragraphs,
// stray date stamps and anything after the disclaimer are dropped, and
// consecutive blanks collapse to one. The pass is model-independent and
// idempotent: repairing its own output changes nothing.
func RepairStructure(text string, preserved models.PreservedSections) string {
	return RepairStructureAt(text, preserved, time.Now())
}

// RepairStructureAt is RepairStructure with an explicit date stamp time.
func RepairStructureAt(text string, preserved models.PreservedSections, now time.Time) string {
	paragraphs := splitParagraphs(text)
	out := make([]string, 0, len(paragraphs)+8)

	if preserved.Hook != "" {
		out = append(out, preserved.Hook, "")
	}
	if preserved.Summary != "" {
		out = append(out, preserved.Summary, "")
	}
	out = append(out, fmt.Sprintf("**Date: %s**", now.Format(dateFormat)), "")

	hook := strings.TrimSpace(preserved.Hook)
	summary := strings.TrimSpace(preserved.Summary)
	disclaimer := strings.TrimSpace(preserved.Disclaimer)

	for _, para := range paragraphs {
		trimmed := strings.TrimSpace(para)
		if trimmed == "" {
			continue
		}
		// Preserved zones are re-emitted in their fixed slots; duplicates in
		// the scanned body are dropped so each appears exactly once.
		if trimmed == hook || (summary != "" && trimmed == summary) {
			continue
		}
		// The disclaimer closes the document; it is re-emitted below and
		// anything the model produced after it is dropped.
		if disclaimer != "" && trimmed == disclaimer {
			break
		}
		lower := strings.ToLower(trimmed)
		if containsAny(lower, repairSkipPhrases) {
			continue
		}
		if isDateLine(lower) {
			continue
		}

		out = append(out, trimmed)

		// The CTA closes the content; nothing between it and the disclaimer
		// survives.
		if containsAnyFold(trimmed, ctaPhrases) {
			break
		}
	}

	if preserved.Disclaimer != "" {
		out = append(out, preserved.Disclaimer)
	}

	return joinParagraphs(collapseBlanks(out))
}

// collapseBlanks drops leading/trailing blanks and squeezes runs of blank
// paragraphs down to one.
func collapseBlanks(paragraphs []string) []string {
	out := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		if strings.TrimSpace(para) != "" {
			out = append(out, para)
		} else if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
	}
	// No trailing blank after the final paragraph.
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}

func containsAnyFold(s string, phrases []string) bool {
	lower := strings.ToLower(s)
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
