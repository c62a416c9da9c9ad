package content

import (
	"regexp"
	"strings"
)

// Phrases that mark generator preamble leaking template boilerplate into the
// body. Matching lines are dropped before assembly.
var boilerplatePhrases = []string{
	"weekly blog preview",
	"summary you can use",
	"featured article section",
	"email newsletter",
	"preview/summary",
}

// Topical keywords used to recognize an unmarked title line when the
// generator forgets the heading marker.
var headingKeywords = []string{
	"trust", "planning", "legacy", "estate", "probate", "guardian",
	"understanding", "how", "why", "what", "when", "where",
	"guide", "complete", "essential", "important",
	"protect", "secure", "plan", "future", "family",
	"legal", "law", "attorney", "lawyer",
}

// Matches an explicit year stamp like "2025." inside a line.
var yearStampRe = regexp.MustCompile(`\b20\d{2}\.`)

// CleanBody strips generator artifacts from a generated body before
// assembly: boilerplate lines, date stamps, short duplicated teaser
// fragments, and anything before the first heading. The preserved zones are
// never passed through here; cleaning only ever touches generated text.
func CleanBody(body string) string {
	if body == "" {
		return ""
	}

	lines := strings.Split(body, "\n")
	cleaned := make([]string, 0, len(lines))
	skipUntilHeading := true

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if containsAny(lower, boilerplatePhrases) {
			continue
		}
		if isDateLine(lower) {
			continue
		}
		// Duplicated teaser fragments are short; a long body paragraph that
		// merely mentions the marker is kept.
		if strings.Contains(lower, "read more...") && len(line) < 200 {
			continue
		}

		if strings.HasPrefix(line, "#") {
			skipUntilHeading = false
		} else if skipUntilHeading && looksLikeTitle(line, lower) {
			skipUntilHeading = false
			line = "# " + line
		}

		// Everything before the heading is generator preamble.
		if !skipUntilHeading {
			cleaned = append(cleaned, line)
		}
	}

	return joinParagraphs(cleaned)
}

// looksLikeTitle reports whether an unmarked line is plausibly the article
// title: title-length, topical, and not leftover template text.
func looksLikeTitle(line, lower string) bool {
	if len(line) <= 20 || len(line) >= 100 {
		return false
	}
	if strings.Contains(lower, "read more") || strings.Contains(lower, "summary") ||
		strings.Contains(lower, "preview") || strings.Contains(lower, "date:") {
		return false
	}
	for _, kw := range headingKeywords {
		if containsWord(lower, kw) {
			return true
		}
	}
	return false
}

func isDateLine(lower string) bool {
	return strings.Contains(lower, "date:") || yearStampRe.MatchString(lower)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// containsWord matches kw as a whole word inside s.
func containsWord(s, kw string) bool {
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '\'')
	}) {
		if w == kw {
			return true
		}
	}
	return false
}
