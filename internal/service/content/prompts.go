package content

import (
	"fmt"
	"strings"

	"counselpost/internal/domain/models"
)

// The generation endpoint holds no state and does not reliably honor soft
// constraints, so every prompt repeats the full constraint contract.

const summarySystemPrompt = "You are a summary generation expert. Always return concise, engaging summaries."

const editorSystemPrompt = `You are a legal blog post editor. When the user requests changes:
1. Make ONLY the requested changes.
2. Return the COMPLETE updated blog post in markdown format, not a diff or just the updated part.
3. Do not include any commentary or explanations.
4. Preserve all formatting and structure.
5. The first paragraph (hook), the second paragraph (summary) and the last paragraph (disclaimer) must remain exactly as given.
6. No paragraph may repeat verbatim anywhere in the output.`

const validationSystemPrompt = "You are a JSON-only response validator. Always respond with valid JSON matching the exact structure provided."

// buildRewritePrompt builds the system instruction for a full rewrite. The
// preserved sections are supplied as context the model must not reproduce;
// the model generates only heading, body and CTA.
func buildRewritePrompt(preserved models.PreservedSections, req *models.GenerationRequest) string {
	planningSession := req.PlanningSessionName
	if planningSession == "" {
		planningSession = "15-minute discovery call"
	}

	var b strings.Builder
	b.WriteString("You are a legal blog post rewriter. Generate ONLY the main article content (heading + body + CTA) with at least 40% changes from the original.\n\n")

	b.WriteString("TEMPLATE STRUCTURE (DO NOT INCLUDE THESE SECTIONS - THEY WILL BE ADDED AUTOMATICALLY):\n")
	fmt.Fprintf(&b, "- Hook: %s\n", preserved.Hook)
	fmt.Fprintf(&b, "- Summary: %s\n", preserved.Summary)
	b.WriteString("- Date: will be added automatically\n")
	fmt.Fprintf(&b, "- Disclaimer: %s\n\n", preserved.Disclaimer)

	b.WriteString(`CRITICAL REQUIREMENTS:
1. Start your content with the main heading: "# [Title]"
2. Use proper markdown formatting throughout, with 3-4 subheadings ("## ")
3. End with a CTA paragraph
4. DO NOT include the hook, summary, date, or disclaimer anywhere in your output
5. DO NOT repeat any preserved section or create paragraphs with the same content as them
6. DO NOT include any preview text, introductory paragraphs, or dates
7. Ensure at least 40% changes from the original

`)

	b.WriteString("SEO REQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Include keywords: %s\n", req.Keywords)
	fmt.Fprintf(&b, "- Mention firm: %s in %s\n", req.FirmName, req.Location)
	fmt.Fprintf(&b, "- Mention lawyer: %s in %s, %s\n", req.LawyerName, req.City, req.State)
	fmt.Fprintf(&b, "- Include planning session: %s\n", planningSession)
	fmt.Fprintf(&b, "- Include discovery call link: %s\n\n", req.DiscoveryCallLink)

	fmt.Fprintf(&b, "TONE: %s - %s\n\n", req.Tone, req.ToneDescription)

	fmt.Fprintf(&b, `CTA REQUIREMENTS:
- Format the link as a markdown link: [%s](%s)
- Include this link in the CTA paragraph and end the content immediately after the CTA
- Use descriptive link text that explains what the link does
- DO NOT use generic phrases like "click here", "read more", "learn more"
`, strings.ToLower(planningSession), req.DiscoveryCallLink)

	return b.String()
}

// buildSummaryPrompt builds the user prompt for teaser generation. Only the
// first 1000 characters of the body are supplied.
func buildSummaryPrompt(body, hook string) string {
	if len(body) > 1000 {
		body = body[:1000]
	}
	return fmt.Sprintf(`Generate a 2-3 sentence summary of this article that:
1. Is engaging and captures the main point
2. Ends with "Read more..."
3. Is different from the hook paragraph
4. Provides a brief overview of what the article covers
5. Is written in a professional tone

Hook paragraph: %s

Article content: %s

Generate ONLY the summary (2-3 sentences ending with "Read more..."). Do not include any other text.`, hook, body)
}

// validationSchema is the exact JSON structure the judge must return.
const validationSchema = `{
    "components": {
        "keywords": {"found": true, "occurrences": 0, "variations": [], "in_first_150": true},
        "firm_info": {"found": true, "name": true, "location": true},
        "lawyer_info": {"found": true, "name": true, "location": true},
        "planning_session": {"found": true, "name": true, "references": 0},
        "discovery_call": {"found": true, "link": true, "references": 0}
    },
    "preserved_sections": {"hook": true, "summary": true, "disclaimer": true},
    "change_analysis": {"percentage": 0, "significant_changes": true, "maintained_essence": true},
    "warnings": [],
    "missing_components": []
}`

// buildValidationPrompt builds the judge prompt comparing the original and
// assembled documents against the required-components manifest.
func buildValidationPrompt(original, assembled string, req *models.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert content validator. Analyze these two articles and provide a detailed validation.\n")
	b.WriteString("You MUST respond with a valid JSON object following this EXACT structure, with no additional text:\n\n")
	b.WriteString(validationSchema)
	b.WriteString("\n\nRequired components to check:\n")
	fmt.Fprintf(&b, "- Keywords: %s\n", req.Keywords)
	fmt.Fprintf(&b, "- Firm: %s in %s\n", req.FirmName, req.Location)
	fmt.Fprintf(&b, "- Lawyer: %s in %s, %s\n", req.LawyerName, req.City, req.State)
	fmt.Fprintf(&b, "- Planning Session: %s\n", req.PlanningSessionName)
	fmt.Fprintf(&b, "- Discovery Call: %s\n\n", req.DiscoveryCallLink)
	fmt.Fprintf(&b, "Original Article:\n%s\n\nNew Article:\n%s\n\n", original, assembled)
	b.WriteString("Remember to respond with ONLY the JSON object, no additional text or explanation.")
	return b.String()
}
