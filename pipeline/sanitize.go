package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const sanitizePromptTemplate = `You are cleaning up a Markdown document extracted from a web page.

Rules:
1. Fix the heading hierarchy: exactly one H1, H2 before H3, no skipped levels.
2. Remove residual navigation, cookie, or advertising noise lines.
3. Do NOT remove, shorten, or rewrite any editorial content.
4. Do NOT add any content, commentary, or explanation.
5. Return only the cleaned Markdown document.

Document:

%s`

// BuildSanitizePrompt builds the LLM prompt for the sanitizer stage.
func BuildSanitizePrompt(markdown string) string {
	return fmt.Sprintf(sanitizePromptTemplate, markdown)
}

// sanitize runs the AI pass and reports whether its output was accepted.
// A provider error or a content-loss guard trip keeps the input unchanged;
// the stage never fails the extraction.
func (p *Pipeline) sanitize(ctx context.Context, markdown string) (string, bool) {
	output, err := p.llm.Complete(ctx, BuildSanitizePrompt(markdown))
	if err != nil {
		return markdown, false
	}

	output = unwrapCodeFence(output)
	if strings.TrimSpace(output) == "" {
		return markdown, false
	}

	// The guard compares plain text, not raw Markdown, so restructured
	// heading syntax does not count as lost content.
	before := len(StripMarkdown(markdown))
	after := len(StripMarkdown(output))
	if before == 0 {
		return markdown, false
	}
	loss := 1 - float64(after)/float64(before)
	if loss > p.maxContentLoss {
		return markdown, false
	}

	return output, true
}

var codeFence = regexp.MustCompile("(?s)\\A```(?:markdown|md)?\\s*\n(.*?)\n?```\\s*\\z")

// unwrapCodeFence strips an outer code fence some models wrap their whole
// answer in.
func unwrapCodeFence(output string) string {
	output = strings.TrimSpace(output)
	if m := codeFence.FindStringSubmatch(output); m != nil {
		return m[1]
	}
	return output
}

var (
	mdImage    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLink     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdHeading  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdEmphasis = regexp.MustCompile(`[*_~]{1,3}`)
	mdFence    = regexp.MustCompile("(?m)^```.*$")
	mdQuote    = regexp.MustCompile(`(?m)^>\s?`)
	mdBullet   = regexp.MustCompile(`(?m)^\s*[-+*]\s+|^\s*\d+\.\s+`)
	mdSpace    = regexp.MustCompile(`\s+`)
)

// StripMarkdown reduces Markdown to its plain text content for the
// content-loss comparison.
func StripMarkdown(markdown string) string {
	text := mdImage.ReplaceAllString(markdown, "")
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdFence.ReplaceAllString(text, "")
	text = mdHeading.ReplaceAllString(text, "")
	text = mdQuote.ReplaceAllString(text, "")
	text = mdBullet.ReplaceAllString(text, "")
	text = mdEmphasis.ReplaceAllString(text, "")
	text = mdSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
