package pipeline

import (
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var (
	// [](url) carries no text and renders as nothing. The leading group
	// keeps the rule off alt-less images, which are still valid.
	emptyLink = regexp.MustCompile(`(^|[^!])\[\s*\]\([^)]*\)`)

	// [text]() is a link to nowhere; keep the text.
	hollowLink = regexp.MustCompile(`\[([^\]]+)\]\(\s*\)`)

	// ![alt]() is an image with no source.
	brokenImage = regexp.MustCompile(`!\[[^\]]*\]\(\s*\)`)

	// Any image reference, for runs with images disabled.
	anyImage = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)

	// Lines of leaked media player chrome.
	playerNoise = regexp.MustCompile(`(?im)^\s*(?:play(?:ing)?|pause[d]?|mute[d]?|unmute|volume \d*%?|fullscreen|loading\.{3}|video player|\d{1,2}:\d{2}(?: ?/ ?\d{1,2}:\d{2})?)\s*$`)

	trailingSpace = regexp.MustCompile(`(?m)[ \t]+$`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// Normalize is the regex cleanup stage. It removes empty and broken link
// syntax, media player chrome, and consecutive duplicate blocks, and
// collapses blank-line runs. Normalize is idempotent: applying it to its
// own output is a no-op.
func Normalize(markdown string, includeImages bool) string {
	// Image syntax is link syntax with a leading bang, so the image rules
	// must run first or the link rules eat the bracket pair and leave a
	// stray "!" behind.
	markdown = brokenImage.ReplaceAllString(markdown, "")
	if !includeImages {
		markdown = anyImage.ReplaceAllString(markdown, "")
	}
	markdown = emptyLink.ReplaceAllString(markdown, "$1")
	markdown = hollowLink.ReplaceAllString(markdown, "$1")
	markdown = playerNoise.ReplaceAllString(markdown, "")
	markdown = trailingSpace.ReplaceAllString(markdown, "")
	markdown = dedupeBlocks(markdown)
	markdown = blankLines.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}

// dedupeBlocks removes a block that repeats the immediately preceding one.
// Blocks are compared by fingerprint of their trimmed text, so formatting
// differences in surrounding whitespace do not defeat the comparison.
func dedupeBlocks(markdown string) string {
	blocks := strings.Split(markdown, "\n\n")
	if len(blocks) < 2 {
		return markdown
	}

	kept := blocks[:0]
	var prev uint64
	for i, block := range blocks {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			kept = append(kept, block)
			continue
		}
		sum := xxhash.Sum64String(trimmed)
		if i > 0 && sum == prev {
			continue
		}
		prev = sum
		kept = append(kept, block)
	}
	return strings.Join(kept, "\n\n")
}
