// Package trafilatura provides statistical main-content extraction on top
// of go-trafilatura. It is the cleaning pipeline's primary boilerplate
// remover; the pipeline's fallback decision guards against its known failure
// mode of dropping legitimate non-editorial content.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/scrapemill/scrapemill"
	"golang.org/x/net/html"
)

// Ensure Extractor implements scrapemill.Extractor at compile time.
var _ scrapemill.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
// Recall is favored over precision so marketing copy and statistics blocks
// survive more often; the pipeline still length-checks the output.
func (e *Extractor) Extract(rawHTML string) (*scrapemill.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, scrapemill.Errorf(scrapemill.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		Focus:          trafilatura.FavorRecall,
		IncludeLinks:   true,
		IncludeImages:  true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &scrapemill.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
		WordCount:   len(strings.Fields(result.ContentText)),
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
