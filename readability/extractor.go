// Package readability provides a go-readability based Extractor. The
// cleaning pipeline uses it as the fallback main-content extractor when
// trafilatura errors out or returns nothing.
package readability

import (
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/scrapemill/scrapemill"
)

// Ensure Extractor implements scrapemill.Extractor at compile time.
var _ scrapemill.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*scrapemill.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, scrapemill.Errorf(scrapemill.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &scrapemill.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
		WordCount:   len(strings.Fields(article.TextContent)),
	}, nil
}
