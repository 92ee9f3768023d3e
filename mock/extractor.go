package mock

import "github.com/scrapemill/scrapemill"

var _ scrapemill.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of scrapemill.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*scrapemill.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*scrapemill.ExtractResult, error) {
	return e.ExtractFn(html)
}
