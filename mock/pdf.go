package mock

import "github.com/scrapemill/scrapemill"

var _ scrapemill.PDFExtractor = (*PDFExtractor)(nil)

// PDFExtractor is a mock implementation of scrapemill.PDFExtractor.
type PDFExtractor struct {
	ExtractFn func(data []byte) (string, *scrapemill.PDFMetadata, error)
}

func (e *PDFExtractor) Extract(data []byte) (string, *scrapemill.PDFMetadata, error) {
	return e.ExtractFn(data)
}
