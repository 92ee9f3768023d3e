package mock

import "github.com/scrapemill/scrapemill"

var _ scrapemill.Converter = (*Converter)(nil)

// Converter is a mock implementation of scrapemill.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
