package mock

import (
	"context"

	"github.com/scrapemill/scrapemill"
)

var _ scrapemill.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of scrapemill.Classifier.
type Classifier struct {
	ClassifyFn func(ctx context.Context, url string) scrapemill.DocumentKind
}

func (c *Classifier) Classify(ctx context.Context, url string) scrapemill.DocumentKind {
	if c.ClassifyFn == nil {
		return scrapemill.KindHTML
	}
	return c.ClassifyFn(ctx, url)
}

var _ scrapemill.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of scrapemill.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) ([]byte, int, error)
}

func (d *Downloader) Download(ctx context.Context, url string) ([]byte, int, error) {
	return d.DownloadFn(ctx, url)
}
