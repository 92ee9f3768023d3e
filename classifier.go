package scrapemill

import "context"

// DocumentKind is the coarse routing decision made before rendering.
type DocumentKind string

// Document kinds.
const (
	KindHTML DocumentKind = "html"
	KindPDF  DocumentKind = "pdf"
)

// Classifier decides whether a URL should take the PDF branch or the
// HTML/SPA rendering branch. Classification is best-effort: on any probe
// failure implementations fall back to KindHTML.
type Classifier interface {
	Classify(ctx context.Context, url string) DocumentKind
}

// Downloader fetches raw bytes, used by the PDF branch to obtain the
// document before extraction.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, int, error)
}
