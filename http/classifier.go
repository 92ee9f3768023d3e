// Package http provides network-level collaborators for the executor: a
// Content-Type based document classifier and a size-capped byte downloader
// for the PDF branch. Neither executes JavaScript.
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/scrapemill/scrapemill"
)

// DefaultProbeTimeout bounds the HEAD request used for classification.
const DefaultProbeTimeout = 5 * time.Second

// Ensure Classifier implements scrapemill.Classifier at compile time.
var _ scrapemill.Classifier = (*Classifier)(nil)

// Classifier decides PDF vs HTML routing by probing the URL with a HEAD
// request and falling back to the URL extension. Classification is
// best-effort: any probe failure yields KindHTML and lets the rendering
// branch surface real errors.
type Classifier struct {
	client *http.Client
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithClassifierClient overrides the HTTP client, mainly for tests.
func WithClassifierClient(c *http.Client) ClassifierOption {
	return func(cl *Classifier) {
		cl.client = c
	}
}

// NewClassifier creates a new Classifier.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	cl := &Classifier{}
	for _, opt := range opts {
		opt(cl)
	}
	if cl.client == nil {
		cl.client = &http.Client{Timeout: DefaultProbeTimeout}
	}
	return cl
}

// Classify returns KindPDF when the Content-Type header or the URL
// extension identifies a PDF, KindHTML otherwise.
func (cl *Classifier) Classify(ctx context.Context, url string) scrapemill.DocumentKind {
	if ct := cl.probeContentType(ctx, url); strings.Contains(ct, "application/pdf") {
		return scrapemill.KindPDF
	}
	if IsPDFURL(url) {
		return scrapemill.KindPDF
	}
	return scrapemill.KindHTML
}

// probeContentType issues a HEAD request and returns the lowercased
// Content-Type header, or "" if the probe fails.
func (cl *Classifier) probeContentType(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return ""
	}
	resp, err := cl.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	return strings.ToLower(resp.Header.Get("Content-Type"))
}

// IsPDFURL reports whether the URL path ends in .pdf.
func IsPDFURL(url string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimRight(url, "/")), ".pdf")
}
