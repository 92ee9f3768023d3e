package scrapemill

import (
	"net/url"
	"time"
)

// Status classifies the terminal outcome of a scrape.
type Status string

// Terminal scrape statuses.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusTimeout Status = "timeout"
)

// ContentType identifies the kind of content a scrape produced.
type ContentType string

// Content types reported in scrape results.
const (
	ContentHTML ContentType = "html"
	ContentSPA  ContentType = "spa"
	ContentPDF  ContentType = "pdf"
)

// ScrapeRequest describes a single URL to scrape, with optional per-request
// overrides of the executor's defaults. Zero-valued fields mean "use default".
type ScrapeRequest struct {
	URL string `json:"url"`

	// Timeout is the wall-clock budget for one attempt. Zero means the
	// executor default.
	Timeout time.Duration `json:"timeout,omitempty"`

	// WaitSelector is a CSS selector to wait for after navigation, for pages
	// that render content asynchronously.
	WaitSelector string `json:"waitSelector,omitempty"`

	// WaitDelay is a fixed delay after load, for animated or lazy content.
	WaitDelay time.Duration `json:"waitDelay,omitempty"`

	// Headed requests a visible (non-headless) browser for this scrape.
	Headed bool `json:"headed,omitempty"`
}

// Validate returns an error if the request is malformed.
// The URL must be absolute with an http or https scheme.
func (r *ScrapeRequest) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "scrape URL required")
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return Errorf(EINVALID, "invalid URL %q", r.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "URL %q missing host", r.URL)
	}
	return nil
}

// RunConfig is the resolved configuration for one scrape attempt. It merges
// executor defaults with per-request overrides and is immutable once built.
type RunConfig struct {
	Headless             bool
	Timeout              time.Duration
	WordCountThreshold   int
	ExcludeExternalLinks bool
	RemoveOverlays       bool
	ProcessIFrames       bool
	IncludeImages        bool
	WaitSelector         string
	WaitDelay            time.Duration
}

// ScrapeResult is the terminal record of one scrape. It is created once per
// Execute call, is immutable after assembly, and is the only entity that
// outlives the executor call.
type ScrapeResult struct {
	URL           string        `json:"url"`
	Success       bool          `json:"success"`
	Status        Status        `json:"status"`
	Markdown      string        `json:"markdown,omitempty"`
	Title         string        `json:"title,omitempty"`
	ContentLength int           `json:"contentLength"`
	ContentHash   string        `json:"contentHash,omitempty"`
	ContentType   ContentType   `json:"contentType"`
	LinksCount    int           `json:"linksCount"`
	ImagesCount   int           `json:"imagesCount"`
	Duration      time.Duration `json:"duration"`

	HTTPStatusCode  int               `json:"httpStatusCode,omitempty"`
	ResponseHeaders map[string]string `json:"responseHeaders,omitempty"`
	Redirects       []string          `json:"redirects,omitempty"`
	SSL             *SSLInfo          `json:"ssl,omitempty"`
	JSExecuted      bool              `json:"jsExecuted"`

	PDF *PDFMetadata `json:"pdf,omitempty"`

	// StepsApplied lists the cleaning stages that ran, in order.
	StepsApplied []string `json:"stepsApplied,omitempty"`

	// Attempts is the number of render attempts consumed, including the
	// successful one.
	Attempts int `json:"attempts"`

	ErrorMessage string `json:"errorMessage,omitempty"`
}
