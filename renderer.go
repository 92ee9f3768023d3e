package scrapemill

import "context"

// SSLInfo summarizes the TLS certificate of the rendered origin.
type SSLInfo struct {
	Valid   bool   `json:"valid"`
	Issuer  string `json:"issuer,omitempty"`
	Subject string `json:"subject,omitempty"`
	Expires string `json:"expires,omitempty"`
}

// RenderResult holds everything one render attempt produced. It is owned
// exclusively by that attempt; retries produce a fresh RenderResult.
type RenderResult struct {
	// HTML is the fully rendered document markup.
	HTML string

	// EngineMarkdown is the renderer's own best-effort Markdown rendering of
	// the whole page. The cleaning pipeline uses it as the fallback candidate
	// when main-content extraction is too aggressive.
	EngineMarkdown string

	Links  []string
	Images []string

	StatusCode      int
	ResponseHeaders map[string]string
	Redirects       []string
	SSL             *SSLInfo

	// PageTitle and OGTitle come from document metadata and feed title
	// injection in the cleaning pipeline.
	PageTitle string
	OGTitle   string

	// JSExecuted reports whether JavaScript ran during rendering.
	JSExecuted bool
}

// Renderer produces rendered page content using a shared, stateful, and
// crash-prone resource (typically a headless browser). Implementations must
// be safe for concurrent use; the executor bounds concurrency externally.
type Renderer interface {
	// Render navigates to the URL and returns the rendered result.
	// Process-level failures are reported with code ECRASHED so the caller
	// can restart the renderer; page-level transient failures use
	// EUNAVAILABLE; budget overruns use ETIMEOUT.
	Render(ctx context.Context, url string, cfg RunConfig) (*RenderResult, error)

	// Restart tears down and relaunches the underlying rendering process.
	// It must not be a no-op after a crash: a session identified as crashed
	// is never reused.
	Restart(ctx context.Context) error

	// Ready reports whether the renderer can accept work.
	Ready() bool

	// Close releases renderer resources.
	Close() error
}
