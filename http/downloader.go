package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/scrapemill/scrapemill"
)

// DefaultDownloadTimeout is the default timeout for downloads.
const DefaultDownloadTimeout = 30 * time.Second

// DefaultMaxSize caps downloaded documents at 20 MiB.
const DefaultMaxSize = 20 << 20

const userAgent = "Mozilla/5.0 (compatible; scrapemill/1.0; +https://github.com/scrapemill/scrapemill)"

// Ensure Downloader implements scrapemill.Downloader at compile time.
var _ scrapemill.Downloader = (*Downloader)(nil)

// Downloader fetches raw document bytes with redirect following and a hard
// size cap, so an oversized PDF cannot exhaust memory.
type Downloader struct {
	client  *http.Client
	maxSize int64
	timeout time.Duration
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithMaxSize sets the maximum accepted document size in bytes.
// Defaults to DefaultMaxSize (20 MiB).
func WithMaxSize(n int64) DownloaderOption {
	return func(d *Downloader) {
		d.maxSize = n
	}
}

// WithDownloadTimeout sets the request timeout.
// Defaults to DefaultDownloadTimeout (30s).
func WithDownloadTimeout(t time.Duration) DownloaderOption {
	return func(d *Downloader) {
		d.timeout = t
	}
}

// NewDownloader creates a new Downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		maxSize: DefaultMaxSize,
		timeout: DefaultDownloadTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.client = &http.Client{Timeout: d.timeout}
	return d
}

// Download fetches the URL and returns the body bytes and HTTP status code.
// 4xx/5xx responses and oversized bodies are reported as errors; network
// failures carry the EUNAVAILABLE code so the executor can retry them.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, scrapemill.Errorf(scrapemill.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, scrapemill.Errorf(scrapemill.ETIMEOUT, "download %s: %v", url, err)
		}
		return nil, 0, scrapemill.Errorf(scrapemill.EUNAVAILABLE, "download %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, scrapemill.Errorf(statusCode(resp.StatusCode),
			"HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxSize+1))
	if err != nil {
		return nil, resp.StatusCode, scrapemill.Errorf(scrapemill.EUNAVAILABLE, "read body of %s: %v", url, err)
	}
	if int64(len(body)) > d.maxSize {
		return nil, resp.StatusCode, scrapemill.Errorf(scrapemill.EINVALID,
			"document too large: %s exceeds %d bytes", url, d.maxSize)
	}

	return body, resp.StatusCode, nil
}

// statusCode maps a non-200 HTTP status to a domain error code. Server
// faults and throttling are retryable; client errors are not.
func statusCode(status int) string {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return scrapemill.ENOTFOUND
	case status >= 500 || status == http.StatusTooManyRequests || status == http.StatusRequestTimeout:
		return scrapemill.EUNAVAILABLE
	default:
		return scrapemill.EINVALID
	}
}
