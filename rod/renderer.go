// Package rod renders pages with a managed headless Chrome browser.
//
// The browser is a shared, crash-prone resource. Renderer classifies
// failures so callers can tell process-level crashes (restart the browser)
// from page-level transient failures (retry the page).
package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/scrapemill/scrapemill"
	"github.com/scrapemill/scrapemill/goquery"
)

// Ensure Renderer implements scrapemill.Renderer at compile time.
var _ scrapemill.Renderer = (*Renderer)(nil)

// browserCrashPatterns are substrings that identify a dead browser process
// rather than a failed page. Matching is case-insensitive.
var browserCrashPatterns = []string{
	"browser has been closed",
	"browser disconnected",
	"target closed",
	"connection refused",
	"protocol error",
	"session closed",
	"page crashed",
	"context closed",
}

// Renderer retrieves rendered page content from URLs using Chrome browser
// automation. Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	converter scrapemill.Converter
	headless  bool

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher

	crashed atomic.Bool
	closed  atomic.Bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHeadless controls whether the browser runs headless. Defaults to true.
func WithHeadless(headless bool) Option {
	return func(r *Renderer) { r.headless = headless }
}

// NewRenderer creates a new Renderer and launches the browser. The converter
// produces the engine Markdown rendering of each page. Close must be called
// when the Renderer is no longer needed.
func NewRenderer(converter scrapemill.Converter, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		converter: converter,
		headless:  true,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.launchBrowser(); err != nil {
		return nil, err
	}

	return r, nil
}

// Render navigates to the URL and returns the rendered result. On failure
// the error carries ECRASHED when the browser process is gone, ETIMEOUT when
// the context budget ran out, and EUNAVAILABLE otherwise.
func (r *Renderer) Render(ctx context.Context, url string, cfg scrapemill.RunConfig) (*scrapemill.RenderResult, error) {
	if r.closed.Load() {
		return nil, scrapemill.Errorf(scrapemill.EINTERNAL, "renderer is closed")
	}
	if r.crashed.Load() {
		return nil, scrapemill.Errorf(scrapemill.ECRASHED, "browser session is crashed and must be restarted")
	}
	if err := ctx.Err(); err != nil {
		return nil, r.classify(err)
	}

	r.mu.Lock()
	browser := r.browser
	r.mu.Unlock()
	if browser == nil {
		return nil, scrapemill.Errorf(scrapemill.ECRASHED, "no browser available")
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, r.classify(err)
	}
	defer page.Close()

	page = page.Context(ctx)

	netInfo := watchNetwork(page)

	if err := page.Navigate(url); err != nil {
		return nil, r.classify(err)
	}
	if err := r.waitForContent(ctx, page, cfg); err != nil {
		return nil, r.classify(err)
	}

	if cfg.RemoveOverlays {
		// Best effort. An overlay that refuses to die is not a failed scrape.
		_, _ = page.Eval(removeOverlaysJS)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, r.classify(err)
	}

	result := &scrapemill.RenderResult{HTML: html}

	meta := goquery.ExtractMeta(html, url, cfg.ExcludeExternalLinks)
	result.PageTitle = meta.Title
	result.OGTitle = meta.OGTitle
	result.Links = meta.Links
	result.Images = meta.Images

	if r.converter != nil {
		// Non-fatal. The pipeline copes with a missing fallback candidate.
		if md, err := r.converter.Convert(html); err == nil {
			result.EngineMarkdown = md
		}
	}

	if obj, err := page.Eval(`() => document.scripts.length > 0`); err == nil {
		result.JSExecuted = obj.Value.Bool()
	}

	netInfo.fill(result)

	return result, nil
}

// Restart tears down the current browser and launches a fresh one. The old
// process is discarded unconditionally; a crashed session is never reused.
func (r *Renderer) Restart(ctx context.Context) error {
	if r.closed.Load() {
		return scrapemill.Errorf(scrapemill.EINTERNAL, "renderer is closed")
	}
	if err := ctx.Err(); err != nil {
		return scrapemill.Errorf(scrapemill.ETIMEOUT, "restart canceled: %v", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeBrowser()

	if err := r.launchBrowserLocked(); err != nil {
		return err
	}

	r.crashed.Store(false)
	return nil
}

// Ready reports whether the renderer can accept work.
func (r *Renderer) Ready() bool {
	if r.closed.Load() || r.crashed.Load() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.browser != nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeBrowser()
	return nil
}

// waitForContent runs the post-navigation wait strategy: load event, then
// the optional selector, then the optional fixed delay, then DOM stability.
func (r *Renderer) waitForContent(ctx context.Context, page *rod.Page, cfg scrapemill.RunConfig) error {
	if err := page.WaitLoad(); err != nil {
		return err
	}
	if cfg.WaitSelector != "" {
		if _, err := page.Element(cfg.WaitSelector); err != nil {
			return err
		}
	}
	if cfg.WaitDelay > 0 {
		timer := time.NewTimer(cfg.WaitDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return page.WaitDOMStable(300*time.Millisecond, 0)
}

// classify maps a failure to a domain error code and marks the session
// crashed when the browser process itself is gone.
func (r *Renderer) classify(err error) error {
	code := ClassifyError(err)
	if code == scrapemill.ECRASHED {
		r.crashed.Store(true)
	}
	return scrapemill.Errorf(code, "render failed: %v", err)
}

// ClassifyError maps a rendering failure to a domain error code. Browser
// process failures yield ECRASHED, exhausted budgets ETIMEOUT, and anything
// else EUNAVAILABLE.
func ClassifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return scrapemill.ETIMEOUT
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range browserCrashPatterns {
		if strings.Contains(msg, pattern) {
			return scrapemill.ECRASHED
		}
	}
	return scrapemill.EUNAVAILABLE
}

// launchBrowser starts a new browser instance with stability flags.
func (r *Renderer) launchBrowser() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.launchBrowserLocked()
}

// launchBrowserLocked must be called with mu held.
func (r *Renderer) launchBrowserLocked() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(r.headless)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	r.browser = browser
	r.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (r *Renderer) closeBrowser() {
	if r.browser != nil {
		_ = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
}

// removeOverlaysJS hides fixed and sticky elements that cover the viewport,
// plus common cookie consent containers.
const removeOverlaysJS = `() => {
	const selectors = [
		'[id*="cookie" i]', '[class*="cookie" i]',
		'[id*="consent" i]', '[class*="consent" i]',
		'[id*="gdpr" i]', '[class*="gdpr" i]',
	];
	for (const sel of selectors) {
		document.querySelectorAll(sel).forEach((el) => el.remove());
	}
	document.querySelectorAll('body *').forEach((el) => {
		const style = window.getComputedStyle(el);
		if ((style.position === 'fixed' || style.position === 'sticky') &&
			parseInt(style.zIndex, 10) > 100) {
			el.remove();
		}
	});
	document.body.style.overflow = 'auto';
}`
