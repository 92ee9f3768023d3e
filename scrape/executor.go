// Package scrape orchestrates one logical scrape: concurrency admission,
// per-domain rate limiting, retry with backoff, renderer crash recovery,
// and assembly of the terminal result record.
package scrape

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/scrapemill/scrapemill"
	"github.com/scrapemill/scrapemill/pipeline"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pipeline cleans one rendered page into final Markdown.
type Pipeline interface {
	Run(ctx context.Context, render *scrapemill.RenderResult, sourceURL string, cfg scrapemill.RunConfig) (*pipeline.Result, error)
}

// DefaultConcurrency bounds simultaneous renderer sessions. Each session is
// memory- and process-heavy.
const DefaultConcurrency = 3

// DefaultTimeout is the wall-clock budget for one render attempt.
const DefaultTimeout = 60 * time.Second

// DefaultRetryDelays returns the backoff delays between attempts: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Config holds the executor's construction-time settings. Zero values mean
// defaults.
type Config struct {
	Concurrency int64
	Timeout     time.Duration

	// MaxAttempts is the total attempt budget per scrape, including the
	// first. Defaults to 1 + len(RetryDelays).
	MaxAttempts int
	RetryDelays []time.Duration

	// Headed runs the browser visibly; per-request Headed overrides it.
	Headed bool

	WordCountThreshold   int
	ExcludeExternalLinks bool
	RemoveOverlays       bool
	ProcessIFrames       bool
	IncludeImages        bool
	WaitSelector         string
	WaitDelay            time.Duration
}

// Executor runs scrapes against a shared, crash-prone renderer. All faults
// fold into the returned ScrapeResult; Execute never fails outright.
type Executor struct {
	Renderer     scrapemill.Renderer
	Pipeline     Pipeline
	Classifier   scrapemill.Classifier
	Downloader   scrapemill.Downloader
	PDFExtractor scrapemill.PDFExtractor

	// Audit receives the terminal record of every scrape. Optional;
	// hand-off failures are logged, never surfaced.
	Audit scrapemill.AuditService

	// Limiter spaces out requests per domain. Optional.
	Limiter scrapemill.DomainLimiter

	Logger *slog.Logger
	Config Config

	semOnce sync.Once
	sem     *semaphore.Weighted

	// restartMu serializes crash recovery so concurrent scrapes do not
	// stampede the renderer with restarts.
	restartMu sync.Mutex
}

// Execute runs one scrape to completion. Every fault path terminates in a
// result with Status error or timeout and a populated ErrorMessage.
func (e *Executor) Execute(ctx context.Context, req scrapemill.ScrapeRequest) *scrapemill.ScrapeResult {
	begin := time.Now()
	result := &scrapemill.ScrapeResult{URL: req.URL}

	if err := req.Validate(); err != nil {
		return e.finish(ctx, result, begin, err)
	}

	if err := e.semaphore().Acquire(ctx, 1); err != nil {
		return e.finish(ctx, result, begin, scrapemill.Errorf(scrapemill.ETIMEOUT, "canceled while waiting for a scrape slot: %v", err))
	}
	defer e.semaphore().Release(1)

	cfg := e.runConfig(req)

	var err error
	if e.isPDF(ctx, req.URL) {
		err = e.executePDF(ctx, req.URL, result)
	} else {
		err = e.executeHTML(ctx, req.URL, cfg, result)
	}

	return e.finish(ctx, result, begin, err)
}

// ExecuteBatch scrapes all requests and returns results in request order.
// Failures are independent; one bad URL never affects the others.
func (e *Executor) ExecuteBatch(ctx context.Context, reqs []scrapemill.ScrapeRequest) []*scrapemill.ScrapeResult {
	results := make([]*scrapemill.ScrapeResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = e.Execute(gctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// executeHTML renders the page with retry and crash recovery, then runs the
// cleaning pipeline on the successful attempt.
func (e *Executor) executeHTML(ctx context.Context, pageURL string, cfg scrapemill.RunConfig, result *scrapemill.ScrapeResult) error {
	domain := domainOf(pageURL)
	maxAttempts := e.maxAttempts()
	delays := e.retryDelays()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result.Attempts = attempt

		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx, domain); err != nil {
				return scrapemill.Errorf(scrapemill.ETIMEOUT, "canceled while rate limited: %v", err)
			}
		}

		render, err := e.renderOnce(ctx, pageURL, cfg)
		if err == nil {
			return e.clean(ctx, render, pageURL, cfg, result)
		}
		lastErr = err

		if !scrapemill.IsRetryable(err) {
			break
		}

		// A crashed session is never reused. Restart before the next
		// attempt; if the restart itself fails, the next render attempt
		// will surface that.
		if scrapemill.ErrorCode(err) == scrapemill.ECRASHED {
			e.restart(ctx)
		}

		if attempt < maxAttempts {
			if err := sleep(ctx, delayFor(delays, attempt)); err != nil {
				return err
			}
		}
	}

	return lastErr
}

// renderOnce runs a single render attempt under its own wall-clock budget.
func (e *Executor) renderOnce(ctx context.Context, pageURL string, cfg scrapemill.RunConfig) (*scrapemill.RenderResult, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	return e.Renderer.Render(attemptCtx, pageURL, cfg)
}

// clean runs the pipeline and assembles the successful result.
func (e *Executor) clean(ctx context.Context, render *scrapemill.RenderResult, pageURL string, cfg scrapemill.RunConfig, result *scrapemill.ScrapeResult) error {
	pres, err := e.Pipeline.Run(ctx, render, pageURL, cfg)
	if err != nil {
		return err
	}

	result.Success = true
	result.Status = scrapemill.StatusSuccess
	result.Markdown = pres.Markdown
	result.Title = pres.Title
	result.StepsApplied = pres.StepsApplied
	result.ContentLength = len(pres.Markdown)
	result.ContentHash = hashContent(pres.Markdown)
	result.LinksCount = len(render.Links)
	result.ImagesCount = len(render.Images)
	result.HTTPStatusCode = render.StatusCode
	result.ResponseHeaders = render.ResponseHeaders
	result.Redirects = render.Redirects
	result.SSL = render.SSL
	result.JSExecuted = render.JSExecuted

	if render.JSExecuted {
		result.ContentType = scrapemill.ContentSPA
	} else {
		result.ContentType = scrapemill.ContentHTML
	}

	return nil
}

// executePDF downloads the document and extracts it directly; no cleaning
// stages apply to the PDF branch.
func (e *Executor) executePDF(ctx context.Context, pageURL string, result *scrapemill.ScrapeResult) error {
	result.Attempts = 1
	result.ContentType = scrapemill.ContentPDF

	data, statusCode, err := e.Downloader.Download(ctx, pageURL)
	result.HTTPStatusCode = statusCode
	if err != nil {
		return err
	}

	markdown, meta, err := e.PDFExtractor.Extract(data)
	if err != nil {
		return err
	}

	result.Success = true
	result.Status = scrapemill.StatusSuccess
	result.Markdown = markdown
	result.ContentLength = len(markdown)
	result.ContentHash = hashContent(markdown)
	result.PDF = meta
	if meta != nil {
		result.Title = meta.Title
	}

	return nil
}

// finish stamps duration and terminal status, then hands the record to the
// audit collaborator.
func (e *Executor) finish(ctx context.Context, result *scrapemill.ScrapeResult, begin time.Time, err error) *scrapemill.ScrapeResult {
	result.Duration = time.Since(begin)

	if err != nil {
		result.Success = false
		result.ErrorMessage = scrapemill.ErrorMessage(err)
		if scrapemill.ErrorCode(err) == scrapemill.ETIMEOUT {
			result.Status = scrapemill.StatusTimeout
		} else {
			result.Status = scrapemill.StatusError
		}
	}

	if e.Audit != nil {
		if auditErr := e.Audit.CreateLog(ctx, scrapemill.NewScrapeLog(result)); auditErr != nil {
			e.logger().Warn("audit hand-off failed", "url", result.URL, "err", auditErr)
		}
	}

	return result
}

// restart recovers the renderer after a crash. Serialized so concurrent
// scrapes observing the same crash trigger one restart, not many.
func (e *Executor) restart(ctx context.Context) {
	e.restartMu.Lock()
	defer e.restartMu.Unlock()

	if e.Renderer.Ready() {
		return
	}
	if err := e.Renderer.Restart(ctx); err != nil {
		e.logger().Warn("renderer restart failed", "err", err)
	}
}

// runConfig merges executor defaults with per-request overrides.
func (e *Executor) runConfig(req scrapemill.ScrapeRequest) scrapemill.RunConfig {
	cfg := scrapemill.RunConfig{
		Headless:             !e.Config.Headed && !req.Headed,
		Timeout:              e.Config.Timeout,
		WordCountThreshold:   e.Config.WordCountThreshold,
		ExcludeExternalLinks: e.Config.ExcludeExternalLinks,
		RemoveOverlays:       e.Config.RemoveOverlays,
		ProcessIFrames:       e.Config.ProcessIFrames,
		IncludeImages:        e.Config.IncludeImages,
		WaitSelector:         e.Config.WaitSelector,
		WaitDelay:            e.Config.WaitDelay,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if req.Timeout > 0 {
		cfg.Timeout = req.Timeout
	}
	if req.WaitSelector != "" {
		cfg.WaitSelector = req.WaitSelector
	}
	if req.WaitDelay > 0 {
		cfg.WaitDelay = req.WaitDelay
	}
	return cfg
}

func (e *Executor) isPDF(ctx context.Context, pageURL string) bool {
	if e.Classifier == nil || e.Downloader == nil || e.PDFExtractor == nil {
		return false
	}
	return e.Classifier.Classify(ctx, pageURL) == scrapemill.KindPDF
}

func (e *Executor) semaphore() *semaphore.Weighted {
	e.semOnce.Do(func() {
		n := e.Config.Concurrency
		if n <= 0 {
			n = DefaultConcurrency
		}
		e.sem = semaphore.NewWeighted(n)
	})
	return e.sem
}

func (e *Executor) maxAttempts() int {
	if e.Config.MaxAttempts > 0 {
		return e.Config.MaxAttempts
	}
	return 1 + len(e.retryDelays())
}

func (e *Executor) retryDelays() []time.Duration {
	if len(e.Config.RetryDelays) > 0 {
		return e.Config.RetryDelays
	}
	return DefaultRetryDelays()
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func delayFor(delays []time.Duration, attempt int) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	if attempt > len(delays) {
		return delays[len(delays)-1]
	}
	return delays[attempt-1]
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return scrapemill.Errorf(scrapemill.ETIMEOUT, "canceled between attempts: %v", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func hashContent(markdown string) string {
	sum := sha256.Sum256([]byte(markdown))
	return hex.EncodeToString(sum[:])
}

func domainOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	return u.Hostname()
}
