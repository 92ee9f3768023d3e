package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/scrapemill/scrapemill"
)

// Ensure LoggingRenderer implements scrapemill.Renderer.
var _ scrapemill.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   scrapemill.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next scrapemill.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the URL being rendered and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, url string, cfg scrapemill.RunConfig) (result *scrapemill.RenderResult, err error) {
	defer func(begin time.Time) {
		var bytes int
		if result != nil {
			bytes = len(result.HTML)
		}
		r.logger.Info("render",
			"url", url,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url, cfg)
}

// Restart logs the restart and delegates to the wrapped renderer.
func (r *LoggingRenderer) Restart(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		r.logger.Info("renderer restart",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Restart(ctx)
}

// Ready delegates to the wrapped renderer.
func (r *LoggingRenderer) Ready() bool {
	return r.next.Ready()
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
