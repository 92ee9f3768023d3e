package mock

import (
	"context"

	"github.com/scrapemill/scrapemill"
)

var _ scrapemill.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of scrapemill.Renderer.
type Renderer struct {
	RenderFn  func(ctx context.Context, url string, cfg scrapemill.RunConfig) (*scrapemill.RenderResult, error)
	RestartFn func(ctx context.Context) error
	ReadyFn   func() bool
	CloseFn   func() error
}

func (r *Renderer) Render(ctx context.Context, url string, cfg scrapemill.RunConfig) (*scrapemill.RenderResult, error) {
	return r.RenderFn(ctx, url, cfg)
}

func (r *Renderer) Restart(ctx context.Context) error {
	return r.RestartFn(ctx)
}

func (r *Renderer) Ready() bool {
	if r.ReadyFn == nil {
		return true
	}
	return r.ReadyFn()
}

func (r *Renderer) Close() error {
	if r.CloseFn == nil {
		return nil
	}
	return r.CloseFn()
}
