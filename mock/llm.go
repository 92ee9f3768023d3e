package mock

import (
	"context"

	"github.com/scrapemill/scrapemill"
)

var _ scrapemill.LLMClient = (*LLMClient)(nil)

// LLMClient is a mock implementation of scrapemill.LLMClient.
type LLMClient struct {
	CompleteFn func(ctx context.Context, prompt string) (string, error)
}

func (c *LLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteFn(ctx, prompt)
}
