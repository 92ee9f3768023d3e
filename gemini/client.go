package gemini

import (
	"context"
	"time"

	"github.com/scrapemill/scrapemill"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Client implements scrapemill.LLMClient at compile time.
var _ scrapemill.LLMClient = (*Client)(nil)

// Client implements scrapemill.LLMClient using Google Gemini.
type Client struct {
	client  *genai.Client
	retries int
	sleep   func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithRetries sets the number of additional attempts after a failed call.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// NewClient creates a new Client.
func NewClient(client *genai.Client, opts ...Option) *Client {
	c := &Client{
		client:  client,
		retries: 2,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends the prompt to Gemini and returns the model's text
// response. Transient API failures are retried with exponential waits
// before the error is surfaced.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", scrapemill.Errorf(scrapemill.EINVALID, "prompt required")
	}

	config := BuildConfig()

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<(attempt-1)) * time.Second
			if err := c.sleep(ctx, wait); err != nil {
				return "", err
			}
		}

		result, err := c.client.Models.GenerateContent(ctx, model,
			[]*genai.Content{{
				Parts: []*genai.Part{{Text: prompt}},
			}},
			config,
		)
		if err != nil {
			lastErr = err
			continue
		}
		if result == nil {
			lastErr = scrapemill.Errorf(scrapemill.EINTERNAL, "gemini returned nil result")
			continue
		}
		return result.Text(), nil
	}

	return "", scrapemill.Errorf(scrapemill.EUNAVAILABLE, "gemini request failed after %d attempts: %v", c.retries+1, lastErr)
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls. The
// temperature is kept low so cleanup output stays close to the input text.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		Temperature: &temp,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return scrapemill.Errorf(scrapemill.ETIMEOUT, "canceled while waiting to retry: %v", ctx.Err())
	case <-timer.C:
		return nil
	}
}
