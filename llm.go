package scrapemill

import "context"

// LLMClient is a minimal completion client for AI-assisted content
// restructuring. Provider failures never surface past the sanitizer stage;
// the pipeline absorbs them and keeps the unsanitized input.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
