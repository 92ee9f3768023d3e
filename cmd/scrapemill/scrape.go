package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scrapemill/scrapemill"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	if c.Output != "" && len(c.URLs) > 1 {
		return scrapemill.Errorf(scrapemill.EINVALID, "--output supports a single URL")
	}

	reqs := make([]scrapemill.ScrapeRequest, len(c.URLs))
	for i, url := range c.URLs {
		reqs[i] = scrapemill.ScrapeRequest{
			URL:          url,
			WaitSelector: c.WaitSelector,
			WaitDelay:    c.WaitDelay,
			Headed:       c.Headed,
		}
	}

	results := deps.Executor.ExecuteBatch(deps.Ctx, reqs)

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	var failed int
	for _, result := range results {
		if !result.Success {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", result.URL, result.ErrorMessage)
			continue
		}

		if c.Output != "" {
			if err := os.WriteFile(c.Output, []byte(result.Markdown), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", c.Output, err)
			}
			fmt.Fprintf(deps.Stdout, "wrote %d bytes to %s\n", result.ContentLength, c.Output)
			continue
		}

		if len(results) > 1 {
			fmt.Fprintf(deps.Stdout, "--- %s (%s, %d bytes, %d attempts) ---\n",
				result.URL, result.ContentType, result.ContentLength, result.Attempts)
		}
		fmt.Fprintln(deps.Stdout, result.Markdown)
	}

	if failed > 0 {
		return scrapemill.Errorf(scrapemill.EINTERNAL, "%d of %d scrapes failed", failed, len(results))
	}
	return nil
}
