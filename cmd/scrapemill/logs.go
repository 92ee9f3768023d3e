package main

import (
	"fmt"

	"github.com/scrapemill/scrapemill"
)

// Run executes the logs command.
func (c *LogsCmd) Run(deps *Dependencies) error {
	filter := scrapemill.ScrapeLogFilter{
		Limit:  c.Limit,
		Offset: c.Offset,
	}
	if c.Status != "" {
		status := scrapemill.Status(c.Status)
		filter.Status = &status
	}
	if c.Type != "" {
		ct := scrapemill.ContentType(c.Type)
		filter.ContentType = &ct
	}
	if c.URL != "" {
		filter.URLContains = &c.URL
	}

	logs, err := deps.Audit.FindLogs(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrapemill.ErrorMessage(err))
		return err
	}

	if len(logs) == 0 {
		fmt.Fprintln(deps.Stdout, "No scrapes recorded. Use 'scrapemill scrape' to run one.")
		return nil
	}

	for _, log := range logs {
		detail := log.ContentHash
		if log.ErrorMessage != "" {
			detail = log.ErrorMessage
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %-7s  %-4s  %6dB  %s  %s\n",
			log.ID, log.Timestamp.Format("2006-01-02 15:04:05"), log.Status,
			log.ContentType, log.ContentLength, log.URL, detail)
	}

	return nil
}
