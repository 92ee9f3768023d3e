package main

import (
	"fmt"
	"time"

	"github.com/scrapemill/scrapemill"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Audit.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrapemill.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Total scrapes:   %d\n", stats.Total)
	fmt.Fprintf(deps.Stdout, "  success:       %d\n", stats.SuccessCount)
	fmt.Fprintf(deps.Stdout, "  error:         %d\n", stats.ErrorCount)
	fmt.Fprintf(deps.Stdout, "  timeout:       %d\n", stats.TimeoutCount)
	fmt.Fprintf(deps.Stdout, "By content type: html=%d spa=%d pdf=%d\n",
		stats.HTMLCount, stats.SPACount, stats.PDFCount)
	fmt.Fprintf(deps.Stdout, "Average duration: %s\n", stats.AvgDuration.Round(time.Millisecond))
	fmt.Fprintf(deps.Stdout, "Total content:   %d bytes\n", stats.TotalBytes)
	fmt.Fprintf(deps.Stdout, "Success rate:    %.1f%%\n", stats.SuccessRate*100)

	return nil
}
