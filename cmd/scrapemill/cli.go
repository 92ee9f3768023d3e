package main

import (
	"context"
	"io"
	"time"

	"github.com/scrapemill/scrapemill"
	"github.com/scrapemill/scrapemill/scrape"
	"github.com/scrapemill/scrapemill/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Audit    scrapemill.AuditService
	Executor *scrape.Executor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scrape ScrapeCmd `cmd:"" help:"Scrape one or more URLs into clean Markdown"`
	Logs   LogsCmd   `cmd:"" help:"List past scrapes from the audit log"`
	Stats  StatsCmd  `cmd:"" help:"Show aggregate scrape statistics"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs []string `arg:"" help:"URLs to scrape"`

	Timeout      time.Duration `short:"t" default:"60s" help:"Per-attempt timeout"`
	Concurrency  int64         `short:"c" default:"3" help:"Concurrent browser sessions"`
	JSON         bool          `help:"Emit results as JSON"`
	Output       string        `short:"o" help:"Write Markdown to this file (single URL only)"`
	Sanitize     bool          `help:"Run the AI cleanup pass (requires GEMINI_API_KEY)"`
	Images       bool          `help:"Keep image references in the output"`
	Headed       bool          `help:"Run the browser visibly"`
	WaitSelector string        `help:"CSS selector to wait for after load"`
	WaitDelay    time.Duration `help:"Fixed delay after load"`
}

// LogsCmd is the "logs" subcommand.
type LogsCmd struct {
	Status string `help:"Filter by status (success, error, timeout)"`
	Type   string `help:"Filter by content type (html, spa, pdf)"`
	URL    string `help:"Filter by URL substring"`
	Limit  int    `default:"20" help:"Maximum rows to show"`
	Offset int    `help:"Rows to skip"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
