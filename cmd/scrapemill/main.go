// Command scrapemill scrapes URLs into normalized Markdown and records every
// scrape in a local audit log.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/scrapemill/scrapemill/gemini"
	"github.com/scrapemill/scrapemill/htmltomarkdown"
	scrapehttp "github.com/scrapemill/scrapemill/http"
	"github.com/scrapemill/scrapemill/pdf"
	"github.com/scrapemill/scrapemill/pipeline"
	"github.com/scrapemill/scrapemill/readability"
	"github.com/scrapemill/scrapemill/rod"
	"github.com/scrapemill/scrapemill/scrape"
	scrapeslog "github.com/scrapemill/scrapemill/slog"
	"github.com/scrapemill/scrapemill/sqlite"
	"github.com/scrapemill/scrapemill/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the audit log.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scrapemill"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scrapemill --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SCRAPEMILL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Audit = scrapeslog.NewLoggingAuditService(sqlite.NewAuditService(m.DB), logger)

	if cmd == "scrape" {
		converter := htmltomarkdown.NewConverter()

		renderer, err := rod.NewRenderer(converter, rod.WithHeadless(!cli.Scrape.Headed))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer renderer.Close()

		pipelineOpts := []pipeline.Option{
			pipeline.WithFallbackExtractor(readability.NewExtractor()),
		}

		if cli.Scrape.Sanitize {
			apiKey := os.Getenv("GEMINI_API_KEY")
			if apiKey == "" {
				return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
			}
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return fmt.Errorf("failed to connect to Gemini API: %w", err)
			}
			pipelineOpts = append(pipelineOpts, pipeline.WithLLM(gemini.NewClient(client)))
		}

		deps.Executor = &scrape.Executor{
			Renderer:     rod.NewLoggingRenderer(renderer, logger),
			Pipeline:     pipeline.NewPipeline(trafilatura.NewExtractor(), converter, pipelineOpts...),
			Classifier:   scrapehttp.NewClassifier(),
			Downloader:   scrapehttp.NewDownloader(),
			PDFExtractor: pdf.NewExtractor(),
			Audit:        deps.Audit,
			Limiter:      scrape.NewDomainLimiter(1.0),
			Logger:       logger,
			Config: scrape.Config{
				Concurrency:   cli.Scrape.Concurrency,
				Timeout:       cli.Scrape.Timeout,
				Headed:        cli.Scrape.Headed,
				IncludeImages: cli.Scrape.Images,
				WaitSelector:  cli.Scrape.WaitSelector,
				WaitDelay:     cli.Scrape.WaitDelay,
			},
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("SCRAPEMILL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "scrapemill.db"
	}
	dir := filepath.Join(home, ".scrapemill")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "scrapemill.db")
}
