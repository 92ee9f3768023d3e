package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/scrapemill/scrapemill"
	main "github.com/scrapemill/scrapemill/cmd/scrapemill"
	"github.com/scrapemill/scrapemill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists logs with status and URL", func(t *testing.T) {
		t.Parallel()

		audit := &mock.AuditService{
			FindLogsFn: func(_ context.Context, filter scrapemill.ScrapeLogFilter) ([]*scrapemill.ScrapeLog, error) {
				assert.Equal(t, 20, filter.Limit)
				return []*scrapemill.ScrapeLog{
					{
						ID:          "log-123",
						URL:         "https://example.com/a",
						Timestamp:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
						Status:      scrapemill.StatusSuccess,
						ContentType: scrapemill.ContentHTML,
						ContentHash: "deadbeef",
					},
					{
						ID:           "log-456",
						URL:          "https://example.com/b",
						Timestamp:    time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC),
						Status:       scrapemill.StatusError,
						ContentType:  scrapemill.ContentSPA,
						ErrorMessage: "render failed",
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Audit:  audit,
		}

		cmd := &main.LogsCmd{Limit: 20}

		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "log-123")
		assert.Contains(t, output, "https://example.com/a")
		assert.Contains(t, output, "success")
		assert.Contains(t, output, "deadbeef")
		assert.Contains(t, output, "render failed")
	})

	t.Run("passes filters through", func(t *testing.T) {
		t.Parallel()

		var got scrapemill.ScrapeLogFilter
		audit := &mock.AuditService{
			FindLogsFn: func(_ context.Context, filter scrapemill.ScrapeLogFilter) ([]*scrapemill.ScrapeLog, error) {
				got = filter
				return nil, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Audit:  audit,
		}

		cmd := &main.LogsCmd{Status: "error", Type: "pdf", URL: "example", Limit: 5, Offset: 10}

		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, got.Status)
		assert.Equal(t, scrapemill.StatusError, *got.Status)
		require.NotNil(t, got.ContentType)
		assert.Equal(t, scrapemill.ContentPDF, *got.ContentType)
		require.NotNil(t, got.URLContains)
		assert.Equal(t, "example", *got.URLContains)
		assert.Equal(t, 5, got.Limit)
		assert.Equal(t, 10, got.Offset)
	})

	t.Run("shows helpful message when empty", func(t *testing.T) {
		t.Parallel()

		audit := &mock.AuditService{
			FindLogsFn: func(context.Context, scrapemill.ScrapeLogFilter) ([]*scrapemill.ScrapeLog, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Audit:  audit,
		}

		require.NoError(t, (&main.LogsCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No scrapes recorded")
	})
}

func TestStatsCmd_Run(t *testing.T) {
	t.Parallel()

	audit := &mock.AuditService{
		StatsFn: func(context.Context) (*scrapemill.ScrapeStats, error) {
			return &scrapemill.ScrapeStats{
				Total:        10,
				SuccessCount: 8,
				ErrorCount:   1,
				TimeoutCount: 1,
				HTMLCount:    5,
				SPACount:     3,
				PDFCount:     2,
				AvgDuration:  1250 * time.Millisecond,
				TotalBytes:   102400,
				SuccessRate:  0.8,
			}, nil
		},
	}

	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: &bytes.Buffer{},
		Audit:  audit,
	}

	require.NoError(t, (&main.StatsCmd{}).Run(deps))

	output := stdout.String()
	assert.Contains(t, output, "Total scrapes:   10")
	assert.Contains(t, output, "html=5 spa=3 pdf=2")
	assert.Contains(t, output, "80.0%")
	assert.Contains(t, output, "1.25s")
}
