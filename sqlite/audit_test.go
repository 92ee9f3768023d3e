package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/scrapemill/scrapemill"
	"github.com/scrapemill/scrapemill/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLog(t *testing.T, svc *sqlite.AuditService, mutate func(*scrapemill.ScrapeLog)) *scrapemill.ScrapeLog {
	t.Helper()
	log := &scrapemill.ScrapeLog{
		URL:           "https://example.com/page",
		Status:        scrapemill.StatusSuccess,
		ContentType:   scrapemill.ContentHTML,
		Duration:      1500 * time.Millisecond,
		ContentLength: 1024,
		ContentHash:   "abc123",
		Markdown:      "# Page\n\ncontent",
		LinksCount:    3,
	}
	if mutate != nil {
		mutate(log)
	}
	require.NoError(t, svc.CreateLog(context.Background(), log))
	return log
}

func TestAuditService_CreateLog(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))
		log := createTestLog(t, svc, nil)

		assert.NotEmpty(t, log.ID)
		assert.False(t, log.Timestamp.IsZero())
	})

	t.Run("rejects invalid log", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))

		err := svc.CreateLog(context.Background(), &scrapemill.ScrapeLog{})
		require.Error(t, err)
		assert.Equal(t, scrapemill.EINVALID, scrapemill.ErrorCode(err))
	})
}

func TestAuditService_FindLogByID(t *testing.T) {
	t.Parallel()

	t.Run("round trips all fields", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))
		created := createTestLog(t, svc, func(l *scrapemill.ScrapeLog) {
			l.ContentType = scrapemill.ContentPDF
			l.PDFTitle = "Report"
			l.PDFPages = 12
			l.JSExecuted = true
			l.HTTPStatusCode = 200
		})

		found, err := svc.FindLogByID(context.Background(), created.ID)
		require.NoError(t, err)

		assert.Equal(t, created.URL, found.URL)
		assert.Equal(t, created.Status, found.Status)
		assert.Equal(t, created.ContentType, found.ContentType)
		assert.Equal(t, created.Duration, found.Duration)
		assert.Equal(t, created.Markdown, found.Markdown)
		assert.Equal(t, "Report", found.PDFTitle)
		assert.Equal(t, 12, found.PDFPages)
		assert.True(t, found.JSExecuted)
	})

	t.Run("returns ENOTFOUND for missing ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))

		_, err := svc.FindLogByID(context.Background(), "no-such-id")
		require.Error(t, err)
		assert.Equal(t, scrapemill.ENOTFOUND, scrapemill.ErrorCode(err))
	})
}

func TestAuditService_FindLogs(t *testing.T) {
	t.Parallel()

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))
		createTestLog(t, svc, func(l *scrapemill.ScrapeLog) { l.URL = "https://example.com/old" })
		time.Sleep(5 * time.Millisecond)
		createTestLog(t, svc, func(l *scrapemill.ScrapeLog) { l.URL = "https://example.com/new" })

		logs, err := svc.FindLogs(context.Background(), scrapemill.ScrapeLogFilter{})
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "https://example.com/new", logs[0].URL)
		assert.Equal(t, "https://example.com/old", logs[1].URL)
	})

	t.Run("filters by status", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))
		createTestLog(t, svc, nil)
		createTestLog(t, svc, func(l *scrapemill.ScrapeLog) {
			l.Status = scrapemill.StatusError
			l.ErrorMessage = "boom"
		})

		status := scrapemill.StatusError
		logs, err := svc.FindLogs(context.Background(), scrapemill.ScrapeLogFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, scrapemill.StatusError, logs[0].Status)
	})

	t.Run("filters by content type", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))
		createTestLog(t, svc, nil)
		createTestLog(t, svc, func(l *scrapemill.ScrapeLog) { l.ContentType = scrapemill.ContentPDF })

		ct := scrapemill.ContentPDF
		logs, err := svc.FindLogs(context.Background(), scrapemill.ScrapeLogFilter{ContentType: &ct})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, scrapemill.ContentPDF, logs[0].ContentType)
	})

	t.Run("filters by URL substring", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))
		createTestLog(t, svc, func(l *scrapemill.ScrapeLog) { l.URL = "https://example.com/blog/post" })
		createTestLog(t, svc, func(l *scrapemill.ScrapeLog) { l.URL = "https://example.com/docs/guide" })

		needle := "blog"
		logs, err := svc.FindLogs(context.Background(), scrapemill.ScrapeLogFilter{URLContains: &needle})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].URL, "blog")
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))
		for range 5 {
			createTestLog(t, svc, nil)
		}

		logs, err := svc.FindLogs(context.Background(), scrapemill.ScrapeLogFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Len(t, logs, 2)
	})

	t.Run("applies offset without limit", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))
		for range 5 {
			createTestLog(t, svc, nil)
		}

		logs, err := svc.FindLogs(context.Background(), scrapemill.ScrapeLogFilter{Offset: 2})
		require.NoError(t, err)
		assert.Len(t, logs, 3)
	})

	t.Run("empty database returns empty slice", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))

		logs, err := svc.FindLogs(context.Background(), scrapemill.ScrapeLogFilter{})
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}

func TestAuditService_Stats(t *testing.T) {
	t.Parallel()

	t.Run("aggregates counts and rates", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))
		createTestLog(t, svc, nil)
		createTestLog(t, svc, func(l *scrapemill.ScrapeLog) { l.ContentType = scrapemill.ContentSPA })
		createTestLog(t, svc, func(l *scrapemill.ScrapeLog) {
			l.Status = scrapemill.StatusError
			l.ContentType = scrapemill.ContentPDF
		})
		createTestLog(t, svc, func(l *scrapemill.ScrapeLog) { l.Status = scrapemill.StatusTimeout })

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 2, stats.SuccessCount)
		assert.Equal(t, 1, stats.ErrorCount)
		assert.Equal(t, 1, stats.TimeoutCount)
		assert.Equal(t, 2, stats.HTMLCount)
		assert.Equal(t, 1, stats.SPACount)
		assert.Equal(t, 1, stats.PDFCount)
		assert.Equal(t, 1500*time.Millisecond, stats.AvgDuration)
		assert.Equal(t, 4*1024, stats.TotalBytes)
		assert.InDelta(t, 0.5, stats.SuccessRate, 0.001)
	})

	t.Run("empty database yields zero stats", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAuditService(setupTestDB(t))

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 0, stats.Total)
		assert.Zero(t, stats.AvgDuration)
		assert.Zero(t, stats.SuccessRate)
	})
}
