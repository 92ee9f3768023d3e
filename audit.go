package scrapemill

import (
	"context"
	"time"
)

// ScrapeLog is a persisted audit record of one scrape, derived from a
// ScrapeResult at hand-off time.
type ScrapeLog struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`

	Status         Status        `json:"status"`
	ContentType    ContentType   `json:"contentType"`
	Duration       time.Duration `json:"duration"`
	HTTPStatusCode int           `json:"httpStatusCode,omitempty"`
	ContentLength  int           `json:"contentLength"`
	ContentHash    string        `json:"contentHash,omitempty"`
	Markdown       string        `json:"markdown,omitempty"`
	LinksCount     int           `json:"linksCount"`
	ImagesCount    int           `json:"imagesCount"`
	JSExecuted     bool          `json:"jsExecuted"`
	ErrorMessage   string        `json:"errorMessage,omitempty"`

	PDFTitle string `json:"pdfTitle,omitempty"`
	PDFPages int    `json:"pdfPages,omitempty"`
}

// Validate returns an error if the log contains invalid fields.
func (l *ScrapeLog) Validate() error {
	if l.URL == "" {
		return Errorf(EINVALID, "scrape log URL required")
	}
	if l.Status == "" {
		return Errorf(EINVALID, "scrape log status required")
	}
	return nil
}

// NewScrapeLog builds an audit record from a scrape result.
func NewScrapeLog(res *ScrapeResult) *ScrapeLog {
	log := &ScrapeLog{
		URL:            res.URL,
		Status:         res.Status,
		ContentType:    res.ContentType,
		Duration:       res.Duration,
		HTTPStatusCode: res.HTTPStatusCode,
		ContentLength:  res.ContentLength,
		ContentHash:    res.ContentHash,
		Markdown:       res.Markdown,
		LinksCount:     res.LinksCount,
		ImagesCount:    res.ImagesCount,
		JSExecuted:     res.JSExecuted,
		ErrorMessage:   res.ErrorMessage,
	}
	if res.PDF != nil {
		log.PDFTitle = res.PDF.Title
		log.PDFPages = res.PDF.Pages
	}
	return log
}

// ScrapeLogFilter selects audit records in FindLogs.
type ScrapeLogFilter struct {
	Status      *Status      `json:"status"`
	ContentType *ContentType `json:"contentType"`
	URLContains *string      `json:"urlContains"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ScrapeStats aggregates the audit log.
type ScrapeStats struct {
	Total        int           `json:"total"`
	SuccessCount int           `json:"successCount"`
	ErrorCount   int           `json:"errorCount"`
	TimeoutCount int           `json:"timeoutCount"`
	HTMLCount    int           `json:"htmlCount"`
	SPACount     int           `json:"spaCount"`
	PDFCount     int           `json:"pdfCount"`
	AvgDuration  time.Duration `json:"avgDuration"`
	TotalBytes   int           `json:"totalBytes"`
	SuccessRate  float64       `json:"successRate"`
}

// AuditService persists and queries scrape audit records. The executor only
// consumes CreateLog; the query surface serves the CLI and dashboards.
type AuditService interface {
	// CreateLog persists a new audit record.
	CreateLog(ctx context.Context, log *ScrapeLog) error

	// FindLogByID retrieves a record by ID.
	// Returns ENOTFOUND if the record does not exist.
	FindLogByID(ctx context.Context, id string) (*ScrapeLog, error)

	// FindLogs retrieves records matching the filter, newest first.
	FindLogs(ctx context.Context, filter ScrapeLogFilter) ([]*ScrapeLog, error)

	// Stats aggregates the whole audit log.
	Stats(ctx context.Context) (*ScrapeStats, error)
}
