package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scrapemill/scrapemill"
)

// Compile-time interface verification.
var _ scrapemill.AuditService = (*AuditService)(nil)

// AuditService implements scrapemill.AuditService using SQLite.
type AuditService struct {
	db *DB
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *DB) *AuditService {
	return &AuditService{db: db}
}

const logColumns = "id, url, timestamp, status, content_type, duration_ms, http_status_code, content_length, content_hash, markdown, links_count, images_count, js_executed, error_message, pdf_title, pdf_pages"

// timeLayout is RFC3339 with fixed-width fractional seconds so stored
// timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CreateLog persists a new audit record, assigning its ID and timestamp.
func (s *AuditService) CreateLog(ctx context.Context, log *scrapemill.ScrapeLog) error {
	if err := log.Validate(); err != nil {
		return err
	}

	log.ID = uuid.New().String()
	log.Timestamp = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scrape_logs (`+logColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.URL, log.Timestamp.Format(timeLayout), string(log.Status),
		string(log.ContentType), log.Duration.Milliseconds(), log.HTTPStatusCode,
		log.ContentLength, log.ContentHash, log.Markdown, log.LinksCount,
		log.ImagesCount, log.JSExecuted, log.ErrorMessage, log.PDFTitle, log.PDFPages)

	return err
}

// FindLogByID retrieves an audit record by ID.
func (s *AuditService) FindLogByID(ctx context.Context, id string) (*scrapemill.ScrapeLog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+logColumns+`
		FROM scrape_logs
		WHERE id = ?
	`, id)

	log, err := scanLog(row)
	if err == sql.ErrNoRows {
		return nil, scrapemill.Errorf(scrapemill.ENOTFOUND, "scrape log not found")
	}
	if err != nil {
		return nil, err
	}

	return log, nil
}

// FindLogs retrieves audit records matching the filter, newest first.
func (s *AuditService) FindLogs(ctx context.Context, filter scrapemill.ScrapeLogFilter) ([]*scrapemill.ScrapeLog, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + logColumns + " FROM scrape_logs WHERE 1=1")

	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.ContentType != nil {
		query.WriteString(" AND content_type = ?")
		args = append(args, string(*filter.ContentType))
	}
	if filter.URLContains != nil {
		query.WriteString(" AND url LIKE ?")
		args = append(args, "%"+*filter.URLContains+"%")
	}

	query.WriteString(" ORDER BY timestamp DESC")

	// SQLite accepts OFFSET only after a LIMIT clause, so an offset-only
	// filter gets the no-limit sentinel -1.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*scrapemill.ScrapeLog{}
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// Stats aggregates the whole audit log.
func (s *AuditService) Stats(ctx context.Context) (*scrapemill.ScrapeStats, error) {
	var stats scrapemill.ScrapeStats
	var avgMs sql.NullFloat64

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'timeout' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN content_type = 'html' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN content_type = 'spa' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN content_type = 'pdf' THEN 1 ELSE 0 END), 0),
			AVG(duration_ms),
			COALESCE(SUM(content_length), 0)
		FROM scrape_logs
	`).Scan(&stats.Total, &stats.SuccessCount, &stats.ErrorCount, &stats.TimeoutCount,
		&stats.HTMLCount, &stats.SPACount, &stats.PDFCount, &avgMs, &stats.TotalBytes)
	if err != nil {
		return nil, err
	}

	if avgMs.Valid {
		stats.AvgDuration = time.Duration(avgMs.Float64 * float64(time.Millisecond))
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.SuccessCount) / float64(stats.Total)
	}

	return &stats, nil
}

// scanner abstracts sql.Row and sql.Rows for scanLog.
type scanner interface {
	Scan(dest ...any) error
}

// scanLog reads one scrape_logs row.
func scanLog(row scanner) (*scrapemill.ScrapeLog, error) {
	var log scrapemill.ScrapeLog
	var timestamp string
	var durationMs int64

	err := row.Scan(&log.ID, &log.URL, &timestamp, &log.Status, &log.ContentType,
		&durationMs, &log.HTTPStatusCode, &log.ContentLength, &log.ContentHash,
		&log.Markdown, &log.LinksCount, &log.ImagesCount, &log.JSExecuted,
		&log.ErrorMessage, &log.PDFTitle, &log.PDFPages)
	if err != nil {
		return nil, err
	}

	log.Duration = time.Duration(durationMs) * time.Millisecond

	log.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	return &log, nil
}
