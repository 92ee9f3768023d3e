// Package slog provides logging decorators for scrapemill services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/scrapemill/scrapemill"
)

// Ensure LoggingAuditService implements scrapemill.AuditService.
var _ scrapemill.AuditService = (*LoggingAuditService)(nil)

// LoggingAuditService wraps an AuditService with debug logging.
type LoggingAuditService struct {
	next   scrapemill.AuditService
	logger *slog.Logger
}

// NewLoggingAuditService creates a new LoggingAuditService.
func NewLoggingAuditService(next scrapemill.AuditService, logger *slog.Logger) *LoggingAuditService {
	return &LoggingAuditService{next: next, logger: logger}
}

// CreateLog logs the record being persisted and delegates to the wrapped
// service.
func (s *LoggingAuditService) CreateLog(ctx context.Context, log *scrapemill.ScrapeLog) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("audit create",
			"url", log.URL,
			"status", log.Status,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateLog(ctx, log)
}

// FindLogByID delegates to the wrapped service.
func (s *LoggingAuditService) FindLogByID(ctx context.Context, id string) (*scrapemill.ScrapeLog, error) {
	return s.next.FindLogByID(ctx, id)
}

// FindLogs logs the query and delegates to the wrapped service.
func (s *LoggingAuditService) FindLogs(ctx context.Context, filter scrapemill.ScrapeLogFilter) (logs []*scrapemill.ScrapeLog, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("audit query",
			"results", len(logs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindLogs(ctx, filter)
}

// Stats delegates to the wrapped service.
func (s *LoggingAuditService) Stats(ctx context.Context) (*scrapemill.ScrapeStats, error) {
	return s.next.Stats(ctx)
}
