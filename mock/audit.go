package mock

import (
	"context"

	"github.com/scrapemill/scrapemill"
)

var _ scrapemill.AuditService = (*AuditService)(nil)

// AuditService is a mock implementation of scrapemill.AuditService.
type AuditService struct {
	CreateLogFn   func(ctx context.Context, log *scrapemill.ScrapeLog) error
	FindLogByIDFn func(ctx context.Context, id string) (*scrapemill.ScrapeLog, error)
	FindLogsFn    func(ctx context.Context, filter scrapemill.ScrapeLogFilter) ([]*scrapemill.ScrapeLog, error)
	StatsFn       func(ctx context.Context) (*scrapemill.ScrapeStats, error)
}

func (s *AuditService) CreateLog(ctx context.Context, log *scrapemill.ScrapeLog) error {
	return s.CreateLogFn(ctx, log)
}

func (s *AuditService) FindLogByID(ctx context.Context, id string) (*scrapemill.ScrapeLog, error) {
	return s.FindLogByIDFn(ctx, id)
}

func (s *AuditService) FindLogs(ctx context.Context, filter scrapemill.ScrapeLogFilter) ([]*scrapemill.ScrapeLog, error) {
	return s.FindLogsFn(ctx, filter)
}

func (s *AuditService) Stats(ctx context.Context) (*scrapemill.ScrapeStats, error) {
	return s.StatsFn(ctx)
}
