package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagedrift"
)

// Ensure LoggingReportSink implements pagedrift.ReportSink.
var _ pagedrift.ReportSink = (*LoggingReportSink)(nil)

// LoggingReportSink wraps a ReportSink with logging.
type LoggingReportSink struct {
	next   pagedrift.ReportSink
	logger *slog.Logger
}

// NewLoggingReportSink creates a new LoggingReportSink.
func NewLoggingReportSink(next pagedrift.ReportSink, logger *slog.Logger) *LoggingReportSink {
	return &LoggingReportSink{next: next, logger: logger}
}

// WriteReport delegates to the wrapped sink and logs the write.
func (s *LoggingReportSink) WriteReport(ctx context.Context, path string, content string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("write report",
			"path", path,
			"bytes", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.WriteReport(ctx, path, content)
}
