package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/pagedrift"
)

// Ensure LoggingExtractor implements pagedrift.Extractor.
var _ pagedrift.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   pagedrift.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next pagedrift.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the block count.
func (e *LoggingExtractor) Extract(html string) *pagedrift.Page {
	begin := time.Now()
	page := e.next.Extract(html)
	e.logger.Info("extract",
		"title", page.Title,
		"blocks", len(page.Blocks()),
		"duration", time.Since(begin),
		"err", page.Err,
	)
	return page
}
