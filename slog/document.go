package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/pagedrift"
)

// Ensure LoggingDocumentReader implements pagedrift.DocumentReader.
var _ pagedrift.DocumentReader = (*LoggingDocumentReader)(nil)

// LoggingDocumentReader wraps a DocumentReader with logging.
type LoggingDocumentReader struct {
	next   pagedrift.DocumentReader
	logger *slog.Logger
}

// NewLoggingDocumentReader creates a new LoggingDocumentReader.
func NewLoggingDocumentReader(next pagedrift.DocumentReader, logger *slog.Logger) *LoggingDocumentReader {
	return &LoggingDocumentReader{next: next, logger: logger}
}

// ReadDocument delegates to the wrapped reader and logs the paragraph count.
func (r *LoggingDocumentReader) ReadDocument(path string) (paragraphs []pagedrift.Paragraph, err error) {
	defer func(begin time.Time) {
		r.logger.Info("read document",
			"path", path,
			"paragraphs", len(paragraphs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ReadDocument(path)
}
