package mock

import (
	"context"

	"github.com/fwojciec/pagedrift"
)

var _ pagedrift.ReportSink = (*ReportSink)(nil)

// ReportSink is a mock implementation of pagedrift.ReportSink.
type ReportSink struct {
	WriteReportFn func(ctx context.Context, path string, content string) error
}

func (s *ReportSink) WriteReport(ctx context.Context, path string, content string) error {
	return s.WriteReportFn(ctx, path, content)
}
