// Package fs provides file-based reading of drafts and writing of reports.
package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/pagedrift"
)

// Ensure Writer implements pagedrift.ReportSink at compile time.
var _ pagedrift.ReportSink = (*Writer)(nil)

// Writer writes reports as files under a base directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that resolves relative paths against baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteReport writes content to path, creating parent directories.
// The content is written to a temporary file in the same directory and
// renamed into place, so readers never see a partial report.
func (w *Writer) WriteReport(ctx context.Context, path string, content string) error {
	if err := ctx.Err(); err != nil {
		return pagedrift.Errorf(pagedrift.EIO, "writing %s: %v", path, err)
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(w.baseDir, path)
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return pagedrift.Errorf(pagedrift.EIO, "creating directory %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return pagedrift.Errorf(pagedrift.EIO, "creating temp file in %s: %v", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return pagedrift.Errorf(pagedrift.EIO, "writing %s: %v", fullPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return pagedrift.Errorf(pagedrift.EIO, "writing %s: %v", fullPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return pagedrift.Errorf(pagedrift.EIO, "writing %s: %v", fullPath, err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return pagedrift.Errorf(pagedrift.EIO, "renaming report to %s: %v", fullPath, err)
	}
	return nil
}
