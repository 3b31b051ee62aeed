package main

import (
	"path/filepath"
	"strings"

	"github.com/fwojciec/pagedrift"
)

var _ pagedrift.DocumentReader = (*documentReader)(nil)

// documentReader dispatches to a reader by file extension.
type documentReader struct {
	byExt map[string]pagedrift.DocumentReader
}

func (r *documentReader) ReadDocument(path string) ([]pagedrift.Paragraph, error) {
	ext := strings.ToLower(filepath.Ext(path))
	reader, ok := r.byExt[ext]
	if !ok {
		return nil, pagedrift.Errorf(pagedrift.EDOCREAD, "unsupported draft format %q: %s", ext, filepath.Base(path))
	}
	return reader.ReadDocument(path)
}
