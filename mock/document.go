package mock

import "github.com/fwojciec/pagedrift"

var _ pagedrift.DocumentReader = (*DocumentReader)(nil)

// DocumentReader is a mock implementation of pagedrift.DocumentReader.
type DocumentReader struct {
	ReadDocumentFn func(path string) ([]pagedrift.Paragraph, error)
}

func (r *DocumentReader) ReadDocument(path string) ([]pagedrift.Paragraph, error) {
	return r.ReadDocumentFn(path)
}
