package mock

import "github.com/fwojciec/pagedrift"

var _ pagedrift.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagedrift.Extractor.
type Extractor struct {
	ExtractFn func(html string) *pagedrift.Page
}

func (e *Extractor) Extract(html string) *pagedrift.Page {
	return e.ExtractFn(html)
}
