package goquery

import (
	"github.com/PuerkitoBio/goquery"
)

// Region locates the main content region of a page.
type Region interface {
	// Name identifies the strategy in logs and tests.
	Name() string

	// Match returns the content region of doc, or nil when the page has
	// no such region.
	Match(doc *goquery.Document) *goquery.Selection
}

var _ Region = (*SelectorRegion)(nil)

// SelectorRegion selects the first element matching a CSS selector, in
// document order.
type SelectorRegion struct {
	name     string
	selector string
}

// NewSelectorRegion creates a SelectorRegion.
func NewSelectorRegion(name, selector string) *SelectorRegion {
	return &SelectorRegion{name: name, selector: selector}
}

// Name returns the region's identifier.
func (r *SelectorRegion) Name() string {
	return r.name
}

// Match returns the first element matching the selector.
func (r *SelectorRegion) Match(doc *goquery.Document) *goquery.Selection {
	sel := doc.Find(r.selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel
}

// DefaultRegions returns the region strategies tried by a new Extractor:
// <main>, <article>, a common content container class, then <body>.
func DefaultRegions() []Region {
	return []Region{
		NewSelectorRegion("main", "main"),
		NewSelectorRegion("article", "article"),
		NewSelectorRegion("content", "div.content, div.main-content, div.page-content"),
		NewSelectorRegion("body", "body"),
	}
}
