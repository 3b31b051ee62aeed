// Package readability locates the main content of a page with go-readability.
package readability

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Region picks the main content with go-readability's content scoring.
// It suits pages whose content is not wrapped in <main> or <article>.
//
// Readability strips class attributes, so structured FAQ sections are not
// recognized inside the region it returns.
type Region struct{}

// NewRegion creates a new Region.
func NewRegion() *Region {
	return &Region{}
}

// Name returns the region's identifier.
func (r *Region) Name() string {
	return "readability"
}

// Match returns the readable content of doc, or nil when readability finds
// none.
func (r *Region) Match(doc *goquery.Document) *goquery.Selection {
	raw, err := doc.Html()
	if err != nil {
		return nil
	}

	article, err := readability.FromReader(strings.NewReader(raw), nil)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return nil
	}

	content, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil
	}
	return content.Find("body")
}
