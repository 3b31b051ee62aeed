// Package trafilatura locates the main content of a page with go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
)

// Region picks the main content with go-trafilatura, falling back to its
// readability and dom-distiller heuristics when its own extraction fails.
type Region struct{}

// NewRegion creates a new Region.
func NewRegion() *Region {
	return &Region{}
}

// Name returns the region's identifier.
func (r *Region) Name() string {
	return "trafilatura"
}

// Match returns the content node found by trafilatura, or nil.
func (r *Region) Match(doc *goquery.Document) *goquery.Selection {
	raw, err := doc.Html()
	if err != nil {
		return nil
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(raw), opts)
	if err != nil || result == nil || result.ContentNode == nil {
		return nil
	}

	return goquery.NewDocumentFromNode(result.ContentNode).Selection
}
