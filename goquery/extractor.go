package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagedrift"
	"golang.org/x/net/html"
)

var _ pagedrift.Extractor = (*Extractor)(nil)

// Extractor turns the HTML of a live page into comparable text blocks.
//
// The main content region is chosen by the first Region strategy that
// matches. Paragraphs, list items and headings of the region become blocks,
// followed by question and answer blocks for every structured section
// (FAQ, accordion, tabs) found in the region.
type Extractor struct {
	regions []Region
	pairers []Pairer
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRegions replaces the region strategies, tried in order.
func WithRegions(regions ...Region) Option {
	return func(e *Extractor) {
		e.regions = regions
	}
}

// WithPairers replaces the question/answer pairers, tried in order.
func WithPairers(pairers ...Pairer) Option {
	return func(e *Extractor) {
		e.pairers = pairers
	}
}

// NewExtractor creates an Extractor with DefaultRegions and DefaultPairers.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		regions: DefaultRegions(),
		pairers: DefaultPairers(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses rawHTML and returns the page title, meta description and
// the normalized block text of the main content. Pages without a content
// region or without any block come back failed with ENOCONTENT.
func (e *Extractor) Extract(rawHTML string) *pagedrift.Page {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return pagedrift.FailedPage("", pagedrift.Errorf(pagedrift.EINVALID, "failed to parse HTML: %v", err))
	}

	page := &pagedrift.Page{
		Title:       pageTitle(doc),
		Description: pageDescription(doc),
	}

	region := e.region(doc)
	if region == nil {
		page.Fail(pagedrift.Errorf(pagedrift.ENOCONTENT, "Could not find main content area"))
		return page
	}

	blocks := contentBlocks(region)
	blocks = append(blocks, e.sectionBlocks(region)...)
	if len(blocks) == 0 {
		page.Fail(pagedrift.Errorf(pagedrift.ENOCONTENT, "No content found on page"))
		return page
	}

	page.Text = pagedrift.Normalize(pagedrift.JoinBlocks(blocks))
	return page
}

func (e *Extractor) region(doc *goquery.Document) *goquery.Selection {
	for _, r := range e.regions {
		if sel := r.Match(doc); sel != nil && sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

func pageTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return pagedrift.DefaultTitle
}

func pageDescription(doc *goquery.Document) string {
	content, _ := doc.Find("meta[name='description']").First().Attr("content")
	return strings.TrimSpace(content)
}

// structuredKeywords mark class names of containers whose content is
// reported through question/answer pairing instead of plain blocks.
var structuredKeywords = []string{
	"faq", "accordion", "expandable", "collapse", "toggle",
	"uagb-faq", "uagb-container", "wp-block-uagb",
}

// contentBlocks returns the paragraph, list item and heading blocks of
// region in document order.
func contentBlocks(region *goquery.Selection) []string {
	var blocks []string
	region.Find("p, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		if insideStructured(s) {
			return
		}
		text := flatText(s)
		if utf8.RuneCountInString(text) < 2 {
			return
		}
		if level := elementHeadingLevel(s); level > 0 {
			text = pagedrift.HeadingBlock(level, text)
		}
		blocks = append(blocks, text)
	})
	return blocks
}

func insideStructured(s *goquery.Selection) bool {
	return s.Parents().FilterFunction(func(_ int, p *goquery.Selection) bool {
		return classContains(p, structuredKeywords...)
	}).Length() > 0
}

func elementHeadingLevel(s *goquery.Selection) int {
	name := goquery.NodeName(s)
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}

// sectionPattern recognizes one kind of structured section.
type sectionPattern struct {
	name  string
	match func(*goquery.Selection) bool
}

var sectionPatterns = []sectionPattern{
	{"uagb-faq", func(s *goquery.Selection) bool { return classHasPrefix(s, "uagb-faq") }},
	{"wp-block-uagb-faq", func(s *goquery.Selection) bool { return classHasPrefix(s, "wp-block-uagb-faq") }},
	{"faq", func(s *goquery.Selection) bool { return classContains(s, "faq", "frequently-asked") }},
	{"accordion", func(s *goquery.Selection) bool { return classContains(s, "accordion", "expandable", "collapse") }},
	{"tablist", func(s *goquery.Selection) bool { return hasRole(s, "tablist") }},
	{"tab", func(s *goquery.Selection) bool { return hasRole(s, "tab") }},
	{"uagb-container", func(s *goquery.Selection) bool { return classContains(s, "uagb-container-inner-blocks-wrap") }},
}

// structuredSections returns the structured sections of region in pattern
// order, then document order. Sections with identical markup are reported
// once, and sections nested inside another matched section are dropped so
// that their pairs are not emitted twice.
func structuredSections(region *goquery.Selection) []*goquery.Selection {
	all := region.Find("*")

	seen := make(map[uint64]bool)
	matched := make(map[*html.Node]bool)
	var sections []*goquery.Selection
	for _, pattern := range sectionPatterns {
		all.Each(func(_ int, s *goquery.Selection) {
			if !pattern.match(s) {
				return
			}
			matched[s.Get(0)] = true
			outer, err := goquery.OuterHtml(s)
			if err != nil {
				return
			}
			key := xxhash.Sum64String(outer)
			if seen[key] {
				return
			}
			seen[key] = true
			sections = append(sections, s)
		})
	}

	kept := sections[:0]
	for _, s := range sections {
		if !hasMatchedAncestor(s.Get(0), matched) {
			kept = append(kept, s)
		}
	}
	return kept
}

func hasMatchedAncestor(n *html.Node, matched map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if matched[p] {
			return true
		}
	}
	return false
}

// sectionBlocks returns the heading and question/answer blocks of every
// structured section of region.
func (e *Extractor) sectionBlocks(region *goquery.Selection) []string {
	var blocks []string
	for _, section := range structuredSections(region) {
		if heading := flatText(section.Find("[class*='uagb-heading-text']").First()); heading != "" {
			blocks = append(blocks, pagedrift.HeadingBlock(2, heading))
		}
		for _, qa := range e.pair(section) {
			blocks = append(blocks, "Q: "+qa.Question, "A: "+qa.Answer)
		}
	}
	return blocks
}

// pair returns the pairs of the first pairer that finds any.
func (e *Extractor) pair(section *goquery.Selection) []QA {
	for _, p := range e.pairers {
		if pairs := p.Pair(section); len(pairs) > 0 {
			return pairs
		}
	}
	return nil
}
