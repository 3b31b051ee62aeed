package pagedrift

import "context"

// DefaultTitle is reported when a page has no usable <title>.
const DefaultTitle = "Untitled Page"

// Page is the extracted content of a live webpage.
type Page struct {
	URL         string
	Title       string
	Description string

	// Text is the normalized block text of the main content, or a single
	// error block when extraction failed.
	Text string

	// Err is set when the page could not be fetched or has no content.
	Err error
}

// Blocks returns the page text split into blocks.
func (p *Page) Blocks() []string {
	return SplitBlocks(p.Text)
}

// Failed reports whether extraction of the page failed.
func (p *Page) Failed() bool {
	return p.Err != nil
}

// Fail records err on the page and replaces its text with an error block.
func (p *Page) Fail(err error) {
	p.Err = err
	p.Text = ErrorBlock(failureMessage(err))
}

// FailedPage returns a page carrying placeholder metadata and an error block.
func FailedPage(url string, err error) *Page {
	p := &Page{URL: url, Title: DefaultTitle}
	p.Fail(err)
	return p
}

func failureMessage(err error) string {
	switch ErrorCode(err) {
	case EFETCH:
		return "Failed to fetch webpage: " + ErrorMessage(err)
	case EINTERNAL:
		return err.Error()
	default:
		return ErrorMessage(err)
	}
}

// Fetcher retrieves the HTML of live pages.
type Fetcher interface {
	// Fetch returns the HTML served at url.
	// Network failures, timeouts and non-2xx responses return EFETCH.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// Extractor turns raw HTML into page content.
type Extractor interface {
	// Extract never fails outright: pages without content come back with
	// Err set to ENOCONTENT and an error block as text.
	Extract(html string) *Page
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// DefaultUserAgent is sent by fetchers so that sites serve the same markup
// a desktop browser would get.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
