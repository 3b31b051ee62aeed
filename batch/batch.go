// Package batch runs draft/page comparisons for a list of pairs.
// It coordinates reading drafts, fetching and extracting live pages,
// alignment, report rendering and report storage.
package batch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/fwojciec/pagedrift"
	"github.com/fwojciec/pagedrift/difflib"
	"golang.org/x/sync/errgroup"
)

// MarkdownReportName is the path of the aggregated Markdown report.
const MarkdownReportName = "comparison_report.md"

// Runner compares drafts with their live pages.
type Runner struct {
	Reader      pagedrift.DocumentReader
	Fetcher     pagedrift.Fetcher
	Extractor   pagedrift.Extractor
	Sink        pagedrift.ReportSink
	Aligner     *pagedrift.Aligner     // defaults to difflib.Ratio with default thresholds
	RateLimiter pagedrift.DomainLimiter // optional
	Concurrency int                    // pairs compared at once; defaults to 1
}

// Result holds the outcome of comparing one pair.
type Result struct {
	Position int
	Pair     pagedrift.Pair
	Source   string // draft file name

	// Comparison is set when the pair was compared and its report written.
	Comparison *pagedrift.Comparison
	ReportPath string

	// Page is the extracted live page, if it got that far.
	Page *pagedrift.Page

	Err error
}

// Failed reports whether the pair could not be compared.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Line returns a one-line summary of the result.
func (r *Result) Line() string {
	if r.Failed() {
		return fmt.Sprintf("❌ %s: Error", r.Pair.URL)
	}
	return fmt.Sprintf("%s → Similarity: %s", r.Pair.URL, pagedrift.FormatPercent(r.Comparison.Alignment.Similarity))
}

// markdown returns the section of the result in the aggregated report.
func (r *Result) markdown() string {
	switch {
	case r.Comparison != nil && r.Err == nil:
		return pagedrift.FormatMarkdown(r.Comparison)
	case r.Page != nil && r.Page.Failed():
		return pagedrift.FormatMarkdownFailure(r.Source, r.Pair.URL, r.Page.Text)
	default:
		return pagedrift.FormatMarkdownFailure(r.Source, r.Pair.URL, "Error: "+errorDetail(r.Err))
	}
}

// Summary holds the outcome of a batch.
type Summary struct {
	// Results of the pairs that were processed, in input order.
	Results []Result

	Compared int
	Failed   int
	Skipped  int // pairs never started because the batch was canceled

	// ReportPath is the path of the aggregated Markdown report, empty if it
	// was not written.
	ReportPath string
}

// Lines returns the one-line summaries of all results.
func (s *Summary) Lines() []string {
	lines := make([]string, 0, len(s.Results))
	for i := range s.Results {
		lines = append(lines, s.Results[i].Line())
	}
	return lines
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Run compares every pair and writes one HTML report per compared pair and
// the aggregated Markdown report. Per-pair failures are recorded in the
// summary and never stop the batch. When ctx is canceled no further pairs
// are started, the Markdown report is not written and ctx.Err() is returned
// with the partial summary.
func (r *Runner) Run(ctx context.Context, pairs []pagedrift.Pair, progress ProgressFunc) (*Summary, error) {
	if len(pairs) == 0 {
		return nil, pagedrift.Errorf(pagedrift.EINVALID, "no pairs to compare")
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	total := len(pairs)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan Result, total)

	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		for i, pair := range pairs {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				// The slot may have freed up only after cancellation.
				if ctx.Err() != nil {
					return nil
				}
				resultCh <- r.comparePair(ctx, i, pair)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results and restore input order.
	processed := make([]*Result, total)
	summary := &Summary{}
	var completed int
	for result := range resultCh {
		completed++
		processed[result.Position] = &result

		event := ProgressEvent{Completed: completed, Total: total, URL: result.Pair.URL}
		if result.Failed() {
			summary.Failed++
			event.Type = ProgressFailed
			event.Error = result.Err
		} else {
			summary.Compared++
			event.Type = ProgressCompleted
		}
		if progress != nil {
			progress(event)
		}
	}

	for _, result := range processed {
		if result == nil {
			summary.Skipped++
			continue
		}
		summary.Results = append(summary.Results, *result)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	var b strings.Builder
	b.WriteString(pagedrift.MarkdownReportHeader)
	for i := range summary.Results {
		b.WriteString(summary.Results[i].markdown())
	}
	if err := r.Sink.WriteReport(ctx, MarkdownReportName, b.String()); err != nil {
		return summary, fmt.Errorf("writing markdown report: %w", err)
	}
	summary.ReportPath = MarkdownReportName

	return summary, nil
}

// comparePair runs the full comparison of one pair. Panics are recovered
// into EINTERNAL so that one bad pair cannot take the batch down.
func (r *Runner) comparePair(ctx context.Context, position int, pair pagedrift.Pair) (result Result) {
	result = Result{
		Position: position,
		Pair:     pair,
		Source:   filepath.Base(pair.Draft),
	}
	defer func() {
		if v := recover(); v != nil {
			result.Comparison = nil
			result.ReportPath = ""
			result.Err = pagedrift.Errorf(pagedrift.EINTERNAL, "comparing %s: %v", result.Source, v)
		}
	}()

	paragraphs, err := r.Reader.ReadDocument(pair.Draft)
	if err != nil {
		result.Err = err
		return result
	}
	draft := pagedrift.DocumentText(paragraphs)

	page := r.fetchPage(ctx, pair.URL)
	result.Page = page
	if page.Failed() {
		result.Err = page.Err
		return result
	}

	comparison := &pagedrift.Comparison{
		Source:      result.Source,
		URL:         pair.URL,
		Title:       page.Title,
		Description: page.Description,
		Alignment:   r.aligner().Align(draft, page.Text),
	}

	html, err := pagedrift.FormatHTML(comparison)
	if err != nil {
		result.Err = err
		return result
	}

	path := ReportName(position, pair.Draft)
	if err := r.Sink.WriteReport(ctx, path, html); err != nil {
		result.Err = err
		return result
	}

	result.Comparison = comparison
	result.ReportPath = path
	return result
}

// fetchPage fetches and extracts the live page. It never returns nil;
// failures come back as sentinel pages.
func (r *Runner) fetchPage(ctx context.Context, rawURL string) *pagedrift.Page {
	if r.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return pagedrift.FailedPage(rawURL, pagedrift.Errorf(pagedrift.EFETCH, "invalid URL %q: %v", rawURL, err))
		}
		if err := r.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			return pagedrift.FailedPage(rawURL, pagedrift.Errorf(pagedrift.EFETCH, "%v", err))
		}
	}

	html, err := r.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if pagedrift.ErrorCode(err) != pagedrift.EFETCH {
			err = pagedrift.Errorf(pagedrift.EFETCH, "%s", errorDetail(err))
		}
		return pagedrift.FailedPage(rawURL, err)
	}

	page := r.Extractor.Extract(html)
	page.URL = rawURL
	return page
}

func (r *Runner) aligner() *pagedrift.Aligner {
	if r.Aligner != nil {
		return r.Aligner
	}
	return pagedrift.NewAligner(difflib.Ratio)
}

// ReportName returns the HTML report path of the pair at position
// (zero-based), e.g. "report_1_home.html" for drafts/home.docx.
func ReportName(position int, draft string) string {
	base := filepath.Base(draft)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("report_%d_%s.html", position+1, stem)
}

func errorDetail(err error) string {
	var e *pagedrift.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
