package batch_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/pagedrift"
	"github.com/fwojciec/pagedrift/batch"
	"github.com/fwojciec/pagedrift/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reportRecorder is a ReportSink keeping reports in memory.
type reportRecorder struct {
	mu      sync.Mutex
	reports map[string]string
}

func newReportRecorder() *reportRecorder {
	return &reportRecorder{reports: make(map[string]string)}
}

func (r *reportRecorder) sink() *mock.ReportSink {
	return &mock.ReportSink{
		WriteReportFn: func(_ context.Context, path string, content string) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.reports[path] = content
			return nil
		},
	}
}

func (r *reportRecorder) get(path string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.reports[path]
	return content, ok
}

func (r *reportRecorder) paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var paths []string
	for p := range r.reports {
		paths = append(paths, p)
	}
	return paths
}

func welcomeReader() *mock.DocumentReader {
	return &mock.DocumentReader{
		ReadDocumentFn: func(_ string) ([]pagedrift.Paragraph, error) {
			return []pagedrift.Paragraph{
				{Text: "Welcome", Style: "Heading 1"},
				{Text: "We sell widgets."},
			}, nil
		},
	}
}

func htmlFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			return "<html>" + url + "</html>", nil
		},
	}
}

func welcomeExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(_ string) *pagedrift.Page {
			return &pagedrift.Page{
				Title:       "Home",
				Description: "Widgets for everyone",
				Text:        "<h1>Welcome</h1>\n\nWe sell widgets.",
			}
		},
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("compares a pair and writes both reports", func(t *testing.T) {
		t.Parallel()

		rec := newReportRecorder()
		r := &batch.Runner{
			Reader:    welcomeReader(),
			Fetcher:   htmlFetcher(),
			Extractor: welcomeExtractor(),
			Sink:      rec.sink(),
		}

		summary, err := r.Run(context.Background(), []pagedrift.Pair{
			{Draft: "drafts/home.docx", URL: "https://example.com/"},
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Compared)
		assert.Equal(t, 0, summary.Failed)
		assert.Equal(t, batch.MarkdownReportName, summary.ReportPath)
		require.Len(t, summary.Results, 1)

		result := summary.Results[0]
		assert.Equal(t, "home.docx", result.Source)
		assert.Equal(t, "report_1_home.html", result.ReportPath)
		assert.Equal(t, "https://example.com/", result.Page.URL)
		require.NotNil(t, result.Comparison)
		assert.InDelta(t, 1.0, result.Comparison.Alignment.Similarity, 1e-9)
		assert.Equal(t, 2, result.Comparison.Alignment.Count(pagedrift.TagMatched))
		assert.Equal(t, []string{"https://example.com/ → Similarity: 100.00%"}, summary.Lines())

		html, ok := rec.get("report_1_home.html")
		require.True(t, ok)
		assert.Contains(t, html, "<strong>Page Title:</strong> Home")

		md, ok := rec.get(batch.MarkdownReportName)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(md, pagedrift.MarkdownReportHeader))
		assert.Contains(t, md, "## home.docx vs https://example.com/\n")
		assert.Contains(t, md, "✅ MATCHED: [H1] Welcome\n")
		assert.Contains(t, md, "✅ MATCHED: We sell widgets.\n")
	})

	t.Run("fetch failure is recorded and the batch continues", func(t *testing.T) {
		t.Parallel()

		rec := newReportRecorder()
		r := &batch.Runner{
			Reader: welcomeReader(),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://a.example.com/" {
						return "", pagedrift.Errorf(pagedrift.EFETCH, "connection refused")
					}
					return "<html></html>", nil
				},
			},
			Extractor: welcomeExtractor(),
			Sink:      rec.sink(),
		}

		summary, err := r.Run(context.Background(), []pagedrift.Pair{
			{Draft: "a.docx", URL: "https://a.example.com/"},
			{Draft: "b.docx", URL: "https://b.example.com/"},
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 1, summary.Compared)
		require.Len(t, summary.Results, 2)
		assert.Equal(t, pagedrift.EFETCH, pagedrift.ErrorCode(summary.Results[0].Err))
		assert.Empty(t, summary.Results[0].ReportPath)
		assert.Equal(t, "report_2_b.html", summary.Results[1].ReportPath)
		assert.Equal(t, []string{
			"❌ https://a.example.com/: Error",
			"https://b.example.com/ → Similarity: 100.00%",
		}, summary.Lines())

		_, ok := rec.get("report_1_a.html")
		assert.False(t, ok)

		md, _ := rec.get(batch.MarkdownReportName)
		assert.Contains(t, md, "## a.docx vs https://a.example.com/\n❌ [ERROR: Failed to fetch webpage: connection refused]\n\n")
		assert.Contains(t, md, "## b.docx vs https://b.example.com/\n")
	})

	t.Run("wraps non-fetch errors from the fetcher", func(t *testing.T) {
		t.Parallel()

		r := &batch.Runner{
			Reader: welcomeReader(),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", context.DeadlineExceeded
				},
			},
			Extractor: welcomeExtractor(),
			Sink:      newReportRecorder().sink(),
		}

		summary, err := r.Run(context.Background(), []pagedrift.Pair{{Draft: "a.docx", URL: "https://example.com/"}}, nil)

		require.NoError(t, err)
		result := summary.Results[0]
		assert.Equal(t, pagedrift.EFETCH, pagedrift.ErrorCode(result.Err))
		assert.Equal(t, "[ERROR: Failed to fetch webpage: context deadline exceeded]", result.Page.Text)
	})

	t.Run("pages without content are recorded as failures", func(t *testing.T) {
		t.Parallel()

		rec := newReportRecorder()
		r := &batch.Runner{
			Reader:  welcomeReader(),
			Fetcher: htmlFetcher(),
			Extractor: &mock.Extractor{
				ExtractFn: func(_ string) *pagedrift.Page {
					p := &pagedrift.Page{Title: "Empty"}
					p.Fail(pagedrift.Errorf(pagedrift.ENOCONTENT, "Could not find main content area"))
					return p
				},
			},
			Sink: rec.sink(),
		}

		summary, err := r.Run(context.Background(), []pagedrift.Pair{{Draft: "a.docx", URL: "https://example.com/"}}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, pagedrift.ENOCONTENT, pagedrift.ErrorCode(summary.Results[0].Err))

		md, _ := rec.get(batch.MarkdownReportName)
		assert.Contains(t, md, "❌ [ERROR: Could not find main content area]\n")
	})

	t.Run("draft read failure skips fetching", func(t *testing.T) {
		t.Parallel()

		rec := newReportRecorder()
		r := &batch.Runner{
			Reader: &mock.DocumentReader{
				ReadDocumentFn: func(path string) ([]pagedrift.Paragraph, error) {
					return nil, pagedrift.Errorf(pagedrift.EDOCREAD, "parsing %s: not a zip file", path)
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					t.Error("fetch should not be called")
					return "", nil
				},
			},
			Extractor: welcomeExtractor(),
			Sink:      rec.sink(),
		}

		summary, err := r.Run(context.Background(), []pagedrift.Pair{{Draft: "bad.docx", URL: "https://example.com/"}}, nil)

		require.NoError(t, err)
		assert.Equal(t, pagedrift.EDOCREAD, pagedrift.ErrorCode(summary.Results[0].Err))
		assert.Nil(t, summary.Results[0].Page)

		md, _ := rec.get(batch.MarkdownReportName)
		assert.Contains(t, md, "## bad.docx vs https://example.com/\n❌ Error: parsing bad.docx: not a zip file\n\n")
	})

	t.Run("recovers from panics in a pair", func(t *testing.T) {
		t.Parallel()

		r := &batch.Runner{
			Reader:  welcomeReader(),
			Fetcher: htmlFetcher(),
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) *pagedrift.Page {
					if strings.Contains(html, "boom") {
						panic("extractor exploded")
					}
					return welcomeExtractor().Extract(html)
				},
			},
			Sink: newReportRecorder().sink(),
		}

		summary, err := r.Run(context.Background(), []pagedrift.Pair{
			{Draft: "a.docx", URL: "https://example.com/boom"},
			{Draft: "b.docx", URL: "https://example.com/ok"},
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 1, summary.Compared)
		assert.Equal(t, pagedrift.EINTERNAL, pagedrift.ErrorCode(summary.Results[0].Err))
		assert.Contains(t, pagedrift.ErrorMessage(summary.Results[0].Err), "extractor exploded")
	})

	t.Run("HTML report write failure fails the pair", func(t *testing.T) {
		t.Parallel()

		var markdown string
		r := &batch.Runner{
			Reader:    welcomeReader(),
			Fetcher:   htmlFetcher(),
			Extractor: welcomeExtractor(),
			Sink: &mock.ReportSink{
				WriteReportFn: func(_ context.Context, path string, content string) error {
					if path == batch.MarkdownReportName {
						markdown = content
						return nil
					}
					return pagedrift.Errorf(pagedrift.EIO, "disk full")
				},
			},
		}

		summary, err := r.Run(context.Background(), []pagedrift.Pair{{Draft: "a.docx", URL: "https://example.com/"}}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Nil(t, summary.Results[0].Comparison)
		assert.Equal(t, pagedrift.EIO, pagedrift.ErrorCode(summary.Results[0].Err))
		assert.Contains(t, markdown, "❌ Error: disk full\n")
	})

	t.Run("returns markdown write failure", func(t *testing.T) {
		t.Parallel()

		r := &batch.Runner{
			Reader:    welcomeReader(),
			Fetcher:   htmlFetcher(),
			Extractor: welcomeExtractor(),
			Sink: &mock.ReportSink{
				WriteReportFn: func(_ context.Context, path string, _ string) error {
					if path == batch.MarkdownReportName {
						return pagedrift.Errorf(pagedrift.EIO, "read-only file system")
					}
					return nil
				},
			},
		}

		summary, err := r.Run(context.Background(), []pagedrift.Pair{{Draft: "a.docx", URL: "https://example.com/"}}, nil)

		require.Error(t, err)
		assert.Equal(t, pagedrift.EIO, pagedrift.ErrorCode(err))
		require.NotNil(t, summary)
		assert.Equal(t, 1, summary.Compared)
		assert.Empty(t, summary.ReportPath)
	})

	t.Run("keeps input order with concurrency", func(t *testing.T) {
		t.Parallel()

		delays := map[string]time.Duration{
			"https://example.com/1": 30 * time.Millisecond,
			"https://example.com/2": 10 * time.Millisecond,
			"https://example.com/3": 20 * time.Millisecond,
			"https://example.com/4": 0,
		}
		r := &batch.Runner{
			Reader: welcomeReader(),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					time.Sleep(delays[url])
					return "<html></html>", nil
				},
			},
			Extractor:   welcomeExtractor(),
			Sink:        newReportRecorder().sink(),
			Concurrency: 4,
		}
		pairs := []pagedrift.Pair{
			{Draft: "one.docx", URL: "https://example.com/1"},
			{Draft: "two.docx", URL: "https://example.com/2"},
			{Draft: "three.docx", URL: "https://example.com/3"},
			{Draft: "four.docx", URL: "https://example.com/4"},
		}

		summary, err := r.Run(context.Background(), pairs, nil)

		require.NoError(t, err)
		require.Len(t, summary.Results, 4)
		for i, result := range summary.Results {
			assert.Equal(t, i, result.Position)
			assert.Equal(t, pairs[i], result.Pair)
			assert.Equal(t, batch.ReportName(i, pairs[i].Draft), result.ReportPath)
		}
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		r := &batch.Runner{
			Reader: welcomeReader(),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if strings.HasSuffix(url, "/bad") {
						return "", pagedrift.Errorf(pagedrift.EFETCH, "HTTP 404")
					}
					return "<html></html>", nil
				},
			},
			Extractor: welcomeExtractor(),
			Sink:      newReportRecorder().sink(),
		}

		var events []batch.ProgressEvent
		_, err := r.Run(context.Background(), []pagedrift.Pair{
			{Draft: "a.docx", URL: "https://example.com/good"},
			{Draft: "b.docx", URL: "https://example.com/bad"},
		}, func(e batch.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, batch.ProgressEvent{Type: batch.ProgressStarted, Total: 2}, events[0])
		assert.Equal(t, batch.ProgressCompleted, events[1].Type)
		assert.Equal(t, "https://example.com/good", events[1].URL)
		assert.Equal(t, 1, events[1].Completed)
		assert.Equal(t, batch.ProgressFailed, events[2].Type)
		assert.Equal(t, 2, events[2].Completed)
		assert.Equal(t, pagedrift.EFETCH, pagedrift.ErrorCode(events[2].Error))
		assert.Equal(t, batch.ProgressEvent{Type: batch.ProgressFinished, Completed: 2, Total: 2}, events[3])
	})

	t.Run("waits on the rate limiter per host", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var hosts []string
		r := &batch.Runner{
			Reader:    welcomeReader(),
			Fetcher:   htmlFetcher(),
			Extractor: welcomeExtractor(),
			Sink:      newReportRecorder().sink(),
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					mu.Lock()
					defer mu.Unlock()
					hosts = append(hosts, domain)
					return nil
				},
			},
		}

		_, err := r.Run(context.Background(), []pagedrift.Pair{
			{Draft: "a.docx", URL: "https://example.com:8443/a"},
			{Draft: "b.docx", URL: "https://other.example.org/b"},
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"example.com", "other.example.org"}, hosts)
	})

	t.Run("does not start pairs after cancellation", func(t *testing.T) {
		t.Parallel()

		rec := newReportRecorder()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := &batch.Runner{
			Reader:    welcomeReader(),
			Fetcher:   htmlFetcher(),
			Extractor: welcomeExtractor(),
			Sink:      rec.sink(),
		}

		summary, err := r.Run(ctx, []pagedrift.Pair{
			{Draft: "a.docx", URL: "https://example.com/a"},
			{Draft: "b.docx", URL: "https://example.com/b"},
		}, nil)

		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, summary)
		assert.Equal(t, 2, summary.Skipped)
		assert.Empty(t, summary.Results)
		assert.Empty(t, rec.paths())
	})

	t.Run("stops scheduling when canceled mid-batch", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		r := &batch.Runner{
			Reader: welcomeReader(),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					cancel()
					return "<html></html>", nil
				},
			},
			Extractor: welcomeExtractor(),
			Sink:      newReportRecorder().sink(),
		}

		summary, err := r.Run(ctx, []pagedrift.Pair{
			{Draft: "a.docx", URL: "https://example.com/a"},
			{Draft: "b.docx", URL: "https://example.com/b"},
			{Draft: "c.docx", URL: "https://example.com/c"},
		}, nil)

		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, summary)
		require.Len(t, summary.Results, 1)
		assert.Equal(t, 2, summary.Skipped)
	})

	t.Run("rejects empty batches", func(t *testing.T) {
		t.Parallel()

		_, err := (&batch.Runner{}).Run(context.Background(), nil, nil)

		assert.Equal(t, pagedrift.EINVALID, pagedrift.ErrorCode(err))
	})
}

func TestReportName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "report_1_home.html", batch.ReportName(0, "drafts/home.docx"))
	assert.Equal(t, "report_12_about.us.html", batch.ReportName(11, "/abs/about.us.md"))
	assert.Equal(t, "report_3_notes.html", batch.ReportName(2, "notes.txt"))
}
