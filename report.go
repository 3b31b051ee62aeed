package pagedrift

import (
	"context"
	"fmt"
	"html/template"
	"strings"
)

// Comparison is the result of comparing one draft with one live page.
type Comparison struct {
	Source      string // draft file name
	URL         string
	Title       string
	Description string
	Alignment   Alignment
}

// ReportSink persists rendered reports.
type ReportSink interface {
	// WriteReport stores content at path. Failures return EIO.
	WriteReport(ctx context.Context, path string, content string) error
}

// Report colors.
const (
	ColorMatched = "#e6ffe6"
	ColorMissing = "#ffe6e6"
	ColorCurrent = "#e6f0ff"
)

// FormatPercent formats a ratio as a percentage with two decimals, e.g. "87.43%".
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// Verdict returns a one-line qualitative summary of a similarity ratio.
func Verdict(similarity float64) string {
	switch {
	case similarity > 0.95:
		return "✅ Content is mostly identical."
	case similarity > 0.75:
		return "⚠️ Content has minor differences."
	default:
		return "❌ Content is significantly different."
	}
}

// htmlBlock is one cell of a report column.
type htmlBlock struct {
	Class  string
	Level  int
	Text   string
	Hidden bool
}

func newHTMLBlock(tag Tag, text string, hidden bool) htmlBlock {
	b := htmlBlock{Class: string(tag), Text: text, Hidden: hidden}
	if level, inner, ok := HeadingLevel(text); ok {
		b.Level, b.Text = level, inner
	}
	return b
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Comparison Report</title>
<style>
.columns { display: flex; gap: 20px; }
.column { width: 50%; }
.block { margin-bottom: 10px; padding: 10px; white-space: pre-wrap; }
.block h1, .block h2, .block h3, .block h4, .block h5, .block h6 { margin: 0; }
.matched { background: {{.Colors.Matched}}; }
.missing { background: {{.Colors.Missing}}; }
.current { background: {{.Colors.Current}}; }
.hidden { visibility: hidden; }
</style>
</head>
<body>
<h2>{{.Source}} vs <a href="{{.URL}}">{{.URL}}</a></h2>
<p><strong>Page Title:</strong> {{.Title}}</p>
<p><strong>Meta Description:</strong> {{.Description}}</p>
<p><strong>Similarity Score:</strong> {{.Score}}</p>
<div class="columns">
<div class="column"><h3>Draft</h3><div class="blocks">{{range .Draft}}{{template "block" .}}{{end}}</div></div>
<div class="column"><h3>Live Webpage</h3><div class="blocks">{{range .Live}}{{template "block" .}}{{end}}</div></div>
</div>
<hr>
</body>
</html>
{{define "block"}}<div class="block {{.Class}}{{if .Hidden}} hidden{{end}}">{{template "text" .}}</div>{{end}}
{{define "text"}}{{if eq .Level 1}}<h1>{{.Text}}</h1>{{else if eq .Level 2}}<h2>{{.Text}}</h2>{{else if eq .Level 3}}<h3>{{.Text}}</h3>{{else if eq .Level 4}}<h4>{{.Text}}</h4>{{else if eq .Level 5}}<h5>{{.Text}}</h5>{{else if eq .Level 6}}<h6>{{.Text}}</h6>{{else}}{{.Text}}{{end}}{{end}}`))

// FormatHTML renders a comparison as a self-contained HTML document with the
// draft and the live page side by side. Rows stay aligned across columns
// because every entry occupies a cell in both; the side it does not belong
// to gets an invisible copy of the other side's text.
func FormatHTML(c *Comparison) (string, error) {
	data := struct {
		Source      string
		URL         string
		Title       string
		Description string
		Score       string
		Colors      struct{ Matched, Missing, Current template.CSS }
		Draft       []htmlBlock
		Live        []htmlBlock
	}{
		Source:      c.Source,
		URL:         c.URL,
		Title:       c.Title,
		Description: c.Description,
		Score:       FormatPercent(c.Alignment.Similarity),
	}
	data.Colors.Matched = ColorMatched
	data.Colors.Missing = ColorMissing
	data.Colors.Current = ColorCurrent

	for _, e := range c.Alignment.Entries {
		switch e.Tag {
		case TagMatched:
			data.Draft = append(data.Draft, newHTMLBlock(e.Tag, e.Draft, false))
			data.Live = append(data.Live, newHTMLBlock(e.Tag, e.Live, false))
		case TagMissing:
			data.Draft = append(data.Draft, newHTMLBlock(e.Tag, e.Draft, false))
			data.Live = append(data.Live, newHTMLBlock(e.Tag, e.Draft, true))
		case TagCurrent:
			data.Draft = append(data.Draft, newHTMLBlock(e.Tag, e.Live, true))
			data.Live = append(data.Live, newHTMLBlock(e.Tag, e.Live, false))
		}
	}

	var b strings.Builder
	if err := htmlReport.Execute(&b, data); err != nil {
		return "", Errorf(EINTERNAL, "rendering HTML report: %v", err)
	}
	return b.String(), nil
}

// MarkdownReportHeader starts the aggregated Markdown report of a batch.
const MarkdownReportHeader = "# Batch Comparison Report\n\n"

// FormatMarkdown renders a comparison as a Markdown section with a verdict
// and one line per block.
func FormatMarkdown(c *Comparison) string {
	var b strings.Builder
	b.WriteString("## " + markdownText(c.Source) + " vs " + markdownText(c.URL) + "\n")
	b.WriteString("**Page Title**: " + markdownText(c.Title) + "\n\n")
	b.WriteString("**Meta Description**: " + markdownText(c.Description) + "\n\n")
	b.WriteString("**Similarity Score**: `" + FormatPercent(c.Alignment.Similarity) + "`\n\n")
	b.WriteString(Verdict(c.Alignment.Similarity) + "\n\n")
	b.WriteString("### Differences\n")
	for _, e := range c.Alignment.Entries {
		switch e.Tag {
		case TagMatched:
			b.WriteString("✅ MATCHED: " + markdownBlock(e.Draft) + "\n")
		case TagMissing:
			b.WriteString("🟥 MISSING: " + markdownBlock(e.Draft) + "\n")
		case TagCurrent:
			b.WriteString("🟩 CURRENT: " + markdownBlock(e.Live) + "\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

// FormatMarkdownFailure renders the Markdown section of a pair that could
// not be compared.
func FormatMarkdownFailure(source, url, message string) string {
	return "## " + markdownText(source) + " vs " + markdownText(url) + "\n❌ " + markdownText(message) + "\n\n"
}

// markdownBlock renders a block on a single line. Heading markers become a
// [Hn] prefix so they don't turn into HTML headings mid-list.
func markdownBlock(block string) string {
	if level, text, ok := HeadingLevel(block); ok {
		return fmt.Sprintf("[H%d] %s", level, markdownText(text))
	}
	return markdownText(block)
}

// markdownText escapes markup and folds line breaks so arbitrary text
// cannot open HTML elements or break the one-line-per-block layout.
func markdownText(s string) string {
	s = template.HTMLEscapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
