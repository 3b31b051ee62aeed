// Package docx reads Word drafts with github.com/fumiama/go-docx.
package docx

import (
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/fwojciec/pagedrift"
)

// Ensure Reader implements pagedrift.DocumentReader at compile time.
var _ pagedrift.DocumentReader = (*Reader)(nil)

// Reader reads the paragraphs of .docx files. The paragraph style id
// (e.g. "Heading1") is reported as the paragraph style.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadDocument returns the body paragraphs of the document at path.
// Tables and other non-paragraph items are skipped.
func (r *Reader) ReadDocument(path string) ([]pagedrift.Paragraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pagedrift.Errorf(pagedrift.EDOCREAD, "opening %s: %v", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, pagedrift.Errorf(pagedrift.EDOCREAD, "reading %s: %v", path, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, pagedrift.Errorf(pagedrift.EDOCREAD, "parsing %s: %v", path, err)
	}

	var paragraphs []pagedrift.Paragraph
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		paragraphs = append(paragraphs, pagedrift.Paragraph{
			Text:  paragraphText(para),
			Style: paragraphStyle(para),
		})
	}
	return paragraphs, nil
}

func paragraphStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// paragraphText returns the visible text of a paragraph. Tabs and breaks
// become spaces and hyperlinks contribute their text without the target.
func paragraphText(para *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeRun(&b, c)
		case *docx.Hyperlink:
			// go-docx writes link text as instrText rather than w:t runs.
			if !writeRun(&b, &c.Run) {
				b.WriteString(c.Run.InstrText)
			}
		}
	}
	return b.String()
}

// writeRun writes the text of run and reports whether it held any text.
// Field instructions are not visible text and are skipped.
func writeRun(b *strings.Builder, run *docx.Run) bool {
	var wrote bool
	for _, child := range run.Children {
		switch c := child.(type) {
		case *docx.Text:
			b.WriteString(c.Text)
			wrote = true
		case *docx.Tab, *docx.BarterRabbet:
			b.WriteByte(' ')
		}
	}
	return wrote
}
