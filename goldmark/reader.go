// Package goldmark reads Markdown drafts with github.com/yuin/goldmark.
package goldmark

import (
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/pagedrift"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Ensure Reader implements pagedrift.DocumentReader at compile time.
var _ pagedrift.DocumentReader = (*Reader)(nil)

// Reader reads the paragraphs of Markdown files. ATX and setext headings
// get the style "Heading N"; paragraphs, list items and block quotes become
// plain paragraphs. Code and raw HTML blocks are skipped.
type Reader struct {
	md goldmark.Markdown
}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{md: goldmark.New()}
}

// ReadDocument returns the paragraphs of the Markdown file at path.
func (r *Reader) ReadDocument(path string) ([]pagedrift.Paragraph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, pagedrift.Errorf(pagedrift.EDOCREAD, "reading %s: %v", path, err)
	}
	return r.Parse(src), nil
}

// Parse returns the paragraphs of Markdown source.
func (r *Reader) Parse(src []byte) []pagedrift.Paragraph {
	doc := r.md.Parser().Parse(text.NewReader(src))

	var paragraphs []pagedrift.Paragraph
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			paragraphs = append(paragraphs, pagedrift.Paragraph{
				Text:  inlineText(node, src),
				Style: fmt.Sprintf("Heading %d", node.Level),
			})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			paragraphs = append(paragraphs, pagedrift.Paragraph{Text: inlineText(node, src)})
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return paragraphs
}

// inlineText returns the rendered text of the inline children of n with
// emphasis, links and code spans flattened.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	writeInline(&b, n, src)
	return strings.Join(strings.Fields(b.String()), " ")
}

func writeInline(b *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(src))
		case *ast.RawHTML:
			// Inline tags carry no visible text.
		default:
			writeInline(b, c, src)
		}
	}
}
