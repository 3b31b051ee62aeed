package fs

import (
	"bufio"
	"os"
	"strings"

	"github.com/fwojciec/pagedrift"
)

// Ensure TextReader implements pagedrift.DocumentReader at compile time.
var _ pagedrift.DocumentReader = (*TextReader)(nil)

// TextReader reads plain text drafts. Paragraphs are separated by blank
// lines and the lines of a paragraph are joined with a space. Plain text
// has no styles, so every paragraph is body text.
type TextReader struct{}

// NewTextReader creates a new TextReader.
func NewTextReader() *TextReader {
	return &TextReader{}
}

// ReadDocument returns the paragraphs of the text file at path.
func (r *TextReader) ReadDocument(path string) ([]pagedrift.Paragraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pagedrift.Errorf(pagedrift.EDOCREAD, "opening %s: %v", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []pagedrift.Paragraph
	var lines []string
	flush := func() {
		if len(lines) > 0 {
			paragraphs = append(paragraphs, pagedrift.Paragraph{Text: strings.Join(lines, " ")})
			lines = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, pagedrift.Errorf(pagedrift.EDOCREAD, "reading %s: %v", path, err)
	}
	return paragraphs, nil
}
