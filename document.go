package pagedrift

import (
	"strconv"
	"strings"
)

// Paragraph is one paragraph of a draft document with its style name.
type Paragraph struct {
	Text  string
	Style string
}

// DocumentReader reads the paragraphs of a draft document.
type DocumentReader interface {
	// ReadDocument returns paragraphs in document order.
	// Corrupt or unsupported files return EDOCREAD.
	ReadDocument(path string) ([]Paragraph, error)
}

// DocumentText converts paragraphs into a normalized block text.
// Empty paragraphs are skipped and heading styles are wrapped in heading
// markers, matching what the HTML extractor produces for live pages.
func DocumentText(paragraphs []Paragraph) string {
	blocks := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		if level := StyleHeadingLevel(p.Style); level > 0 {
			text = HeadingBlock(level, text)
		}
		blocks = append(blocks, text)
	}
	return Normalize(JoinBlocks(blocks))
}

// StyleHeadingLevel returns the heading level named by a paragraph style
// such as "Heading 2" or "heading2", or 0 for non-heading styles.
func StyleHeadingLevel(style string) int {
	s := strings.ToLower(strings.TrimSpace(style))
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	level, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(s, "heading")))
	if err != nil || level < 1 || level > 6 {
		return 0
	}
	return level
}
