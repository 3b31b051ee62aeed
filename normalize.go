package pagedrift

import (
	"regexp"
	"strings"
)

var (
	newlineRunRe = regexp.MustCompile(`\n{3,}`)
	blankRunRe   = regexp.MustCompile(`[ \t]+`)
)

// Normalize collapses whitespace noise into a canonical form.
// Carriage returns are removed, runs of three or more newlines become the
// block separator, runs of spaces and tabs become a single space and the
// result is trimmed. Normalize is idempotent.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = newlineRunRe.ReplaceAllString(text, BlockSeparator)
	text = blankRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
