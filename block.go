package pagedrift

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BlockSeparator separates blocks in a normalized text.
const BlockSeparator = "\n\n"

// SplitBlocks splits a normalized text into blocks on the block separator.
// Blocks are trimmed and empty blocks are dropped.
func SplitBlocks(text string) []string {
	var blocks []string
	for _, block := range strings.Split(text, BlockSeparator) {
		if block = strings.TrimSpace(block); block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// JoinBlocks joins blocks with the block separator.
func JoinBlocks(blocks []string) string {
	return strings.Join(blocks, BlockSeparator)
}

// HeadingBlock wraps text in a heading marker, e.g. <h2>Pricing</h2>.
func HeadingBlock(level int, text string) string {
	return fmt.Sprintf("<h%d>%s</h%d>", level, text, level)
}

var headingBlockRe = regexp.MustCompile(`(?s)^<h([1-6])>(.*)</h([1-6])>$`)

// HeadingLevel reports whether block is a heading block and returns its
// level and the unwrapped text.
func HeadingLevel(block string) (level int, text string, ok bool) {
	m := headingBlockRe.FindStringSubmatch(block)
	if m == nil || m[1] != m[3] {
		return 0, block, false
	}
	level, _ = strconv.Atoi(m[1])
	return level, m[2], true
}

// ErrorBlock returns the sentinel block reported in place of page content
// when extraction fails.
func ErrorBlock(message string) string {
	return "[ERROR: " + message + "]"
}

// IsErrorBlock reports whether text is an extraction failure sentinel.
func IsErrorBlock(text string) bool {
	text = strings.TrimSpace(text)
	return strings.HasPrefix(text, "[ERROR") && strings.HasSuffix(text, "]")
}
