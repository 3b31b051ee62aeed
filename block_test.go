package pagedrift_test

import (
	"testing"

	"github.com/fwojciec/pagedrift"
	"github.com/stretchr/testify/assert"
)

func TestSplitBlocks(t *testing.T) {
	t.Parallel()

	t.Run("drops empty blocks and trims", func(t *testing.T) {
		t.Parallel()
		blocks := pagedrift.SplitBlocks("a\n\n b \n\n\n\nc")
		assert.Equal(t, []string{"a", "b", "c"}, blocks)
	})

	t.Run("returns nil for empty text", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, pagedrift.SplitBlocks(""))
		assert.Empty(t, pagedrift.SplitBlocks("  \n\n  "))
	})

	t.Run("round trips joined blocks", func(t *testing.T) {
		t.Parallel()
		blocks := []string{"<h1>Title</h1>", "First paragraph.", "Q: Is it free?", "A: Yes."}
		assert.Equal(t, blocks, pagedrift.SplitBlocks(pagedrift.JoinBlocks(blocks)))
	})

	t.Run("keeps single newlines inside a block", func(t *testing.T) {
		t.Parallel()
		blocks := pagedrift.SplitBlocks("line one\nline two\n\nnext")
		assert.Equal(t, []string{"line one\nline two", "next"}, blocks)
	})
}

func TestHeadingLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block string
		level int
		text  string
		ok    bool
	}{
		{"level two heading", "<h2>Pricing</h2>", 2, "Pricing", true},
		{"level one heading", pagedrift.HeadingBlock(1, "Welcome"), 1, "Welcome", true},
		{"mismatched levels", "<h2>Pricing</h3>", 0, "<h2>Pricing</h3>", false},
		{"level out of range", "<h7>Pricing</h7>", 0, "<h7>Pricing</h7>", false},
		{"marker not at start", "Intro <h1>Welcome</h1>", 0, "Intro <h1>Welcome</h1>", false},
		{"plain text", "Plain text", 0, "Plain text", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			level, text, ok := pagedrift.HeadingLevel(tt.block)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.text, text)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestErrorBlock(t *testing.T) {
	t.Parallel()

	block := pagedrift.ErrorBlock("No content found on page")

	assert.Equal(t, "[ERROR: No content found on page]", block)
	assert.True(t, pagedrift.IsErrorBlock(block))
	assert.True(t, pagedrift.IsErrorBlock("  "+block+"\n"))
	assert.False(t, pagedrift.IsErrorBlock("An [ERROR] in the middle"))
}
