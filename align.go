package pagedrift

import (
	"slices"
	"strings"
)

// Tag classifies an alignment entry.
type Tag string

// Alignment tags.
const (
	// TagMatched pairs a draft block with an equivalent live block.
	TagMatched Tag = "matched"

	// TagMissing marks a draft block with no live counterpart.
	TagMissing Tag = "missing"

	// TagCurrent marks a live block with no draft counterpart.
	TagCurrent Tag = "current"
)

// Entry is one row of an alignment.
type Entry struct {
	Tag   Tag
	Draft string
	Live  string

	// LiveBlocks holds the indices of the live blocks consumed by this
	// entry. Partial matches may consume several blocks; missing entries
	// and the leftovers of a partial match consume none.
	LiveBlocks []int
}

// Alignment is the tagged correspondence between draft and live blocks.
type Alignment struct {
	Entries []Entry

	// Similarity is the ratio over the full draft and live texts,
	// independent of the per-block entries.
	Similarity float64
}

// Count returns the number of entries with the given tag.
func (a *Alignment) Count(tag Tag) int {
	var n int
	for _, e := range a.Entries {
		if e.Tag == tag {
			n++
		}
	}
	return n
}

// SimilarityFunc scores two strings in [0,1]. It must be symmetric and
// return 1.0 only for identical strings.
type SimilarityFunc func(a, b string) float64

// Default alignment thresholds.
const (
	DefaultThreshold        = 0.9
	DefaultPartialThreshold = 0.8
)

// Aligner aligns draft blocks against live blocks.
//
// Each draft block claims the most similar unclaimed live block when the
// score reaches Threshold. Otherwise sentences of the draft block are
// compared with sentences of every unclaimed live block and fragments
// scoring above PartialThreshold are combined into one synthetic match.
// Sentences of those live blocks that matched nothing follow the match as
// current entries. Draft blocks left over are missing; live blocks never
// claimed are current.
type Aligner struct {
	Similarity       SimilarityFunc
	Threshold        float64
	PartialThreshold float64
}

// NewAligner returns an Aligner with the default thresholds.
func NewAligner(similarity SimilarityFunc) *Aligner {
	return &Aligner{
		Similarity:       similarity,
		Threshold:        DefaultThreshold,
		PartialThreshold: DefaultPartialThreshold,
	}
}

// Align splits both normalized texts into blocks and aligns them.
func (a *Aligner) Align(draft, live string) Alignment {
	draftBlocks := SplitBlocks(draft)
	liveBlocks := SplitBlocks(live)

	var entries []Entry
	draftStart, liveStart := 0, 0

	// Blocks before the first <h1> on either side are boilerplate
	// (breadcrumbs, navigation) and are reported without matching.
	if d, l := anchorIndex(draftBlocks), anchorIndex(liveBlocks); d >= 0 && l >= 0 {
		for _, block := range draftBlocks[:d] {
			entries = append(entries, Entry{Tag: TagMissing, Draft: block})
		}
		for i, block := range liveBlocks[:l] {
			entries = append(entries, Entry{Tag: TagCurrent, Live: block, LiveBlocks: []int{i}})
		}
		draftStart, liveStart = d, l
	}

	claimed := make(map[int]bool)
	for _, block := range draftBlocks[draftStart:] {
		for _, entry := range a.alignBlock(block, liveBlocks, liveStart, claimed) {
			for _, i := range entry.LiveBlocks {
				claimed[i] = true
			}
			entries = append(entries, entry)
		}
	}

	for i := liveStart; i < len(liveBlocks); i++ {
		if !claimed[i] {
			entries = append(entries, Entry{Tag: TagCurrent, Live: liveBlocks[i], LiveBlocks: []int{i}})
		}
	}

	return Alignment{
		Entries:    entries,
		Similarity: a.Similarity(draft, live),
	}
}

// alignBlock decides the entries for one draft block. The first entry is
// always the draft block's own. It reads claimed but never modifies it; the
// caller claims the returned LiveBlocks.
func (a *Aligner) alignBlock(block string, live []string, start int, claimed map[int]bool) []Entry {
	best, score := a.bestMatch(block, live, start, claimed)
	if best >= 0 && score >= a.Threshold {
		return []Entry{{Tag: TagMatched, Draft: block, Live: live[best], LiveBlocks: []int{best}}}
	}

	partial := a.partialMatch(block, live, start, claimed)
	if len(partial.fragments) == 0 {
		return []Entry{{Tag: TagMissing, Draft: block}}
	}

	entries := []Entry{{
		Tag:        TagMatched,
		Draft:      block,
		Live:       strings.Join(partial.fragments, " "),
		LiveBlocks: partial.sources,
	}}
	for _, rest := range partial.leftovers {
		entries = append(entries, Entry{Tag: TagCurrent, Live: rest})
	}
	return entries
}

// bestMatch returns the index and score of the unclaimed live block most
// similar to block. On ties the earliest block wins. Returns -1 when no
// unclaimed block scores above zero.
func (a *Aligner) bestMatch(block string, live []string, start int, claimed map[int]bool) (int, float64) {
	best, bestScore := -1, 0.0
	for i := start; i < len(live); i++ {
		if claimed[i] {
			continue
		}
		if score := a.Similarity(block, live[i]); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore
}

// partial is the outcome of matching a draft block sentence by sentence.
type partial struct {
	fragments []string // matching live sentences, in live order
	sources   []int    // live blocks the fragments came from
	leftovers []string // unmatched sentences of each source block, verbatim
}

// partialMatch collects live sentences resembling any sentence of block.
func (a *Aligner) partialMatch(block string, live []string, start int, claimed map[int]bool) partial {
	var p partial
	draftSentences := SplitSentences(block)
	if len(draftSentences) == 0 {
		return p
	}

	for i := start; i < len(live); i++ {
		if claimed[i] {
			continue
		}
		spans := sentenceSpans(live[i])
		used := make([]bool, len(spans))
		for _, ds := range draftSentences {
			for j, span := range spans {
				ls := trimSentence(span)
				if a.Similarity(ds, ls) > a.PartialThreshold {
					p.fragments = append(p.fragments, ls)
					used[j] = true
				}
			}
		}
		if !slices.Contains(used, true) {
			continue
		}
		p.sources = append(p.sources, i)

		var rest []string
		for j, span := range spans {
			if !used[j] {
				rest = append(rest, span)
			}
		}
		if len(rest) > 0 {
			p.leftovers = append(p.leftovers, strings.Join(rest, " "))
		}
	}
	return p
}

// SplitSentences splits text on sentence-ending punctuation.
// Fragments are trimmed and empty fragments are dropped.
func SplitSentences(text string) []string {
	spans := sentenceSpans(text)
	sentences := make([]string, 0, len(spans))
	for _, span := range spans {
		sentences = append(sentences, trimSentence(span))
	}
	return sentences
}

// sentenceSpans splits text into trimmed sentences that keep their ending
// punctuation. Spans holding only punctuation are dropped.
func sentenceSpans(text string) []string {
	var spans []string
	emit := func(span string) {
		if span = strings.TrimSpace(span); trimSentence(span) != "" {
			spans = append(spans, span)
		}
	}

	begin := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) {
			continue
		}
		for i+1 < len(runes) && isSentenceEnd(runes[i+1]) {
			i++
		}
		emit(string(runes[begin : i+1]))
		begin = i + 1
	}
	emit(string(runes[begin:]))
	return spans
}

func trimSentence(span string) string {
	return strings.TrimSpace(strings.TrimRightFunc(strings.TrimSpace(span), isSentenceEnd))
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// anchorIndex returns the index of the first level-one heading block, or -1.
func anchorIndex(blocks []string) int {
	for i, block := range blocks {
		if level, _, ok := HeadingLevel(block); ok && level == 1 {
			return i
		}
	}
	return -1
}
