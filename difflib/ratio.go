// Package difflib implements the similarity ratio used by the block aligner
// on top of github.com/pmezard/go-difflib.
package difflib

import (
	"strings"

	"github.com/fwojciec/pagedrift"
	"github.com/pmezard/go-difflib/difflib"
)

var _ pagedrift.SimilarityFunc = Ratio

// Ratio returns the character-level similarity of a and b in [0,1], computed
// as 2*M/T where M is the number of matched characters and T the combined
// length. Identical strings score exactly 1.
//
// SequenceMatcher is not symmetric on its own, so the arguments are put in a
// canonical order before matching.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a > b {
		a, b = b, a
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
