package matching

import (
	"sort"

	"github.com/nadernamini/rna-seq-read-algn/index"
)

// Interval is a half-open row range [Lo, Hi) in a suffix array.
type Interval struct {
	Lo int
	Hi int
}

// Empty reports whether the interval contains no rows.
func (iv Interval) Empty() bool {
	return iv.Lo >= iv.Hi
}

// Size returns the number of rows in the interval.
func (iv Interval) Size() int {
	if iv.Empty() {
		return 0
	}
	return iv.Hi - iv.Lo
}

// Match performs backward search for the longest suffix of query occurring
// verbatim in the indexed text. It scans query right to left, maintaining
// the suffix-array interval of all text positions matching the scanned tail:
// lo' = C[c] + Occ[c][lo], hi' = C[c] + Occ[c][hi]. The scan stops at the
// first symbol that would empty the interval.
//
// Returns the last non-empty interval and the number of symbols consumed
// (len(query) when the whole query matched). A matched length of zero means
// not even the final symbol occurs in the text; the returned interval is
// then the full row range and carries no information.
func Match(idx *index.Index, query []byte) (Interval, int) {
	iv := Interval{0, idx.Len()}
	matched := 0
	for i := len(query) - 1; i >= 0; i-- {
		c := query[i]
		first, ok := idx.First(c)
		if !ok {
			break
		}
		lo := first + idx.Rank(c, iv.Lo)
		hi := first + idx.Rank(c, iv.Hi)
		if lo >= hi {
			break
		}
		iv = Interval{lo, hi}
		matched++
	}
	return iv, matched
}

// Positions materializes the text positions of an interval, sorted
// ascending, keeping at most max entries (max <= 0 means no cap).
func Positions(idx *index.Index, iv Interval, max int) []int {
	if iv.Empty() {
		return nil
	}
	out := make([]int, 0, iv.Size())
	for row := iv.Lo; row < iv.Hi; row++ {
		out = append(out, int(idx.SA[row]))
	}
	sort.Ints(out)
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
