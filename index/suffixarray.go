package index

import (
	"bytes"
	"sort"

	psort "github.com/exascience/pargo/sort"
	"github.com/pkg/errors"

	"github.com/nadernamini/rna-seq-read-algn/sequence"
)

// Build computes the suffix array of a terminated text using SA-IS induced
// sorting. The unique trailing terminator guarantees that no two suffixes
// compare equal, so the resulting order is the unique lexicographic one.
func Build(text []byte) ([]int32, error) {
	if !sequence.Terminated(text) {
		return nil, errors.New("index: text is not a terminated DNA sequence")
	}
	s, k := encodeText(text)
	sa := sais(s, k, make([]int, len(s)), make([]int, len(s)))
	out := make([]int32, len(sa))
	for i, v := range sa {
		out[i] = int32(v)
	}
	return out, nil
}

// BuildNaive computes the suffix array by parallel stable comparison sort of
// all suffix start positions. Quadratic in the worst case; meant for small
// texts and as an oracle for Build in tests.
func BuildNaive(text []byte) ([]int32, error) {
	if !sequence.Terminated(text) {
		return nil, errors.New("index: text is not a terminated DNA sequence")
	}
	pos := make([]int32, len(text))
	for i := range pos {
		pos[i] = int32(i)
	}
	psort.StableSort(suffixSorter{text: text, pos: pos})
	return pos, nil
}

// suffixSorter sorts suffix start positions lexicographically. It implements
// pargo's StableSorter so large position slices sort in parallel.
type suffixSorter struct {
	text []byte
	pos  []int32
}

func (s suffixSorter) Len() int {
	return len(s.pos)
}

func (s suffixSorter) Less(i, j int) bool {
	return bytes.Compare(s.text[s.pos[i]:], s.text[s.pos[j]:]) < 0
}

func (s suffixSorter) SequentialSort(i, j int) {
	pos, text := s.pos[i:j], s.text
	sort.Slice(pos, func(a, b int) bool {
		return bytes.Compare(text[pos[a]:], text[pos[b]:]) < 0
	})
}

func (s suffixSorter) NewTemp() psort.StableSorter {
	return suffixSorter{text: s.text, pos: make([]int32, len(s.pos))}
}

func (s suffixSorter) Assign(p psort.StableSorter) func(i, j, len int) {
	dst, src := s.pos, p.(suffixSorter).pos
	return func(i, j, len int) {
		for k := 0; k < len; k++ {
			dst[i+k] = src[j+k]
		}
	}
}

// encodeText maps text bytes onto the compact alphabet 0..k-1 expected by
// sais. The terminator maps to 0 and is the unique minimum.
func encodeText(text []byte) ([]int, int) {
	var rank [256]int
	rank[sequence.Terminator] = 0
	for i, b := range sequence.Alphabet() {
		rank[b] = i + 1
	}
	s := make([]int, len(text))
	for i, b := range text {
		s[i] = rank[b]
	}
	return s, len(sequence.Alphabet()) + 1
}

// sais computes the suffix array of s over alphabet 0..k-1. The last element
// of s must be the unique minimum (the sentinel).
func sais(s []int, k int, sa, names []int) []int {
	n := len(s)
	sa = sa[:n]
	for i := range sa {
		sa[i] = -1
	}
	if n == 0 {
		return sa
	}
	if n == 1 {
		sa[0] = 0
		return sa
	}

	// Classify suffixes: t[i] true means suffix i is S-type.
	t := make([]bool, n)
	t[n-1] = true
	for i := n - 2; i >= 0; i-- {
		if s[i] < s[i+1] {
			t[i] = true
		} else if s[i] > s[i+1] {
			t[i] = false
		} else {
			t[i] = t[i+1]
		}
	}

	var lms []int
	for i := 1; i < n; i++ {
		if t[i] && !t[i-1] {
			lms = append(lms, i)
		}
	}
	sa = induceSort(s, sa, t, k, lms)

	// Name LMS substrings in their sorted order.
	var sortedLMS []int
	for _, pos := range sa {
		if pos > 0 && t[pos] && !t[pos-1] {
			sortedLMS = append(sortedLMS, pos)
		}
	}
	names = names[:n]
	for i := range names {
		names[i] = -1
	}
	name := 0
	prev := -1
	for _, pos := range sortedLMS {
		if prev != -1 && !lmsEqual(s, t, prev, pos) {
			name++
		}
		names[pos] = name
		prev = pos
	}
	numNames := name + 1

	reduced := make([]int, 0, len(lms))
	for _, pos := range lms {
		reduced = append(reduced, names[pos])
	}
	var reducedSA []int
	if numNames < len(reduced) {
		reducedSA = sais(reduced, numNames, sa, names)
	} else {
		reducedSA = make([]int, len(reduced))
		for i, nm := range reduced {
			reducedSA[nm] = i
		}
	}

	ordered := make([]int, len(reducedSA))
	for i, idx := range reducedSA {
		ordered[i] = lms[idx]
	}
	for i := range sa {
		sa[i] = -1
	}
	return induceSort(s, sa, t, k, ordered)
}

func induceSort(s, sa []int, t []bool, k int, lms []int) []int {
	sizes := bucketSizes(s, k)

	tails := bucketTails(sizes)
	for i := len(lms) - 1; i >= 0; i-- {
		pos := lms[i]
		c := s[pos]
		sa[tails[c]] = pos
		tails[c]--
	}

	heads := bucketHeads(sizes)
	for i := range sa {
		pos := sa[i]
		if pos > 0 && !t[pos-1] {
			c := s[pos-1]
			sa[heads[c]] = pos - 1
			heads[c]++
		}
	}

	tails = bucketTails(sizes)
	for i := len(sa) - 1; i >= 0; i-- {
		pos := sa[i]
		if pos > 0 && t[pos-1] {
			c := s[pos-1]
			sa[tails[c]] = pos - 1
			tails[c]--
		}
	}
	return sa
}

func bucketSizes(s []int, k int) []int {
	sizes := make([]int, k)
	for _, c := range s {
		sizes[c]++
	}
	return sizes
}

func bucketHeads(sizes []int) []int {
	heads := make([]int, len(sizes))
	sum := 0
	for i, v := range sizes {
		heads[i] = sum
		sum += v
	}
	return heads
}

func bucketTails(sizes []int) []int {
	tails := make([]int, len(sizes))
	sum := 0
	for i, v := range sizes {
		sum += v
		tails[i] = sum - 1
	}
	return tails
}

func lmsEqual(s []int, t []bool, i, j int) bool {
	n := len(s)
	for offset := 0; ; offset++ {
		// The starting positions are LMS boundaries themselves; only a
		// boundary reached after advancing ends the substring.
		iLMS := i > 0 && t[i] && !t[i-1]
		jLMS := j > 0 && t[j] && !t[j-1]
		if offset > 0 {
			if iLMS && jLMS {
				return true
			}
			if iLMS != jLMS {
				return false
			}
		}
		if s[i] != s[j] {
			return false
		}
		i++
		j++
		if i >= n || j >= n {
			return false
		}
	}
}
