package index

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/nadernamini/rna-seq-read-algn/config"
	"github.com/nadernamini/rna-seq-read-algn/sequence"
)

// Index is an immutable FM-index over one terminated text: the suffix array,
// the BWT string derived from it, the first-occurrence table C and the
// per-symbol occurrence (rank) table Occ. All query functions take the Index
// by reference and never mutate it, so a single instance may be shared by
// any number of goroutines.
type Index struct {
	Text []byte
	SA   []int32
	BWT  []byte

	C    map[byte]int32
	Occ  map[byte][]int32
	Freq map[byte]int32

	Symbols []byte
	EndPos  int32
}

// New builds the FM-index of a terminated text. Texts at or below
// config.NaiveBuildMaxLen are sorted with the parallel comparison builder,
// longer ones with induced sorting.
func New(text []byte) (*Index, error) {
	var sa []int32
	var err error
	if len(text) <= config.NaiveBuildMaxLen {
		sa, err = BuildNaive(text)
	} else {
		sa, err = Build(text)
	}
	if err != nil {
		return nil, err
	}
	return newFromSA(text, sa), nil
}

// NewPair builds the forward index over genome and the reverse index over
// the reversed genome concurrently. The reverse index supports matching
// read suffixes from the other end of the read.
func NewPair(genome []byte) (fwd, rev *Index, err error) {
	fwdText, err := sequence.Terminate(genome)
	if err != nil {
		return nil, nil, errors.Wrap(err, "index: genome")
	}
	revText, err := sequence.Terminate(sequence.Reverse(genome))
	if err != nil {
		return nil, nil, errors.Wrap(err, "index: reversed genome")
	}

	var fwdErr, revErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		fwd, fwdErr = New(fwdText)
	}()
	go func() {
		defer wg.Done()
		rev, revErr = New(revText)
	}()
	wg.Wait()
	if fwdErr != nil {
		return nil, nil, fwdErr
	}
	if revErr != nil {
		return nil, nil, revErr
	}
	return fwd, rev, nil
}

// newFromSA derives the BWT and both lookup tables from text and its suffix
// array. Pure function of its inputs.
func newFromSA(text []byte, sa []int32) *Index {
	x := &Index{
		Text: text,
		SA:   sa,
		BWT:  make([]byte, len(text)),
		C:    make(map[byte]int32),
		Occ:  make(map[byte][]int32),
		Freq: make(map[byte]int32),
	}

	n := int32(len(text))
	for i := int32(0); i < n; i++ {
		x.Freq[text[i]]++
		if sa[i] == 0 {
			// Row of the terminator's rotation wraps to the last symbol.
			x.BWT[i] = text[n-1]
		} else {
			x.BWT[i] = text[sa[i]-1]
		}
		if x.BWT[i] == sequence.Terminator {
			x.EndPos = i
		}
	}

	x.Symbols = append(x.Symbols, sequence.Terminator)
	x.Symbols = append(x.Symbols, sequence.Alphabet()...)

	// C[c] is the number of symbols strictly smaller than c over the whole
	// text; symbols are already in lexicographic order.
	var smaller int32
	for _, c := range x.Symbols {
		x.C[c] = smaller
		smaller += x.Freq[c]
	}

	// Occ[c][p] counts c within BWT[:p]. One prefix-sum pass per symbol,
	// run in parallel.
	var wg sync.WaitGroup
	for _, c := range x.Symbols {
		occ := make([]int32, n+1)
		x.Occ[c] = occ
		wg.Add(1)
		go func(c byte, occ []int32) {
			defer wg.Done()
			var count int32
			for i := int32(0); i < n; i++ {
				if x.BWT[i] == c {
					count++
				}
				occ[i+1] = count
			}
		}(c, occ)
	}
	wg.Wait()
	return x
}

// Len returns the length of the indexed text, terminator included.
func (x *Index) Len() int {
	return len(x.Text)
}

// Rank returns the number of occurrences of c in BWT[:prefix].
func (x *Index) Rank(c byte, prefix int) int {
	occ, ok := x.Occ[c]
	if !ok {
		return 0
	}
	return int(occ[prefix])
}

// First returns the first row of the conceptually sorted rotation matrix
// beginning with c, and whether c occurs at all.
func (x *Index) First(c byte) (int, bool) {
	offset, ok := x.C[c]
	if !ok || x.Freq[c] == 0 {
		return 0, false
	}
	return int(offset), true
}

// LF maps a BWT row to the row of its left-rotated rotation. Repeated LF
// steps from any row walk the text right to left.
func (x *Index) LF(row int) int {
	c := x.BWT[row]
	return int(x.C[c]) + x.Rank(c, row)
}

// SizeBytes reports the approximate in-memory footprint of the index.
func (x *Index) SizeBytes() int {
	size := len(x.Text) + len(x.BWT) + 4*len(x.SA)
	for _, occ := range x.Occ {
		size += 4 * len(occ)
	}
	return size
}
