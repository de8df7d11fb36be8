package sequence

import (
	"github.com/pkg/errors"
)

// Terminator is appended exactly once to every indexed text. It is strictly
// smaller than every alphabet symbol in byte order, so lexicographic
// comparisons need no remapping.
const Terminator = '$'

var alphabet = []byte{'A', 'C', 'G', 'T'}

// Alphabet returns the DNA alphabet in lexicographic order.
func Alphabet() []byte {
	return alphabet
}

// ValidSymbol reports whether b is a DNA alphabet symbol.
func ValidSymbol(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}

// Validate checks that seq contains only DNA alphabet symbols.
func Validate(seq []byte) error {
	for i, b := range seq {
		if !ValidSymbol(b) {
			return errors.Errorf("sequence: invalid symbol %q at offset %d", b, i)
		}
	}
	return nil
}

// Terminate validates seq and returns a copy with the terminator appended.
// The input must not already contain a terminator.
func Terminate(seq []byte) ([]byte, error) {
	if err := Validate(seq); err != nil {
		return nil, err
	}
	out := make([]byte, len(seq)+1)
	copy(out, seq)
	out[len(seq)] = Terminator
	return out, nil
}

// Terminated reports whether text is a valid indexed text: DNA symbols
// followed by exactly one trailing terminator.
func Terminated(text []byte) bool {
	if len(text) == 0 || text[len(text)-1] != Terminator {
		return false
	}
	return Validate(text[:len(text)-1]) == nil
}

// Reverse returns a reversed copy of seq. Plain reversal, not reverse
// complement: the reverse index exists to match read suffixes from the
// other end of the same strand.
func Reverse(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, b := range seq {
		out[len(seq)-1-i] = b
	}
	return out
}
