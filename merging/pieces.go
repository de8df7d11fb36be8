package merging

import (
	"github.com/nadernamini/rna-seq-read-algn/common"
)

// MergeContiguous merges consecutive alignment pieces that are adjacent on
// both the read and the genome into one piece. Input pieces MUST be sorted
// by ReadStart.
func MergeContiguous(pieces common.Alignment) common.Alignment {
	if len(pieces) <= 1 {
		out := make(common.Alignment, len(pieces))
		copy(out, pieces)
		return out
	}
	merged := common.Alignment{pieces[0]}
	for i := 1; i < len(pieces); i++ {
		last := &merged[len(merged)-1]
		next := pieces[i]
		if next.ReadStart == last.ReadStart+last.Length &&
			next.RefStart == last.RefStart+last.Length {
			last.Length += next.Length
		} else {
			merged = append(merged, next)
		}
	}
	return merged
}

// EnforceOrder drops pieces that overlap their predecessor on the read, so
// the returned alignment always satisfies
// ReadStart[i+1] >= ReadStart[i]+Length[i]. The core never emits an
// inconsistent alignment: an offending piece is dropped, not returned.
func EnforceOrder(pieces common.Alignment) common.Alignment {
	if len(pieces) <= 1 {
		return pieces
	}
	out := common.Alignment{pieces[0]}
	for i := 1; i < len(pieces); i++ {
		last := out[len(out)-1]
		if pieces[i].ReadStart >= last.ReadStart+last.Length {
			out = append(out, pieces[i])
		}
	}
	return out
}
