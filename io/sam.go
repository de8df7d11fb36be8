package io

import (
	"io"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"

	"github.com/nadernamini/rna-seq-read-algn/aligner"
)

var nmTag = sam.NewTag("NM")

// WriteAlignments emits one SAM record per read: aligned reads carry a
// CIGAR whose matched pieces are M runs separated by N skips for intron
// gaps (read gaps mirrored on the genome extend the M runs, S clips the
// ends), unaligned reads come out flagged unmapped.
func WriteAlignments(w io.Writer, refName string, refLen int, names []string, reads [][]byte, results []aligner.ReadResult) error {
	ref, err := sam.NewReference(refName, "", "", refLen, nil, nil)
	if err != nil {
		return errors.Wrap(err, "sam: reference")
	}
	header, err := sam.NewHeader(nil, []*sam.Reference{ref})
	if err != nil {
		return errors.Wrap(err, "sam: header")
	}
	sw, err := sam.NewWriter(w, header, sam.FlagDecimal)
	if err != nil {
		return errors.Wrap(err, "sam: writer")
	}

	for i, read := range reads {
		res := results[i]
		qual := make([]byte, len(read))
		for j := range qual {
			qual[j] = 0xff
		}

		if !res.Aligned {
			rec, err := sam.NewRecord(names[i], nil, nil, -1, -1, 0, 0, nil, read, qual, nil)
			if err != nil {
				return errors.Wrapf(err, "sam: record %s", names[i])
			}
			rec.Flags |= sam.Unmapped
			if err := sw.Write(rec); err != nil {
				return errors.Wrapf(err, "sam: write %s", names[i])
			}
			continue
		}

		cigar := buildCigar(len(read), res)
		pos := res.Alignment[0].RefStart
		// MAPQ 255 marks the quality as unavailable; the core does not
		// compute one.
		rec, err := sam.NewRecord(names[i], ref, nil, pos, -1, 0, 0xff, cigar, read, qual, nil)
		if err != nil {
			return errors.Wrapf(err, "sam: record %s", names[i])
		}
		if aux, err := sam.NewAux(nmTag, res.Mismatches); err == nil {
			rec.AuxFields = append(rec.AuxFields, aux)
		}
		if err := sw.Write(rec); err != nil {
			return errors.Wrapf(err, "sam: write %s", names[i])
		}
	}
	return nil
}

func buildCigar(readLen int, res aligner.ReadResult) sam.Cigar {
	var cigar sam.Cigar
	appendOp := func(op sam.CigarOpType, n int) {
		if n <= 0 {
			return
		}
		if last := len(cigar) - 1; last >= 0 && cigar[last].Type() == op {
			cigar[last] = sam.NewCigarOp(op, cigar[last].Len()+n)
			return
		}
		cigar = append(cigar, sam.NewCigarOp(op, n))
	}
	pieces := res.Alignment

	appendOp(sam.CigarSoftClipped, pieces[0].ReadStart)
	for i, p := range pieces {
		if i > 0 {
			prev := pieces[i-1]
			readGap := p.ReadStart - (prev.ReadStart + prev.Length)
			refDelta := p.RefStart - (prev.RefStart + prev.Length)
			// The chain admits a read gap only when the reference advances
			// by at least as much: the mirrored bases align one to one and
			// only the excess reference advance is an intron. Both read and
			// reference coordinates must add up to the next piece's start.
			appendOp(sam.CigarMatch, readGap)
			appendOp(sam.CigarSkipped, refDelta-readGap)
		}
		appendOp(sam.CigarMatch, p.Length)
	}
	last := pieces[len(pieces)-1]
	appendOp(sam.CigarSoftClipped, readLen-(last.ReadStart+last.Length))
	return cigar
}
