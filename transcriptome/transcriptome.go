package transcriptome

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/nadernamini/rna-seq-read-algn/common"
	"github.com/nadernamini/rna-seq-read-algn/config"
)

// ExonSpan locates one exon inside an isoform's spliced sequence:
// spliced bases [SplicedStart, SplicedStart+Length) come from genome bases
// [GenomeStart, GenomeStart+Length).
type ExonSpan struct {
	SplicedStart int
	GenomeStart  int
	Length       int
}

// Entry is the derived, read-only record for one isoform: its spliced mRNA
// sequence and the prefix table used to project spliced offsets back to
// genome coordinates.
type Entry struct {
	GeneID    string
	IsoformID string
	Seq       []byte
	Spans     []ExonSpan
}

// Transcriptome holds one Entry per isoform of the current gene set.
// Rebuilt whenever the gene set changes; read-only afterward.
type Transcriptome struct {
	Entries []Entry
}

// Build concatenates the exon sequences of every isoform of every gene.
// Exon coordinates are validated against the genome before any sequence is
// sliced.
func Build(genes []common.Gene, genome []byte) (*Transcriptome, error) {
	t := &Transcriptome{}
	for _, g := range genes {
		for _, iso := range g.Isoforms {
			entry := Entry{
				GeneID:    g.ID,
				IsoformID: iso.ID,
				Seq:       make([]byte, 0, iso.SplicedLen()),
			}
			spliced := 0
			for _, e := range iso.Exons {
				if e.Start < 0 || e.End > len(genome) || e.End <= e.Start {
					return nil, errors.Errorf(
						"transcriptome: exon %s of isoform %s has invalid bounds [%d, %d)",
						e.ID, iso.ID, e.Start, e.End)
				}
				entry.Seq = append(entry.Seq, genome[e.Start:e.End]...)
				entry.Spans = append(entry.Spans, ExonSpan{
					SplicedStart: spliced,
					GenomeStart:  e.Start,
					Length:       e.Len(),
				})
				spliced += e.Len()
			}
			t.Entries = append(t.Entries, entry)
		}
	}
	return t, nil
}

// Result is a successful transcriptome alignment: the winning isoform, the
// offset of the read inside its spliced sequence, the mismatch count, and
// the genome-coordinate pieces of the match.
type Result struct {
	GeneID     string
	IsoformID  string
	Offset     int
	Mismatches int
	Pieces     common.Alignment
}

// Align slides read over every offset of every isoform's spliced sequence,
// counting mismatches with early cutoff at config.MaxReadMismatch, and keeps
// the offset with the fewest mismatches. Ties are broken by isoform
// identifier, then gene identifier, so the result does not depend on the
// iteration order of the gene set. The second return is false when no
// isoform contains the read within the mismatch ceiling.
func (t *Transcriptome) Align(read []byte) (Result, bool) {
	best := Result{Mismatches: config.MaxReadMismatch + 1}
	found := false
	for i := range t.Entries {
		e := &t.Entries[i]
		offset, mismatches, ok := scan(e.Seq, read, config.MaxReadMismatch)
		if !ok {
			continue
		}
		if !found || mismatches < best.Mismatches ||
			(mismatches == best.Mismatches && lessEntry(e, best)) {
			best = Result{
				GeneID:     e.GeneID,
				IsoformID:  e.IsoformID,
				Offset:     offset,
				Mismatches: mismatches,
			}
			found = true
		}
	}
	if !found {
		return Result{}, false
	}
	for i := range t.Entries {
		e := &t.Entries[i]
		if e.IsoformID == best.IsoformID && e.GeneID == best.GeneID {
			best.Pieces = e.Project(best.Offset, len(read))
			break
		}
	}
	return best, true
}

func lessEntry(e *Entry, current Result) bool {
	if e.IsoformID != current.IsoformID {
		return e.IsoformID < current.IsoformID
	}
	return e.GeneID < current.GeneID
}

// scan returns the offset of read in seq with the fewest mismatches, at
// most ceiling. Counting aborts early once a window exceeds the ceiling.
func scan(seq, read []byte, ceiling int) (offset, mismatches int, ok bool) {
	bestOffset, bestMismatches := -1, ceiling+1
	for off := 0; off+len(read) <= len(seq); off++ {
		count := 0
		for i := 0; i < len(read); i++ {
			if seq[off+i] != read[i] {
				count++
				if count >= bestMismatches {
					break
				}
			}
		}
		if count < bestMismatches {
			bestOffset, bestMismatches = off, count
			if count == 0 {
				break
			}
		}
	}
	if bestOffset < 0 {
		return 0, 0, false
	}
	return bestOffset, bestMismatches, true
}

// Project translates the spliced interval [offset, offset+length) into
// genome-coordinate alignment pieces, splitting at exon junctions. Piece
// lengths always sum to length, and a junction-spanning match yields one
// piece per exon with the boundary exactly at the junction.
func (e *Entry) Project(offset, length int) common.Alignment {
	var out common.Alignment
	readStart := 0
	for length > 0 {
		i := sort.Search(len(e.Spans), func(i int) bool {
			return e.Spans[i].SplicedStart > offset
		}) - 1
		span := e.Spans[i]
		within := offset - span.SplicedStart
		n := span.Length - within
		if n > length {
			n = length
		}
		out = append(out, common.AlignmentPiece{
			ReadStart: readStart,
			RefStart:  span.GenomeStart + within,
			Length:    n,
		})
		readStart += n
		offset += n
		length -= n
	}
	return out
}
