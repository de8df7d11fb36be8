package aligner

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/nadernamini/rna-seq-read-algn/common"
	"github.com/nadernamini/rna-seq-read-algn/config"
	"github.com/nadernamini/rna-seq-read-algn/graph"
	"github.com/nadernamini/rna-seq-read-algn/index"
	"github.com/nadernamini/rna-seq-read-algn/matching"
	"github.com/nadernamini/rna-seq-read-algn/merging"
	"github.com/nadernamini/rna-seq-read-algn/sequence"
	"github.com/nadernamini/rna-seq-read-algn/transcriptome"
)

// Aligner holds the two FM-indexes (forward genome, reversed genome), the
// optional transcriptome, and the per-read search budgets. All fields are
// immutable after New, so one Aligner serves any number of goroutines.
type Aligner struct {
	Fwd *index.Index
	Rev *index.Index

	Trans *transcriptome.Transcriptome

	SeedCount      int
	MismatchBudget int

	genomeLen int
}

// New indexes the genome in both orientations and, when genes are given,
// builds the transcriptome over them.
func New(genome []byte, genes []common.Gene) (*Aligner, error) {
	fwd, rev, err := index.NewPair(genome)
	if err != nil {
		return nil, err
	}
	a := &Aligner{
		Fwd:            fwd,
		Rev:            rev,
		SeedCount:      config.DefaultSeedCount,
		MismatchBudget: config.DefaultMismatchBudget,
		genomeLen:      len(genome),
	}
	if len(genes) > 0 {
		a.Trans, err = transcriptome.Build(genes, genome)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

// ReadResult is the outcome for one read: either an alignment with its
// mismatch count, or an explicit "no match" (Aligned false, never a
// sentinel coordinate).
type ReadResult struct {
	Alignment  common.Alignment
	Mismatches int
	Aligned    bool
}

// AlignRead aligns one read. Known isoforms are tried first; reads the
// transcriptome cannot place fall through to seed-and-chain alignment
// against the genome. The only error condition is a malformed read; a read
// that simply has no acceptable alignment returns Aligned false.
func (a *Aligner) AlignRead(read []byte) (ReadResult, error) {
	if len(read) == 0 {
		return ReadResult{}, errors.New("aligner: empty read")
	}
	if err := sequence.Validate(read); err != nil {
		return ReadResult{}, errors.Wrap(err, "aligner: read")
	}

	if a.Trans != nil {
		if res, ok := a.Trans.Align(read); ok {
			return ReadResult{
				Alignment:  res.Pieces,
				Mismatches: res.Mismatches,
				Aligned:    true,
			}, nil
		}
	}

	pieces, mismatches, ok := a.alignGenome(read)
	if !ok {
		return ReadResult{}, nil
	}
	return ReadResult{Alignment: pieces, Mismatches: mismatches, Aligned: true}, nil
}

// alignGenome runs the seed finder on both index orientations, expands the
// seeds into concrete placements, chains them, and cleans up the result.
func (a *Aligner) alignGenome(read []byte) (common.Alignment, int, bool) {
	placements := a.placements(read)
	if len(placements) == 0 {
		return nil, 0, false
	}

	g := graph.BuildChainGraph(placements)
	path := graph.FindMaximumWeightPath(g, len(placements))
	if len(path) == 0 {
		return nil, 0, false
	}

	var pieces common.Alignment
	mismatches := 0
	for _, i := range path {
		p := placements[i]
		pieces = append(pieces, common.AlignmentPiece{
			ReadStart: p.ReadStart,
			RefStart:  p.RefStart,
			Length:    p.Length,
		})
		mismatches += p.Mismatches
	}
	pieces = merging.EnforceOrder(pieces)
	pieces = merging.MergeContiguous(pieces)
	if pieces.ReadSpan() == 0 {
		return nil, 0, false
	}
	return pieces, mismatches, true
}

// placements expands seeds from both orientations into (readStart,
// refStart, length) placements in forward-genome coordinates, deduplicated
// and sorted by ReadStart (ties by RefStart) as the chain graph requires.
func (a *Aligner) placements(read []byte) []common.Placement {
	var out []common.Placement

	for _, s := range matching.FindSeeds(a.Fwd, read, a.SeedCount, a.MismatchBudget) {
		for _, p := range s.Positions {
			out = append(out, newPlacement(s.ReadStart, p, s.Length, s.Mismatches))
		}
	}

	// The reverse index matches suffixes of the reversed read, i.e. read
	// prefixes. A match of length L at reversed-text position p starts at
	// genome position len(genome)-p-L and read position
	// len(read)-reversedStart-L.
	rev := sequence.Reverse(read)
	for _, s := range matching.FindSeeds(a.Rev, rev, a.SeedCount, a.MismatchBudget) {
		for _, p := range s.Positions {
			readStart := len(read) - s.ReadStart - s.Length
			refStart := a.genomeLen - p - s.Length
			if refStart < 0 {
				continue
			}
			out = append(out, newPlacement(readStart, refStart, s.Length, s.Mismatches))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ReadStart != out[j].ReadStart {
			return out[i].ReadStart < out[j].ReadStart
		}
		if out[i].RefStart != out[j].RefStart {
			return out[i].RefStart < out[j].RefStart
		}
		return out[i].Length < out[j].Length
	})

	dedup := out[:0]
	for i, p := range out {
		if i > 0 && p == out[i-1] {
			continue
		}
		dedup = append(dedup, p)
	}
	return dedup
}

func newPlacement(readStart, refStart, length, mismatches int) common.Placement {
	return common.Placement{
		ReadStart:  readStart,
		RefStart:   refStart,
		Length:     length,
		Mismatches: mismatches,
		Score:      float64(length) - config.MismatchPenalty*float64(mismatches),
	}
}

// AlignBatch aligns reads concurrently on a fixed worker pool. Results keep
// input order. The shared index is immutable, so workers need no locking;
// progress, when non-nil, is invoked once per finished read and must be
// safe for concurrent use. Malformed reads come back as unaligned.
func (a *Aligner) AlignBatch(reads [][]byte, workers int, progress func()) []ReadResult {
	if workers <= 0 {
		workers = config.DefaultWorkers
	}
	results := make([]ReadResult, len(reads))
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := a.AlignRead(reads[i])
				if err == nil {
					results[i] = res
				}
				if progress != nil {
					progress()
				}
			}
		}()
	}
	for i := range reads {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
