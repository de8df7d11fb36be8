package matching

import (
	"github.com/nadernamini/rna-seq-read-algn/common"
	"github.com/nadernamini/rna-seq-read-algn/config"
	"github.com/nadernamini/rna-seq-read-algn/index"
	"github.com/nadernamini/rna-seq-read-algn/sequence"
)

// branch is one candidate partial match in the mismatch search: the
// (possibly mutated) query portion, the interval of its matched tail, how
// many symbols matched and how many substitutions were spent.
type branch struct {
	suffix     []byte
	iv         Interval
	matched    int
	mismatches int
}

// better orders branches by matched length, then by fewer mismatches.
func better(a, b branch) bool {
	if a.matched != b.matched {
		return a.matched > b.matched
	}
	return a.mismatches < b.mismatches
}

// FindSeeds covers read with up to seedCount seeds, scanning from the read's
// right end. Each seed is the longest tail run matching the index within the
// remaining mismatch budget; the search then recurses on the uncovered
// prefix with one seed fewer and the budget reduced by what the seed
// consumed. Genome positions of later seeds constrain earlier ones: an
// upstream position is kept only if its implied downstream gap to some
// already-anchored position is zero or a plausible intron length.
//
// A seedCount of zero yields no seeds. No reported seed ever exceeds the
// mismatch budget it was given.
func FindSeeds(idx *index.Index, read []byte, seedCount, mismatchBudget int) []common.Seed {
	var seeds []common.Seed
	findSeeds(idx, read, len(read), seedCount, mismatchBudget, nil, &seeds)
	return seeds
}

func findSeeds(idx *index.Index, read []byte, readEnd, seedCount, budget int, anchors []int, out *[]common.Seed) {
	if seedCount <= 0 || readEnd <= 0 {
		return
	}
	br := bestTailMatch(idx, read[:readEnd], budget)
	if br.matched == 0 {
		return
	}
	positions := Positions(idx, br.iv, config.MaxSeedOccurrences)
	if anchors != nil {
		positions = filterByAnchors(positions, br.matched, anchors)
		if len(positions) == 0 {
			// No placement of this run can pair with the downstream
			// anchor inside a valid splice; a perfect match elsewhere
			// is still useless here.
			return
		}
	}
	readStart := readEnd - br.matched
	*out = append(*out, common.Seed{
		Positions:  positions,
		ReadStart:  readStart,
		Length:     br.matched,
		Mismatches: br.mismatches,
		Suffix:     br.suffix[readStart:],
	})
	if readStart > 0 {
		findSeeds(idx, read, readStart, seedCount-1, budget-br.mismatches, positions, out)
	}
}

// bestTailMatch finds the longest run ending at the last byte of portion
// that matches the index with at most budget substitutions. Branching
// greedy search: from the longest exact tail match, substitute every other
// alphabet symbol at the first unmatched position, keep all substitutions
// tied for greatest matched length, and explore each further. An explicit
// work stack bounds recursion depth; the stack is capped at
// config.SeedBeamWidth live branches, so pathological tie cascades degrade
// to a bounded beam rather than exponential work.
func bestTailMatch(idx *index.Index, portion []byte, budget int) branch {
	iv, matched := Match(idx, portion)
	best := branch{
		suffix:  append([]byte(nil), portion...),
		iv:      iv,
		matched: matched,
	}
	stack := []branch{best}
	for len(stack) > 0 {
		br := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if better(br, best) {
			best = br
		}
		if br.matched >= len(br.suffix) || br.mismatches >= budget {
			continue
		}
		pos := len(br.suffix) - br.matched - 1
		bestLen := br.matched
		var ties []branch
		for _, c := range sequence.Alphabet() {
			if c == br.suffix[pos] {
				continue
			}
			mut := append([]byte(nil), br.suffix...)
			mut[pos] = c
			mutIv, mutMatched := Match(idx, mut)
			if mutMatched <= br.matched {
				continue
			}
			cand := branch{mut, mutIv, mutMatched, br.mismatches + 1}
			if better(cand, best) {
				best = cand
			}
			if mutMatched > bestLen {
				bestLen = mutMatched
				ties = ties[:0]
			}
			if mutMatched == bestLen {
				ties = append(ties, cand)
			}
		}
		for _, cand := range ties {
			if len(stack) >= config.SeedBeamWidth {
				break
			}
			stack = append(stack, cand)
		}
	}
	return best
}

// filterByAnchors keeps positions whose gap to some anchored downstream
// position is zero (contiguous) or within the intron bounds.
func filterByAnchors(positions []int, length int, anchors []int) []int {
	kept := positions[:0]
	for _, p := range positions {
		for _, a := range anchors {
			gap := a - (p + length)
			if gap == 0 || (gap >= config.MinIntronSize && gap <= config.MaxIntronSize) {
				kept = append(kept, p)
				break
			}
		}
	}
	return kept
}
