package graph

import (
	"github.com/nadernamini/rna-seq-read-algn/common"
	"github.com/nadernamini/rna-seq-read-algn/config"
)

// BuildChainGraph builds a directed acyclic graph over seed placements.
// Input placements MUST be sorted by ReadStart.
// Graph nodes: -1 (source), 0..len(placements)-1, len(placements) (sink).
//
// An edge i->j exists only when j begins at or after the end of i on the
// read and the implied intron gap on the genome is zero (contiguous) or
// within [config.MinIntronSize, config.MaxIntronSize]. Edge weight is the
// chaining score of the target placement, so a maximum-weight source-to-sink
// path selects the read-order-consistent chain maximizing covered bases and
// minimizing mismatches.
func BuildChainGraph(placements []common.Placement) map[int][]common.Edge {
	n := len(placements)
	g := make(map[int][]common.Edge)

	sourceEdges := make([]common.Edge, 0, n)
	for i := 0; i < n; i++ {
		sourceEdges = append(sourceEdges, common.Edge{To: i, Weight: placements[i].Score})
	}
	g[-1] = sourceEdges

	for i := 0; i < n; i++ {
		edges := make([]common.Edge, 0)
		for j := i + 1; j < n; j++ {
			if Chainable(placements[i], placements[j]) {
				edges = append(edges, common.Edge{To: j, Weight: placements[j].Score})
			}
		}
		edges = append(edges, common.Edge{To: n, Weight: 0})
		g[i] = edges
	}

	if _, ok := g[n]; !ok {
		g[n] = []common.Edge{}
	}
	if n == 0 {
		g[-1] = []common.Edge{{To: 0, Weight: 0}}
	}
	return g
}

// Chainable reports whether b may follow a in one alignment: b must start
// at or after a's end on the read, genome order must agree, and the genomic
// gap beyond the read gap must be zero or a plausible intron length.
func Chainable(a, b common.Placement) bool {
	readGap := b.ReadStart - (a.ReadStart + a.Length)
	if readGap < 0 {
		return false
	}
	intronGap := b.RefStart - (a.RefStart + a.Length) - readGap
	if intronGap == 0 {
		return true
	}
	return intronGap >= config.MinIntronSize && intronGap <= config.MaxIntronSize
}
