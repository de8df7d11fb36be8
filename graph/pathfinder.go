package graph

import (
	"math"

	"github.com/nadernamini/rna-seq-read-algn/common"
)

// FindMaximumWeightPath finds the source-to-sink path with maximum total
// weight in a chain graph built by BuildChainGraph. Node indices are -1
// (source), 0..n-1 (placements), n (sink). Returns the placement indices on
// the path, in read order.
func FindMaximumWeightPath(g map[int][]common.Edge, n int) []int {
	dist := make(map[int]float64, n+2)
	pred := make(map[int]int, n+2)
	for i := -1; i <= n; i++ {
		dist[i] = math.Inf(-1)
	}
	dist[-1] = 0

	// Placements are sorted by ReadStart and edges only go forward, so
	// source, 0..n-1, sink is already a topological order.
	for u := -1; u <= n; u++ {
		edges, ok := g[u]
		if !ok || math.IsInf(dist[u], -1) {
			continue
		}
		for _, e := range edges {
			if dist[u]+e.Weight > dist[e.To] {
				dist[e.To] = dist[u] + e.Weight
				pred[e.To] = u
			}
		}
	}

	// Walk predecessors back from the sink; the source index never joins
	// the path.
	var path []int
	for curr := n; ; {
		p, ok := pred[curr]
		if !ok || curr == -1 {
			break
		}
		if p != -1 {
			path = append(path, p)
		}
		curr = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	out := path[:0]
	for _, idx := range path {
		if idx >= 0 && idx < n {
			out = append(out, idx)
		}
	}
	return out
}
