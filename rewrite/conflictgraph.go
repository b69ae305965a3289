package rewrite

import (
	"container/heap"

	"github.com/vlsicore/subnet"
)

// conflictVertex is one candidate replacement collected during a Lazy
// Refactorer pass: the entries it would mutate, its Effect-derived
// weight, and the replacement itself (spec §4.4 "vertices are
// candidate replacements tagged with the set of entries they would
// mutate").
type conflictVertex struct {
	entries []uint32 // sorted, the set of live entries this candidate touches
	weight  float64
	rhs     *subnet.Subnet
	io      subnet.IOMapping
}

// conflictGraph finds a maximum-weight set of pairwise-disjoint
// vertices by greedy selection: highest weight first, skipping any
// vertex that shares an entry with one already chosen (spec §4.4
// "selects a maximum-weight independent set greedily (highest-Δ
// first, skip if any marked entry already consumed)").
//
// Unlike original_source's ConflictGraph, whose heap is built once via
// make_heap and never re-heapified after later pushes (spec's REDESIGN
// FLAGS calls this out as a bug, not a behavior to preserve), this
// uses container/heap throughout so every push and pop maintains the
// heap invariant.
type conflictGraph struct {
	vertices []*conflictVertex
}

// addVertex registers a candidate replacement.
func (g *conflictGraph) addVertex(v *conflictVertex) {
	g.vertices = append(g.vertices, v)
}

// vertexHeap is a max-heap on weight.
type vertexHeap []*conflictVertex

func (h vertexHeap) Len() int            { return len(h) }
func (h vertexHeap) Less(i, j int) bool  { return h[i].weight > h[j].weight }
func (h vertexHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x interface{}) { *h = append(*h, x.(*conflictVertex)) }
func (h *vertexHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// findBestColoring selects the independent set and returns it in the
// order chosen, along with its total weight.
func (g *conflictGraph) findBestColoring() ([]*conflictVertex, float64) {
	h := make(vertexHeap, len(g.vertices))
	copy(h, g.vertices)
	heap.Init(&h)

	consumed := map[uint32]bool{}
	var chosen []*conflictVertex
	var total float64

	for h.Len() > 0 {
		v := heap.Pop(&h).(*conflictVertex)
		if vertexConflicts(v, consumed) {
			continue
		}
		for _, e := range v.entries {
			consumed[e] = true
		}
		chosen = append(chosen, v)
		total += v.weight
	}
	return chosen, total
}

func vertexConflicts(v *conflictVertex, consumed map[uint32]bool) bool {
	for _, e := range v.entries {
		if consumed[e] {
			return true
		}
	}
	return false
}
