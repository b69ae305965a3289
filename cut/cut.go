// Package cut implements k-feasible cut enumeration and
// reconvergence-driven cut growth over a subnet.EntryReader (spec
// §4.3). Cuts are the unit of work for both the rewriter (C6) and the
// technology mapper (C8): a cut names a candidate sub-DAG boundary that
// can be evaluated, matched against a library, or resynthesized.
//
// Leaf sets are represented with github.com/bits-and-blooms/bitset
// rather than a hand-rolled set, so dominance (subset) tests and
// cut_factor-style aggregate scoring reuse a maintained bit-vector
// implementation instead of reinventing one (see SPEC_FULL.md's DOMAIN
// STACK entry for this library).
package cut

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/vlsicore/subnet"
)

// Cut is a k-feasible cut of some root entry: a leaf set such that
// every path from a primary input to the root passes through a leaf,
// and every leaf lies on at least one such path.
type Cut struct {
	Root  uint32
	Leaves *bitset.BitSet
}

// Size is the number of leaves.
func (c Cut) Size() int { return int(c.Leaves.Count()) }

// Dominates reports whether c's leaf set is a subset of o's (spec
// §4.3: "a cut A dominates B if A ⊆ B").
func (c Cut) Dominates(o Cut) bool {
	return c.Leaves.IsSubSet(o.Leaves)
}

// leafDepthSum and cutFactor need entry metadata, so they are computed
// against an EntryReader rather than stored on Cut itself — a Cut
// outlives any one snapshot of depth/refcount as the network mutates.
func leafDepthSum(c Cut, src subnet.EntryReader) int {
	sum := 0
	for i, ok := c.Leaves.NextSet(0); ok; i, ok = c.Leaves.NextSet(i + 1) {
		sum += src.Depth(uint32(i))
	}
	return sum
}

func cutFactor(c Cut, src subnet.EntryReader) int {
	sum := 0
	for i, ok := c.Leaves.NextSet(0); ok; i, ok = c.Leaves.NextSet(i + 1) {
		sum += src.Refcount(uint32(i))
	}
	return sum
}

// Params configures cut enumeration.
type Params struct {
	K    int // maximum leaf-set size
	Nmax int // per-node cap on retained cuts
}

// Extractor incrementally maintains the per-node cut sets of a subnet.
type Extractor struct {
	src    subnet.EntryReader
	params Params
	cuts   map[uint32][]Cut
}

// New builds an Extractor and computes the initial cut sets for every
// entry of src in topological order (spec §4.3: "For each entry v in
// topological order, the set of cuts is built as the union of all
// cuts formed by taking one cut from each fanin and merging them").
func New(src subnet.EntryReader, params Params) *Extractor {
	e := &Extractor{src: src, params: params, cuts: make(map[uint32][]Cut, src.Len())}
	for idx := 0; idx < src.Len(); idx++ {
		e.recompute(uint32(idx))
	}
	return e
}

// Cuts returns the retained cuts of entry idx.
func (e *Extractor) Cuts(idx uint32) []Cut { return e.cuts[idx] }

// RecomputeCuts recomputes the cut set of idx and is meant to be
// passed as a subnet.ReplaceCallback so cuts stay consistent across a
// Replace (spec §4.3: "callers of replace pass it as a callback so
// cuts stay consistent").
func (e *Extractor) RecomputeCuts(idx uint32) { e.recompute(idx) }

func (e *Extractor) recompute(idx uint32) {
	sym := e.src.Symbol(idx)
	if sym.IsTerminal() || sym == subnet.SymOut {
		trivial := Cut{Root: idx, Leaves: bitset.New(uint(idx + 1))}
		trivial.Leaves.Set(uint(idx))
		e.cuts[idx] = []Cut{trivial}
		return
	}

	links := e.src.Links(idx)
	faninCuts := make([][]Cut, len(links))
	for i, l := range links {
		faninCuts[i] = e.cuts[l.Target]
		if faninCuts[i] == nil {
			e.recompute(l.Target)
			faninCuts[i] = e.cuts[l.Target]
		}
	}

	merged := map[string]Cut{}
	var combine func(i int, acc *bitset.BitSet)
	combine = func(i int, acc *bitset.BitSet) {
		if i == len(links) {
			if acc.Count() <= uint(e.params.K) {
				key := acc.DumpAsBits()
				if _, ok := merged[key]; !ok {
					merged[key] = Cut{Root: idx, Leaves: acc.Clone()}
				}
			}
			return
		}
		for _, c := range faninCuts[i] {
			next := acc.Clone()
			next.InPlaceUnion(c.Leaves)
			if next.Count() <= uint(e.params.K) {
				combine(i+1, next)
			}
		}
	}
	combine(0, bitset.New(uint(idx+1)))

	trivial := Cut{Root: idx, Leaves: bitset.New(uint(idx + 1))}
	trivial.Leaves.Set(uint(idx))
	merged[trivial.Leaves.DumpAsBits()] = trivial

	cuts := make([]Cut, 0, len(merged))
	for _, c := range merged {
		cuts = append(cuts, c)
	}

	cuts = removeDominated(cuts)
	cuts = e.truncate(cuts)
	e.cuts[idx] = cuts
}

// removeDominated drops any cut that is dominated by another (spec
// §4.3: "dominated cuts are discarded").
func removeDominated(cuts []Cut) []Cut {
	keep := make([]bool, len(cuts))
	for i := range keep {
		keep[i] = true
	}
	for i := range cuts {
		if !keep[i] {
			continue
		}
		for j := range cuts {
			if i == j || !keep[j] {
				continue
			}
			if cuts[i].Dominates(cuts[j]) && cuts[i].Size() < cuts[j].Size() {
				keep[j] = false
			}
		}
	}
	out := cuts[:0]
	for i, k := range keep {
		if k {
			out = append(out, cuts[i])
		}
	}
	return out
}

// truncate enforces the per-node cap Nmax, scoring ties by (size,
// leaf-depth-sum, cut_factor) ascending and dropping the worst (spec
// §4.3).
func (e *Extractor) truncate(cuts []Cut) []Cut {
	if e.params.Nmax <= 0 || len(cuts) <= e.params.Nmax {
		return cuts
	}
	sort.Slice(cuts, func(i, j int) bool {
		if cuts[i].Size() != cuts[j].Size() {
			return cuts[i].Size() < cuts[j].Size()
		}
		di, dj := leafDepthSum(cuts[i], e.src), leafDepthSum(cuts[j], e.src)
		if di != dj {
			return di < dj
		}
		return cutFactor(cuts[i], e.src) < cutFactor(cuts[j], e.src)
	})
	return cuts[:e.params.Nmax]
}
