package resynth

import (
	"container/heap"

	"github.com/vlsicore/subnet"
)

// associativeEpsilon is the minimum improvement AssociativeReorder
// requires before committing a replacement, matching the epsilon
// gate of original_source's AssociativeReordering.
const associativeEpsilon = 1e-7

// AssociativeReorder rebalances the associative/commutative cone
// rooted at idx (an AND, OR or XOR cell) into a weighted Huffman-style
// tree that favors keeping heavier-weight leaves shallow, then commits
// the change only if Builder.EvaluateReplace shows a genuine
// improvement (spec §4.5: "Synthesizer based on associativity and
// commutativity of the cone's function... scores candidates and
// commits only past an epsilon margin", grounded on
// original_source/.../synthesis/associative_reordering.{h,cpp}).
//
// It reports whether it replaced anything. Unlike the other
// resynthesizers, it mutates b directly — the candidate it builds and
// measures via EvaluateReplace is an implementation detail, not
// something a caller inlines itself.
func AssociativeReorder(b *subnet.Builder, idx uint32, maxArity int) bool {
	sym, leaves := flattenAssociative(b, idx)
	if len(leaves) < 2 {
		return false
	}

	weights := make([]float64, len(leaves))
	for i, l := range leaves {
		weights[i] = b.Weight(l.Target)
	}

	scratch := subnet.NewBuilder()
	inputs := make(subnet.LinkList, len(leaves))
	for i := range inputs {
		inputs[i] = scratch.AddInput()
	}
	newRoot := huffmanTree(scratch, sym, inputs, weights, maxArity)
	scratch.AddOutput(newRoot)
	rhs := scratch.Make()

	io := subnet.IOMapping{Inputs: leaves, Outputs: []uint32{idx}}
	effect := b.EvaluateReplace(rhs, io, nil)
	if effect.DeltaWeight < -associativeEpsilon ||
		(effect.DeltaWeight <= associativeEpsilon && effect.DeltaDepth < 0) {
		b.Replace(rhs, io, nil, nil)
		return true
	}
	return false
}

// flattenAssociative collects idx's cone of same-symbol, single-fanout,
// non-inverted children into a flat leaf list. A child link stops the
// flattening (becomes a leaf itself) if it crosses a polarity (the
// link is inverted — AND/OR/XOR are only associative across
// uninverted children), if its symbol differs, or if it fans out
// elsewhere (rebalancing it would change what that other consumer
// sees, since it would no longer exist as a standalone cell).
func flattenAssociative(b *subnet.Builder, idx uint32) (subnet.Symbol, subnet.LinkList) {
	sym := b.Symbol(idx)
	if sym != subnet.SymAnd && sym != subnet.SymOr && sym != subnet.SymXor {
		return sym, nil
	}

	var leaves subnet.LinkList
	var collect func(links subnet.LinkList)
	collect = func(links subnet.LinkList) {
		for _, l := range links {
			if !l.Inversion && l.Target != idx && b.Symbol(l.Target) == sym && b.Refcount(l.Target) == 1 {
				collect(b.Links(l.Target))
				continue
			}
			leaves = append(leaves, l)
		}
	}
	collect(b.Links(idx))
	return sym, leaves
}

// huffItem is one entry of the Huffman-style priority queue: a link
// already built (a leaf or a previously-combined group) and the
// weight used to decide how deep it should sit in the final tree.
type huffItem struct {
	link   subnet.Link
	weight float64
}

type huffHeap []huffItem

func (h huffHeap) Len() int             { return len(h) }
func (h huffHeap) Less(i, j int) bool   { return h[i].weight < h[j].weight }
func (h huffHeap) Swap(i, j int)        { h[i], h[j] = h[j], h[i] }
func (h *huffHeap) Push(x interface{})  { *h = append(*h, x.(huffItem)) }
func (h *huffHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// huffmanTree greedily groups the maxArity lowest-weight items of the
// queue into one new cell, repeating until a single root remains: a
// generalized (maxArity-ary) Huffman construction that keeps the
// heaviest leaves closest to the root, minimizing weighted depth.
func huffmanTree(b *subnet.Builder, sym subnet.Symbol, leaves subnet.LinkList, weights []float64, maxArity int) subnet.Link {
	arity := maxArity
	if arity < 2 {
		arity = 2
	}

	h := make(huffHeap, len(leaves))
	for i, l := range leaves {
		h[i] = huffItem{link: l, weight: weights[i]}
	}
	heap.Init(&h)

	for h.Len() > 1 {
		group := arity
		if group > h.Len() {
			group = h.Len()
		}
		items := make(subnet.LinkList, group)
		maxW := 0.0
		for i := 0; i < group; i++ {
			it := heap.Pop(&h).(huffItem)
			items[i] = it.link
			if it.weight > maxW {
				maxW = it.weight
			}
		}
		combined := items[0]
		if group > 1 {
			combined = b.AddCell(sym, items)
		}
		heap.Push(&h, huffItem{link: combined, weight: maxW + 1})
	}
	return heap.Pop(&h).(huffItem).link
}
