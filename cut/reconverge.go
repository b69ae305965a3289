package cut

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/vlsicore/subnet"
)

// Reconverge grows a reconvergence-driven cut for root toward size k: it
// starts from root's immediate fanins and repeatedly expands the
// "cheapest" leaf — the one whose replacement by its own fanins
// increases the leaf count the least, where a fanin already present in
// the set does not increase it at all — stopping once no expansion
// fits within k or the set stabilizes (spec §4.3).
//
// Constants (ZERO/ONE) and primary inputs are permanent leaves: they
// have no fanin to expand into, so an all-constant or all-input
// transitive-fanin cone degenerates into a fixed point immediately.
func Reconverge(src subnet.EntryReader, root uint32, k int) Cut {
	leaves := map[uint32]bool{}
	for _, l := range src.Links(root) {
		leaves[l.Target] = true
	}
	if len(leaves) == 0 {
		// root is itself a terminal; its own trivial cut is the answer.
		c := Cut{Root: root, Leaves: bitset.New(uint(root + 1))}
		c.Leaves.Set(uint(root))
		return c
	}

	for {
		if len(leaves) > k {
			break
		}
		best, ok := cheapestExpansion(src, leaves, k)
		if !ok {
			break
		}
		expand(src, leaves, best)
	}

	return toCut(root, leaves)
}

// expandDelta is the net change in |leaves| from replacing leaf by its
// own fanins: fanins already in the set (or already counted once in
// this expansion) cost nothing, so the delta can be negative.
func expandDelta(src subnet.EntryReader, leaves map[uint32]bool, leaf uint32) int {
	if isPermanentLeaf(src, leaf) {
		return 1 << 30 // never expandable; sentinel "infinitely expensive"
	}
	links := src.Links(leaf)
	added := map[uint32]bool{}
	for _, l := range links {
		if !leaves[l.Target] {
			added[l.Target] = true
		}
	}
	return len(added) - 1
}

func isPermanentLeaf(src subnet.EntryReader, idx uint32) bool {
	return src.Symbol(idx).IsTerminal()
}

// cheapestExpansion picks the leaf with the smallest expandDelta that
// still keeps the resulting set within k, breaking ties by lower
// entry index for determinism.
func cheapestExpansion(src subnet.EntryReader, leaves map[uint32]bool, k int) (uint32, bool) {
	candidates := make([]uint32, 0, len(leaves))
	for l := range leaves {
		if !isPermanentLeaf(src, l) {
			candidates = append(candidates, l)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	bestDelta := 1 << 30
	var best uint32
	found := false
	for _, c := range candidates {
		d := expandDelta(src, leaves, c)
		if len(leaves)+d > k {
			continue
		}
		if d < bestDelta {
			bestDelta = d
			best = c
			found = true
		}
	}
	return best, found
}

func expand(src subnet.EntryReader, leaves map[uint32]bool, leaf uint32) {
	delete(leaves, leaf)
	for _, l := range src.Links(leaf) {
		leaves[l.Target] = true
	}
}

func toCut(root uint32, leaves map[uint32]bool) Cut {
	maxIdx := root
	for l := range leaves {
		if l > maxIdx {
			maxIdx = l
		}
	}
	c := Cut{Root: root, Leaves: bitset.New(uint(maxIdx + 1))}
	for l := range leaves {
		c.Leaves.Set(uint(l))
	}
	return c
}
