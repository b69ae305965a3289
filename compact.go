package subnet

// compact rebuilds arena into a fresh arena that is both topologically
// valid (every link refers to a strictly smaller index, spec §3) and
// free of dead entries.
//
// A live Builder does not maintain either property continuously: a
// Replace may rewire a low-index consumer to a freshly appended
// higher-index cell, and a swept-away old root is left in place with
// refcount zero rather than being removed in place (spec §4.1 step 3,
// "preserving entries that still have external references" implies
// the converse is simply abandoned). compact is what Make calls to
// restore both invariants in the snapshot it hands out — a genuine
// topological re-sort followed by dead-code elimination, not a
// position-preserving copy.
func compact(arena []entry) []entry {
	n := len(arena)
	headOf := make([]uint32, n)
	for i := 0; i < n; {
		span := 1 + int(arena[i].More)
		for k := 0; k < span; k++ {
			headOf[i+k] = uint32(i)
		}
		i += span
	}

	visited := make([]bool, n)
	order := make([]uint32, 0, n)

	var visit func(h uint32)
	visit = func(h uint32) {
		if visited[h] {
			return
		}
		visited[h] = true
		for _, l := range linksFor(arena, h) {
			visit(headOf[l.Target])
		}
		order = append(order, h)
	}

	for i := 0; i < n && arena[i].Symbol == SymIn; i++ {
		visit(uint32(i))
	}

	var outputs []uint32
	for i := 0; i < n; i++ {
		if arena[i].Symbol != SymOut {
			continue
		}
		outputs = append(outputs, uint32(i))
		for _, l := range linksFor(arena, uint32(i)) {
			visit(headOf[l.Target])
		}
	}
	for _, o := range outputs {
		visited[o] = true
		order = append(order, o)
	}

	newIndex := make([]uint32, n)
	out := make([]entry, 0, n)
	for _, h := range order {
		span := 1 + int(arena[h].More)
		newIndex[h] = uint32(len(out))
		for k := 0; k < span; k++ {
			e := arena[h+k]
			e.Refcount = 0
			e.mark = false
			if e.Links != nil {
				e.Links = append(LinkList(nil), e.Links...)
			}
			out = append(out, e)
		}
	}

	for i := range out {
		links := out[i].Links
		for j := range links {
			links[j].Target = newIndex[links[j].Target]
		}
	}
	for i := range out {
		for _, l := range out[i].Links {
			out[l.Target].Refcount++
		}
	}
	for idx := 0; idx < len(out); idx++ {
		recomputeDepthIn(out, uint32(idx))
	}

	return out
}

// recomputeDepthIn computes the depth of the entry at idx from its
// fanins' already-final depths, assuming out is topologically ordered
// and idx is processed in ascending order.
func recomputeDepthIn(out []entry, idx uint32) {
	e := &out[idx]
	if e.Symbol == symContinuation {
		return
	}
	if e.Symbol == SymIn || e.Symbol == SymZero || e.Symbol == SymOne {
		e.Depth = 0
		return
	}
	max := 0
	for _, l := range linksFor(out, idx) {
		if d := out[l.Target].Depth + 1; d > max {
			max = d
		}
	}
	e.Depth = max
}
