package subnet

// ReplaceCallback is invoked once for every entry from the lowest
// index a Replace touched through the end of the arena, in increasing
// index order — a superset of the entries whose depth or fanin
// changed. A Rewriter uses this hook to re-seed cut recomputation for the
// affected region instead of re-running cut extraction on the whole
// network (spec §5).
type ReplaceCallback func(idx uint32)

// Replace substitutes rhs for the cells named by io.Outputs: every
// consumer of an old root is rewired to the corresponding output of
// rhs, old roots that become unreferenced are swept recursively, and
// depths are recomputed along the forward frontier the change can
// reach. It returns the net Effect of the substitution.
//
// Replace follows the four-step algorithm of spec §4.1: inline rhs,
// rewire consumers (xor-ing inversion bits), sweep dead roots, then
// recompute depth.
func (b *Builder) Replace(rhs *Subnet, io IOMapping, modifier WeightModifier, cb ReplaceCallback) Effect {
	return b.applyReplace(rhs, io, modifier, cb)
}

// EvaluateReplace computes the Effect Replace would have without
// mutating b: it runs the identical algorithm against a scratch clone
// of b's arena and discards the clone (spec §4.1: "evaluate_replace
// uses the same walk as replace but writes to scratch structures
// only").
func (b *Builder) EvaluateReplace(rhs *Subnet, io IOMapping, modifier WeightModifier) Effect {
	scratch := &Builder{arena: cloneEntries(b.arena), numInputs: b.numInputs, numOutputs: b.numOutputs, pool: b.pool}
	return scratch.applyReplace(rhs, io, modifier, nil)
}

func (b *Builder) applyReplace(rhs *Subnet, io IOMapping, modifier WeightModifier, cb ReplaceCallback) Effect {
	if len(io.Inputs) != rhs.NumInputs() {
		panic("subnet: Replace IOMapping.Inputs length does not match rhs input count")
	}
	if len(io.Outputs) != rhs.NumOutputs() {
		panic("subnet: Replace IOMapping.Outputs length does not match rhs output count")
	}

	s := b.scratch()
	defer b.pool.Put(s)

	beforeLive := b.countLiveCells()
	beforeWeight := b.sumLiveWeight()
	beforeDepth := 0
	for _, old := range io.Outputs {
		if d := b.Depth(old); d > beforeDepth {
			beforeDepth = d
		}
	}

	// Step 1: inline rhs, building a remap from its own indices to
	// links in the parent arena.
	remap := s.remap
	if cap(remap) < rhs.Len() {
		remap = make([]Link, rhs.Len())
	} else {
		remap = remap[:rhs.Len()]
	}
	for i, in := range rhs.inputIndices() {
		remap[in] = io.Inputs[i]
	}

	originalLen := uint32(len(b.arena))
	for idx := 0; idx < rhs.Len(); idx++ {
		sym := rhs.Symbol(uint32(idx))
		if sym == SymIn || sym == symContinuation {
			continue
		}
		srcLinks := rhs.Links(uint32(idx))
		newLinks := make(LinkList, len(srcLinks))
		for j, l := range srcLinks {
			mapped := remap[l.Target]
			newLinks[j] = Link{Target: mapped.Target, Port: mapped.Port, Inversion: l.Inversion != mapped.Inversion}
		}
		if sym == SymOut {
			remap[idx] = newLinks[0]
			continue
		}
		e := rhs.arena[idx]
		link := b.addCellOutputs(sym, newLinks, int(e.Outputs))
		if sym == SymCell {
			b.arena[link.Target].CellTyp = e.CellTyp
		}
		remap[idx] = link
	}

	newRoots := make(LinkList, len(io.Outputs))
	for i, o := range rhs.outputIndices() {
		newRoots[i] = remap[o]
	}

	// Step 2: rewire every consumer of each old root to the
	// corresponding new root, xor-ing inversion bits.
	touched := s.touched[:0]
	for i, old := range io.Outputs {
		newRoot := newRoots[i]
		rewired := 0
		for c := old + 1; c < originalLen; c++ {
			if b.arena[c].Symbol == symContinuation {
				continue
			}
			links := b.Links(c)
			for p := range links {
				if links[p].Target != old {
					continue
				}
				setLinkAt(b.arena, c, p, Link{
					Target:    newRoot.Target,
					Port:      newRoot.Port,
					Inversion: links[p].Inversion != newRoot.Inversion,
				})
				b.arena[newRoot.Target].Refcount++
				rewired++
				touched = append(touched, c)
			}
		}
		for n := 0; n < rewired; n++ {
			b.decrementRecursive(old, s.removed)
		}
	}

	// Step 3: recompute depth along the forward frontier: everything
	// from the lowest touched/new index through the end of the arena
	// may have changed, since index order is topological.
	frontier := originalLen
	for _, t := range touched {
		if t < frontier {
			frontier = t
		}
	}
	for _, old := range io.Outputs {
		if old < frontier {
			frontier = old
		}
	}
	for idx := frontier; idx < uint32(len(b.arena)); idx++ {
		b.recomputeDepth(idx)
		if cb != nil {
			cb(idx)
		}
	}

	afterLive := b.countLiveCells()
	afterWeight := b.sumLiveWeight()
	afterDepth := 0
	for _, nr := range newRoots {
		if d := b.Depth(nr.Target); d > afterDepth {
			afterDepth = d
		}
	}

	deltaWeight := afterWeight - beforeWeight
	if modifier != nil {
		deltaWeight = modifier(deltaWeight)
	}

	s.remap = remap[:0]
	s.touched = touched[:0]

	return Effect{
		DeltaCells:  afterLive - beforeLive,
		DeltaDepth:  afterDepth - beforeDepth,
		DeltaWeight: deltaWeight,
	}
}

func (b *Builder) scratch() *replaceScratch {
	if b.pool == nil {
		b.pool = newEntryPool()
	}
	return b.pool.Get()
}

// decrementRecursive drops idx's refcount by one; if it reaches zero
// the entry becomes dead and its own fanins are decremented in turn.
// IN/ZERO/ONE entries have no fanin links, so the recursion always
// terminates there.
func (b *Builder) decrementRecursive(idx uint32, removed map[uint32]bool) {
	b.arena[idx].Refcount--
	if b.arena[idx].Refcount > 0 || removed[idx] {
		return
	}
	removed[idx] = true
	for _, l := range b.Links(idx) {
		b.decrementRecursive(l.Target, removed)
	}
}

func isInnerCell(sym Symbol) bool {
	return sym != SymIn && sym != SymOut && sym != SymZero && sym != SymOne && sym != symContinuation
}

func (b *Builder) countLiveCells() int {
	n := 0
	for i := range b.arena {
		if isInnerCell(b.arena[i].Symbol) && b.arena[i].Refcount > 0 {
			n++
		}
	}
	return n
}

func (b *Builder) sumLiveWeight() float64 {
	w := 0.0
	for i := range b.arena {
		if isInnerCell(b.arena[i].Symbol) && b.arena[i].Refcount > 0 {
			w += b.arena[i].Weight
		}
	}
	return w
}
