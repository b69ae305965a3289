package rewrite

import (
	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/cut"
	"github.com/vlsicore/subnet/resynth"
)

// LazyRefactorer is the conflict-graph variant of Refactorer (spec
// §4.4 "Lazy Refactorer"): instead of committing each node's best
// candidate immediately, it collects every candidate replacement
// across the whole pass into a conflictGraph and commits a
// maximum-weight independent set, turning a per-node greedy choice
// into a per-pass global one.
type LazyRefactorer struct {
	Synth    resynth.Resynthesizer
	K        int
	MaxArity int
	Cost     CostFunction
}

// Run implements SubnetInPlaceTransformer.
func (r *LazyRefactorer) Run(b *subnet.Builder) int {
	cost := r.Cost
	if cost == nil {
		cost = DefaultCost
	}

	g := &conflictGraph{}
	for idx := uint32(0); idx < uint32(b.Len()); idx++ {
		if b.Outputs(idx) == 0 {
			continue // continuation entry
		}
		if !b.Symbol(idx).IsStructural() || b.Refcount(idx) == 0 {
			continue
		}
		c := cut.Reconverge(b, idx, r.K)
		if c.Size() < 2 {
			continue
		}
		view := viewForCut(b, c)
		tables := subnet.Evaluate(view)
		target := tables[c.Root]
		care := careTable(view)

		rhs := r.Synth.Synthesize(target, care, r.MaxArity)
		if rhs == nil {
			continue
		}
		io := ioMappingForCut(view)
		effect := b.EvaluateReplace(rhs, io, nil)
		weight := cost(effect)
		if weight <= rewriteEpsilon {
			continue
		}
		g.addVertex(&conflictVertex{
			entries: coneInterior(view),
			weight:  weight,
			rhs:     rhs,
			io:      io,
		})
	}

	chosen, _ := g.findBestColoring()
	applied := 0
	for _, v := range chosen {
		b.Replace(v.rhs, v.io, nil, nil)
		applied++
	}
	return applied
}

// coneInterior names the entries a candidate replacement would
// mutate: every entry in its cone other than the boundary inputs,
// which survive unchanged and so may be legitimately shared between
// two otherwise-disjoint candidates.
func coneInterior(v *subnet.View) []uint32 {
	boundary := make(map[uint32]bool, len(v.Inputs()))
	for _, in := range v.Inputs() {
		boundary[in] = true
	}
	order := subnet.SaveForward(v)
	interior := make([]uint32, 0, len(order))
	for _, idx := range order {
		if !boundary[idx] {
			interior = append(interior, idx)
		}
	}
	return interior
}
