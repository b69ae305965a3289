package rewrite

import (
	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/cut"
	"github.com/vlsicore/subnet/resynth"
)

// Refactorer is the reconvergence-window pass of spec §4.4: unlike
// Rewriter, it does not enumerate the full k-feasible cut set at each
// node — it grows a single reconvergence-driven window via
// cut.Reconverge and asks the resynthesizer for one replacement over
// it, committing when Accept says so. This trades Rewriter's
// exhaustiveness for a cheaper single-candidate-per-node pass, the way
// original_source's refactoring step runs between full rewriting
// sweeps.
type Refactorer struct {
	Synth    resynth.Resynthesizer
	K        int // reconvergence window target size (cut.Reconverge's k)
	MaxArity int
	// Accept decides whether to commit a candidate given its Effect.
	// A nil Accept defaults to requiring a strict improvement in
	// DefaultCost.
	Accept func(subnet.Effect) bool
}

func defaultAccept(e subnet.Effect) bool {
	return DefaultCost(e) > rewriteEpsilon
}

// Run implements SubnetInPlaceTransformer.
func (r *Refactorer) Run(b *subnet.Builder) int {
	accept := r.Accept
	if accept == nil {
		accept = defaultAccept
	}

	passer := NewSafePasser(b)
	applied := 0
	for {
		idx, ok := passer.Next()
		if !ok {
			break
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
		if !accept(effect) {
			continue
		}
		cb := func(touched uint32) {
			passer.NotifyReplace(touched)
		}
		b.Replace(rhs, io, nil, cb)
		applied++
	}
	return applied
}
