package rewrite

import (
	"math"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/cut"
	"github.com/vlsicore/subnet/internal/truth"
	"github.com/vlsicore/subnet/resynth"
)

// SubnetInPlaceTransformer is the common shape of every pass in this
// package: it scans a Builder and mutates it in place, reporting how
// many replacements it committed (spec §4.4).
type SubnetInPlaceTransformer interface {
	Run(b *subnet.Builder) int
}

// CostFunction reduces an Effect to a single score a transformer
// maximizes; positive means "improvement". DefaultCost is the
// reasonable default, but a caller wiring in techmap's CostVector
// model can supply its own.
type CostFunction func(subnet.Effect) float64

// DefaultCost scores an Effect as the negated weighted sum
// ΔCells + 0.25·ΔDepth + ΔWeight: one live cell counts as much as one
// unit of weight or four levels of depth.
func DefaultCost(e subnet.Effect) float64 {
	return -(float64(e.DeltaCells) + 0.25*float64(e.DeltaDepth) + e.DeltaWeight)
}

const rewriteEpsilon = 1e-9

// Rewriter is the cut-based local rewriter of spec §4.4: for each
// structural entry it enumerates k-feasible cuts via Extractor, asks
// every configured Synth for a functionally-equivalent replacement
// over each cut's boundary, scores each candidate with
// Builder.EvaluateReplace, and commits the best one that clears the
// epsilon gate (or any non-worsening one when ZeroCostOK is set).
type Rewriter struct {
	Extractor  *cut.Extractor
	Synth      []resynth.Resynthesizer
	MaxArity   int
	Cost       CostFunction
	ZeroCostOK bool
}

type candidate struct {
	rhs *subnet.Subnet
	io  subnet.IOMapping
}

// Run implements SubnetInPlaceTransformer.
func (r *Rewriter) Run(b *subnet.Builder) int {
	cost := r.Cost
	if cost == nil {
		cost = DefaultCost
	}

	passer := NewSafePasser(b)
	applied := 0
	for {
		idx, ok := passer.Next()
		if !ok {
			break
		}
		best, bestScore, found := r.bestCandidate(b, idx, cost)
		if !found {
			continue
		}
		if bestScore <= rewriteEpsilon && !(r.ZeroCostOK && math.Abs(bestScore) <= rewriteEpsilon) {
			continue
		}
		cb := func(touched uint32) {
			r.Extractor.RecomputeCuts(touched)
			passer.NotifyReplace(touched)
		}
		b.Replace(best.rhs, best.io, nil, cb)
		applied++
	}
	return applied
}

func (r *Rewriter) bestCandidate(b *subnet.Builder, idx uint32, cost CostFunction) (candidate, float64, bool) {
	var best candidate
	bestScore := 0.0
	found := false

	for _, c := range r.Extractor.Cuts(idx) {
		if c.Size() < 2 {
			continue // a trivial single-leaf cut has nothing to resynthesize
		}
		view := viewForCut(b, c)
		tables := subnet.Evaluate(view)
		target := tables[c.Root]
		care := careTable(view)
		io := ioMappingForCut(view)

		for _, synth := range r.Synth {
			rhs := synth.Synthesize(target, care, r.MaxArity)
			if rhs == nil {
				continue
			}
			effect := b.EvaluateReplace(rhs, io, nil)
			score := cost(effect)
			if !found || score > bestScore {
				found = true
				bestScore = score
				best = candidate{rhs: rhs, io: io}
			}
		}
	}
	return best, bestScore, found
}

// viewForCut builds the View a cut denotes: its leaves, in ascending
// index order, as the boundary inputs, and its root as the sole
// output.
func viewForCut(src subnet.EntryReader, c cut.Cut) *subnet.View {
	leaves := make([]uint32, 0, c.Size())
	if c.Leaves != nil {
		for i, ok := c.Leaves.NextSet(0); ok; i, ok = c.Leaves.NextSet(i + 1) {
			leaves = append(leaves, uint32(i))
		}
	}
	return subnet.NewView(src, leaves, []uint32{c.Root})
}

// ioMappingForCut turns a cut's View into the IOMapping Replace needs:
// each boundary input supplies itself verbatim (a cut leaf is already
// a concrete entry, not a derived signal), and the view's single root
// is the old output to retire.
func ioMappingForCut(v *subnet.View) subnet.IOMapping {
	inputs := v.Inputs()
	links := make(subnet.LinkList, len(inputs))
	for i, in := range inputs {
		links[i] = subnet.NewLink(in, 0)
	}
	return subnet.IOMapping{Inputs: links, Outputs: []uint32{v.Outputs()[0]}}
}

// careTable converts a View's CareSet (subnet's public, truth-package-
// agnostic representation) into the internal truth.Table the
// resynthesizers expect. A View with no CareSet (the common case for a
// cut window) yields a nil care table, meaning every assignment
// matters.
func careTable(v *subnet.View) *truth.Table {
	if v.Care == nil {
		return nil
	}
	t := truth.Table{NumVars: v.Care.NumVars, Words: append([]uint64(nil), v.Care.Mask...)}
	return &t
}
