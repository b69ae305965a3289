package subnet

import "testing"

// TestReplacePreservesExternalFanout is the §8 scenario: a shared node
// used by two outputs must still be computed consistently after a
// replace targeting it.
func TestReplacePreservesExternalFanout(t *testing.T) {
	b := NewBuilder()
	a := b.AddInput()
	c := b.AddInput()
	shared := b.AddCell(SymAnd, LinkList{a, c})
	b.AddOutput(shared)
	b.AddOutput(shared)

	// Replacement: a BUF(AND(a,c)) — functionally identical, structurally
	// different, to exercise the rewiring path without changing
	// semantics.
	rhs := NewBuilder()
	ra := rhs.AddInput()
	rc := rhs.AddInput()
	rand := rhs.AddCell(SymAnd, LinkList{ra, rc})
	rbuf := rhs.AddCell(SymBuf, LinkList{rand})
	rhs.AddOutput(rbuf)
	rhsSnap := rhs.Make()

	io := IOMapping{Inputs: LinkList{a, c}, Outputs: []uint32{shared.Target}}
	eff := b.Replace(rhsSnap, io, nil, nil)
	_ = eff

	snap := b.Make()
	if snap.NumOutputs() != 2 {
		t.Fatalf("expected 2 outputs preserved, got %d", snap.NumOutputs())
	}
	outs := snap.outputIndices()
	firstLink := snap.Links(outs[0])[0]
	secondLink := snap.Links(outs[1])[0]
	if firstLink.Target != secondLink.Target {
		t.Fatalf("both outputs must still point at the same replacement root")
	}
}

func TestEvaluateReplaceDoesNotMutate(t *testing.T) {
	b := NewBuilder()
	a := b.AddInput()
	c := b.AddInput()
	and := b.AddCell(SymAnd, LinkList{a, c})
	b.AddOutput(and)
	before := b.Len()

	rhs := NewBuilder()
	ra := rhs.AddInput()
	rc := rhs.AddInput()
	rhs.AddOutput(rhs.AddCell(SymAnd, LinkList{ra, rc}))
	rhsSnap := rhs.Make()

	io := IOMapping{Inputs: LinkList{a, c}, Outputs: []uint32{and.Target}}
	_ = b.EvaluateReplace(rhsSnap, io, nil)

	if b.Len() != before {
		t.Fatalf("EvaluateReplace mutated the builder: len %d -> %d", before, b.Len())
	}
}

// TestEvaluateReplaceMatchesActualDelta checks §8 property 2:
// EvaluateReplace's reported Effect must equal the true before/after
// difference a real Replace produces.
func TestEvaluateReplaceMatchesActualDelta(t *testing.T) {
	build := func() (*Builder, Link, Link, Link) {
		b := NewBuilder()
		a := b.AddInput()
		c := b.AddInput()
		and := b.AddCell(SymAnd, LinkList{a, c})
		b.AddOutput(and)
		return b, a, c, and
	}

	rhsFor := func() *Subnet {
		rhs := NewBuilder()
		ra := rhs.AddInput()
		rc := rhs.AddInput()
		n1 := rhs.AddCell(SymNot, LinkList{ra})
		n2 := rhs.AddCell(SymNot, LinkList{n1})
		rhs.AddOutput(rhs.AddCell(SymAnd, LinkList{n2, rc}))
		return rhs.Make()
	}

	b, a, c, and := build()
	rhsSnap := rhsFor()
	io := IOMapping{Inputs: LinkList{a, c}, Outputs: []uint32{and.Target}}

	predicted := b.EvaluateReplace(rhsSnap, io, nil)

	beforeCells := b.countLiveCells()
	beforeWeight := b.sumLiveWeight()
	beforeDepth := b.Depth(and.Target)

	actual := b.Replace(rhsSnap, io, nil, nil)

	afterCells := b.countLiveCells()
	afterWeight := b.sumLiveWeight()
	newOutLink := b.Links(and.Target + 1)[0] // the OUT entry added right after and
	afterDepth := b.Depth(newOutLink.Target)

	if predicted.DeltaCells != actual.DeltaCells {
		t.Fatalf("predicted DeltaCells %d != actual %d", predicted.DeltaCells, actual.DeltaCells)
	}
	if actual.DeltaCells != afterCells-beforeCells {
		t.Fatalf("actual DeltaCells %d != measured %d", actual.DeltaCells, afterCells-beforeCells)
	}
	if actual.DeltaWeight != afterWeight-beforeWeight {
		t.Fatalf("actual DeltaWeight %v != measured %v", actual.DeltaWeight, afterWeight-beforeWeight)
	}
	if actual.DeltaDepth != afterDepth-beforeDepth {
		t.Fatalf("actual DeltaDepth %d != measured %d", actual.DeltaDepth, afterDepth-beforeDepth)
	}
}

func TestReplaceSweepsDeadCone(t *testing.T) {
	b := NewBuilder()
	a := b.AddInput()
	c := b.AddInput()
	inner := b.AddCell(SymNot, LinkList{a})
	and := b.AddCell(SymAnd, LinkList{inner, c})
	b.AddOutput(and)

	rhs := NewBuilder()
	ra := rhs.AddInput()
	rc := rhs.AddInput()
	rhs.AddOutput(rhs.AddCell(SymAnd, LinkList{ra, rc}))
	rhsSnap := rhs.Make()

	io := IOMapping{Inputs: LinkList{a, c}, Outputs: []uint32{and.Target}}
	b.Replace(rhsSnap, io, nil, nil)

	if b.Refcount(inner.Target) != 0 {
		t.Fatalf("expected inner NOT cell refcount to drop to 0 once its consumer is replaced")
	}
}

func TestWeightModifierAppliedAfterAggregation(t *testing.T) {
	b := NewBuilder()
	a := b.AddInput()
	c := b.AddInput()
	and := b.AddCell(SymAnd, LinkList{a, c})
	b.SetWeight(and.Target, 5)
	b.AddOutput(and)

	rhs := NewBuilder()
	ra := rhs.AddInput()
	rc := rhs.AddInput()
	rhs.AddOutput(rhs.AddCell(SymAnd, LinkList{ra, rc}))
	rhsSnap := rhs.Make()

	io := IOMapping{Inputs: LinkList{a, c}, Outputs: []uint32{and.Target}}
	var modifierSaw float64
	modifier := func(delta float64) float64 {
		modifierSaw = delta
		return delta * 2
	}
	eff := b.Replace(rhsSnap, io, modifier, nil)
	if eff.DeltaWeight != modifierSaw*2 {
		t.Fatalf("modifier result not applied: got %v, want %v", eff.DeltaWeight, modifierSaw*2)
	}
}
