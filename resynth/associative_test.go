package resynth_test

import (
	"testing"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/internal/truth"
	"github.com/vlsicore/subnet/resynth"
)

func buildLeftDeepAND4(t *testing.T) (*subnet.Builder, uint32) {
	t.Helper()
	b := subnet.NewBuilder()
	in0 := b.AddInput()
	in1 := b.AddInput()
	in2 := b.AddInput()
	in3 := b.AddInput()
	n1 := b.AddCell(subnet.SymAnd, subnet.LinkList{in0, in1})
	n2 := b.AddCell(subnet.SymAnd, subnet.LinkList{n1, in2})
	root := b.AddCell(subnet.SymAnd, subnet.LinkList{n2, in3})
	b.AddOutput(root)
	return b, root.Target
}

func TestAssociativeReorderBalancesLeftDeepChain(t *testing.T) {
	b, root := buildLeftDeepAND4(t)
	beforeDepth := b.Depth(root)

	changed := resynth.AssociativeReorder(b, root, 2)
	if !changed {
		t.Fatalf("expected the unbalanced chain to be rebalanced")
	}

	sub := b.Make()
	n := sub.NumInputs()
	inputs := make([]uint32, n)
	for i := range inputs {
		inputs[i] = uint32(i)
	}
	outIdx := uint32(sub.Len() - 1)
	v := subnet.NewView(sub, inputs, []uint32{outIdx})
	tables := subnet.Evaluate(v)

	want := truth.Var(n, 0).And(truth.Var(n, 1)).And(truth.Var(n, 2)).And(truth.Var(n, 3))
	if got := tables[outIdx]; !got.Equal(want) {
		t.Fatalf("AssociativeReorder changed the function: want %v got %v", want.Words, got.Words)
	}

	if afterDepth := sub.Depth(outIdx); afterDepth >= beforeDepth {
		t.Fatalf("expected depth to improve: before root depth %d, after output depth %d", beforeDepth, afterDepth)
	}
}

func TestAssociativeReorderSkipsNonAssociativeRoot(t *testing.T) {
	b := subnet.NewBuilder()
	in0 := b.AddInput()
	in1 := b.AddInput()
	notIn0 := b.AddCell(subnet.SymNot, subnet.LinkList{in0})
	root := b.AddCell(subnet.SymXnor, subnet.LinkList{notIn0, in1})
	if resynth.AssociativeReorder(b, root.Target, 2) {
		// XNOR is not one of the symbols AssociativeReorder flattens, so
		// it must report no change rather than reinterpret the cell.
		t.Fatalf("expected no change for a non-associative-set root symbol")
	}
}
