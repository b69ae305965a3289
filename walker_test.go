package subnet

import "testing"

func buildHalfAdder() (*Builder, Link, Link, Link, Link) {
	b := NewBuilder()
	a := b.AddInput()
	c := b.AddInput()
	sum := b.AddCell(SymXor, LinkList{a, c})
	carry := b.AddCell(SymAnd, LinkList{a, c})
	outSum := b.AddOutput(sum)
	outCarry := b.AddOutput(carry)
	return b, a, c, outSum, outCarry
}

func TestWalkForwardTopologicalOrder(t *testing.T) {
	b, a, c, outSum, outCarry := buildHalfAdder()
	v := NewView(b, []uint32{a.Target, c.Target}, []uint32{outSum.Target, outCarry.Target})

	order := SaveForward(v)
	pos := map[uint32]int{}
	for i, idx := range order {
		pos[idx] = i
	}
	for _, idx := range order {
		for _, l := range b.Links(idx) {
			if pos[l.Target] >= pos[idx] {
				t.Fatalf("entry %d appears before its fanin %d in forward order", idx, l.Target)
			}
		}
	}
}

func TestWalkAbortPropagates(t *testing.T) {
	b, a, c, outSum, outCarry := buildHalfAdder()
	v := NewView(b, []uint32{a.Target, c.Target}, []uint32{outSum.Target, outCarry.Target})

	visited := 0
	ok := WalkForward(v, func(idx uint32) bool {
		visited++
		return visited < 2
	}, nil)
	if ok {
		t.Fatalf("expected WalkForward to report abort")
	}
}

func TestViewRejectsOpenBoundary(t *testing.T) {
	b, a, c, outSum, _ := buildHalfAdder()
	_ = c
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a boundary that does not actually close off every path")
		}
	}()
	// Omitting c as a declared input leaves a path to the true primary
	// input c open, so the view is not functionally closed.
	NewView(b, []uint32{a.Target}, []uint32{outSum.Target})
}

func TestEvaluateHalfAdder(t *testing.T) {
	b, a, c, outSum, outCarry := buildHalfAdder()
	v := NewView(b, []uint32{a.Target, c.Target}, []uint32{outSum.Target, outCarry.Target})

	tables := Evaluate(v)
	sum := tables[outSum.Target]
	carry := tables[outCarry.Target]

	// a,c truth rows: 00 -> sum0 carry0; 01 -> sum1 carry0;
	// 10 -> sum1 carry0; 11 -> sum0 carry1.
	want := []struct {
		a, c, sum, carry bool
	}{
		{false, false, false, false},
		{true, false, true, false},
		{false, true, true, false},
		{true, true, false, true},
	}
	for _, w := range want {
		assignment := 0
		if w.a {
			assignment |= 1
		}
		if w.c {
			assignment |= 2
		}
		gotSum := sum.Words[0]&(1<<uint(assignment)) != 0
		gotCarry := carry.Words[0]&(1<<uint(assignment)) != 0
		if gotSum != w.sum || gotCarry != w.carry {
			t.Fatalf("a=%v c=%v: sum=%v carry=%v, want sum=%v carry=%v", w.a, w.c, gotSum, gotCarry, w.sum, w.carry)
		}
	}
}
