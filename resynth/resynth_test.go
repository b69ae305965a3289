package resynth_test

import (
	"testing"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/internal/truth"
	"github.com/vlsicore/subnet/resynth"
)

// evalOutput builds a full View over sub (every input, the single
// output) and returns the truth table it computes.
func evalOutput(t *testing.T, sub *subnet.Subnet) truth.Table {
	t.Helper()
	n := sub.NumInputs()
	inputs := make([]uint32, n)
	for i := 0; i < n; i++ {
		inputs[i] = uint32(i)
	}
	outIdx := uint32(sub.Len() - 1)
	v := subnet.NewView(sub, inputs, []uint32{outIdx})
	tables := subnet.Evaluate(v)
	return tables[outIdx]
}

func and3() truth.Table {
	return truth.Var(3, 0).And(truth.Var(3, 1)).And(truth.Var(3, 2))
}

func TestMMSynthesizerRealizesAND3(t *testing.T) {
	target := and3()
	sub := resynth.MMSynthesizer{}.Synthesize(target, nil, 2)
	if sub == nil {
		t.Fatalf("expected a non-nil subnet")
	}
	got := evalOutput(t, sub)
	if !got.Equal(target) {
		t.Fatalf("synthesized function does not match target:\nwant %v\ngot  %v", target.Words, got.Words)
	}
}

func TestMMSynthesizerRespectsCare(t *testing.T) {
	// target: majority-like function of 3 vars, with one input
	// combination marked don't-care and set to the "wrong" value to
	// confirm ISOP is free to ignore it.
	n := 3
	target := truth.Maj(truth.Var(n, 0), truth.Var(n, 1), truth.Var(n, 2))
	care := truth.New(n)
	care.SetBit(0, true) // assignment 0 (all inputs 0) is a don't-care
	target.SetBit(0, true) // deliberately wrong at the don't-care position

	sub := resynth.MMSynthesizer{}.Synthesize(target, &care, 2)
	got := evalOutput(t, sub)

	total := 1 << uint(n)
	for a := 0; a < total; a++ {
		if care.BitAt(a) {
			continue
		}
		if got.BitAt(a) != target.BitAt(a) {
			t.Fatalf("mismatch at cared assignment %d: want %v got %v", a, target.BitAt(a), got.BitAt(a))
		}
	}
}

func TestMMFactorSynthesizerRealizesFunction(t *testing.T) {
	n := 4
	// (a&b) | (a&c) | d — a shares literal 'a' across two terms, the
	// case factoring is meant to exploit.
	a, b, c, d := truth.Var(n, 0), truth.Var(n, 1), truth.Var(n, 2), truth.Var(n, 3)
	target := a.And(b).Or(a.And(c)).Or(d)

	sub := resynth.MMFactorSynthesizer{}.Synthesize(target, nil, 2)
	got := evalOutput(t, sub)
	if !got.Equal(target) {
		t.Fatalf("factored synthesis mismatch:\nwant %v\ngot  %v", target.Words, got.Words)
	}
}

func TestSynthesizersHandleConstants(t *testing.T) {
	zero := truth.Constant(2, false)
	one := truth.Constant(2, true)
	for _, target := range []truth.Table{zero, one} {
		sub := resynth.MMSynthesizer{}.Synthesize(target, nil, 4)
		got := evalOutput(t, sub)
		if !got.Equal(target) {
			t.Fatalf("constant synthesis mismatch: want %v got %v", target.Words, got.Words)
		}
	}
}

func TestISOPCoverIsSound(t *testing.T) {
	n := 3
	target := and3()
	cubes := resynth.ISOP(target, nil)
	if len(cubes) == 0 {
		t.Fatalf("expected at least one cube for a non-constant-false function")
	}
	total := 1 << uint(n)
	for a := 0; a < total; a++ {
		want := target.BitAt(a)
		got := false
		for _, cube := range cubes {
			match := true
			for _, lit := range cube {
				if ((a>>uint(lit.Var))&1 == 1) != lit.Value {
					match = false
					break
				}
			}
			if match {
				got = true
				break
			}
		}
		if got != want {
			t.Fatalf("ISOP cover disagrees with target at assignment %d: want %v got %v", a, want, got)
		}
	}
}
