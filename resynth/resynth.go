package resynth

import (
	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/internal/truth"
)

// Resynthesizer is the common contract for C7's truth-table-driven
// replacement generators (spec §4.5): given a function and an optional
// care set, produce a self-contained replacement Subnet, or nil if
// this synthesizer cannot realize one. The returned Subnet has
// target.NumVars inputs (in variable order) and exactly one output;
// callers commit it in place of the cut's root with
// (*subnet.Builder).Replace.
type Resynthesizer interface {
	Synthesize(target truth.Table, care *truth.Table, maxArity int) *subnet.Subnet
}

// MMSynthesizer produces a plain sum-of-products network from the
// Minato-Morreale ISOP of the target function (spec §4.5, "MM/SOP").
type MMSynthesizer struct{}

func (MMSynthesizer) Synthesize(target truth.Table, care *truth.Table, maxArity int) *subnet.Subnet {
	return synthesizeSOP(target, care, maxArity, false)
}

// MMFactorSynthesizer is MMSynthesizer followed by algebraic factoring
// of the resulting SOP (spec §4.5, "MM with algebraic factoring"),
// grounded on the quick-divisor single-literal factoring in
// original_source's AlgebraicFactor.
type MMFactorSynthesizer struct{}

func (MMFactorSynthesizer) Synthesize(target truth.Table, care *truth.Table, maxArity int) *subnet.Subnet {
	return synthesizeSOP(target, care, maxArity, true)
}

func synthesizeSOP(target truth.Table, care *truth.Table, maxArity int, factor bool) *subnet.Subnet {
	b := subnet.NewBuilder()
	n := target.NumVars
	inputs := make(subnet.LinkList, n)
	for i := range inputs {
		inputs[i] = b.AddInput()
	}

	sop := ISOP(target, care)
	var out subnet.Link
	if factor {
		out = factorSOP(b, sop, inputs, maxArity)
	} else {
		out = synthFromSOP(b, sop, inputs, maxArity)
	}
	b.AddOutput(out)
	return b.Make()
}

// literalCounts tallies how many cubes reference each literal.
func literalCounts(sop []Cube) map[Literal]int {
	counts := make(map[Literal]int)
	for _, c := range sop {
		for _, l := range c {
			counts[l]++
		}
	}
	return counts
}

// mostFrequentLiteral returns the literal shared by the most cubes,
// the quick-divisor choice for algebraic factoring.
func mostFrequentLiteral(sop []Cube) (Literal, int) {
	var best Literal
	bestN := 0
	for l, n := range literalCounts(sop) {
		if n > bestN {
			best, bestN = l, n
		}
	}
	return best, bestN
}

// divideByLiteral splits sop into the cubes containing lit (with lit
// removed, the algebraic quotient) and the cubes that don't (the
// remainder).
func divideByLiteral(sop []Cube, lit Literal) (quo, rem []Cube) {
	for _, c := range sop {
		found := -1
		for i, l := range c {
			if l == lit {
				found = i
				break
			}
		}
		if found < 0 {
			rem = append(rem, c)
			continue
		}
		rest := make(Cube, 0, len(c)-1)
		rest = append(rest, c[:found]...)
		rest = append(rest, c[found+1:]...)
		quo = append(quo, rest)
	}
	return quo, rem
}

// factorSOP recursively pulls out the most shared literal of sop as a
// divisor (f = lit*quotient + remainder) and recurses on both halves,
// producing a multi-level AND/OR network instead of the flat two-level
// SOP synthFromSOP emits (spec §4.5's "algebraic factoring" variant).
// It falls back to synthFromSOP once no literal is shared by more than
// one cube, since factoring buys nothing further at that point.
func factorSOP(b *subnet.Builder, sop []Cube, inputs subnet.LinkList, maxArity int) subnet.Link {
	if len(sop) == 0 {
		return constZero(b)
	}
	if len(sop) == 1 {
		if len(sop[0]) == 0 {
			return constOne(b)
		}
		return synthFromCube(b, sop[0], inputs, maxArity)
	}

	lit, count := mostFrequentLiteral(sop)
	if count < 2 {
		return synthFromSOP(b, sop, inputs, maxArity)
	}

	quo, rem := divideByLiteral(sop, lit)
	quoLink := factorSOP(b, quo, inputs, maxArity)
	litLink := inputs[lit.Var]
	if !lit.Value {
		litLink = litLink.Inverted()
	}
	term := buildTree(b, subnet.SymAnd, subnet.LinkList{litLink, quoLink}, maxArity)
	if len(rem) == 0 {
		return term
	}
	remLink := factorSOP(b, rem, inputs, maxArity)
	return buildTree(b, subnet.SymOr, subnet.LinkList{term, remLink}, maxArity)
}
