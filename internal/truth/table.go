// Package truth implements Boolean truth-table algebra: construction
// from a Subnet's cell symbols, the small-arity fast path that packs a
// table into a single 64-bit word, the dynamic-width path for larger
// supports, and P-canonization (permutation+negation canonical form)
// used by the technology mapper's cell matcher and by the cut-based
// resynthesizers to recognize equivalent cuts.
//
// There is no third-party truth-table library anywhere in the example
// pack — kitty, which the original implementation leans on, is a
// C++-only header library with no Go equivalent among the retrieved
// repos — so this package works directly against math/bits (see
// DESIGN.md's stdlib justifications).
package truth

import (
	"math/bits"
)

// MaxWordVars is the largest input count a Table can represent as a
// single machine word (spec §4.2: "a small-arity fast path packs truth
// tables into 64-bit words when the number of view inputs is <= 6").
const MaxWordVars = 6

// Table is a Boolean function of NumVars variables, represented as one
// bit per input assignment (bit i of Words set iff the function is 1
// on the assignment whose bits match i). NumVars <= MaxWordVars tables
// use exactly one word; larger ones use 1<<(NumVars-6) words.
type Table struct {
	NumVars int
	Words   []uint64
}

// wordsFor returns how many uint64 words a table of n variables needs.
func wordsFor(n int) int {
	if n <= MaxWordVars {
		return 1
	}
	return 1 << (n - MaxWordVars)
}

// bitsFor is the number of valid low bits in the last word when
// n <= MaxWordVars (tables with n > MaxWordVars always fill every
// word completely).
func bitsFor(n int) int {
	if n > MaxWordVars {
		return 64
	}
	return 1 << n
}

// New returns the all-zero (constant false) table of n variables.
func New(n int) Table {
	return Table{NumVars: n, Words: make([]uint64, wordsFor(n))}
}

// Constant returns the constant table of n variables with every bit
// set to v.
func Constant(n int, v bool) Table {
	t := New(n)
	if v {
		t.fill()
	}
	return t
}

// wordMask is the set of bits within a single word that are significant
// for a table of n variables: all 64 once n reaches MaxWordVars.
func wordMask(n int) uint64 {
	if n >= MaxWordVars {
		return ^uint64(0)
	}
	return uint64(1)<<uint(1<<uint(n)) - 1
}

func (t *Table) fill() {
	mask := wordMask(t.NumVars)
	for i := range t.Words {
		t.Words[i] = mask
	}
}

// Var returns the table of n variables equal to the i-th input
// variable (bit i of the assignment index).
func Var(n, i int) Table {
	t := New(n)
	if n <= MaxWordVars {
		var w uint64
		total := bitsFor(n)
		for assignment := 0; assignment < total; assignment++ {
			if assignment&(1<<i) != 0 {
				w |= 1 << uint(assignment)
			}
		}
		t.Words[0] = w
		return t
	}
	// Dynamic width: variable i either toggles within a word (i < 6)
	// or selects whole words (i >= 6).
	if i < MaxWordVars {
		var w uint64
		for assignment := 0; assignment < 64; assignment++ {
			if assignment&(1<<i) != 0 {
				w |= 1 << uint(assignment)
			}
		}
		for idx := range t.Words {
			t.Words[idx] = w
		}
		return t
	}
	bit := i - MaxWordVars
	for idx := range t.Words {
		if idx&(1<<bit) != 0 {
			t.Words[idx] = ^uint64(0)
		}
	}
	return t
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	out := Table{NumVars: t.NumVars, Words: make([]uint64, len(t.Words))}
	copy(out.Words, t.Words)
	return out
}

// Not returns the logical negation of t.
func (t Table) Not() Table {
	out := t.Clone()
	mask := wordMask(t.NumVars)
	for i := range out.Words {
		out.Words[i] = ^out.Words[i] & mask
	}
	return out
}

func binOp(a, b Table, op func(x, y uint64) uint64) Table {
	if a.NumVars != b.NumVars {
		panic("truth: binary op on tables of different arity")
	}
	out := New(a.NumVars)
	for i := range out.Words {
		out.Words[i] = op(a.Words[i], b.Words[i])
	}
	return out
}

// And, Or, Xor are the elementwise Boolean binary operators.
func (t Table) And(o Table) Table { return binOp(t, o, func(x, y uint64) uint64 { return x & y }) }
func (t Table) Or(o Table) Table  { return binOp(t, o, func(x, y uint64) uint64 { return x | y }) }
func (t Table) Xor(o Table) Table { return binOp(t, o, func(x, y uint64) uint64 { return x ^ y }) }

// Maybe applies inversion to t if inv is set, else returns t unchanged.
func (t Table) Maybe(inv bool) Table {
	if inv {
		return t.Not()
	}
	return t
}

// Maj returns the bitwise majority of three same-arity tables.
func Maj(a, b, c Table) Table {
	return a.And(b).Or(b.And(c)).Or(a.And(c))
}

// Equal reports whether two tables (of the same arity) compute the
// same function.
func (t Table) Equal(o Table) bool {
	if t.NumVars != o.NumVars || len(t.Words) != len(o.Words) {
		return false
	}
	for i := range t.Words {
		if t.Words[i] != o.Words[i] {
			return false
		}
	}
	return true
}

// IsConstant reports whether t is constant, and if so, its value.
func (t Table) IsConstant() (value, ok bool) {
	zero := Constant(t.NumVars, false)
	if t.Equal(zero) {
		return false, true
	}
	one := Constant(t.NumVars, true)
	if t.Equal(one) {
		return true, true
	}
	return false, false
}

// bitAt reports the function value at the given input assignment (bit
// j of assignment is the value of variable j).
func (t Table) bitAt(assignment int) bool {
	word := 0
	local := assignment
	if t.NumVars > MaxWordVars {
		word = assignment >> MaxWordVars
		local = assignment & (1<<MaxWordVars - 1)
	}
	return t.Words[word]&(1<<uint(local)) != 0
}

func (t *Table) setBit(assignment int, v bool) {
	word := 0
	local := assignment
	if t.NumVars > MaxWordVars {
		word = assignment >> MaxWordVars
		local = assignment & (1<<MaxWordVars - 1)
	}
	if v {
		t.Words[word] |= 1 << uint(local)
	} else {
		t.Words[word] &^= 1 << uint(local)
	}
}

// numAssignments is the total number of input rows, 2^NumVars.
func (t Table) numAssignments() int {
	if t.NumVars <= MaxWordVars {
		return 1 << uint(t.NumVars)
	}
	return len(t.Words) << MaxWordVars
}

// Cofactor restricts variable i to value v, returning a table of the
// same arity: the assignment's bit i is forced to v before the lookup,
// so the restricted variable's position still exists in the result but
// no longer affects it. Callers needing actual arity reduction permute
// variable i to the top first.
func (t Table) Cofactor(i int, v bool) Table {
	out := New(t.NumVars)
	total := out.numAssignments()
	for a := 0; a < total; a++ {
		forced := a
		if v {
			forced |= 1 << uint(i)
		} else {
			forced &^= 1 << uint(i)
		}
		out.setBit(a, t.bitAt(forced))
	}
	return out
}

// NegateInput returns the table computed by substituting NOT(x_i) for
// variable i throughout t: f'(x) = f(x with bit i flipped). Used by
// NPN canonization to try every input-negation combination and by the
// library's super-cell derivation to model inverting one input of a
// base cell.
func (t Table) NegateInput(i int) Table {
	out := New(t.NumVars)
	total := out.numAssignments()
	for a := 0; a < total; a++ {
		flipped := a ^ (1 << uint(i))
		out.setBit(a, t.bitAt(flipped))
	}
	return out
}

// BitAt reports the function value at the given input assignment (bit
// j of assignment is the value of variable j).
func (t Table) BitAt(assignment int) bool { return t.bitAt(assignment) }

// SetBit sets the function value at the given input assignment.
func (t *Table) SetBit(assignment int, v bool) { t.setBit(assignment, v) }

// CountOnes returns the number of input assignments for which t is
// true — used by the resynthesizers for ISOP's empty-onset test and
// for the Akers search's Hamming distance to the target.
func (t Table) CountOnes() int {
	n := 0
	for _, w := range t.Words {
		n += bits.OnesCount64(w)
	}
	return n
}
