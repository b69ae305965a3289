package truth

import "sort"

// Canon is the P-canonical form of a Table: the function obtained by
// negating inputs/output and permuting inputs to reach a fixed
// representative, together with the transform that maps the canonical
// inputs back to the table's original pin order (spec §3: "a canonical
// truth table (obtained by P-canonization) and the permutation/negation
// that maps the canonical inputs back to the original pin order").
type Canon struct {
	Table     Table
	Perm      []int  // Perm[canonical position] = original pin index
	InputNeg  []bool // InputNeg[original pin index] = input inverted before matching
	OutputNeg bool
}

// Canonicalize computes the P-canonical form of t by exhaustive search
// over all input permutations and input/output negations, picking the
// lexicographically smallest resulting word sequence as the
// representative.
//
// This is the exact algorithm for any arity and the only canonizer in
// this package; its cost is O(n! * 2^n). Library cells (n is small,
// almost always <= 6) and cut-based resynthesis (n bounded by the
// configured cut size, typically <= 8) both stay well inside where
// this is fast enough — see DESIGN.md's decision to accept every arity
// rather than imposing a hard cap.
func Canonicalize(t Table) Canon {
	n := t.NumVars
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	var best Canon
	haveBest := false

	permute := func(p []int) Table {
		out := New(n)
		total := out.numAssignments()
		for a := 0; a < total; a++ {
			src := 0
			for pos, orig := range p {
				if a&(1<<uint(pos)) != 0 {
					src |= 1 << uint(orig)
				}
			}
			out.setBit(a, t.bitAt(src))
		}
		return out
	}

	tryAllNegations := func(p []int) {
		base := permute(p)
		for mask := 0; mask < 1<<uint(n); mask++ {
			cur := base
			inputNeg := make([]bool, n)
			for i := 0; i < n; i++ {
				if mask&(1<<uint(i)) != 0 {
					cur = cur.NegateInput(i)
					inputNeg[p[i]] = true
				}
			}
			for _, outNeg := range [2]bool{false, true} {
				candidate := cur
				if outNeg {
					candidate = candidate.Not()
				}
				if !haveBest || lessWords(candidate.Words, best.Table.Words) {
					haveBest = true
					best = Canon{
						Table:     candidate,
						Perm:      append([]int(nil), p...),
						InputNeg:  inputNeg,
						OutputNeg: outNeg,
					}
				}
			}
		}
	}

	permutations(perm, tryAllNegations)
	return best
}

func lessWords(a, b []uint64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// permutations calls f once per permutation of p (Heap's algorithm),
// leaving p restored to its original order on return.
func permutations(p []int, f func([]int)) {
	n := len(p)
	c := make([]int, n)
	f(p)
	i := 0
	for i < n {
		if c[i] < i {
			if i%2 == 0 {
				p[0], p[i] = p[i], p[0]
			} else {
				p[c[i]], p[i] = p[i], p[c[i]]
			}
			f(p)
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
}

// SortBySupport orders table indices by the number of variables they
// actually depend on, ascending; indices with equal support keep their
// input order.
func SortBySupport(tables []Table) []int {
	idx := make([]int, len(tables))
	for i := range idx {
		idx[i] = i
	}
	support := make([]int, len(tables))
	for i, t := range tables {
		for v := 0; v < t.NumVars; v++ {
			if !t.Cofactor(v, false).Equal(t.Cofactor(v, true)) {
				support[i]++
			}
		}
	}
	sort.SliceStable(idx, func(i, j int) bool { return support[idx[i]] < support[idx[j]] })
	return idx
}
