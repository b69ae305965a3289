package resynth

import (
	"sort"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/internal/truth"
)

// AkersSynthesizer produces a MAJ-only replacement network, grounded
// on original_source/.../synthesis/akers.cpp's majority synthesis.
//
// The original builds a "unitized table" over on-set/off-set pairs and
// iteratively removes columns by finding essential-ones pairs and
// strictly-dominated columns. That bookkeeping exists to pick a small
// network quickly; it is not needed for correctness, since {MAJ,
// complemented literals, constants} is functionally complete on its
// own (every Boolean function is some nesting of majority gates over
// literals and constants — this is the defining property of a
// majority-inverter graph). AkersSynthesizer instead runs a bounded
// beam search directly over truth tables: starting from the 2n+2
// literals and constants, it repeatedly keeps the MAJ(a,b,c) triples
// closest (by Hamming distance) to the target, until it finds an exact
// match or exhausts its budget. See DESIGN.md for this simplification.
//
// The care set is not exploited (a don't-care-free exact realization
// is conservatively also correct on the restricted care subset), and
// Synthesize returns nil if the budget is exhausted without finding an
// exact realization — callers must treat that as "no replacement",
// exactly like any other Resynthesizer.
type AkersSynthesizer struct {
	// BeamWidth caps how many new MAJ nodes are kept per round; zero
	// selects a default.
	BeamWidth int
	// MaxRounds caps how many rounds of MAJ combination are tried
	// before giving up; zero selects a default.
	MaxRounds int
}

const (
	defaultAkersBeamWidth = 24
	defaultAkersMaxRounds = 48
	// akersPoolCap bounds how many previously-built nodes stay eligible
	// for new triples, keeping the O(pool^3) search per round tractable
	// as rounds accumulate.
	akersPoolCap = 64
)

type akersNode struct {
	table   truth.Table
	literal bool
	varIdx  int
	neg     bool
	isConst bool
	constOn bool
	parents [3]int
}

func (AkersSynthesizer) synthesize(target truth.Table, beamWidth, maxRounds int) []akersNode {
	if beamWidth <= 0 {
		beamWidth = defaultAkersBeamWidth
	}
	if maxRounds <= 0 {
		maxRounds = defaultAkersMaxRounds
	}
	n := target.NumVars

	var nodes []akersNode
	for i := 0; i < n; i++ {
		nodes = append(nodes, akersNode{table: truth.Var(n, i), literal: true, varIdx: i, neg: false})
		nodes = append(nodes, akersNode{table: truth.Var(n, i).Not(), literal: true, varIdx: i, neg: true})
	}
	nodes = append(nodes, akersNode{table: truth.Constant(n, false), isConst: true, constOn: false})
	nodes = append(nodes, akersNode{table: truth.Constant(n, true), isConst: true, constOn: true})

	if idx := findTable(nodes, target); idx >= 0 {
		return nodes[:idx+1]
	}

	// active holds indices into nodes eligible for forming new triples.
	// Base literals/constants stay active forever; derived nodes beyond
	// akersPoolCap age out so each round's candidate generation
	// (O(len(active)^3)) stays bounded regardless of how many rounds
	// have run.
	numBase := len(nodes)
	active := make([]int, numBase)
	known := make(map[string]bool, numBase)
	for i := range active {
		active[i] = i
		known[tableKey(nodes[i].table)] = true
	}

	for round := 0; round < maxRounds; round++ {
		type cand struct {
			i, j, k int
			table   truth.Table
			dist    int
		}
		var cands []cand
		for ii := 0; ii < len(active); ii++ {
			for jj := 0; jj < ii; jj++ {
				for kk := 0; kk < jj; kk++ {
					i, j, k := active[ii], active[jj], active[kk]
					t := truth.Maj(nodes[i].table, nodes[j].table, nodes[k].table)
					cands = append(cands, cand{i, j, k, t, t.Xor(target).CountOnes()})
				}
			}
		}
		sort.Slice(cands, func(a, bi int) bool { return cands[a].dist < cands[bi].dist })

		added := 0
		var newActive []int
		for _, c := range cands {
			if added >= beamWidth {
				break
			}
			key := tableKey(c.table)
			if known[key] {
				continue
			}
			known[key] = true
			nodes = append(nodes, akersNode{table: c.table, parents: [3]int{c.i, c.j, c.k}})
			newActive = append(newActive, len(nodes)-1)
			added++
			if c.dist == 0 {
				return nodes
			}
		}
		if added == 0 {
			break
		}

		active = append(active, newActive...)
		if derived := len(active) - numBase; derived > akersPoolCap {
			drop := derived - akersPoolCap
			active = append(append([]int(nil), active[:numBase]...), active[numBase+drop:]...)
		}
	}
	return nil
}

// tableKey renders a truth table to a map key for the search's
// already-seen dedup set.
func tableKey(t truth.Table) string {
	buf := make([]byte, 0, 8*len(t.Words))
	for _, w := range t.Words {
		for i := 0; i < 8; i++ {
			buf = append(buf, byte(w>>(8*i)))
		}
	}
	return string(buf)
}

func findTable(nodes []akersNode, target truth.Table) int {
	for i, nd := range nodes {
		if nd.table.Equal(target) {
			return i
		}
	}
	return -1
}

// Synthesize implements Resynthesizer.
func (a AkersSynthesizer) Synthesize(target truth.Table, care *truth.Table, maxArity int) *subnet.Subnet {
	nodes := a.synthesize(target, a.BeamWidth, a.MaxRounds)
	if nodes == nil {
		return nil
	}

	b := subnet.NewBuilder()
	n := target.NumVars
	inputs := make(subnet.LinkList, n)
	for i := range inputs {
		inputs[i] = b.AddInput()
	}

	built := make(map[int]subnet.Link, len(nodes))
	var build func(idx int) subnet.Link
	build = func(idx int) subnet.Link {
		if l, ok := built[idx]; ok {
			return l
		}
		nd := nodes[idx]
		var l subnet.Link
		switch {
		case nd.literal:
			l = inputs[nd.varIdx]
			if nd.neg {
				l = l.Inverted()
			}
		case nd.isConst:
			if nd.constOn {
				l = constOne(b)
			} else {
				l = constZero(b)
			}
		default:
			l0 := build(nd.parents[0])
			l1 := build(nd.parents[1])
			l2 := build(nd.parents[2])
			l = b.AddCell(subnet.SymMaj, subnet.LinkList{l0, l1, l2})
		}
		built[idx] = l
		return l
	}

	out := build(len(nodes) - 1)
	b.AddOutput(out)
	return b.Make()
}
