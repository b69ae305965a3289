package techmap

import (
	"fmt"

	"github.com/vlsicore/subnet/internal/truth"
	"github.com/vlsicore/subnet/library"
)

// CutMatch is a candidate mapping of a cut to one output of a library
// cell: which cell, which of its outputs, and how the cut's leaves
// wire onto the cell's input pins, each with the inversion needed to
// reconcile the cut's and the cell's independent canonical forms
// (spec §4.6 GLOSSARY "Match: a candidate mapping of a cut to a
// library cell with input-link reordering").
type CutMatch struct {
	Cell   *library.Cell
	Output int
	// Inputs[p] is the index, into the cut's own leaf slice, of the
	// leaf that must drive pin p of Cell.
	Inputs []int
	// Inversion[p] reports whether the value feeding pin p must be
	// inverted relative to the leaf's own polarity.
	Inversion []bool
	// OutputInversion reports whether the match's output value is the
	// logical negation of the cut's target function — callers absorb
	// this into the inversion bit of whatever link consumes the
	// match's output, never by adding an extra inverter cell.
	OutputInversion bool
}

// Matcher looks up library cells realizing a cut's Boolean function.
type Matcher interface {
	// Match returns every way table (a function over len(leaves)
	// variables, variable i corresponding to leaves[i]) can be realized
	// by a single library cell.
	Match(table truth.Table, numLeaves int) []CutMatch
}

// PBoolMatcher indexes library cells by the P-canonical truth table of
// each output and reorders/polarity-corrects on lookup (spec §4.6:
// "indexes library cells by the P-canonical truth table of each
// output... returns a Match whose input links are the cut leaves
// permuted by τ").
type PBoolMatcher struct {
	Lib *library.Library
}

// Match implements Matcher.
func (m PBoolMatcher) Match(table truth.Table, numLeaves int) []CutMatch {
	if table.NumVars != numLeaves {
		panic("techmap: PBoolMatcher.Match table arity does not match leaf count")
	}
	cutCanon := truth.Canonicalize(table)
	key := library.CanonKey(cutCanon.Table)
	hits := m.Lib.Lookup(key)
	if len(hits) == 0 {
		return nil
	}

	matches := make([]CutMatch, 0, len(hits))
	for _, hit := range hits {
		libCanon := hit.Cell.Outputs[hit.Output].Canon
		if !libCanon.Table.Equal(cutCanon.Table) {
			continue // a canon-key collision, not a real functional match
		}
		if libCanon.Table.NumVars != cutCanon.Table.NumVars {
			continue
		}
		n := cutCanon.Table.NumVars
		inputs := make([]int, n)
		inversion := make([]bool, n)
		for c := 0; c < n; c++ {
			leaf := cutCanon.Perm[c]
			pin := libCanon.Perm[c]
			inputs[pin] = leaf
			inversion[pin] = cutCanon.InputNeg[leaf] != libCanon.InputNeg[pin]
		}
		matches = append(matches, CutMatch{
			Cell:            hit.Cell,
			Output:          hit.Output,
			Inputs:          inputs,
			Inversion:       inversion,
			OutputInversion: cutCanon.OutputNeg != libCanon.OutputNeg,
		})
	}
	return matches
}

// FuncMatcher indexes cells by a hash of the raw (non-canonized)
// dynamic truth table, for use when P-canonization is undesired (spec
// §4.6: "Alternative FuncMatcher indexes by a hash of the dynamic
// truth table; used when P-canonization is undesired"). It only
// matches a cut whose leaves already appear in exactly the cell's own
// declared pin order and polarity — no permutation or negation search
// is performed.
type FuncMatcher struct {
	byFunc map[string][]library.Match
}

// NewFuncMatcher builds a FuncMatcher over every cell/output in lib,
// keyed by the cell's own declared (uncanonized) function.
func NewFuncMatcher(lib *library.Library) *FuncMatcher {
	m := &FuncMatcher{byFunc: map[string][]library.Match{}}
	for _, c := range lib.Cells() {
		for i, out := range c.Outputs {
			key := funcKey(out.Function)
			m.byFunc[key] = append(m.byFunc[key], library.Match{Cell: c, Output: i})
		}
	}
	return m
}

func funcKey(t truth.Table) string {
	return fmt.Sprintf("%d:%v", t.NumVars, t.Words)
}

// Match implements Matcher.
func (m *FuncMatcher) Match(table truth.Table, numLeaves int) []CutMatch {
	hits := m.byFunc[funcKey(table)]
	if len(hits) == 0 {
		return nil
	}
	matches := make([]CutMatch, 0, len(hits))
	for _, hit := range hits {
		if hit.Cell.Arity() != numLeaves {
			continue
		}
		inputs := make([]int, numLeaves)
		inversion := make([]bool, numLeaves)
		for i := range inputs {
			inputs[i] = i
		}
		matches = append(matches, CutMatch{Cell: hit.Cell, Output: hit.Output, Inputs: inputs, Inversion: inversion})
	}
	return matches
}
