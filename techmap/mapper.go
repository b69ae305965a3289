package techmap

import (
	"fmt"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/cut"
	"github.com/vlsicore/subnet/internal/diag"
)

// Status names how a mapped Result relates to its Criterion.
type Status uint8

const (
	// StatusOK: the final mapped Subnet's global cost respects every
	// bound of the Criterion.
	StatusOK Status = iota
	// StatusConstraintViolated: mapping completed but the global cost
	// exceeds a bound even after recovery retries were exhausted (spec
	// §7 CONSTRAINT_VIOLATED: "reported but a Subnet is still
	// produced").
	StatusConstraintViolated
)

// Result is a completed mapping attempt.
type Result struct {
	Subnet *subnet.Subnet
	Cost   CostVector
	Status Status
}

// Mapper implements the technology mapper of spec §4.6: a single-pass
// DP cover of a premapped Builder by Matcher-supplied library cells,
// scored by Criterion, with early-recovery restarts (tension-biased
// reruns) and cut-widening retries on local mapping failure.
type Mapper struct {
	Matcher   Matcher
	Criterion Criterion
	// K is the initial k-feasible cut size; MaxWiden further retries at
	// K+2, K+4, ... when an output's fanin entry has no matching cell (spec
	// §4.6: "if none exist, mapping fails with an INCOMPLETE_MAPPING
	// diagnostic"; "if no match exists... the mapper attempts wider
	// cuts").
	K        int
	Nmax     int
	MaxWiden int
	// MaxTries bounds the early-recovery restart loop (spec §4.6
	// "restart with the biased cost-vector comparator up to max_tries
	// times").
	MaxTries int
}

// Map runs the mapper over src, widening cuts on local failure and
// retrying with recovery tension on global infeasibility, up to the
// configured limits. It returns a *diag.SynthError wrapping
// MAPPING_INFEASIBLE if, at every tried cut size, the fanin entry of
// some output has no library cover.
func (m *Mapper) Map(src *subnet.Builder) (*Result, error) {
	k := m.K
	for widen := 0; ; widen++ {
		extractor := cut.New(src, cut.Params{K: k, Nmax: m.Nmax})
		result, ok, failedAt := m.mapWithExtractor(src, extractor)
		if ok {
			return result, nil
		}
		if widen >= m.MaxWiden {
			return nil, diag.NewAt(diag.MappingInfeasible, failedAt,
				"no library cell matches any cut up to size %d", k)
		}
		k += 2
	}
}

type passOutcome uint8

const (
	outcomeComplete passOutcome = iota
	outcomeIncomplete
	outcomeRerun
)

// mapWithExtractor runs the tension-restart recovery loop over one
// fixed cut size. ok is false when the fanin entry of some output had
// no library match at all (the caller should widen); failedAt names
// that entry.
func (m *Mapper) mapWithExtractor(src *subnet.Builder, extractor *cut.Extractor) (result *Result, ok bool, failedAt uint32) {
	tension := NeutralTension
	tries := m.MaxTries
	if tries < 0 {
		tries = 0
	}

	for try := 0; ; try++ {
		final := try >= tries
		spaces, outcome, partial, badIdx := m.forwardPass(src, extractor, tension, final)

		switch outcome {
		case outcomeIncomplete:
			return nil, false, badIdx
		case outcomeRerun:
			tension = tension.Compose(m.Criterion.Violation(partial))
			continue
		}

		result = m.reconstruct(src, spaces)
		if result.Status == StatusOK || final {
			return result, true, 0
		}
		tension = tension.Compose(m.Criterion.Violation(result.Cost))
	}
}

// forwardPass builds one SolutionSpace per entry in topological order,
// matching library cells against every non-trivial cut of each
// structural entry (spec §4.6 step 1). When final is false it also
// runs the early-recovery check past the 50% mark (spec §4.6 step 3);
// final (the max_tries-exhausted pass) always runs to completion.
func (m *Mapper) forwardPass(src *subnet.Builder, extractor *cut.Extractor, tension CostVector, final bool) (spaces []*SolutionSpace, outcome passOutcome, partial CostVector, failedAt uint32) {
	n := src.Len()
	spaces = make([]*SolutionSpace, n)

	for idx := 0; idx < n; idx++ {
		sym := src.Symbol(uint32(idx))
		switch {
		case sym.IsTerminal():
			s := &SolutionSpace{}
			s.Consider(terminalSolution(), m.Criterion, tension)
			spaces[idx] = s
		case sym == subnet.SymOut:
			fanin := src.Links(uint32(idx))[0].Target
			if _, ok := spaces[fanin].Chosen(); !ok {
				return spaces, outcomeIncomplete, CostVector{}, fanin
			}
			spaces[idx] = m.solveOutput(src, uint32(idx), spaces)
		default:
			// An entry with no library match is left unsolved: cuts of
			// later entries that name it as a leaf are skipped, and the
			// pass fails only if an output's fanin ends up unsolved.
			spaces[idx], _ = m.solveCell(src, uint32(idx), extractor, spaces, tension)
		}

		if !final && n > 0 && float64(idx) >= 0.5*float64(n) {
			best, _ := spaces[idx].Chosen()
			if !m.Criterion.Feasible(best.Cost) {
				return spaces, outcomeRerun, best.Cost, uint32(idx)
			}
		}
	}
	return spaces, outcomeComplete, CostVector{}, 0
}

// solveCell enumerates idx's non-trivial k-feasible cuts, evaluates
// each cut's Boolean function, asks the Matcher for every realizing
// library cell, and folds each into idx's SolutionSpace (spec §4.6
// step 1).
func (m *Mapper) solveCell(src *subnet.Builder, idx uint32, extractor *cut.Extractor, spaces []*SolutionSpace, tension CostVector) (*SolutionSpace, bool) {
	s := &SolutionSpace{}

	for _, c := range extractor.Cuts(idx) {
		if isTrivialCut(c, idx) {
			continue
		}
		leaves := leafSlice(c)

		view := subnet.NewView(src, leaves, []uint32{idx})
		tables := subnet.Evaluate(view)
		target := tables[idx]

		for _, cand := range m.Matcher.Match(target, len(leaves)) {
			fanin := make([]CostVector, len(cand.Inputs))
			ready := true
			for p, leafPos := range cand.Inputs {
				leafIdx := leaves[leafPos]
				if spaces[leafIdx] == nil {
					ready = false
					break
				}
				sol, ok := spaces[leafIdx].Chosen()
				if !ok {
					ready = false
					break
				}
				fanin[p] = Propagate(sol.Cost, src.Refcount(leafIdx))
			}
			if !ready {
				continue
			}

			cellCost := CostVector{
				Area:  cand.Cell.Area,
				Delay: cand.Cell.Delay,
				Power: SwitchingPower(cand.Cell.LeakagePower),
			}
			cost := cellCost.Add(Aggregate(fanin))
			s.Consider(Solution{Cut: c, Leaves: leaves, Match: cand, Cost: cost}, m.Criterion, tension)
		}
	}
	return s, s.HasBest
}

// solveOutput resolves a SymOut entry's single fanin through its
// already-computed SolutionSpace; an output names no library cell of
// its own, only a possible polarity inversion (spec §4.6 step 2).
func (m *Mapper) solveOutput(src *subnet.Builder, idx uint32, spaces []*SolutionSpace) *SolutionSpace {
	link := src.Links(idx)[0]
	sol, _ := spaces[link.Target].Chosen()

	s := &SolutionSpace{}
	s.Consider(Solution{
		Leaves: []uint32{link.Target},
		Match:  CutMatch{Inputs: []int{0}, Inversion: []bool{link.Inversion}},
		Cost:   sol.Cost,
	}, m.Criterion, NeutralTension)
	return s
}

func isTrivialCut(c cut.Cut, idx uint32) bool {
	return c.Size() == 1 && c.Leaves.Test(uint(idx))
}

func leafSlice(c cut.Cut) []uint32 {
	leaves := make([]uint32, 0, c.Size())
	for i, ok := c.Leaves.NextSet(0); ok; i, ok = c.Leaves.NextSet(i + 1) {
		leaves = append(leaves, uint32(i))
	}
	return leaves
}

// reconstruct rebuilds a mapped Subnet from the chosen solution of
// every entry, walking backward from the outputs (spec §4.6 step 4).
// Multiple cuts matching the same multi-output library cell over the
// same input set are coalesced into a single cell instance, so a
// supercell like a half-adder contributes one CELL entry whose two
// outputs are picked up independently.
func (m *Mapper) reconstruct(src *subnet.Builder, spaces []*SolutionSpace) *Result {
	nb := subnet.NewBuilder()
	rebuilt := make(map[uint32]subnet.Link, src.Len())

	for idx := 0; idx < src.Len(); idx++ {
		if src.Symbol(uint32(idx)) == subnet.SymIn {
			rebuilt[uint32(idx)] = nb.AddInput()
		}
	}

	type instKey struct {
		cellID uint32
		inputs string
	}
	instances := map[instKey]uint32{}
	var zeroLink, oneLink *subnet.Link

	var build func(idx uint32) subnet.Link
	build = func(idx uint32) subnet.Link {
		if l, ok := rebuilt[idx]; ok {
			return l
		}
		switch src.Symbol(idx) {
		case subnet.SymZero:
			if zeroLink == nil {
				l := nb.AddCell(subnet.SymZero, nil)
				zeroLink = &l
			}
			rebuilt[idx] = *zeroLink
			return *zeroLink
		case subnet.SymOne:
			if oneLink == nil {
				l := nb.AddCell(subnet.SymOne, nil)
				oneLink = &l
			}
			rebuilt[idx] = *oneLink
			return *oneLink
		}

		sol, ok := spaces[idx].Chosen()
		if !ok || sol.Match.Cell == nil {
			panic(fmt.Sprintf("techmap: reconstruct reached entry %d with no chosen library match", idx))
		}
		match := sol.Match

		inputLinks := make(subnet.LinkList, len(match.Inputs))
		keyParts := make([]uint32, len(match.Inputs))
		for p, leafPos := range match.Inputs {
			leafIdx := sol.Leaves[leafPos]
			l := build(leafIdx)
			if match.Inversion[p] {
				l = l.Inverted()
			}
			inputLinks[p] = l
			keyParts[p] = leafIdx
		}

		key := instKey{cellID: match.Cell.ID, inputs: fmt.Sprint(keyParts)}
		entryIdx, exists := instances[key]
		if !exists {
			l := nb.AddCellMultiOutput(match.Cell.ID, inputLinks, len(match.Cell.Outputs))
			entryIdx = l.Target
			instances[key] = entryIdx
		}
		cellLink := subnet.NewLink(entryIdx, uint16(match.Output))
		if match.OutputInversion {
			cellLink = cellLink.Inverted()
		}
		rebuilt[idx] = cellLink
		return cellLink
	}

	var costs []CostVector
	for idx := 0; idx < src.Len(); idx++ {
		if src.Symbol(uint32(idx)) != subnet.SymOut {
			continue
		}
		sol, ok := spaces[idx].Chosen()
		if !ok {
			panic(fmt.Sprintf("techmap: reconstruct reached output %d with no chosen solution", idx))
		}
		leaf := sol.Leaves[sol.Match.Inputs[0]]
		l := build(leaf)
		if sol.Match.Inversion[0] {
			l = l.Inverted()
		}
		nb.AddOutput(l)
		costs = append(costs, sol.Cost)
	}

	global := Aggregate(costs)
	status := StatusOK
	if !m.Criterion.Feasible(global) {
		status = StatusConstraintViolated
	}
	return &Result{Subnet: nb.Make(), Cost: global, Status: status}
}
