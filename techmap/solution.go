package techmap

import "github.com/vlsicore/subnet/cut"

// Solution is one candidate covering of an entry: the cut it was
// matched over, the match chosen from that cut, and its resulting
// cost (spec §4.6 "each entry's SolutionSpace keeps a
// Pareto-frontier-of-one best feasible solution plus the best solution
// overall").
type Solution struct {
	Cut   cut.Cut
	Leaves []uint32
	Match CutMatch
	Cost  CostVector
}

// terminalSolution marks a primary input/constant's trivial "solution"
// that downstream cuts aggregate through at zero cost — it names no
// cell, since IN/ZERO/ONE entries need no library match of their own.
func terminalSolution() Solution {
	return Solution{}
}

// SolutionSpace holds entry idx's best-overall and best-feasible
// candidate solutions as Solution candidates stream in from cut
// matching.
type SolutionSpace struct {
	Best        Solution
	HasBest     bool
	Feasible    Solution
	HasFeasible bool
}

// Consider folds cand into s, keeping it as the new Best if it beats
// the incumbent under cr (biased by tension), and as the new Feasible
// if it is itself within cr's bounds and beats the incumbent feasible
// candidate.
func (s *SolutionSpace) Consider(cand Solution, cr Criterion, tension CostVector) {
	if !s.HasBest || cr.Less(cand.Cost, s.Best.Cost, tension) {
		s.Best = cand
		s.HasBest = true
	}
	if cr.Feasible(cand.Cost) {
		if !s.HasFeasible || cr.Less(cand.Cost, s.Feasible.Cost, tension) {
			s.Feasible = cand
			s.HasFeasible = true
		}
	}
}

// Chosen returns the solution reconstruction should use: the feasible
// one if any was found, else the best overall (spec §4.6 step 4 picks
// "each entry's best Match"; preferring a feasible candidate when one
// exists is what makes Criterion bounds meaningful at all, not just a
// post-hoc report).
func (s *SolutionSpace) Chosen() (Solution, bool) {
	if s.HasFeasible {
		return s.Feasible, true
	}
	if s.HasBest {
		return s.Best, true
	}
	return Solution{}, false
}
