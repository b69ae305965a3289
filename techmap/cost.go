// Package techmap implements the technology mapper (C8, spec §4.6): a
// single-pass dynamic-programming cover of a premapped Subnet by
// library cells, under a multi-criteria area/delay/power cost model,
// with early-recovery restarts and reconstruction of the mapped
// Subnet.
//
// Grounded on original_source/src/gate/techmapper/subnet_techmapper_base.*
// and matcher/* for the DP-over-cuts shape, and on
// original_source/src/gate/estimator/switching_activity.h for the
// power term folded into Propagator (SPEC_FULL.md SUPPLEMENTED
// FEATURES #3).
package techmap

import "math"

// CostVector is the mapper's multi-criteria cost: area, delay, power,
// in that fixed field order (spec §4.6, GLOSSARY).
//
// Numeric semantics follow spec §6: an as-yet-unknown cost is
// represented as math.MaxFloat32, never NaN, so it always compares as
// "worse than anything real" under Criterion.Less.
type CostVector struct {
	Area  float32
	Delay float32
	Power float32
}

// Unknown is the "not yet known" sentinel cost vector (spec §6:
// "Undefined (not-yet-known) area is the max finite value, not NaN,
// when used in comparisons").
var Unknown = CostVector{Area: math.MaxFloat32, Delay: math.MaxFloat32, Power: math.MaxFloat32}

// Add is the componentwise sum used to combine a cell's own cost with
// its aggregated fanin cost (spec §4.6 step 1: "add cell_cost +
// aggregated_cost").
func (c CostVector) Add(o CostVector) CostVector {
	return CostVector{Area: c.Area + o.Area, Delay: c.Delay + o.Delay, Power: c.Power + o.Power}
}

// index returns the field named by i (0=area, 1=delay, 2=power), for
// the Criterion's priority-ordered comparisons.
func (c CostVector) index(i int) float32 {
	switch i {
	case 0:
		return c.Area
	case 1:
		return c.Delay
	default:
		return c.Power
	}
}

// Aggregate combines the cost vectors of a cut's fanin entries: area
// is summed, delay takes the max (the critical path through the
// widest fanin), power is summed (spec §4.6: "Aggregator over fanin
// cost vectors of a cut: area_sum, max(delay), power_sum").
func Aggregate(fanin []CostVector) CostVector {
	var out CostVector
	for _, f := range fanin {
		out.Area += f.Area
		out.Power += f.Power
		if f.Delay > out.Delay {
			out.Delay = f.Delay
		}
	}
	return out
}

// Propagate derives a per-cell solution's contribution as a shared
// fanin of other solutions: area and power are divided by the
// consuming fanout count (the area-flow/power-flow heuristic), delay
// is unchanged (spec §4.6: "Propagator on a per-cell cost vector using
// fanout: area/fanout, delay unchanged, power/fanout").
//
// fanout <= 0 is treated as 1: an entry with no recorded fanout yet
// (e.g. a primary output being finalized) should not inflate its own
// contribution.
func Propagate(c CostVector, fanout int) CostVector {
	if fanout <= 0 {
		fanout = 1
	}
	f := float32(fanout)
	return CostVector{Area: c.Area / f, Delay: c.Delay, Power: c.Power / f}
}

// SwitchingPower estimates a cell's dynamic power contribution from a
// fixed 0.5 toggle-rate activity factor over its leakage/nominal power
// baseline (SPEC_FULL.md SUPPLEMENTED FEATURES #3, grounded on
// original_source's switching_activity.h). This is folded into a
// cell's own Power term before aggregation, alongside its static
// leakage.
const switchingActivityFactor = 0.5

// SwitchingPower returns leakage plus the activity-weighted dynamic
// term load*activity*leakage represents as a load-independent proxy
// (no capacitance model is in scope here; the factor simply weights
// how much of the cell's own leakage also shows up as a toggling
// cost), matching the original's flat per-cell estimate before any
// per-net capacitance detail is available.
func SwitchingPower(leakage float32) float32 {
	return leakage * (1 + switchingActivityFactor)
}

// Criterion is the mapper's feasibility bound and tie-break priority
// (spec §4.6 "a constraint Criterion (bounds on area, delay, power,
// with a priority vector)").
type Criterion struct {
	// Bounds.Area/.Delay/.Power are inclusive upper bounds; use Unknown
	// fields (or simply a very large float32) to leave a dimension
	// unbounded.
	Bounds CostVector
	// Priority orders dimensions 0=area,1=delay,2=power for
	// lexicographic comparison (e.g. [3]int{1, 0, 2} ranks delay, then
	// area, then power); it must name every
	// index exactly once.
	Priority [3]int
}

// DefaultCriterion prioritizes area, then delay, then power, with no
// bounds — the common "just minimize area" mapping mode.
func DefaultCriterion() Criterion {
	return Criterion{Bounds: CostVector{Area: math.MaxFloat32, Delay: math.MaxFloat32, Power: math.MaxFloat32}, Priority: [3]int{0, 1, 2}}
}

// Less reports whether a is strictly better than b under the
// Criterion's priority order, after biasing both by tension
// (componentwise multiplication — spec GLOSSARY "Tension vector: a
// multiplicative bias on the cost vector used during recovery
// restarts").
func (cr Criterion) Less(a, b, tension CostVector) bool {
	av := bias(a, tension)
	bv := bias(b, tension)
	for _, p := range cr.Priority {
		if av.index(p) != bv.index(p) {
			return av.index(p) < bv.index(p)
		}
	}
	return false
}

func bias(c, tension CostVector) CostVector {
	return CostVector{Area: c.Area * tension.Area, Delay: c.Delay * tension.Delay, Power: c.Power * tension.Power}
}

// Feasible reports whether c respects every bound of cr.
func (cr Criterion) Feasible(c CostVector) bool {
	return c.Area <= cr.Bounds.Area && c.Delay <= cr.Bounds.Delay && c.Power <= cr.Bounds.Power
}

// Violation computes, per dimension, how far c exceeds cr's bound
// (1.0 if within bound, v/bound otherwise) — the magnitude the
// recovery restart's tension update multiplies in (spec §4.6: "update
// a tension vector (componentwise multiplicative update from the
// current violation magnitudes)").
func (cr Criterion) Violation(c CostVector) CostVector {
	return CostVector{
		Area:  violationRatio(c.Area, cr.Bounds.Area),
		Delay: violationRatio(c.Delay, cr.Bounds.Delay),
		Power: violationRatio(c.Power, cr.Bounds.Power),
	}
}

func violationRatio(v, bound float32) float32 {
	if bound <= 0 || bound >= math.MaxFloat32 || v <= bound {
		return 1
	}
	return v / bound
}

// NeutralTension is the identity bias (no recovery in effect yet).
var NeutralTension = CostVector{Area: 1, Delay: 1, Power: 1}

// Compose multiplies two tension vectors componentwise, the update
// rule the recovery loop applies each retry.
func (t CostVector) Compose(v CostVector) CostVector {
	return CostVector{Area: t.Area * v.Area, Delay: t.Delay * v.Delay, Power: t.Power * v.Power}
}
