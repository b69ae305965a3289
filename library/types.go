// Package library implements the standard-cell model spec §3/§4.6
// needs: cells with canonical per-output truth tables, physical
// properties, delay/transition interpolation tables, wire-load models,
// and library-derived super-cells. Liberty (.lib) parsing itself is
// out of scope (spec §1) — this package only models the records such a
// parser would emit (spec §6 "Library feed") and the in-memory cell
// database built from them.
//
// Grounded on original_source/src/gate/library/{library,library_types}.h,
// generalizing the C++ StandardCell/Pin/WireLoadModel/LUT structs into
// idiomatic Go value types.
package library

import "github.com/vlsicore/subnet/internal/truth"

// Pin is one input or output terminal of a cell.
type Pin struct {
	Name        string
	Capacitance float32
}

// OutputPin is a cell output: its canonical truth table (over the
// cell's input pins, in declared order) and the transform that maps
// canonical inputs back to that order, plus its per-input delay arcs.
type OutputPin struct {
	Pin
	// Function is the as-declared truth table, before canonization, in
	// the cell's own input-pin order.
	Function truth.Table
	// Canon is the P/NPN-canonical form used as the matcher's lookup
	// key (spec §3: "a canonical truth table ... and the
	// permutation/negation that maps the canonical inputs back to the
	// original pin order").
	Canon truth.Canon
	// Arcs holds one DelayLUT per input pin (indexed the same as the
	// cell's Inputs slice) describing that input's contribution to this
	// output's propagation delay and transition.
	Arcs []DelayLUT
}

// DelayLUT is a bilinearly-interpolated, linearly-extrapolated delay
// (or transition) table indexed by (input_transition, output_capacitance)
// (spec §3: "delay/transition look-up tables indexed by
// (input_transition, output_capacitance) for each timing arc").
type DelayLUT struct {
	InputTransitions []float32
	OutputLoads      []float32
	// Values[i][j] is the table value at
	// (InputTransitions[i], OutputLoads[j]).
	Values [][]float32
}

// Lookup returns the bilinearly interpolated value at (transition,
// load), linearly extrapolating past the table's bounds along either
// axis (spec §3). An empty table returns 0.
func (l DelayLUT) Lookup(transition, load float32) float32 {
	if len(l.InputTransitions) == 0 || len(l.OutputLoads) == 0 {
		return 0
	}
	i0, i1, fi := locate(l.InputTransitions, transition)
	j0, j1, fj := locate(l.OutputLoads, load)

	v00 := l.Values[i0][j0]
	v01 := l.Values[i0][j1]
	v10 := l.Values[i1][j0]
	v11 := l.Values[i1][j1]

	top := v00 + (v01-v00)*fj
	bot := v10 + (v11-v10)*fj
	return top + (bot-top)*fi
}

// locate finds the bracketing indices of x in the ascending axis xs
// and the fractional position between them, clamping (extrapolating
// linearly) past either end using the outermost interval's slope.
func locate(xs []float32, x float32) (lo, hi int, frac float32) {
	if len(xs) == 1 {
		return 0, 0, 0
	}
	if x <= xs[0] {
		return 0, 1, (x - xs[0]) / (xs[1] - xs[0])
	}
	if x >= xs[len(xs)-1] {
		n := len(xs)
		return n - 2, n - 1, (x - xs[n-2]) / (xs[n-1] - xs[n-2])
	}
	for i := 0; i < len(xs)-1; i++ {
		if x >= xs[i] && x <= xs[i+1] {
			return i, i + 1, (x - xs[i]) / (xs[i+1] - xs[i])
		}
	}
	return len(xs) - 2, len(xs) - 1, 1
}

// Cell is one standard-cell library entry.
type Cell struct {
	Name   string
	ID     uint32
	Inputs []Pin
	Outputs []OutputPin

	Area         float32
	Delay        float32
	LeakagePower float32
}

// Arity is the cell's input pin count.
func (c *Cell) Arity() int { return len(c.Inputs) }

// IsInverter reports whether c is a single-input, single-output cell
// whose function is the logical NOT of its input — the "cheapest
// inverter" spec §3 asks the library to track.
func (c *Cell) IsInverter() bool {
	if len(c.Inputs) != 1 || len(c.Outputs) != 1 {
		return false
	}
	f := c.Outputs[0].Function
	v := truth.Var(1, 0)
	return f.Equal(v.Not())
}

// IsConstZero/IsConstOne report whether c is a zero-input cell
// emitting the named constant.
func (c *Cell) IsConstZero() bool { return c.isConst(false) }
func (c *Cell) IsConstOne() bool  { return c.isConst(true) }

func (c *Cell) isConst(v bool) bool {
	if len(c.Inputs) != 0 || len(c.Outputs) != 1 {
		return false
	}
	val, ok := c.Outputs[0].Function.IsConstant()
	return ok && val == v
}

// WireLoadModel estimates output-net capacitance/delay from fanout
// count when a driven pin carries no explicit capacitance annotation
// (spec §6 "wire-load model"; SPEC_FULL.md SUPPLEMENTED FEATURES #1).
type WireLoadModel struct {
	Name        string
	Resistance  float32
	Capacitance float32
	Slope       float32
	// FanoutLength[i] is the wire length at fanout count i+1; beyond the
	// table, length extrapolates linearly using Slope and the last
	// entry, mirroring original_source's getFanoutLength.
	FanoutLength []float32
}

// Length returns the estimated wire length for a net with the given
// fanout count (>=1).
func (w WireLoadModel) Length(fanout int) float32 {
	if fanout <= 0 {
		panic("library: WireLoadModel.Length requires fanout >= 1")
	}
	if fanout <= len(w.FanoutLength) {
		return w.FanoutLength[fanout-1]
	}
	last := w.FanoutLength[len(w.FanoutLength)-1]
	return w.Slope * float32(fanout-len(w.FanoutLength)) * last
}

// FanoutCapacitance is Length(fanout) * Capacitance, the estimated
// parasitic load a net with the given fanout adds to its driver.
func (w WireLoadModel) FanoutCapacitance(fanout int) float32 {
	return w.Length(fanout) * w.Capacitance
}

// WireLoadRange selects a WireLoadModel by estimated cell area (spec
// §6 "wire-load-selection table").
type WireLoadRange struct {
	LowerBound float32
	UpperBound float32
	Name       string
}

// WireLoadSelection is an ordered list of area ranges, each naming the
// wire-load model that applies.
type WireLoadSelection []WireLoadRange

// Select returns the wire-load model name whose range contains area,
// or "" if none matches.
func (s WireLoadSelection) Select(area float32) string {
	for _, r := range s {
		if area >= r.LowerBound && area <= r.UpperBound {
			return r.Name
		}
	}
	return ""
}
