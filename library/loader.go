package library

import (
	"github.com/vlsicore/subnet/internal/diag"
)

// PinRecord is one pin of a CellRecord (spec §6 "Library feed": "pin
// record: {name, direction, capacitance, optional delay LUTs}").
type PinRecord struct {
	Name        string
	IsOutput    bool
	Capacitance float32
	// Function is the Liberty-style Boolean expression for an output
	// pin; empty for an input pin.
	Function string
	// Arcs holds one DelayLUT per input pin name this output depends
	// on, keyed the same way the cell's own Inputs are ordered once
	// resolved — the loader resolves names to positions.
	Arcs map[string]DelayLUT
}

// CellRecord is one liberty-style cell record (spec §6: "cell record:
// {name, input_pin[], output_pin[], area, leakage}"). Delay is carried
// separately per PinRecord via Arcs/a nominal cell Delay fallback.
type CellRecord struct {
	Name         string
	Pins         []PinRecord
	Area         float32
	Delay        float32
	LeakagePower float32
}

// WireLoadRecord is a {name, resistance, capacitance, slope,
// (fanout_count -> length)[]} record (spec §6).
type WireLoadRecord struct {
	Name              string
	Resistance        float32
	Capacitance       float32
	Slope             float32
	FanoutLength      []float32
}

// WireLoadSelectionRecord is one (lower_bound, upper_bound,
// wire_load_name) row of the wire-load-selection table (spec §6).
type WireLoadSelectionRecord struct {
	LowerBound float32
	UpperBound float32
	Name       string
}

// Feed is the stream of records a Liberty/.lib parser emits (spec §1:
// "emits a stream of (cell_name, pin list, Boolean function string,
// area, delay tables, leakage) records"). Load consumes a fully
// materialized Feed rather than an actual streaming parser, since
// Liberty parsing itself is out of scope (spec §1) — front-ends are
// external collaborators specified only at their interface.
type Feed struct {
	Cells             []CellRecord
	WireLoadModels     []WireLoadRecord
	WireLoadSelection []WireLoadSelectionRecord
}

// LoadResult is what Load returns: the constructed Library plus any
// LIBRARY_UNSUPPORTED cells that were skipped with a warning rather
// than aborting the whole load (spec §7: "LIBRARY_UNSUPPORTED ...
// Skipped with a warning").
type LoadResult struct {
	Library  *Library
	Warnings []*diag.SynthError
}

// Load builds a Library from feed. A LIBRARY_COLLISION (duplicate
// cell, template, or wire-load-model name) aborts the whole load and
// is returned as an error, matching spec §7 ("Fatal at library load").
// A LIBRARY_UNSUPPORTED cell (no area, zero outputs, or a function
// outside the supported operator set) is skipped and recorded as a
// warning instead.
func Load(feed Feed) (*LoadResult, error) {
	b := newBuilder()
	result := &LoadResult{}

	for _, cr := range feed.Cells {
		cell, err := buildCell(cr)
		if err != nil {
			if se, ok := err.(*diag.SynthError); ok && se.Kind == diag.LibraryUnsupported {
				result.Warnings = append(result.Warnings, se)
				continue
			}
			return nil, err
		}
		if err := b.addCell(cell); err != nil {
			if se, ok := err.(*diag.SynthError); ok && se.Kind == diag.LibraryUnsupported {
				result.Warnings = append(result.Warnings, se)
				continue
			}
			return nil, err
		}
	}

	for _, wr := range feed.WireLoadModels {
		w := &WireLoadModel{
			Name:         wr.Name,
			Resistance:   wr.Resistance,
			Capacitance:  wr.Capacitance,
			Slope:        wr.Slope,
			FanoutLength: wr.FanoutLength,
		}
		if err := b.addWireLoadModel(w); err != nil {
			return nil, err
		}
	}

	for _, sr := range feed.WireLoadSelection {
		b.lib.wireLoadSelection = append(b.lib.wireLoadSelection, WireLoadRange{
			LowerBound: sr.LowerBound,
			UpperBound: sr.UpperBound,
			Name:       sr.Name,
		})
	}

	if err := b.deriveSuperCells(); err != nil {
		return nil, err
	}

	result.Library = b.lib
	return result, nil
}

// buildCell parses one CellRecord's pins/functions into a Cell. It
// returns a LIBRARY_UNSUPPORTED error (not aborting the whole load) if
// the cell's function references an operator outside {!, ^, &, |,
// constant, subscript} or an unknown pin name — both only detectable
// once we try to parse the formula.
func buildCell(cr CellRecord) (*Cell, error) {
	var inputNames []string
	for _, p := range cr.Pins {
		if !p.IsOutput {
			inputNames = append(inputNames, p.Name)
		}
	}

	c := &Cell{Name: cr.Name, Area: cr.Area, Delay: cr.Delay, LeakagePower: cr.LeakagePower}
	for _, p := range cr.Pins {
		if !p.IsOutput {
			c.Inputs = append(c.Inputs, Pin{Name: p.Name, Capacitance: p.Capacitance})
			continue
		}
		fn, err := ParseFormula(p.Function, inputNames)
		if err != nil {
			return nil, diag.New(diag.LibraryUnsupported, "cell %q output %q: %v", cr.Name, p.Name, err)
		}
		out := OutputPin{
			Pin:      Pin{Name: p.Name, Capacitance: p.Capacitance},
			Function: fn,
		}
		if len(p.Arcs) > 0 {
			out.Arcs = make([]DelayLUT, len(inputNames))
			for i, name := range inputNames {
				if lut, ok := p.Arcs[name]; ok {
					out.Arcs[i] = lut
				}
			}
		}
		c.Outputs = append(c.Outputs, out)
	}
	return c, nil
}
