package library

import (
	"fmt"

	"github.com/vlsicore/subnet/internal/diag"
	"github.com/vlsicore/subnet/internal/truth"
)

// Library is an immutable, shared-by-read cell database (spec §5:
// "Library objects are immutable after construction and may be shared
// by read across multiple mapper instances").
type Library struct {
	cells []*Cell
	byID  map[uint32]*Cell

	// canonIndex maps an output's canonical-table key to every
	// (cell, output index) pair realizing it, for the matcher.
	canonIndex map[string][]Match

	wireLoadModels    map[string]*WireLoadModel
	wireLoadSelection WireLoadSelection

	cheapestInverter *Cell
	cheapestZero     *Cell
	cheapestOne      *Cell
}

// Match names one (cell, output) pair reachable from a canonical
// lookup key.
type Match struct {
	Cell   *Cell
	Output int
}

// CanonKey renders a canonical truth table into the string used as a
// matcher lookup key.
func CanonKey(t truth.Table) string {
	return fmt.Sprintf("%d:%v", t.NumVars, t.Words)
}

// Cells returns every cell in library-declaration order.
func (l *Library) Cells() []*Cell { return l.cells }

// CellByID looks up a cell by its logical cell-type id.
func (l *Library) CellByID(id uint32) (*Cell, bool) {
	c, ok := l.byID[id]
	return c, ok
}

// Lookup returns every (cell, output) pair whose canonical truth table
// equals key (spec §4.6 PBoolMatcher: "indexes library cells by the
// P-canonical truth table of each output").
func (l *Library) Lookup(key string) []Match { return l.canonIndex[key] }

// CheapestInverter, CheapestZero, CheapestOne return the library's
// cheapest (lowest Area) cell realizing NOT, constant-0 and
// constant-1 respectively — used when decomposing logic into the
// library basis (spec §3). They return nil if the library has none.
func (l *Library) CheapestInverter() *Cell { return l.cheapestInverter }
func (l *Library) CheapestZero() *Cell     { return l.cheapestZero }
func (l *Library) CheapestOne() *Cell      { return l.cheapestOne }

// WireLoadModel looks up a named wire-load model.
func (l *Library) WireLoadModel(name string) (*WireLoadModel, bool) {
	m, ok := l.wireLoadModels[name]
	return m, ok
}

// SelectWireLoadModel resolves the wire-load model that applies to a
// net driven by a cell of the given area, via the library's
// wire-load-selection table.
func (l *Library) SelectWireLoadModel(area float32) (*WireLoadModel, bool) {
	name := l.wireLoadSelection.Select(area)
	if name == "" {
		return nil, false
	}
	return l.WireLoadModel(name)
}

// builder accumulates cells/WLMs while checking for the collisions
// spec §7 calls LIBRARY_COLLISION ("duplicate cell/template/WLM
// name... Fatal at library load").
type builder struct {
	lib      *Library
	names    map[string]bool
	nextID   uint32
}

func newBuilder() *builder {
	return &builder{
		lib: &Library{
			byID:           map[uint32]*Cell{},
			canonIndex:     map[string][]Match{},
			wireLoadModels: map[string]*WireLoadModel{},
		},
		names: map[string]bool{},
	}
}

// addCell registers a fully-built cell, canonizing each output and
// indexing it, and tracking the cheapest inverter/const cells. It
// returns a LIBRARY_COLLISION error if the name is already used, or a
// LIBRARY_UNSUPPORTED one if the cell has no area or no outputs (spec
// §7).
func (b *builder) addCell(c *Cell) error {
	if b.names[c.Name] {
		return diag.New(diag.LibraryCollision, "duplicate cell name %q", c.Name)
	}
	if len(c.Outputs) == 0 {
		return diag.New(diag.LibraryUnsupported, "cell %q declares zero outputs", c.Name)
	}
	if isNaN32(c.Area) {
		return diag.New(diag.LibraryUnsupported, "cell %q has no area annotation", c.Name)
	}

	b.names[c.Name] = true
	c.ID = b.nextID
	b.nextID++

	for i := range c.Outputs {
		// Open question (DESIGN.md): arity >= 8 cells are canonized via
		// the dynamic-width path rather than dropped; Canonicalize has
		// no arity ceiling, so no special-casing is needed here beyond
		// documenting the decision.
		c.Outputs[i].Canon = truth.Canonicalize(c.Outputs[i].Function)
		key := CanonKey(c.Outputs[i].Canon.Table)
		b.lib.canonIndex[key] = append(b.lib.canonIndex[key], Match{Cell: c, Output: i})
	}

	b.lib.cells = append(b.lib.cells, c)
	b.lib.byID[c.ID] = c

	if c.IsInverter() && cheaper(c, b.lib.cheapestInverter) {
		b.lib.cheapestInverter = c
	}
	if c.IsConstZero() && cheaper(c, b.lib.cheapestZero) {
		b.lib.cheapestZero = c
	}
	if c.IsConstOne() && cheaper(c, b.lib.cheapestOne) {
		b.lib.cheapestOne = c
	}
	return nil
}

func cheaper(c, incumbent *Cell) bool {
	return incumbent == nil || c.Area < incumbent.Area
}

func isNaN32(f float32) bool { return f != f }

// addWireLoadModel registers w, erroring with LIBRARY_COLLISION on a
// duplicate name.
func (b *builder) addWireLoadModel(w *WireLoadModel) error {
	if _, ok := b.lib.wireLoadModels[w.Name]; ok {
		return diag.New(diag.LibraryCollision, "duplicate wire-load model name %q", w.Name)
	}
	b.lib.wireLoadModels[w.Name] = w
	return nil
}

// deriveSuperCells appends a super-cell for every ordered (base cell,
// input pin) pair where base has arity 2 and the library has a
// cheapest inverter: a composite formed by appending the inverter at
// that input, with its truth table computed by evaluation and
// re-canonized (spec §3: "composites formed by appending the cheapest
// inverter/const at one input of a two-input cell, with their truth
// tables computed by evaluation and re-canonized").
//
// Super-cells get synthesized names (base name + "_INV" + pin index)
// and participate in collision checking exactly like any other cell,
// since a hand-authored library could plausibly already define a cell
// under that name.
func (b *builder) deriveSuperCells() error {
	inv := b.lib.cheapestInverter
	if inv == nil {
		return nil
	}
	base := append([]*Cell(nil), b.lib.cells...)
	for _, c := range base {
		if c.Arity() != 2 || len(c.Outputs) != 1 {
			continue
		}
		for pin := 0; pin < 2; pin++ {
			sc := superCell(c, inv, pin)
			if err := b.addCell(sc); err != nil {
				return err
			}
		}
	}
	return nil
}

// superCell builds the composite formed by inverting input pin of
// base: its truth table is base's function with that variable negated
// throughout (spec §3: "composites formed by appending the cheapest
// inverter/const at one input of a two-input cell, with their truth
// tables computed by evaluation and re-canonized" — the re-canonizing
// itself happens in addCell, which every caller of superCell routes
// through).
func superCell(base, inv *Cell, pin int) *Cell {
	composed := base.Outputs[0].Function.NegateInput(pin)

	return &Cell{
		Name:         fmt.Sprintf("%s_INV%d", base.Name, pin),
		Inputs:       append([]Pin(nil), base.Inputs...),
		Outputs:      []OutputPin{{Pin: base.Outputs[0].Pin, Function: composed}},
		Area:         base.Area + inv.Area,
		Delay:        base.Delay + inv.Delay,
		LeakagePower: base.LeakagePower + inv.LeakagePower,
	}
}
