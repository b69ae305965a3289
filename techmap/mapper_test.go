package techmap_test

import (
	"math/rand/v2"
	"testing"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/internal/gen"
	"github.com/vlsicore/subnet/internal/truth"
	"github.com/vlsicore/subnet/library"
	"github.com/vlsicore/subnet/techmap"
)

func and2Library(t *testing.T) *library.Library {
	t.Helper()
	res, err := library.Load(library.Feed{Cells: []library.CellRecord{
		{
			Name: "AND2",
			Pins: []library.PinRecord{
				{Name: "A"}, {Name: "B"},
				{Name: "Y", IsOutput: true, Function: "A&B"},
			},
			Area: 2, Delay: 0.1, LeakagePower: 0.01,
		},
	}})
	if err != nil {
		t.Fatalf("library.Load: %v", err)
	}
	return res.Library
}

func haLibrary(t *testing.T) *library.Library {
	t.Helper()
	res, err := library.Load(library.Feed{Cells: []library.CellRecord{
		{
			Name: "AND2",
			Pins: []library.PinRecord{
				{Name: "A"}, {Name: "B"},
				{Name: "Y", IsOutput: true, Function: "A&B"},
			},
			Area: 2, Delay: 0.1, LeakagePower: 0.01,
		},
		{
			Name: "XOR2",
			Pins: []library.PinRecord{
				{Name: "A"}, {Name: "B"},
				{Name: "Y", IsOutput: true, Function: "A^B"},
			},
			Area: 3, Delay: 0.15, LeakagePower: 0.02,
		},
		{
			Name: "HA",
			Pins: []library.PinRecord{
				{Name: "A"}, {Name: "B"},
				{Name: "SUM", IsOutput: true, Function: "A^B"},
				{Name: "CARRY", IsOutput: true, Function: "A&B"},
			},
			Area: 4, Delay: 0.12, LeakagePower: 0.015,
		},
	}})
	if err != nil {
		t.Fatalf("library.Load: %v", err)
	}
	return res.Library
}

func defaultMapper(lib *library.Library) *techmap.Mapper {
	return &techmap.Mapper{
		Matcher:   techmap.PBoolMatcher{Lib: lib},
		Criterion: techmap.DefaultCriterion(),
		K:         4,
		Nmax:      8,
		MaxWiden:  2,
		MaxTries:  2,
	}
}

func countCellsBySymbol(s *subnet.Subnet, sym subnet.Symbol) int {
	n := 0
	for i := 0; i < s.Len(); i++ {
		if s.Symbol(uint32(i)) == sym {
			n++
		}
	}
	return n
}

// spec §8: "2-AND identity": a single AND(a,b) maps to one CELL:AND2.
func TestMapperTwoInputAndIdentity(t *testing.T) {
	b := subnet.NewBuilder()
	a := b.AddInput()
	bb := b.AddInput()
	y := b.AddCell(subnet.SymAnd, subnet.LinkList{a, bb})
	b.AddOutput(y)

	m := defaultMapper(and2Library(t))
	res, err := m.Map(b)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if res.Status != techmap.StatusOK {
		t.Fatalf("expected StatusOK, got %v", res.Status)
	}
	out := res.Subnet
	for i := 0; i < out.Len(); i++ {
		if out.Symbol(uint32(i)).IsStructural() {
			t.Fatalf("entry %d retained structural symbol %v after mapping", i, out.Symbol(uint32(i)))
		}
	}
	if n := countCellsBySymbol(out, subnet.SymCell); n != 1 {
		t.Fatalf("expected exactly 1 CELL entry, got %d:\n%s", n, out.String())
	}
}

// spec §8: "Double NOT collapse via mapper": y = AND(NOT(NOT(a)), b)
// maps to a single CELL:AND2(a,b) with no inverter on a.
func TestMapperDoubleNotCollapses(t *testing.T) {
	b := subnet.NewBuilder()
	a := b.AddInput()
	bb := b.AddInput()
	n1 := b.AddCell(subnet.SymNot, subnet.LinkList{a})
	n2 := b.AddCell(subnet.SymNot, subnet.LinkList{n1})
	y := b.AddCell(subnet.SymAnd, subnet.LinkList{n2, bb})
	b.AddOutput(y)

	m := defaultMapper(and2Library(t))
	res, err := m.Map(b)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	out := res.Subnet
	if n := countCellsBySymbol(out, subnet.SymCell); n != 1 {
		t.Fatalf("expected exactly 1 CELL entry (double negation absorbed), got %d:\n%s", n, out.String())
	}
}

// spec §8: "Half-adder": with an HA supercell in the library, the
// mapper produces a single multi-output CELL:HA(a,b).
func TestMapperHalfAdderUsesSupercell(t *testing.T) {
	b := subnet.NewBuilder()
	a := b.AddInput()
	bb := b.AddInput()
	sum := b.AddCell(subnet.SymXor, subnet.LinkList{a, bb})
	carry := b.AddCell(subnet.SymAnd, subnet.LinkList{a, bb})
	b.AddOutput(sum)
	b.AddOutput(carry)

	m := defaultMapper(haLibrary(t))
	res, err := m.Map(b)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	out := res.Subnet
	if n := countCellsBySymbol(out, subnet.SymCell); n != 1 {
		t.Fatalf("expected exactly 1 CELL entry (half-adder supercell), got %d:\n%s", n, out.String())
	}
}

// Half-adder without an HA cell in the library: exactly one XOR2 and
// one AND2 instance.
func TestMapperHalfAdderWithoutSupercell(t *testing.T) {
	lib, err := library.Load(library.Feed{Cells: []library.CellRecord{
		{Name: "AND2", Pins: []library.PinRecord{{Name: "A"}, {Name: "B"}, {Name: "Y", IsOutput: true, Function: "A&B"}}, Area: 2, Delay: 0.1, LeakagePower: 0.01},
		{Name: "XOR2", Pins: []library.PinRecord{{Name: "A"}, {Name: "B"}, {Name: "Y", IsOutput: true, Function: "A^B"}}, Area: 3, Delay: 0.15, LeakagePower: 0.02},
	}})
	if err != nil {
		t.Fatalf("library.Load: %v", err)
	}

	b := subnet.NewBuilder()
	a := b.AddInput()
	bb := b.AddInput()
	sum := b.AddCell(subnet.SymXor, subnet.LinkList{a, bb})
	carry := b.AddCell(subnet.SymAnd, subnet.LinkList{a, bb})
	b.AddOutput(sum)
	b.AddOutput(carry)

	m := defaultMapper(lib.Library)
	res, err := m.Map(b)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	out := res.Subnet
	if n := countCellsBySymbol(out, subnet.SymCell); n != 2 {
		t.Fatalf("expected exactly 2 CELL entries (AND2+XOR2), got %d:\n%s", n, out.String())
	}
}

// TestMapperPreservesFunctionOnRandomNetworks is the property-style
// counterpart to the hand-built identity/supercell scenarios above:
// over many seeded random networks (gen.RandomBuilder) decomposed to
// the AIG basis (gen.RandomLibrary covers AND2 and every other
// 2-input function plus INV/BUF/ZERO/ONE, so an AIG net always has a
// cell to map onto), the mapped Subnet must realize exactly the same
// function as the network fed into Decompose, and the mapper must
// never panic or leave a structural symbol behind.
func TestMapperPreservesFunctionOnRandomNetworks(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		prng := rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d))
		src := gen.RandomBuilder(prng, 1+prng.IntN(4), prng.IntN(12))
		srcSnap := src.Make()
		wantTables := evalEveryOutput(t, srcSnap)

		lib := gen.RandomLibrary(prng)
		premapped := subnet.Decompose(srcSnap, subnet.BasisAIG)

		m := &techmap.Mapper{
			Matcher:   techmap.PBoolMatcher{Lib: lib},
			Criterion: techmap.DefaultCriterion(),
			K:         4,
			Nmax:      8,
			MaxWiden:  3,
			MaxTries:  2,
		}
		res, err := m.Map(premapped)
		if err != nil {
			t.Fatalf("seed %d: Map: %v", seed, err)
		}
		out := res.Subnet
		for i := 0; i < out.Len(); i++ {
			if out.Symbol(uint32(i)).IsStructural() {
				t.Fatalf("seed %d: entry %d retained structural symbol %v after mapping", seed, i, out.Symbol(uint32(i)))
			}
		}

		gotTables := evaluateMapped(t, out, lib)
		if len(gotTables) != len(wantTables) {
			t.Fatalf("seed %d: output count changed: got %d, want %d", seed, len(gotTables), len(wantTables))
		}
		for i := range wantTables {
			if !gotTables[i].Equal(wantTables[i]) {
				t.Fatalf("seed %d: mapped output %d changed function:\nwant %v\ngot  %v", seed, i, wantTables[i].Words, gotTables[i].Words)
			}
		}
	}
}

// evalEveryOutput returns the truth table of every primary output of
// s, in output order, over every primary input of s, via
// subnet.Evaluate — valid only for structural (pre-mapping) networks.
func evalEveryOutput(t *testing.T, s *subnet.Subnet) []truth.Table {
	t.Helper()
	n := s.NumInputs()
	ins := make([]uint32, n)
	for i := range ins {
		ins[i] = uint32(i)
	}
	var outs []uint32
	for i := 0; i < s.Len(); i++ {
		if s.Symbol(uint32(i)) == subnet.SymOut {
			outs = append(outs, uint32(i))
		}
	}
	v := subnet.NewView(s, ins, outs)
	tables := subnet.Evaluate(v)
	out := make([]truth.Table, len(outs))
	for i, o := range outs {
		out[i] = tables[o]
	}
	return out
}

// evaluateMapped is evalEveryOutput's counterpart for a Subnet that
// has already been technology-mapped: subnet.Evaluate refuses CELL
// symbols outright (it has no library to interpret them with), so
// this walks s itself and resolves each CELL entry by composing its
// library function over its fanin tables.
func evaluateMapped(t *testing.T, s *subnet.Subnet, lib *library.Library) []truth.Table {
	t.Helper()
	n := s.NumInputs()
	ins := make([]uint32, n)
	for i := range ins {
		ins[i] = uint32(i)
	}
	var outs []uint32
	for i := 0; i < s.Len(); i++ {
		if s.Symbol(uint32(i)) == subnet.SymOut {
			outs = append(outs, uint32(i))
		}
	}
	v := subnet.NewView(s, ins, outs)

	tables := make(map[uint32]truth.Table, s.Len())
	for i, in := range ins {
		tables[in] = truth.Var(n, i)
	}
	subnet.WalkForward(v, nil, func(idx uint32) bool {
		if _, ok := tables[idx]; ok {
			return true
		}
		links := s.Links(idx)
		fanin := make([]truth.Table, len(links))
		for i, l := range links {
			fanin[i] = tables[l.Target].Maybe(l.Inversion)
		}
		switch s.Symbol(idx) {
		case subnet.SymOut:
			tables[idx] = fanin[0]
		case subnet.SymZero:
			tables[idx] = truth.Constant(n, false)
		case subnet.SymOne:
			tables[idx] = truth.Constant(n, true)
		case subnet.SymCell:
			cell, ok := lib.CellByID(s.CellType(idx))
			if !ok {
				t.Fatalf("entry %d: unknown cell type %d", idx, s.CellType(idx))
			}
			tables[idx] = composeCellFunction(cell.Outputs[0].Function, fanin, n)
		default:
			t.Fatalf("entry %d: unexpected structural symbol %v in mapped output", idx, s.Symbol(idx))
		}
		return true
	})

	out := make([]truth.Table, len(outs))
	for i, o := range outs {
		out[i] = tables[o]
	}
	return out
}

// composeCellFunction substitutes each of fn's variables (in cell pin
// order) with the corresponding table from inputs, each already
// expressed over n outer variables, yielding fn(inputs...) as a table
// of n variables.
func composeCellFunction(fn truth.Table, inputs []truth.Table, n int) truth.Table {
	out := truth.New(n)
	for assignment := 0; assignment < 1<<n; assignment++ {
		idx := 0
		for i, in := range inputs {
			if in.BitAt(assignment) {
				idx |= 1 << i
			}
		}
		if fn.BitAt(idx) {
			out.SetBit(assignment, true)
		}
	}
	return out
}

// Mapping fails with MAPPING_INFEASIBLE when no library cell realizes
// the network's function at any cut size.
func TestMapperReportsInfeasibleWhenNoMatch(t *testing.T) {
	lib, err := library.Load(library.Feed{Cells: []library.CellRecord{
		{Name: "OR2", Pins: []library.PinRecord{{Name: "A"}, {Name: "B"}, {Name: "Y", IsOutput: true, Function: "A|B"}}, Area: 2, Delay: 0.1, LeakagePower: 0.01},
	}})
	if err != nil {
		t.Fatalf("library.Load: %v", err)
	}

	b := subnet.NewBuilder()
	a := b.AddInput()
	bb := b.AddInput()
	y := b.AddCell(subnet.SymAnd, subnet.LinkList{a, bb})
	b.AddOutput(y)

	m := defaultMapper(lib.Library)
	m.MaxWiden = 1
	_, err = m.Map(b)
	if err == nil {
		t.Fatalf("expected a MAPPING_INFEASIBLE error, got nil")
	}
}
