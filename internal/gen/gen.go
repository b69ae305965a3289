// Package gen holds seeded, deterministic property generators for
// random Boolean networks and libraries, grounded on the teacher's
// internal/golden/random.go (RandomPrefix/RandomIP4/...): a handful of
// small functions taking a *rand.Rand and returning a domain value,
// used by table-driven and property-style tests across the
// repository instead of ad-hoc literals or go-fuzz-only coverage
// (SPEC_FULL's AMBIENT STACK, "Test tooling").
package gen

import (
	"fmt"
	"math/rand/v2"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/library"
)

var binSymbols = [...]subnet.Symbol{
	subnet.SymAnd, subnet.SymOr, subnet.SymXor,
	subnet.SymNand, subnet.SymNor, subnet.SymXnor,
}

// RandomBuilder returns a random acyclic Boolean network of numInputs
// primary inputs and numCells inner cells, each cell drawn from
// {AND,OR,XOR,NAND,NOR,XNOR} (arity 2) or, with low probability, MAJ
// (arity 3), with fanin links chosen uniformly from already-placed
// entries so the topological-order invariant (spec §3) holds by
// construction. Every inner cell with zero fanout is wired into a
// trailing AddOutput so the result always has at least one output.
func RandomBuilder(prng *rand.Rand, numInputs, numCells int) *subnet.Builder {
	if numInputs < 1 {
		numInputs = 1
	}
	b := subnet.NewBuilder()
	links := make(subnet.LinkList, 0, numInputs+numCells)
	for i := 0; i < numInputs; i++ {
		links = append(links, b.AddInput())
	}

	for i := 0; i < numCells; i++ {
		var l subnet.Link
		if prng.IntN(8) == 0 && len(links) >= 3 {
			l = b.AddCell(subnet.SymMaj, randomFanin(prng, links, 3))
		} else {
			sym := binSymbols[prng.IntN(len(binSymbols))]
			l = b.AddCell(sym, randomFanin(prng, links, 2))
		}
		links = append(links, l)
	}

	refd := make(map[uint32]bool)
	for idx := 0; idx < b.Len(); idx++ {
		for _, l := range b.Links(uint32(idx)) {
			refd[l.Target] = true
		}
	}
	hadOutput := false
	for _, l := range links[numInputs:] {
		if !refd[l.Target] {
			b.AddOutput(l)
			hadOutput = true
		}
	}
	if !hadOutput {
		b.AddOutput(links[len(links)-1])
	}
	return b
}

// randomFanin picks n links from pool at random, independently
// negating each with 50% probability, so generated networks exercise
// the inversion bit as often as not.
func randomFanin(prng *rand.Rand, pool subnet.LinkList, n int) subnet.LinkList {
	out := make(subnet.LinkList, n)
	for i := range out {
		l := pool[prng.IntN(len(pool))]
		if prng.IntN(2) == 0 {
			l = l.Inverted()
		}
		out[i] = l
	}
	return out
}

// RandomLibrary returns a small standard-cell Library covering every
// 2-input function plus an inverter and both constants, enough for the
// technology mapper's PBoolMatcher to realize any random AND/OR/XOR
// network RandomBuilder produces. Areas are randomized so cost-driven
// selection among equivalent cells (spec §4.6's CostVector) has
// something to choose between.
func RandomLibrary(prng *rand.Rand) *library.Library {
	exprs := []struct {
		name string
		expr string
	}{
		{"AND2", "A&B"},
		{"OR2", "A|B"},
		{"XOR2", "A^B"},
		{"NAND2", "!(A&B)"},
		{"NOR2", "!(A|B)"},
		{"XNOR2", "!(A^B)"},
	}

	feed := library.Feed{}
	for _, e := range exprs {
		feed.Cells = append(feed.Cells, library.CellRecord{
			Name:  e.name,
			Area:  1 + float32(prng.Float64())*4,
			Delay: 0.1 + float32(prng.Float64()),
			Pins: []library.PinRecord{
				{Name: "A"},
				{Name: "B"},
				{Name: "Y", IsOutput: true, Function: e.expr},
			},
		})
	}
	feed.Cells = append(feed.Cells,
		library.CellRecord{
			Name:  "INV",
			Area:  0.5 + float32(prng.Float64())*0.5,
			Delay: 0.05 + float32(prng.Float64())*0.1,
			Pins: []library.PinRecord{
				{Name: "A"},
				{Name: "Y", IsOutput: true, Function: "!A"},
			},
		},
		library.CellRecord{
			Name:  "BUF",
			Area:  0.4 + float32(prng.Float64())*0.3,
			Delay: 0.05 + float32(prng.Float64())*0.1,
			Pins: []library.PinRecord{
				{Name: "A"},
				{Name: "Y", IsOutput: true, Function: "A"},
			},
		},
		library.CellRecord{
			Name: "ZERO",
			Area: 0.2,
			Pins: []library.PinRecord{{Name: "Y", IsOutput: true, Function: "0"}},
		},
		library.CellRecord{
			Name: "ONE",
			Area: 0.2,
			Pins: []library.PinRecord{{Name: "Y", IsOutput: true, Function: "1"}},
		},
	)

	res, err := library.Load(feed)
	if err != nil {
		panic(fmt.Sprintf("gen: RandomLibrary produced an invalid feed: %v", err))
	}
	return res.Library
}
