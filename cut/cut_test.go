package cut_test

import (
	"math/rand/v2"
	"testing"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/cut"
	"github.com/vlsicore/subnet/internal/gen"
)

// buildChain builds a 6-input balanced AND tree: ((a&b)&(c&d))&(e&f)
// via two layers of 2-input ANDs feeding a final 2-input AND — the §4.3
// / §8 "reconvergence cut example" scenario.
func buildChain(b *subnet.Builder) (ins subnet.LinkList, root uint32) {
	for i := 0; i < 6; i++ {
		ins = append(ins, b.AddInput())
	}
	l1 := b.AddCell(subnet.SymAnd, subnet.LinkList{ins[0], ins[1]})
	l2 := b.AddCell(subnet.SymAnd, subnet.LinkList{ins[2], ins[3]})
	l3 := b.AddCell(subnet.SymAnd, subnet.LinkList{ins[4], ins[5]})
	m1 := b.AddCell(subnet.SymAnd, subnet.LinkList{l1, l2})
	final := b.AddCell(subnet.SymAnd, subnet.LinkList{m1, l3})
	return ins, final.Target
}

func TestCutsAreKFeasible(t *testing.T) {
	b := subnet.NewBuilder()
	_, root := buildChain(b)

	ex := cut.New(b, cut.Params{K: 4, Nmax: 10})
	for _, c := range ex.Cuts(root) {
		if c.Size() > 4 {
			t.Fatalf("cut of size %d exceeds k=4", c.Size())
		}
	}
}

func TestNoDominatedCutsRetained(t *testing.T) {
	b := subnet.NewBuilder()
	_, root := buildChain(b)

	ex := cut.New(b, cut.Params{K: 6, Nmax: 50})
	cuts := ex.Cuts(root)
	for i := range cuts {
		for j := range cuts {
			if i == j {
				continue
			}
			if cuts[i].Dominates(cuts[j]) && cuts[i].Size() < cuts[j].Size() {
				t.Fatalf("cut %v dominates retained cut %v", cuts[i], cuts[j])
			}
		}
	}
}

func TestTrivialCutAlwaysPresent(t *testing.T) {
	b := subnet.NewBuilder()
	_, root := buildChain(b)

	ex := cut.New(b, cut.Params{K: 4, Nmax: 10})
	found := false
	for _, c := range ex.Cuts(root) {
		if c.Size() == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the trivial cut {root} to be present")
	}
}

// TestReconvergenceGrowsTowardK is the §4.3/§8 "reconvergence cut
// example" scenario: for the 6-input balanced AND chain, with k=4 and
// root the final AND, the grown cut must be larger than the trivial
// 2-leaf direct-fanin cut (it must actually expand) while staying
// within k and remaining a genuine antichain (no leaf is reachable
// from another leaf — expansion always replaces a leaf with its own
// fanins, so it can never reintroduce an ancestor).
func TestReconvergenceGrowsTowardK(t *testing.T) {
	b := subnet.NewBuilder()
	_, root := buildChain(b)

	c := cut.Reconverge(b, root, 4)
	if c.Size() <= 2 {
		t.Fatalf("reconvergence cut did not grow past the trivial direct-fanin cut: size=%d", c.Size())
	}
	if c.Size() > 4 {
		t.Fatalf("cut grew past k=4: size=%d", c.Size())
	}

	leaves := leafSlice(c)
	reach := func(from uint32) map[uint32]bool {
		seen := map[uint32]bool{}
		var walk func(uint32)
		walk = func(idx uint32) {
			for _, l := range b.Links(idx) {
				if !seen[l.Target] {
					seen[l.Target] = true
					walk(l.Target)
				}
			}
		}
		walk(from)
		return seen
	}
	for _, l := range leaves {
		below := reach(l)
		for _, other := range leaves {
			if other == l {
				continue
			}
			if below[other] {
				t.Fatalf("leaf %d is an ancestor of leaf %d: not a valid antichain", l, other)
			}
		}
	}
}

// TestCutsValidOnRandomNetworks is the property-style counterpart to
// the hand-built scenarios above: over many seeded random networks of
// varying shape (gen.RandomBuilder), every retained cut of every
// entry must stay within K, respect the per-node Nmax cap, and never
// be dominated by another retained cut of the same entry.
func TestCutsValidOnRandomNetworks(t *testing.T) {
	const k, nmax = 5, 8
	for seed := uint64(0); seed < 20; seed++ {
		prng := rand.New(rand.NewPCG(seed, seed^0x9e3779b9))
		b := gen.RandomBuilder(prng, 1+prng.IntN(5), prng.IntN(30))

		ex := cut.New(b, cut.Params{K: k, Nmax: nmax})
		for idx := 0; idx < b.Len(); idx++ {
			cuts := ex.Cuts(uint32(idx))
			if len(cuts) > nmax {
				t.Fatalf("seed %d entry %d: %d cuts retained, want <= %d", seed, idx, len(cuts), nmax)
			}
			for i, c := range cuts {
				if c.Size() > k {
					t.Fatalf("seed %d entry %d: cut %v exceeds k=%d", seed, idx, c, k)
				}
				for j, o := range cuts {
					if i == j {
						continue
					}
					if c.Dominates(o) && c.Size() < o.Size() {
						t.Fatalf("seed %d entry %d: cut %v dominates retained cut %v", seed, idx, c, o)
					}
				}
			}
		}
	}
}

func leafSlice(c cut.Cut) []uint32 {
	var out []uint32
	for i, ok := c.Leaves.NextSet(0); ok; i, ok = c.Leaves.NextSet(i + 1) {
		out = append(out, uint32(i))
	}
	return out
}
