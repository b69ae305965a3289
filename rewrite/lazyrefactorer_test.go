package rewrite

import (
	"testing"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/resynth"
)

func TestConflictGraphPicksDisjointMaxWeight(t *testing.T) {
	g := &conflictGraph{}
	g.addVertex(&conflictVertex{entries: []uint32{1, 2}, weight: 5})
	g.addVertex(&conflictVertex{entries: []uint32{2, 3}, weight: 8}) // overlaps vertex 0
	g.addVertex(&conflictVertex{entries: []uint32{4}, weight: 3})

	chosen, total := g.findBestColoring()
	if len(chosen) != 2 {
		t.Fatalf("expected 2 disjoint vertices chosen, got %d", len(chosen))
	}
	if total != 11 {
		t.Fatalf("expected total weight 11 (8+3), got %v", total)
	}
	for _, v := range chosen {
		if v.weight == 5 {
			t.Fatalf("the weight-5 vertex overlaps the chosen weight-8 vertex and should have been skipped")
		}
	}
}

func TestConflictGraphEmpty(t *testing.T) {
	g := &conflictGraph{}
	chosen, total := g.findBestColoring()
	if len(chosen) != 0 || total != 0 {
		t.Fatalf("expected no vertices chosen from an empty graph")
	}
}

// Two independent AND gates sharing no entries both collapse under a
// double negation; the lazy refactorer should commit both in one
// pass since their cones never overlap.
func TestLazyRefactorerAppliesDisjointCandidates(t *testing.T) {
	b := subnet.NewBuilder()
	a := b.AddInput()
	c := b.AddInput()
	d := b.AddInput()
	e := b.AddInput()

	n1 := b.AddCell(subnet.SymNot, subnet.LinkList{a})
	n2 := b.AddCell(subnet.SymNot, subnet.LinkList{n1})
	y1 := b.AddCell(subnet.SymAnd, subnet.LinkList{n2, c})
	b.AddOutput(y1)

	n3 := b.AddCell(subnet.SymNot, subnet.LinkList{d})
	n4 := b.AddCell(subnet.SymNot, subnet.LinkList{n3})
	y2 := b.AddCell(subnet.SymAnd, subnet.LinkList{n4, e})
	b.AddOutput(y2)

	r := &LazyRefactorer{Synth: resynth.MMFactorSynthesizer{}, K: 6, MaxArity: 6}
	applied := r.Run(b)
	if applied != 2 {
		t.Fatalf("expected both disjoint candidates applied, got %d", applied)
	}
}
