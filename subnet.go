package subnet

import "fmt"

// Subnet is an immutable snapshot of a Boolean network: a topologically
// ordered, append-only arena of entries addressed by index (spec §3,
// §9 Design Notes). It shares no state with the Builder it was made
// from (Builder.Make deep-copies the arena), so a Subnet can be handed
// to other goroutines freely.
type Subnet struct {
	arena []entry
}

// Len implements EntryReader.
func (s *Subnet) Len() int { return len(s.arena) }

// Symbol implements EntryReader.
func (s *Subnet) Symbol(idx uint32) Symbol { return s.arena[idx].Symbol }

// CellType implements EntryReader.
func (s *Subnet) CellType(idx uint32) uint32 { return s.arena[idx].CellTyp }

// Arity implements EntryReader.
func (s *Subnet) Arity(idx uint32) int { return arityFor(s.arena, idx) }

// Links implements EntryReader.
func (s *Subnet) Links(idx uint32) LinkList { return linksFor(s.arena, idx) }

// Outputs implements EntryReader.
func (s *Subnet) Outputs(idx uint32) int { return int(s.arena[idx].Outputs) }

// Refcount implements EntryReader.
func (s *Subnet) Refcount(idx uint32) int { return s.arena[idx].Refcount }

// Depth implements EntryReader.
func (s *Subnet) Depth(idx uint32) int { return s.arena[idx].Depth }

// Weight implements EntryReader.
func (s *Subnet) Weight(idx uint32) float64 { return s.arena[idx].Weight }

// IsMarked implements EntryReader.
func (s *Subnet) IsMarked(idx uint32) bool { return s.arena[idx].mark }

// NumInputs returns the number of SymIn entries, which form a prefix of
// the arena (spec §3).
func (s *Subnet) NumInputs() int {
	n := 0
	for i := range s.arena {
		if s.arena[i].Symbol != SymIn {
			break
		}
		n++
	}
	return n
}

// NumOutputs returns the number of SymOut entries, which form a suffix
// of the arena (spec §3).
func (s *Subnet) NumOutputs() int {
	n := 0
	for i := len(s.arena) - 1; i >= 0 && s.arena[i].Symbol == SymOut; i-- {
		n++
	}
	return n
}

// inputIndices returns the arena indices of every SymIn entry, in
// order.
func (s *Subnet) inputIndices() []uint32 {
	out := make([]uint32, 0, s.NumInputs())
	for i := range s.arena {
		if s.arena[i].Symbol != SymIn {
			break
		}
		out = append(out, uint32(i))
	}
	return out
}

// outputIndices returns the arena indices of every SymOut entry, in
// order.
func (s *Subnet) outputIndices() []uint32 {
	n := s.NumOutputs()
	out := make([]uint32, 0, n)
	for i := len(s.arena) - n; i < len(s.arena); i++ {
		out = append(out, uint32(i))
	}
	return out
}

// Builder returns a Builder seeded with a private copy of s's arena, so
// that further mutation never aliases s.
func (s *Subnet) Builder() *Builder {
	b := NewBuilder()
	b.arena = cloneEntries(s.arena)
	b.numInputs = s.NumInputs()
	b.numOutputs = s.NumOutputs()
	return b
}

// String renders a compact per-entry listing in the teacher's dump
// style, useful in tests and diagnostics.
func (s *Subnet) String() string {
	out := ""
	for i := range s.arena {
		e := &s.arena[i]
		out += fmt.Sprintf("%4d: %-4s links=%v refs=%d depth=%d\n", i, e.Symbol, linksFor(s.arena, uint32(i)), e.Refcount, e.Depth)
	}
	return out
}
