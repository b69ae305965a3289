package subnet

// entry is one node in a Subnet's flat arena.
//
// Arity above MaxInPlaceLinks is represented by continuation entries:
// the holder's More field counts how many entries immediately following
// it belong to the same logical cell, and their links are concatenated
// in order. Continuation entries carry symContinuation and are otherwise
// inert — they exist only to hold overflow links.
type entry struct {
	Symbol  Symbol
	CellTyp uint32 // valid iff Symbol == SymCell
	Outputs uint8  // number of outputs, >=1; >1 only for SymCell
	More    uint16 // number of continuation entries following this one
	Links   LinkList

	Refcount int
	Depth    int
	Weight   float64
	Seq      int32 // sequential-element id, -1 if none
	mark     bool
}

// symContinuation is an internal pseudo-symbol for overflow-link holders.
// It is never exposed through Entry accessors.
const symContinuation Symbol = 255

func (e *entry) reset() {
	*e = entry{Seq: -1}
}

// links returns the full link list for a logical cell, walking past
// continuation entries if arity exceeds MaxInPlaceLinks. arena is the
// entry slice the holder lives in and idx is the holder's index.
func linksFor(arena []entry, idx uint32) LinkList {
	e := &arena[idx]
	if e.More == 0 {
		return e.Links
	}

	out := make(LinkList, 0, len(e.Links)+int(e.More)*MaxInPlaceLinks)
	out = append(out, e.Links...)
	for i := uint32(1); i <= uint32(e.More); i++ {
		out = append(out, arena[idx+i].Links...)
	}
	return out
}

// arity returns the logical arity of the cell at idx, including any
// continuation entries.
func arityFor(arena []entry, idx uint32) int {
	e := &arena[idx]
	n := len(e.Links)
	for i := uint32(1); i <= uint32(e.More); i++ {
		n += len(arena[idx+i].Links)
	}
	return n
}

// setLinkAt overwrites the port-th fanin link of the cell at idx in
// place, locating the physical continuation entry it lives in if the
// cell's arity spilled past MaxInPlaceLinks. Unlike linksFor, which
// merges continuations into a fresh slice for read-only iteration,
// this writes back through the real backing array so the mutation is
// visible to every other reader of arena.
func setLinkAt(arena []entry, idx uint32, port int, l Link) {
	head := &arena[idx]
	if port < len(head.Links) {
		head.Links[port] = l
		return
	}
	rest := port - len(head.Links)
	chunk := rest / MaxInPlaceLinks
	offset := rest % MaxInPlaceLinks
	arena[idx+1+uint32(chunk)].Links[offset] = l
}
