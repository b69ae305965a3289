package subnet

import (
	"fmt"
)

// Builder is the mutable presentation of a Subnet: it owns one
// append-only arena of entries exclusively and is not safe to mutate
// from multiple goroutines (spec §4.1, §5).
//
// The zero Builder is ready to use.
type Builder struct {
	arena []entry

	numInputs  int
	numOutputs int

	sessionDepth int
	marked       []uint32 // entries marked during the current session

	pool *entryPool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{pool: newEntryPool()}
}

// Len implements EntryReader.
func (b *Builder) Len() int { return len(b.arena) }

// Symbol implements EntryReader.
func (b *Builder) Symbol(idx uint32) Symbol { return b.arena[idx].Symbol }

// CellType implements EntryReader.
func (b *Builder) CellType(idx uint32) uint32 { return b.arena[idx].CellTyp }

// Arity implements EntryReader.
func (b *Builder) Arity(idx uint32) int { return arityFor(b.arena, idx) }

// Links implements EntryReader.
func (b *Builder) Links(idx uint32) LinkList { return linksFor(b.arena, idx) }

// Outputs implements EntryReader.
func (b *Builder) Outputs(idx uint32) int { return int(b.arena[idx].Outputs) }

// Refcount implements EntryReader.
func (b *Builder) Refcount(idx uint32) int { return b.arena[idx].Refcount }

// Depth implements EntryReader.
func (b *Builder) Depth(idx uint32) int { return b.arena[idx].Depth }

// Weight implements EntryReader.
func (b *Builder) Weight(idx uint32) float64 { return b.arena[idx].Weight }

// IsMarked implements EntryReader.
func (b *Builder) IsMarked(idx uint32) bool { return b.arena[idx].mark }

// SetWeight sets the scratch weight of the entry at idx.
func (b *Builder) SetWeight(idx uint32, w float64) { b.arena[idx].Weight = w }

// Mark sets the session mark bit of the entry at idx.
func (b *Builder) Mark(idx uint32) {
	if !b.arena[idx].mark {
		b.arena[idx].mark = true
		b.marked = append(b.marked, idx)
	}
}

// Unmark clears the session mark bit of the entry at idx.
func (b *Builder) Unmark(idx uint32) { b.arena[idx].mark = false }

// StartSession begins a new marking session. Sessions may not be
// nested; calling StartSession while one is active panics, matching the
// "builder owns its entries exclusively" invariant of spec §4.1.
func (b *Builder) StartSession() {
	if b.sessionDepth != 0 {
		panic("subnet: StartSession called while a session is already active")
	}
	b.sessionDepth = 1
}

// EndSession clears all marks set since the last StartSession.
func (b *Builder) EndSession() {
	if b.sessionDepth == 0 {
		panic("subnet: EndSession called without an active session")
	}
	for _, idx := range b.marked {
		b.arena[idx].mark = false
	}
	b.marked = b.marked[:0]
	b.sessionDepth = 0
}

// AddInput appends a fresh IN entry and returns a link to it.
//
// Inputs must be added before any cell or output (spec §3: "Inputs form
// a prefix of the sequence").
func (b *Builder) AddInput() Link {
	if b.numOutputs > 0 {
		panic("subnet: AddInput called after AddOutput")
	}
	idx := b.append(entry{Symbol: SymIn, Outputs: 1, Seq: -1})
	b.numInputs++
	return NewLink(idx, 0)
}

// AddCell appends an inner cell with the given symbol and fanin links,
// returning a link to its (first) output.
//
// Every link must reference an entry with a strictly smaller index than
// the new cell (spec §3's topological-order invariant); AddCell panics
// otherwise, since a forward reference can only come from a bug in the
// caller.
func (b *Builder) AddCell(sym Symbol, links LinkList) Link {
	return b.addCellOutputs(sym, links, 1)
}

// AddCellMultiOutput is AddCell for a multi-output SymCell entry; n is
// the number of logical outputs (only SymCell entries may have n > 1,
// per spec §3).
func (b *Builder) AddCellMultiOutput(cellType uint32, links LinkList, n int) Link {
	if n < 1 {
		panic("subnet: AddCellMultiOutput requires at least one output")
	}
	idx := b.addRaw(entry{Symbol: SymCell, CellTyp: cellType, Outputs: uint8(n), Seq: -1}, links)
	return NewLink(idx, 0)
}

func (b *Builder) addCellOutputs(sym Symbol, links LinkList, outputs int) Link {
	idx := b.addRaw(entry{Symbol: sym, Outputs: uint8(outputs), Seq: -1}, links)
	return NewLink(idx, 0)
}

func (b *Builder) addRaw(e entry, links LinkList) uint32 {
	for _, l := range links {
		if int(l.Target) >= len(b.arena) {
			panic(fmt.Sprintf("subnet: link target %d is not strictly smaller than the new entry index %d", l.Target, len(b.arena)))
		}
	}

	holder := len(b.arena)
	head, rest := splitArity(links)
	e.Links = head
	e.More = uint16(len(rest))
	idx := b.append(e)

	for _, chunk := range rest {
		b.append(entry{Symbol: symContinuation, Links: chunk, Seq: -1})
	}

	b.recomputeDepth(uint32(idx))
	b.bumpFaninRefcounts(uint32(idx))
	return uint32(idx)
}

// splitArity splits links into the in-place head (up to
// MaxInPlaceLinks) and zero or more MaxInPlaceLinks-sized continuation
// chunks.
func splitArity(links LinkList) (head LinkList, rest []LinkList) {
	if len(links) <= MaxInPlaceLinks {
		return links, nil
	}
	head = links[:MaxInPlaceLinks]
	remaining := links[MaxInPlaceLinks:]
	for len(remaining) > 0 {
		n := MaxInPlaceLinks
		if n > len(remaining) {
			n = len(remaining)
		}
		rest = append(rest, remaining[:n])
		remaining = remaining[n:]
	}
	return head, rest
}

// AddOutput appends a terminal OUT entry referencing link.
func (b *Builder) AddOutput(link Link) Link {
	if int(link.Target) >= len(b.arena) {
		panic(fmt.Sprintf("subnet: output link target %d is not strictly smaller than the new entry index %d", link.Target, len(b.arena)))
	}
	idx := b.append(entry{Symbol: SymOut, Outputs: 1, Links: LinkList{link}, Seq: -1})
	b.numOutputs++
	b.recomputeDepth(uint32(idx))
	b.bumpFaninRefcounts(uint32(idx))
	return NewLink(idx, 0)
}

// AddSubnet inlines the cells of other, remapping its inputs via links
// (one per input of other, in order) and returns one link per output of
// other.
func (b *Builder) AddSubnet(other *Subnet, links LinkList) (LinkList, error) {
	if len(links) != other.NumInputs() {
		return nil, fmt.Errorf("subnet: AddSubnet expects %d input links, got %d", other.NumInputs(), len(links))
	}

	remap := make([]Link, other.Len())
	for i, in := range other.inputIndices() {
		remap[in] = links[i]
	}

	for idx := 0; idx < other.Len(); idx++ {
		sym := other.Symbol(uint32(idx))
		if sym == SymIn || sym == symContinuation {
			continue
		}
		srcLinks := other.Links(uint32(idx))
		newLinks := make(LinkList, len(srcLinks))
		for j, l := range srcLinks {
			mapped := remap[l.Target]
			newLinks[j] = Link{Target: mapped.Target, Port: mapped.Port, Inversion: l.Inversion != mapped.Inversion}
		}

		if sym == SymOut {
			remap[idx] = b.AddOutput(newLinks[0])
			continue
		}
		e := other.arena[idx]
		remap[idx] = b.addCellOutputs(sym, newLinks, int(e.Outputs))
		if sym == SymCell {
			b.arena[remap[idx].Target].CellTyp = e.CellTyp
		}
	}

	outs := make(LinkList, 0, len(other.outputIndices()))
	for _, o := range other.outputIndices() {
		outs = append(outs, remap[o])
	}
	return outs, nil
}

func (b *Builder) append(e entry) int {
	b.arena = append(b.arena, e)
	return len(b.arena) - 1
}

func (b *Builder) bumpFaninRefcounts(idx uint32) {
	for _, l := range b.Links(idx) {
		b.arena[l.Target].Refcount++
	}
}

func (b *Builder) recomputeDepth(idx uint32) {
	e := &b.arena[idx]
	if e.Symbol == SymIn || e.Symbol == SymZero || e.Symbol == SymOne {
		e.Depth = 0
		return
	}
	max := 0
	for _, l := range linksFor(b.arena, idx) {
		if d := b.arena[l.Target].Depth + 1; d > max {
			max = d
		}
	}
	e.Depth = max
}

// Make snapshots the builder's current arena into an immutable Subnet.
// The builder may continue to be mutated afterward without aliasing the
// returned snapshot (spec §4.1). Make also restores the two invariants
// a live Builder only maintains loosely under Replace — every link
// refers to a strictly smaller index, and dead entries are gone — by
// running a genuine topological re-sort (see compact).
func (b *Builder) Make() *Subnet {
	return &Subnet{arena: compact(b.arena)}
}
