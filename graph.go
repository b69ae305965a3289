// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package subnet

// EntryReader abstracts read-only access to an arena of entries,
// whether it is a live *Builder still being mutated or a frozen
// *Subnet snapshot. Cut extraction, walking and truth-table evaluation
// are written once against this interface — the "arity and link
// lookups supplied by injectable functions" requirement of spec §4.2 —
// so they run unmodified over either representation.
type EntryReader interface {
	// Len returns the number of entries in the arena.
	Len() int
	// Symbol returns the symbol of the entry at idx.
	Symbol(idx uint32) Symbol
	// CellType returns the library cell-type id of a SymCell entry.
	CellType(idx uint32) uint32
	// Arity returns the number of fanin links of the entry at idx.
	Arity(idx uint32) int
	// Links returns the fanin links of the entry at idx, in pin order.
	Links(idx uint32) LinkList
	// Outputs returns the number of logical outputs of the entry at idx.
	Outputs(idx uint32) int
	// Refcount returns the number of fanout links pointing at idx.
	Refcount(idx uint32) int
	// Depth returns the longest directed distance from any input to idx.
	Depth(idx uint32) int
	// Weight returns the scratch weight of the entry at idx.
	Weight(idx uint32) float64
	// IsMarked reports the session mark bit of the entry at idx.
	IsMarked(idx uint32) bool
}

// EntryWriter extends EntryReader with the mutating operations a live
// builder supports but a frozen snapshot does not.
type EntryWriter interface {
	EntryReader

	SetWeight(idx uint32, w float64)
	Mark(idx uint32)
	Unmark(idx uint32)
}
