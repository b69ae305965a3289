// Package rewrite implements the local-rewriting transformers of
// spec §4.4: a cut-based Rewriter, a reconvergence-window Refactorer,
// a conflict-aware Lazy Refactorer, and a pattern-database contract
// (Database) that none of them consults.
package rewrite

import "github.com/vlsicore/subnet"

// SafePasser is a topological cursor over a Builder's entries that
// survives in-place mutation: spec §9 describes the pattern as "an
// iterator that updates itself on mutation via registered callbacks",
// which maps here to an explicit cursor value with a rewind method
// instead of a live iterator object. Replace only ever rewires
// consumers of an index at higher indices (arena order is
// topological, and rhs entries are appended past the end), so it is
// always correct to resume scanning from the lowest index any
// replacement touched.
type SafePasser struct {
	b   *subnet.Builder
	cur uint32
}

// NewSafePasser starts a cursor at the first entry of b.
func NewSafePasser(b *subnet.Builder) *SafePasser {
	return &SafePasser{b: b}
}

// Next returns the next entry eligible for rewriting: a structural
// cell (IsStructural, spec §3) that is not a continuation entry.
// Continuation entries hold spillover fanin for wide-arity cells and
// carry no Outputs count of their own, so b.Outputs(idx) == 0
// identifies them without needing the unexported continuation symbol.
// It reports false once the scan reaches the end of the arena.
func (p *SafePasser) Next() (uint32, bool) {
	for p.cur < uint32(p.b.Len()) {
		idx := p.cur
		p.cur++
		if p.b.Outputs(idx) == 0 {
			continue
		}
		if !p.b.Symbol(idx).IsStructural() {
			continue
		}
		if p.b.Refcount(idx) == 0 {
			continue
		}
		return idx, true
	}
	return 0, false
}

// NotifyReplace rewinds the cursor to idx if idx precedes it, so a
// mutation that reaches backward in the scan order is revisited.
func (p *SafePasser) NotifyReplace(idx uint32) {
	if idx < p.cur {
		p.cur = idx
	}
}
