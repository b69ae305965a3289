package subnet

// Basis names one of the four technology-independent gate bases the
// mapper's DP cover (spec §4.6) expects its input already decomposed
// into. spec.md assumes this basis conversion already happened before
// the mapper runs ("a SubnetBuilder (premapped into the target basis:
// AIG, XAG, MIG, or XMG)"); Decompose is the cone-premapper/
// net-decomposer step that actually gets a Subnet there, grounded on
// original_source's src/gate/premapper/cone_premapper.* and
// src/gate/model/decomposer/net_decomposer.cpp.
type Basis uint8

const (
	// BasisAIG: AND gates plus link-level inversion only.
	BasisAIG Basis = iota
	// BasisXAG: AND and XOR gates plus link-level inversion.
	BasisXAG
	// BasisMIG: 3-input MAJ gates plus link-level inversion.
	BasisMIG
	// BasisXMG: XOR and 3-input MAJ gates plus link-level inversion.
	BasisXMG
)

func (b Basis) String() string {
	switch b {
	case BasisAIG:
		return "AIG"
	case BasisXAG:
		return "XAG"
	case BasisMIG:
		return "MIG"
	case BasisXMG:
		return "XMG"
	default:
		return "Basis(?)"
	}
}

// Decompose rebuilds src into a fresh Builder expressed entirely in
// basis's native gate set (plus the free link-level inversion bit
// every basis gets): AND/OR/XOR/NAND/NOR/XNOR/MAJ/BUF/NOT cells are
// rewritten in terms of basis's primitives; IN/ZERO/ONE/OUT/CELL
// entries pass through unchanged (re-decomposing an already-mapped
// CELL would mean re-deriving its function from the library, which is
// not this pass's job).
//
// src must already be in topological order (every link targets a
// strictly smaller index) — true of any *Subnet produced by
// (*Builder).Make, which is the expected caller.
func Decompose(src EntryReader, basis Basis) *Builder {
	nb := NewBuilder()
	n := src.Len()
	rebuilt := make([]Link, n)
	d := &decomposer{nb: nb, basis: basis}

	for idx := 0; idx < n; idx++ {
		sym := src.Symbol(uint32(idx))
		switch sym {
		case symContinuation:
			continue
		case SymIn:
			rebuilt[idx] = nb.AddInput()
		case SymZero:
			rebuilt[idx] = d.zero()
		case SymOne:
			rebuilt[idx] = d.one()
		case SymOut:
			rebuilt[idx] = nb.AddOutput(remapLink(src, rebuilt, uint32(idx), 0))
		case SymCell:
			links := src.Links(uint32(idx))
			newLinks := make(LinkList, len(links))
			for i := range links {
				newLinks[i] = remapLink(src, rebuilt, uint32(idx), i)
			}
			rebuilt[idx] = nb.AddCellMultiOutput(src.CellType(uint32(idx)), newLinks, src.Outputs(uint32(idx)))
		default:
			links := src.Links(uint32(idx))
			fanin := make(LinkList, len(links))
			for i := range links {
				fanin[i] = remapLink(src, rebuilt, uint32(idx), i)
			}
			rebuilt[idx] = d.emit(sym, fanin)
		}
	}
	return nb
}

// remapLink resolves the port'th fanin link of parent (in src) into
// the already-rebuilt link in nb's arena, composing inversion bits.
func remapLink(src EntryReader, rebuilt []Link, parent uint32, port int) Link {
	l := src.Links(parent)[port]
	base := rebuilt[l.Target]
	return Link{Target: base.Target, Port: l.Port, Inversion: base.Inversion != l.Inversion}
}

// decomposer holds the per-call state Decompose's gate emission needs:
// the target builder/basis and a cache of the (at most one) ZERO/ONE
// entry each is materialized as, mirroring the reconstruct() dedup
// pattern in techmap/mapper.go.
type decomposer struct {
	nb    *Builder
	basis Basis

	zeroLink, oneLink *Link
}

func (d *decomposer) zero() Link {
	if d.zeroLink == nil {
		l := d.nb.AddCell(SymZero, nil)
		d.zeroLink = &l
	}
	return *d.zeroLink
}

func (d *decomposer) one() Link {
	if d.oneLink == nil {
		l := d.nb.AddCell(SymOne, nil)
		d.oneLink = &l
	}
	return *d.oneLink
}

// emit builds sym's function out of fanin using only basis's native
// gates, folding arity > 2 AND/OR/XOR gates pairwise left to right.
func (d *decomposer) emit(sym Symbol, fanin LinkList) Link {
	switch sym {
	case SymBuf:
		return fanin[0]
	case SymNot:
		return fanin[0].Inverted()
	case SymAnd:
		return d.foldBinary(d.and, fanin)
	case SymOr:
		return d.foldBinary(d.or, fanin)
	case SymXor:
		return d.foldBinary(d.xor, fanin)
	case SymNand:
		return d.foldBinary(d.and, fanin).Inverted()
	case SymNor:
		return d.foldBinary(d.or, fanin).Inverted()
	case SymXnor:
		return d.foldBinary(d.xor, fanin).Inverted()
	case SymMaj:
		return d.maj(fanin)
	default:
		panic("subnet: Decompose cannot emit symbol " + sym.String())
	}
}

func (d *decomposer) foldBinary(op func(a, b Link) Link, fanin LinkList) Link {
	acc := fanin[0]
	for _, l := range fanin[1:] {
		acc = op(acc, l)
	}
	return acc
}

func (d *decomposer) and(a, b Link) Link {
	switch d.basis {
	case BasisMIG, BasisXMG:
		return d.maj3(a, b, d.zero())
	default:
		return d.nb.AddCell(SymAnd, LinkList{a, b})
	}
}

func (d *decomposer) or(a, b Link) Link {
	switch d.basis {
	case BasisAIG:
		return d.and(a.Inverted(), b.Inverted()).Inverted()
	case BasisXAG:
		return d.xor(d.xor(a, b), d.and(a, b))
	default: // MIG, XMG
		return d.maj3(a, b, d.one())
	}
}

func (d *decomposer) xor(a, b Link) Link {
	switch d.basis {
	case BasisAIG:
		return d.or(d.and(a, b.Inverted()), d.and(a.Inverted(), b))
	case BasisXAG, BasisXMG:
		return d.nb.AddCell(SymXor, LinkList{a, b})
	default: // MIG
		return d.maj3(d.maj3(a, b.Inverted(), d.zero()), d.maj3(a.Inverted(), b, d.zero()), d.one())
	}
}

// maj3 emits a single 3-input MAJ in basis's native gates.
func (d *decomposer) maj3(a, b, c Link) Link {
	switch d.basis {
	case BasisMIG, BasisXMG:
		return d.nb.AddCell(SymMaj, LinkList{a, b, c})
	default: // AIG, XAG
		return d.or(d.or(d.and(a, b), d.and(b, c)), d.and(a, c))
	}
}

// maj decomposes an arbitrary odd-arity MAJ gate. Arity 3 (by far the
// common case — Akers synthesis only ever emits 3-input MAJs) goes
// straight to maj3; wider majorities fall back to the exact minterm
// expansion (sum of every input combination with a strict majority of
// ones), which is correct for any odd arity but grows exponentially,
// so it is only meant for the occasional wide MAJ a front-end might
// hand in, not as a hot path.
func (d *decomposer) maj(fanin LinkList) Link {
	if len(fanin) == 3 {
		return d.maj3(fanin[0], fanin[1], fanin[2])
	}

	n := len(fanin)
	threshold := n/2 + 1
	var out Link
	haveOut := false
	for mask := 0; mask < (1 << n); mask++ {
		if popcountInt(mask) < threshold {
			continue
		}
		term := fanin[0]
		if mask&1 == 0 {
			term = term.Inverted()
		}
		for i := 1; i < n; i++ {
			lit := fanin[i]
			if mask&(1<<i) == 0 {
				lit = lit.Inverted()
			}
			term = d.and(term, lit)
		}
		if !haveOut {
			out, haveOut = term, true
		} else {
			out = d.or(out, term)
		}
	}
	return out
}

func popcountInt(x int) int {
	c := 0
	for x != 0 {
		c += x & 1
		x >>= 1
	}
	return c
}
