package subnet

import "github.com/vlsicore/subnet/internal/truth"

// Evaluate computes a truth table per entry of v, in the variables of
// v's own inputs (spec §4.2: "each entry is assigned a truth table in
// the input variables of the view, combining children's tables by the
// cell's symbol"). It walks the view once in forward order via
// WalkForward, so an entry's children are always evaluated first.
func Evaluate(v *View) map[uint32]truth.Table {
	n := len(v.inputs)
	tables := make(map[uint32]truth.Table, len(v.outputs)*2)
	for i, in := range v.inputs {
		tables[in] = truth.Var(n, i)
	}

	WalkForward(v, nil, func(idx uint32) bool {
		if _, ok := tables[idx]; ok {
			return true // boundary input, already seeded
		}
		tables[idx] = evalEntry(v.src, tables, idx, n)
		return true
	})
	return tables
}

func evalEntry(src EntryReader, tables map[uint32]truth.Table, idx uint32, n int) truth.Table {
	links := src.Links(idx)
	fanin := make([]truth.Table, len(links))
	for i, l := range links {
		fanin[i] = tables[l.Target].Maybe(l.Inversion)
	}

	switch src.Symbol(idx) {
	case SymZero:
		return truth.Constant(n, false)
	case SymOne:
		return truth.Constant(n, true)
	case SymBuf:
		return fanin[0]
	case SymNot:
		return fanin[0].Not()
	case SymAnd:
		return reduceTable(fanin, truth.Table.And)
	case SymOr:
		return reduceTable(fanin, truth.Table.Or)
	case SymXor:
		return reduceTable(fanin, truth.Table.Xor)
	case SymNand:
		return reduceTable(fanin, truth.Table.And).Not()
	case SymNor:
		return reduceTable(fanin, truth.Table.Or).Not()
	case SymXnor:
		return reduceTable(fanin, truth.Table.Xor).Not()
	case SymMaj:
		return majN(fanin)
	case SymOut:
		return fanin[0]
	default:
		panic("subnet: Evaluate cannot interpret CELL symbols without a library; map to structural gates first")
	}
}

func reduceTable(ts []truth.Table, op func(truth.Table, truth.Table) truth.Table) truth.Table {
	out := ts[0]
	for _, t := range ts[1:] {
		out = op(out, t)
	}
	return out
}

// majN is the majority of an odd number of same-arity tables,
// generalizing truth.Maj beyond three inputs the way a multi-input MAJ
// cell in a resynthesized network can require: the OR, over every
// (len(ts)/2+1)-sized subset, of the AND of that subset.
func majN(ts []truth.Table) truth.Table {
	if len(ts) == 3 {
		return truth.Maj(ts[0], ts[1], ts[2])
	}
	threshold := len(ts)/2 + 1
	n := ts[0].NumVars
	out := truth.New(n)
	first := true

	var combine func(start int, chosen []truth.Table)
	combine = func(start int, chosen []truth.Table) {
		if len(chosen) == threshold {
			clause := chosen[0]
			for _, t := range chosen[1:] {
				clause = clause.And(t)
			}
			if first {
				out = clause
				first = false
			} else {
				out = out.Or(clause)
			}
			return
		}
		for i := start; i < len(ts); i++ {
			combine(i+1, append(chosen, ts[i]))
		}
	}
	combine(0, nil)
	return out
}
