package subnet

// View is a window onto an EntryReader delimited by a boundary input
// set and an output (root) set: the functionally-closed sub-DAG
// reachable from the outputs via fanin, stopping at the inputs (spec
// §3: "the set of entries reachable from outputs via fanin, stopping
// at inputs, is functionally closed — no link inside crosses the
// boundary except at an input").
//
// A View never copies the underlying arena; it is a cheap, read-only
// lens used by the cut extractor, the walker and the resynthesizers.
type View struct {
	src     EntryReader
	inputs  []uint32
	outputs []uint32

	// Care is an optional mask over the view's input assignments whose
	// set bits name the don't-care assignments (see CareSet.Mask); nil
	// means every combination matters.
	Care *CareSet
}

// CareSet names the input assignments a View's equivalence checks must
// respect. It is deliberately a thin wrapper rather than a bare
// *truth.Table so that subnet's public API does not leak the internal
// truth package.
type CareSet struct {
	NumVars int
	Mask    []uint64 // bit i set iff assignment i is a "don't care"
}

// NewView builds a View over src bounded by inputs and rooted at
// outputs. It panics if the boundary is not functionally closed — that
// would mean a caller passed an inconsistent (inputs, outputs) pair,
// which can only be a bug upstream (cut extraction and SubnetView
// construction always produce a closed boundary by construction).
func NewView(src EntryReader, inputs, outputs []uint32) *View {
	v := &View{src: src, inputs: append([]uint32(nil), inputs...), outputs: append([]uint32(nil), outputs...)}
	if !v.isClosed() {
		panic("subnet: View boundary is not functionally closed")
	}
	return v
}

func (v *View) isClosed() bool {
	boundary := make(map[uint32]bool, len(v.inputs))
	for _, in := range v.inputs {
		boundary[in] = true
	}
	visited := make(map[uint32]bool)
	var walk func(idx uint32) bool
	walk = func(idx uint32) bool {
		if visited[idx] {
			return true
		}
		visited[idx] = true
		if boundary[idx] {
			return true
		}
		if v.src.Symbol(idx) == SymIn || v.src.Symbol(idx) == SymZero || v.src.Symbol(idx) == SymOne {
			// A terminal reached without being named as a boundary input
			// means the view's declared inputs do not actually cut off
			// every path from the network's true primary inputs.
			return false
		}
		for _, l := range v.src.Links(idx) {
			if !walk(l.Target) {
				return false
			}
		}
		return true
	}
	for _, o := range v.outputs {
		if !walk(o) {
			return false
		}
	}
	return true
}

// Inputs returns the view's boundary input entries, in order.
func (v *View) Inputs() []uint32 { return v.inputs }

// Outputs returns the view's root entries, in order.
func (v *View) Outputs() []uint32 { return v.outputs }

// Source returns the EntryReader the view windows into.
func (v *View) Source() EntryReader { return v.src }

// Contains reports whether idx lies within the view's closed interior
// (including its boundary inputs and root outputs).
func (v *View) Contains(idx uint32) bool {
	for _, in := range v.inputs {
		if in == idx {
			return true
		}
	}
	found := false
	WalkForward(v, func(e uint32) bool {
		if e == idx {
			found = true
			return false
		}
		return true
	}, nil)
	return found
}
