package subnet

// VisitFunc is a walker visitor callback. Returning false aborts the
// traversal; the walker reports the abort upward by itself returning
// false (spec §4.2: "Both return a boolean; returning false aborts the
// traversal and the walker reports the abort upward").
type VisitFunc func(idx uint32) bool

// WalkForward traverses v in forward order — inputs first, then inner
// cells in topological order, then outputs — calling pre when an entry
// is first discovered (pushed) and post when it is fully processed
// (popped). Either callback may be nil.
//
// It is implemented exactly as spec §4.2 describes: a reverse-DFS from
// the view's outputs with an explicit stack of (entry, next_link_index)
// frames, emitting (popping) an entry once next_link_index reaches its
// arity.
func WalkForward(v *View, pre, post VisitFunc) bool {
	boundary := make(map[uint32]bool, len(v.inputs))
	for _, in := range v.inputs {
		boundary[in] = true
	}

	type frame struct {
		idx  uint32
		next int
	}
	visited := make(map[uint32]bool)
	var stack []frame

	push := func(idx uint32) bool {
		if visited[idx] {
			return true
		}
		visited[idx] = true
		if pre != nil && !pre(idx) {
			return false
		}
		stack = append(stack, frame{idx: idx})
		return true
	}

	for _, root := range v.outputs {
		if visited[root] {
			continue
		}
		if !push(root) {
			return false
		}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if boundary[top.idx] || v.src.Symbol(top.idx).IsTerminal() {
				if post != nil && !post(top.idx) {
					return false
				}
				stack = stack[:len(stack)-1]
				continue
			}
			links := v.src.Links(top.idx)
			if top.next >= len(links) {
				if post != nil && !post(top.idx) {
					return false
				}
				stack = stack[:len(stack)-1]
				continue
			}
			child := links[top.next].Target
			top.next++
			if !visited[child] {
				if !push(child) {
					return false
				}
			}
		}
	}
	return true
}

// WalkBackward traverses v in the reverse of WalkForward's order:
// outputs first, then inner cells in reverse-topological order, then
// inputs last.
func WalkBackward(v *View, pre, post VisitFunc) bool {
	var order []uint32
	if !WalkForward(v, nil, func(idx uint32) bool {
		order = append(order, idx)
		return true
	}) {
		return false
	}
	for i := len(order) - 1; i >= 0; i-- {
		idx := order[i]
		if pre != nil && !pre(idx) {
			return false
		}
		if post != nil && !post(idx) {
			return false
		}
	}
	return true
}

// SaveForward runs WalkForward and returns the entries in forward
// (topological) order, for callers that need to walk the same region
// repeatedly without re-traversing (spec §4.2: "Entries may optionally
// be saved into an ordered sequence for repeated traversals").
func SaveForward(v *View) []uint32 {
	var order []uint32
	WalkForward(v, nil, func(idx uint32) bool {
		order = append(order, idx)
		return true
	})
	return order
}
