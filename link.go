package subnet

// Link is a fanin reference: it names the entry supplying a value, which
// output port of that entry to take (0 for single-output cells), and
// whether the logical negation of that source is consumed.
type Link struct {
	Target    uint32
	Port      uint16
	Inversion bool
}

// LinkList is an ordered list of fanin links, in cell-pin order.
type LinkList []Link

// Inverted returns a copy of l with the inversion bit flipped.
func (l Link) Inverted() Link {
	l.Inversion = !l.Inversion
	return l
}

// EntryLink wraps a Link naming an output of a specific entry. AddCell,
// AddOutput and AddSubnet take and return plain Link/LinkList values,
// not EntryLink.
type EntryLink struct {
	Entry Link
}

// NewLink builds a Link to output port port of entry target, with no
// inversion.
func NewLink(target uint32, port uint16) Link {
	return Link{Target: target, Port: port}
}
