package subnet

import "encoding/json"

// jsonLink is Link's on-the-wire shape (spec §8 testable property 6:
// "serializing a Subnet and deserializing it yields a Subnet equal up
// to entry indices"), grounded on the flat node-list encoding the
// teacher uses for its trie (jsonify.go), adapted here to a flat
// entry-arena encoding instead of a tree.
type jsonLink struct {
	Target    uint32 `json:"target"`
	Port      uint16 `json:"port"`
	Inversion bool   `json:"inversion,omitempty"`
}

// jsonEntry is one arena entry's on-the-wire shape. Continuation
// entries are encoded like any other entry, so indices are preserved,
// but a head entry's Links already holds its full merged fanin and the
// continuation count is not encoded, so a decoded head never reads its
// continuation entries.
type jsonEntry struct {
	Symbol   Symbol     `json:"symbol"`
	CellType uint32     `json:"cell_type,omitempty"`
	Outputs  int        `json:"outputs"`
	Links    []jsonLink `json:"links,omitempty"`
	Refcount int        `json:"refcount"`
	Depth    int        `json:"depth"`
	Weight   float64    `json:"weight,omitempty"`
}

type jsonSubnet struct {
	Entries []jsonEntry `json:"entries"`
}

// MarshalJSON encodes s as its flat entry arena.
func (s *Subnet) MarshalJSON() ([]byte, error) {
	out := jsonSubnet{Entries: make([]jsonEntry, s.Len())}
	for i := range out.Entries {
		idx := uint32(i)
		links := s.Links(idx)
		je := jsonEntry{
			Symbol:   s.Symbol(idx),
			CellType: s.CellType(idx),
			Outputs:  s.Outputs(idx),
			Refcount: s.Refcount(idx),
			Depth:    s.Depth(idx),
			Weight:   s.Weight(idx),
		}
		if len(links) > 0 {
			je.Links = make([]jsonLink, len(links))
			for j, l := range links {
				je.Links[j] = jsonLink{Target: l.Target, Port: l.Port, Inversion: l.Inversion}
			}
		}
		out.Entries[i] = je
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds s's arena verbatim from data, preserving
// every entry's original index.
func (s *Subnet) UnmarshalJSON(data []byte) error {
	var in jsonSubnet
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	arena := make([]entry, len(in.Entries))
	for i, je := range in.Entries {
		links := make(LinkList, len(je.Links))
		for j, jl := range je.Links {
			links[j] = Link{Target: jl.Target, Port: jl.Port, Inversion: jl.Inversion}
		}
		arena[i] = entry{
			Symbol:   je.Symbol,
			CellTyp:  je.CellType,
			Outputs:  uint8(je.Outputs),
			Links:    links,
			Refcount: je.Refcount,
			Depth:    je.Depth,
			Weight:   je.Weight,
			Seq:      -1,
		}
	}
	s.arena = arena
	return nil
}
