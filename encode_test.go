package subnet_test

import (
	"encoding/json"
	"testing"

	"github.com/vlsicore/subnet"
)

// spec §8 testable property 6: round-tripping a Subnet through JSON
// yields an equal arena, index for index.
func TestSubnetJSONRoundTrip(t *testing.T) {
	b := subnet.NewBuilder()
	a := b.AddInput()
	c := b.AddInput()
	y := b.AddCell(subnet.SymAnd, subnet.LinkList{a, c})
	b.AddOutput(y)
	original := b.Make()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var roundTripped subnet.Subnet
	if err := json.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if roundTripped.Len() != original.Len() {
		t.Fatalf("entry count mismatch: got %d, want %d", roundTripped.Len(), original.Len())
	}
	for i := 0; i < original.Len(); i++ {
		idx := uint32(i)
		if roundTripped.Symbol(idx) != original.Symbol(idx) {
			t.Fatalf("entry %d: symbol mismatch", i)
		}
		if roundTripped.Refcount(idx) != original.Refcount(idx) {
			t.Fatalf("entry %d: refcount mismatch", i)
		}
		if roundTripped.Depth(idx) != original.Depth(idx) {
			t.Fatalf("entry %d: depth mismatch", i)
		}
		wantLinks := original.Links(idx)
		gotLinks := roundTripped.Links(idx)
		if len(gotLinks) != len(wantLinks) {
			t.Fatalf("entry %d: link count mismatch", i)
		}
		for j := range wantLinks {
			if gotLinks[j] != wantLinks[j] {
				t.Fatalf("entry %d link %d: mismatch got %+v want %+v", i, j, gotLinks[j], wantLinks[j])
			}
		}
	}
}
