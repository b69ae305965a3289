package rewrite

import (
	"fmt"
	"sync"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/internal/truth"
)

// Database is the pluggable key/value contract spec §1 and §6 reserve
// for a persistent rewrite database ("Persistent rewrite databases
// keyed by truth tables... specified only as a key/value container
// contract"; "the rewrite database maps truth tables to lists of
// Subnet IDs"). It maps a function to known small networks for it;
// neither the Resynthesizers in package resynth nor the transformers in
// this package consult it.
//
// Nothing beyond the in-memory implementation below is in scope here:
// a SQLite-backed driver is exactly the "persistent rewrite database"
// spec §1 lists among the external collaborators this repository only
// specifies an interface for.
type Database interface {
	// Lookup returns every Subnet stored under key's exact truth
	// table, or ok == false if key has never been stored.
	Lookup(key truth.Table) (nets []*subnet.Subnet, ok bool)
	// Store appends net to the list kept under key. Implementations
	// must not deduplicate or reorder existing entries — callers that
	// care about duplicates filter them, mirroring the append-only
	// shape of original_source's npndb.h.
	Store(key truth.Table, net *subnet.Subnet) error
	// Close releases any resources the implementation holds open
	// (spec §5: opened at the start of a pass, "mutated only through a
	// single connection, and closed at pass end; scoped acquisition
	// guarantees the close even on failure paths").
	Close() error
}

// NPNRecord pairs a stored replacement with the P-canonization
// transform that maps the database's canonical key back to a caller's
// actual truth table (spec §6: "The NPN database adds the
// canonization transform per stored subnet").
type NPNRecord struct {
	Subnet    *subnet.Subnet
	Transform truth.Canon
}

// NPNDatabase is Database's NPN-keyed sibling: callers look up by a
// table's P-canonical form (see internal/truth.Canonicalize) and get
// back both the stored replacement and the transform needed to
// re-express it in the caller's original pin order and polarity.
type NPNDatabase interface {
	Lookup(canonical truth.Table) (recs []NPNRecord, ok bool)
	Store(canonical truth.Table, rec NPNRecord) error
	Close() error
}

// MemDatabase is an in-memory, map-backed Database — the plain
// key/value container spec §1 asks for, with no persistence layer
// attached. Safe for concurrent use, though spec §5 only ever expects
// one pass to own it at a time.
type MemDatabase struct {
	mu    sync.RWMutex
	store map[string][]*subnet.Subnet
}

// NewMemDatabase returns an empty MemDatabase.
func NewMemDatabase() *MemDatabase {
	return &MemDatabase{store: make(map[string][]*subnet.Subnet)}
}

func (d *MemDatabase) Lookup(key truth.Table) ([]*subnet.Subnet, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	nets, ok := d.store[tableKey(key)]
	return nets, ok
}

func (d *MemDatabase) Store(key truth.Table, net *subnet.Subnet) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := tableKey(key)
	d.store[k] = append(d.store[k], net)
	return nil
}

// Close is a no-op: MemDatabase holds no external resource.
func (d *MemDatabase) Close() error { return nil }

// MemNPNDatabase is NPNDatabase's in-memory counterpart.
type MemNPNDatabase struct {
	mu    sync.RWMutex
	store map[string][]NPNRecord
}

// NewMemNPNDatabase returns an empty MemNPNDatabase.
func NewMemNPNDatabase() *MemNPNDatabase {
	return &MemNPNDatabase{store: make(map[string][]NPNRecord)}
}

func (d *MemNPNDatabase) Lookup(canonical truth.Table) ([]NPNRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	recs, ok := d.store[tableKey(canonical)]
	return recs, ok
}

func (d *MemNPNDatabase) Store(canonical truth.Table, rec NPNRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := tableKey(canonical)
	d.store[k] = append(d.store[k], rec)
	return nil
}

// Close is a no-op: MemNPNDatabase holds no external resource.
func (d *MemNPNDatabase) Close() error { return nil }

// tableKey turns a Table into a stable map key: its arity followed by
// its packed words, the same "size-prefixed TT" shape spec §6 names
// for the on-disk binary format ("size-prefixed TT, then a serialized
// Subnet list"), used here as an in-memory key instead of a file
// layout.
func tableKey(t truth.Table) string {
	return fmt.Sprintf("%d:%v", t.NumVars, t.Words)
}
