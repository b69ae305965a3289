package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/internal/truth"
)

func and2Net(t *testing.T) *subnet.Subnet {
	t.Helper()
	b := subnet.NewBuilder()
	a := b.AddInput()
	c := b.AddInput()
	b.AddOutput(b.AddCell(subnet.SymAnd, subnet.LinkList{a, c}))
	return b.Make()
}

func and2Table() truth.Table {
	a := truth.Var(2, 0)
	c := truth.Var(2, 1)
	return a.And(c)
}

func TestMemDatabaseStoreLookup(t *testing.T) {
	db := NewMemDatabase()
	key := and2Table()
	net := and2Net(t)

	_, ok := db.Lookup(key)
	require.False(t, ok, "a fresh database must not already know this key")

	require.NoError(t, db.Store(key, net))

	got, ok := db.Lookup(key)
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Same(t, net, got[0])

	other := and2Net(t)
	require.NoError(t, db.Store(key, other))
	got, ok = db.Lookup(key)
	require.True(t, ok)
	require.Len(t, got, 2, "storing a second net under the same key must append, not overwrite")

	require.NoError(t, db.Close())
}

func TestMemDatabaseLookupMissingKey(t *testing.T) {
	db := NewMemDatabase()
	_, ok := db.Lookup(truth.Constant(2, false))
	require.False(t, ok)
}

func TestMemNPNDatabaseStoreLookup(t *testing.T) {
	db := NewMemNPNDatabase()
	canon := truth.Canonicalize(and2Table())
	rec := NPNRecord{Subnet: and2Net(t), Transform: canon}

	_, ok := db.Lookup(canon.Table)
	require.False(t, ok)

	require.NoError(t, db.Store(canon.Table, rec))

	got, ok := db.Lookup(canon.Table)
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Same(t, rec.Subnet, got[0].Subnet)
	require.Equal(t, canon.Perm, got[0].Transform.Perm)
	require.Equal(t, canon.InputNeg, got[0].Transform.InputNeg)
	require.Equal(t, canon.OutputNeg, got[0].Transform.OutputNeg)

	require.NoError(t, db.Close())
}
