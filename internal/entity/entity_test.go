package entity

import (
	"testing"

	"amalgamdb/internal/column"
	"amalgamdb/internal/node"
	"amalgamdb/internal/stringpool"
	"github.com/stretchr/testify/require"
)

func newTestEntity() *Entity {
	pool := stringpool.New()
	mgr := node.NewManager(pool)
	root := mgr.AllocNull()
	return New(pool, root, mgr, 1)
}

func TestNewAssignsUUIDAndRoot(t *testing.T) {
	e := newTestEntity()
	require.NotEqual(t, [16]byte{}, e.ID)
	require.False(t, e.Root().IsNull())
}

func TestAddChildAssignsSequentialSlots(t *testing.T) {
	parent := newTestEntity()
	c1 := newTestEntity()
	c2 := newTestEntity()

	slot1 := parent.AddChild("a", c1)
	slot2 := parent.AddChild("b", c2)
	require.Equal(t, uint32(0), slot1)
	require.Equal(t, uint32(1), slot2)
	require.Equal(t, 2, parent.NumChildren())

	got, ok := parent.Child("a")
	require.True(t, ok)
	require.Equal(t, c1, got)
	require.Equal(t, parent, c1.Parent())
}

func TestRemoveChildReassignsLastSlot(t *testing.T) {
	parent := newTestEntity()
	c1 := newTestEntity()
	c2 := newTestEntity()
	c3 := newTestEntity()
	parent.AddChild("a", c1)
	parent.AddChild("b", c2)
	parent.AddChild("c", c3)

	removed, removedSlot, reassigned, reassignedFrom, ok := parent.RemoveChild("a")
	require.True(t, ok)
	require.Equal(t, c1, removed)
	require.Equal(t, uint32(0), removedSlot)
	require.Equal(t, c3, reassigned)
	require.Equal(t, uint32(2), reassignedFrom)
	require.Equal(t, 2, parent.NumChildren())
	require.Nil(t, removed.Parent())
}

func TestRemoveLastChildHasNoReassignment(t *testing.T) {
	parent := newTestEntity()
	c1 := newTestEntity()
	parent.AddChild("only", c1)

	removed, removedSlot, reassigned, _, ok := parent.RemoveChild("only")
	require.True(t, ok)
	require.Equal(t, c1, removed)
	require.Equal(t, uint32(0), removedSlot)
	require.Nil(t, reassigned)
}

func TestQueryCacheAccessibleForLabelIndexing(t *testing.T) {
	pool := stringpool.New()
	parent := New(pool, node.Handle{}, node.NewManager(pool), 1)
	age := pool.Intern("age")
	child := newTestEntity()
	slot := parent.AddChild("x", child)

	parent.QueryCache().AddEntity(slot, map[stringpool.ID]column.Value{
		age: {Type: column.ValueNumber, Number: 10},
	})
	col, ok := parent.QueryCache().Column(age)
	require.True(t, ok)
	require.Equal(t, 1, col.NumberIndices().Size())
}
