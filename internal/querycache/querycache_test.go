package querycache

import (
	"testing"

	"amalgamdb/internal/column"
	"amalgamdb/internal/stringpool"
	"github.com/stretchr/testify/require"
)

func TestAddEntityCreatesColumnsLazily(t *testing.T) {
	pool := stringpool.New()
	age := pool.Intern("age")
	cache := New(pool)

	_, ok := cache.Column(age)
	require.False(t, ok)

	cache.AddEntity(0, map[stringpool.ID]column.Value{
		age: {Type: column.ValueNumber, Number: 30},
	})

	col, ok := cache.Column(age)
	require.True(t, ok)
	require.Equal(t, 1, col.NumberIndices().Size())
}

func TestRemoveEntityReassignsSlot(t *testing.T) {
	pool := stringpool.New()
	age := pool.Intern("age")
	cache := New(pool)

	cache.AddEntity(0, map[stringpool.ID]column.Value{age: {Type: column.ValueNumber, Number: 10}})
	cache.AddEntity(1, map[stringpool.ID]column.Value{age: {Type: column.ValueNumber, Number: 20}})
	cache.AddEntity(2, map[stringpool.ID]column.Value{age: {Type: column.ValueNumber, Number: 30}})

	// remove slot 0, reassigning the last slot (2) into its place
	cache.RemoveEntityReassignSlot(0,
		map[stringpool.ID]column.Value{age: {Type: column.ValueNumber, Number: 10}},
		2,
		map[stringpool.ID]column.Value{age: {Type: column.ValueNumber, Number: 30}})

	col, _ := cache.Column(age)
	bucket := col.IndicesWithNumber(30)
	require.Equal(t, []uint64{0}, bucket.Iter())
	require.Nil(t, col.IndicesWithNumber(10))
}

func TestLabelChangedMovesBucket(t *testing.T) {
	pool := stringpool.New()
	status := pool.Intern("status")
	active := pool.Intern("active")
	inactive := pool.Intern("inactive")
	cache := New(pool)

	cache.AddEntity(0, map[stringpool.ID]column.Value{status: {Type: column.ValueString, String: active}})
	cache.LabelChanged(0, status,
		column.Value{Type: column.ValueString, String: active},
		column.Value{Type: column.ValueString, String: inactive})

	col, _ := cache.Column(status)
	require.Nil(t, col.IndicesWithString(active))
	require.NotNil(t, col.IndicesWithString(inactive))
}

func TestLabelsChangedBatchesUpdates(t *testing.T) {
	pool := stringpool.New()
	age := pool.Intern("age")
	status := pool.Intern("status")
	active := pool.Intern("active")
	inactive := pool.Intern("inactive")
	cache := New(pool)

	cache.AddEntity(0, map[stringpool.ID]column.Value{
		age:    {Type: column.ValueNumber, Number: 1},
		status: {Type: column.ValueString, String: active},
	})

	cache.LabelsChanged(0, map[stringpool.ID]LabelDelta{
		age:    {Old: column.Value{Type: column.ValueNumber, Number: 1}, New: column.Value{Type: column.ValueNumber, Number: 2}},
		status: {Old: column.Value{Type: column.ValueString, String: active}, New: column.Value{Type: column.ValueString, String: inactive}},
	})

	ageCol, _ := cache.Column(age)
	require.NotNil(t, ageCol.IndicesWithNumber(2))
	statusCol, _ := cache.Column(status)
	require.NotNil(t, statusCol.IndicesWithString(inactive))
}
