package store

import (
	"testing"
	"time"

	"amalgamdb/internal/column"
	"amalgamdb/internal/constraints"
	"amalgamdb/internal/format"
	"amalgamdb/internal/stringpool"

	"github.com/stretchr/testify/require"
)

func TestBuildContainerIndexesScalarFields(t *testing.T) {
	pool := stringpool.New()
	records := []format.Record{
		{"age": 10.0, "name": "alice"},
		{"age": 20.0, "name": "bob"},
	}

	container, err := BuildContainer(pool, records)
	require.NoError(t, err)
	require.Equal(t, 2, container.NumChildren())

	ageCol, ok := container.QueryCache().Column(pool.Intern("age"))
	require.True(t, ok)
	min, ok := ageCol.Min()
	require.True(t, ok)
	require.Equal(t, 10.0, min)

	nameCol, ok := container.QueryCache().Column(pool.Intern("name"))
	require.True(t, ok)
	require.Equal(t, 2, nameCol.NumUniqueStrings())
}

func TestBuildContainerHandlesNestedCodeValues(t *testing.T) {
	pool := stringpool.New()
	records := []format.Record{
		{"tags": []any{"a", "b", "c"}},
	}
	container, err := BuildContainer(pool, records)
	require.NoError(t, err)

	col, ok := container.QueryCache().Column(pool.Intern("tags"))
	require.True(t, ok)
	require.Equal(t, 1, col.CodeIndices().Size())
	_ = column.ValueCode
}

func TestBuildContainerWithBudgetRejectsOversizedInput(t *testing.T) {
	pool := stringpool.New()
	records := []format.Record{
		{"age": 10.0, "name": "alice"},
		{"age": 20.0, "name": "bob"},
	}

	budget := constraints.New(1, 0, time.Minute, false)
	_, err := BuildContainerWithBudget(pool, records, budget)
	require.Error(t, err)

	var budgetErr *constraints.ErrBudgetExceeded
	require.ErrorAs(t, err, &budgetErr)
}
