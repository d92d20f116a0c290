package constraints

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckStepExceedsMaxSteps(t *testing.T) {
	c := New(0, 2, 0, false)
	require.NoError(t, c.CheckStep())
	require.NoError(t, c.CheckStep())
	err := c.CheckStep()
	require.Error(t, err)
	require.IsType(t, &ErrBudgetExceeded{}, err)
}

func TestCheckStepExceedsMaxDuration(t *testing.T) {
	c := New(0, 0, time.Millisecond, false)
	time.Sleep(5 * time.Millisecond)
	err := c.CheckStep()
	require.Error(t, err)
}

func TestReserveNodesRollsBackOnFailure(t *testing.T) {
	c := New(10, 0, 0, false)
	require.NoError(t, c.ReserveNodes(5))
	err := c.ReserveNodes(10)
	require.Error(t, err)
	require.Equal(t, int64(5), c.NodesUsed())
}

func TestWarnOnlyCollectsWhenEnabled(t *testing.T) {
	c := New(0, 0, 0, false)
	c.Warn("ignored")
	require.Nil(t, c.Warnings())

	c2 := New(0, 0, 0, true)
	c2.Warn("kept")
	require.Equal(t, []string{"kept"}, c2.Warnings())
}

func TestUnboundedNeverFails(t *testing.T) {
	c := Unbounded()
	for i := 0; i < 1000; i++ {
		require.NoError(t, c.CheckStep())
	}
	require.NoError(t, c.ReserveNodes(1_000_000))
}
