package column

import (
	"math"
	"testing"

	"amalgamdb/internal/stringpool"
	"github.com/stretchr/testify/require"
)

func TestInsertAndLookupByNumber(t *testing.T) {
	pool := stringpool.New()
	label := pool.Intern("age")
	c := New(pool, label)

	c.Insert(1, Value{Type: ValueNumber, Number: 42})
	c.Insert(2, Value{Type: ValueNumber, Number: 42})
	c.Insert(3, Value{Type: ValueNumber, Number: 10})

	bucket := c.IndicesWithNumber(42)
	require.NotNil(t, bucket)
	require.Equal(t, []uint64{1, 2}, bucket.Iter())
	require.Equal(t, 2, c.NumUniqueNumbers())
}

func TestNaNTrackedSeparately(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("x"))

	c.Insert(1, Value{Type: ValueNumber, Number: math.NaN()})
	require.Equal(t, 1, c.NaNIndices().Size())
	require.Nil(t, c.IndicesWithNumber(1))
}

func TestIndicesInNumberRange(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("score"))
	for i, v := range []float64{1, 5, 10, 15, 20} {
		c.Insert(uint32(i), Value{Type: ValueNumber, Number: v})
	}
	got := c.IndicesInNumberRange(5, 15)
	require.ElementsMatch(t, []uint64{1, 2, 3}, got)
}

func TestIndicesInNumberRangeWithNaNEndpoints(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("score"))
	for i, v := range []float64{1, 5, 10, 15, 20} {
		c.Insert(uint32(i), Value{Type: ValueNumber, Number: v})
	}
	c.Insert(99, Value{Type: ValueNumber, Number: math.NaN()})

	nan := math.NaN()

	// [NaN, NaN]: exactly the NaN-valued entities.
	require.ElementsMatch(t, []uint64{99}, c.IndicesInNumberRange(nan, nan))

	// [NaN, 10]: NaNs plus (-∞, 10].
	require.ElementsMatch(t, []uint64{0, 1, 2, 99}, c.IndicesInNumberRange(nan, 10))

	// [10, NaN]: NaNs plus [10, +∞).
	require.ElementsMatch(t, []uint64{2, 3, 4, 99}, c.IndicesInNumberRange(10, nan))
}

func TestNumberInterningSwitchoverPreservesValues(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("flag"))

	// Heavy repetition of two distinct values over many entities pushes
	// unique (2) well under sqrt(total), triggering the interned mode.
	for i := uint32(0); i < 40; i++ {
		v := 0.0
		if i%2 == 0 {
			v = 1.0
		}
		c.Insert(i, Value{Type: ValueNumber, Number: v})
	}
	require.True(t, c.numberInterned)

	for i := uint32(0); i < 40; i++ {
		want := 0.0
		if i%2 == 0 {
			want = 1.0
		}
		got, ok := c.NumberValueOf(i)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	require.Equal(t, 20.0, c.Sum())
	require.Equal(t, 40, c.Count())

	// Removing entities until distinct values approach the entity count
	// again should switch interning back off.
	for i := uint32(2); i < 40; i += 2 {
		c.Remove(i, Value{Type: ValueNumber, Number: 1})
		c.Insert(i, Value{Type: ValueNumber, Number: float64(i)})
	}
	require.False(t, c.numberInterned)
	got, ok := c.NumberValueOf(0)
	require.True(t, ok)
	require.Equal(t, 1.0, got)
}

func TestLongestStringTrackedAndRecomputedOnRemove(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("name"))
	short := pool.Intern("hi")
	long := pool.Intern("a much longer string value")

	c.Insert(1, Value{Type: ValueString, String: short})
	c.Insert(2, Value{Type: ValueString, String: long})
	require.Equal(t, len(pool.Get(long)), c.LongestStringLength())

	c.Remove(2, Value{Type: ValueString, String: long})
	require.Equal(t, len(pool.Get(short)), c.LongestStringLength())
}

func TestChangeValueMovesBuckets(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("status"))
	active := pool.Intern("active")
	inactive := pool.Intern("inactive")

	c.Insert(1, Value{Type: ValueString, String: active})
	c.ChangeValue(1, Value{Type: ValueString, String: active}, Value{Type: ValueString, String: inactive})

	require.Nil(t, c.IndicesWithString(active))
	require.NotNil(t, c.IndicesWithString(inactive))
}

func TestCodeBucketsTrackLargestSize(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("payload"))
	c.Insert(1, Value{Type: ValueCode, CodeSize: 4})
	c.Insert(2, Value{Type: ValueCode, CodeSize: 9})
	require.Equal(t, 9, c.LargestCodeSize())

	c.Remove(2, Value{Type: ValueCode, CodeSize: 9})
	require.Equal(t, 4, c.LargestCodeSize())
}

func TestNotExistAndNullBuckets(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("optional"))
	c.Insert(1, Value{Type: ValueNotExist})
	c.Insert(2, Value{Type: ValueNull})
	require.Equal(t, 1, c.NotExistIndices().Size())
	require.Equal(t, 1, c.NullIndices().Size())
}

func TestMinMaxSumQuantile(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("score"))
	for i, v := range []float64{10, 20, 30, 40, 50} {
		c.Insert(uint32(i), Value{Type: ValueNumber, Number: v})
	}

	min, ok := c.Min()
	require.True(t, ok)
	require.Equal(t, 10.0, min)

	max, ok := c.Max()
	require.True(t, ok)
	require.Equal(t, 50.0, max)

	require.Equal(t, 150.0, c.Sum())
	require.Equal(t, 5, c.Count())

	q, ok := c.Quantile(0.5)
	require.True(t, ok)
	require.Equal(t, 30.0, q)
}

func TestModeFavorsMostFrequent(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("grade"))
	c.Insert(1, Value{Type: ValueNumber, Number: 5})
	c.Insert(2, Value{Type: ValueNumber, Number: 7})
	c.Insert(3, Value{Type: ValueNumber, Number: 7})

	mode, ok := c.Mode()
	require.True(t, ok)
	require.Equal(t, 7.0, mode)
}

func TestNumberValueOfReflectsCurrentIndexing(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("age"))
	c.Insert(1, Value{Type: ValueNumber, Number: 42})

	v, ok := c.NumberValueOf(1)
	require.True(t, ok)
	require.Equal(t, 42.0, v)

	c.Remove(1, Value{Type: ValueNumber, Number: 42})
	_, ok = c.NumberValueOf(1)
	require.False(t, ok)
}

func TestMaxDifferenceFrom(t *testing.T) {
	pool := stringpool.New()
	c := New(pool, pool.Intern("x"))
	for i, v := range []float64{1, 5, 10} {
		c.Insert(uint32(i), Value{Type: ValueNumber, Number: v})
	}
	d, ok := c.MaxDifferenceFrom(5)
	require.True(t, ok)
	require.Equal(t, 5.0, d) // |10-5| > |1-5|
}
