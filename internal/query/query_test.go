package query

import (
	"math"
	"math/rand"
	"testing"

	"amalgamdb/internal/column"
	"amalgamdb/internal/distance"
	"amalgamdb/internal/querycache"
	"amalgamdb/internal/stringpool"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*querycache.Cache, *stringpool.Pool, stringpool.ID) {
	pool := stringpool.New()
	age := pool.Intern("age")
	cache := querycache.New(pool)
	ages := []float64{10, 20, 30, 40, 50}
	for i, v := range ages {
		cache.AddEntity(uint32(i), map[stringpool.ID]column.Value{
			age: {Type: column.ValueNumber, Number: v},
		})
	}
	return cache, pool, age
}

func universe(n int) *roaring.Bitmap {
	b := roaring.New()
	for i := 0; i < n; i++ {
		b.Add(uint32(i))
	}
	return b
}

func TestExecuteBetween(t *testing.T) {
	cache, _, age := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)
	res, err := ex.Execute(universe(5), []Condition{
		{Kind: KindBetween, Label: age, Low: 20, High: 40},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{1, 2, 3}, res.Indices)
}

func TestExecuteEquals(t *testing.T) {
	cache, _, age := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)
	res, err := ex.Execute(universe(5), []Condition{
		{Kind: KindEquals, Label: age, Value: column.Value{Type: column.ValueNumber, Number: 30}},
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{2}, res.Indices)
}

func TestExecuteAmong(t *testing.T) {
	cache, _, age := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)
	res, err := ex.Execute(universe(5), []Condition{
		{Kind: KindAmong, Label: age, Values: []column.Value{
			{Type: column.ValueNumber, Number: 10},
			{Type: column.ValueNumber, Number: 50},
		}},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{0, 4}, res.Indices)
}

func TestExecuteNotAmong(t *testing.T) {
	cache, _, age := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)
	res, err := ex.Execute(universe(5), []Condition{
		{Kind: KindNotAmong, Label: age, Values: []column.Value{
			{Type: column.ValueNumber, Number: 10},
		}},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{1, 2, 3, 4}, res.Indices)
}

// TestExecuteInEntityList covers KindIn's literal entity-ID list, distinct
// from KindAmong's per-label value matching above: here 0, 4 and 99 are
// entity indices, not ages, so the result is exactly {0, 4, 99} ∩ universe.
func TestExecuteInEntityList(t *testing.T) {
	cache, _, _ := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)
	res, err := ex.Execute(universe(5), []Condition{
		{Kind: KindIn, EntityIDs: []uint32{0, 4, 99}},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{0, 4}, res.Indices)
}

func TestExecuteNotInEntityList(t *testing.T) {
	cache, _, _ := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)
	res, err := ex.Execute(universe(5), []Condition{
		{Kind: KindNotIn, EntityIDs: []uint32{0}},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{1, 2, 3, 4}, res.Indices)
}

func TestExecuteChainedConditionsIntersect(t *testing.T) {
	cache, _, age := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)
	res, err := ex.Execute(universe(5), []Condition{
		{Kind: KindBetween, Label: age, Low: 10, High: 40},
		{Kind: KindNotAmong, Label: age, Values: []column.Value{{Type: column.ValueNumber, Number: 10}}},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{1, 2, 3}, res.Indices)
}

// TestExecuteBetweenWithNaNEndpoints covers spec.md §4.7/§8's NaN
// range-query boundary behaviors.
func TestExecuteBetweenWithNaNEndpoints(t *testing.T) {
	cache, pool, _ := setupCache(t)
	label := pool.Intern("score")
	cache.AddEntity(10, map[stringpool.ID]column.Value{
		label: {Type: column.ValueNumber, Number: 5},
	})
	cache.AddEntity(11, map[stringpool.ID]column.Value{
		label: {Type: column.ValueNumber, Number: math.NaN()},
	})
	cache.AddEntity(12, map[stringpool.ID]column.Value{
		label: {Type: column.ValueNumber, Number: 15},
	})
	ex := New(cache, rand.New(rand.NewSource(1)), nil)

	nan := math.NaN()

	res, err := ex.Execute(universe(13), []Condition{{Kind: KindBetween, Label: label, Low: nan, High: nan}})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{11}, res.Indices)

	res, err = ex.Execute(universe(13), []Condition{{Kind: KindBetween, Label: label, Low: nan, High: 10}})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{10, 11}, res.Indices)

	res, err = ex.Execute(universe(13), []Condition{{Kind: KindBetween, Label: label, Low: 10, High: nan}})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{11, 12}, res.Indices)
}

// TestExecuteWeightedSampleZeroWeightReturnsEmpty covers spec.md §8's
// zero-total-weight boundary: ToWeight(dist) = exp(-dist) underflows to
// exactly 0 once dist is large enough, so every candidate here carries a
// distance of 10000 from the reference and the sample must come back empty
// rather than spin forever in weightedPick.
func TestExecuteWeightedSampleZeroWeightReturnsEmpty(t *testing.T) {
	cache, _, _ := setupCache(t)
	vectors := vectorsFor(map[uint32]float64{0: 0, 1: 0, 2: 0, 3: 0, 4: 0})
	ex := New(cache, rand.New(rand.NewSource(1)), vectors)

	res, err := ex.Execute(universe(5), []Condition{
		{
			Kind:          KindWeightedSample,
			FeatureParams: []distance.FeatureParams{{Type: distance.FeatureContinuousNumeric, Weight: 1}},
			Reference:     []distance.FeatureValue{{Exists: true, Number: 10000}},
			MinkowskiP:    2,
			SampleSize:    3,
		},
	})
	require.NoError(t, err)
	require.Empty(t, res.Indices)
}

func TestExecuteSelectPreservesOffsetDeterminism(t *testing.T) {
	cache, _, _ := setupCache(t)

	// Result.Indices is sorted, so the full sequence's positions 2..4 are
	// recovered as the universe minus the first two draws of the same seed.
	head := New(cache, rand.New(rand.NewSource(7)), nil)
	resHead, err := head.Execute(universe(5), []Condition{{Kind: KindSelect, SampleSize: 2}})
	require.NoError(t, err)
	wantTail := universe(5)
	for _, idx := range resHead.Indices {
		wantTail.Remove(idx)
	}

	resumed := New(cache, rand.New(rand.NewSource(7)), nil)
	resTail, err := resumed.Execute(universe(5), []Condition{{Kind: KindSelect, Offset: 2, SampleSize: 3}})
	require.NoError(t, err)

	require.ElementsMatch(t, wantTail.ToArray(), resTail.Indices)
}

func vectorsFor(data map[uint32]float64) FeatureVectorFunc {
	return func(idx uint32) []distance.FeatureValue {
		return []distance.FeatureValue{{Exists: true, Number: data[idx]}}
	}
}

func TestExecuteWithinDistance(t *testing.T) {
	cache, _, _ := setupCache(t)
	vectors := vectorsFor(map[uint32]float64{0: 10, 1: 20, 2: 30, 3: 40, 4: 50})
	ex := New(cache, rand.New(rand.NewSource(1)), vectors)

	res, err := ex.Execute(universe(5), []Condition{
		{
			Kind:          KindWithinDistance,
			FeatureParams: []distance.FeatureParams{{Type: distance.FeatureContinuousNumeric, Weight: 1}},
			Reference:     []distance.FeatureValue{{Exists: true, Number: 25}},
			MinkowskiP:    2,
			MaxDistance:   10,
		},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{1, 2}, res.Indices)
}

func TestExecuteNearestDistance(t *testing.T) {
	cache, _, _ := setupCache(t)
	vectors := vectorsFor(map[uint32]float64{0: 10, 1: 20, 2: 30, 3: 40, 4: 50})
	ex := New(cache, rand.New(rand.NewSource(1)), vectors)

	res, err := ex.Execute(universe(5), []Condition{
		{
			Kind:          KindNearestDistance,
			FeatureParams: []distance.FeatureParams{{Type: distance.FeatureContinuousNumeric, Weight: 1}},
			Reference:     []distance.FeatureValue{{Exists: true, Number: 31}},
			MinkowskiP:    2,
			K:             2,
		},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{2, 3}, res.Indices)
}

func TestExecuteSampleRespectsSize(t *testing.T) {
	cache, _, _ := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(2)), nil)
	res, err := ex.Execute(universe(5), []Condition{{Kind: KindSample, SampleSize: 2}})
	require.NoError(t, err)
	require.Len(t, res.Indices, 2)
}

func TestExecuteAggregates(t *testing.T) {
	cache, _, age := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)

	res, err := ex.Execute(universe(5), []Condition{{Kind: KindMax, Label: age}})
	require.NoError(t, err)
	require.True(t, res.AggregateOK)
	require.Equal(t, 50.0, res.Aggregate)

	res, err = ex.Execute(universe(5), []Condition{{Kind: KindMin, Label: age}})
	require.NoError(t, err)
	require.Equal(t, 10.0, res.Aggregate)

	res, err = ex.Execute(universe(5), []Condition{{Kind: KindSum, Label: age}})
	require.NoError(t, err)
	require.Equal(t, 150.0, res.Aggregate)

	res, err = ex.Execute(universe(5), []Condition{{Kind: KindCount, Label: age}})
	require.NoError(t, err)
	require.Equal(t, 5, res.Count)
}

func TestExecuteAggregateOnEmptySetReturnsNaN(t *testing.T) {
	cache, _, age := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)

	res, err := ex.Execute(roaring.New(), []Condition{{Kind: KindMax, Label: age}})
	require.NoError(t, err)
	require.False(t, res.AggregateOK)
	require.True(t, res.Aggregate != res.Aggregate) // NaN
}

func TestExecuteBetweenThenMaxNarrowsFirst(t *testing.T) {
	cache, _, age := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)

	res, err := ex.Execute(universe(5), []Condition{
		{Kind: KindBetween, Label: age, Low: 10, High: 30},
		{Kind: KindMax, Label: age},
	})
	require.NoError(t, err)
	require.True(t, res.AggregateOK)
	require.Equal(t, 30.0, res.Aggregate)
}

func TestExecuteTerminalNotLastErrors(t *testing.T) {
	cache, _, age := setupCache(t)
	ex := New(cache, rand.New(rand.NewSource(1)), nil)

	_, err := ex.Execute(universe(5), []Condition{
		{Kind: KindCount, Label: age},
		{Kind: KindBetween, Label: age, Low: 10, High: 30},
	})
	require.Error(t, err)
}
