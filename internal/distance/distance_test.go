package distance

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTermDistanceNominal(t *testing.T) {
	p := FeatureParams{Type: FeatureNominal, Weight: 1}
	a := FeatureValue{Exists: true, String: "red"}
	b := FeatureValue{Exists: true, String: "red"}
	require.Equal(t, 0.0, TermDistance(p, a, b))

	b.String = "blue"
	require.Equal(t, 1.0, TermDistance(p, a, b))
}

func TestTermDistanceMissingUsesMaxDifference(t *testing.T) {
	p := FeatureParams{Type: FeatureContinuousNumeric, MaxDifference: 42}
	a := FeatureValue{Exists: true, Number: 5}
	b := FeatureValue{Exists: false}
	require.Equal(t, 42.0, TermDistance(p, a, b))
}

func TestCyclicDifferenceWraps(t *testing.T) {
	p := FeatureParams{Type: FeatureContinuousNumericCyclic, CycleLength: 24}
	a := FeatureValue{Exists: true, Number: 23}
	b := FeatureValue{Exists: true, Number: 1}
	require.InDelta(t, 2.0, TermDistance(p, a, b), 1e-9)
}

func TestNormalizedEditDistance(t *testing.T) {
	require.Equal(t, 0.0, normalizedEditDistance("abc", "abc"))
	require.InDelta(t, 1.0/3.0, normalizedEditDistance("abc", "abd"), 1e-9)
}

func TestGeneralizedMinkowskiEuclideanLike(t *testing.T) {
	params := []FeatureParams{
		{Type: FeatureContinuousNumeric, Weight: 1},
		{Type: FeatureContinuousNumeric, Weight: 1},
	}
	a := []FeatureValue{{Exists: true, Number: 0}, {Exists: true, Number: 0}}
	b := []FeatureValue{{Exists: true, Number: 3}, {Exists: true, Number: 4}}
	got := Generalized(2, params, a, b)
	require.InDelta(t, 5.0, got, 1e-9)
}

func TestGeneralizedMaxNorm(t *testing.T) {
	params := []FeatureParams{
		{Type: FeatureContinuousNumeric, Weight: 1},
		{Type: FeatureContinuousNumeric, Weight: 1},
	}
	a := []FeatureValue{{Exists: true, Number: 0}, {Exists: true, Number: 0}}
	b := []FeatureValue{{Exists: true, Number: 3}, {Exists: true, Number: 4}}
	got := Generalized(0, params, a, b)
	require.Equal(t, 4.0, got)
}

func TestGeneralizedMeanAggregators(t *testing.T) {
	vals := []float64{1, 2, 4}
	require.InDelta(t, 7.0/3.0, GeneralizedMean(AggregateArithmetic, vals), 1e-9)
	require.InDelta(t, math.Pow(1*2*4, 1.0/3.0), GeneralizedMean(AggregateGeometric, vals), 1e-9)
	require.InDelta(t, 3.0/(1.0+0.5+0.25), GeneralizedMean(AggregateHarmonic, vals), 1e-9)
}

func TestKNearestReturnsSortedClosest(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dists := map[int]float64{1: 5, 2: 1, 3: 3, 4: 2, 5: 9}
	got := KNearest[int](3, rng, func(yield func(ref int, dist float64) bool) {
		for ref, d := range dists {
			if !yield(ref, d) {
				return
			}
		}
	})
	require.Len(t, got, 3)
	require.Equal(t, 1.0, got[0].Distance)
	require.Equal(t, 2.0, got[1].Distance)
	require.Equal(t, 3.0, got[2].Distance)
}

// TestKNearestAllZeroDistanceOrdersByEntityID covers spec.md §8's "KNN with
// all distances zero" boundary behavior: ties must be broken by entity ID,
// never by the random tag used to decide eviction during the scan.
func TestKNearestAllZeroDistanceOrdersByEntityID(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	refs := []int{5, 3, 9, 1, 7}
	got := KNearest[int](len(refs), rng, func(yield func(ref int, dist float64) bool) {
		for _, ref := range refs {
			if !yield(ref, 0) {
				return
			}
		}
	})
	require.Len(t, got, len(refs))
	want := []int{1, 3, 5, 7, 9}
	for i, w := range want {
		require.Equal(t, w, got[i].Reference)
		require.Equal(t, 0.0, got[i].Distance)
	}
}

func TestKullbackLeiblerDivergenceZeroWhenEqual(t *testing.T) {
	p := []float64{0.5, 0.5}
	q := []float64{0.5, 0.5}
	require.InDelta(t, 0.0, KullbackLeiblerDivergence(p, q), 1e-12)
}

func TestKullbackLeiblerDivergenceSkipsZeroQ(t *testing.T) {
	p := []float64{0.5, 0.5}
	q := []float64{0.5, 0}
	got := KullbackLeiblerDivergence(p, q)
	require.InDelta(t, 0.0, got, 1e-12)
}

func TestPartialKLDivergenceFromIndicesMatchesFull(t *testing.T) {
	p := []float64{0.2, 0.3, 0.5}
	q := []float64{0.25, 0.25, 0.5}
	full := KullbackLeiblerDivergence(p, q)

	changed := []Pair[int]{{Reference: 0, Distance: 0.25}, {Reference: 1, Distance: 0.25}}
	partial := PartialKLDivergenceFromIndices(p, changed)
	// since index 2 agrees between p/q-at-index-2 and q, partial over the
	// two differing indices should equal the full divergence restricted
	// to those contributions
	var index2Contrib float64
	if q[2] != 0 && p[2] != 0 {
		index2Contrib = p[2] * math.Log(p[2]/q[2])
	}
	require.InDelta(t, full-index2Contrib, partial, 1e-9)
}
