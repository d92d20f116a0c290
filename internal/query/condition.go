// Package query implements the entity query executor: a chain of
// QueryConditions evaluated against a querycache.Cache's column indexes,
// falling back to a brute-force per-entity scan whenever a condition has
// no cache-accelerated path, grounded on
// original_source/src/Amalgam/entity/EntityQueryManager.h.
package query

import (
	"amalgamdb/internal/column"
	"amalgamdb/internal/distance"
	"amalgamdb/internal/stringpool"

	"github.com/RoaringBitmap/roaring/v2"
)

// Kind tags the operation a Condition performs.
type Kind int

const (
	// KindExists matches entities holding any value under Label.
	KindExists Kind = iota
	// KindNotExists matches entities with no value under Label.
	KindNotExists
	// KindEquals matches entities whose Label value equals Value.
	KindEquals
	// KindBetween matches entities whose numeric Label value lies in
	// [Low, High].
	KindBetween
	// KindIn intersects the working set with a literal entity-ID list
	// (EntityIDs), not a value comparison - grounded on
	// original_source/src/Amalgam/entity/EntityQueries.cpp's
	// ENT_QUERY_IN_ENTITY_LIST, which resolves IDs directly via
	// GetContainedEntityIndex rather than going through the value cache.
	KindIn
	// KindNotIn subtracts EntityIDs from the working set (ENT_QUERY_NOT_
	// IN_ENTITY_LIST).
	KindNotIn
	// KindAmong matches entities whose Label value is one of Values - a
	// per-label value-set membership test (ENT_QUERY_AMONG), resolved via
	// the column cache's GetMatchingEntities path, distinct from KindIn's
	// literal entity-ID list.
	KindAmong
	// KindNotAmong matches entities whose Label value is none of Values
	// (ENT_QUERY_NOT_AMONG).
	KindNotAmong
	// KindSelect draws SampleSize entities uniformly at random without
	// replacement, resuming a sequence from Offset: it burns Offset random
	// draws before selecting, so re-running Select at a later Offset against
	// the same rng seed and working set reproduces the tail of the single
	// unbroken draw sequence a non-resumed Select would have produced
	// (spec.md §4.6).
	KindSelect
	// KindWithinDistance matches entities within MaxDistance of Reference
	// under FeatureParams.
	KindWithinDistance
	// KindNearestDistance keeps only the K entities nearest to Reference.
	KindNearestDistance
	// KindSample draws SampleSize entities uniformly at random without
	// replacement from the current result set.
	KindSample
	// KindWeightedSample draws SampleSize distinct entities (without
	// replacement), weighted by distance.ToWeight(distance-to-Reference).
	KindWeightedSample
	// KindNotEquals removes entities whose Label value equals Value;
	// entities lacking the label at all stay in the working set.
	KindNotEquals
	// KindNotBetween matches entities whose numeric Label value lies
	// outside [Low, High].
	KindNotBetween

	// KindMax, KindMin, KindSum, KindMode, KindQuantile, and
	// KindGeneralizedMean are terminal numeric aggregates over Label
	// across the current working set; Execute returns them via
	// Result.Aggregate instead of narrowing Result.Indices.
	KindMax
	KindMin
	KindSum
	KindMode
	// KindQuantile aggregates at fraction Quantile (0..1).
	KindQuantile
	// KindGeneralizedMean aggregates with Aggregator.
	KindGeneralizedMean
	// KindMinDifference and KindMaxDifference return the smallest/largest
	// |value - Low| over Label across the working set.
	KindMinDifference
	KindMaxDifference
	// KindValueMasses returns the discrete probability mass function of
	// Label's numeric values across the working set via
	// Result.ValueMasses.
	KindValueMasses
	// KindCount is a terminal condition returning the working set's
	// cardinality via Result.Count.
	KindCount

	// KindComputeConvictions, KindComputeKLDivergences, and
	// KindComputeDistanceContributions each compute one scalar per
	// surviving entity from its K nearest neighbours under Reference/
	// FeatureParams/MinkowskiP, returned via Result.Scalars. These always
	// require the query cache path (spec.md §4.6): the per-entity
	// comparison distribution only exists once column indices have been
	// built.
	KindComputeConvictions
	KindComputeKLDivergences
	KindComputeDistanceContributions
)

// Condition is one link in a query chain. Only the fields relevant to Kind
// are read by the executor.
type Condition struct {
	Kind  Kind
	Label stringpool.ID

	Value  column.Value
	Values []column.Value

	// EntityIDs is the literal entity-index list KindIn/KindNotIn
	// intersect/subtract, distinct from Values' per-label value matching.
	EntityIDs []uint32

	Low, High float64

	// Offset is the number of random draws KindSelect burns before
	// selecting, letting a caller resume a deterministic random-sample
	// sequence from where an earlier call left off.
	Offset int

	Reference     []distance.FeatureValue
	FeatureParams []distance.FeatureParams
	MinkowskiP    float64
	MaxDistance   float64
	K             int

	SampleSize int

	// Quantile is the fraction (0..1) KindQuantile aggregates at.
	Quantile float64
	// Aggregator selects the generalized-mean rule for KindGeneralizedMean
	// and for the per-entity contribution reduction in
	// KindComputeDistanceContributions.
	Aggregator distance.Aggregator
	// EntityWeights, when non-nil, supplies the per-entity weight
	// KindComputeDistanceContributions divides a zero-distance
	// contribution among exact duplicates by (spec.md §4.7); entities
	// absent from the map default to weight 1.
	EntityWeights map[uint32]float64
}

// Result is what Execute returns. Indices/Distances hold the surviving
// entity set for narrowing conditions; the remaining fields are populated
// only by the terminal/aggregate condition kind that produced them.
type Result struct {
	Indices   []uint32
	Distances map[uint32]float64

	// Aggregate and AggregateOK hold the scalar result of Kind{Max,Min,
	// Sum,Mode,Quantile,GeneralizedMean,MinDifference,MaxDifference};
	// AggregateOK is false (and Aggregate is NaN, per spec.md §7) when the
	// working set holds no numeric value for Label.
	Aggregate   float64
	AggregateOK bool

	// Count holds KindCount's result.
	Count int

	// ValueMasses holds KindValueMasses's result.
	ValueMasses map[float64]float64

	// Scalars holds one value per surviving entity for
	// KindComputeConvictions/KindComputeKLDivergences/
	// KindComputeDistanceContributions.
	Scalars map[uint32]float64
}

func bitmapFromSorted(idx []uint64) *roaring.Bitmap {
	b := roaring.New()
	for _, v := range idx {
		b.Add(uint32(v))
	}
	return b
}
