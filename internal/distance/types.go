// Package distance implements the generalized distance engine: per-feature
// distance terms combined by a Minkowski p-norm, the distance/surprisal/
// probability weight transforms, adaptive-bandwidth k-nearest-neighbor
// search, and the Kullback-Leibler divergence functions used to compute
// entity conviction, grounded on original_source/ConvictionUtil.h and
// DistanceReferencePair.h.
package distance

// Reference is any identifier a caller uses to name the "other side" of a
// distance computation - typically an entity index, but kept generic so
// the same pair types serve column-value and full-entity comparisons.
type Reference interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Pair is a (reference, distance) tuple, ported from the original's
// DistanceReferencePair<T>: the typical payload of a KNN result or a
// partial KL-divergence input.
type Pair[R Reference] struct {
	Reference R
	Distance  float64
}

// CountPair additionally carries a multiplicity, ported from the
// original's CountDistanceReferencePair<T>: used where several entities
// share the same reference/distance (e.g. duplicate-valued neighbors in a
// weighted sample).
type CountPair[R Reference] struct {
	Reference R
	Distance  float64
	Count     int
}

// FeatureType classifies how one feature's per-value distance term is
// computed, mirroring GeneralizedDistance::FeatureDifferenceType.
type FeatureType int

const (
	// FeatureNominal treats values as categorical: distance is 0 if equal,
	// 1 (scaled by Weight) otherwise.
	FeatureNominal FeatureType = iota
	// FeatureContinuousNumeric computes |a - b|, scaled by Weight and
	// optionally normalized by a typical deviation.
	FeatureContinuousNumeric
	// FeatureContinuousNumericCyclic is FeatureContinuousNumeric but wraps
	// around CycleLength, e.g. for hour-of-day or angle features.
	FeatureContinuousNumericCyclic
	// FeatureContinuousString computes a normalized edit distance between
	// two interned strings.
	FeatureContinuousString
	// FeatureContinuousCode compares two serialized code blocks by the
	// absolute difference of their lengths, standing in for a structural
	// distance; the result is not normalized and no tree edit distance is
	// computed.
	FeatureContinuousCode
)

// FeatureParams configures one feature's contribution to a generalized
// distance computation.
type FeatureParams struct {
	Type FeatureType
	// Weight scales this feature's term before it enters the Minkowski sum.
	Weight float64
	// CycleLength is the wraparound period for FeatureContinuousNumericCyclic;
	// ignored for other types.
	CycleLength float64
	// Deviation is a typical-difference normalizer: when positive, the raw
	// numeric/cyclic difference is divided by it before weighting, so
	// features on different scales contribute comparably.
	Deviation float64
	// MaxDifference is substituted for this feature's term when one side
	// is absent (not-exist/null), e.g. Column.LongestStringLength()+1 or
	// Column.LargestCodeSize()*2, matching the original's
	// GetMaxDifferenceTermFromValue.
	MaxDifference float64
}
