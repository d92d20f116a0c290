package query

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"amalgamdb/internal/column"
	"amalgamdb/internal/distance"
	"amalgamdb/internal/intset"
	"amalgamdb/internal/querycache"

	"github.com/RoaringBitmap/roaring/v2"
)

// FeatureVectorFunc resolves an entity index to the feature vector a
// distance-based condition needs; the executor never reaches into entity
// storage directly.
type FeatureVectorFunc func(index uint32) []distance.FeatureValue

// Executor evaluates a condition chain against one container's query
// cache.
type Executor struct {
	cache   *querycache.Cache
	rng     *rand.Rand
	vectors FeatureVectorFunc
}

// New returns an Executor over cache. rng drives Sample/WeightedSample and
// the stochastic tie-break in nearest-distance conditions; vectors
// resolves feature vectors for distance-based conditions (may be nil if
// the chain contains none).
func New(cache *querycache.Cache, rng *rand.Rand, vectors FeatureVectorFunc) *Executor {
	return &Executor{cache: cache, rng: rng, vectors: vectors}
}

func efficientToBitmap(s *intset.Efficient) *roaring.Bitmap {
	return bitmapFromSorted(s.Iter())
}

func sortedToBitmap(s *intset.Sorted) *roaring.Bitmap {
	if s == nil {
		return roaring.New()
	}
	return bitmapFromSorted(s.Iter())
}

// errTerminalNotLast is returned when a chain places an aggregate/count/
// compute condition anywhere but last - no condition kind can narrow a
// scalar result, so such a chain can never be evaluated.
var errTerminalNotLast = errors.New("query: terminal condition must be last in chain")

// isTerminal reports whether kind is a terminal condition: one that
// produces a scalar/map result instead of narrowing the working set, and
// so may only appear as the last condition in a chain.
func isTerminal(kind Kind) bool {
	switch kind {
	case KindCount, KindMax, KindMin, KindSum, KindMode, KindQuantile,
		KindGeneralizedMean, KindMinDifference, KindMaxDifference, KindValueMasses,
		KindComputeConvictions, KindComputeKLDivergences, KindComputeDistanceContributions:
		return true
	default:
		return false
	}
}

// Execute runs every condition in order, each narrowing (AND-combining)
// the result of the previous one, starting from universe (the full set of
// candidate entity indices in this container). If the final condition is
// terminal (an aggregate, count, or per-entity compute), its result is
// returned via the corresponding Result field instead of Indices; a
// terminal condition elsewhere in the chain is an error, since nothing
// downstream of it could narrow a scalar.
func (e *Executor) Execute(universe *roaring.Bitmap, conditions []Condition) (*Result, error) {
	current := universe.Clone()
	var distances map[uint32]float64

	for i, cond := range conditions {
		last := i == len(conditions)-1
		if isTerminal(cond.Kind) {
			if !last {
				return nil, errTerminalNotLast
			}
			result, err := e.Aggregate(current, cond)
			if err != nil {
				return nil, err
			}
			return &result, nil
		}
		var err error
		current, distances, err = e.applyOne(current, cond)
		if err != nil {
			return nil, err
		}
	}

	out := current.ToArray()
	return &Result{Indices: out, Distances: distances}, nil
}

func (e *Executor) applyOne(current *roaring.Bitmap, cond Condition) (*roaring.Bitmap, map[uint32]float64, error) {
	switch cond.Kind {
	case KindExists:
		col, ok := e.cache.Column(cond.Label)
		if !ok {
			return roaring.New(), nil, nil
		}
		matching := roaring.New()
		matching.Or(efficientToBitmap(col.NumberIndices()))
		matching.Or(efficientToBitmap(col.StringIndices()))
		matching.Or(efficientToBitmap(col.CodeIndices()))
		matching.Or(efficientToBitmap(col.NullIndices()))
		current.And(matching)
		return current, nil, nil

	case KindNotExists:
		col, ok := e.cache.Column(cond.Label)
		if !ok {
			return current, nil, nil
		}
		current.And(efficientToBitmap(col.NotExistIndices()))
		return current, nil, nil

	case KindEquals:
		col, ok := e.cache.Column(cond.Label)
		if !ok {
			return roaring.New(), nil, nil
		}
		current.And(valueBitmap(col, cond.Value))
		return current, nil, nil

	case KindBetween:
		col, ok := e.cache.Column(cond.Label)
		if !ok {
			return roaring.New(), nil, nil
		}
		current.And(rangeBitmap(col, cond.Low, cond.High))
		return current, nil, nil

	case KindIn:
		ids := roaring.New()
		for _, id := range cond.EntityIDs {
			ids.Add(id)
		}
		current.And(ids)
		return current, nil, nil

	case KindNotIn:
		ids := roaring.New()
		for _, id := range cond.EntityIDs {
			ids.Add(id)
		}
		current.AndNot(ids)
		return current, nil, nil

	case KindAmong:
		col, ok := e.cache.Column(cond.Label)
		if !ok {
			return roaring.New(), nil, nil
		}
		union := roaring.New()
		for _, v := range cond.Values {
			union.Or(valueBitmap(col, v))
		}
		current.And(union)
		return current, nil, nil

	case KindNotAmong:
		col, ok := e.cache.Column(cond.Label)
		if !ok {
			return current, nil, nil
		}
		union := roaring.New()
		for _, v := range cond.Values {
			union.Or(valueBitmap(col, v))
		}
		current.AndNot(union)
		return current, nil, nil

	case KindSelect:
		return e.selectSample(current, cond)

	case KindWithinDistance:
		return e.withinDistance(current, cond)

	case KindNearestDistance:
		return e.nearestDistance(current, cond)

	case KindSample:
		return e.sample(current, cond)

	case KindWeightedSample:
		return e.weightedSample(current, cond)

	case KindNotEquals:
		col, ok := e.cache.Column(cond.Label)
		if !ok {
			return current, nil, nil
		}
		current.AndNot(valueBitmap(col, cond.Value))
		return current, nil, nil

	case KindNotBetween:
		col, ok := e.cache.Column(cond.Label)
		if !ok {
			return current, nil, nil
		}
		current.AndNot(rangeBitmap(col, cond.Low, cond.High))
		return current, nil, nil

	default:
		return current, nil, nil
	}
}

// Aggregate evaluates a single terminal aggregate/compute condition
// (KindMax/Min/Sum/Mode/Quantile/GeneralizedMean/MinDifference/
// MaxDifference/ValueMasses/Count/ComputeConvictions/ComputeKLDivergences/
// ComputeDistanceContributions) against the working set current, rather
// than narrowing it. Execute calls it when the chain's last condition is
// one of these terminal kinds.
func (e *Executor) Aggregate(current *roaring.Bitmap, cond Condition) (Result, error) {
	switch cond.Kind {
	case KindCount:
		return Result{Count: int(current.GetCardinality())}, nil

	case KindMax, KindMin, KindSum, KindMode, KindQuantile, KindGeneralizedMean,
		KindMinDifference, KindMaxDifference, KindValueMasses:
		return e.numericAggregate(current, cond), nil

	case KindComputeConvictions, KindComputeKLDivergences, KindComputeDistanceContributions:
		return e.computeScalars(current, cond), nil

	default:
		idx, dist, err := e.applyOne(current, cond)
		if err != nil {
			return Result{}, err
		}
		return Result{Indices: idx.ToArray(), Distances: dist}, nil
	}
}

// workingSetValues gathers col's numeric value for every index in current
// that holds one, restricting the column's full distribution to the
// query chain's current working set (spec.md §8: aggregates operate on
// the narrowed set, not every entity in the container).
func workingSetValues(col *column.Column, current *roaring.Bitmap) []float64 {
	values := make([]float64, 0, current.GetCardinality())
	it := current.Iterator()
	for it.HasNext() {
		idx := it.Next()
		if v, ok := col.NumberValueOf(idx); ok && !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return values
}

// numericAggregate evaluates Kind{Max,Min,Sum,Mode,Quantile,
// GeneralizedMean,MinDifference,MaxDifference,ValueMasses} over col's
// values restricted to current. Aggregate queries on an empty set return
// AggregateOK=false (NaN), matching spec.md §7.
func (e *Executor) numericAggregate(current *roaring.Bitmap, cond Condition) Result {
	col, ok := e.cache.Column(cond.Label)
	if !ok {
		return Result{AggregateOK: false, Aggregate: math.NaN()}
	}
	values := workingSetValues(col, current)
	if len(values) == 0 {
		if cond.Kind == KindValueMasses {
			return Result{ValueMasses: map[float64]float64{}}
		}
		return Result{AggregateOK: false, Aggregate: math.NaN()}
	}
	sort.Float64s(values)

	switch cond.Kind {
	case KindMax:
		return Result{Aggregate: values[len(values)-1], AggregateOK: true}
	case KindMin:
		return Result{Aggregate: values[0], AggregateOK: true}
	case KindSum:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return Result{Aggregate: sum, AggregateOK: true}
	case KindMode:
		return Result{Aggregate: mode(values), AggregateOK: true}
	case KindQuantile:
		return Result{Aggregate: quantile(values, cond.Quantile), AggregateOK: true}
	case KindGeneralizedMean:
		return Result{Aggregate: distance.GeneralizedMean(cond.Aggregator, values), AggregateOK: true}
	case KindMinDifference:
		return Result{Aggregate: minDifference(values, cond.Low), AggregateOK: true}
	case KindMaxDifference:
		return Result{Aggregate: maxDifference(values, cond.Low), AggregateOK: true}
	case KindValueMasses:
		return Result{ValueMasses: valueMasses(values)}
	default:
		return Result{}
	}
}

// mode returns the most frequent value in the sorted slice values, ties
// favoring the smaller value.
func mode(values []float64) float64 {
	best, bestCount := values[0], 1
	cur, curCount := values[0], 1
	for _, v := range values[1:] {
		if v == cur {
			curCount++
		} else {
			cur, curCount = v, 1
		}
		if curCount > bestCount {
			best, bestCount = cur, curCount
		}
	}
	return best
}

// quantile returns the value at fraction q (0..1) of the sorted slice
// values using nearest-rank interpolation.
func quantile(values []float64, q float64) float64 {
	if q <= 0 {
		return values[0]
	}
	if q >= 1 {
		return values[len(values)-1]
	}
	i := int(q * float64(len(values)))
	if i >= len(values) {
		i = len(values) - 1
	}
	return values[i]
}

// minDifference and maxDifference return the smallest/largest |v - ref|
// over the sorted slice values.
func minDifference(values []float64, ref float64) float64 {
	best := math.Inf(1)
	for _, v := range values {
		if d := math.Abs(v - ref); d < best {
			best = d
		}
	}
	return best
}

func maxDifference(values []float64, ref float64) float64 {
	lo := math.Abs(values[0] - ref)
	hi := math.Abs(values[len(values)-1] - ref)
	if hi > lo {
		return hi
	}
	return lo
}

// valueMasses returns the discrete probability mass function over the
// sorted slice values: for each distinct value, the fraction of values
// equal to it.
func valueMasses(values []float64) map[float64]float64 {
	out := make(map[float64]float64)
	for _, v := range values {
		out[v]++
	}
	for v := range out {
		out[v] /= float64(len(values))
	}
	return out
}

func (e *Executor) computeScalars(current *roaring.Bitmap, cond Condition) Result {
	out := make(map[uint32]float64)
	indices := current.ToArray()
	for _, idx := range indices {
		vec := e.vectors(idx)
		neighbors := distance.KNearest[uint32](cond.K, e.rng, func(yield func(ref uint32, dist float64) bool) {
			for _, other := range indices {
				if other == idx {
					continue
				}
				d := distance.Generalized(cond.MinkowskiP, cond.FeatureParams, vec, e.vectors(other))
				if !yield(other, d) {
					return
				}
			}
		})
		out[idx] = e.scalarFor(cond, idx, neighbors)
	}
	return Result{Scalars: out}
}

func (e *Executor) scalarFor(cond Condition, idx uint32, neighbors []distance.Pair[uint32]) float64 {
	switch cond.Kind {
	case KindComputeDistanceContributions:
		return e.distanceContribution(cond, idx, neighbors)
	case KindComputeConvictions, KindComputeKLDivergences:
		p := make([]float64, len(neighbors))
		q := make([]float64, len(neighbors))
		for i, n := range neighbors {
			p[i] = distance.ToWeight(n.Distance)
			q[i] = distance.ToProbability(distance.ToSurprisal(distance.ToWeight(n.Distance)))
		}
		return distance.KullbackLeiblerDivergence(p, q)
	default:
		return 0
	}
}

// distanceContribution is the expected transformed distance to idx's
// neighbours (spec.md §4.7): zero-distance (exact duplicate) neighbours
// split their contribution by relative weight rather than each
// contributing a full zero.
func (e *Executor) distanceContribution(cond Condition, idx uint32, neighbors []distance.Pair[uint32]) float64 {
	if len(neighbors) == 0 {
		return 0
	}
	weightOf := func(ref uint32) float64 {
		if cond.EntityWeights == nil {
			return 1
		}
		if w, ok := cond.EntityWeights[ref]; ok {
			return w
		}
		return 1
	}

	var zeroWeight float64
	var zeroCount int
	contributions := make([]float64, 0, len(neighbors))
	for _, n := range neighbors {
		if n.Distance == 0 {
			zeroWeight += weightOf(n.Reference)
			zeroCount++
			continue
		}
		contributions = append(contributions, distance.ToWeight(n.Distance))
	}
	if zeroCount > 0 {
		selfWeight := weightOf(idx)
		share := distance.ToWeight(0)
		if zeroWeight+selfWeight > 0 {
			share = share * selfWeight / (zeroWeight + selfWeight)
		}
		contributions = append(contributions, share)
	}
	return distance.GeneralizedMean(cond.Aggregator, contributions)
}

// rangeBitmap evaluates a [low, high] range query; NaN-endpoint handling
// (spec.md §4.7/§8) lives in Column.IndicesInNumberRange itself.
func rangeBitmap(col *column.Column, low, high float64) *roaring.Bitmap {
	return bitmapFromSorted(col.IndicesInNumberRange(low, high))
}

func valueBitmap(col *column.Column, v column.Value) *roaring.Bitmap {
	switch v.Type {
	case column.ValueNumber:
		return sortedToBitmap(col.IndicesWithNumber(v.Number))
	case column.ValueString:
		return sortedToBitmap(col.IndicesWithString(v.String))
	default:
		return roaring.New()
	}
}

func (e *Executor) withinDistance(current *roaring.Bitmap, cond Condition) (*roaring.Bitmap, map[uint32]float64, error) {
	out := roaring.New()
	distances := make(map[uint32]float64)
	it := current.Iterator()
	for it.HasNext() {
		idx := it.Next()
		vec := e.vectors(idx)
		d := distance.Generalized(cond.MinkowskiP, cond.FeatureParams, cond.Reference, vec)
		if d <= cond.MaxDistance {
			out.Add(idx)
			distances[idx] = d
		}
	}
	return out, distances, nil
}

func (e *Executor) nearestDistance(current *roaring.Bitmap, cond Condition) (*roaring.Bitmap, map[uint32]float64, error) {
	indices := current.ToArray()
	neighbors := distance.KNearest[uint32](cond.K, e.rng, func(yield func(ref uint32, dist float64) bool) {
		for _, idx := range indices {
			vec := e.vectors(idx)
			d := distance.Generalized(cond.MinkowskiP, cond.FeatureParams, cond.Reference, vec)
			if !yield(idx, d) {
				return
			}
		}
	})
	out := roaring.New()
	distances := make(map[uint32]float64, len(neighbors))
	for _, n := range neighbors {
		out.Add(n.Reference)
		distances[n.Reference] = n.Distance
	}
	return out, distances, nil
}

func (e *Executor) sample(current *roaring.Bitmap, cond Condition) (*roaring.Bitmap, map[uint32]float64, error) {
	indices := current.ToArray()
	n := cond.SampleSize
	if n >= len(indices) {
		return current, nil, nil
	}
	e.rng.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
	out := roaring.New()
	for _, idx := range indices[:n] {
		out.Add(idx)
	}
	return out, nil, nil
}

func (e *Executor) weightedSample(current *roaring.Bitmap, cond Condition) (*roaring.Bitmap, map[uint32]float64, error) {
	indices := current.ToArray()
	if cond.SampleSize >= len(indices) {
		return current, nil, nil
	}
	weights := make([]float64, len(indices))
	var total float64
	for i, idx := range indices {
		vec := e.vectors(idx)
		d := distance.Generalized(cond.MinkowskiP, cond.FeatureParams, cond.Reference, vec)
		w := distance.ToWeight(d)
		weights[i] = w
		total += w
	}

	out := roaring.New()
	// spec.md §8: a weighted sample over zero total weight returns an
	// empty list - weightedPick/the alias table can't distribute a target
	// across zero mass, and looping for distinct picks would never
	// terminate once index 0 is exhausted.
	if total == 0 {
		return out, nil, nil
	}

	chosen := make(map[int]bool, cond.SampleSize)
	if cond.SampleSize <= 1 {
		// spec.md §4.6: k=1 uses a linear scan.
		for len(chosen) < cond.SampleSize && len(chosen) < len(indices) {
			i := weightedPick(weights, e.rng.Float64()*total)
			if chosen[i] {
				continue
			}
			chosen[i] = true
			out.Add(indices[i])
		}
		return out, nil, nil
	}

	// spec.md §4.6: k>1 uses the Vose alias method.
	table := newAliasTable(weights, total)
	for len(chosen) < cond.SampleSize && len(chosen) < len(indices) {
		i := table.draw(e.rng)
		if chosen[i] {
			continue
		}
		chosen[i] = true
		out.Add(indices[i])
	}
	return out, nil, nil
}

// weightedPick returns the index whose cumulative weight range contains
// target, a linear scan used for k=1 per spec.md §4.6.
func weightedPick(weights []float64, target float64) int {
	var cum float64
	for i, w := range weights {
		cum += w
		if target <= cum {
			return i
		}
	}
	return len(weights) - 1
}

// aliasTable is a Vose alias method table: O(n) to build, O(1) to draw
// from, used for weighted sampling with k>1 per spec.md §4.6.
type aliasTable struct {
	prob  []float64
	alias []int
}

func newAliasTable(weights []float64, total float64) *aliasTable {
	n := len(weights)
	scaled := make([]float64, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, w := range weights {
		scaled[i] = w * float64(n) / total
		if scaled[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	prob := make([]float64, n)
	alias := make([]int, n)
	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		prob[s] = scaled[s]
		alias[s] = l

		scaled[l] = scaled[l] + scaled[s] - 1
		if scaled[l] < 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	for _, l := range large {
		prob[l] = 1
	}
	for _, s := range small {
		prob[s] = 1
	}
	return &aliasTable{prob: prob, alias: alias}
}

func (a *aliasTable) draw(rng *rand.Rand) int {
	i := rng.Intn(len(a.prob))
	if rng.Float64() < a.prob[i] {
		return i
	}
	return a.alias[i]
}

// selectSample draws SampleSize entities uniformly at random without
// replacement starting at draw position Offset in an implicit partial
// Fisher-Yates shuffle over the working set, so Select(Offset=k) consumes
// exactly the k random draws a Select(Offset=0) call would already have
// burned before reaching position k, preserving determinism across a
// resumed sequence (spec.md §4.6).
func (e *Executor) selectSample(current *roaring.Bitmap, cond Condition) (*roaring.Bitmap, map[uint32]float64, error) {
	indices := current.ToArray()
	if cond.Offset >= len(indices) || cond.SampleSize <= 0 {
		return roaring.New(), nil, nil
	}
	end := cond.Offset + cond.SampleSize
	if end > len(indices) {
		end = len(indices)
	}
	for i := 0; i < end; i++ {
		j := i + e.rng.Intn(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
	}
	out := roaring.New()
	for _, idx := range indices[cond.Offset:end] {
		out.Add(idx)
	}
	return out, nil, nil
}
