package distance

import "math"

// KullbackLeiblerDivergence computes KL(p||q) = sum(p_i * ln(p_i / q_i))
// over aligned slices, ported from ConvictionUtil.h's
// KullbackLeiblerDivergence. A q_i of exactly zero or NaN contributes
// nothing (treated as "no information at that index" rather than an
// error), and a p_i of exactly zero contributes nothing regardless of q_i.
func KullbackLeiblerDivergence(p, q []float64) float64 {
	var sum float64
	for i := range p {
		qi := q[i]
		if qi == 0 || math.IsNaN(qi) {
			continue
		}
		if p[i] != 0 {
			sum += p[i] * math.Log(p[i]/qi)
		}
	}
	return sum
}

// PartialKLDivergenceFromIndices computes KL divergence between the full
// distribution p and a sparse set of changed (index, q-value) pairs,
// equivalent to calling KullbackLeiblerDivergence(p, q) where q agrees
// with p at every index not present in changed. Ported from
// ConvictionUtil.h's PartialKullbackLeiblerDivergenceFromIndices(p, q).
func PartialKLDivergenceFromIndices[R Reference](p []float64, changed []Pair[R]) float64 {
	var sum float64
	for _, c := range changed {
		qi := c.Distance
		pi := p[c.Reference]
		if qi == 0 || math.IsNaN(qi) {
			continue
		}
		if pi != 0 {
			sum += pi * math.Log(pi/qi)
		}
	}
	return sum
}

// PartialKLDivergenceFromIndicesReversed computes KL divergence where the
// sparse side is p rather than q, ported from ConvictionUtil.h's other
// overload of PartialKullbackLeiblerDivergenceFromIndices(p, q) with the
// DistanceReferencePair parameter on the p side instead of q.
func PartialKLDivergenceFromIndicesReversed[R Reference](changed []Pair[R], q []float64) float64 {
	var sum float64
	for _, c := range changed {
		pi := c.Distance
		qi := q[c.Reference]
		if qi == 0 || math.IsNaN(qi) {
			continue
		}
		if pi != 0 {
			sum += pi * math.Log(pi/qi)
		}
	}
	return sum
}
