package distance

import "math"

// FeatureValue is one side of a single-feature comparison. Exactly one of
// the typed fields is meaningful, selected by Exists/IsNull and the
// FeatureParams.Type the value is paired with.
type FeatureValue struct {
	Exists bool
	IsNull bool
	Number float64
	String string
}

// TermDistance computes the unweighted per-feature difference term between
// a and b under params, before the Weight multiplier and before entering
// the Minkowski sum. A missing value on either side yields params.MaxDifference,
// matching GetMaxDifferenceTermFromValue's role in the original.
func TermDistance(params FeatureParams, a, b FeatureValue) float64 {
	if !a.Exists || !b.Exists || a.IsNull || b.IsNull {
		return params.MaxDifference
	}
	switch params.Type {
	case FeatureNominal:
		if a.String == b.String && a.Number == b.Number {
			return 0
		}
		return 1
	case FeatureContinuousNumeric:
		d := math.Abs(a.Number - b.Number)
		if params.Deviation > 0 {
			d /= params.Deviation
		}
		return d
	case FeatureContinuousNumericCyclic:
		d := cyclicDifference(a.Number, b.Number, params.CycleLength)
		if params.Deviation > 0 {
			d /= params.Deviation
		}
		return d
	case FeatureContinuousString:
		return normalizedEditDistance(a.String, b.String)
	case FeatureContinuousCode:
		return math.Abs(float64(len(a.String) - len(b.String)))
	default:
		return 0
	}
}

// cyclicDifference returns the shorter arc between a and b on a cycle of
// the given length (e.g. hour-of-day wraps at 24).
func cyclicDifference(a, b, cycleLength float64) float64 {
	if cycleLength <= 0 {
		return math.Abs(a - b)
	}
	d := math.Mod(math.Abs(a-b), cycleLength)
	if d > cycleLength/2 {
		d = cycleLength - d
	}
	return d
}

// normalizedEditDistance returns the Levenshtein distance between s and t,
// normalized to [0,1] by the longer string's length.
func normalizedEditDistance(s, t string) float64 {
	sr, tr := []rune(s), []rune(t)
	if len(sr) == 0 && len(tr) == 0 {
		return 0
	}
	prev := make([]int, len(tr)+1)
	cur := make([]int, len(tr)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(sr); i++ {
		cur[0] = i
		for j := 1; j <= len(tr); j++ {
			cost := 1
			if sr[i-1] == tr[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	raw := float64(prev[len(tr)])
	maxLen := float64(len(sr))
	if len(tr) > len(sr) {
		maxLen = float64(len(tr))
	}
	if maxLen == 0 {
		return 0
	}
	return raw / maxLen
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// Generalized computes the Minkowski p-distance across features, the core
// combination rule: dist = (sum_i weight_i * term_i^p) ^ (1/p). p == 0 is
// treated as the limiting max-norm (Chebyshev) case; p == math.Inf(1) is
// rejected by the caller, not handled here.
func Generalized(p float64, featureParams []FeatureParams, a, b []FeatureValue) float64 {
	if p == 0 {
		var maxTerm float64
		for i, fp := range featureParams {
			term := fp.Weight * TermDistance(fp, a[i], b[i])
			if term > maxTerm {
				maxTerm = term
			}
		}
		return maxTerm
	}
	var sum float64
	for i, fp := range featureParams {
		term := TermDistance(fp, a[i], b[i])
		sum += fp.Weight * math.Pow(term, p)
	}
	if sum <= 0 {
		return 0
	}
	return math.Pow(sum, 1/p)
}
