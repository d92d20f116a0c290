package distance

import (
	"container/heap"
	"math/rand"
	"sort"
)

// candidate is one entry in the bounded max-heap KNearest maintains while
// scanning candidates: the heap root is always the worst (farthest, or on
// an exact tie the one the coin flip ranked worse) of the k best seen so
// far, so a new candidate only needs one comparison against the root to
// decide whether it displaces anything.
type candidate[R Reference] struct {
	ref      R
	dist     float64
	tiebreak float64
}

type maxHeap[R Reference] []candidate[R]

func (h maxHeap[R]) Len() int { return len(h) }
func (h maxHeap[R]) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist > h[j].dist
	}
	return h[i].tiebreak > h[j].tiebreak
}
func (h maxHeap[R]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *maxHeap[R]) Push(x any)   { *h = append(*h, x.(candidate[R])) }
func (h *maxHeap[R]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KNearest scans candidates (ref, distance) pairs and returns the k with
// the smallest distance, sorted ascending with ties broken by Reference
// (spec.md §8: "KNN with all distances zero: each result retains its
// entity weight, order by entity ID"). The random tiebreak field is used
// only during the scan, to decide which of two exactly-tied candidates
// the bounded heap evicts - without it, survival among ties would depend
// on arrival order instead of being uniform. That random tag never
// reaches the final ordering: once scanning ends, results are re-sorted
// by (distance, Reference).
func KNearest[R Reference](k int, rng *rand.Rand, candidates func(yield func(ref R, dist float64) bool)) []Pair[R] {
	if k <= 0 {
		return nil
	}
	h := make(maxHeap[R], 0, k)
	candidates(func(ref R, dist float64) bool {
		c := candidate[R]{ref: ref, dist: dist, tiebreak: rng.Float64()}
		if h.Len() < k {
			heap.Push(&h, c)
		} else if h.Less2(c) {
			heap.Pop(&h)
			heap.Push(&h, c)
		}
		return true
	})

	out := make([]Pair[R], h.Len())
	for i := range out {
		c := h[i]
		out[i] = Pair[R]{Reference: c.ref, Distance: c.dist}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Reference < out[j].Reference
	})
	return out
}

// Less2 reports whether c would displace the current worst (root) element,
// i.e. whether c is strictly better than h's current root.
func (h maxHeap[R]) Less2(c candidate[R]) bool {
	root := h[0]
	if c.dist != root.dist {
		return c.dist < root.dist
	}
	return c.tiebreak < root.tiebreak
}
