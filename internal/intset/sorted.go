// Package intset implements the three interchangeable integer-set
// representations used throughout the column index and distance engine:
// a Sorted vector, a dense BitArray, and an Efficient hybrid that switches
// between the two by a density heuristic, exactly as specified in
// original_source/IntegerSet.h's SortedIntegerSet / BitArrayIntegerSet /
// EfficientIntegerSet.
package intset

import (
	"math/rand"
	"sort"
)

// Sorted is a strictly increasing vector of uint64 keys. Lookups use
// binary search; batch insertion of already-sorted input is O(n).
type Sorted struct {
	data []uint64
}

// NewSorted returns an empty Sorted set.
func NewSorted() *Sorted { return &Sorted{} }

func (s *Sorted) search(v uint64) (idx int, found bool) {
	idx = sort.Search(len(s.data), func(i int) bool { return s.data[i] >= v })
	found = idx < len(s.data) && s.data[idx] == v
	return
}

// Insert adds v, keeping the vector sorted. No-op if already present.
func (s *Sorted) Insert(v uint64) {
	idx, found := s.search(v)
	if found {
		return
	}
	s.data = append(s.data, 0)
	copy(s.data[idx+1:], s.data[idx:])
	s.data[idx] = v
}

// InsertSortedBatch appends already-sorted, distinct values greater than
// every existing element in O(n) via a plain append, matching the
// original's "batch insertion of sorted inputs" fast path.
func (s *Sorted) InsertSortedBatch(sortedValues []uint64) {
	s.data = append(s.data, sortedValues...)
}

// Erase removes v if present.
func (s *Sorted) Erase(v uint64) {
	idx, found := s.search(v)
	if !found {
		return
	}
	s.data = append(s.data[:idx], s.data[idx+1:]...)
}

// Contains reports whether v is a member.
func (s *Sorted) Contains(v uint64) bool {
	_, found := s.search(v)
	return found
}

// Size returns the cardinality.
func (s *Sorted) Size() int { return len(s.data) }

// Iter returns the elements in ascending order. The caller must not mutate
// the returned slice.
func (s *Sorted) Iter() []uint64 { return s.data }

// Nth returns the k-th smallest element (0-indexed) and true, or (0, false)
// if k is out of range.
func (s *Sorted) Nth(k int) (uint64, bool) {
	if k < 0 || k >= len(s.data) {
		return 0, false
	}
	return s.data[k], true
}

// RandomElement returns a uniformly random member using rng, or (0, false)
// if the set is empty.
func (s *Sorted) RandomElement(rng *rand.Rand) (uint64, bool) {
	if len(s.data) == 0 {
		return 0, false
	}
	return s.data[rng.Intn(len(s.data))], true
}

// MaxElement returns the largest element, or (0, false) if empty.
func (s *Sorted) MaxElement() (uint64, bool) {
	if len(s.data) == 0 {
		return 0, false
	}
	return s.data[len(s.data)-1], true
}

// Union returns a new Sorted containing the union of s and o.
func (s *Sorted) Union(o *Sorted) *Sorted {
	out := &Sorted{data: make([]uint64, 0, len(s.data)+len(o.data))}
	i, j := 0, 0
	for i < len(s.data) && j < len(o.data) {
		switch {
		case s.data[i] < o.data[j]:
			out.data = append(out.data, s.data[i])
			i++
		case s.data[i] > o.data[j]:
			out.data = append(out.data, o.data[j])
			j++
		default:
			out.data = append(out.data, s.data[i])
			i++
			j++
		}
	}
	out.data = append(out.data, s.data[i:]...)
	out.data = append(out.data, o.data[j:]...)
	return out
}

// Intersect returns a new Sorted containing the intersection of s and o.
func (s *Sorted) Intersect(o *Sorted) *Sorted {
	out := &Sorted{}
	i, j := 0, 0
	for i < len(s.data) && j < len(o.data) {
		switch {
		case s.data[i] < o.data[j]:
			i++
		case s.data[i] > o.data[j]:
			j++
		default:
			out.data = append(out.data, s.data[i])
			i++
			j++
		}
	}
	return out
}

// ComplementUpTo returns the elements of [0, n) not present in s.
func (s *Sorted) ComplementUpTo(n uint64) *Sorted {
	out := &Sorted{}
	i := 0
	for v := uint64(0); v < n; v++ {
		if i < len(s.data) && s.data[i] == v {
			i++
			continue
		}
		out.data = append(out.data, v)
	}
	return out
}

// Clone returns an independent copy.
func (s *Sorted) Clone() *Sorted {
	out := &Sorted{data: make([]uint64, len(s.data))}
	copy(out.data, s.data)
	return out
}
