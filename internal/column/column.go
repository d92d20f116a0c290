// Package column implements the per-label column index: a sorted,
// random-access collection that buckets entity indices by the value they
// hold for one label, grounded on original_source/SBFDSColumnData.h.
//
// A Column tracks four disjoint value-type partitions for the label it
// indexes (number, string, code/structured, and the null/not-exist
// sentinels), plus the longest interned string and largest code block
// seen, which the distance engine uses as safe upper bounds when a feature
// is absent from one side of a comparison.
package column

import (
	"math"
	"sort"

	"amalgamdb/internal/intset"
	"amalgamdb/internal/stringpool"
)

// ValueType tags which partition an entity index belongs to for this
// column's label.
type ValueType int

const (
	// ValueNotExist marks an entity that has no value at all for this label.
	ValueNotExist ValueType = iota
	// ValueNull marks an entity whose value is explicitly null.
	ValueNull
	// ValueNumber marks an entity holding a numeric value (including NaN,
	// which is tracked separately as its own bucket).
	ValueNumber
	// ValueString marks an entity holding an interned string value.
	ValueString
	// ValueCode marks an entity holding a structured (non-scalar) value,
	// indexed only by its serialized size.
	ValueCode
)

// Value is the tagged union a caller passes in to Insert/Update/Remove.
type Value struct {
	Type   ValueType
	Number float64
	String stringpool.ID
	// CodeSize is the serialized size of a ValueCode value, used in place
	// of the value itself for indexing (structured values are not
	// otherwise comparable within a column).
	CodeSize int
}

// numberEntry buckets every index sharing one exact numeric value, kept in
// a slice sorted by Value so that range queries can binary-search it.
type numberEntry struct {
	value   float64
	indices *intset.Sorted
}

// Column is the per-label index. It owns no entity data itself; it only
// maps interned label values to the set of entity indices holding them.
type Column struct {
	pool *stringpool.Pool

	label stringpool.ID

	notExistIndices *intset.Efficient
	nullIndices     *intset.Efficient
	nanIndices      *intset.Efficient

	numberIndices *intset.Efficient
	// sortedNumbers is kept sorted by value for O(log n + k) range scans;
	// nan values never appear here, they live only in nanIndices.
	sortedNumbers []*numberEntry
	// numberByIndex is the reverse index->value map that backs NumberValueOf
	// when the column is not interned (see below); NaN values always live
	// here regardless of interning state, since they can't be deduplicated
	// through the intern table's float64 map key.
	numberByIndex map[uint32]float64

	// Value interning (spec.md §4.4/§9): once the column's distinct-value
	// count falls well under sqrt(entity count), storing a small intern
	// index per entity plus one shared value table beats one float64 per
	// entity. numberInterned selects which of numberByIndex/
	// numberInternIndexOf backs non-NaN NumberValueOf lookups; the two are
	// never populated for the same non-NaN entity at once.
	numberInterned      bool
	numberInternIndexOf map[uint32]int32
	internNumberTable   []float64
	internNumberRefs    []int32
	internNumberLookup  map[float64]int32

	stringIndices *intset.Efficient
	stringBuckets map[stringpool.ID]*intset.Sorted

	codeIndices *intset.Efficient
	codeBuckets map[int]*intset.Sorted

	indexWithLongestString uint32
	longestStringLength    int
	indexWithLargestCode   uint32
	largestCodeSize        int
}

// New returns an empty Column indexing the given interned label.
func New(pool *stringpool.Pool, label stringpool.ID) *Column {
	return &Column{
		pool:            pool,
		label:           label,
		notExistIndices: intset.NewEfficient(),
		nullIndices:     intset.NewEfficient(),
		nanIndices:      intset.NewEfficient(),
		numberIndices:   intset.NewEfficient(),
		numberByIndex:   make(map[uint32]float64),
		stringIndices:   intset.NewEfficient(),
		stringBuckets:   make(map[stringpool.ID]*intset.Sorted),
		codeIndices:     intset.NewEfficient(),
		codeBuckets:     make(map[int]*intset.Sorted),
	}
}

// Label returns the interned label string id this column indexes.
func (c *Column) Label() stringpool.ID { return c.label }

func (c *Column) numberEntryFor(v float64, create bool) *numberEntry {
	i := sort.Search(len(c.sortedNumbers), func(i int) bool {
		return c.sortedNumbers[i].value >= v
	})
	if i < len(c.sortedNumbers) && c.sortedNumbers[i].value == v {
		return c.sortedNumbers[i]
	}
	if !create {
		return nil
	}
	entry := &numberEntry{value: v, indices: intset.NewSorted()}
	c.sortedNumbers = append(c.sortedNumbers, nil)
	copy(c.sortedNumbers[i+1:], c.sortedNumbers[i:])
	c.sortedNumbers[i] = entry
	return entry
}

func (c *Column) removeNumberEntry(v float64, index uint32) {
	i := sort.Search(len(c.sortedNumbers), func(i int) bool {
		return c.sortedNumbers[i].value >= v
	})
	if i >= len(c.sortedNumbers) || c.sortedNumbers[i].value != v {
		return
	}
	c.sortedNumbers[i].indices.Erase(uint64(index))
	if c.sortedNumbers[i].indices.Size() == 0 {
		c.sortedNumbers = append(c.sortedNumbers[:i], c.sortedNumbers[i+1:]...)
	}
}

// Insert adds index as holding value for this column's label. The caller
// must not have previously inserted index without an intervening Remove.
func (c *Column) Insert(index uint32, value Value) {
	switch value.Type {
	case ValueNotExist:
		c.notExistIndices.Insert(uint64(index))
	case ValueNull:
		c.nullIndices.Insert(uint64(index))
	case ValueNumber:
		c.numberIndices.Insert(uint64(index))
		if math.IsNaN(value.Number) {
			c.numberByIndex[index] = value.Number
			c.nanIndices.Insert(uint64(index))
			return
		}
		c.setNumberValue(index, value.Number)
		c.numberEntryFor(value.Number, true).indices.Insert(uint64(index))
		c.maybeSwitchNumberInterning()
	case ValueString:
		c.stringIndices.Insert(uint64(index))
		bucket, ok := c.stringBuckets[value.String]
		if !ok {
			bucket = intset.NewSorted()
			c.stringBuckets[value.String] = bucket
		}
		bucket.Insert(uint64(index))
		c.updateLongestString(value.String, index)
	case ValueCode:
		c.codeIndices.Insert(uint64(index))
		bucket, ok := c.codeBuckets[value.CodeSize]
		if !ok {
			bucket = intset.NewSorted()
			c.codeBuckets[value.CodeSize] = bucket
		}
		bucket.Insert(uint64(index))
		c.updateLargestCode(value.CodeSize, index)
	}
}

// Remove drops index from whichever bucket it currently occupies for the
// given previous value. It is the caller's responsibility to know the
// value under which the index was last inserted.
func (c *Column) Remove(index uint32, value Value) {
	switch value.Type {
	case ValueNotExist:
		c.notExistIndices.Erase(uint64(index))
	case ValueNull:
		c.nullIndices.Erase(uint64(index))
	case ValueNumber:
		c.numberIndices.Erase(uint64(index))
		if math.IsNaN(value.Number) {
			delete(c.numberByIndex, index)
			c.nanIndices.Erase(uint64(index))
			return
		}
		c.clearNumberValue(index)
		c.removeNumberEntry(value.Number, index)
		c.maybeSwitchNumberInterning()
	case ValueString:
		c.stringIndices.Erase(uint64(index))
		if bucket, ok := c.stringBuckets[value.String]; ok {
			bucket.Erase(uint64(index))
			if bucket.Size() == 0 {
				delete(c.stringBuckets, value.String)
			}
		}
		if index == c.indexWithLongestString {
			c.recomputeLongestString()
		}
	case ValueCode:
		c.codeIndices.Erase(uint64(index))
		if bucket, ok := c.codeBuckets[value.CodeSize]; ok {
			bucket.Erase(uint64(index))
			if bucket.Size() == 0 {
				delete(c.codeBuckets, value.CodeSize)
			}
		}
		if index == c.indexWithLargestCode {
			c.recomputeLargestCode()
		}
	}
}

// ChangeValue moves index from oldValue's bucket to newValue's bucket.
func (c *Column) ChangeValue(index uint32, oldValue, newValue Value) {
	c.Remove(index, oldValue)
	c.Insert(index, newValue)
}

// numberInternOnFactor/numberInternOffFactor bracket the sqrt(n)
// value:unique crossover from spec.md §4.4/§9 with hysteresis, the same
// on/off-threshold shape intset uses for its representation switchover
// (see internal/intset), so a column sitting right at the boundary
// doesn't flip representation on every mutation.
const (
	numberInternOnFactor  = 1.0
	numberInternOffFactor = 1.5
)

// maybeSwitchNumberInterning re-evaluates the value:unique ratio after a
// non-NaN number insert/remove and flips storage representation when the
// ratio crosses the hysteresis band around sqrt(total).
func (c *Column) maybeSwitchNumberInterning() {
	total := c.Count()
	if total == 0 {
		return
	}
	threshold := math.Sqrt(float64(total))
	unique := float64(c.NumUniqueNumbers())
	switch {
	case !c.numberInterned && unique < threshold*numberInternOnFactor:
		c.enableNumberInterning()
	case c.numberInterned && unique > threshold*numberInternOffFactor:
		c.disableNumberInterning()
	}
}

// setNumberValue records v (non-NaN) for index under whichever storage
// mode is currently active.
func (c *Column) setNumberValue(index uint32, v float64) {
	if c.numberInterned {
		c.setInternedValue(index, v)
		return
	}
	c.numberByIndex[index] = v
}

// clearNumberValue removes index's non-NaN value from whichever storage
// mode is currently active.
func (c *Column) clearNumberValue(index uint32) {
	if c.numberInterned {
		c.clearInternedValue(index)
		return
	}
	delete(c.numberByIndex, index)
}

// internedNumberIndexFor returns the intern index backing v, reusing a
// freed slot (refcount 0) before growing the table, and creating one if
// create is true and none exists yet.
func (c *Column) internedNumberIndexFor(v float64, create bool) (int32, bool) {
	if idx, ok := c.internNumberLookup[v]; ok {
		return idx, true
	}
	if !create {
		return 0, false
	}
	for i, ref := range c.internNumberRefs {
		if ref == 0 {
			c.internNumberTable[i] = v
			c.internNumberLookup[v] = int32(i)
			return int32(i), true
		}
	}
	idx := int32(len(c.internNumberTable))
	c.internNumberTable = append(c.internNumberTable, v)
	c.internNumberRefs = append(c.internNumberRefs, 0)
	c.internNumberLookup[v] = idx
	return idx, true
}

func (c *Column) setInternedValue(index uint32, v float64) {
	idx, _ := c.internedNumberIndexFor(v, true)
	c.internNumberRefs[idx]++
	c.numberInternIndexOf[index] = idx
}

func (c *Column) clearInternedValue(index uint32) {
	idx, ok := c.numberInternIndexOf[index]
	if !ok {
		return
	}
	delete(c.numberInternIndexOf, index)
	c.internNumberRefs[idx]--
	if c.internNumberRefs[idx] == 0 {
		delete(c.internNumberLookup, c.internNumberTable[idx])
	}
}

// enableNumberInterning moves every currently-stored non-NaN value out of
// numberByIndex and into the intern table, preserving
// NumberValueOf(entity_index) for every caller (spec.md §4.4's "the
// switchover preserves the entity-level view").
func (c *Column) enableNumberInterning() {
	c.internNumberTable = nil
	c.internNumberRefs = nil
	c.internNumberLookup = make(map[float64]int32)
	c.numberInternIndexOf = make(map[uint32]int32, len(c.numberByIndex))

	for index, v := range c.numberByIndex {
		if math.IsNaN(v) {
			continue
		}
		c.setInternedValue(index, v)
	}
	for index := range c.numberInternIndexOf {
		delete(c.numberByIndex, index)
	}
	c.numberInterned = true
}

// disableNumberInterning reverses enableNumberInterning, moving every
// interned value back into numberByIndex and dropping the intern table.
func (c *Column) disableNumberInterning() {
	for index, idx := range c.numberInternIndexOf {
		c.numberByIndex[index] = c.internNumberTable[idx]
	}
	c.numberInterned = false
	c.numberInternIndexOf = nil
	c.internNumberTable = nil
	c.internNumberRefs = nil
	c.internNumberLookup = nil
}

func (c *Column) stringLen(sid stringpool.ID) int {
	return len(c.pool.Get(sid))
}

func (c *Column) updateLongestString(sid stringpool.ID, index uint32) {
	n := c.stringLen(sid)
	if n > c.longestStringLength {
		c.longestStringLength = n
		c.indexWithLongestString = index
	}
}

func (c *Column) recomputeLongestString() {
	c.longestStringLength = 0
	c.indexWithLongestString = 0
	for sid, bucket := range c.stringBuckets {
		if first, ok := bucket.Nth(0); ok {
			c.updateLongestString(sid, uint32(first))
		}
	}
}

func (c *Column) updateLargestCode(size int, index uint32) {
	if size > c.largestCodeSize {
		c.largestCodeSize = size
		c.indexWithLargestCode = index
	}
}

func (c *Column) recomputeLargestCode() {
	c.largestCodeSize = 0
	c.indexWithLargestCode = 0
	for size, bucket := range c.codeBuckets {
		if first, ok := bucket.Nth(0); ok {
			c.updateLargestCode(size, uint32(first))
		}
	}
}

// LongestStringLength returns the length in bytes of the longest interned
// string value currently held by this column, used by the distance engine
// as an upper-bound edit distance when one side of a comparison is absent.
func (c *Column) LongestStringLength() int { return c.longestStringLength }

// LargestCodeSize returns the largest structured-value size currently held
// by this column, used analogously to LongestStringLength for code values.
func (c *Column) LargestCodeSize() int { return c.largestCodeSize }

// NumberIndices returns the set of entity indices holding a number,
// NaN included (NaNIndices holds the NaN subset).
func (c *Column) NumberIndices() *intset.Efficient { return c.numberIndices }

// NaNIndices returns the set of entity indices whose number value is NaN.
func (c *Column) NaNIndices() *intset.Efficient { return c.nanIndices }

// StringIndices returns the set of entity indices holding a string value.
func (c *Column) StringIndices() *intset.Efficient { return c.stringIndices }

// CodeIndices returns the set of entity indices holding a structured value.
func (c *Column) CodeIndices() *intset.Efficient { return c.codeIndices }

// NullIndices returns the set of entity indices holding an explicit null.
func (c *Column) NullIndices() *intset.Efficient { return c.nullIndices }

// NotExistIndices returns the set of entity indices lacking this label.
func (c *Column) NotExistIndices() *intset.Efficient { return c.notExistIndices }

// IndicesWithString returns the set of entity indices holding exactly sid,
// or nil if no entity currently does.
func (c *Column) IndicesWithString(sid stringpool.ID) *intset.Sorted {
	return c.stringBuckets[sid]
}

// IndicesInNumberRange returns every entity index whose numeric value v
// satisfies low <= v <= high, scanning the sorted bucket list from the
// first entry >= low through the last entry <= high.
//
// A NaN endpoint is handled per spec.md §4.7/§8 rather than falling
// through sort.Search's always-false IEEE-754 NaN comparisons: it expands
// the half of the range it appears on to ±∞ and folds in the NaN bucket,
// so [NaN, NaN] returns exactly the NaN-valued entities, and [NaN, h]
// (h≠NaN) returns NaNs plus (-∞, h] (symmetrically for [lo, NaN]).
func (c *Column) IndicesInNumberRange(low, high float64) []uint64 {
	lowNaN, highNaN := math.IsNaN(low), math.IsNaN(high)
	if lowNaN && highNaN {
		return append([]uint64(nil), c.nanIndices.Iter()...)
	}
	if lowNaN {
		low = math.Inf(-1)
	}
	if highNaN {
		high = math.Inf(1)
	}

	lo := sort.Search(len(c.sortedNumbers), func(i int) bool {
		return c.sortedNumbers[i].value >= low
	})
	var out []uint64
	if lowNaN || highNaN {
		out = append(out, c.nanIndices.Iter()...)
	}
	for i := lo; i < len(c.sortedNumbers) && c.sortedNumbers[i].value <= high; i++ {
		out = append(out, c.sortedNumbers[i].indices.Iter()...)
	}
	return out
}

// IndicesWithNumber returns the set of entity indices holding exactly v
// (v must not be NaN; use NaNIndices for that), or nil if none do.
func (c *Column) IndicesWithNumber(v float64) *intset.Sorted {
	e := c.numberEntryFor(v, false)
	if e == nil {
		return nil
	}
	return e.indices
}

// NumberValueOf returns the numeric value currently indexed for index
// (including NaN), or (0, false) if index holds no number under this
// label - the direct lookup spec.md's column-index invariant
// (C.value_of(e) == e.lookup_label(L)) requires.
func (c *Column) NumberValueOf(index uint32) (float64, bool) {
	if v, ok := c.numberByIndex[index]; ok {
		return v, true
	}
	if c.numberInterned {
		if idx, ok := c.numberInternIndexOf[index]; ok {
			return c.internNumberTable[idx], true
		}
	}
	return 0, false
}

// NumUniqueNumbers returns the count of distinct non-NaN numeric values
// currently indexed, used by the distance engine's surprisal weighting.
func (c *Column) NumUniqueNumbers() int { return len(c.sortedNumbers) }

// NumUniqueStrings returns the count of distinct string values currently
// indexed.
func (c *Column) NumUniqueStrings() int { return len(c.stringBuckets) }

// Min returns the smallest non-NaN numeric value currently indexed, or
// (0, false) if the column holds no numbers.
func (c *Column) Min() (float64, bool) {
	if len(c.sortedNumbers) == 0 {
		return 0, false
	}
	return c.sortedNumbers[0].value, true
}

// Max returns the largest non-NaN numeric value currently indexed, or
// (0, false) if the column holds no numbers.
func (c *Column) Max() (float64, bool) {
	if len(c.sortedNumbers) == 0 {
		return 0, false
	}
	return c.sortedNumbers[len(c.sortedNumbers)-1].value, true
}

// Sum returns the sum of every non-NaN numeric value currently indexed,
// each counted once per entity index holding it (not once per distinct
// value).
func (c *Column) Sum() float64 {
	var sum float64
	for _, e := range c.sortedNumbers {
		sum += e.value * float64(e.indices.Size())
	}
	return sum
}

// Count returns the number of entity indices holding a non-NaN numeric
// value, the denominator GeneralizedMean and quantile queries divide by.
func (c *Column) Count() int {
	var n int
	for _, e := range c.sortedNumbers {
		n += e.indices.Size()
	}
	return n
}

// Mode returns the most frequently occurring non-NaN numeric value, or
// (0, false) if the column holds no numbers. Ties favor the smaller
// value, matching the sortedNumbers scan order.
func (c *Column) Mode() (float64, bool) {
	if len(c.sortedNumbers) == 0 {
		return 0, false
	}
	best := c.sortedNumbers[0]
	bestCount := best.indices.Size()
	for _, e := range c.sortedNumbers[1:] {
		if n := e.indices.Size(); n > bestCount {
			best, bestCount = e, n
		}
	}
	return best.value, true
}

// Quantile returns the value at fraction q (0..1) of the sorted,
// index-expanded numeric distribution, using nearest-rank interpolation.
// Returns (0, false) if the column holds no numbers.
func (c *Column) Quantile(q float64) (float64, bool) {
	total := c.Count()
	if total == 0 {
		return 0, false
	}
	if q <= 0 {
		return c.Min()
	}
	if q >= 1 {
		return c.Max()
	}
	target := int(q * float64(total))
	if target >= total {
		target = total - 1
	}
	var seen int
	for _, e := range c.sortedNumbers {
		n := e.indices.Size()
		if target < seen+n {
			return e.value, true
		}
		seen += n
	}
	return c.sortedNumbers[len(c.sortedNumbers)-1].value, true
}

// GeneralizedMean reduces every non-NaN numeric value (each counted once
// per holding entity) under agg, e.g. for an aggregate query condition
// over a label rather than over distance contributions. Returns (0,
// false) if the column holds no numbers.
func (c *Column) GeneralizedMean(agg func(values []float64) float64) (float64, bool) {
	if c.Count() == 0 {
		return 0, false
	}
	values := make([]float64, 0, c.Count())
	for _, e := range c.sortedNumbers {
		for n := e.indices.Size(); n > 0; n-- {
			values = append(values, e.value)
		}
	}
	return agg(values), true
}

// ValueMasses returns, for every distinct non-NaN numeric value, the
// fraction of all indexed entities holding it - the discrete probability
// mass function the distance engine's surprisal transform draws on.
func (c *Column) ValueMasses() map[float64]float64 {
	total := c.Count()
	out := make(map[float64]float64, len(c.sortedNumbers))
	if total == 0 {
		return out
	}
	for _, e := range c.sortedNumbers {
		out[e.value] = float64(e.indices.Size()) / float64(total)
	}
	return out
}

// MaxDifferenceFrom returns the largest |value - v| over every non-NaN
// numeric value currently indexed, the bound a range query with an
// unbounded or NaN endpoint substitutes for "infinitely far", or (0,
// false) if the column holds no numbers.
func (c *Column) MaxDifferenceFrom(v float64) (float64, bool) {
	if len(c.sortedNumbers) == 0 {
		return 0, false
	}
	lo := math.Abs(c.sortedNumbers[0].value - v)
	hi := math.Abs(c.sortedNumbers[len(c.sortedNumbers)-1].value - v)
	if hi > lo {
		return hi, true
	}
	return lo, true
}
