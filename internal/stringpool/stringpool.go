// Package stringpool implements the process-wide string intern pool: a
// bidirectional string<->ID mapping used by every node, label, and query in
// amalgamdb so that string comparison and storage anywhere else in the
// system is a cheap integer comparison instead of a byte comparison.
//
// IDs below NumStaticStrings are permanent: they are never refcounted and
// release/intern on them is a no-op past the initial registration. ID 0 is
// reserved as NotAStringID (the "this isn't a string" sentinel used for
// things like NaN keys); ID 1 is EmptyStringID.
//
// The common path - incrementing or decrementing a refcount on a string
// that is already interned - takes only a read lock, using atomic
// increment/decrement on the refcount field. Removing an entry (refcount
// reaching zero) requires a write lock; see Release for the upgrade dance
// that makes that transition race-free.
package stringpool

import (
	"bufio"
	"container/heap"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// ID is a small integer identifying an interned string.
type ID uint32

// NotAStringID marks the absence of a string (e.g. a NaN-keyed slot).
const NotAStringID ID = 0

// EmptyStringID is the permanent ID of the empty string.
const EmptyStringID ID = 1

type entry struct {
	value    string
	refCount int64 // signed so concurrent decrements below zero are detectable as defects
}

// idHeap is a min-heap of reusable IDs, keeping the live ID space compact.
type idHeap []ID

func (h idHeap) Len() int            { return len(h) }
func (h idHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x interface{}) { *h = append(*h, x.(ID)) }
func (h *idHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Pool is a concurrent, reference-counted string<->ID interning table.
type Pool struct {
	mu sync.RWMutex

	stringToID map[string]ID
	entries    []entry
	freeIDs    idHeap

	numStatic ID
}

// New creates a pool whose lowest IDs are permanently bound to staticStrings,
// in order, starting after the implicit NotAStringID and EmptyStringID.
// Static IDs are excluded from refcounting entirely.
func New(staticStrings ...string) *Pool {
	p := &Pool{
		stringToID: make(map[string]ID, len(staticStrings)+2),
		entries:    make([]entry, 0, len(staticStrings)+2),
	}
	p.emplaceStatic("") // NotAStringID: no real string occupies this slot's map entry
	p.emplaceStaticNamed(EmptyStringID, "")
	for _, s := range staticStrings {
		p.internStatic(s)
	}
	p.numStatic = ID(len(p.entries))
	return p
}

func (p *Pool) emplaceStatic(s string) {
	p.entries = append(p.entries, entry{value: s, refCount: 0})
}

func (p *Pool) emplaceStaticNamed(id ID, s string) {
	for ID(len(p.entries)) <= id {
		p.entries = append(p.entries, entry{})
	}
	p.entries[id] = entry{value: s, refCount: 0}
	p.stringToID[s] = id
}

func (p *Pool) internStatic(s string) ID {
	id := ID(len(p.entries))
	p.entries = append(p.entries, entry{value: s, refCount: 0})
	p.stringToID[s] = id
	return id
}

// IsStatic reports whether id is below the permanent-string threshold.
func (p *Pool) IsStatic(id ID) bool {
	return id < p.numStatic
}

// NumStaticStrings returns the count of permanent, never-refcounted IDs.
func (p *Pool) NumStaticStrings() int {
	return int(p.numStatic)
}

// Get returns the string for id. Undefined for a released (non-static,
// refcount-zero) ID, per the package contract.
func (p *Pool) Get(id ID) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if int(id) >= len(p.entries) {
		return ""
	}
	return p.entries[id].value
}

// Lookup returns the ID already assigned to s, or (NotAStringID, false) if s
// was never interned. Unlike Intern, it does not create a reference.
func (p *Pool) Lookup(s string) (ID, bool) {
	if len(s) == 0 {
		return EmptyStringID, true
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.stringToID[s]
	return id, ok
}

// Intern returns the ID for s, creating it (refcount 1) if this is the
// first reference, or incrementing the existing refcount otherwise.
func (p *Pool) Intern(s string) ID {
	if len(s) == 0 {
		return EmptyStringID
	}

	p.mu.RLock()
	if id, ok := p.stringToID[s]; ok {
		if !p.IsStatic(id) {
			atomic.AddInt64(&p.entries[id].refCount, 1)
		}
		p.mu.RUnlock()
		return id
	}
	p.mu.RUnlock()

	return p.internSlow(s)
}

func (p *Pool) internSlow(s string) ID {
	p.mu.Lock()
	defer p.mu.Unlock()

	// re-check: another writer may have inserted it while we waited for the lock
	if id, ok := p.stringToID[s]; ok {
		if !p.IsStatic(id) {
			atomic.AddInt64(&p.entries[id].refCount, 1)
		}
		return id
	}

	var id ID
	if len(p.freeIDs) > 0 {
		id = heap.Pop(&p.freeIDs).(ID)
		p.entries[id] = entry{value: s, refCount: 1}
	} else {
		id = ID(len(p.entries))
		p.entries = append(p.entries, entry{value: s, refCount: 1})
	}
	p.stringToID[s] = id
	return id
}

// InternID creates a new reference to the string already assigned to id and
// returns id unchanged. Static IDs are a no-op.
func (p *Pool) InternID(id ID) ID {
	if p.IsStatic(id) {
		return id
	}
	p.mu.RLock()
	atomic.AddInt64(&p.entries[id].refCount, 1)
	p.mu.RUnlock()
	return id
}

// InternAll interns every string in ss by calling Intern once per element,
// returning the IDs in the same order.
func (p *Pool) InternAll(ss []string) []ID {
	ids := make([]ID, len(ss))
	for i, s := range ss {
		ids[i] = p.Intern(s)
	}
	return ids
}

// ReleaseAll drops one reference from each id in ids.
func (p *Pool) ReleaseAll(ids []ID) {
	for _, id := range ids {
		p.Release(id)
	}
}

// Release drops one reference from id. When the refcount reaches zero the
// ID becomes available for reuse by a future Intern call.
//
// The zero-crossing transition requires a write lock, but the common path
// (multiple outstanding references) never acquires one. The upgrade from
// read to write lock has to re-establish the reference before releasing
// the read lock and re-check the count after acquiring the write lock:
// without that dance, a concurrent Intern of the same string could observe
// (and hand out) an ID this goroutine is mid-way through destroying.
func (p *Pool) Release(id ID) {
	if p.IsStatic(id) {
		return
	}

	p.mu.RLock()
	refCount := atomic.AddInt64(&p.entries[id].refCount, -1)
	if refCount > 0 {
		p.mu.RUnlock()
		return
	}
	if refCount < 0 {
		p.mu.RUnlock()
		panic(fmt.Sprintf("stringpool: refcount underflow releasing id %d", id))
	}

	// refCount hit zero: keep the slot alive while we upgrade to a write lock
	atomic.AddInt64(&p.entries[id].refCount, 1)
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	refCount = atomic.AddInt64(&p.entries[id].refCount, -1)
	if refCount > 0 {
		return // someone re-interned it while we were upgrading
	}
	p.removeLocked(id)
}

func (p *Pool) removeLocked(id ID) {
	delete(p.stringToID, p.entries[id].value)
	p.entries[id] = entry{}
	heap.Push(&p.freeIDs, id)
}

// Stats describes pool occupancy for diagnostics.
type Stats struct {
	StringsInUse        int
	DynamicStringsInUse int
	TotalReferences      int64
}

// GetStats returns a snapshot of pool occupancy.
func (p *Pool) GetStats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var s Stats
	s.StringsInUse = len(p.stringToID)
	for id := range p.entries {
		if !p.IsStatic(ID(id)) && p.entries[id].refCount > 0 {
			s.DynamicStringsInUse++
			s.TotalReferences += p.entries[id].refCount
		}
	}
	return s
}

// Snapshot writes the wire layout described for persistence: a
// length-prefixed UTF-8 string table followed by the id->refcount table,
// where a refcount of 0 marks a static string.
func (p *Pool) Snapshot(w io.Writer) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(p.entries))); err != nil {
		return err
	}
	for _, e := range p.entries {
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(e.value))); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.value); err != nil {
			return err
		}
	}
	for id, e := range p.entries {
		rc := e.refCount
		if p.IsStatic(ID(id)) {
			rc = 0
		}
		if err := binary.Write(bw, binary.LittleEndian, rc); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load builds a new Pool from a Snapshot produced earlier. It is not used
// by runtime interning; no other package in the module calls it.
func Load(r io.Reader) (*Pool, error) {
	br := bufio.NewReader(r)
	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	p := &Pool{stringToID: make(map[string]ID, count), entries: make([]entry, count)}
	for i := uint32(0); i < count; i++ {
		var n uint32
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, err
		}
		p.entries[i].value = string(buf)
	}
	var numStatic ID
	for i := uint32(0); i < count; i++ {
		var rc int64
		if err := binary.Read(br, binary.LittleEndian, &rc); err != nil {
			return nil, err
		}
		p.entries[i].refCount = rc
		if rc == 0 {
			numStatic = ID(i) + 1
		}
		if p.entries[i].value != "" || i < 2 {
			p.stringToID[p.entries[i].value] = ID(i)
		}
	}
	p.numStatic = numStatic
	return p, nil
}
