package node

import (
	"errors"
	"fmt"

	"amalgamdb/internal/stringpool"
)

// ErrDeallocated is returned by Get when a Handle refers to a freed or
// out-of-range slot; per spec.md §7 this is a Defect-class condition, not
// a recoverable error, but Get still reports it rather than panicking so
// that callers at a trust boundary (e.g. deserialization) can decide.
var ErrDeallocated = errors.New("node: access to deallocated handle")

// MetadataPolicy controls what DeepAllocCopy carries over from the source
// subtree.
type MetadataPolicy int

const (
	// CopyAllMetadata preserves labels, comments, and the concurrency hint
	// on every copied node.
	CopyAllMetadata MetadataPolicy = iota
	// StripLabels omits labels (and therefore tends to raise idempotency)
	// but keeps comments.
	StripLabels
	// StripAllMetadata omits labels, comments, and the concurrency hint.
	StripAllMetadata
)

// Manager is an arena allocator and tracing garbage collector for one
// connected family of evaluable nodes. Managers are thread-owned in
// steady state (spec.md §5): only the owning goroutine mutates it.
type Manager struct {
	pool *stringpool.Pool

	slots []Node
	gens  []uint32
	free  []uint32
}

// NewManager creates an empty arena backed by pool for string interning.
func NewManager(pool *stringpool.Pool) *Manager {
	m := &Manager{pool: pool}
	// slot 0 is never issued: it lets the zero Handle mean "null" everywhere.
	m.slots = append(m.slots, Node{kind: OpDeallocated})
	m.gens = append(m.gens, 0)
	return m
}

func (m *Manager) newSlot(n Node) Handle {
	if len(m.free) > 0 {
		idx := m.free[len(m.free)-1]
		m.free = m.free[:len(m.free)-1]
		m.slots[idx] = n
		return Handle{idx: idx, gen: m.gens[idx]}
	}
	idx := uint32(len(m.slots))
	m.slots = append(m.slots, n)
	m.gens = append(m.gens, 0)
	return Handle{idx: idx, gen: 0}
}

// Get returns the live node for h, or ErrDeallocated if h is stale, out of
// range, or points at a freed slot.
func (m *Manager) Get(h Handle) (*Node, error) {
	if h.idx == 0 || int(h.idx) >= len(m.slots) || m.gens[h.idx] != h.gen {
		return nil, ErrDeallocated
	}
	n := &m.slots[h.idx]
	if n.kind == OpDeallocated {
		return nil, ErrDeallocated
	}
	return n, nil
}

// mustGet panics (a Defect) only when called with a handle this package
// itself issued moments ago and expects to still be live; it is never
// reachable from external input.
func (m *Manager) mustGet(h Handle) *Node {
	n, err := m.Get(h)
	if err != nil {
		panic(fmt.Sprintf("node: %v (handle %+v)", err, h))
	}
	return n
}

// AllocNull allocates a null node. Null, bool, and number leaves are
// idempotent by construction: no labels, no children.
func (m *Manager) AllocNull() Handle {
	return m.newSlot(Node{kind: OpNull, idempotent: true})
}

// AllocBool allocates a boolean leaf.
func (m *Manager) AllocBool(v bool) Handle {
	n := float64(0)
	if v {
		n = 1
	}
	return m.newSlot(Node{kind: OpBool, num: n, idempotent: true})
}

// AllocNumber allocates a numeric leaf. NaN is accepted as a legal value.
func (m *Manager) AllocNumber(v float64) Handle {
	return m.newSlot(Node{kind: OpNumber, num: v, idempotent: true})
}

// AllocString interns s and allocates a string leaf holding a reference to it.
func (m *Manager) AllocString(s string) Handle {
	id := m.pool.Intern(s)
	return m.newSlot(Node{kind: OpString, str: id, idempotent: true})
}

// AllocSymbol interns s and allocates a symbol leaf.
func (m *Manager) AllocSymbol(s string) Handle {
	id := m.pool.Intern(s)
	return m.newSlot(Node{kind: OpSymbol, str: id, idempotent: true})
}

// AllocList allocates a list node over the given children, attaching each
// one (incrementing its refcount and propagating cycle-check/idempotency).
func (m *Manager) AllocList(children ...Handle) Handle {
	h := m.newSlot(Node{kind: OpList, idempotent: true})
	for _, c := range children {
		m.AppendChild(h, c)
	}
	return h
}

// AllocAssoc allocates an assoc node from a key->child map, interning each
// key and attaching each value.
func (m *Manager) AllocAssoc(entries map[string]Handle) Handle {
	h := m.newSlot(Node{kind: OpAssoc, idempotent: true, assoc: make(map[stringpool.ID]Handle, len(entries))})
	for k, v := range entries {
		m.SetAssoc(h, k, v)
	}
	return h
}

// AllocOpcode allocates a node tagged with the given opcode kind over the
// given children (operand order is operation-specific). Opcode nodes are
// never idempotent-by-default if the opcode is inherently side-effecting;
// otherwise idempotency is propagated from the children exactly as for a list.
func (m *Manager) AllocOpcode(kind Kind, children ...Handle) Handle {
	h := m.newSlot(Node{kind: kind, idempotent: !kind.IsInherentlySideEffecting()})
	for _, c := range children {
		m.AppendChild(h, c)
	}
	if kind.IsInherentlySideEffecting() {
		n := m.mustGet(h)
		n.idempotent = false
	}
	return h
}

// AppendChild attaches child to the end of parent's child list, propagating
// the cycle-check bit upward and clearing idempotency if child is
// non-idempotent. Propagation is monotonic: detaching a child later never
// clears needCycleCheck on its own (only a Collect pass may reset it).
func (m *Manager) AppendChild(parent, child Handle) {
	p := m.mustGet(parent)
	p.children = append(p.children, child)
	m.attach(p, child)
}

// SetAssoc interns key and binds it to child within parent's assoc map,
// attaching child and propagating bits as AppendChild does. Any previous
// binding for key is detached first.
func (m *Manager) SetAssoc(parent Handle, key string, child Handle) {
	p := m.mustGet(parent)
	if p.assoc == nil {
		p.assoc = make(map[stringpool.ID]Handle)
	}
	id := m.pool.Intern(key)
	if old, ok := p.assoc[id]; ok {
		m.detach(old)
		// the key string was already referenced once by the existing binding;
		// the Intern above added a second reference for the same key, so
		// release one to keep exactly one reference per live assoc key.
		m.pool.Release(id)
	}
	p.assoc[id] = child
	m.attach(p, child)
}

func (m *Manager) attach(parent *Node, child Handle) {
	c, err := m.Get(child)
	if err != nil {
		return // attaching a null/dangling handle is a no-op for bookkeeping purposes
	}
	c.refCount++

	if c.needCycleCheck {
		parent.needCycleCheck = true
	}
	if !c.idempotent {
		parent.idempotent = false
	}
	if len(parent.Labels()) > 0 {
		parent.idempotent = false
	}
}

func (m *Manager) detach(child Handle) {
	c, err := m.Get(child)
	if err != nil {
		return
	}
	if c.refCount > 0 {
		c.refCount--
	}
}

// AddLabel interns label, attaches it to h, and clears h's idempotent bit
// (a labeled node can never be idempotent, spec.md §3).
func (m *Manager) AddLabel(h Handle, label string) {
	n := m.mustGet(h)
	id := m.pool.Intern(label)
	e := n.ensureExtra()
	e.labels = append(e.labels, id)
	n.idempotent = false
}

// SetComment interns comment and attaches it to h. Comments do not affect
// idempotency.
func (m *Manager) SetComment(h Handle, comment string) {
	n := m.mustGet(h)
	e := n.ensureExtra()
	if e.comment != stringpool.NotAStringID {
		m.pool.Release(e.comment)
	}
	e.comment = m.pool.Intern(comment)
}

// SetConcurrencyHint sets or clears the node's concurrency hint.
func (m *Manager) SetConcurrencyHint(h Handle, concurrent bool) {
	n := m.mustGet(h)
	n.ensureExtra().concurrency = concurrent
}

// SetNeedCycleCheck forces the bit directly; used by the parser when it
// knows a subtree is about to be shared across multiple parents before any
// Attach call would otherwise discover it.
func (m *Manager) SetNeedCycleCheck(h Handle, v bool) {
	m.mustGet(h).needCycleCheck = v
}

// EnsureModifiable returns h unchanged if Unique, or otherwise a deep copy
// of the subtree that the caller may now mutate in place without disturbing
// other observers.
func (m *Manager) EnsureModifiable(h Handle) (Handle, error) {
	n, err := m.Get(h)
	if err != nil {
		return Handle{}, err
	}
	if n.Unique() {
		return h, nil
	}
	return m.DeepAllocCopy(h, CopyAllMetadata)
}

// DeepAllocCopy structurally copies the subtree rooted at src, terminating
// on cyclic graphs by memoising source->destination handles, and returns a
// handle to the copy with no nodes shared with the source.
func (m *Manager) DeepAllocCopy(src Handle, policy MetadataPolicy) (Handle, error) {
	memo := make(map[Handle]Handle)
	return m.deepCopy(src, policy, memo)
}

func (m *Manager) deepCopy(src Handle, policy MetadataPolicy, memo map[Handle]Handle) (Handle, error) {
	if src.IsNull() {
		return Handle{}, nil
	}
	if dst, ok := memo[src]; ok {
		return dst, nil
	}

	n, err := m.Get(src)
	if err != nil {
		return Handle{}, err
	}

	// allocate the destination slot up front (with no children yet) so that
	// a cycle back to src resolves to this handle instead of recursing forever
	dst := m.newSlot(Node{kind: n.kind, num: n.num, str: n.str, idempotent: n.idempotent})
	memo[src] = dst

	if n.str != stringpool.NotAStringID && n.str != stringpool.EmptyStringID {
		m.pool.InternID(n.str)
	}

	dstNode := m.mustGet(dst)
	for _, c := range n.children {
		cd, err := m.deepCopy(c, policy, memo)
		if err != nil {
			return Handle{}, err
		}
		dstNode.children = append(dstNode.children, cd)
		m.attach(dstNode, cd)
	}
	if n.assoc != nil {
		dstNode.assoc = make(map[stringpool.ID]Handle, len(n.assoc))
		for k, c := range n.assoc {
			cd, err := m.deepCopy(c, policy, memo)
			if err != nil {
				return Handle{}, err
			}
			m.pool.InternID(k)
			dstNode.assoc[k] = cd
			m.attach(dstNode, cd)
		}
	}

	if n.extra != nil && policy != StripAllMetadata {
		e := dstNode.ensureExtra()
		if policy == CopyAllMetadata {
			for _, l := range n.extra.labels {
				m.pool.InternID(l)
				e.labels = append(e.labels, l)
			}
			dstNode.idempotent = dstNode.idempotent && len(e.labels) == 0
		}
		if n.extra.comment != stringpool.NotAStringID {
			e.comment = m.pool.InternID(n.extra.comment)
		}
		e.concurrency = n.extra.concurrency
	}
	dstNode.needCycleCheck = n.needCycleCheck

	return dst, nil
}

// FreeTreeIfPossible frees the subtree rooted at h only if h is Unique; it
// is a no-op otherwise (some other handle may still observe it).
func (m *Manager) FreeTreeIfPossible(h Handle) error {
	n, err := m.Get(h)
	if err != nil {
		return nil // already gone
	}
	if !n.Unique() {
		return nil
	}
	if n.needCycleCheck {
		return m.freeWithMarkSet(h)
	}
	return m.freeRecursive(h)
}

func (m *Manager) freeRecursive(h Handle) error {
	n, err := m.Get(h)
	if err != nil {
		return nil
	}
	children := n.children
	var assocVals []Handle
	for _, c := range n.assoc {
		assocVals = append(assocVals, c)
	}
	m.releaseSlot(h, n)
	for _, c := range children {
		m.detach(c)
		if cn, err := m.Get(c); err == nil && cn.Unique() {
			m.freeRecursive(c)
		}
	}
	for _, c := range assocVals {
		m.detach(c)
		if cn, err := m.Get(c); err == nil && cn.Unique() {
			m.freeRecursive(c)
		}
	}
	return nil
}

// freeWithMarkSet frees a subtree known to require cycle tolerance: it
// marks every reachable node first (de-duplicating visits) before tearing
// any of them down, so a node reachable via two paths from h is not
// double-freed or walked twice.
func (m *Manager) freeWithMarkSet(h Handle) error {
	marked := make(map[Handle]bool)
	var mark func(Handle)
	mark = func(hh Handle) {
		if hh.IsNull() || marked[hh] {
			return
		}
		marked[hh] = true
		n, err := m.Get(hh)
		if err != nil {
			return
		}
		for _, c := range n.children {
			mark(c)
		}
		for _, c := range n.assoc {
			mark(c)
		}
	}
	mark(h)

	for hh := range marked {
		n, err := m.Get(hh)
		if err != nil {
			continue
		}
		m.releaseSlot(hh, n)
	}
	return nil
}

// releaseSlot sets the slot's tag to deallocated, releases any string
// references it owns, and pushes the slot onto the free list.
func (m *Manager) releaseSlot(h Handle, n *Node) {
	m.releaseSlotIdx(h.idx, n)
}

func (m *Manager) releaseSlotIdx(idx uint32, n *Node) {
	if n.kind == OpString || n.kind == OpSymbol {
		m.pool.Release(n.str)
	}
	if n.extra != nil {
		for _, l := range n.extra.labels {
			m.pool.Release(l)
		}
		if n.extra.comment != stringpool.NotAStringID {
			m.pool.Release(n.extra.comment)
		}
	}
	for k := range n.assoc {
		m.pool.Release(k)
	}
	*n = Node{kind: OpDeallocated}
	m.gens[idx]++
	m.free = append(m.free, idx)
}

// Collect performs a mark-sweep pass across the whole arena from roots,
// freeing every unreachable slot and recomputing needCycleCheck bottom-up
// for everything that survives (spec.md §4.2: "a subsequent GC pass may
// reset it").
func (m *Manager) Collect(roots []Handle) (freed int) {
	reachable := make(map[uint32]bool, len(m.slots))
	order := make([]Handle, 0, len(m.slots))

	var visit func(Handle)
	visit = func(h Handle) {
		if h.IsNull() || int(h.idx) >= len(m.slots) || reachable[h.idx] {
			return
		}
		n := &m.slots[h.idx]
		if n.kind == OpDeallocated {
			return
		}
		reachable[h.idx] = true
		for _, c := range n.children {
			visit(c)
		}
		for _, c := range n.assoc {
			visit(c)
		}
		order = append(order, h) // post-order: children before parent
	}
	for _, r := range roots {
		visit(r)
	}

	for idx := uint32(1); idx < uint32(len(m.slots)); idx++ {
		if !reachable[idx] && m.slots[idx].kind != OpDeallocated {
			n := &m.slots[idx]
			m.releaseSlotIdx(idx, n)
			freed++
		}
	}

	for _, h := range order {
		n, err := m.Get(h)
		if err != nil {
			continue
		}
		n.needCycleCheck = false
		for _, c := range n.children {
			if cn, err := m.Get(c); err == nil && cn.needCycleCheck {
				n.needCycleCheck = true
			}
		}
		for _, c := range n.assoc {
			if cn, err := m.Get(c); err == nil && cn.needCycleCheck {
				n.needCycleCheck = true
			}
		}
	}
	return freed
}

// NumSlots returns the arena's current capacity (live + free), mainly for
// diagnostics and execution-constraints node-count accounting.
func (m *Manager) NumSlots() int { return len(m.slots) }
