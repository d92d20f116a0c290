// Package node implements the evaluable-node graph: the arena-allocated,
// reference-cycle-tolerant representation shared by code and data in
// amalgamdb, and the Manager that owns it.
//
// Every value - numbers, strings, lists, associative maps, and the ~200
// opcodes - is a Node. A Node with no labels, no comment, and no extended
// metadata holds only a Kind tag and an inline scalar/child-handle payload;
// attaching a label or comment transparently promotes it to carry an
// *extra record instead of growing every node in the arena.
package node

import (
	"math"

	"amalgamdb/internal/stringpool"
)

// Handle is an opaque reference to a Node owned by exactly one Manager.
// The zero Handle is the "null handle" returned by every recoverable
// failure path (spec.md §7): Manager.Get on it always reports ErrDeallocated.
type Handle struct {
	idx uint32
	gen uint32
}

// IsNull reports whether h is the zero handle.
func (h Handle) IsNull() bool { return h.idx == 0 && h.gen == 0 }

// extra holds the metadata a node only needs once it acquires labels, a
// comment, or the concurrency hint - the "extended representation" from
// spec.md §3's memory layout requirement.
type extra struct {
	labels      []stringpool.ID
	comment     stringpool.ID
	concurrency bool
}

// Node is one evaluable-node-graph vertex: a tagged variant plus the two
// invariant bits (needCycleCheck, idempotent) and advisory ownership bits
// the Manager uses to decide when in-place mutation is safe.
type Node struct {
	kind Kind

	needCycleCheck bool
	idempotent     bool

	// refCount counts attachments of this node as a child of some other
	// live node. unique (no other handle observes this subtree) holds
	// exactly when refCount == 0; this is advisory bookkeeping the
	// Manager maintains on Attach/Detach, not a destructor-driven count.
	refCount int32

	num      float64
	str      stringpool.ID
	children []Handle
	assoc    map[stringpool.ID]Handle

	extra *extra // nil when the node has no labels/comment/concurrency hint
}

// Kind returns the node's tag.
func (n *Node) Kind() Kind { return n.kind }

// IsDeallocated reports whether this slot has been freed.
func (n *Node) IsDeallocated() bool { return n.kind == OpDeallocated }

// Number returns the node's scalar payload for kind Number. NaN is a legal
// stored value, compared by bit pattern wherever it is used as a hash key.
func (n *Node) Number() float64 { return n.num }

// StringID returns the interned string id for kind String or Symbol.
func (n *Node) StringID() stringpool.ID { return n.str }

// Bool returns the node's payload for kind Bool (stored in num as 0/1).
func (n *Node) Bool() bool { return n.num != 0 }

// Children returns the ordered child handles for List/Assoc-shaped and
// opcode nodes. The returned slice must not be mutated by the caller;
// use Manager methods to modify structure.
func (n *Node) Children() []Handle { return n.children }

// AssocValue returns the child bound to the given interned key, or the
// null handle and false if absent.
func (n *Node) AssocValue(key stringpool.ID) (Handle, bool) {
	h, ok := n.assoc[key]
	return h, ok
}

// Assoc returns the node's key->child map directly for Kind Assoc nodes.
// Iteration order is not significant for semantics and is not guaranteed
// stable across runs (spec.md §9 Open Questions).
func (n *Node) Assoc() map[stringpool.ID]Handle { return n.assoc }

// NeedCycleCheck reports whether this subtree may be reachable via more
// than one path and must be traversed with memoization.
func (n *Node) NeedCycleCheck() bool { return n.needCycleCheck }

// Idempotent reports whether this subtree is a pure value: no labels, and
// (leaf, or every child idempotent), and not an inherently side-effecting
// opcode.
func (n *Node) Idempotent() bool { return n.idempotent }

// Unique reports whether no other handle in this Manager currently
// observes this node as a child. It is advisory: callers may use it to
// skip a defensive copy, but correctness must never depend on it alone.
func (n *Node) Unique() bool { return n.refCount == 0 }

// Labels returns the label IDs attached to the node, or nil if none.
func (n *Node) Labels() []stringpool.ID {
	if n.extra == nil {
		return nil
	}
	return n.extra.labels
}

// Comment returns the node's comment string id, or stringpool.NotAStringID.
func (n *Node) Comment() stringpool.ID {
	if n.extra == nil {
		return stringpool.NotAStringID
	}
	return n.extra.comment
}

// ConcurrencyHint reports whether this opcode node has requested the
// runtime fork its children into the work pool when idle workers exist.
func (n *Node) ConcurrencyHint() bool {
	return n.extra != nil && n.extra.concurrency
}

func (n *Node) ensureExtra() *extra {
	if n.extra == nil {
		n.extra = &extra{comment: stringpool.NotAStringID}
	}
	return n.extra
}

// isNaN is used wherever the spec calls for NaN to be compared by bit
// identity (e.g. hash-keying number values) rather than by IEEE equality.
func isNaN(f float64) bool { return math.IsNaN(f) }
