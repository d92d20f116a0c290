// Package entity implements the Entity type: one addressable unit of code
// and data in amalgamdb, owning its own Node Manager, random-number
// stream, and child-entity map, exactly as described by spec.md's entity
// model.
package entity

import (
	"math/rand"
	"sync"

	"amalgamdb/internal/node"
	"amalgamdb/internal/querycache"
	"amalgamdb/internal/stringpool"

	"github.com/google/uuid"
)

// Entity is one node in the containment hierarchy: a root evaluable-node
// handle into its own private Node Manager, a set of named child
// entities, a private pseudo-random stream for ENT_RAND-family opcodes,
// and the permission bit controlling whether other entities may mutate it.
//
// Every Entity owns exactly one RWMutex, serializing concurrent opcode
// evaluation against it the way the spec requires: readers (queries,
// label lookups) may run concurrently with each other but not with a
// writer (label mutation, child attach/detach).
type Entity struct {
	ID uuid.UUID

	mu sync.RWMutex

	manager *node.Manager
	root    node.Handle

	rng *rand.Rand

	parent   *Entity
	children map[string]*Entity

	// mutableByOthers reports whether another entity's opcode may alter
	// this one's labels or structure; false means only this entity's own
	// evaluation may do so.
	mutableByOthers bool

	// queryCache accelerates label-based queries over this entity's direct
	// children; created by New, so it is never nil.
	queryCache *querycache.Cache
	pool       *stringpool.Pool

	// childSlots maps a child's current index within queryCache's columns
	// back to its *Entity, supporting the reassign-on-removal dance
	// querycache.RemoveEntityReassignSlot expects.
	childSlots []*Entity
}

// New creates a root entity whose root node is root, owned by manager,
// and a random stream seeded from seed (0 selects a non-deterministic
// seed taken from a random UUID via defaultSeed; any other seed gives a
// reproducible stream).
func New(pool *stringpool.Pool, root node.Handle, manager *node.Manager, seed int64) *Entity {
	var src rand.Source
	if seed == 0 {
		src = rand.NewSource(defaultSeed())
	} else {
		src = rand.NewSource(seed)
	}
	return &Entity{
		ID:              uuid.New(),
		manager:         manager,
		root:            root,
		rng:             rand.New(src),
		children:        make(map[string]*Entity),
		mutableByOthers: true,
		queryCache:      querycache.New(pool),
		pool:            pool,
	}
}

// defaultSeed is overridable by tests that need deterministic entity
// creation without passing an explicit seed through every call site.
var defaultSeed = func() int64 { return int64(uuid.New().ID()) }

// Manager returns this entity's private Node Manager.
func (e *Entity) Manager() *node.Manager { return e.manager }

// Root returns the handle to this entity's root evaluable node.
func (e *Entity) Root() node.Handle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.root
}

// SetRoot replaces the entity's root node handle, e.g. after a top-level
// assignment opcode rewrites it.
func (e *Entity) SetRoot(h node.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.root = h
}

// RLock/RUnlock/Lock/Unlock expose the entity's serialization mutex
// directly to the opcode evaluator, which must hold at least a read lock
// for the duration of any opcode touching this entity's structure and a
// write lock for any opcode that mutates it.
func (e *Entity) RLock()   { e.mu.RLock() }
func (e *Entity) RUnlock() { e.mu.RUnlock() }
func (e *Entity) Lock()    { e.mu.Lock() }
func (e *Entity) Unlock()  { e.mu.Unlock() }

// Rand returns the entity's private random stream. Callers must hold at
// least a read lock, since concurrent forked opcodes may draw from it
// simultaneously and math/rand.Rand is not itself safe for concurrent use
// without the caller's own serialization.
func (e *Entity) Rand() *rand.Rand { return e.rng }

// MutableByOthers reports whether another entity's opcode may mutate this
// entity's structure.
func (e *Entity) MutableByOthers() bool { return e.mutableByOthers }

// SetMutableByOthers updates the permission bit.
func (e *Entity) SetMutableByOthers(v bool) { e.mutableByOthers = v }

// Parent returns the containing entity, or nil for a root entity.
func (e *Entity) Parent() *Entity { return e.parent }

// Child returns the named direct child, or (nil, false) if none exists.
func (e *Entity) Child(name string) (*Entity, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.children[name]
	return c, ok
}

// ChildNames returns the names of every direct child.
func (e *Entity) ChildNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.children))
	for name := range e.children {
		out = append(out, name)
	}
	return out
}

// AddChild attaches child under name at the next available query-cache
// slot and returns that slot's index. The caller (the entity's owning
// opcode evaluator) is responsible for then calling
// e.QueryCache().AddEntity(index, ...) with the child's current label
// values - Entity itself only owns the name->child map and slot order,
// not label semantics.
func (e *Entity) AddChild(name string, child *Entity) (slot uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	child.parent = e
	e.children[name] = child
	e.childSlots = append(e.childSlots, child)
	return uint32(len(e.childSlots) - 1)
}

// RemoveChild detaches and returns the named child along with the slot
// index it previously occupied and the slot index (and entity) that now
// occupies its place after compaction, or (nil, 0, nil, 0, false) if name did
// not exist. The caller must pass the returned indices to
// e.QueryCache().RemoveEntityReassignSlot with the appropriate label
// values; Entity itself does not know per-label values.
func (e *Entity) RemoveChild(name string) (removed *Entity, removedSlot uint32, reassigned *Entity, reassignedFromSlot uint32, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	child, exists := e.children[name]
	if !exists {
		return nil, 0, nil, 0, false
	}
	delete(e.children, name)

	idx := -1
	for i, c := range e.childSlots {
		if c == child {
			idx = i
			break
		}
	}
	last := len(e.childSlots) - 1
	var moved *Entity
	if idx >= 0 && idx != last {
		moved = e.childSlots[last]
		e.childSlots[idx] = moved
	}
	e.childSlots = e.childSlots[:last]
	child.parent = nil

	return child, uint32(idx), moved, uint32(last), true
}

// QueryCache returns the column index over this entity's direct children.
func (e *Entity) QueryCache() *querycache.Cache { return e.queryCache }

// NumChildren returns the count of direct children.
func (e *Entity) NumChildren() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.children)
}
