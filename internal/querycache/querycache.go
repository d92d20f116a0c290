// Package querycache maintains the per-container set of column indexes
// backing fast query evaluation, grounded on
// original_source/entity/EntityQueryManager.h's EntityQueryCaches hooks:
// AddEntity, RemoveEntity (with slot reassignment), and the several
// UpdateEntityLabel* variants collapsed here into one LabelChanged call.
//
// A Cache indexes one container's direct children by label: every label
// any child entity holds gets its own column.Column, lazily created on
// first use and left in place (but empty) once every entity holding that
// label is gone, mirroring the original's behavior of never proactively
// dropping a column.
package querycache

import (
	"sync"

	"amalgamdb/internal/column"
	"amalgamdb/internal/stringpool"
)

// Cache is the query-accelerating column index for one container's direct
// children. It is safe for concurrent use.
type Cache struct {
	pool *stringpool.Pool

	mu      sync.RWMutex
	columns map[stringpool.ID]*column.Column
}

// New returns an empty Cache.
func New(pool *stringpool.Pool) *Cache {
	return &Cache{pool: pool, columns: make(map[stringpool.ID]*column.Column)}
}

// Column returns the column for label, or (nil, false) if no entity in
// this container has ever been indexed under that label. A column whose
// entities have all been removed is still returned.
func (c *Cache) Column(label stringpool.ID) (*column.Column, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, ok := c.columns[label]
	return col, ok
}

// Labels returns every label currently indexed (including labels whose
// column has gone empty but has not been pruned).
func (c *Cache) Labels() []stringpool.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]stringpool.ID, 0, len(c.columns))
	for l := range c.columns {
		out = append(out, l)
	}
	return out
}

func (c *Cache) columnLocked(label stringpool.ID) *column.Column {
	col, ok := c.columns[label]
	if !ok {
		col = column.New(c.pool, label)
		c.columns[label] = col
	}
	return col
}

// AddEntity indexes a newly added entity at the given slot, under every
// label->value pair it currently holds.
func (c *Cache) AddEntity(index uint32, values map[stringpool.ID]column.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for label, v := range values {
		c.columnLocked(label).Insert(index, v)
	}
}

// RemoveEntityReassignSlot removes the entity at index from every column
// it appears in under oldValues, then - mirroring the original's slot
// compaction, where the last live entity is moved into the hole a removal
// leaves behind - reindexes the entity that used to sit at reassignFrom
// as now living at index, under reassignValues. If reassignFrom == index
// (removing the last slot), pass a nil reassignValues and it is a no-op.
func (c *Cache) RemoveEntityReassignSlot(index uint32, oldValues map[stringpool.ID]column.Value,
	reassignFrom uint32, reassignValues map[stringpool.ID]column.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for label, v := range oldValues {
		c.columnLocked(label).Remove(index, v)
	}
	if reassignFrom == index || reassignValues == nil {
		return
	}
	for label, v := range reassignValues {
		col := c.columnLocked(label)
		col.Remove(reassignFrom, v)
		col.Insert(index, v)
	}
}

// LabelChanged moves index from oldValue to newValue within label's
// column, creating the column if this is the first time it has been seen.
func (c *Cache) LabelChanged(index uint32, label stringpool.ID, oldValue, newValue column.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.columnLocked(label).ChangeValue(index, oldValue, newValue)
}

// LabelDelta is an old/new value pair used by LabelsChanged to batch
// several simultaneous label updates on one entity under one lock.
type LabelDelta struct {
	Old column.Value
	New column.Value
}

// LabelsChanged applies a batch of label changes for one entity, taking
// the Cache's lock once for the whole batch rather than once per label.
func (c *Cache) LabelsChanged(index uint32, changes map[stringpool.ID]LabelDelta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for label, delta := range changes {
		c.columnLocked(label).ChangeValue(index, delta.Old, delta.New)
	}
}
