// Package store bridges the format.Loader Record shape to the
// entity/node/querycache stack: it builds one child Entity per Record
// under a container Entity and indexes each child's scalar fields into
// the container's query cache, the glue cmd/amalgam's load/query
// subcommands and any future format-loader caller need to turn decoded
// records into something internal/query can run conditions against.
package store

import (
	"context"
	"fmt"
	"runtime"

	"amalgamdb/internal/column"
	"amalgamdb/internal/constraints"
	"amalgamdb/internal/entity"
	"amalgamdb/internal/format"
	"amalgamdb/internal/logx"
	"amalgamdb/internal/node"
	"amalgamdb/internal/stringpool"
	"amalgamdb/internal/workpool"
)

// builtChild is one record's fully-built child entity, ready to attach to
// the container in record order.
type builtChild struct {
	name   string
	child  *entity.Entity
	values map[stringpool.ID]column.Value
}

// BuildContainer creates a root Entity and attaches one child Entity per
// record, with every scalar (number/string/bool) field set as a labeled
// node on the child and indexed into the container's query cache. Nested
// maps/lists are stored as an opaque code value, indexed only by size
// (column.ValueCode), matching how Column treats structured values.
// Construction is unbounded; use BuildContainerWithBudget to cap node
// allocation.
func BuildContainer(pool *stringpool.Pool, records []format.Record) (*entity.Entity, error) {
	return BuildContainerWithBudget(pool, records, constraints.Unbounded())
}

// BuildContainerWithBudget is BuildContainer with every node allocation
// charged against budget (spec.md §5's ResourceExhausted case): once
// budget.ReserveNodes fails, the in-flight record is abandoned and
// BuildContainerWithBudget returns the *constraints.ErrBudgetExceeded.
//
// Per-record node construction (independent work: each record gets its
// own node.Manager) is fanned out across a fixed-ceiling internal/workpool
// pool rather than one goroutine per record, matching spec.md §5's
// concurrency model; attaching the results to the shared container
// happens back on the caller's goroutine in record order, since
// Entity.AddChild/QueryCache().AddEntity are not meant to race with each
// other for the same container.
func BuildContainerWithBudget(pool *stringpool.Pool, records []format.Record, budget *constraints.Constraints) (*entity.Entity, error) {
	mgr := node.NewManager(pool)
	root := mgr.AllocList()
	container := entity.New(pool, root, mgr, 1)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	wp := workpool.New(workers, len(records)+1, logx.Component("store"))
	defer wp.Shutdown()

	tasks := make([]workpool.Task, len(records))
	for i, rec := range records {
		i, rec := i, rec
		tasks[i] = workpool.Task{Run: func(ctx context.Context) (any, error) {
			if err := budget.CheckStep(); err != nil {
				return nil, err
			}
			return buildChild(pool, i, rec, budget)
		}}
	}
	results, errs := wp.SubmitAll(context.Background(), tasks)
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("build child entity: %w", err)
		}
	}

	for _, r := range results {
		built := r.(builtChild)
		slot := container.AddChild(built.name, built.child)
		container.QueryCache().AddEntity(slot, built.values)
	}

	return container, nil
}

func buildChild(pool *stringpool.Pool, index int, rec format.Record, budget *constraints.Constraints) (builtChild, error) {
	childMgr := node.NewManager(pool)
	childRoot := childMgr.AllocAssoc(nil)
	child := entity.New(pool, childRoot, childMgr, int64(index)+2)

	values := make(map[stringpool.ID]column.Value, len(rec))
	for key, v := range rec {
		handle, colValue, err := encodeValue(childMgr, v, budget)
		if err != nil {
			return builtChild{}, err
		}
		childMgr.SetAssoc(childRoot, key, handle)
		childMgr.AddLabel(handle, key)
		values[pool.Intern(key)] = colValue
	}

	return builtChild{name: fmt.Sprintf("entity-%d", index), child: child, values: values}, nil
}

// encodeValue allocates v as a node in mgr and returns the column.Value
// used to index it, dispatching on the decoded JSON/YAML/CSV shape
// (float64, string, bool, nil, or a nested map/slice treated as code).
// Every allocation is charged against budget first.
func encodeValue(mgr *node.Manager, v any, budget *constraints.Constraints) (node.Handle, column.Value, error) {
	if err := budget.ReserveNodes(1); err != nil {
		return node.Handle{}, column.Value{}, err
	}
	switch val := v.(type) {
	case nil:
		return mgr.AllocNull(), column.Value{Type: column.ValueNull}, nil
	case bool:
		return mgr.AllocBool(val), column.Value{Type: column.ValueNumber, Number: boolToFloat(val)}, nil
	case float64:
		return mgr.AllocNumber(val), column.Value{Type: column.ValueNumber, Number: val}, nil
	case int:
		return mgr.AllocNumber(float64(val)), column.Value{Type: column.ValueNumber, Number: float64(val)}, nil
	case string:
		h := mgr.AllocString(val)
		return h, column.Value{Type: column.ValueString, String: stringIDOf(mgr, h)}, nil
	case []any:
		children := make([]node.Handle, len(val))
		size := 1
		for i, item := range val {
			ch, _, err := encodeValue(mgr, item, budget)
			if err != nil {
				return node.Handle{}, column.Value{}, err
			}
			children[i] = ch
			size++
		}
		return mgr.AllocList(children...), column.Value{Type: column.ValueCode, CodeSize: deepSize(size, val)}, nil
	case map[string]any:
		entries := make(map[string]node.Handle, len(val))
		size := 1
		for k, item := range val {
			ch, _, err := encodeValue(mgr, item, budget)
			if err != nil {
				return node.Handle{}, column.Value{}, err
			}
			entries[k] = ch
			size++
		}
		return mgr.AllocAssoc(entries), column.Value{Type: column.ValueCode, CodeSize: size}, nil
	default:
		h := mgr.AllocString(fmt.Sprint(val))
		return h, column.Value{Type: column.ValueString, String: stringIDOf(mgr, h)}, nil
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func deepSize(base int, items []any) int {
	for _, item := range items {
		if nested, ok := item.([]any); ok {
			base += deepSize(0, nested)
		}
	}
	return base
}

// stringIDOf returns the interned string id backing an already-allocated
// String node - Manager only exposes a node's StringID via Get, not as a
// return value from AllocString itself.
func stringIDOf(mgr *node.Manager, h node.Handle) stringpool.ID {
	n, err := mgr.Get(h)
	if err != nil {
		return stringpool.NotAStringID
	}
	return n.StringID()
}
