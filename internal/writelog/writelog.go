// Package writelog implements the entity write-listener spec.md §6
// describes: the mirror that turns every entity mutation into an
// assignment-form node appended to an in-memory log, optionally flushed
// to disk - the write-ahead-log half of the interpreter's persistence
// story, grounded on the teacher's storage/binary/wal.go append-only
// writer and internal/logx's structured-logging idiom for the flush path.
package writelog

import (
	"fmt"
	"io"
	"sync"

	"amalgamdb/internal/node"
	"amalgamdb/internal/stringpool"

	"github.com/rs/zerolog"
)

// Entry is one logged mutation: the target entity's identifier plus the
// assignment-form node (an OpAssign opcode node: [target, value]) that
// replays it.
type Entry struct {
	EntityID string
	Node     node.Handle
}

// Listener accumulates Entries in memory and, when Output is non-nil,
// mirrors each one to it as it arrives - the same "log, then optionally
// flush" shape as the teacher's WAL writer, generalized from raw byte
// records to assignment-form nodes.
type Listener struct {
	mu      sync.Mutex
	manager *node.Manager
	pool    *stringpool.Pool
	log     *zerolog.Logger

	entries []Entry
	output  io.Writer
}

// New returns a Listener that builds its logged nodes in manager and, if
// out is non-nil, mirrors every entry to it.
func New(manager *node.Manager, pool *stringpool.Pool, log *zerolog.Logger, out io.Writer) *Listener {
	return &Listener{manager: manager, pool: pool, log: log, output: out}
}

// Entries returns a snapshot of every Entry logged so far.
func (l *Listener) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Listener) append(entityID string, target, value node.Handle) {
	assign := l.manager.AllocOpcode(node.OpAssign, target, value)
	entry := Entry{EntityID: entityID, Node: assign}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	if l.log != nil {
		l.log.Debug().Str("entity", entityID).Msg("write-log entry")
	}
	if l.output != nil {
		fmt.Fprintf(l.output, "%s %v\n", entityID, assign)
	}
}

// LogWriteValue records a single-label assignment: entityID's label
// acquired value.
func (l *Listener) LogWriteValue(entityID string, label string, value node.Handle) {
	target := l.manager.AllocSymbol(label)
	l.append(entityID, target, value)
}

// LogWriteValues records a batch of label assignments applied atomically
// to one entity, as a single assoc-valued assignment node.
func (l *Listener) LogWriteValues(entityID string, values map[string]node.Handle) {
	target := l.manager.AllocAssoc(values)
	l.append(entityID, target, target)
}

// LogWriteCode records a whole-subtree replacement (e.g. a top-level
// ENT_ASSIGN rewriting entityID's root).
func (l *Listener) LogWriteCode(entityID string, newRoot node.Handle) {
	target := l.manager.AllocSymbol(entityID)
	l.append(entityID, target, newRoot)
}

// LogCreateEntity records a new child entity's creation under parentID.
func (l *Listener) LogCreateEntity(parentID, childID string) {
	target := l.manager.AllocSymbol(parentID)
	value := l.manager.AllocString(childID)
	l.append(parentID, target, value)
}

// LogDestroyEntity records an entity's destruction.
func (l *Listener) LogDestroyEntity(entityID string) {
	target := l.manager.AllocSymbol(entityID)
	value := l.manager.AllocNull()
	l.append(entityID, target, value)
}

// LogSetRNGSeed records a reseed of entityID's private random stream, so
// a replay reproduces the same subsequent draws.
func (l *Listener) LogSetRNGSeed(entityID string, seed int64) {
	target := l.manager.AllocSymbol(entityID)
	value := l.manager.AllocNumber(float64(seed))
	l.append(entityID, target, value)
}
