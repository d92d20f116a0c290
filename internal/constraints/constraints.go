// Package constraints implements Constraints: the per-evaluation
// resource budget threaded through opcode evaluation so a runaway or
// malicious program cannot allocate unbounded nodes or run forever.
package constraints

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrBudgetExceeded is returned once any configured limit has been hit.
// Evaluation must unwind on this error rather than attempt to continue.
type ErrBudgetExceeded struct {
	Reason string
}

func (e *ErrBudgetExceeded) Error() string {
	return fmt.Sprintf("execution constraint exceeded: %s", e.Reason)
}

// Constraints bounds one top-level evaluation. Zero values for MaxNodes,
// MaxSteps, or MaxDuration mean "unbounded" for that dimension. Safe for
// concurrent use: CheckStep is called from every opcode-evaluating goroutine a
// ENT_PARALLEL-style fork spawns, so the counters are atomics.
type Constraints struct {
	MaxNodes    int64
	MaxSteps    int64
	MaxDuration time.Duration

	CollectWarnings bool

	startedAt time.Time
	nodes     int64
	steps     int64

	warningsMu sync.Mutex
	warnings   []string
}

// New returns a Constraints with the given limits, started now.
func New(maxNodes, maxSteps int64, maxDuration time.Duration, collectWarnings bool) *Constraints {
	return &Constraints{
		MaxNodes:        maxNodes,
		MaxSteps:        maxSteps,
		MaxDuration:     maxDuration,
		CollectWarnings: collectWarnings,
		startedAt:       time.Now(),
	}
}

// Unbounded returns a Constraints with every limit disabled, for contexts
// (tests, trusted internal evaluation) that should never be budget-limited.
func Unbounded() *Constraints {
	return &Constraints{startedAt: time.Now()}
}

// CheckStep increments the step counter and returns ErrBudgetExceeded if
// MaxSteps or MaxDuration has been exceeded. Called at every opcode
// evaluation boundary.
func (c *Constraints) CheckStep() error {
	n := atomic.AddInt64(&c.steps, 1)
	if c.MaxSteps > 0 && n > c.MaxSteps {
		return &ErrBudgetExceeded{Reason: "max execution steps exceeded"}
	}
	if c.MaxDuration > 0 && time.Since(c.startedAt) > c.MaxDuration {
		return &ErrBudgetExceeded{Reason: "max execution duration exceeded"}
	}
	return nil
}

// ReserveNodes increments the node counter by n and returns
// ErrBudgetExceeded if MaxNodes would be exceeded; on that error the
// reservation is rolled back so a failed allocation never permanently
// consumes budget.
func (c *Constraints) ReserveNodes(n int64) error {
	total := atomic.AddInt64(&c.nodes, n)
	if c.MaxNodes > 0 && total > c.MaxNodes {
		atomic.AddInt64(&c.nodes, -n)
		return &ErrBudgetExceeded{Reason: "max node count exceeded"}
	}
	return nil
}

// ReleaseNodes decrements the node counter, called when the Node Manager
// collects nodes that were counted against this Constraints' budget.
func (c *Constraints) ReleaseNodes(n int64) {
	atomic.AddInt64(&c.nodes, -n)
}

// Warn appends a warning message if CollectWarnings is set; otherwise it
// is a no-op, matching the spec's "opt-in, discarded by default" behavior.
func (c *Constraints) Warn(message string) {
	if !c.CollectWarnings {
		return
	}
	c.warningsMu.Lock()
	c.warnings = append(c.warnings, message)
	c.warningsMu.Unlock()
}

// Warnings returns a snapshot of accumulated warning messages, or nil if
// CollectWarnings was never set.
func (c *Constraints) Warnings() []string {
	c.warningsMu.Lock()
	defer c.warningsMu.Unlock()
	if len(c.warnings) == 0 {
		return nil
	}
	out := make([]string, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Elapsed returns how long this Constraints has been running.
func (c *Constraints) Elapsed() time.Duration { return time.Since(c.startedAt) }

// NodesUsed returns the current reserved node count.
func (c *Constraints) NodesUsed() int64 { return atomic.LoadInt64(&c.nodes) }
