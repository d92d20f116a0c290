// Package workpool implements the fixed-ceiling worker pool that backs
// opcode-level concurrency (ENT_PARALLEL/ENT_MAP/ENT_FILTER-style forking):
// a bounded number of goroutines, not one per fork point, so a program
// that forks deeply cannot exhaust the runtime's goroutine budget.
//
// Grounded on the teacher's MetricsWorkerPool (api/metrics_worker_pool.go),
// generalized from fire-and-forget metrics handlers to futures that return
// a value or error and can be cancelled mid-flight via context.
package workpool

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Task is one unit of opcode-subtree evaluation submitted to the pool.
type Task struct {
	Run func(ctx context.Context) (any, error)
}

// Future is the handle Submit returns: Wait blocks until Run completes (or
// ctx given to Submit is cancelled) and yields its result.
type Future struct {
	done   chan struct{}
	result any
	err    error
}

// Wait blocks until the task completes and returns its result.
func (f *Future) Wait() (any, error) {
	<-f.done
	return f.result, f.err
}

// Pool is a fixed-size worker pool. Unlike the teacher's MetricsWorkerPool,
// Submit never drops a task on a full queue - opcode forking must not
// silently lose work - it instead blocks until a slot is free or the
// submitting context is cancelled.
type Pool struct {
	workers   int
	taskQueue chan poolJob
	wg        sync.WaitGroup
	shutdown  chan struct{}
	log       zerolog.Logger
}

type poolJob struct {
	ctx    context.Context
	task   Task
	future *Future
}

// New creates and starts a Pool with the given fixed worker count and
// submission queue depth.
func New(workers, queueSize int, log zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{
		workers:   workers,
		taskQueue: make(chan poolJob, queueSize),
		shutdown:  make(chan struct{}),
		log:       log,
	}
	p.start()
	return p
}

func (p *Pool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Debug().Int("workers", p.workers).Msg("started opcode worker pool")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.taskQueue:
			p.run(id, job)
		case <-p.shutdown:
			p.log.Debug().Int("worker", id).Msg("worker shutting down")
			return
		}
	}
}

func (p *Pool) run(id int, job poolJob) {
	defer close(job.future.done)
	defer func() {
		if r := recover(); r != nil {
			job.future.err = fmt.Errorf("opcode task panicked: %v", r)
			p.log.Error().Int("worker", id).Interface("panic", r).Msg("recovered from opcode task panic")
		}
	}()
	if err := job.ctx.Err(); err != nil {
		job.future.err = err
		return
	}
	job.future.result, job.future.err = job.task.Run(job.ctx)
}

// Submit enqueues task and returns a Future for its result. It blocks
// until a queue slot is available or ctx is cancelled, in which case the
// returned Future resolves immediately with ctx.Err().
func (p *Pool) Submit(ctx context.Context, task Task) *Future {
	future := &Future{done: make(chan struct{})}
	select {
	case p.taskQueue <- poolJob{ctx: ctx, task: task, future: future}:
	case <-ctx.Done():
		future.err = ctx.Err()
		close(future.done)
	}
	return future
}

// SubmitAll submits every task and waits for all futures, returning
// results in the same order as tasks. store.BuildContainerWithBudget uses
// it to fan out per-record construction and rejoin.
func (p *Pool) SubmitAll(ctx context.Context, tasks []Task) ([]any, []error) {
	futures := make([]*Future, len(tasks))
	for i, t := range tasks {
		futures[i] = p.Submit(ctx, t)
	}
	results := make([]any, len(tasks))
	errs := make([]error, len(tasks))
	for i, f := range futures {
		results[i], errs[i] = f.Wait()
	}
	return results, errs
}

// QueueDepth returns the number of tasks currently queued but not yet
// picked up by a worker.
func (p *Pool) QueueDepth() int { return len(p.taskQueue) }

// Shutdown stops every worker once its current task (if any) completes
// and waits for them to exit. Queued-but-not-started tasks are abandoned;
// their Futures never resolve, so callers must not Shutdown while Waiting
// on an outstanding Future.
func (p *Pool) Shutdown() {
	close(p.shutdown)
	p.wg.Wait()
}
