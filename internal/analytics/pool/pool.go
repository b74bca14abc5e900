// Package pool implements a fixed-size worker pool with an unbounded FIFO
// queue. Each worker runs one task at a time; tasks queued at termination
// are abandoned, never rejected, so callers race Wait against their own
// timeout when they need a deterministic failure signal.
package pool

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"stageflow_backend/platform/logger"
)

// DefaultSize is the worker count used when the configured size is invalid.
const DefaultSize = 4

// Task is a self-contained unit of work. Payload must carry everything the
// runner needs; workers share no state between tasks.
type Task struct {
	Kind    string
	Payload any
}

// Runner executes a task and returns its result.
type Runner interface {
	Run(ctx context.Context, task Task) (any, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, task Task) (any, error)

func (f RunnerFunc) Run(ctx context.Context, task Task) (any, error) {
	return f(ctx, task)
}

// Handle is the pending result of a submitted task.
type Handle struct {
	ID   uuid.UUID
	Kind string

	done   chan struct{}
	result any
	err    error
}

func newHandle(task Task) *Handle {
	return &Handle{
		ID:   uuid.New(),
		Kind: task.Kind,
		done: make(chan struct{}),
	}
}

func (h *Handle) complete(result any, err error) {
	h.result = result
	h.err = err
	close(h.done)
}

// Done is closed when the task has finished.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task finishes or the context ends. An abandoned
// handle only ever returns via the context.
func (h *Handle) Wait(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type queued struct {
	task   Task
	handle *Handle
}

// Pool dispatches tasks to a fixed number of workers.
type Pool struct {
	runner Runner
	log    *logger.Logger

	mu         sync.Mutex
	cond       *sync.Cond
	queue      []queued
	terminated bool
}

// New starts a pool of size workers. Sizes below 1 fall back to DefaultSize.
func New(size int, runner Runner, log *logger.Logger) *Pool {
	if size < 1 {
		size = DefaultSize
	}
	p := &Pool{runner: runner, log: log}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < size; i++ {
		go p.worker(i)
	}
	return p
}

// Execute submits a task and returns its pending handle. The task runs
// immediately when a worker is idle and queues FIFO otherwise. Submitting
// to a terminated pool returns an abandoned handle.
func (p *Pool) Execute(kind string, payload any) *Handle {
	task := Task{Kind: kind, Payload: payload}
	handle := newHandle(task)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminated {
		return handle
	}
	p.queue = append(p.queue, queued{task: task, handle: handle})
	p.cond.Signal()
	return handle
}

// Terminate stops all workers and discards the pending queue. In-flight
// tasks run to completion on their worker; queued handles are abandoned.
func (p *Pool) Terminate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminated = true
	p.queue = nil
	p.cond.Broadcast()
}

func (p *Pool) worker(id int) {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.terminated {
			p.cond.Wait()
		}
		if p.terminated {
			p.mu.Unlock()
			return
		}
		next := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(id, next)
	}
}

func (p *Pool) run(worker int, item queued) {
	// Tasks are not cancellable; a caller that gives up leaves the worker
	// to finish the task and reclaim itself.
	result, err := p.runner.Run(context.Background(), item.task)
	if err != nil && p.log != nil {
		p.log.Error("analytics task failed",
			"task_id", item.handle.ID.String(),
			"kind", item.task.Kind,
			"worker", worker,
			"error", err,
		)
	}
	item.handle.complete(result, err)
}
