package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsEveryTaskExactlyOnce(t *testing.T) {
	var runs atomic.Int64
	runner := RunnerFunc(func(ctx context.Context, task Task) (any, error) {
		runs.Add(1)
		return task.Payload, nil
	})

	p := New(2, runner, nil)
	defer p.Terminate()

	const tasks = 20
	handles := make([]*Handle, 0, tasks)
	for i := 0; i < tasks; i++ {
		handles = append(handles, p.Execute("echo", i))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i, h := range handles {
		result, err := h.Wait(ctx)
		if err != nil {
			t.Fatalf("task %d: %v", i, err)
		}
		if result != i {
			t.Errorf("task %d returned %v", i, result)
		}
	}
	if got := runs.Load(); got != tasks {
		t.Errorf("runner invoked %d times, want %d", got, tasks)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const size = 3

	var current, peak atomic.Int64
	runner := RunnerFunc(func(ctx context.Context, task Task) (any, error) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		current.Add(-1)
		return nil, nil
	})

	p := New(size, runner, nil)
	defer p.Terminate()

	var handles []*Handle
	for i := 0; i < size*4; i++ {
		handles = append(handles, p.Execute("busy", nil))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, h := range handles {
		if _, err := h.Wait(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if got := peak.Load(); got > size {
		t.Errorf("peak concurrency %d exceeds pool size %d", got, size)
	}
}

func TestPoolPropagatesTaskErrors(t *testing.T) {
	wantErr := errors.New("aggregation failed")
	runner := RunnerFunc(func(ctx context.Context, task Task) (any, error) {
		return nil, wantErr
	})

	p := New(1, runner, nil)
	defer p.Terminate()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := p.Execute("boom", nil).Wait(ctx); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestTerminateAbandonsQueuedTasks(t *testing.T) {
	gate := make(chan struct{})
	var started sync.WaitGroup
	started.Add(1)
	runner := RunnerFunc(func(ctx context.Context, task Task) (any, error) {
		started.Done()
		<-gate
		return "done", nil
	})

	p := New(1, runner, nil)

	inflight := p.Execute("slow", nil)
	started.Wait()
	queuedHandle := p.Execute("never", nil)

	p.Terminate()
	close(gate)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if result, err := inflight.Wait(ctx); err != nil || result != "done" {
		t.Errorf("in-flight task = %v, %v; want to run to completion", result, err)
	}

	short, cancelShort := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelShort()
	if _, err := queuedHandle.Wait(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("queued handle err = %v, want deadline exceeded", err)
	}
}

func TestExecuteAfterTerminate(t *testing.T) {
	p := New(1, RunnerFunc(func(ctx context.Context, task Task) (any, error) {
		return nil, nil
	}), nil)
	p.Terminate()

	handle := p.Execute("late", nil)
	short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := handle.Wait(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestHandleIDsAreUnique(t *testing.T) {
	p := New(1, RunnerFunc(func(ctx context.Context, task Task) (any, error) {
		return nil, nil
	}), nil)
	defer p.Terminate()

	a := p.Execute("x", nil)
	b := p.Execute("x", nil)
	if a.ID == b.ID {
		t.Error("handles share an id")
	}
}
