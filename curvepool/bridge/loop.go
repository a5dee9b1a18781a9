// Package bridge delivers completed tasks back to the caller's goroutine.
//
// A Loop stands in for the caller's single logical thread. Workers post
// completed tasks from any goroutine. The caller drains them with Run or
// RunPending, and every continuation runs on that draining goroutine, one
// at a time, in completion order.
package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/TheusHen/curvepool/curvepool/task"
)

var ErrLoopClosed = errors.New("bridge: loop closed")

// Loop is an unbounded FIFO of completed tasks plus a delivery driver.
type Loop struct {
	mu      sync.Mutex
	pending []*task.Task
	closed  bool
	wake    chan struct{}
	done    chan struct{}

	// running serializes delivery when several goroutines drain at once.
	// Continuations must not drain the loop themselves.
	running sync.Mutex

	delivered atomic.Uint64
	log       zerolog.Logger
}

// NewLoop returns an empty loop.
func NewLoop(log zerolog.Logger) *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		log:  log.With().Str("component", "bridge").Logger(),
	}
}

// Complete posts a completed task. It never blocks, so workers are not held
// up by a slow caller. Tasks posted after Close are still delivered by a
// final RunPending.
func (l *Loop) Complete(t *task.Task) {
	l.mu.Lock()
	l.pending = append(l.pending, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) take() []*task.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.pending
	l.pending = nil
	return batch
}

// RunPending delivers every task queued at the time of the call and returns
// how many continuations ran. It does not block waiting for new work.
func (l *Loop) RunPending() int {
	l.running.Lock()
	defer l.running.Unlock()

	n := 0
	for _, t := range l.take() {
		l.deliver(t)
		n++
	}
	l.delivered.Add(uint64(n))
	return n
}

func (l *Loop) deliver(t *task.Task) {
	id, kind := t.ID, t.Kind
	// A panicking continuation must not strand the rest of the batch.
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Interface("panic", r).Str("task_id", id).Stringer("kind", kind).Msg("continuation panicked")
		}
	}()
	if err := t.Deliver(); err != nil {
		l.log.Error().Err(err).Str("task_id", id).Stringer("kind", kind).Msg("delivery refused")
		return
	}
	l.log.Debug().Str("task_id", id).Stringer("kind", kind).Msg("continuation invoked")
}

// Run delivers completions on the calling goroutine until ctx is done or the
// loop is closed. Work pending at close is delivered before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()
		select {
		case <-l.wake:
		case <-l.done:
			l.RunPending()
			return ErrLoopClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Wait drains the loop on the calling goroutine until at least n
// continuations have run in this call or ctx is done.
func (l *Loop) Wait(ctx context.Context, n int) error {
	ran := 0
	for {
		ran += l.RunPending()
		if ran >= n {
			return nil
		}
		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Pending returns the number of completed tasks awaiting delivery.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Delivered returns the number of tasks handed to RunPending so far.
func (l *Loop) Delivered() uint64 { return l.delivered.Load() }

// Close stops Run. It does not discard pending work.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	close(l.done)
}
