package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/TheusHen/curvepool/curvepool/primitive"
	"github.com/TheusHen/curvepool/curvepool/task"
)

var (
	ErrPoolClosed  = errors.New("pool: closed")
	ErrQueueFull   = errors.New("pool: queue full")
	ErrWorkerPanic = errors.New("pool: worker panicked")
)

// Sink receives every task once it has reached Completed, whether it ran or
// was rejected at submission.
type Sink interface {
	Complete(t *task.Task)
}

// Pool runs tasks on a fixed set of worker goroutines.
// Only the queue handoff is serialized; task bodies run in parallel.
type Pool struct {
	prim    primitive.Primitive
	sink    Sink
	workers int
	queue   chan *task.Task
	log     zerolog.Logger

	mu        sync.Mutex
	closed    atomic.Bool
	startOnce sync.Once
	stop      func() bool
	wg        sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
	rejected  atomic.Int64
}

// New creates a pool executing against p and handing results to sink.
// Workers are not running until Start is called.
func New(p primitive.Primitive, sink Sink, opts ...Option) *Pool {
	o := options{workers: runtime.GOMAXPROCS(0), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.queueSize <= 0 {
		o.queueSize = o.workers * 64
	}
	return &Pool{
		prim:    p,
		sink:    sink,
		workers: o.workers,
		queue:   make(chan *task.Task, o.queueSize),
		log:     o.log.With().Str("component", "pool").Logger(),
	}
}

// Start launches the workers. Cancelling ctx closes the pool; tasks already
// queued still run to completion.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(p.spawn)
	p.mu.Lock()
	if p.stop == nil && !p.closed.Load() {
		p.stop = context.AfterFunc(ctx, func() { _ = p.Close() })
	}
	p.mu.Unlock()
}

// Submit hands t to the pool without blocking. A task that cannot be queued
// is completed with an infrastructure fault and passed to the sink, so its
// continuation still fires exactly once.
func (p *Pool) Submit(t *task.Task) error {
	p.mu.Lock()
	if p.closed.Load() {
		p.mu.Unlock()
		return p.reject(t, ErrPoolClosed)
	}
	// Only senders hold mu, so a free slot cannot disappear before the send.
	if len(p.queue) == cap(p.queue) {
		p.mu.Unlock()
		return p.reject(t, ErrQueueFull)
	}
	if err := t.Advance(task.Queued); err != nil {
		p.mu.Unlock()
		return err
	}
	p.queue <- t
	p.mu.Unlock()

	p.submitted.Add(1)
	p.log.Debug().Str("task_id", t.ID).Stringer("kind", t.Kind).Msg("task queued")
	return nil
}

func (p *Pool) reject(t *task.Task, cause error) error {
	if err := t.Abort(cause); err != nil {
		return err
	}
	p.rejected.Add(1)
	p.log.Warn().Err(cause).Str("task_id", t.ID).Stringer("kind", t.Kind).Msg("task rejected")
	p.sink.Complete(t)
	return nil
}

func (p *Pool) spawn() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Debug().Int("workers", p.workers).Int("queue", cap(p.queue)).Msg("worker pool started")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for t := range p.queue {
		p.execute(id, t)
	}
}

func (p *Pool) execute(id int, t *task.Task) {
	if err := t.Advance(task.Executing); err != nil {
		p.log.Error().Err(err).Str("task_id", t.ID).Stringer("state", t.State()).Msg("task not runnable")
		return
	}

	start := time.Now()
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fail(fmt.Errorf("%w: %v", ErrWorkerPanic, r))
			}
		}()
		t.Execute(p.prim)
	}()

	if err := t.Advance(task.Completed); err != nil {
		p.log.Error().Err(err).Str("task_id", t.ID).Msg("task completion out of order")
		return
	}
	p.completed.Add(1)
	p.log.Debug().
		Int("worker", id).
		Str("task_id", t.ID).
		Stringer("kind", t.Kind).
		Dur("took", time.Since(start)).
		Msg("task executed")
	p.sink.Complete(t)
}

// Close stops accepting tasks, runs everything already queued and waits for
// the workers to exit. It is safe to call more than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed.Swap(true) {
		p.mu.Unlock()
		return nil
	}
	close(p.queue)
	if p.stop != nil {
		p.stop()
	}
	p.mu.Unlock()

	// Queued tasks must still run even if Start was never called.
	p.startOnce.Do(p.spawn)
	p.wg.Wait()
	p.log.Debug().
		Int64("submitted", p.submitted.Load()).
		Int64("completed", p.completed.Load()).
		Int64("rejected", p.rejected.Load()).
		Msg("worker pool closed")
	return nil
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// QueueLen returns the number of tasks waiting for a worker.
func (p *Pool) QueueLen() int { return len(p.queue) }

// QueueCap returns how many tasks the queue holds before Submit rejects.
func (p *Pool) QueueCap() int { return cap(p.queue) }

// Submitted returns the number of tasks accepted into the queue.
func (p *Pool) Submitted() int64 { return p.submitted.Load() }

// Completed returns the number of task bodies that finished.
func (p *Pool) Completed() int64 { return p.completed.Load() }

// Rejected returns the number of tasks refused at submission.
func (p *Pool) Rejected() int64 { return p.rejected.Load() }
