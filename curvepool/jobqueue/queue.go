// Package jobqueue runs jobs serially per bucket.
//
// Jobs sharing a bucket run one at a time in the order they were enqueued.
// Jobs in different buckets run concurrently. A bucket exists only while it
// has work.
package jobqueue

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/TheusHen/curvepool/curvepool/errors"
)

// Job is one unit of bucketed work.
type Job func(ctx context.Context) (any, error)

// Result is what a job returned.
type Result struct {
	Value any
	Err   error
}

type entry struct {
	ctx  context.Context
	job  Job
	done chan Result
}

type bucket struct {
	jobs []entry
}

// Queue is safe for concurrent use. The zero value is not usable; call New.
type Queue struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	wg      sync.WaitGroup
	log     zerolog.Logger
}

func New(log zerolog.Logger) *Queue {
	return &Queue{
		buckets: make(map[string]*bucket),
		log:     log.With().Str("component", "jobqueue").Logger(),
	}
}

// Enqueue appends job to name's bucket and returns a channel that receives
// its result exactly once. A job whose ctx is done before it starts is not
// run; its result carries ctx.Err().
func (q *Queue) Enqueue(ctx context.Context, name string, job Job) <-chan Result {
	done := make(chan Result, 1)
	if job == nil {
		done <- Result{Err: errors.NewArgument("enqueue", "nil job")}
		return done
	}

	q.mu.Lock()
	b, active := q.buckets[name]
	if !active {
		b = &bucket{}
		q.buckets[name] = b
	}
	b.jobs = append(b.jobs, entry{ctx: ctx, job: job, done: done})
	if !active {
		q.wg.Add(1)
		go q.drain(name, b)
	}
	q.mu.Unlock()
	return done
}

func (q *Queue) drain(name string, b *bucket) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		if len(b.jobs) == 0 {
			delete(q.buckets, name)
			q.mu.Unlock()
			return
		}
		e := b.jobs[0]
		b.jobs[0] = entry{}
		b.jobs = b.jobs[1:]
		q.mu.Unlock()

		e.done <- q.run(name, e)
	}
}

func (q *Queue) run(name string, e entry) (res Result) {
	if err := e.ctx.Err(); err != nil {
		return Result{Err: err}
	}
	defer func() {
		if r := recover(); r != nil {
			q.log.Error().Str("bucket", name).Interface("panic", r).Msg("job panicked")
			res = Result{Err: fmt.Errorf("jobqueue: job panicked: %v", r)}
		}
	}()
	v, err := e.job(e.ctx)
	return Result{Value: v, Err: err}
}

// Buckets returns the number of buckets that currently have work.
func (q *Queue) Buckets() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buckets)
}

// Wait blocks until every bucket has drained.
func (q *Queue) Wait() { q.wg.Wait() }

// Do enqueues fn and waits for its typed result or for ctx to be done.
func Do[T any](ctx context.Context, q *Queue, name string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var res Result
	select {
	case res = <-q.Enqueue(ctx, name, func(ctx context.Context) (any, error) {
		return fn(ctx)
	}):
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if res.Err != nil {
		return zero, res.Err
	}
	v, ok := res.Value.(T)
	if !ok {
		return zero, nil
	}
	return v, nil
}
