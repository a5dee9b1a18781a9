package curvepool

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/TheusHen/curvepool/curvepool/bridge"
	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/pool"
	"github.com/TheusHen/curvepool/curvepool/primitive"
	"github.com/TheusHen/curvepool/curvepool/task"
	"github.com/TheusHen/curvepool/curvepool/validate"
)

// Engine accepts requests from the caller, runs them on the worker pool and
// hands completions back through its Loop.
type Engine struct {
	prim primitive.Primitive
	pool *pool.Pool
	loop *bridge.Loop
	log  zerolog.Logger

	closed    atomic.Bool
	closeOnce sync.Once
	bgCancel  context.CancelFunc
	bgDone    chan struct{}
	mu        sync.Mutex
}

// New builds an engine and starts its workers. Continuations do not run until
// the caller drains the loop with Run, RunPending or Start.
func New(opts ...Option) (*Engine, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 0 || o.queueSize < 0 {
		return nil, errors.Wrapf(errors.ErrConfigInvalidPool,
			"workers and queue size must not be negative, got %d and %d", o.workers, o.queueSize)
	}
	if o.prim == nil {
		o.prim = primitive.NewCurve25519(nil)
	}

	loop := bridge.NewLoop(o.log)
	p := pool.New(o.prim, loop,
		pool.WithWorkers(o.workers),
		pool.WithQueueSize(o.queueSize),
		pool.WithLogger(o.log),
	)
	p.Start(context.Background())

	e := &Engine{
		prim: o.prim,
		pool: p,
		loop: loop,
		log:  o.log.With().Str("component", "engine").Logger(),
	}
	e.log.Debug().Int("workers", p.Workers()).Msg("engine started")
	return e, nil
}

// ScalarMultiply computes the X25519 function of secret and basepoint, both
// exactly 32 bytes. An ArgumentError is returned for bad input and an
// InfrastructureError wrapping pool.ErrPoolClosed once the engine is closed;
// in both cases cb is never invoked. Every other outcome reaches cb.
func (e *Engine) ScalarMultiply(secret, basepoint []byte, cb task.BytesCallback) error {
	req, err := validate.ScalarMultiply(secret, basepoint, cb)
	if err != nil {
		return e.rejected(err)
	}
	return e.submit(req)
}

// Sign produces a 64-byte XEdDSA signature of msg under the Montgomery
// private key privKey.
func (e *Engine) Sign(privKey, msg []byte, cb task.BytesCallback) error {
	req, err := validate.Sign(privKey, msg, cb)
	if err != nil {
		return e.rejected(err)
	}
	return e.submit(req)
}

// Verify checks sig over msg against the Montgomery public key pubKey. A bad
// signature is reported as (nil, false), not as an error.
func (e *Engine) Verify(sig, pubKey, msg []byte, cb task.BoolCallback) error {
	req, err := validate.Verify(sig, pubKey, msg, cb)
	if err != nil {
		return e.rejected(err)
	}
	return e.submit(req)
}

func (e *Engine) rejected(err error) error {
	e.log.Debug().Err(err).Msg("request rejected")
	return err
}

func (e *Engine) submit(req validate.Request) error {
	if e.closed.Load() {
		return e.rejected(&errors.InfrastructureError{Op: req.Kind.String(), Err: pool.ErrPoolClosed})
	}
	t, err := req.Task()
	if err != nil {
		return e.rejected(err)
	}
	// Submit only fails on a task in the wrong state, which Task() rules out.
	if err := e.pool.Submit(t); err != nil {
		return errors.Wrapf(err, "submit %s", t.ID)
	}
	return nil
}

// Loop returns the completion loop for callers that drive it themselves.
func (e *Engine) Loop() *bridge.Loop { return e.loop }

// Run delivers continuations on the calling goroutine until ctx is done or
// the engine is closed.
func (e *Engine) Run(ctx context.Context) error { return e.loop.Run(ctx) }

// RunPending delivers every completion available now and returns the count.
func (e *Engine) RunPending() int { return e.loop.RunPending() }

// Start drives the loop on a dedicated goroutine, for callers that have no
// loop of their own. Continuations still never run concurrently. Calling
// Start more than once has no further effect.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bgDone != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	e.bgCancel = cancel
	e.bgDone = make(chan struct{})
	go func() {
		defer close(e.bgDone)
		if err := e.loop.Run(ctx); err != nil && !stderrors.Is(err, bridge.ErrLoopClosed) && ctx.Err() == nil {
			e.log.Error().Err(err).Msg("completion loop stopped")
		}
	}()
}

// Close stops accepting work, waits for every queued task to run and then
// closes the loop. Completions still pending are delivered by Run before it
// returns, by the Start goroutine, or by a later RunPending. Requests made
// after Close fail synchronously.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		err = e.pool.Close()
		e.loop.Close()

		e.mu.Lock()
		done := e.bgDone
		e.mu.Unlock()
		if done != nil {
			<-done
			e.bgCancel()
		}
		e.log.Debug().Uint64("delivered", e.loop.Delivered()).Msg("engine closed")
	})
	return err
}

// Stats is a point-in-time snapshot of engine counters.
type Stats struct {
	Workers   int
	Queued    int
	QueueSize int
	Submitted int64
	Completed int64
	Rejected  int64
	Pending   int
	Delivered uint64
}

// Stats returns current counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Workers:   e.pool.Workers(),
		Queued:    e.pool.QueueLen(),
		QueueSize: e.pool.QueueCap(),
		Submitted: e.pool.Submitted(),
		Completed: e.pool.Completed(),
		Rejected:  e.pool.Rejected(),
		Pending:   e.loop.Pending(),
		Delivered: e.loop.Delivered(),
	}
}
