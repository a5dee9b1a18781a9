package curvepool

import (
	"context"
	"sync"

	"github.com/TheusHen/curvepool/curvepool/task"
)

// Future is the channel-shaped view of a single request. It resolves when the
// request's continuation runs on the engine's loop, so the loop must be driven
// (Start, or Run on another goroutine) for Await to return.
type Future[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(err error, v T) {
	f.once.Do(func() {
		f.err, f.val = err, v
		close(f.done)
	})
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await blocks until the result is available or ctx is done. Giving up does
// not cancel the request; its result is simply dropped when it arrives.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// ScalarMultiplyFuture is ScalarMultiply returning a Future.
func (e *Engine) ScalarMultiplyFuture(secret, basepoint []byte) (*Future[[]byte], error) {
	f := newFuture[[]byte]()
	if err := e.ScalarMultiply(secret, basepoint, f.resolve); err != nil {
		return nil, err
	}
	return f, nil
}

// SignFuture is Sign returning a Future.
func (e *Engine) SignFuture(privKey, msg []byte) (*Future[[]byte], error) {
	f := newFuture[[]byte]()
	if err := e.Sign(privKey, msg, f.resolve); err != nil {
		return nil, err
	}
	return f, nil
}

// VerifyFuture is Verify returning a Future.
func (e *Engine) VerifyFuture(sig, pubKey, msg []byte) (*Future[bool], error) {
	f := newFuture[bool]()
	if err := e.Verify(sig, pubKey, msg, task.BoolCallback(f.resolve)); err != nil {
		return nil, err
	}
	return f, nil
}
