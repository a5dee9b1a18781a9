package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/primitive"
	"github.com/TheusHen/curvepool/curvepool/task"
)

// collectSink records completed tasks; tests deliver them explicitly.
type collectSink struct {
	mu    sync.Mutex
	tasks []*task.Task
}

func (s *collectSink) Complete(t *task.Task) {
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
}

func (s *collectSink) deliverAll(t *testing.T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tk := range s.tasks {
		require.NoError(t, tk.Deliver())
	}
	s.tasks = nil
}

func (s *collectSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// gatedPrimitive blocks every call until release is closed and tracks how
// many calls overlap.
type gatedPrimitive struct {
	release chan struct{}
	active  atomic.Int32
	peak    atomic.Int32
	calls   atomic.Int32
	panics  bool
}

func newGated() *gatedPrimitive { return &gatedPrimitive{release: make(chan struct{})} }

func (g *gatedPrimitive) enter() {
	cur := g.active.Add(1)
	for {
		p := g.peak.Load()
		if cur <= p || g.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	g.calls.Add(1)
	<-g.release
	g.active.Add(-1)
	if g.panics {
		panic("primitive exploded")
	}
}

func (g *gatedPrimitive) ScalarMult(secret, _ []byte) ([]byte, primitive.Status) {
	g.enter()
	return append([]byte(nil), secret...), primitive.StatusOK
}

func (g *gatedPrimitive) Sign(_, _ []byte) ([]byte, primitive.Status) {
	g.enter()
	return make([]byte, primitive.SignatureSize), primitive.StatusOK
}

func (g *gatedPrimitive) Verify(_, _, _ []byte) primitive.Status {
	g.enter()
	return primitive.StatusOK
}

func newTask(t *testing.T, marker byte) *task.Task {
	t.Helper()
	secret := make([]byte, 32)
	secret[0] = marker
	tk, err := task.NewBytes(task.ScalarMultiply, func(error, []byte) {}, secret, primitive.Basepoint[:])
	require.NoError(t, err)
	require.NoError(t, tk.Advance(task.Validated))
	return tk
}

func TestSubmitDoesNotBlockOrRunInline(t *testing.T) {
	g := newGated()
	sink := &collectSink{}
	p := New(g, sink, WithWorkers(2))
	p.Start(context.Background())

	require.NoError(t, p.Submit(newTask(t, 1)))
	assert.Equal(t, int64(1), p.Submitted())
	assert.Equal(t, 0, sink.len(), "task must not complete before the primitive returns")

	close(g.release)
	require.Eventually(t, func() bool { return sink.len() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, p.Close())
	assert.Equal(t, int64(1), p.Completed())
}

func TestTasksExecuteInParallel(t *testing.T) {
	g := newGated()
	sink := &collectSink{}
	p := New(g, sink, WithWorkers(4))
	p.Start(context.Background())

	for i := 0; i < 4; i++ {
		require.NoError(t, p.Submit(newTask(t, byte(i))))
	}
	require.Eventually(t, func() bool { return g.active.Load() == 4 }, time.Second, time.Millisecond)
	close(g.release)
	require.NoError(t, p.Close())

	assert.Equal(t, int32(4), g.peak.Load())
	assert.Equal(t, 4, sink.len())
}

func TestQueueFullBecomesInfrastructureFault(t *testing.T) {
	g := newGated()
	sink := &collectSink{}
	p := New(g, sink, WithWorkers(1), WithQueueSize(1))
	p.Start(context.Background())

	// One task occupies the worker, one fills the queue.
	require.NoError(t, p.Submit(newTask(t, 1)))
	require.Eventually(t, func() bool { return g.active.Load() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, p.Submit(newTask(t, 2)))

	var gotErr error
	tk, err := task.NewBytes(task.Sign, func(err error, _ []byte) { gotErr = err }, nil, nil)
	require.NoError(t, err)
	require.NoError(t, tk.Advance(task.Validated))
	require.NoError(t, p.Submit(tk))
	assert.Equal(t, int64(1), p.Rejected())

	close(g.release)
	require.NoError(t, p.Close())
	sink.deliverAll(t)

	assert.True(t, errors.IsInfrastructure(gotErr))
	assert.ErrorIs(t, gotErr, ErrQueueFull)
	assert.Equal(t, int32(2), g.calls.Load(), "rejected task never reaches the primitive")
}

func TestSubmitAfterCloseIsDeliveredAsFault(t *testing.T) {
	sink := &collectSink{}
	p := New(primitive.NewCurve25519(nil), sink, WithWorkers(1))
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	var gotErr error
	tk, err := task.NewBool(func(err error, _ bool) { gotErr = err }, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, tk.Advance(task.Validated))
	require.NoError(t, p.Submit(tk))

	sink.deliverAll(t)
	assert.ErrorIs(t, gotErr, ErrPoolClosed)
}

func TestCloseDrainsQueuedTasks(t *testing.T) {
	sink := &collectSink{}
	p := New(primitive.NewCurve25519(nil), sink, WithWorkers(2), WithQueueSize(64))

	// Never started: Close must still run everything queued.
	for i := 0; i < 32; i++ {
		require.NoError(t, p.Submit(newTask(t, byte(i+1))))
	}
	require.NoError(t, p.Close())
	assert.Equal(t, 32, sink.len())
	assert.Equal(t, int64(32), p.Completed())
}

func TestContextCancelClosesPool(t *testing.T) {
	sink := &collectSink{}
	p := New(primitive.NewCurve25519(nil), sink, WithWorkers(1))
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()

	require.Eventually(t, p.closed.Load, time.Second, time.Millisecond)
	require.NoError(t, p.Submit(newTask(t, 1)))
	assert.Equal(t, int64(1), p.Rejected())
	assert.Equal(t, 1, sink.len())
}

func TestWorkerPanicIsRecovered(t *testing.T) {
	g := newGated()
	g.panics = true
	close(g.release)

	sink := &collectSink{}
	p := New(g, sink, WithWorkers(1))
	p.Start(context.Background())

	var gotErr error
	tk, err := task.NewBytes(task.Sign, func(err error, _ []byte) { gotErr = err }, nil, nil)
	require.NoError(t, err)
	require.NoError(t, tk.Advance(task.Validated))
	require.NoError(t, p.Submit(tk))
	require.NoError(t, p.Close())

	sink.deliverAll(t)
	assert.True(t, errors.IsInfrastructure(gotErr))
	assert.ErrorIs(t, gotErr, ErrWorkerPanic)
}

func TestDefaults(t *testing.T) {
	p := New(primitive.NewCurve25519(nil), &collectSink{}, WithWorkers(0))
	defer p.Close()
	assert.Positive(t, p.Workers())
	assert.Equal(t, 0, p.QueueLen())
	assert.Equal(t, p.Workers()*64, p.QueueCap())

	sized := New(primitive.NewCurve25519(nil), &collectSink{}, WithWorkers(2), WithQueueSize(5))
	defer sized.Close()
	assert.Equal(t, 5, sized.QueueCap())
}

func BenchmarkPoolScalarMult(b *testing.B) {
	sink := &countSink{}
	p := New(primitive.NewCurve25519(nil), sink, WithQueueSize(b.N+1))
	p.Start(context.Background())
	kp, _ := primitive.GenerateKeyPair(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tk, _ := task.NewBytes(task.ScalarMultiply, func(error, []byte) {}, kp.PrivateKey[:], primitive.Basepoint[:])
		_ = tk.Advance(task.Validated)
		_ = p.Submit(tk)
	}
	_ = p.Close()
}

type countSink struct{ n atomic.Int64 }

func (c *countSink) Complete(*task.Task) { c.n.Add(1) }
