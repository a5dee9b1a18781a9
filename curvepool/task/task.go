// Package task defines the unit of work handed from the caller to the worker
// pool and back to the completion bridge.
//
// A Task owns private copies of its inputs. Ownership moves one way:
// caller -> pool -> bridge. The state field gates each handoff so that the
// body runs once and the continuation fires once.
package task

import (
	"bytes"
	stderrors "errors"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/primitive"
)

var (
	ErrIllegalTransition = stderrors.New("task: illegal state transition")
	ErrAlreadyDelivered  = stderrors.New("task: outcome already delivered")
	ErrNotCompleted      = stderrors.New("task: outcome not available")
)

// Kind is the operation a task performs.
type Kind uint8

const (
	ScalarMultiply Kind = iota + 1
	Sign
	Verify
)

func (k Kind) String() string {
	switch k {
	case ScalarMultiply:
		return "scalarmult"
	case Sign:
		return "sign"
	case Verify:
		return "verify"
	default:
		return "unknown"
	}
}

// Inputs returns how many byte buffers the kind takes.
func (k Kind) Inputs() int {
	switch k {
	case ScalarMultiply, Sign:
		return 2
	case Verify:
		return 3
	default:
		return 0
	}
}

// BytesCallback receives the outcome of ScalarMultiply and Sign.
type BytesCallback func(err error, out []byte)

// BoolCallback receives the outcome of Verify.
type BoolCallback func(err error, ok bool)

// Task is one queued cryptographic request.
type Task struct {
	ID     string
	Kind   Kind
	Inputs [][]byte

	onBytes BytesCallback
	onBool  BoolCallback

	state   atomic.Uint32
	outcome Outcome
}

func newID() string {
	return "task-" + uuid.New().String()[:8]
}

// NewBytes builds a ScalarMultiply or Sign task. Every input is copied.
func NewBytes(kind Kind, cb BytesCallback, inputs ...[]byte) (*Task, error) {
	if kind != ScalarMultiply && kind != Sign {
		return nil, errors.NewArgument(kind.String(), "kind does not produce bytes")
	}
	if cb == nil {
		return nil, errors.NewArgument(kind.String(), "missing continuation")
	}
	t, err := build(kind, inputs)
	if err != nil {
		return nil, err
	}
	t.onBytes = cb
	return t, nil
}

// NewBool builds a Verify task. Every input is copied.
func NewBool(cb BoolCallback, inputs ...[]byte) (*Task, error) {
	if cb == nil {
		return nil, errors.NewArgument(Verify.String(), "missing continuation")
	}
	t, err := build(Verify, inputs)
	if err != nil {
		return nil, err
	}
	t.onBool = cb
	return t, nil
}

func build(kind Kind, inputs [][]byte) (*Task, error) {
	if len(inputs) != kind.Inputs() {
		return nil, errors.NewArgument(kind.String(), "wrong number of arguments")
	}
	owned := make([][]byte, len(inputs))
	for i, in := range inputs {
		// exact length, never nil, never aliased
		owned[i] = make([]byte, len(in))
		copy(owned[i], in)
	}
	t := &Task{ID: newID(), Kind: kind, Inputs: owned}
	t.state.Store(uint32(Created))
	return t, nil
}

// State returns the current lifecycle state.
func (t *Task) State() State { return State(t.state.Load()) }

// Advance moves the task from the state directly preceding to into to.
func (t *Task) Advance(to State) error {
	from := to.prev()
	if from == invalidState || !t.state.CompareAndSwap(uint32(from), uint32(to)) {
		return ErrIllegalTransition
	}
	return nil
}

// Outcome returns the recorded outcome once the task has completed.
func (t *Task) Outcome() (Outcome, error) {
	if t.State() < Completed {
		return Outcome{}, ErrNotCompleted
	}
	return t.outcome, nil
}

// Execute runs the task body against p and records the outcome. It must be
// called by exactly one worker, after Advance(Executing).
func (t *Task) Execute(p primitive.Primitive) {
	switch t.Kind {
	case ScalarMultiply:
		out, st := p.ScalarMult(t.Inputs[0], t.Inputs[1])
		t.outcome = bytesOutcome(t.Kind, out, st, primitive.KeySize)
	case Sign:
		sig, st := p.Sign(t.Inputs[0], t.Inputs[1])
		t.outcome = bytesOutcome(t.Kind, sig, st, primitive.SignatureSize)
	case Verify:
		// A rejected signature is a successful call with a false result.
		t.outcome = Bool(p.Verify(t.Inputs[0], t.Inputs[1], t.Inputs[2]).OK())
	default:
		t.outcome = Failure(&errors.InfrastructureError{Op: t.Kind.String(), Err: ErrIllegalTransition})
	}
}

func bytesOutcome(kind Kind, out []byte, st primitive.Status, size int) Outcome {
	if !st.OK() {
		return Failure(&errors.OperationError{Op: kind.String(), Status: int(st)})
	}
	if len(out) != size {
		return Failure(&errors.OperationError{Op: kind.String(), Status: int(primitive.StatusBadLength)})
	}
	return Bytes(out)
}

// Fail records an infrastructure fault in place of an execution. Used when
// the task could not be scheduled or its body panicked.
func (t *Task) Fail(err error) {
	t.outcome = Failure(&errors.InfrastructureError{Op: t.Kind.String(), Err: err})
}

// Abort completes a task that never reached a worker, recording err as an
// infrastructure fault. Only the current owner may call it.
func (t *Task) Abort(err error) error {
	s := t.State()
	if s == invalidState || s >= Executing {
		return ErrIllegalTransition
	}
	t.Fail(err)
	if !t.state.CompareAndSwap(uint32(s), uint32(Completed)) {
		return ErrIllegalTransition
	}
	return nil
}

// Deliver invokes the continuation with the outcome. Only the first call
// after Completed has any effect.
func (t *Task) Deliver() error {
	if err := t.Advance(Delivered); err != nil {
		if t.State() >= Delivered {
			return ErrAlreadyDelivered
		}
		return err
	}
	defer t.destroy()

	o := t.outcome
	if err := o.Validate(t.Kind); err != nil {
		o = Failure(&errors.InfrastructureError{Op: t.Kind.String(), Err: err})
	}

	switch {
	case t.onBool != nil && o.Err != nil:
		t.onBool(o.Err, false)
	case t.onBool != nil:
		t.onBool(nil, o.OK)
	case o.Err != nil:
		t.onBytes(o.Err, nil)
	default:
		t.onBytes(nil, bytes.Clone(o.Bytes))
	}
	return nil
}

// destroy zeroes buffers that may hold secret material.
func (t *Task) destroy() {
	for _, in := range t.Inputs {
		clear(in)
	}
	t.Inputs = nil
	t.outcome = Outcome{}
	t.onBytes, t.onBool = nil, nil
	t.state.Store(uint32(Destroyed))
}
