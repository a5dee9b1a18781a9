// Package validate checks requests before any task is built.
//
// Validation is synchronous and has no side effects: a rejected request never
// reaches the worker pool and its continuation is never invoked.
//
// Only ScalarMultiply's inputs are length-checked. Sign and Verify keys are
// passed through unchecked, and the primitive reports a bad length as a
// status instead.
package validate

import (
	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/primitive"
	"github.com/TheusHen/curvepool/curvepool/task"
)

const (
	ReasonArity   = "wrong number of arguments"
	ReasonTypes   = "wrong arguments"
	ReasonLength  = "inputs must be 32 bytes"
	ReasonNoReply = "missing continuation"
)

// Request is a validated call, ready for task construction.
type Request struct {
	Kind    task.Kind
	Inputs  [][]byte
	OnBytes task.BytesCallback
	OnBool  task.BoolCallback
}

// ScalarMultiply checks the fixed 32-byte contract of secret and basepoint.
func ScalarMultiply(secret, basepoint []byte, cb task.BytesCallback) (Request, error) {
	op := task.ScalarMultiply.String()
	if cb == nil {
		return Request{}, errors.NewArgument(op, ReasonNoReply)
	}
	if len(secret) != primitive.KeySize || len(basepoint) != primitive.KeySize {
		return Request{}, errors.NewArgument(op, ReasonLength)
	}
	return Request{Kind: task.ScalarMultiply, Inputs: [][]byte{secret, basepoint}, OnBytes: cb}, nil
}

// Sign accepts any key and message length.
func Sign(privKey, msg []byte, cb task.BytesCallback) (Request, error) {
	if cb == nil {
		return Request{}, errors.NewArgument(task.Sign.String(), ReasonNoReply)
	}
	return Request{Kind: task.Sign, Inputs: [][]byte{privKey, msg}, OnBytes: cb}, nil
}

// Verify accepts any signature, key and message length.
func Verify(sig, pubKey, msg []byte, cb task.BoolCallback) (Request, error) {
	if cb == nil {
		return Request{}, errors.NewArgument(task.Verify.String(), ReasonNoReply)
	}
	return Request{Kind: task.Verify, Inputs: [][]byte{sig, pubKey, msg}, OnBool: cb}, nil
}

// Task builds the task for a validated request and marks it Validated.
func (r Request) Task() (*task.Task, error) {
	var (
		t   *task.Task
		err error
	)
	if r.Kind == task.Verify {
		t, err = task.NewBool(r.OnBool, r.Inputs...)
	} else {
		t, err = task.NewBytes(r.Kind, r.OnBytes, r.Inputs...)
	}
	if err != nil {
		return nil, err
	}
	if err := t.Advance(task.Validated); err != nil {
		return nil, err
	}
	return t, nil
}
