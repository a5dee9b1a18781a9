package validate

import (
	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/task"
)

// Args validates a dynamically typed positional call: the byte inputs of op
// followed by one continuation.
func Args(op task.Kind, args []any) (Request, error) {
	name := op.String()
	n := op.Inputs()
	if n == 0 {
		return Request{}, errors.NewArgument(name, "unknown operation")
	}
	if len(args) != n+1 {
		return Request{}, errors.NewArgument(name, ReasonArity)
	}

	inputs := make([][]byte, n)
	for i := 0; i < n; i++ {
		b, ok := Buffer(args[i])
		if !ok {
			return Request{}, errors.NewArgument(name, ReasonTypes)
		}
		inputs[i] = b
	}

	last := args[n]
	switch op {
	case task.ScalarMultiply:
		cb, ok := bytesCallback(last)
		if !ok {
			return Request{}, errors.NewArgument(name, ReasonTypes)
		}
		return ScalarMultiply(inputs[0], inputs[1], cb)
	case task.Sign:
		cb, ok := bytesCallback(last)
		if !ok {
			return Request{}, errors.NewArgument(name, ReasonTypes)
		}
		return Sign(inputs[0], inputs[1], cb)
	default:
		cb, ok := boolCallback(last)
		if !ok {
			return Request{}, errors.NewArgument(name, ReasonTypes)
		}
		return Verify(inputs[0], inputs[1], inputs[2], cb)
	}
}

// Buffer reports whether v is byte-buffer-like and returns a view of it.
// Array values are addressed through a copy; the task copies again anyway.
func Buffer(v any) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case [32]byte:
		return b[:], true
	case *[32]byte:
		if b == nil {
			return nil, false
		}
		return b[:], true
	case [64]byte:
		return b[:], true
	case *[64]byte:
		if b == nil {
			return nil, false
		}
		return b[:], true
	default:
		return nil, false
	}
}

func bytesCallback(v any) (task.BytesCallback, bool) {
	switch cb := v.(type) {
	case task.BytesCallback:
		return cb, cb != nil
	case func(error, []byte):
		return cb, cb != nil
	default:
		return nil, false
	}
}

func boolCallback(v any) (task.BoolCallback, bool) {
	switch cb := v.(type) {
	case task.BoolCallback:
		return cb, cb != nil
	case func(error, bool):
		return cb, cb != nil
	default:
		return nil, false
	}
}
