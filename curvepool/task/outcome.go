package task

import stderrors "errors"

var ErrOutcomeShape = stderrors.New("task: outcome does not match kind")

// OutcomeKind tags which field of an Outcome is populated.
type OutcomeKind uint8

const (
	OutcomeEmpty OutcomeKind = iota
	OutcomeBytes
	OutcomeBool
	OutcomeFailure
)

// Outcome is the tagged result of a task.
type Outcome struct {
	Kind  OutcomeKind
	Bytes []byte
	OK    bool
	Err   error
}

func Bytes(b []byte) Outcome { return Outcome{Kind: OutcomeBytes, Bytes: b} }

func Bool(v bool) Outcome { return Outcome{Kind: OutcomeBool, OK: v} }

func Failure(err error) Outcome { return Outcome{Kind: OutcomeFailure, Err: err} }

// Validate checks the exactly-one invariant against the task kind.
func (o Outcome) Validate(k Kind) error {
	switch o.Kind {
	case OutcomeFailure:
		if o.Err == nil || o.Bytes != nil {
			return ErrOutcomeShape
		}
		return nil
	case OutcomeBytes:
		if (k != ScalarMultiply && k != Sign) || o.Bytes == nil || o.Err != nil {
			return ErrOutcomeShape
		}
		return nil
	case OutcomeBool:
		if k != Verify || o.Bytes != nil || o.Err != nil {
			return ErrOutcomeShape
		}
		return nil
	default:
		return ErrOutcomeShape
	}
}
