package task

// State is a task lifecycle position. Transitions are strictly forward:
// Created -> Validated -> Queued -> Executing -> Completed -> Delivered -> Destroyed.
type State uint32

const (
	invalidState State = iota
	Created
	Validated
	Queued
	Executing
	Completed
	Delivered
	Destroyed
)

func (s State) prev() State {
	if s <= Created || s > Destroyed {
		return invalidState
	}
	return s - 1
}

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Validated:
		return "validated"
	case Queued:
		return "queued"
	case Executing:
		return "executing"
	case Completed:
		return "completed"
	case Delivered:
		return "delivered"
	case Destroyed:
		return "destroyed"
	default:
		return "invalid"
	}
}
