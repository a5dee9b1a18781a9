// Package pool provides the worker pool that executes tasks off the
// caller's goroutine.
//
// Key properties:
//   - Submit never blocks and never runs a task inline
//   - A bounded queue; overflow becomes an infrastructure fault, not a drop
//   - Each queued task is executed by exactly one worker, exactly once
//   - Close drains the queue before returning
package pool
