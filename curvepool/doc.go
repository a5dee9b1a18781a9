// Package curvepool offloads Curve25519 key agreement, signing and
// verification onto a pool of worker goroutines.
//
// Requests are validated synchronously, copied into a task, executed off the
// caller's goroutine and delivered back through a completion loop that the
// caller drains. Every accepted request invokes its continuation exactly once
// with either an error or a result, never both.
//
//	e, _ := curvepool.New()
//	defer e.Close()
//	_ = e.ScalarMultiply(priv, primitive.Basepoint[:], func(err error, pub []byte) { ... })
//	e.Run(ctx) // continuations run here, one at a time
package curvepool
