// Package primitive provides the Curve25519 primitives executed by the worker pool.
//
// The pool only depends on the Primitive interface; Curve25519 is the default backend:
//   - Key agreement via X25519 (RFC 7748)
//   - Signatures via XEdDSA over Montgomery keys, so one key pair serves both
//     agreement and signing
//   - Verification as plain Ed25519 after converting the Montgomery u-coordinate
//
// Primitives report a Status instead of an error and never panic on malformed input.
package primitive
