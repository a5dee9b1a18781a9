package curvepool

import (
	"slices"

	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/task"
	"github.com/TheusHen/curvepool/curvepool/validate"
)

// Names under which the operations are exported to dynamic callers.
const (
	ExportScalarMultiply = "curve25519_donna"
	ExportSign           = "curve25519_sign"
	ExportVerify         = "curve25519_verify"
)

var exports = map[string]task.Kind{ //nolint:gochecknoglobals // fixed export table
	ExportScalarMultiply: task.ScalarMultiply,
	ExportSign:           task.Sign,
	ExportVerify:         task.Verify,
}

// Exports lists the names accepted by Call, sorted.
func Exports() []string {
	names := make([]string, 0, len(exports))
	for name := range exports {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Call invokes an exported operation with positional arguments, the last of
// which is the continuation:
//
//	curve25519_donna(secret, basepoint, func(error, []byte))
//	curve25519_sign(privKey, msg, func(error, []byte))
//	curve25519_verify(sig, pubKey, msg, func(error, bool))
//
// Buffers may be []byte or 32/64-byte arrays (or pointers to them).
func (e *Engine) Call(name string, args ...any) error {
	kind, ok := exports[name]
	if !ok {
		return e.rejected(errors.NewArgument(name, "unknown function"))
	}
	req, err := validate.Args(kind, args)
	if err != nil {
		return e.rejected(err)
	}
	return e.submit(req)
}
