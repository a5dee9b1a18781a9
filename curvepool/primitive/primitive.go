package primitive

import "strconv"

const (
	// KeySize is the size of X25519 scalars, u-coordinates and shared secrets.
	KeySize = 32
	// SignatureSize is the size of an XEdDSA signature (R || s).
	SignatureSize = 64
)

// Status is the result code of a primitive call. Zero means success.
type Status int

const (
	StatusOK          Status = 0
	StatusBadLength   Status = -1
	StatusBadPoint    Status = -2
	StatusRandFailure Status = -3
	StatusBadSig      Status = -4
)

// OK reports whether the call succeeded.
func (s Status) OK() bool { return s == StatusOK }

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBadLength:
		return "bad length"
	case StatusBadPoint:
		return "bad point"
	case StatusRandFailure:
		return "randomness failure"
	case StatusBadSig:
		return "bad signature"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Primitive is the contract of the external cryptographic library.
// Implementations must be safe for concurrent use and must not retain the
// slices they are given.
type Primitive interface {
	// ScalarMult multiplies the 32-byte secret by the 32-byte basepoint and
	// returns the 32-byte u-coordinate of the result.
	ScalarMult(secret, basepoint []byte) ([]byte, Status)

	// Sign returns a 64-byte signature of msg under the Montgomery private key.
	Sign(privKey, msg []byte) ([]byte, Status)

	// Verify checks sig over msg against the Montgomery public key.
	Verify(sig, pubKey, msg []byte) Status
}
