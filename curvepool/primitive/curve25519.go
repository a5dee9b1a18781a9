package primitive

import (
	"crypto/rand"
	"io"
)

// Curve25519 is the default Primitive: X25519 agreement and XEdDSA signatures.
type Curve25519 struct {
	rand io.Reader
}

var _ Primitive = (*Curve25519)(nil)

// NewCurve25519 returns a backend drawing signature nonces from r.
// A nil reader selects crypto/rand.
func NewCurve25519(r io.Reader) *Curve25519 {
	if r == nil {
		r = rand.Reader
	}
	return &Curve25519{rand: r}
}

func (c *Curve25519) ScalarMult(secret, basepoint []byte) ([]byte, Status) {
	return x25519(secret, basepoint)
}

func (c *Curve25519) Sign(privKey, msg []byte) ([]byte, Status) {
	if len(privKey) != KeySize {
		return nil, StatusBadLength
	}
	z, ok := readNonce(c.rand)
	if !ok {
		return nil, StatusRandFailure
	}
	return xeddsaSign(privKey, msg, z)
}

func (c *Curve25519) Verify(sig, pubKey, msg []byte) Status {
	return xeddsaVerify(sig, pubKey, msg)
}
