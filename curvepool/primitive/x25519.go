package primitive

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/curve25519"
)

// Basepoint is the canonical Curve25519 generator (u = 9).
var Basepoint = [KeySize]byte{9}

// KeyPair is a Montgomery key pair usable for both X25519 and XEdDSA.
type KeyPair struct {
	PublicKey  [KeySize]byte
	PrivateKey [KeySize]byte
}

// Clamp applies RFC 7748 clamping to k in place.
func Clamp(k []byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}

// GenerateKeyPair draws a clamped private key from r (crypto/rand when nil)
// and derives its public key.
func GenerateKeyPair(r io.Reader) (KeyPair, error) {
	if r == nil {
		r = rand.Reader
	}
	var kp KeyPair
	if _, err := io.ReadFull(r, kp.PrivateKey[:]); err != nil {
		return KeyPair{}, err
	}
	Clamp(kp.PrivateKey[:])

	pub, err := curve25519.X25519(kp.PrivateKey[:], Basepoint[:])
	if err != nil {
		return KeyPair{}, err
	}
	copy(kp.PublicKey[:], pub)
	return kp, nil
}

// x25519 computes secret*basepoint. The all-zero basepoint and other
// low-order points are rejected.
func x25519(secret, basepoint []byte) ([]byte, Status) {
	if len(secret) != KeySize || len(basepoint) != KeySize {
		return nil, StatusBadLength
	}
	out, err := curve25519.X25519(secret, basepoint)
	if err != nil {
		return nil, StatusBadPoint
	}
	return out, StatusOK
}
