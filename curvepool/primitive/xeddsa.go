package primitive

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha512"
	"io"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"
)

// hash1Prefix is the domain separator for the nonce hash: 2^256 - 2 encoded
// little-endian, i.e. 0xFE followed by 31 bytes of 0xFF.
var hash1Prefix = func() [32]byte {
	var p [32]byte
	for i := range p {
		p[i] = 0xFF
	}
	p[0] = 0xFE
	return p
}()

// edwardsKey converts a Montgomery private key k into the Edwards key pair
// (A, a) with A's sign bit forced to zero.
func edwardsKey(k []byte) (a *edwards25519.Scalar, A []byte, err error) {
	s, err := edwards25519.NewScalar().SetBytesWithClamping(k)
	if err != nil {
		return nil, nil, err
	}
	E := edwards25519.NewIdentityPoint().ScalarBaseMult(s)
	A = E.Bytes()
	if A[31]&0x80 != 0 {
		s = edwards25519.NewScalar().Negate(s)
		A[31] &= 0x7F
	}
	return s, A, nil
}

// xeddsaSign produces R || s for msg. z must be 64 bytes of fresh randomness.
func xeddsaSign(k, msg, z []byte) ([]byte, Status) {
	a, A, err := edwardsKey(k)
	if err != nil {
		return nil, StatusBadLength
	}

	h := sha512.New()
	h.Write(hash1Prefix[:])
	h.Write(a.Bytes())
	h.Write(msg)
	h.Write(z)
	r, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, StatusBadPoint
	}
	R := edwards25519.NewIdentityPoint().ScalarBaseMult(r).Bytes()

	h.Reset()
	h.Write(R)
	h.Write(A)
	h.Write(msg)
	c, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, StatusBadPoint
	}
	s := edwards25519.NewScalar().MultiplyAdd(c, a, r)

	sig := make([]byte, 0, SignatureSize)
	sig = append(sig, R...)
	sig = append(sig, s.Bytes()...)
	return sig, StatusOK
}

// montgomeryToEdwards maps a u-coordinate to the Edwards public key with
// sign bit zero. Non-canonical u (>= p, or with bit 255 set) is rejected.
func montgomeryToEdwards(u []byte) ([]byte, bool) {
	fu, err := new(field.Element).SetBytes(u)
	if err != nil || !bytes.Equal(fu.Bytes(), u) {
		return nil, false
	}

	one := new(field.Element).One()
	num := new(field.Element).Subtract(fu, one)
	den := new(field.Element).Add(fu, one)
	y := new(field.Element).Multiply(num, new(field.Element).Invert(den))

	A := y.Bytes()
	A[31] &= 0x7F
	if _, err := edwards25519.NewIdentityPoint().SetBytes(A); err != nil {
		return nil, false
	}
	return A, true
}

func xeddsaVerify(sig, u, msg []byte) Status {
	if len(sig) != SignatureSize || len(u) != KeySize {
		return StatusBadLength
	}
	A, ok := montgomeryToEdwards(u)
	if !ok {
		return StatusBadPoint
	}
	if !ed25519.Verify(ed25519.PublicKey(A), msg, sig) {
		return StatusBadSig
	}
	return StatusOK
}

func readNonce(r io.Reader) ([]byte, bool) {
	z := make([]byte, 64)
	if _, err := io.ReadFull(r, z); err != nil {
		return nil, false
	}
	return z, true
}
