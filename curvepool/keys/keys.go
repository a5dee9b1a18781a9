// Package keys builds Curve25519 key material on top of an Engine.
//
// Every helper blocks on the engine's futures, so the engine's loop must be
// driven elsewhere (Engine.Start) while they run.
package keys

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/TheusHen/curvepool/curvepool"
	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/primitive"
)

// KeyPair is a clamped Curve25519 private key and its public key.
type KeyPair struct {
	PubKey  []byte
	PrivKey []byte
}

// NewKeyPair clamps a copy of priv and derives its public key.
func NewKeyPair(ctx context.Context, e *curvepool.Engine, priv []byte) (KeyPair, error) {
	clamped := bytes.Clone(priv)
	if len(clamped) == primitive.KeySize {
		primitive.Clamp(clamped)
	}
	f, err := e.ScalarMultiplyFuture(clamped, primitive.Basepoint[:])
	if err != nil {
		return KeyPair{}, err
	}
	pub, err := f.Await(ctx)
	if err != nil {
		return KeyPair{}, errors.Wrap(err, "derive public key")
	}
	return KeyPair{PubKey: pub, PrivKey: clamped}, nil
}

// SharedSecret computes the X25519 agreement of priv and pub. priv is clamped
// on a copy; the caller's slice is left untouched.
func SharedSecret(ctx context.Context, e *curvepool.Engine, pub, priv []byte) ([]byte, error) {
	clamped := bytes.Clone(priv)
	if len(clamped) == primitive.KeySize {
		primitive.Clamp(clamped)
	}
	f, err := e.ScalarMultiplyFuture(clamped, pub)
	if err != nil {
		return nil, err
	}
	secret, err := f.Await(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "shared secret")
	}
	return secret, nil
}

// Sign returns the XEdDSA signature of msg under priv.
func Sign(ctx context.Context, e *curvepool.Engine, priv, msg []byte) ([]byte, error) {
	f, err := e.SignFuture(priv, msg)
	if err != nil {
		return nil, err
	}
	sig, err := f.Await(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return sig, nil
}

// Verify reports whether sig is a valid signature of msg under pub.
func Verify(ctx context.Context, e *curvepool.Engine, pub, msg, sig []byte) (bool, error) {
	f, err := e.VerifyFuture(sig, pub, msg)
	if err != nil {
		return false, err
	}
	return f.Await(ctx)
}

// GenerateIdentityKeyPair returns a fresh random key pair.
func GenerateIdentityKeyPair(ctx context.Context, e *curvepool.Engine) (KeyPair, error) {
	return generate(ctx, e, rand.Reader)
}

func generate(ctx context.Context, e *curvepool.Engine, r io.Reader) (KeyPair, error) {
	priv := make([]byte, primitive.KeySize)
	if _, err := io.ReadFull(r, priv); err != nil {
		return KeyPair{}, errors.Wrap(err, "read private key")
	}
	return NewKeyPair(ctx, e, priv)
}

// GenerateRegistrationID returns a random 14-bit registration id.
func GenerateRegistrationID() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		return 0, errors.Wrap(err, "read registration id")
	}
	return binary.LittleEndian.Uint16(b[:]) & 0x3fff, nil
}
