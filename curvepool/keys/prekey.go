package keys

import (
	"context"
	"crypto/rand"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/TheusHen/curvepool/curvepool"
	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/primitive"
)

// PreKey is a one-time key pair published ahead of a session.
type PreKey struct {
	KeyID   int
	KeyPair KeyPair
}

// SignedPreKey is a pre-key whose public half is signed by an identity key.
type SignedPreKey struct {
	KeyID     int
	KeyPair   KeyPair
	Signature []byte
}

// GenerateSignedPreKey creates a key pair and signs its public key with
// identity's private key.
func GenerateSignedPreKey(ctx context.Context, e *curvepool.Engine, identity KeyPair, keyID int) (SignedPreKey, error) {
	const op = "signed pre-key"
	if len(identity.PrivKey) != primitive.KeySize || len(identity.PubKey) != primitive.KeySize {
		return SignedPreKey{}, errors.NewArgument(op, "invalid identity key pair")
	}
	if keyID < 0 {
		return SignedPreKey{}, errors.NewArgument(op, fmt.Sprintf("invalid key id %d", keyID))
	}

	kp, err := generate(ctx, e, rand.Reader)
	if err != nil {
		return SignedPreKey{}, err
	}
	sig, err := Sign(ctx, e, identity.PrivKey, kp.PubKey)
	if err != nil {
		return SignedPreKey{}, err
	}
	return SignedPreKey{KeyID: keyID, KeyPair: kp, Signature: sig}, nil
}

// GeneratePreKey creates one pre-key.
func GeneratePreKey(ctx context.Context, e *curvepool.Engine, keyID int) (PreKey, error) {
	if keyID < 0 {
		return PreKey{}, errors.NewArgument("pre-key", fmt.Sprintf("invalid key id %d", keyID))
	}
	kp, err := generate(ctx, e, rand.Reader)
	if err != nil {
		return PreKey{}, err
	}
	return PreKey{KeyID: keyID, KeyPair: kp}, nil
}

// GeneratePreKeys creates n pre-keys with ids start..start+n-1. At most one
// queue's worth of requests is in flight at a time, so the pool works on them
// in parallel without rejecting any for a full queue.
func GeneratePreKeys(ctx context.Context, e *curvepool.Engine, start, n int) ([]PreKey, error) {
	if start < 0 || n < 0 {
		return nil, errors.NewArgument("pre-keys", fmt.Sprintf("invalid range start=%d n=%d", start, n))
	}
	out := make([]PreKey, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, e.Stats().QueueSize))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			pk, err := GeneratePreKey(gctx, e, start+i)
			if err != nil {
				return err
			}
			out[i] = pk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
