package primitive

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 7748 section 6.1.
const (
	alicePrivHex  = "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a"
	alicePubHex   = "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a"
	bobPrivHex    = "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb"
	bobPubHex     = "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f"
	sharedHex     = "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742"
	testMessage   = "test"
	fixedKeyBytes = 0x42
)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestScalarMultVectors(t *testing.T) {
	c := NewCurve25519(nil)

	pub, st := c.ScalarMult(mustHex(t, alicePrivHex), Basepoint[:])
	require.Equal(t, StatusOK, st)
	assert.Equal(t, alicePubHex, hex.EncodeToString(pub))

	pub, st = c.ScalarMult(mustHex(t, bobPrivHex), Basepoint[:])
	require.Equal(t, StatusOK, st)
	assert.Equal(t, bobPubHex, hex.EncodeToString(pub))

	s1, st := c.ScalarMult(mustHex(t, alicePrivHex), mustHex(t, bobPubHex))
	require.Equal(t, StatusOK, st)
	s2, st := c.ScalarMult(mustHex(t, bobPrivHex), mustHex(t, alicePubHex))
	require.Equal(t, StatusOK, st)
	assert.Equal(t, sharedHex, hex.EncodeToString(s1))
	assert.Equal(t, s1, s2)
}

func TestScalarMultFailures(t *testing.T) {
	c := NewCurve25519(nil)

	_, st := c.ScalarMult(make([]byte, 31), Basepoint[:])
	assert.Equal(t, StatusBadLength, st)

	_, st = c.ScalarMult(mustHex(t, alicePrivHex), make([]byte, KeySize))
	assert.Equal(t, StatusBadPoint, st)
	assert.False(t, st.OK())
}

func TestSignVerify(t *testing.T) {
	c := NewCurve25519(nil)
	kp, err := GenerateKeyPair(nil)
	require.NoError(t, err)

	msg := []byte(testMessage)
	sig, st := c.Sign(kp.PrivateKey[:], msg)
	require.Equal(t, StatusOK, st)
	require.Len(t, sig, SignatureSize)

	assert.Equal(t, StatusOK, c.Verify(sig, kp.PublicKey[:], msg))
	assert.Equal(t, StatusBadSig, c.Verify(sig, kp.PublicKey[:], []byte("tampered")))

	flipped := bytes.Clone(sig)
	flipped[0] ^= 0x01
	assert.NotEqual(t, StatusOK, c.Verify(flipped, kp.PublicKey[:], msg))

	other, err := GenerateKeyPair(nil)
	require.NoError(t, err)
	assert.NotEqual(t, StatusOK, c.Verify(sig, other.PublicKey[:], msg))
}

func TestSignBothSignBits(t *testing.T) {
	// Roughly half of all keys have an odd Edwards x; sign with many keys so
	// both branches of the key conversion are exercised.
	c := NewCurve25519(nil)
	msg := []byte("both branches")
	for i := 0; i < 32; i++ {
		kp, err := GenerateKeyPair(nil)
		require.NoError(t, err)
		sig, st := c.Sign(kp.PrivateKey[:], msg)
		require.Equal(t, StatusOK, st)
		require.Equal(t, StatusOK, c.Verify(sig, kp.PublicKey[:], msg), "key %d", i)
	}
}

func TestSignDeterministicWithFixedNonce(t *testing.T) {
	priv := bytes.Repeat([]byte{fixedKeyBytes}, KeySize)
	Clamp(priv)

	c1 := NewCurve25519(bytes.NewReader(make([]byte, 64)))
	c2 := NewCurve25519(bytes.NewReader(make([]byte, 64)))
	sig1, st := c1.Sign(priv, []byte(testMessage))
	require.Equal(t, StatusOK, st)
	sig2, st := c2.Sign(priv, []byte(testMessage))
	require.Equal(t, StatusOK, st)
	assert.Equal(t, sig1, sig2)
}

func TestSignFailures(t *testing.T) {
	_, st := NewCurve25519(nil).Sign(make([]byte, 16), []byte("m"))
	assert.Equal(t, StatusBadLength, st)

	priv := bytes.Repeat([]byte{fixedKeyBytes}, KeySize)
	_, st = NewCurve25519(failingReader{}).Sign(priv, []byte("m"))
	assert.Equal(t, StatusRandFailure, st)
}

func TestVerifyMalformed(t *testing.T) {
	c := NewCurve25519(nil)
	kp, err := GenerateKeyPair(nil)
	require.NoError(t, err)

	assert.Equal(t, StatusBadLength, c.Verify(make([]byte, 10), kp.PublicKey[:], nil))
	assert.Equal(t, StatusBadLength, c.Verify(make([]byte, SignatureSize), kp.PublicKey[:5], nil))

	// p = 2^255 - 19 is not a canonical u-coordinate.
	nonCanonical := bytes.Repeat([]byte{0xFF}, KeySize)
	nonCanonical[0] = 0xED
	nonCanonical[31] = 0x7F
	assert.Equal(t, StatusBadPoint, c.Verify(make([]byte, SignatureSize), nonCanonical, nil))
}

func TestVerifyRejectsHighBitPublicKey(t *testing.T) {
	c := NewCurve25519(nil)
	kp, err := GenerateKeyPair(nil)
	require.NoError(t, err)

	msg := []byte(testMessage)
	sig, st := c.Sign(kp.PrivateKey[:], msg)
	require.Equal(t, StatusOK, st)
	require.Equal(t, StatusOK, c.Verify(sig, kp.PublicKey[:], msg))

	pub := kp.PublicKey
	pub[31] |= 0x80
	assert.Equal(t, StatusBadPoint, c.Verify(sig, pub[:], msg))
}

func TestClamp(t *testing.T) {
	k := bytes.Repeat([]byte{0xFF}, KeySize)
	Clamp(k)
	assert.Equal(t, byte(0xF8), k[0])
	assert.Equal(t, byte(0x7F), k[31])

	k = make([]byte, KeySize)
	Clamp(k)
	assert.Equal(t, byte(0x40), k[31])
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "bad signature", StatusBadSig.String())
	assert.Equal(t, "status(7)", Status(7).String())
}

func BenchmarkScalarMult(b *testing.B) {
	c := NewCurve25519(nil)
	kp, _ := GenerateKeyPair(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.ScalarMult(kp.PrivateKey[:], Basepoint[:])
	}
}

func BenchmarkSign(b *testing.B) {
	c := NewCurve25519(nil)
	kp, _ := GenerateKeyPair(nil)
	msg := make([]byte, 1024)
	b.SetBytes(int64(len(msg)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Sign(kp.PrivateKey[:], msg)
	}
}
