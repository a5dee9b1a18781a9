package keys

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/TheusHen/curvepool/curvepool/errors"
)

// DeriveSecrets expands input into n 32-byte secrets with HKDF-SHA256.
// A nil salt is treated as 32 zero bytes.
func DeriveSecrets(input, salt, info []byte, n int) ([][]byte, error) {
	if n < 1 || n > 255 {
		return nil, errors.NewArgument("derive secrets", "chunk count must be between 1 and 255")
	}
	if salt == nil {
		salt = make([]byte, sha256.Size)
	}
	r := hkdf.New(sha256.New, input, salt, info)
	buf := make([]byte, n*sha256.Size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(err, "hkdf expand")
	}
	out := make([][]byte, n)
	for i := range out {
		out[i] = buf[i*sha256.Size : (i+1)*sha256.Size : (i+1)*sha256.Size]
	}
	return out, nil
}
