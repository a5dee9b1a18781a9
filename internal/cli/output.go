package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/TheusHen/curvepool/curvepool/errors"
)

// field is one named line of text output.
type field struct {
	Key   string
	Value any
}

// render writes fields as "key: value" lines or as one JSON object.
func render(w io.Writer, format string, fields ...field) error {
	if format == OutputJSON {
		obj := make(map[string]any, len(fields))
		for _, f := range fields {
			obj[f.Key] = f.Value
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(obj)
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%s: %v\n", f.Key, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func decodeHex(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidHex, "--%s: %v", name, err)
	}
	return b, nil
}

// message returns --msg-hex decoded when set, otherwise --msg as bytes.
func message(msg, msgHex string) ([]byte, error) {
	if msgHex != "" {
		return decodeHex("msg-hex", msgHex)
	}
	return []byte(msg), nil
}
