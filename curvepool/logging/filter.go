package logging

import (
	"io"
	"regexp"
)

// RedactedValue replaces key material in log output.
const RedactedValue = "[REDACTED]"

// keyMaterial matches hex runs at least as long as an encoded 32-byte key.
var keyMaterial = regexp.MustCompile(`[0-9a-fA-F]{64,}`) //nolint:gochecknoglobals // compiled once

// FilteringWriter redacts anything that looks like a hex-encoded key, shared
// secret or signature before it reaches w.
type FilteringWriter struct {
	w io.Writer
}

func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write reports len(p) on success so callers never see a short write.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	if !keyMaterial.Match(p) {
		if _, err := fw.w.Write(p); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	if _, err := fw.w.Write(keyMaterial.ReplaceAll(p, []byte(RedactedValue))); err != nil {
		return 0, err
	}
	return len(p), nil
}
