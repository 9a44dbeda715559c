// gzip.go - Transparent VGZ (gzip-wrapped VGM) support.

package vgm

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/pkg/errors"
)

// IsGzip reports whether b starts with the gzip magic bytes.
func IsGzip(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x1F && b[1] == 0x8B
}

// Gunzip returns the decompressed contents of a gzip stream, or b itself
// when it is not gzip-wrapped.
func Gunzip(b []byte) ([]byte, error) {
	if !IsGzip(b) {
		return b, nil
	}
	gz, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "vgm: open gzip stream")
	}
	defer gz.Close()
	plain, err := io.ReadAll(gz)
	if err != nil {
		return nil, errors.Wrap(err, "vgm: decompress gzip stream")
	}
	return plain, nil
}
