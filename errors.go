// errors.go - Error taxonomy for the VGM codec.

package vgm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedMagic indicates the input (after gzip sniffing) does not start with "Vgm ".
	ErrMalformedMagic = errors.New("vgm: missing \"Vgm \" signature")

	// ErrTruncatedHeader indicates the input is shorter than the header it declares.
	ErrTruncatedHeader = errors.New("vgm: truncated header")

	// ErrUnknownOpcode indicates a command byte that matches no command variant.
	ErrUnknownOpcode = errors.New("vgm: unknown command opcode")

	// ErrTruncatedStream indicates the command stream ended before an End command,
	// or a command record runs past the end of the buffer.
	ErrTruncatedStream = errors.New("vgm: truncated command stream")

	// ErrInvalidFieldValue indicates a command field outside its legal range.
	ErrInvalidFieldValue = errors.New("vgm: invalid field value")

	// ErrMissingRequiredField indicates a structured command lacks a field its variant needs.
	ErrMissingRequiredField = errors.New("vgm: missing required field")
)

// DecodeError reports where in a buffer a command failed to decode.
type DecodeError struct {
	Offset int  // absolute byte offset of the opcode
	Opcode byte // the offending opcode byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: opcode 0x%02X at offset 0x%X", e.Err, e.Opcode, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeError(err error, buf []byte, off int) error {
	de := &DecodeError{Offset: off, Err: err}
	if off >= 0 && off < len(buf) {
		de.Opcode = buf[off]
	}
	return errors.WithStack(de)
}

func invalidField(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidFieldValue, format, args...)
}

func missingField(cmd byte, field string) error {
	return errors.Wrapf(ErrMissingRequiredField, "cmd 0x%02X needs %q", cmd, field)
}
