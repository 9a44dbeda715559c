// byte_buffer.go - Fixed-width integer codecs and the auto-growing write buffer
// used when serializing headers, command streams and tags.

package vgm

import "encoding/binary"

const byteBufferInitialSize = 256

// ByteBuffer is an offset-addressed write buffer. Writes past the current
// capacity grow it by doubling; Len reports the highest byte written.
type ByteBuffer struct {
	buf     []byte
	written int
}

// NewByteBuffer returns an empty buffer with the default initial capacity.
func NewByteBuffer() *ByteBuffer {
	return &ByteBuffer{buf: make([]byte, byteBufferInitialSize)}
}

func (b *ByteBuffer) ensure(end int) {
	if b.buf == nil {
		b.buf = make([]byte, byteBufferInitialSize)
	}
	if end <= len(b.buf) {
		return
	}
	size := len(b.buf)
	for size < end {
		size *= 2
	}
	grown := make([]byte, size)
	copy(grown, b.buf)
	b.buf = grown
}

func (b *ByteBuffer) mark(end int) {
	if end > b.written {
		b.written = end
	}
}

// Len returns the logical length: one past the highest byte written so far.
func (b *ByteBuffer) Len() int { return b.written }

// Cap returns the current backing capacity.
func (b *ByteBuffer) Cap() int { return len(b.buf) }

// Bytes returns a copy of the logically written bytes.
func (b *ByteBuffer) Bytes() []byte {
	out := make([]byte, b.written)
	copy(out, b.buf[:b.written])
	return out
}

func (b *ByteBuffer) SetUint8(off int, v uint8) {
	b.ensure(off + 1)
	b.buf[off] = v
	b.mark(off + 1)
}

func (b *ByteBuffer) SetUint16LE(off int, v uint16) {
	b.ensure(off + 2)
	binary.LittleEndian.PutUint16(b.buf[off:], v)
	b.mark(off + 2)
}

func (b *ByteBuffer) SetUint16BE(off int, v uint16) {
	b.ensure(off + 2)
	binary.BigEndian.PutUint16(b.buf[off:], v)
	b.mark(off + 2)
}

// SetUint24LE writes the low 24 bits of v.
func (b *ByteBuffer) SetUint24LE(off int, v uint32) {
	b.ensure(off + 3)
	putUint24LE(b.buf[off:], v)
	b.mark(off + 3)
}

func (b *ByteBuffer) SetUint32LE(off int, v uint32) {
	b.ensure(off + 4)
	binary.LittleEndian.PutUint32(b.buf[off:], v)
	b.mark(off + 4)
}

// SetBytes copies data to off.
func (b *ByteBuffer) SetBytes(off int, data []byte) {
	b.ensure(off + len(data))
	copy(b.buf[off:], data)
	b.mark(off + len(data))
}

// Readers. Callers guarantee the range is inside buf.

func readUint16LE(buf []byte, off int) uint16 { return binary.LittleEndian.Uint16(buf[off:]) }
func readUint16BE(buf []byte, off int) uint16 { return binary.BigEndian.Uint16(buf[off:]) }
func readUint32LE(buf []byte, off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }

func readUint24LE(buf []byte, off int) uint32 {
	return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16
}

func putUint24LE(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
}

// Appenders used by the command encoders.

func appendUint16BE(dst []byte, v uint16) []byte { return binary.BigEndian.AppendUint16(dst, v) }
func appendUint16LE(dst []byte, v uint16) []byte { return binary.LittleEndian.AppendUint16(dst, v) }
func appendUint32LE(dst []byte, v uint32) []byte { return binary.LittleEndian.AppendUint32(dst, v) }

func appendUint24LE(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16))
}
