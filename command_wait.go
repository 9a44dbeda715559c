// command_wait.go - Wait commands (0x61-0x63, 0x70-0x7F) and the YM2612
// "write port 0 address 2A then wait" shorthand (0x80-0x8F).

package vgm

const (
	samplesPerNTSCFrame = 735 // 0x62: 1/60 s at 44.1 kHz
	samplesPerPALFrame  = 882 // 0x63: 1/50 s at 44.1 kHz
)

// WaitWord waits Count samples (0x61 nn nn). The count is stored verbatim.
type WaitWord struct {
	Count uint16
}

func (WaitWord) Opcode() byte { return 0x61 }
func (WaitWord) Size() int { return 3 }
func (w WaitWord) WaitSamples() int { return int(w.Count) }
func (WaitWord) Validate() error { return nil }
func (WaitWord) command() {}
func (w WaitWord) AppendTo(dst []byte) []byte {
	return appendUint16LE(append(dst, 0x61), w.Count)
}

func decodeWaitWord(buf []byte, off int) (Command, error) {
	return WaitWord{Count: readUint16LE(buf, off+1)}, nil
}

// Wait735 waits one NTSC frame.
type Wait735 struct{}

func (Wait735) Opcode() byte { return 0x62 }
func (Wait735) Size() int { return 1 }
func (Wait735) WaitSamples() int { return samplesPerNTSCFrame }
func (Wait735) AppendTo(dst []byte) []byte { return append(dst, 0x62) }
func (Wait735) Validate() error { return nil }
func (Wait735) command() {}

// Wait882 waits one PAL frame.
type Wait882 struct{}

func (Wait882) Opcode() byte { return 0x63 }
func (Wait882) Size() int { return 1 }
func (Wait882) WaitSamples() int { return samplesPerPALFrame }
func (Wait882) AppendTo(dst []byte) []byte { return append(dst, 0x63) }
func (Wait882) Validate() error { return nil }
func (Wait882) command() {}

// WaitNibble waits 1-16 samples, packed into the low nibble of 0x7n.
type WaitNibble struct {
	Count uint8
}

// NewWaitNibble rejects counts outside 1-16.
func NewWaitNibble(count int) (WaitNibble, error) {
	if count < 1 || count > 16 {
		return WaitNibble{}, invalidField("wait nibble count %d outside 1-16", count)
	}
	return WaitNibble{Count: uint8(count)}, nil
}

func (w WaitNibble) Validate() error {
	if w.Count < 1 || w.Count > 16 {
		return invalidField("wait nibble count %d outside 1-16", w.Count)
	}
	return nil
}

func (w WaitNibble) Opcode() byte { return 0x70 | (w.Count-1)&0x0F }
func (WaitNibble) Size() int { return 1 }
func (w WaitNibble) WaitSamples() int {
	return int(w.Count)
}
func (w WaitNibble) AppendTo(dst []byte) []byte { return append(dst, w.Opcode()) }
func (WaitNibble) command() {}

func decodeWaitNibble(buf []byte, off int) (Command, error) {
	return WaitNibble{Count: buf[off]&0x0F + 1}, nil
}

// Write2A writes the next byte of the YM2612 PCM data bank to port 0
// register 0x2A, then waits Count (0-15) samples.
type Write2A struct {
	Count uint8
}

// NewWrite2A rejects counts outside 0-15.
func NewWrite2A(count int) (Write2A, error) {
	if count < 0 || count > 15 {
		return Write2A{}, invalidField("write2A wait count %d outside 0-15", count)
	}
	return Write2A{Count: uint8(count)}, nil
}

func (w Write2A) Validate() error {
	if w.Count > 15 {
		return invalidField("write2A wait count %d outside 0-15", w.Count)
	}
	return nil
}

func (w Write2A) Opcode() byte { return 0x80 | w.Count&0x0F }
func (Write2A) Size() int { return 1 }
func (w Write2A) WaitSamples() int {
	return int(w.Count)
}
func (w Write2A) AppendTo(dst []byte) []byte { return append(dst, w.Opcode()) }
func (Write2A) Chip() ChipName { return ChipYM2612 }
func (Write2A) command() {}

func decodeWrite2A(buf []byte, off int) (Command, error) {
	return Write2A{Count: buf[off] & 0x0F}, nil
}
