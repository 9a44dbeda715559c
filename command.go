// command.go - VGM command model: the closed set of command variants and the
// opcode dispatch table used to decode them.
//
// Every opcode byte owns at most one slot in opcodeTable, so variant opcode
// ranges cannot overlap. Record sizes are fixed per opcode except for data
// blocks, whose size comes from their own length field.

package vgm

import "fmt"

// Command is one instruction of a VGM command stream. The set of
// implementations is closed: WriteRegister, WaitWord, Wait735, Wait882,
// WaitNibble, Write2A, DataBlock, PCMRAMWrite, SeekPCM, SetupStream,
// SetStreamData, SetStreamFrequency, StartStream, StopStream,
// StartStreamFast and End.
type Command interface {
	// Opcode returns the leading byte of the encoded command.
	Opcode() byte
	// Size returns the encoded length in bytes.
	Size() int
	// AppendTo appends the binary encoding of the command to dst.
	AppendTo(dst []byte) []byte
	// Validate reports an ErrInvalidFieldValue when a field is outside the
	// range its encoding can carry. Decoded commands and those built by the
	// New* constructors always pass.
	Validate() error

	command()
}

// Waiter is implemented by commands that advance playback time.
type Waiter interface {
	WaitSamples() int
}

// EncodeCommand returns the binary encoding of c. Commands that fail
// Validate are rejected rather than encoded to bytes that decode differently.
func EncodeCommand(c Command) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.AppendTo(make([]byte, 0, c.Size())), nil
}

// WaitSamplesOf returns the samples c waits for, or 0 if it carries no wait.
func WaitSamplesOf(c Command) int {
	if w, ok := c.(Waiter); ok {
		return w.WaitSamples()
	}
	return 0
}

type opcodeEntry struct {
	name string
	// size is the fixed record length including the opcode, or 0 when the
	// decoder reads the length from the record itself.
	size   int
	decode func(buf []byte, off int) (Command, error)
}

var opcodeTable [256]*opcodeEntry

func registerOpcodes(lo, hi byte, e opcodeEntry) {
	for op := int(lo); op <= int(hi); op++ {
		if opcodeTable[op] != nil {
			panic(fmt.Sprintf("vgm: opcode 0x%02X registered twice (%s, %s)", op, opcodeTable[op].name, e.name))
		}
		entry := e
		opcodeTable[op] = &entry
	}
}

func init() {
	registerWriteOpcodes()

	registerOpcodes(0x61, 0x61, opcodeEntry{"waitWord", 3, decodeWaitWord})
	registerOpcodes(0x62, 0x62, opcodeEntry{"wait735", 1, func([]byte, int) (Command, error) { return Wait735{}, nil }})
	registerOpcodes(0x63, 0x63, opcodeEntry{"wait882", 1, func([]byte, int) (Command, error) { return Wait882{}, nil }})
	registerOpcodes(0x66, 0x66, opcodeEntry{"end", 1, func([]byte, int) (Command, error) { return End{}, nil }})
	registerOpcodes(0x67, 0x67, opcodeEntry{"dataBlock", 0, decodeDataBlock})
	registerOpcodes(0x68, 0x68, opcodeEntry{"pcmRamWrite", pcmRAMWriteSize, decodePCMRAMWrite})
	registerOpcodes(0x70, 0x7F, opcodeEntry{"waitNibble", 1, decodeWaitNibble})
	registerOpcodes(0x80, 0x8F, opcodeEntry{"write2A", 1, decodeWrite2A})
	registerOpcodes(0x90, 0x90, opcodeEntry{"setupStream", 5, decodeSetupStream})
	registerOpcodes(0x91, 0x91, opcodeEntry{"setStreamData", 5, decodeSetStreamData})
	registerOpcodes(0x92, 0x92, opcodeEntry{"setStreamFrequency", 6, decodeSetStreamFrequency})
	registerOpcodes(0x93, 0x93, opcodeEntry{"startStream", 11, decodeStartStream})
	registerOpcodes(0x94, 0x94, opcodeEntry{"stopStream", 2, decodeStopStream})
	registerOpcodes(0x95, 0x95, opcodeEntry{"startStreamFast", 5, decodeStartStreamFast})
	registerOpcodes(0xE0, 0xE0, opcodeEntry{"seekPcm", 5, decodeSeekPCM})
}

// LookupOpcode reports which variant an opcode belongs to and its fixed
// record size (0 for variable-length records).
func LookupOpcode(op byte) (name string, size int, ok bool) {
	e := opcodeTable[op]
	if e == nil {
		return "", 0, false
	}
	return e.name, e.size, true
}

// DecodeCommand decodes the command starting at buf[off]. It fails with a
// *DecodeError wrapping ErrUnknownOpcode when no variant owns the opcode and
// ErrTruncatedStream when the record extends past the end of buf.
func DecodeCommand(buf []byte, off int) (Command, error) {
	if off < 0 || off >= len(buf) {
		return nil, decodeError(ErrTruncatedStream, buf, off)
	}
	e := opcodeTable[buf[off]]
	if e == nil {
		return nil, decodeError(ErrUnknownOpcode, buf, off)
	}
	if e.size > 0 && off+e.size > len(buf) {
		return nil, decodeError(ErrTruncatedStream, buf, off)
	}
	return e.decode(buf, off)
}

// End terminates a command stream (0x66).
type End struct{}

func (End) Opcode() byte { return 0x66 }
func (End) Size() int { return 1 }
func (End) AppendTo(dst []byte) []byte { return append(dst, 0x66) }
func (End) Validate() error { return nil }
func (End) command() {}
