// command_stream.go - DAC stream control commands (0x90-0x95).
//
// A stream feeds bytes from a data bank to one chip register at a fixed
// frequency, replacing long runs of individual register writes.

package vgm

// SetupStream binds stream StreamID to register Channel on Port of the chip
// with chip id Type (bit 7 selects the second instance).
//
//	0x90 ss tt pp cc
type SetupStream struct {
	StreamID uint8
	Type     uint8
	Port     uint8
	Channel  uint8
}

func (SetupStream) Opcode() byte { return 0x90 }
func (SetupStream) Size() int { return 5 }
func (SetupStream) Validate() error { return nil }
func (SetupStream) command() {}

func (s SetupStream) AppendTo(dst []byte) []byte {
	return append(dst, 0x90, s.StreamID, s.Type, s.Port, s.Channel)
}

func decodeSetupStream(buf []byte, off int) (Command, error) {
	b := buf[off:]
	return SetupStream{StreamID: b[1], Type: b[2], Port: b[3], Channel: b[4]}, nil
}

// SetStreamData selects the data bank a stream reads from.
//
//	0x91 ss dd ll bb
type SetStreamData struct {
	StreamID   uint8
	DataBankID uint8
	StepSize   uint8
	StepBase   uint8
}

func (SetStreamData) Opcode() byte { return 0x91 }
func (SetStreamData) Size() int { return 5 }
func (SetStreamData) Validate() error { return nil }
func (SetStreamData) command() {}

func (s SetStreamData) AppendTo(dst []byte) []byte {
	return append(dst, 0x91, s.StreamID, s.DataBankID, s.StepSize, s.StepBase)
}

func decodeSetStreamData(buf []byte, off int) (Command, error) {
	b := buf[off:]
	return SetStreamData{StreamID: b[1], DataBankID: b[2], StepSize: b[3], StepBase: b[4]}, nil
}

// SetStreamFrequency sets the stream playback rate in Hz.
//
//	0x92 ss ff ff ff ff
type SetStreamFrequency struct {
	StreamID  uint8
	Frequency uint32
}

func (SetStreamFrequency) Opcode() byte { return 0x92 }
func (SetStreamFrequency) Size() int { return 6 }
func (SetStreamFrequency) Validate() error { return nil }
func (SetStreamFrequency) command() {}

func (s SetStreamFrequency) AppendTo(dst []byte) []byte {
	return appendUint32LE(append(dst, 0x92, s.StreamID), s.Frequency)
}

func decodeSetStreamFrequency(buf []byte, off int) (Command, error) {
	return SetStreamFrequency{StreamID: buf[off+1], Frequency: readUint32LE(buf, off+2)}, nil
}

// StartStream starts playback at Offset in the data bank. LengthMode selects
// how DataLength is interpreted (commands, milliseconds, until block end).
//
//	0x93 ss aa aa aa aa mm ll ll ll ll
type StartStream struct {
	StreamID   uint8
	Offset     uint32
	LengthMode uint8
	DataLength uint32
}

func (StartStream) Opcode() byte { return 0x93 }
func (StartStream) Size() int { return 11 }
func (StartStream) Validate() error { return nil }
func (StartStream) command() {}

func (s StartStream) AppendTo(dst []byte) []byte {
	dst = appendUint32LE(append(dst, 0x93, s.StreamID), s.Offset)
	return appendUint32LE(append(dst, s.LengthMode), s.DataLength)
}

func decodeStartStream(buf []byte, off int) (Command, error) {
	return StartStream{
		StreamID:   buf[off+1],
		Offset:     readUint32LE(buf, off+2),
		LengthMode: buf[off+6],
		DataLength: readUint32LE(buf, off+7),
	}, nil
}

// StopStream stops a stream; StreamID 0xFF stops all of them.
//
//	0x94 ss
type StopStream struct {
	StreamID uint8
}

func (StopStream) Opcode() byte { return 0x94 }
func (StopStream) Size() int { return 2 }
func (StopStream) Validate() error { return nil }
func (StopStream) command() {}

func (s StopStream) AppendTo(dst []byte) []byte {
	return append(dst, 0x94, s.StreamID)
}

func decodeStopStream(buf []byte, off int) (Command, error) {
	return StopStream{StreamID: buf[off+1]}, nil
}

// StartStreamFast plays data block BlockID of the stream's bank.
//
//	0x95 ss bb bb ff
type StartStreamFast struct {
	StreamID uint8
	BlockID  uint16
	Flags    uint8
}

func (StartStreamFast) Opcode() byte { return 0x95 }
func (StartStreamFast) Size() int { return 5 }
func (StartStreamFast) Validate() error { return nil }
func (StartStreamFast) command() {}

func (s StartStreamFast) AppendTo(dst []byte) []byte {
	dst = appendUint16LE(append(dst, 0x95, s.StreamID), s.BlockID)
	return append(dst, s.Flags)
}

func decodeStartStreamFast(buf []byte, off int) (Command, error) {
	return StartStreamFast{StreamID: buf[off+1], BlockID: readUint16LE(buf, off+2), Flags: buf[off+4]}, nil
}
