// command_data.go - Data block (0x67), PCM RAM write (0x68) and PCM seek (0xE0)
// commands.

package vgm

const (
	dataBlockHeaderSize = 7  // 0x67 0x66 tt ss ss ss ss
	pcmRAMWriteSize     = 12 // 0x68 0x66 tt rr rr rr ww ww ww ss ss ss
	compatByte          = 0x66
	uint24Max           = 0xFFFFFF
)

// DataBlock embeds a binary payload (PCM samples, ROM or RAM images) in the
// stream. BlockSize is the declared length field; it normally equals len(Data).
type DataBlock struct {
	BlockType byte
	BlockSize uint32
	Data      []byte
}

// NewDataBlock copies data and sets BlockSize to its length.
func NewDataBlock(blockType byte, data []byte) (DataBlock, error) {
	if uint64(len(data)) > 0xFFFFFFFF {
		return DataBlock{}, invalidField("data block of %d bytes exceeds 32-bit size", len(data))
	}
	return DataBlock{BlockType: blockType, BlockSize: uint32(len(data)), Data: append([]byte(nil), data...)}, nil
}

func (DataBlock) Opcode() byte { return 0x67 }
func (d DataBlock) Size() int { return dataBlockHeaderSize + len(d.Data) }
func (d DataBlock) Chip() ChipName { return BlockTypeChip(d.BlockType) }
func (DataBlock) command() {}

// Validate requires BlockSize to equal the payload length.
func (d DataBlock) Validate() error {
	if uint64(d.BlockSize) != uint64(len(d.Data)) {
		return invalidField("data block size %d, payload %d bytes", d.BlockSize, len(d.Data))
	}
	return nil
}

func (d DataBlock) AppendTo(dst []byte) []byte {
	dst = append(dst, 0x67, compatByte, d.BlockType)
	dst = appendUint32LE(dst, d.BlockSize)
	return append(dst, d.Data...)
}

// decodeDataBlock reads the size field before slicing the payload. A size
// running past the buffer is a truncation error; nothing is read beyond it.
func decodeDataBlock(buf []byte, off int) (Command, error) {
	if off+dataBlockHeaderSize > len(buf) {
		return nil, decodeError(ErrTruncatedStream, buf, off)
	}
	if buf[off+1] != compatByte {
		return nil, decodeError(invalidField("data block compatibility byte 0x%02X, want 0x66", buf[off+1]), buf, off)
	}
	size := readUint32LE(buf, off+3)
	start := off + dataBlockHeaderSize
	if uint64(size) > uint64(len(buf)-start) {
		return nil, decodeError(ErrTruncatedStream, buf, off)
	}
	payload := append([]byte(nil), buf[start:start+int(size)]...)
	return DataBlock{BlockType: buf[off+2], BlockSize: size, Data: payload}, nil
}

// PCMRAMWrite copies WriteSize bytes from offset ReadOffset of the data bank
// of BlockType to chip RAM at WriteOffset. All three fields are 24 bits.
type PCMRAMWrite struct {
	BlockType   byte
	ReadOffset  uint32
	WriteOffset uint32
	WriteSize   uint32
}

// NewPCMRAMWrite rejects offsets and sizes that do not fit in 24 bits.
func NewPCMRAMWrite(blockType byte, readOffset, writeOffset, writeSize uint32) (PCMRAMWrite, error) {
	p := PCMRAMWrite{BlockType: blockType, ReadOffset: readOffset, WriteOffset: writeOffset, WriteSize: writeSize}
	if err := p.Validate(); err != nil {
		return PCMRAMWrite{}, err
	}
	return p, nil
}

func (p PCMRAMWrite) Validate() error {
	for _, f := range [...]struct {
		name string
		v    uint32
	}{{"read offset", p.ReadOffset}, {"write offset", p.WriteOffset}, {"write size", p.WriteSize}} {
		if f.v > uint24Max {
			return invalidField("pcm ram write %s 0x%X exceeds 24 bits", f.name, f.v)
		}
	}
	return nil
}

func (PCMRAMWrite) Opcode() byte { return 0x68 }
func (PCMRAMWrite) Size() int { return pcmRAMWriteSize }
func (p PCMRAMWrite) Chip() ChipName { return BlockTypeChip(p.BlockType) }
func (PCMRAMWrite) command() {}

func (p PCMRAMWrite) AppendTo(dst []byte) []byte {
	dst = append(dst, 0x68, compatByte, p.BlockType)
	dst = appendUint24LE(dst, p.ReadOffset)
	dst = appendUint24LE(dst, p.WriteOffset)
	return appendUint24LE(dst, p.WriteSize)
}

func decodePCMRAMWrite(buf []byte, off int) (Command, error) {
	return PCMRAMWrite{
		BlockType:   buf[off+2],
		ReadOffset:  readUint24LE(buf, off+3),
		WriteOffset: readUint24LE(buf, off+6),
		WriteSize:   readUint24LE(buf, off+9),
	}, nil
}

// SeekPCM moves the YM2612 PCM data bank pointer to Offset.
type SeekPCM struct {
	Offset uint32
}

func (SeekPCM) Opcode() byte { return 0xE0 }
func (SeekPCM) Size() int { return 5 }
func (SeekPCM) Validate() error { return nil }
func (SeekPCM) command() {}

func (s SeekPCM) AppendTo(dst []byte) []byte {
	return appendUint32LE(append(dst, 0xE0), s.Offset)
}

func decodeSeekPCM(buf []byte, off int) (Command, error) {
	return SeekPCM{Offset: readUint32LE(buf, off+1)}, nil
}
