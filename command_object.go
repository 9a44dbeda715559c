// command_object.go - Field-level (non-binary) form of commands, used by
// tooling and JSON dumps.

package vgm

import "github.com/pkg/errors"

// CommandObject is the structured form of a Command. Cmd and Size are always
// set; the other fields are present only for variants that carry them.
type CommandObject struct {
	Cmd  byte     `json:"cmd"`
	Size int      `json:"size"`
	Chip ChipName `json:"chip,omitempty"`

	Index *int64 `json:"index,omitempty"`
	Port  *int64 `json:"port,omitempty"`
	Addr  *int64 `json:"addr,omitempty"`
	Data  *int64 `json:"data,omitempty"`

	Count *int64 `json:"count,omitempty"`

	BlockType   *int64 `json:"blockType,omitempty"`
	BlockSize   *int64 `json:"blockSize,omitempty"`
	BlockData   []byte `json:"blockData,omitempty"`
	ReadOffset  *int64 `json:"readOffset,omitempty"`
	WriteOffset *int64 `json:"writeOffset,omitempty"`
	WriteSize   *int64 `json:"writeSize,omitempty"`
	Offset      *int64 `json:"offset,omitempty"`

	StreamID   *int64 `json:"streamId,omitempty"`
	Type       *int64 `json:"type,omitempty"`
	Channel    *int64 `json:"channel,omitempty"`
	DataBankID *int64 `json:"dataBankId,omitempty"`
	StepSize   *int64 `json:"stepSize,omitempty"`
	StepBase   *int64 `json:"stepBase,omitempty"`
	Frequency  *int64 `json:"frequency,omitempty"`
	LengthMode *int64 `json:"lengthMode,omitempty"`
	DataLength *int64 `json:"dataLength,omitempty"`
	BlockID    *int64 `json:"blockId,omitempty"`
	Flags      *int64 `json:"flags,omitempty"`
}

func iv[T ~uint8 | ~uint16 | ~uint32 | ~int](v T) *int64 {
	x := int64(v)
	return &x
}

// ToObject converts a command to its structured form.
func ToObject(c Command) CommandObject {
	o := CommandObject{Cmd: c.Opcode(), Size: c.Size()}
	switch v := c.(type) {
	case WriteRegister:
		o.Chip = v.Chip()
		o.Index = iv(v.Index)
		if v.HasPort() {
			o.Port = iv(v.Port)
		}
		if v.HasAddr() {
			o.Addr = iv(v.Addr)
		}
		o.Data = iv(v.Data)
	case WaitWord, Wait735, Wait882, WaitNibble:
		o.Count = iv(WaitSamplesOf(c))
	case Write2A:
		o.Chip = v.Chip()
		o.Count = iv(v.Count)
	case DataBlock:
		o.Chip = v.Chip()
		o.BlockType = iv(v.BlockType)
		o.BlockSize = iv(v.BlockSize)
		o.BlockData = append([]byte(nil), v.Data...)
	case PCMRAMWrite:
		o.BlockType = iv(v.BlockType)
		o.ReadOffset = iv(v.ReadOffset)
		o.WriteOffset = iv(v.WriteOffset)
		o.WriteSize = iv(v.WriteSize)
	case SeekPCM:
		o.Offset = iv(v.Offset)
	case SetupStream:
		o.StreamID = iv(v.StreamID)
		o.Type = iv(v.Type)
		o.Port = iv(v.Port)
		o.Channel = iv(v.Channel)
	case SetStreamData:
		o.StreamID = iv(v.StreamID)
		o.DataBankID = iv(v.DataBankID)
		o.StepSize = iv(v.StepSize)
		o.StepBase = iv(v.StepBase)
	case SetStreamFrequency:
		o.StreamID = iv(v.StreamID)
		o.Frequency = iv(v.Frequency)
	case StartStream:
		o.StreamID = iv(v.StreamID)
		o.Offset = iv(v.Offset)
		o.LengthMode = iv(v.LengthMode)
		o.DataLength = iv(v.DataLength)
	case StopStream:
		o.StreamID = iv(v.StreamID)
	case StartStreamFast:
		o.StreamID = iv(v.StreamID)
		o.BlockID = iv(v.BlockID)
		o.Flags = iv(v.Flags)
	}
	return o
}

// objectReader pulls validated fields out of a CommandObject, keeping the
// first error.
type objectReader struct {
	cmd byte
	err error
}

func (r *objectReader) need(v *int64, name string, max int64) int64 {
	if r.err != nil {
		return 0
	}
	if v == nil {
		r.err = missingField(r.cmd, name)
		return 0
	}
	return r.check(*v, name, max)
}

func (r *objectReader) optional(v *int64, name string, def, max int64) int64 {
	if r.err != nil {
		return 0
	}
	if v == nil {
		return def
	}
	return r.check(*v, name, max)
}

func (r *objectReader) check(v int64, name string, max int64) int64 {
	if v < 0 || v > max {
		r.err = invalidField("cmd 0x%02X: %s %d outside 0-%d", r.cmd, name, v, max)
		return 0
	}
	return v
}

// FromObject converts a structured command back to a Command. Required
// fields that are nil yield ErrMissingRequiredField; values out of range
// yield ErrInvalidFieldValue.
func FromObject(o CommandObject) (Command, error) {
	op := o.Cmd
	r := &objectReader{cmd: op}
	var c Command
	switch {
	case op == 0x61:
		c = WaitWord{Count: uint16(r.need(o.Count, "count", 0xFFFF))}
	case op == 0x62:
		c = Wait735{}
	case op == 0x63:
		c = Wait882{}
	case op == 0x66:
		c = End{}
	case op == 0x67:
		return dataBlockFromObject(o, r)
	case op == 0x68:
		bt := r.need(o.BlockType, "blockType", 0xFF)
		ro := r.need(o.ReadOffset, "readOffset", uint24Max)
		wo := r.need(o.WriteOffset, "writeOffset", uint24Max)
		ws := r.need(o.WriteSize, "writeSize", uint24Max)
		if r.err != nil {
			return nil, r.err
		}
		return NewPCMRAMWrite(byte(bt), uint32(ro), uint32(wo), uint32(ws))
	case op >= 0x70 && op <= 0x7F:
		n := int64(op&0x0F) + 1
		if r.optional(o.Count, "count", n, 16) != n && r.err == nil {
			r.err = invalidField("cmd 0x%02X waits %d samples, count says %d", op, n, *o.Count)
		}
		c = WaitNibble{Count: uint8(n)}
	case op >= 0x80 && op <= 0x8F:
		n := int64(op & 0x0F)
		if r.optional(o.Count, "count", n, 15) != n && r.err == nil {
			r.err = invalidField("cmd 0x%02X waits %d samples, count says %d", op, n, *o.Count)
		}
		c = Write2A{Count: uint8(n)}
	case op == 0x90:
		c = SetupStream{
			StreamID: uint8(r.need(o.StreamID, "streamId", 0xFF)),
			Type:     uint8(r.need(o.Type, "type", 0xFF)),
			Port:     uint8(r.need(o.Port, "port", 0xFF)),
			Channel:  uint8(r.need(o.Channel, "channel", 0xFF)),
		}
	case op == 0x91:
		c = SetStreamData{
			StreamID:   uint8(r.need(o.StreamID, "streamId", 0xFF)),
			DataBankID: uint8(r.need(o.DataBankID, "dataBankId", 0xFF)),
			StepSize:   uint8(r.need(o.StepSize, "stepSize", 0xFF)),
			StepBase:   uint8(r.need(o.StepBase, "stepBase", 0xFF)),
		}
	case op == 0x92:
		c = SetStreamFrequency{
			StreamID:  uint8(r.need(o.StreamID, "streamId", 0xFF)),
			Frequency: uint32(r.need(o.Frequency, "frequency", 0xFFFFFFFF)),
		}
	case op == 0x93:
		c = StartStream{
			StreamID:   uint8(r.need(o.StreamID, "streamId", 0xFF)),
			Offset:     uint32(r.need(o.Offset, "offset", 0xFFFFFFFF)),
			LengthMode: uint8(r.need(o.LengthMode, "lengthMode", 0xFF)),
			DataLength: uint32(r.need(o.DataLength, "dataLength", 0xFFFFFFFF)),
		}
	case op == 0x94:
		c = StopStream{StreamID: uint8(r.need(o.StreamID, "streamId", 0xFF))}
	case op == 0x95:
		c = StartStreamFast{
			StreamID: uint8(r.need(o.StreamID, "streamId", 0xFF)),
			BlockID:  uint16(r.need(o.BlockID, "blockId", 0xFFFF)),
			Flags:    uint8(r.need(o.Flags, "flags", 0xFF)),
		}
	case op == 0xE0:
		c = SeekPCM{Offset: uint32(r.need(o.Offset, "offset", 0xFFFFFFFF))}
	default:
		return writeRegisterFromObject(o, r)
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

func dataBlockFromObject(o CommandObject, r *objectReader) (Command, error) {
	bt := r.need(o.BlockType, "blockType", 0xFF)
	size := r.need(o.BlockSize, "blockSize", 0xFFFFFFFF)
	if r.err == nil && o.BlockData == nil {
		r.err = missingField(o.Cmd, "blockData")
	}
	if r.err != nil {
		return nil, r.err
	}
	if size != int64(len(o.BlockData)) {
		return nil, invalidField("data block size %d but %d payload bytes", size, len(o.BlockData))
	}
	return NewDataBlock(byte(bt), o.BlockData)
}

func writeRegisterFromObject(o CommandObject, r *objectReader) (Command, error) {
	l, ok := writeLayoutOf(o.Cmd)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownOpcode, "unsupported command 0x%02X", o.Cmd)
	}
	info := writeLayouts[l]
	index := r.optional(o.Index, "index", int64(opcodeIndex(o.Cmd)), 1)
	var port, addr int64
	switch {
	case l == layoutPortAddrData:
		port = r.need(o.Port, "port", int64(info.portMax))
	case info.hasPort:
		port = r.optional(o.Port, "port", int64(opcodePort(o.Cmd)), int64(info.portMax))
	}
	if info.hasAddr {
		addr = r.need(o.Addr, "addr", int64(info.addrMax))
	}
	data := r.need(o.Data, "data", int64(info.dataMax))
	if r.err != nil {
		return nil, r.err
	}
	return NewWriteRegister(o.Cmd, uint8(index), uint8(port), uint16(addr), uint16(data))
}
