// command_write.go - Register write commands (0x30-0x5F, 0xA0-0xE1).
//
// The byte layout depends on the opcode range. Where a field is marked
// "bit 7" or "bit 15" its top bit selects the second chip instance:
//
//	0x30 0x3F 0x4F 0x50       op dd               index fixed by opcode
//	0x51-0x5F 0xA1-0xAF       op aa dd            index by 0x5x/0xAx, port by opcode
//	0xA0 0xB0-0xBF            op aa dd            aa bit 7
//	0xC0-0xC2                 op aaaa(LE) dd      aaaa bit 15
//	0xC3                      op aa dddd(LE)      aa bit 7
//	0xC4                      op dddd(BE) aa      index 0
//	0xC5-0xC8 0xD3-0xD5       op aaaa(BE) dd      aaaa bit 15
//	0xD0-0xD2                 op pp aa dd         pp bit 7
//	0xD6                      op aa dddd(BE)      aa bit 7
//	0xE1                      op aaaa(BE) dddd(BE) aaaa bit 15

package vgm

type writeLayout uint8

const (
	layoutData writeLayout = iota
	layoutAddrData
	layoutAddr7Data
	layoutAddr16LEData
	layoutAddr7Data16LE
	layoutData16BEAddr
	layoutAddr16BEData
	layoutPortAddrData
	layoutAddr7Data16BE
	layoutAddr16BEData16BE
)

type writeLayoutInfo struct {
	size    int
	hasAddr bool
	hasPort bool
	addrMax uint16
	dataMax uint16
	portMax uint8
	// indexInOpcode is set when the opcode alone selects the chip instance.
	indexInOpcode bool
}

var writeLayouts = [...]writeLayoutInfo{
	layoutData:             {size: 2, dataMax: 0xFF, indexInOpcode: true},
	layoutAddrData:         {size: 3, hasAddr: true, hasPort: true, addrMax: 0xFF, dataMax: 0xFF, portMax: 1, indexInOpcode: true},
	layoutAddr7Data:        {size: 3, hasAddr: true, addrMax: 0x7F, dataMax: 0xFF},
	layoutAddr16LEData:     {size: 4, hasAddr: true, addrMax: 0x7FFF, dataMax: 0xFF},
	layoutAddr7Data16LE:    {size: 4, hasAddr: true, addrMax: 0x7F, dataMax: 0xFFFF},
	layoutData16BEAddr:     {size: 4, hasAddr: true, addrMax: 0xFF, dataMax: 0xFFFF, indexInOpcode: true},
	layoutAddr16BEData:     {size: 4, hasAddr: true, addrMax: 0x7FFF, dataMax: 0xFF},
	layoutPortAddrData:     {size: 4, hasAddr: true, hasPort: true, addrMax: 0xFF, dataMax: 0xFF, portMax: 0x7F},
	layoutAddr7Data16BE:    {size: 4, hasAddr: true, addrMax: 0x7F, dataMax: 0xFFFF},
	layoutAddr16BEData16BE: {size: 5, hasAddr: true, addrMax: 0x7FFF, dataMax: 0xFFFF},
}

func writeLayoutOf(op byte) (writeLayout, bool) {
	if _, ok := opcodeChips[op]; !ok {
		return 0, false
	}
	switch {
	case op == 0x30 || op == 0x3F || op == 0x4F || op == 0x50:
		return layoutData, true
	case op >= 0x51 && op <= 0x5F, op >= 0xA1 && op <= 0xAF:
		return layoutAddrData, true
	case op == 0xA0, op >= 0xB0 && op <= 0xBF:
		return layoutAddr7Data, true
	case op >= 0xC0 && op <= 0xC2:
		return layoutAddr16LEData, true
	case op == 0xC3:
		return layoutAddr7Data16LE, true
	case op == 0xC4:
		return layoutData16BEAddr, true
	case op >= 0xC5 && op <= 0xC8, op >= 0xD3 && op <= 0xD5:
		return layoutAddr16BEData, true
	case op >= 0xD0 && op <= 0xD2:
		return layoutPortAddrData, true
	case op == 0xD6:
		return layoutAddr7Data16BE, true
	case op == 0xE1:
		return layoutAddr16BEData16BE, true
	}
	return 0, false
}

// opcodeIndex returns the instance index implied by opcodes whose layout has
// no index bit.
func opcodeIndex(op byte) uint8 {
	switch {
	case op == 0x30 || op == 0x3F:
		return 1
	case op >= 0xA1 && op <= 0xAF:
		return 1
	}
	return 0
}

// opcodePort returns the port implied by 0x5n/0xAn opcodes: the second port
// of YM2612 (n=3), YM2608 (n=7), YM2610 (n=9) and YMF262 (n=F).
func opcodePort(op byte) uint8 {
	switch op & 0x0F {
	case 0x3, 0x7, 0x9, 0xF:
		return 1
	}
	return 0
}

func registerWriteOpcodes() {
	for op := 0; op < 256; op++ {
		l, ok := writeLayoutOf(byte(op))
		if !ok {
			continue
		}
		registerOpcodes(byte(op), byte(op), opcodeEntry{"writeRegister", writeLayouts[l].size, decodeWriteRegister})
	}
}

// WriteRegister writes Data to register Addr (and Port) of a chip instance.
// Addr and Port are ignored by layouts that do not carry them.
type WriteRegister struct {
	Op    byte
	Index uint8 // 0 = first chip, 1 = second chip
	Port  uint8
	Addr  uint16
	Data  uint16
}

// NewWriteRegister validates the fields against the opcode's layout.
func NewWriteRegister(op byte, index, port uint8, addr, data uint16) (WriteRegister, error) {
	l, ok := writeLayoutOf(op)
	if !ok {
		return WriteRegister{}, invalidField("opcode 0x%02X is not a register write", op)
	}
	info := writeLayouts[l]
	if index > 1 {
		return WriteRegister{}, invalidField("cmd 0x%02X: chip index %d not 0 or 1", op, index)
	}
	if info.indexInOpcode && index != opcodeIndex(op) {
		return WriteRegister{}, invalidField("cmd 0x%02X: chip index %d, opcode selects %d", op, index, opcodeIndex(op))
	}
	switch {
	case l == layoutAddrData && port != opcodePort(op):
		return WriteRegister{}, invalidField("cmd 0x%02X: port %d, opcode selects %d", op, port, opcodePort(op))
	case !info.hasPort && port != 0:
		return WriteRegister{}, invalidField("cmd 0x%02X has no port", op)
	case port > info.portMax:
		return WriteRegister{}, invalidField("cmd 0x%02X: port 0x%X exceeds 0x%X", op, port, info.portMax)
	}
	if !info.hasAddr && addr != 0 {
		return WriteRegister{}, invalidField("cmd 0x%02X has no address", op)
	}
	if addr > info.addrMax {
		return WriteRegister{}, invalidField("cmd 0x%02X: address 0x%X exceeds 0x%X", op, addr, info.addrMax)
	}
	if data > info.dataMax {
		return WriteRegister{}, invalidField("cmd 0x%02X: data 0x%X exceeds 0x%X", op, data, info.dataMax)
	}
	return WriteRegister{Op: op, Index: index, Port: port, Addr: addr, Data: data}, nil
}

// Validate applies the checks of NewWriteRegister.
func (w WriteRegister) Validate() error {
	_, err := NewWriteRegister(w.Op, w.Index, w.Port, w.Addr, w.Data)
	return err
}

// WriteOpcode finds the register-write opcode for a chip instance and port.
// The lowest matching opcode wins, so ES5506 resolves to the 8-bit 0xBE form.
func WriteOpcode(chip ChipName, index, port uint8) (byte, bool) {
	if index > 1 {
		return 0, false
	}
	for op := 0; op < 256; op++ {
		if opcodeChips[byte(op)] != chip {
			continue
		}
		l, _ := writeLayoutOf(byte(op))
		info := writeLayouts[l]
		if info.indexInOpcode && opcodeIndex(byte(op)) != index {
			continue
		}
		if l == layoutAddrData && opcodePort(byte(op)) != port {
			continue
		}
		if l != layoutAddrData && port > info.portMax {
			continue
		}
		return byte(op), true
	}
	return 0, false
}

func (w WriteRegister) layout() writeLayoutInfo {
	l, _ := writeLayoutOf(w.Op)
	return writeLayouts[l]
}

// Chip returns the chip addressed by the opcode.
func (w WriteRegister) Chip() ChipName {
	if c, ok := opcodeChips[w.Op]; ok {
		return c
	}
	return ChipUnknown
}

// HasAddr reports whether the opcode's layout carries a register address.
func (w WriteRegister) HasAddr() bool { return w.layout().hasAddr }

// HasPort reports whether the opcode selects or carries a port.
func (w WriteRegister) HasPort() bool { return w.layout().hasPort }

func (w WriteRegister) Opcode() byte { return w.Op }
func (w WriteRegister) Size() int { return w.layout().size }
func (WriteRegister) command() {}

func (w WriteRegister) AppendTo(dst []byte) []byte {
	l, _ := writeLayoutOf(w.Op)
	idx8 := (w.Index & 1) << 7
	idx16 := uint16(w.Index&1) << 15
	dst = append(dst, w.Op)
	switch l {
	case layoutData:
		dst = append(dst, byte(w.Data))
	case layoutAddrData:
		dst = append(dst, byte(w.Addr), byte(w.Data))
	case layoutAddr7Data:
		dst = append(dst, byte(w.Addr&0x7F)|idx8, byte(w.Data))
	case layoutAddr16LEData:
		dst = appendUint16LE(dst, w.Addr&0x7FFF|idx16)
		dst = append(dst, byte(w.Data))
	case layoutAddr7Data16LE:
		dst = append(dst, byte(w.Addr&0x7F)|idx8)
		dst = appendUint16LE(dst, w.Data)
	case layoutData16BEAddr:
		dst = appendUint16BE(dst, w.Data)
		dst = append(dst, byte(w.Addr))
	case layoutAddr16BEData:
		dst = appendUint16BE(dst, w.Addr&0x7FFF|idx16)
		dst = append(dst, byte(w.Data))
	case layoutPortAddrData:
		dst = append(dst, w.Port&0x7F|idx8, byte(w.Addr), byte(w.Data))
	case layoutAddr7Data16BE:
		dst = append(dst, byte(w.Addr&0x7F)|idx8)
		dst = appendUint16BE(dst, w.Data)
	case layoutAddr16BEData16BE:
		dst = appendUint16BE(dst, w.Addr&0x7FFF|idx16)
		dst = appendUint16BE(dst, w.Data)
	}
	return dst
}

func decodeWriteRegister(buf []byte, off int) (Command, error) {
	op := buf[off]
	l, ok := writeLayoutOf(op)
	if !ok {
		return nil, decodeError(ErrUnknownOpcode, buf, off)
	}
	b := buf[off+1:]
	w := WriteRegister{Op: op}
	switch l {
	case layoutData:
		w.Index = opcodeIndex(op)
		w.Data = uint16(b[0])
	case layoutAddrData:
		w.Index = opcodeIndex(op)
		w.Port = opcodePort(op)
		w.Addr = uint16(b[0])
		w.Data = uint16(b[1])
	case layoutAddr7Data:
		w.Index = b[0] >> 7
		w.Addr = uint16(b[0] & 0x7F)
		w.Data = uint16(b[1])
	case layoutAddr16LEData:
		a := readUint16LE(b, 0)
		w.Index = uint8(a >> 15)
		w.Addr = a & 0x7FFF
		w.Data = uint16(b[2])
	case layoutAddr7Data16LE:
		w.Index = b[0] >> 7
		w.Addr = uint16(b[0] & 0x7F)
		w.Data = readUint16LE(b, 1)
	case layoutData16BEAddr:
		w.Data = readUint16BE(b, 0)
		w.Addr = uint16(b[2])
	case layoutAddr16BEData:
		a := readUint16BE(b, 0)
		w.Index = uint8(a >> 15)
		w.Addr = a & 0x7FFF
		w.Data = uint16(b[2])
	case layoutPortAddrData:
		w.Index = b[0] >> 7
		w.Port = b[0] & 0x7F
		w.Addr = uint16(b[1])
		w.Data = uint16(b[2])
	case layoutAddr7Data16BE:
		w.Index = b[0] >> 7
		w.Addr = uint16(b[0] & 0x7F)
		w.Data = readUint16BE(b, 1)
	case layoutAddr16BEData16BE:
		a := readUint16BE(b, 0)
		w.Index = uint8(a >> 15)
		w.Addr = a & 0x7FFF
		w.Data = readUint16BE(b, 2)
	}
	return w, nil
}
