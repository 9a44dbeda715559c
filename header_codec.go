// header_codec.go - Binary layout of the VGM header.
//
// Every field is listed with the version that introduced it. A field is read
// or written only when the file version is at least that version and the
// field ends at or before the data offset; header bytes that overlap the
// command stream belong to the stream.

package vgm

import (
	"math"

	"github.com/pkg/errors"
)

const (
	vgmMagic = 0x206D6756 // "Vgm "

	headerMinSize  = 0x40
	legacyDataOff  = 0x40 // data offset of every file older than 1.50
	offsetEOFBase  = 0x04
	offsetGD3Base  = 0x14
	offsetLoopBase = 0x1C
	offsetDataBase = 0x34
	offsetExtBase  = 0xBC

	clockMask = 0x3FFFFFFF
	clockDual = 1 << 30
	clockAlt  = 1 << 31
)

type clockVariant uint8

const (
	variantNone clockVariant = iota
	variantChipType
	variantT6W28
	variantFDS
)

type clockField struct {
	chip    ChipName
	off     int
	since   Version
	variant clockVariant
}

var clockFields = [...]clockField{
	{ChipSN76489, 0x0C, 0, variantT6W28},
	{ChipYM2413, 0x10, 0, variantNone},
	{ChipYM2612, 0x2C, 0x110, variantChipType},
	{ChipYM2151, 0x30, 0x110, variantChipType},
	{ChipSegaPCM, 0x38, 0x151, variantNone},
	{ChipRF5C68, 0x40, 0x151, variantNone},
	{ChipYM2203, 0x44, 0x151, variantNone},
	{ChipYM2608, 0x48, 0x151, variantNone},
	{ChipYM2610, 0x4C, 0x151, variantChipType},
	{ChipYM3812, 0x50, 0x151, variantNone},
	{ChipYM3526, 0x54, 0x151, variantNone},
	{ChipY8950, 0x58, 0x151, variantNone},
	{ChipYMF262, 0x5C, 0x151, variantNone},
	{ChipYMF278B, 0x60, 0x151, variantNone},
	{ChipYMF271, 0x64, 0x151, variantNone},
	{ChipYMZ280B, 0x68, 0x151, variantNone},
	{ChipRF5C164, 0x6C, 0x151, variantNone},
	{ChipPWM, 0x70, 0x151, variantNone},
	{ChipAY8910, 0x74, 0x151, variantNone},
	{ChipGameBoyDMG, 0x80, 0x161, variantNone},
	{ChipNESAPU, 0x84, 0x161, variantFDS},
	{ChipMultiPCM, 0x88, 0x161, variantNone},
	{ChipUPD7759, 0x8C, 0x161, variantNone},
	{ChipOKIM6258, 0x90, 0x161, variantNone},
	{ChipOKIM6295, 0x98, 0x161, variantNone},
	{ChipK051649, 0x9C, 0x161, variantNone},
	{ChipK054539, 0xA0, 0x161, variantNone},
	{ChipHuC6280, 0xA4, 0x161, variantNone},
	{ChipC140, 0xA8, 0x161, variantNone},
	{ChipK053260, 0xAC, 0x161, variantNone},
	{ChipPokey, 0xB0, 0x161, variantNone},
	{ChipQSound, 0xB4, 0x161, variantNone},
	{ChipSCSP, 0xB8, 0x171, variantNone},
	{ChipWonderSwan, 0xC0, 0x171, variantNone},
	{ChipVSU, 0xC4, 0x171, variantNone},
	{ChipSAA1099, 0xC8, 0x171, variantNone},
	{ChipES5503, 0xCC, 0x171, variantNone},
	{ChipES5506, 0xD0, 0x171, variantChipType},
	{ChipX1010, 0xD8, 0x171, variantNone},
	{ChipC352, 0xDC, 0x171, variantNone},
	{ChipGA20, 0xE0, 0x171, variantNone},
}

// chipParam is a chip sub-field stored outside the clock word. The value is
// widened to uint32 by get/set.
type chipParam struct {
	chip  ChipName
	off   int
	size  int
	since Version
	get   func(c *ChipConfig) uint32
	set   func(c *ChipConfig, v uint32)
}

func chipTypeParam(chip ChipName, off int, since Version) chipParam {
	return chipParam{chip, off, 1, since,
		func(c *ChipConfig) uint32 { return uint32(c.ChipType.Value) },
		func(c *ChipConfig, v uint32) { c.ChipType = ChipType{uint8(v), ChipTypeName(chip, uint8(v))} }}
}

func flagsParam(chip ChipName, off int, since Version) chipParam {
	return chipParam{chip, off, 1, since,
		func(c *ChipConfig) uint32 { return uint32(c.Flags) },
		func(c *ChipConfig, v uint32) { c.Flags = uint8(v) }}
}

func ssgFlagsParam(chip ChipName, off int) chipParam {
	return chipParam{chip, off, 1, 0x151,
		func(c *ChipConfig) uint32 { return uint32(c.SSGFlags) },
		func(c *ChipConfig, v uint32) { c.SSGFlags = uint8(v) }}
}

func channelsParam(chip ChipName, off int) chipParam {
	return chipParam{chip, off, 1, 0x171,
		func(c *ChipConfig) uint32 { return uint32(c.NumberOfChannels) },
		func(c *ChipConfig, v uint32) { c.NumberOfChannels = uint8(v) }}
}

var chipParams = [...]chipParam{
	{ChipSN76489, 0x28, 2, 0x110,
		func(c *ChipConfig) uint32 { return uint32(c.Feedback) },
		func(c *ChipConfig, v uint32) { c.Feedback = uint16(v) }},
	{ChipSN76489, 0x2A, 1, 0x110,
		func(c *ChipConfig) uint32 { return uint32(c.ShiftRegisterWidth) },
		func(c *ChipConfig, v uint32) { c.ShiftRegisterWidth = uint8(v) }},
	flagsParam(ChipSN76489, 0x2B, 0x151),
	{ChipSegaPCM, 0x3C, 4, 0x151,
		func(c *ChipConfig) uint32 { return c.InterfaceRegister },
		func(c *ChipConfig, v uint32) { c.InterfaceRegister = v }},
	chipTypeParam(ChipAY8910, 0x78, 0x151),
	flagsParam(ChipAY8910, 0x79, 0x151),
	ssgFlagsParam(ChipYM2203, 0x7A),
	ssgFlagsParam(ChipYM2608, 0x7B),
	flagsParam(ChipOKIM6258, 0x94, 0x161),
	flagsParam(ChipK054539, 0x95, 0x161),
	chipTypeParam(ChipC140, 0x96, 0x161),
	channelsParam(ChipES5503, 0xD4),
	channelsParam(ChipES5506, 0xD5),
	{ChipC352, 0xD6, 1, 0x171,
		func(c *ChipConfig) uint32 { return uint32(c.ClockDivider) },
		func(c *ChipConfig, v uint32) { c.ClockDivider = uint8(v) }},
}

// scalarField is a header field that is not tied to a chip.
type scalarField struct {
	off   int
	size  int
	since Version
	get   func(h *Header) uint32
	set   func(h *Header, v uint32)
}

var scalarFields = [...]scalarField{
	{0x18, 4, 0, func(h *Header) uint32 { return h.Samples.Total }, func(h *Header, v uint32) { h.Samples.Total = v }},
	{0x20, 4, 0, func(h *Header) uint32 { return h.Samples.Loop }, func(h *Header, v uint32) { h.Samples.Loop = v }},
	{0x24, 4, 0x101, func(h *Header) uint32 { return h.Rate }, func(h *Header, v uint32) { h.Rate = v }},
	{0x7C, 1, 0x160, func(h *Header) uint32 { return uint32(h.VolumeModifier) }, func(h *Header, v uint32) { h.VolumeModifier = uint8(v) }},
	{0x7E, 1, 0x160, func(h *Header) uint32 { return uint32(uint8(h.LoopBase)) }, func(h *Header, v uint32) { h.LoopBase = int8(uint8(v)) }},
	{0x7F, 1, 0x151, func(h *Header) uint32 { return uint32(h.LoopModifier) }, func(h *Header, v uint32) { h.LoopModifier = uint8(v) }},
}

// offsetField is a relative offset stored as absolute minus base.
type offsetField struct {
	base  int
	since Version
	ptr   func(o *Offsets) *int
}

var offsetFields = [...]offsetField{
	{offsetEOFBase, 0, func(o *Offsets) *int { return &o.EOF }},
	{offsetGD3Base, 0, func(o *Offsets) *int { return &o.GD3 }},
	{offsetLoopBase, 0, func(o *Offsets) *int { return &o.Loop }},
	{offsetDataBase, 0x150, func(o *Offsets) *int { return &o.Data }},
	{offsetExtBase, 0x170, func(o *Offsets) *int { return &o.ExtraHeader }},
}

// fieldEnabled reports whether a field of size bytes at off exists in a
// header of version v whose command stream starts at dataOff.
func fieldEnabled(v Version, dataOff int, since Version, off, size int) bool {
	return v >= since && off+size <= dataOff
}

// HeaderSize is the data offset NewDocument and SetVersion use for v: the
// end of the last header field v defines.
func HeaderSize(v Version) int {
	switch {
	case v < 0x151:
		return legacyDataOff
	case v < 0x161:
		return 0x80
	case v < 0x171:
		return 0xC0
	}
	return 0x100
}

// relOffset resolves an offset stored relative to base. Results that do not
// fit in an int saturate to math.MaxInt, which lies past the end of any buffer.
func relOffset(base int, rel uint32) int {
	abs := uint64(base) + uint64(rel)
	if abs > math.MaxInt {
		return math.MaxInt
	}
	return int(abs)
}

// ParseHeader decodes the header of a VGM or VGZ image.
func ParseHeader(b []byte) (*Header, error) {
	plain, err := Gunzip(b)
	if err != nil {
		return nil, err
	}
	return decodeHeader(plain)
}

func decodeHeader(b []byte) (*Header, error) {
	if len(b) < 4 || readUint32LE(b, 0) != vgmMagic {
		return nil, errors.WithStack(ErrMalformedMagic)
	}
	if len(b) < headerMinSize {
		return nil, errors.Wrapf(ErrTruncatedHeader, "%d bytes, need 0x%X", len(b), headerMinSize)
	}
	h := &Header{Version: Version(readUint32LE(b, 0x08)), Chips: map[ChipName]ChipConfig{}}

	h.Offsets.Data = legacyDataOff
	if h.Version >= 0x150 {
		if rel := readUint32LE(b, offsetDataBase); rel != 0 {
			h.Offsets.Data = relOffset(offsetDataBase, rel)
		}
	}
	if h.Offsets.Data > len(b) {
		return nil, errors.Wrapf(ErrTruncatedHeader, "data offset 0x%X past end of %d bytes", h.Offsets.Data, len(b))
	}
	dataOff := h.Offsets.Data

	for _, f := range offsetFields {
		if f.base == offsetDataBase || !fieldEnabled(h.Version, dataOff, f.since, f.base, 4) {
			continue
		}
		if rel := readUint32LE(b, f.base); rel != 0 {
			*f.ptr(&h.Offsets) = relOffset(f.base, rel)
		}
	}
	for _, f := range scalarFields {
		if fieldEnabled(h.Version, dataOff, f.since, f.off, f.size) {
			f.set(h, readField(b, f.off, f.size))
		}
	}
	for _, f := range clockFields {
		if !fieldEnabled(h.Version, dataOff, f.since, f.off, 4) {
			continue
		}
		raw := readUint32LE(b, f.off)
		if raw == 0 {
			continue
		}
		c := ChipConfig{Clock: raw & clockMask, Dual: raw&clockDual != 0}
		variant := raw&clockAlt != 0
		switch f.variant {
		case variantChipType:
			var v uint8
			if variant {
				v = 1
			}
			c.ChipType = ChipType{v, ChipTypeName(f.chip, v)}
		case variantT6W28:
			c.T6W28 = variant
		case variantFDS:
			c.FDS = variant
		}
		h.Chips[f.chip] = c
	}
	for _, p := range chipParams {
		c, ok := h.Chips[p.chip]
		if !ok || !fieldEnabled(h.Version, dataOff, p.since, p.off, p.size) {
			continue
		}
		p.set(&c, readField(b, p.off, p.size))
		h.Chips[p.chip] = c
	}
	return h, nil
}

// encodeHeader writes h into buf. h.Offsets must already hold the final
// absolute positions; buf is left at least h.Offsets.Data bytes long.
func encodeHeader(buf *ByteBuffer, h *Header) {
	v := h.Version
	dataOff := h.Offsets.Data
	if v < 0x150 {
		dataOff = legacyDataOff
	}
	buf.SetUint32LE(0x00, vgmMagic)
	buf.SetUint32LE(0x08, uint32(v))
	if dataOff > buf.Len() {
		buf.SetUint8(dataOff-1, 0)
	}

	for _, f := range offsetFields {
		if !fieldEnabled(v, dataOff, f.since, f.base, 4) {
			continue
		}
		var rel uint32
		if abs := *f.ptr(&h.Offsets); abs != 0 {
			rel = uint32(abs - f.base)
		}
		buf.SetUint32LE(f.base, rel)
	}
	for _, f := range scalarFields {
		if fieldEnabled(v, dataOff, f.since, f.off, f.size) {
			writeField(buf, f.off, f.size, f.get(h))
		}
	}
	for _, f := range clockFields {
		c, ok := h.Chips[f.chip]
		if !ok || !fieldEnabled(v, dataOff, f.since, f.off, 4) {
			continue
		}
		raw := c.Clock & clockMask
		if c.Dual {
			raw |= clockDual
		}
		switch f.variant {
		case variantChipType:
			if c.ChipType.Value != 0 {
				raw |= clockAlt
			}
		case variantT6W28:
			if c.T6W28 {
				raw |= clockAlt
			}
		case variantFDS:
			if c.FDS {
				raw |= clockAlt
			}
		}
		buf.SetUint32LE(f.off, raw)
	}
	for _, p := range chipParams {
		c, ok := h.Chips[p.chip]
		if !ok || !fieldEnabled(v, dataOff, p.since, p.off, p.size) {
			continue
		}
		writeField(buf, p.off, p.size, p.get(&c))
	}
	if fieldEnabled(v, dataOff, 0x171, 0xE4, 4) {
		buf.SetUint32LE(0xE4, 0)
	}
}

func readField(b []byte, off, size int) uint32 {
	switch size {
	case 1:
		return uint32(b[off])
	case 2:
		return uint32(readUint16LE(b, off))
	}
	return readUint32LE(b, off)
}

func writeField(buf *ByteBuffer, off, size int, v uint32) {
	switch size {
	case 1:
		buf.SetUint8(off, uint8(v))
	case 2:
		buf.SetUint16LE(off, uint16(v))
	default:
		buf.SetUint32LE(off, v)
	}
}
