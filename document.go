// document.go - A complete VGM file: header, command stream bytes, optional
// GD3 tag and optional extra header.
//
// The document stores the loop point relative to the start of the command
// stream and derives every absolute offset at Build time, so changing the
// version, tag or extra header never leaves a stale offset behind.

package vgm

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

const (
	defaultVersion = 0x171
	defaultRate    = 60
)

// Document is not safe for concurrent use. Getters return copies and
// setters copy their arguments.
type Document struct {
	header *Header
	data   []byte
	loop   int // loop point relative to data start, -1 when absent
	gd3    *GD3Tag
	extra  *ExtraHeader
}

// NewDocument returns an empty version 1.71 document with rate 60 and its
// command stream at 0x100.
func NewDocument() *Document {
	return &Document{
		header: &Header{
			Version: defaultVersion,
			Rate:    defaultRate,
			Chips:   map[ChipName]ChipConfig{},
			Offsets: Offsets{Data: HeaderSize(defaultVersion)},
		},
		loop: -1,
	}
}

// Parse decodes a VGM or VGZ image.
func Parse(b []byte) (*Document, error) {
	plain, err := Gunzip(b)
	if err != nil {
		return nil, err
	}
	h, err := decodeHeader(plain)
	if err != nil {
		return nil, err
	}
	d := &Document{header: h, loop: -1}

	start := h.Offsets.Data
	end := len(plain)
	if h.Offsets.EOF > start && h.Offsets.EOF < end {
		end = h.Offsets.EOF
	}
	if h.Offsets.GD3 > start && h.Offsets.GD3 < end {
		end = h.Offsets.GD3
	}
	d.data = append([]byte{}, plain[start:end]...)

	if h.Offsets.Loop != 0 {
		if h.Offsets.Loop < start || h.Offsets.Loop >= end {
			return nil, invalidField("loop offset 0x%X outside data 0x%X-0x%X", h.Offsets.Loop, start, end)
		}
		d.loop = h.Offsets.Loop - start
	}
	if off := h.Offsets.GD3; off != 0 && off < len(plain) {
		if t, ok := ParseGD3Tag(plain[off:]); ok {
			d.gd3 = &t
		}
	}
	if off := h.Offsets.ExtraHeader; off != 0 && off < len(plain) {
		d.extra, err = ParseExtraHeader(plain[off:])
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ParseFile reads and decodes a .vgm or .vgz file.
func ParseFile(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	d, err := Parse(b)
	return d, errors.Wrapf(err, "parse %s", path)
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		header: d.header.Clone(),
		data:   append([]byte{}, d.data...),
		loop:   d.loop,
		extra:  d.extra.Clone(),
	}
	if d.gd3 != nil {
		t := *d.gd3
		c.gd3 = &t
	}
	return c
}

// Header returns a copy of the header with offsets recomputed for the
// current content. It fails when the tag or extra header cannot be encoded.
func (d *Document) Header() (*Header, error) {
	l, err := d.layout()
	if err != nil {
		return nil, err
	}
	h := d.header.Clone()
	h.Offsets = l.offsets
	if d.loop < 0 {
		h.Samples.Loop = 0
	}
	return h, nil
}

func (d *Document) Version() Version { return d.header.Version }

// SetVersion changes the version and moves the command stream to the
// default data offset for that version. Fields the new version does not
// define are dropped on Build.
func (d *Document) SetVersion(v Version) {
	d.header.Version = v
	d.header.Offsets.Data = HeaderSize(v)
}

func (d *Document) SetRate(rate uint32) { d.header.Rate = rate }

// SetLoopModifiers sets the loop base (0x7E) and loop modifier (0x7F).
func (d *Document) SetLoopModifiers(base int8, modifier uint8) {
	d.header.LoopBase = base
	d.header.LoopModifier = modifier
}

func (d *Document) SetVolumeModifier(v uint8) { d.header.VolumeModifier = v }

// Chip returns the configuration of chip, if present.
func (d *Document) Chip(chip ChipName) (ChipConfig, bool) {
	c, ok := d.header.Chips[chip]
	return c, ok
}

// SetChip adds or replaces a chip. A zero clock removes it, since the file
// format has no way to store a present chip without a clock.
func (d *Document) SetChip(chip ChipName, c ChipConfig) {
	if c.Clock&clockMask == 0 {
		delete(d.header.Chips, chip)
		return
	}
	d.header.Chips[chip] = c
}

func (d *Document) RemoveChip(chip ChipName) { delete(d.header.Chips, chip) }

// Data returns a copy of the command stream bytes.
func (d *Document) Data() []byte { return append([]byte{}, d.data...) }

// LoopByteOffset returns the loop point relative to the data start, or -1.
func (d *Document) LoopByteOffset() int { return d.loop }

// SetData replaces the command stream. loopByteOffset is relative to the
// start of b; pass -1 for no loop.
func (d *Document) SetData(b []byte, loopByteOffset int, totalSamples, loopSamples uint32) error {
	if loopByteOffset >= len(b) || loopByteOffset < -1 {
		return invalidField("loop byte offset %d outside %d data bytes", loopByteOffset, len(b))
	}
	d.data = append([]byte{}, b...)
	d.loop = loopByteOffset
	d.header.Samples = Samples{Total: totalSamples}
	if loopByteOffset >= 0 {
		d.header.Samples.Loop = loopSamples
	}
	return nil
}

// SetDataStream replaces the command stream with s, taking the sample
// totals and loop point from its bookkeeping. Like SetData it rejects a loop
// point with no command after it.
func (d *Document) SetDataStream(s *DataStream) error {
	return d.SetData(s.Build(), s.LoopByteOffset(), uint32(s.TotalSamples()), uint32(s.LoopSamples()))
}

// DataStream decodes the current command stream. An empty stream decodes
// to an empty DataStream.
func (d *Document) DataStream() (*DataStream, error) {
	if len(d.data) == 0 {
		return NewDataStream(), nil
	}
	return parseDataStream(d.data, 0, d.loop)
}

// GD3Tag returns a copy of the tag, if present.
func (d *Document) GD3Tag() (GD3Tag, bool) {
	if d.gd3 == nil {
		return GD3Tag{}, false
	}
	return *d.gd3, true
}

// SetGD3Tag replaces the tag; nil removes it.
func (d *Document) SetGD3Tag(t *GD3Tag) {
	if t == nil {
		d.gd3 = nil
		return
	}
	c := *t
	d.gd3 = &c
}

// ExtraHeader returns a copy of the extra header, or nil.
func (d *Document) ExtraHeader() *ExtraHeader { return d.extra.Clone() }

// SetExtraHeader replaces the extra header; nil removes it. It is only
// written for versions 1.70 and later.
func (d *Document) SetExtraHeader(e *ExtraHeader) { d.extra = e.Clone() }

// Offsets returns the absolute offsets Build would write.
func (d *Document) Offsets() (Offsets, error) {
	l, err := d.layout()
	if err != nil {
		return Offsets{}, err
	}
	return l.offsets, nil
}

type layout struct {
	offsets Offsets
	extra   []byte
	gd3     []byte
}

// layout places the extra header after the fixed header, then the command
// stream, then the GD3 tag.
func (d *Document) layout() (layout, error) {
	var l layout
	v := d.header.Version
	data := d.header.Offsets.Data
	if v < 0x150 {
		data = legacyDataOff
	}
	if d.extra != nil && v >= 0x170 {
		b, err := d.extra.MarshalBinary()
		if err != nil {
			return l, err
		}
		l.extra = b
		l.offsets.ExtraHeader = HeaderSize(v)
		data = max(data, l.offsets.ExtraHeader+len(b))
	}
	l.offsets.Data = data
	if d.loop >= 0 {
		l.offsets.Loop = data + d.loop
	}
	end := data + len(d.data)
	if d.gd3 != nil {
		b, err := d.gd3.MarshalBinary()
		if err != nil {
			return l, err
		}
		l.gd3 = b
		l.offsets.GD3 = end
		end += len(b)
	}
	l.offsets.EOF = end
	return l, nil
}

// Build serializes the document.
func (d *Document) Build() ([]byte, error) {
	l, err := d.layout()
	if err != nil {
		return nil, err
	}
	h := d.header.Clone()
	h.Offsets = l.offsets
	if d.loop < 0 {
		h.Samples.Loop = 0
	}

	buf := NewByteBuffer()
	encodeHeader(buf, h)
	if l.extra != nil {
		buf.SetBytes(l.offsets.ExtraHeader, l.extra)
	}
	buf.SetBytes(l.offsets.Data, d.data)
	if l.gd3 != nil {
		buf.SetBytes(l.offsets.GD3, l.gd3)
	}
	return buf.Bytes(), nil
}

type documentJSON struct {
	*Header
	GD3Tag      *GD3Tag      `json:"gd3tag,omitempty"`
	ExtraHeader *ExtraHeader `json:"extraHeader,omitempty"`
	DataLength  int          `json:"dataLength"`
}

// MarshalJSON renders the header, tag and extra header. The command stream
// is summarized by its length.
func (d *Document) MarshalJSON() ([]byte, error) {
	h, err := d.Header()
	if err != nil {
		return nil, err
	}
	return json.Marshal(documentJSON{
		Header:      h,
		GD3Tag:      d.gd3,
		ExtraHeader: d.extra,
		DataLength:  len(d.data),
	})
}
