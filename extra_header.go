// extra_header.go - VGM 1.70 extra header: per-chip clock and volume
// overrides referenced by header offset 0xBC.

package vgm

import "github.com/pkg/errors"

const (
	extraClockEntrySize  = 5 // id u8, clock u32
	extraVolumeEntrySize = 4 // id u8, flags u8, volume u16

	extraVolumePaired   = 0x80
	extraVolumeAbsolute = 0x8000
)

type ExtraChipClock struct {
	Chip   ChipName `json:"chip"`
	ChipID uint8    `json:"chipId"`
	Clock  uint32   `json:"clock"`
}

// ExtraChipVolume overrides a chip's output volume. Paired selects the
// second instance; Absolute marks Volume as absolute instead of relative.
type ExtraChipVolume struct {
	Chip     ChipName `json:"chip"`
	ChipID   uint8    `json:"chipId"`
	Paired   bool     `json:"paired"`
	Flags    uint8    `json:"flags"`
	Volume   uint16   `json:"volume"`
	Absolute bool     `json:"absolute"`
}

// ExtraHeader holds the two optional override tables. A nil slice means the
// table is absent.
type ExtraHeader struct {
	Clocks  []ExtraChipClock  `json:"clocks,omitempty"`
	Volumes []ExtraChipVolume `json:"volumes,omitempty"`
}

// Clone returns a deep copy, or nil for a nil receiver.
func (e *ExtraHeader) Clone() *ExtraHeader {
	if e == nil {
		return nil
	}
	c := &ExtraHeader{}
	if e.Clocks != nil {
		c.Clocks = append([]ExtraChipClock{}, e.Clocks...)
	}
	if e.Volumes != nil {
		c.Volumes = append([]ExtraChipVolume{}, e.Volumes...)
	}
	return c
}

// ParseExtraHeader decodes an extra header starting at b[0].
func ParseExtraHeader(b []byte) (*ExtraHeader, error) {
	if len(b) < 4 {
		return nil, errors.Wrap(ErrTruncatedHeader, "extra header size")
	}
	size := readUint32LE(b, 0)
	e := &ExtraHeader{}
	if size >= 8 && len(b) >= 8 {
		base, count, err := extraTable(b, 4, extraClockEntrySize)
		if err != nil {
			return nil, errors.Wrap(err, "extra header clocks")
		}
		if base > 0 {
			e.Clocks = make([]ExtraChipClock, 0, count)
			for i := 0; i < count; i++ {
				p := base + 1 + i*extraClockEntrySize
				e.Clocks = append(e.Clocks, ExtraChipClock{
					Chip:   ChipIDName(b[p]),
					ChipID: b[p],
					Clock:  readUint32LE(b, p+1),
				})
			}
		}
	}
	if size >= 12 && len(b) >= 12 {
		base, count, err := extraTable(b, 8, extraVolumeEntrySize)
		if err != nil {
			return nil, errors.Wrap(err, "extra header volumes")
		}
		if base > 0 {
			e.Volumes = make([]ExtraChipVolume, 0, count)
			for i := 0; i < count; i++ {
				p := base + 1 + i*extraVolumeEntrySize
				id := b[p] &^ extraVolumePaired
				raw := readUint16LE(b, p+2)
				e.Volumes = append(e.Volumes, ExtraChipVolume{
					Chip:     ChipIDName(id),
					ChipID:   id,
					Paired:   b[p]&extraVolumePaired != 0,
					Flags:    b[p+1],
					Volume:   raw &^ extraVolumeAbsolute,
					Absolute: raw&extraVolumeAbsolute != 0,
				})
			}
		}
	}
	return e, nil
}

// extraTable resolves the table whose relative offset is stored at ptr. A
// zero offset yields base 0.
func extraTable(b []byte, ptr, entrySize int) (base, count int, err error) {
	rel := readUint32LE(b, ptr)
	if rel == 0 {
		return 0, 0, nil
	}
	base = relOffset(ptr, rel)
	if base >= len(b) {
		return 0, 0, errors.Wrapf(ErrTruncatedHeader, "table at 0x%X past end", base)
	}
	count = int(b[base])
	if count*entrySize >= len(b)-base {
		return 0, 0, errors.Wrapf(ErrTruncatedHeader, "%d entries at 0x%X past end", count, base)
	}
	return base, count, nil
}

// MarshalBinary encodes the header. The volume table pointer is only emitted
// when Volumes is non-nil.
func (e *ExtraHeader) MarshalBinary() ([]byte, error) {
	if len(e.Clocks) > 0xFF || len(e.Volumes) > 0xFF {
		return nil, invalidField("extra header tables hold at most 255 entries")
	}
	headerSize := 8
	if e.Volumes != nil {
		headerSize = 12
	}
	buf := NewByteBuffer()
	buf.SetUint32LE(0, uint32(headerSize))
	buf.SetUint32LE(4, 0)
	if headerSize == 12 {
		buf.SetUint32LE(8, 0)
	}
	wp := headerSize
	if e.Clocks != nil {
		buf.SetUint32LE(4, uint32(wp-4))
		buf.SetUint8(wp, uint8(len(e.Clocks)))
		wp++
		for _, c := range e.Clocks {
			buf.SetUint8(wp, c.ChipID)
			buf.SetUint32LE(wp+1, c.Clock)
			wp += extraClockEntrySize
		}
	}
	if e.Volumes != nil {
		buf.SetUint32LE(8, uint32(wp-8))
		buf.SetUint8(wp, uint8(len(e.Volumes)))
		wp++
		for _, v := range e.Volumes {
			if v.ChipID >= extraVolumePaired {
				return nil, invalidField("extra header volume chip id 0x%02X exceeds 0x7F", v.ChipID)
			}
			if v.Volume > 0x7FFF {
				return nil, invalidField("extra header volume 0x%X exceeds 0x7FFF", v.Volume)
			}
			id := v.ChipID
			if v.Paired {
				id |= extraVolumePaired
			}
			vol := v.Volume
			if v.Absolute {
				vol |= extraVolumeAbsolute
			}
			buf.SetUint8(wp, id)
			buf.SetUint8(wp+1, v.Flags)
			buf.SetUint16LE(wp+2, vol)
			wp += extraVolumeEntrySize
		}
	}
	return buf.Bytes(), nil
}
