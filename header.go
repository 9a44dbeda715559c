// header.go - VGM header descriptor: version, offsets, sample counts and the
// per-chip configuration map.

package vgm

import (
	"encoding/json"
	"fmt"
)

// Version is the BCD version code stored at 0x08, e.g. 0x171 for 1.71.
type Version uint32

func (v Version) Major() int { return bcd(uint32(v) >> 8) }
func (v Version) Minor() int { return bcd(uint32(v) & 0xFF) }

func (v Version) String() string {
	return fmt.Sprintf("%x.%02x", uint32(v)>>8, uint32(v)&0xFF)
}

// MarshalJSON renders the raw code with its major and minor digits.
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code  uint32 `json:"code"`
		Major string `json:"major"`
		Minor string `json:"minor"`
	}{uint32(v), fmt.Sprintf("%x", uint32(v)>>8), fmt.Sprintf("%02x", uint32(v)&0xFF)})
}

func bcd(v uint32) int {
	n, mul := 0, 1
	for ; v > 0; v >>= 4 {
		n += int(v&0x0F) * mul
		mul *= 10
	}
	return n
}

// Offsets holds absolute file positions. Zero means the section is absent.
type Offsets struct {
	EOF         int `json:"eof"`
	GD3         int `json:"gd3"`
	Loop        int `json:"loop"`
	Data        int `json:"data"`
	ExtraHeader int `json:"extraHeader"`
}

// Samples are counted at 44100 Hz.
type Samples struct {
	Total uint32 `json:"total"`
	Loop  uint32 `json:"loop"`
}

// ChipType names a chip sub-model.
type ChipType struct {
	Value uint8  `json:"value"`
	Name  string `json:"name"`
}

// ChipConfig is one entry of the header chip map. Only Clock and Dual apply
// to every chip; the other fields are stored for the chips that define them.
type ChipConfig struct {
	Clock    uint32   `json:"clock"`
	Dual     bool     `json:"dual,omitempty"`
	ChipType ChipType `json:"chipType,omitzero"`

	T6W28              bool   `json:"t6w28,omitempty"`              // sn76489
	Feedback           uint16 `json:"feedback,omitempty"`           // sn76489
	ShiftRegisterWidth uint8  `json:"shiftRegisterWidth,omitempty"` // sn76489
	FDS                bool   `json:"fds,omitempty"`                // nesApu
	Flags              uint8  `json:"flags,omitempty"`              // sn76489, ay8910, okim6258, k054539
	SSGFlags           uint8  `json:"ssgFlags,omitempty"`           // ym2203, ym2608
	InterfaceRegister  uint32 `json:"interfaceRegister,omitempty"`  // segaPcm
	NumberOfChannels   uint8  `json:"numberOfChannels,omitempty"`   // es5503, es5506
	ClockDivider       uint8  `json:"clockDivider,omitempty"`       // c352
}

// Header is the decoded fixed-offset region before the command stream. A
// chip is in Chips only when its clock field is non-zero.
type Header struct {
	Version        Version                 `json:"version"`
	Offsets        Offsets                 `json:"offsets"`
	Samples        Samples                 `json:"samples"`
	Rate           uint32                  `json:"rate"`
	Chips          map[ChipName]ChipConfig `json:"chips"`
	LoopBase       int8                    `json:"loopBase"`
	LoopModifier   uint8                   `json:"loopModifier"`
	VolumeModifier uint8                   `json:"volumeModifier"`
}

// Clone returns a deep copy.
func (h *Header) Clone() *Header {
	c := *h
	c.Chips = make(map[ChipName]ChipConfig, len(h.Chips))
	for k, v := range h.Chips {
		c.Chips[k] = v
	}
	return &c
}

// ChipTypeName returns the sub-model name of chip for a type value, or
// "UNKNOWN".
func ChipTypeName(chip ChipName, value uint8) string {
	switch chip {
	case ChipYM2612:
		return pick(value, "YM2612", "YM3438")
	case ChipYM2151:
		return pick(value, "YM2151", "YM2164")
	case ChipYM2610:
		return pick(value, "YM2610", "YM2610B")
	case ChipES5506:
		return pick(value, "ES5505", "ES5506")
	case ChipAY8910:
		if n, ok := ay8910Types[value]; ok {
			return n
		}
	case ChipC140:
		if n, ok := c140Types[value]; ok {
			return n
		}
	}
	return "UNKNOWN"
}

func pick(v uint8, off, on string) string {
	switch v {
	case 0:
		return off
	case 1:
		return on
	}
	return "UNKNOWN"
}

var ay8910Types = map[uint8]string{
	0x00: "AY8910",
	0x01: "AY8912",
	0x02: "AY8913",
	0x03: "AY8930",
	0x10: "YM2149",
	0x11: "YM3439",
	0x12: "YMZ284",
	0x13: "YMZ294",
}

var c140Types = map[uint8]string{
	0x00: "C140, Namco System 2",
	0x01: "C140, Namco System 21",
	0x02: "219 ASIC, Namco NA-1/2",
}
