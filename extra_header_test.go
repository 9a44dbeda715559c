package vgm

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestExtraHeader_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		e    *ExtraHeader
	}{
		{"empty", &ExtraHeader{}},
		{"clocks only", &ExtraHeader{Clocks: []ExtraChipClock{
			{Chip: ChipYM2612, ChipID: 2, Clock: 7670453},
			{Chip: ChipAY8910, ChipID: 18, Clock: 1789750},
		}}},
		{"both tables", &ExtraHeader{
			Clocks: []ExtraChipClock{{Chip: ChipSN76489, ChipID: 0, Clock: 3579545}},
			Volumes: []ExtraChipVolume{
				{Chip: ChipYM2612, ChipID: 2, Paired: true, Flags: 1, Volume: 0x100, Absolute: true},
				{Chip: ChipSN76489, ChipID: 0, Volume: 0x7FFF},
			},
		}},
	}
	for _, tt := range tests {
		b, err := tt.e.MarshalBinary()
		if err != nil {
			t.Errorf("%s: MarshalBinary: %v", tt.name, err)
			continue
		}
		got, err := ParseExtraHeader(b)
		if err != nil {
			t.Errorf("%s: ParseExtraHeader: %v", tt.name, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.e) {
			t.Errorf("%s: round trip\n got %+v\nwant %+v", tt.name, got, tt.e)
		}
	}
}

func TestExtraHeader_Layout(t *testing.T) {
	e := &ExtraHeader{
		Clocks:  []ExtraChipClock{{ChipID: 2, Clock: 0x00750BB5}},
		Volumes: []ExtraChipVolume{{ChipID: 2, Paired: true, Flags: 1, Volume: 0x100, Absolute: true}},
	}
	b, err := e.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		12, 0, 0, 0, // header size
		8, 0, 0, 0, // clock table at 4+8
		10, 0, 0, 0, // volume table at 8+10
		1, 0x02, 0xB5, 0x0B, 0x75, 0x00,
		1, 0x82, 0x01, 0x00, 0x81,
	}
	if !bytes.Equal(b, want) {
		t.Errorf("encoded =\n% X\nwant\n% X", b, want)
	}
}

func TestParseExtraHeader_Truncated(t *testing.T) {
	full, err := (&ExtraHeader{Clocks: []ExtraChipClock{{ChipID: 1, Clock: 1}, {ChipID: 2, Clock: 2}}}).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{0, 3, len(full) - 1} {
		if _, err := ParseExtraHeader(full[:n]); !errors.Is(err, ErrTruncatedHeader) {
			t.Errorf("%d bytes: err = %v, want ErrTruncatedHeader", n, err)
		}
	}
}

func TestExtraHeader_MarshalValidation(t *testing.T) {
	tests := []struct {
		name string
		e    *ExtraHeader
	}{
		{"volume too large", &ExtraHeader{Volumes: []ExtraChipVolume{{Volume: 0x8000}}}},
		{"chip id collides with paired bit", &ExtraHeader{Volumes: []ExtraChipVolume{{ChipID: 0x80}}}},
		{"too many clocks", &ExtraHeader{Clocks: make([]ExtraChipClock, 256)}},
	}
	for _, tt := range tests {
		if _, err := tt.e.MarshalBinary(); !errors.Is(err, ErrInvalidFieldValue) {
			t.Errorf("%s: err = %v, want ErrInvalidFieldValue", tt.name, err)
		}
	}
}

func TestExtraHeader_Clone(t *testing.T) {
	var nilHeader *ExtraHeader
	if nilHeader.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
	e := &ExtraHeader{Clocks: []ExtraChipClock{{ChipID: 1, Clock: 1}}}
	c := e.Clone()
	c.Clocks[0].Clock = 99
	if e.Clocks[0].Clock != 1 {
		t.Error("Clone shares the clock table")
	}
}
