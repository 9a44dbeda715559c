package vgm

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func i64(v int64) *int64 { return &v }

func TestCommandObject_RoundTrip(t *testing.T) {
	cmds := []Command{
		WriteRegister{Op: 0x52, Addr: 0x28, Data: 0xF0},
		WriteRegister{Op: 0xA3, Index: 1, Port: 1, Addr: 0xB4, Data: 0xC0},
		WriteRegister{Op: 0xD1, Index: 1, Port: 3, Addr: 0x40, Data: 0x7F},
		WriteRegister{Op: 0x3F, Index: 1, Data: 0xFF},
		WaitWord{Count: 0x1588},
		Wait735{},
		Wait882{},
		WaitNibble{Count: 7},
		Write2A{Count: 2},
		DataBlock{BlockType: 0x8B, BlockSize: 3, Data: []byte{9, 8, 7}},
		PCMRAMWrite{BlockType: 0x20, ReadOffset: 0x123456, WriteOffset: 0x10, WriteSize: 0x20},
		SeekPCM{Offset: 0x400},
		SetupStream{StreamID: 2, Type: 0x82, Port: 1, Channel: 0x2A},
		SetStreamData{StreamID: 2, DataBankID: 1, StepSize: 2, StepBase: 1},
		SetStreamFrequency{StreamID: 2, Frequency: 8000},
		StartStream{StreamID: 2, Offset: 0, LengthMode: 3, DataLength: 10},
		StopStream{StreamID: 2},
		StartStreamFast{StreamID: 2, BlockID: 7, Flags: 0x11},
		End{},
	}
	for _, c := range cmds {
		o := ToObject(c)
		if o.Cmd != c.Opcode() || o.Size != c.Size() {
			t.Errorf("ToObject(%#v): cmd 0x%02X size %d", c, o.Cmd, o.Size)
		}
		got, err := FromObject(o)
		if err != nil {
			t.Errorf("FromObject(ToObject(%#v)): %v", c, err)
			continue
		}
		if !reflect.DeepEqual(got, c) {
			t.Errorf("FromObject(ToObject(%#v)) = %#v", c, got)
		}
	}
}

func TestCommandObject_Fields(t *testing.T) {
	o := ToObject(WriteRegister{Op: 0x53, Port: 1, Addr: 0x30, Data: 0x71})
	if o.Chip != ChipYM2612 {
		t.Errorf("chip = %s, want %s", o.Chip, ChipYM2612)
	}
	if o.Port == nil || *o.Port != 1 {
		t.Errorf("port = %v, want 1", o.Port)
	}
	if o.Count != nil || o.StreamID != nil {
		t.Error("register write carries fields of other variants")
	}

	o = ToObject(WriteRegister{Op: 0x50, Data: 0x9F})
	if o.Addr != nil || o.Port != nil {
		t.Errorf("data-only write has addr %v port %v", o.Addr, o.Port)
	}

	o = ToObject(Wait735{})
	if o.Count == nil || *o.Count != 735 {
		t.Errorf("wait735 count = %v, want 735", o.Count)
	}
}

func TestCommandObject_JSONNames(t *testing.T) {
	b, err := json.Marshal(ToObject(StartStreamFast{StreamID: 1, BlockID: 2, Flags: 3}))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"cmd", "size", "streamId", "blockId", "flags"} {
		if _, ok := m[k]; !ok {
			t.Errorf("JSON %s lacks %q", b, k)
		}
	}
	if _, ok := m["addr"]; ok {
		t.Errorf("JSON %s carries addr", b)
	}
}

func TestFromObject_DefaultsFromOpcode(t *testing.T) {
	// Index and port implied by 0xA3 may be omitted.
	c, err := FromObject(CommandObject{Cmd: 0xA3, Addr: i64(0xB4), Data: i64(0xC0)})
	if err != nil {
		t.Fatal(err)
	}
	want := WriteRegister{Op: 0xA3, Index: 1, Port: 1, Addr: 0xB4, Data: 0xC0}
	if c != want {
		t.Errorf("FromObject = %#v, want %#v", c, want)
	}

	c, err = FromObject(CommandObject{Cmd: 0x7F})
	if err != nil {
		t.Fatal(err)
	}
	if c != (WaitNibble{Count: 16}) {
		t.Errorf("FromObject(0x7F) = %#v", c)
	}
}

func TestFromObject_Errors(t *testing.T) {
	tests := []struct {
		name string
		obj  CommandObject
		want error
	}{
		{"unknown opcode", CommandObject{Cmd: 0x31}, ErrUnknownOpcode},
		{"write without data", CommandObject{Cmd: 0x52, Addr: i64(0x28)}, ErrMissingRequiredField},
		{"write without addr", CommandObject{Cmd: 0x52, Data: i64(0)}, ErrMissingRequiredField},
		{"ymf278b without port", CommandObject{Cmd: 0xD0, Addr: i64(1), Data: i64(1)}, ErrMissingRequiredField},
		{"wait word without count", CommandObject{Cmd: 0x61}, ErrMissingRequiredField},
		{"wait word count too large", CommandObject{Cmd: 0x61, Count: i64(0x10000)}, ErrInvalidFieldValue},
		{"negative count", CommandObject{Cmd: 0x61, Count: i64(-1)}, ErrInvalidFieldValue},
		{"nibble count mismatch", CommandObject{Cmd: 0x70, Count: i64(2)}, ErrInvalidFieldValue},
		{"write2A count mismatch", CommandObject{Cmd: 0x88, Count: i64(7)}, ErrInvalidFieldValue},
		{"data block without payload", CommandObject{Cmd: 0x67, BlockType: i64(0), BlockSize: i64(0)}, ErrMissingRequiredField},
		{"data block size mismatch", CommandObject{Cmd: 0x67, BlockType: i64(0), BlockSize: i64(4), BlockData: []byte{1}}, ErrInvalidFieldValue},
		{"pcm ram write offset", CommandObject{Cmd: 0x68, BlockType: i64(0), ReadOffset: i64(0x1000000), WriteOffset: i64(0), WriteSize: i64(0)}, ErrInvalidFieldValue},
		{"stream without id", CommandObject{Cmd: 0x94}, ErrMissingRequiredField},
		{"ay8910 index 2", CommandObject{Cmd: 0xA0, Index: i64(2), Addr: i64(0), Data: i64(0)}, ErrInvalidFieldValue},
		{"ym2612 data too wide", CommandObject{Cmd: 0x52, Addr: i64(0), Data: i64(0x100)}, ErrInvalidFieldValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromObject(tt.obj); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
