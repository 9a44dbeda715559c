package vgm

import (
	"bytes"
	"errors"
	"testing"
)

// ym2413Tune pushes a short YM2413 phrase with the loop point after the
// first command.
func ym2413Tune(t *testing.T) *DataStream {
	t.Helper()
	s := NewDataStream()
	s.Push(mustWrite(t, 0x51, 0, 0, 48, 16))
	s.MarkLoopPoint()
	s.Push(mustWrite(t, 0x51, 0, 0, 16, 172))
	s.Push(mustWrite(t, 0x51, 0, 0, 32, 24))
	s.Push(WaitWord{Count: 0xAC44})
	s.Push(mustWrite(t, 0x51, 0, 0, 32, 8))
	s.Push(WaitWord{Count: 0x1588})
	s.Push(mustWrite(t, 0x51, 0, 0, 16, 182))
	s.Push(mustWrite(t, 0x51, 0, 0, 32, 24))
	s.Push(WaitWord{Count: 0xAC44})
	s.Push(mustWrite(t, 0x51, 0, 0, 32, 8))
	s.Push(WaitWord{Count: 0x1588})
	s.Push(WaitNibble{Count: 16})
	s.Push(End{})
	return s
}

var ym2413TuneBytes = []byte{
	0x51, 0x30, 0x10, 0x51, 0x10, 0xAC, 0x51, 0x20, 0x18, 0x61, 0x44, 0xAC,
	0x51, 0x20, 0x08, 0x61, 0x88, 0x15, 0x51, 0x10, 0xB6, 0x51, 0x20, 0x18,
	0x61, 0x44, 0xAC, 0x51, 0x20, 0x08, 0x61, 0x88, 0x15, 0x7F, 0x66,
}

func TestDataStream_LoopBookkeeping(t *testing.T) {
	s := ym2413Tune(t)
	if got := s.LoopIndexOffset(); got != 1 {
		t.Errorf("LoopIndexOffset = %d, want 1", got)
	}
	if got := s.LoopByteOffset(); got != 3 {
		t.Errorf("LoopByteOffset = %d, want 3", got)
	}
	wantTotal := 2*(0xAC44+0x1588) + 16
	if got := s.TotalSamples(); got != wantTotal {
		t.Errorf("TotalSamples = %d, want %d", got, wantTotal)
	}
	if got := s.LoopSamples(); got != wantTotal {
		t.Errorf("LoopSamples = %d, want %d (no waits precede the loop point)", got, wantTotal)
	}
	if s.Len() != 14 {
		t.Errorf("Len = %d, want 14", s.Len())
	}
	if s.ByteLength() != len(ym2413TuneBytes) {
		t.Errorf("ByteLength = %d, want %d", s.ByteLength(), len(ym2413TuneBytes))
	}
	if got := s.Build(); !bytes.Equal(got, ym2413TuneBytes) {
		t.Errorf("Build =\n% X\nwant\n% X", got, ym2413TuneBytes)
	}
}

func TestDataStream_LoopSamplesExcludePrefix(t *testing.T) {
	s := NewDataStream()
	s.Push(Wait735{})
	s.Push(Wait735{})
	s.MarkLoopPoint()
	s.Push(Wait882{})
	s.Push(WaitNibble{Count: 4})
	s.Push(End{})

	if s.TotalSamples() != 2*735+882+4 {
		t.Errorf("TotalSamples = %d", s.TotalSamples())
	}
	if s.LoopSamples() != 886 {
		t.Errorf("LoopSamples = %d, want 886", s.LoopSamples())
	}
	if s.LoopIndexOffset() != 2 || s.LoopByteOffset() != 2 {
		t.Errorf("loop at index %d byte %d, want 2 and 2", s.LoopIndexOffset(), s.LoopByteOffset())
	}

	s.ClearLoopPoint()
	if s.HasLoop() || s.LoopIndexOffset() != -1 || s.LoopByteOffset() != -1 || s.LoopSamples() != 0 {
		t.Errorf("after ClearLoopPoint: has %v index %d byte %d samples %d",
			s.HasLoop(), s.LoopIndexOffset(), s.LoopByteOffset(), s.LoopSamples())
	}
}

func TestDataStream_ZeroValue(t *testing.T) {
	var s DataStream
	if s.HasLoop() || s.LoopIndexOffset() != -1 {
		t.Error("zero DataStream reports a loop point")
	}
	s.Push(End{})
	if got := s.Build(); !bytes.Equal(got, []byte{0x66}) {
		t.Errorf("Build = % X", got)
	}
}

func TestParseDataStream_RoundTrip(t *testing.T) {
	// Four bytes of junk in front stand in for a header.
	buf := append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, ym2413TuneBytes...)
	s, err := ParseDataStream(buf, 4, 4+3)
	if err != nil {
		t.Fatalf("ParseDataStream: %v", err)
	}
	if s.Len() != 14 {
		t.Errorf("Len = %d, want 14", s.Len())
	}
	if s.LoopIndexOffset() != 1 || s.LoopByteOffset() != 3 {
		t.Errorf("loop at index %d byte %d, want 1 and 3", s.LoopIndexOffset(), s.LoopByteOffset())
	}
	if got := s.Build(); !bytes.Equal(got, ym2413TuneBytes) {
		t.Errorf("build(parse(b)) =\n% X\nwant\n% X", got, ym2413TuneBytes)
	}
	want := ym2413Tune(t)
	if s.TotalSamples() != want.TotalSamples() || s.LoopSamples() != want.LoopSamples() {
		t.Errorf("samples %d/%d, want %d/%d", s.TotalSamples(), s.LoopSamples(), want.TotalSamples(), want.LoopSamples())
	}
}

func TestParseDataStream_NoLoop(t *testing.T) {
	s, err := ParseDataStream(ym2413TuneBytes, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.HasLoop() {
		t.Error("loop point 0 should mean no loop")
	}
	if s.LoopSamples() != 0 {
		t.Errorf("LoopSamples = %d, want 0", s.LoopSamples())
	}
}

func TestParseDataStream_StopsAtEnd(t *testing.T) {
	buf := append(append([]byte(nil), ym2413TuneBytes...), 0x31, 0x32)
	s, err := ParseDataStream(buf, 0, 0)
	if err != nil {
		t.Fatalf("bytes after End must be ignored: %v", err)
	}
	if s.ByteLength() != len(ym2413TuneBytes) {
		t.Errorf("ByteLength = %d, want %d", s.ByteLength(), len(ym2413TuneBytes))
	}
}

func TestParseDataStream_MissingEnd(t *testing.T) {
	buf := ym2413TuneBytes[:len(ym2413TuneBytes)-1]
	if _, err := ParseDataStream(buf, 0, 0); !errors.Is(err, ErrTruncatedStream) {
		t.Errorf("err = %v, want ErrTruncatedStream", err)
	}

	// A record cut in half is a truncation too.
	if _, err := ParseDataStream([]byte{0x62, 0x61, 0x44}, 0, 0); !errors.Is(err, ErrTruncatedStream) {
		t.Errorf("split wait: err = %v, want ErrTruncatedStream", err)
	}
}

func TestParseDataStream_UnknownOpcode(t *testing.T) {
	_, err := ParseDataStream([]byte{0x62, 0x62, 0x31, 0x00, 0x66}, 0, 0)
	var de *DecodeError
	if !errors.As(err, &de) || !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("err = %v, want *DecodeError wrapping ErrUnknownOpcode", err)
	}
	if de.Offset != 2 {
		t.Errorf("Offset = %d, want 2", de.Offset)
	}
}

func TestBuildDataStream(t *testing.T) {
	s := ym2413Tune(t)
	cmds := s.Commands()
	got, err := BuildDataStream(cmds)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, ym2413TuneBytes) {
		t.Errorf("BuildDataStream = % X", got)
	}
	cmds[0] = End{}
	if s.Commands()[0] == (End{}) {
		t.Error("Commands returned the internal slice")
	}

	if _, err := BuildDataStream([]Command{Wait735{}, Write2A{Count: 20}, End{}}); !errors.Is(err, ErrInvalidFieldValue) {
		t.Errorf("BuildDataStream with write2A 20: err = %v", err)
	}
}

func TestDataStream_PushRejectsInvalidCommand(t *testing.T) {
	s := NewDataStream()
	if err := s.Push(WaitWord{Count: 100}); err != nil {
		t.Fatal(err)
	}
	s.MarkLoopPoint()
	for _, c := range []Command{WaitNibble{}, Write2A{Count: 20}, WriteRegister{Op: 0x00, Data: 1}} {
		if err := s.Push(c); !errors.Is(err, ErrInvalidFieldValue) {
			t.Errorf("Push(%#v) err = %v, want ErrInvalidFieldValue", c, err)
		}
	}
	if err := s.Push(End{}); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || s.TotalSamples() != 100 || s.LoopSamples() != 0 {
		t.Errorf("rejected commands counted: %d commands, total %d, loop %d", s.Len(), s.TotalSamples(), s.LoopSamples())
	}

	// The totals must agree with a reparse of the built bytes.
	re, err := ParseDataStream(s.Build(), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if re.TotalSamples() != s.TotalSamples() {
		t.Errorf("reparsed total %d, pushed total %d", re.TotalSamples(), s.TotalSamples())
	}
}
