package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/intuitionamiga/vgm"
)

func TestLuaFilter_Keep(t *testing.T) {
	f, err := compileLuaFilter("test.lua", `
function keep(cmd)
  return cmd.chip == "ym2413" and cmd.addr == 0x20
end
`)
	if err != nil {
		t.Fatal(err)
	}
	s, err := f.newSession()
	if err != nil {
		t.Fatal(err)
	}
	defer s.close()

	tests := []struct {
		cmd  vgm.Command
		want bool
	}{
		{vgm.WriteRegister{Op: 0x51, Addr: 0x20, Data: 0x18}, true},
		{vgm.WriteRegister{Op: 0x51, Addr: 0x10, Data: 0xAC}, false},
		{vgm.WriteRegister{Op: 0x52, Addr: 0x20, Data: 0x18}, false},
		{vgm.Wait735{}, false},
		{vgm.End{}, false},
	}
	for _, tt := range tests {
		got, err := s.keep(vgm.ToObject(tt.cmd))
		if err != nil {
			t.Errorf("keep(%#v): %v", tt.cmd, err)
			continue
		}
		if got != tt.want {
			t.Errorf("keep(%#v) = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}

func TestLuaFilter_CommandTable(t *testing.T) {
	f, err := compileLuaFilter("fields.lua", `
function keep(cmd)
  return cmd.cmd == 0x92 and cmd.size == 6 and cmd.streamId == 1 and cmd.frequency == 22050 and cmd.addr == nil
end
`)
	if err != nil {
		t.Fatal(err)
	}
	s, err := f.newSession()
	if err != nil {
		t.Fatal(err)
	}
	defer s.close()
	ok, err := s.keep(vgm.ToObject(vgm.SetStreamFrequency{StreamID: 1, Frequency: 22050}))
	if err != nil || !ok {
		t.Errorf("keep = %v, %v; want the stream fields visible to the script", ok, err)
	}
}

func TestLuaFilter_Errors(t *testing.T) {
	if _, err := compileLuaFilter("syntax.lua", "function keep(cmd"); err == nil {
		t.Error("syntax error accepted")
	}

	f, err := compileLuaFilter("nokeep.lua", "x = 1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.newSession(); err == nil {
		t.Error("script without keep accepted")
	}

	f, err = compileLuaFilter("boom.lua", `function keep(cmd) error("boom") end`)
	if err != nil {
		t.Fatal(err)
	}
	s, err := f.newSession()
	if err != nil {
		t.Fatal(err)
	}
	defer s.close()
	if _, err := s.keep(vgm.ToObject(vgm.End{})); err == nil {
		t.Error("runtime error in keep not reported")
	}

	if _, err := loadLuaFilter(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("loadLuaFilter of a missing file succeeded")
	}
}

func TestRun_WithFilter(t *testing.T) {
	dir := t.TempDir()
	song := writeSong(t, dir, "song.vgm", "filtered")
	script := filepath.Join(dir, "waits.lua")
	if err := os.WriteFile(script, []byte("function keep(cmd) return cmd.count ~= nil end\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := loadLuaFilter(script)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := run(context.Background(), []string{song, song}, options{commands: true, filter: f, jobs: 2}, &buf); err != nil {
		t.Fatal(err)
	}
	for _, d := range decodeDumps(t, buf.Bytes()) {
		if len(d.Commands) != 3 {
			t.Errorf("%d commands kept, want the 3 waits", len(d.Commands))
		}
		for _, c := range d.Commands {
			if c.Cmd != 0x62 {
				t.Errorf("kept command 0x%02X", c.Cmd)
			}
		}
		if d.Stream.Commands != 7 {
			t.Errorf("stream stats count %d commands, want all 7", d.Stream.Commands)
		}
	}
}
