package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/intuitionamiga/vgm"
)

// luaFilter is a compiled filter script. The script must define a global
// function keep(cmd) returning true for commands to list. cmd is a table
// with the fields of vgm.CommandObject under their JSON names.
//
// An LState is not safe for concurrent use, so each decoded file gets its
// own session running the shared compiled proto.
type luaFilter struct {
	name  string
	proto *lua.FunctionProto
}

func loadLuaFilter(path string) (*luaFilter, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return compileLuaFilter(path, string(src))
}

func compileLuaFilter(name, src string) (*luaFilter, error) {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, errors.Wrapf(err, "parse filter %s", name)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, errors.Wrapf(err, "compile filter %s", name)
	}
	return &luaFilter{name: name, proto: proto}, nil
}

type filterSession struct {
	L  *lua.LState
	fn lua.LValue
}

func (f *luaFilter) newSession() (*filterSession, error) {
	L := lua.NewState()
	L.Push(L.NewFunctionFromProto(f.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.Close()
		return nil, errors.Wrapf(err, "run filter %s", f.name)
	}
	keep := L.GetGlobal("keep")
	if keep.Type() != lua.LTFunction {
		L.Close()
		return nil, errors.Errorf("filter %s does not define keep(cmd)", f.name)
	}
	return &filterSession{L: L, fn: keep}, nil
}

func (s *filterSession) close() { s.L.Close() }

func (s *filterSession) keep(o vgm.CommandObject) (bool, error) {
	if err := s.L.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true}, commandTable(s.L, o)); err != nil {
		return false, errors.WithStack(err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)
	return lua.LVAsBool(ret), nil
}

func commandTable(L *lua.LState, o vgm.CommandObject) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("cmd", lua.LNumber(o.Cmd))
	t.RawSetString("size", lua.LNumber(o.Size))
	if o.Chip != "" {
		t.RawSetString("chip", lua.LString(o.Chip))
	}
	for name, v := range map[string]*int64{
		"index": o.Index, "port": o.Port, "addr": o.Addr, "data": o.Data,
		"count": o.Count, "blockType": o.BlockType, "blockSize": o.BlockSize,
		"readOffset": o.ReadOffset, "writeOffset": o.WriteOffset, "writeSize": o.WriteSize,
		"offset": o.Offset, "streamId": o.StreamID, "type": o.Type, "channel": o.Channel,
		"dataBankId": o.DataBankID, "stepSize": o.StepSize, "stepBase": o.StepBase,
		"frequency": o.Frequency, "lengthMode": o.LengthMode, "dataLength": o.DataLength,
		"blockId": o.BlockID, "flags": o.Flags,
	} {
		if v != nil {
			t.RawSetString(name, lua.LNumber(*v))
		}
	}
	return t
}
