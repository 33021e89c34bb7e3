package debug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomamints/gameboy/gameboy/debug"
)

type fakeCPUState struct {
	pc, sp                 uint16
	a, f, b, c, d, e, h, l uint8
	ime, halted            bool
}

func (f fakeCPUState) PC() uint16   { return f.pc }
func (f fakeCPUState) SP() uint16   { return f.sp }
func (f fakeCPUState) A() uint8     { return f.a }
func (f fakeCPUState) F() uint8     { return f.f }
func (f fakeCPUState) B() uint8     { return f.b }
func (f fakeCPUState) C() uint8     { return f.c }
func (f fakeCPUState) D() uint8     { return f.d }
func (f fakeCPUState) E() uint8     { return f.e }
func (f fakeCPUState) H() uint8     { return f.h }
func (f fakeCPUState) L() uint8     { return f.l }
func (f fakeCPUState) IME() bool    { return f.ime }
func (f fakeCPUState) Halted() bool { return f.halted }

type fakeMem struct {
	data [0x10000]uint8
}

func (m *fakeMem) Read(address uint16) uint8 { return m.data[address] }

func TestTakeCentersWindowOnPC(t *testing.T) {
	mem := &fakeMem{}
	mem.data[0x0100] = 0xAB
	state := fakeCPUState{pc: 0x0100, a: 0x01}

	snap := debug.Take(state, mem)

	require.True(t, snap.WindowBase <= 0x0100)
	assert.Equal(t, uint8(0xAB), snap.Window[0x0100-int(snap.WindowBase)])
}

func TestTakeClampsWindowNearZero(t *testing.T) {
	mem := &fakeMem{}
	state := fakeCPUState{pc: 0x0002}

	snap := debug.Take(state, mem)

	assert.Equal(t, uint16(0), snap.WindowBase)
}

func TestStringIncludesRegistersAndHexDump(t *testing.T) {
	mem := &fakeMem{}
	state := fakeCPUState{pc: 0x0150, a: 0x42, ime: true}

	out := debug.Take(state, mem).String()

	assert.True(t, strings.Contains(out, "PC=0150"))
	assert.True(t, strings.Contains(out, "A=42"))
	assert.True(t, strings.Contains(out, "IME=true"))
}
