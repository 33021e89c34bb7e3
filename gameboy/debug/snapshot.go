// Package debug extracts point-in-time diagnostic state from a running
// core, for reporting at a fatal halt rather than for interactive
// inspection.
package debug

import "fmt"

// memoryWindowSize is how many bytes surround PC in a Snapshot's Window,
// centered so a few preceding bytes (useful when PC landed mid-operand)
// and the following ones are both visible.
const memoryWindowSize = 16

// Reader is the minimal memory surface a snapshot needs. *memory.MMU
// satisfies it directly.
type Reader interface {
	Read(address uint16) uint8
}

// CPUState is the read-only register surface a snapshot needs.
// *cpu.CPU satisfies it directly.
type CPUState interface {
	PC() uint16
	SP() uint16
	A() uint8
	F() uint8
	B() uint8
	C() uint8
	D() uint8
	E() uint8
	H() uint8
	L() uint8
	IME() bool
	Halted() bool
}

// Snapshot is a frozen view of CPU registers and a bounded memory window
// around PC, taken when the emulator reports a fatal error.
type Snapshot struct {
	PC, SP         uint16
	A, F           uint8
	B, C, D, E     uint8
	H, L           uint8
	IME, Halted    bool
	WindowBase     uint16
	Window         [memoryWindowSize]uint8
}

// Take captures a Snapshot from the given CPU and memory state.
func Take(cpuState CPUState, mem Reader) Snapshot {
	pc := cpuState.PC()
	base := pc
	if base >= memoryWindowSize/2 {
		base -= memoryWindowSize / 2
	} else {
		base = 0
	}

	s := Snapshot{
		PC:     pc,
		SP:     cpuState.SP(),
		A:      cpuState.A(),
		F:      cpuState.F(),
		B:      cpuState.B(),
		C:      cpuState.C(),
		D:      cpuState.D(),
		E:      cpuState.E(),
		H:      cpuState.H(),
		L:      cpuState.L(),
		IME:    cpuState.IME(),
		Halted: cpuState.Halted(),
		WindowBase: base,
	}
	for i := range s.Window {
		s.Window[i] = mem.Read(base + uint16(i))
	}
	return s
}

// String renders the snapshot as a single human-readable line plus a hex
// dump of the memory window, suitable for logging at a fatal halt.
func (s Snapshot) String() string {
	out := fmt.Sprintf(
		"PC=%04X SP=%04X A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X IME=%v HALT=%v\nmem[%04X:]:",
		s.PC, s.SP, s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L, s.IME, s.Halted, s.WindowBase,
	)
	for i, v := range s.Window {
		if i%8 == 0 {
			out += fmt.Sprintf("\n  %04X:", s.WindowBase+uint16(i))
		}
		out += fmt.Sprintf(" %02X", v)
	}
	return out
}
