package gameboy

import (
	"github.com/tomamints/gameboy/gameboy/addr"
	"github.com/tomamints/gameboy/gameboy/cpu"
	"github.com/tomamints/gameboy/gameboy/memory"
	"github.com/tomamints/gameboy/gameboy/video"
)

// Bus wires the CPU, PPU and MMU together. CPU reads/writes and per-step
// cycle ticks flow through MMU directly (cpu.Bus is satisfied by *memory.MMU
// itself); Bus additionally drives the PPU, which has no cycle budget of
// its own and is instead ticked once per CPU step from the frame loop in
// core.go.
type Bus struct {
	CPU *cpu.CPU
	MMU *memory.MMU
	PPU *video.PPU
}

// NewBus wires a fresh CPU/PPU pair around the given MMU.
func NewBus(mem *memory.MMU) *Bus {
	b := &Bus{MMU: mem}
	b.CPU = cpu.New(mem)
	b.PPU = video.NewPPU(mem)
	return b
}

// Step executes one CPU event (instruction, interrupt dispatch, or halted
// idle tick) and advances the PPU by the same number of T-cycles.
func (b *Bus) Step() (int, error) {
	cycles, err := b.CPU.Step()
	b.PPU.Tick(cycles)
	return cycles, err
}

func (b *Bus) RequestInterrupt(interrupt addr.Interrupt) {
	b.MMU.RequestInterrupt(interrupt)
}
