// Package gameboy is the root of a cycle-accurate original Game Boy (DMG)
// core: CPU, PPU and MMU wired together behind a single Emulator type that
// runs whole frames and reports illegal-opcode halts as typed errors.
package gameboy

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tomamints/gameboy/gameboy/memory"
	"github.com/tomamints/gameboy/gameboy/video"
)

const cyclesPerFrame = 70224

// Emulator is the root struct and entry point for running the emulation.
type Emulator struct {
	bus *Bus

	instructionCount uint64
	frameCount       uint64
}

// New creates an emulator with no cartridge loaded.
func New() *Emulator {
	return &Emulator{bus: NewBus(memory.New())}
}

// NewWithFile loads a ROM from disk and returns a ready-to-run emulator.
func NewWithFile(path string) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &memory.RomIoError{Path: path, Err: err}
	}

	cart, err := memory.NewCartridgeWithData(data)
	if err != nil {
		return nil, err
	}

	slog.Debug("rom loaded", "path", path, "size", len(data), "title", cart.Title())
	return &Emulator{bus: NewBus(memory.NewWithCartridge(cart))}, nil
}

// Step executes a single CPU event and its matching PPU ticks. The
// returned error is non-nil (and fatal) only when the decoder hits one of
// the undefined opcodes.
func (e *Emulator) Step() (int, error) {
	cycles, err := e.bus.Step()
	e.instructionCount++
	if err != nil {
		return cycles, fmt.Errorf("emulator halted: %w", err)
	}
	return cycles, nil
}

// RunUntilFrame steps the emulator until a full 70224-cycle frame has
// elapsed, stopping early and returning the error if the CPU halts on an
// illegal opcode.
func (e *Emulator) RunUntilFrame() error {
	total := 0
	for total < cyclesPerFrame {
		cycles, err := e.Step()
		total += cycles
		if err != nil {
			return err
		}
	}
	e.frameCount++
	return nil
}

func (e *Emulator) FrameBuffer() *video.FrameBuffer { return e.bus.PPU.FrameBuffer() }

func (e *Emulator) HandleKeyPress(key memory.JoypadKey)   { e.bus.MMU.HandleKeyPress(key) }
func (e *Emulator) HandleKeyRelease(key memory.JoypadKey) { e.bus.MMU.HandleKeyRelease(key) }

func (e *Emulator) InstructionCount() uint64 { return e.instructionCount }
func (e *Emulator) FrameCount() uint64       { return e.frameCount }

func (e *Emulator) Bus() *Bus { return e.bus }
