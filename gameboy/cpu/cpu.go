// Package cpu implements the DMG CPU: fetch/decode/execute for the primary
// and CB-prefixed opcode tables, the four-flag ALU, HALT/EI timing and
// interrupt dispatch.
package cpu

import "github.com/tomamints/gameboy/gameboy/bit"

// Flag bit positions within F (only the high nibble is meaningful; the low
// nibble is always zero,).
const (
	flagZ uint8 = 0x80
	flagN uint8 = 0x40
	flagH uint8 = 0x20
	flagC uint8 = 0x10
)

// Bus is the memory-mapped interface the CPU reads/writes and ticks other
// components through. memory.MMU satisfies this, plus the IF/IE accessors
// the embedded interrupt controller needs.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Tick(cycles int)
	ReadIF() uint8
	ReadIE() uint8
	ClearIFBit(bit uint8)
}

// CPU holds the Z80-derived DMG register file and control-flow state.
type CPU struct {
	a, f, b, c, d, e, h, l uint8
	sp, pc                 uint16

	bus Bus

	ime      bool
	eiDelay  int // counts 2,1 then sets ime; 0 means no pending EI
	halted   bool
	haltBug  bool
	cycles   uint64
}

// New creates a CPU initialized to the post-boot DMG register state; this
// core begins execution after the boot ROM rather than emulating it.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.a = 0x01
	c.setF(0xB0)
	c.b, c.c = 0x00, 0x13
	c.d, c.e = 0x00, 0xD8
	c.h, c.l = 0x01, 0x4D
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

func (c *CPU) setF(value uint8) { c.f = value & 0xF0 }

func (c *CPU) getFlag(mask uint8) bool { return c.f&mask != 0 }
func (c *CPU) setFlag(mask uint8, set bool) {
	if set {
		c.f |= mask
	} else {
		c.f &^= mask
	}
}

// Register and control-flow state exposed read-only for tests and debug
// tooling.
func (c *CPU) PC() uint16    { return c.pc }
func (c *CPU) SP() uint16    { return c.sp }
func (c *CPU) IME() bool     { return c.ime }
func (c *CPU) Halted() bool  { return c.halted }
func (c *CPU) A() uint8      { return c.a }
func (c *CPU) F() uint8      { return c.f }
func (c *CPU) B() uint8      { return c.b }
func (c *CPU) C() uint8      { return c.c }
func (c *CPU) D() uint8      { return c.d }
func (c *CPU) E() uint8      { return c.e }
func (c *CPU) H() uint8      { return c.h }
func (c *CPU) L() uint8      { return c.l }
func (c *CPU) Cycles() uint64 { return c.cycles }

// Step executes exactly one event: an interrupt dispatch (20 cycles), one
// instruction, or a 4-cycle idle tick while HALTed with nothing pending.
// Order is interrupt check, HALT handling, fetch/execute, EI delay decrement.
func (c *CPU) Step() (int, error) {
	dispatched := c.handleInterrupts()

	var cycles int
	var err error
	switch {
	case dispatched:
		cycles = 20
	case c.halted:
		cycles = 4
	default:
		cycles, err = c.executeNext()
	}

	c.tickEIDelay()
	c.cycles += uint64(cycles)
	c.bus.Tick(cycles)
	return cycles, err
}

// handleInterrupts clears HALTED on any pending source regardless of IME;
// dispatch (push PC, clear the highest priority IF bit, jump to vector,
// clear IME) only happens when IME is set. Returns true when a dispatch
// happened. The HALT bug itself is not armed here: it is decided once, at
// the instant HALT executes, by op76Halt.
func (c *CPU) handleInterrupts() bool {
	ifReg := c.bus.ReadIF()
	ieReg := c.bus.ReadIE()
	pending := ifReg & ieReg & 0x1F
	if pending == 0 {
		return false
	}

	if c.halted {
		c.halted = false
	}

	if !c.ime {
		return false
	}

	c.ime = false
	bitIdx := lowestSetBit(pending)
	c.bus.ClearIFBit(bitIdx)
	c.pushWord(c.pc)
	c.pc = vectorForBit(bitIdx)
	return true
}

func lowestSetBit(mask uint8) uint8 {
	for i := uint8(0); i < 5; i++ {
		if bit.IsSet(i, mask) {
			return i
		}
	}
	return 0
}

func vectorForBit(bitIdx uint8) uint16 {
	switch bitIdx {
	case 0:
		return 0x40
	case 1:
		return 0x48
	case 2:
		return 0x50
	case 3:
		return 0x58
	case 4:
		return 0x60
	default:
		return 0x00
	}
}

func (c *CPU) tickEIDelay() {
	if c.eiDelay == 0 {
		return
	}
	c.eiDelay--
	if c.eiDelay == 0 {
		c.ime = true
	}
}

// fetchByte reads the byte at PC. Normally PC then advances; but if the
// HALT bug is pending (HALT issued with IME=0 while an interrupt was
// already pending), this one fetch does not advance PC, so the following
// opcode byte is read and executed a second time -- the classic hardware
// anomaly this core models rather than skips.
func (c *CPU) fetchByte() uint8 {
	v := c.bus.Read(c.pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return bit.Combine(hi, lo)
}

func (c *CPU) executeNext() (int, error) {
	opcode := c.fetchByte()
	if opcode == 0xCB {
		cb := c.fetchByte()
		fn := opcodeCBTable[cb]
		return fn(c), nil
	}

	fn := opcodeTable[opcode]
	if fn == nil {
		return 0, &IllegalOpcodeError{PC: c.pc - 1, Byte: opcode}
	}
	return fn(c), nil
}
