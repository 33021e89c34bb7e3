// Package memory implements the DMG address space: cartridge mapping,
// VRAM/OAM with PPU-owned locks, work/high RAM, and the I/O register file.
// MMU.Read/MMU.Write are the only path any component uses to observe or
// mutate shared state.
package memory

import (
	"log/slog"

	"github.com/tomamints/gameboy/gameboy/addr"
	"github.com/tomamints/gameboy/gameboy/bit"
	"github.com/tomamints/gameboy/gameboy/serial"
)

// MMU is the 64 KiB DMG address space.
type MMU struct {
	cart *Cartridge
	mbc  MBC

	vram [0x2000]byte
	wram [0x2000]byte
	oam  [0xA0]byte
	hram [0x7F]byte
	io   [0x80]byte // fallback storage for 0xFF00-0xFF7F registers with no dedicated handling

	lcdc, stat, scy, scx, ly, lyc, bgp, obp0, obp1, wy, wx uint8

	ifReg, ieReg uint8

	timer  *Timer
	serial serial.Port
	joypad *joypad

	vramLocked bool
	oamLocked  bool
}

// New creates an MMU with no cartridge loaded (power-on with an empty
// cartridge slot).
func New() *MMU {
	m := &MMU{
		cart:   NewCartridge(),
		timer:  NewTimer(),
		joypad: newJoypad(),
	}
	m.serial = serial.NewLogSink(func() { m.RequestInterrupt(addr.SerialInterrupt) })
	m.timer.RequestTimerInterrupt = func() { m.RequestInterrupt(addr.TimerInterrupt) }
	m.lcdc = 0x91
	m.bgp = 0xFC
	m.ifReg = 0xE0 // upper 3 bits always read as 1
	return m
}

// NewWithCartridge creates an MMU with the given cartridge mapped through
// NoMBC when the image has at most two banks, and through MBC1 otherwise.
func NewWithCartridge(cart *Cartridge) *MMU {
	m := New()
	m.cart = cart
	if cart.BankCount() <= 2 {
		m.mbc = NewNoMBC(cart.Data())
	} else {
		m.mbc = NewMBC1(cart.Data())
	}
	slog.Debug("cartridge loaded", "title", cart.Title(), "banks", cart.BankCount())
	return m
}

// Tick advances the timer and serial sink by the given number of T-cycles.
// Called once per CPU step with the instruction's cycle count.
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
	m.serial.Tick(cycles)
}

// RequestInterrupt sets the IF bit for the given interrupt source.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.ifReg = bit.Set(interrupt.Bit(), m.ifReg) | 0xE0
}

// IF/IE accessors used directly by the CPU's interrupt dispatch.
func (m *MMU) ReadIF() uint8          { return m.ifReg | 0xE0 }
func (m *MMU) ReadIE() uint8          { return m.ieReg }
func (m *MMU) ClearIFBit(bit8 uint8)  { m.ifReg = bit.Reset(bit8, m.ifReg) | 0xE0 }

// LockVRAM/LockOAM are called by the PPU as it enters/leaves modes 2/3.
func (m *MMU) LockVRAM(locked bool) { m.vramLocked = locked }
func (m *MMU) LockOAM(locked bool)  { m.oamLocked = locked }

// SetSTATMode overwrites the PPU-owned low two bits of STAT.
func (m *MMU) SetSTATMode(mode uint8) {
	m.stat = (m.stat &^ 0x03) | (mode & 0x03)
}

// SetCoincidence overwrites the PPU-owned LY==LYC bit (STAT bit 2).
func (m *MMU) SetCoincidence(set bool) {
	m.stat = bit.SetTo(2, m.stat, set)
}

// STAT returns the raw STAT byte, for the PPU to inspect its own
// interrupt-enable bits and the coincidence flag.
func (m *MMU) STAT() uint8 { return m.stat | 0x80 }

// WriteLYInternal sets LY directly; only the PPU may do this (guest writes
// to LY are ignored).
func (m *MMU) WriteLYInternal(value uint8) { m.ly = value }

// LCDC/SCY/SCX/LYC/BGP/OBP0/OBP1/WY/WX convenience readers for the PPU.
func (m *MMU) LCDC() uint8 { return m.lcdc }
func (m *MMU) SCY() uint8  { return m.scy }
func (m *MMU) SCX() uint8  { return m.scx }
func (m *MMU) LY() uint8   { return m.ly }
func (m *MMU) LYC() uint8  { return m.lyc }
func (m *MMU) BGP() uint8  { return m.bgp }
func (m *MMU) OBP0() uint8 { return m.obp0 }
func (m *MMU) OBP1() uint8 { return m.obp1 }
func (m *MMU) WY() uint8   { return m.wy }
func (m *MMU) WX() uint8   { return m.wx }

// ReadBypassingLocks reads VRAM/OAM ignoring the PPU's own locks, for the
// PPU's internal fetches.
func (m *MMU) ReadBypassingLocks(address uint16) uint8 {
	switch {
	case address >= 0x8000 && address <= 0x9FFF:
		return m.vram[address-0x8000]
	case address >= 0xFE00 && address <= 0xFE9F:
		return m.oam[address-0xFE00]
	default:
		return m.Read(address)
	}
}

// HandleKeyPress/HandleKeyRelease forward to the joypad and raise the
// joypad interrupt on a falling edge.
func (m *MMU) HandleKeyPress(key JoypadKey) {
	if m.joypad.press(key) {
		m.RequestInterrupt(addr.JoypadInterrupt)
	}
}

func (m *MMU) HandleKeyRelease(key JoypadKey) {
	m.joypad.release(key)
}

// Read implements the full DMG address decode.
func (m *MMU) Read(address uint16) uint8 {
	switch {
	case address <= 0x7FFF:
		return m.mbcRead(address)
	case address <= 0x9FFF:
		if m.vramLocked {
			return 0xFF
		}
		return m.vram[address-0x8000]
	case address <= 0xBFFF:
		return m.mbcRead(address)
	case address <= 0xDFFF:
		return m.wram[address-0xC000]
	case address <= 0xFDFF:
		return m.wram[address-0xE000]
	case address <= 0xFE9F:
		if m.oamLocked {
			return 0xFF
		}
		return m.oam[address-0xFE00]
	case address <= 0xFEFF:
		return 0xFF // unusable region
	case address == addr.P1:
		return m.joypad.register()
	case address == addr.SB || address == addr.SC:
		return m.serial.Read(address)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return m.timer.Read(address)
	case address == addr.IF:
		return m.ReadIF()
	case address == addr.LCDC:
		return m.lcdc
	case address == addr.STAT:
		return m.STAT()
	case address == addr.SCY:
		return m.scy
	case address == addr.SCX:
		return m.scx
	case address == addr.LY:
		return m.ly
	case address == addr.LYC:
		return m.lyc
	case address == addr.BGP:
		return m.bgp
	case address == addr.OBP0:
		return m.obp0
	case address == addr.OBP1:
		return m.obp1
	case address == addr.WY:
		return m.wy
	case address == addr.WX:
		return m.wx
	case address <= 0xFF7F:
		return m.io[address-0xFF00]
	case address <= 0xFFFE:
		return m.hram[address-0xFF80]
	case address == addr.IE:
		return m.ieReg
	default:
		return 0xFF
	}
}

// Write implements the full DMG address decode.
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		m.mbcWrite(address, value)
	case address <= 0x9FFF:
		if !m.vramLocked {
			m.vram[address-0x8000] = value
		}
	case address <= 0xBFFF:
		m.mbcWrite(address, value)
	case address <= 0xDFFF:
		m.wram[address-0xC000] = value
	case address <= 0xFDFF:
		m.wram[address-0xE000] = value
	case address <= 0xFE9F:
		if !m.oamLocked {
			m.oam[address-0xFE00] = value
		}
	case address <= 0xFEFF:
		// unusable region, discard
	case address == addr.P1:
		m.joypad.setSelection(value)
	case address == addr.SB || address == addr.SC:
		m.serial.Write(address, value)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF:
		m.ifReg = value | 0xE0
	case address == addr.LCDC:
		m.lcdc = value
	case address == addr.STAT:
		m.stat = (m.stat & 0x07) | (value & 0x78)
	case address == addr.SCY:
		m.scy = value
	case address == addr.SCX:
		m.scx = value
	case address == addr.LY:
		// read-only, writes ignored
	case address == addr.LYC:
		m.lyc = value
	case address == addr.DMA:
		m.runDMA(value)
	case address == addr.BGP:
		m.bgp = value
	case address == addr.OBP0:
		m.obp0 = value
	case address == addr.OBP1:
		m.obp1 = value
	case address == addr.WY:
		m.wy = value
	case address == addr.WX:
		m.wx = value
	case address <= 0xFF7F:
		m.io[address-0xFF00] = value
	case address <= 0xFFFE:
		m.hram[address-0xFF80] = value
	case address == addr.IE:
		m.ieReg = value
	}
}

func (m *MMU) mbcRead(address uint16) uint8 {
	if m.mbc == nil {
		return 0xFF
	}
	return m.mbc.Read(address)
}

func (m *MMU) mbcWrite(address uint16, value uint8) {
	if m.mbc == nil {
		return
	}
	m.mbc.Write(address, value)
}

// runDMA performs the 160-byte OAM DMA transfer triggered by a write to
// 0xFF46. Real hardware spreads this over 160 machine cycles with the CPU
// restricted to HRAM; this core copies immediately instead of interleaving
// it with CPU bus access cycle-by-cycle (an explicit Non-goal).
func (m *MMU) runDMA(value uint8) {
	source := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		m.oam[i] = m.Read(source + i)
	}
}
