package video

import (
	"github.com/tomamints/gameboy/gameboy/addr"
	"github.com/tomamints/gameboy/gameboy/bit"
)

// Mode is the PPU's current rendering stage, mirroring STAT bits 1-0.
type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeVRAM   Mode = 3
)

// Dot timing per scanline. Real hardware varies mode 3's length with
// sprite/window fetch penalties; this core fixes it at 172 dots (the
// shortest-case length), keeping OAM+VRAM+HBlank summing to the fixed
// 456-dot line.
const (
	oamDots    = 80
	vramDots   = 172
	hblankDots = 204
	lineDots   = oamDots + vramDots + hblankDots
	linesPerFrame = 154
)

// Bus is the memory surface the PPU reads registers/VRAM/OAM through and
// raises interrupts on. memory.MMU satisfies this.
type Bus interface {
	LCDC() uint8
	STAT() uint8
	SCY() uint8
	SCX() uint8
	LY() uint8
	LYC() uint8
	BGP() uint8
	OBP0() uint8
	OBP1() uint8
	WY() uint8
	WX() uint8
	SetSTATMode(mode uint8)
	SetCoincidence(set bool)
	WriteLYInternal(value uint8)
	ReadBypassingLocks(address uint16) uint8
	RequestInterrupt(interrupt addr.Interrupt)
	LockVRAM(locked bool)
	LockOAM(locked bool)
}

// LCDC bit positions.
const (
	lcdcEnable       = 7
	lcdcWinTileMap   = 6
	lcdcWinEnable    = 5
	lcdcTileData     = 4
	lcdcBGTileMap    = 3
	lcdcObjSize      = 2
	lcdcObjEnable    = 1
	lcdcBGEnable     = 0
)

// STAT bit positions.
const (
	statLYCInterrupt    = 6
	statOAMInterrupt    = 5
	statVBlankInterrupt = 4
	statHBlankInterrupt = 3
	statCoincidence     = 2
)

// PPU implements the dot-driven mode state machine and composites each
// scanline once, at the moment mode 3 finishes, into the framebuffer.
type PPU struct {
	bus Bus
	fb  *FrameBuffer

	mode       Mode
	line       int
	dot        int
	windowLine int

	bgPriority     [FramebufferWidth]bool // true where the background/window pixel was non-zero
	spritePriority spritePriorityBuffer
}

func NewPPU(bus Bus) *PPU {
	p := &PPU{bus: bus, fb: NewFrameBuffer(), mode: ModeOAM}
	p.fb.Clear()
	return p
}

func (p *PPU) FrameBuffer() *FrameBuffer { return p.fb }

func (p *PPU) enabled() bool { return bit.IsSet(lcdcEnable, p.bus.LCDC()) }

// Tick advances the PPU by the given number of T-cycles. When the LCD is
// off the PPU holds at a blank screen and does not advance LY or raise any
// interrupt.
func (p *PPU) Tick(cycles int) {
	if !p.enabled() {
		p.dot = 0
		p.line = 0
		p.windowLine = 0
		p.mode = ModeHBlank
		p.bus.SetSTATMode(uint8(ModeHBlank))
		p.bus.LockOAM(false)
		p.bus.LockVRAM(false)
		p.bus.WriteLYInternal(0)
		p.fb.Clear()
		return
	}

	p.dot += cycles
	for p.dot >= lineDots {
		p.dot -= lineDots
		p.advanceLine()
	}
	p.updateModeWithinLine()
}

// advanceLine is called once a full 456-dot line has elapsed: it moves LY
// forward (wrapping at 154), refreshing LYC coincidence and firing VBlank
// on the 143->144 transition.
func (p *PPU) advanceLine() {
	p.line = (p.line + 1) % linesPerFrame
	p.bus.WriteLYInternal(uint8(p.line))
	p.checkCoincidence()

	if p.line == 144 {
		p.bus.RequestInterrupt(addr.VBlankInterrupt)
	}
	if p.line == 0 {
		p.windowLine = 0
	}
}

// updateModeWithinLine derives mode 2/3/0 (or 1 while in VBlank) from the
// dot offset into the current line and fires the STAT mode-change
// interrupts and the one-shot scanline render on entry to mode 0.
func (p *PPU) updateModeWithinLine() {
	if p.line >= 144 {
		p.transitionTo(ModeVBlank)
		return
	}

	switch {
	case p.dot < oamDots:
		p.transitionTo(ModeOAM)
	case p.dot < oamDots+vramDots:
		p.transitionTo(ModeVRAM)
	default:
		if p.mode != ModeHBlank {
			p.renderScanline()
		}
		p.transitionTo(ModeHBlank)
	}
}

func (p *PPU) transitionTo(mode Mode) {
	if p.mode == mode {
		return
	}
	p.mode = mode
	p.bus.SetSTATMode(uint8(mode))
	p.bus.LockOAM(mode == ModeOAM || mode == ModeVRAM)
	p.bus.LockVRAM(mode == ModeVRAM)

	stat := p.bus.STAT()
	switch mode {
	case ModeOAM:
		if bit.IsSet(statOAMInterrupt, stat) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	case ModeHBlank:
		if bit.IsSet(statHBlankInterrupt, stat) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	case ModeVBlank:
		if bit.IsSet(statVBlankInterrupt, stat) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	}
}

func (p *PPU) checkCoincidence() {
	match := uint8(p.line) == p.bus.LYC()
	p.bus.SetCoincidence(match)
	if match && bit.IsSet(statLYCInterrupt, p.bus.STAT()) {
		p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
	}
}

func (p *PPU) renderScanline() {
	p.drawBackground()
	p.drawWindow()
	p.drawSprites()
}
