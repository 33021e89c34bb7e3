package cpu

import "github.com/tomamints/gameboy/gameboy/bit"

// Opcode executes one decoded instruction (the opcode byte itself has
// already been consumed) and returns the T-cycle cost actually taken,
// which varies for conditional branches.
type Opcode func(c *CPU) int

// opcodeTable and opcodeCBTable are assembled in mapping.go: the named
// functions below fill in the irregular rows (0x00-0x3F, 0xC0-0xFF), while
// the regular LD r,r' and ALU A,r8 blocks (0x40-0xBF) and the entire CB
// table are built programmatically from getR8/setR8.
var opcodeTable [256]Opcode
var opcodeCBTable [256]Opcode

// -- row 0x00-0x0F --

func op00NOP(c *CPU) int { return 4 }

func op01LdBCd16(c *CPU) int { c.setBC(c.fetchWord()); return 12 }

func op02LdBCIndA(c *CPU) int { c.bus.Write(c.getBC(), c.a); return 8 }

func op03IncBC(c *CPU) int { c.setBC(c.getBC() + 1); return 8 }

func op04IncB(c *CPU) int { c.b = c.inc(c.b); return 4 }
func op05DecB(c *CPU) int { c.b = c.dec(c.b); return 4 }

func op06LdBd8(c *CPU) int { c.b = c.fetchByte(); return 8 }

func op07Rlca(c *CPU) int {
	r, carry := rotateLeft(c.a)
	c.a = c.applyRotateAForm(r, carry)
	return 4
}

func op08LdInd16SP(c *CPU) int {
	addr16 := c.fetchWord()
	c.bus.Write(addr16, bit.Low(c.sp))
	c.bus.Write(addr16+1, bit.High(c.sp))
	return 20
}

func op09AddHLBC(c *CPU) int { c.addToHL(c.getBC()); return 8 }

func op0ALdAIndBC(c *CPU) int { c.a = c.bus.Read(c.getBC()); return 8 }

func op0BDecBC(c *CPU) int { c.setBC(c.getBC() - 1); return 8 }

func op0CIncC(c *CPU) int { c.c = c.inc(c.c); return 4 }
func op0DDecC(c *CPU) int { c.c = c.dec(c.c); return 4 }

func op0ELdCd8(c *CPU) int { c.c = c.fetchByte(); return 8 }

func op0FRrca(c *CPU) int {
	r, carry := rotateRight(c.a)
	c.a = c.applyRotateAForm(r, carry)
	return 4
}

// -- row 0x10-0x1F --

func op10Stop(c *CPU) int { c.fetchByte(); return 4 }

func op11LdDEd16(c *CPU) int { c.setDE(c.fetchWord()); return 12 }

func op12LdDEIndA(c *CPU) int { c.bus.Write(c.getDE(), c.a); return 8 }

func op13IncDE(c *CPU) int { c.setDE(c.getDE() + 1); return 8 }

func op14IncD(c *CPU) int { c.d = c.inc(c.d); return 4 }
func op15DecD(c *CPU) int { c.d = c.dec(c.d); return 4 }

func op16LdDd8(c *CPU) int { c.d = c.fetchByte(); return 8 }

func op17Rla(c *CPU) int {
	r, carry := rotateLeftThroughCarry(c.a, c.getFlag(flagC))
	c.a = c.applyRotateAForm(r, carry)
	return 4
}

func op18JrR8(c *CPU) int {
	offset := int8(c.fetchByte())
	c.jumpRelative(offset)
	return 12
}

func op19AddHLDE(c *CPU) int { c.addToHL(c.getDE()); return 8 }

func op1ALdAIndDE(c *CPU) int { c.a = c.bus.Read(c.getDE()); return 8 }

func op1BDecDE(c *CPU) int { c.setDE(c.getDE() - 1); return 8 }

func op1CIncE(c *CPU) int { c.e = c.inc(c.e); return 4 }
func op1DDecE(c *CPU) int { c.e = c.dec(c.e); return 4 }

func op1ELdEd8(c *CPU) int { c.e = c.fetchByte(); return 8 }

func op1FRra(c *CPU) int {
	r, carry := rotateRightThroughCarry(c.a, c.getFlag(flagC))
	c.a = c.applyRotateAForm(r, carry)
	return 4
}

// -- row 0x20-0x2F --

func op20JrNZ(c *CPU) int {
	offset := int8(c.fetchByte())
	if c.getFlag(flagZ) {
		return 8
	}
	c.jumpRelative(offset)
	return 12
}

func op21LdHLd16(c *CPU) int { c.setHL(c.fetchWord()); return 12 }

func op22LdHLIncA(c *CPU) int {
	hl := c.getHL()
	c.bus.Write(hl, c.a)
	c.setHL(hl + 1)
	return 8
}

func op23IncHL(c *CPU) int { c.setHL(c.getHL() + 1); return 8 }

func op24IncH(c *CPU) int { c.h = c.inc(c.h); return 4 }
func op25DecH(c *CPU) int { c.h = c.dec(c.h); return 4 }

func op26LdHd8(c *CPU) int { c.h = c.fetchByte(); return 8 }

func op27Daa(c *CPU) int { c.daa(); return 4 }

func op28JrZ(c *CPU) int {
	offset := int8(c.fetchByte())
	if !c.getFlag(flagZ) {
		return 8
	}
	c.jumpRelative(offset)
	return 12
}

func op29AddHLHL(c *CPU) int { c.addToHL(c.getHL()); return 8 }

func op2ALdAHLInc(c *CPU) int {
	hl := c.getHL()
	c.a = c.bus.Read(hl)
	c.setHL(hl + 1)
	return 8
}

func op2BDecHL(c *CPU) int { c.setHL(c.getHL() - 1); return 8 }

func op2CIncL(c *CPU) int { c.l = c.inc(c.l); return 4 }
func op2DDecL(c *CPU) int { c.l = c.dec(c.l); return 4 }

func op2ELdLd8(c *CPU) int { c.l = c.fetchByte(); return 8 }

func op2FCpl(c *CPU) int {
	c.a = ^c.a
	c.setFlag(flagN, true)
	c.setFlag(flagH, true)
	return 4
}

// -- row 0x30-0x3F --

func op30JrNC(c *CPU) int {
	offset := int8(c.fetchByte())
	if c.getFlag(flagC) {
		return 8
	}
	c.jumpRelative(offset)
	return 12
}

func op31LdSPd16(c *CPU) int { c.sp = c.fetchWord(); return 12 }

func op32LdHLDecA(c *CPU) int {
	hl := c.getHL()
	c.bus.Write(hl, c.a)
	c.setHL(hl - 1)
	return 8
}

func op33IncSP(c *CPU) int { c.sp++; return 8 }

func op34IncHLInd(c *CPU) int {
	hl := c.getHL()
	c.bus.Write(hl, c.inc(c.bus.Read(hl)))
	return 12
}

func op35DecHLInd(c *CPU) int {
	hl := c.getHL()
	c.bus.Write(hl, c.dec(c.bus.Read(hl)))
	return 12
}

func op36LdHLIndD8(c *CPU) int { c.bus.Write(c.getHL(), c.fetchByte()); return 12 }

func op37Scf(c *CPU) int {
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, true)
	return 4
}

func op38JrC(c *CPU) int {
	offset := int8(c.fetchByte())
	if !c.getFlag(flagC) {
		return 8
	}
	c.jumpRelative(offset)
	return 12
}

func op39AddHLSP(c *CPU) int { c.addToHL(c.sp); return 8 }

func op3ALdAHLDec(c *CPU) int {
	hl := c.getHL()
	c.a = c.bus.Read(hl)
	c.setHL(hl - 1)
	return 8
}

func op3BDecSP(c *CPU) int { c.sp--; return 8 }

func op3CIncA(c *CPU) int { c.a = c.inc(c.a); return 4 }
func op3DDecA(c *CPU) int { c.a = c.dec(c.a); return 4 }

func op3ELdAd8(c *CPU) int { c.a = c.fetchByte(); return 8 }

func op3FCcf(c *CPU) int {
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, !c.getFlag(flagC))
	return 4
}

// op76Halt decides the HALT bug at the instant HALT executes: if IME is
// clear and an interrupt is already pending right now, the CPU never
// actually halts -- the next opcode fetch fails to advance PC once, so that
// byte runs twice. Otherwise it halts normally, woken later (with dispatch
// only if IME is set) by handleInterrupts.
func op76Halt(c *CPU) int {
	pending := c.bus.ReadIF() & c.bus.ReadIE() & 0x1F
	if !c.ime && pending != 0 {
		c.haltBug = true
		return 4
	}
	c.halted = true
	return 4
}

// -- row 0xC0-0xCF --

func opC0RetNZ(c *CPU) int {
	if c.getFlag(flagZ) {
		return 8
	}
	c.pc = c.popWord()
	return 20
}

func opC1PopBC(c *CPU) int { c.setBC(c.popWord()); return 12 }

func opC2JpNZ(c *CPU) int {
	target := c.fetchWord()
	if c.getFlag(flagZ) {
		return 12
	}
	c.pc = target
	return 16
}

func opC3JpA16(c *CPU) int { c.pc = c.fetchWord(); return 16 }

func opC4CallNZ(c *CPU) int {
	target := c.fetchWord()
	if c.getFlag(flagZ) {
		return 12
	}
	c.pushWord(c.pc)
	c.pc = target
	return 24
}

func opC5PushBC(c *CPU) int { c.pushWord(c.getBC()); return 16 }

func opC6AddAd8(c *CPU) int { c.addToA(c.fetchByte(), false); return 8 }

func makeRST(vector uint16) Opcode {
	return func(c *CPU) int {
		c.pushWord(c.pc)
		c.pc = vector
		return 16
	}
}

func opC8RetZ(c *CPU) int {
	if !c.getFlag(flagZ) {
		return 8
	}
	c.pc = c.popWord()
	return 20
}

func opC9Ret(c *CPU) int { c.pc = c.popWord(); return 16 }

func opCAJpZ(c *CPU) int {
	target := c.fetchWord()
	if !c.getFlag(flagZ) {
		return 12
	}
	c.pc = target
	return 16
}

func opCCCallZ(c *CPU) int {
	target := c.fetchWord()
	if !c.getFlag(flagZ) {
		return 12
	}
	c.pushWord(c.pc)
	c.pc = target
	return 24
}

func opCDCallA16(c *CPU) int {
	target := c.fetchWord()
	c.pushWord(c.pc)
	c.pc = target
	return 24
}

func opCEAdcAd8(c *CPU) int { c.addToA(c.fetchByte(), true); return 8 }

// -- row 0xD0-0xDF --

func opD0RetNC(c *CPU) int {
	if c.getFlag(flagC) {
		return 8
	}
	c.pc = c.popWord()
	return 20
}

func opD1PopDE(c *CPU) int { c.setDE(c.popWord()); return 12 }

func opD2JpNC(c *CPU) int {
	target := c.fetchWord()
	if c.getFlag(flagC) {
		return 12
	}
	c.pc = target
	return 16
}

func opD4CallNC(c *CPU) int {
	target := c.fetchWord()
	if c.getFlag(flagC) {
		return 12
	}
	c.pushWord(c.pc)
	c.pc = target
	return 24
}

func opD5PushDE(c *CPU) int { c.pushWord(c.getDE()); return 16 }

func opD6SubD8(c *CPU) int { c.subFromA(c.fetchByte(), false, true); return 8 }

func opD8RetC(c *CPU) int {
	if !c.getFlag(flagC) {
		return 8
	}
	c.pc = c.popWord()
	return 20
}

func opD9Reti(c *CPU) int {
	c.pc = c.popWord()
	c.ime = true
	return 16
}

func opDAJpC(c *CPU) int {
	target := c.fetchWord()
	if !c.getFlag(flagC) {
		return 12
	}
	c.pc = target
	return 16
}

func opDCCallC(c *CPU) int {
	target := c.fetchWord()
	if !c.getFlag(flagC) {
		return 12
	}
	c.pushWord(c.pc)
	c.pc = target
	return 24
}

func opDESbcAd8(c *CPU) int { c.addSbcD8(); return 8 }

func (c *CPU) addSbcD8() { c.subFromA(c.fetchByte(), true, true) }

// -- row 0xE0-0xEF --

func opE0LdhInd8A(c *CPU) int {
	offset := c.fetchByte()
	c.bus.Write(0xFF00+uint16(offset), c.a)
	return 12
}

func opE1PopHL(c *CPU) int { c.setHL(c.popWord()); return 12 }

func opE2LdIndCA(c *CPU) int { c.bus.Write(0xFF00+uint16(c.c), c.a); return 8 }

func opE5PushHL(c *CPU) int { c.pushWord(c.getHL()); return 16 }

func opE6AndD8(c *CPU) int { c.and(c.fetchByte()); return 8 }

func opE8AddSPr8(c *CPU) int {
	offset := int8(c.fetchByte())
	c.sp = c.addSPSigned(offset)
	return 16
}

func opE9JpHL(c *CPU) int { c.pc = c.getHL(); return 4 }

func opEALdInd16A(c *CPU) int { c.bus.Write(c.fetchWord(), c.a); return 16 }

func opEEXorD8(c *CPU) int { c.xor(c.fetchByte()); return 8 }

// -- row 0xF0-0xFF --

func opF0LdhAInd8(c *CPU) int {
	offset := c.fetchByte()
	c.a = c.bus.Read(0xFF00 + uint16(offset))
	return 12
}

func opF1PopAF(c *CPU) int { c.setAF(c.popWord()); return 12 }

func opF2LdAIndC(c *CPU) int { c.a = c.bus.Read(0xFF00 + uint16(c.c)); return 8 }

func opF3Di(c *CPU) int {
	c.ime = false
	c.eiDelay = 0
	return 4
}

func opF5PushAF(c *CPU) int { c.pushWord(c.getAF()); return 16 }

func opF6OrD8(c *CPU) int { c.or(c.fetchByte()); return 8 }

func opF8LdHLSPr8(c *CPU) int {
	offset := int8(c.fetchByte())
	c.setHL(c.addSPSigned(offset))
	return 12
}

func opF9LdSPHL(c *CPU) int { c.sp = c.getHL(); return 8 }

func opFALdAInd16(c *CPU) int { c.a = c.bus.Read(c.fetchWord()); return 16 }

func opFBEi(c *CPU) int {
	c.eiDelay = 2
	return 4
}

func opFECpD8(c *CPU) int { c.subFromA(c.fetchByte(), false, false); return 8 }
