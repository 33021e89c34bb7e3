package cpu

// init assembles both dispatch tables. The irregular rows of the primary
// table (0x00-0x3F, 0xC0-0xFF) are wired to the named functions in
// opcodes.go; the two regular 64-entry blocks (0x40-0x7F LD r,r' and
// 0x80-0xBF ALU A,r8) and the entire 256-entry CB table are built here from
// getR8/setR8, since each is a small family of operations crossed with the
// eight-register operand index.
func init() {
	buildRow0to3()
	buildLdBlock()
	buildAluBlock()
	buildRowCtoF()
	buildCBTable()
}

func buildRow0to3() {
	t := &opcodeTable
	t[0x00] = op00NOP
	t[0x01] = op01LdBCd16
	t[0x02] = op02LdBCIndA
	t[0x03] = op03IncBC
	t[0x04] = op04IncB
	t[0x05] = op05DecB
	t[0x06] = op06LdBd8
	t[0x07] = op07Rlca
	t[0x08] = op08LdInd16SP
	t[0x09] = op09AddHLBC
	t[0x0A] = op0ALdAIndBC
	t[0x0B] = op0BDecBC
	t[0x0C] = op0CIncC
	t[0x0D] = op0DDecC
	t[0x0E] = op0ELdCd8
	t[0x0F] = op0FRrca

	t[0x10] = op10Stop
	t[0x11] = op11LdDEd16
	t[0x12] = op12LdDEIndA
	t[0x13] = op13IncDE
	t[0x14] = op14IncD
	t[0x15] = op15DecD
	t[0x16] = op16LdDd8
	t[0x17] = op17Rla
	t[0x18] = op18JrR8
	t[0x19] = op19AddHLDE
	t[0x1A] = op1ALdAIndDE
	t[0x1B] = op1BDecDE
	t[0x1C] = op1CIncE
	t[0x1D] = op1DDecE
	t[0x1E] = op1ELdEd8
	t[0x1F] = op1FRra

	t[0x20] = op20JrNZ
	t[0x21] = op21LdHLd16
	t[0x22] = op22LdHLIncA
	t[0x23] = op23IncHL
	t[0x24] = op24IncH
	t[0x25] = op25DecH
	t[0x26] = op26LdHd8
	t[0x27] = op27Daa
	t[0x28] = op28JrZ
	t[0x29] = op29AddHLHL
	t[0x2A] = op2ALdAHLInc
	t[0x2B] = op2BDecHL
	t[0x2C] = op2CIncL
	t[0x2D] = op2DDecL
	t[0x2E] = op2ELdLd8
	t[0x2F] = op2FCpl

	t[0x30] = op30JrNC
	t[0x31] = op31LdSPd16
	t[0x32] = op32LdHLDecA
	t[0x33] = op33IncSP
	t[0x34] = op34IncHLInd
	t[0x35] = op35DecHLInd
	t[0x36] = op36LdHLIndD8
	t[0x37] = op37Scf
	t[0x38] = op38JrC
	t[0x39] = op39AddHLSP
	t[0x3A] = op3ALdAHLDec
	t[0x3B] = op3BDecSP
	t[0x3C] = op3CIncA
	t[0x3D] = op3DDecA
	t[0x3E] = op3ELdAd8
	t[0x3F] = op3FCcf
}

// buildLdBlock fills 0x40-0x7F: LD r,r' for every (dst,src) pair, with
// 0x76 overridden as HALT instead of the nonsensical LD (HL),(HL).
func buildLdBlock() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 + dst*8 + src
			d, s := dst, src
			opcodeTable[opcode] = func(c *CPU) int {
				c.setR8(d, c.getR8(s))
				return r8Cycles2(d, s)
			}
		}
	}
	opcodeTable[0x76] = op76Halt
}

func r8Cycles2(dst, src uint8) int {
	if dst == 6 || src == 6 {
		return 8
	}
	return 4
}

// buildAluBlock fills 0x80-0xBF: ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r8, eight
// families of eight operands each.
func buildAluBlock() {
	for src := uint8(0); src < 8; src++ {
		s := src
		opcodeTable[0x80+s] = func(c *CPU) int { c.addToA(c.getR8(s), false); return r8Cycles(s, 4, 8) }
		opcodeTable[0x88+s] = func(c *CPU) int { c.addToA(c.getR8(s), true); return r8Cycles(s, 4, 8) }
		opcodeTable[0x90+s] = func(c *CPU) int { c.subFromA(c.getR8(s), false, true); return r8Cycles(s, 4, 8) }
		opcodeTable[0x98+s] = func(c *CPU) int { c.subFromA(c.getR8(s), true, true); return r8Cycles(s, 4, 8) }
		opcodeTable[0xA0+s] = func(c *CPU) int { c.and(c.getR8(s)); return r8Cycles(s, 4, 8) }
		opcodeTable[0xA8+s] = func(c *CPU) int { c.xor(c.getR8(s)); return r8Cycles(s, 4, 8) }
		opcodeTable[0xB0+s] = func(c *CPU) int { c.or(c.getR8(s)); return r8Cycles(s, 4, 8) }
		opcodeTable[0xB8+s] = func(c *CPU) int { c.subFromA(c.getR8(s), false, false); return r8Cycles(s, 4, 8) }
	}
}

func buildRowCtoF() {
	t := &opcodeTable
	t[0xC0] = opC0RetNZ
	t[0xC1] = opC1PopBC
	t[0xC2] = opC2JpNZ
	t[0xC3] = opC3JpA16
	t[0xC4] = opC4CallNZ
	t[0xC5] = opC5PushBC
	t[0xC6] = opC6AddAd8
	t[0xC7] = makeRST(0x00)
	t[0xC8] = opC8RetZ
	t[0xC9] = opC9Ret
	t[0xCA] = opCAJpZ
	// 0xCB is the CB prefix, handled directly in CPU.executeNext.
	t[0xCC] = opCCCallZ
	t[0xCD] = opCDCallA16
	t[0xCE] = opCEAdcAd8
	t[0xCF] = makeRST(0x08)

	t[0xD0] = opD0RetNC
	t[0xD1] = opD1PopDE
	t[0xD2] = opD2JpNC
	t[0xD4] = opD4CallNC
	t[0xD5] = opD5PushDE
	t[0xD6] = opD6SubD8
	t[0xD7] = makeRST(0x10)
	t[0xD8] = opD8RetC
	t[0xD9] = opD9Reti
	t[0xDA] = opDAJpC
	t[0xDC] = opDCCallC
	t[0xDE] = opDESbcAd8
	t[0xDF] = makeRST(0x18)

	t[0xE0] = opE0LdhInd8A
	t[0xE1] = opE1PopHL
	t[0xE2] = opE2LdIndCA
	t[0xE5] = opE5PushHL
	t[0xE6] = opE6AndD8
	t[0xE7] = makeRST(0x20)
	t[0xE8] = opE8AddSPr8
	t[0xE9] = opE9JpHL
	t[0xEA] = opEALdInd16A
	t[0xEE] = opEEXorD8
	t[0xEF] = makeRST(0x28)

	t[0xF0] = opF0LdhAInd8
	t[0xF1] = opF1PopAF
	t[0xF2] = opF2LdAIndC
	t[0xF3] = opF3Di
	t[0xF5] = opF5PushAF
	t[0xF6] = opF6OrD8
	t[0xF7] = makeRST(0x30)
	t[0xF8] = opF8LdHLSPr8
	t[0xF9] = opF9LdSPHL
	t[0xFA] = opFALdAInd16
	t[0xFB] = opFBEi
	t[0xFE] = opFECpD8
	t[0xFF] = makeRST(0x38)
}

// buildCBTable fills all 256 CB-prefixed opcodes: eight families of eight
// operands. RLC/RRC/RL/RR/SLA/SRA/SWAP/SRL occupy 0x00-0x3F, BIT 0x40-0x7F,
// RES 0x80-0xBF, SET 0xC0-0xFF.
func buildCBTable() {
	for r := uint8(0); r < 8; r++ {
		reg := r
		opcodeCBTable[0x00+reg] = func(c *CPU) int {
			v, carry := rotateLeft(c.getR8(reg))
			c.setR8(reg, c.applyRotateCBForm(v, carry))
			return r8Cycles(reg, 8, 16)
		}
		opcodeCBTable[0x08+reg] = func(c *CPU) int {
			v, carry := rotateRight(c.getR8(reg))
			c.setR8(reg, c.applyRotateCBForm(v, carry))
			return r8Cycles(reg, 8, 16)
		}
		opcodeCBTable[0x10+reg] = func(c *CPU) int {
			v, carry := rotateLeftThroughCarry(c.getR8(reg), c.getFlag(flagC))
			c.setR8(reg, c.applyRotateCBForm(v, carry))
			return r8Cycles(reg, 8, 16)
		}
		opcodeCBTable[0x18+reg] = func(c *CPU) int {
			v, carry := rotateRightThroughCarry(c.getR8(reg), c.getFlag(flagC))
			c.setR8(reg, c.applyRotateCBForm(v, carry))
			return r8Cycles(reg, 8, 16)
		}
		opcodeCBTable[0x20+reg] = func(c *CPU) int {
			v, carry := shiftLeftArithmetic(c.getR8(reg))
			c.setR8(reg, c.applyRotateCBForm(v, carry))
			return r8Cycles(reg, 8, 16)
		}
		opcodeCBTable[0x28+reg] = func(c *CPU) int {
			v, carry := shiftRightArithmetic(c.getR8(reg))
			c.setR8(reg, c.applyRotateCBForm(v, carry))
			return r8Cycles(reg, 8, 16)
		}
		opcodeCBTable[0x30+reg] = func(c *CPU) int {
			v := swapNibbles(c.getR8(reg))
			c.setR8(reg, c.applyRotateCBForm(v, false))
			return r8Cycles(reg, 8, 16)
		}
		opcodeCBTable[0x38+reg] = func(c *CPU) int {
			v, carry := shiftRightLogical(c.getR8(reg))
			c.setR8(reg, c.applyRotateCBForm(v, carry))
			return r8Cycles(reg, 8, 16)
		}

		for bitIdx := uint8(0); bitIdx < 8; bitIdx++ {
			b := bitIdx
			opcodeCBTable[0x40+b*8+reg] = func(c *CPU) int {
				c.bitTest(b, c.getR8(reg))
				return r8Cycles(reg, 8, 12)
			}
			opcodeCBTable[0x80+b*8+reg] = func(c *CPU) int {
				v := resetBit(b, c.getR8(reg))
				c.setR8(reg, v)
				return r8Cycles(reg, 8, 16)
			}
			opcodeCBTable[0xC0+b*8+reg] = func(c *CPU) int {
				v := setBitAt(b, c.getR8(reg))
				c.setR8(reg, v)
				return r8Cycles(reg, 8, 16)
			}
		}
	}
}

func resetBit(index uint8, value uint8) uint8 { return value &^ (1 << index) }
func setBitAt(index uint8, value uint8) uint8 { return value | (1 << index) }
