package cpu

import "github.com/tomamints/gameboy/gameboy/bit"

func (c *CPU) getBC() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) setBC(v uint16) {
	c.b = bit.High(v)
	c.c = bit.Low(v)
}

func (c *CPU) getDE() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) setDE(v uint16) {
	c.d = bit.High(v)
	c.e = bit.Low(v)
}

func (c *CPU) getHL() uint16 { return bit.Combine(c.h, c.l) }
func (c *CPU) setHL(v uint16) {
	c.h = bit.High(v)
	c.l = bit.Low(v)
}

func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f) }
func (c *CPU) setAF(v uint16) {
	c.a = bit.High(v)
	c.f = bit.Low(v) & 0xF0
}

// getR8/setR8 map the standard 3-bit register index used throughout both
// opcode tables to B,C,D,E,H,L,(HL),A. Index 6 goes through the bus at
// address HL rather than a register.
func (c *CPU) getR8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case 6:
		return c.bus.Read(c.getHL())
	case 7:
		return c.a
	default:
		return 0
	}
}

func (c *CPU) setR8(idx uint8, value uint8) {
	switch idx {
	case 0:
		c.b = value
	case 1:
		c.c = value
	case 2:
		c.d = value
	case 3:
		c.e = value
	case 4:
		c.h = value
	case 5:
		c.l = value
	case 6:
		c.bus.Write(c.getHL(), value)
	case 7:
		c.a = value
	}
}

// r8Cycles returns the cycle cost of an operation taking r8 as an operand:
// indirect when idx selects (HL), plain for a register.
func r8Cycles(idx uint8, plain, indirect int) int {
	if idx == 6 {
		return indirect
	}
	return plain
}
