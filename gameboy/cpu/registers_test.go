package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPairAccessors(t *testing.T) {
	c, _ := newTestCPU()

	c.setBC(0x1234)
	assert.Equal(t, uint8(0x12), c.b)
	assert.Equal(t, uint8(0x34), c.c)
	assert.Equal(t, uint16(0x1234), c.getBC())

	c.setDE(0xABCD)
	assert.Equal(t, uint16(0xABCD), c.getDE())

	c.setHL(0x8000)
	assert.Equal(t, uint16(0x8000), c.getHL())
}

func TestR8IndirectGoesThroughBus(t *testing.T) {
	c, bus := newTestCPU()
	c.setHL(0xC000)
	bus.mem[0xC000] = 0x42

	assert.Equal(t, uint8(0x42), c.getR8(6))

	c.setR8(6, 0x99)
	assert.Equal(t, uint8(0x99), bus.mem[0xC000])
}

func TestR8IndexOrderMatchesBCDEHLHLA(t *testing.T) {
	c, _ := newTestCPU()
	c.b, c.c, c.d, c.e, c.h, c.l, c.a = 1, 2, 3, 4, 5, 6, 7
	assert.Equal(t, uint8(1), c.getR8(0))
	assert.Equal(t, uint8(2), c.getR8(1))
	assert.Equal(t, uint8(3), c.getR8(2))
	assert.Equal(t, uint8(4), c.getR8(3))
	assert.Equal(t, uint8(5), c.getR8(4))
	assert.Equal(t, uint8(6), c.getR8(5))
	assert.Equal(t, uint8(7), c.getR8(7))
}
