package memory

import "github.com/tomamints/gameboy/gameboy/bit"

// JoypadKey is one of the eight logical Game Boy buttons.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// joypad tracks the live button/d-pad bitmasks (1 = released, 0 = pressed)
// behind the P1 register. The guest only ever writes the two selection
// bits; everything else is derived on read.
type joypad struct {
	buttons uint8 // A,B,Select,Start -> bits 0-3
	dpad    uint8 // Right,Left,Up,Down -> bits 0-3
	select_ uint8 // raw guest-written bits 4-5 of P1
}

func newJoypad() *joypad {
	return &joypad{buttons: 0x0F, dpad: 0x0F}
}

// setSelection stores the guest's selection bits (4-5 of P1).
func (j *joypad) setSelection(value uint8) {
	j.select_ = value & 0x30
}

// register computes the full P1 byte: selection bits as written, state
// bits derived from whichever group(s) are selected. Bit 4 = 0 selects the
// d-pad, bit 5 = 0 selects buttons; if both are selected, the direction
// keys win.
func (j *joypad) register() uint8 {
	result := uint8(0xC0) | j.select_ // bits 6-7 always read 1

	selectDpad := !bit.IsSet(4, j.select_)
	selectButtons := !bit.IsSet(5, j.select_)

	switch {
	case selectDpad:
		result |= j.dpad & 0x0F
	case selectButtons:
		result |= j.buttons & 0x0F
	default:
		result |= 0x0F
	}
	return result
}

// press clears the bit for a pressed key (0 = pressed) and reports whether
// this was a falling edge (button transitioning released->pressed), which
// is what should raise the joypad interrupt.
func (j *joypad) press(key JoypadKey) (fellEdge bool) {
	before := j.stateByte(key)
	j.setBit(key, false)
	after := j.stateByte(key)
	return before != 0 && after == 0
}

func (j *joypad) release(key JoypadKey) {
	j.setBit(key, true)
}

func (j *joypad) setBit(key JoypadKey, released bool) {
	idx, isDpad := bitIndex(key)
	if isDpad {
		j.dpad = bit.SetTo(idx, j.dpad, released)
	} else {
		j.buttons = bit.SetTo(idx, j.buttons, released)
	}
}

func (j *joypad) stateByte(key JoypadKey) uint8 {
	idx, isDpad := bitIndex(key)
	if isDpad {
		return j.dpad & (1 << idx)
	}
	return j.buttons & (1 << idx)
}

func bitIndex(key JoypadKey) (index uint8, isDpad bool) {
	switch key {
	case JoypadRight:
		return 0, true
	case JoypadLeft:
		return 1, true
	case JoypadUp:
		return 2, true
	case JoypadDown:
		return 3, true
	case JoypadA:
		return 0, false
	case JoypadB:
		return 1, false
	case JoypadSelect:
		return 2, false
	case JoypadStart:
		return 3, false
	default:
		return 0, false
	}
}
