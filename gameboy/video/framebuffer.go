// Package video implements the DMG PPU: the mode 2/3/0/1 timing state
// machine, background/window/sprite compositing and the resulting ARGB
// framebuffer.
package video

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// Shade is one of the four 2-bit DMG grayscale indices produced by a
// palette lookup.
type Shade uint8

// shadeColors holds the ARGB value for each of the four DMG shades, index
// 0 being the lightest.
var shadeColors = [4]uint32{0xFFFFFFFF, 0xFFBFBFBF, 0xFF7F7F7F, 0xFF1F1F1F}

func ShadeToARGB(shade uint8) uint32 { return shadeColors[shade&0x03] }

// FrameBuffer holds one rendered 160x144 frame as packed ARGB pixels.
type FrameBuffer struct {
	buffer [FramebufferSize]uint32
}

func NewFrameBuffer() *FrameBuffer { return &FrameBuffer{} }

func (fb *FrameBuffer) SetPixel(x, y int, argb uint32) {
	fb.buffer[y*FramebufferWidth+x] = argb
}

func (fb *FrameBuffer) Pixel(x, y int) uint32 { return fb.buffer[y*FramebufferWidth+x] }

func (fb *FrameBuffer) Pixels() []uint32 { return fb.buffer[:] }

// Clear fills the framebuffer with the lightest shade, matching the blank
// screen an LCD-disabled core displays.
func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = shadeColors[0]
	}
}
