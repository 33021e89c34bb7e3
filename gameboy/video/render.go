package video

import (
	"github.com/tomamints/gameboy/gameboy/addr"
	"github.com/tomamints/gameboy/gameboy/bit"
)

// tileDataAddr resolves the tile data base and whether tile indices are
// signed, from LCDC bit 4.
func (p *PPU) tileDataAddr() (base uint16, signed bool) {
	if bit.IsSet(lcdcTileData, p.bus.LCDC()) {
		return 0x8000, false
	}
	return 0x9000, true
}

func tileAddrFor(base uint16, signed bool, tileIndex uint8, rowBytes uint16) uint16 {
	if signed {
		return uint16(int32(base) + int32(int8(tileIndex))*16 + int32(rowBytes))
	}
	return base + uint16(tileIndex)*16 + rowBytes
}

func (p *PPU) tileRow(tileAddr uint16) (low, high uint8) {
	low = p.bus.ReadBypassingLocks(tileAddr)
	high = p.bus.ReadBypassingLocks(tileAddr + 1)
	return
}

func paletteIndex(low, high uint8, bitFromLeft uint8) uint8 {
	var idx uint8
	if bit.IsSet(bitFromLeft, low) {
		idx |= 1
	}
	if bit.IsSet(bitFromLeft, high) {
		idx |= 2
	}
	return idx
}

func applyPalette(palette uint8, colorIndex uint8) uint8 {
	return (palette >> (colorIndex * 2)) & 0x03
}

// drawBackground renders one scanline of the background layer, or a flat
// color-0 fill when BG/window display is disabled (LCDC bit 0), which on
// DMG blanks the background but not the window/sprites.
func (p *PPU) drawBackground() {
	y := p.line

	if !bit.IsSet(lcdcBGEnable, p.bus.LCDC()) {
		shade := applyPalette(p.bus.BGP(), 0)
		color := ShadeToARGB(shade)
		for x := 0; x < FramebufferWidth; x++ {
			p.fb.SetPixel(x, y, color)
			p.bgPriority[x] = false
		}
		return
	}

	tileMapBase := uint16(0x9800)
	if bit.IsSet(lcdcBGTileMap, p.bus.LCDC()) {
		tileMapBase = 0x9C00
	}
	dataBase, signed := p.tileDataAddr()

	scy, scx := p.bus.SCY(), p.bus.SCX()
	mapY := (y + int(scy)) & 0xFF
	tileRow := (mapY / 8) * 32
	rowInTile := uint16(mapY%8) * 2

	for x := 0; x < FramebufferWidth; x++ {
		mapX := (x + int(scx)) & 0xFF
		tileCol := mapX / 8
		tileIndex := p.bus.ReadBypassingLocks(tileMapBase + uint16(tileRow+tileCol))
		tileAddr := tileAddrFor(dataBase, signed, tileIndex, rowInTile)
		low, high := p.tileRow(tileAddr)

		colorIdx := paletteIndex(low, high, uint8(7-mapX%8))
		shade := applyPalette(p.bus.BGP(), colorIdx)
		p.fb.SetPixel(x, y, ShadeToARGB(shade))
		p.bgPriority[x] = colorIdx != 0
	}
}

// drawWindow overlays the window layer on top of the background for this
// scanline, if enabled and currently visible. The
// internal window line counter only advances on lines where the window
// actually drew, per hardware behavior.
func (p *PPU) drawWindow() {
	if !bit.IsSet(lcdcWinEnable, p.bus.LCDC()) {
		return
	}

	wy := int(p.bus.WY())
	wx := int(p.bus.WX()) - 7
	if p.line < wy {
		return
	}
	if wx >= FramebufferWidth {
		return
	}

	tileMapBase := uint16(0x9800)
	if bit.IsSet(lcdcWinTileMap, p.bus.LCDC()) {
		tileMapBase = 0x9C00
	}
	dataBase, signed := p.tileDataAddr()

	tileRow := (p.windowLine / 8) * 32
	rowInTile := uint16(p.windowLine%8) * 2

	drew := false
	for screenX := 0; screenX < FramebufferWidth; screenX++ {
		winX := screenX - wx
		if winX < 0 {
			continue
		}
		drew = true

		tileCol := winX / 8
		tileIndex := p.bus.ReadBypassingLocks(tileMapBase + uint16(tileRow+tileCol))
		tileAddr := tileAddrFor(dataBase, signed, tileIndex, rowInTile)
		low, high := p.tileRow(tileAddr)

		colorIdx := paletteIndex(low, high, uint8(7-winX%8))
		shade := applyPalette(p.bus.BGP(), colorIdx)
		p.fb.SetPixel(screenX, p.line, ShadeToARGB(shade))
		p.bgPriority[screenX] = colorIdx != 0
	}

	if drew {
		p.windowLine++
	}
}

// oamEntry is one raw 4-byte OAM record.
type oamEntry struct {
	y, x, tile, flags uint8
	index             int
}

// drawSprites performs the OAM scan for the current line (up to 10
// sprites, selection by Y only) then composites owned pixels using
// spritePriority for the X-then-index tie-break.
func (p *PPU) drawSprites() {
	if !bit.IsSet(lcdcObjEnable, p.bus.LCDC()) {
		return
	}

	height := 8
	if bit.IsSet(lcdcObjSize, p.bus.LCDC()) {
		height = 16
	}

	var visible []oamEntry
	for i := 0; i < 40; i++ {
		base := addr.OAMStart + uint16(i*4)
		y := int(p.bus.ReadBypassingLocks(base)) - 16
		if y > p.line || y+height <= p.line {
			continue
		}
		visible = append(visible, oamEntry{
			y:     uint8(y),
			x:     p.bus.ReadBypassingLocks(base + 1),
			tile:  p.bus.ReadBypassingLocks(base + 2),
			flags: p.bus.ReadBypassingLocks(base + 3),
			index: i,
		})
		if len(visible) >= 10 {
			break
		}
	}

	p.spritePriority.Clear()
	for _, s := range visible {
		x := int(s.x) - 8
		for px := 0; px < 8; px++ {
			p.spritePriority.TryClaimPixel(x+px, s.index, x)
		}
	}

	for _, s := range visible {
		x := int(s.x) - 8
		owned := false
		for px := 0; px < 8; px++ {
			if p.spritePriority.GetOwner(x+px) == s.index {
				owned = true
				break
			}
		}
		if !owned {
			continue
		}
		p.drawSprite(s, x, height)
	}
}

func (p *PPU) drawSprite(s oamEntry, screenX, height int) {
	flipX := bit.IsSet(5, s.flags)
	flipY := bit.IsSet(6, s.flags)
	aboveBG := !bit.IsSet(7, s.flags)
	palette := p.bus.OBP0()
	if bit.IsSet(4, s.flags) {
		palette = p.bus.OBP1()
	}

	tile := s.tile
	if height == 16 {
		tile &^= 0x01
	}

	rowInSprite := p.line - int(s.y)
	if flipY {
		rowInSprite = height - 1 - rowInSprite
	}

	tileAddr := uint16(0x8000) + uint16(tile)*16 + uint16(rowInSprite)*2
	low, high := p.tileRow(tileAddr)

	for px := 0; px < 8; px++ {
		bufferX := screenX + px
		if p.spritePriority.GetOwner(bufferX) != s.index {
			continue
		}

		bitIdx := px
		if !flipX {
			bitIdx = 7 - px
		}
		colorIdx := paletteIndex(low, high, uint8(bitIdx))
		if colorIdx == 0 {
			continue
		}
		if !aboveBG && p.bgPriority[bufferX] {
			continue
		}

		shade := applyPalette(palette, colorIdx)
		p.fb.SetPixel(bufferX, p.line, ShadeToARGB(shade))
	}
}
