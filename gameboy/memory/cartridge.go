package memory

import (
	"strings"
	"unicode"
)

const bankSize = 0x4000

const (
	titleAddress          = 0x134
	titleLength           = 11
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	headerChecksumAddress = 0x14D
)

// Cartridge is the immutable ROM image loaded at power-on, plus its parsed
// header fields. The mapper is chosen from the bank count alone (NoMBC or
// MBC1), not from the header; the header is parsed regardless so title
// logging works for any image.
type Cartridge struct {
	data           []byte
	title          string
	cartridgeType  uint8
	romSizeCode    uint8
	ramSizeCode    uint8
	headerChecksum uint8
	bankCount      int
}

// NewCartridge returns an empty, zero-length cartridge, useful only as a
// placeholder before a ROM is loaded.
func NewCartridge() *Cartridge {
	return &Cartridge{}
}

// NewCartridgeWithData parses a raw ROM image. Returns EmptyRomError if the
// image is empty or not a multiple of the 16 KiB bank size.
func NewCartridgeWithData(data []byte) (*Cartridge, error) {
	if len(data) == 0 || len(data)%bankSize != 0 {
		return nil, &EmptyRomError{Size: len(data)}
	}

	cart := &Cartridge{
		data:      make([]byte, len(data)),
		bankCount: len(data) / bankSize,
	}
	copy(cart.data, data)

	if len(data) > titleAddress+titleLength {
		cart.title = cleanTitle(data[titleAddress : titleAddress+titleLength])
	}
	if len(data) > cartridgeTypeAddress {
		cart.cartridgeType = data[cartridgeTypeAddress]
	}
	if len(data) > romSizeAddress {
		cart.romSizeCode = data[romSizeAddress]
	}
	if len(data) > ramSizeAddress {
		cart.ramSizeCode = data[ramSizeAddress]
	}
	if len(data) > headerChecksumAddress {
		cart.headerChecksum = data[headerChecksumAddress]
	}

	return cart, nil
}

// Title returns the cleaned up cartridge title from the header.
func (c *Cartridge) Title() string { return c.title }

// BankCount returns the number of 16 KiB ROM banks in the image.
func (c *Cartridge) BankCount() int { return c.bankCount }

// Data returns the raw image bytes. The mapper is the only consumer.
func (c *Cartridge) Data() []byte { return c.data }

func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		r := rune(b)
		switch {
		case r == 0:
			r = ' '
		case !unicode.IsPrint(r):
			r = '?'
		}
		runes = append(runes, r)
	}
	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(untitled)"
	}
	return title
}
