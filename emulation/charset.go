package emulation

import (
	"log/slog"

	"golang.org/x/text/encoding/charmap"
)

// Character set designators.
const (
	CharsetASCII     = 'B' // US ASCII
	CharsetDECGfx    = '0' // DEC special graphics / line drawing
	CharsetUK        = 'A' // UK national
	CharsetDECAltRom = '1' // DEC alternate ROM, treated as ASCII
	CharsetCP437     = 'U' // IBM code page 437
)

// charsets holds the four designated sets plus the GL and GR
// selections. GL maps 0x20-0x7e, GR maps 0xa0-0xfe.
type charsets struct {
	g      [4]byte
	gl, gr int
}

func newCharsets() charsets {
	return charsets{
		g:  [4]byte{CharsetASCII, CharsetASCII, CharsetASCII, CharsetASCII},
		gl: 0,
		gr: 2,
	}
}

// designate assigns a set to one of G0-G3 based on the ESC
// intermediate: ( ) * + select G0 through G3.
func (c *charsets) designate(intermediate byte, set byte) {
	idx := -1
	switch intermediate {
	case '(':
		idx = 0
	case ')':
		idx = 1
	case '*':
		idx = 2
	case '+':
		idx = 3
	}
	if idx < 0 {
		slog.Debug("unknown charset designator", "intermediate", string(intermediate))
		return
	}
	switch set {
	case CharsetASCII, CharsetDECGfx, CharsetUK, CharsetDECAltRom, CharsetCP437:
		c.g[idx] = set
	default:
		slog.Debug("unknown character set", "set", string(set))
	}
}

func (c *charsets) shiftIn()  { c.gl = 0 }
func (c *charsets) shiftOut() { c.gl = 1 }

// mapGL translates a printable 7-bit rune through the GL set.
func (c *charsets) mapGL(r rune) rune {
	return mapThrough(c.g[c.gl], r)
}

// mapGR translates a high byte through the GR set, falling back to
// the code page when GR holds plain ASCII.
func (c *charsets) mapGR(b byte, codepage *[256]rune) rune {
	if set := c.g[c.gr]; set != CharsetASCII {
		return mapThrough(set, rune(b&0x7f))
	}
	return codepage[b]
}

func mapThrough(set byte, r rune) rune {
	switch set {
	case CharsetDECGfx:
		if rr, ok := decGraphics[r]; ok {
			return rr
		}
	case CharsetUK:
		if r == '#' {
			return '£'
		}
	case CharsetCP437:
		if rr := charmap.CodePage437.DecodeByte(byte(r)); rr != 0 {
			return rr
		}
	}
	return r
}

// DefaultCodePage builds the CP437 translation table used for high
// bytes in the legacy emulations. Callers may substitute their own
// table at construction.
func DefaultCodePage() *[256]rune {
	var t [256]rune
	for i := 0; i < 256; i++ {
		t[i] = charmap.CodePage437.DecodeByte(byte(i))
	}
	// Control positions keep their control meaning.
	for i := 0; i < 0x20; i++ {
		t[i] = rune(i)
	}
	return &t
}

// decGraphics maps the DEC special graphics positions onto their
// Unicode equivalents.
var decGraphics = map[rune]rune{
	'+': '→',
	',': '←',
	'-': '↑',
	'.': '↓',
	'0': '▮',
	'`': '◆',
	'a': '▒',
	'b': '␉',
	'c': '␌',
	'd': '␍',
	'e': '␊',
	'f': '°',
	'g': '±',
	'h': '␤',
	'i': '␋',
	'j': '┘',
	'k': '┐',
	'l': '┌',
	'm': '└',
	'n': '┼',
	'o': '⎺',
	'p': '⎻',
	'q': '─',
	'r': '⎼',
	's': '⎽',
	't': '├',
	'u': '┤',
	'v': '┴',
	'w': '┬',
	'x': '│',
	'y': '≤',
	'z': '≥',
	'{': 'π',
	'|': '≠',
	'}': '£',
	'~': '·',
}
