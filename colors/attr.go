// Package colors implements the attribute and color engine for the
// emulation core: the packed attribute word carried by every screen
// cell, SGR parameter application, and conversions to HTML styles and
// from legacy VGA attribute bytes.
package colors

import "fmt"

// Color indexes, ANSI order.
const (
	Black = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

const (
	fgShift = 0
	bgShift = 3
	fgMask  = 0x0007
	bgMask  = 0x0038
)

// Attr packs a foreground color index (bits 0-2), a background color
// index (bits 3-5) and the rendition flags into one word.
type Attr uint16

const (
	Bold Attr = 1 << (6 + iota)
	Underline
	Blink
	Reverse
	Invisible
	Protected
)

var flagNames = map[Attr]string{
	Bold:      "bold",
	Underline: "underline",
	Blink:     "blink",
	Reverse:   "reverse",
	Invisible: "invisible",
	Protected: "protected",
}

// DefaultAttr is white on black with no flags, the attribute of a
// freshly created cell.
const DefaultAttr = Attr(White << fgShift)

// MakeAttr builds an attribute from a foreground index, background
// index and bold flag. Out of range indexes are masked.
func MakeAttr(fg, bg int, bold bool) Attr {
	a := Attr(fg&0x07)<<fgShift | Attr(bg&0x07)<<bgShift
	if bold {
		a |= Bold
	}
	return a
}

func (a Attr) Foreground() int {
	return int(a&fgMask) >> fgShift
}

func (a Attr) Background() int {
	return int(a&bgMask) >> bgShift
}

func (a Attr) Has(flag Attr) bool {
	return a&flag != 0
}

// With returns a copy of a with flag set.
func (a Attr) With(flag Attr) Attr {
	return a | flag
}

// Without returns a copy of a with flag cleared.
func (a Attr) Without(flag Attr) Attr {
	return a &^ flag
}

// WithForeground returns a copy of a with the foreground index replaced.
func (a Attr) WithForeground(fg int) Attr {
	return (a &^ fgMask) | Attr(fg&0x07)<<fgShift
}

// WithBackground returns a copy of a with the background index replaced.
func (a Attr) WithBackground(bg int) Attr {
	return (a &^ bgMask) | Attr(bg&0x07)<<bgShift
}

// Colors returns a copy of a carrying only the color bits. This is
// the erase attribute used by VT102-style back-color erase.
func (a Attr) Colors() Attr {
	return a & (fgMask | bgMask)
}

func (a Attr) String() string {
	s := fmt.Sprintf("fg=%d bg=%d", a.Foreground(), a.Background())
	for _, f := range []Attr{Bold, Underline, Blink, Reverse, Invisible, Protected} {
		if a.Has(f) {
			s += " " + flagNames[f]
		}
	}
	return s
}
