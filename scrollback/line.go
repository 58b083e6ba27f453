package scrollback

import (
	"log/slog"

	"github.com/qodem/qodem/colors"
)

// MaxCols caps the active length of any line. Wider writes are
// truncated.
const MaxCols = 256

// Double-height values for a line.
const (
	DoubleNone = iota
	DoubleTop
	DoubleBottom
)

// Line is a fixed-width row of cells owned by a Buffer. Cells beyond
// the active length read as blanks. The search slice, when non-nil,
// shadows the cell attributes to highlight find matches.
type Line struct {
	cells []Cell

	Dirty        bool
	DoubleWidth  bool
	DoubleHeight int
	Reverse      bool

	search []colors.Attr
}

func newLine(reverse bool) *Line {
	return &Line{Dirty: true, Reverse: reverse}
}

// Len returns the active length; trailing cells are logically blank.
func (l *Line) Len() int {
	return len(l.cells)
}

// Cell returns the cell at col, or a default blank beyond the active
// length.
func (l *Line) Cell(col int) Cell {
	if col < 0 || col >= len(l.cells) {
		return blankCell(colors.DefaultAttr)
	}
	return l.cells[col]
}

// SetCell places c at col, growing the active length with blanks as
// needed. Writes at or beyond MaxCols are dropped.
func (l *Line) SetCell(col int, c Cell) {
	if col < 0 || col >= MaxCols {
		slog.Debug("dropping out of range cell write", "col", col)
		return
	}
	for len(l.cells) <= col {
		l.cells = append(l.cells, blankCell(colors.DefaultAttr))
	}
	l.cells[col] = c
	l.Dirty = true
}

// SearchAttr returns the shadow attribute for col when a search match
// covers it, falling back to the cell attribute.
func (l *Line) SearchAttr(col int) colors.Attr {
	if l.search != nil && col >= 0 && col < len(l.search) {
		return l.search[col]
	}
	return l.Cell(col).A
}

func (l *Line) clearSearch() {
	if l.search != nil {
		l.search = nil
		l.Dirty = true
	}
}

// markMatch highlights [start, end) with reverse video in the shadow
// attribute array.
func (l *Line) markMatch(start, end int) {
	if l.search == nil {
		l.search = make([]colors.Attr, MaxCols)
		for i := range l.search {
			l.search[i] = l.Cell(i).A
		}
	}
	for i := start; i < end && i < len(l.search); i++ {
		l.search[i] = l.search[i].With(colors.Reverse)
	}
	l.Dirty = true
}

// text returns the line content as a string, trailing blanks trimmed.
func (l *Line) text() string {
	end := len(l.cells)
	for end > 0 && l.cells[end-1].IsBlank() {
		end--
	}
	rs := make([]rune, 0, end)
	for _, c := range l.cells[:end] {
		if c.Frag == FragSecondary {
			continue
		}
		rs = append(rs, c.R)
	}
	return string(rs)
}

func (l *Line) copy() *Line {
	nl := &Line{
		cells:        append([]Cell(nil), l.cells...),
		Dirty:        l.Dirty,
		DoubleWidth:  l.DoubleWidth,
		DoubleHeight: l.DoubleHeight,
		Reverse:      l.Reverse,
	}
	if l.search != nil {
		nl.search = append([]colors.Attr(nil), l.search...)
	}
	return nl
}
