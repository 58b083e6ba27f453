package scrollback

import (
	"log/slog"

	"github.com/mattn/go-runewidth"
	"github.com/qodem/qodem/colors"
	"golang.org/x/text/unicode/norm"
)

// Buffer owns the full line history: the visible window is the last
// Height lines (or the Height lines ending at the view pointer when
// scrolled back), everything before it is scrollback. Lines are held
// in an ordered slice and the cursor is tracked as screen-relative
// coordinates, so no line ever carries a raw back-pointer.
type Buffer struct {
	lines    []*Line
	maxLines int // 0 = unbounded

	width, height int
	top, bottom   int // scroll region, screen rows

	cursorX, cursorY int
	wrapPending      bool
	cursorVisible    bool

	viewOffset int // lines scrolled back in view mode; 0 = live

	attr            colors.Attr
	autowrap        bool
	originMode      bool
	reverseVideo    bool
	eraseWithColors bool
}

// New creates a buffer with a blank visible screen. A max of 0 leaves
// the scrollback unbounded; a positive max smaller than height is
// raised to height so the visible window always exists.
func New(width, height, maxLines int) *Buffer {
	if width > MaxCols {
		width = MaxCols
	}
	if maxLines > 0 && maxLines < height {
		maxLines = height
	}
	b := &Buffer{
		width:         width,
		height:        height,
		maxLines:      maxLines,
		bottom:        height - 1,
		attr:          colors.DefaultAttr,
		autowrap:      true,
		cursorVisible: true,
	}
	for i := 0; i < height; i++ {
		b.lines = append(b.lines, newLine(false))
	}
	return b
}

func (b *Buffer) Width() int    { return b.width }
func (b *Buffer) Height() int   { return b.height }
func (b *Buffer) Len() int      { return len(b.lines) }
func (b *Buffer) MaxLines() int { return b.maxLines }

func (b *Buffer) Cursor() (x, y int) { return b.cursorX, b.cursorY }

func (b *Buffer) CursorVisible() bool     { return b.cursorVisible }
func (b *Buffer) SetCursorVisible(v bool) { b.cursorVisible = v }

func (b *Buffer) Attr() colors.Attr     { return b.attr }
func (b *Buffer) SetAttr(a colors.Attr) { b.attr = a }

func (b *Buffer) Autowrap() bool     { return b.autowrap }
func (b *Buffer) SetAutowrap(v bool) { b.autowrap = v }

func (b *Buffer) OriginMode() bool { return b.originMode }
func (b *Buffer) SetOriginMode(v bool) {
	b.originMode = v
	b.CursorPosition(0, 0)
}

// SetEraseWithColors selects the VT102-style erase attribute: blanks
// inserted by erase and scroll carry the current colors instead of
// the terminal background.
func (b *Buffer) SetEraseWithColors(v bool) { b.eraseWithColors = v }

func (b *Buffer) eraseAttr() colors.Attr {
	if b.eraseWithColors {
		return b.attr.Colors()
	}
	return colors.DefaultAttr
}

// ScrollRegion returns the current scrolling region as screen rows.
func (b *Buffer) ScrollRegion() (top, bottom int) { return b.top, b.bottom }

// SetScrollRegion sets the scrolling region, clamping to the screen.
// An inverted pair is ignored.
func (b *Buffer) SetScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom >= b.height {
		bottom = b.height - 1
	}
	if top > bottom {
		slog.Debug("ignoring inverted scroll region", "top", top, "bottom", bottom)
		return
	}
	b.top, b.bottom = top, bottom
}

// absRow maps a screen row to an index into the line history.
func (b *Buffer) absRow(row int) int {
	return len(b.lines) - b.height + row
}

// line returns the Line at the given screen row, appending blank
// lines if the history is somehow shorter than the screen.
func (b *Buffer) line(row int) *Line {
	for b.absRow(row) >= len(b.lines) {
		b.lines = append(b.lines, newLine(b.reverseVideo))
	}
	idx := b.absRow(row)
	if idx < 0 {
		slog.Error("screen row before start of history", "row", row, "len", len(b.lines))
		return b.lines[0]
	}
	return b.lines[idx]
}

// Line returns the visible line at the given screen row, following
// the view pointer when scrolled back.
func (b *Buffer) Line(row int) *Line {
	idx := b.absRow(row) - b.viewOffset
	if idx < 0 {
		idx = 0
	}
	if idx >= len(b.lines) {
		idx = len(b.lines) - 1
	}
	return b.lines[idx]
}

// Visible returns the visible window, oldest row first.
func (b *Buffer) Visible() []*Line {
	rows := make([]*Line, b.height)
	for i := 0; i < b.height; i++ {
		rows[i] = b.Line(i)
	}
	return rows
}

func (b *Buffer) markVisibleDirty() {
	for i := 0; i < b.height; i++ {
		b.line(i).Dirty = true
	}
}

// appendLine adds a blank line at the tail, evicting from the head
// when the bound is exceeded.
func (b *Buffer) appendLine() {
	b.lines = append(b.lines, newLine(b.reverseVideo))
	if b.maxLines > 0 && len(b.lines) > b.maxLines {
		n := len(b.lines) - b.maxLines
		b.lines = b.lines[n:]
	}
}

// PrintCharacter places ch at the cursor with the current attribute
// and advances. At the right edge with autowrap on, the wrap is held
// pending until the next print; with autowrap off the rightmost cells
// are overwritten. Wide codepoints occupy two cells, the second being
// a continuation sentinel. Zero-width codepoints combine with the
// previous cell.
func (b *Buffer) PrintCharacter(ch rune) {
	w := runewidth.RuneWidth(ch)
	if w == 0 {
		b.combine(ch)
		return
	}

	if b.cursorX+w > b.width || b.wrapPending {
		if b.autowrap {
			if b.wrapPending || b.cursorX+w > b.width {
				b.CursorCarriageReturn()
				b.CursorLinefeed(false)
			}
		} else {
			b.cursorX = b.width - w
		}
		b.wrapPending = false
	}

	l := b.line(b.cursorY)
	b.clearFrags(l, b.cursorX)
	c := newCell(ch, b.attr)
	if w > 1 {
		c.Frag = FragPrimary
		b.clearFrags(l, b.cursorX+1)
		l.SetCell(b.cursorX+1, Cell{A: b.attr, Frag: FragSecondary})
	}
	l.SetCell(b.cursorX, c)

	b.cursorX += w
	if b.cursorX >= b.width {
		b.cursorX = b.width - 1
		if b.autowrap {
			b.wrapPending = true
		}
	}
}

// combine merges a zero-width codepoint into the previously printed
// cell via NFC normalization.
func (b *Buffer) combine(ch rune) {
	col := b.cursorX - 1
	if b.wrapPending {
		col = b.width - 1
	}
	if col < 0 {
		slog.Debug("no previous cell for combining character", "r", ch)
		return
	}
	l := b.line(b.cursorY)
	c := l.Cell(col)
	n := []rune(norm.NFC.String(string(c.R) + string(ch)))
	c.R = n[0]
	l.SetCell(col, c)
}

// clearFrags breaks any double-column glyph overlapping col so a
// write never leaves a dangling continuation cell.
func (b *Buffer) clearFrags(l *Line, col int) {
	switch l.Cell(col).Frag {
	case FragPrimary:
		l.SetCell(col+1, blankCell(b.eraseAttr()))
	case FragSecondary:
		l.SetCell(col-1, blankCell(b.eraseAttr()))
	}
}

// CursorUp moves the cursor up n rows, stopping at the region top
// when honorRegion is set and the cursor starts inside the region.
func (b *Buffer) CursorUp(n int, honorRegion bool) {
	limit := 0
	if honorRegion && b.cursorY >= b.top {
		limit = b.top
	}
	b.cursorY = maxInt(limit, b.cursorY-n)
	b.wrapPending = false
}

// CursorDown moves the cursor down n rows, stopping at the region
// bottom when honorRegion is set and the cursor starts inside the
// region. It never scrolls.
func (b *Buffer) CursorDown(n int, honorRegion bool) {
	limit := b.height - 1
	if honorRegion && b.cursorY <= b.bottom {
		limit = b.bottom
	}
	b.cursorY = minInt(limit, b.cursorY+n)
	b.wrapPending = false
}

func (b *Buffer) CursorLeft(n int, honorRegion bool) {
	b.cursorX = maxInt(0, b.cursorX-n)
	b.wrapPending = false
}

func (b *Buffer) CursorRight(n int, honorRegion bool) {
	b.cursorX = minInt(b.width-1, b.cursorX+n)
	b.wrapPending = false
}

// CursorPosition moves the cursor absolutely. Under origin mode the
// row is relative to the scroll region top and clamped inside it.
func (b *Buffer) CursorPosition(row, col int) {
	if b.originMode {
		row += b.top
		row = minInt(row, b.bottom)
	}
	b.cursorY = clampInt(row, 0, b.height-1)
	b.cursorX = clampInt(col, 0, b.width-1)
	b.wrapPending = false
}

// CursorLinefeed moves down one row, scrolling the region when the
// cursor sits on its bottom row. newLineMode also returns the cursor
// to column 0.
func (b *Buffer) CursorLinefeed(newLineMode bool) {
	switch {
	case b.cursorY == b.bottom:
		b.ScrollingRegionScrollUp(b.top, b.bottom, 1)
	case b.cursorY < b.height-1:
		b.cursorY++
	}
	if newLineMode {
		b.cursorX = 0
	}
	b.wrapPending = false
}

func (b *Buffer) CursorCarriageReturn() {
	b.cursorX = 0
	b.wrapPending = false
}

// CursorFormfeed scrolls the whole screen into scrollback and homes
// the cursor.
func (b *Buffer) CursorFormfeed() {
	for i := 0; i < b.height; i++ {
		b.appendLine()
	}
	b.markVisibleDirty()
	b.cursorX, b.cursorY = 0, 0
	b.wrapPending = false
}

func minInt(a, c int) int {
	if a <= c {
		return a
	}
	return c
}

func maxInt(a, c int) int {
	if a >= c {
		return a
	}
	return c
}

func clampInt(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
