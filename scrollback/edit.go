package scrollback

import (
	"log/slog"

	"github.com/qodem/qodem/colors"
)

// EraseLine blanks cells [start, end] of the cursor line with the
// erase attribute, optionally skipping protected cells.
func (b *Buffer) EraseLine(start, end int, honorProtected bool) {
	b.FillLineWithCharacter(start, end, ' ', honorProtected)
}

// FillLineWithCharacter writes ch with the erase attribute across
// [start, end] of the cursor line.
func (b *Buffer) FillLineWithCharacter(start, end int, ch rune, honorProtected bool) {
	b.fillRow(b.cursorY, start, end, ch, honorProtected)
}

func (b *Buffer) fillRow(row, start, end int, ch rune, honorProtected bool) {
	start = clampInt(start, 0, b.width-1)
	end = clampInt(end, 0, b.width-1)
	if start > end {
		return
	}
	l := b.line(row)
	ea := b.eraseAttr()
	for col := start; col <= end; col++ {
		if honorProtected && l.Cell(col).A.Has(colors.Protected) {
			continue
		}
		l.SetCell(col, Cell{R: ch, A: ea})
	}
}

// EraseScreen blanks the rectangle (r0, c0) through (r1, c1)
// inclusive, optionally skipping protected cells.
func (b *Buffer) EraseScreen(r0, c0, r1, c1 int, honorProtected bool) {
	r0 = clampInt(r0, 0, b.height-1)
	r1 = clampInt(r1, 0, b.height-1)
	for row := r0; row <= r1; row++ {
		b.fillRow(row, c0, c1, ' ', honorProtected)
		l := b.line(row)
		l.DoubleWidth = false
		l.DoubleHeight = DoubleNone
	}
}

// ClearScrollback drops every line before the visible window. The
// screen itself is untouched.
func (b *Buffer) ClearScrollback() {
	b.ResetView()
	if n := len(b.lines) - b.height; n > 0 {
		b.lines = b.lines[n:]
	}
}

// ScrollingRegionScrollUp shifts the lines of [top, bottom] up by n,
// dropping the topmost lines and inserting blanks at the bottom. A
// full-width, full-screen region scrolls through the scrollback:
// evicted rows become history and eviction at the head only happens
// when the bound is exceeded.
func (b *Buffer) ScrollingRegionScrollUp(top, bottom, n int) {
	top, bottom, n = b.clampRegion(top, bottom, n)
	if n == 0 {
		return
	}

	if top == 0 && bottom == b.height-1 {
		for i := 0; i < n; i++ {
			b.appendLine()
		}
		b.markVisibleDirty()
		return
	}

	a, z := b.absRow(top), b.absRow(bottom)
	keep := append([]*Line{}, b.lines[a+n:z+1]...)
	for i := 0; i < n; i++ {
		keep = append(keep, newLine(b.reverseVideo))
	}
	copy(b.lines[a:z+1], keep)
	b.markRegionDirty(top, bottom)
}

// ScrollingRegionScrollDown shifts the lines of [top, bottom] down by
// n, inserting blanks at the top.
func (b *Buffer) ScrollingRegionScrollDown(top, bottom, n int) {
	top, bottom, n = b.clampRegion(top, bottom, n)
	if n == 0 {
		return
	}

	a, z := b.absRow(top), b.absRow(bottom)
	keep := make([]*Line, 0, z-a+1)
	for i := 0; i < n; i++ {
		keep = append(keep, newLine(b.reverseVideo))
	}
	keep = append(keep, b.lines[a:z+1-n]...)
	copy(b.lines[a:z+1], keep)
	b.markRegionDirty(top, bottom)
}

func (b *Buffer) clampRegion(top, bottom, n int) (int, int, int) {
	top = clampInt(top, 0, b.height-1)
	bottom = clampInt(bottom, 0, b.height-1)
	if top > bottom || n < 1 {
		return top, bottom, 0
	}
	return top, bottom, minInt(n, bottom-top+1)
}

func (b *Buffer) markRegionDirty(top, bottom int) {
	for i := top; i <= bottom; i++ {
		b.line(i).Dirty = true
	}
}

// RectangleScrollUp shifts the cells of the rectangle bounded by
// (top, left) and (bottom, right) up by n rows, blanking the vacated
// rows.
func (b *Buffer) RectangleScrollUp(top, left, bottom, right, n int) {
	b.rectangleScroll(top, left, bottom, right, n, true)
}

// RectangleScrollDown is RectangleScrollUp in the other direction.
func (b *Buffer) RectangleScrollDown(top, left, bottom, right, n int) {
	b.rectangleScroll(top, left, bottom, right, n, false)
}

func (b *Buffer) rectangleScroll(top, left, bottom, right, n int, up bool) {
	top, bottom, n = b.clampRegion(top, bottom, n)
	left = clampInt(left, 0, b.width-1)
	right = clampInt(right, 0, b.width-1)
	if n == 0 || left > right {
		return
	}

	if up {
		for row := top; row <= bottom; row++ {
			b.copyRectRow(row, row+n, top, bottom, left, right)
		}
	} else {
		for row := bottom; row >= top; row-- {
			b.copyRectRow(row, row-n, top, bottom, left, right)
		}
	}
	b.markRegionDirty(top, bottom)
}

// copyRectRow copies [left, right] from src to dst, blanking dst when
// src falls outside the rectangle.
func (b *Buffer) copyRectRow(dst, src, top, bottom, left, right int) {
	dl := b.line(dst)
	if src < top || src > bottom {
		ea := b.eraseAttr()
		for col := left; col <= right; col++ {
			dl.SetCell(col, blankCell(ea))
		}
		return
	}
	sl := b.line(src)
	for col := left; col <= right; col++ {
		dl.SetCell(col, sl.Cell(col))
	}
}

// ScrollUp scrolls the current scrolling region up by n.
func (b *Buffer) ScrollUp(n int) {
	b.ScrollingRegionScrollUp(b.top, b.bottom, n)
}

// ScrollDown scrolls the current scrolling region down by n.
func (b *Buffer) ScrollDown(n int) {
	b.ScrollingRegionScrollDown(b.top, b.bottom, n)
}

// InsertLines inserts n blank lines at the cursor row, pushing the
// rest of the scroll region down. No-op outside the region.
func (b *Buffer) InsertLines(n int) {
	if b.cursorY < b.top || b.cursorY > b.bottom {
		slog.Debug("insert lines outside scroll region", "row", b.cursorY)
		return
	}
	b.ScrollingRegionScrollDown(b.cursorY, b.bottom, n)
}

// DeleteLines removes n lines at the cursor row, pulling the rest of
// the scroll region up. No-op outside the region.
func (b *Buffer) DeleteLines(n int) {
	if b.cursorY < b.top || b.cursorY > b.bottom {
		slog.Debug("delete lines outside scroll region", "row", b.cursorY)
		return
	}
	b.ScrollingRegionScrollUp(b.cursorY, b.bottom, n)
}

// DeleteCharacter removes n cells at the cursor, shifting the
// remainder of the line left and blank-filling the tail.
func (b *Buffer) DeleteCharacter(n int) {
	if n < 1 {
		return
	}
	n = minInt(n, b.width-b.cursorX)
	l := b.line(b.cursorY)
	ea := b.eraseAttr()
	for col := b.cursorX; col < b.width; col++ {
		if col+n < b.width {
			l.SetCell(col, l.Cell(col+n))
		} else {
			l.SetCell(col, blankCell(ea))
		}
	}
}

// InsertBlanks inserts n blank cells at the cursor, shifting the
// remainder of the line right. Cells pushed past the width are lost.
func (b *Buffer) InsertBlanks(n int) {
	if n < 1 {
		return
	}
	n = minInt(n, b.width-b.cursorX)
	l := b.line(b.cursorY)
	ea := b.eraseAttr()
	for col := b.width - 1; col >= b.cursorX+n; col-- {
		l.SetCell(col, l.Cell(col-n))
	}
	for col := b.cursorX; col < b.cursorX+n; col++ {
		l.SetCell(col, blankCell(ea))
	}
}

// SetDoubleWidth sets the double-width flag on the cursor line.
func (b *Buffer) SetDoubleWidth(v bool) {
	l := b.line(b.cursorY)
	l.DoubleWidth = v
	if !v {
		l.DoubleHeight = DoubleNone
	}
	l.Dirty = true
}

// SetDoubleHeight sets the double-height value on the cursor line.
// Any double-height value implies double-width.
func (b *Buffer) SetDoubleHeight(v int) {
	if v < DoubleNone || v > DoubleBottom {
		slog.Error("invalid double height value", "v", v)
		return
	}
	l := b.line(b.cursorY)
	l.DoubleHeight = v
	if v != DoubleNone {
		l.DoubleWidth = true
	}
	l.Dirty = true
}
