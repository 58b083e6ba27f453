// Package scrollback implements the cell and line model and the
// bounded line buffer behind the emulation core: a grid of attributed
// cells of fixed height and width whose history accumulates in a
// scrollback region, with the cursor, scroll region and primitive
// editing operations that the emulation state machine drives.
package scrollback

import (
	"fmt"

	"github.com/qodem/qodem/colors"
)

// Frag marks the cells of a double-column glyph. The primary cell
// carries the codepoint; the secondary is a zero-width continuation
// sentinel with the same attribute.
type Frag uint8

const (
	FragNone Frag = iota
	FragPrimary
	FragSecondary
)

// Cell is one codepoint and attribute at a grid position.
type Cell struct {
	R    rune
	A    colors.Attr
	Frag Frag
}

func newCell(r rune, a colors.Attr) Cell {
	return Cell{R: r, A: a}
}

// blankCell is what erase and scroll operations insert and what reads
// beyond a line's active length return.
func blankCell(a colors.Attr) Cell {
	return Cell{R: ' ', A: a}
}

func (c Cell) IsBlank() bool {
	return (c.R == ' ' || c.R == 0) && c.Frag == FragNone
}

func (c Cell) String() string {
	return fmt.Sprintf("%q (%s)", string(c.R), c.A)
}
