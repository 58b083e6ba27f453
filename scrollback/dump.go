package scrollback

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/qodem/qodem/colors"
)

// DumpText writes the visible window to w as plain text, one line per
// row, trailing blanks trimmed.
func (b *Buffer) DumpText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, l := range b.Visible() {
		if _, err := bw.WriteString(l.text()); err != nil {
			return fmt.Errorf("couldn't write text dump: %w", err)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// DumpHTML writes the visible window as a <pre> block with one
// <span> per attribute run, styled through colors.ToHTML.
func (b *Buffer) DumpHTML(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("<pre>\n")

	var style strings.Builder
	for _, l := range b.Visible() {
		col := 0
		for col < b.width {
			a := l.Cell(col).A
			var run strings.Builder
			for col < b.width && l.Cell(col).A == a {
				if c := l.Cell(col); c.Frag != FragSecondary {
					run.WriteRune(c.R)
				}
				col++
			}
			style.Reset()
			colors.ToHTML(a, &style)
			if _, err := fmt.Fprintf(bw, "<span style=%q>%s</span>", style.String(), html.EscapeString(run.String())); err != nil {
				return fmt.Errorf("couldn't write html dump: %w", err)
			}
		}
		bw.WriteByte('\n')
	}

	bw.WriteString("</pre>\n")
	return bw.Flush()
}

// DumpANSI writes the visible window as ANSI-styled text through a
// termenv profile, suitable for replaying into another terminal.
func (b *Buffer) DumpANSI(w io.Writer) error {
	p := termenv.ANSI
	bw := bufio.NewWriter(w)
	for _, l := range b.Visible() {
		for col := 0; col < b.width; col++ {
			c := l.Cell(col)
			if c.Frag == FragSecondary {
				continue
			}
			s := termenv.String(string(c.R)).
				Foreground(p.Color(fmt.Sprintf("%d", c.A.Foreground()))).
				Background(p.Color(fmt.Sprintf("%d", c.A.Background())))
			if c.A.Has(colors.Bold) {
				s = s.Bold()
			}
			if c.A.Has(colors.Underline) {
				s = s.Underline()
			}
			if c.A.Has(colors.Blink) {
				s = s.Blink()
			}
			if c.A.Has(colors.Reverse) {
				s = s.Reverse()
			}
			if _, err := bw.WriteString(s.String()); err != nil {
				return fmt.Errorf("couldn't write ansi dump: %w", err)
			}
		}
		bw.WriteString("\x1b[0m\n")
	}
	return bw.Flush()
}

// DumpRaw writes the visible window as (codepoint, attribute) pairs
// of little-endian uint32 + uint16, row by row, with no framing.
func (b *Buffer) DumpRaw(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, l := range b.Visible() {
		for col := 0; col < b.width; col++ {
			c := l.Cell(col)
			if err := binary.Write(bw, binary.LittleEndian, uint32(c.R)); err != nil {
				return fmt.Errorf("couldn't write raw dump: %w", err)
			}
			if err := binary.Write(bw, binary.LittleEndian, uint16(c.A)); err != nil {
				return fmt.Errorf("couldn't write raw dump: %w", err)
			}
		}
	}
	return bw.Flush()
}
