package colors

import "testing"

func TestHTMLStyle(t *testing.T) {
	cases := []struct {
		a    Attr
		want string
	}{
		{DefaultAttr, "color: #ABABAB; background-color: #000000;"},
		{DefaultAttr.With(Bold), "color: #FFFFFF; background-color: #000000; font-weight: bold;"},
		{MakeAttr(Red, Blue, false), "color: #AB0000; background-color: #0000AB;"},
		{MakeAttr(Red, Blue, false).With(Underline), "color: #AB0000; background-color: #0000AB; text-decoration: underline;"},
		// Reverse swaps indexes and tables, so bold reversed gets a
		// bright background.
		{MakeAttr(Red, Blue, true).With(Reverse), "color: #0000AB; background-color: #FF6666; font-weight: bold;"},
		// Invisible renders foreground as background.
		{MakeAttr(Red, Blue, false).With(Invisible), "color: #0000AB; background-color: #0000AB;"},
	}

	for i, c := range cases {
		if got := HTMLStyle(c.a); got != c.want {
			t.Errorf("%d: HTMLStyle(%v) = %q, want %q", i, c.a, got, c.want)
		}
	}
}

func TestFromVGACell(t *testing.T) {
	table := &[256]rune{'A': 'A', 0xb3: '│'}

	cases := []struct {
		ch, attr byte
		wantR    rune
		wantA    Attr
	}{
		// 0x07: light grey on black.
		{'A', 0x07, 'A', DefaultAttr},
		// 0x1f: white (bold light grey) on blue.
		{'A', 0x1f, 'A', MakeAttr(White, Blue, true)},
		// 0x84: red on black, blinking.
		{'A', 0x84, 'A', MakeAttr(Red, Black, false).With(Blink)},
		// 0x4e: brown (yellow) on red, bold.
		{0xb3, 0x4e, '│', MakeAttr(Yellow, Red, true)},
	}

	for i, c := range cases {
		r, a := FromVGACell(c.ch, c.attr, table)
		if r != c.wantR || a != c.wantA {
			t.Errorf("%d: FromVGACell(%#x, %#x) = (%q, %v), want (%q, %v)", i, c.ch, c.attr, r, a, c.wantR, c.wantA)
		}
	}
}
