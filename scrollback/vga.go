package scrollback

import "github.com/qodem/qodem/colors"

// VGACols is the wrap width for converted VGA screens.
const VGACols = 80

// ConvertANSIScreen interprets data as a flat array of VGA
// (character, attribute) byte pairs and produces lines wrapping at
// 80 columns. Characters are translated through the supplied
// code-page table. A trailing odd byte is ignored.
func ConvertANSIScreen(data []byte, table *[256]rune) []*Line {
	var out []*Line
	l := newLine(false)
	col := 0
	for i := 0; i+1 < len(data); i += 2 {
		r, a := colors.FromVGACell(data[i], data[i+1], table)
		l.SetCell(col, newCell(r, a))
		col++
		if col == VGACols {
			out = append(out, l)
			l = newLine(false)
			col = 0
		}
	}
	if col > 0 {
		out = append(out, l)
	}
	return out
}
