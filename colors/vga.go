package colors

// The VGA attribute byte orders colors as {black, blue, green, cyan,
// red, magenta, brown, light-grey}; this remaps each index to ANSI
// order on ingest.
var pcToANSI = [8]int{Black, Blue, Green, Cyan, Red, Magenta, Yellow, White}

// FromVGACell decodes a legacy "character + attribute byte" pair. The
// attribute layout is fg in bits 0-2, bold in bit 3, bg in bits 4-6
// and blink in bit 7. The character byte is translated through the
// supplied code-page table.
func FromVGACell(ch, attr byte, table *[256]rune) (rune, Attr) {
	a := MakeAttr(pcToANSI[attr&0x07], pcToANSI[(attr>>4)&0x07], attr&0x08 != 0)
	if attr&0x80 != 0 {
		a = a.With(Blink)
	}
	return table[ch], a
}
