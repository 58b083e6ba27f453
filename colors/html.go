package colors

import "strings"

// ToHTML writes a CSS style declaration for the attribute into sb,
// covering color, background-color, text-decoration and font-weight.
// The caller supplies the builder so the conversion is reentrant.
//
// Bold selects the bright table for the foreground. Reverse swaps the
// roles of the two indexes before lookup, so a bold reversed cell gets
// a bright background.
func ToHTML(a Attr, sb *strings.Builder) {
	fg, bg := a.Foreground(), a.Background()
	fgTable, bgTable := &NormalRGB, &NormalRGB
	if a.Has(Bold) {
		fgTable = &BrightRGB
	}
	if a.Has(Reverse) {
		fg, bg = bg, fg
		fgTable, bgTable = bgTable, fgTable
	}
	if a.Has(Invisible) {
		fg, fgTable = bg, bgTable
	}

	sb.WriteString("color: ")
	sb.WriteString(fgTable[fg])
	sb.WriteString("; background-color: ")
	sb.WriteString(bgTable[bg])
	if a.Has(Underline) {
		sb.WriteString("; text-decoration: underline")
	}
	if a.Has(Bold) {
		sb.WriteString("; font-weight: bold")
	}
	sb.WriteString(";")
}

// HTMLStyle is a convenience wrapper around ToHTML for callers that
// do not reuse a builder.
func HTMLStyle(a Attr) string {
	var sb strings.Builder
	ToHTML(a, &sb)
	return sb.String()
}
