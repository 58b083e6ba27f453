package colors

import "log/slog"

// SGR parameter codes handled by ApplySGR. Colors are the 30-37/40-47
// blocks plus their 90+/100+ bright variants and the 38/48 extended
// selectors.
const (
	sgrReset        = 0
	sgrBold         = 1
	sgrUnderline    = 4
	sgrBlink        = 5
	sgrRapidBlink   = 6
	sgrReverse      = 7
	sgrInvisible    = 8
	sgrNormal       = 22
	sgrUnderlineOff = 24
	sgrBlinkOff     = 25
	sgrReverseOff   = 27
	sgrInvisibleOff = 28
	sgrSetFg        = 38
	sgrSetBg        = 48
)

// ApplySGR applies a list of SGR parameters to cur and returns the
// resulting attribute. An empty list is a reset. Unknown parameters
// are ignored. Extended colors (38;5;n, 48;5;n, 38;2;r;g;b and
// 48;2;r;g;b) are downsampled onto the 16-color palette by nearest
// sRGB distance; a bright match on the foreground sets the bold bit,
// while a bright match on the background is dropped to its normal
// half because the attribute word has no bright-background bit.
func ApplySGR(cur Attr, params []int) Attr {
	if len(params) == 0 {
		return DefaultAttr
	}

	a := cur
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == sgrReset:
			a = DefaultAttr
		case p == sgrBold:
			a = a.With(Bold)
		case p == sgrUnderline:
			a = a.With(Underline)
		case p == sgrBlink || p == sgrRapidBlink:
			a = a.With(Blink)
		case p == sgrReverse:
			a = a.With(Reverse)
		case p == sgrInvisible:
			a = a.With(Invisible)
		case p == sgrNormal:
			a = a.Without(Bold)
		case p == sgrUnderlineOff:
			a = a.Without(Underline)
		case p == sgrBlinkOff:
			a = a.Without(Blink)
		case p == sgrReverseOff:
			a = a.Without(Reverse)
		case p == sgrInvisibleOff:
			a = a.Without(Invisible)
		case p >= 30 && p <= 37:
			a = a.WithForeground(p - 30)
		case p == 39:
			a = a.WithForeground(White)
		case p >= 40 && p <= 47:
			a = a.WithBackground(p - 40)
		case p == 49:
			a = a.WithBackground(Black)
		case p >= 90 && p <= 97:
			a = a.WithForeground(p - 90).With(Bold)
		case p >= 100 && p <= 107:
			a = a.WithBackground(p - 100)
		case p == sgrSetFg || p == sgrSetBg:
			var idx int
			var bright bool
			idx, bright, i = extendedColor(params, i)
			if idx < 0 {
				return a
			}
			if p == sgrSetFg {
				a = a.WithForeground(idx)
				if bright {
					a = a.With(Bold)
				}
			} else {
				a = a.WithBackground(idx)
			}
		default:
			slog.Debug("ignoring unknown SGR parameter", "param", p)
		}
	}

	return a
}

// extendedColor consumes the 5;n or 2;r;g;b tail of a 38/48 selector
// starting at params[i]. It returns the downsampled palette index,
// whether the bright half matched, and the index of the last parameter
// consumed. A malformed selector returns index -1 with the rest of the
// list consumed, matching the behavior of swallowing the sequence.
func extendedColor(params []int, i int) (int, bool, int) {
	if i+1 >= len(params) {
		return -1, false, len(params)
	}
	switch params[i+1] {
	case 5:
		if i+2 >= len(params) {
			return -1, false, len(params)
		}
		idx, bright := downsample256(params[i+2])
		return idx, bright, i + 2
	case 2:
		if i+4 >= len(params) {
			return -1, false, len(params)
		}
		idx, bright := downsampleRGB(params[i+2], params[i+3], params[i+4])
		return idx, bright, i + 4
	}
	slog.Debug("unknown extended color selector", "selector", params[i+1])
	return -1, false, len(params)
}
