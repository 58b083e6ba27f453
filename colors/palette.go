package colors

import (
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"
)

// The two 8-entry RGB tables used for HTML output and for
// downsampling extended colors. Indexed in ANSI order.
var (
	NormalRGB = [8]string{
		"#000000", "#AB0000", "#00AB00", "#996600",
		"#0000AB", "#990099", "#009999", "#ABABAB",
	}
	BrightRGB = [8]string{
		"#545454", "#FF6666", "#66FF66", "#FFFF66",
		"#6666FF", "#FF66FF", "#66FFFF", "#FFFFFF",
	}
)

// The same tables parsed once for distance computations.
var palette [16]colorful.Color

func init() {
	for i, hex := range NormalRGB {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic(err)
		}
		palette[i] = c
	}
	for i, hex := range BrightRGB {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic(err)
		}
		palette[i+8] = c
	}
}

// nearestIndex finds the palette entry closest to the given color by
// sRGB distance. It returns the 0-7 index and whether the bright half
// of the palette won.
func nearestIndex(c colorful.Color) (int, bool) {
	best, bestDist := 0, -1.0
	for i, p := range palette {
		if d := c.DistanceRgb(p); bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best & 0x07, best >= 8
}

// downsampleRGB maps a 24-bit color onto the 16-color palette.
func downsampleRGB(r, g, b int) (int, bool) {
	c := colorful.Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
	return nearestIndex(c)
}

func clamp01(v int) float64 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 1
	}
	return float64(v) / 255.0
}

// downsample256 maps an xterm 256-color index onto the 16-color
// palette. 0-15 map directly, 16-231 are the 6x6x6 cube and 232-255
// the grey ramp.
func downsample256(n int) (int, bool) {
	switch {
	case n < 0 || n > 255:
		slog.Debug("out of range 256-color index", "n", n)
		return White, false
	case n < 8:
		return n, false
	case n < 16:
		return n - 8, true
	case n < 232:
		n -= 16
		r, g, b := cubeLevel(n/36), cubeLevel((n/6)%6), cubeLevel(n%6)
		return downsampleRGB(r, g, b)
	default:
		v := 8 + (n-232)*10
		return downsampleRGB(v, v, v)
	}
}

func cubeLevel(i int) int {
	if i == 0 {
		return 0
	}
	return 55 + i*40
}
