package emulation

import "strings"

// Mode selects the emulation personality. It controls character
// decoding, which sequences are honored, the device-attribute
// replies, and the erase-attribute policy.
type Mode int

const (
	ModeANSI Mode = iota
	ModeAvatar
	ModeVT52
	ModeVT100
	ModeVT102
	ModeVT220
	ModeLinux
	ModeLinuxUTF8
	ModeXterm
	ModeXtermUTF8
	ModeTTY
	ModeDebug
)

var modeNames = map[Mode]string{
	ModeANSI:      "ANSI",
	ModeAvatar:    "AVATAR",
	ModeVT52:      "VT52",
	ModeVT100:     "VT100",
	ModeVT102:     "VT102",
	ModeVT220:     "VT220",
	ModeLinux:     "LINUX",
	ModeLinuxUTF8: "LINUX UTF-8",
	ModeXterm:     "XTERM",
	ModeXtermUTF8: "XTERM UTF-8",
	ModeTTY:       "TTY",
	ModeDebug:     "DEBUG",
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "UNKNOWN"
}

// ModeFromName resolves a configuration name to a Mode, defaulting to
// XTERM UTF-8.
func ModeFromName(name string) Mode {
	for m, n := range modeNames {
		if strings.EqualFold(strings.ReplaceAll(n, " ", "-"), name) ||
			strings.EqualFold(n, name) {
			return m
		}
	}
	return ModeXtermUTF8
}

// UTF8 reports whether the inbound stream decodes as UTF-8 rather
// than through an 8-bit code page.
func (m Mode) UTF8() bool {
	return m == ModeLinuxUTF8 || m == ModeXtermUTF8
}

// HasC1 reports whether 0x80-0x9f are interpreted as C1 controls. The
// BBS-era emulations use those bytes for CP437 glyphs instead.
func (m Mode) HasC1() bool {
	switch m {
	case ModeVT100, ModeVT102, ModeVT220, ModeLinux, ModeLinuxUTF8, ModeXterm, ModeXtermUTF8:
		return true
	}
	return false
}

// EraseWithCurrentColor selects the erase-attribute policy: VT102 and
// everything after it erase with the current drawing colors, while
// VT100, VT52 and the plain TTY erase with the terminal background.
// The original sources disagree with their own comments here; this
// picks the VT102 manual's behavior.
func (m Mode) EraseWithCurrentColor() bool {
	switch m {
	case ModeVT52, ModeVT100, ModeTTY, ModeDebug:
		return false
	}
	return true
}

// deviceAttributes is the primary DA reply for the emulation.
func (m Mode) deviceAttributes() string {
	switch m {
	case ModeVT100:
		return "\x1b[?1;2c"
	case ModeVT102:
		return "\x1b[?6c"
	case ModeVT52:
		return "\x1b/Z"
	case ModeVT220, ModeLinux, ModeLinuxUTF8, ModeXterm, ModeXtermUTF8:
		return "\x1b[?62;1;6c"
	default:
		return "\x1b[?1;0c"
	}
}

// secondaryDeviceAttributes is the CSI > c reply.
func (m Mode) secondaryDeviceAttributes() string {
	return "\x1b[>1;10;0c"
}
