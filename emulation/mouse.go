package emulation

import (
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// MouseProtocol selects which events are reported.
type MouseProtocol int

const (
	MouseOff MouseProtocol = iota
	MouseX10                // press only
	MouseNormal             // press and release
	MouseButtonEvent        // adds motion while a button is held
	MouseAnyEvent           // all motion
)

// MouseEncoding selects the coordinate wire format.
type MouseEncoding int

const (
	EncodingX10 MouseEncoding = iota
	EncodingUTF8
	EncodingSGR
)

// Mouse buttons. None is used for bare motion.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	Button1
	Button2
	Button3
	ButtonWheelUp
	ButtonWheelDown
)

type MouseEventKind int

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseMotion
)

// MouseEvent is one input event with 0-based coordinates.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Kind   MouseEventKind
}

// MouseEncoder filters and serializes mouse events according to the
// active tracking protocol and encoding. It tracks per-button state
// so that a drag whose release was swallowed upstream still produces
// a synthetic release.
type MouseEncoder struct {
	protocol MouseProtocol
	encoding MouseEncoding

	down [6]bool
}

func (e *MouseEncoder) Protocol() MouseProtocol { return e.protocol }
func (e *MouseEncoder) Encoding() MouseEncoding { return e.encoding }

func (e *MouseEncoder) SetProtocol(p MouseProtocol) {
	slog.Debug("mouse protocol change", "protocol", p)
	e.protocol = p
}

func (e *MouseEncoder) SetEncoding(enc MouseEncoding) {
	slog.Debug("mouse encoding change", "encoding", enc)
	e.encoding = enc
}

// Encode serializes ev per the current protocol, returning nil when
// the protocol filters it out. Bare motion with a button still marked
// down emits the release the upstream input layer never delivered.
func (e *MouseEncoder) Encode(ev MouseEvent) []byte {
	if e.protocol == MouseOff {
		return nil
	}

	var out []byte
	if ev.Kind == MouseMotion && ev.Button == ButtonNone {
		for b := Button1; b <= ButtonWheelDown; b++ {
			if !e.down[b] {
				continue
			}
			e.down[b] = false
			rel := MouseEvent{X: ev.X, Y: ev.Y, Button: b, Kind: MouseRelease}
			if e.wants(rel) {
				out = append(out, e.encode(rel)...)
			}
		}
	}

	switch ev.Kind {
	case MousePress:
		e.down[ev.Button] = true
	case MouseRelease:
		e.down[ev.Button] = false
	}

	if !e.wants(ev) {
		return out
	}
	return append(out, e.encode(ev)...)
}

// wants applies the protocol's event filter.
func (e *MouseEncoder) wants(ev MouseEvent) bool {
	switch e.protocol {
	case MouseX10:
		return ev.Kind == MousePress
	case MouseNormal:
		return ev.Kind != MouseMotion
	case MouseButtonEvent:
		return ev.Kind != MouseMotion || e.anyDown()
	case MouseAnyEvent:
		return true
	}
	return false
}

func (e *MouseEncoder) anyDown() bool {
	for _, d := range e.down {
		if d {
			return true
		}
	}
	return false
}

// buttonCode computes the Cb value before the +32 bias.
func buttonCode(ev MouseEvent) int {
	var code int
	switch ev.Button {
	case Button1:
		code = 0
	case Button2:
		code = 1
	case Button3:
		code = 2
	case ButtonWheelUp:
		code = 64
	case ButtonWheelDown:
		code = 65
	case ButtonNone:
		code = 3
	}
	if ev.Kind == MouseMotion {
		code += 32
	}
	return code
}

func (e *MouseEncoder) encode(ev MouseEvent) []byte {
	switch e.encoding {
	case EncodingSGR:
		final := byte('M')
		if ev.Kind == MouseRelease {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", buttonCode(ev), ev.X+1, ev.Y+1, final))
	case EncodingUTF8:
		out := []byte("\x1b[M")
		out = utf8.AppendRune(out, rune(cbFor(ev)+32))
		out = utf8.AppendRune(out, rune(ev.X+33))
		out = utf8.AppendRune(out, rune(ev.Y+33))
		return out
	default: // X10
		return []byte{ESC, '[', 'M',
			byte(cbFor(ev) + 32),
			byte(clampCoord(ev.X) + 33),
			byte(clampCoord(ev.Y) + 33)}
	}
}

// cbFor folds release into the X10 button code, which has no
// separate release final byte.
func cbFor(ev MouseEvent) int {
	if ev.Kind == MouseRelease {
		return 3
	}
	return buttonCode(ev)
}

// clampCoord keeps a single-byte coordinate inside what Cx + 33 can
// carry.
func clampCoord(v int) int {
	if v > 222 {
		return 222
	}
	if v < 0 {
		return 0
	}
	return v
}
