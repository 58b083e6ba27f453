package emulation

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/qodem/qodem/colors"
	"github.com/qodem/qodem/config"
	"github.com/qodem/qodem/music"
	"github.com/qodem/qodem/scrollback"
)

// Terminal is the emulation core: it consumes the inbound byte
// stream, mutates its scrollback buffer, and writes replies and mouse
// reports to the outbound writer. All state lives here; nothing is
// process-global, so independent terminals don't interfere.
type Terminal struct {
	mode Mode
	cfg  *config.CoreConfig

	p      *parser
	buf    *scrollback.Buffer
	out    io.Writer
	player *music.Player

	cs       charsets
	codepage *[256]rune

	tabs  []bool
	title string

	newLineMode    bool
	insertMode     bool
	keypadAppl     bool
	bracketedPaste bool

	mouse MouseEncoder

	saved    savedCursor
	hasSaved bool

	inMusic  bool
	musicBuf []byte

	utf8Buf []byte

	vt52Pending int // coordinate bytes still expected after ESC Y
	vt52Row     int

	mux sync.Mutex
}

type savedCursor struct {
	x, y   int
	attr   colors.Attr
	cs     charsets
	origin bool
}

// nullSink swallows audio when no real sink is attached.
type nullSink struct{}

func (nullSink) PlayTone(freqHz, durationMs int) error { return nil }
func (nullSink) Silence(durationMs int) error          { return nil }

// NewTerminal creates a core for the given emulation with a blank
// screen. A nil cfg uses the defaults; out receives status reports
// and mouse encodings and may be nil when no transport exists yet.
func NewTerminal(mode Mode, width, height int, cfg *config.CoreConfig, out io.Writer) *Terminal {
	if cfg == nil {
		cfg = config.Default()
	}

	t := &Terminal{
		mode:     mode,
		cfg:      cfg,
		buf:      scrollback.New(width, height, cfg.ScrollbackMax),
		out:      out,
		player:   music.NewPlayer(nullSink{}),
		cs:       newCharsets(),
		codepage: DefaultCodePage(),
		tabs:     makeTabs(width),
	}
	t.p = newParser(t)
	t.buf.SetEraseWithColors(mode.EraseWithCurrentColor())
	t.mouse.SetProtocol(mouseProtocolFromConfig(cfg.MouseProtocol))
	t.mouse.SetEncoding(mouseEncodingFromConfig(cfg.MouseEncoding))
	return t
}

func mouseProtocolFromConfig(name string) MouseProtocol {
	switch name {
	case config.MouseX10:
		return MouseX10
	case config.MouseNormal:
		return MouseNormal
	case config.MouseButtonEvent:
		return MouseButtonEvent
	case config.MouseAnyEvent:
		return MouseAnyEvent
	}
	return MouseOff
}

func mouseEncodingFromConfig(name string) MouseEncoding {
	switch name {
	case config.MouseEncUTF8:
		return EncodingUTF8
	case config.MouseEncSGR:
		return EncodingSGR
	}
	return EncodingX10
}

// SetAudioSink attaches the audio device used for BEL and music.
func (t *Terminal) SetAudioSink(s music.Sink) {
	t.player = music.NewPlayer(s)
}

// Player exposes the music player so a caller can cancel playback.
func (t *Terminal) Player() *music.Player { return t.player }

// Buffer exposes the scrollback buffer for the renderer. Callers must
// only read between Feed calls.
func (t *Terminal) Buffer() *scrollback.Buffer { return t.buf }

func (t *Terminal) Mode() Mode    { return t.mode }
func (t *Terminal) Title() string { return t.title }

// CodePage swaps the 8-bit translation table.
func (t *Terminal) SetCodePage(table *[256]rune) { t.codepage = table }

// Feed consumes any number of inbound bytes. Partial escape and
// UTF-8 sequences are retained across calls, so splitting a stream at
// any byte boundary yields the same final state.
func (t *Terminal) Feed(data []byte) {
	t.mux.Lock()
	defer t.mux.Unlock()
	for _, b := range data {
		t.consume(b)
	}
}

func (t *Terminal) consume(b byte) {
	switch {
	case t.vt52Pending > 0:
		t.vt52Coordinate(b)
	case t.inMusic:
		t.musicByte(b)
	case t.mode == ModeDebug:
		t.debugByte(b)
	case t.mode == ModeTTY:
		t.ttyByte(b)
	case t.mode.UTF8():
		t.utf8Byte(b)
	default:
		t.legacyByte(b)
	}
}

// legacyByte handles the 8-bit code page emulations: high bytes print
// through the code page unless the mode gives them C1 meaning.
func (t *Terminal) legacyByte(b byte) {
	if b >= 0x80 && t.p.state == stateGround {
		if !t.mode.HasC1() || b >= 0xa0 {
			t.print(t.cs.mapGR(b, t.codepage))
			return
		}
	}
	if b >= 0x80 && !t.mode.HasC1() {
		// Inside a sequence; strip the high bit so CP437 noise
		// can't wedge the parser.
		b &= 0x7f
	}
	t.p.parseByte(b)
}

// utf8Byte decodes the stream as UTF-8, emitting U+FFFD for invalid
// sequences and recovering at the next valid start byte.
func (t *Terminal) utf8Byte(b byte) {
	if len(t.utf8Buf) == 0 {
		if b < utf8.RuneSelf {
			t.p.parseByte(b)
			return
		}
		t.utf8Buf = append(t.utf8Buf, b)
		return
	}

	t.utf8Buf = append(t.utf8Buf, b)
	if !utf8.FullRune(t.utf8Buf) {
		if len(t.utf8Buf) >= utf8.UTFMax {
			t.flushInvalidUTF8()
		}
		return
	}

	r, sz := utf8.DecodeRune(t.utf8Buf)
	if r == utf8.RuneError && sz == 1 {
		t.flushInvalidUTF8()
		return
	}
	t.utf8Buf = t.utf8Buf[:0]
	t.p.parseRune(r)
}

// flushInvalidUTF8 replaces the first pending byte with U+FFFD and
// reprocesses the rest.
func (t *Terminal) flushInvalidUTF8() {
	rest := append([]byte(nil), t.utf8Buf[1:]...)
	t.utf8Buf = t.utf8Buf[:0]
	t.p.parseRune(utf8.RuneError)
	for _, b := range rest {
		t.utf8Byte(b)
	}
}

// ttyByte implements the dumb TTY personality: C0 motion controls
// only, everything else prints.
func (t *Terminal) ttyByte(b byte) {
	switch b {
	case CTRL_BEL:
		t.bell()
	case CTRL_BS:
		t.buf.CursorLeft(1, false)
	case CTRL_TAB:
		t.stepTabs(1)
	case CTRL_LF, CTRL_VT, CTRL_FF:
		t.buf.CursorLinefeed(t.newLineMode)
	case CTRL_CR:
		t.buf.CursorCarriageReturn()
	default:
		if b >= 0x20 {
			t.print(t.codepage[b])
		}
	}
}

// debugByte renders every inbound byte as hex.
func (t *Terminal) debugByte(b byte) {
	for _, r := range fmt.Sprintf("%02x ", b) {
		t.buf.PrintCharacter(r)
	}
	if b == CTRL_LF {
		t.buf.CursorCarriageReturn()
		t.buf.CursorLinefeed(false)
	}
}

// print places one decoded codepoint, applying the GL character set
// to 7-bit codepoints and honoring insert mode.
func (t *Terminal) print(r rune) {
	if r >= 0xa0 && r <= 0xff && !t.mode.UTF8() {
		r = t.cs.mapGR(byte(r), t.codepage)
	} else if r >= 0x20 && r < 0x80 {
		r = t.cs.mapGL(r)
	}
	if t.insertMode {
		if w := runewidth.RuneWidth(r); w > 0 {
			t.buf.InsertBlanks(w)
		}
	}
	t.buf.PrintCharacter(r)
}

// handle receives the parser's non-print events.
func (t *Terminal) handle(act pAction, params *parameters, intermediates []byte, last byte) {
	switch act {
	case actionExecute:
		t.handleExecute(last)
	case actionCsiDispatch:
		t.handleCSI(params, intermediates, last)
	case actionEscDispatch:
		t.handleESC(intermediates, last)
	case actionOscEnd:
		t.handleOSC(t.p.oscString())
	case actionHook, actionPut, actionUnhook:
		// DCS is recognized and swallowed.
	default:
		slog.Debug("unhandled parser action", "action", act, "last", string(rune(last)))
	}
}

func (t *Terminal) handleExecute(b byte) {
	switch b {
	case CTRL_ENQ:
		if t.cfg.ENQResponse != "" {
			t.write([]byte(t.cfg.ENQResponse))
		}
	case CTRL_BEL:
		t.bell()
	case CTRL_BS:
		t.buf.CursorLeft(1, false)
	case CTRL_TAB:
		t.stepTabs(1)
	case CTRL_LF, CTRL_VT, CTRL_FF:
		t.buf.CursorLinefeed(t.newLineMode)
	case CTRL_CR:
		t.buf.CursorCarriageReturn()
	case CTRL_SO:
		t.cs.shiftOut()
	case CTRL_SI:
		t.cs.shiftIn()
	default:
		slog.Debug("unhandled control", "byte", b)
	}
}

func (t *Terminal) handleESC(data []byte, last byte) {
	if t.mode == ModeVT52 {
		t.handleVT52ESC(last)
		return
	}

	if len(data) == 1 {
		switch data[0] {
		case '(', ')', '*', '+':
			t.cs.designate(data[0], last)
			return
		case '#':
			t.handleDECLine(last)
			return
		}
	}

	switch last {
	case ESC_DECSC:
		t.saveCursor()
	case ESC_DECRC:
		t.restoreCursor()
	case ESC_IND:
		t.buf.CursorLinefeed(false)
	case ESC_NEL:
		t.buf.CursorLinefeed(true)
	case ESC_RI:
		t.reverseIndex()
	case ESC_HTS:
		x, _ := t.buf.Cursor()
		t.tabs[x] = true
	case ESC_RIS:
		t.reset()
	case '=':
		t.keypadAppl = true
	case '>':
		t.keypadAppl = false
	case 'Z':
		t.write([]byte(t.mode.deviceAttributes()))
	default:
		slog.Debug("ignoring ESC", "data", string(data), "last", string(rune(last)))
	}
}

// handleDECLine covers the ESC # family: double width and height
// plus the DECALN alignment pattern.
func (t *Terminal) handleDECLine(last byte) {
	switch last {
	case '3':
		t.buf.SetDoubleHeight(scrollback.DoubleTop)
	case '4':
		t.buf.SetDoubleHeight(scrollback.DoubleBottom)
	case '5':
		t.buf.SetDoubleHeight(scrollback.DoubleNone)
		t.buf.SetDoubleWidth(false)
	case '6':
		t.buf.SetDoubleWidth(true)
	case '8': // DECALN
		for row := 0; row < t.buf.Height(); row++ {
			t.buf.CursorPosition(row, 0)
			t.buf.FillLineWithCharacter(0, t.buf.Width()-1, 'E', false)
		}
		t.buf.CursorPosition(0, 0)
	default:
		slog.Debug("ignoring ESC #", "last", string(rune(last)))
	}
}

func (t *Terminal) reverseIndex() {
	_, y := t.buf.Cursor()
	if top, _ := t.buf.ScrollRegion(); y == top {
		t.buf.ScrollDown(1)
	} else {
		t.buf.CursorUp(1, true)
	}
}

func (t *Terminal) saveCursor() {
	x, y := t.buf.Cursor()
	t.saved = savedCursor{x: x, y: y, attr: t.buf.Attr(), cs: t.cs, origin: t.buf.OriginMode()}
	t.hasSaved = true
}

func (t *Terminal) restoreCursor() {
	if !t.hasSaved {
		t.buf.CursorPosition(0, 0)
		return
	}
	t.cs = t.saved.cs
	t.buf.SetAttr(t.saved.attr)
	t.buf.SetOriginMode(t.saved.origin)
	t.buf.CursorPosition(t.saved.y, t.saved.x)
}

func (t *Terminal) handleCSI(params *parameters, data []byte, last byte) {
	if t.isMusicTrigger(params, data, last) {
		t.enterMusic()
		return
	}

	priv := len(data) == 1 && data[0] == '?'

	switch last {
	case CSI_ICH:
		t.buf.InsertBlanks(params.item(0, 1))
	case CSI_CUU:
		t.buf.CursorUp(params.item(0, 1), true)
	case CSI_CUD, CSI_VPR:
		t.buf.CursorDown(params.item(0, 1), true)
	case CSI_CUF, CSI_HPR:
		t.buf.CursorRight(params.item(0, 1), true)
	case CSI_CUB:
		t.buf.CursorLeft(params.item(0, 1), true)
	case CSI_CNL:
		t.buf.CursorDown(params.item(0, 1), true)
		t.buf.CursorCarriageReturn()
	case CSI_CPL:
		t.buf.CursorUp(params.item(0, 1), true)
		t.buf.CursorCarriageReturn()
	case CSI_CHA, CSI_HPA:
		_, y := t.buf.Cursor()
		t.buf.CursorPosition(y, params.item(0, 1)-1)
	case CSI_VPA:
		x, _ := t.buf.Cursor()
		t.buf.CursorPosition(params.item(0, 1)-1, x)
	case CSI_CUP, CSI_HVP:
		t.buf.CursorPosition(params.item(0, 1)-1, params.item(1, 1)-1)
	case CSI_CHT:
		t.stepTabs(params.item(0, 1))
	case CSI_CBT:
		t.stepTabs(-params.item(0, 1))
	case CSI_ED:
		t.eraseInDisplay(params.item(0, 0), priv)
	case CSI_EL:
		t.eraseInLine(params.item(0, 0), priv)
	case CSI_IL:
		t.buf.InsertLines(params.item(0, 1))
	case CSI_DL:
		t.buf.DeleteLines(params.item(0, 1))
	case CSI_DCH:
		t.buf.DeleteCharacter(params.item(0, 1))
	case CSI_ECH:
		x, _ := t.buf.Cursor()
		t.buf.EraseLine(x, x+params.item(0, 1)-1, false)
	case CSI_SU:
		t.buf.ScrollUp(params.item(0, 1))
	case CSI_SD:
		t.buf.ScrollDown(params.item(0, 1))
	case CSI_DA:
		t.replyDeviceAttributes(data)
	case CSI_TBC:
		t.clearTabs(params.item(0, 0))
	case CSI_SET:
		t.setModes(params, priv, true)
	case CSI_RESET:
		t.setModes(params, priv, false)
	case CSI_SGR:
		t.applySGR(params)
	case CSI_DSR:
		t.handleDSR(params.item(0, 0))
	case CSI_DECSTBM:
		t.setScrollRegion(params)
	default:
		slog.Debug("unimplemented CSI", "last", string(rune(last)), "params", params.list(), "data", string(data))
	}
}

// isMusicTrigger recognizes the ANSI music openers: a bare CSI M,
// CSI N or CSI | in the BBS emulations with music enabled and no ban
// in effect.
func (t *Terminal) isMusicTrigger(params *parameters, data []byte, last byte) bool {
	if !t.cfg.SoundsEnabled || !t.cfg.ANSIMusicEnabled {
		return false
	}
	if t.mode != ModeANSI && t.mode != ModeAvatar {
		return false
	}
	if last != 'M' && last != 'N' && last != '|' {
		return false
	}
	if params.count() > 0 || len(data) > 0 {
		return false
	}
	if t.player.Banned() {
		slog.Debug("music trigger during ban window")
		return false
	}
	return true
}

func (t *Terminal) enterMusic() {
	t.inMusic = true
	t.musicBuf = t.musicBuf[:0]
}

// musicByte accumulates a music payload until its terminator. An ESC
// ends the payload and restarts the sequence parser.
func (t *Terminal) musicByte(b byte) {
	switch {
	case b == CTRL_SO || b == CTRL_BEL:
		t.finishMusic()
	case b == ESC:
		t.finishMusic()
		t.p.parseByte(b)
	case len(t.musicBuf) >= maxMusicBytes:
		slog.Debug("discarding oversize music sequence")
		t.inMusic = false
		t.musicBuf = t.musicBuf[:0]
	default:
		t.musicBuf = append(t.musicBuf, b)
	}
}

func (t *Terminal) finishMusic() {
	t.inMusic = false
	if len(t.musicBuf) == 0 {
		return
	}
	seq, err := music.Parse(string(t.musicBuf))
	if err != nil {
		slog.Debug("music parse stopped early", "err", err)
	}
	if len(seq) == 0 {
		return
	}
	if err := t.player.Play(seq); err != nil {
		slog.Debug("music playback ended", "err", err)
	}
}

func (t *Terminal) bell() {
	if !t.cfg.SoundsEnabled {
		return
	}
	if err := t.player.Play(music.Sequence{{FreqHz: 1000, DurationMs: 200}}); err != nil {
		slog.Debug("bell playback ended", "err", err)
	}
}

func (t *Terminal) eraseInDisplay(m int, honorProtected bool) {
	x, y := t.buf.Cursor()
	w, h := t.buf.Width(), t.buf.Height()
	switch m {
	case 0:
		t.buf.EraseLine(x, w-1, honorProtected)
		if y+1 < h {
			t.buf.EraseScreen(y+1, 0, h-1, w-1, honorProtected)
		}
	case 1:
		if y > 0 {
			t.buf.EraseScreen(0, 0, y-1, w-1, honorProtected)
		}
		t.buf.EraseLine(0, x, honorProtected)
	case 2:
		t.buf.EraseScreen(0, 0, h-1, w-1, honorProtected)
	case 3:
		t.buf.EraseScreen(0, 0, h-1, w-1, honorProtected)
		t.buf.ClearScrollback()
	}
}

func (t *Terminal) eraseInLine(m int, honorProtected bool) {
	x, _ := t.buf.Cursor()
	switch m {
	case 0:
		t.buf.EraseLine(x, t.buf.Width()-1, honorProtected)
	case 1:
		t.buf.EraseLine(0, x, honorProtected)
	case 2:
		t.buf.EraseLine(0, t.buf.Width()-1, honorProtected)
	}
}

func (t *Terminal) setScrollRegion(params *parameters) {
	h := t.buf.Height()
	top := params.item(0, 1)
	bottom := params.item(1, h)
	if bottom <= top || top > h {
		return // matches xterm
	}
	t.buf.SetScrollRegion(top-1, bottom-1)
	t.buf.CursorPosition(0, 0)
}

func (t *Terminal) setModes(params *parameters, priv, val bool) {
	for i := 0; i < params.count(); i++ {
		code := params.item(i, 0)
		if priv {
			t.setPrivateMode(code, val)
		} else {
			t.setANSIMode(code, val)
		}
	}
}

func (t *Terminal) setANSIMode(code int, val bool) {
	switch code {
	case MODE_IRM:
		t.insertMode = val
	case MODE_LNM:
		t.newLineMode = val
	default:
		slog.Debug("unimplemented ANSI mode", "code", code, "val", val)
	}
}

func (t *Terminal) setPrivateMode(code int, val bool) {
	switch code {
	case PRIV_DECCKM:
		t.keypadAppl = val
	case PRIV_DECCOLM:
		// The width is fixed; the switch still clears and homes.
		t.buf.EraseScreen(0, 0, t.buf.Height()-1, t.buf.Width()-1, false)
		t.buf.CursorPosition(0, 0)
	case PRIV_DECSCNM:
		if val {
			t.buf.InvertScrollbackColors()
		} else {
			t.buf.DeinvertScrollbackColors()
		}
	case PRIV_DECOM:
		t.buf.SetOriginMode(val)
	case PRIV_DECAWM:
		t.buf.SetAutowrap(val)
	case PRIV_DECTCEM:
		t.buf.SetCursorVisible(val)
	case PRIV_MOUSE_X10:
		t.setMouseProtocol(MouseX10, val)
	case PRIV_MOUSE_NORMAL:
		t.setMouseProtocol(MouseNormal, val)
	case PRIV_MOUSE_BUTTON:
		t.setMouseProtocol(MouseButtonEvent, val)
	case PRIV_MOUSE_ANY:
		t.setMouseProtocol(MouseAnyEvent, val)
	case PRIV_MOUSE_UTF8:
		t.setMouseEncoding(EncodingUTF8, val)
	case PRIV_MOUSE_SGR:
		t.setMouseEncoding(EncodingSGR, val)
	case PRIV_BRACKETED_PASTE:
		t.bracketedPaste = val
	default:
		slog.Debug("unimplemented private mode", "code", code, "val", val)
	}
}

func (t *Terminal) setMouseProtocol(p MouseProtocol, val bool) {
	if val {
		t.mouse.SetProtocol(p)
	} else if t.mouse.Protocol() == p {
		t.mouse.SetProtocol(MouseOff)
	}
}

func (t *Terminal) setMouseEncoding(enc MouseEncoding, val bool) {
	if val {
		t.mouse.SetEncoding(enc)
	} else if t.mouse.Encoding() == enc {
		t.mouse.SetEncoding(EncodingX10)
	}
}

// applySGR updates the drawing attribute. Emulations whose color
// support is configured off keep their current colors but honor the
// attribute bits.
func (t *Terminal) applySGR(params *parameters) {
	old := t.buf.Attr()
	na := colors.ApplySGR(old, params.list())
	if !t.colorAllowed() {
		na = na.WithForeground(old.Foreground()).WithBackground(old.Background())
	}
	t.buf.SetAttr(na)
}

func (t *Terminal) colorAllowed() bool {
	switch t.mode {
	case ModeVT100:
		return t.cfg.VT100Color
	case ModeVT52:
		return t.cfg.VT52Color
	case ModeAvatar:
		return t.cfg.AvatarColor
	case ModeTTY:
		return false
	}
	return true
}

func (t *Terminal) handleDSR(n int) {
	switch n {
	case 5: // always OK
		t.write([]byte("\x1b[0n"))
	case 6:
		x, y := t.buf.Cursor()
		if t.buf.OriginMode() {
			top, _ := t.buf.ScrollRegion()
			y -= top
		}
		t.write([]byte(fmt.Sprintf("\x1b[%d;%dR", y+1, x+1)))
	default:
		slog.Debug("unhandled DSR", "n", n)
	}
}

func (t *Terminal) replyDeviceAttributes(data []byte) {
	switch string(data) {
	case "":
		t.write([]byte(t.mode.deviceAttributes()))
	case ">":
		t.write([]byte(t.mode.secondaryDeviceAttributes()))
	default:
		slog.Debug("unhandled DA request", "data", string(data))
	}
}

func (t *Terminal) handleOSC(s string) {
	parts := strings.SplitN(s, ";", 2)
	if len(parts) != 2 {
		slog.Debug("malformed OSC", "data", s)
		return
	}
	switch parts[0] {
	case "0", "1", "2":
		t.title = parts[1]
	default:
		slog.Debug("ignoring OSC", "selector", parts[0])
	}
}

// handleVT52ESC covers the VT52 personality's escape set.
func (t *Terminal) handleVT52ESC(last byte) {
	switch last {
	case 'A':
		t.buf.CursorUp(1, false)
	case 'B':
		t.buf.CursorDown(1, false)
	case 'C':
		t.buf.CursorRight(1, false)
	case 'D':
		t.buf.CursorLeft(1, false)
	case 'F':
		t.cs.designate('(', CharsetDECGfx)
	case 'G':
		t.cs.designate('(', CharsetASCII)
	case 'H':
		t.buf.CursorPosition(0, 0)
	case 'I':
		t.reverseIndex()
	case 'J':
		t.eraseInDisplay(0, false)
	case 'K':
		t.eraseInLine(0, false)
	case 'Y':
		t.vt52Pending = 2
	case 'Z':
		t.write([]byte(t.mode.deviceAttributes()))
	case '=':
		t.keypadAppl = true
	case '>':
		t.keypadAppl = false
	case '<':
		t.mode = ModeVT100
		t.buf.SetEraseWithColors(t.mode.EraseWithCurrentColor())
	default:
		slog.Debug("ignoring VT52 ESC", "last", string(rune(last)))
	}
}

// vt52Coordinate consumes the two bytes after ESC Y: row then column,
// each biased by 32.
func (t *Terminal) vt52Coordinate(b byte) {
	switch t.vt52Pending {
	case 2:
		t.vt52Row = int(b) - 32
		t.vt52Pending = 1
	case 1:
		t.vt52Pending = 0
		t.buf.CursorPosition(t.vt52Row, int(b)-32)
	}
}

// SendMouse filters and encodes a mouse event, writing any resulting
// report to the outbound writer.
func (t *Terminal) SendMouse(ev MouseEvent) {
	t.mux.Lock()
	defer t.mux.Unlock()
	if enc := t.mouse.Encode(ev); len(enc) > 0 {
		t.write(enc)
	}
}

// MouseProtocolActive returns the current tracking protocol, for the
// input layer to decide whether to capture mouse events at all.
func (t *Terminal) MouseProtocolActive() MouseProtocol {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.mouse.Protocol()
}

// BracketedPaste reports whether paste bracketing is on, for the
// keyboard translation layer.
func (t *Terminal) BracketedPaste() bool {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.bracketedPaste
}

func (t *Terminal) write(p []byte) {
	if t.out == nil {
		return
	}
	if _, err := t.out.Write(p); err != nil {
		slog.Error("couldn't write to outbound writer", "err", err)
	}
}

func (t *Terminal) reset() {
	w, h := t.buf.Width(), t.buf.Height()
	t.buf = scrollback.New(w, h, t.cfg.ScrollbackMax)
	t.buf.SetEraseWithColors(t.mode.EraseWithCurrentColor())
	t.cs = newCharsets()
	t.tabs = makeTabs(w)
	t.title = ""
	t.newLineMode = false
	t.insertMode = false
	t.keypadAppl = false
	t.bracketedPaste = false
	t.hasSaved = false
	t.mouse.SetProtocol(mouseProtocolFromConfig(t.cfg.MouseProtocol))
	t.mouse.SetEncoding(mouseEncodingFromConfig(t.cfg.MouseEncoding))
}

func makeTabs(cols int) []bool {
	tabs := make([]bool, cols)
	for i := range tabs {
		tabs[i] = i%tabSpacing == 0
	}
	return tabs
}

// stepTabs moves the cursor forward (or back, for negative steps)
// through the tab stops.
func (t *Terminal) stepTabs(steps int) {
	x, y := t.buf.Cursor()
	col, step, inc := x+1, 1, -1
	if steps == 0 {
		return
	}
	if steps < 0 {
		col, step, inc = x-1, -1, 1
	}

	max := t.buf.Width() - 1
	for {
		switch {
		case col <= 0:
			t.buf.CursorPosition(y, 0)
			return
		case col >= max:
			t.buf.CursorPosition(y, max)
			return
		default:
			if t.tabs[col] {
				steps += inc
				if steps == 0 {
					t.buf.CursorPosition(y, col)
					return
				}
			}
			col += step
		}
	}
}

func (t *Terminal) clearTabs(m int) {
	switch m {
	case TBC_CUR:
		x, _ := t.buf.Cursor()
		t.tabs[x] = false
	case TBC_ALL:
		for i := range t.tabs {
			t.tabs[i] = false
		}
	}
}
