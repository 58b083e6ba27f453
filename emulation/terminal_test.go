package emulation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/qodem/qodem/colors"
	"github.com/qodem/qodem/config"
	"github.com/qodem/qodem/music"
	"github.com/qodem/qodem/scrollback"
)

func newTestTerminal(mode Mode, w, h int) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	return NewTerminal(mode, w, h, config.Default(), &out), &out
}

func feedString(term *Terminal, s string) {
	term.Feed([]byte(s))
}

func screenRow(term *Terminal, row int) string {
	l := term.Buffer().Line(row)
	var sb strings.Builder
	for col := 0; col < term.Buffer().Width(); col++ {
		c := l.Cell(col)
		if c.Frag == scrollback.FragSecondary {
			continue
		}
		sb.WriteRune(c.R)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestPrintAndCursorAddress(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 20, 5)
	feedString(term, "AB\x1b[1;1HC")

	if got := screenRow(term, 0); got != "CB" {
		t.Errorf("row 0 = %q, want %q", got, "CB")
	}
	if x, y := term.Buffer().Cursor(); x != 1 || y != 0 {
		t.Errorf("cursor = (%d, %d), want (1, 0)", x, y)
	}
}

func TestCursorMovement(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 20, 10)

	cases := []struct {
		in           string
		wantX, wantY int
	}{
		{"\x1b[5;5H", 4, 4},
		{"\x1b[2A", 4, 2},
		{"\x1b[3B", 4, 5},
		{"\x1b[4C", 8, 5},
		{"\x1b[2D", 6, 5},
		{"\x1b[H", 0, 0},
		{"\x1b[3;7f", 6, 2},
		{"\x1b[10G", 9, 2},
		{"\x1b[5d", 9, 4},
		{"\x1b[2E", 0, 6},
		{"\x1b[1F", 0, 5},
		// Clamped at the edges.
		{"\x1b[99A", 0, 0},
		{"\x1b[99;99H", 19, 9},
	}

	for i, c := range cases {
		feedString(term, c.in)
		if x, y := term.Buffer().Cursor(); x != c.wantX || y != c.wantY {
			t.Errorf("%d: after %q cursor = (%d, %d), want (%d, %d)", i, c.in, x, y, c.wantX, c.wantY)
		}
	}
}

func TestEraseInDisplay(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)
	feedString(term, "aaaa\r\nbbbb\r\ncccc")

	// From the middle of row 1 to the end of the screen.
	feedString(term, "\x1b[2;3H\x1b[J")
	for i, want := range []string{"aaaa", "bb", ""} {
		if got := screenRow(term, i); got != want {
			t.Errorf("ED 0: row %d = %q, want %q", i, got, want)
		}
	}

	feedString(term, "\x1b[2J")
	for i := 0; i < 3; i++ {
		if got := screenRow(term, i); got != "" {
			t.Errorf("ED 2: row %d = %q, want empty", i, got)
		}
	}
}

func TestEraseScrollback(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)
	for i := 0; i < 10; i++ {
		feedString(term, "x\r\n")
	}
	if got := term.Buffer().Len(); got <= 3 {
		t.Fatalf("Len() = %d, want history", got)
	}

	feedString(term, "\x1b[3J")
	if got := term.Buffer().Len(); got != 3 {
		t.Errorf("Len() after ED 3 = %d, want 3", got)
	}
}

func TestEraseInLine(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)
	feedString(term, "abcdefghij")

	feedString(term, "\x1b[1;5H\x1b[K")
	if got := screenRow(term, 0); got != "abcd" {
		t.Errorf("EL 0: row 0 = %q, want %q", got, "abcd")
	}

	feedString(term, "\x1b[2J\x1b[1;1Habcdefghij\x1b[1;5H\x1b[1K")
	// EL 1 erases through the cursor column inclusive.
	if got := screenRow(term, 0); got != "     fghij" {
		t.Errorf("EL 1: row 0 = %q", got)
	}

	feedString(term, "\x1b[2K")
	if got := screenRow(term, 0); got != "" {
		t.Errorf("EL 2: row 0 = %q, want empty", got)
	}
}

func TestSGRThroughTerminal(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)
	feedString(term, "\x1b[1;31mX")

	c := term.Buffer().Line(0).Cell(0)
	if c.A.Foreground() != colors.Red || !c.A.Has(colors.Bold) {
		t.Errorf("cell attr = %v", c.A)
	}
}

func TestColorSuppression(t *testing.T) {
	cfg := config.Default()
	cfg.VT100Color = false
	var out bytes.Buffer
	term := NewTerminal(ModeVT100, 10, 3, cfg, &out)

	feedString(term, "\x1b[31;44;1mX")
	c := term.Buffer().Line(0).Cell(0)
	if c.A.Foreground() != colors.White || c.A.Background() != colors.Black {
		t.Errorf("colors applied despite suppression: %v", c.A)
	}
	if !c.A.Has(colors.Bold) {
		t.Errorf("bold should still apply: %v", c.A)
	}
}

func TestDeviceAttributes(t *testing.T) {
	cases := []struct {
		mode Mode
		want string
	}{
		{ModeVT100, "\x1b[?1;2c"},
		{ModeVT102, "\x1b[?6c"},
		{ModeXtermUTF8, "\x1b[?62;1;6c"},
		{ModeANSI, "\x1b[?1;0c"},
	}

	for i, c := range cases {
		term, out := newTestTerminal(c.mode, 10, 3)
		feedString(term, "\x1b[c")
		if got := out.String(); got != c.want {
			t.Errorf("%d: DA reply = %q, want %q", i, got, c.want)
		}
	}
}

func TestSecondaryDeviceAttributes(t *testing.T) {
	term, out := newTestTerminal(ModeXtermUTF8, 10, 3)
	feedString(term, "\x1b[>c")
	if got := out.String(); got != "\x1b[>1;10;0c" {
		t.Errorf("secondary DA reply = %q", got)
	}
}

func TestDSR(t *testing.T) {
	term, out := newTestTerminal(ModeXtermUTF8, 20, 5)
	feedString(term, "\x1b[5n")
	if got := out.String(); got != "\x1b[0n" {
		t.Errorf("DSR 5 reply = %q", got)
	}

	out.Reset()
	feedString(term, "\x1b[3;4H\x1b[6n")
	if got := out.String(); got != "\x1b[3;4R" {
		t.Errorf("DSR 6 reply = %q, want \\x1b[3;4R", got)
	}
}

func TestENQAnswerback(t *testing.T) {
	cfg := config.Default()
	cfg.ENQResponse = "qodem here"
	var out bytes.Buffer
	term := NewTerminal(ModeANSI, 10, 3, cfg, &out)

	term.Feed([]byte{0x05})
	if got := out.String(); got != "qodem here" {
		t.Errorf("ENQ reply = %q", got)
	}
}

func TestOSCTitle(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)
	feedString(term, "\x1b]2;my session\x07")
	if got := term.Title(); got != "my session" {
		t.Errorf("Title() = %q, want %q", got, "my session")
	}

	feedString(term, "\x1b]0;other\x1b\\")
	if got := term.Title(); got != "other" {
		t.Errorf("Title() = %q, want %q", got, "other")
	}
}

func TestTabStops(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 40, 3)

	feedString(term, "\tA")
	if got := screenRow(term, 0); got != strings.Repeat(" ", 8)+"A" {
		t.Errorf("row 0 = %q", got)
	}

	// Set a custom stop, clear defaults, and step.
	feedString(term, "\x1b[1;1H\x1b[3g")  // clear all
	feedString(term, "\x1b[1;5H\x1bH")    // set at column 4
	feedString(term, "\x1b[1;1H\t")
	if x, _ := term.Buffer().Cursor(); x != 4 {
		t.Errorf("cursor x = %d, want custom stop 4", x)
	}

	// Without further stops, tab runs to the last column.
	feedString(term, "\t")
	if x, _ := term.Buffer().Cursor(); x != 39 {
		t.Errorf("cursor x = %d, want 39", x)
	}

	// Backward tab.
	feedString(term, "\x1b[Z")
	if x, _ := term.Buffer().Cursor(); x != 4 {
		t.Errorf("cursor x after CBT = %d, want 4", x)
	}
}

func TestScrollRegionSequences(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 5)
	feedString(term, "\x1b[2;4r")

	if top, bottom := term.Buffer().ScrollRegion(); top != 1 || bottom != 3 {
		t.Errorf("region = (%d, %d), want (1, 3)", top, bottom)
	}
	// DECSTBM homes the cursor.
	if x, y := term.Buffer().Cursor(); x != 0 || y != 0 {
		t.Errorf("cursor = (%d, %d), want home", x, y)
	}

	// An inverted region is ignored.
	feedString(term, "\x1b[4;2r")
	if top, bottom := term.Buffer().ScrollRegion(); top != 1 || bottom != 3 {
		t.Errorf("region changed to (%d, %d)", top, bottom)
	}
}

func TestPrivateModes(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 5)

	feedString(term, "\x1b[?6h")
	if !term.Buffer().OriginMode() {
		t.Error("DECOM not set")
	}
	feedString(term, "\x1b[?6l")
	if term.Buffer().OriginMode() {
		t.Error("DECOM not reset")
	}

	feedString(term, "\x1b[?7l")
	if term.Buffer().Autowrap() {
		t.Error("DECAWM not reset")
	}

	feedString(term, "\x1b[?25l")
	if term.Buffer().CursorVisible() {
		t.Error("DECTCEM not reset")
	}

	feedString(term, "\x1b[?1000h\x1b[?1006h")
	if got := term.MouseProtocolActive(); got != MouseNormal {
		t.Errorf("mouse protocol = %v, want normal", got)
	}

	feedString(term, "\x1b[?2004h")
	if !term.BracketedPaste() {
		t.Error("bracketed paste not set")
	}
}

func TestMouseReporting(t *testing.T) {
	term, out := newTestTerminal(ModeXtermUTF8, 80, 24)
	feedString(term, "\x1b[?1000h\x1b[?1006h")
	out.Reset()

	term.SendMouse(MouseEvent{X: 40, Y: 12, Button: Button1, Kind: MousePress})
	if got := out.String(); got != "\x1b[<0;41;13M" {
		t.Errorf("mouse report = %q", got)
	}

	// Disabling tracking stops reports.
	feedString(term, "\x1b[?1000l")
	out.Reset()
	term.SendMouse(MouseEvent{X: 1, Y: 1, Button: Button1, Kind: MousePress})
	if got := out.String(); got != "" {
		t.Errorf("report after disable = %q", got)
	}
}

func TestInsertMode(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)
	feedString(term, "abc\x1b[1;1H\x1b[4hX")

	if got := screenRow(term, 0); got != "Xabc" {
		t.Errorf("row 0 = %q, want %q", got, "Xabc")
	}

	feedString(term, "\x1b[4l\x1b[1;1HY")
	if got := screenRow(term, 0); got != "Yabc" {
		t.Errorf("row 0 = %q, want %q", got, "Yabc")
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 20, 5)
	feedString(term, "\x1b[3;4H\x1b[31m\x1b7")
	feedString(term, "\x1b[1;1H\x1b[0m")
	feedString(term, "\x1b8X")

	if x, y := term.Buffer().Cursor(); x != 4 || y != 2 {
		t.Errorf("cursor = (%d, %d), want restored (3, 2)+1", x, y)
	}
	if got := term.Buffer().Line(2).Cell(3).A.Foreground(); got != 1 {
		t.Errorf("restored attr fg = %d, want red", got)
	}
}

func TestRIS(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)
	feedString(term, "hello\x1b[31m\x1b[?6h")
	feedString(term, "\x1bc")

	if got := screenRow(term, 0); got != "" {
		t.Errorf("row 0 after RIS = %q", got)
	}
	if term.Buffer().OriginMode() {
		t.Error("origin mode survived RIS")
	}
	if got := term.Buffer().Attr(); got.Foreground() != 7 {
		t.Errorf("attr survived RIS: %v", got)
	}
}

func TestIndexAndReverseIndex(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)

	// RI at the top scrolls down.
	feedString(term, "top\x1b[1;1H\x1bM")
	if got := screenRow(term, 1); got != "top" {
		t.Errorf("row 1 = %q, want %q", got, "top")
	}

	// IND at the bottom scrolls up.
	feedString(term, "\x1b[3;1H\x1bD")
	if got := screenRow(term, 0); got != "top" {
		t.Errorf("row 0 = %q, want %q", got, "top")
	}
}

func TestDECALN(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 5, 2)
	feedString(term, "\x1b#8")

	for i := 0; i < 2; i++ {
		if got := screenRow(term, i); got != "EEEEE" {
			t.Errorf("row %d = %q, want all E", i, got)
		}
	}
	if x, y := term.Buffer().Cursor(); x != 0 || y != 0 {
		t.Errorf("cursor = (%d, %d), want home", x, y)
	}
}

func TestDoubleSizeLines(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)

	feedString(term, "\x1b#3")
	l := term.Buffer().Line(0)
	if l.DoubleHeight != scrollback.DoubleTop || !l.DoubleWidth {
		t.Errorf("after #3: height=%d width=%v", l.DoubleHeight, l.DoubleWidth)
	}

	feedString(term, "\x1b#5")
	if l.DoubleHeight != scrollback.DoubleNone || l.DoubleWidth {
		t.Errorf("after #5: height=%d width=%v", l.DoubleHeight, l.DoubleWidth)
	}
}

func TestVT52Subset(t *testing.T) {
	term, out := newTestTerminal(ModeVT52, 20, 5)

	// ESC Y addressing: row then column, biased by 32.
	feedString(term, "\x1bY"+string(rune(32+2))+string(rune(32+5))+"X")
	if got := term.Buffer().Line(2).Cell(5).R; got != 'X' {
		t.Errorf("cell (2,5) = %q, want X", got)
	}

	// Ident.
	feedString(term, "\x1bZ")
	if got := out.String(); got != "\x1b/Z" {
		t.Errorf("VT52 ident = %q", got)
	}

	// Cursor moves.
	feedString(term, "\x1bH\x1bB\x1bC")
	if x, y := term.Buffer().Cursor(); x != 1 || y != 1 {
		t.Errorf("cursor = (%d, %d), want (1, 1)", x, y)
	}

	// Graphics charset.
	feedString(term, "\x1bFq\x1bG")
	if got := term.Buffer().Line(1).Cell(1).R; got != '─' {
		t.Errorf("graphics rune = %q", got)
	}

	// ESC < switches to ANSI behavior.
	feedString(term, "\x1b<")
	if got := term.Mode(); got != ModeVT100 {
		t.Errorf("mode after ESC < = %v", got)
	}
}

func TestUTF8Decoding(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)
	feedString(term, "héllo")
	if got := screenRow(term, 0); got != "héllo" {
		t.Errorf("row 0 = %q", got)
	}
}

func TestUTF8Invalid(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)
	term.Feed([]byte{0xff, 'A'})
	if got := screenRow(term, 0); got != "�A" {
		t.Errorf("row 0 = %q, want replacement then A", got)
	}

	// A truncated sequence flushed by an ASCII byte.
	term, _ = newTestTerminal(ModeXtermUTF8, 10, 3)
	term.Feed([]byte{0xe4, 'B'})
	if got := screenRow(term, 0); got != "�B" {
		t.Errorf("row 0 = %q, want replacement then B", got)
	}
}

func TestSplitFeedEquivalence(t *testing.T) {
	in := "ab\x1b[1;31mcd\x1b[2;1Hé日\x1b[0m\x1b[?7l"

	whole, _ := newTestTerminal(ModeXtermUTF8, 20, 5)
	feedString(whole, in)

	split, _ := newTestTerminal(ModeXtermUTF8, 20, 5)
	for _, b := range []byte(in) {
		split.Feed([]byte{b})
	}

	for row := 0; row < 5; row++ {
		if w, s := screenRow(whole, row), screenRow(split, row); w != s {
			t.Errorf("row %d: whole %q != split %q", row, w, s)
		}
	}
	wx, wy := whole.Buffer().Cursor()
	sx, sy := split.Buffer().Cursor()
	if wx != sx || wy != sy {
		t.Errorf("cursor: whole (%d,%d) != split (%d,%d)", wx, wy, sx, sy)
	}
}

func TestCP437HighBytes(t *testing.T) {
	term, _ := newTestTerminal(ModeANSI, 10, 3)
	term.Feed([]byte{0xb3, 0xdb})
	if got := screenRow(term, 0); got != "│█" {
		t.Errorf("row 0 = %q", got)
	}
}

func TestTTYMode(t *testing.T) {
	term, _ := newTestTerminal(ModeTTY, 20, 3)
	// Escape sequences are not interpreted; printables print.
	feedString(term, "a\x1b[31mb")
	if got := screenRow(term, 0); !strings.Contains(got, "a") || !strings.Contains(got, "b") {
		t.Errorf("row 0 = %q", got)
	}
	if got := term.Buffer().Attr().Foreground(); got != 7 {
		t.Errorf("TTY honored SGR: fg = %d", got)
	}
}

type toneRecorder struct {
	notes music.Sequence
}

func (s *toneRecorder) PlayTone(freqHz, durationMs int) error {
	s.notes = append(s.notes, music.Note{FreqHz: freqHz, DurationMs: durationMs})
	return nil
}

func (s *toneRecorder) Silence(durationMs int) error {
	s.notes = append(s.notes, music.Note{DurationMs: durationMs})
	return nil
}

func TestMusicTrigger(t *testing.T) {
	term, _ := newTestTerminal(ModeANSI, 20, 5)
	sink := &toneRecorder{}
	term.SetAudioSink(sink)

	feedString(term, "\x1b[MT120L4O4C\x0e")

	want := music.Sequence{{FreqHz: 262, DurationMs: 437}, {DurationMs: 63}}
	if len(sink.notes) != 2 || sink.notes[0] != want[0] || sink.notes[1] != want[1] {
		t.Errorf("sink = %v, want %v", sink.notes, want)
	}
	// The payload must not reach the screen.
	if got := screenRow(term, 0); got != "" {
		t.Errorf("music leaked to screen: %q", got)
	}
}

func TestMusicDisabledInVTModes(t *testing.T) {
	term, _ := newTestTerminal(ModeVT102, 20, 5)
	sink := &toneRecorder{}
	term.SetAudioSink(sink)

	// In a VT mode, CSI M is delete-line, not music.
	feedString(term, "a\r\nb\x1b[1;1H\x1b[M")
	if len(sink.notes) != 0 {
		t.Errorf("sink = %v, want none", sink.notes)
	}
	if got := screenRow(term, 0); got != "b" {
		t.Errorf("row 0 = %q, want %q (line deleted)", got, "b")
	}
}

func TestMusicDisabledByConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ANSIMusicEnabled = false
	var out bytes.Buffer
	term := NewTerminal(ModeANSI, 20, 5, cfg, &out)
	sink := &toneRecorder{}
	term.SetAudioSink(sink)

	feedString(term, "\x1b[MCDE\x0e")
	if len(sink.notes) != 0 {
		t.Errorf("sink = %v, want none", sink.notes)
	}
}

func TestMusicESCTerminator(t *testing.T) {
	term, _ := newTestTerminal(ModeANSI, 20, 5)
	sink := &toneRecorder{}
	term.SetAudioSink(sink)

	// The terminating ESC both ends the payload and starts the next
	// sequence.
	feedString(term, "\x1b[MC\x1b[31mX")

	if len(sink.notes) == 0 {
		t.Error("payload not played")
	}
	c := term.Buffer().Line(0).Cell(0)
	if c.R != 'X' || c.A.Foreground() != 1 {
		t.Errorf("cell after music = %q %v", c.R, c.A)
	}
}

func TestMusicBanAfterCancel(t *testing.T) {
	term, _ := newTestTerminal(ModeANSI, 20, 5)
	sink := &toneRecorder{}
	term.SetAudioSink(sink)

	// Cancel with nothing playing still arms the next poll, which
	// bans, after which triggers print as DL-style no-ops (the
	// sequence opener is consumed but no music plays).
	term.Player().Cancel()
	feedString(term, "\x1b[MC\x0e")
	if len(sink.notes) != 0 {
		t.Errorf("sink = %v, want none (cancelled)", sink.notes)
	}
	if !term.Player().Banned() {
		t.Fatal("expected ban after cancel")
	}

	feedString(term, "\x1b[MC\x0e")
	if len(sink.notes) != 0 {
		t.Errorf("sink = %v, want none during ban", sink.notes)
	}
}

func TestBell(t *testing.T) {
	term, _ := newTestTerminal(ModeXtermUTF8, 10, 3)
	sink := &toneRecorder{}
	term.SetAudioSink(sink)

	term.Feed([]byte{0x07})
	if len(sink.notes) != 1 || sink.notes[0].FreqHz != 1000 {
		t.Errorf("bell = %v, want one 1kHz tone", sink.notes)
	}
}

func TestBellDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.SoundsEnabled = false
	var out bytes.Buffer
	term := NewTerminal(ModeXtermUTF8, 10, 3, cfg, &out)
	sink := &toneRecorder{}
	term.SetAudioSink(sink)

	term.Feed([]byte{0x07})
	if len(sink.notes) != 0 {
		t.Errorf("bell = %v, want silence", sink.notes)
	}
}

func TestDebugMode(t *testing.T) {
	term, _ := newTestTerminal(ModeDebug, 40, 3)
	feedString(term, "A")
	if got := screenRow(term, 0); got != "41" {
		t.Errorf("row 0 = %q, want hex dump", got)
	}
}
