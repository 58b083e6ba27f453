package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/gdamore/tcell/v2"

	"github.com/qodem/qodem/colors"
	"github.com/qodem/qodem/config"
	"github.com/qodem/qodem/emulation"
	"github.com/qodem/qodem/scrollback"
)

type app struct {
	term   *emulation.Terminal
	screen tcell.Screen
	ptmx   *os.File
	cmd    *exec.Cmd
	cfg    *config.CoreConfig

	quit chan struct{}
}

// beepSink plays tones through the hosting terminal's bell and keeps
// the playback clock honest by sleeping out each duration.
type beepSink struct {
	screen tcell.Screen
}

func (s beepSink) PlayTone(freqHz, durationMs int) error {
	s.screen.Beep()
	time.Sleep(time.Duration(durationMs) * time.Millisecond)
	return nil
}

func (s beepSink) Silence(durationMs int) error {
	time.Sleep(time.Duration(durationMs) * time.Millisecond)
	return nil
}

func newApp(mode emulation.Mode, cfg *config.CoreConfig, shell string) (*app, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("couldn't create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("couldn't init screen: %w", err)
	}
	screen.EnableMouse()
	screen.EnablePaste()

	cols, rows := screen.Size()
	if cfg.Assume80Columns && cols > 80 {
		cols = 80
	}

	cmd := exec.Command(shell, "-l")
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		screen.Fini()
		return nil, fmt.Errorf("couldn't start shell: %w", err)
	}

	term := emulation.NewTerminal(mode, cols, rows, cfg, ptmx)
	term.SetAudioSink(beepSink{screen})

	return &app{
		term:   term,
		screen: screen,
		ptmx:   ptmx,
		cmd:    cmd,
		cfg:    cfg,
		quit:   make(chan struct{}),
	}, nil
}

func (a *app) run() error {
	defer a.screen.Fini()
	defer a.ptmx.Close()

	go a.readLoop()
	go a.eventLoop()

	<-a.quit
	return a.cmd.Wait()
}

// readLoop feeds shell output into the emulation and schedules a
// redraw.
func (a *app) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := a.ptmx.Read(buf)
		if n > 0 {
			a.term.Feed(buf[:n])
			a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
		if err != nil {
			if err != io.EOF {
				slog.Error("couldn't read from pty", "err", err)
			}
			close(a.quit)
			return
		}
	}
}

func (a *app) eventLoop() {
	for {
		switch ev := a.screen.PollEvent().(type) {
		case *tcell.EventKey:
			a.handleKey(ev)
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *tcell.EventPaste:
			// Start/end markers; the pasted runes arrive as key
			// events between them.
			a.sendPasteMarker(ev.Start())
		case *tcell.EventResize:
			a.screen.Sync()
			a.render()
		case *tcell.EventInterrupt:
			a.render()
		case nil:
			return
		}
	}
}

func (a *app) sendPasteMarker(start bool) {
	if !a.term.BracketedPaste() {
		return
	}
	if start {
		a.write([]byte("\x1b[200~"))
	} else {
		a.write([]byte("\x1b[201~"))
	}
}

func (a *app) handleKey(ev *tcell.EventKey) {
	// Scrollback view motion stays local.
	if ev.Modifiers()&tcell.ModShift != 0 {
		switch ev.Key() {
		case tcell.KeyPgUp:
			a.term.Buffer().ScrollBackView(a.term.Buffer().Height())
			a.render()
			return
		case tcell.KeyPgDn:
			a.term.Buffer().ScrollForwardView(a.term.Buffer().Height())
			a.render()
			return
		}
	}
	if a.term.Buffer().InView() {
		a.term.Buffer().ResetView()
	}

	switch ev.Key() {
	case tcell.KeyRune:
		a.write([]byte(string(ev.Rune())))
	case tcell.KeyEnter:
		a.write([]byte{'\r'})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.write([]byte{0x7f})
	case tcell.KeyTab:
		a.write([]byte{'\t'})
	case tcell.KeyEscape:
		a.term.Player().Cancel()
		a.write([]byte{0x1b})
	case tcell.KeyUp:
		a.write([]byte("\x1b[A"))
	case tcell.KeyDown:
		a.write([]byte("\x1b[B"))
	case tcell.KeyRight:
		a.write([]byte("\x1b[C"))
	case tcell.KeyLeft:
		a.write([]byte("\x1b[D"))
	case tcell.KeyHome:
		a.write([]byte("\x1b[H"))
	case tcell.KeyEnd:
		a.write([]byte("\x1b[F"))
	case tcell.KeyPgUp:
		a.write([]byte("\x1b[5~"))
	case tcell.KeyPgDn:
		a.write([]byte("\x1b[6~"))
	case tcell.KeyDelete:
		a.write([]byte("\x1b[3~"))
	default:
		if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
			a.write([]byte{byte(ev.Key())})
		}
	}
}

func (a *app) handleMouse(ev *tcell.EventMouse) {
	if a.term.MouseProtocolActive() == emulation.MouseOff {
		return
	}
	x, y := ev.Position()
	for _, mev := range mouseEvents(ev, x, y) {
		a.term.SendMouse(mev)
	}
}

// mouseEvents translates one tcell mouse event into core events.
// tcell reports a button mask rather than press/release transitions,
// so the encoder's per-button state does the edge detection.
func mouseEvents(ev *tcell.EventMouse, x, y int) []emulation.MouseEvent {
	var evs []emulation.MouseEvent
	btns := ev.Buttons()

	for b, mb := range map[tcell.ButtonMask]emulation.MouseButton{
		tcell.Button1:    emulation.Button1,
		tcell.Button2:    emulation.Button2,
		tcell.Button3:    emulation.Button3,
		tcell.WheelUp:    emulation.ButtonWheelUp,
		tcell.WheelDown:  emulation.ButtonWheelDown,
	} {
		if btns&b != 0 {
			evs = append(evs, emulation.MouseEvent{X: x, Y: y, Button: mb, Kind: emulation.MousePress})
		}
	}
	if len(evs) == 0 {
		evs = append(evs, emulation.MouseEvent{X: x, Y: y, Button: emulation.ButtonNone, Kind: emulation.MouseMotion})
	}
	return evs
}

func (a *app) write(p []byte) {
	if _, err := a.ptmx.Write(p); err != nil {
		slog.Error("couldn't write to pty", "err", err)
	}
}

// render paints the buffer's visible window.
func (a *app) render() {
	buf := a.term.Buffer()
	w, h := buf.Width(), buf.Height()

	for row := 0; row < h; row++ {
		l := buf.Line(row)
		for col := 0; col < w; col++ {
			c := l.Cell(col)
			if c.Frag == scrollback.FragSecondary {
				continue
			}
			attr := l.SearchAttr(col)
			if l.Reverse {
				attr = attr.With(colors.Reverse)
			}
			a.screen.SetContent(col, row, c.R, nil, styleFor(attr))
		}
	}

	if x, y := buf.Cursor(); buf.CursorVisible() && !buf.InView() {
		a.screen.ShowCursor(x, y)
	} else {
		a.screen.HideCursor()
	}
	a.screen.Show()
}

var tcellColors = [8]tcell.Color{
	tcell.ColorBlack,
	tcell.ColorMaroon,
	tcell.ColorGreen,
	tcell.ColorOlive,
	tcell.ColorNavy,
	tcell.ColorPurple,
	tcell.ColorTeal,
	tcell.ColorSilver,
}

func styleFor(a colors.Attr) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(tcellColors[a.Foreground()]).
		Background(tcellColors[a.Background()])

	if a.Has(colors.Bold) {
		st = st.Bold(true)
	}
	if a.Has(colors.Underline) {
		st = st.Underline(true)
	}
	if a.Has(colors.Blink) {
		st = st.Blink(true)
	}
	if a.Has(colors.Reverse) {
		st = st.Reverse(true)
	}
	if a.Has(colors.Invisible) {
		st = st.Foreground(tcellColors[a.Background()])
	}
	return st
}
