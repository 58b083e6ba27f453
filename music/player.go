package music

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCancelRequested is returned by Play when the sink's consumer
// asked for playback to stop. The player imposes a ban window after a
// cancel so hostile streams can't immediately restart the noise.
var ErrCancelRequested = errors.New("music playback cancelled")

const banDuration = 5 * time.Second

// Sink is the external audio device. Both calls block for at least
// the requested duration.
type Sink interface {
	PlayTone(freqHz, durationMs int) error
	Silence(durationMs int) error
}

// Player drives note sequences into a sink, polling for cancellation
// between notes.
type Player struct {
	sink Sink

	cancel chan struct{}

	mu       sync.Mutex
	banUntil time.Time
}

func NewPlayer(sink Sink) *Player {
	return &Player{
		sink:   sink,
		cancel: make(chan struct{}, 1),
	}
}

// Play sounds the sequence in order. On cancellation it stops at the
// end of the current note, starts the ban window and returns
// ErrCancelRequested. Sink errors propagate.
func (p *Player) Play(seq Sequence) error {
	for i, n := range seq {
		select {
		case <-p.cancel:
			p.ban()
			slog.Debug("music cancelled", "played", i, "total", len(seq))
			return ErrCancelRequested
		default:
		}

		var err error
		if n.FreqHz == 0 {
			err = p.sink.Silence(n.DurationMs)
		} else {
			err = p.sink.PlayTone(n.FreqHz, n.DurationMs)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Cancel requests that the current Play stop. Safe to call from any
// goroutine; extra cancels are dropped.
func (p *Player) Cancel() {
	select {
	case p.cancel <- struct{}{}:
	default:
	}
}

func (p *Player) ban() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banUntil = time.Now().Add(banDuration)
}

// Banned reports whether playback is inside the post-cancel ban
// window. The emulation checks this before entering music mode.
func (p *Player) Banned() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Now().Before(p.banUntil)
}
