package music

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recordSink captures playback without making noise or blocking.
type recordSink struct {
	notes Sequence
}

func (s *recordSink) PlayTone(freqHz, durationMs int) error {
	s.notes = append(s.notes, Note{FreqHz: freqHz, DurationMs: durationMs})
	return nil
}

func (s *recordSink) Silence(durationMs int) error {
	s.notes = append(s.notes, Note{DurationMs: durationMs})
	return nil
}

func TestPlay(t *testing.T) {
	sink := &recordSink{}
	p := NewPlayer(sink)

	seq := Sequence{{440, 100}, {0, 50}, {880, 100}}
	if err := p.Play(seq); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if diff := cmp.Diff(seq, sink.notes); diff != "" {
		t.Errorf("sink mismatch (-want +got):\n%s", diff)
	}
	if p.Banned() {
		t.Error("clean playback should not start a ban")
	}
}

func TestPlayCancel(t *testing.T) {
	sink := &recordSink{}
	p := NewPlayer(sink)

	p.Cancel()
	err := p.Play(Sequence{{440, 100}, {880, 100}})
	if !errors.Is(err, ErrCancelRequested) {
		t.Fatalf("err = %v, want ErrCancelRequested", err)
	}
	if len(sink.notes) != 0 {
		t.Errorf("sink received %v after cancel", sink.notes)
	}
	if !p.Banned() {
		t.Error("cancel should start the ban window")
	}
}

func TestCancelIsNonBlocking(t *testing.T) {
	p := NewPlayer(&recordSink{})
	// Extra cancels are dropped rather than queued or blocking.
	for i := 0; i < 10; i++ {
		p.Cancel()
	}
}

type failSink struct{}

func (failSink) PlayTone(freqHz, durationMs int) error { return errors.New("device gone") }
func (failSink) Silence(durationMs int) error          { return errors.New("device gone") }

func TestPlaySinkError(t *testing.T) {
	p := NewPlayer(failSink{})
	if err := p.Play(Sequence{{440, 100}}); err == nil {
		t.Error("expected sink error to propagate")
	}
	if p.Banned() {
		t.Error("sink errors should not start a ban")
	}
}
