package music

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePlayBasics(t *testing.T) {
	cases := []struct {
		in   string
		want Sequence
	}{
		// A quarter note at tempo 120 owns a 500ms slot; normal style
		// sounds 87.5% of it.
		{"T120 L4 O4 C", Sequence{{262, 437}, {0, 63}}},
		// Whitespace between tokens is insignificant.
		{"T120L4O4C", Sequence{{262, 437}, {0, 63}}},
		// Legato fills the whole slot, staccato three quarters.
		{"ML C", Sequence{{262, 500}}},
		{"MS C", Sequence{{262, 375}, {0, 125}}},
		// Sharps, flats and octave shifts.
		{"C#", Sequence{{277, 437}, {0, 63}}},
		{"D-", Sequence{{277, 437}, {0, 63}}},
		{"A", Sequence{{440, 437}, {0, 63}}},
		{"O5 C", Sequence{{523, 437}, {0, 63}}},
		{"> C", Sequence{{523, 437}, {0, 63}}},
		{"< C", Sequence{{131, 437}, {0, 63}}},
		// The < and > shifts are one-shot.
		{"> C C", Sequence{{523, 437}, {0, 63}, {262, 437}, {0, 63}}},
		// Per-note length override and dots.
		{"C8", Sequence{{262, 218}, {0, 32}}},
		{"C4.", Sequence{{262, 656}, {0, 94}}},
		// Rests.
		{"P4", Sequence{{0, 500}}},
		{"P8", Sequence{{0, 250}}},
		// Note numbers: N0 is a rest, N49 opens octave 4.
		{"N0", Sequence{{0, 500}}},
		{"N49", Sequence{{262, 437}, {0, 63}}},
		// Tempo changes apply to following notes.
		{"T60 C", Sequence{{262, 875}, {0, 125}}},
		// Foreground/background markers are accepted and ignored.
		{"MF C MB", Sequence{{262, 437}, {0, 63}}},
		// Lowercase input is folded.
		{"t120 l4 o4 c", Sequence{{262, 437}, {0, 63}}},
		{"", nil},
	}

	for i, c := range cases {
		got, err := ParsePlay(c.in)
		if err != nil {
			t.Errorf("%d: ParsePlay(%q) error: %v", i, c.in, err)
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%d: ParsePlay(%q) mismatch (-want +got):\n%s", i, c.in, diff)
		}
	}
}

func TestParsePlaySyntaxError(t *testing.T) {
	// The notes before the bad byte survive.
	got, err := ParsePlay("C X C")
	if !errors.Is(err, ErrMusicSyntax) {
		t.Fatalf("err = %v, want ErrMusicSyntax", err)
	}
	want := Sequence{{262, 437}, {0, 63}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partial sequence mismatch (-want +got):\n%s", diff)
	}

	// M with nothing after it is also a syntax error.
	if _, err := ParsePlay("M"); !errors.Is(err, ErrMusicSyntax) {
		t.Errorf("ParsePlay(\"M\") err = %v, want ErrMusicSyntax", err)
	}
	if _, err := ParsePlay("MX"); !errors.Is(err, ErrMusicSyntax) {
		t.Errorf("ParsePlay(\"MX\") err = %v, want ErrMusicSyntax", err)
	}
}

func TestParsePlayClamping(t *testing.T) {
	// Out of range tempo, length and octave are clamped, not errors.
	got, err := ParsePlay("T999 L99 O9 C")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("no notes")
	}
	// Tempo clamps to 255, length to 64: slot = 60000/(255*16) ms.
	if got[0].DurationMs >= 20 {
		t.Errorf("tone duration = %dms, want short clamped note", got[0].DurationMs)
	}
	// Octave clamps to 6.
	if got[0].FreqHz != noteFreq(6, 0) {
		t.Errorf("freq = %d, want %d", got[0].FreqHz, noteFreq(6, 0))
	}
}

func TestNoteFreq(t *testing.T) {
	cases := []struct {
		octave, semitone int
		want             int
	}{
		{4, 0, 262},  // middle C
		{4, 9, 440},  // A440
		{5, 0, 523},
		{3, 0, 131},
		{0, 0, 16},
		// Semitone overflow and underflow normalize.
		{4, 12, 523},
		{4, -1, 247},
		// Octave clamping.
		{-3, 0, 16},
		{99, 11, noteFreq(6, 11)},
	}

	for i, c := range cases {
		if got := noteFreq(c.octave, c.semitone); got != c.want {
			t.Errorf("%d: noteFreq(%d, %d) = %d, want %d", i, c.octave, c.semitone, got, c.want)
		}
	}
}
