package music

import (
	"errors"
	"log/slog"
	"strings"
	"unicode"
)

// ErrMusicSyntax is returned alongside the notes parsed so far when a
// PLAY string contains a byte the interpreter does not recognize. It
// is never reported to the remote side.
var ErrMusicSyntax = errors.New("unrecognized music sequence byte")

// Style duty cycles: the proportion of a note's slot that sounds; the
// rest is silence.
const (
	StyleNormal   = 0.875
	StyleLegato   = 1.000
	StyleStaccato = 0.750
)

const (
	defaultOctave = 4
	defaultTempo  = 120
	defaultLength = 4

	minTempo, maxTempo   = 32, 255
	minLength, maxLength = 1, 64
	maxNoteNumber        = 84
)

// Semitone offsets for the note letters A through G.
var letterSemitone = map[rune]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

type playParser struct {
	s   []rune
	i   int
	out Sequence

	octave int
	tempo  int
	length int
	style  float64
	shift  int // one-shot octave shift from < / >
}

// ParsePlay interprets a GWBASIC PLAY string. Whitespace between
// tokens is insignificant. On a syntax error the notes accumulated so
// far are returned together with ErrMusicSyntax.
func ParsePlay(s string) (Sequence, error) {
	p := &playParser{
		s:      []rune(strings.ToUpper(s)),
		octave: defaultOctave,
		tempo:  defaultTempo,
		length: defaultLength,
		style:  StyleNormal,
	}
	err := p.run()
	return p.out, err
}

func (p *playParser) run() error {
	for {
		p.skipSpace()
		if p.i >= len(p.s) {
			return nil
		}
		r := p.s[p.i]
		p.i++
		switch {
		case r >= 'A' && r <= 'G':
			p.note(r)
		case r == 'L':
			p.length = clampNum(p.number(p.length), minLength, maxLength)
		case r == 'M':
			if err := p.music(); err != nil {
				return err
			}
		case r == 'N':
			p.noteNumber()
		case r == 'O':
			p.octave = clampNum(p.number(p.octave), 0, octaves-1)
		case r == 'P':
			p.rest()
		case r == 'T':
			p.tempo = clampNum(p.number(p.tempo), minTempo, maxTempo)
		case r == '<':
			p.shift--
		case r == '>':
			p.shift++
		default:
			slog.Debug("aborting music sequence", "r", string(r), "pos", p.i-1)
			return ErrMusicSyntax
		}
	}
}

// note handles a letter note with optional sharp/flat, length
// override and dots.
func (p *playParser) note(letter rune) {
	semi := letterSemitone[letter]
	p.skipSpace()
	if p.i < len(p.s) {
		switch p.s[p.i] {
		case '#', '+':
			semi++
			p.i++
		case '-':
			semi--
			p.i++
		}
	}
	length := p.number(p.length)
	length = clampNum(length, minLength, maxLength)
	dots := p.dots()

	freq := noteFreq(p.octave+p.shift, semi)
	p.shift = 0
	p.emit(freq, p.noteMs(length, dots))
}

// noteNumber handles N n: a direct note number, 0 being a rest.
func (p *playParser) noteNumber() {
	n := p.number(0)
	if n < 0 || n > maxNoteNumber {
		slog.Debug("ignoring out of range note number", "n", n)
		return
	}
	ms := p.noteMs(p.length, 0)
	if n == 0 {
		p.out = append(p.out, Note{DurationMs: ms})
		return
	}
	p.emit(noteFreq((n-1)/semitones, (n-1)%semitones), ms)
}

// rest handles P n with optional dots.
func (p *playParser) rest() {
	length := clampNum(p.number(p.length), minLength, maxLength)
	dots := p.dots()
	p.out = append(p.out, Note{DurationMs: p.noteMs(length, dots)})
}

// music handles the M sub-commands: foreground/background (both play
// synchronously here) and the three articulation styles.
func (p *playParser) music() error {
	p.skipSpace()
	if p.i >= len(p.s) {
		return ErrMusicSyntax
	}
	r := p.s[p.i]
	p.i++
	switch r {
	case 'F', 'B':
		// Foreground vs background only matters to a scheduler
		// that can overlap music with output; we play both
		// synchronously.
	case 'N':
		p.style = StyleNormal
	case 'L':
		p.style = StyleLegato
	case 'S':
		p.style = StyleStaccato
	default:
		slog.Debug("unknown music M command", "r", string(r))
		return ErrMusicSyntax
	}
	return nil
}

// emit appends a tone and, for styles under full duty, its trailing
// silence.
func (p *playParser) emit(freq, ms int) {
	tone := int(float64(ms) * p.style)
	p.out = append(p.out, Note{FreqHz: freq, DurationMs: tone})
	if rest := ms - tone; rest > 0 {
		p.out = append(p.out, Note{DurationMs: rest})
	}
}

// noteMs computes the slot duration in milliseconds for a length
// fraction at the current tempo, with 1.5x per dot.
func (p *playParser) noteMs(length, dots int) int {
	ms := 60000.0 / (float64(p.tempo) * float64(length) / 4.0)
	for ; dots > 0; dots-- {
		ms *= 1.5
	}
	return int(ms)
}

// number reads an optional unsigned decimal, returning def when no
// digits follow.
func (p *playParser) number(def int) int {
	p.skipSpace()
	start := p.i
	n := 0
	for p.i < len(p.s) && unicode.IsDigit(p.s[p.i]) {
		n = n*10 + int(p.s[p.i]-'0')
		p.i++
	}
	if p.i == start {
		return def
	}
	return n
}

func (p *playParser) dots() int {
	dots := 0
	for {
		p.skipSpace()
		if p.i >= len(p.s) || p.s[p.i] != '.' {
			return dots
		}
		dots++
		p.i++
	}
}

func (p *playParser) skipSpace() {
	for p.i < len(p.s) && unicode.IsSpace(p.s[p.i]) {
		p.i++
	}
}

func clampNum(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
