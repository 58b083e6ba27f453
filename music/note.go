// Package music interprets ANSI music: GWBASIC-style PLAY strings and
// the digital "freq;duration;cycles;cycledelay;variation" dialect,
// both reduced to an ordered sequence of tones and silences that a
// Player drives into an audio sink.
package music

import "math"

// Note is one element of a sequence. FreqHz == 0 is silence.
type Note struct {
	FreqHz     int
	DurationMs int
}

// Sequence is consumed in order and not restartable.
type Sequence []Note

const (
	octaves   = 7
	semitones = 12
)

// freqTable holds the equal-tempered scale: seven octaves of twelve
// semitones with a semitone ratio of 2^(1/12). The C opening the
// default octave (4) is middle C, nine semitones below A440.
var freqTable [octaves][semitones]float64

func init() {
	middleC := 440.0 * math.Pow(2, -9.0/12.0)
	for o := 0; o < octaves; o++ {
		for s := 0; s < semitones; s++ {
			exp := float64(o-defaultOctave) + float64(s)/float64(semitones)
			freqTable[o][s] = middleC * math.Pow(2, exp)
		}
	}
}

// noteFreq returns the frequency of the given semitone in the given
// octave, both clamped to the table.
func noteFreq(octave, semitone int) int {
	for semitone < 0 {
		semitone += semitones
		octave--
	}
	for semitone >= semitones {
		semitone -= semitones
		octave++
	}
	switch {
	case octave < 0:
		octave = 0
	case octave >= octaves:
		octave = octaves - 1
	}
	return int(math.Round(freqTable[octave][semitone]))
}
