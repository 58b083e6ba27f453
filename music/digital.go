package music

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrDigitalSyntax covers malformed or out of range digital-dialect
// sequences; the whole sequence is discarded.
var ErrDigitalSyntax = errors.New("invalid digital music sequence")

const maxDigitalDurationMs = 3000

// IsDigital reports whether a music payload uses the digital dialect:
// its first character is a digit or a semicolon.
func IsDigital(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return s[0] == ';' || (s[0] >= '0' && s[0] <= '9')
}

// ParseDigital interprets the "freq;duration;cycles;cycledelay;
// variation" dialect: cycles tones of duration ms each, the frequency
// shifted by variation Hz per cycle, with cycledelay ms of silence
// between cycles.
func ParseDigital(s string) (Sequence, error) {
	parts := strings.Split(strings.TrimSpace(s), ";")
	if len(parts) < 5 {
		return nil, fmt.Errorf("%w: got %d of 5 fields", ErrDigitalSyntax, len(parts))
	}

	vals := make([]int, 5)
	for i := range vals {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %v", ErrDigitalSyntax, i, err)
		}
		vals[i] = v
	}
	freq, dur, cycles, cycleDelay, variation := vals[0], vals[1], vals[2], vals[3], vals[4]

	if cycles <= 0 {
		return nil, fmt.Errorf("%w: cycles must be positive", ErrDigitalSyntax)
	}
	if dur < 0 || dur > maxDigitalDurationMs {
		return nil, fmt.Errorf("%w: duration %dms out of range", ErrDigitalSyntax, dur)
	}

	var seq Sequence
	for i := 0; i < cycles; i++ {
		f := freq + i*variation
		if f < 0 {
			f = 0
		}
		seq = append(seq, Note{FreqHz: f, DurationMs: dur})
		if cycleDelay > 0 && i < cycles-1 {
			seq = append(seq, Note{DurationMs: cycleDelay})
		}
	}
	return seq, nil
}

// Parse dispatches a music payload to the right dialect.
func Parse(s string) (Sequence, error) {
	if IsDigital(s) {
		return ParseDigital(s)
	}
	return ParsePlay(s)
}
