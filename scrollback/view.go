package scrollback

// ScrollBackView moves the view pointer n lines into history. The
// window never scrolls past the oldest line.
func (b *Buffer) ScrollBackView(n int) {
	max := len(b.lines) - b.height
	b.viewOffset = clampInt(b.viewOffset+n, 0, maxInt(0, max))
	b.markVisibleDirty()
}

// ScrollForwardView moves the view pointer n lines toward the live
// screen.
func (b *Buffer) ScrollForwardView(n int) {
	b.ScrollBackView(-n)
}

// InView reports whether the buffer is showing history rather than
// the live screen.
func (b *Buffer) InView() bool {
	return b.viewOffset > 0
}

// ResetView returns to the live screen and clears any search
// highlighting.
func (b *Buffer) ResetView() {
	b.viewOffset = 0
	for _, l := range b.lines {
		l.clearSearch()
	}
	b.markVisibleDirty()
}

// InvertScrollbackColors sets the reverse-video flag on every visible
// line. Used by DECSCNM set.
func (b *Buffer) InvertScrollbackColors() {
	b.reverseVideo = true
	b.setVisibleReverse(true)
}

// DeinvertScrollbackColors clears the reverse-video flag on every
// visible line. Used by DECSCNM reset.
func (b *Buffer) DeinvertScrollbackColors() {
	b.reverseVideo = false
	b.setVisibleReverse(false)
}

func (b *Buffer) setVisibleReverse(v bool) {
	for i := 0; i < b.height; i++ {
		l := b.line(i)
		l.Reverse = v
		l.Dirty = true
	}
}

// FindText highlights every occurrence of needle in the buffer via
// the per-line shadow attributes and returns the number of matching
// lines. An empty needle clears all highlighting.
func (b *Buffer) FindText(needle string) int {
	if needle == "" {
		for _, l := range b.lines {
			l.clearSearch()
		}
		return 0
	}

	nr := []rune(needle)
	found := 0
	for _, l := range b.lines {
		text := []rune(l.text())
		hit := false
		for i := 0; i+len(nr) <= len(text); i++ {
			if string(text[i:i+len(nr)]) == string(nr) {
				l.markMatch(i, i+len(nr))
				i += len(nr) - 1
				hit = true
			}
		}
		if hit {
			found++
		}
	}
	return found
}
