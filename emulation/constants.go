// Package emulation implements the terminal emulation state machine:
// a Williams-style escape-sequence parser over an inbound byte
// stream, the per-emulation dispatch that mutates the scrollback
// buffer, character-set handling, and the mouse tracking encoder.
package emulation

// C0 control codes.
const (
	CTRL_ENQ = 0x05 // ^E Enquire, answered with the configured string
	CTRL_BEL = 0x07 // ^G Bell
	CTRL_BS  = 0x08 // ^H Backspace
	CTRL_TAB = 0x09 // ^I Tab \t
	CTRL_LF  = 0x0a // ^J Line feed \n
	CTRL_VT  = 0x0b // ^K Vertical tab \v
	CTRL_FF  = 0x0c // ^L Form feed \f
	CTRL_CR  = 0x0d // ^M Carriage return \r
	CTRL_SO  = 0x0e // ^N Select G1 into GL
	CTRL_SI  = 0x0f // ^O Select G0 into GL
	ESC      = 0x1b
)

// ESC final bytes.
const (
	ESC_IND   = 'D' // index
	ESC_NEL   = 'E' // next line
	ESC_HTS   = 'H' // horizontal tab set
	ESC_RI    = 'M' // reverse index
	ESC_DECSC = '7' // save cursor
	ESC_DECRC = '8' // restore cursor
	ESC_RIS   = 'c' // full reset
	ESC_CSI   = '['
	ESC_OSC   = ']'
	ESC_ST    = '\\'
)

// CSI final bytes.
const (
	CSI_ICH     = '@' // insert blank characters
	CSI_CUU     = 'A' // cursor up
	CSI_CUD     = 'B' // cursor down
	CSI_CUF     = 'C' // cursor forward
	CSI_CUB     = 'D' // cursor back
	CSI_CNL     = 'E' // cursor next line
	CSI_CPL     = 'F' // cursor previous line
	CSI_CHA     = 'G' // cursor horizontal absolute
	CSI_CUP     = 'H' // cursor position
	CSI_CHT     = 'I' // cursor forward tabulation
	CSI_ED      = 'J' // erase in display
	CSI_EL      = 'K' // erase in line
	CSI_IL      = 'L' // insert line(s)
	CSI_DL      = 'M' // delete line(s), doubles as the music trigger
	CSI_DCH     = 'P' // delete character(s)
	CSI_SU      = 'S' // scroll up
	CSI_SD      = 'T' // scroll down
	CSI_ECH     = 'X' // erase characters
	CSI_CBT     = 'Z' // cursor backward tabulation
	CSI_HPA     = '`' // character position absolute
	CSI_HPR     = 'a' // character position relative
	CSI_DA      = 'c' // device attributes
	CSI_VPA     = 'd' // line position absolute
	CSI_VPR     = 'e' // line position relative
	CSI_HVP     = 'f' // horizontal vertical position
	CSI_TBC     = 'g' // tab stop clear
	CSI_SET     = 'h' // set mode
	CSI_RESET   = 'l' // reset mode
	CSI_SGR     = 'm' // select graphic rendition
	CSI_DSR     = 'n' // device status report
	CSI_DECSTBM = 'r' // set top and bottom margin
)

// Mode parameters for CSI h / CSI l, both the ANSI set and the DEC
// private set behind the '?' intermediate.
const (
	MODE_IRM = 4  // insert/replace
	MODE_LNM = 20 // line feed / new line

	PRIV_DECCKM           = 1    // application cursor keys
	PRIV_DECCOLM          = 3    // 80/132 column switch
	PRIV_DECSCNM          = 5    // reverse screen
	PRIV_DECOM            = 6    // origin mode
	PRIV_DECAWM           = 7    // autowrap
	PRIV_DECTCEM          = 25   // cursor visible
	PRIV_MOUSE_X10        = 9    // X10 press-only tracking
	PRIV_MOUSE_NORMAL     = 1000 // press and release tracking
	PRIV_MOUSE_BUTTON     = 1002 // motion while a button is held
	PRIV_MOUSE_ANY        = 1003 // all motion
	PRIV_MOUSE_UTF8       = 1005 // UTF-8 coordinate encoding
	PRIV_MOUSE_SGR        = 1006 // SGR coordinate encoding
	PRIV_BRACKETED_PASTE  = 2004
)

// Modes for CSI g (tab clear).
const (
	TBC_CUR = 0 // clear tab stop at the cursor
	TBC_ALL = 3 // clear all tab stops
)

// Tab stops default to every eight columns.
const tabSpacing = 8

// Caps on accumulated sequence state; exceeding either moves the
// parser to the ignore state.
const (
	maxParams        = 16
	maxIntermediates = 2
)

// Bound on an accumulated music payload; longer sequences are
// discarded.
const maxMusicBytes = 1024
