// Package config holds the CoreConfig record consumed by the
// emulation core and the qodemrc-style key=value loader that
// populates it.
package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Mouse protocol and encoding names accepted in the config file.
const (
	MouseOff         = "off"
	MouseX10         = "x10"
	MouseNormal      = "normal"
	MouseButtonEvent = "buttonevent"
	MouseAnyEvent    = "anyevent"

	MouseEncX10  = "x10"
	MouseEncUTF8 = "utf8"
	MouseEncSGR  = "sgr"
)

const maxENQResponse = 64

// CoreConfig carries every option the core recognizes. The mouse
// values are initial settings; remote CSI sequences override them at
// runtime.
type CoreConfig struct {
	SoundsEnabled    bool
	ANSIMusicEnabled bool
	ANSIAnimate      bool
	Assume80Columns  bool
	VT100Color       bool
	VT52Color        bool
	AvatarColor      bool
	ENQResponse      string
	ScrollbackMax    int
	XtermDoubleWidth bool
	MouseProtocol    string
	MouseEncoding    string
}

// Default returns the configuration used when no config file is
// present.
func Default() *CoreConfig {
	return &CoreConfig{
		SoundsEnabled:    true,
		ANSIMusicEnabled: true,
		ANSIAnimate:      false,
		Assume80Columns:  true,
		VT100Color:       true,
		VT52Color:        true,
		AvatarColor:      true,
		ScrollbackMax:    20000,
		MouseProtocol:    MouseOff,
		MouseEncoding:    MouseEncX10,
	}
}

// Validate checks the cross-field constraints.
func (c *CoreConfig) Validate() error {
	if len(c.ENQResponse) > maxENQResponse {
		return fmt.Errorf("enq_response exceeds %d bytes", maxENQResponse)
	}
	if c.ScrollbackMax < 0 {
		return fmt.Errorf("scrollback_max_lines must be >= 0, got %d", c.ScrollbackMax)
	}
	switch c.MouseProtocol {
	case MouseOff, MouseX10, MouseNormal, MouseButtonEvent, MouseAnyEvent:
	default:
		return fmt.Errorf("unknown mouse_protocol %q", c.MouseProtocol)
	}
	switch c.MouseEncoding {
	case MouseEncX10, MouseEncUTF8, MouseEncSGR:
	default:
		return fmt.Errorf("unknown mouse_encoding %q", c.MouseEncoding)
	}
	return nil
}

// Load reads a config file, applying recognized keys over the
// defaults. A missing file yields the defaults.
func Load(path string) (*CoreConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("couldn't open config %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads key=value lines. Blank lines and # comments are
// skipped; unknown keys are logged and ignored.
func Parse(r io.Reader) (*CoreConfig, error) {
	c := Default()
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, found := strings.Cut(line, "=")
		if !found {
			slog.Debug("skipping malformed config line", "line", line)
			continue
		}
		c.apply(strings.TrimSpace(key), strings.TrimSpace(val))
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("couldn't read config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CoreConfig) apply(key, val string) {
	switch key {
	case "sounds_enabled":
		c.SoundsEnabled = parseBool(val)
	case "ansi_music_enabled":
		c.ANSIMusicEnabled = parseBool(val)
	case "ansi_animate":
		c.ANSIAnimate = parseBool(val)
	case "assume_80_columns":
		c.Assume80Columns = parseBool(val)
	case "vt100_color":
		c.VT100Color = parseBool(val)
	case "vt52_color":
		c.VT52Color = parseBool(val)
	case "avatar_color":
		c.AvatarColor = parseBool(val)
	case "enq_response":
		if len(val) > maxENQResponse {
			slog.Debug("truncating oversize enq_response", "len", len(val))
			val = val[:maxENQResponse]
		}
		c.ENQResponse = val
	case "scrollback_max_lines":
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			c.ScrollbackMax = n
		} else {
			slog.Debug("ignoring bad scrollback_max_lines", "val", val)
		}
	case "xterm_double_width":
		c.XtermDoubleWidth = parseBool(val)
	case "mouse_protocol":
		c.MouseProtocol = strings.ToLower(val)
	case "mouse_encoding":
		c.MouseEncoding = strings.ToLower(val)
	default:
		slog.Debug("ignoring unknown config key", "key", key)
	}
}

func parseBool(val string) bool {
	switch strings.ToLower(val) {
	case "true", "yes", "on", "1":
		return true
	}
	return false
}
