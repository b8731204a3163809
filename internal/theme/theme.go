// Package theme holds the day and night palettes shared by the web and
// terminal front ends.
package theme

import (
	"fmt"
	"strings"
)

type Theme string

const (
	Day   Theme = "day"
	Night Theme = "night"
)

// RGB is a color as three 0-255 channels.
type RGB struct {
	R, G, B uint8
}

// CSS renders the channels the way the stylesheet expects them inside rgb().
func (c RGB) CSS() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

// Hex renders the color as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Palette is the foreground ("dark") and background ("light") pair.
type Palette struct {
	Dark  RGB
	Light RGB
}

var (
	ink   = RGB{R: 10, G: 10, B: 20}
	paper = RGB{R: 255, G: 255, B: 255}
)

// Parse accepts "day" or "night" in any case.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Day:
		return Day, nil
	case Night:
		return Night, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// ParseOr returns fallback when s is not a known theme.
func ParseOr(s string, fallback Theme) Theme {
	t, err := Parse(s)
	if err != nil {
		return fallback
	}
	return t
}

func (t Theme) Toggle() Theme {
	if t == Night {
		return Day
	}
	return Night
}

func (t Theme) Palette() Palette {
	if t == Night {
		return Palette{Dark: paper, Light: ink}
	}
	return Palette{Dark: ink, Light: paper}
}

// CSSVars renders the custom properties consumed by the stylesheet.
func (t Theme) CSSVars() string {
	p := t.Palette()
	return fmt.Sprintf("--color-dark: %s; --color-light: %s;", p.Dark.CSS(), p.Light.CSS())
}

func (t Theme) String() string {
	return string(t)
}
