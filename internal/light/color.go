package light

import (
	"errors"
	"fmt"
	"strings"
)

// Color is an RGB triple with 0-255 channels.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ErrInvalidHex is returned when a hex colour string is malformed.
var ErrInvalidHex = errors.New("light: invalid hex colour")

// Well-known colours.
var (
	Black  = Color{0, 0, 0}
	Red    = Color{255, 0, 0}
	Green  = Color{0, 255, 0}
	Blue   = Color{0, 0, 255}
	Yellow = Color{255, 255, 0}
	Orange = Color{255, 165, 0}
	Purple = Color{128, 0, 128}
	Cyan   = Color{0, 255, 255}
	Pink   = Color{255, 105, 180}
	White  = Color{255, 255, 255}
)

// namedColours maps lowercase colour names to their RGB values.
// Lookup is case-insensitive via ColorByName.
var namedColours = map[string]Color{
	"black":   Black,
	"red":     Red,
	"green":   Green,
	"blue":    Blue,
	"yellow":  Yellow,
	"orange":  Orange,
	"purple":  Purple,
	"magenta": {255, 0, 255},
	"cyan":    Cyan,
	"pink":    Pink,
	"white":   White,
}

// ColorByName looks up a colour by name (case-insensitive).
//
// Returns:
//   - Color: The named colour
//   - bool: false if the name is unknown
func ColorByName(name string) (Color, bool) {
	c, ok := namedColours[strings.ToLower(name)]
	return c, ok
}

// ColorFromHex parses a 6-digit hex colour string, with or without a
// leading '#'. Parsing is case-insensitive.
//
// Returns:
//   - Color: The parsed colour
//   - error: ErrInvalidHex if the string is not exactly six hex digits
func ColorFromHex(s string) (Color, error) {
	raw := strings.TrimPrefix(s, "#")
	if len(raw) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(raw[i*2])
		lo, ok2 := hexDigit(raw[i*2+1])
		if !ok1 || !ok2 {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
		channels[i] = hi<<4 | lo
	}

	return Color{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// hexDigit converts a single ASCII hex digit to its value.
func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

// Hex returns the colour as a lowercase "#rrggbb" string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
