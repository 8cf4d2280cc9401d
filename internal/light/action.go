package light

import "strings"

// Mode is the output mode of the light.
type Mode string

const (
	// ModeSolid holds the colour steadily.
	ModeSolid Mode = "solid"

	// ModePulse fades the colour in and out over the period.
	ModePulse Mode = "pulse"

	// ModeBlink toggles the colour on and off each period.
	ModeBlink Mode = "blink"

	// ModeOff turns the light off.
	ModeOff Mode = "off"
)

// ParseMode parses a mode token (case-insensitive).
//
// Only solid, pulse and blink are valid grammar tokens; ModeOff is
// produced by the dedicated /off command, never by a mode suffix.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(s)) {
	case ModeSolid:
		return ModeSolid, true
	case ModePulse:
		return ModePulse, true
	case ModeBlink:
		return ModeBlink, true
	default:
		return "", false
	}
}

// OffPeriodMS is the fixed period for the off action. The /off command
// always uses this value regardless of the caller-supplied default.
const OffPeriodMS = 600

// Action is the desired lighting output: a mode, a colour, and a period
// in milliseconds governing pulse/blink timing.
type Action struct {
	Mode     Mode  `json:"mode"`
	Color    Color `json:"color"`
	PeriodMS int   `json:"period_ms"`
}

// Off returns the action that turns the light off.
func Off() Action {
	return Action{Mode: ModeOff, Color: Black, PeriodMS: OffPeriodMS}
}

// IsOff reports whether the action produces no light output.
func (a Action) IsOff() bool {
	return a.Mode == ModeOff
}
