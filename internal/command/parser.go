package command

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/nerrad567/busylight-core/internal/light"
)

// Parse parses a resource path into a Command.
//
// The path must start with /v1/busylight (tokens are case-insensitive).
// defaultPeriodMS is the period used when a manual production has no
// explicit period; the /off production ignores it entirely.
//
// Parameters:
//   - path: Resource path, e.g. "/v1/busylight/hex/ff00aa/pulse/500"
//   - defaultPeriodMS: Caller-supplied fallback period in milliseconds
//
// Returns:
//   - Command: The parsed command
//   - error: A *ParseError describing the first grammar violation
func Parse(path string, defaultPeriodMS int) (Command, error) {
	tokens := tokenize(path)

	if len(tokens) < 2 ||
		!strings.EqualFold(tokens[0], "v1") ||
		!strings.EqualFold(tokens[1], "busylight") {
		return Command{}, newErr(CodeUnknownResource, path)
	}

	rest := tokens[2:]
	if len(rest) == 0 {
		return State(), nil
	}

	switch strings.ToLower(rest[0]) {
	case "state":
		return fixed(State(), rest[1:])
	case "logs", "log":
		return fixed(Logs(), rest[1:])
	case "auto":
		return fixed(Auto(), rest[1:])
	case "rules":
		return parseRules(rest[1:])
	case "off":
		// Fixed production: 600ms period, trailing tokens deliberately
		// ignored so stale UI shortcuts with suffixes still switch off.
		return Manual(light.Off()), nil
	case "hex":
		return parseHex(rest[1:], defaultPeriodMS)
	case "rgb":
		return parseRGB(rest[1:], defaultPeriodMS)
	default:
		return parseNamedColour(rest, defaultPeriodMS)
	}
}

// ParseURL parses a custom URL into a Command.
//
// Two host shapes are accepted: the host as the resource itself
// (scheme://busylight/...) and the host as a version prefix
// (scheme://v1/busylight/...). The URL path is percent-decoded before
// being reduced to the plain path grammar, so "%23ff00aa" reaches the
// hex production as "#ff00aa".
func ParseURL(raw string, defaultPeriodMS int) (Command, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Command{}, newErr(CodeUnknownResource, raw)
	}

	// url.Parse leaves u.Path percent-decoded.
	switch strings.ToLower(u.Host) {
	case "busylight":
		return Parse("/v1/busylight"+u.Path, defaultPeriodMS)
	case "v1":
		return Parse("/v1"+u.Path, defaultPeriodMS)
	default:
		return Command{}, newErr(CodeUnknownResource, raw)
	}
}

// tokenize splits a path into segments, dropping empty entries from
// leading, trailing, or doubled slashes.
func tokenize(path string) []string {
	parts := strings.Split(path, "/")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// fixed returns cmd if no tokens remain, otherwise rejects the surplus.
func fixed(cmd Command, leftover []string) (Command, error) {
	if len(leftover) > 0 {
		return Command{}, newErr(CodeTooManySegments, leftover[0])
	}
	return cmd, nil
}

// parseRules handles rules/{on|off}.
func parseRules(rest []string) (Command, error) {
	if len(rest) == 0 {
		return Command{}, newErr(CodeMissingRulesState, "")
	}
	var enabled bool
	switch strings.ToLower(rest[0]) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return Command{}, newErr(CodeInvalidRulesState, rest[0])
	}
	return fixed(Rules(enabled), rest[1:])
}

// parseHex handles hex/{6 hex digits}[/{mode}/{period}].
func parseHex(rest []string, defaultPeriodMS int) (Command, error) {
	if len(rest) == 0 {
		return Command{}, newErr(CodeMissingHexColour, "")
	}
	colour, err := light.ColorFromHex(rest[0])
	if err != nil {
		return Command{}, newErr(CodeInvalidHexColour, rest[0])
	}
	return parseManualSuffix(colour, rest[1:], defaultPeriodMS)
}

// parseRGB handles rgb/{r}/{g}/{b}[/{mode}/{period}].
func parseRGB(rest []string, defaultPeriodMS int) (Command, error) {
	if len(rest) < 3 {
		return Command{}, newErr(CodeMissingRGBComponents, "")
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(rest[i])
		if err != nil || v < 0 || v > 255 {
			return Command{}, newErr(CodeInvalidRGBComponent, rest[i])
		}
		channels[i] = uint8(v)
	}
	colour := light.Color{R: channels[0], G: channels[1], B: channels[2]}
	return parseManualSuffix(colour, rest[3:], defaultPeriodMS)
}

// parseNamedColour handles {namedColour}[/{mode}/{period}].
func parseNamedColour(rest []string, defaultPeriodMS int) (Command, error) {
	colour, ok := light.ColorByName(rest[0])
	if !ok {
		return Command{}, newErr(CodeUnknownColour, strings.ToLower(rest[0]))
	}
	return parseManualSuffix(colour, rest[1:], defaultPeriodMS)
}

// parseManualSuffix consumes the optional [/{mode}/{period}] tail shared
// by the hex, rgb, and named-colour productions.
//
// An absent mode means solid with the default period. Pulse and blink may
// carry an explicit integer millisecond period that overrides the default.
func parseManualSuffix(colour light.Color, rest []string, defaultPeriodMS int) (Command, error) {
	action := light.Action{Mode: light.ModeSolid, Color: colour, PeriodMS: defaultPeriodMS}
	if len(rest) == 0 {
		return Manual(action), nil
	}

	mode, ok := light.ParseMode(rest[0])
	if !ok {
		return Command{}, newErr(CodeUnknownMode, rest[0])
	}
	action.Mode = mode
	rest = rest[1:]

	// Only pulse and blink take an explicit period token.
	if len(rest) > 0 && (mode == light.ModePulse || mode == light.ModeBlink) {
		period, err := strconv.Atoi(rest[0])
		if err != nil || period < 0 {
			return Command{}, newErr(CodeInvalidPeriod, rest[0])
		}
		action.PeriodMS = period
		rest = rest[1:]
	}

	return fixed(Manual(action), rest)
}
