package light

import (
	"errors"
	"testing"
)

func TestColorByName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Color
		wantOK bool
	}{
		{"red", "red", Red, true},
		{"uppercase", "RED", Red, true},
		{"mixed case", "Orange", Orange, true},
		{"magenta", "magenta", Color{255, 0, 255}, true},
		{"black", "black", Black, true},
		{"unknown", "sparkle", Color{}, false},
		{"empty", "", Color{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ColorByName(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ColorByName(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ColorByName(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Color
		wantErr bool
	}{
		{"plain", "ff00aa", Color{255, 0, 170}, false},
		{"hash prefix", "#ff00aa", Color{255, 0, 170}, false},
		{"uppercase", "FF00AA", Color{255, 0, 170}, false},
		{"black", "000000", Black, false},
		{"white", "ffffff", White, false},
		{"too short", "fff", Color{}, true},
		{"too long", "ff00aa00", Color{}, true},
		{"non-hex digits", "zzzzzz", Color{}, true},
		{"hash only", "#", Color{}, true},
		{"empty", "", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ColorFromHex(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHex) {
					t.Fatalf("ColorFromHex(%q) error = %v, want ErrInvalidHex", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ColorFromHex(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ColorFromHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	c := Color{R: 18, G: 52, B: 86}
	hex := c.Hex()
	if hex != "#123456" {
		t.Fatalf("Hex() = %q, want %q", hex, "#123456")
	}
	back, err := ColorFromHex(hex)
	if err != nil {
		t.Fatalf("ColorFromHex(%q) error = %v", hex, err)
	}
	if back != c {
		t.Errorf("round trip = %+v, want %+v", back, c)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input  string
		want   Mode
		wantOK bool
	}{
		{"solid", ModeSolid, true},
		{"pulse", ModePulse, true},
		{"blink", ModeBlink, true},
		{"BLINK", ModeBlink, true},
		{"off", "", false}, // off is a command, not a mode token
		{"strobe", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseMode(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseMode(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestOffAction(t *testing.T) {
	off := Off()
	if !off.IsOff() {
		t.Error("Off().IsOff() = false")
	}
	if off.Color != Black || off.PeriodMS != OffPeriodMS {
		t.Errorf("Off() = %+v", off)
	}
	solid := Action{Mode: ModeSolid, Color: Red, PeriodMS: 600}
	if solid.IsOff() {
		t.Error("solid action reported as off")
	}
}
