package command

import (
	"errors"
	"net/http"
	"testing"

	"github.com/nerrad567/busylight-core/internal/light"
)

const testDefaultPeriod = 600

func TestParseQueries(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Command
	}{
		{"bare resource is state", "/v1/busylight", State()},
		{"trailing slash", "/v1/busylight/", State()},
		{"state", "/v1/busylight/state", State()},
		{"logs", "/v1/busylight/logs", Logs()},
		{"log alias", "/v1/busylight/log", Logs()},
		{"auto", "/v1/busylight/auto", Auto()},
		{"rules on", "/v1/busylight/rules/on", Rules(true)},
		{"rules off", "/v1/busylight/rules/off", Rules(false)},
		{"case insensitive", "/V1/Busylight/STATE", State()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.path, testDefaultPeriod)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseManual(t *testing.T) {
	tests := []struct {
		name string
		path string
		want light.Action
	}{
		{
			name: "named colour defaults solid",
			path: "/v1/busylight/red",
			want: light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: testDefaultPeriod},
		},
		{
			name: "named colour with mode",
			path: "/v1/busylight/green/blink",
			want: light.Action{Mode: light.ModeBlink, Color: light.Green, PeriodMS: testDefaultPeriod},
		},
		{
			name: "named colour with mode and period",
			path: "/v1/busylight/blue/pulse/250",
			want: light.Action{Mode: light.ModePulse, Color: light.Blue, PeriodMS: 250},
		},
		{
			name: "hex colour",
			path: "/v1/busylight/hex/ff00aa",
			want: light.Action{Mode: light.ModeSolid, Color: light.Color{R: 255, G: 0, B: 170}, PeriodMS: testDefaultPeriod},
		},
		{
			name: "hex colour with hash",
			path: "/v1/busylight/hex/#ff00aa/pulse/500",
			want: light.Action{Mode: light.ModePulse, Color: light.Color{R: 255, G: 0, B: 170}, PeriodMS: 500},
		},
		{
			name: "rgb components",
			path: "/v1/busylight/rgb/255/0/170",
			want: light.Action{Mode: light.ModeSolid, Color: light.Color{R: 255, G: 0, B: 170}, PeriodMS: testDefaultPeriod},
		},
		{
			name: "rgb with mode and period",
			path: "/v1/busylight/rgb/0/255/0/blink/100",
			want: light.Action{Mode: light.ModeBlink, Color: light.Green, PeriodMS: 100},
		},
		{
			name: "solid takes no period token",
			path: "/v1/busylight/red/solid",
			want: light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: testDefaultPeriod},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.path, testDefaultPeriod)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.path, err)
			}
			if got.Kind != KindManual {
				t.Fatalf("Parse(%q).Kind = %q, want manual", tt.path, got.Kind)
			}
			if got.Action != tt.want {
				t.Errorf("Parse(%q).Action = %+v, want %+v", tt.path, got.Action, tt.want)
			}
		})
	}
}

func TestParseOff(t *testing.T) {
	// Off is a fixed production: the period is pinned and trailing
	// tokens are ignored so stale shortcuts still switch off.
	tests := []string{
		"/v1/busylight/off",
		"/v1/busylight/off/blink",
		"/v1/busylight/off/blink/500/extra",
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			got, err := Parse(path, 1234)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", path, err)
			}
			want := Manual(light.Off())
			if got != want {
				t.Errorf("Parse(%q) = %+v, want %+v", path, got, want)
			}
			if got.Action.PeriodMS != light.OffPeriodMS {
				t.Errorf("off period = %d, want %d", got.Action.PeriodMS, light.OffPeriodMS)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantCode   Code
		wantStatus int
	}{
		{"wrong prefix", "/v2/busylight/red", CodeUnknownResource, http.StatusNotFound},
		{"missing resource", "/v1", CodeUnknownResource, http.StatusNotFound},
		{"empty path", "", CodeUnknownResource, http.StatusNotFound},
		{"rules without state", "/v1/busylight/rules", CodeMissingRulesState, http.StatusBadRequest},
		{"rules bad state", "/v1/busylight/rules/maybe", CodeInvalidRulesState, http.StatusBadRequest},
		{"unknown colour", "/v1/busylight/sparkle", CodeUnknownColour, http.StatusBadRequest},
		{"hex without colour", "/v1/busylight/hex", CodeMissingHexColour, http.StatusBadRequest},
		{"hex bad colour", "/v1/busylight/hex/zzz", CodeInvalidHexColour, http.StatusBadRequest},
		{"rgb too few", "/v1/busylight/rgb/255/0", CodeMissingRGBComponents, http.StatusBadRequest},
		{"rgb out of range", "/v1/busylight/rgb/256/0/0", CodeInvalidRGBComponent, http.StatusBadRequest},
		{"rgb negative", "/v1/busylight/rgb/-1/0/0", CodeInvalidRGBComponent, http.StatusBadRequest},
		{"rgb non-numeric", "/v1/busylight/rgb/red/0/0", CodeInvalidRGBComponent, http.StatusBadRequest},
		{"unknown mode", "/v1/busylight/red/strobe", CodeUnknownMode, http.StatusBadRequest},
		{"bad period", "/v1/busylight/red/blink/soon", CodeInvalidPeriod, http.StatusBadRequest},
		{"negative period", "/v1/busylight/red/blink/-5", CodeInvalidPeriod, http.StatusBadRequest},
		{"surplus after state", "/v1/busylight/state/extra", CodeTooManySegments, http.StatusBadRequest},
		{"surplus after period", "/v1/busylight/red/blink/500/extra", CodeTooManySegments, http.StatusBadRequest},
		{"surplus after rules", "/v1/busylight/rules/on/extra", CodeTooManySegments, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.path, testDefaultPeriod)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want %s", tt.path, tt.wantCode)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Parse(%q) error = %T, want *ParseError", tt.path, err)
			}
			if parseErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", parseErr.Code, tt.wantCode)
			}
			if parseErr.Status() != tt.wantStatus {
				t.Errorf("status = %d, want %d", parseErr.Status(), tt.wantStatus)
			}
		})
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Command
		wantErr bool
	}{
		{
			name: "host as resource",
			raw:  "busylight://busylight/red",
			want: Manual(light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: testDefaultPeriod}),
		},
		{
			name: "host as version prefix",
			raw:  "busylight://v1/busylight/auto",
			want: Auto(),
		},
		{
			name: "percent-decoded hex",
			raw:  "busylight://busylight/hex/%23ff00aa/pulse/500",
			want: Manual(light.Action{Mode: light.ModePulse, Color: light.Color{R: 255, G: 0, B: 170}, PeriodMS: 500}),
		},
		{
			name:    "unknown host",
			raw:     "busylight://other/red",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.raw, testDefaultPeriod)
			if tt.wantErr {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) || parseErr.Code != CodeUnknownResource {
					t.Fatalf("ParseURL(%q) error = %v, want unknown_resource", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURL(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseURL(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := newErr(CodeInvalidPeriod, "soon")
	if err.Error() != `command: invalid_period: "soon"` {
		t.Errorf("Error() = %q", err.Error())
	}
	structural := newErr(CodeMissingRulesState, "")
	if structural.Error() != "command: missing_rules_state" {
		t.Errorf("Error() = %q", structural.Error())
	}
}
