package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/nerrad567/busylight-core/internal/command"
	"github.com/nerrad567/busylight-core/internal/light"
	"github.com/nerrad567/busylight-core/internal/rules"
)

// ─── Mock Dependencies ───────────────────────────────────────────────────────

type mockRuleSource struct {
	rules []rules.Rule
	err   error
}

func (m *mockRuleSource) List(_ context.Context) ([]rules.Rule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rules, nil
}

type recordedInterval struct {
	ruleID  string
	startMS int64
	endMS   int64
}

type mockRecorder struct {
	intervals []recordedInterval
}

func (m *mockRecorder) RecordInterval(_ context.Context, ruleID string, startMS, endMS int64) {
	m.intervals = append(m.intervals, recordedInterval{ruleID, startMS, endMS})
}

type mockSettings struct {
	saved []Settings
}

func (m *mockSettings) Save(_ context.Context, s Settings) error {
	m.saved = append(m.saved, s)
	return nil
}

// fakeClock steps time forward a fixed amount per call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// ─── Test Setup ──────────────────────────────────────────────────────────────

func cameraRule(id string, action light.Action) rules.Rule {
	return rules.Rule{
		ID:      id,
		Name:    "camera " + id,
		Enabled: true,
		Expression: rules.Expression{
			Conditions: []rules.Condition{{Signal: rules.SignalCamera, Expected: true}},
		},
		Action: action,
	}
}

func newTestEngine(t *testing.T, src *mockRuleSource) (*Engine, *mockRecorder, *mockSettings) {
	t.Helper()

	recorder := &mockRecorder{}
	settings := &mockSettings{}
	clock := &fakeClock{now: time.UnixMilli(1_000_000), step: time.Second}

	engine := NewEngine(Deps{
		Rules:    src,
		Recorder: recorder,
		Settings: settings,
		Now:      clock.Now,
		Hello:    true,
	})
	engine.Restore(context.Background(), Settings{Enabled: true, RulesMode: true, Manual: light.Off()})
	return engine, recorder, settings
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestEngineRuleActivation(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	src := &mockRuleSource{rules: []rules.Rule{cameraRule("r1", red)}}
	engine, recorder, _ := newTestEngine(t, src)

	state := engine.State()
	if state.ActiveRuleID != "" || state.Current != light.Off() {
		t.Fatalf("initial state = %+v", state)
	}

	engine.SetSignal(ctx, rules.SignalCamera, true)

	state = engine.State()
	if state.ActiveRuleID != "r1" {
		t.Errorf("ActiveRuleID = %q, want r1", state.ActiveRuleID)
	}
	if state.Current != red {
		t.Errorf("Current = %+v, want %+v", state.Current, red)
	}
	if state.ActiveSinceMS == 0 {
		t.Error("ActiveSinceMS not set")
	}
	if len(recorder.intervals) != 0 {
		t.Errorf("interval closed while rule still active: %v", recorder.intervals)
	}
}

func TestEngineIntervalClosedOnDeactivation(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	src := &mockRuleSource{rules: []rules.Rule{cameraRule("r1", red)}}
	engine, recorder, _ := newTestEngine(t, src)

	engine.SetSignal(ctx, rules.SignalCamera, true)
	engine.SetSignal(ctx, rules.SignalCamera, false)

	if len(recorder.intervals) != 1 {
		t.Fatalf("intervals = %v, want exactly one", recorder.intervals)
	}
	iv := recorder.intervals[0]
	if iv.ruleID != "r1" {
		t.Errorf("ruleID = %q, want r1", iv.ruleID)
	}
	if iv.endMS <= iv.startMS {
		t.Errorf("interval not positive: %+v", iv)
	}

	state := engine.State()
	if state.ActiveRuleID != "" || state.Current != light.Off() {
		t.Errorf("state after deactivation = %+v", state)
	}
}

func TestEngineFirstMatchWins(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	green := light.Action{Mode: light.ModeSolid, Color: light.Green, PeriodMS: 600}
	src := &mockRuleSource{rules: []rules.Rule{
		cameraRule("first", red),
		cameraRule("second", green),
	}}
	engine, _, _ := newTestEngine(t, src)

	engine.SetSignal(ctx, rules.SignalCamera, true)

	state := engine.State()
	if state.ActiveRuleID != "first" {
		t.Errorf("ActiveRuleID = %q, want first", state.ActiveRuleID)
	}
}

func TestEngineDisabledRuleSkipped(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	disabled := cameraRule("off", red)
	disabled.Enabled = false
	green := light.Action{Mode: light.ModeSolid, Color: light.Green, PeriodMS: 600}
	src := &mockRuleSource{rules: []rules.Rule{disabled, cameraRule("on", green)}}
	engine, _, _ := newTestEngine(t, src)

	engine.SetSignal(ctx, rules.SignalCamera, true)

	if state := engine.State(); state.ActiveRuleID != "on" {
		t.Errorf("ActiveRuleID = %q, want on", state.ActiveRuleID)
	}
}

func TestEngineSameWinnerKeepsInterval(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	src := &mockRuleSource{rules: []rules.Rule{cameraRule("r1", red)}}
	engine, recorder, _ := newTestEngine(t, src)

	engine.SetSignal(ctx, rules.SignalCamera, true)
	before := engine.State().ActiveSinceMS

	// An unrelated signal change re-evaluates; the winner is unchanged.
	engine.SetSignal(ctx, rules.SignalMusic, true)

	after := engine.State().ActiveSinceMS
	if after != before {
		t.Errorf("ActiveSinceMS restarted: %d -> %d", before, after)
	}
	if len(recorder.intervals) != 0 {
		t.Errorf("interval closed on unchanged winner: %v", recorder.intervals)
	}
}

func TestEngineWinnerSwitchClosesInterval(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	green := light.Action{Mode: light.ModeSolid, Color: light.Green, PeriodMS: 600}

	micRule := rules.Rule{
		ID:      "mic",
		Name:    "mic",
		Enabled: true,
		Expression: rules.Expression{
			Conditions: []rules.Condition{{Signal: rules.SignalMicrophone, Expected: true}},
		},
		Action: green,
	}
	src := &mockRuleSource{rules: []rules.Rule{micRule, cameraRule("cam", red)}}
	engine, recorder, _ := newTestEngine(t, src)

	engine.SetSignal(ctx, rules.SignalCamera, true)
	if engine.State().ActiveRuleID != "cam" {
		t.Fatalf("ActiveRuleID = %q, want cam", engine.State().ActiveRuleID)
	}

	// Mic rule is listed first; raising mic switches the winner.
	engine.SetSignal(ctx, rules.SignalMicrophone, true)

	if engine.State().ActiveRuleID != "mic" {
		t.Errorf("ActiveRuleID = %q, want mic", engine.State().ActiveRuleID)
	}
	if len(recorder.intervals) != 1 || recorder.intervals[0].ruleID != "cam" {
		t.Errorf("intervals = %v, want one closed cam interval", recorder.intervals)
	}
}

func TestEngineManualOverride(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	src := &mockRuleSource{rules: []rules.Rule{cameraRule("r1", red)}}
	engine, recorder, settings := newTestEngine(t, src)

	engine.SetSignal(ctx, rules.SignalCamera, true)

	blue := light.Action{Mode: light.ModePulse, Color: light.Blue, PeriodMS: 500}
	engine.Apply(ctx, command.Manual(blue))

	state := engine.State()
	if state.RulesMode {
		t.Error("manual action left rules mode on")
	}
	if state.Current != blue || state.Manual != blue {
		t.Errorf("state = %+v", state)
	}
	if state.ActiveRuleID != "" {
		t.Error("rule still active under manual override")
	}
	if len(recorder.intervals) != 1 {
		t.Errorf("manual override did not close the interval: %v", recorder.intervals)
	}
	if len(settings.saved) == 0 {
		t.Error("manual action not persisted")
	}
	last := settings.saved[len(settings.saved)-1]
	if last.RulesMode || last.Manual != blue {
		t.Errorf("persisted settings = %+v", last)
	}
}

func TestEngineAutoRestoresRules(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	src := &mockRuleSource{rules: []rules.Rule{cameraRule("r1", red)}}
	engine, _, _ := newTestEngine(t, src)

	engine.SetSignal(ctx, rules.SignalCamera, true)
	engine.Apply(ctx, command.Manual(light.Action{Mode: light.ModeSolid, Color: light.Blue, PeriodMS: 600}))
	engine.Apply(ctx, command.Auto())

	state := engine.State()
	if !state.RulesMode {
		t.Error("auto did not restore rules mode")
	}
	if state.ActiveRuleID != "r1" || state.Current != red {
		t.Errorf("state after auto = %+v", state)
	}
}

func TestEngineDisabled(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	src := &mockRuleSource{rules: []rules.Rule{cameraRule("r1", red)}}
	engine, recorder, _ := newTestEngine(t, src)

	engine.SetSignal(ctx, rules.SignalCamera, true)
	engine.SetEnabled(ctx, false)

	state := engine.State()
	if state.Enabled {
		t.Error("still enabled")
	}
	if state.Current != light.Off() {
		t.Errorf("Current = %+v, want off", state.Current)
	}
	if len(recorder.intervals) != 1 {
		t.Errorf("disable did not close the interval: %v", recorder.intervals)
	}

	// Signals still update the snapshot but cannot light the device.
	engine.SetSignal(ctx, rules.SignalCamera, false)
	engine.SetSignal(ctx, rules.SignalCamera, true)
	if engine.State().Current != light.Off() {
		t.Error("disabled engine lit the device")
	}
}

func TestEngineStateAndLogsAreNoOps(t *testing.T) {
	ctx := context.Background()
	src := &mockRuleSource{}
	engine, _, settings := newTestEngine(t, src)
	saves := len(settings.saved)

	engine.Apply(ctx, command.State())
	engine.Apply(ctx, command.Logs())

	if len(settings.saved) != saves {
		t.Error("read-only command persisted settings")
	}
}

func TestEngineRuleSourceFailureKeepsOutput(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	src := &mockRuleSource{rules: []rules.Rule{cameraRule("r1", red)}}
	engine, _, _ := newTestEngine(t, src)

	engine.SetSignal(ctx, rules.SignalCamera, true)

	src.err = context.DeadlineExceeded
	engine.SetSignal(ctx, rules.SignalMusic, true)

	// Transient registry failure must not flicker the light off.
	if engine.State().Current != red {
		t.Errorf("Current = %+v, want %+v held", engine.State().Current, red)
	}
}

func TestEngineRecentLogs(t *testing.T) {
	ctx := context.Background()
	red := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	src := &mockRuleSource{rules: []rules.Rule{cameraRule("r1", red)}}
	engine, _, _ := newTestEngine(t, src)

	engine.SetSignal(ctx, rules.SignalCamera, true)

	logs := engine.RecentLogs()
	if len(logs) == 0 {
		t.Fatal("no decision log lines")
	}
}

func TestShouldRunConnectHello(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		added   int
		want    bool
	}{
		{"enabled with device", true, 1, true},
		{"enabled multiple devices", true, 3, true},
		{"enabled nothing added", true, 0, false},
		{"disabled with device", false, 1, false},
		{"disabled nothing added", false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRunConnectHello(tt.enabled, tt.added); got != tt.want {
				t.Errorf("ShouldRunConnectHello(%v, %d) = %v, want %v", tt.enabled, tt.added, got, tt.want)
			}
		})
	}
}

func TestIsActiveOutputProcess(t *testing.T) {
	one := 1
	zero := 0
	pid := 321
	ownPID := 999
	bundle := "com.example.player"

	tests := []struct {
		name          string
		outputRunning *int
		ioRunning     *int
		pid           *int
		want          bool
	}{
		{"active player", &one, &one, &pid, true},
		{"output stopped", &zero, &one, &pid, false},
		{"io stopped", &one, &zero, &pid, false},
		{"missing output", nil, &one, &pid, false},
		{"missing io", &one, nil, &pid, false},
		{"missing pid", &one, &one, nil, false},
		{"own pid excluded", &one, &one, &ownPID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActiveOutputProcess(tt.outputRunning, tt.ioRunning, tt.pid, ownPID, &bundle); got != tt.want {
				t.Errorf("IsActiveOutputProcess() = %v, want %v", got, tt.want)
			}
			// bundleID is reserved; nil must behave identically.
			if got := IsActiveOutputProcess(tt.outputRunning, tt.ioRunning, tt.pid, ownPID, nil); got != tt.want {
				t.Errorf("IsActiveOutputProcess(nil bundle) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngineDeviceAttachedGreeting(t *testing.T) {
	ctx := context.Background()
	src := &mockRuleSource{}
	engine, _, _ := newTestEngine(t, src)

	before := len(engine.RecentLogs())
	engine.DeviceAttached(ctx, 1)
	if len(engine.RecentLogs()) <= before {
		t.Error("attach with device did not log a greeting")
	}

	before = len(engine.RecentLogs())
	engine.DeviceAttached(ctx, 0)
	if len(engine.RecentLogs()) != before {
		t.Error("attach with zero devices logged a greeting")
	}
}

func TestEngineGreetingDisabled(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(Deps{Rules: &mockRuleSource{}})
	engine.Restore(ctx, Settings{Enabled: true, RulesMode: true, Manual: light.Off()})

	before := len(engine.RecentLogs())
	engine.DeviceAttached(ctx, 1)
	if len(engine.RecentLogs()) != before {
		t.Error("greeting ran despite being disabled")
	}
}
