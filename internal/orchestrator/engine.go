package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/busylight-core/internal/command"
	"github.com/nerrad567/busylight-core/internal/light"
	"github.com/nerrad567/busylight-core/internal/rules"
)

// RuleSource provides the ordered rule list for evaluation.
// rules.Registry satisfies this interface.
type RuleSource interface {
	List(ctx context.Context) ([]rules.Rule, error)
}

// IntervalRecorder receives closed active intervals.
// metrics.Store satisfies this interface.
type IntervalRecorder interface {
	RecordInterval(ctx context.Context, ruleID string, startMS, endMS int64)
}

// SettingsStore persists daemon settings across restarts.
type SettingsStore interface {
	Save(ctx context.Context, s Settings) error
}

// Settings is the persisted daemon state restored on startup.
type Settings struct {
	Enabled   bool         `json:"enabled"`
	RulesMode bool         `json:"rules_mode"`
	Manual    light.Action `json:"manual"`
}

// Logger defines the logging interface used by the Engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// activeState is the per-evaluation-stream state machine:
// Idle (active == false) or ActiveSince(ruleID, since).
type activeState struct {
	active bool
	ruleID string
	since  time.Time
}

// Deps holds the dependencies required by the Engine.
type Deps struct {
	Rules    RuleSource
	Recorder IntervalRecorder
	Device   *Driver
	Settings SettingsStore // optional
	Logger   Logger        // optional
	Now      func() time.Time

	// Hello enables the greeting animation on device attach.
	Hello bool
}

// Engine is the decision orchestrator.
//
// All state lives behind one mutex; evaluation is synchronous and
// serialised. Read queries (State, RecentLogs) take the same lock
// briefly so they observe a consistent, non-torn snapshot.
type Engine struct {
	mu sync.Mutex

	enabled   bool
	rulesMode bool
	manual    light.Action
	snapshot  rules.Snapshot
	state     activeState
	current   light.Action
	applied   bool

	ruleSource RuleSource
	recorder   IntervalRecorder
	device     *Driver
	settings   SettingsStore
	logger     Logger
	now        func() time.Time
	logs       *logRing
	hello      bool
}

// NewEngine creates a decision engine. The engine starts disabled with
// rules mode off and an off manual action; call Restore to apply
// persisted settings, then Evaluate.
func NewEngine(deps Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		manual:     light.Off(),
		ruleSource: deps.Rules,
		recorder:   deps.Recorder,
		device:     deps.Device,
		settings:   deps.Settings,
		logger:     logger,
		now:        now,
		logs:       newLogRing(logRingCapacity),
		hello:      deps.Hello,
	}
}

// Restore applies persisted settings without writing them back.
func (e *Engine) Restore(ctx context.Context, s Settings) {
	e.mu.Lock()
	e.enabled = s.Enabled
	e.rulesMode = s.RulesMode
	e.manual = s.Manual
	e.evaluateLocked(ctx)
	e.mu.Unlock()
}

// Evaluate runs one decision pass against the current snapshot.
func (e *Engine) Evaluate(ctx context.Context) {
	e.mu.Lock()
	e.evaluateLocked(ctx)
	e.mu.Unlock()
}

// SetSnapshot replaces the live signal snapshot and re-evaluates.
// A newer snapshot always supersedes the previous one.
func (e *Engine) SetSnapshot(ctx context.Context, snap rules.Snapshot) {
	e.mu.Lock()
	if e.snapshot != snap {
		e.snapshot = snap
		e.evaluateLocked(ctx)
	}
	e.mu.Unlock()
}

// SetSignal updates a single signal in the live snapshot and
// re-evaluates if the value changed.
func (e *Engine) SetSignal(ctx context.Context, sig rules.Signal, value bool) {
	e.mu.Lock()
	snap := e.snapshot
	switch sig {
	case rules.SignalMicrophone:
		snap.Microphone = value
	case rules.SignalCamera:
		snap.Camera = value
	case rules.SignalScreenRecording:
		snap.ScreenRecording = value
	case rules.SignalMusic:
		snap.Music = value
	}
	if snap != e.snapshot {
		e.snapshot = snap
		e.logs.addf(e.now(), "signal %s -> %t", sig, value)
		e.evaluateLocked(ctx)
	}
	e.mu.Unlock()
}

// SetEnabled turns the whole daemon output on or off.
func (e *Engine) SetEnabled(ctx context.Context, enabled bool) {
	e.mu.Lock()
	if e.enabled != enabled {
		e.enabled = enabled
		e.persistLocked(ctx)
		e.evaluateLocked(ctx)
	}
	e.mu.Unlock()
}

// Apply executes a parsed command.
//
// State and logs commands are read-only queries served by State and
// RecentLogs; Apply treats them as no-ops so the control plane can route
// every command through one entry point.
func (e *Engine) Apply(ctx context.Context, cmd command.Command) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch cmd.Kind {
	case command.KindAuto:
		e.rulesMode = true
		e.logs.addf(e.now(), "auto mode requested")
	case command.KindRules:
		e.rulesMode = cmd.RulesEnabled
		e.logs.addf(e.now(), "rules mode set to %t", cmd.RulesEnabled)
	case command.KindManual:
		// A manual action takes over: rules stop driving the light
		// until rules mode is re-enabled.
		e.manual = cmd.Action
		e.rulesMode = false
		e.logs.addf(e.now(), "manual action %s %s", cmd.Action.Mode, cmd.Action.Color.Hex())
	case command.KindState, command.KindLogs:
		return
	}

	e.persistLocked(ctx)
	e.evaluateLocked(ctx)
}

// RulesChanged re-evaluates after rule CRUD. The registry cache already
// reflects the change; the engine only needs a fresh decision.
func (e *Engine) RulesChanged(ctx context.Context) {
	e.Evaluate(ctx)
}

// State is a consistent read-only view of the engine.
type State struct {
	Enabled       bool           `json:"enabled"`
	RulesMode     bool           `json:"rules_mode"`
	Manual        light.Action   `json:"manual"`
	Current       light.Action   `json:"current"`
	Snapshot      rules.Snapshot `json:"snapshot"`
	ActiveRuleID  string         `json:"active_rule_id,omitempty"`
	ActiveSinceMS int64          `json:"active_since_ms,omitempty"`
}

// State returns a non-torn snapshot of the engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		Enabled:   e.enabled,
		RulesMode: e.rulesMode,
		Manual:    e.manual,
		Current:   e.current,
		Snapshot:  e.snapshot,
	}
	if e.state.active {
		st.ActiveRuleID = e.state.ruleID
		st.ActiveSinceMS = e.state.since.UnixMilli()
	}
	return st
}

// RecentLogs returns the most recent decision log lines, oldest first.
func (e *Engine) RecentLogs() []string {
	return e.logs.lines()
}

// Close stops any running animation and blanks the device.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.device != nil {
		e.device.Stop()
	}
}

// evaluateLocked is the decision core. Callers hold e.mu.
func (e *Engine) evaluateLocked(ctx context.Context) {
	now := e.now()

	if !e.enabled {
		e.closeIntervalLocked(ctx, now)
		e.applyLocked(light.Off())
		return
	}

	if !e.rulesMode {
		e.closeIntervalLocked(ctx, now)
		e.applyLocked(e.manual)
		return
	}

	ruleList, err := e.ruleSource.List(ctx)
	if err != nil {
		// Keep the current output rather than flickering to off on a
		// transient registry failure.
		e.logger.Error("listing rules for evaluation", "error", err)
		return
	}

	var winner *rules.Rule
	for i := range ruleList {
		if ruleList[i].Enabled && ruleList[i].Expression.Evaluate(e.snapshot) {
			winner = &ruleList[i]
			break
		}
	}

	if winner == nil {
		if e.state.active {
			e.logs.addf(now, "no rule matched; idle")
		}
		e.closeIntervalLocked(ctx, now)
		e.applyLocked(light.Off())
		return
	}

	if e.state.active && e.state.ruleID == winner.ID {
		// Same winner; the action may still have been edited.
		e.applyLocked(winner.Action)
		return
	}

	e.closeIntervalLocked(ctx, now)
	e.state = activeState{active: true, ruleID: winner.ID, since: now}
	e.logs.addf(now, "rule %q activated", winner.Name)
	e.logger.Debug("rule activated", "rule_id", winner.ID, "rule_name", winner.Name)
	e.applyLocked(winner.Action)
}

// closeIntervalLocked closes an open active interval, if any, recording
// it with the metrics store. Callers hold e.mu.
func (e *Engine) closeIntervalLocked(ctx context.Context, now time.Time) {
	if !e.state.active {
		return
	}
	if e.recorder != nil {
		e.recorder.RecordInterval(ctx, e.state.ruleID, e.state.since.UnixMilli(), now.UnixMilli())
	}
	e.logs.addf(now, "rule interval closed after %s", now.Sub(e.state.since).Round(time.Millisecond))
	e.state = activeState{}
}

// applyLocked hands the chosen action to the device driver.
// Re-applying an unchanged action is a no-op so blink/pulse animations
// are not restarted by every evaluation. Callers hold e.mu.
func (e *Engine) applyLocked(action light.Action) {
	if e.applied && action == e.current {
		return
	}
	e.current = action
	e.applied = true
	if e.device != nil {
		e.device.Apply(action)
	}
}

// persistLocked writes the current settings through the settings store.
// Persistence failures are logged; the in-memory state is authoritative
// for the running process. Callers hold e.mu.
func (e *Engine) persistLocked(ctx context.Context) {
	if e.settings == nil {
		return
	}
	s := Settings{Enabled: e.enabled, RulesMode: e.rulesMode, Manual: e.manual}
	if err := e.settings.Save(ctx, s); err != nil {
		e.logger.Error("persisting settings", "error", err)
	}
}
