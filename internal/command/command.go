package command

import "github.com/nerrad567/busylight-core/internal/light"

// Kind identifies which production a Command came from.
type Kind string

const (
	// KindState requests the current daemon state.
	KindState Kind = "state"

	// KindLogs requests recent decision log lines.
	KindLogs Kind = "logs"

	// KindAuto switches the daemon back to rule-driven output.
	KindAuto Kind = "auto"

	// KindRules toggles rules mode on or off.
	KindRules Kind = "rules"

	// KindManual sets a manual lighting action.
	KindManual Kind = "manual"
)

// Command is the tagged result of a successful parse. Only the fields
// belonging to the Kind are meaningful.
type Command struct {
	Kind Kind

	// RulesEnabled carries the rules(bool) argument. Valid for KindRules.
	RulesEnabled bool

	// Action carries the manual lighting action. Valid for KindManual.
	Action light.Action
}

// State returns the state query command.
func State() Command { return Command{Kind: KindState} }

// Logs returns the log query command.
func Logs() Command { return Command{Kind: KindLogs} }

// Auto returns the auto (rule-driven) command.
func Auto() Command { return Command{Kind: KindAuto} }

// Rules returns the rules-mode toggle command.
func Rules(enabled bool) Command {
	return Command{Kind: KindRules, RulesEnabled: enabled}
}

// Manual returns a manual action command.
func Manual(action light.Action) Command {
	return Command{Kind: KindManual, Action: action}
}
