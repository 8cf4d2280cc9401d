package rules

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nerrad567/busylight-core/internal/light"
)

// maxNameLength bounds rule names for UI display.
const maxNameLength = 100

// ValidateRule checks a rule before persistence.
//
// Expression invariants are normally guaranteed by construction; this
// validation exists for rules arriving from external authors (API
// payloads, hand-edited database rows) that bypass the mutators.
//
// Returns:
//   - error: ErrInvalidName, ErrInvalidExpression, or ErrInvalidAction
//     (wrapped with detail), or nil if valid
func ValidateRule(r *Rule) error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(r.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}

	if err := validateExpression(r.Expression); err != nil {
		return err
	}

	return validateAction(r.Action)
}

// validateExpression checks the structural invariants of an externally
// supplied expression.
func validateExpression(e Expression) error {
	seen := make(map[Signal]bool, len(e.Conditions))
	for _, c := range e.Conditions {
		if !c.Signal.Valid() {
			return fmt.Errorf("%w: unknown signal %q", ErrInvalidExpression, c.Signal)
		}
		if seen[c.Signal] {
			return fmt.Errorf("%w: duplicate signal %q", ErrInvalidExpression, c.Signal)
		}
		seen[c.Signal] = true
	}

	want := len(e.Conditions) - 1
	if want < 0 {
		want = 0
	}
	if len(e.Operators) != want {
		return fmt.Errorf("%w: %d operators for %d conditions",
			ErrInvalidExpression, len(e.Operators), len(e.Conditions))
	}

	uniform := e.LogicalOperator()
	for _, op := range e.Operators {
		if !op.Valid() {
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidExpression, op)
		}
		if op != uniform {
			return fmt.Errorf("%w: mixed operators", ErrInvalidExpression)
		}
	}

	return nil
}

// validateAction checks a rule's lighting action.
func validateAction(a light.Action) error {
	switch a.Mode {
	case light.ModeSolid, light.ModePulse, light.ModeBlink, light.ModeOff:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidAction, a.Mode)
	}
	if a.PeriodMS < 0 {
		return fmt.Errorf("%w: negative period %d", ErrInvalidAction, a.PeriodMS)
	}
	return nil
}

// GenerateID creates a new UUID for a rule.
func GenerateID() string {
	return uuid.New().String()
}
