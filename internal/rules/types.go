package rules

import (
	"time"

	"github.com/nerrad567/busylight-core/internal/light"
)

// Rule binds a signal expression to a lighting action.
//
// Rules are evaluated in SortOrder (priority) order; the first enabled
// rule whose expression matches the live snapshot wins.
type Rule struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Enabled rules participate in evaluation; disabled rules are
	// skipped but kept for re-enabling.
	Enabled bool `json:"enabled"`

	// Expression is the boolean predicate over live signals.
	Expression Expression `json:"expression"`

	// Action is the lighting output while this rule is the winner.
	Action light.Action `json:"action"`

	// Evaluation priority; lower sorts first.
	SortOrder int `json:"sort_order"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns an independent copy of the rule. Slice fields are
// duplicated so modifications to the copy never reach the cache.
func (r *Rule) Clone() *Rule {
	if r == nil {
		return nil
	}

	cpy := *r

	if r.Expression.Conditions != nil {
		cpy.Expression.Conditions = make([]Condition, len(r.Expression.Conditions))
		copy(cpy.Expression.Conditions, r.Expression.Conditions)
	}
	if r.Expression.Operators != nil {
		cpy.Expression.Operators = make([]Operator, len(r.Expression.Operators))
		copy(cpy.Expression.Operators, r.Expression.Operators)
	}

	return &cpy
}
