package rules

import "errors"

// Domain errors for the rules package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, rules.ErrRuleNotFound) {
//	    // handle not found case
//	}
var (
	// ErrRuleNotFound is returned when a rule ID does not exist.
	ErrRuleNotFound = errors.New("rules: not found")

	// ErrRuleExists is returned when creating a rule with an ID that already exists.
	ErrRuleExists = errors.New("rules: already exists")

	// ErrInvalidRule is returned when rule validation fails.
	ErrInvalidRule = errors.New("rules: invalid")

	// ErrInvalidName is returned when a rule name is empty or too long.
	ErrInvalidName = errors.New("rules: invalid name")

	// ErrInvalidExpression is returned when a persisted expression has an
	// unknown signal or operator.
	ErrInvalidExpression = errors.New("rules: invalid expression")

	// ErrInvalidAction is returned when a rule action is invalid.
	ErrInvalidAction = errors.New("rules: invalid action")
)
