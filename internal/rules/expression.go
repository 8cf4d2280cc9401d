package rules

// Operator is the logical operator joining expression conditions.
type Operator string

const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
)

// Valid reports whether the operator is AND or OR.
func (o Operator) Valid() bool {
	return o == OperatorAnd || o == OperatorOr
}

// Condition tests a single signal against an expected value.
type Condition struct {
	Signal   Signal `json:"signal"`
	Expected bool   `json:"expected"`
}

// Expression is a boolean predicate over signals.
//
// Operators are stored per link (one entry between each pair of adjacent
// conditions) for forward compatibility, but every entry is identical:
// mixed AND/OR within one expression is forbidden by construction, and
// evaluation is always a single left fold with the uniform operator.
type Expression struct {
	Conditions []Condition `json:"conditions"`
	Operators  []Operator  `json:"operators"`
}

// Canonicalize returns the unique normal form of an expression:
//
//   - Duplicate signals are deduplicated, the later entry's expected
//     value winning.
//   - Conditions are reordered into canonical signal order.
//   - Operators collapse to len(conditions)-1 copies of the single
//     operator already in use (AND if absent).
//
// Canonicalize is idempotent and depends only on the set of
// (signal, last expected value) pairs, never on input order.
func Canonicalize(e Expression) Expression {
	op := e.LogicalOperator()

	// Last write wins per signal. Unknown signals (from hand-edited
	// persisted rules) are dropped rather than evaluated.
	values := make(map[Signal]bool, len(e.Conditions))
	for _, c := range e.Conditions {
		if c.Signal.Valid() {
			values[c.Signal] = c.Expected
		}
	}

	var conditions []Condition
	for _, sig := range signalOrder {
		if expected, ok := values[sig]; ok {
			conditions = append(conditions, Condition{Signal: sig, Expected: expected})
		}
	}

	var operators []Operator
	if len(conditions) > 1 {
		operators = make([]Operator, len(conditions)-1)
		for i := range operators {
			operators[i] = op
		}
	}

	return Expression{Conditions: conditions, Operators: operators}
}

// LogicalOperator returns the expression's uniform operator: AND when no
// links exist (zero or one condition), otherwise the stored operator.
func (e Expression) LogicalOperator() Operator {
	if len(e.Operators) == 0 {
		return OperatorAnd
	}
	return e.Operators[0]
}

// SetLogicalOperator rewrites every link to op.
func (e *Expression) SetLogicalOperator(op Operator) {
	for i := range e.Operators {
		e.Operators[i] = op
	}
}

// SetSignal enables or disables a signal's condition.
//
// Enabling an absent signal appends Condition(signal, true) and grows the
// operator list by one copy of the current uniform operator (AND when
// this creates the first link). Enabling an already-present signal is a
// no-op. Disabling removes that signal's condition and shrinks the
// operator list to match.
//
// The invariant len(Operators) == max(0, len(Conditions)-1) holds after
// every call.
func (e *Expression) SetSignal(sig Signal, enabled bool) {
	idx := e.indexOf(sig)

	if enabled {
		if idx >= 0 {
			return
		}
		e.Conditions = append(e.Conditions, Condition{Signal: sig, Expected: true})
		if len(e.Conditions) > 1 {
			e.Operators = append(e.Operators, e.LogicalOperator())
		}
		return
	}

	if idx < 0 {
		return
	}
	e.Conditions = append(e.Conditions[:idx], e.Conditions[idx+1:]...)
	if want := len(e.Conditions) - 1; want >= 0 && len(e.Operators) > want {
		e.Operators = e.Operators[:want]
	} else if want < 0 {
		e.Operators = nil
	}
}

// SetExpectedValue sets the expected value of an existing condition.
// It never creates a condition: setting a value for an absent signal is
// a no-op.
func (e *Expression) SetExpectedValue(value bool, sig Signal) {
	if idx := e.indexOf(sig); idx >= 0 {
		e.Conditions[idx].Expected = value
	}
}

// SelectedSignalCount returns the number of distinct signals the
// expression tests.
func (e Expression) SelectedSignalCount() int {
	return len(Canonicalize(e).Conditions)
}

// Evaluate tests the expression against a live signal snapshot.
//
// An expression with zero conditions never matches. Otherwise each
// condition evaluates to (snapshot value == expected) and the results
// fold left to right with the uniform operator, short-circuiting on the
// first determining value: false for AND, true for OR.
func (e Expression) Evaluate(snap Snapshot) bool {
	c := Canonicalize(e)
	if len(c.Conditions) == 0 {
		return false
	}

	op := c.LogicalOperator()
	result := snap.Value(c.Conditions[0].Signal) == c.Conditions[0].Expected

	for _, cond := range c.Conditions[1:] {
		if op == OperatorAnd && !result {
			return false
		}
		if op == OperatorOr && result {
			return true
		}
		match := snap.Value(cond.Signal) == cond.Expected
		if op == OperatorAnd {
			result = result && match
		} else {
			result = result || match
		}
	}

	return result
}

// indexOf returns the index of the signal's condition, or -1.
func (e Expression) indexOf(sig Signal) int {
	for i, c := range e.Conditions {
		if c.Signal == sig {
			return i
		}
	}
	return -1
}
