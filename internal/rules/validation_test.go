package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/nerrad567/busylight-core/internal/light"
)

func validRule() *Rule {
	return &Rule{
		ID:      GenerateID(),
		Name:    "camera on",
		Enabled: true,
		Expression: Expression{
			Conditions: []Condition{{Signal: SignalCamera, Expected: true}},
		},
		Action: light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600},
	}
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Rule)
		wantErr error
	}{
		{
			name:   "valid rule",
			mutate: func(*Rule) {},
		},
		{
			name:    "empty name",
			mutate:  func(r *Rule) { r.Name = "" },
			wantErr: ErrInvalidName,
		},
		{
			name:    "name too long",
			mutate:  func(r *Rule) { r.Name = strings.Repeat("x", 101) },
			wantErr: ErrInvalidName,
		},
		{
			name: "unknown signal",
			mutate: func(r *Rule) {
				r.Expression.Conditions = []Condition{{Signal: "weather", Expected: true}}
			},
			wantErr: ErrInvalidExpression,
		},
		{
			name: "duplicate signal",
			mutate: func(r *Rule) {
				r.Expression = Expression{
					Conditions: []Condition{
						{Signal: SignalCamera, Expected: true},
						{Signal: SignalCamera, Expected: false},
					},
					Operators: []Operator{OperatorAnd},
				}
			},
			wantErr: ErrInvalidExpression,
		},
		{
			name: "operator count mismatch",
			mutate: func(r *Rule) {
				r.Expression = Expression{
					Conditions: []Condition{{Signal: SignalCamera, Expected: true}},
					Operators:  []Operator{OperatorAnd},
				}
			},
			wantErr: ErrInvalidExpression,
		},
		{
			name: "unknown operator",
			mutate: func(r *Rule) {
				r.Expression = Expression{
					Conditions: []Condition{
						{Signal: SignalCamera, Expected: true},
						{Signal: SignalMusic, Expected: true},
					},
					Operators: []Operator{"xor"},
				}
			},
			wantErr: ErrInvalidExpression,
		},
		{
			name: "mixed operators",
			mutate: func(r *Rule) {
				r.Expression = Expression{
					Conditions: []Condition{
						{Signal: SignalMicrophone, Expected: true},
						{Signal: SignalCamera, Expected: true},
						{Signal: SignalMusic, Expected: true},
					},
					Operators: []Operator{OperatorAnd, OperatorOr},
				}
			},
			wantErr: ErrInvalidExpression,
		},
		{
			name:    "unknown action mode",
			mutate:  func(r *Rule) { r.Action.Mode = "strobe" },
			wantErr: ErrInvalidAction,
		},
		{
			name:    "negative period",
			mutate:  func(r *Rule) { r.Action.PeriodMS = -1 },
			wantErr: ErrInvalidAction,
		},
		{
			name:   "off action is valid",
			mutate: func(r *Rule) { r.Action = light.Off() },
		},
		{
			name:   "empty expression is valid",
			mutate: func(r *Rule) { r.Expression = Expression{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validRule()
			tt.mutate(rule)

			err := ValidateRule(rule)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRule() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRule() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if id == "" {
			t.Fatal("GenerateID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("GenerateID() produced duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestRuleClone(t *testing.T) {
	original := validRule()
	original.Expression.SetSignal(SignalMusic, true)

	clone := original.Clone()
	clone.Name = "changed"
	clone.Expression.Conditions[0].Expected = false
	clone.Expression.Operators[0] = OperatorOr

	if original.Name != "camera on" {
		t.Error("clone shares name")
	}
	if !original.Expression.Conditions[0].Expected {
		t.Error("clone shares conditions slice")
	}
	if original.Expression.Operators[0] != OperatorAnd {
		t.Error("clone shares operators slice")
	}

	var nilRule *Rule
	if nilRule.Clone() != nil {
		t.Error("Clone of nil != nil")
	}
}
